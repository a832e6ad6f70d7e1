/*
Copyright (c) 2020-2026 Network Device Adapter Contributors

This software is provided 'as-is', without any express or implied
warranty. In no event will the authors be held liable for any damages
arising from the use of this software.

Permission is granted to anyone to use this software for any purpose,
including commercial applications, and to alter it and redistribute it
freely, subject to the following restrictions:

1. The origin of this software must not be misrepresented; you must not
   claim that you wrote the original software. If you use this software
   in a product, an acknowledgment in the product documentation would be
   appreciated but is not required.
2. Altered source versions must be plainly marked as such, and must not be
   misrepresented as being the original software.
3. This notice may not be removed or altered from any source distribution.
*/

package remotefs

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

const folderMimeType = "application/vnd.google-apps.folder"

// driveFile is the subset of a Drive API file resource this adapter
// cares about.
type driveFile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mimeType"`
	Size         string `json:"size"`
	ModifiedTime string `json:"modifiedTime"`
}

type fileListResponse struct {
	Files []driveFile `json:"files"`
}

// splitPath breaks path into its non-empty segments, matching
// split_path's behaviour of dropping a leading slash and any empty
// component.
func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	trimmed := strings.TrimPrefix(path, "/")
	var out []string
	for _, seg := range strings.Split(trimmed, "/") {
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

// joinPath reassembles segments into an absolute path, matching
// join_path's "/" for an empty slice.
func joinPath(segments []string) string {
	if len(segments) == 0 {
		return "/"
	}
	return "/" + strings.Join(segments, "/")
}

// getFolderID walks path from root, one segment at a time, returning
// the terminal folder's ID or "" if any segment is not found.
// Grounded on FileSystemGoogleDrive::get_folder_id.
func (fs *FS) getFolderID(ctx context.Context, path string) (string, error) {
	if path == "" || path == "/" {
		return "root", nil
	}

	current := "root"
	for _, seg := range splitPath(path) {
		query := fmt.Sprintf("name='%s' and '%s' in parents and mimeType='%s' and trashed=false",
			escapeQueryValue(seg), current, folderMimeType)
		id, err := fs.queryFirstFileID(ctx, query)
		if err != nil {
			return "", err
		}
		if id == "" {
			return "", nil
		}
		current = id
	}
	return current, nil
}

// getFileID resolves path to a file ID, applying the folder-mime
// filter only to the parent directories; the last segment drops it,
// matching get_file_id vs get_folder_id's split.
func (fs *FS) getFileID(ctx context.Context, path string) (string, error) {
	segments := splitPath(path)
	if len(segments) == 0 {
		return "", nil
	}
	filename := segments[len(segments)-1]
	parent := segments[:len(segments)-1]

	parentID, err := fs.getFolderID(ctx, joinPath(parent))
	if err != nil || parentID == "" {
		return "", err
	}

	query := fmt.Sprintf("name='%s' and '%s' in parents and trashed=false",
		escapeQueryValue(filename), parentID)
	return fs.queryFirstFileID(ctx, query)
}

func (fs *FS) queryFirstFileID(ctx context.Context, query string) (string, error) {
	endpoint := "/files?q=" + url.QueryEscape(query)
	resp, err := fs.makeAPIRequest(ctx, "GET", endpoint, nil)
	if err != nil {
		return "", err
	}
	if !resp.ok() {
		return "", nil
	}

	var list fileListResponse
	if err := resp.decode(&list); err != nil {
		return "", err
	}
	if len(list.Files) == 0 {
		return "", nil
	}
	return list.Files[0].ID, nil
}

func escapeQueryValue(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}
