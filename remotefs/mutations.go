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
	"encoding/json"
	"fmt"
)

// Remove deletes path by resolving its file ID first, matching
// FileSystemGoogleDrive::remove.
func (fs *FS) Remove(ctx context.Context, path string) error {
	id, err := fs.getFileID(ctx, path)
	if err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("remotefs: file not found: %s", path)
	}
	resp, err := fs.makeAPIRequest(ctx, "DELETE", "/files/"+id, nil)
	if err != nil {
		return err
	}
	if !resp.ok() {
		return fmt.Errorf("remotefs: remove %s: status %d", path, resp.status)
	}
	return nil
}

// Rename moves the file at pathFrom to the basename of pathTo,
// matching FileSystemGoogleDrive::rename (only the name changes; the
// Drive API call here does not reparent the file).
func (fs *FS) Rename(ctx context.Context, pathFrom, pathTo string) error {
	id, err := fs.getFileID(ctx, pathFrom)
	if err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("remotefs: file not found: %s", pathFrom)
	}

	segments := splitPath(pathTo)
	if len(segments) == 0 {
		return fmt.Errorf("remotefs: invalid destination: %s", pathTo)
	}
	newName := segments[len(segments)-1]

	body, err := json.Marshal(map[string]string{"name": newName})
	if err != nil {
		return fmt.Errorf("remotefs: encode rename body: %w", err)
	}

	resp, err := fs.makeAPIRequest(ctx, "POST", "/files/"+id, body)
	if err != nil {
		return err
	}
	if !resp.ok() {
		return fmt.Errorf("remotefs: rename %s: status %d", pathFrom, resp.status)
	}
	return nil
}

// Mkdir creates a folder at path, matching
// FileSystemGoogleDrive::mkdir.
func (fs *FS) Mkdir(ctx context.Context, path string) error {
	segments := splitPath(path)
	if len(segments) == 0 {
		return fmt.Errorf("remotefs: invalid path: %s", path)
	}
	name := segments[len(segments)-1]
	parent := segments[:len(segments)-1]

	parentID, err := fs.getFolderID(ctx, joinPath(parent))
	if err != nil {
		return err
	}
	if parentID == "" {
		return fmt.Errorf("remotefs: parent not found: %s", joinPath(parent))
	}

	body, err := json.Marshal(map[string]interface{}{
		"name":     name,
		"mimeType": folderMimeType,
		"parents":  []string{parentID},
	})
	if err != nil {
		return fmt.Errorf("remotefs: encode mkdir body: %w", err)
	}

	resp, err := fs.makeAPIRequest(ctx, "POST", "/files", body)
	if err != nil {
		return err
	}
	if !resp.ok() {
		return fmt.Errorf("remotefs: mkdir %s: status %d", path, resp.status)
	}
	return nil
}

// Rmdir removes the folder at path, refusing to remove root, matching
// FileSystemGoogleDrive::rmdir.
func (fs *FS) Rmdir(ctx context.Context, path string) error {
	id, err := fs.getFolderID(ctx, path)
	if err != nil {
		return err
	}
	if id == "" || id == "root" {
		return fmt.Errorf("remotefs: refusing to remove root or missing folder: %s", path)
	}
	resp, err := fs.makeAPIRequest(ctx, "DELETE", "/files/"+id, nil)
	if err != nil {
		return err
	}
	if !resp.ok() {
		return fmt.Errorf("remotefs: rmdir %s: status %d", path, resp.status)
	}
	return nil
}
