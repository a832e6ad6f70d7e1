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
	"log"
	"net/url"
	"sort"
	"strconv"
	"time"
)

// DirEntry mirrors fsdir_entry: the fields a directory listing
// surfaces to the host.
type DirEntry struct {
	Name         string
	IsDir        bool
	Size         uint32
	ModifiedTime time.Time
}

// DirCache holds the most recently listed directory's full entry set,
// keyed by the path it was built for, mirroring the original firmware's
// _last_dir. A dir_open on the same path reuses entries with zero
// network calls, regardless of the wildcard pattern that open passes:
// view holds the current pattern-narrowed projection of entries, kept
// separate so a later dir_open on the same path with a looser pattern
// still sees the full listing.
type DirCache struct {
	lastDir string
	entries []DirEntry
	view    []DirEntry
	pos     int
}

// NewDirCache returns an empty, invalidated cache.
func NewDirCache() *DirCache {
	return &DirCache{lastDir: ""}
}

// OpenDir lists path's children, reusing the cache when path matches
// the last directory listed, matching dir_open's cache-hit branch.
func (fs *FS) OpenDir(ctx context.Context, path, pattern string) error {
	dc := fs.dirCache
	if dc.lastDir == path && len(dc.entries) > 0 {
		log.Println("remotefs: directory cache hit")
		dc.applyFilter(pattern)
		return nil
	}

	log.Println("remotefs: filling directory cache")
	dc.entries = nil
	dc.lastDir = ""

	folderID, err := fs.getFolderID(ctx, path)
	if err != nil {
		return err
	}
	if folderID == "" {
		return fmt.Errorf("remotefs: directory not found: %s", path)
	}

	query := fmt.Sprintf("'%s' in parents and trashed=false", folderID)
	endpoint := "/files?q=" + url.QueryEscape(query) + "&fields=" + url.QueryEscape("files(id,name,mimeType,size,modifiedTime)")
	resp, err := fs.makeAPIRequest(ctx, "GET", endpoint, nil)
	if err != nil {
		return err
	}
	if !resp.ok() {
		return fmt.Errorf("remotefs: list directory %s: status %d", path, resp.status)
	}

	var list fileListResponse
	if err := resp.decode(&list); err != nil {
		return err
	}

	for _, f := range list.Files {
		dc.entries = append(dc.entries, driveFileToEntry(f))
	}
	sort.Slice(dc.entries, func(i, j int) bool {
		return dc.entries[i].Name < dc.entries[j].Name
	})
	dc.lastDir = path
	dc.applyFilter(pattern)
	return nil
}

func driveFileToEntry(f driveFile) DirEntry {
	e := DirEntry{
		Name:  f.Name,
		IsDir: f.MimeType == folderMimeType,
	}
	if size, err := strconv.ParseUint(f.Size, 10, 32); err == nil {
		e.Size = uint32(size)
	}
	if f.ModifiedTime != "" {
		if t, err := time.Parse(time.RFC3339, f.ModifiedTime); err == nil {
			e.ModifiedTime = t
		}
	}
	return e
}

// applyFilter computes view, the pattern-narrowed projection of the
// full cached entries, mirroring _dircache.apply_filter. It never
// mutates entries itself, so a later dir_open on the same path with a
// different (or no) pattern still sees the complete listing. An empty
// pattern matches everything.
func (dc *DirCache) applyFilter(pattern string) {
	if pattern == "" || pattern == "*" {
		dc.view = dc.entries
		dc.pos = 0
		return
	}
	view := make([]DirEntry, 0, len(dc.entries))
	for _, e := range dc.entries {
		if matchPattern(pattern, e.Name) {
			view = append(view, e)
		}
	}
	dc.view = view
	dc.pos = 0
}

// matchPattern implements the '*'/'?' glob the devicespec wildcard
// step produces.
func matchPattern(pattern, name string) bool {
	return globMatch([]rune(pattern), []rune(name))
}

func globMatch(pattern, name []rune) bool {
	if len(pattern) == 0 {
		return len(name) == 0
	}
	switch pattern[0] {
	case '*':
		for i := 0; i <= len(name); i++ {
			if globMatch(pattern[1:], name[i:]) {
				return true
			}
		}
		return false
	case '?':
		if len(name) == 0 {
			return false
		}
		return globMatch(pattern[1:], name[1:])
	default:
		if len(name) == 0 || pattern[0] != name[0] {
			return false
		}
		return globMatch(pattern[1:], name[1:])
	}
}

// Read returns the next entry in the current filtered view, matching
// dir_read, or nil when exhausted.
func (dc *DirCache) Read() *DirEntry {
	if dc.pos >= len(dc.view) {
		return nil
	}
	e := dc.view[dc.pos]
	dc.pos++
	return &e
}

// Tell and Seek expose the cache cursor, matching dir_tell/dir_seek.
func (dc *DirCache) Tell() int { return dc.pos }

func (dc *DirCache) Seek(pos int) bool {
	if pos < 0 || pos > len(dc.view) {
		return false
	}
	dc.pos = pos
	return true
}
