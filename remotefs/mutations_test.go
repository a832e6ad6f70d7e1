package remotefs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRemoveDeletesResolvedFile(t *testing.T) {
	var deletedID string
	mux := http.NewServeMux()
	mux.HandleFunc("/files", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"files":[{"id":"f1"}]}`))
	})
	mux.HandleFunc("/files/f1", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			deletedID = "f1"
			w.WriteHeader(http.StatusNoContent)
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	fs := newTestFS(srv)

	if err := fs.Remove(context.Background(), "/a.txt"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if deletedID != "f1" {
		t.Error("DELETE was not sent to the resolved file ID")
	}
}

func TestRemoveMissingFileErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/files", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"files":[]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	fs := newTestFS(srv)

	if err := fs.Remove(context.Background(), "/missing.txt"); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestRenameSendsNewBasenameOnly(t *testing.T) {
	var body string
	mux := http.NewServeMux()
	mux.HandleFunc("/files", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"files":[{"id":"f1"}]}`))
	})
	mux.HandleFunc("/files/f1", func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 256)
		n, _ := r.Body.Read(buf)
		body = string(buf[:n])
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	fs := newTestFS(srv)

	if err := fs.Rename(context.Background(), "/old.txt", "/dir/new.txt"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if !containsSubstring(body, `"name":"new.txt"`) {
		t.Errorf("rename body = %q, want it to carry only the new basename", body)
	}
}

func TestMkdirPostsFolderMimeType(t *testing.T) {
	var body string
	mux := http.NewServeMux()
	mux.HandleFunc("/files", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"files":[{"id":"parent1"}]}`))
			return
		}
		buf := make([]byte, 512)
		n, _ := r.Body.Read(buf)
		body = string(buf[:n])
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	fs := newTestFS(srv)

	if err := fs.Mkdir(context.Background(), "/docs/newdir"); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	if !containsSubstring(body, folderMimeType) {
		t.Errorf("mkdir body = %q, want mimeType %q", body, folderMimeType)
	}
}

func TestRmdirRefusesRoot(t *testing.T) {
	fs := newTestFS(httptest.NewServer(http.NotFoundHandler()))
	if err := fs.Rmdir(context.Background(), "/"); err == nil {
		t.Error("Rmdir on root should refuse")
	}
}

func TestRmdirDeletesResolvedFolder(t *testing.T) {
	var deleted bool
	mux := http.NewServeMux()
	mux.HandleFunc("/files", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"files":[{"id":"folder1"}]}`))
	})
	mux.HandleFunc("/files/folder1", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			deleted = true
			w.WriteHeader(http.StatusNoContent)
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	fs := newTestFS(srv)

	if err := fs.Rmdir(context.Background(), "/docs/old"); err != nil {
		t.Fatalf("Rmdir: %v", err)
	}
	if !deleted {
		t.Error("expected a DELETE on the resolved folder ID")
	}
}
