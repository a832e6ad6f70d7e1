package remotefs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSplitPath(t *testing.T) {
	cases := map[string][]string{
		"":          nil,
		"/":         nil,
		"/a/b/c":    {"a", "b", "c"},
		"a/b":       {"a", "b"},
		"/a//b/":    {"a", "b"},
	}
	for in, want := range cases {
		got := splitPath(in)
		if len(got) != len(want) {
			t.Errorf("splitPath(%q) = %v, want %v", in, got, want)
			continue
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("splitPath(%q) = %v, want %v", in, got, want)
				break
			}
		}
	}
}

func TestJoinPath(t *testing.T) {
	if got := joinPath(nil); got != "/" {
		t.Errorf("joinPath(nil) = %q, want %q", got, "/")
	}
	if got := joinPath([]string{"a", "b"}); got != "/a/b" {
		t.Errorf("joinPath = %q, want %q", got, "/a/b")
	}
}

func TestEscapeQueryValue(t *testing.T) {
	if got := escapeQueryValue(`O'Brien`); got != `O\'Brien` {
		t.Errorf("escapeQueryValue = %q", got)
	}
}

func TestGetFolderIDRoot(t *testing.T) {
	fs := newTestFS(httptest.NewServer(http.NotFoundHandler()))
	id, err := fs.getFolderID(context.Background(), "/")
	if err != nil {
		t.Fatalf("getFolderID: %v", err)
	}
	if id != "root" {
		t.Errorf("id = %q, want root", id)
	}
}

func TestGetFolderIDWalksSegments(t *testing.T) {
	mux := http.NewServeMux()
	var queriesSeen []string
	mux.HandleFunc("/files", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		queriesSeen = append(queriesSeen, q)
		w.Header().Set("Content-Type", "application/json")
		switch {
		case len(queriesSeen) == 1:
			w.Write([]byte(`{"files":[{"id":"folderA"}]}`))
		case len(queriesSeen) == 2:
			w.Write([]byte(`{"files":[{"id":"folderB"}]}`))
		default:
			w.Write([]byte(`{"files":[]}`))
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	fs := newTestFS(srv)
	id, err := fs.getFolderID(context.Background(), "/a/b")
	if err != nil {
		t.Fatalf("getFolderID: %v", err)
	}
	if id != "folderB" {
		t.Errorf("id = %q, want folderB", id)
	}
	if len(queriesSeen) != 2 {
		t.Fatalf("queries = %d, want 2 (one per path segment)", len(queriesSeen))
	}
}

func TestGetFolderIDMissingSegmentReturnsEmpty(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/files", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"files":[]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	fs := newTestFS(srv)
	id, err := fs.getFolderID(context.Background(), "/missing")
	if err != nil {
		t.Fatalf("getFolderID: %v", err)
	}
	if id != "" {
		t.Errorf("id = %q, want empty", id)
	}
}

func TestGetFileIDDropsMimeFilterOnLastSegment(t *testing.T) {
	mux := http.NewServeMux()
	var queriesSeen []string
	mux.HandleFunc("/files", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		queriesSeen = append(queriesSeen, q)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"files":[{"id":"file1"}]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	fs := newTestFS(srv)
	id, err := fs.getFileID(context.Background(), "/dir/name.txt")
	if err != nil {
		t.Fatalf("getFileID: %v", err)
	}
	if id != "file1" {
		t.Errorf("id = %q, want file1", id)
	}
	last := queriesSeen[len(queriesSeen)-1]
	if containsSubstring(last, "mimeType=") {
		t.Errorf("file query should drop the folder mime filter, got %q", last)
	}
}

func containsSubstring(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
