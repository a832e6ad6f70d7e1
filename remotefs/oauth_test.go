package remotefs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/oauth2"
)

func tokenHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"access_token":  "refreshed-token",
		"token_type":    "Bearer",
		"refresh_token": "refreshed-refresh",
		"expires_in":    3600,
	})
}

func TestMakeAPIRequestSuccessFirstTry(t *testing.T) {
	var seenAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("/files/x", func(w http.ResponseWriter, r *http.Request) {
		seenAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	fs := newTestFS(srv)
	resp, err := fs.makeAPIRequest(context.Background(), "GET", "/files/x", nil)
	if err != nil {
		t.Fatalf("makeAPIRequest: %v", err)
	}
	if !resp.ok() {
		t.Fatalf("status = %d, want 2xx", resp.status)
	}
	if seenAuth != "Bearer initial-token" {
		t.Errorf("Authorization = %q", seenAuth)
	}
}

func TestMakeAPIRequestRetriesOnceAfter401(t *testing.T) {
	var bearersSeen []string
	mux := http.NewServeMux()
	mux.HandleFunc("/files/x", func(w http.ResponseWriter, r *http.Request) {
		bearersSeen = append(bearersSeen, r.Header.Get("Authorization"))
		if r.Header.Get("Authorization") == "Bearer initial-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	})
	mux.HandleFunc("/oauth/token", tokenHandler)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	fs := newTestFS(srv)
	resp, err := fs.makeAPIRequest(context.Background(), "GET", "/files/x", nil)
	if err != nil {
		t.Fatalf("makeAPIRequest: %v", err)
	}
	if !resp.ok() {
		t.Fatalf("status = %d, want 2xx after refresh-and-retry", resp.status)
	}
	if len(bearersSeen) != 2 {
		t.Fatalf("saw %d requests, want exactly 2", len(bearersSeen))
	}
	if bearersSeen[0] != "Bearer initial-token" || bearersSeen[1] != "Bearer refreshed-token" {
		t.Errorf("bearers seen = %v", bearersSeen)
	}
	if fs.token.AccessToken != "refreshed-token" {
		t.Errorf("fs.token.AccessToken = %q, want refreshed-token", fs.token.AccessToken)
	}
}

func TestMakeAPIRequestDoesNotRetryTwice(t *testing.T) {
	requests := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/files/x", func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/oauth/token", tokenHandler)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	fs := newTestFS(srv)
	resp, err := fs.makeAPIRequest(context.Background(), "GET", "/files/x", nil)
	if err != nil {
		t.Fatalf("makeAPIRequest: %v", err)
	}
	if resp.status != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 (second attempt still unauthorized)", resp.status)
	}
	if requests != 2 {
		t.Errorf("requests = %d, want exactly 2 (one retry, no more)", requests)
	}
}

func TestRefreshAccessTokenFailsWithoutRefreshToken(t *testing.T) {
	fs := &FS{token: &oauth2.Token{AccessToken: "a"}}
	if err := fs.refreshAccessToken(context.Background()); err == nil {
		t.Error("expected an error with no refresh token set")
	}
}
