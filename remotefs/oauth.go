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

// Package remotefs implements a directory-tree facade over a
// Google-Drive-shaped REST object store: opaque file IDs, a
// parent-relationship graph, and a mimeType marking folders.
package remotefs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"golang.org/x/oauth2"
)

const (
	apiBase     = "https://www.googleapis.com/drive/v3"
	oauthIssuer = "https://oauth2.googleapis.com/token"
	redirectURI = "urn:ietf:wg:oauth:2.0:oob"
)

// Config carries the OAuth client credentials and authorization code
// issued out-of-band to the user.
type Config struct {
	ClientID     string
	ClientSecret string
	AccessCode   string
}

// FS is a started remote filesystem session: an authorized HTTP
// client plus the directory and content caches layered over it.
type FS struct {
	cfg    oauth2.Config
	token  *oauth2.Token
	client *http.Client

	dirCache  *DirCache
	fileCache *FileCache
}

// Start exchanges cfg.AccessCode for an access/refresh token pair,
// grounded on FileSystemGoogleDrive::start/exchange_oauth_code: the
// authorization-code exchange happens once, up front.
func Start(ctx context.Context, cfg Config, cache *FileCache) (*FS, error) {
	oc := oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  redirectURI,
		Endpoint:     oauth2.Endpoint{TokenURL: oauthIssuer},
	}

	token, err := oc.Exchange(ctx, cfg.AccessCode)
	if err != nil {
		log.Printf("remotefs: oauth exchange failed: %v", err)
		return nil, fmt.Errorf("remotefs: exchange oauth code: %w", err)
	}

	fs := &FS{
		cfg:       oc,
		token:     token,
		client:    &http.Client{},
		dirCache:  NewDirCache(),
		fileCache: cache,
	}
	log.Println("remotefs: started")
	return fs, nil
}

// refreshAccessToken replaces fs.token with a freshly refreshed one.
// Called by makeAPIRequest exactly once per request on a 401.
func (fs *FS) refreshAccessToken(ctx context.Context) error {
	if fs.token.RefreshToken == "" {
		return fmt.Errorf("remotefs: no refresh token")
	}
	src := fs.cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: fs.token.RefreshToken})
	fresh, err := src.Token()
	if err != nil {
		log.Printf("remotefs: token refresh failed: %v", err)
		return fmt.Errorf("remotefs: refresh access token: %w", err)
	}
	fs.token = fresh
	log.Println("remotefs: access token refreshed")
	return nil
}

func (fs *FS) authHeader() string {
	return "Bearer " + fs.token.AccessToken
}

// apiResponse is the result of a successful makeAPIRequest call: the
// response body, already drained, plus its status code.
type apiResponse struct {
	status int
	body   []byte
}

// makeAPIRequest issues method against apiBase+endpoint with body,
// retrying exactly once after a single token refresh on a 401,
// matching make_api_request's "no second refresh attempt" contract.
func (fs *FS) makeAPIRequest(ctx context.Context, method, endpoint string, body []byte) (*apiResponse, error) {
	resp, err := fs.doRequest(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	if resp.status == http.StatusUnauthorized {
		if err := fs.refreshAccessToken(ctx); err != nil {
			return resp, nil
		}
		resp, err = fs.doRequest(ctx, method, endpoint, body)
		if err != nil {
			return nil, err
		}
	}
	return resp, nil
}

func (fs *FS) doRequest(ctx context.Context, method, endpoint string, body []byte) (*apiResponse, error) {
	url := apiBase + endpoint
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("remotefs: build request: %w", err)
	}
	req.Header.Set("Authorization", fs.authHeader())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := fs.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remotefs: %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("remotefs: read response body: %w", err)
	}
	return &apiResponse{status: resp.StatusCode, body: data}, nil
}

// ok reports whether the API call succeeded (2xx), matching
// make_api_request's "response_code >= 200 && response_code < 300".
func (r *apiResponse) ok() bool {
	return r.status >= 200 && r.status < 300
}

func (r *apiResponse) decode(out interface{}) error {
	if err := json.Unmarshal(r.body, out); err != nil {
		return fmt.Errorf("remotefs: decode response: %w", err)
	}
	return nil
}
