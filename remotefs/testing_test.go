package remotefs

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
)

// apiBasePath is the path component of apiBase (e.g. "/drive/v3"),
// stripped by rewriteTransport so httptest mux patterns like "/files"
// match regardless of the production apiBase prefix.
var apiBasePath = func() string {
	u, _ := url.Parse(apiBase)
	return u.Path
}()

// rewriteTransport redirects every outgoing request to target's host,
// letting tests point the hardcoded apiBase at an httptest.Server
// without touching production code.
type rewriteTransport struct {
	target *url.URL
}

func (t *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = t.target.Scheme
	req.URL.Host = t.target.Host
	req.URL.Path = strings.TrimPrefix(req.URL.Path, apiBasePath)
	return http.DefaultTransport.RoundTrip(req)
}

// newTestFS builds an FS whose client routes to srv and whose token is
// already populated, skipping the OAuth exchange dance. The refresh
// endpoint also points at srv, so tests can serve it from the same
// httptest.Server by switching on request path.
func newTestFS(srv *httptest.Server) *FS {
	target, _ := url.Parse(srv.URL)
	return &FS{
		cfg: oauth2.Config{
			Endpoint: oauth2.Endpoint{TokenURL: srv.URL + "/oauth/token"},
		},
		token: &oauth2.Token{AccessToken: "initial-token", RefreshToken: "initial-refresh"},
		client: &http.Client{
			Transport: &rewriteTransport{target: target},
		},
		dirCache:  NewDirCache(),
		fileCache: nil,
	}
}
