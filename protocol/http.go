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

package protocol

import (
	"io"
	"net/http"
	"time"

	"github.com/retrobus/netadapter/bus"
	"github.com/retrobus/netadapter/urlspec"
)

// requestURL reassembles scheme://host[:port]/path[?query] for url,
// which urlspec.ParsedUrl doesn't do on its own since its String()
// method is scoped to the §8 round-trip test's narrower subset.
func requestURL(scheme string, url urlspec.ParsedUrl) string {
	u := scheme + "://" + url.Host
	if url.Port != "" {
		u += ":" + url.Port
	}
	u += url.Path
	if url.Query != "" {
		u += "?" + url.Query
	}
	return u
}

const httpTimeout = 30 * time.Second

// httpProtocol backs the HTTP and HTTPS schemes: Open issues the GET
// and buffers the whole body into the shared receive buffer.
type httpProtocol struct {
	scheme  string
	buffers *Buffers
	client  *http.Client

	connected bool
	err       byte
}

// NewHTTP satisfies Factory for the HTTP scheme.
func NewHTTP(buffers *Buffers, _ Credentials) NetworkProtocol {
	return &httpProtocol{scheme: "http", buffers: buffers, client: &http.Client{Timeout: httpTimeout}}
}

// NewHTTPS satisfies Factory for the HTTPS scheme.
func NewHTTPS(buffers *Buffers, _ Credentials) NetworkProtocol {
	return &httpProtocol{scheme: "https", buffers: buffers, client: &http.Client{Timeout: httpTimeout}}
}

func (h *httpProtocol) Open(url urlspec.ParsedUrl, _ bus.CommandFrame) bool {
	resp, err := h.client.Get(requestURL(h.scheme, url))
	if err != nil {
		h.err = ErrGeneral
		return true
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		h.err = ErrGeneral
		return true
	}
	if resp.StatusCode >= 400 {
		h.err = ErrDevice
		return true
	}

	h.buffers.AppendReceive(body)
	h.connected = true
	return false
}

func (h *httpProtocol) Close() bool {
	h.connected = false
	return false
}

// Read is a no-op: Open already buffered the whole body into Receive,
// and the command processor takes bytes out of it directly.
func (h *httpProtocol) Read(int) bool {
	return false
}

func (h *httpProtocol) Write(int) bool {
	h.err = ErrGeneral
	return true
}

func (h *httpProtocol) Status(out *NetworkStatus) bool {
	out.Connected = h.connected
	out.RxBytesWaiting = uint16(len(h.buffers.Receive))
	out.Error = h.err
	return false
}

func (h *httpProtocol) SpecialInquiry(byte) byte        { return DStatsNoneSup }
func (h *httpProtocol) Special00(bus.CommandFrame) bool { return false }
func (h *httpProtocol) Special40([]byte, int, bus.CommandFrame) bool {
	return false
}
func (h *httpProtocol) Special80([]byte, int, bus.CommandFrame) bool {
	return false
}
func (h *httpProtocol) PerformIdempotent80(url urlspec.ParsedUrl, _ bus.CommandFrame) bool {
	req, err := http.NewRequest(http.MethodDelete, requestURL(h.scheme, url), nil)
	if err != nil {
		return true
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return true
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 400
}
func (h *httpProtocol) Error() byte          { return h.err }
func (h *httpProtocol) InterruptEnable() bool { return true }
