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
	"github.com/retrobus/netadapter/bus"
	"github.com/retrobus/netadapter/urlspec"
)

// stubProtocol backs schemes the registry recognizes but has no real
// transport for (TNFS, FTP, SSH, SMB). Open always succeeds so the
// channel mode engine can still exercise JSON/Neon views against
// whatever name the host sent. Close and Status succeed as well; Read,
// Write, the special operations and PerformIdempotent80 report failure
// rather than silently doing nothing, and SpecialInquiry reports every
// command as unsupported.
type stubProtocol struct {
	name      string
	buffers   *Buffers
	connected bool
	err       byte
}

// newStub returns a Factory that always produces a stubProtocol
// labeled with name, for registry diagnostics.
func newStub(name string) Factory {
	return func(buffers *Buffers, _ Credentials) NetworkProtocol {
		return &stubProtocol{name: name, buffers: buffers}
	}
}

func (s *stubProtocol) Open(urlspec.ParsedUrl, bus.CommandFrame) bool {
	s.connected = true
	return false
}

func (s *stubProtocol) Close() bool {
	s.connected = false
	return false
}

func (s *stubProtocol) Read(int) bool {
	s.err = ErrGeneral
	return true
}

func (s *stubProtocol) Write(int) bool {
	s.err = ErrGeneral
	return true
}

func (s *stubProtocol) Status(out *NetworkStatus) bool {
	out.Connected = s.connected
	out.Error = s.err
	return false
}

func (s *stubProtocol) SpecialInquiry(byte) byte        { return DStatsNoneSup }
func (s *stubProtocol) Special00(bus.CommandFrame) bool { return true }
func (s *stubProtocol) Special40([]byte, int, bus.CommandFrame) bool {
	return true
}
func (s *stubProtocol) Special80([]byte, int, bus.CommandFrame) bool {
	return true
}
func (s *stubProtocol) PerformIdempotent80(urlspec.ParsedUrl, bus.CommandFrame) bool {
	return true
}
func (s *stubProtocol) Error() byte           { return s.err }
func (s *stubProtocol) InterruptEnable() bool { return true }
