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

// testProtocol is the TEST scheme's handler: a pure in-memory
// loopback. Bytes written by the host come back out on the next Read,
// in FIFO order. It never touches the network, so it is also what the
// end-to-end tests and the ndastatus demo use.
type testProtocol struct {
	buffers   *Buffers
	connected bool
	echo      []byte
	err       byte
}

// NewTest satisfies Factory for the TEST scheme.
func NewTest(buffers *Buffers, _ Credentials) NetworkProtocol {
	return &testProtocol{buffers: buffers}
}

func (t *testProtocol) Open(urlspec.ParsedUrl, bus.CommandFrame) bool {
	t.connected = true
	return false
}

func (t *testProtocol) Close() bool {
	t.connected = false
	return false
}

func (t *testProtocol) Read(n int) bool {
	if n > len(t.echo) {
		n = len(t.echo)
	}
	t.buffers.AppendReceive(t.echo[:n])
	t.echo = t.echo[n:]
	return false
}

func (t *testProtocol) Write(n int) bool {
	if n > len(t.buffers.Transmit) {
		n = len(t.buffers.Transmit)
	}
	t.echo = append(t.echo, t.buffers.Transmit[:n]...)
	t.buffers.Transmit = t.buffers.Transmit[n:]
	return false
}

func (t *testProtocol) Status(out *NetworkStatus) bool {
	out.Connected = t.connected
	out.RxBytesWaiting = uint16(len(t.echo))
	out.Error = t.err
	return false
}

func (t *testProtocol) SpecialInquiry(byte) byte        { return DStatsNoneSup }
func (t *testProtocol) Special00(bus.CommandFrame) bool { return false }
func (t *testProtocol) Special40([]byte, int, bus.CommandFrame) bool {
	return false
}
func (t *testProtocol) Special80([]byte, int, bus.CommandFrame) bool {
	return false
}
func (t *testProtocol) PerformIdempotent80(urlspec.ParsedUrl, bus.CommandFrame) bool {
	return false
}
func (t *testProtocol) Error() byte           { return t.err }
func (t *testProtocol) InterruptEnable() bool { return true }
