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

package device

import "github.com/retrobus/netadapter/protocol"

// ChannelMode selects which view Read/Write/Status operate through.
type ChannelMode int

const (
	ModeProtocol ChannelMode = iota
	ModeJSON
	ModeNeon
)

// channel multiplexes Read/Write/Status across the Protocol/JSON/Neon
// views. Json and Neon reads are virtual: the view helpers
// (docview.JSONView, docview.NeonCompiler) pre-materialize their payload into the shared receive
// buffer, and a "read" here only accounts bytes the host has consumed.
type channel struct {
	mode        ChannelMode
	handler     protocol.NetworkProtocol
	jsonRemain  int
	neonRemain  int
	forceStatus bool
}

func (c *channel) read(n int) bool {
	switch c.mode {
	case ModeJSON:
		c.jsonRemain = saturatingSub(c.jsonRemain, n)
		return false
	case ModeNeon:
		c.neonRemain = saturatingSub(c.neonRemain, n)
		return false
	default:
		return c.handler.Read(n)
	}
}

func (c *channel) write(n int) bool {
	switch c.mode {
	case ModeJSON, ModeNeon:
		return true
	default:
		return c.handler.Write(n)
	}
}

func (c *channel) status(out *protocol.NetworkStatus) bool {
	switch c.mode {
	case ModeJSON:
		c.viewStatus(out, c.jsonRemain)
		return false
	case ModeNeon:
		c.viewStatus(out, c.neonRemain)
		return false
	default:
		fail := c.handler.Status(out)
		c.forceStatus = false
		return fail
	}
}

func (c *channel) viewStatus(out *protocol.NetworkStatus, remaining int) {
	out.RxBytesWaiting = uint16(remaining)
	out.Connected = remaining > 0
	if remaining > 0 {
		out.Error = protocol.ErrGeneral
	} else {
		out.Error = protocol.ErrEndOfFile
	}
}

func saturatingSub(v, n int) int {
	v -= n
	if v < 0 {
		return 0
	}
	return v
}
