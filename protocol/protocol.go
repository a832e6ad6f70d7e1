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

// Special-inquiry direction codes a protocol (or the global default
// table) reports for a given special command byte.
const (
	DStatsNone    byte = 0x00
	DStatsRead    byte = 0x40
	DStatsWrite   byte = 0x80
	DStatsNoneSup byte = 0xFF
)

// NetworkProtocol is the capability the command processor consumes for
// every concrete wire protocol variant. The boolean returns preserve
// the legacy inverted convention the original firmware used: true
// means failure. The command processor keeps these booleans and turns
// a failure into an ERROR signal plus a status error code.
type NetworkProtocol interface {
	// Open establishes the connection described by url. frame carries
	// the aux1/aux2 bytes the host sent with the Open command.
	Open(url urlspec.ParsedUrl, frame bus.CommandFrame) bool
	Close() bool

	// Read appends up to n bytes into the shared receive buffer.
	Read(n int) bool
	// Write consumes up to n bytes from the shared transmit buffer.
	Write(n int) bool
	// Status populates out with the protocol's current view of the
	// connection.
	Status(out *NetworkStatus) bool

	SpecialInquiry(cmd byte) byte
	Special00(frame bus.CommandFrame) bool
	Special40(buf []byte, length int, frame bus.CommandFrame) bool
	Special80(buf []byte, length int, frame bus.CommandFrame) bool
	PerformIdempotent80(url urlspec.ParsedUrl, frame bus.CommandFrame) bool

	// Error returns the most recent host-visible error code.
	Error() byte

	// InterruptEnable reports whether this handler permits the
	// interrupt rate limiter to drive PROCEED.
	InterruptEnable() bool
}

// Credentials carries the login/password a devicespec's 'login'/
// 'password' specials set before Open.
type Credentials struct {
	Login    string
	Password string
}

// Factory produces a NetworkProtocol bound to shared buffers and
// credentials. Registered per-scheme in a Registry.
type Factory func(buffers *Buffers, creds Credentials) NetworkProtocol
