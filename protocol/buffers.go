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

// Buffers holds the three byte sequences spec.md's data model shares
// by reference between the command processor and the live handler:
// receive (peripheral->host), transmit (host->peripheral), and special
// (devicespec scratch). The command processor owns these; a handler
// holds a non-owning reference valid only for its own lifetime.
type Buffers struct {
	Receive  []byte
	Transmit []byte
	Special  []byte
}

// NewBuffers returns a fresh, empty set of buffers.
func NewBuffers() *Buffers {
	return &Buffers{}
}

// AppendReceive appends p to the receive buffer.
func (b *Buffers) AppendReceive(p []byte) {
	b.Receive = append(b.Receive, p...)
}

// TakeReceive removes and returns the first n bytes of the receive
// buffer, padding with NUL if fewer than n are available.
func (b *Buffers) TakeReceive(n int) []byte {
	out := make([]byte, n)
	copy(out, b.Receive)
	if n >= len(b.Receive) {
		b.Receive = b.Receive[:0]
	} else {
		b.Receive = b.Receive[n:]
	}
	return out
}

// AppendTransmit appends p to the transmit buffer (host->peripheral).
func (b *Buffers) AppendTransmit(p []byte) {
	b.Transmit = append(b.Transmit, p...)
}

// DrainTransmit removes and returns every byte currently queued in the
// transmit buffer.
func (b *Buffers) DrainTransmit() []byte {
	out := b.Transmit
	b.Transmit = nil
	return out
}

// Reset clears all three buffers, called when a handler is dropped.
func (b *Buffers) Reset() {
	b.Receive = nil
	b.Transmit = nil
	b.Special = nil
}
