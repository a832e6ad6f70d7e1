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

package bus

import (
	"errors"
	"sync"
)

// Loopback is a minimal BusIO double driven directly by test code: the
// caller queues frames and payloads the same way the real transport
// would decode them off the wire, then inspects Signals/Sent/Proceed
// afterwards. It has no analogue on real hardware, but gives the
// command processor's tests a concrete, named-interface collaborator
// in place of the out-of-scope transport.
type Loopback struct {
	mu sync.Mutex

	frames   []CommandFrame
	payloads [][]byte

	Signals []Signal
	Sent    [][]byte
	Proceed bool
}

// QueueFrame appends a frame RecvFrame will return next.
func (l *Loopback) QueueFrame(f CommandFrame) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.frames = append(l.frames, f)
}

// QueuePayload appends a payload RecvPayload will return next.
func (l *Loopback) QueuePayload(p []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.payloads = append(l.payloads, p)
}

func (l *Loopback) RecvFrame() (CommandFrame, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.frames) == 0 {
		return CommandFrame{}, errors.New("loopback: no queued frame")
	}
	f := l.frames[0]
	l.frames = l.frames[1:]
	return f, nil
}

func (l *Loopback) RecvPayload(n int) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.payloads) == 0 {
		return nil, errors.New("loopback: no queued payload")
	}
	p := l.payloads[0]
	l.payloads = l.payloads[1:]
	if len(p) > n {
		p = p[:n]
	}
	out := make([]byte, n)
	copy(out, p)
	return out, nil
}

func (l *Loopback) SendPayload(p []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := make([]byte, len(p))
	copy(cp, p)
	l.Sent = append(l.Sent, cp)
	return nil
}

func (l *Loopback) Signal(s Signal) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Signals = append(l.Signals, s)
	return nil
}

func (l *Loopback) SetProceed(asserted bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Proceed = asserted
}

// LastSignal returns the most recently emitted Signal, or false if none.
func (l *Loopback) LastSignal() (Signal, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.Signals) == 0 {
		return 0, false
	}
	return l.Signals[len(l.Signals)-1], true
}
