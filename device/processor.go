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

// Package device implements the N: command processor: the state
// machine that turns host command frames into protocol operations,
// multiplexed through the channel mode engine and paced by the
// interrupt rate limiter.
package device

import (
	"log"
	"time"

	"github.com/retrobus/netadapter/bus"
	"github.com/retrobus/netadapter/docview"
	"github.com/retrobus/netadapter/protocol"
	"github.com/retrobus/netadapter/urlspec"
)

// state is the processor's coarse Idle/Open state, named for spec.md
// §4.6's two-state machine.
type state int

const (
	stateIdle state = iota
	stateOpen
)

// idempotent-one-shot special opcodes: rename, delete, lock, unlock,
// mkdir, rmdir. None of these open a persistent channel.
var idempotentOpcodes = map[byte]bool{
	0x20: true, 0x21: true, 0x23: true, 0x24: true, 0x2A: true, 0x2B: true,
}

// Processor is the N: device's command-processor state machine,
// grounded on the teacher's disk.Device opcode switch and keyboard's
// ticker/IRQ pair (now device/interrupt.go's rateLimiter).
type Processor struct {
	deviceID byte
	registry *protocol.Registry

	st      state
	buffers *protocol.Buffers
	prefix  urlspec.Prefix
	creds   protocol.Credentials

	channel   channel
	json      docview.JSONView
	neon      docview.NeonCompiler
	translate bool

	timer  *rateLimiter
	status protocol.NetworkStatus
}

// NewProcessor returns an Idle processor bound to reg for handler
// instantiation, addressed as deviceID on the bus.
func NewProcessor(deviceID byte, reg *protocol.Registry) *Processor {
	return &Processor{
		deviceID: deviceID,
		registry: reg,
		buffers:  protocol.NewBuffers(),
		timer:    newRateLimiter(),
	}
}

// Handle dispatches a single CommandFrame, reading/writing payloads
// through b as required, and emits exactly one of ACK+COMPLETE or
// ACK+ERROR (NAK for an unrecognized special dstats), matching spec.md
// §4.6: the processor always acknowledges a well-formed frame first.
func (p *Processor) Handle(b bus.BusIO, frame bus.CommandFrame) error {
	if err := b.Signal(bus.SignalACK); err != nil {
		return err
	}

	var fail bool
	switch frame.Opcode {
	case bus.OpOpen:
		fail = p.handleOpen(b, frame)
	case bus.OpClose:
		fail = p.handleClose()
	case bus.OpRead:
		fail = p.handleRead(b, frame)
	case bus.OpWrite:
		fail = p.handleWrite(b, frame)
	case bus.OpStatus:
		fail = p.handleStatus(b, frame)
	case bus.OpHighSpeed:
		return b.Signal(bus.SignalComplete)
	case bus.OpSpecialInq:
		return p.handleSpecialInquiry(b, frame)
	default:
		return p.handleSpecial(b, frame)
	}

	if fail {
		return b.Signal(bus.SignalError)
	}
	return b.Signal(bus.SignalComplete)
}

func (p *Processor) handleOpen(b bus.BusIO, frame bus.CommandFrame) bool {
	p.buffers.Special = make([]byte, 256)
	p.timer.timerStop()
	if p.st == stateOpen {
		p.dropHandler()
	}
	p.status.Reset()

	raw, err := b.RecvPayload(256)
	if err != nil {
		p.status.Error = protocol.ErrGeneral
		return true
	}

	spec := urlspec.Normalize(raw, urlspec.NormalizeOptions{
		Aux1:     frame.Aux1,
		DeviceID: p.deviceID,
		Prefix:   p.prefix.String(),
	})
	url := urlspec.Parse(spec)
	if !url.Valid {
		p.status.Error = protocol.ErrInvalidDeviceSpec
		return true
	}

	factory := p.registry.Lookup(url.Scheme)
	if factory == nil {
		p.status.Error = protocol.ErrGeneral
		return true
	}

	handler := factory(p.buffers, p.creds)
	if handler.Open(url, frame) {
		p.status.Error = handler.Error()
		log.Printf("device: open %s failed: code %d", url.Scheme, handler.Error())
		return true
	}

	p.channel.handler = handler
	p.channel.mode = ModeProtocol
	p.channel.forceStatus = true
	p.json = docview.JSONView{}
	p.neon = docview.NeonCompiler{}
	p.st = stateOpen
	p.timer.timerStart()
	log.Printf("device: opened %s", url.String())
	return false
}

func (p *Processor) handleClose() bool {
	p.status.Reset()
	if p.st != stateOpen {
		return false
	}
	fail := p.channel.handler.Close()
	log.Printf("device: closed, fail=%v", fail)
	p.dropHandler()
	return fail
}

// dropHandler releases the live handler without touching the timer.
// Close does not stop the timer; the next Open's prelude stops it
// instead, matching the original firmware's sio_close.
func (p *Processor) dropHandler() {
	p.channel.handler = nil
	p.buffers.Reset()
	p.buffers.Special = nil
	p.st = stateIdle
}

func (p *Processor) handleRead(b bus.BusIO, frame bus.CommandFrame) bool {
	n := int(frame.Aux())
	if p.buffers == nil {
		p.status.Error = protocol.ErrCouldNotAllocateBufs
		return true
	}
	if p.st != stateOpen {
		p.status.Error = protocol.ErrNotConnected
		return true
	}
	if fail := p.channel.read(n); fail {
		p.status.Error = p.channel.handler.Error()
		return true
	}
	payload := p.buffers.TakeReceive(n)
	if p.translate {
		payload = translateAtascii(payload)
	}
	if err := b.SendPayload(payload); err != nil {
		p.status.Error = protocol.ErrGeneral
		return true
	}
	return false
}

func (p *Processor) handleWrite(b bus.BusIO, frame bus.CommandFrame) bool {
	n := int(frame.Aux())
	if p.buffers.Special == nil {
		p.status.Error = protocol.ErrGeneral
		return true
	}
	if p.st != stateOpen {
		p.status.Error = protocol.ErrNotConnected
		return true
	}
	scratch, err := b.RecvPayload(n)
	if err != nil {
		p.status.Error = protocol.ErrGeneral
		return true
	}
	if p.translate {
		scratch = translateAtascii(scratch)
	}
	p.buffers.AppendTransmit(scratch)
	if fail := p.channel.write(n); fail {
		p.status.Error = p.channel.handler.Error()
		return true
	}
	return false
}

func (p *Processor) handleStatus(b bus.BusIO, frame bus.CommandFrame) bool {
	var out protocol.NetworkStatus
	if p.st != stateOpen {
		out = p.localStatus(frame.Aux2)
	} else {
		if fail := p.channel.status(&out); fail {
			p.status.Error = p.channel.handler.Error()
		}
	}
	wire := out.Serialize()
	if err := b.SendPayload(wire[:]); err != nil {
		return true
	}
	return false
}

// localStatus answers the 'S' opcode while Idle: aux2 selects a
// network-configuration field, none of which this adapter models, so
// every selector besides the default reports zero.
func (p *Processor) localStatus(aux2 byte) protocol.NetworkStatus {
	switch aux2 {
	case 1, 2, 3, 4:
		return protocol.NetworkStatus{}
	default:
		return protocol.NetworkStatus{Connected: false, Error: p.status.Error}
	}
}

// Poll is invoked by the outer main loop once per iteration. It
// applies C5's gating predicate and drives b's PROCEED line.
func (p *Processor) Poll(b bus.BusIO) {
	var st protocol.NetworkStatus
	connected := false
	rxWaiting := 0
	interruptsEnabled := false
	if p.st == stateOpen && p.channel.handler != nil {
		interruptsEnabled = p.channel.handler.InterruptEnable()
		if !p.channel.handler.Status(&st) {
			connected = st.Connected
			rxWaiting = int(st.RxBytesWaiting)
		}
	}
	assert := p.timer.proceed(interruptsEnabled, p.channel.forceStatus, rxWaiting, connected)
	b.SetProceed(assert)
}

// TimerRate reports the interval the interrupt rate limiter currently
// runs at.
func (p *Processor) TimerRate() time.Duration {
	return p.timer.rate
}
