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

import (
	"log"
	"time"

	"github.com/retrobus/netadapter/bus"
	"github.com/retrobus/netadapter/protocol"
	"github.com/retrobus/netadapter/urlspec"
)

// neonYield is the cooperative yield spec.md §5 requires between
// protocol reads while draining ADF source during a Neon compile.
const neonYield = 10 * time.Millisecond

// handleSpecialInquiry answers the 0xFF opcode: probe support for the
// opcode named in aux1.
func (p *Processor) handleSpecialInquiry(b bus.BusIO, frame bus.CommandFrame) error {
	dstats := p.probe(frame.Aux1)
	if err := b.SendPayload([]byte{dstats}); err != nil {
		return b.Signal(bus.SignalError)
	}
	return b.Signal(bus.SignalComplete)
}

// handleSpecial dispatches every opcode besides O/C/R/W/S/0x3F/0xFF
// through the dstats-directed payload table spec.md §4.6 describes.
func (p *Processor) handleSpecial(b bus.BusIO, frame bus.CommandFrame) error {
	dstats := p.probe(frame.Opcode)

	var fail bool
	switch dstats {
	case protocol.DStatsNone:
		fail = p.specialNoPayload(frame)
	case protocol.DStatsRead:
		fail = p.specialReadPayload(b, frame)
	case protocol.DStatsWrite:
		fail = p.specialWritePayload(b, frame)
	default:
		return b.Signal(bus.SignalNAK)
	}

	if fail {
		return b.Signal(bus.SignalError)
	}
	return b.Signal(bus.SignalComplete)
}

// probe asks the live handler first, falling back to the global
// default table when the handler reports unsupported (or none is
// live), matching spec.md §4.6's "ask handler first, else global
// default table" rule.
func (p *Processor) probe(opcode byte) byte {
	if p.st == stateOpen && p.channel.handler != nil {
		if d := p.channel.handler.SpecialInquiry(opcode); d != protocol.DStatsNoneSup {
			return d
		}
	}
	return p.defaultDstats(opcode)
}

func (p *Processor) defaultDstats(opcode byte) byte {
	switch opcode {
	case 0x20, 0x21, 0x23, 0x24, 0x2A, 0x2B, 0x2C, 0xFD, 0xFE:
		return protocol.DStatsWrite
	case 0xFC:
		return protocol.DStatsNone
	case 0x30:
		return protocol.DStatsRead
	case 'Z', 'T':
		return protocol.DStatsNone
	case 'P':
		if p.channel.mode == ModeJSON {
			return protocol.DStatsNone
		}
		return protocol.DStatsNoneSup
	case 'Q':
		if p.channel.mode == ModeJSON {
			return protocol.DStatsWrite
		}
		return protocol.DStatsNoneSup
	case 'N':
		if p.channel.mode == ModeNeon {
			return protocol.DStatsNone
		}
		return protocol.DStatsNoneSup
	default:
		return protocol.DStatsNoneSup
	}
}

// specialNoPayload handles the 0x00-direction opcode table: no
// payload is transferred either way.
func (p *Processor) specialNoPayload(frame bus.CommandFrame) bool {
	switch frame.Opcode {
	case 'P':
		if err := p.json.Parse(p.buffers.Receive); err != nil {
			return true
		}
		return false
	case 'N':
		return p.compileNeon()
	case 'T':
		p.translate = frame.Aux2 != 0
		return false
	case 'Z':
		p.timer.setRate(time.Duration(frame.Aux()) * time.Millisecond)
		if p.st == stateOpen {
			p.timer.timerStart()
		}
		return false
	case 0xFC:
		switch frame.Aux2 {
		case 0:
			p.channel.mode = ModeProtocol
		case 1:
			p.channel.mode = ModeJSON
		case 2:
			p.channel.mode = ModeNeon
		default:
			return true
		}
		return false
	default:
		if p.st != stateOpen {
			return true
		}
		return p.channel.handler.Special00(frame)
	}
}

// specialReadPayload handles the 0x40-direction opcode table: a
// 256-byte payload flows back to the host.
func (p *Processor) specialReadPayload(b bus.BusIO, frame bus.CommandFrame) bool {
	buf := make([]byte, 256)
	switch frame.Opcode {
	case 0x30:
		fillPrefix(buf, p.prefix.String())
	default:
		if p.st != stateOpen {
			return true
		}
		if p.channel.handler.Special40(buf, 256, frame) {
			return true
		}
	}
	return b.SendPayload(buf) != nil
}

// fillPrefix writes prefix into buf, NUL-padded and terminated with
// the ATASCII end-of-line sentinel (0x9B), matching 'get_prefix'.
func fillPrefix(buf []byte, prefix string) {
	n := copy(buf, prefix)
	if n < len(buf) {
		buf[n] = 0x9B
	}
}

// specialWritePayload handles the 0x80-direction opcode table: a
// 256-byte payload flows from the host.
func (p *Processor) specialWritePayload(b bus.BusIO, frame bus.CommandFrame) bool {
	spec, err := b.RecvPayload(256)
	if err != nil {
		return true
	}

	if idempotentOpcodes[frame.Opcode] {
		return p.performIdempotent(spec, frame)
	}

	switch frame.Opcode {
	case 0x2C:
		edit := urlspec.StripDevicePrefix(urlspec.Fix9B(spec))
		p.prefix.Set(edit)
		return false
	case 'Q':
		return p.setJSONQuery(urlspec.Fix9B(spec), frame.Aux2)
	case 0xFD:
		p.creds.Login = urlspec.Fix9B(spec)
		return false
	case 0xFE:
		p.creds.Password = urlspec.Fix9B(spec)
		return false
	default:
		if p.st != stateOpen {
			return true
		}
		return p.channel.handler.Special80(spec, 256, frame)
	}
}

// performIdempotent instantiates a protocol handler just long enough
// to run one of the rename/delete/lock/unlock/mkdir/rmdir one-shots
// and never opens a persistent channel.
func (p *Processor) performIdempotent(spec []byte, frame bus.CommandFrame) bool {
	normalized := urlspec.Normalize(spec, urlspec.NormalizeOptions{
		Aux1:     frame.Aux1,
		DeviceID: p.deviceID,
		Prefix:   p.prefix.String(),
	})
	url := urlspec.Parse(normalized)
	if !url.Valid {
		return true
	}

	factory := p.registry.Lookup(url.Scheme)
	if factory == nil {
		return true
	}

	handler := factory(protocol.NewBuffers(), p.creds)
	fail := handler.PerformIdempotent80(url, frame)
	log.Printf("device: idempotent 0x%02X on %s, fail=%v", frame.Opcode, url.String(), fail)
	return fail
}

// setJSONQuery resolves path against the parsed document and
// materializes the matched value into the receive buffer, exactly as
// spec.md §4.8 describes: the Json channel mode's later reads are
// virtual, accounting bytes already placed here.
func (p *Processor) setJSONQuery(path string, aux2 byte) bool {
	if err := p.json.SetReadQuery(path, aux2); err != nil {
		return true
	}
	val := make([]byte, p.json.ReadValueLen())
	p.json.ReadValue(val)
	p.buffers.AppendReceive(val)
	p.channel.jsonRemain = len(val)
	return false
}

// compileNeon drains the live handler by reading until its status
// reports connected==false, then compiles the accumulated ADF source
// and materializes the result into the receive buffer, symmetric with
// setJSONQuery.
func (p *Processor) compileNeon() bool {
	if p.st != stateOpen {
		return true
	}
	p.neon.Reset()

	var st protocol.NetworkStatus
	for {
		if p.channel.handler.Status(&st); !st.Connected {
			break
		}
		if p.channel.handler.Read(256) {
			break
		}
		p.neon.AppendSource(p.buffers.TakeReceive(len(p.buffers.Receive)))
		time.Sleep(neonYield)
	}

	compiled := p.neon.Compile()
	p.buffers.AppendReceive(compiled)
	p.channel.neonRemain = len(compiled)
	return false
}
