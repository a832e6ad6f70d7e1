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
	"net"
	"time"

	"github.com/retrobus/netadapter/bus"
	"github.com/retrobus/netadapter/urlspec"
)

const dialTimeout = 5 * time.Second

// streamProtocol backs the TCP, UDP, and TELNET variants: a thin
// wrapper over net.Dial, reading/writing through the shared Buffers.
type streamProtocol struct {
	network string
	telnet  bool

	buffers *Buffers
	conn    net.Conn
	err     byte
	closed  bool
}

// NewTCP satisfies Factory for the TCP scheme.
func NewTCP(buffers *Buffers, _ Credentials) NetworkProtocol {
	return &streamProtocol{network: "tcp", buffers: buffers}
}

// NewUDP satisfies Factory for the UDP scheme.
func NewUDP(buffers *Buffers, _ Credentials) NetworkProtocol {
	return &streamProtocol{network: "udp", buffers: buffers}
}

// NewTelnet satisfies Factory for the TELNET scheme: a TCP stream with
// IAC negotiation sequences stripped on read.
func NewTelnet(buffers *Buffers, _ Credentials) NetworkProtocol {
	return &streamProtocol{network: "tcp", telnet: true, buffers: buffers}
}

func (s *streamProtocol) Open(url urlspec.ParsedUrl, _ bus.CommandFrame) bool {
	host := url.Host
	port := url.Port
	if port == "" {
		port = "23"
	}
	conn, err := net.DialTimeout(s.network, net.JoinHostPort(host, port), dialTimeout)
	if err != nil {
		s.err = ErrGeneral
		return true
	}
	s.conn = conn
	return false
}

func (s *streamProtocol) Close() bool {
	s.closed = true
	if s.conn == nil {
		return false
	}
	err := s.conn.Close()
	s.conn = nil
	return err != nil
}

func (s *streamProtocol) Read(n int) bool {
	if s.conn == nil {
		s.err = ErrNotConnected
		return true
	}
	buf := make([]byte, n)
	read, err := s.conn.Read(buf)
	if err != nil && read == 0 {
		s.err = ErrEndOfFile
		return true
	}
	payload := buf[:read]
	if s.telnet {
		payload = stripTelnetIAC(payload)
	}
	s.buffers.AppendReceive(payload)
	return false
}

func (s *streamProtocol) Write(n int) bool {
	if s.conn == nil {
		s.err = ErrNotConnected
		return true
	}
	if n > len(s.buffers.Transmit) {
		n = len(s.buffers.Transmit)
	}
	_, err := s.conn.Write(s.buffers.Transmit[:n])
	s.buffers.Transmit = s.buffers.Transmit[n:]
	if err != nil {
		s.err = ErrGeneral
		return true
	}
	return false
}

func (s *streamProtocol) Status(out *NetworkStatus) bool {
	out.Connected = s.conn != nil && !s.closed
	out.Error = s.err
	return false
}

func (s *streamProtocol) SpecialInquiry(byte) byte        { return DStatsNoneSup }
func (s *streamProtocol) Special00(bus.CommandFrame) bool { return false }
func (s *streamProtocol) Special40([]byte, int, bus.CommandFrame) bool {
	return false
}
func (s *streamProtocol) Special80([]byte, int, bus.CommandFrame) bool {
	return false
}
func (s *streamProtocol) PerformIdempotent80(urlspec.ParsedUrl, bus.CommandFrame) bool {
	return true
}
func (s *streamProtocol) Error() byte          { return s.err }
func (s *streamProtocol) InterruptEnable() bool { return true }

// stripTelnetIAC removes IAC (0xFF) option-negotiation triples from a
// telnet stream, leaving plain data bytes.
func stripTelnetIAC(p []byte) []byte {
	const iac = 0xFF
	out := make([]byte, 0, len(p))
	for i := 0; i < len(p); i++ {
		if p[i] == iac && i+2 < len(p) {
			i += 2
			continue
		}
		out = append(out, p[i])
	}
	return out
}
