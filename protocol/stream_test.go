package protocol

import (
	"net"
	"testing"
	"time"

	"github.com/retrobus/netadapter/bus"
	"github.com/retrobus/netadapter/urlspec"
)

func TestStreamProtocolTCPRoundTrip(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			accepted <- conn
		}
	}()

	_, port, _ := net.SplitHostPort(ln.Addr().String())
	buffers := NewBuffers()
	s := NewTCP(buffers, Credentials{})
	url := urlspec.Parse("tcp://127.0.0.1:" + port)
	if fail := s.Open(url, bus.CommandFrame{}); fail {
		t.Fatalf("Open failed: %d", s.Error())
	}

	server := <-accepted
	defer server.Close()

	server.Write([]byte("pong"))
	time.Sleep(20 * time.Millisecond)
	if fail := s.Read(4); fail {
		t.Fatalf("Read failed: %d", s.Error())
	}
	if string(buffers.Receive) != "pong" {
		t.Errorf("Receive = %q, want %q", buffers.Receive, "pong")
	}
}

func TestStreamProtocolReadBeforeOpenFails(t *testing.T) {
	s := NewTCP(NewBuffers(), Credentials{})
	if fail := s.Read(1); !fail {
		t.Error("Read before Open should fail")
	}
	if s.Error() != ErrNotConnected {
		t.Errorf("Error() = %d, want %d", s.Error(), ErrNotConnected)
	}
}

func TestStripTelnetIAC(t *testing.T) {
	in := []byte{'a', 0xFF, 0xFB, 0x01, 'b'}
	got := stripTelnetIAC(in)
	if string(got) != "ab" {
		t.Errorf("stripTelnetIAC() = %v, want %q", got, "ab")
	}
}
