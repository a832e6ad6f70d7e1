package device

import (
	"testing"

	"github.com/retrobus/netadapter/protocol"
)

func TestChannelJSONReadSaturates(t *testing.T) {
	c := channel{mode: ModeJSON, jsonRemain: 3}
	if fail := c.read(5); fail {
		t.Fatal("virtual JSON read should never fail")
	}
	if c.jsonRemain != 0 {
		t.Errorf("jsonRemain = %d, want 0 (saturated)", c.jsonRemain)
	}
}

func TestChannelJSONWriteFails(t *testing.T) {
	c := channel{mode: ModeJSON}
	if fail := c.write(1); !fail {
		t.Error("writes are unsupported in Json mode")
	}
}

func TestChannelJSONStatusErrorCodes(t *testing.T) {
	c := channel{mode: ModeJSON, jsonRemain: 4}
	var out protocol.NetworkStatus
	c.status(&out)
	if !out.Connected || out.Error != protocol.ErrGeneral {
		t.Errorf("status with bytes remaining = %+v", out)
	}

	c.jsonRemain = 0
	c.status(&out)
	if out.Connected || out.Error != protocol.ErrEndOfFile {
		t.Errorf("status with no bytes remaining = %+v", out)
	}
}

func TestChannelProtocolModeDelegatesToHandler(t *testing.T) {
	h := &fakeHandler{}
	c := channel{mode: ModeProtocol, handler: h}
	c.read(10)
	if !h.readCalled {
		t.Error("Protocol mode Read should delegate to the handler")
	}
}

type fakeHandler struct {
	protocol.NetworkProtocol
	readCalled bool
}

func (f *fakeHandler) Read(int) bool {
	f.readCalled = true
	return false
}
