package device

import (
	"testing"

	"github.com/retrobus/netadapter/bus"
	"github.com/retrobus/netadapter/protocol"
)

func openTestSession(t *testing.T, proc *Processor, loop *bus.Loopback, spec string) {
	t.Helper()
	loop.QueuePayload(append([]byte(spec), 0x9B))
	if err := proc.Handle(loop, bus.CommandFrame{Device: 1, Opcode: bus.OpOpen, Aux1: 12}); err != nil {
		t.Fatalf("Handle(Open): %v", err)
	}
	sig, _ := loop.LastSignal()
	if sig != bus.SignalComplete {
		t.Fatalf("Open did not COMPLETE, last signal = %v", sig)
	}
}

func newTestProcessor() (*Processor, *bus.Loopback) {
	reg := protocol.NewRegistry()
	reg.Register("TEST", protocol.NewTest)
	return NewProcessor(1, reg), &bus.Loopback{}
}

func TestOpenThenStatus(t *testing.T) {
	proc, loop := newTestProcessor()
	openTestSession(t, proc, loop, "TEST://demo/")

	if err := proc.Handle(loop, bus.CommandFrame{Device: 1, Opcode: bus.OpStatus}); err != nil {
		t.Fatalf("Handle(Status): %v", err)
	}
	if len(loop.Sent) == 0 {
		t.Fatal("expected a status payload to be sent")
	}
	wire := loop.Sent[len(loop.Sent)-1]
	want := [4]byte{0, 0, 1, 0}
	if string(wire) != string(want[:]) {
		t.Errorf("status wire = %v, want %v", wire, want)
	}
}

func TestInvalidDeviceSpecReportsErrorCode165(t *testing.T) {
	proc, loop := newTestProcessor()
	loop.QueuePayload(append([]byte("???"), 0x9B))
	if err := proc.Handle(loop, bus.CommandFrame{Device: 1, Opcode: bus.OpOpen}); err != nil {
		t.Fatalf("Handle(Open): %v", err)
	}
	sig, _ := loop.LastSignal()
	if sig != bus.SignalError {
		t.Fatalf("expected ERROR, got %v", sig)
	}
	if proc.status.Error != protocol.ErrInvalidDeviceSpec {
		t.Errorf("status.Error = %d, want %d", proc.status.Error, protocol.ErrInvalidDeviceSpec)
	}
}

func TestCloseDropsHandlerButNotTimer(t *testing.T) {
	proc, loop := newTestProcessor()
	openTestSession(t, proc, loop, "TEST://demo/")

	if err := proc.Handle(loop, bus.CommandFrame{Device: 1, Opcode: bus.OpClose}); err != nil {
		t.Fatalf("Handle(Close): %v", err)
	}
	if proc.st != stateIdle {
		t.Error("Close should return the processor to Idle")
	}
	if proc.channel.handler != nil {
		t.Error("Close should drop the live handler")
	}
	if proc.timer.ticker == nil {
		t.Error("Close should not stop the interrupt timer")
	}
}

func TestJSONViewReadAccounting(t *testing.T) {
	proc, loop := newTestProcessor()
	openTestSession(t, proc, loop, "TEST://demo/")

	if err := proc.json.Parse([]byte(`{"msg":"abcd"}`)); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if fail := proc.setJSONQuery("msg", 0); fail {
		t.Fatal("setJSONQuery should succeed")
	}
	proc.channel.mode = ModeJSON

	if err := proc.Handle(loop, bus.CommandFrame{Device: 1, Opcode: bus.OpRead, Aux1: 4}); err != nil {
		t.Fatalf("Handle(Read): %v", err)
	}
	payload := loop.Sent[len(loop.Sent)-1]
	if string(payload) != "abcd" {
		t.Errorf("Read payload = %q, want %q", payload, "abcd")
	}

	if err := proc.Handle(loop, bus.CommandFrame{Device: 1, Opcode: bus.OpStatus}); err != nil {
		t.Fatalf("Handle(Status): %v", err)
	}
	wire := loop.Sent[len(loop.Sent)-1]
	want := [4]byte{0, 0, 0, protocol.ErrEndOfFile}
	if string(wire) != string(want[:]) {
		t.Errorf("status after fully-consumed JSON read = %v, want %v", wire, want)
	}
}

func TestPrefixStepUpSpecial(t *testing.T) {
	proc, loop := newTestProcessor()
	proc.prefix.Set("TNFS://h/a/b/c/")

	loop.QueuePayload(append([]byte(".."), make([]byte, 254)...))
	if err := proc.Handle(loop, bus.CommandFrame{Device: 1, Opcode: 0x2C}); err != nil {
		t.Fatalf("Handle(set_prefix): %v", err)
	}
	if got := proc.prefix.String(); got != "TNFS://h/a/b/" {
		t.Errorf("prefix = %q, want %q", got, "TNFS://h/a/b/")
	}
}

func TestReadBeforeOpenFails(t *testing.T) {
	proc, loop := newTestProcessor()
	if err := proc.Handle(loop, bus.CommandFrame{Device: 1, Opcode: bus.OpRead, Aux1: 4}); err != nil {
		t.Fatalf("Handle(Read): %v", err)
	}
	sig, _ := loop.LastSignal()
	if sig != bus.SignalError {
		t.Fatalf("Read while Idle should ERROR, got %v", sig)
	}
	if proc.status.Error != protocol.ErrNotConnected {
		t.Errorf("status.Error = %d, want %d", proc.status.Error, protocol.ErrNotConnected)
	}
}
