package bus

import "testing"

func TestLoopbackRecvFrameEmpty(t *testing.T) {
	l := &Loopback{}
	if _, err := l.RecvFrame(); err == nil {
		t.Fatal("expected error on empty queue")
	}
}

func TestLoopbackQueueAndRecvFrame(t *testing.T) {
	l := &Loopback{}
	want := CommandFrame{Device: 1, Opcode: OpOpen}
	l.QueueFrame(want)
	got, err := l.RecvFrame()
	if err != nil {
		t.Fatalf("RecvFrame: %v", err)
	}
	if got != want {
		t.Errorf("RecvFrame() = %+v, want %+v", got, want)
	}
}

func TestLoopbackRecvPayloadPadsShortInput(t *testing.T) {
	l := &Loopback{}
	l.QueuePayload([]byte("ab"))
	got, err := l.RecvPayload(5)
	if err != nil {
		t.Fatalf("RecvPayload: %v", err)
	}
	want := []byte{'a', 'b', 0, 0, 0}
	if string(got) != string(want) {
		t.Errorf("RecvPayload(5) = %v, want %v", got, want)
	}
}

func TestLoopbackSendAndSignalRecordedInOrder(t *testing.T) {
	l := &Loopback{}
	l.SendPayload([]byte("x"))
	l.Signal(SignalACK)
	l.Signal(SignalComplete)

	if len(l.Sent) != 1 || string(l.Sent[0]) != "x" {
		t.Errorf("Sent = %v, want [\"x\"]", l.Sent)
	}
	sig, ok := l.LastSignal()
	if !ok || sig != SignalComplete {
		t.Errorf("LastSignal() = %v, %v, want SignalComplete, true", sig, ok)
	}
}

func TestLoopbackSetProceed(t *testing.T) {
	l := &Loopback{}
	l.SetProceed(true)
	if !l.Proceed {
		t.Error("Proceed should be true after SetProceed(true)")
	}
}
