package host

import (
	"errors"
	"testing"

	"github.com/thiefmaster/lighttest/comm"
)

func TestRegistryInitializeOnce(t *testing.T) {
	var r Registry
	if _, ok := r.Producer(); ok {
		t.Error("producer present before Initialize")
	}
	if _, ok := r.Logger(); ok {
		t.Error("logger present before Initialize")
	}

	var got []string
	tx, _ := comm.NewChannel()
	p, err := r.Initialize(func(s string) { got = append(got, s) }, tx)
	if err != nil {
		t.Fatal(err)
	}
	if cur, ok := r.Producer(); !ok || cur != p {
		t.Error("Producer does not return the initialized producer")
	}
	log, ok := r.Logger()
	if !ok {
		t.Fatal("no logger after Initialize")
	}
	log("hello")
	if len(got) != 1 || got[0] != "hello" {
		t.Errorf("logger wrote %q", got)
	}

	tx2, _ := comm.NewChannel()
	if _, err := r.Initialize(func(string) {}, tx2); !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("second Initialize = %v, want ErrAlreadyInitialized", err)
	}
	if cur, _ := r.Producer(); cur != p {
		t.Error("second Initialize replaced the producer")
	}
}

func TestProducerTrySend(t *testing.T) {
	tx, rx := comm.NewChannel()
	p := &Producer{tx: tx}

	if err := p.TrySend(comm.NewButtonsUpdate(1)); err != nil {
		t.Fatal(err)
	}

	p.mu.Lock()
	if err := p.TrySend(comm.NewButtonsUpdate(2)); !errors.Is(err, ErrLockContended) {
		t.Errorf("TrySend while locked = %v, want ErrLockContended", err)
	}
	p.mu.Unlock()

	rx.Close()
	err := p.TrySend(comm.NewButtonsUpdate(3))
	if !errors.Is(err, ErrChannelUnavailable) || !errors.Is(err, comm.ErrReceiverGone) {
		t.Errorf("TrySend after receiver closed = %v", err)
	}
}
