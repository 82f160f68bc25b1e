package host

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/thiefmaster/lighttest/comm"
)

var (
	ErrAlreadyInitialized = errors.New("already initialized")
	ErrChannelUnavailable = errors.New("channel unavailable")
	ErrLockContended      = errors.New("producer lock contended")
)

// LogFunc delivers one diagnostic line to the host.
type LogFunc func(message string)

// Producer guards the sending half of the update channel. Callers never
// wait for the lock.
type Producer struct {
	mu sync.Mutex
	tx *comm.Sender
}

func (p *Producer) TrySend(u comm.Update) error {
	if !p.mu.TryLock() {
		return ErrLockContended
	}
	defer p.mu.Unlock()
	if err := p.tx.Send(u); err != nil {
		return fmt.Errorf("%w: %w", ErrChannelUnavailable, err)
	}
	return nil
}

// Registry holds the log callback and the producer for callers that have no
// context of their own. Both are set exactly once by Initialize and never
// change afterwards.
type Registry struct {
	initMu   sync.Mutex
	logger   atomic.Pointer[LogFunc]
	producer atomic.Pointer[Producer]
}

func (r *Registry) Initialize(log LogFunc, tx *comm.Sender) (*Producer, error) {
	r.initMu.Lock()
	defer r.initMu.Unlock()
	if r.producer.Load() != nil {
		return nil, ErrAlreadyInitialized
	}
	p := &Producer{tx: tx}
	r.logger.Store(&log)
	r.producer.Store(p)
	return p, nil
}

func (r *Registry) Producer() (*Producer, bool) {
	p := r.producer.Load()
	return p, p != nil
}

func (r *Registry) Logger() (LogFunc, bool) {
	l := r.logger.Load()
	if l == nil || *l == nil {
		return nil, false
	}
	return *l, true
}
