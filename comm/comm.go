package comm

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrReceiverGone = errors.New("receiver is gone")
	ErrSenderGone   = errors.New("sender is gone")
)

// queue is an unbounded FIFO shared by one Sender and one Receiver.
type queue struct {
	mu         sync.Mutex
	items      []Update
	ready      chan struct{}
	sendClosed bool
	recvClosed bool
}

// signal wakes a waiting receiver. Must be called with mu held.
func (q *queue) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Sender is the producer half of a channel.
type Sender struct {
	q *queue
}

// Receiver is the consumer half of a channel.
type Receiver struct {
	q *queue
}

// NewChannel creates an unbounded, ordered channel of updates.
func NewChannel() (*Sender, *Receiver) {
	q := &queue{ready: make(chan struct{}, 1)}
	return &Sender{q: q}, &Receiver{q: q}
}

// Send appends u to the queue. It never waits for the receiver.
func (s *Sender) Send(u Update) error {
	q := s.q
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.recvClosed {
		return ErrReceiverGone
	}
	if q.sendClosed {
		return ErrSenderGone
	}
	q.items = append(q.items, u)
	q.signal()
	return nil
}

// Close marks the sender as gone. Queued updates are still delivered.
func (s *Sender) Close() {
	q := s.q
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sendClosed = true
	q.signal()
}

// Recv returns the oldest queued update, waiting until one arrives.
// Once the sender is closed and the queue is empty it returns ErrSenderGone.
func (r *Receiver) Recv(ctx context.Context) (Update, error) {
	q := r.q
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			u := q.items[0]
			q.items[0] = Update{}
			q.items = q.items[1:]
			if len(q.items) == 0 {
				q.items = nil
			}
			q.mu.Unlock()
			return u, nil
		}
		if q.recvClosed {
			q.mu.Unlock()
			return Update{}, ErrReceiverGone
		}
		if q.sendClosed {
			q.mu.Unlock()
			return Update{}, ErrSenderGone
		}
		q.mu.Unlock()

		select {
		case <-q.ready:
		case <-ctx.Done():
			return Update{}, ctx.Err()
		}
	}
}

// Close drops the receiver. Pending updates are discarded and every later
// Send fails with ErrReceiverGone.
func (r *Receiver) Close() {
	q := r.q
	q.mu.Lock()
	defer q.mu.Unlock()
	q.recvClosed = true
	q.items = nil
}
