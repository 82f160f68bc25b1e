// Package host implements the entry points exported to the test rig. Every
// call returns immediately: updates are queued for the render goroutine and
// failures are reported through the host's log callback.
package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"github.com/gogpu/gg"

	"github.com/thiefmaster/lighttest/comm"
	"github.com/thiefmaster/lighttest/lights"
	"github.com/thiefmaster/lighttest/logging"
)

const name = "Light Test Window"

// Init status codes.
const (
	StatusOK                 = 0
	StatusAlreadyInitialized = 1
	StatusSetupFailed        = 2
)

// Name returns the label reported to the host.
func Name() string {
	return name
}

// Backend is what the render loop draws into.
type Backend struct {
	Renderer lights.Renderer
	Sinks    []lights.Sink
	// Closers are closed in order once the render loop has exited.
	Closers []io.Closer
}

func (b *Backend) close() {
	for _, c := range b.Closers {
		if err := c.Close(); err != nil {
			logging.Logger().Warn("close failed", "err", err)
		}
	}
}

// BackendFunc builds the backend. It runs inside Init, after the log
// callback is installed.
type BackendFunc func() (*Backend, error)

// Surface is the process-wide set of entry points.
type Surface struct {
	reg     Registry
	backend BackendFunc
	level   slog.LevelVar
	done    chan struct{}
}

func New(backend BackendFunc) *Surface {
	return &Surface{backend: backend, done: make(chan struct{})}
}

// SetLogLevel sets the minimum level forwarded to the log callback.
func (s *Surface) SetLogLevel(l slog.Level) {
	s.level.Set(l)
}

// Done is closed when the render goroutine has exited, or when Init failed
// to set it up.
func (s *Surface) Done() <-chan struct{} {
	return s.done
}

// Init installs the log callback, creates the update channel and starts the
// render goroutine. Only the first call can succeed.
func (s *Surface) Init(log LogFunc) (code int) {
	// set once the registry accepted this call; a failed setup must then
	// drop the receiver so later sends are reported instead of queued
	var rx *comm.Receiver
	defer func() {
		if r := recover(); r != nil {
			logging.Logger().Error("panic", "where", "Init", "panic", fmt.Sprint(r))
			if rx != nil {
				s.abort(rx)
			}
			code = StatusSetupFailed
		}
	}()
	if log == nil {
		log = func(string) {}
	}

	tx, recv := comm.NewChannel()
	if _, err := s.reg.Initialize(log, tx); err != nil {
		logging.Logger().Warn("init rejected", "err", err)
		return StatusAlreadyInitialized
	}
	rx = recv
	logger := slog.New(logging.NewCallbackHandler(log, &s.level))
	logging.SetLogger(logger)
	gg.SetLogger(logger)

	b, err := s.backend()
	if err != nil {
		logging.Logger().Error("backend setup failed", "err", err)
		s.abort(rx)
		return StatusSetupFailed
	}

	go s.run(rx, b)
	return StatusOK
}

// abort ends a failed Init: nothing will ever consume rx.
func (s *Surface) abort(rx *comm.Receiver) {
	rx.Close()
	close(s.done)
}

func (s *Surface) run(rx *comm.Receiver, b *Backend) {
	runtime.LockOSThread()
	defer close(s.done)
	defer b.close()
	defer rx.Close()
	defer logging.Recover("render loop")

	loop := lights.NewLoop(rx, b.Renderer, b.Sinks...)
	if err := loop.Run(context.Background()); err != nil {
		logging.Logger().Error("render loop failed", "err", err)
	}
	logging.Logger().Info("render loop terminated")
}

// send queues u without waiting. Before Init there is nowhere to report a
// failure, so the update is dropped silently.
func (s *Surface) send(u comm.Update) {
	p, ok := s.reg.Producer()
	if !ok {
		return
	}
	if err := p.TrySend(u); err != nil {
		if errors.Is(err, ErrLockContended) {
			logging.Logger().Debug("update dropped", "update", u.String(), "err", err)
			return
		}
		logging.Logger().Warn("update dropped", "update", u.String(), "err", err)
	}
}

func (s *Surface) Close() {
	defer logging.Recover("Close")
	s.send(comm.NewShutdownUpdate())
}

// Tick requests one frame. deltaTime is passed along but does not pace
// rendering.
func (s *Surface) Tick(deltaTime float32) {
	defer logging.Recover("Tick")
	s.send(comm.NewFrameUpdate(deltaTime))
}

func (s *Surface) SetButtons(bitfield uint32) {
	defer logging.Recover("SetButtons")
	s.send(comm.NewButtonsUpdate(bitfield))
}

// SetLights sets one slot of the left strip when side is 1, else of the
// right strip. Indices outside the strip are rejected.
func (s *Surface) SetLights(side uint8, index uint32, r, g, b uint8) {
	defer logging.Recover("SetLights")
	if index >= lights.SlotCount {
		if _, ok := s.reg.Logger(); ok {
			logging.Logger().Warn("update dropped", "side", side, "index", index, "err", lights.ErrInvalidIndex)
		}
		return
	}
	s.send(comm.NewLightUpdate(side == 1, int(index), r, g, b))
}
