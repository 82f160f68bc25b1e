package lights

import (
	"context"
	"errors"
	"fmt"
	"image/color"

	"github.com/thiefmaster/lighttest/comm"
	"github.com/thiefmaster/lighttest/logging"
)

type State int

const (
	Running State = iota
	Terminated
)

func (s State) String() string {
	if s == Terminated {
		return "Terminated"
	}
	return "Running"
}

var ErrInvalidIndex = errors.New("light index out of range")

// Loop applies updates from a channel to a Status and draws a frame for
// every NextFrame update. It is the only owner of its Status.
type Loop struct {
	rx       *comm.Receiver
	renderer Renderer
	sinks    []Sink

	status Status
	state  State
	seq    uint64
}

func NewLoop(rx *comm.Receiver, renderer Renderer, sinks ...Sink) *Loop {
	return &Loop{rx: rx, renderer: renderer, sinks: sinks}
}

func (l *Loop) State() State {
	return l.state
}

// Run consumes updates until a Shutdown update arrives, the sender goes away
// or ctx is done. The receiver is closed on return, so later sends fail.
func (l *Loop) Run(ctx context.Context) error {
	defer func() {
		l.state = Terminated
		l.rx.Close()
	}()

	for {
		u, err := l.rx.Recv(ctx)
		if errors.Is(err, comm.ErrSenderGone) {
			logging.Logger().Debug("render loop: sender gone")
			return nil
		}
		if err != nil {
			return err
		}
		if !l.apply(ctx, u) {
			logging.Logger().Debug("render loop: shutdown")
			return nil
		}
	}
}

// apply handles one update and reports whether the loop keeps running.
func (l *Loop) apply(ctx context.Context, u comm.Update) bool {
	switch u.Kind {
	case comm.Buttons:
		l.status.Buttons = u.Buttons
	case comm.LeftLight:
		l.setLight(&l.status.Left, u)
	case comm.RightLight:
		l.setLight(&l.status.Right, u)
	case comm.NextFrame:
		if err := l.drawFrame(ctx, u.Delta); err != nil {
			logging.Logger().Warn("frame failed", "seq", l.seq, "err", err)
		}
	case comm.Shutdown:
		return false
	default:
		logging.Logger().Warn("ignoring unknown update", "update", u.String())
	}
	return true
}

func (l *Loop) setLight(strip *[SlotCount]color.NRGBA, u comm.Update) {
	if u.Index < 0 || u.Index >= SlotCount {
		logging.Logger().Warn("ignoring light update", "update", u.String(), "err", ErrInvalidIndex)
		return
	}
	strip[u.Index] = u.Color
}

func (l *Loop) drawFrame(ctx context.Context, delta float32) error {
	if err := l.renderer.BeginFrame(ctx); err != nil {
		return fmt.Errorf("begin frame: %w", err)
	}
	l.seq++
	drawErr := drawStatus(l.renderer, &l.status)
	if err := l.renderer.Present(); err != nil {
		return errors.Join(drawErr, fmt.Errorf("present: %w", err))
	}

	f := Frame{Seq: l.seq, Delta: delta, Status: l.status}
	for _, s := range l.sinks {
		s.Frame(f)
	}
	return drawErr
}
