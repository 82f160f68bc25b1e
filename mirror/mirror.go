// Package mirror forwards presented frames to a physical light board over a
// serial line, one text command per line.
package mirror

import (
	"fmt"
	"io"
	"strings"

	"github.com/tarm/serial"

	"github.com/thiefmaster/lighttest/lights"
	"github.com/thiefmaster/lighttest/logging"
)

const queueSize = 8

// Mirror writes frames to w from its own goroutine. Frames arriving while
// the writer is busy and the queue is full are dropped.
type Mirror struct {
	w       io.Writer
	frames  chan lights.Frame
	done    chan struct{}
	dropped int
}

// OpenPort opens a serial port and starts mirroring to it.
func OpenPort(port string, baud int) (*Mirror, io.Closer, error) {
	logging.Logger().Info("opening serial port", "port", port, "baud", baud)
	conn, err := serial.OpenPort(&serial.Config{Name: port, Baud: baud})
	if err != nil {
		return nil, nil, fmt.Errorf("open serial port %s: %w", port, err)
	}
	return New(conn), conn, nil
}

func New(w io.Writer) *Mirror {
	m := &Mirror{
		w:      w,
		frames: make(chan lights.Frame, queueSize),
		done:   make(chan struct{}),
	}
	go m.worker()
	return m
}

func (m *Mirror) Frame(f lights.Frame) {
	select {
	case m.frames <- f:
	default:
		m.dropped++
		logging.Logger().Debug("serial mirror busy, frame dropped", "seq", f.Seq, "dropped", m.dropped)
	}
}

// Close stops the worker after the queued frames are written. It does not
// close the underlying writer.
func (m *Mirror) Close() error {
	close(m.frames)
	<-m.done
	return nil
}

func (m *Mirror) worker() {
	defer close(m.done)
	defer logging.Recover("serial mirror")
	for f := range m.frames {
		if _, err := io.WriteString(m.w, serializeFrame(f)); err != nil {
			logging.Logger().Warn("serial write failed", "seq", f.Seq, "err", err)
		}
	}
}

func serializeFrame(f lights.Frame) string {
	var b strings.Builder
	fmt.Fprintf(&b, "RBTN=%08x\n", f.Status.Buttons)
	for i, c := range f.Status.Left {
		fmt.Fprintf(&b, "RLED.L%d=%02x%02x%02x\n", i, c.R, c.G, c.B)
	}
	for i, c := range f.Status.Right {
		fmt.Fprintf(&b, "RLED.R%d=%02x%02x%02x\n", i, c.R, c.G, c.B)
	}
	fmt.Fprintf(&b, "RFRM=%d\n", f.Seq)
	return b.String()
}
