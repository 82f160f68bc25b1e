// Package viewer serves presented frames to a remote browser: the light
// state as JSON over a websocket and the last frame as PNG.
package viewer

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"net"
	"net/http"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/thiefmaster/lighttest/lights"
	"github.com/thiefmaster/lighttest/logging"
)

// FrameMessage is the JSON document sent for every frame.
type FrameMessage struct {
	Seq     uint64    `json:"seq"`
	Delta   float32   `json:"delta"`
	Buttons uint32    `json:"buttons"`
	Left    [3]string `json:"left"`
	Right   [3]string `json:"right"`
}

func newFrameMessage(f lights.Frame) FrameMessage {
	msg := FrameMessage{Seq: f.Seq, Delta: f.Delta, Buttons: f.Status.Buttons}
	for i := 0; i < lights.SlotCount; i++ {
		l, r := f.Status.Left[i], f.Status.Right[i]
		msg.Left[i] = fmt.Sprintf("#%02x%02x%02x", l.R, l.G, l.B)
		msg.Right[i] = fmt.Sprintf("#%02x%02x%02x", r.R, r.G, r.B)
	}
	return msg
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header["Origin"]
		if len(origin) == 0 {
			return true
		}
		u, err := url.Parse(origin[0])
		if err != nil {
			return false
		}
		host := u.Hostname()
		return host == "localhost" || net.ParseIP(host).IsLoopback()
	},
}

// Viewer keeps at most one active websocket client; a new connection
// replaces the previous one.
type Viewer struct {
	image func() image.Image

	broadcast chan []byte

	mu         sync.Mutex
	activeConn *websocket.Conn
	last       []byte
	srv        *http.Server
	addr       net.Addr
	closed     bool
}

// New returns a viewer. snapshot may be nil, in which case /frame.png is
// not served.
func New(snapshot func() image.Image) *Viewer {
	v := &Viewer{
		image:     snapshot,
		broadcast: make(chan []byte, 8),
	}
	go v.writer()
	return v
}

func (v *Viewer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", v.ws)
	if v.image != nil {
		mux.HandleFunc("/frame.png", v.framePNG)
	}
	return mux
}

// ListenAndServe serves the viewer on addr in the background.
func (v *Viewer) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("viewer listen: %w", err)
	}
	srv := &http.Server{Handler: v.Handler()}

	v.mu.Lock()
	if v.closed || v.srv != nil {
		v.mu.Unlock()
		ln.Close()
		return errors.New("viewer already serving or closed")
	}
	v.srv, v.addr = srv, ln.Addr()
	v.mu.Unlock()

	logging.Logger().Info("viewer listening", "addr", ln.Addr().String())
	go func() {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			logging.Logger().Warn("viewer server exited", "err", err)
		}
	}()
	return nil
}

// Addr is the address ListenAndServe bound, or nil.
func (v *Viewer) Addr() net.Addr {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.addr
}

// Close stops the server, drops the active client and ends the writer.
// Frames sent afterwards are ignored.
func (v *Viewer) Close() error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return nil
	}
	v.closed = true
	close(v.broadcast)
	if v.activeConn != nil {
		v.activeConn.Close()
		v.activeConn = nil
	}
	srv := v.srv
	v.mu.Unlock()

	if srv != nil {
		return srv.Close()
	}
	return nil
}

func (v *Viewer) Frame(f lights.Frame) {
	data, err := json.Marshal(newFrameMessage(f))
	if err != nil {
		logging.Logger().Warn("could not marshal frame", "seq", f.Seq, "err", err)
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.last = data
	select {
	case v.broadcast <- data:
	default:
		logging.Logger().Debug("viewer busy, frame dropped", "seq", f.Seq)
	}
}

func (v *Viewer) ws(w http.ResponseWriter, r *http.Request) {
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Logger().Warn("websocket upgrade failed", "err", err)
		return
	}

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		c.Close()
		return
	}
	if v.activeConn != nil {
		logging.Logger().Debug("closing previous websocket conn", "remote", v.activeConn.RemoteAddr().String())
		v.activeConn.Close()
	}
	v.activeConn = c
	if v.last != nil {
		if err := c.WriteMessage(websocket.TextMessage, v.last); err != nil {
			logging.Logger().Warn("websocket write failed", "err", err)
		}
	}
	v.mu.Unlock()

	defer func() {
		c.Close()
		v.mu.Lock()
		if v.activeConn == c {
			v.activeConn = nil
		}
		v.mu.Unlock()
	}()
	// clients only listen; reading detects the close
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}

func (v *Viewer) writer() {
	for msg := range v.broadcast {
		v.mu.Lock()
		if v.activeConn != nil {
			if err := v.activeConn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logging.Logger().Warn("websocket write failed", "err", err)
			}
		}
		v.mu.Unlock()
	}
}

func (v *Viewer) framePNG(w http.ResponseWriter, _ *http.Request) {
	img := v.image()
	if img == nil {
		http.Error(w, "no frame yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, img); err != nil {
		logging.Logger().Warn("could not encode frame", "err", err)
	}
}
