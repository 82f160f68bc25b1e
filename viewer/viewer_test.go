package viewer

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/thiefmaster/lighttest/lights"
)

func TestNewClientGetsLastFrame(t *testing.T) {
	v := New(nil)
	srv := httptest.NewServer(v.Handler())
	defer srv.Close()

	f := lights.Frame{Seq: 3, Delta: 0.5, Status: lights.Status{Buttons: 0x11}}
	f.Status.Left[0] = color.NRGBA{R: 255, A: 255}
	f.Status.Right[1] = color.NRGBA{B: 0x80, A: 255}
	v.Frame(f)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	var got FrameMessage
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	want := FrameMessage{
		Seq:     3,
		Delta:   0.5,
		Buttons: 0x11,
		Left:    [3]string{"#ff0000", "#000000", "#000000"},
		Right:   [3]string{"#000000", "#000080", "#000000"},
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestRejectsForeignOrigin(t *testing.T) {
	v := New(nil)
	srv := httptest.NewServer(v.Handler())
	defer srv.Close()

	h := http.Header{"Origin": []string{"https://example.com"}}
	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", h)
	if err == nil {
		t.Fatal("expected handshake failure")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("response = %v, want 403", resp)
	}
}

func TestFramePNG(t *testing.T) {
	var img atomic.Pointer[image.RGBA]
	v := New(func() image.Image {
		if p := img.Load(); p != nil {
			return p
		}
		return nil
	})
	srv := httptest.NewServer(v.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/frame.png")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status before first frame = %d", resp.StatusCode)
	}

	img.Store(image.NewRGBA(image.Rect(0, 0, 4, 2)))
	resp, err = http.Get(srv.URL + "/frame.png")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	decoded, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if b := decoded.Bounds(); b.Dx() != 4 || b.Dy() != 2 {
		t.Errorf("bounds = %v", b)
	}
}

func TestCloseStopsServing(t *testing.T) {
	v := New(nil)
	if err := v.ListenAndServe("127.0.0.1:0"); err != nil {
		t.Fatal(err)
	}
	addr := v.Addr().String()

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/ws", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	if err := v.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := v.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("active client still connected after Close")
	} else if ne, ok := err.(net.Error); ok && ne.Timeout() {
		t.Error("active client not disconnected by Close")
	}
	if c, err := net.DialTimeout("tcp", addr, time.Second); err == nil {
		c.Close()
		t.Error("viewer still accepting connections after Close")
	}

	// late frames from the render loop are ignored
	v.Frame(lights.Frame{Seq: 9})
}

func TestListenAndServeOnce(t *testing.T) {
	v := New(nil)
	defer v.Close()
	if err := v.ListenAndServe("127.0.0.1:0"); err != nil {
		t.Fatal(err)
	}
	if err := v.ListenAndServe("127.0.0.1:0"); err == nil {
		t.Error("second ListenAndServe succeeded")
	}
}
