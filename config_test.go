package main

import (
	"net"
	"testing"
	"time"

	"github.com/thiefmaster/lighttest/config"
	"github.com/thiefmaster/lighttest/display"
	"github.com/thiefmaster/lighttest/host"
	"github.com/thiefmaster/lighttest/viewer"
)

func closeAll(t *testing.T, b *host.Backend) {
	t.Helper()
	for _, c := range b.Closers {
		if err := c.Close(); err != nil {
			t.Errorf("close %T: %v", c, err)
		}
	}
}

func TestBuildBackendWithViewer(t *testing.T) {
	cfg := config.Default()
	cfg.Viewer.Addr = "127.0.0.1:0"

	b, err := buildBackend(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := b.Renderer.(*display.Canvas); !ok {
		t.Errorf("renderer is %T", b.Renderer)
	}
	if len(b.Sinks) != 1 {
		t.Fatalf("got %d sinks, want 1", len(b.Sinks))
	}
	v, ok := b.Sinks[0].(*viewer.Viewer)
	if !ok {
		t.Fatalf("sink is %T", b.Sinks[0])
	}
	if len(b.Closers) != 2 || b.Closers[0] != v {
		t.Fatalf("closers = %v, want viewer then canvas", b.Closers)
	}
	if _, ok := b.Closers[1].(*display.Canvas); !ok {
		t.Errorf("last closer is %T, want the canvas", b.Closers[1])
	}

	addr := v.Addr().String()
	closeAll(t, b)
	if c, err := net.DialTimeout("tcp", addr, time.Second); err == nil {
		c.Close()
		t.Error("viewer still listening after the backend closed")
	}
}

func TestBuildBackendViewerDisabled(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	cfg := config.Default()
	cfg.Viewer.Addr = ln.Addr().String()

	b, err := buildBackend(cfg)
	if err != nil {
		t.Fatalf("busy viewer port should not fail the backend: %v", err)
	}
	defer closeAll(t, b)
	if len(b.Sinks) != 0 {
		t.Errorf("sinks = %v, want none", b.Sinks)
	}
	if len(b.Closers) != 1 {
		t.Fatalf("closers = %v, want only the canvas", b.Closers)
	}
	if _, ok := b.Closers[0].(*display.Canvas); !ok {
		t.Errorf("closer is %T", b.Closers[0])
	}
}

func TestBuildBackendInvalidSize(t *testing.T) {
	cfg := config.Default()
	cfg.Width = 0
	if _, err := buildBackend(cfg); err == nil {
		t.Error("expected an error for a zero-width canvas")
	}
}
