package main

import (
	"github.com/thiefmaster/lighttest/config"
	"github.com/thiefmaster/lighttest/display"
	"github.com/thiefmaster/lighttest/host"
	"github.com/thiefmaster/lighttest/logging"
	"github.com/thiefmaster/lighttest/mirror"
	"github.com/thiefmaster/lighttest/viewer"
)

// newBackend loads the configuration named by LIGHTTEST_CONFIG and builds the
// canvas plus the optional serial mirror and remote viewer.
func newBackend() (*host.Backend, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	surface.SetLogLevel(cfg.Level())
	return buildBackend(cfg)
}

func buildBackend(cfg config.Config) (*host.Backend, error) {
	canvas, err := display.New(display.Options{
		Title:         cfg.Title,
		Width:         cfg.Width,
		Height:        cfg.Height,
		FrameInterval: cfg.FrameInterval,
		Snapshot:      cfg.Snapshot,
	})
	if err != nil {
		return nil, err
	}
	b := &host.Backend{Renderer: canvas}

	if cfg.Serial.Port != "" {
		m, port, err := mirror.OpenPort(cfg.Serial.Port, cfg.Serial.Baud)
		if err != nil {
			canvas.Close()
			return nil, err
		}
		b.Sinks = append(b.Sinks, m)
		// stop the worker before closing its port
		b.Closers = append(b.Closers, m, port)
	}

	if cfg.Viewer.Addr != "" {
		v := viewer.New(canvas.Image)
		if err := v.ListenAndServe(cfg.Viewer.Addr); err != nil {
			logging.Logger().Warn("viewer disabled", "err", err)
		} else {
			b.Sinks = append(b.Sinks, v)
			b.Closers = append(b.Closers, v)
		}
	}

	b.Closers = append(b.Closers, canvas)
	return b, nil
}
