// Package display implements the light window's drawing surface on top of
// the gg software rasterizer.
package display

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync"
	"time"

	"github.com/gogpu/gg"

	"github.com/thiefmaster/lighttest/logging"
)

type Options struct {
	Title  string
	Width  int
	Height int
	// FrameInterval paces BeginFrame. Zero means no pacing.
	FrameInterval time.Duration
	// Snapshot is a PNG path rewritten on every Present. Empty disables it.
	Snapshot string
}

// Canvas is an offscreen frame buffer. Drawing methods must be called from a
// single goroutine; Image may be called from anywhere.
type Canvas struct {
	opts   Options
	dc     *gg.Context
	ticker *time.Ticker

	mu   sync.Mutex
	last *image.RGBA
}

func New(opts Options) (*Canvas, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", opts.Width, opts.Height)
	}
	c := &Canvas{
		opts: opts,
		dc:   gg.NewContext(opts.Width, opts.Height),
	}
	if opts.FrameInterval > 0 {
		c.ticker = time.NewTicker(opts.FrameInterval)
	}
	logging.Logger().Info("canvas created", "title", opts.Title, "width", opts.Width, "height", opts.Height)
	return c, nil
}

func (c *Canvas) BeginFrame(ctx context.Context) error {
	if c.ticker != nil {
		select {
		case <-c.ticker.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	c.dc.ClearWithColor(gg.Black)
	return nil
}

func (c *Canvas) ScreenSize() (float64, float64) {
	return float64(c.dc.Width()), float64(c.dc.Height())
}

func (c *Canvas) FillRect(x, y, w, h float64, col color.Color) error {
	c.dc.SetColor(col)
	c.dc.DrawRectangle(x, y, w, h)
	return c.dc.Fill()
}

// StrokeRect draws the outline inside the rectangle's bounds.
func (c *Canvas) StrokeRect(x, y, w, h, thickness float64, col color.Color) error {
	c.dc.SetColor(col)
	c.dc.SetLineWidth(thickness)
	half := thickness / 2
	c.dc.DrawRectangle(x+half, y+half, w-thickness, h-thickness)
	return c.dc.Stroke()
}

func (c *Canvas) Present() error {
	img := c.dc.Image().(*image.RGBA)
	c.mu.Lock()
	c.last = img
	c.mu.Unlock()

	if c.opts.Snapshot != "" {
		if err := c.dc.SavePNG(c.opts.Snapshot); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
	}
	return nil
}

// Image returns the last presented frame, or nil before the first one.
func (c *Canvas) Image() image.Image {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last == nil {
		return nil
	}
	return c.last
}

func (c *Canvas) Close() error {
	if c.ticker != nil {
		c.ticker.Stop()
	}
	return c.dc.Close()
}
