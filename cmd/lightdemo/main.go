// Command lightdemo drives the light window in-process, the way the test
// rig does through the shared library, and leaves the last frame in a PNG.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/thiefmaster/lighttest/display"
	"github.com/thiefmaster/lighttest/host"
)

func sweep(s *host.Surface, delay time.Duration) {
	for i := uint32(0); i < 3; i++ {
		s.SetLights(1, i, 255, 0, 0)
		s.SetLights(0, 2-i, 0, 0, 255)
		s.Tick(float32(delay.Seconds()))
		time.Sleep(delay)
	}
	for bit := 0; bit < 7; bit++ {
		s.SetButtons(1 << bit)
		s.Tick(float32(delay.Seconds()))
		time.Sleep(delay)
	}
}

func main() {
	if len(os.Args) < 2 {
		fmt.Printf("Usage: %s <snapshot.png>\n", os.Args[0])
		return
	}

	s := host.New(func() (*host.Backend, error) {
		canvas, err := display.New(display.Options{
			Title:         "lightdemo",
			Width:         800,
			Height:        600,
			FrameInterval: 16 * time.Millisecond,
			Snapshot:      os.Args[1],
		})
		if err != nil {
			return nil, err
		}
		return &host.Backend{Renderer: canvas, Closers: []io.Closer{canvas}}, nil
	})

	if code := s.Init(func(msg string) { log.Println(msg) }); code != host.StatusOK {
		log.Fatalf("Init failed: %d\n", code)
	}
	log.Printf("running %s\n", host.Name())

	sweep(s, 50*time.Millisecond)
	s.SetButtons(0b0000001)
	s.SetLights(1, 0, 255, 0, 0)
	s.Tick(0.016)
	s.Close()

	<-s.Done()
	log.Printf("last frame written to %s\n", os.Args[1])
}
