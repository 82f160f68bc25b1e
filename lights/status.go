package lights

import (
	"context"
	"image/color"
)

// SlotCount is the number of slots in each light strip.
const SlotCount = 3

// Status is the state drawn on every frame. Bit i of Buttons is the pressed
// state of button i.
type Status struct {
	Buttons uint32
	Left    [SlotCount]color.NRGBA
	Right   [SlotCount]color.NRGBA
}

func (s *Status) Pressed(bit int) bool {
	return s.Buttons&(1<<uint(bit)) != 0
}

// Renderer is the drawing surface the loop paints on.
type Renderer interface {
	// BeginFrame waits until the next frame may be drawn and clears it.
	BeginFrame(ctx context.Context) error
	ScreenSize() (width, height float64)
	FillRect(x, y, w, h float64, c color.Color) error
	StrokeRect(x, y, w, h, thickness float64, c color.Color) error
	// Present makes the frame drawn since BeginFrame visible.
	Present() error
}

// Frame describes a presented frame.
type Frame struct {
	Seq    uint64
	Delta  float32
	Status Status
}

// Sink observes presented frames. Frame is called from the render loop and
// must not block.
type Sink interface {
	Frame(f Frame)
}
