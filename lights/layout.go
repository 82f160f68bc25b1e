package lights

import (
	"errors"
	"image/color"
)

const (
	stripWidth   = 100.0
	buttonWidth  = 75.0
	statusWidth  = 25.0
	fxWidth      = buttonWidth * 1.75
	outlineWidth = 2.0

	buttonCount = 4
	fxCount     = 2
	fxBit       = 4
	statusBit   = 6
)

var (
	buttonFill    = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	buttonOutline = color.NRGBA{R: 130, G: 130, B: 130, A: 255}
	fxFill        = color.NRGBA{R: 255, G: 161, B: 0, A: 255}
	fxOutline     = color.NRGBA{R: 230, G: 41, B: 55, A: 255}
	statusColor   = color.NRGBA{R: 0, G: 121, B: 241, A: 255}
)

type rect struct {
	x, y, w, h float64
}

// drawStatus paints one full frame of s onto r.
func drawStatus(r Renderer, s *Status) error {
	width, height := r.ScreenSize()
	var errs []error

	slot := height / SlotCount
	for i := 0; i < SlotCount; i++ {
		y := float64(i) * slot
		errs = append(errs,
			r.FillRect(0, y, stripWidth, slot, s.Left[i]),
			r.FillRect(width-stripWidth, y, stripWidth, slot, s.Right[i]),
		)
	}

	for i := 0; i < buttonCount; i++ {
		bt := rect{
			x: width/2 - buttonWidth*2 + buttonWidth*float64(i),
			y: buttonWidth + 50,
			w: buttonWidth,
			h: buttonWidth,
		}
		errs = append(errs, drawIndicator(r, bt, s.Pressed(i), buttonFill, buttonOutline))
	}

	for i := 0; i < fxCount; i++ {
		fx := rect{
			x: width/2 - fxWidth + fxWidth*float64(i),
			y: 2*buttonWidth + 50 + 25,
			w: fxWidth,
			h: buttonWidth / 2,
		}
		errs = append(errs, drawIndicator(r, fx, s.Pressed(fxBit+i), fxFill, fxOutline))
	}

	st := rect{x: width/2 - statusWidth/2, y: 25, w: statusWidth, h: statusWidth}
	errs = append(errs, drawIndicator(r, st, s.Pressed(statusBit), statusColor, statusColor))

	return errors.Join(errs...)
}

// drawIndicator always draws the outline; the fill only when on.
func drawIndicator(r Renderer, rc rect, on bool, fill, outline color.Color) error {
	var err error
	if on {
		err = r.FillRect(rc.x, rc.y, rc.w, rc.h, fill)
	}
	return errors.Join(err, r.StrokeRect(rc.x, rc.y, rc.w, rc.h, outlineWidth, outline))
}
