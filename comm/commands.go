package comm

import "image/color"

func NewButtonsUpdate(bitfield uint32) Update {
	return Update{Kind: Buttons, Buttons: bitfield}
}

// NewLightUpdate builds a LeftLight or RightLight update. The color is
// always fully opaque.
func NewLightUpdate(left bool, index int, r, g, b uint8) Update {
	kind := RightLight
	if left {
		kind = LeftLight
	}
	return Update{Kind: kind, Color: color.NRGBA{R: r, G: g, B: b, A: 255}, Index: index}
}

func NewFrameUpdate(delta float32) Update {
	return Update{Kind: NextFrame, Delta: delta}
}

func NewShutdownUpdate() Update {
	return Update{Kind: Shutdown}
}
