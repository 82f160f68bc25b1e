package comm

import (
	"fmt"
	"image/color"
)

type UpdateKind int

// UpdateKind values
const (
	invalid UpdateKind = iota
	Buttons
	LeftLight
	RightLight
	NextFrame
	Shutdown
)

func (k UpdateKind) String() string {
	switch k {
	case Buttons:
		return "Buttons"
	case LeftLight:
		return "LeftLight"
	case RightLight:
		return "RightLight"
	case NextFrame:
		return "NextFrame"
	case Shutdown:
		return "Shutdown"
	default:
		return "Invalid"
	}
}

// Update is a single state change or control signal for the render loop.
// Only the fields relevant to Kind are set.
type Update struct {
	Kind    UpdateKind
	Buttons uint32
	Color   color.NRGBA
	Index   int
	// Delta is the host's frame time. It is reserved and not used for pacing.
	Delta float32
}

func (u Update) String() string {
	switch u.Kind {
	case Buttons:
		return fmt.Sprintf("Buttons(0x%08x)", u.Buttons)
	case LeftLight, RightLight:
		return fmt.Sprintf("%s(#%02x%02x%02x, %d)", u.Kind, u.Color.R, u.Color.G, u.Color.B, u.Index)
	case NextFrame:
		return fmt.Sprintf("NextFrame(%g)", u.Delta)
	default:
		return u.Kind.String()
	}
}
