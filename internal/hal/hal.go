package hal

import (
	"time"

	"github.com/dallonby/RotaryDial/internal/render"
)

// TouchEvent is one raw press or release from the capacitive panel.
// Coordinates are only meaningful on press.
type TouchEvent struct {
	Pressed bool
	X, Y    int
	At      time.Time
}

// InputSource abstracts the rotary encoder and touch panel. Position is
// a monotonically-changing raw counter; detent derivation happens in the
// input package, not in drivers.
type InputSource interface {
	Position() int64
	// PollTouch returns the next queued touch event, if any.
	PollTouch() (TouchEvent, bool)
}

// Display abstracts the round LCD. The core decides that and with what
// data to redraw; pixels are the driver's problem.
type Display interface {
	Render(f render.Frame)
	SetBrightness(level int)
}

// Clock abstracts wall-clock retrieval. Hour reports ok=false until
// time has been established (e.g. before first NTP sync), in which case
// day/night defaults to day.
type Clock interface {
	Now() time.Time
	Hour() (int, bool)
}
