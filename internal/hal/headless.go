package hal

import (
	"github.com/rs/zerolog/log"

	"github.com/dallonby/RotaryDial/internal/render"
)

// HeadlessInput is the input source used when the dial hardware is not
// attached: no encoder motion, no touches. All control comes in through
// the REST surface.
type HeadlessInput struct{}

func (HeadlessInput) Position() int64 { return 0 }

func (HeadlessInput) PollTouch() (TouchEvent, bool) { return TouchEvent{}, false }

// LogDisplay renders frames as structured log lines instead of pixels.
type LogDisplay struct{}

func (LogDisplay) Render(f render.Frame) {
	ev := log.Debug().
		Str("screen", f.ScreenName).
		Str("submode", f.SubModeName).
		Str("unit", string(f.Unit)).
		Bool("night", f.Night).
		Bool("dimmed", f.Dimmed).
		Bool("synced", f.Synced)
	for _, z := range f.Zones {
		ev = ev.Float64(string(z.ID)+"_setpoint", z.Setpoint).Bool(string(z.ID)+"_power", z.PowerOn)
	}
	ev.Msg("Frame")
}

func (LogDisplay) SetBrightness(level int) {
	log.Debug().Int("level", level).Msg("Display brightness")
}
