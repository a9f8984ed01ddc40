package input

import (
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dallonby/RotaryDial/internal/temprange"
)

type GestureKind int

const (
	Tap GestureKind = iota
	ShortHold
	MediumHold
	LongHold
)

func (k GestureKind) String() string {
	switch k {
	case Tap:
		return "tap"
	case ShortHold:
		return "short_hold"
	case MediumHold:
		return "medium_hold"
	case LongHold:
		return "long_hold"
	default:
		return "unknown"
	}
}

type Region int

const (
	RegionNone Region = iota
	RegionCenter
	RegionArc
	RegionLeftButton
	RegionRightButton
	RegionBottomBand
)

func (r Region) String() string {
	switch r {
	case RegionCenter:
		return "center"
	case RegionArc:
		return "arc"
	case RegionLeftButton:
		return "left_button"
	case RegionRightButton:
		return "right_button"
	case RegionBottomBand:
		return "bottom_band"
	default:
		return "none"
	}
}

// Screen geometry, from the 240x240 round display.
const (
	screenWidth  = 240
	screenHeight = 240
	centerX      = screenWidth / 2
	centerY      = screenHeight / 2

	centerRadius  = 50
	arcRadius     = 100
	arcThickness  = 15
	arcInnerReach = arcRadius - arcThickness - 10
	arcOuterReach = arcRadius + 10

	bottomBandY = 200
	buttonWidth = 60
)

// Gesture is one classified press/release pair. Region and, for arc
// touches, ArcSetpoint are fixed at press time.
type Gesture struct {
	Kind        GestureKind
	Region      Region
	ArcSetpoint float64 // canonical Celsius
	ArcValid    bool    // the touch fell inside the arc's angular span
	At          time.Time
}

type ClassifierConfig struct {
	TapMax        time.Duration
	ShortHoldMax  time.Duration
	MediumHoldMax time.Duration
	Debounce      time.Duration
	StuckPress    time.Duration
}

// Classifier derives gestures from raw press/release events. A press
// fixes the spatial region; the release duration picks the kind.
type Classifier struct {
	cfg ClassifierConfig

	pressed     bool
	pressAt     time.Time
	pressRegion Region
	arcSetpoint float64
	arcValid    bool
	lastRelease time.Time
	haveRelease bool
}

func NewClassifier(cfg ClassifierConfig) *Classifier {
	return &Classifier{cfg: cfg}
}

// Press records the start of a touch. A second press while one is
// outstanding replaces it rather than merging the two.
func (c *Classifier) Press(x, y int, at time.Time) {
	if c.pressed {
		log.Debug().Time("prev_press", c.pressAt).Msg("Replacing unreleased touch press")
	}
	c.pressed = true
	c.pressAt = at
	c.pressRegion = classifyRegion(x, y)
	c.arcSetpoint, c.arcValid = 0, false
	if c.pressRegion == RegionArc {
		c.arcSetpoint, c.arcValid = arcTouchSetpoint(x, y)
	}
}

// Release completes a gesture. Returns false when the release is
// debounced, stale, or unmatched.
func (c *Classifier) Release(at time.Time) (Gesture, bool) {
	if !c.pressed {
		return Gesture{}, false
	}
	c.pressed = false

	if c.haveRelease && at.Sub(c.lastRelease) < c.cfg.Debounce {
		return Gesture{}, false
	}

	d := at.Sub(c.pressAt)
	if d >= c.cfg.StuckPress {
		log.Warn().Dur("held", d).Msg("Dropping gesture from stuck touch contact")
		return Gesture{}, false
	}

	c.lastRelease = at
	c.haveRelease = true

	g := Gesture{
		Kind:        classifyDuration(d, c.cfg),
		Region:      c.pressRegion,
		ArcSetpoint: c.arcSetpoint,
		ArcValid:    c.arcValid,
		At:          at,
	}
	return g, g.Region != RegionNone
}

// Expire drops a press that was never released within the stuck-press
// bound. Called every loop pass.
func (c *Classifier) Expire(now time.Time) {
	if c.pressed && now.Sub(c.pressAt) >= c.cfg.StuckPress {
		log.Warn().Time("press_at", c.pressAt).Msg("Resetting stale touch press state")
		c.pressed = false
	}
}

func classifyDuration(d time.Duration, cfg ClassifierConfig) GestureKind {
	switch {
	case d < cfg.TapMax:
		return Tap
	case d < cfg.ShortHoldMax:
		return ShortHold
	case d < cfg.MediumHoldMax:
		return MediumHold
	default:
		return LongHold
	}
}

func classifyRegion(x, y int) Region {
	dx := float64(x - centerX)
	dy := float64(y - centerY)
	dist := math.Hypot(dx, dy)

	if dist < centerRadius {
		return RegionCenter
	}
	if dist > arcInnerReach && dist < arcOuterReach {
		return RegionArc
	}
	if y >= bottomBandY {
		return RegionBottomBand
	}
	if x < buttonWidth {
		return RegionLeftButton
	}
	if x > screenWidth-buttonWidth {
		return RegionRightButton
	}
	return RegionNone
}

// arcTouchSetpoint maps a touch on the arc band to an absolute setpoint.
// The arc spans -135..135 degrees after rotating the reference by 90, with
// the wrap seam at -135/+225; the seam value itself maps to Min.
func arcTouchSetpoint(x, y int) (float64, bool) {
	dx := float64(x - centerX)
	dy := float64(y - centerY)

	angle := math.Atan2(dy, dx)*180.0/math.Pi + 90.0
	if angle < -135 {
		angle += 360
	}
	// The seam value itself (+225 == -135) resolves to Min.
	if angle >= 225 {
		angle -= 360
	}
	if angle < -135 || angle > 135 {
		return 0, false
	}

	frac := (angle + 135) / 270
	return temprange.Min + frac*(temprange.Max-temprange.Min), true
}
