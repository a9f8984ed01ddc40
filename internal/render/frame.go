package render

import (
	"github.com/dallonby/RotaryDial/internal/model"
	"github.com/dallonby/RotaryDial/internal/temprange"
)

// ZoneView is one zone's display-ready values.
type ZoneView struct {
	ID       model.ZoneID
	Setpoint float64 // already converted to the display unit
	PowerOn  bool
	Active   bool
}

// Frame is the complete view-model handed to the display driver. The
// core computes everything here; the driver just draws it.
type Frame struct {
	Zones []ZoneView
	Unit  model.Unit

	ScreenName  string
	SubModeName string

	MenuCursor int
	MenuLabels []string

	IPOctets [4]int
	IPCursor int

	ScanHosts  []string
	ScanCursor int

	CredentialField string
	CredentialMask  string
	CredentialChar  byte

	Night  bool
	Dimmed bool
	Synced bool // false while the remote is in backoff
}

// NewZoneView converts a zone's canonical state for display.
func NewZoneView(z model.Zone, unit model.Unit, active bool) ZoneView {
	return ZoneView{
		ID:       z.ID,
		Setpoint: temprange.Display(z.Setpoint, unit),
		PowerOn:  z.PowerOn,
		Active:   active,
	}
}
