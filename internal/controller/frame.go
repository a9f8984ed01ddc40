package controller

import (
	"strings"

	"github.com/dallonby/RotaryDial/internal/mode"
	"github.com/dallonby/RotaryDial/internal/render"
)

func (c *Controller) buildFrame() render.Frame {
	snap := c.appState.Snapshot()

	f := render.Frame{
		Unit:        snap.Unit,
		ScreenName:  c.machine.Screen().String(),
		SubModeName: c.machine.SubMode().String(),
		Night:       c.night,
		Dimmed:      snap.DisplayDim,
		Synced:      snap.Sync.ConsecutiveFailures == 0,
	}
	for _, z := range snap.Zones {
		f.Zones = append(f.Zones, render.NewZoneView(z, snap.Unit, z.ID == snap.ActiveZone))
	}

	switch {
	case c.machine.Screen() != mode.ScreenSettings:
		// Main screen carries only the zone views.

	case c.machine.SubMode() == mode.SubIPEditor:
		buf := c.machine.IPBuffer()
		f.IPOctets = buf.Octets
		f.IPCursor = buf.Cursor

	case c.machine.SubMode() == mode.SubNetworkScan:
		for _, h := range c.machine.ScanHosts() {
			f.ScanHosts = append(f.ScanHosts, h.Name+" "+h.Addr)
		}
		f.ScanCursor = c.machine.ScanCursor()

	case c.machine.SubMode() == mode.SubCredentialEntry:
		buf := c.machine.CredentialBuffer()
		f.CredentialField = buf.Field.String()
		f.CredentialChar = buf.Selected()
		if buf.Field == mode.FieldPassphrase {
			f.CredentialMask = strings.Repeat("*", len(buf.Value))
		} else {
			f.CredentialMask = buf.Value
		}

	default:
		f.MenuCursor = int(c.machine.MenuCursor())
		for _, item := range mode.MenuItems() {
			f.MenuLabels = append(f.MenuLabels, item.Label())
		}
	}
	return f
}
