package mode

import (
	"github.com/rs/zerolog/log"

	"github.com/dallonby/RotaryDial/internal/input"
	"github.com/dallonby/RotaryDial/internal/model"
)

type Screen int

const (
	ScreenMain Screen = iota
	ScreenSettings
)

func (s Screen) String() string {
	if s == ScreenSettings {
		return "settings"
	}
	return "main"
}

// SubMode is only meaningful while Screen == ScreenSettings. The three
// editors are mutually exclusive.
type SubMode int

const (
	SubNone SubMode = iota
	SubIPEditor
	SubNetworkScan
	SubCredentialEntry
)

func (s SubMode) String() string {
	switch s {
	case SubIPEditor:
		return "ip_editor"
	case SubNetworkScan:
		return "network_scan"
	case SubCredentialEntry:
		return "credential_entry"
	default:
		return "none"
	}
}

type MenuItem int

const (
	MenuBedAddress MenuItem = iota
	MenuPillowAddress
	MenuScanNetwork
	MenuWiFiSetup
	MenuUnit
	MenuSwapSides
	MenuNightOverride
	menuItemCount
)

var menuLabels = map[MenuItem]string{
	MenuBedAddress:    "Bed address",
	MenuPillowAddress: "Pillow address",
	MenuScanNetwork:   "Scan network",
	MenuWiFiSetup:     "WiFi setup",
	MenuUnit:          "Unit C/F",
	MenuSwapSides:     "Swap sides",
	MenuNightOverride: "Night override",
}

func (m MenuItem) Label() string { return menuLabels[m] }

// MenuItems lists the settings entries in display order.
func MenuItems() []MenuItem {
	items := make([]MenuItem, 0, int(menuItemCount))
	for i := MenuItem(0); i < menuItemCount; i++ {
		items = append(items, i)
	}
	return items
}

// Host is one discovered network peer, as shown in the scan submode.
type Host struct {
	Name string
	Addr string
}

// AddressCommit carries a completed remote-address edit out of a submode.
type AddressCommit struct {
	Zone    model.ZoneID
	Address string
}

// CredentialCommit carries completed WiFi credentials.
type CredentialCommit struct {
	SSID       string
	Passphrase string
}

// Effects is everything a dispatched event asks the control loop to do.
// The machine itself never touches zones, the network, or the display.
type Effects struct {
	Redraw bool
	// Rebase means the mode changed and the rotary accumulator must be
	// re-baselined so carried motion cannot leak a step across modes.
	Rebase bool

	ToggleDim   bool
	TogglePower bool
	ToggleNight bool
	SelectZone  *model.ZoneID

	SetpointSteps int
	SetpointAbs   *float64

	ToggleUnit bool
	SwapSides  bool

	SetAddress  *AddressCommit
	Credentials *CredentialCommit

	StartScan bool
	StopScan  bool
}

// Machine is the modal UI state machine. Every (state, event) pair maps
// to a total outcome; unrecognized combinations are no-ops.
type Machine struct {
	screen Screen
	sub    SubMode

	menuCursor MenuItem

	ipTarget model.ZoneID
	ipBuf    IPEditBuffer

	credBuf CredentialBuffer

	scanHosts  []Host
	scanCursor int
}

func NewMachine() *Machine {
	return &Machine{screen: ScreenMain, sub: SubNone}
}

func (m *Machine) Screen() Screen                     { return m.screen }
func (m *Machine) SubMode() SubMode                   { return m.sub }
func (m *Machine) MenuCursor() MenuItem               { return m.menuCursor }
func (m *Machine) IPTarget() model.ZoneID             { return m.ipTarget }
func (m *Machine) IPBuffer() IPEditBuffer             { return m.ipBuf }
func (m *Machine) CredentialBuffer() CredentialBuffer { return m.credBuf }

func (m *Machine) ScanHosts() []Host { return m.scanHosts }
func (m *Machine) ScanCursor() int   { return m.scanCursor }

// SeedIPBuffer preloads the IP editor with a zone's current address.
// Called by the loop right after the editor is entered.
func (m *Machine) SeedIPBuffer(addr string) {
	m.ipBuf.Load(addr)
}

// SetScanHosts replaces the scan result list as discoveries arrive.
func (m *Machine) SetScanHosts(hosts []Host) {
	m.scanHosts = hosts
	if m.scanCursor >= len(hosts) {
		m.scanCursor = 0
	}
}

// HandleSteps routes accumulated rotary steps to the deepest active mode.
func (m *Machine) HandleSteps(steps int, activeZone model.ZoneID) Effects {
	if steps == 0 {
		return Effects{}
	}

	switch {
	case m.screen == ScreenMain:
		return Effects{Redraw: true, SetpointSteps: steps}

	case m.sub == SubIPEditor:
		m.ipBuf.Adjust(steps)
		return Effects{Redraw: true}

	case m.sub == SubNetworkScan:
		if len(m.scanHosts) > 0 {
			m.scanCursor = clampInt(m.scanCursor+steps, 0, len(m.scanHosts)-1)
		}
		return Effects{Redraw: true}

	case m.sub == SubCredentialEntry:
		m.credBuf.Cycle(steps)
		return Effects{Redraw: true}

	default: // settings menu
		m.menuCursor = MenuItem(clampInt(int(m.menuCursor)+steps, 0, int(menuItemCount)-1))
		return Effects{Redraw: true}
	}
}

// HandleGesture routes one classified gesture to the deepest active mode.
func (m *Machine) HandleGesture(g input.Gesture, activeZone model.ZoneID) Effects {
	switch {
	case m.screen == ScreenMain:
		return m.handleMain(g, activeZone)
	case m.sub == SubIPEditor:
		return m.handleIPEditor(g)
	case m.sub == SubNetworkScan:
		return m.handleNetworkScan(g, activeZone)
	case m.sub == SubCredentialEntry:
		return m.handleCredentialEntry(g)
	default:
		return m.handleSettingsMenu(g, activeZone)
	}
}

func (m *Machine) handleMain(g input.Gesture, activeZone model.ZoneID) Effects {
	switch g.Kind {
	case input.Tap:
		switch g.Region {
		case input.RegionCenter:
			return Effects{Redraw: true, ToggleDim: true}
		case input.RegionArc:
			if g.ArcValid {
				v := g.ArcSetpoint
				return Effects{Redraw: true, SetpointAbs: &v}
			}
		case input.RegionLeftButton:
			z := model.ZoneBed
			return Effects{Redraw: true, SelectZone: &z}
		case input.RegionRightButton:
			z := model.ZonePillow
			return Effects{Redraw: true, SelectZone: &z}
		case input.RegionBottomBand:
			return m.enterSettings()
		}
	// Holds dispatch on duration alone; only taps care where they land.
	case input.ShortHold:
		return Effects{Redraw: true, TogglePower: true}
	case input.MediumHold:
		return Effects{Redraw: true, ToggleNight: true}
	case input.LongHold:
		return m.enterSettings()
	}
	return Effects{}
}

func (m *Machine) handleSettingsMenu(g input.Gesture, activeZone model.ZoneID) Effects {
	switch g.Kind {
	case input.Tap:
		// Any tap in the settings list returns to the main screen.
		m.screen = ScreenMain
		log.Debug().Msg("Mode: settings -> main")
		return Effects{Redraw: true, Rebase: true}

	case input.ShortHold:
		return m.selectMenuItem(m.menuCursor, activeZone)
	}
	return Effects{}
}

func (m *Machine) selectMenuItem(item MenuItem, activeZone model.ZoneID) Effects {
	switch item {
	case MenuBedAddress:
		return m.enterIPEditor(model.ZoneBed)
	case MenuPillowAddress:
		return m.enterIPEditor(model.ZonePillow)
	case MenuScanNetwork:
		m.sub = SubNetworkScan
		m.scanHosts = nil
		m.scanCursor = 0
		log.Debug().Msg("Mode: settings -> network_scan")
		return Effects{Redraw: true, Rebase: true, StartScan: true}
	case MenuWiFiSetup:
		m.sub = SubCredentialEntry
		m.credBuf.Reset()
		log.Debug().Msg("Mode: settings -> credential_entry")
		return Effects{Redraw: true, Rebase: true}

	// Toggle items mutate in place and stay in the settings list.
	case MenuUnit:
		return Effects{Redraw: true, ToggleUnit: true}
	case MenuSwapSides:
		return Effects{Redraw: true, SwapSides: true}
	case MenuNightOverride:
		return Effects{Redraw: true, ToggleNight: true}
	}
	return Effects{}
}

func (m *Machine) enterSettings() Effects {
	m.screen = ScreenSettings
	m.sub = SubNone
	m.menuCursor = MenuBedAddress
	log.Debug().Msg("Mode: main -> settings")
	return Effects{Redraw: true, Rebase: true}
}

func (m *Machine) enterIPEditor(target model.ZoneID) Effects {
	m.sub = SubIPEditor
	m.ipTarget = target
	m.ipBuf.Reset()
	log.Debug().Str("zone", string(target)).Msg("Mode: settings -> ip_editor")
	return Effects{Redraw: true, Rebase: true}
}

// exitSubMode always lands back in the settings list, never on Main.
func (m *Machine) exitSubMode() Effects {
	log.Debug().Str("from", m.sub.String()).Msg("Mode: submode -> settings")
	m.sub = SubNone
	return Effects{Redraw: true, Rebase: true}
}

func (m *Machine) handleIPEditor(g input.Gesture) Effects {
	switch g.Kind {
	case input.Tap:
		// Exit discards the partial edit.
		return m.exitSubMode()

	case input.ShortHold:
		done := m.ipBuf.Advance()
		if !done {
			return Effects{Redraw: true}
		}
		commit := &AddressCommit{Zone: m.ipTarget, Address: m.ipBuf.String()}
		fx := m.exitSubMode()
		fx.SetAddress = commit
		return fx
	}
	return Effects{}
}

func (m *Machine) handleNetworkScan(g input.Gesture, activeZone model.ZoneID) Effects {
	switch g.Kind {
	case input.Tap:
		fx := m.exitSubMode()
		fx.StopScan = true
		return fx

	case input.ShortHold:
		if len(m.scanHosts) == 0 {
			return Effects{}
		}
		host := m.scanHosts[m.scanCursor]
		commit := &AddressCommit{Zone: activeZone, Address: host.Addr}
		fx := m.exitSubMode()
		fx.SetAddress = commit
		fx.StopScan = true
		return fx
	}
	return Effects{}
}

func (m *Machine) handleCredentialEntry(g input.Gesture) Effects {
	switch g.Kind {
	case input.Tap:
		// Discards the field being edited.
		return m.exitSubMode()

	case input.ShortHold:
		m.credBuf.Append()
		return Effects{Redraw: true}

	case input.MediumHold:
		m.credBuf.Backspace()
		return Effects{Redraw: true}

	case input.LongHold:
		commit, done := m.credBuf.Commit()
		if !done {
			return Effects{Redraw: true}
		}
		fx := m.exitSubMode()
		fx.Credentials = commit
		return fx
	}
	return Effects{}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
