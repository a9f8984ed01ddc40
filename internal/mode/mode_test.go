package mode

import (
	"testing"
	"time"

	"github.com/dallonby/RotaryDial/internal/input"
	"github.com/dallonby/RotaryDial/internal/model"
)

func gesture(kind input.GestureKind, region input.Region) input.Gesture {
	return input.Gesture{Kind: kind, Region: region, At: time.Now()}
}

func TestMainScreenGestures(t *testing.T) {
	tests := []struct {
		name  string
		g     input.Gesture
		check func(t *testing.T, m *Machine, fx Effects)
	}{
		{
			name: "center tap toggles dim",
			g:    gesture(input.Tap, input.RegionCenter),
			check: func(t *testing.T, m *Machine, fx Effects) {
				if !fx.ToggleDim {
					t.Error("want ToggleDim")
				}
				if m.Screen() != ScreenMain {
					t.Error("tap must not change screens")
				}
			},
		},
		{
			name: "center short hold toggles power",
			g:    gesture(input.ShortHold, input.RegionCenter),
			check: func(t *testing.T, m *Machine, fx Effects) {
				if !fx.TogglePower {
					t.Error("want TogglePower")
				}
			},
		},
		{
			name: "center medium hold toggles night override",
			g:    gesture(input.MediumHold, input.RegionCenter),
			check: func(t *testing.T, m *Machine, fx Effects) {
				if !fx.ToggleNight {
					t.Error("want ToggleNight")
				}
			},
		},
		{
			name: "center long hold enters settings",
			g:    gesture(input.LongHold, input.RegionCenter),
			check: func(t *testing.T, m *Machine, fx Effects) {
				if m.Screen() != ScreenSettings || m.SubMode() != SubNone {
					t.Errorf("state = %v/%v, want settings/none", m.Screen(), m.SubMode())
				}
				if !fx.Rebase {
					t.Error("mode change must rebase the encoder")
				}
			},
		},
		{
			name: "bottom band tap enters settings",
			g:    gesture(input.Tap, input.RegionBottomBand),
			check: func(t *testing.T, m *Machine, fx Effects) {
				if m.Screen() != ScreenSettings {
					t.Error("want settings screen")
				}
			},
		},
		{
			name: "left button tap selects bed",
			g:    gesture(input.Tap, input.RegionLeftButton),
			check: func(t *testing.T, m *Machine, fx Effects) {
				if fx.SelectZone == nil || *fx.SelectZone != model.ZoneBed {
					t.Error("want bed selected")
				}
			},
		},
		{
			name: "right button tap selects pillow",
			g:    gesture(input.Tap, input.RegionRightButton),
			check: func(t *testing.T, m *Machine, fx Effects) {
				if fx.SelectZone == nil || *fx.SelectZone != model.ZonePillow {
					t.Error("want pillow selected")
				}
			},
		},
		{
			name: "long hold anywhere opens settings",
			g:    gesture(input.LongHold, input.RegionLeftButton),
			check: func(t *testing.T, m *Machine, fx Effects) {
				if m.Screen() != ScreenSettings {
					t.Error("want settings screen")
				}
				if !fx.Rebase {
					t.Error("want a rebase on the mode change")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine()
			fx := m.HandleGesture(tt.g, model.ZoneBed)
			tt.check(t, m, fx)
		})
	}
}

func TestArcTapSetsAbsoluteSetpoint(t *testing.T) {
	m := NewMachine()
	g := input.Gesture{Kind: input.Tap, Region: input.RegionArc, ArcSetpoint: 27.5, ArcValid: true}
	fx := m.HandleGesture(g, model.ZoneBed)
	if fx.SetpointAbs == nil || *fx.SetpointAbs != 27.5 {
		t.Errorf("fx = %+v, want absolute setpoint 27.5", fx)
	}

	// Outside the arc's angular span nothing happens.
	g.ArcValid = false
	fx = m.HandleGesture(g, model.ZoneBed)
	if fx.SetpointAbs != nil {
		t.Error("invalid arc touch must not set a setpoint")
	}
}

func TestMainScreenStepsEditSetpoint(t *testing.T) {
	m := NewMachine()
	fx := m.HandleSteps(3, model.ZoneBed)
	if fx.SetpointSteps != 3 {
		t.Errorf("SetpointSteps = %d, want 3", fx.SetpointSteps)
	}
	fx = m.HandleSteps(0, model.ZoneBed)
	if fx.Redraw {
		t.Error("zero steps must be a no-op")
	}
}

func enterSettings(t *testing.T, m *Machine) {
	t.Helper()
	m.HandleGesture(gesture(input.Tap, input.RegionBottomBand), model.ZoneBed)
	if m.Screen() != ScreenSettings {
		t.Fatal("failed to enter settings")
	}
}

func selectItem(t *testing.T, m *Machine, item MenuItem) Effects {
	t.Helper()
	m.menuCursor = item
	return m.HandleGesture(gesture(input.ShortHold, input.RegionCenter), model.ZoneBed)
}

func TestSettingsMenuNavigation(t *testing.T) {
	m := NewMachine()
	enterSettings(t, m)

	m.HandleSteps(2, model.ZoneBed)
	if m.MenuCursor() != MenuScanNetwork {
		t.Errorf("cursor = %v, want scan item", m.MenuCursor())
	}

	// Cursor clamps at both ends.
	m.HandleSteps(100, model.ZoneBed)
	if m.MenuCursor() != MenuNightOverride {
		t.Errorf("cursor = %v, want last item", m.MenuCursor())
	}
	m.HandleSteps(-100, model.ZoneBed)
	if m.MenuCursor() != MenuBedAddress {
		t.Errorf("cursor = %v, want first item", m.MenuCursor())
	}
}

func TestSettingsTapReturnsToMain(t *testing.T) {
	m := NewMachine()
	enterSettings(t, m)

	fx := m.HandleGesture(gesture(input.Tap, input.RegionCenter), model.ZoneBed)
	if m.Screen() != ScreenMain {
		t.Error("tap in settings list must return to main")
	}
	if !fx.Rebase {
		t.Error("leaving settings must rebase the encoder")
	}
}

func TestToggleItemsStayInSettings(t *testing.T) {
	m := NewMachine()
	enterSettings(t, m)

	fx := selectItem(t, m, MenuUnit)
	if !fx.ToggleUnit {
		t.Error("want ToggleUnit")
	}
	if m.Screen() != ScreenSettings || m.SubMode() != SubNone {
		t.Error("toggle items must not open a submode")
	}

	fx = selectItem(t, m, MenuSwapSides)
	if !fx.SwapSides {
		t.Error("want SwapSides")
	}
	fx = selectItem(t, m, MenuNightOverride)
	if !fx.ToggleNight {
		t.Error("want ToggleNight")
	}
}

func TestSubmodeTapReturnsToSettingsNeverMain(t *testing.T) {
	openers := map[string]MenuItem{
		"ip_editor":        MenuBedAddress,
		"network_scan":     MenuScanNetwork,
		"credential_entry": MenuWiFiSetup,
	}

	for name, item := range openers {
		t.Run(name, func(t *testing.T) {
			m := NewMachine()
			enterSettings(t, m)
			selectItem(t, m, item)
			if m.SubMode() == SubNone {
				t.Fatal("submode did not open")
			}

			m.HandleGesture(gesture(input.Tap, input.RegionBottomBand), model.ZoneBed)
			if m.Screen() != ScreenSettings || m.SubMode() != SubNone {
				t.Errorf("state = %v/%v, want settings/none", m.Screen(), m.SubMode())
			}
		})
	}
}

func TestIPEditorFlow(t *testing.T) {
	m := NewMachine()
	enterSettings(t, m)
	fx := selectItem(t, m, MenuPillowAddress)
	if !fx.Rebase || m.SubMode() != SubIPEditor {
		t.Fatal("expected to enter the IP editor")
	}
	if m.IPTarget() != model.ZonePillow {
		t.Errorf("target = %v, want pillow", m.IPTarget())
	}

	// Dial in 10.0.0.42: steps edit the focused octet, short holds
	// advance, the final advance commits.
	m.HandleSteps(10, model.ZoneBed)
	m.HandleGesture(gesture(input.ShortHold, input.RegionCenter), model.ZoneBed)
	m.HandleGesture(gesture(input.ShortHold, input.RegionCenter), model.ZoneBed)
	m.HandleGesture(gesture(input.ShortHold, input.RegionCenter), model.ZoneBed)
	m.HandleSteps(42, model.ZoneBed)
	fx = m.HandleGesture(gesture(input.ShortHold, input.RegionCenter), model.ZoneBed)

	if fx.SetAddress == nil {
		t.Fatal("final advance must commit the address")
	}
	if fx.SetAddress.Address != "10.0.0.42" || fx.SetAddress.Zone != model.ZonePillow {
		t.Errorf("commit = %+v", fx.SetAddress)
	}
	if m.SubMode() != SubNone {
		t.Error("commit must land back in the settings list")
	}
}

func TestIPEditorTapDiscards(t *testing.T) {
	m := NewMachine()
	enterSettings(t, m)
	selectItem(t, m, MenuBedAddress)

	m.HandleSteps(99, model.ZoneBed)
	fx := m.HandleGesture(gesture(input.Tap, input.RegionCenter), model.ZoneBed)
	if fx.SetAddress != nil {
		t.Error("tap exit must not commit a partial address")
	}
}

func TestIPEditorOctetClamping(t *testing.T) {
	var b IPEditBuffer
	b.Adjust(300)
	if b.Octets[0] != 255 {
		t.Errorf("octet = %d, want clamp at 255", b.Octets[0])
	}
	b.Adjust(-999)
	if b.Octets[0] != 0 {
		t.Errorf("octet = %d, want clamp at 0", b.Octets[0])
	}
}

func TestIPEditBufferLoad(t *testing.T) {
	var b IPEditBuffer
	b.Load("192.168.4.77")
	if b.String() != "192.168.4.77" {
		t.Errorf("loaded = %s", b.String())
	}

	b.Load("not-an-address")
	if b.String() != "0.0.0.0" {
		t.Errorf("malformed input should zero the buffer, got %s", b.String())
	}
	b.Load("1.2.3.999")
	if b.String() != "0.0.0.0" {
		t.Errorf("out-of-range octet should zero the buffer, got %s", b.String())
	}
}

func TestNetworkScanFlow(t *testing.T) {
	m := NewMachine()
	enterSettings(t, m)
	fx := selectItem(t, m, MenuScanNetwork)
	if !fx.StartScan {
		t.Fatal("entering the scanner must start a scan")
	}

	m.SetScanHosts([]Host{
		{Name: "pod-a.local", Addr: "10.0.0.8"},
		{Name: "pod-b.local", Addr: "10.0.0.9"},
	})
	m.HandleSteps(1, model.ZonePillow)

	fx = m.HandleGesture(gesture(input.ShortHold, input.RegionCenter), model.ZonePillow)
	if fx.SetAddress == nil || fx.SetAddress.Address != "10.0.0.9" {
		t.Fatalf("commit = %+v, want highlighted host", fx.SetAddress)
	}
	if fx.SetAddress.Zone != model.ZonePillow {
		t.Error("scan assigns to the active zone")
	}
	if !fx.StopScan || m.SubMode() != SubNone {
		t.Error("assignment must stop the scan and exit")
	}
}

func TestNetworkScanSelectWithNoHosts(t *testing.T) {
	m := NewMachine()
	enterSettings(t, m)
	selectItem(t, m, MenuScanNetwork)

	fx := m.HandleGesture(gesture(input.ShortHold, input.RegionCenter), model.ZoneBed)
	if fx.SetAddress != nil || m.SubMode() != SubNetworkScan {
		t.Error("selecting with no results must be a no-op")
	}
}

func TestCredentialEntryFlow(t *testing.T) {
	m := NewMachine()
	enterSettings(t, m)
	selectItem(t, m, MenuWiFiSetup)

	// Spell "ab" for the SSID: wheel starts at 'a'.
	m.HandleGesture(gesture(input.ShortHold, input.RegionCenter), model.ZoneBed)
	m.HandleSteps(1, model.ZoneBed)
	m.HandleGesture(gesture(input.ShortHold, input.RegionCenter), model.ZoneBed)

	fx := m.HandleGesture(gesture(input.LongHold, input.RegionCenter), model.ZoneBed)
	if fx.Credentials != nil {
		t.Fatal("first commit finishes the SSID only")
	}
	if m.SubMode() != SubCredentialEntry {
		t.Fatal("still entering the passphrase")
	}

	// Passphrase "a", then commit.
	m.HandleGesture(gesture(input.ShortHold, input.RegionCenter), model.ZoneBed)
	fx = m.HandleGesture(gesture(input.LongHold, input.RegionCenter), model.ZoneBed)

	if fx.Credentials == nil {
		t.Fatal("second commit must produce credentials")
	}
	if fx.Credentials.SSID != "ab" || fx.Credentials.Passphrase != "a" {
		t.Errorf("credentials = %+v", fx.Credentials)
	}
	if m.SubMode() != SubNone {
		t.Error("commit must exit to the settings list")
	}
}

func TestCredentialBackspace(t *testing.T) {
	var b CredentialBuffer
	b.Append()
	b.Append()
	b.Backspace()
	if b.Value != "a" {
		t.Errorf("value = %q, want %q", b.Value, "a")
	}
	b.Backspace()
	b.Backspace() // empty; must not panic
	if b.Value != "" {
		t.Errorf("value = %q, want empty", b.Value)
	}
}

func TestCredentialWheelWraps(t *testing.T) {
	var b CredentialBuffer
	b.Cycle(-1)
	if b.Selected() != credentialCharset[len(credentialCharset)-1] {
		t.Error("wheel should wrap backwards")
	}
	b.Cycle(1)
	if b.Selected() != 'a' {
		t.Error("wheel should wrap forwards")
	}
}
