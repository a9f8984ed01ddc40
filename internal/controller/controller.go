package controller

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dallonby/RotaryDial/db"
	"github.com/dallonby/RotaryDial/internal/config"
	"github.com/dallonby/RotaryDial/internal/daynight"
	"github.com/dallonby/RotaryDial/internal/hal"
	"github.com/dallonby/RotaryDial/internal/input"
	"github.com/dallonby/RotaryDial/internal/mode"
	"github.com/dallonby/RotaryDial/internal/model"
	"github.com/dallonby/RotaryDial/internal/state"
	"github.com/dallonby/RotaryDial/internal/store"
	appsync "github.com/dallonby/RotaryDial/internal/sync"
	"github.com/dallonby/RotaryDial/internal/temprange"
)

// Command is an external write request (from the REST surface) routed
// through the control loop so it takes the same clamp/push/cooldown path
// as a dial edit.
type Command struct {
	Zone     model.ZoneID
	Setpoint *float64 // canonical Celsius
	PowerOn  *bool
}

// Scanner is the slice of the network scanner the loop drives.
type Scanner interface {
	Start()
	Stop()
	Results() <-chan mode.Host
}

// Controller runs the single-threaded control loop. All mutation of the
// application state happens on this goroutine; everything else talks to
// it through the command channel or read-only snapshots.
type Controller struct {
	cfg      *config.Config
	appState *state.AppState
	dbConn   *sql.DB
	snap     *store.Store

	machine *mode.Machine
	acc     input.Accumulator
	touch   *input.Classifier

	pusher  *appsync.Pusher
	puller  *appsync.Puller
	scanner Scanner

	in      hal.InputSource
	display hal.Display
	clock   hal.Clock

	commands chan Command

	lastActivity time.Time
	night        bool
	brightness   int
	redraw       bool
}

func New(cfg *config.Config, appState *state.AppState, dbConn *sql.DB, snap *store.Store,
	pusher *appsync.Pusher, puller *appsync.Puller, scanner Scanner,
	in hal.InputSource, display hal.Display, clock hal.Clock) *Controller {

	c := &Controller{
		cfg:      cfg,
		appState: appState,
		dbConn:   dbConn,
		snap:     snap,
		machine:  mode.NewMachine(),
		touch: input.NewClassifier(input.ClassifierConfig{
			TapMax:        time.Duration(cfg.TapMaxMs) * time.Millisecond,
			ShortHoldMax:  time.Duration(cfg.ShortHoldMaxMs) * time.Millisecond,
			MediumHoldMax: time.Duration(cfg.MediumHoldMaxMs) * time.Millisecond,
			Debounce:      time.Duration(cfg.TouchDebounceMs) * time.Millisecond,
			StuckPress:    time.Duration(cfg.StuckPressMs) * time.Millisecond,
		}),
		pusher:     pusher,
		puller:     puller,
		scanner:    scanner,
		in:         in,
		display:    display,
		clock:      clock,
		commands:   make(chan Command, 8),
		brightness: -1,
	}
	pusher.OnPushed = c.persistZone
	c.acc.Rebase(in.Position())
	c.lastActivity = clock.Now()
	return c
}

// Commands is the write channel for the REST surface.
func (c *Controller) Commands() chan<- Command {
	return c.commands
}

// Run drives the loop until the context is cancelled.
func (c *Controller) Run(ctx context.Context) {
	log.Info().Msg("Starting control loop")
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	c.redraw = true
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Control loop stopped")
			return
		case <-ticker.C:
			c.Step(c.clock.Now())
		}
	}
}

// Step is one pass of the loop: classify input, advance the mode
// machine, run the schedulers, and render when anything changed.
func (c *Controller) Step(now time.Time) {
	active := c.appState.ActiveZone()

	// Rotary first. All accumulated steps dispatch as one event.
	if steps := c.acc.Feed(c.in.Position()); steps != 0 {
		c.noteActivity(now)
		c.applyEffects(c.machine.HandleSteps(steps, active), now)
	}

	// At most one classified gesture per pass.
	if ev, ok := c.in.PollTouch(); ok {
		if ev.Pressed {
			c.touch.Press(ev.X, ev.Y, ev.At)
		} else if g, ok := c.touch.Release(ev.At); ok {
			wasDim := c.appState.DisplayDim()
			c.noteActivity(now)
			// A touch on a dimmed display only wakes it.
			if !wasDim {
				c.applyEffects(c.machine.HandleGesture(g, active), now)
			}
		}
	}
	c.touch.Expire(now)

	// At most one external command per pass.
	select {
	case cmd := <-c.commands:
		c.applyCommand(cmd, now)
	default:
	}

	c.drainScanResults()

	c.pusher.Tick(now)
	if c.puller.Tick(now) {
		c.redraw = true
	}

	c.checkDayNight(now)
	c.checkDim(now)

	if c.redraw {
		c.redraw = false
		c.display.Render(c.buildFrame())
	}
}

func (c *Controller) noteActivity(now time.Time) {
	c.lastActivity = now
	if c.appState.DisplayDim() {
		c.appState.SetDisplayDim(false)
		c.redraw = true
	}
}

func (c *Controller) applyEffects(fx mode.Effects, now time.Time) {
	if fx.Redraw {
		c.redraw = true
	}
	if fx.Rebase {
		c.acc.Rebase(c.in.Position())
		if c.machine.SubMode() == mode.SubIPEditor {
			c.machine.SeedIPBuffer(c.appState.Zone(c.machine.IPTarget()).RemoteAddress)
		}
	}

	if fx.ToggleDim {
		c.appState.SetDisplayDim(!c.appState.DisplayDim())
	}

	if fx.SelectZone != nil {
		c.appState.SetActiveZone(*fx.SelectZone)
	}

	if fx.TogglePower {
		c.togglePower(c.appState.ActiveZone(), now)
	}

	if fx.ToggleNight {
		next := !c.appState.NightOverride()
		c.appState.SetNightOverride(next)
		if c.dbConn != nil {
			if err := db.SetBoolSetting(c.dbConn, db.KeyNightOverride, next); err != nil {
				log.Warn().Err(err).Msg("Failed to persist night override")
			}
		}
	}

	if fx.SetpointSteps != 0 {
		zone := c.appState.ActiveZone()
		current := c.appState.Zone(zone).Setpoint
		c.editSetpoint(zone, steppedSetpoint(current, fx.SetpointSteps, c.appState.Unit()), now)
	}
	if fx.SetpointAbs != nil {
		c.editSetpoint(c.appState.ActiveZone(), *fx.SetpointAbs, now)
	}

	if fx.ToggleUnit {
		unit := c.appState.ToggleUnit()
		if c.dbConn != nil {
			if err := db.SetUnit(c.dbConn, unit); err != nil {
				log.Warn().Err(err).Msg("Failed to persist unit preference")
			}
		}
		log.Info().Str("unit", string(unit)).Msg("Display unit changed")
	}

	if fx.SwapSides {
		c.swapSides()
	}

	if fx.SetAddress != nil {
		c.setAddress(fx.SetAddress.Zone, fx.SetAddress.Address)
	}

	if fx.Credentials != nil {
		c.saveCredentials(fx.Credentials)
	}

	if fx.StartScan {
		c.scanner.Start()
	}
	if fx.StopScan {
		c.scanner.Stop()
	}
}

func (c *Controller) applyCommand(cmd Command, now time.Time) {
	if cmd.Setpoint != nil {
		c.editSetpoint(cmd.Zone, *cmd.Setpoint, now)
		c.redraw = true
	}
	if cmd.PowerOn != nil {
		if c.appState.Zone(cmd.Zone).PowerOn != *cmd.PowerOn {
			c.togglePower(cmd.Zone, now)
		}
		c.redraw = true
	}
}

// editSetpoint is the single funnel for every setpoint write: dial
// steps, arc touches, and REST commands all clamp, round, stamp the
// cooldown, and schedule a debounced push here.
func (c *Controller) editSetpoint(zone model.ZoneID, value float64, now time.Time) {
	clamped := temprange.ClampAndRound(value, c.appState.Unit())
	c.appState.UpdateZone(zone, func(z *model.Zone) { z.Setpoint = clamped })
	c.appState.MarkLocalEdit(now)
	c.pusher.NotifyEdit(zone, now)
	c.redraw = true

	log.Debug().
		Str("zone", string(zone)).
		Float64("setpoint", clamped).
		Msg("Local setpoint edit")
}

func (c *Controller) togglePower(zone model.ZoneID, now time.Time) {
	var next bool
	c.appState.UpdateZone(zone, func(z *model.Zone) {
		z.PowerOn = !z.PowerOn
		next = z.PowerOn
	})
	c.appState.MarkLocalEdit(now)
	// Power is a discrete action; it goes out immediately.
	c.pusher.PushPowerNow(zone)
	c.redraw = true

	log.Info().
		Str("zone", string(zone)).
		Bool("power_on", next).
		Msg("Zone power toggled")
}

func steppedSetpoint(current float64, steps int, unit model.Unit) float64 {
	if unit == model.UnitFahrenheit {
		return temprange.FToC(temprange.CToF(current) + float64(steps)*temprange.StepF)
	}
	return current + float64(steps)*temprange.StepC
}

func (c *Controller) swapSides() {
	zones := map[model.ZoneID]model.Side{}
	for _, id := range model.ZoneIDs {
		z := c.appState.Zone(id)
		if z.Side == model.SideLeft {
			zones[id] = model.SideRight
		} else {
			zones[id] = model.SideLeft
		}
	}
	for id, side := range zones {
		s := side
		c.appState.UpdateZone(id, func(z *model.Zone) { z.Side = s })
		if c.dbConn != nil {
			if err := db.UpdateZoneSide(c.dbConn, id, s); err != nil {
				log.Warn().Err(err).Str("zone", string(id)).Msg("Failed to persist side mapping")
			}
		}
	}
	log.Info().Msg("Zone side mapping swapped")
}

func (c *Controller) setAddress(zone model.ZoneID, address string) {
	c.appState.UpdateZone(zone, func(z *model.Zone) { z.RemoteAddress = address })
	if c.dbConn != nil {
		if err := db.UpdateZoneAddress(c.dbConn, zone, address); err != nil {
			log.Warn().Err(err).Str("zone", string(zone)).Msg("Failed to persist remote address")
		}
	}
	log.Info().
		Str("zone", string(zone)).
		Str("address", address).
		Msg("Remote address updated")
}

func (c *Controller) saveCredentials(cred *mode.CredentialCommit) {
	if c.dbConn == nil {
		return
	}
	if err := db.SetSetting(c.dbConn, db.KeyWiFiSSID, cred.SSID); err != nil {
		log.Warn().Err(err).Msg("Failed to persist SSID")
		return
	}
	if err := db.SetSetting(c.dbConn, db.KeyWiFiPassphrase, cred.Passphrase); err != nil {
		log.Warn().Err(err).Msg("Failed to persist passphrase")
		return
	}
	log.Info().Str("ssid", cred.SSID).Msg("WiFi credentials saved")
}

// persistZone runs after a successful push: the acknowledged values are
// written to the settings database and the snapshot file.
func (c *Controller) persistZone(z model.Zone) {
	if c.dbConn != nil {
		if err := db.UpdateZoneSetpoint(c.dbConn, z.ID, z.Setpoint); err != nil {
			log.Warn().Err(err).Str("zone", string(z.ID)).Msg("Failed to persist setpoint")
		}
		if err := db.UpdateZonePower(c.dbConn, z.ID, z.PowerOn); err != nil {
			log.Warn().Err(err).Str("zone", string(z.ID)).Msg("Failed to persist power state")
		}
	}
	if c.snap != nil {
		if err := c.snap.Save(&store.Snapshot{Zones: c.appState.Snapshot().Zones}); err != nil {
			log.Warn().Err(err).Msg("Failed to save zone snapshot")
		}
	}
}

func (c *Controller) drainScanResults() {
	ch := c.scanner.Results()
	if ch == nil {
		return
	}
	for {
		select {
		case host, ok := <-ch:
			if !ok {
				return
			}
			hosts := append(c.machine.ScanHosts(), host)
			c.machine.SetScanHosts(hosts)
			c.redraw = true
		default:
			return
		}
	}
}

// checkDayNight re-evaluates the determinant every pass and reacts only
// on edges, flipping brightness and forcing a redraw.
func (c *Controller) checkDayNight(now time.Time) {
	hour, known := c.clock.Hour()
	night := daynight.IsNight(c.appState.NightOverride(), known, hour, c.cfg.NightStartHour, c.cfg.NightEndHour)
	if night != c.night {
		c.night = night
		c.redraw = true
		log.Info().Bool("night", night).Msg("Day/night transition")
	}
	c.applyBrightness()
}

func (c *Controller) checkDim(now time.Time) {
	dimAfter := time.Duration(c.cfg.DimTimeoutMs) * time.Millisecond
	if !c.appState.DisplayDim() && now.Sub(c.lastActivity) >= dimAfter {
		c.appState.SetDisplayDim(true)
		c.redraw = true
	}
	c.applyBrightness()
}

func (c *Controller) applyBrightness() {
	level := c.cfg.BrightnessDay
	if c.night {
		level = c.cfg.BrightnessNight
	}
	if c.appState.DisplayDim() {
		level = c.cfg.BrightnessDim
	}
	if level != c.brightness {
		c.brightness = level
		c.display.SetBrightness(level)
	}
}
