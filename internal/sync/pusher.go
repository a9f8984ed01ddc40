package sync

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dallonby/RotaryDial/internal/datadog"
	"github.com/dallonby/RotaryDial/internal/model"
	"github.com/dallonby/RotaryDial/internal/state"
)

// RemoteAPI is the slice of the remote client the schedulers need.
type RemoteAPI interface {
	Fetch(ctx context.Context, addr string, side model.Side) (model.RemoteState, error)
	PushSetpoint(ctx context.Context, addr string, side model.Side, setpointC float64) error
	PushPower(ctx context.Context, addr string, side model.Side, on bool) error
}

// Pusher coalesces rapid local setpoint edits into one outbound write per
// zone per quiet period. Power toggles bypass the debounce entirely.
type Pusher struct {
	appState *state.AppState
	client   RemoteAPI
	debounce time.Duration
	timeout  time.Duration

	pending map[model.ZoneID]time.Time

	// OnPushed, when set, runs after a successful setpoint push with the
	// zone's state as sent. Used to persist the last-known snapshot.
	OnPushed func(z model.Zone)
}

func NewPusher(appState *state.AppState, client RemoteAPI, debounce, timeout time.Duration) *Pusher {
	return &Pusher{
		appState: appState,
		client:   client,
		debounce: debounce,
		timeout:  timeout,
		pending:  make(map[model.ZoneID]time.Time),
	}
}

// NotifyEdit records a local setpoint edit. A newer edit to the same zone
// replaces the pending record and restarts the quiet period.
func (p *Pusher) NotifyEdit(zone model.ZoneID, now time.Time) {
	p.pending[zone] = now
	log.Debug().Str("zone", string(zone)).Msg("Setpoint push scheduled")
}

// HasPending reports whether any debounced push is still waiting. The
// pull synchronizer skips its pass (for free) while this is true.
func (p *Pusher) HasPending() bool {
	return len(p.pending) > 0
}

// Tick fires at most one due push, carrying the zone's setpoint as of
// fire time. Called once per control-loop pass.
func (p *Pusher) Tick(now time.Time) {
	for _, id := range model.ZoneIDs {
		scheduledAt, ok := p.pending[id]
		if !ok || now.Sub(scheduledAt) < p.debounce {
			continue
		}
		delete(p.pending, id)
		p.pushSetpoint(id)
		return
	}
}

func (p *Pusher) pushSetpoint(id model.ZoneID) {
	zone := p.appState.Zone(id)
	if zone.RemoteAddress == "" {
		log.Warn().Str("zone", string(id)).Msg("No remote address configured, dropping push")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if err := p.client.PushSetpoint(ctx, zone.RemoteAddress, zone.Side, zone.Setpoint); err != nil {
		// Not retried; the next edit or the next successful pull
		// reconciles the difference.
		log.Warn().Err(err).Str("zone", string(id)).Msg("Setpoint push failed")
		datadog.Count("push.failure", 1, "zone:"+string(id))
		return
	}

	log.Info().
		Str("zone", string(id)).
		Float64("setpoint", zone.Setpoint).
		Msg("Pushed setpoint to remote")
	datadog.Gauge("zone.setpoint", zone.Setpoint, "zone:"+string(id))

	if p.OnPushed != nil {
		p.OnPushed(zone)
	}
}

// PushPowerNow writes a zone's power state immediately. Power toggles are
// discrete user actions, not dial motion, so they are never debounced.
func (p *Pusher) PushPowerNow(id model.ZoneID) {
	zone := p.appState.Zone(id)
	if zone.RemoteAddress == "" {
		log.Warn().Str("zone", string(id)).Msg("No remote address configured, dropping power push")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if err := p.client.PushPower(ctx, zone.RemoteAddress, zone.Side, zone.PowerOn); err != nil {
		log.Warn().Err(err).Str("zone", string(id)).Msg("Power push failed")
		datadog.Count("push.failure", 1, "zone:"+string(id))
		return
	}

	log.Info().
		Str("zone", string(id)).
		Bool("power_on", zone.PowerOn).
		Msg("Pushed power state to remote")

	if p.OnPushed != nil {
		p.OnPushed(zone)
	}
}
