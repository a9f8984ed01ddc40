package sync

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	"github.com/dallonby/RotaryDial/internal/datadog"
	"github.com/dallonby/RotaryDial/internal/model"
	"github.com/dallonby/RotaryDial/internal/state"
	"github.com/dallonby/RotaryDial/internal/temprange"
)

// Notifier sends operator notifications. Satisfied by the notifications
// package; injectable for tests.
type Notifier interface {
	Send(title, message string) error
}

// Puller polls each zone's remote state on an adaptive interval. Remote
// power state is always adopted; the remote setpoint is adopted only
// outside the post-edit cooldown window. A pass where every attempted
// zone fails doubles the interval up to a cap; any success resets it.
// Zones without an address are not attempted.
type Puller struct {
	appState *state.AppState
	client   RemoteAPI
	pusher   *Pusher
	notifier Notifier

	base     time.Duration
	cooldown time.Duration
	timeout  time.Duration

	bo      *backoff.ExponentialBackOff
	nextDue time.Time

	zoneFailures map[model.ZoneID]int
	zoneOffline  map[model.ZoneID]bool
	notifyAfter  int
}

func NewPuller(appState *state.AppState, client RemoteAPI, pusher *Pusher,
	base, max, cooldown, timeout time.Duration, notifyAfter int) *Puller {

	// The backoff's initial interval is 2x base because NextBackOff is
	// only consulted after a failure: the first failed pass moves the
	// interval from base to base*2, then 4x, 8x, capped.
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * base
	bo.Multiplier = 2
	bo.RandomizationFactor = 0
	bo.MaxInterval = max
	bo.MaxElapsedTime = 0
	bo.Reset()

	return &Puller{
		appState:     appState,
		client:       client,
		pusher:       pusher,
		base:         base,
		cooldown:     cooldown,
		timeout:      timeout,
		bo:           bo,
		zoneFailures: make(map[model.ZoneID]int),
		zoneOffline:  make(map[model.ZoneID]bool),
		notifyAfter:  notifyAfter,
	}
}

// SetNotifier wires operator notifications for zones that stay offline.
func (p *Puller) SetNotifier(n Notifier) {
	p.notifier = n
}

// Tick runs at most one poll pass when the adaptive interval has elapsed.
// Returns true when any adopted remote value requires a redraw. A pass
// skipped because a push is pending neither advances nor resets backoff.
func (p *Puller) Tick(now time.Time) bool {
	if now.Before(p.nextDue) {
		return false
	}
	if p.pusher.HasPending() {
		log.Debug().Msg("Skipping poll pass while a push is pending")
		return false
	}

	redraw := false
	attempted := 0
	succeeded := 0

	for _, id := range model.ZoneIDs {
		zone := p.appState.Zone(id)
		if zone.RemoteAddress == "" {
			// An unconfigured zone is neither a success nor a failure:
			// it must not mask backoff for the zones that ARE failing.
			continue
		}
		attempted++
		changed, err := p.pollZone(zone, now)
		if err != nil {
			p.noteZoneFailure(id, err)
			continue
		}
		p.noteZoneSuccess(id)
		succeeded++
		if changed {
			redraw = true
		}
	}

	failedPass := attempted > 0 && succeeded == 0

	interval := p.base
	p.appState.UpdateSync(func(ss *model.SyncState) {
		ss.LastSyncAt = now
		if failedPass {
			ss.ConsecutiveFailures++
			interval = p.bo.NextBackOff()
		} else {
			ss.ConsecutiveFailures = 0
			p.bo.Reset()
		}
		ss.CurrentInterval = interval
	})
	p.nextDue = now.Add(interval)

	datadog.Gauge("sync.poll_interval_ms", float64(interval.Milliseconds()))
	if failedPass {
		datadog.Count("sync.failure", 1)
	}

	return redraw
}

// pollZone fetches one zone and reconciles it into local state.
func (p *Puller) pollZone(zone model.Zone, now time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	remoteState, err := p.client.Fetch(ctx, zone.RemoteAddress, zone.Side)
	if err != nil {
		return false, err
	}

	changed := false

	// Power is always trusted from the remote: it can change through
	// other controls entirely outside this dial.
	if remoteState.PowerOn != zone.PowerOn {
		p.appState.UpdateZone(zone.ID, func(z *model.Zone) { z.PowerOn = remoteState.PowerOn })
		log.Info().
			Str("zone", string(zone.ID)).
			Bool("power_on", remoteState.PowerOn).
			Msg("Adopted remote power state")
		changed = true
	}

	// The setpoint is adopted only once the post-edit cooldown has
	// elapsed, so an in-flight poll can never clobber a fresh edit.
	inCooldown := now.Sub(p.appState.LastLocalEditAt()) <= p.cooldown
	if !temprange.ApproxEqual(remoteState.Setpoint, zone.Setpoint) && !inCooldown {
		adopted := temprange.Clamp(remoteState.Setpoint)
		p.appState.UpdateZone(zone.ID, func(z *model.Zone) { z.Setpoint = adopted })
		log.Info().
			Str("zone", string(zone.ID)).
			Float64("setpoint", adopted).
			Msg("Adopted remote setpoint")
		changed = true
	}

	return changed, nil
}

func (p *Puller) noteZoneFailure(id model.ZoneID, err error) {
	p.zoneFailures[id]++
	log.Warn().
		Err(err).
		Str("zone", string(id)).
		Int("consecutive", p.zoneFailures[id]).
		Msg("Zone poll failed")

	if p.notifier != nil && !p.zoneOffline[id] && p.zoneFailures[id] >= p.notifyAfter {
		p.zoneOffline[id] = true
		if err := p.notifier.Send("Zone offline", string(id)+" has stopped responding"); err != nil {
			log.Warn().Err(err).Msg("Failed to send offline notification")
		}
	}
}

func (p *Puller) noteZoneSuccess(id model.ZoneID) {
	if p.zoneOffline[id] && p.notifier != nil {
		if err := p.notifier.Send("Zone recovered", string(id)+" is responding again"); err != nil {
			log.Warn().Err(err).Msg("Failed to send recovery notification")
		}
	}
	p.zoneFailures[id] = 0
	p.zoneOffline[id] = false
}
