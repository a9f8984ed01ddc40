package state

import (
	"sync"
	"time"

	"github.com/dallonby/RotaryDial/internal/config"
	"github.com/dallonby/RotaryDial/internal/model"
)

// AppState is the single owned aggregate of everything the control loop
// mutates: both zones, the active-zone selector, display flags, and the
// sync bookkeeping. The control loop is the only writer; the mutex exists
// so the REST surface can take consistent read snapshots from its own
// goroutine.
type AppState struct {
	mu sync.RWMutex

	zones      map[model.ZoneID]*model.Zone
	activeZone model.ZoneID

	unit          model.Unit
	displayDim    bool
	nightOverride bool

	sync model.SyncState
}

// Snapshot is a consistent read-only copy for rendering and the API.
type Snapshot struct {
	Zones         []model.Zone
	ActiveZone    model.ZoneID
	Unit          model.Unit
	DisplayDim    bool
	NightOverride bool
	Sync          model.SyncState
}

func New(cfg *config.Config) *AppState {
	s := &AppState{
		zones:      make(map[model.ZoneID]*model.Zone),
		activeZone: model.ZoneBed,
		unit:       model.UnitCelsius,
	}
	sides := map[model.ZoneID]model.Side{
		model.ZoneBed:    model.SideLeft,
		model.ZonePillow: model.SideRight,
	}
	for _, id := range model.ZoneIDs {
		s.zones[id] = &model.Zone{
			ID:       id,
			Setpoint: cfg.TempDefault,
			Side:     sides[id],
		}
	}
	s.sync.CurrentInterval = time.Duration(cfg.BasePollMs) * time.Millisecond
	return s
}

func (s *AppState) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		ActiveZone:    s.activeZone,
		Unit:          s.unit,
		DisplayDim:    s.displayDim,
		NightOverride: s.nightOverride,
		Sync:          s.sync,
	}
	for _, id := range model.ZoneIDs {
		snap.Zones = append(snap.Zones, *s.zones[id])
	}
	return snap
}

// Zone returns a copy of the named zone.
func (s *AppState) Zone(id model.ZoneID) model.Zone {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *s.zones[id]
}

// UpdateZone is the single mutation entry point for zone data, so every
// edit site is observable by the caller for push scheduling.
func (s *AppState) UpdateZone(id model.ZoneID, fn func(z *model.Zone)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.zones[id])
}

func (s *AppState) ActiveZone() model.ZoneID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeZone
}

func (s *AppState) SetActiveZone(id model.ZoneID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeZone = id
}

func (s *AppState) ToggleActiveZone() model.ZoneID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeZone == model.ZoneBed {
		s.activeZone = model.ZonePillow
	} else {
		s.activeZone = model.ZoneBed
	}
	return s.activeZone
}

func (s *AppState) Unit() model.Unit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unit
}

func (s *AppState) SetUnit(u model.Unit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unit = u
}

func (s *AppState) ToggleUnit() model.Unit {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unit == model.UnitCelsius {
		s.unit = model.UnitFahrenheit
	} else {
		s.unit = model.UnitCelsius
	}
	return s.unit
}

func (s *AppState) DisplayDim() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.displayDim
}

func (s *AppState) SetDisplayDim(dim bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.displayDim = dim
}

func (s *AppState) NightOverride() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nightOverride
}

func (s *AppState) SetNightOverride(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nightOverride = v
}

// MarkLocalEdit stamps the cooldown anchor for the pull synchronizer.
func (s *AppState) MarkLocalEdit(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sync.LastLocalEditAt = now
}

func (s *AppState) LastLocalEditAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sync.LastLocalEditAt
}

// UpdateSync mutates the sync bookkeeping under the write lock.
func (s *AppState) UpdateSync(fn func(ss *model.SyncState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.sync)
}

func (s *AppState) SyncState() model.SyncState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sync
}
