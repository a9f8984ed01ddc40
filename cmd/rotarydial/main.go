package main

import (
	"context"
	"database/sql"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dallonby/RotaryDial/db"
	"github.com/dallonby/RotaryDial/internal/api"
	"github.com/dallonby/RotaryDial/internal/config"
	"github.com/dallonby/RotaryDial/internal/controller"
	"github.com/dallonby/RotaryDial/internal/datadog"
	"github.com/dallonby/RotaryDial/internal/env"
	"github.com/dallonby/RotaryDial/internal/hal"
	"github.com/dallonby/RotaryDial/internal/logging"
	"github.com/dallonby/RotaryDial/internal/model"
	"github.com/dallonby/RotaryDial/internal/netscan"
	"github.com/dallonby/RotaryDial/internal/notifications"
	"github.com/dallonby/RotaryDial/internal/remote"
	"github.com/dallonby/RotaryDial/internal/state"
	"github.com/dallonby/RotaryDial/internal/store"
	appsync "github.com/dallonby/RotaryDial/internal/sync"
	"github.com/dallonby/RotaryDial/internal/temprange"
)

func main() {
	cfg := config.Load()
	logging.Init(cfg.LogLevel)

	log.Info().
		Str("db", cfg.DBPath).
		Str("snapshot_file", cfg.SnapshotFile).
		Msg("Starting rotary dial controller")

	env.Cfg = &cfg
	if cfg.EnableDatadog {
		datadog.InitMetrics()
	}
	notifications.Init()

	dbConn, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open settings database")
	}
	defer dbConn.Close()

	if err := db.Seed(dbConn, cfg.TempDefault); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed settings database")
	}

	snap := store.New(cfg.SnapshotFile)

	appState := state.New(&cfg)
	env.AppState = appState
	hydrate(appState, dbConn, snap)

	client := remote.NewClient(time.Duration(cfg.FetchTimeoutMs) * time.Millisecond)
	pusher := appsync.NewPusher(appState, client,
		time.Duration(cfg.PushDebounceMs)*time.Millisecond,
		time.Duration(cfg.FetchTimeoutMs)*time.Millisecond)
	puller := appsync.NewPuller(appState, client, pusher,
		time.Duration(cfg.BasePollMs)*time.Millisecond,
		time.Duration(cfg.MaxPollMs)*time.Millisecond,
		time.Duration(cfg.SyncCooldownMs)*time.Millisecond,
		time.Duration(cfg.FetchTimeoutMs)*time.Millisecond,
		cfg.OfflineNotifyAfter)
	puller.SetNotifier(notifications.Sender{})

	scanner := netscan.NewScanner(time.Duration(cfg.ScanTimeoutMs) * time.Millisecond)

	// TODO: swap the headless drivers for the M5Dial device drivers once
	// the encoder/touch bridge is ready.
	ctrl := controller.New(&cfg, appState, dbConn, snap, pusher, puller, scanner,
		hal.HeadlessInput{}, hal.LogDisplay{}, hal.SystemClock{})

	server := api.NewServer(appState, ctrl.Commands(), &cfg)
	go func() {
		if err := server.Start(cfg.APIPort); err != nil {
			log.Fatal().Err(err).Msg("REST API server failed")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctrl.Run(ctx)
	log.Info().Msg("Shutdown complete")
}

// hydrate restores persisted settings and the last-known zone state.
// The settings database is authoritative for configuration; the JSON
// snapshot carries the most recently acknowledged setpoints.
func hydrate(appState *state.AppState, dbConn *sql.DB, snap *store.Store) {
	known := map[model.ZoneID]bool{}
	for _, id := range model.ZoneIDs {
		known[id] = true
	}

	zones, err := db.GetAllZones(dbConn)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load zones from database, starting with defaults")
	}
	for _, z := range zones {
		if !known[z.ID] {
			continue
		}
		rec := z
		appState.UpdateZone(rec.ID, func(dst *model.Zone) {
			dst.Setpoint = temprange.Clamp(rec.Setpoint)
			dst.PowerOn = rec.PowerOn
			dst.RemoteAddress = rec.RemoteAddress
			dst.Side = rec.Side
		})
	}

	if unit, err := db.GetUnit(dbConn); err == nil {
		appState.SetUnit(unit)
	} else {
		log.Warn().Err(err).Msg("Failed to load unit preference")
	}
	if night, err := db.GetBoolSetting(dbConn, db.KeyNightOverride, false); err == nil {
		appState.SetNightOverride(night)
	} else {
		log.Warn().Err(err).Msg("Failed to load night override")
	}

	s, err := snap.Load()
	if err != nil {
		log.Warn().Err(err).Msg("No zone snapshot, using database values")
		return
	}
	for _, z := range s.Zones {
		if !known[z.ID] {
			continue
		}
		rec := z
		appState.UpdateZone(rec.ID, func(dst *model.Zone) {
			dst.Setpoint = temprange.Clamp(rec.Setpoint)
			dst.PowerOn = rec.PowerOn
		})
	}

	loaded := appState.Snapshot()
	log.Info().
		Str("unit", string(loaded.Unit)).
		Bool("night_override", loaded.NightOverride).
		Int("zones", len(loaded.Zones)).
		Msg("Restored persisted state")
}
