package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/dallonby/RotaryDial/internal/temprange"
)

type Config struct {
	DBPath       string
	SnapshotFile string
	ConfigFile   string
	LogLevel     zerolog.Level

	TempDefault float64 `json:"temp_default"`

	TapMaxMs        int `json:"tap_max_ms"`
	ShortHoldMaxMs  int `json:"short_hold_max_ms"`
	MediumHoldMaxMs int `json:"medium_hold_max_ms"`
	TouchDebounceMs int `json:"touch_debounce_ms"`
	StuckPressMs    int `json:"stuck_press_ms"`

	PushDebounceMs     int `json:"push_debounce_ms"`
	SyncCooldownMs     int `json:"sync_cooldown_ms"`
	BasePollMs         int `json:"base_poll_ms"`
	MaxPollMs          int `json:"max_poll_ms"`
	FetchTimeoutMs     int `json:"fetch_timeout_ms"`
	OfflineNotifyAfter int `json:"offline_notify_after"`

	NightStartHour int `json:"night_start_hour"`
	NightEndHour   int `json:"night_end_hour"`
	DimTimeoutMs   int `json:"dim_timeout_ms"`

	BrightnessDay   int `json:"brightness_day"`
	BrightnessNight int `json:"brightness_night"`
	BrightnessDim   int `json:"brightness_dim"`

	APIPort       int    `json:"api_port"`
	ScanTimeoutMs int    `json:"scan_timeout_ms"`
	NtfyTopic     string `json:"ntfy_topic"`

	EnableDatadog bool     `json:"enable_datadog"`
	DDAgentAddr   string   `json:"dd_agent_addr"`
	DDNamespace   string   `json:"dd_namespace"`
	DDTags        []string `json:"dd_tags"`
}

func Load() Config {
	var cfg Config
	var logLevel string

	flag.StringVar(&cfg.DBPath, "db", "data/rotarydial.db", "Path to settings database")
	flag.StringVar(&cfg.SnapshotFile, "snapshot-file", "data/zones.json", "Path to last-known zone state snapshot")
	flag.StringVar(&cfg.ConfigFile, "config-file", "config.json", "Path to controller config file")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	cfg.LogLevel = parseLogLevel(logLevel)

	// Hour 0 is a legitimate value for the night window, so absence is
	// marked with -1 rather than the zero value.
	cfg.NightStartHour = -1
	cfg.NightEndHour = -1

	file, err := os.Open(cfg.ConfigFile)
	if err != nil {
		panic("Failed to load config file: " + err.Error())
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		panic("Failed to parse config file: " + err.Error())
	}

	cfg.applyDefaults()
	cfg.validate()
	return cfg
}

func (cfg *Config) applyDefaults() {
	if cfg.TempDefault == 0 {
		cfg.TempDefault = temprange.Default
	}
	if cfg.TapMaxMs == 0 {
		cfg.TapMaxMs = 200
	}
	if cfg.ShortHoldMaxMs == 0 {
		cfg.ShortHoldMaxMs = 1000
	}
	if cfg.MediumHoldMaxMs == 0 {
		cfg.MediumHoldMaxMs = 3000
	}
	if cfg.TouchDebounceMs == 0 {
		cfg.TouchDebounceMs = 50
	}
	if cfg.StuckPressMs == 0 {
		cfg.StuckPressMs = 10000
	}
	if cfg.PushDebounceMs == 0 {
		cfg.PushDebounceMs = 500
	}
	if cfg.SyncCooldownMs == 0 {
		cfg.SyncCooldownMs = 1000
	}
	if cfg.BasePollMs == 0 {
		cfg.BasePollMs = 2000
	}
	if cfg.MaxPollMs == 0 {
		cfg.MaxPollMs = 60000
	}
	if cfg.FetchTimeoutMs == 0 {
		cfg.FetchTimeoutMs = 1000
	}
	if cfg.OfflineNotifyAfter == 0 {
		cfg.OfflineNotifyAfter = 10
	}
	if cfg.NightStartHour < 0 {
		cfg.NightStartHour = 22
	}
	if cfg.NightEndHour < 0 {
		cfg.NightEndHour = 7
	}
	if cfg.DimTimeoutMs == 0 {
		cfg.DimTimeoutMs = 10000
	}
	if cfg.BrightnessDay == 0 {
		cfg.BrightnessDay = 255
	}
	if cfg.BrightnessNight == 0 {
		cfg.BrightnessNight = 51
	}
	if cfg.BrightnessDim == 0 {
		cfg.BrightnessDim = 2
	}
	if cfg.APIPort == 0 {
		cfg.APIPort = 8080
	}
	if cfg.ScanTimeoutMs == 0 {
		cfg.ScanTimeoutMs = 10000
	}
}

func parseLogLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (cfg *Config) validate() {
	if cfg.TempDefault < temprange.Min || cfg.TempDefault > temprange.Max {
		panic(fmt.Sprintf("temp_default (%.1f) outside [%.1f, %.1f]", cfg.TempDefault, temprange.Min, temprange.Max))
	}
	if cfg.TapMaxMs >= cfg.ShortHoldMaxMs || cfg.ShortHoldMaxMs >= cfg.MediumHoldMaxMs {
		panic("gesture thresholds must be strictly increasing")
	}
	if cfg.StuckPressMs <= cfg.MediumHoldMaxMs {
		panic("stuck_press_ms must exceed medium_hold_max_ms")
	}
	if cfg.BasePollMs > cfg.MaxPollMs {
		panic("base_poll_ms must not exceed max_poll_ms")
	}
	if cfg.NightStartHour < 0 || cfg.NightStartHour > 23 || cfg.NightEndHour < 0 || cfg.NightEndHour > 23 {
		panic("night window hours must be within 0-23")
	}
}
