package model

import "time"

type ZoneID string

const (
	ZoneBed    ZoneID = "bed"
	ZonePillow ZoneID = "pillow"
)

// ZoneIDs is the fixed set of zones, in display order.
var ZoneIDs = []ZoneID{ZoneBed, ZonePillow}

type Unit string

const (
	UnitCelsius    Unit = "celsius"
	UnitFahrenheit Unit = "fahrenheit"
)

// Side is the channel name the remote thermal service uses for a zone.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Zone is the locally-held view of one thermal zone. Setpoint is always
// canonical Celsius and always within the configured range.
type Zone struct {
	ID            ZoneID  `json:"id"`
	Setpoint      float64 `json:"setpoint"`
	PowerOn       bool    `json:"power_on"`
	RemoteAddress string  `json:"remote_address"`
	Side          Side    `json:"side"`
}

// PendingPush records a debounced outbound setpoint write for one zone.
// A new local edit replaces the record and resets ScheduledAt.
type PendingPush struct {
	Zone        ZoneID
	ScheduledAt time.Time
}

// SyncState tracks the pull synchronizer's adaptive interval and the
// post-edit cooldown anchor.
type SyncState struct {
	CurrentInterval     time.Duration
	ConsecutiveFailures int
	LastSyncAt          time.Time
	LastLocalEditAt     time.Time
}

// RemoteState is what a zone's remote thermal service reports.
type RemoteState struct {
	Setpoint float64 // canonical Celsius
	PowerOn  bool
}
