package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/dallonby/RotaryDial/internal/model"
)

// Setting keys.
const (
	KeyUnit           = "unit"
	KeyNightOverride  = "night_override"
	KeyWiFiSSID       = "wifi_ssid"
	KeyWiFiPassphrase = "wifi_passphrase"
)

// GetAllZones retrieves both zones from the database.
func GetAllZones(dbConn *sql.DB) ([]model.Zone, error) {
	rows, err := dbConn.Query(`SELECT id, setpoint, power_on, remote_address, side FROM zones`)
	if err != nil {
		return nil, fmt.Errorf("failed to query zones: %w", err)
	}
	defer rows.Close()

	var zones []model.Zone
	for rows.Next() {
		var z model.Zone
		if err := rows.Scan(&z.ID, &z.Setpoint, &z.PowerOn, &z.RemoteAddress, &z.Side); err != nil {
			return nil, fmt.Errorf("failed to scan zone: %w", err)
		}
		zones = append(zones, z)
	}
	return zones, rows.Err()
}

// GetZoneByID retrieves a specific zone.
func GetZoneByID(dbConn *sql.DB, id model.ZoneID) (*model.Zone, error) {
	var z model.Zone
	err := dbConn.QueryRow(`SELECT id, setpoint, power_on, remote_address, side FROM zones WHERE id = ?`, string(id)).
		Scan(&z.ID, &z.Setpoint, &z.PowerOn, &z.RemoteAddress, &z.Side)
	if err != nil {
		return nil, fmt.Errorf("failed to get zone %s: %w", id, err)
	}
	return &z, nil
}

// GetSetting returns a string setting, or the fallback when unset.
func GetSetting(dbConn *sql.DB, key, fallback string) (string, error) {
	var value string
	err := dbConn.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return fallback, nil
	}
	if err != nil {
		return fallback, fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return value, nil
}

// GetBoolSetting returns a boolean setting, or the fallback when unset.
func GetBoolSetting(dbConn *sql.DB, key string, fallback bool) (bool, error) {
	raw, err := GetSetting(dbConn, key, "")
	if err != nil || raw == "" {
		return fallback, err
	}
	return raw == "true", nil
}

// GetUnit returns the persisted display unit preference.
func GetUnit(dbConn *sql.DB) (model.Unit, error) {
	raw, err := GetSetting(dbConn, KeyUnit, string(model.UnitCelsius))
	if err != nil {
		return model.UnitCelsius, err
	}
	if model.Unit(raw) == model.UnitFahrenheit {
		return model.UnitFahrenheit, nil
	}
	return model.UnitCelsius, nil
}
