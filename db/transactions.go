package db

import (
	"database/sql"
	"fmt"

	"github.com/dallonby/RotaryDial/internal/model"
)

func UpdateZoneSetpoint(dbConn *sql.DB, id model.ZoneID, setpoint float64) error {
	tx, err := dbConn.Begin()
	if err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}
	_, err = tx.Exec(`UPDATE zones SET setpoint = ? WHERE id = ?`, setpoint, string(id))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("update zone setpoint: %w", err)
	}
	return tx.Commit()
}

func UpdateZonePower(dbConn *sql.DB, id model.ZoneID, on bool) error {
	tx, err := dbConn.Begin()
	if err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}
	_, err = tx.Exec(`UPDATE zones SET power_on = ? WHERE id = ?`, on, string(id))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("update zone power: %w", err)
	}
	return tx.Commit()
}

func UpdateZoneAddress(dbConn *sql.DB, id model.ZoneID, address string) error {
	tx, err := dbConn.Begin()
	if err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}
	_, err = tx.Exec(`UPDATE zones SET remote_address = ? WHERE id = ?`, address, string(id))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("update zone address: %w", err)
	}
	return tx.Commit()
}

func UpdateZoneSide(dbConn *sql.DB, id model.ZoneID, side model.Side) error {
	tx, err := dbConn.Begin()
	if err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}
	_, err = tx.Exec(`UPDATE zones SET side = ? WHERE id = ?`, string(side), string(id))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("update zone side: %w", err)
	}
	return tx.Commit()
}

func SetSetting(dbConn *sql.DB, key, value string) error {
	tx, err := dbConn.Begin()
	if err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}
	_, err = tx.Exec(`INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return tx.Commit()
}

func SetBoolSetting(dbConn *sql.DB, key string, value bool) error {
	if value {
		return SetSetting(dbConn, key, "true")
	}
	return SetSetting(dbConn, key, "false")
}

func SetUnit(dbConn *sql.DB, unit model.Unit) error {
	return SetSetting(dbConn, KeyUnit, string(unit))
}
