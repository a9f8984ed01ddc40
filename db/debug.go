package db

import (
	"database/sql"

	"github.com/dallonby/RotaryDial/internal/model"
)

// CLI helpers used by cmd/debug against a stopped daemon's database.

func SetZoneAddressCLI(dbPath string, id model.ZoneID, address string) error {
	dbConn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}
	defer dbConn.Close()
	return UpdateZoneAddress(dbConn, id, address)
}

func SetZoneSetpointCLI(dbPath string, id model.ZoneID, setpoint float64) error {
	dbConn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}
	defer dbConn.Close()
	return UpdateZoneSetpoint(dbConn, id, setpoint)
}

func SetUnitCLI(dbPath string, unit model.Unit) error {
	dbConn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}
	defer dbConn.Close()
	return SetUnit(dbConn, unit)
}

func ListZonesCLI(dbPath string) ([]model.Zone, error) {
	dbConn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	defer dbConn.Close()
	return GetAllZones(dbConn)
}
