package db

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/dallonby/RotaryDial/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS zones (
	id TEXT PRIMARY KEY,
	setpoint REAL NOT NULL,
	power_on BOOLEAN NOT NULL DEFAULT FALSE,
	remote_address TEXT NOT NULL DEFAULT '',
	side TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// Open opens (creating if needed) the settings database and ensures the
// schema exists.
func Open(path string) (*sql.DB, error) {
	dbConn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := dbConn.Exec(schema); err != nil {
		dbConn.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return dbConn, nil
}

// Seed inserts default rows for both zones when they are missing, so a
// first boot starts from sane values.
func Seed(dbConn *sql.DB, defaultSetpoint float64) error {
	tx, err := dbConn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sides := map[model.ZoneID]model.Side{
		model.ZoneBed:    model.SideLeft,
		model.ZonePillow: model.SideRight,
	}
	for _, id := range model.ZoneIDs {
		_, err = tx.Exec(`INSERT OR IGNORE INTO zones (id, setpoint, power_on, remote_address, side) VALUES (?, ?, FALSE, '', ?)`,
			string(id), defaultSetpoint, string(sides[id]))
		if err != nil {
			return fmt.Errorf("failed to seed zone %s: %w", id, err)
		}
	}

	_, err = tx.Exec(`INSERT OR IGNORE INTO settings (key, value) VALUES ('unit', 'celsius')`)
	if err != nil {
		return fmt.Errorf("failed to seed settings: %w", err)
	}

	return tx.Commit()
}
