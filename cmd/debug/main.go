package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dallonby/RotaryDial/db"
	"github.com/dallonby/RotaryDial/internal/model"
)

func main() {
	DebugCLI()
}

func DebugCLI() {
	var dbPath, command, zoneID, address, unit string
	var setpoint float64
	flag.StringVar(&dbPath, "db", "data/rotarydial.db", "Path to the SQLite database file")
	flag.StringVar(&command, "cmd", "", "Command to run: set-address, set-setpoint, set-unit, list-zones")
	flag.StringVar(&zoneID, "zone", "", "Zone ID for zone commands (bed or pillow)")
	flag.StringVar(&address, "address", "", "Remote address for set-address")
	flag.StringVar(&unit, "unit", "", "Display unit for set-unit (celsius or fahrenheit)")
	flag.Float64Var(&setpoint, "setpoint", 0, "Setpoint value in Celsius for set-setpoint")
	help := flag.Bool("help", false, "Show help")
	flag.Parse()

	if *help || command == "" {
		fmt.Println("\nUsage of rotarydial-debug:")
		fmt.Println("  -db string\tPath to the SQLite database file (default 'data/rotarydial.db')")
		fmt.Println("  -cmd string\tCommand to run: set-address, set-setpoint, set-unit, list-zones")
		fmt.Println("  -zone string\tZone ID for zone commands (bed or pillow)")
		fmt.Println("  -address string\tRemote address for set-address")
		fmt.Println("  -unit string\tDisplay unit for set-unit (celsius or fahrenheit)")
		fmt.Println("  -setpoint float\tSetpoint value in Celsius for set-setpoint")
		fmt.Println("  -help\tShow this help message")
		os.Exit(0)
	}

	var err error
	switch command {
	case "set-address":
		if zoneID == "" {
			fmt.Println("Error: zone ID is required")
			os.Exit(1)
		}
		err = db.SetZoneAddressCLI(dbPath, model.ZoneID(zoneID), address)
	case "set-setpoint":
		if zoneID == "" {
			fmt.Println("Error: zone ID is required")
			os.Exit(1)
		}
		err = db.SetZoneSetpointCLI(dbPath, model.ZoneID(zoneID), setpoint)
	case "set-unit":
		if unit != string(model.UnitCelsius) && unit != string(model.UnitFahrenheit) {
			fmt.Println("Error: unit must be celsius or fahrenheit")
			os.Exit(1)
		}
		err = db.SetUnitCLI(dbPath, model.Unit(unit))
	case "list-zones":
		var zones []model.Zone
		zones, err = db.ListZonesCLI(dbPath)
		for _, z := range zones {
			fmt.Printf("%-8s setpoint=%.1f power_on=%-5v side=%-5s address=%s\n",
				z.ID, z.Setpoint, z.PowerOn, z.Side, z.RemoteAddress)
		}
	default:
		fmt.Println("Invalid command")
		os.Exit(1)
	}

	if err != nil {
		fmt.Printf("Command %s failed: %v\n", command, err)
		os.Exit(1)
	}
	fmt.Printf("Command %s completed successfully\n", command)
}
