package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/dallonby/RotaryDial/internal/config"
	"github.com/dallonby/RotaryDial/internal/controller"
	"github.com/dallonby/RotaryDial/internal/model"
	"github.com/dallonby/RotaryDial/internal/state"
	"github.com/dallonby/RotaryDial/internal/temprange"
)

// Server is the local REST surface. Reads come from state snapshots;
// writes are enqueued as commands so they take the control loop's
// clamp/push path instead of mutating state from this goroutine.
type Server struct {
	appState *state.AppState
	commands chan<- controller.Command
	config   *config.Config
}

type ZoneResponse struct {
	ID            string  `json:"id"`
	Setpoint      float64 `json:"setpoint"`
	Unit          string  `json:"unit"`
	Min           float64 `json:"min"`
	Max           float64 `json:"max"`
	PowerOn       bool    `json:"power_on"`
	RemoteAddress string  `json:"remote_address"`
	Side          string  `json:"side"`
	Active        bool    `json:"active"`
}

type StatusResponse struct {
	Unit                string  `json:"unit"`
	TempMin             float64 `json:"temp_min"`
	TempMax             float64 `json:"temp_max"`
	ActiveZone          string  `json:"active_zone"`
	NightOverride       bool    `json:"night_override"`
	PollIntervalMs      int64   `json:"poll_interval_ms"`
	ConsecutiveFailures int     `json:"consecutive_failures"`
}

type ZoneSetpointRequest struct {
	Setpoint float64 `json:"setpoint"`
}

type ZonePowerRequest struct {
	PowerOn bool `json:"power_on"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func NewServer(appState *state.AppState, commands chan<- controller.Command, cfg *config.Config) *Server {
	return &Server{
		appState: appState,
		commands: commands,
		config:   cfg,
	}
}

func (s *Server) Start(port int) error {
	addr := fmt.Sprintf("0.0.0.0:%d", port)
	log.Info().Str("address", addr).Msg("Starting REST API server")

	return http.ListenAndServe(addr, s.Handler())
}

// Handler builds the routed handler with CORS applied, separate from
// Start so tests can drive it through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/zones", s.handleZones)
	mux.HandleFunc("/api/zones/", s.handleZoneOperations)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	snap := s.appState.Snapshot()
	s.writeJSON(w, http.StatusOK, StatusResponse{
		Unit:                string(snap.Unit),
		TempMin:             temprange.Min,
		TempMax:             temprange.Max,
		ActiveZone:          string(snap.ActiveZone),
		NightOverride:       snap.NightOverride,
		PollIntervalMs:      snap.Sync.CurrentInterval.Milliseconds(),
		ConsecutiveFailures: snap.Sync.ConsecutiveFailures,
	})
}

func (s *Server) handleZones(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet && r.URL.Path == "/api/zones" {
		s.getZones(w, r)
	} else {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) handleZoneOperations(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/zones/")
	parts := strings.Split(path, "/")

	if len(parts) < 1 || parts[0] == "" {
		s.writeError(w, http.StatusNotFound, "Zone ID required")
		return
	}

	zoneID, ok := parseZoneID(parts[0])
	if !ok {
		s.writeError(w, http.StatusNotFound, "Zone not found")
		return
	}

	if len(parts) == 1 {
		// /api/zones/{id}
		if r.Method == http.MethodGet {
			s.getZone(w, r, zoneID)
		} else {
			s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	} else if len(parts) == 2 {
		// /api/zones/{id}/setpoint or /api/zones/{id}/power
		if r.Method != http.MethodPut {
			s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		switch parts[1] {
		case "setpoint":
			s.setZoneSetpoint(w, r, zoneID)
		case "power":
			s.setZonePower(w, r, zoneID)
		default:
			s.writeError(w, http.StatusNotFound, "Unknown operation")
		}
	} else {
		s.writeError(w, http.StatusNotFound, "Invalid path")
	}
}

func (s *Server) getZones(w http.ResponseWriter, r *http.Request) {
	snap := s.appState.Snapshot()

	var response []ZoneResponse
	for _, zone := range snap.Zones {
		response = append(response, zoneResponse(zone, snap.ActiveZone))
	}
	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) getZone(w http.ResponseWriter, r *http.Request, zoneID model.ZoneID) {
	snap := s.appState.Snapshot()
	for _, zone := range snap.Zones {
		if zone.ID == zoneID {
			s.writeJSON(w, http.StatusOK, zoneResponse(zone, snap.ActiveZone))
			return
		}
	}
	s.writeError(w, http.StatusNotFound, "Zone not found")
}

func (s *Server) setZoneSetpoint(w http.ResponseWriter, r *http.Request, zoneID model.ZoneID) {
	var req ZoneSetpointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if req.Setpoint < temprange.Min || req.Setpoint > temprange.Max {
		s.writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Invalid setpoint. Must be between %.1f°C and %.1f°C", temprange.Min, temprange.Max))
		return
	}

	v := req.Setpoint
	if !s.enqueue(controller.Command{Zone: zoneID, Setpoint: &v}) {
		s.writeError(w, http.StatusServiceUnavailable, "Controller busy")
		return
	}

	log.Info().Str("zone", string(zoneID)).Float64("setpoint", req.Setpoint).Msg("Zone setpoint requested via API")
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) setZonePower(w http.ResponseWriter, r *http.Request, zoneID model.ZoneID) {
	var req ZonePowerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	on := req.PowerOn
	if !s.enqueue(controller.Command{Zone: zoneID, PowerOn: &on}) {
		s.writeError(w, http.StatusServiceUnavailable, "Controller busy")
		return
	}

	log.Info().Str("zone", string(zoneID)).Bool("power_on", req.PowerOn).Msg("Zone power requested via API")
	w.WriteHeader(http.StatusAccepted)
}

// enqueue hands a command to the control loop without blocking the
// request goroutine.
func (s *Server) enqueue(cmd controller.Command) bool {
	select {
	case s.commands <- cmd:
		return true
	default:
		return false
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// The wire always speaks Celsius regardless of the display preference;
// unit and bounds are included so clients need no out-of-band knowledge.
func zoneResponse(zone model.Zone, active model.ZoneID) ZoneResponse {
	return ZoneResponse{
		ID:            string(zone.ID),
		Setpoint:      zone.Setpoint,
		Unit:          string(model.UnitCelsius),
		Min:           temprange.Min,
		Max:           temprange.Max,
		PowerOn:       zone.PowerOn,
		RemoteAddress: zone.RemoteAddress,
		Side:          string(zone.Side),
		Active:        zone.ID == active,
	}
}

func parseZoneID(raw string) (model.ZoneID, bool) {
	for _, id := range model.ZoneIDs {
		if string(id) == raw {
			return id, true
		}
	}
	return "", false
}
