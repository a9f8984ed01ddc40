package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dallonby/RotaryDial/internal/model"
	"github.com/dallonby/RotaryDial/internal/temprange"
)

// Failure taxonomy. Every caller treats all three identically as "sync
// failed"; the distinction exists only for logging.
var (
	ErrUnreachable = errors.New("remote unreachable")
	ErrBadStatus   = errors.New("remote returned non-success status")
	ErrBadPayload  = errors.New("remote payload malformed")
)

// zonePayload is the wire shape the remote thermal service speaks. The
// remote works in Fahrenheit; conversion to canonical Celsius happens
// here and nowhere else.
type zonePayload struct {
	Setpoint *float64 `json:"setpoint,omitempty"`
	PowerOn  *bool    `json:"power_on,omitempty"`
}

type Client struct {
	http *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		http: &http.Client{Timeout: timeout},
	}
}

func (c *Client) url(addr string, side model.Side) string {
	return fmt.Sprintf("http://%s/api/zones/%s", addr, side)
}

// Fetch reads a zone's current state from its remote service.
func (c *Client) Fetch(ctx context.Context, addr string, side model.Side) (model.RemoteState, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(addr, side), nil)
	if err != nil {
		return model.RemoteState{}, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return model.RemoteState{}, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.RemoteState{}, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	var payload zonePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return model.RemoteState{}, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if payload.Setpoint == nil || payload.PowerOn == nil {
		return model.RemoteState{}, fmt.Errorf("%w: missing field", ErrBadPayload)
	}

	return model.RemoteState{
		Setpoint: temprange.FToC(*payload.Setpoint),
		PowerOn:  *payload.PowerOn,
	}, nil
}

// PushSetpoint sends a partial update carrying only the setpoint.
func (c *Client) PushSetpoint(ctx context.Context, addr string, side model.Side, setpointC float64) error {
	f := temprange.CToF(setpointC)
	return c.post(ctx, addr, side, zonePayload{Setpoint: &f})
}

// PushPower sends a partial update carrying only the power state.
func (c *Client) PushPower(ctx context.Context, addr string, side model.Side, on bool) error {
	return c.post(ctx, addr, side, zonePayload{PowerOn: &on})
}

func (c *Client) post(ctx context.Context, addr string, side model.Side, payload zonePayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(addr, side), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	log.Debug().
		Str("addr", addr).
		Str("side", string(side)).
		Msg("Remote update accepted")
	return nil
}
