package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dallonby/RotaryDial/internal/model"
)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/zones/left", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"setpoint": 70.0, "power_on": true}`))
	}))
	defer srv.Close()

	c := NewClient(time.Second)
	addr := strings.TrimPrefix(srv.URL, "http://")

	got, err := c.Fetch(context.Background(), addr, model.SideLeft)
	require.NoError(t, err)
	assert.True(t, got.PowerOn)
	assert.InDelta(t, 21.1, got.Setpoint, 0.05) // 70F in Celsius
}

func TestFetchFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
	}{
		{
			name: "non-success status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantErr: ErrBadStatus,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"setpoint": "not a number"`))
			},
			wantErr: ErrBadPayload,
		},
		{
			name: "missing field",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"setpoint": 70.0}`))
			},
			wantErr: ErrBadPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := NewClient(time.Second)
			addr := strings.TrimPrefix(srv.URL, "http://")

			_, err := c.Fetch(context.Background(), addr, model.SideLeft)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
		})
	}
}

func TestFetchUnreachable(t *testing.T) {
	c := NewClient(100 * time.Millisecond)
	_, err := c.Fetch(context.Background(), "127.0.0.1:1", model.SideLeft)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnreachable))
}

func TestPushSetpointConvertsToFahrenheit(t *testing.T) {
	var got map[string]float64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(time.Second)
	addr := strings.TrimPrefix(srv.URL, "http://")

	require.NoError(t, c.PushSetpoint(context.Background(), addr, model.SideRight, 21.0))
	assert.InDelta(t, 69.8, got["setpoint"], 0.01)

	_, hasPower := got["power_on"]
	assert.False(t, hasPower, "setpoint push must not carry power state")
}

func TestPushPowerPartialBody(t *testing.T) {
	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(time.Second)
	addr := strings.TrimPrefix(srv.URL, "http://")

	require.NoError(t, c.PushPower(context.Background(), addr, model.SideLeft, false))
	assert.Equal(t, false, raw["power_on"])
	_, hasSetpoint := raw["setpoint"]
	assert.False(t, hasSetpoint, "power push must not carry a setpoint")
}
