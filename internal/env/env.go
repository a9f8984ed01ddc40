package env

import (
	"github.com/dallonby/RotaryDial/internal/config"
	"github.com/dallonby/RotaryDial/internal/state"
)

var (
	Cfg      *config.Config
	AppState *state.AppState
)
