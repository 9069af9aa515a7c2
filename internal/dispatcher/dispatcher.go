package dispatcher

import (
	"strings"

	"go.uber.org/zap"

	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/entity"
	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/metrics"
	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/profile"
)

// DefaultCycleButton is the button reserved for profile cycling.
const DefaultCycleButton entity.ButtonID = 5

//go:generate mockgen -package=dispatcher -destination=mock_launcher.go --build_flags=--mod=mod . Launcher
type Launcher interface {
	// Launch starts command detached. The exit status is never observed.
	Launch(command string) error
}

type OutcomeKind int

const (
	NoAction OutcomeKind = iota
	Launched
	Cycled
)

func (k OutcomeKind) String() string {
	switch k {
	case Launched:
		return "launched"
	case Cycled:
		return "cycled"
	default:
		return "no_action"
	}
}

// Outcome describes what an accepted press resolved to.
type Outcome struct {
	Kind OutcomeKind
	// Command is set when Kind is Launched.
	Command string
	// NextProfile is set when Kind is Cycled. The caller performs the switch.
	NextProfile string
	// Err holds a launch failure. It is logged, never propagated.
	Err error
}

// State is the part of the session the dispatcher reads.
type State struct {
	Profiles      profile.Table
	Current       string
	CycleProfiles bool
}

type Dispatcher struct {
	launcher    Launcher
	cycleButton entity.ButtonID
}

func New(launcher Launcher, cycleButton entity.ButtonID) *Dispatcher {
	if !cycleButton.Valid() {
		cycleButton = DefaultCycleButton
	}
	return &Dispatcher{
		launcher:    launcher,
		cycleButton: cycleButton,
	}
}

func (d *Dispatcher) CycleButton() entity.ButtonID {
	return d.cycleButton
}

// Dispatch resolves an accepted press of id against state.
func (d *Dispatcher) Dispatch(state State, id entity.ButtonID) Outcome {
	if id == d.cycleButton && state.CycleProfiles {
		next, err := state.Profiles.Next(state.Current)
		if err != nil {
			zap.S().Errorw("cannot cycle profiles", "current", state.Current, "error", err)
			return Outcome{Kind: NoAction}
		}
		return Outcome{Kind: Cycled, NextProfile: next}
	}

	current, err := state.Profiles.Get(state.Current)
	if err != nil {
		zap.S().Errorw("no current profile", "current", state.Current, "error", err)
		return Outcome{Kind: NoAction}
	}

	command, ok := current.Action(int(id))
	if !ok {
		zap.S().Infow("button has no action slot", "button", id.String(), "profile", current.Name)
		return Outcome{Kind: NoAction}
	}
	if strings.TrimSpace(command) == "" {
		zap.S().Debugw("empty action", "button", id.String(), "profile", current.Name)
		return Outcome{Kind: NoAction}
	}

	if err := d.launcher.Launch(command); err != nil {
		metrics.CommandsLaunched.WithLabelValues("error").Inc()
		zap.S().Errorw("failed to launch command", "button", id.String(), "command", command, "error", err)
		return Outcome{Kind: Launched, Command: command, Err: err}
	}

	metrics.CommandsLaunched.WithLabelValues("ok").Inc()
	zap.S().Infow("command launched", "button", id.String(), "profile", current.Name, "command", command)
	return Outcome{Kind: Launched, Command: command}
}
