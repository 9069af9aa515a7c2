package panel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/entity"
	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/firmware/encoder"
	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/firmware/input"
)

// DefaultPollInterval is the cadence of the firmware loop.
const DefaultPollInterval = 10 * time.Millisecond

var ErrNoButtons = errors.New("panel: at least one button is required")

//go:generate mockgen -package=panel -destination=mock_emitter.go --build_flags=--mod=mod . Emitter
type Emitter interface {
	Emit(ids ...entity.ButtonID) error
}

// Panel is the firmware main loop: it polls every input once per cycle and
// reports pressed edges through the emitter. Input i is button i+1.
type Panel struct {
	inputs  []*input.DebouncedInput
	emitter Emitter
}

func New(pins []input.Pin, emitter Emitter) (*Panel, error) {
	if len(pins) == 0 {
		return nil, ErrNoButtons
	}

	p := &Panel{
		inputs:  make([]*input.DebouncedInput, 0, len(pins)),
		emitter: emitter,
	}

	for i, pin := range pins {
		in, err := input.New(pin)
		if err != nil {
			return nil, fmt.Errorf("button %d: %w", i+1, err)
		}
		p.inputs = append(p.inputs, in)
	}

	return p, nil
}

// NewWithEncoder is a shortcut for a panel writing tokens to enc.
func NewWithEncoder(pins []input.Pin, enc *encoder.Encoder) (*Panel, error) {
	return New(pins, enc)
}

func (p *Panel) Initialize() error {
	for i, in := range p.inputs {
		if err := in.Initialize(); err != nil {
			return fmt.Errorf("button %d: %w", i+1, err)
		}
	}
	return nil
}

// PollOnce updates every input, emits the pressed edges in index order and
// returns all observed transitions.
func (p *Panel) PollOnce(now time.Time) ([]entity.ButtonEvent, error) {
	var (
		events  []entity.ButtonEvent
		pressed []entity.ButtonID
	)

	for i, in := range p.inputs {
		in.Update()
		if !in.Changed() {
			continue
		}

		id := entity.ButtonID(i + 1)
		edge := entity.ReleasedEdge
		if in.Pressed() {
			edge = entity.PressedEdge
			pressed = append(pressed, id)
		}
		events = append(events, entity.ButtonEvent{Button: id, Edge: edge, At: now})
	}

	if len(pressed) == 0 {
		return events, nil
	}

	return events, p.emitter.Emit(pressed...)
}

// Run polls at the given interval until ctx is done. Emit failures are logged
// and the loop keeps going: there is no retry on the wire.
func (p *Panel) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			events, err := p.PollOnce(now)
			if err != nil {
				zap.S().Errorw("failed to emit button tokens", "error", err)
			}
			for _, e := range events {
				zap.S().Debugw("button transition", "event", e.String())
			}
		}
	}
}
