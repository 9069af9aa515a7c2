package input

import "errors"

var ErrNoPin = errors.New("input: pin required")

// Pin is the digital line behind one button.
// Get returns the raw level: true is high.
type Pin interface {
	ConfigureInputPullUp() error
	Get() bool
}

// DebouncedInput tracks the logical state of one pull-up input and derives
// edges from consecutive polls. It does no timing of its own: the caller polls
// at a fixed cadence and the host filters bounces.
type DebouncedInput struct {
	pin Pin
	// lastState is true while released (idle high).
	lastState    bool
	stateChanged bool
}

func New(pin Pin) (*DebouncedInput, error) {
	if pin == nil {
		return nil, ErrNoPin
	}
	return &DebouncedInput{pin: pin, lastState: true}, nil
}

// Initialize configures the pin as a pull-up input. The input starts released.
func (d *DebouncedInput) Initialize() error {
	d.lastState = true
	d.stateChanged = false
	return d.pin.ConfigureInputPullUp()
}

// Update samples the pin once.
func (d *DebouncedInput) Update() {
	newState := d.pin.Get()
	d.stateChanged = d.lastState != newState
	d.lastState = newState
}

// Changed, Pressed and Released describe the last Update only.
func (d *DebouncedInput) Changed() bool {
	return d.stateChanged
}

func (d *DebouncedInput) Pressed() bool {
	return d.Changed() && !d.lastState
}

func (d *DebouncedInput) Released() bool {
	return d.Changed() && d.lastState
}

// State returns the logical level seen by the last Update (true = released).
func (d *DebouncedInput) State() bool {
	return d.lastState
}
