package entity

// LinkState is the state of the serial link to the panel.
type LinkState int

const (
	// NoPortState indicates that no serial device is open.
	NoPortState LinkState = iota
	// OpenState indicates that a serial device is open and read.
	OpenState
)

func (ls LinkState) String() string {
	switch ls {
	case NoPortState:
		return "no_port"
	case OpenState:
		return "open"
	default:
		return "unknown"
	}
}
