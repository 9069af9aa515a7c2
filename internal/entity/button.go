package entity

import (
	"encoding/json"
	"fmt"
	"time"
)

// ButtonID identifies a physical button of the panel. Indexes start at 1.
type ButtonID int

func (b ButtonID) String() string {
	return fmt.Sprintf("b%d", int(b))
}

// Valid reports whether the id can name a physical button.
func (b ButtonID) Valid() bool {
	return b >= 1
}

type Edge int

const (
	// PressedEdge is a released -> pressed transition (pin pulled low).
	PressedEdge Edge = iota
	// ReleasedEdge is a pressed -> released transition (pin back high).
	ReleasedEdge
)

func (e Edge) String() string {
	switch e {
	case PressedEdge:
		return "pressed"
	case ReleasedEdge:
		return "released"
	default:
		return "unknown"
	}
}

// ButtonEvent is produced only when a transition has been observed.
type ButtonEvent struct {
	Button ButtonID
	Edge   Edge
	At     time.Time
}

func (e ButtonEvent) String() string {
	event := struct {
		Button string    `json:"button"`
		Edge   string    `json:"edge"`
		At     time.Time `json:"at"`
	}{
		Button: e.Button.String(),
		Edge:   e.Edge.String(),
		At:     e.At,
	}

	json, err := json.Marshal(event)
	if err != nil {
		return err.Error()
	}

	return string(json)
}
