package entity

import "time"

type MessageKind int

const (
	// SerialChunkMessage carries bytes read from the serial link.
	SerialChunkMessage MessageKind = iota
	// ControlMessage carries a control request (profile management, flags).
	ControlMessage
)

type Message struct {
	Kind    MessageKind
	Payload interface{}
}

// Chunk is a batch of bytes as returned by one read of the serial port.
type Chunk struct {
	Data       []byte
	ReceivedAt time.Time
}
