package serial

import (
	"errors"
	"io"
	"time"

	goserial "github.com/goburrow/serial"
)

const (
	DefaultBaudRate    = 9600
	DefaultReadTimeout = 500 * time.Millisecond
)

// Opener opens the device at address for reading.
type Opener func(address string) (io.ReadCloser, error)

// NewOpener opens ports as 8N1 at baud. Reads return after timeout when the
// line is quiet.
func NewOpener(baud int, timeout time.Duration) Opener {
	if baud <= 0 {
		baud = DefaultBaudRate
	}
	if timeout <= 0 {
		timeout = DefaultReadTimeout
	}

	return func(address string) (io.ReadCloser, error) {
		return goserial.Open(&goserial.Config{
			Address:  address,
			BaudRate: baud,
			DataBits: 8,
			StopBits: 1,
			Parity:   "N",
			Timeout:  timeout,
		})
	}
}

// OpenWriter opens address for writing tokens, used by the emulator.
func OpenWriter(address string, baud int) (io.WriteCloser, error) {
	if baud <= 0 {
		baud = DefaultBaudRate
	}
	return goserial.Open(&goserial.Config{
		Address:  address,
		BaudRate: baud,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
		Timeout:  DefaultReadTimeout,
	})
}

func isTimeout(err error) bool {
	return errors.Is(err, goserial.ErrTimeout)
}
