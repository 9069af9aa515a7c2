package serial

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/qmuntal/stateless"
	"go.uber.org/zap"

	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/entity"
)

const (
	triggerFound = "found"
	triggerLost  = "lost"
	triggerClose = "close"

	readBufferSize = 64
)

type StatusSink interface {
	SetPortStatus(status string)
}

// Feeder receives every chunk read from the port.
type Feeder interface {
	Feed(ctx context.Context, chunk entity.Chunk) error
}

type Config struct {
	// Port is an explicit device path. It skips discovery.
	Port string
	// Match selects the discovered device by substring.
	Match string
}

// Link owns the serial port. A missing device leaves it in NoPort until
// Rescan is called; there is no automatic retry.
type Link struct {
	lock    sync.Mutex
	machine *stateless.StateMachine
	conf    Config
	scanner *Scanner
	opener  Opener
	sink    StatusSink
	port    io.ReadCloser
	address string
	wake    chan struct{}
}

func NewLink(conf Config, scanner *Scanner, opener Opener, sink StatusSink) *Link {
	l := &Link{
		conf:    conf,
		scanner: scanner,
		opener:  opener,
		sink:    sink,
		wake:    make(chan struct{}, 1),
	}

	l.machine = stateless.NewStateMachine(entity.NoPortState)
	l.machine.Configure(entity.NoPortState).
		OnEntry(func(ctx context.Context, args ...interface{}) error {
			l.sink.SetPortStatus("Current serial port: none")
			return nil
		}).
		Permit(triggerFound, entity.OpenState)

	l.machine.Configure(entity.OpenState).
		OnEntry(func(ctx context.Context, args ...interface{}) error {
			l.sink.SetPortStatus(fmt.Sprintf("Current serial port: %s", l.address))
			return nil
		}).
		OnExit(func(ctx context.Context, args ...interface{}) error {
			if l.port != nil {
				l.port.Close()
			}
			l.port = nil
			l.address = ""
			return nil
		}).
		Permit(triggerLost, entity.NoPortState).
		Permit(triggerClose, entity.NoPortState)

	l.machine.OnTransitioned(func(ctx context.Context, t stateless.Transition) {
		zap.S().Infow("serial link transitioned", "from", t.Source, "to", t.Destination, "trigger", t.Trigger)
	})

	l.sink.SetPortStatus("Current serial port: none")

	return l
}

func (l *Link) State() entity.LinkState {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.machine.MustState().(entity.LinkState)
}

// Address returns the open device path or "".
func (l *Link) Address() string {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.address
}

// Rescan closes the current port, if any, and runs discovery again.
func (l *Link) Rescan() (string, error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	if l.machine.MustState() == entity.OpenState {
		if err := l.machine.Fire(triggerClose); err != nil {
			return "", err
		}
	}

	address := l.conf.Port
	if address == "" {
		found, err := l.scanner.Find(l.conf.Match)
		if err != nil {
			zap.S().Warnw("no serial port found", "match", l.conf.Match)
			return "", err
		}
		address = found
	}

	port, err := l.opener(address)
	if err != nil {
		zap.S().Errorw("failed to open serial port", "port", address, "error", err)
		return "", fmt.Errorf("%w: %s", ErrNoPort, err)
	}

	l.port = port
	l.address = address
	if err := l.machine.Fire(triggerFound); err != nil {
		port.Close()
		l.port = nil
		l.address = ""
		return "", err
	}

	select {
	case l.wake <- struct{}{}:
	default:
	}

	return address, nil
}

// Run reads the open port and feeds the chunks until ctx is done.
func (l *Link) Run(ctx context.Context, feeder Feeder) error {
	if _, err := l.Rescan(); err != nil && !errors.Is(err, ErrNoPort) {
		return err
	}

	go func() {
		<-ctx.Done()
		l.close()
	}()

	buf := make([]byte, readBufferSize)
	for {
		l.lock.Lock()
		port := l.port
		l.lock.Unlock()

		if port == nil {
			select {
			case <-l.wake:
				continue
			case <-ctx.Done():
				return nil
			}
		}

		n, err := port.Read(buf)
		if n > 0 {
			chunk := entity.Chunk{
				Data:       append([]byte(nil), buf[:n]...),
				ReceivedAt: time.Now(),
			}
			if ferr := feeder.Feed(ctx, chunk); ferr != nil {
				if ctx.Err() != nil {
					return nil
				}
				zap.S().Errorw("failed to feed serial chunk", "error", ferr)
			}
		}

		if err != nil && !isTimeout(err) {
			if ctx.Err() != nil {
				return nil
			}
			l.lost(port, err)
		}
	}
}

func (l *Link) lost(port io.ReadCloser, cause error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	// the port may already have been replaced by a rescan
	if l.port != port {
		return
	}

	zap.S().Warnw("serial port lost", "port", l.address, "error", cause)
	if err := l.machine.Fire(triggerLost); err != nil {
		zap.S().Errorw("failed to mark serial port as lost", "error", err)
	}
}

func (l *Link) close() {
	l.lock.Lock()
	defer l.lock.Unlock()

	if l.machine.MustState() == entity.OpenState {
		l.machine.Fire(triggerClose)
	}
}
