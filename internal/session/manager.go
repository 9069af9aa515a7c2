package session

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/entity"
)

var ErrStopped = errors.New("session manager stopped")

type request struct {
	fn    func(s *Session) error
	reply chan error
}

// Manager runs the session in a single goroutine. Serial chunks and control
// requests are both posted as messages, so decode-dispatch passes never
// overlap with each other or with profile management.
type Manager struct {
	session *Session
	recv    chan entity.Message
	done    chan struct{}
	now     func() time.Time
}

func NewManager(s *Session) *Manager {
	return &Manager{
		session: s,
		recv:    make(chan entity.Message, 16),
		done:    make(chan struct{}),
		now:     time.Now,
	}
}

// Run starts the session and processes messages until ctx is done.
func (m *Manager) Run(ctx context.Context) error {
	defer close(m.done)

	if err := m.session.Start(); err != nil {
		return err
	}

	for {
		select {
		case msg := <-m.recv:
			m.handle(msg)
		case <-ctx.Done():
			if outcomes := m.session.FlushPending(m.now()); len(outcomes) > 0 {
				zap.S().Debugw("flushed partial token on shutdown", "outcomes", len(outcomes))
			}
			zap.S().Info("session manager stopped")
			return nil
		}
	}
}

func (m *Manager) handle(msg entity.Message) {
	switch msg.Kind {
	case entity.SerialChunkMessage:
		chunk, ok := msg.Payload.(entity.Chunk)
		if !ok {
			zap.S().Errorw("unexpected chunk payload", "payload", msg.Payload)
			return
		}
		receivedAt := chunk.ReceivedAt
		if receivedAt.IsZero() {
			receivedAt = m.now()
		}
		m.session.HandleChunk(chunk.Data, receivedAt)
	case entity.ControlMessage:
		req, ok := msg.Payload.(request)
		if !ok {
			zap.S().Errorw("unexpected control payload", "payload", msg.Payload)
			return
		}
		req.reply <- req.fn(m.session)
	}
}

// Feed posts bytes read from the serial line.
func (m *Manager) Feed(ctx context.Context, chunk entity.Chunk) error {
	return m.post(ctx, entity.Message{Kind: entity.SerialChunkMessage, Payload: chunk})
}

// Do runs fn on the session goroutine and waits for its result.
func (m *Manager) Do(ctx context.Context, fn func(s *Session) error) error {
	req := request{
		fn:    fn,
		reply: make(chan error, 1),
	}

	if err := m.post(ctx, entity.Message{Kind: entity.ControlMessage, Payload: req}); err != nil {
		return err
	}

	select {
	case err := <-req.reply:
		return err
	case <-m.done:
		select {
		case err := <-req.reply:
			return err
		default:
			return ErrStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) post(ctx context.Context, msg entity.Message) error {
	select {
	case m.recv <- msg:
		return nil
	case <-m.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}
