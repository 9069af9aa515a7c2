package panel

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/gomega"

	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/firmware/encoder"
)

func TestParseScript(t *testing.T) {
	g := NewWithT(t)

	steps, err := ParseScript("1, 5+3 ,2,", 5)
	g.Expect(err).To(BeNil())
	g.Expect(steps).To(Equal([]Step{{1}, {3, 5}, {2}}))

	for _, bad := range []string{"", "0", "6", "a", "1+x", ","} {
		_, err := ParseScript(bad, 5)
		g.Expect(errors.Is(err, ErrBadScript)).To(BeTrue(), bad)
	}
}

type syncBuffer struct {
	lock sync.Mutex
	buf  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.buf.String()
}

func TestPlayThroughPanel(t *testing.T) {
	g := NewWithT(t)

	vps, pins := virtualPins(5)
	wire := &syncBuffer{}
	p, err := New(pins, encoder.New(wire))
	g.Expect(err).To(BeNil())
	g.Expect(p.Initialize()).To(Succeed())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx, time.Millisecond)

	steps, err := ParseScript("2,1+4", 5)
	g.Expect(err).To(BeNil())
	g.Expect(Play(ctx, vps, steps, 30*time.Millisecond, 30*time.Millisecond)).To(Succeed())

	g.Eventually(wire.String, time.Second).Should(Equal("b2 b1 b4 "))
}
