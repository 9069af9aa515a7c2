package ratelimit

import (
	"testing"
	"time"

	. "github.com/onsi/gomega"

	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/entity"
)

func TestFirstPressIsAccepted(t *testing.T) {
	g := NewWithT(t)

	// even at the zero time
	l := New(DefaultThreshold)
	g.Expect(l.Allow(1, time.Time{})).To(BeTrue())
	g.Expect(New(DefaultThreshold).Allow(2, time.Now())).To(BeTrue())
}

func TestThreshold(t *testing.T) {
	g := NewWithT(t)

	t0 := time.Date(2022, 6, 1, 10, 0, 0, 0, time.UTC)
	l := New(DefaultThreshold)

	g.Expect(l.Allow(3, t0)).To(BeTrue())
	g.Expect(l.Allow(3, t0.Add(499*time.Millisecond))).To(BeFalse())
	g.Expect(l.Allow(3, t0.Add(500*time.Millisecond))).To(BeTrue())
}

func TestRejectionDoesNotMoveTimer(t *testing.T) {
	g := NewWithT(t)

	t0 := time.Date(2022, 6, 1, 10, 0, 0, 0, time.UTC)
	l := New(DefaultThreshold)

	g.Expect(l.Allow(1, t0)).To(BeTrue())
	g.Expect(l.Allow(1, t0.Add(400*time.Millisecond))).To(BeFalse())
	// 500ms after the accepted press, 100ms after the rejected one
	g.Expect(l.Allow(1, t0.Add(500*time.Millisecond))).To(BeTrue())
}

func TestButtonsAreIndependent(t *testing.T) {
	g := NewWithT(t)

	now := time.Now()
	l := New(DefaultThreshold)

	accepted := []entity.ButtonID{}
	for _, id := range []entity.ButtonID{3, 99, 3} {
		if l.Allow(id, now) {
			accepted = append(accepted, id)
		}
	}
	g.Expect(accepted).To(Equal([]entity.ButtonID{3, 99}))
}

func TestAcceptedPressesAreSpaced(t *testing.T) {
	g := NewWithT(t)

	t0 := time.Now()
	l := New(DefaultThreshold)

	var accepted []time.Time
	for i := 0; i < 100; i++ {
		at := t0.Add(time.Duration(i*70) * time.Millisecond)
		if l.Allow(2, at) {
			accepted = append(accepted, at)
		}
	}

	g.Expect(len(accepted)).To(BeNumerically(">", 1))
	for i := 1; i < len(accepted); i++ {
		g.Expect(accepted[i].Sub(accepted[i-1])).To(BeNumerically(">=", DefaultThreshold))
	}
}

func TestNegativeThresholdAcceptsEveryPress(t *testing.T) {
	g := NewWithT(t)

	now := time.Now()
	l := New(-time.Second)
	g.Expect(l.Allow(1, now)).To(BeTrue())
	g.Expect(l.Allow(1, now)).To(BeTrue())
}
