package session_test

import (
	"context"
	"time"

	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/dispatcher"
	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/entity"
	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/session"
)

var _ = Describe("session manager", func() {
	var (
		ctrl     *gomock.Controller
		repo     *session.MockRepository
		launcher *dispatcher.MockLauncher
		m        *session.Manager
		cancel   context.CancelFunc
		runErr   chan error
	)

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		repo = session.NewMockRepository(ctrl)
		launcher = dispatcher.NewMockLauncher(ctrl)

		repo.EXPECT().Load().Return(entity.Configuration{Settings: entity.DefaultSettings()}, nil).Times(1)
		repo.EXPECT().Save(gomock.Any()).Return(nil).AnyTimes()

		s := session.New(session.DefaultConfig(), repo, newFakeDisplay(), launcher, session.NewMockAutostart(ctrl))
		m = session.NewManager(s)

		var ctx context.Context
		ctx, cancel = context.WithCancel(context.Background())
		runErr = make(chan error, 1)
		go func() {
			runErr <- m.Run(ctx)
		}()
	})

	AfterEach(func() {
		cancel()
		Eventually(runErr).Should(Receive(BeNil()))
		ctrl.Finish()
	})

	It("handles chunks and requests in order", func() {
		launcher.EXPECT().Launch("calc").Return(nil).Times(1)

		Expect(m.Feed(context.Background(), entity.Chunk{Data: []byte("b3 "), ReceivedAt: time.Now()})).To(Succeed())
		Expect(m.Do(context.Background(), func(s *session.Session) error {
			return s.CreateProfile("Work")
		})).To(Succeed())

		var current string
		Expect(m.Do(context.Background(), func(s *session.Session) error {
			current = s.CurrentProfile()
			return nil
		})).To(Succeed())
		Expect(current).To(Equal("Work"))
	})

	It("returns the operation error to the caller", func() {
		err := m.Do(context.Background(), func(s *session.Session) error {
			return s.CreateProfile("Default")
		})
		Expect(err).ToNot(BeNil())
	})

	It("refuses requests after stop", func() {
		cancel()
		Eventually(runErr).Should(Receive(BeNil()))
		runErr <- nil

		err := m.Do(context.Background(), func(s *session.Session) error { return nil })
		Expect(err).To(MatchError(session.ErrStopped))
	})
})
