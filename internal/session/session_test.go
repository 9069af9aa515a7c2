package session_test

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/dispatcher"
	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/entity"
	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/profile"
	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/session"
)

var _ = Describe("session", func() {
	var (
		ctrl      *gomock.Controller
		repo      *session.MockRepository
		launcher  *dispatcher.MockLauncher
		autostart *session.MockAutostart
		display   *fakeDisplay
		saved     []entity.Configuration
		s         *session.Session
		t0        time.Time
	)

	work := entity.Profile{Name: "Work", Actions: []string{"w1", "w2", "w3", "w4", "w5"}}

	lastSaved := func() entity.Configuration {
		Expect(saved).ToNot(BeEmpty())
		return saved[len(saved)-1]
	}

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		repo = session.NewMockRepository(ctrl)
		launcher = dispatcher.NewMockLauncher(ctrl)
		autostart = session.NewMockAutostart(ctrl)
		display = newFakeDisplay()
		saved = nil
		t0 = time.Date(2022, 6, 1, 10, 0, 0, 0, time.UTC)

		repo.EXPECT().Save(gomock.Any()).DoAndReturn(func(conf entity.Configuration) error {
			saved = append(saved, conf)
			return nil
		}).AnyTimes()

		s = session.New(session.DefaultConfig(), repo, display, launcher, autostart)
	})

	AfterEach(func() {
		ctrl.Finish()
	})

	start := func(conf entity.Configuration) {
		repo.EXPECT().Load().Return(conf, nil).Times(1)
		Expect(s.Start()).To(Succeed())
	}

	Context("startup", func() {
		It("creates the default profile when the store is empty", func() {
			start(entity.Configuration{Settings: entity.DefaultSettings()})

			conf := lastSaved()
			Expect(conf.Profiles).To(Equal([]entity.Profile{entity.DefaultProfile()}))
			Expect(conf.Settings.CurrentProfile).To(Equal("Default"))

			Expect(display.current).To(Equal("Default"))
			Expect(display.profiles).To(Equal([]string{"Default"}))
			Expect(display.slots).To(Equal(map[int]string{
				1: "notepad", 2: "wordpad", 3: "calc", 4: "explorer", 5: "control",
			}))
			Expect(display.notifications).To(ContainElement("Selected profile: Default"))
			Expect(display.notifications).ToNot(ContainElement("ButtonPad running"))
		})

		It("falls back to the first profile when the stored one is missing", func() {
			settings := entity.DefaultSettings()
			settings.CurrentProfile = "Gone"
			settings.ShowWindowOnStartup = false
			start(entity.Configuration{Settings: settings, Profiles: []entity.Profile{work, entity.DefaultProfile()}})

			Expect(s.CurrentProfile()).To(Equal("Work"))
			Expect(lastSaved().Settings.CurrentProfile).To(Equal("Work"))
			Expect(display.lastNotification()).To(Equal("ButtonPad running"))
		})

		It("fails when the store cannot be read", func() {
			repo.EXPECT().Load().Return(entity.Configuration{}, errors.New("broken file")).Times(1)
			Expect(s.Start()).ToNot(Succeed())
		})

		It("rejects operations before start", func() {
			Expect(errors.Is(s.CreateProfile("x"), session.ErrNotLoaded)).To(BeTrue())
			Expect(s.HandleChunk([]byte("b1 "), t0)).To(BeEmpty())
		})
	})

	Context("dispatch", func() {
		BeforeEach(func() {
			start(entity.Configuration{
				Settings: entity.DefaultSettings(),
				Profiles: []entity.Profile{entity.DefaultProfile(), work},
			})
		})

		It("drops garbage and suppresses rapid duplicates", func() {
			launcher.EXPECT().Launch("calc").Return(nil).Times(1)

			outcomes := s.HandleChunk([]byte("b3 b99 garbage b3"), t0)
			Expect(outcomes).To(HaveLen(2))
			Expect(outcomes[0].Kind).To(Equal(dispatcher.Launched))
			Expect(outcomes[1].Kind).To(Equal(dispatcher.NoAction))
		})

		It("ignores indices past the panel without tracking them", func() {
			launcher.EXPECT().Launch(gomock.Any()).Times(0)
			before := acceptedSeries()

			chunk := []byte{}
			for i := 100; i < 400; i++ {
				chunk = append(chunk, []byte(fmt.Sprintf("b%d ", i))...)
			}
			outcomes := s.HandleChunk(chunk, t0)

			Expect(outcomes).To(HaveLen(300))
			for _, o := range outcomes {
				Expect(o.Kind).To(Equal(dispatcher.NoAction))
			}
			Expect(acceptedSeries()).To(Equal(before))
		})

		It("accepts the same button again after the threshold", func() {
			launcher.EXPECT().Launch("notepad").Return(nil).Times(2)

			s.HandleChunk([]byte("b1 "), t0)
			s.HandleChunk([]byte("b1 "), t0.Add(100*time.Millisecond))
			s.HandleChunk([]byte("b1 "), t0.Add(600*time.Millisecond))
		})

		It("cycles profiles with button 5", func() {
			launcher.EXPECT().Launch(gomock.Any()).Times(0)
			Expect(s.SetCycleProfiles(true)).To(Succeed())
			Expect(display.cycle).To(BeTrue())

			s.HandleChunk([]byte("b5 "), t0)
			Expect(s.CurrentProfile()).To(Equal("Work"))
			Expect(lastSaved().Settings.CurrentProfile).To(Equal("Work"))
			Expect(display.slots[1]).To(Equal("w1"))
			Expect(display.slots[5]).To(Equal("w5"))
			Expect(display.lastNotification()).To(Equal("Selected profile: Work"))

			s.HandleChunk([]byte("b5 "), t0.Add(time.Second))
			Expect(s.CurrentProfile()).To(Equal("Default"))
			Expect(lastSaved().Settings.CurrentProfile).To(Equal("Default"))
			Expect(display.slots[1]).To(Equal("notepad"))
		})

		It("launches the fifth action when cycling is off", func() {
			launcher.EXPECT().Launch("control").Return(nil).Times(1)

			s.HandleChunk([]byte("b5 "), t0)
			Expect(s.CurrentProfile()).To(Equal("Default"))
		})

		It("keeps going when a launch fails", func() {
			launcher.EXPECT().Launch("notepad").Return(errors.New("not found")).Times(1)
			launcher.EXPECT().Launch("wordpad").Return(nil).Times(1)

			outcomes := s.HandleChunk([]byte("b1 b2 "), t0)
			Expect(outcomes).To(HaveLen(2))
			Expect(outcomes[0].Err).ToNot(BeNil())
		})
	})

	Context("profile management", func() {
		BeforeEach(func() {
			start(entity.Configuration{
				Settings: entity.DefaultSettings(),
				Profiles: []entity.Profile{entity.DefaultProfile(), work},
			})
		})

		It("rejects an existing name on create", func() {
			count := len(saved)

			err := s.CreateProfile("Work")
			Expect(errors.Is(err, profile.ErrDuplicateName)).To(BeTrue())
			Expect(display.lastNotification()).To(Equal("Error: profile with name 'Work' already exists."))
			Expect(saved).To(HaveLen(count))

			snapshot := s.Snapshot()
			Expect(snapshot.Profiles[1]).To(Equal(work))
		})

		It("creates and selects a new profile", func() {
			Expect(s.CreateProfile("Games")).To(Succeed())

			Expect(s.CurrentProfile()).To(Equal("Games"))
			Expect(display.profiles).To(Equal([]string{"Default", "Work", "Games"}))
			Expect(display.slots).To(Equal(map[int]string{1: "", 2: "", 3: "", 4: "", 5: ""}))
			Expect(lastSaved().Profiles).To(HaveLen(3))
		})

		It("saves actions that survive a reload", func() {
			actions := []string{"a", "b", "c", "d", "e"}
			Expect(s.SaveProfile("Default", actions)).To(Succeed())
			Expect(display.slots[3]).To(Equal("c"))
			Expect(display.lastNotification()).To(Equal("Profile saved correctly"))

			reloaded := session.New(session.DefaultConfig(), repo, newFakeDisplay(), launcher, autostart)
			repo.EXPECT().Load().Return(lastSaved(), nil).Times(1)
			Expect(reloaded.Start()).To(Succeed())

			Expect(reloaded.Snapshot().Profiles[0].Actions).To(Equal(actions))
		})

		It("rejects a wrong number of actions", func() {
			err := s.SaveProfile("Default", []string{"a"})
			Expect(errors.Is(err, profile.ErrActionCount)).To(BeTrue())
		})

		It("renames the current profile", func() {
			Expect(s.RenameProfile("Default", "Home")).To(Succeed())
			Expect(s.CurrentProfile()).To(Equal("Home"))
			Expect(display.profiles).To(Equal([]string{"Home", "Work"}))
			Expect(lastSaved().Settings.CurrentProfile).To(Equal("Home"))

			err := s.RenameProfile("Home", "Work")
			Expect(errors.Is(err, profile.ErrDuplicateName)).To(BeTrue())
		})

		It("duplicates and selects the copy", func() {
			Expect(s.DuplicateProfile("Work", "Work2")).To(Succeed())
			Expect(s.CurrentProfile()).To(Equal("Work2"))
			Expect(display.slots[2]).To(Equal("w2"))
		})

		It("deletes the current profile and selects its neighbour", func() {
			Expect(s.DeleteProfile("Default")).To(Succeed())
			Expect(s.CurrentProfile()).To(Equal("Work"))
			Expect(lastSaved().Profiles).To(Equal([]entity.Profile{work}))

			Expect(errors.Is(s.DeleteProfile("Work"), profile.ErrLastProfile)).To(BeTrue())
		})

		It("switches explicitly", func() {
			Expect(s.SwitchProfile("Work")).To(Succeed())
			Expect(display.current).To(Equal("Work"))
			Expect(display.slots[4]).To(Equal("w4"))

			Expect(errors.Is(s.SwitchProfile("Nope"), profile.ErrNotFound)).To(BeTrue())
		})
	})

	Context("flags", func() {
		BeforeEach(func() {
			start(entity.Configuration{Settings: entity.DefaultSettings()})
		})

		It("stores show window on startup", func() {
			Expect(s.SetShowWindowOnStartup(false)).To(Succeed())
			Expect(lastSaved().Settings.ShowWindowOnStartup).To(BeFalse())
		})

		It("registers autostart before storing the flag", func() {
			autostart.EXPECT().Set(true).Return(nil).Times(1)
			Expect(s.SetAutorunAtStartup(true)).To(Succeed())
			Expect(lastSaved().Settings.AutorunAtStartup).To(BeTrue())
		})

		It("does not store the flag when autostart fails", func() {
			cause := errors.New("read-only")
			autostart.EXPECT().Set(true).Return(cause).Times(1)
			err := s.SetAutorunAtStartup(true)
			Expect(errors.Is(err, session.ErrAutostart)).To(BeTrue())
			Expect(errors.Is(err, cause)).To(BeTrue())
			Expect(s.Settings().AutorunAtStartup).To(BeFalse())
		})
	})
})

// acceptedSeries counts the button label values of the accepted presses counter.
func acceptedSeries() int {
	families, err := prometheus.DefaultGatherer.Gather()
	Expect(err).ToNot(HaveOccurred())
	for _, family := range families {
		if family.GetName() == "buttonpad_presses_accepted_total" {
			return len(family.GetMetric())
		}
	}
	return 0
}
