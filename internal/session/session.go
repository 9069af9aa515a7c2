package session

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/decoder"
	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/dispatcher"
	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/entity"
	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/metrics"
	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/profile"
	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/ratelimit"
)

const notificationTitle = "ButtonPad"

var (
	ErrPersist   = errors.New("failed to persist configuration")
	ErrAutostart = errors.New("failed to update autostart")
	ErrNotLoaded = errors.New("session not started")
)

//go:generate mockgen -package=session -destination=mock_repository.go --build_flags=--mod=mod . Repository
type Repository interface {
	// Load reads the whole configuration block. A missing store is not an error.
	Load() (entity.Configuration, error)
	// Save writes the whole configuration block.
	Save(conf entity.Configuration) error
}

type Display interface {
	// SetSlotText sets the text shown for the 1-indexed slot.
	SetSlotText(slot int, text string)
	SetProfiles(names []string)
	SetCurrentProfile(name string)
	SetCycleMode(enabled bool)
	Notify(title, message string)
}

//go:generate mockgen -package=session -destination=mock_autostart.go --build_flags=--mod=mod . Autostart
type Autostart interface {
	Set(enabled bool) error
}

type Config struct {
	Slots       int
	CycleButton entity.ButtonID
	Threshold   time.Duration
	// CarryPartial keeps a trailing partial token for the next chunk.
	CarryPartial bool
}

func DefaultConfig() Config {
	return Config{
		Slots:       entity.DefaultActionSlots,
		CycleButton: dispatcher.DefaultCycleButton,
		Threshold:   ratelimit.DefaultThreshold,
	}
}

// Snapshot is a copy of the session state.
type Snapshot struct {
	Settings entity.Settings  `json:"settings"`
	Profiles []entity.Profile `json:"profiles"`
}

// Session owns the dispatch context: settings, profile table, decoder and
// rate limiter. It is not safe for concurrent use; the Manager serializes
// access to it.
type Session struct {
	slots      int
	settings   entity.Settings
	profiles   profile.Table
	decoder    *decoder.Decoder
	limiter    *ratelimit.Limiter
	dispatcher *dispatcher.Dispatcher
	repository Repository
	display    Display
	autostart  Autostart
	started    bool
}

func New(conf Config, repository Repository, display Display, launcher dispatcher.Launcher, autostart Autostart) *Session {
	if conf.Slots <= 0 {
		conf.Slots = entity.DefaultActionSlots
	}

	var opts []decoder.Option
	if conf.CarryPartial {
		opts = append(opts, decoder.WithCarry())
	}

	return &Session{
		slots:      conf.Slots,
		settings:   entity.DefaultSettings(),
		profiles:   profile.NewTable(conf.Slots),
		decoder:    decoder.New(opts...),
		limiter:    ratelimit.New(conf.Threshold),
		dispatcher: dispatcher.New(launcher, conf.CycleButton),
		repository: repository,
		display:    display,
		autostart:  autostart,
	}
}

// Start loads the configuration, creates the default profile when there is
// none and selects the stored current profile.
func (s *Session) Start() error {
	conf, err := s.repository.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	s.settings = conf.Settings
	s.profiles = profile.NewTable(s.slots, conf.Profiles...)

	if s.profiles.Len() == 0 {
		zap.S().Infow("no profile found, creating default profile")
		s.profiles = profile.NewTable(s.slots, entity.DefaultProfile())
	}

	current := s.settings.CurrentProfile
	if !s.profiles.Has(current) {
		current, _ = s.profiles.First()
		zap.S().Infow("stored profile not found", "stored", s.settings.CurrentProfile, "selected", current)
	}

	s.started = true
	s.display.SetProfiles(s.profiles.Names())
	s.display.SetCycleMode(s.settings.CycleProfiles)

	if err := s.selectProfile(current); err != nil {
		return err
	}

	if !s.settings.ShowWindowOnStartup {
		s.display.Notify(notificationTitle, "ButtonPad running")
	}

	zap.S().Infow("session started", "profiles", s.profiles.Names(), "current", current, "cycle_profiles", s.settings.CycleProfiles)
	return nil
}

// HandleChunk runs one decode-dispatch pass over bytes read from the serial
// line. Nothing in here fails the caller.
func (s *Session) HandleChunk(chunk []byte, now time.Time) []dispatcher.Outcome {
	return s.dispatch(s.decoder.Decode(chunk), now)
}

// FlushPending dispatches a partial token held by the decoder.
func (s *Session) FlushPending(now time.Time) []dispatcher.Outcome {
	return s.dispatch(s.decoder.Flush(), now)
}

func (s *Session) dispatch(ids []entity.ButtonID, now time.Time) []dispatcher.Outcome {
	if !s.started || len(ids) == 0 {
		return nil
	}

	outcomes := make([]dispatcher.Outcome, 0, len(ids))
	for _, id := range ids {
		// indices past the panel never reach the limiter
		if !s.inRange(id) {
			zap.S().Debugw("button out of range", "button", id.String(), "slots", s.slots)
			outcomes = append(outcomes, dispatcher.Outcome{Kind: dispatcher.NoAction})
			continue
		}
		if !s.limiter.Allow(id, now) {
			continue
		}

		outcome := s.dispatcher.Dispatch(s.state(), id)
		if outcome.Kind == dispatcher.Cycled {
			if err := s.selectProfile(outcome.NextProfile); err != nil {
				zap.S().Errorw("failed to cycle profile", "next", outcome.NextProfile, "error", err)
			}
		}
		outcomes = append(outcomes, outcome)
	}

	return outcomes
}

// SwitchProfile is the explicit selection of name.
func (s *Session) SwitchProfile(name string) error {
	if err := s.checkStarted(); err != nil {
		return err
	}
	if !s.profiles.Has(name) {
		return fmt.Errorf("%w: '%s'", profile.ErrNotFound, name)
	}
	return s.selectProfile(name)
}

// CreateProfile appends a profile with empty actions and selects it.
func (s *Session) CreateProfile(name string) error {
	if err := s.checkStarted(); err != nil {
		return err
	}

	profiles, err := s.profiles.Create(name)
	if err != nil {
		s.warn(name, err)
		return err
	}

	s.setProfiles(profiles)
	return s.selectProfile(name)
}

// SaveProfile replaces the actions of name.
func (s *Session) SaveProfile(name string, actions []string) error {
	if err := s.checkStarted(); err != nil {
		return err
	}

	profiles, err := s.profiles.SetActions(name, actions)
	if err != nil {
		return err
	}
	s.profiles = profiles

	if name == s.settings.CurrentProfile {
		s.refreshSlots()
	}

	if err := s.persist(); err != nil {
		return err
	}

	s.display.Notify(notificationTitle, "Profile saved correctly")
	return nil
}

// RenameProfile keeps the selection on the renamed profile.
func (s *Session) RenameProfile(oldName, newName string) error {
	if err := s.checkStarted(); err != nil {
		return err
	}

	profiles, err := s.profiles.Rename(oldName, newName)
	if err != nil {
		s.warn(newName, err)
		return err
	}

	s.setProfiles(profiles)
	if s.settings.CurrentProfile == oldName {
		return s.selectProfile(newName)
	}
	return s.persist()
}

// DuplicateProfile copies src under newName and selects the copy.
func (s *Session) DuplicateProfile(src, newName string) error {
	if err := s.checkStarted(); err != nil {
		return err
	}

	profiles, err := s.profiles.Duplicate(src, newName)
	if err != nil {
		s.warn(newName, err)
		return err
	}

	s.setProfiles(profiles)
	return s.selectProfile(newName)
}

// DeleteProfile removes name. Deleting the current profile selects its
// neighbour.
func (s *Session) DeleteProfile(name string) error {
	if err := s.checkStarted(); err != nil {
		return err
	}

	profiles, neighbour, err := s.profiles.Delete(name)
	if err != nil {
		return err
	}

	s.setProfiles(profiles)
	if s.settings.CurrentProfile == name {
		return s.selectProfile(neighbour)
	}
	return s.persist()
}

func (s *Session) SetCycleProfiles(enabled bool) error {
	if err := s.checkStarted(); err != nil {
		return err
	}
	s.settings.CycleProfiles = enabled
	s.display.SetCycleMode(enabled)
	return s.persist()
}

func (s *Session) SetShowWindowOnStartup(enabled bool) error {
	if err := s.checkStarted(); err != nil {
		return err
	}
	s.settings.ShowWindowOnStartup = enabled
	return s.persist()
}

// SetAutorunAtStartup registers or removes the autostart entry first; the flag
// is only stored when that succeeds.
func (s *Session) SetAutorunAtStartup(enabled bool) error {
	if err := s.checkStarted(); err != nil {
		return err
	}
	if err := s.autostart.Set(enabled); err != nil {
		zap.S().Errorw("failed to update autostart", "enabled", enabled, "error", err)
		return fmt.Errorf("%w: %w", ErrAutostart, err)
	}
	s.settings.AutorunAtStartup = enabled
	return s.persist()
}

func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Settings: s.settings,
		Profiles: s.profiles.List(),
	}
}

func (s *Session) Settings() entity.Settings {
	return s.settings
}

func (s *Session) CurrentProfile() string {
	return s.settings.CurrentProfile
}

// selectProfile fires the profile-selected side effects: every slot is
// refreshed and the whole block is written before returning.
func (s *Session) selectProfile(name string) error {
	s.settings.CurrentProfile = name
	s.refreshSlots()
	s.display.SetCurrentProfile(name)
	metrics.ProfileSwitches.Inc()
	zap.S().Infow("profile selected", "profile", name)

	if err := s.persist(); err != nil {
		return err
	}

	s.display.Notify(notificationTitle, fmt.Sprintf("Selected profile: %s", name))
	return nil
}

func (s *Session) refreshSlots() {
	current, err := s.profiles.Get(s.settings.CurrentProfile)
	if err != nil {
		current = entity.NewProfile(s.settings.CurrentProfile, s.slots)
	}
	for slot := 1; slot <= s.slots; slot++ {
		text, _ := current.Action(slot)
		s.display.SetSlotText(slot, text)
	}
}

func (s *Session) setProfiles(profiles profile.Table) {
	s.profiles = profiles
	s.display.SetProfiles(profiles.Names())
}

func (s *Session) persist() error {
	conf := entity.Configuration{
		Settings: s.settings,
		Profiles: s.profiles.List(),
	}
	if err := s.repository.Save(conf); err != nil {
		zap.S().Errorw("failed to save configuration", "error", err)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

func (s *Session) warn(name string, err error) {
	if errors.Is(err, profile.ErrDuplicateName) {
		s.display.Notify("Warning", fmt.Sprintf("Error: profile with name '%s' already exists.", name))
	}
	zap.S().Warnw("profile operation rejected", "name", name, "error", err)
}

func (s *Session) state() dispatcher.State {
	return dispatcher.State{
		Profiles:      s.profiles,
		Current:       s.settings.CurrentProfile,
		CycleProfiles: s.settings.CycleProfiles,
	}
}

func (s *Session) inRange(id entity.ButtonID) bool {
	return int(id) <= s.slots || id == s.dispatcher.CycleButton()
}

func (s *Session) checkStarted() error {
	if !s.started {
		return ErrNotLoaded
	}
	return nil
}
