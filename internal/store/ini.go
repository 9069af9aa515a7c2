package store

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/ini.v1"

	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/entity"
)

const (
	applicationSection = "Application"
	profilePrefix      = "Profile_"
	actionKey          = "Action"
)

/*
INI stores the configuration in the layout:
```ini
[Application]
ShowWindowOnStartup = true
CycleProfiles       = false
CurrentProfile      = Default
AutorunAtStartup    = false

[Profile_Default]
Action1 = notepad
...
```
Profile sections are written in table order.
*/
type INI struct {
	path  string
	slots int
}

func NewINI(path string) *INI {
	return &INI{path: path, slots: entity.DefaultActionSlots}
}

// WithSlots sets how many ActionN keys are read per profile. Keys beyond it
// are still read when present.
func (s *INI) WithSlots(slots int) *INI {
	if slots > 0 {
		s.slots = slots
	}
	return s
}

func (s *INI) Load() (entity.Configuration, error) {
	conf := emptyConfiguration()

	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		zap.S().Infow("configuration file not found", "path", s.path)
		return conf, nil
	}

	file, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, s.path)
	if err != nil {
		return conf, fmt.Errorf("failed to read '%s': %w", s.path, err)
	}

	app := file.Section(applicationSection)
	conf.Settings.ShowWindowOnStartup = app.Key("ShowWindowOnStartup").MustBool(conf.Settings.ShowWindowOnStartup)
	conf.Settings.CycleProfiles = app.Key("CycleProfiles").MustBool(conf.Settings.CycleProfiles)
	conf.Settings.CurrentProfile = app.Key("CurrentProfile").MustString(conf.Settings.CurrentProfile)
	conf.Settings.AutorunAtStartup = app.Key("AutorunAtStartup").MustBool(conf.Settings.AutorunAtStartup)

	for _, section := range file.Sections() {
		if !strings.HasPrefix(section.Name(), profilePrefix) {
			continue
		}

		p := entity.NewProfile(strings.TrimPrefix(section.Name(), profilePrefix), actionCount(section, s.slots))
		for i := range p.Actions {
			p.Actions[i] = section.Key(fmt.Sprintf("%s%d", actionKey, i+1)).String()
		}
		conf.Profiles = append(conf.Profiles, p)
	}

	zap.S().Debugw("configuration loaded", "path", s.path, "profiles", len(conf.Profiles))
	return conf, nil
}

// actionCount is the highest ActionN key in section, at least slots.
func actionCount(section *ini.Section, slots int) int {
	count := slots
	for _, key := range section.Keys() {
		if !strings.HasPrefix(key.Name(), actionKey) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(key.Name(), actionKey))
		if err != nil {
			continue
		}
		if n > count {
			count = n
		}
	}
	return count
}

func (s *INI) Save(conf entity.Configuration) error {
	file := ini.Empty()

	app, err := file.NewSection(applicationSection)
	if err != nil {
		return err
	}

	values := []struct {
		key   string
		value string
	}{
		{"ShowWindowOnStartup", fmt.Sprintf("%t", conf.Settings.ShowWindowOnStartup)},
		{"CycleProfiles", fmt.Sprintf("%t", conf.Settings.CycleProfiles)},
		{"CurrentProfile", conf.Settings.CurrentProfile},
		{"AutorunAtStartup", fmt.Sprintf("%t", conf.Settings.AutorunAtStartup)},
	}
	for _, v := range values {
		if _, err := app.NewKey(v.key, v.value); err != nil {
			return err
		}
	}

	for _, p := range conf.Profiles {
		section, err := file.NewSection(profilePrefix + p.Name)
		if err != nil {
			return fmt.Errorf("profile '%s': %w", p.Name, err)
		}
		for i, action := range p.Actions {
			if _, err := section.NewKey(fmt.Sprintf("%s%d", actionKey, i+1), action); err != nil {
				return fmt.Errorf("profile '%s': %w", p.Name, err)
			}
		}
	}

	if err := file.SaveTo(s.path); err != nil {
		return fmt.Errorf("failed to write '%s': %w", s.path, err)
	}

	zap.S().Debugw("configuration saved", "path", s.path, "profiles", len(conf.Profiles))
	return nil
}
