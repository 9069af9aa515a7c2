package entity

import "encoding/json"

// Settings holds the application flags persisted next to the profiles.
type Settings struct {
	ShowWindowOnStartup bool   `json:"show_window_on_startup" yaml:"show_window_on_startup"`
	CycleProfiles       bool   `json:"cycle_profiles" yaml:"cycle_profiles"`
	CurrentProfile      string `json:"current_profile" yaml:"current_profile"`
	AutorunAtStartup    bool   `json:"autorun_at_startup" yaml:"autorun_at_startup"`
}

func DefaultSettings() Settings {
	return Settings{
		ShowWindowOnStartup: true,
		CycleProfiles:       false,
		CurrentProfile:      DefaultProfile().Name,
		AutorunAtStartup:    false,
	}
}

// Configuration is the whole block read at startup and written back on every mutation.
type Configuration struct {
	Settings Settings
	// Profiles are kept in cycling order.
	Profiles []Profile
}

func (c Configuration) String() string {
	json, err := json.Marshal(c)
	if err != nil {
		return err.Error()
	}

	return string(json)
}
