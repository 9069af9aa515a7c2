package session_test

type fakeDisplay struct {
	slots         map[int]string
	profiles      []string
	current       string
	cycle         bool
	notifications []string
}

func newFakeDisplay() *fakeDisplay {
	return &fakeDisplay{slots: make(map[int]string)}
}

func (f *fakeDisplay) SetSlotText(slot int, text string) {
	f.slots[slot] = text
}

func (f *fakeDisplay) SetProfiles(names []string) {
	f.profiles = append([]string(nil), names...)
}

func (f *fakeDisplay) SetCurrentProfile(name string) {
	f.current = name
}

func (f *fakeDisplay) SetCycleMode(enabled bool) {
	f.cycle = enabled
}

func (f *fakeDisplay) Notify(title, message string) {
	f.notifications = append(f.notifications, message)
}

func (f *fakeDisplay) lastNotification() string {
	if len(f.notifications) == 0 {
		return ""
	}
	return f.notifications[len(f.notifications)-1]
}
