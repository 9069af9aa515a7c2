package display

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/containers"
	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/entity"
)

const DefaultNotifications = 20

type Notification struct {
	Title   string    `json:"title"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Status is what a front end needs to draw the panel.
type Status struct {
	Slots          []Slot         `json:"slots"`
	CurrentProfile string         `json:"current_profile"`
	Profiles       []string       `json:"profiles"`
	CycleMode      bool           `json:"cycle_mode"`
	PortStatus     string         `json:"port_status"`
	Notifications  []Notification `json:"notifications"`
}

type Slot struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// View is the in-memory display. It is written by the session goroutine and
// the serial link, and read by the control API.
type View struct {
	lock          sync.RWMutex
	cycleButton   int
	slots         []string
	current       string
	profiles      []string
	cycleMode     bool
	portStatus    string
	notifications *containers.Queue[Notification]
	now           func() time.Time
}

func New(slots int, cycleButton entity.ButtonID) *View {
	if slots <= 0 {
		slots = entity.DefaultActionSlots
	}
	return &View{
		cycleButton:   int(cycleButton),
		slots:         make([]string, slots),
		notifications: containers.NewBoundedQueue[Notification](DefaultNotifications),
		now:           time.Now,
	}
}

func (v *View) SetSlotText(slot int, text string) {
	v.lock.Lock()
	defer v.lock.Unlock()

	if slot < 1 || slot > len(v.slots) {
		zap.S().Debugw("slot out of range", "slot", slot)
		return
	}
	v.slots[slot-1] = text
}

func (v *View) SetProfiles(names []string) {
	v.lock.Lock()
	defer v.lock.Unlock()
	v.profiles = append([]string(nil), names...)
}

func (v *View) SetCurrentProfile(name string) {
	v.lock.Lock()
	defer v.lock.Unlock()
	v.current = name
}

func (v *View) SetCycleMode(enabled bool) {
	v.lock.Lock()
	defer v.lock.Unlock()
	v.cycleMode = enabled
}

func (v *View) SetPortStatus(status string) {
	v.lock.Lock()
	defer v.lock.Unlock()
	v.portStatus = status
	zap.S().Infow("port status changed", "status", status)
}

func (v *View) Notify(title, message string) {
	v.lock.Lock()
	defer v.lock.Unlock()

	v.notifications.Push(Notification{Title: title, Message: message, At: v.now()})
	zap.S().Infow("notification", "title", title, "message", message)
}

// SlotLabel is the caption of a slot. The cycle button reads inactive while
// profile cycling is on since its action is never launched.
func (v *View) SlotLabel(slot int) string {
	v.lock.RLock()
	defer v.lock.RUnlock()
	return v.slotLabel(slot)
}

func (v *View) slotLabel(slot int) string {
	if slot == v.cycleButton && v.cycleMode {
		return fmt.Sprintf("Button %d (inactive):", slot)
	}
	return fmt.Sprintf("Button %d:", slot)
}

func (v *View) Status() Status {
	v.lock.RLock()
	defer v.lock.RUnlock()

	slots := make([]Slot, 0, len(v.slots))
	for i, text := range v.slots {
		slots = append(slots, Slot{Label: v.slotLabel(i + 1), Text: text})
	}

	return Status{
		Slots:          slots,
		CurrentProfile: v.current,
		Profiles:       append([]string{}, v.profiles...),
		CycleMode:      v.cycleMode,
		PortStatus:     v.portStatus,
		Notifications:  v.notifications.Items(),
	}
}
