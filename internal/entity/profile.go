package entity

import "strings"

// DefaultActionSlots is the number of action slots of the reference panel.
const DefaultActionSlots = 5

/* Profile is a named set of commands, one per button slot:
```ini
[Profile_Default]
Action1=notepad
Action2=wordpad
```
Slot k holds the command launched when button k is pressed.
*/
type Profile struct {
	// Name is the unique key of the profile
	Name string `json:"name" yaml:"name"`
	// Actions holds one command line per slot. Index 0 is button 1.
	Actions []string `json:"actions" yaml:"actions"`
}

// NewProfile returns a profile with slots empty actions.
func NewProfile(name string, slots int) Profile {
	return Profile{
		Name:    name,
		Actions: make([]string, slots),
	}
}

// Action returns the command of the 1-indexed slot.
func (p Profile) Action(slot int) (string, bool) {
	if slot < 1 || slot > len(p.Actions) {
		return "", false
	}
	return p.Actions[slot-1], true
}

// Clone returns a deep copy of the profile under a new name.
func (p Profile) Clone(name string) Profile {
	actions := make([]string, len(p.Actions))
	copy(actions, p.Actions)
	return Profile{Name: name, Actions: actions}
}

func (p Profile) String() string {
	return p.Name + "[" + strings.Join(p.Actions, ", ") + "]"
}

// DefaultProfile is created when no profile could be loaded.
func DefaultProfile() Profile {
	return Profile{
		Name:    "Default",
		Actions: []string{"notepad", "wordpad", "calc", "explorer", "control"},
	}
}
