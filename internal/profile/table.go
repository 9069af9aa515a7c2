package profile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/entity"
)

var (
	ErrEmptyName     = errors.New("profile name is empty")
	ErrDuplicateName = errors.New("profile already exists")
	ErrNotFound      = errors.New("profile not found")
	ErrLastProfile   = errors.New("cannot delete the last profile")
	ErrActionCount   = errors.New("wrong number of actions")
	ErrEmptyTable    = errors.New("no profiles")
)

// Table is the ordered set of profiles. The order is the cycling order and the
// order in which profiles are persisted.
//
// Table is a value: every operation returns a new table and leaves the
// receiver untouched.
type Table struct {
	profiles []entity.Profile
	slots    int
}

// NewTable builds a table from loaded profiles. Profiles with an empty or
// repeated name are skipped, the first occurrence wins. Action lists are
// padded or cut to slots.
func NewTable(slots int, profiles ...entity.Profile) Table {
	t := Table{slots: slots}
	seen := make(map[string]struct{}, len(profiles))
	for _, p := range profiles {
		if strings.TrimSpace(p.Name) == "" {
			continue
		}
		if _, found := seen[p.Name]; found {
			continue
		}
		seen[p.Name] = struct{}{}
		t.profiles = append(t.profiles, fit(p, slots))
	}
	return t
}

func (t Table) Len() int {
	return len(t.profiles)
}

func (t Table) Slots() int {
	return t.slots
}

// Names returns the profile names in table order.
func (t Table) Names() []string {
	names := make([]string, 0, len(t.profiles))
	for _, p := range t.profiles {
		names = append(names, p.Name)
	}
	return names
}

// List returns a copy of every profile in table order.
func (t Table) List() []entity.Profile {
	list := make([]entity.Profile, 0, len(t.profiles))
	for _, p := range t.profiles {
		list = append(list, p.Clone(p.Name))
	}
	return list
}

// Index returns the position of name or -1.
func (t Table) Index(name string) int {
	for i, p := range t.profiles {
		if p.Name == name {
			return i
		}
	}
	return -1
}

func (t Table) Has(name string) bool {
	return t.Index(name) >= 0
}

func (t Table) Get(name string) (entity.Profile, error) {
	i := t.Index(name)
	if i < 0 {
		return entity.Profile{}, fmt.Errorf("%w: '%s'", ErrNotFound, name)
	}
	return t.profiles[i].Clone(name), nil
}

// First returns the name of the first profile.
func (t Table) First() (string, error) {
	if len(t.profiles) == 0 {
		return "", ErrEmptyTable
	}
	return t.profiles[0].Name, nil
}

// Next returns the profile after name, wrapping to the first one.
// An unknown name yields the first profile.
func (t Table) Next(name string) (string, error) {
	if len(t.profiles) == 0 {
		return "", ErrEmptyTable
	}
	i := t.Index(name)
	return t.profiles[(i+1)%len(t.profiles)].Name, nil
}

// Create appends a profile with empty actions.
func (t Table) Create(name string) (Table, error) {
	if err := t.checkNewName(name); err != nil {
		return t, err
	}
	n := t.copy()
	n.profiles = append(n.profiles, entity.NewProfile(name, t.slots))
	return n, nil
}

// SetActions replaces the actions of name.
func (t Table) SetActions(name string, actions []string) (Table, error) {
	i := t.Index(name)
	if i < 0 {
		return t, fmt.Errorf("%w: '%s'", ErrNotFound, name)
	}
	if len(actions) != t.slots {
		return t, fmt.Errorf("%w: expected %d, got %d", ErrActionCount, t.slots, len(actions))
	}
	n := t.copy()
	n.profiles[i] = entity.Profile{Name: name, Actions: append([]string(nil), actions...)}
	return n, nil
}

// Rename keeps the profile at its position.
func (t Table) Rename(oldName, newName string) (Table, error) {
	i := t.Index(oldName)
	if i < 0 {
		return t, fmt.Errorf("%w: '%s'", ErrNotFound, oldName)
	}
	if oldName == newName {
		return t, nil
	}
	if err := t.checkNewName(newName); err != nil {
		return t, err
	}
	n := t.copy()
	n.profiles[i] = n.profiles[i].Clone(newName)
	return n, nil
}

// Duplicate appends a copy of src named newName.
func (t Table) Duplicate(src, newName string) (Table, error) {
	i := t.Index(src)
	if i < 0 {
		return t, fmt.Errorf("%w: '%s'", ErrNotFound, src)
	}
	if err := t.checkNewName(newName); err != nil {
		return t, err
	}
	n := t.copy()
	n.profiles = append(n.profiles, t.profiles[i].Clone(newName))
	return n, nil
}

// Delete removes name and returns the profile that takes its place in the
// selection: the following one, or the previous one when name was last.
func (t Table) Delete(name string) (Table, string, error) {
	i := t.Index(name)
	if i < 0 {
		return t, "", fmt.Errorf("%w: '%s'", ErrNotFound, name)
	}
	if len(t.profiles) == 1 {
		return t, "", ErrLastProfile
	}

	n := Table{slots: t.slots, profiles: make([]entity.Profile, 0, len(t.profiles)-1)}
	n.profiles = append(n.profiles, t.profiles[:i]...)
	n.profiles = append(n.profiles, t.profiles[i+1:]...)

	if i >= len(n.profiles) {
		i = len(n.profiles) - 1
	}
	return n, n.profiles[i].Name, nil
}

func (t Table) checkNewName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if t.Has(name) {
		return fmt.Errorf("%w: '%s'", ErrDuplicateName, name)
	}
	return nil
}

func (t Table) copy() Table {
	n := Table{slots: t.slots, profiles: make([]entity.Profile, len(t.profiles))}
	copy(n.profiles, t.profiles)
	return n
}

func fit(p entity.Profile, slots int) entity.Profile {
	actions := make([]string, slots)
	copy(actions, p.Actions)
	return entity.Profile{Name: p.Name, Actions: actions}
}
