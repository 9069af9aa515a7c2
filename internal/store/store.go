package store

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/entity"
)

var ErrNoPath = errors.New("store: path is empty")

// Store reads and writes the whole configuration block.
type Store interface {
	Load() (entity.Configuration, error)
	Save(conf entity.Configuration) error
}

// New picks the format from the file extension. Anything but .yaml or .yml
// is treated as INI. slots is the number of actions per profile.
func New(path string, slots int) (Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrNoPath
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return NewYAML(path), nil
	default:
		return NewINI(path).WithSlots(slots), nil
	}
}

func emptyConfiguration() entity.Configuration {
	return entity.Configuration{Settings: entity.DefaultSettings()}
}
