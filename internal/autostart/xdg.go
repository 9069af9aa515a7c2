package autostart

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const entryName = "buttonpad.desktop"

var ErrNoExecutable = errors.New("autostart: executable path is empty")

// XDG manages a desktop entry in $XDG_CONFIG_HOME/autostart.
type XDG struct {
	dir  string
	exec string
}

// NewXDG uses the user config dir and the running executable.
func NewXDG() (*XDG, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}

	executable, err := os.Executable()
	if err != nil {
		return nil, err
	}

	return NewXDGAt(filepath.Join(configDir, "autostart"), executable), nil
}

func NewXDGAt(dir, executable string) *XDG {
	return &XDG{dir: dir, exec: executable}
}

func (x *XDG) Path() string {
	return filepath.Join(x.dir, entryName)
}

func (x *XDG) Set(enabled bool) error {
	if enabled {
		return x.Enable()
	}
	return x.Disable()
}

func (x *XDG) Enable() error {
	if strings.TrimSpace(x.exec) == "" {
		return ErrNoExecutable
	}

	if err := os.MkdirAll(x.dir, 0755); err != nil {
		return fmt.Errorf("failed to create '%s': %w", x.dir, err)
	}

	if err := os.WriteFile(x.Path(), []byte(x.entry()), 0644); err != nil {
		return fmt.Errorf("failed to write autostart entry: %w", err)
	}

	zap.S().Infow("autostart enabled", "path", x.Path())
	return nil
}

// Disable removes the entry. A missing entry is not an error.
func (x *XDG) Disable() error {
	err := os.Remove(x.Path())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove autostart entry: %w", err)
	}

	zap.S().Infow("autostart disabled", "path", x.Path())
	return nil
}

func (x *XDG) Enabled() bool {
	_, err := os.Stat(x.Path())
	return err == nil
}

func (x *XDG) entry() string {
	return strings.Join([]string{
		"[Desktop Entry]",
		"Type=Application",
		"Name=ButtonPad",
		"Comment=Serial button pad bridge",
		fmt.Sprintf("Exec=%q", x.exec),
		"X-GNOME-Autostart-enabled=true",
		"",
	}, "\n")
}
