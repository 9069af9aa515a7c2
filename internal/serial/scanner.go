package serial

import (
	"errors"
	"path/filepath"
	"sort"
	"strings"
)

var ErrNoPort = errors.New("no serial port found")

// DefaultPatterns are the device paths scanned for the panel. by-id names
// carry the USB vendor and product, e.g. usb-1a86_USB_Serial-if00-port0.
var DefaultPatterns = []string{
	"/dev/serial/by-id/*",
	"/dev/ttyUSB*",
	"/dev/ttyACM*",
}

type Scanner struct {
	patterns []string
	glob     func(pattern string) ([]string, error)
}

func NewScanner(patterns ...string) *Scanner {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	return &Scanner{patterns: patterns, glob: filepath.Glob}
}

// Candidates lists the matching device paths, pattern by pattern.
func (s *Scanner) Candidates() []string {
	seen := make(map[string]struct{})
	candidates := []string{}

	for _, pattern := range s.patterns {
		matches, err := s.glob(pattern)
		if err != nil {
			continue
		}
		sort.Strings(matches)
		for _, m := range matches {
			if _, found := seen[m]; found {
				continue
			}
			seen[m] = struct{}{}
			candidates = append(candidates, m)
		}
	}

	return candidates
}

// Find returns the first candidate whose path contains match, ignoring case.
// An empty match takes the first candidate.
func (s *Scanner) Find(match string) (string, error) {
	match = strings.ToLower(match)
	for _, c := range s.Candidates() {
		if strings.Contains(strings.ToLower(c), match) {
			return c, nil
		}
	}
	return "", ErrNoPort
}
