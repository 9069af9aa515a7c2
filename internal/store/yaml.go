package store

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/entity"
)

type document struct {
	Application entity.Settings  `yaml:"application"`
	Profiles    []entity.Profile `yaml:"profiles"`
}

// YAML stores the same block as INI with the profiles as an ordered list.
type YAML struct {
	path string
}

func NewYAML(path string) *YAML {
	return &YAML{path: path}
}

func (s *YAML) Load() (entity.Configuration, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		zap.S().Infow("configuration file not found", "path", s.path)
		return emptyConfiguration(), nil
	}
	if err != nil {
		return emptyConfiguration(), fmt.Errorf("failed to read '%s': %w", s.path, err)
	}

	doc := document{Application: entity.DefaultSettings()}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return emptyConfiguration(), fmt.Errorf("failed to parse '%s': %w", s.path, err)
	}

	return entity.Configuration{Settings: doc.Application, Profiles: doc.Profiles}, nil
}

func (s *YAML) Save(conf entity.Configuration) error {
	data, err := yaml.Marshal(document{Application: conf.Settings, Profiles: conf.Profiles})
	if err != nil {
		return err
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write '%s': %w", s.path, err)
	}
	return nil
}
