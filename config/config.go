// Package config loads an optional YAML connection-profile file so the CLI
// does not require every DSN part on the command line on every run.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// ConnectionProfile names one saved Oracle connection.
type ConnectionProfile struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	Service string `yaml:"service"`
	User    string `yaml:"user"`
}

// Profile is the top-level shape of a tablecompare config file: a set of
// named connection profiles plus defaults applied when a CLI flag is absent.
type Profile struct {
	Connections   map[string]ConnectionProfile `yaml:"connections"`
	DefaultKey    []string                     `yaml:"default_key"`
	DefaultFields []string                     `yaml:"default_fields"`
}

// Load reads and parses a YAML profile file at path. A missing file is not
// an error; it returns an empty Profile so the CLI falls back entirely to
// its flags.
func Load(path string) (Profile, error) {
	if path == "" {
		return Profile{}, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Profile{}, nil
	}
	if err != nil {
		return Profile{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return p, nil
}
