package main

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"
)

// fileConfig is the optional single-file configuration schema. Flags take
// precedence over file values, file values over built-in defaults.
type fileConfig struct {
	Input    string `yaml:"input"`
	Output   string `yaml:"output"`
	PrefsDir string `yaml:"prefsDir"`

	Style struct {
		Theme      string  `yaml:"theme"`
		FontSize   string  `yaml:"fontSize"`
		FontSizePx float64 `yaml:"fontSizePx"`
		FontFamily string  `yaml:"fontFamily"`
	} `yaml:"style"`

	Themes struct {
		File string `yaml:"file"`
	} `yaml:"themes"`

	Summary struct {
		Enable   bool   `yaml:"enable"`
		Base     string `yaml:"base"`
		Model    string `yaml:"model"`
		Key      string `yaml:"key"`
		Language string `yaml:"language"`
	} `yaml:"summary"`

	PDF struct {
		Out string `yaml:"out"`
	} `yaml:"pdf"`

	Verbose bool `yaml:"verbose"`
}

func loadFileConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
