package theme

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"
)

// fileTheme is the YAML schema for one user-provided theme.
type fileTheme struct {
	ID          string            `yaml:"id"`
	DisplayName string            `yaml:"displayName"`
	ClassName   string            `yaml:"className"`
	Variables   map[string]string `yaml:"variables"`
}

// LoadFile registers every theme defined in a YAML theme file. The file holds
// a top-level `themes` list. Malformed entries abort the load so a typo does
// not half-apply a theme pack.
func (r *Registry) LoadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read theme file: %w", err)
	}
	var doc struct {
		Themes []fileTheme `yaml:"themes"`
	}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("parse theme file %s: %w", path, err)
	}
	for _, ft := range doc.Themes {
		def := Definition{
			ID:           ft.ID,
			DisplayName:  ft.DisplayName,
			ClassName:    ft.ClassName,
			CSSVariables: ft.Variables,
		}
		if err := r.Register(def); err != nil {
			return fmt.Errorf("theme file %s: %w", path, err)
		}
	}
	return nil
}
