// Package theme provides the pluggable catalog of reader view themes. A theme
// bundles a class name that activates it plus the CSS custom properties it
// sets; the catalog is open for extension so embedders can register their own
// without touching the built-ins.
package theme

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
)

// Definition describes one theme.
type Definition struct {
	ID           string
	DisplayName  string
	ClassName    string
	CSSVariables map[string]string
}

// RegistrationError reports a malformed theme definition.
type RegistrationError struct {
	ID     string
	Reason string
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("register theme %q: %s", e.ID, e.Reason)
}

// Registry holds theme definitions keyed by id.
type Registry struct {
	themes map[string]Definition
}

// NewRegistry creates a registry pre-populated with the built-in light, dark
// and sepia themes.
func NewRegistry() *Registry {
	r := &Registry{themes: make(map[string]Definition)}
	for _, def := range builtins() {
		// Built-ins are well-formed by construction.
		_ = r.Register(def)
	}
	return r
}

// Register validates and adds a definition. Re-registering an existing id
// overwrites the previous definition and logs a warning; last writer wins.
func (r *Registry) Register(def Definition) error {
	switch {
	case def.ID == "":
		return &RegistrationError{ID: def.ID, Reason: "empty id"}
	case def.DisplayName == "":
		return &RegistrationError{ID: def.ID, Reason: "empty display name"}
	case def.ClassName == "":
		return &RegistrationError{ID: def.ID, Reason: "empty class name"}
	case len(def.CSSVariables) == 0:
		return &RegistrationError{ID: def.ID, Reason: "no css variables"}
	}
	if _, exists := r.themes[def.ID]; exists {
		log.Warn().Str("id", def.ID).Msg("overwriting existing theme definition")
	}
	def.CSSVariables = cloneVars(def.CSSVariables)
	r.themes[def.ID] = def
	return nil
}

// Unregister removes a theme by id and reports whether one was removed.
func (r *Registry) Unregister(id string) bool {
	if _, ok := r.themes[id]; !ok {
		return false
	}
	delete(r.themes, id)
	return true
}

// Get returns the definition for id, or nil when unknown. Never errors.
func (r *Registry) Get(id string) *Definition {
	def, ok := r.themes[id]
	if !ok {
		return nil
	}
	def.CSSVariables = cloneVars(def.CSSVariables)
	return &def
}

// Available returns a snapshot of all definitions sorted by id for
// deterministic listings.
func (r *Registry) Available() []Definition {
	ids := make([]string, 0, len(r.themes))
	for id := range r.themes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]Definition, 0, len(ids))
	for _, id := range ids {
		def := r.themes[id]
		def.CSSVariables = cloneVars(def.CSSVariables)
		out = append(out, def)
	}
	return out
}

// ClassNames returns the class names of every registered theme, used to strip
// stale theme classes off an element before applying the current one.
func (r *Registry) ClassNames() []string {
	out := make([]string, 0, len(r.themes))
	for _, def := range r.themes {
		out = append(out, def.ClassName)
	}
	sort.Strings(out)
	return out
}

// Variable names every built-in populates. Custom themes may use any set.
const (
	VarBackground = "--goreader-bg"
	VarText       = "--goreader-text"
	VarLink       = "--goreader-link"
	VarBorder     = "--goreader-border"
)

func builtins() []Definition {
	return []Definition{
		{
			ID:          "light",
			DisplayName: "Light",
			ClassName:   "goreader-theme-light",
			CSSVariables: map[string]string{
				VarBackground: "#ffffff",
				VarText:       "#1a1a1a",
				VarLink:       "#0b57d0",
				VarBorder:     "#d4d4d4",
			},
		},
		{
			ID:          "dark",
			DisplayName: "Dark",
			ClassName:   "goreader-theme-dark",
			CSSVariables: map[string]string{
				VarBackground: "#1e1e1e",
				VarText:       "#e8e8e8",
				VarLink:       "#8ab4f8",
				VarBorder:     "#3c3c3c",
			},
		},
		{
			ID:          "sepia",
			DisplayName: "Sepia",
			ClassName:   "goreader-theme-sepia",
			CSSVariables: map[string]string{
				VarBackground: "#f4ecd8",
				VarText:       "#5b4636",
				VarLink:       "#1e6091",
				VarBorder:     "#dcd3bc",
			},
		},
	}
}

func cloneVars(vars map[string]string) map[string]string {
	out := make(map[string]string, len(vars))
	for k, v := range vars {
		out[k] = v
	}
	return out
}
