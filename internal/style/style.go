// Package style owns the active presentation configuration for the reader
// view: which theme is applied, which font category or explicit pixel size is
// in effect, and how those turn into concrete values on a DOM element.
package style

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/net/html"

	"github.com/hyperifyio/goreader/internal/configstore"
	"github.com/hyperifyio/goreader/internal/dom"
	"github.com/hyperifyio/goreader/internal/theme"
)

// ThemeNotFoundError reports an attempt to select a theme id the registry
// does not know. This is a programmer or configuration error, not an
// environment failure, so it is returned rather than absorbed.
type ThemeNotFoundError struct {
	ID string
}

func (e *ThemeNotFoundError) Error() string {
	return fmt.Sprintf("theme %q not registered", e.ID)
}

// Config is the user's presentation configuration. Mutate only through
// Controller setters so persistence and invariants stay consistent.
type Config struct {
	ThemeID            string
	FontSizeCategory   string
	FontFamilyCategory string
	// CustomFontSizePx overrides the category-derived base size when set.
	CustomFontSizePx *float64
}

// DerivedSizes are the concrete pixel sizes computed from a base font size.
type DerivedSizes struct {
	Title   float64
	Heading float64
	Control float64
}

// Font size categories and their base pixel sizes.
var fontSizePx = map[string]float64{
	"small":  14,
	"medium": 16,
	"large":  20,
}

// Font family categories and their concrete stacks.
var fontFamilies = map[string]string{
	"sans-serif": `system-ui, -apple-system, "Segoe UI", sans-serif`,
	"serif":      `Georgia, "Times New Roman", serif`,
	"monospace":  `"SF Mono", Consolas, monospace`,
}

// Custom properties the controller writes onto the target element.
const (
	varFontFamily  = "--goreader-font-family"
	varFontSize    = "--goreader-font-size"
	varTitleSize   = "--goreader-title-size"
	varHeadingSize = "--goreader-heading-size"
	varControlSize = "--goreader-control-size"
)

// ConfigDescriptor identifies the durable style record.
var ConfigDescriptor = configstore.Descriptor{
	Key:  "style",
	Area: "local",
	Default: configstore.Record{
		"themeId":            "light",
		"fontSizeCategory":   "medium",
		"fontFamilyCategory": "sans-serif",
	},
}

func defaults() Config {
	return Config{
		ThemeID:            "light",
		FontSizeCategory:   "medium",
		FontFamilyCategory: "sans-serif",
	}
}

// Controller derives and applies presentation values. It looks themes up in
// the registry and persists its configuration through the config store.
type Controller struct {
	registry *theme.Registry
	store    *configstore.Store
	cfg      Config
}

// NewController creates a controller at factory defaults.
func NewController(registry *theme.Registry, store *configstore.Store) *Controller {
	return &Controller{registry: registry, store: store, cfg: defaults()}
}

// Config returns a copy of the current configuration.
func (c *Controller) Config() Config {
	return c.cfg
}

// SetTheme selects a theme by id. The configuration is left untouched when
// the id is unknown.
func (c *Controller) SetTheme(id string) error {
	if c.registry.Get(id) == nil {
		return &ThemeNotFoundError{ID: id}
	}
	c.cfg.ThemeID = id
	return nil
}

// SetFontSizeCategory selects a size category and clears any custom pixel
// override.
func (c *Controller) SetFontSizeCategory(category string) {
	c.cfg.FontSizeCategory = category
	c.cfg.CustomFontSizePx = nil
}

// SetCustomFontSizePx sets an explicit base size independent of the category.
func (c *Controller) SetCustomFontSizePx(px float64) {
	c.cfg.CustomFontSizePx = &px
}

// SetFontFamilyCategory selects a font family category.
func (c *Controller) SetFontFamilyCategory(category string) {
	c.cfg.FontFamilyCategory = category
}

// BaseFontSizePx returns the effective base size: the custom override when
// active, otherwise the category value, otherwise the medium default.
func (c *Controller) BaseFontSizePx() float64 {
	if c.cfg.CustomFontSizePx != nil {
		return *c.cfg.CustomFontSizePx
	}
	if px, ok := fontSizePx[c.cfg.FontSizeCategory]; ok {
		return px
	}
	return fontSizePx["medium"]
}

// ComputeDerivedSizes derives title, heading and control sizes from a base
// size. Controls never drop below 12px so they stay legible.
func ComputeDerivedSizes(basePx float64) DerivedSizes {
	control := basePx * 0.875
	if control < 12 {
		control = 12
	}
	return DerivedSizes{
		Title:   basePx * 1.5,
		Heading: basePx * 1.125,
		Control: control,
	}
}

// ApplyToElement makes el reflect the current configuration: stale theme
// classes are stripped, the current theme's class and variables are set, and
// font custom properties are written when a custom size is active.
func (c *Controller) ApplyToElement(el *html.Node) {
	for _, class := range c.registry.ClassNames() {
		dom.RemoveClass(el, class)
	}
	if def := c.registry.Get(c.cfg.ThemeID); def != nil {
		dom.AddClass(el, def.ClassName)
		for prop, val := range def.CSSVariables {
			dom.SetStyleProperty(el, prop, val)
		}
	}
	if family, ok := fontFamilies[c.cfg.FontFamilyCategory]; ok {
		dom.SetStyleProperty(el, varFontFamily, family)
	}
	if c.cfg.CustomFontSizePx != nil {
		base := *c.cfg.CustomFontSizePx
		derived := ComputeDerivedSizes(base)
		dom.SetStyleProperty(el, varFontSize, px(base))
		dom.SetStyleProperty(el, varTitleSize, px(derived.Title))
		dom.SetStyleProperty(el, varHeadingSize, px(derived.Heading))
		dom.SetStyleProperty(el, varControlSize, px(derived.Control))
	}
}

// Save persists the current configuration.
func (c *Controller) Save(ctx context.Context) error {
	return c.store.Set(ctx, ConfigDescriptor, c.toRecord())
}

// Load replaces the configuration with the persisted record merged over
// defaults, and reports whether a stored record existed. Read failures have
// already been absorbed into defaults by the store.
func (c *Controller) Load(ctx context.Context) bool {
	rec, found := c.store.Get(ctx, ConfigDescriptor)
	c.cfg = fromRecord(rec)
	return found
}

// Reset restores factory defaults and removes the persisted record.
func (c *Controller) Reset(ctx context.Context) error {
	c.cfg = defaults()
	return c.store.Remove(ctx, ConfigDescriptor)
}

func (c *Controller) toRecord() configstore.Record {
	rec := configstore.Record{
		"themeId":            c.cfg.ThemeID,
		"fontSizeCategory":   c.cfg.FontSizeCategory,
		"fontFamilyCategory": c.cfg.FontFamilyCategory,
	}
	if c.cfg.CustomFontSizePx != nil {
		rec["customFontSizePx"] = *c.cfg.CustomFontSizePx
	}
	return rec
}

func fromRecord(rec configstore.Record) Config {
	cfg := defaults()
	if v, ok := rec["themeId"].(string); ok && v != "" {
		cfg.ThemeID = v
	}
	if v, ok := rec["fontSizeCategory"].(string); ok && v != "" {
		cfg.FontSizeCategory = v
	}
	if v, ok := rec["fontFamilyCategory"].(string); ok && v != "" {
		cfg.FontFamilyCategory = v
	}
	if px, ok := asFloat(rec["customFontSizePx"]); ok {
		cfg.CustomFontSizePx = &px
	}
	return cfg
}

// asFloat tolerates the numeric types YAML decoding can produce.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
