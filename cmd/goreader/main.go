package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"

	"github.com/hyperifyio/goreader/internal/configstore"
	"github.com/hyperifyio/goreader/internal/export"
	"github.com/hyperifyio/goreader/internal/readability"
	"github.com/hyperifyio/goreader/internal/render"
	"github.com/hyperifyio/goreader/internal/report"
	"github.com/hyperifyio/goreader/internal/session"
	"github.com/hyperifyio/goreader/internal/style"
	"github.com/hyperifyio/goreader/internal/summarize"
	"github.com/hyperifyio/goreader/internal/theme"
)

// runConfig holds the resolved one-shot configuration after flags, env and
// the optional config file have been merged.
type runConfig struct {
	InputPath  string
	OutputPath string
	PrefsDir   string

	Theme      string
	FontSize   string
	FontSizePx float64
	FontFamily string

	ThemesFile string
	ListThemes bool
	ResetStyle bool

	Summary      bool
	SummaryBase  string
	SummaryModel string
	SummaryKey   string
	Language     string

	PDFOut string
}

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		cfg        runConfig
		configPath string
		verbose    bool
	)

	flag.StringVar(&cfg.InputPath, "input", "", "Path to the HTML document to read (default stdin)")
	flag.StringVar(&cfg.OutputPath, "output", "", "Path to write the reader-mode document (default stdout)")
	flag.StringVar(&configPath, "config", os.Getenv("GOREADER_CONFIG"), "Path to optional YAML config file")
	flag.StringVar(&cfg.PrefsDir, "prefs.dir", os.Getenv("GOREADER_PREFS_DIR"), "Directory for persisted presentation preferences")
	flag.StringVar(&cfg.Theme, "theme", "", "Theme id to apply and persist (light, dark, sepia, or registered)")
	flag.StringVar(&cfg.FontSize, "font.size", "", "Font size category (small, medium, large)")
	flag.Float64Var(&cfg.FontSizePx, "font.sizePx", 0, "Custom base font size in pixels; overrides the category")
	flag.StringVar(&cfg.FontFamily, "font.family", "", "Font family category (sans-serif, serif, monospace)")
	flag.StringVar(&cfg.ThemesFile, "themes.file", "", "YAML file with extra theme definitions to register")
	flag.BoolVar(&cfg.ListThemes, "themes.list", false, "List registered themes and exit")
	flag.BoolVar(&cfg.ResetStyle, "style.reset", false, "Restore factory presentation defaults and exit")
	flag.BoolVar(&cfg.Summary, "summary", false, "Prepend a model-generated summary to the reader view")
	flag.StringVar(&cfg.SummaryBase, "summary.base", os.Getenv("LLM_BASE_URL"), "OpenAI-compatible base URL for summaries")
	flag.StringVar(&cfg.SummaryModel, "summary.model", os.Getenv("LLM_MODEL"), "Model name for summaries")
	flag.StringVar(&cfg.SummaryKey, "summary.key", os.Getenv("LLM_API_KEY"), "API key for the summary backend")
	flag.StringVar(&cfg.Language, "lang", "", "Optional language hint for the summary, e.g. 'en' or 'fi'")
	flag.StringVar(&cfg.PDFOut, "pdf.out", "", "Also export the extracted article as PDF to this path")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	// File config fills in whatever flags the user did not set explicitly.
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if configPath != "" {
		fc, err := loadFileConfig(configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("config file")
		}
		applyUnset := func(name string, dst *string, val string) {
			if !set[name] && val != "" {
				*dst = val
			}
		}
		applyUnset("input", &cfg.InputPath, fc.Input)
		applyUnset("output", &cfg.OutputPath, fc.Output)
		applyUnset("prefs.dir", &cfg.PrefsDir, fc.PrefsDir)
		applyUnset("theme", &cfg.Theme, fc.Style.Theme)
		applyUnset("font.size", &cfg.FontSize, fc.Style.FontSize)
		applyUnset("font.family", &cfg.FontFamily, fc.Style.FontFamily)
		applyUnset("themes.file", &cfg.ThemesFile, fc.Themes.File)
		applyUnset("summary.base", &cfg.SummaryBase, fc.Summary.Base)
		applyUnset("summary.model", &cfg.SummaryModel, fc.Summary.Model)
		applyUnset("summary.key", &cfg.SummaryKey, fc.Summary.Key)
		applyUnset("lang", &cfg.Language, fc.Summary.Language)
		applyUnset("pdf.out", &cfg.PDFOut, fc.PDF.Out)
		if !set["font.sizePx"] && fc.Style.FontSizePx > 0 {
			cfg.FontSizePx = fc.Style.FontSizePx
		}
		if !set["summary"] && fc.Summary.Enable {
			cfg.Summary = true
		}
		if !set["v"] && fc.Verbose {
			verbose = true
		}
	}

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("goreader failed")
	}
}

func run(cfg runConfig) error {
	ctx := context.Background()
	reporter := report.New(log.Logger)

	if cfg.PrefsDir == "" {
		if base, err := os.UserConfigDir(); err == nil {
			cfg.PrefsDir = filepath.Join(base, "goreader")
		} else {
			cfg.PrefsDir = ".goreader"
		}
	}
	prefs := configstore.New(&configstore.FileMedium{Dir: cfg.PrefsDir}, reporter)

	registry := theme.NewRegistry()
	if cfg.ThemesFile != "" {
		if err := registry.LoadFile(cfg.ThemesFile); err != nil {
			return err
		}
	}
	if cfg.ListThemes {
		for _, def := range registry.Available() {
			fmt.Printf("%-12s %s\n", def.ID, def.DisplayName)
		}
		return nil
	}

	styles := style.NewController(registry, prefs)
	if cfg.ResetStyle {
		if err := styles.Reset(ctx); err != nil {
			return err
		}
		log.Info().Msg("presentation preferences reset")
		return nil
	}
	if styles.Load(ctx) {
		log.Debug().Str("theme", styles.Config().ThemeID).Msg("loaded persisted preferences")
	}

	changed := false
	if cfg.Theme != "" {
		if err := styles.SetTheme(cfg.Theme); err != nil {
			var nf *style.ThemeNotFoundError
			if errors.As(err, &nf) {
				return fmt.Errorf("unknown theme id %q", cfg.Theme)
			}
			return err
		}
		changed = true
	}
	if cfg.FontSize != "" {
		styles.SetFontSizeCategory(cfg.FontSize)
		changed = true
	}
	if cfg.FontSizePx > 0 {
		styles.SetCustomFontSizePx(cfg.FontSizePx)
		changed = true
	}
	if cfg.FontFamily != "" {
		styles.SetFontFamilyCategory(cfg.FontFamily)
		changed = true
	}
	if changed {
		if err := styles.Save(ctx); err != nil {
			log.Warn().Err(err).Msg("preferences not saved")
		}
	}

	doc, err := readDocument(cfg.InputPath)
	if err != nil {
		return fmt.Errorf("read input document: %w", err)
	}

	extractor := readability.Extractor{}
	renderer := &render.Renderer{}

	// The summary and the PDF need the article before the view mounts.
	// Extraction is deterministic and cheap, so running it here and again
	// inside Activate keeps the coordinator interface narrow.
	if cfg.Summary || cfg.PDFOut != "" {
		article, err := extractor.Extract(ctx, doc)
		if err != nil {
			return fmt.Errorf("extract article: %w", err)
		}
		if article == nil {
			return errors.New("no readable content in document")
		}
		if cfg.Summary {
			s := &summarize.Summarizer{
				Client:       summarize.NewOpenAIClient(cfg.SummaryBase, cfg.SummaryKey),
				Model:        cfg.SummaryModel,
				LanguageHint: cfg.Language,
			}
			lede, err := s.Summarize(ctx, article)
			if err != nil {
				log.Warn().Err(err).Msg("summary unavailable; continuing without one")
			} else {
				renderer.Lede = lede
			}
		}
		if cfg.PDFOut != "" {
			if err := export.WritePDF(article, cfg.PDFOut); err != nil {
				return fmt.Errorf("write PDF: %w", err)
			}
			log.Info().Str("path", cfg.PDFOut).Msg("PDF written")
		}
	}

	// The session flag has its own ephemeral lifecycle; keep it off disk.
	ephemeral := configstore.New(configstore.NewMemoryMedium(), reporter)

	coordinator := session.New(session.Options{
		Extractor: extractor,
		Renderer:  renderer,
		Styles:    styles,
		Store:     ephemeral,
		Reporter:  reporter,
	})
	if !coordinator.Activate(ctx, doc) {
		return errors.New("reader mode could not activate for this document")
	}

	if err := writeDocument(doc, cfg.OutputPath); err != nil {
		return fmt.Errorf("write output document: %w", err)
	}
	return nil
}

func readDocument(path string) (*html.Node, error) {
	var r io.Reader = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	return html.Parse(r)
}

func writeDocument(doc *html.Node, path string) error {
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return html.Render(w, doc)
}
