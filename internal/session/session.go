// Package session holds the lifecycle coordinator: the state machine that
// turns reader mode on and off for one host document. Activation hides the
// host content, raises an isolation boundary and mounts the presentation
// collaborator inside it; deactivation tears all of that down best-effort.
package session

import (
	"context"
	"fmt"

	"golang.org/x/net/html"

	"github.com/hyperifyio/goreader/internal/boundary"
	"github.com/hyperifyio/goreader/internal/configstore"
	"github.com/hyperifyio/goreader/internal/report"
	"github.com/hyperifyio/goreader/internal/style"
)

// Extractor is the external content-extraction collaborator. A (nil, nil)
// return means the document has nothing readable; that is not an error.
// Output is assumed already sanitized before it reaches the presentation
// layer. No timeout is imposed here; callers who need bounded latency can
// pass a deadline context.
type Extractor interface {
	Extract(ctx context.Context, doc *html.Node) (*Article, error)
}

// RenderHandle is an opaque token the renderer returns from Render and
// accepts in Unmount.
type RenderHandle any

// Renderer is the external presentation collaborator. Render mounts the
// article inside the isolated root; close is bound to the coordinator's
// Deactivate so the view can dismiss itself.
type Renderer interface {
	Render(ctx context.Context, a *Article, root *html.Node, styles *style.Controller, close func()) (RenderHandle, error)
	Unmount(h RenderHandle) error
}

// ExtractionError wraps a failure of the extraction collaborator.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string { return fmt.Sprintf("extraction failed: %v", e.Err) }
func (e *ExtractionError) Unwrap() error { return e.Err }

// RenderError wraps a mount or unmount failure.
type RenderError struct {
	Op  string
	Err error
}

func (e *RenderError) Error() string { return fmt.Sprintf("render %s failed: %v", e.Op, e.Err) }
func (e *RenderError) Unwrap() error { return e.Err }

// Phase is the coordinator's lifecycle state. There are only two; partially
// activated states are never observable because Activate rolls back fully.
type Phase int

const (
	Inactive Phase = iota
	Active
)

// SessionDescriptor identifies the ephemeral session flag. It survives
// navigation within a session but is never meaningful across sessions, so it
// normally lives on a memory-backed medium.
var SessionDescriptor = configstore.Descriptor{
	Key:  "session",
	Area: "session",
	Default: configstore.Record{
		"isActive": false,
	},
}

// sessionState is the transient per-activation state. Created on Activate,
// cleared on Deactivate, never persisted.
type sessionState struct {
	prevDisplay string
	render      RenderHandle
}

// Options wires a coordinator. Extractor and Renderer are required; the rest
// default to sensible zero implementations.
type Options struct {
	Extractor Extractor
	Renderer  Renderer
	Boundary  *boundary.Manager
	Styles    *style.Controller
	// Store, when set, receives the ephemeral session flag after each
	// transition.
	Store    *configstore.Store
	Reporter *report.Reporter
}

// Coordinator is the top-level state machine. Each instance manages one host
// document at a time; callers owning several documents construct several
// coordinators. All methods are meant for a single cooperative caller, which
// is why re-entrancy is serialized by the phase field rather than a lock.
type Coordinator struct {
	extractor Extractor
	renderer  Renderer
	boundary  *boundary.Manager
	styles    *style.Controller
	store     *configstore.Store
	reporter  *report.Reporter

	phase Phase
	state *sessionState
}

// New creates a coordinator in the Inactive phase.
func New(opts Options) *Coordinator {
	if opts.Boundary == nil {
		opts.Boundary = boundary.NewManager()
	}
	if opts.Reporter == nil {
		opts.Reporter = report.Discard()
	}
	return &Coordinator{
		extractor: opts.Extractor,
		renderer:  opts.Renderer,
		boundary:  opts.Boundary,
		styles:    opts.Styles,
		store:     opts.Store,
		reporter:  opts.Reporter,
	}
}

// IsActive reports whether a reader view is currently mounted. Pure query.
func (c *Coordinator) IsActive() bool {
	return c.phase == Active
}

// Activate turns reader mode on for doc. When already active it first runs
// the full deactivation sequence, guaranteeing at most one live boundary per
// document. Returns false without touching doc when extraction yields
// nothing; any failure after the document has been mutated rolls back to the
// untouched state, is reported, and also returns false. Activate never
// returns an error: failure is an outcome here, not an exception.
func (c *Coordinator) Activate(ctx context.Context, doc *html.Node) bool {
	if c.phase == Active {
		c.Deactivate(ctx, doc)
	}

	article, err := c.extractor.Extract(ctx, doc)
	if err != nil {
		c.reporter.Surface("session.extract", &ExtractionError{Err: err}, "Reader mode could not read this page")
		return false
	}
	if article == nil {
		return false
	}

	// All DOM mutation happens below, strictly before any persistence I/O,
	// so observers never see a torn document while a save is outstanding.
	prevDisplay, err := c.boundary.HideHostContent(doc)
	if err != nil {
		c.reporter.Surface("session.hide", err, "Reader mode failed to open")
		return false
	}

	handle, err := c.boundary.Create(doc)
	if err != nil {
		c.rollback(doc, prevDisplay)
		c.reporter.Surface("session.boundary", err, "Reader mode failed to open")
		return false
	}
	if err := c.boundary.Attach(handle, doc); err != nil {
		c.rollback(doc, prevDisplay)
		c.reporter.Surface("session.attach", err, "Reader mode failed to open")
		return false
	}

	renderHandle, err := c.renderer.Render(ctx, article, handle.Root, c.styles, func() {
		c.Deactivate(context.Background(), doc)
	})
	if err != nil {
		c.rollback(doc, prevDisplay)
		c.reporter.Surface("session.mount", &RenderError{Op: "mount", Err: err}, "Reader mode failed to open")
		return false
	}

	c.state = &sessionState{prevDisplay: prevDisplay, render: renderHandle}
	c.phase = Active
	c.persistFlag(ctx, true, article)
	return true
}

// Deactivate turns reader mode off. A no-op when already inactive. Each
// teardown step is best-effort: an unmount failure is logged and the
// remaining steps still run, and the coordinator always ends Inactive.
func (c *Coordinator) Deactivate(ctx context.Context, doc *html.Node) {
	if c.phase == Inactive {
		return
	}
	st := c.state
	// Clear the phase first so a re-entrant call from the close callback or
	// a failing collaborator sees the final state.
	c.phase = Inactive
	c.state = nil

	if st != nil && st.render != nil {
		if err := c.renderer.Unmount(st.render); err != nil {
			c.reporter.Warn("session.unmount", &RenderError{Op: "unmount", Err: err})
		}
	}
	c.boundary.Detach(doc)

	prevDisplay := ""
	if st != nil {
		prevDisplay = st.prevDisplay
	}
	if err := c.boundary.RestoreHostContent(doc, prevDisplay); err != nil {
		c.reporter.Warn("session.restore", err)
	}
	c.persistFlag(ctx, false, nil)
}

// rollback undoes a partial activation: any boundary goes, the host content
// comes back.
func (c *Coordinator) rollback(doc *html.Node, prevDisplay string) {
	c.boundary.Detach(doc)
	if err := c.boundary.RestoreHostContent(doc, prevDisplay); err != nil {
		c.reporter.Warn("session.rollback", err)
	}
}

// persistFlag records the ephemeral session flag. Persistence failures have
// no bearing on the in-memory transition; the store reports them and the
// caller's retry policy does not apply to a fire-and-forget flag.
func (c *Coordinator) persistFlag(ctx context.Context, active bool, article *Article) {
	if c.store == nil {
		return
	}
	rec := configstore.Record{"isActive": active}
	if article != nil {
		if article.URL != "" {
			rec["url"] = article.URL
		}
		if article.Title != "" {
			rec["title"] = article.Title
		}
	}
	_ = c.store.Set(ctx, SessionDescriptor, rec)
}
