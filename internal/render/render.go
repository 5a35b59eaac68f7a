// Package render is the default presentation collaborator. It builds the
// reader view inside the isolation boundary's root: title header, byline,
// optional summary lede, then the article content, all styled through the
// style controller's custom properties.
package render

import (
	"context"
	"errors"

	"golang.org/x/net/html"

	"github.com/hyperifyio/goreader/internal/dom"
	"github.com/hyperifyio/goreader/internal/session"
	"github.com/hyperifyio/goreader/internal/style"
)

// Handle identifies one mounted view.
type Handle struct {
	view  *html.Node
	close func()
}

// Close dismisses the reader view through the coordinator-bound callback.
func (h *Handle) Close() {
	if h.close != nil {
		h.close()
	}
}

// Renderer implements session.Renderer.
type Renderer struct {
	// Lede, when non-empty, is rendered as a summary paragraph between the
	// header and the article content.
	Lede string
}

// Render mounts the article into the isolated root.
func (r *Renderer) Render(_ context.Context, a *session.Article, root *html.Node, styles *style.Controller, close func()) (session.RenderHandle, error) {
	if root == nil {
		return nil, errors.New("no isolated root to mount into")
	}

	view := dom.NewElement("div")
	dom.AddClass(view, "goreader-view")
	if styles != nil {
		styles.ApplyToElement(view)
	}
	dom.SetStyleProperty(view, "font-family", "var(--goreader-font-family, sans-serif)")
	dom.SetStyleProperty(view, "font-size", "var(--goreader-font-size, 16px)")
	dom.SetStyleProperty(view, "max-width", "42rem")
	dom.SetStyleProperty(view, "margin", "0 auto")
	dom.SetStyleProperty(view, "padding", "2rem 1rem")

	header := dom.NewElement("header")
	button := dom.NewElement("button")
	dom.AddClass(button, "goreader-close")
	dom.SetAttr(button, "aria-label", "Close reader view")
	dom.SetStyleProperty(button, "font-size", "var(--goreader-control-size, 14px)")
	button.AppendChild(dom.NewText("×"))
	header.AppendChild(button)

	if a.Title != "" {
		h1 := dom.NewElement("h1")
		dom.SetStyleProperty(h1, "font-size", "var(--goreader-title-size, 24px)")
		h1.AppendChild(dom.NewText(a.Title))
		header.AppendChild(h1)
	}
	if a.Byline != "" || a.SiteName != "" {
		byline := dom.NewElement("p")
		dom.AddClass(byline, "goreader-byline")
		byline.AppendChild(dom.NewText(bylineText(a)))
		header.AppendChild(byline)
	}
	view.AppendChild(header)

	if r.Lede != "" {
		lede := dom.NewElement("p")
		dom.AddClass(lede, "goreader-summary")
		dom.SetStyleProperty(lede, "border-left", "3px solid var(--goreader-border, #ccc)")
		dom.SetStyleProperty(lede, "padding-left", "0.75rem")
		lede.AppendChild(dom.NewText(r.Lede))
		view.AppendChild(lede)
	}

	content := dom.NewElement("div")
	dom.AddClass(content, "goreader-content")
	content.AppendChild(a.Body)
	view.AppendChild(content)

	root.AppendChild(view)
	return &Handle{view: view, close: close}, nil
}

// Unmount removes the view from its root.
func (r *Renderer) Unmount(h session.RenderHandle) error {
	handle, ok := h.(*Handle)
	if !ok || handle == nil {
		return errors.New("unmount: not a render handle")
	}
	dom.ClearChildren(handle.view)
	dom.Detach(handle.view)
	return nil
}

func bylineText(a *session.Article) string {
	switch {
	case a.Byline != "" && a.SiteName != "":
		return a.Byline + " · " + a.SiteName
	case a.Byline != "":
		return a.Byline
	default:
		return a.SiteName
	}
}
