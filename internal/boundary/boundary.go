// Package boundary manages the style-isolated subtree the reader view lives
// in. The container resets all inherited styles and covers the viewport, so
// host CSS cannot leak in and boundary styling cannot leak out. It attaches
// to the document root rather than the body, which lets the host body be
// hidden without hiding the reader.
package boundary

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/hyperifyio/goreader/internal/dom"
)

// BoundaryID is the well-known element id. At most one boundary exists in a
// document at a time, so lookup-and-remove works from any call site.
const BoundaryID = "goreader-boundary"

// containerStyle walls the subtree off: full style reset, fixed full-viewport
// positioning on top of everything the host can reasonably stack.
const containerStyle = "all: initial; position: fixed; top: 0; left: 0; right: 0; bottom: 0; " +
	"z-index: 2147483647; overflow: auto; display: block; " +
	"background: var(--goreader-bg, #ffffff); color: var(--goreader-text, #1a1a1a)"

// IsolationError reports a boundary operation on an unusable document.
type IsolationError struct {
	Op     string
	Reason string
}

func (e *IsolationError) Error() string {
	return fmt.Sprintf("isolation %s: %s", e.Op, e.Reason)
}

// Handle exposes the isolated root for mounting content.
type Handle struct {
	Container *html.Node
	Root      *html.Node
}

// Manager creates, attaches and removes isolation boundaries.
type Manager struct{}

// NewManager returns a boundary manager.
func NewManager() *Manager {
	return &Manager{}
}

// Create builds the container and its isolated root without attaching them.
// Fails when the document has no root element to attach to later.
func (m *Manager) Create(doc *html.Node) (*Handle, error) {
	if dom.RootElement(doc) == nil {
		return nil, &IsolationError{Op: "create", Reason: "document has no attachable root"}
	}
	container := dom.NewElement("div")
	dom.SetAttr(container, "id", BoundaryID)
	dom.SetAttr(container, "style", containerStyle)

	root := dom.NewElement("div")
	dom.AddClass(root, "goreader-root")
	container.AppendChild(root)

	return &Handle{Container: container, Root: root}, nil
}

// Attach appends the container to the document root.
func (m *Manager) Attach(h *Handle, doc *html.Node) error {
	root := dom.RootElement(doc)
	if root == nil {
		return &IsolationError{Op: "attach", Reason: "document has no attachable root"}
	}
	root.AppendChild(h.Container)
	return nil
}

// Detach locates the boundary by its well-known id, clears the isolated
// root's content and removes the container. Idempotent: reports whether a
// boundary was removed.
func (m *Manager) Detach(doc *html.Node) bool {
	container := dom.FindByID(doc, BoundaryID)
	if container == nil {
		return false
	}
	for c := container.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && dom.HasClass(c, "goreader-root") {
			dom.ClearChildren(c)
		}
	}
	dom.Detach(container)
	return true
}

// HideHostContent sets display:none on the host body and returns the previous
// inline display value so it can be restored exactly.
func (m *Manager) HideHostContent(doc *html.Node) (string, error) {
	body := dom.Body(doc)
	if body == nil {
		return "", &IsolationError{Op: "hide", Reason: "document has no body"}
	}
	prev, _ := dom.StyleProperty(body, "display")
	dom.SetStyleProperty(body, "display", "none")
	return prev, nil
}

// RestoreHostContent puts the host body's inline display value back. An empty
// previous value removes the declaration entirely.
func (m *Manager) RestoreHostContent(doc *html.Node, previous string) error {
	body := dom.Body(doc)
	if body == nil {
		return &IsolationError{Op: "restore", Reason: "document has no body"}
	}
	if previous == "" {
		dom.RemoveStyleProperty(body, "display")
		return nil
	}
	dom.SetStyleProperty(body, "display", previous)
	return nil
}
