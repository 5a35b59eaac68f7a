package boundary

import (
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/hyperifyio/goreader/internal/dom"
)

func parse(t *testing.T, src string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func emptyDoc() *html.Node {
	return &html.Node{Type: html.DocumentNode}
}

func TestCreateAndAttach(t *testing.T) {
	doc := parse(t, `<html><body><p>host</p></body></html>`)
	m := NewManager()

	h, err := m.Create(doc)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dom.FindByID(doc, BoundaryID) != nil {
		t.Fatalf("boundary must not be attached by Create")
	}
	if h.Root == nil || h.Root.Parent != h.Container {
		t.Fatalf("expected isolated root inside container")
	}

	if err := m.Attach(h, doc); err != nil {
		t.Fatalf("attach: %v", err)
	}
	found := dom.FindByID(doc, BoundaryID)
	if found == nil {
		t.Fatalf("boundary not found after attach")
	}
	// Attached to the document root, not the body, so hiding the body does
	// not hide the reader.
	if found.Parent != dom.RootElement(doc) {
		t.Fatalf("boundary should be a child of the root element")
	}
	if v, ok := dom.StyleProperty(found, "all"); !ok || v != "initial" {
		t.Fatalf("expected style reset on container, got %q ok=%v", v, ok)
	}
}

func TestCreateFailsWithoutRoot(t *testing.T) {
	m := NewManager()
	if _, err := m.Create(emptyDoc()); err == nil {
		t.Fatalf("expected IsolationError for rootless document")
	}
}

func TestDetachIsIdempotent(t *testing.T) {
	doc := parse(t, `<html><body></body></html>`)
	m := NewManager()
	h, err := m.Create(doc)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := m.Attach(h, doc); err != nil {
		t.Fatalf("attach: %v", err)
	}
	h.Root.AppendChild(dom.NewText("mounted content"))

	if !m.Detach(doc) {
		t.Fatalf("expected first detach to remove the boundary")
	}
	if dom.FindByID(doc, BoundaryID) != nil {
		t.Fatalf("boundary still present after detach")
	}
	if h.Root.FirstChild != nil {
		t.Fatalf("isolated root content should be cleared on detach")
	}
	if m.Detach(doc) {
		t.Fatalf("second detach must be a no-op")
	}
}

func TestHideAndRestoreHostContent(t *testing.T) {
	doc := parse(t, `<html><body><p>host</p></body></html>`)
	m := NewManager()

	prev, err := m.HideHostContent(doc)
	if err != nil {
		t.Fatalf("hide: %v", err)
	}
	if prev != "" {
		t.Fatalf("expected empty previous display, got %q", prev)
	}
	body := dom.Body(doc)
	if v, _ := dom.StyleProperty(body, "display"); v != "none" {
		t.Fatalf("body display should be none, got %q", v)
	}

	if err := m.RestoreHostContent(doc, prev); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if _, ok := dom.StyleProperty(body, "display"); ok {
		t.Fatalf("display declaration should be removed when previous was empty")
	}
}

func TestRestorePreservesExplicitDisplay(t *testing.T) {
	doc := parse(t, `<html><body style="display: flex"><p>host</p></body></html>`)
	m := NewManager()

	prev, err := m.HideHostContent(doc)
	if err != nil {
		t.Fatalf("hide: %v", err)
	}
	if prev != "flex" {
		t.Fatalf("expected previous display flex, got %q", prev)
	}
	if err := m.RestoreHostContent(doc, prev); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if v, _ := dom.StyleProperty(dom.Body(doc), "display"); v != "flex" {
		t.Fatalf("expected display flex restored, got %q", v)
	}
}

func TestHideRestoreFailOnInvalidDocument(t *testing.T) {
	m := NewManager()
	if _, err := m.HideHostContent(emptyDoc()); err == nil {
		t.Fatalf("expected error hiding bodyless document")
	}
	if err := m.RestoreHostContent(emptyDoc(), ""); err == nil {
		t.Fatalf("expected error restoring bodyless document")
	}
}
