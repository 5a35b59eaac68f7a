package dom

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func parse(t *testing.T, src string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestFindByID(t *testing.T) {
	doc := parse(t, `<html><body><div id="a"></div><div id="target">x</div></body></html>`)
	n := FindByID(doc, "target")
	if n == nil {
		t.Fatalf("expected to find element by id")
	}
	if Text(n) != "x" {
		t.Fatalf("found wrong element: %q", Text(n))
	}
	if FindByID(doc, "missing") != nil {
		t.Fatalf("expected nil for unknown id")
	}
}

func TestBodyAndRoot(t *testing.T) {
	doc := parse(t, `<html><head></head><body><p>hi</p></body></html>`)
	if RootElement(doc) == nil {
		t.Fatalf("expected root element")
	}
	b := Body(doc)
	if b == nil || b.Data != "body" {
		t.Fatalf("expected body element, got %v", b)
	}
}

func TestClassHelpers(t *testing.T) {
	el := NewElement("div")
	AddClass(el, "one")
	AddClass(el, "two")
	AddClass(el, "two")
	if v, _ := Attr(el, "class"); v != "one two" {
		t.Fatalf("unexpected class attr %q", v)
	}
	if !HasClass(el, "one") || !HasClass(el, "two") {
		t.Fatalf("expected both classes present")
	}
	RemoveClass(el, "one")
	if HasClass(el, "one") {
		t.Fatalf("class one should be removed")
	}
	RemoveClass(el, "two")
	if _, ok := Attr(el, "class"); ok {
		t.Fatalf("empty class attribute should be dropped")
	}
}

func TestStyleProperties(t *testing.T) {
	el := NewElement("div")
	SetStyleProperty(el, "display", "none")
	SetStyleProperty(el, "--bg", "#000")
	if v, ok := StyleProperty(el, "--bg"); !ok || v != "#000" {
		t.Fatalf("expected --bg #000, got %q %v", v, ok)
	}
	// Overwrite keeps a single declaration.
	SetStyleProperty(el, "display", "block")
	if v, _ := StyleProperty(el, "display"); v != "block" {
		t.Fatalf("expected display block, got %q", v)
	}
	attr, _ := Attr(el, "style")
	if strings.Count(attr, "display") != 1 {
		t.Fatalf("expected one display declaration in %q", attr)
	}
	RemoveStyleProperty(el, "display")
	if _, ok := StyleProperty(el, "display"); ok {
		t.Fatalf("display should be removed")
	}
	RemoveStyleProperty(el, "--bg")
	if _, ok := Attr(el, "style"); ok {
		t.Fatalf("empty style attribute should be dropped")
	}
}

func TestClearChildrenAndDetach(t *testing.T) {
	doc := parse(t, `<html><body><ul id="l"><li>a</li><li>b</li></ul></body></html>`)
	list := FindByID(doc, "l")
	ClearChildren(list)
	if list.FirstChild != nil {
		t.Fatalf("expected no children after clear")
	}
	Detach(list)
	if FindByID(doc, "l") != nil {
		t.Fatalf("expected list detached from document")
	}
	// Detaching an already detached node must not panic.
	Detach(list)
}

func TestTextCollapsesWhitespace(t *testing.T) {
	doc := parse(t, "<html><body><p>a\n  b\t c</p></body></html>")
	if got := Text(Body(doc)); got != "a b c" {
		t.Fatalf("expected collapsed text, got %q", got)
	}
}
