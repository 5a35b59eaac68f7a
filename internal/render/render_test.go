package render

import (
	"context"
	"strings"
	"testing"

	"github.com/hyperifyio/goreader/internal/configstore"
	"github.com/hyperifyio/goreader/internal/dom"
	"github.com/hyperifyio/goreader/internal/session"
	"github.com/hyperifyio/goreader/internal/style"
	"github.com/hyperifyio/goreader/internal/theme"
)

func testArticle(t *testing.T) *session.Article {
	t.Helper()
	body := dom.NewElement("div")
	p := dom.NewElement("p")
	p.AppendChild(dom.NewText("article text"))
	body.AppendChild(p)
	a, err := session.NewArticle("Headline", body)
	if err != nil {
		t.Fatalf("NewArticle: %v", err)
	}
	a.Byline = "A. Writer"
	a.SiteName = "Example"
	return a
}

func testStyles() *style.Controller {
	store := configstore.New(configstore.NewMemoryMedium(), nil)
	return style.NewController(theme.NewRegistry(), store)
}

func TestRenderMountsView(t *testing.T) {
	root := dom.NewElement("div")
	r := &Renderer{}

	h, err := r.Render(context.Background(), testArticle(t), root, testStyles(), nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	view := root.FirstChild
	if view == nil || !dom.HasClass(view, "goreader-view") {
		t.Fatalf("expected mounted view as first child")
	}
	if !dom.HasClass(view, "goreader-theme-light") {
		t.Fatalf("expected default theme applied to view")
	}
	text := dom.Text(view)
	if !strings.Contains(text, "Headline") || !strings.Contains(text, "article text") {
		t.Fatalf("view missing title or content: %q", text)
	}
	if !strings.Contains(text, "A. Writer") {
		t.Fatalf("view missing byline: %q", text)
	}
	if h == nil {
		t.Fatalf("expected a handle")
	}
}

func TestRenderLede(t *testing.T) {
	root := dom.NewElement("div")
	r := &Renderer{Lede: "Short summary."}
	if _, err := r.Render(context.Background(), testArticle(t), root, testStyles(), nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(dom.Text(root), "Short summary.") {
		t.Fatalf("expected lede in view")
	}
}

func TestUnmountRemovesView(t *testing.T) {
	root := dom.NewElement("div")
	r := &Renderer{}
	h, err := r.Render(context.Background(), testArticle(t), root, testStyles(), nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if err := r.Unmount(h); err != nil {
		t.Fatalf("unmount: %v", err)
	}
	if root.FirstChild != nil {
		t.Fatalf("expected empty root after unmount")
	}
}

func TestUnmountRejectsForeignHandle(t *testing.T) {
	r := &Renderer{}
	if err := r.Unmount("not a handle"); err == nil {
		t.Fatalf("expected error for foreign handle")
	}
}

func TestHandleCloseInvokesCallback(t *testing.T) {
	root := dom.NewElement("div")
	r := &Renderer{}
	var closed bool
	h, err := r.Render(context.Background(), testArticle(t), root, testStyles(), func() { closed = true })
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	h.(*Handle).Close()
	if !closed {
		t.Fatalf("expected close callback to run")
	}
}

func TestRenderRequiresRoot(t *testing.T) {
	r := &Renderer{}
	if _, err := r.Render(context.Background(), testArticle(t), nil, testStyles(), nil); err == nil {
		t.Fatalf("expected error for nil root")
	}
}
