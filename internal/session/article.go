package session

import (
	"errors"

	"golang.org/x/net/html"

	"github.com/hyperifyio/goreader/internal/dom"
)

// Article is the validated result of content extraction. Construction goes
// through NewArticle so shape is checked exactly once at the edge; code past
// that point never re-checks.
type Article struct {
	Title    string
	Byline   string
	SiteName string
	URL      string
	// Body is a detached element subtree owned by the article. It must not
	// alias nodes still attached to the host document.
	Body *html.Node
}

// ErrEmptyArticle rejects extractor output with no readable content.
var ErrEmptyArticle = errors.New("article has no readable content")

// NewArticle validates raw extractor output. The body must be a detached
// element holding at least some text.
func NewArticle(title string, body *html.Node) (*Article, error) {
	if body == nil || body.Type != html.ElementNode {
		return nil, ErrEmptyArticle
	}
	if body.Parent != nil {
		return nil, errors.New("article body must be detached from the host document")
	}
	if dom.Text(body) == "" {
		return nil, ErrEmptyArticle
	}
	return &Article{Title: title, Body: body}, nil
}
