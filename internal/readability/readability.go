// Package readability is the default content-extraction collaborator. It
// prefers <main> or <article>, falls back to <body>, and prunes obvious
// boilerplate like navigation, footers and consent banners. Unlike a
// text-only extractor it keeps the pruned element subtree, since the reader
// view re-displays the content rather than feeding it to a model.
package readability

import (
	"context"
	"strings"

	"golang.org/x/net/html"

	"github.com/hyperifyio/goreader/internal/dom"
	"github.com/hyperifyio/goreader/internal/session"
)

// skippedTags never make it into the reader view.
var skippedTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"nav":      true,
	"footer":   true,
	"aside":    true,
	"iframe":   true,
	"form":     true,
	"button":   true,
}

// Extractor implements session.Extractor with DOM heuristics and no network
// or model calls. The zero value is ready to use.
type Extractor struct{}

// Extract pulls the readable article out of doc. Returns (nil, nil) when the
// document holds no readable content; that outcome leaves the host document
// untouched by the caller.
func (Extractor) Extract(_ context.Context, doc *html.Node) (*session.Article, error) {
	if doc == nil {
		return nil, nil
	}
	content := dom.FindFirst(doc, "main")
	if content == nil {
		content = dom.FindFirst(doc, "article")
	}
	if content == nil {
		content = dom.Body(doc)
	}
	if content == nil {
		return nil, nil
	}

	body := dom.NewElement("div")
	for c := content.FirstChild; c != nil; c = c.NextSibling {
		if cloned := cloneReadable(c); cloned != nil {
			body.AppendChild(cloned)
		}
	}

	article, err := session.NewArticle(title(doc), body)
	if err != nil {
		// Nothing readable survived pruning.
		return nil, nil
	}
	article.Byline = metaContent(doc, "name", "author")
	article.SiteName = metaContent(doc, "property", "og:site_name")
	article.URL = canonicalURL(doc)
	return article, nil
}

// cloneReadable deep-copies n into a detached tree, dropping skipped tags and
// boilerplate containers. Returns nil when the whole subtree is skipped.
func cloneReadable(n *html.Node) *html.Node {
	switch n.Type {
	case html.TextNode:
		return dom.NewText(n.Data)
	case html.ElementNode:
		name := strings.ToLower(n.Data)
		if skippedTags[name] || isBoilerplateContainer(n) {
			return nil
		}
		clone := &html.Node{Type: html.ElementNode, Data: n.Data, DataAtom: n.DataAtom}
		clone.Attr = append([]html.Attribute(nil), n.Attr...)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if cc := cloneReadable(c); cc != nil {
				clone.AppendChild(cc)
			}
		}
		return clone
	default:
		return nil
	}
}

// isBoilerplateContainer returns true if the element looks like a
// cookie/consent banner.
func isBoilerplateContainer(n *html.Node) bool {
	for _, attr := range n.Attr {
		key := strings.ToLower(attr.Key)
		if key != "id" && key != "class" && !strings.HasPrefix(key, "data-") && key != "aria-label" && key != "role" {
			continue
		}
		val := strings.ToLower(attr.Val)
		for _, marker := range []string{"cookie", "consent", "gdpr"} {
			if strings.Contains(val, marker) {
				return true
			}
		}
	}
	return false
}

func title(doc *html.Node) string {
	if t := metaContent(doc, "property", "og:title"); t != "" {
		return t
	}
	head := dom.FindFirst(doc, "head")
	if head == nil {
		return ""
	}
	el := dom.FindFirst(head, "title")
	if el == nil {
		return ""
	}
	return strings.TrimSpace(dom.Text(el))
}

// metaContent returns the content attribute of the first <meta> whose
// attrKey attribute equals attrVal.
func metaContent(doc *html.Node, attrKey, attrVal string) string {
	head := dom.FindFirst(doc, "head")
	if head == nil {
		return ""
	}
	for c := head.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || !strings.EqualFold(c.Data, "meta") {
			continue
		}
		if v, ok := dom.Attr(c, attrKey); !ok || !strings.EqualFold(v, attrVal) {
			continue
		}
		if content, ok := dom.Attr(c, "content"); ok {
			return strings.TrimSpace(content)
		}
	}
	return ""
}

func canonicalURL(doc *html.Node) string {
	head := dom.FindFirst(doc, "head")
	if head != nil {
		for c := head.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode || !strings.EqualFold(c.Data, "link") {
				continue
			}
			if rel, _ := dom.Attr(c, "rel"); strings.EqualFold(rel, "canonical") {
				if href, ok := dom.Attr(c, "href"); ok {
					return strings.TrimSpace(href)
				}
			}
		}
	}
	return metaContent(doc, "property", "og:url")
}
