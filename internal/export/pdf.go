// Package export writes a reader-view article to PDF. The layout is
// intentionally simple: title, headings and paragraph text, no images.
package export

import (
	"strings"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/net/html"

	"github.com/hyperifyio/goreader/internal/dom"
	"github.com/hyperifyio/goreader/internal/session"
)

type block struct {
	// heading is 0 for body text, 1..6 for h1..h6.
	heading int
	text    string
}

// WritePDF renders the article to a single-column A4 PDF at outPath.
func WritePDF(a *session.Article, outPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.AddPage()

	if a.Title != "" {
		pdf.SetFont("Helvetica", "B", 16)
		pdf.MultiCell(0, 8, a.Title, "", "L", false)
		pdf.Ln(2)
	}
	if a.Byline != "" {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 5, a.Byline, "", "L", false)
		pdf.Ln(2)
	}
	pdf.SetFont("Helvetica", "", 11)

	for _, b := range collectBlocks(a.Body) {
		if b.heading > 0 {
			size := 14.0
			if b.heading >= 2 {
				size = 12.0
			}
			pdf.SetFont("Helvetica", "B", size)
			pdf.MultiCell(0, 7, b.text, "", "L", false)
			pdf.SetFont("Helvetica", "", 11)
			pdf.Ln(1)
			continue
		}
		pdf.MultiCell(0, 5, b.text, "", "L", false)
		pdf.Ln(2)
	}

	return pdf.OutputFileAndClose(outPath)
}

// collectBlocks flattens the article subtree into heading and paragraph
// blocks in document order.
func collectBlocks(n *html.Node) []block {
	var out []block
	var dfs func(*html.Node)
	dfs = func(cur *html.Node) {
		if cur.Type == html.ElementNode {
			name := strings.ToLower(cur.Data)
			switch name {
			case "h1", "h2", "h3", "h4", "h5", "h6":
				if text := dom.Text(cur); text != "" {
					out = append(out, block{heading: int(name[1] - '0'), text: text})
				}
				return
			case "p", "li", "blockquote", "pre", "figcaption":
				if text := dom.Text(cur); text != "" {
					out = append(out, block{text: text})
				}
				return
			}
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			dfs(c)
		}
	}
	if n != nil {
		dfs(n)
	}
	return out
}
