package browser

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// PageAnalysis summarizes the structure of a captured page. It is attached
// to failure reports so an operator can see what the page actually contained
// when a check failed.
type PageAnalysis struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	VideoCount  int    `json:"video_count"`
	CanvasCount int    `json:"canvas_count"`
	BodyLength  int    `json:"body_length"`
}

// HasVideo reports whether the page contains at least one video element.
func (a *PageAnalysis) HasVideo() bool {
	return a.VideoCount > 0
}

// HasCanvas reports whether the page contains at least one canvas element.
func (a *PageAnalysis) HasCanvas() bool {
	return a.CanvasCount > 0
}

// String renders a one-line summary suitable for log output.
func (a *PageAnalysis) String() string {
	return fmt.Sprintf("title=%q video=%d canvas=%d body=%dB",
		a.Title, a.VideoCount, a.CanvasCount, a.BodyLength)
}

// AnalyzePage parses raw HTML and extracts the structural facts the
// verifier cares about: the title, the meta description, and how many
// video/canvas elements the document holds.
func AnalyzePage(rawHTML string) (*PageAnalysis, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	analysis := &PageAnalysis{
		Title:       extractTitle(doc),
		Description: extractMetaDescription(doc),
	}

	countElements(doc, analysis)
	return analysis, nil
}

// countElements walks the document counting the elements the verifier
// checks for, plus the body text length.
func countElements(n *html.Node, analysis *PageAnalysis) {
	if n.Type == html.ElementNode {
		switch strings.ToLower(n.Data) {
		case "video":
			analysis.VideoCount++
		case "canvas":
			analysis.CanvasCount++
		}
	}
	if n.Type == html.TextNode {
		analysis.BodyLength += len(strings.TrimSpace(n.Data))
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		countElements(c, analysis)
	}
}

// extractTitle extracts the page title from the document
func extractTitle(doc *html.Node) string {
	var title string
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "title" {
			if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				title = strings.TrimSpace(n.FirstChild.Data)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
			if title != "" {
				return
			}
		}
	}
	traverse(doc)
	return title
}

// extractMetaDescription extracts the meta description from the document
func extractMetaDescription(doc *html.Node) string {
	var description string
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "meta" {
			var isDescription bool
			var content string
			for _, attr := range n.Attr {
				if attr.Key == "name" && attr.Val == "description" {
					isDescription = true
				}
				if attr.Key == "content" {
					content = attr.Val
				}
			}
			if isDescription && content != "" {
				description = strings.TrimSpace(content)
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
			if description != "" {
				return
			}
		}
	}
	traverse(doc)
	return description
}
