package extractor

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	contentClassRe = regexp.MustCompile(`(?i)post|content|entry|article`)
	excessNewlines = regexp.MustCompile(`\n{3,}`)
)

// blockSelector enumerates the paragraph-level elements whose text is kept.
const blockSelector = "p, h1, h2, h3, h4, h5, h6, li, blockquote, pre, td"

// FromHTML extracts readable text from HTML markup. Script, style, and
// boilerplate chrome elements are removed, then the main content area is
// located: an explicit <main> or <article> wins, else the first element whose
// class mentions post/content/entry/article, else the whole body. Paragraph
// blocks are joined with newlines. Plain text input passes through unchanged.
func FromHTML(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return normalizeWhitespace(html)
	}

	doc.Find("script, style, nav, footer, header, aside").Remove()

	target := doc.Find("main").First()
	if target.Length() == 0 {
		target = doc.Find("article").First()
	}
	if target.Length() == 0 {
		doc.Find("[class]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if contentClassRe.MatchString(s.AttrOr("class", "")) {
				target = s
				return false
			}
			return true
		})
	}
	if target.Length() == 0 {
		target = doc.Find("body")
	}
	if target.Length() == 0 {
		target = doc.Selection
	}

	var blocks []string
	target.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			blocks = append(blocks, t)
		}
	})

	var extracted string
	if len(blocks) > 0 {
		extracted = strings.Join(blocks, "\n")
	} else {
		extracted = target.Text()
	}

	return normalizeWhitespace(extracted)
}

// normalizeWhitespace trims the text and collapses runs of three or more
// newlines into a paragraph break.
func normalizeWhitespace(s string) string {
	return strings.TrimSpace(excessNewlines.ReplaceAllString(s, "\n\n"))
}
