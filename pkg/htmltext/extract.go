// Package htmltext converts raw article HTML into bounded plain text.
// Everything here is pure - no I/O.
package htmltext

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/newsgraph-ai/newsgraph-engine/pkg/apperrors"
)

// Result is the sanitized form of a fetched page.
type Result struct {
	Text      string
	Title     string // page <title>, or readability's title when better
	Truncated bool   // text was cut at the max length
}

// chromeSelector matches elements that never carry article content.
const chromeSelector = "script, style, noscript, nav, header, footer, aside, iframe, form, button"

var whitespacePattern = regexp.MustCompile(`[ \t\r\f]+`)
var blankLinePattern = regexp.MustCompile(`\n{3,}`)

// entityReplacer decodes the fixed entity set left behind by partial HTML.
var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&apos;", "'",
	"&nbsp;", " ",
	"&mdash;", "-",
	"&ndash;", "-",
)

// Extract sanitizes raw HTML into plain text at most maxChars long. Text
// shorter than minChars after sanitizing fails with ExtractedTextTooShort,
// which signals a paywalled or empty page.
func Extract(rawHTML string, maxChars, minChars int) (Result, error) {
	trimmed := strings.TrimSpace(rawHTML)
	if trimmed == "" {
		return Result{}, apperrors.Newf(apperrors.KindExtractedTextTooShort,
			"sanitized text is empty")
	}

	// Payload may already be plain text.
	if !strings.Contains(trimmed, "<") {
		return finish("", normalize(trimmed), maxChars, minChars)
	}

	title := ""
	cleaned := trimmed

	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(trimmed)); err == nil {
		title = strings.TrimSpace(doc.Find("title").First().Text())
		doc.Find(chromeSelector).Remove()
		if html, err := doc.Html(); err == nil && html != "" {
			cleaned = html
		}
	}

	// Readability finds the main content block; its plain text beats a bare
	// tag strip on pages with heavy navigation chrome.
	if article, err := readability.FromReader(strings.NewReader(cleaned), nil); err == nil {
		text := normalize(article.TextContent)
		if len(text) >= minChars {
			if title == "" {
				title = strings.TrimSpace(article.Title)
			}
			return finish(title, text, maxChars, minChars)
		}
	}

	// Fallback: strip all remaining tags.
	text := ""
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(cleaned)); err == nil {
		text = doc.Find("body").Text()
		if text == "" {
			text = doc.Text()
		}
	}
	return finish(title, normalize(text), maxChars, minChars)
}

func normalize(s string) string {
	s = entityReplacer.Replace(s)
	s = whitespacePattern.ReplaceAllString(s, " ")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Join(lines, "\n")
	s = blankLinePattern.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

func finish(title, text string, maxChars, minChars int) (Result, error) {
	if len(text) < minChars {
		return Result{}, apperrors.Newf(apperrors.KindExtractedTextTooShort,
			"sanitized text is %d chars, need at least %d", len(text), minChars)
	}

	truncated := false
	if maxChars > 0 && len(text) > maxChars {
		runes := []rune(text)
		if len(runes) > maxChars {
			runes = runes[:maxChars]
		}
		text = string(runes)
		truncated = true
	}

	return Result{Text: text, Title: title, Truncated: truncated}, nil
}
