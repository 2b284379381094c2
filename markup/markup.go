// Package markup post-processes CMS-rendered HTML: it renders it as a templ
// component, derives a table of contents and reading time, and extracts
// plain text.
package markup

import (
	"bytes"
	"context"
	"io"
	"math"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
)

// WordsPerMinute is the reading speed used by ReadingTime.
const WordsPerMinute = 200

// Prose returns a templ.Component that renders CMS HTML after Rewrite.
func Prose(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		if err := Rewrite(&buf, content); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// Rewrite writes content to buf with unsafe link targets removed, external
// links opened in a new tab and images loaded lazily after the first.
func Rewrite(buf *bytes.Buffer, content string) error {
	doc, err := fragment(content)
	if err != nil {
		return err
	}
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := SafeURL(a.AttrOr("href", ""))
		if href == "" {
			a.RemoveAttr("href")
			return
		}
		a.SetAttr("href", href)
		if isExternal(href) {
			a.SetAttr("target", "_blank")
			a.SetAttr("rel", "noopener noreferrer")
		}
	})
	doc.Find("img").Each(func(i int, img *goquery.Selection) {
		if src := SafeURL(img.AttrOr("src", "")); src == "" {
			img.Remove()
			return
		}
		if i == 0 {
			img.SetAttr("fetchpriority", "high")
		} else {
			img.SetAttr("loading", "lazy")
		}
		img.SetAttr("decoding", "async")
	})
	doc.Find("script").Remove()

	body := doc.Find("body")
	h, err := body.Html()
	if err != nil {
		return err
	}
	buf.WriteString(h)
	return nil
}

// Heading is one table-of-contents entry.
type Heading struct {
	ID    string
	Text  string
	Level int
}

// TableOfContents lists h2-h6 headings that carry an id, in document order.
func TableOfContents(content string) []Heading {
	doc, err := fragment(content)
	if err != nil {
		return nil
	}
	var toc []Heading
	doc.Find("h2[id], h3[id], h4[id], h5[id], h6[id]").Each(func(_ int, h *goquery.Selection) {
		id := strings.TrimSpace(h.AttrOr("id", ""))
		if id == "" {
			return
		}
		toc = append(toc, Heading{
			ID:    id,
			Text:  strings.Join(strings.Fields(h.Text()), " "),
			Level: int(goquery.NodeName(h)[1] - '0'),
		})
	})
	return toc
}

// PlainText returns the text of content with whitespace collapsed.
func PlainText(content string) string {
	if !strings.ContainsRune(content, '<') {
		return strings.Join(strings.Fields(content), " ")
	}
	doc, err := fragment(content)
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// WordCount counts whitespace-separated words in the text of content.
func WordCount(content string) int {
	return len(strings.Fields(PlainText(content)))
}

// ReadingTime is the estimated reading time in whole minutes, rounded up.
func ReadingTime(content string) int {
	return int(math.Ceil(float64(WordCount(content)) / WordsPerMinute))
}

// Summary returns the plain text of content cut to at most n runes on a
// word boundary, with an ellipsis when cut.
func Summary(content string, n int) string {
	text := PlainText(content)
	runes := []rune(text)
	if n <= 0 || len(runes) <= n {
		return text
	}
	cut := string(runes[:n])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}

// SafeURL returns raw when it is relative, a fragment, or uses an allowed
// scheme, and "" otherwise.
func SafeURL(raw string) string {
	val := strings.TrimSpace(raw)
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") || strings.HasPrefix(val, "?") {
		return val
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return val
	}
	return ""
}

func isExternal(href string) bool {
	u, err := url.Parse(href)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

func fragment(content string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(content))
}
