package views

import (
	"bytes"
	"context"
	"html/template"
	"net/url"
	"path"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/eringen/pressfront/content"
	"github.com/eringen/pressfront/markup"
)

// BuildURL joins path segments onto a base URL.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String()
}

// RelatedPosts returns up to n posts that share a category with current.
func RelatedPosts(current content.Post, posts []content.Post, n int) []content.Post {
	var related []content.Post
	for _, p := range posts {
		if p.Slug == current.Slug {
			continue
		}
		for _, c := range current.Categories {
			if p.InCategory(c.Slug) {
				related = append(related, p)
				break
			}
		}
		if n > 0 && len(related) == n {
			break
		}
	}
	return related
}

// Articles formats a result count: "1 article", "3 articles".
func Articles(n int) string {
	return english.Plural(n, "article", "")
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("January 2, 2006")
}

func isoDate(t time.Time) string {
	return t.Format(time.RFC3339)
}

func ago(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}

func comments(n int) string {
	return english.Plural(n, "comment", "")
}

// prose renders CMS HTML through markup.Rewrite. Content comes from the
// CMS and is trusted.
func prose(s string) template.HTML {
	var buf bytes.Buffer
	if err := markup.Prose(s).Render(context.Background(), &buf); err != nil {
		return ""
	}
	return template.HTML(buf.String())
}

func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

func pathEscape(s string) string {
	return url.PathEscape(s)
}

var funcs = template.FuncMap{
	"date":       formatDate,
	"isoDate":    isoDate,
	"ago":        ago,
	"articles":   Articles,
	"comments":   comments,
	"prose":      prose,
	"text":       markup.PlainText,
	"summary":    markup.Summary,
	"pathEscape": pathEscape,
	"title":      titleCase,
}
