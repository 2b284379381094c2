package pressfront

import (
	"net/http"
	"net/url"
	"strings"
	"unicode"

	"github.com/labstack/echo/v4"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/eringen/pressfront/content"
	"github.com/eringen/pressfront/views"
)

// stripMarks returns a fresh chain each time; transform.Chain is stateful.
func stripMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// Slugify converts a title or a loosely typed slug to the form WordPress
// uses: lower case, diacritics removed, words joined by '-'.
func Slugify(s string) string {
	s = foldSlug(s)
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// foldSlug lower-cases s and strips diacritics. Unlike Slugify it keeps
// '_' and the other punctuation WordPress allows in slugs.
func foldSlug(s string) string {
	if folded, _, err := transform.String(stripMarks(), s); err == nil {
		s = folded
	}
	return strings.ToLower(strings.TrimSpace(s))
}

// canonicalSlug redirects to the folded form of the :slug param when it
// differs. It returns the slug to look up and whether a redirect was sent.
func canonicalSlug(c echo.Context, prefix string) (string, bool, error) {
	raw := c.Param("slug")
	if unescaped, err := url.PathUnescape(raw); err == nil {
		raw = unescaped
	}
	slug := foldSlug(raw)
	if slug == "" || slug == raw {
		return raw, false, nil
	}
	target := prefix + url.PathEscape(slug)
	if q := c.QueryString(); q != "" {
		target += "?" + q
	}
	return slug, true, c.Redirect(http.StatusMovedPermanently, target)
}

// page builds the data every view embeds.
func (a *App) page(c echo.Context, meta views.PageMeta) views.Page {
	if meta.URL == "" {
		meta.URL = views.BuildURL(a.Config.URL, c.Request().URL.Path)
	}
	if meta.Description == "" {
		meta.Description = a.Config.Description
	}
	return views.Page{
		Site: views.SiteConfig{
			Name:        a.Config.Name,
			URL:         a.Config.URL,
			Description: a.Config.Description,
			Author:      a.Config.Author,
		},
		Meta:  meta,
		Query: c.QueryParam("q"),
	}
}

// loadMoreURL returns the current URL with after set to the end cursor,
// or "" when there is no next page.
func loadMoreURL(u *url.URL, info content.PageInfo) string {
	if !info.HasNextPage || info.EndCursor == "" {
		return ""
	}
	q := u.Query()
	q.Set("after", info.EndCursor)
	return u.Path + "?" + q.Encode()
}
