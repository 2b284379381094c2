package pressfront

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pressfront/content"
	"github.com/eringen/pressfront/views"
)

// sitemapSize caps the posts listed in /sitemap.xml.
const sitemapSize = 500

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

func (a *App) handleSitemap(c echo.Context) error {
	ctx := c.Request().Context()
	posts, err := a.Content.Posts(ctx, content.PostsQuery{First: sitemapSize})
	if err != nil {
		return err
	}
	cats, err := a.Content.Categories(ctx, categoryLimit)
	if err != nil {
		return err
	}

	base := a.Config.URL
	urls := []sitemapURL{{Loc: views.BuildURL(base, "blog")}}
	for _, cat := range cats {
		urls = append(urls, sitemapURL{Loc: views.BuildURL(base, "blog", "category", cat.Slug)})
	}
	for _, p := range posts.Items {
		u := sitemapURL{Loc: views.BuildURL(base, "blog", p.Slug)}
		switch {
		case !p.Modified.IsZero():
			u.LastMod = p.Modified.Format("2006-01-02")
		case !p.Date.IsZero():
			u.LastMod = p.Date.Format("2006-01-02")
		}
		urls = append(urls, u)
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
