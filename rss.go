package pressfront

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pressfront/content"
	"github.com/eringen/pressfront/markup"
	"github.com/eringen/pressfront/views"
)

// feedSize is how many posts /feed.xml carries.
const feedSize = 20

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	Categories  []string `xml:"category"`
	PubDate     string   `xml:"pubDate"`
	GUID        string   `xml:"guid"`
}

func (a *App) handleFeed(c echo.Context) error {
	conn, err := a.Content.Posts(c.Request().Context(), content.PostsQuery{First: feedSize})
	if err != nil {
		return err
	}
	return a.renderRSS(c, conn.Items)
}

func (a *App) renderRSS(c echo.Context, posts []content.Post) error {
	base := a.Config.URL
	items := make([]rssItem, 0, len(posts))
	var latest time.Time
	for _, p := range posts {
		postURL := views.BuildURL(base, "blog", p.Slug)
		item := rssItem{
			Title:       p.Title,
			Link:        postURL,
			Description: markup.PlainText(p.Excerpt),
			GUID:        postURL,
		}
		if !p.Date.IsZero() {
			item.PubDate = p.Date.Format(time.RFC1123Z)
			if p.Date.After(latest) {
				latest = p.Date
			}
		}
		for _, cat := range p.Categories {
			item.Categories = append(item.Categories, cat.Name)
		}
		items = append(items, item)
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        views.BuildURL(base, "blog"),
			Description: a.Config.Description,
			Items:       items,
		},
	}
	if !latest.IsZero() {
		feed.Channel.LastBuildDate = latest.Format(time.RFC1123Z)
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}
