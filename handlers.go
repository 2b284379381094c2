package pressfront

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pressfront/content"
	"github.com/eringen/pressfront/filters"
	"github.com/eringen/pressfront/markup"
	"github.com/eringen/pressfront/views"
)

const (
	categoryLimit = 100
	tagLimit      = 200
	relatedLimit  = 3
	// relatedPool is how many recent posts related posts are picked from.
	relatedPool = 20
)

func handleRootRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/blog")
}

func (a *App) notFound(c echo.Context) error {
	return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.page(c, views.PageMeta{Title: "Page not found"})))
}

func (a *App) postsQuery(c echo.Context) content.PostsQuery {
	return content.PostsQuery{First: a.Config.PostsPerPage, After: c.QueryParam("after")}
}

func (a *App) handleListing(c echo.Context) error {
	ctx := c.Request().Context()
	conn, err := a.Content.Posts(ctx, a.postsQuery(c))
	if err != nil {
		return err
	}
	cats, err := a.Content.Categories(ctx, categoryLimit)
	if err != nil {
		return err
	}
	state := a.filterStore(c).LoadOrDefault(ctx)

	return Render(c, a.Views.Listing(views.ListingData{
		Page:        a.page(c, views.PageMeta{Title: "All posts"}),
		Posts:       filters.Apply(state, conn.Items),
		Categories:  cats,
		Filters:     state,
		Chips:       filters.Chips(state),
		LoadMoreURL: loadMoreURL(c.Request().URL, conn.PageInfo),
	}))
}

func (a *App) handleCategory(c echo.Context) error {
	slug, redirected, err := canonicalSlug(c, "/blog/category/")
	if redirected || err != nil {
		return err
	}
	ctx := c.Request().Context()
	cat, err := a.Content.CategoryBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if cat == nil {
		return a.notFound(c)
	}
	conn, err := a.Content.PostsByCategory(ctx, slug, a.postsQuery(c))
	if err != nil {
		return err
	}

	return Render(c, a.Views.Category(views.CategoryData{
		Page:        a.page(c, views.PageMeta{Title: cat.Name, Description: cat.Description}),
		Category:    *cat,
		Posts:       conn.Items,
		LoadMoreURL: loadMoreURL(c.Request().URL, conn.PageInfo),
	}))
}

func (a *App) handleSearch(c echo.Context) error {
	values, present := c.QueryParams()["q"]
	if !present {
		return Render(c, a.Views.Search(views.SearchData{
			Page:   a.page(c, views.PageMeta{Title: "Search"}),
			Prompt: true,
		}))
	}
	term := values[0]
	conn, err := a.Content.SearchPosts(c.Request().Context(), term, a.postsQuery(c))
	if err != nil {
		return err
	}

	return Render(c, a.Views.Search(views.SearchData{
		Page:        a.page(c, views.PageMeta{Title: `Search: ` + term}),
		Posts:       conn.Items,
		Total:       conn.PageInfo.Total,
		LoadMoreURL: loadMoreURL(c.Request().URL, conn.PageInfo),
	}))
}

func (a *App) handleTags(c echo.Context) error {
	tags, err := a.Content.Tags(c.Request().Context(), tagLimit)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Tags(views.TagsData{
		Page: a.page(c, views.PageMeta{Title: "Tags"}),
		Tags: tags,
	}))
}

func (a *App) handlePost(c echo.Context) error {
	slug, redirected, err := canonicalSlug(c, "/blog/")
	if redirected || err != nil {
		return err
	}
	ctx := c.Request().Context()
	post, err := a.Content.PostBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if post == nil {
		return a.notFound(c)
	}

	var related []content.Post
	if recent, err := a.Content.Posts(ctx, content.PostsQuery{First: relatedPool}); err != nil {
		a.Logger.Debug("related posts unavailable", "slug", slug, "error", err)
	} else {
		related = views.RelatedPosts(*post, recent.Items, relatedLimit)
	}

	meta := views.PageMeta{Title: post.Title, Description: markup.Summary(post.Excerpt, 160)}
	if seo := post.SEO; seo != nil {
		if seo.Title != "" {
			meta.Title = seo.Title
		}
		if seo.Description != "" {
			meta.Description = seo.Description
		}
	}

	return Render(c, a.Views.Detail(views.DetailData{
		Page:           a.page(c, meta),
		Post:           *post,
		ReadingMinutes: markup.ReadingTime(post.Content),
		TOC:            markup.TableOfContents(post.Content),
		Related:        related,
	}))
}

func (a *App) handlePage(c echo.Context) error {
	slug, redirected, err := canonicalSlug(c, "/pages/")
	if redirected || err != nil {
		return err
	}
	pg, err := a.Content.PageBySlug(c.Request().Context(), slug)
	if err != nil {
		return err
	}
	if pg == nil {
		return a.notFound(c)
	}
	return Render(c, a.Views.Entry(views.EntryData{
		Page:  a.page(c, views.PageMeta{Title: pg.Title, Description: markup.Summary(pg.Content, 160)}),
		Entry: *pg,
	}))
}
