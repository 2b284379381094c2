package content

import "time"

// WPGraphQL response shapes.

type wireConnection struct {
	PageInfo PageInfo   `json:"pageInfo"`
	Nodes    []wirePost `json:"nodes"`
}

func (c wireConnection) connection() Connection[Post] {
	items := make([]Post, 0, len(c.Nodes))
	for _, n := range c.Nodes {
		items = append(items, n.post())
	}
	return Connection[Post]{Items: items, PageInfo: c.PageInfo}
}

type wirePost struct {
	ID            string  `json:"id"`
	DatabaseID    int     `json:"databaseId"`
	Title         string  `json:"title"`
	Slug          string  `json:"slug"`
	Excerpt       string  `json:"excerpt"`
	Content       string  `json:"content"`
	Date          string  `json:"date"`
	Modified      string  `json:"modified"`
	IsSticky      bool    `json:"isSticky"`
	CommentCount  *int    `json:"commentCount"`
	FeaturedImage *struct {
		Node *struct {
			SourceURL    string `json:"sourceUrl"`
			AltText      string `json:"altText"`
			MediaDetails *struct {
				Width  int `json:"width"`
				Height int `json:"height"`
			} `json:"mediaDetails"`
		} `json:"node"`
	} `json:"featuredImage"`
	Author *struct {
		Node *Author `json:"node"`
	} `json:"author"`
	Categories struct {
		Nodes []wireTerm `json:"nodes"`
	} `json:"categories"`
	Tags struct {
		Nodes []wireTerm `json:"nodes"`
	} `json:"tags"`
}

func (w wirePost) post() Post {
	p := Post{
		ID:         w.ID,
		DatabaseID: w.DatabaseID,
		Title:      w.Title,
		Slug:       w.Slug,
		Excerpt:    w.Excerpt,
		Content:    w.Content,
		Date:       parseWPTime(w.Date),
		Modified:   parseWPTime(w.Modified),
		Sticky:     w.IsSticky,
	}
	if w.CommentCount != nil {
		p.CommentCount = *w.CommentCount
	}
	if w.FeaturedImage != nil && w.FeaturedImage.Node != nil {
		n := w.FeaturedImage.Node
		img := &FeaturedImage{URL: n.SourceURL, Alt: n.AltText}
		if n.MediaDetails != nil {
			img.Width = n.MediaDetails.Width
			img.Height = n.MediaDetails.Height
		}
		p.FeaturedImage = img
	}
	if w.Author != nil && w.Author.Node != nil {
		a := *w.Author.Node
		p.Author = &a
	}
	p.Categories = make([]Category, 0, len(w.Categories.Nodes))
	for _, n := range w.Categories.Nodes {
		p.Categories = append(p.Categories, n.category())
	}
	p.Tags = make([]Tag, 0, len(w.Tags.Nodes))
	for _, n := range w.Tags.Nodes {
		p.Tags = append(p.Tags, n.tag())
	}
	return p
}

type wireTerm struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
	Count       *int    `json:"count"`
}

func (w wireTerm) category() Category {
	c := Category{ID: w.ID, Name: w.Name, Slug: w.Slug}
	if w.Description != nil {
		c.Description = *w.Description
	}
	if w.Count != nil {
		c.Count = *w.Count
	}
	return c
}

func (w wireTerm) tag() Tag {
	c := w.category()
	return Tag(c)
}

// WPGraphQL reports site-local timestamps without a zone.
const wpTimeLayout = "2006-01-02T15:04:05"

func parseWPTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	t, err := time.Parse(wpTimeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
