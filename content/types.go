package content

import "time"

// Post is a WordPress post as the front end reads it.
type Post struct {
	ID            string         `json:"id" yaml:"id"`
	DatabaseID    int            `json:"databaseId" yaml:"databaseId"`
	Title         string         `json:"title" yaml:"title"`
	Slug          string         `json:"slug" yaml:"slug"`
	Excerpt       string         `json:"excerpt" yaml:"excerpt"`
	Content       string         `json:"content,omitempty" yaml:"content"`
	Date          time.Time      `json:"date" yaml:"date"`
	Modified      time.Time      `json:"modified" yaml:"modified"`
	FeaturedImage *FeaturedImage `json:"featuredImage,omitempty" yaml:"featuredImage"`
	Author        *Author        `json:"author,omitempty" yaml:"author"`
	Categories    []Category     `json:"categories" yaml:"categories"`
	Tags          []Tag          `json:"tags" yaml:"tags"`
	SEO           *SEO           `json:"seo,omitempty" yaml:"seo"`
	Sticky        bool           `json:"sticky" yaml:"sticky"`
	CommentCount  int            `json:"commentCount" yaml:"commentCount"`
}

// Link returns the detail route of the post.
func (p Post) Link() string {
	return "/blog/" + p.Slug
}

// InCategory reports whether the post is filed under the category slug.
func (p Post) InCategory(slug string) bool {
	for _, c := range p.Categories {
		if c.Slug == slug {
			return true
		}
	}
	return false
}

// FeaturedImage describes a post thumbnail.
type FeaturedImage struct {
	URL    string `json:"url" yaml:"url"`
	Alt    string `json:"alt" yaml:"alt"`
	Width  int    `json:"width,omitempty" yaml:"width"`
	Height int    `json:"height,omitempty" yaml:"height"`
}

// Author is the post author.
type Author struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Slug string `json:"slug" yaml:"slug"`
}

// SEO holds per-post metadata overrides.
type SEO struct {
	Title       string `json:"title,omitempty" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description"`
}

// Category is a post category. Slug is the routing key.
type Category struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Slug        string `json:"slug" yaml:"slug"`
	Description string `json:"description,omitempty" yaml:"description"`
	Count       int    `json:"count" yaml:"count"`
}

// Tag is a post tag.
type Tag struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Slug        string `json:"slug" yaml:"slug"`
	Description string `json:"description,omitempty" yaml:"description"`
	Count       int    `json:"count" yaml:"count"`
}

// Page is a WordPress page.
type Page struct {
	ID      string    `json:"id" yaml:"id"`
	Title   string    `json:"title" yaml:"title"`
	Slug    string    `json:"slug" yaml:"slug"`
	Content string    `json:"content" yaml:"content"`
	Date    time.Time `json:"date" yaml:"date"`
}

// PageInfo is the upstream pagination cursor.
type PageInfo struct {
	HasNextPage     bool   `json:"hasNextPage"`
	HasPreviousPage bool   `json:"hasPreviousPage"`
	StartCursor     string `json:"startCursor"`
	EndCursor       string `json:"endCursor"`
	// Total is the size of the whole result set, or 0 when the source does
	// not report it. WPGraphQL core does not.
	Total int `json:"total,omitempty"`
}

// Connection is a page of items plus its cursor.
type Connection[T any] struct {
	Items    []T      `json:"items"`
	PageInfo PageInfo `json:"pageInfo"`
}

// PostsQuery selects a page of posts.
type PostsQuery struct {
	First    int
	After    string
	Category string
	Search   string
}

// DefaultFirst is used when a query asks for zero items.
const DefaultFirst = 10

func (q PostsQuery) first() int {
	if q.First <= 0 {
		return DefaultFirst
	}
	return q.First
}
