package content

import (
	"context"
	"strings"
	"testing"
)

func mustFixtures(t *testing.T) *FixtureSource {
	t.Helper()
	src, err := NewFixtureSource()
	if err != nil {
		t.Fatalf("NewFixtureSource failed: %v", err)
	}
	return src
}

func TestFixturePostsAreNewestFirst(t *testing.T) {
	src := mustFixtures(t)
	conn, err := src.Posts(context.Background(), PostsQuery{First: 100})
	if err != nil {
		t.Fatalf("Posts failed: %v", err)
	}
	if len(conn.Items) < 2 {
		t.Fatalf("expected several fixture posts, got %d", len(conn.Items))
	}
	for i := 1; i < len(conn.Items); i++ {
		if conn.Items[i].Date.After(conn.Items[i-1].Date) {
			t.Errorf("post %q is newer than %q", conn.Items[i].Slug, conn.Items[i-1].Slug)
		}
	}
	if conn.PageInfo.HasNextPage {
		t.Error("HasNextPage should be false when everything fits")
	}
}

func TestFixturePostsSliceToCountAndPaginate(t *testing.T) {
	src := mustFixtures(t)
	ctx := context.Background()

	page1, err := src.Posts(ctx, PostsQuery{First: 3})
	if err != nil {
		t.Fatalf("Posts failed: %v", err)
	}
	if len(page1.Items) != 3 {
		t.Fatalf("len = %d, want 3", len(page1.Items))
	}
	if !page1.PageInfo.HasNextPage {
		t.Fatal("expected another page")
	}

	page2, err := src.Posts(ctx, PostsQuery{First: 3, After: page1.PageInfo.EndCursor})
	if err != nil {
		t.Fatalf("Posts page2 failed: %v", err)
	}
	if !page2.PageInfo.HasPreviousPage {
		t.Error("page2 should report a previous page")
	}
	seen := map[string]bool{}
	for _, p := range page1.Items {
		seen[p.Slug] = true
	}
	for _, p := range page2.Items {
		if seen[p.Slug] {
			t.Errorf("post %q appears on both pages", p.Slug)
		}
	}
}

func TestFixtureUnknownCursorIsPastTheEnd(t *testing.T) {
	src := mustFixtures(t)

	// "arrayconnection:1", as issued by WPGraphQL before the CMS went down.
	for _, cursor := range []string{"YXJyYXljb25uZWN0aW9uOjE=", "not base64!", encodeCursor(-4)} {
		conn, err := src.Posts(context.Background(), PostsQuery{First: 3, After: cursor})
		if err != nil {
			t.Fatalf("Posts(%q) failed: %v", cursor, err)
		}
		if len(conn.Items) != 0 {
			t.Errorf("Posts(%q) returned %d posts, want none", cursor, len(conn.Items))
		}
		if conn.PageInfo.HasNextPage {
			t.Errorf("Posts(%q) HasNextPage = true, want false", cursor)
		}
	}
}

func TestFixtureLookups(t *testing.T) {
	src := mustFixtures(t)
	ctx := context.Background()

	p, err := src.PostBySlug(ctx, "querying-wordpress-graphql")
	if err != nil || p == nil {
		t.Fatalf("PostBySlug = %v, %v; want a post", p, err)
	}
	if !strings.Contains(p.Content, `id="fragments"`) {
		t.Errorf("fixture content should carry heading ids, got %q", p.Content)
	}
	if p, _ := src.PostBySlug(ctx, "missing"); p != nil {
		t.Errorf("PostBySlug(missing) = %v, want nil", p)
	}

	c, _ := src.CategoryBySlug(ctx, "design")
	if c == nil || c.Name != "Design" {
		t.Errorf("CategoryBySlug(design) = %v", c)
	}
	if c, _ := src.CategoryBySlug(ctx, "nope"); c != nil {
		t.Errorf("CategoryBySlug(nope) = %v, want nil", c)
	}

	pg, _ := src.PageBySlug(ctx, "/about/")
	if pg == nil || pg.Title != "About" {
		t.Errorf("PageBySlug(/about/) = %v", pg)
	}

	cats, _ := src.Categories(ctx, 2)
	if len(cats) != 2 {
		t.Errorf("Categories(2) len = %d, want 2", len(cats))
	}
}

func TestFixtureByCategoryAndSearch(t *testing.T) {
	src := mustFixtures(t)
	ctx := context.Background()

	conn, _ := src.PostsByCategory(ctx, "devops", PostsQuery{First: 10})
	if len(conn.Items) != 2 {
		t.Fatalf("devops posts = %d, want 2", len(conn.Items))
	}
	for _, p := range conn.Items {
		if !p.InCategory("devops") {
			t.Errorf("post %q is not in devops", p.Slug)
		}
	}

	tests := []struct {
		term string
		min  int
		max  int
	}{
		{"programming", 1, 100},
		{"PROGRAMMING", 1, 100},
		{"qwertyuiop asdfghjkl zxcvbnm", 0, 0},
		{"   ", 0, 0},
	}
	for _, tt := range tests {
		conn, err := src.SearchPosts(ctx, tt.term, PostsQuery{First: 10})
		if err != nil {
			t.Fatalf("SearchPosts(%q) failed: %v", tt.term, err)
		}
		if n := len(conn.Items); n < tt.min || n > tt.max {
			t.Errorf("SearchPosts(%q) = %d results, want [%d, %d]", tt.term, n, tt.min, tt.max)
		}
	}
}

func TestLoadFixturesRejectsGarbage(t *testing.T) {
	if _, err := LoadFixtures(strings.NewReader("posts: [unterminated")); err == nil {
		t.Error("expected a decode error")
	}
}
