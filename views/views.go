// Package views renders pressfront pages. Each page is a templ component
// backed by an embedded html/template file sharing one layout.
package views

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pages = map[string]*template.Template{}

func init() {
	for _, name := range []string{
		"listing.html", "category.html", "search.html", "detail.html",
		"tags.html", "entry.html", "notfound.html", "error.html",
	} {
		pages[name] = template.Must(template.New(name).Funcs(funcs).
			ParseFS(templatesFS, "templates/layout.html", "templates/"+name))
	}
}

func page(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t, ok := pages[name]
		if !ok {
			return fmt.Errorf("views: unknown page %q", name)
		}
		return t.ExecuteTemplate(w, "layout", data)
	})
}

// Listing renders the post listing with its filter controls.
func Listing(d ListingData) templ.Component { return page("listing.html", d) }

// Category renders one category's posts.
func Category(d CategoryData) templ.Component { return page("category.html", d) }

// Search renders the search prompt, the results or the no-results view.
func Search(d SearchData) templ.Component { return page("search.html", d) }

// Detail renders a single post.
func Detail(d DetailData) templ.Component { return page("detail.html", d) }

// Tags renders the tag index.
func Tags(d TagsData) templ.Component { return page("tags.html", d) }

// Entry renders a WordPress page.
func Entry(d EntryData) templ.Component { return page("entry.html", d) }

func NotFound(p Page) templ.Component { return page("notfound.html", p) }

func ServerError(d ErrorData) templ.Component { return page("error.html", d) }
