package main

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/eringen/pressfront/suggest"
)

type suggestCommand struct {
	Server string        `long:"server" env:"PRESSFRONT_SERVER" default:"http://localhost:3000" description:"pressfront base URL"`
	Delay  time.Duration `long:"delay" default:"300ms" description:"Debounce delay"`
	Limit  int           `long:"limit" default:"5" description:"Maximum suggestions"`
}

func (c *suggestCommand) Execute([]string) error {
	src := suggest.NewHTTPSuggester(c.Server, nil)
	return runSuggest(os.Stdin, os.Stdout, src, suggest.WithDelay(c.Delay), suggest.WithLimit(c.Limit))
}

var keyLines = map[string]suggest.Key{
	":down":  suggest.KeyDown,
	":up":    suggest.KeyUp,
	":enter": suggest.KeyEnter,
	":esc":   suggest.KeyEscape,
}

// runSuggest feeds every line of in to an engine and prints what the
// search box would show. At EOF it waits for the last fetch to land.
func runSuggest(in io.Reader, out io.Writer, src suggest.Suggester, opts ...suggest.Option) error {
	var (
		mu   sync.Mutex
		last string
	)
	printf := func(format string, args ...any) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(out, format, args...)
	}
	show := func(s suggest.Snapshot) {
		if !s.Open || s.State != suggest.Resolved {
			return
		}
		text := render(s)
		mu.Lock()
		defer mu.Unlock()
		if text != last {
			last = text
			fmt.Fprint(out, text)
		}
	}

	if lg != nil {
		opts = append(opts, suggest.WithLogger(lg))
	}
	opts = append(opts,
		suggest.OnChange(show),
		suggest.OnNavigate(func(slug string) {
			printf("navigate /blog/%s\n", slug)
		}),
		suggest.OnSubmit(func(q string) {
			printf("search /blog/search?q=%s\n", url.QueryEscape(q))
		}),
	)
	eng := suggest.New(src, opts...)
	defer eng.Close()

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := sc.Text()
		if k, ok := keyLines[line]; ok {
			// Keys act on what is on screen, so let the pending fetch land.
			settle(eng)
			eng.Key(k)
			continue
		}
		switch line {
		case ":clear":
			eng.Clear()
		case ":outside":
			eng.ClickOutside()
		default:
			eng.Input(line)
		}
	}
	settle(eng)
	return sc.Err()
}

func settle(eng *suggest.Engine) {
	eng.Flush()
	eng.Wait()
}

func render(s suggest.Snapshot) string {
	var b strings.Builder
	if s.Empty() {
		fmt.Fprintf(&b, "%q: no suggestions\n", s.Query)
		return b.String()
	}
	fmt.Fprintf(&b, "%q:\n", s.Query)
	for i, item := range s.Suggestions {
		marker := " "
		if i == s.Highlight {
			marker = ">"
		}
		fmt.Fprintf(&b, "%s %d. %s (/blog/%s)\n", marker, i+1, item.Title, item.Slug)
	}
	return b.String()
}
