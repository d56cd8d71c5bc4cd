// Package route maps request paths onto fetch and render strategies.
package route

import "strings"

// Name identifies a resolved route.
type Name string

// Route names.
const (
	Home        Name = "home"
	Deals       Name = "deals"
	Stores      Name = "stores"
	Products    Name = "products"
	Guides      Name = "guides"
	Categories  Name = "categories"
	About       Name = "about"
	Contact     Name = "contact"
	Privacy     Name = "privacy"
	Terms       Name = "terms"
	Newsletter  Name = "newsletter"
	Login       Name = "login"
	Register    Name = "register"
	DealDetail  Name = "deal"
	StoreDetail Name = "store"
	NotFound    Name = "notfound"
)

// FetchKey selects the data composition strategy.
type FetchKey string

// Fetch strategies. FetchNone reads only the footer aggregate.
const (
	FetchNone     FetchKey = "none"
	FetchDeals    FetchKey = "deals"
	FetchStores   FetchKey = "stores"
	FetchProducts FetchKey = "products"
	FetchGuides   FetchKey = "guides"
	FetchDeal     FetchKey = "deal"
	FetchStore    FetchKey = "store"
)

// RenderKey selects the page template.
type RenderKey string

// Route is the result of resolving a path.
type Route struct {
	Name   Name
	Fetch  FetchKey
	Render RenderKey
	// Path is the normalized request path.
	Path string
	// Slug is the captured segment of a parameterized entry.
	Slug string
}

// Matcher tests a normalized path.
type Matcher interface {
	Match(path string) (slug string, ok bool)
	Pattern() string
}

// Exact matches one path.
type Exact string

// Match implements Matcher.
func (e Exact) Match(path string) (string, bool) { return "", path == string(e) }

// Pattern implements Matcher.
func (e Exact) Pattern() string { return string(e) }

// Param matches Prefix followed by exactly one non-empty segment.
type Param string

// Match implements Matcher.
func (p Param) Match(path string) (string, bool) {
	prefix := strings.TrimSuffix(string(p), "/") + "/"
	rest, ok := strings.CutPrefix(path, prefix)
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	return rest, true
}

// Pattern implements Matcher.
func (p Param) Pattern() string { return strings.TrimSuffix(string(p), "/") + "/{slug}" }

// Entry is one row of the dispatch table.
type Entry struct {
	Matcher Matcher
	Name    Name
	Fetch   FetchKey
	Render  RenderKey
}

var table = []Entry{
	{Exact("/"), Home, FetchNone, "home"},
	{Exact("/deals"), Deals, FetchDeals, "deals"},
	{Exact("/stores"), Stores, FetchStores, "stores"},
	{Exact("/products"), Products, FetchProducts, "products"},
	{Exact("/guides"), Guides, FetchGuides, "guides"},
	{Exact("/categories"), Categories, FetchNone, "categories"},
	{Exact("/about"), About, FetchNone, "about"},
	{Exact("/contact"), Contact, FetchNone, "contact"},
	{Exact("/privacy"), Privacy, FetchNone, "privacy"},
	{Exact("/terms"), Terms, FetchNone, "terms"},
	{Exact("/newsletter"), Newsletter, FetchNone, "newsletter"},
	{Exact("/login"), Login, FetchNone, "login"},
	{Exact("/register"), Register, FetchNone, "register"},
	{Param("/deal"), DealDetail, FetchDeal, "deal"},
	{Param("/store"), StoreDetail, FetchStore, "store"},
}

var fallback = Entry{Matcher: Exact("*"), Name: NotFound, Fetch: FetchNone, Render: "notfound"}

// Table returns a copy of the dispatch table followed by the fallback entry.
func Table() []Entry {
	out := make([]Entry, 0, len(table)+1)
	out = append(out, table...)
	return append(out, fallback)
}

// Resolve returns the first entry matching the normalized path, or the fallback.
// It never fails and performs no I/O.
func Resolve(path string) Route {
	p := Normalize(path)
	for _, e := range table {
		if slug, ok := e.Matcher.Match(p); ok {
			return Route{Name: e.Name, Fetch: e.Fetch, Render: e.Render, Path: p, Slug: slug}
		}
	}
	return Route{Name: fallback.Name, Fetch: fallback.Fetch, Render: fallback.Render, Path: p}
}

// Normalize strips the query string and fragment, collapses repeated slashes and removes
// trailing slashes. The result always starts with "/". Case is preserved.
func Normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	var b strings.Builder
	b.Grow(len(path) + 1)
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			continue
		}
		b.WriteByte('/')
		b.WriteString(seg)
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}
