package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"github.com/JakeFAU/dealsite-ssr/internal/catalog"
	"github.com/JakeFAU/dealsite-ssr/internal/route"
	"github.com/JakeFAU/dealsite-ssr/internal/seo"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageRenderer renders the component tree of a page into markup.
type PageRenderer interface {
	Render(r route.Route, data catalog.PageData, meta seo.Metadata) (template.HTML, error)
}

// Pages renders the embedded page templates.
type Pages struct {
	site string
	tmpl *template.Template
}

type pageView struct {
	Site        string
	Route       route.Route
	Lang        catalog.Lang
	Description string
	Data        catalog.PageData
	Main        template.HTML
}

type cardView struct {
	Lang    catalog.Lang
	Deal    catalog.Deal
	Store   catalog.Store
	Article catalog.Article
	Product catalog.Product
}

// NewPages parses the page templates.
func NewPages(site string) (*Pages, error) {
	tmpl, err := template.New("pages").Funcs(funcs()).ParseFS(templateFS, "templates/partials.html", "templates/pages.html")
	if err != nil {
		return nil, fmt.Errorf("parse page templates: %w", err)
	}
	return &Pages{site: site, tmpl: tmpl}, nil
}

// Render executes the template named by r.Render inside the shared shell.
func (p *Pages) Render(r route.Route, data catalog.PageData, meta seo.Metadata) (template.HTML, error) {
	name := string(r.Render)
	if p.tmpl.Lookup(name) == nil {
		return "", fmt.Errorf("no template for render key %q", name)
	}
	view := pageView{Site: p.site, Route: r, Lang: data.Lang, Description: meta.Description, Data: data}

	var main bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&main, name, view); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	view.Main = template.HTML(main.String()) //nolint:gosec // output of html/template

	var out bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&out, "shell", view); err != nil {
		return "", fmt.Errorf("render shell: %w", err)
	}
	return template.HTML(out.String()), nil //nolint:gosec // output of html/template
}

// Has reports whether a template exists for key.
func (p *Pages) Has(key route.RenderKey) bool {
	return p.tmpl.Lookup(string(key)) != nil
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"label": label,
		"loc": func(l catalog.Localized, lang catalog.Lang) string {
			return l.In(lang)
		},
		"dealURL": func(d catalog.Deal, lang catalog.Lang) string {
			return "/deal/" + d.Slug.In(lang)
		},
		"storeURL": func(s catalog.Store, lang catalog.Lang) string {
			return "/store/" + s.Slug.In(lang)
		},
		"discount": discountText,
		"money": func(v float64, currency string) string {
			return strconv.FormatFloat(v, 'f', 2, 64) + " " + currency
		},
		"date": func(t time.Time) string {
			return t.Format(time.DateOnly)
		},
		"card": func(root pageView, item any) (cardView, error) {
			c := cardView{Lang: root.Lang}
			switch v := item.(type) {
			case catalog.Deal:
				c.Deal = v
			case catalog.Store:
				c.Store = v
			case catalog.Article:
				c.Article = v
			case catalog.Product:
				c.Product = v
			default:
				return c, fmt.Errorf("card: unsupported item %T", item)
			}
			return c, nil
		},
	}
}

func discountText(d catalog.Deal) string {
	if d.Discount == nil {
		return ""
	}
	v := strconv.FormatFloat(d.Discount.Value, 'f', -1, 64)
	if d.Discount.Kind == catalog.DiscountPercent {
		return v + "%"
	}
	return v + " " + d.Currency
}
