// Package seo synthesizes per-route search metadata and JSON-LD structured data from
// composed page data.
package seo

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/JakeFAU/dealsite-ssr/internal/catalog"
	"github.com/JakeFAU/dealsite-ssr/internal/clock"
	"github.com/JakeFAU/dealsite-ssr/internal/route"
)

// Robots directives.
const (
	RobotsIndex   = "index, follow"
	RobotsNoIndex = "noindex, follow"
)

// fallbackCount is interpolated into listing copy when the live count is unknown.
const fallbackCount = "1000+"

// Site carries the branding the synthesizers stamp on every page.
type Site struct {
	Name       string
	BaseURL    string
	Author     string
	ThemeColor string
	Twitter    string
	Image      string
}

// ProductMeta holds the product:* Open Graph fields of a deal page.
type ProductMeta struct {
	PriceAmount   string
	PriceCurrency string
	Availability  string
}

// Metadata is the SEO record of one page. Every string field is populated.
type Metadata struct {
	Charset     string
	Viewport    string
	Title       string
	Description string
	Keywords    string
	Robots      string
	Author      string
	Canonical   string
	Locale      string
	SiteName    string
	ThemeColor  string
	Type        string
	Image       string
	TwitterCard string
	TwitterSite string
	Product     *ProductMeta
	// Discount is the whole-number percentage saved, set only when it could be computed.
	Discount *int
}

// Tag is one rendered <meta> element. Exactly one of Name and Property is set.
type Tag struct {
	Name     string
	Property string
	Content  string
}

// Tags lists the metadata as meta elements, in document order. Charset and title are
// rendered separately.
func (m Metadata) Tags() []Tag {
	tags := []Tag{
		{Name: "viewport", Content: m.Viewport},
		{Name: "description", Content: m.Description},
		{Name: "keywords", Content: m.Keywords},
		{Name: "robots", Content: m.Robots},
		{Name: "author", Content: m.Author},
		{Name: "theme-color", Content: m.ThemeColor},
		{Property: "og:type", Content: m.Type},
		{Property: "og:title", Content: m.Title},
		{Property: "og:description", Content: m.Description},
		{Property: "og:url", Content: m.Canonical},
		{Property: "og:image", Content: m.Image},
		{Property: "og:site_name", Content: m.SiteName},
		{Property: "og:locale", Content: m.Locale},
		{Name: "twitter:card", Content: m.TwitterCard},
		{Name: "twitter:site", Content: m.TwitterSite},
		{Name: "twitter:title", Content: m.Title},
		{Name: "twitter:description", Content: m.Description},
		{Name: "twitter:image", Content: m.Image},
	}
	if p := m.Product; p != nil {
		if p.PriceAmount != "" {
			tags = append(tags, Tag{Property: "product:price:amount", Content: p.PriceAmount})
		}
		tags = append(tags,
			Tag{Property: "product:price:currency", Content: p.PriceCurrency},
			Tag{Property: "product:availability", Content: p.Availability},
		)
	}
	return tags
}

// Synthesizer builds Metadata and structured data for a route.
type Synthesizer struct {
	site  Site
	clock clock.Clock
}

// New creates a Synthesizer. A nil clk uses the system clock.
func New(site Site, clk clock.Clock) *Synthesizer {
	if clk == nil {
		clk = clock.System{}
	}
	site.BaseURL = strings.TrimRight(site.BaseURL, "/")
	if site.Name == "" {
		site.Name = "Deals"
	}
	if site.Author == "" {
		site.Author = site.Name
	}
	if site.Twitter == "" {
		site.Twitter = "@" + catalog.Slugify(site.Name)
	}
	if site.ThemeColor == "" {
		site.ThemeColor = "#ffffff"
	}
	return &Synthesizer{site: site, clock: clk}
}

// Metadata returns the complete metadata of r for data.
func (s *Synthesizer) Metadata(r route.Route, data catalog.PageData) Metadata {
	lang := data.Lang
	m := s.base(r, lang)

	c := copyFor(r.Name, lang)
	switch r.Name {
	case route.Deals, route.Stores, route.Products, route.Guides:
		m.Title = s.title(c.Title)
		m.Description = fmt.Sprintf(c.Description, count(data.Total))
	case route.DealDetail:
		s.deal(&m, data, lang)
	case route.NotFound:
		m.Title = s.title(c.Title)
		m.Description = c.Description
		m.Robots = RobotsNoIndex
	default:
		m.Title = s.title(c.Title)
		m.Description = c.Description
	}

	s.fill(&m, r, lang)
	return m
}

func (s *Synthesizer) base(r route.Route, lang catalog.Lang) Metadata {
	return Metadata{
		Charset:     "utf-8",
		Viewport:    "width=device-width, initial-scale=1",
		Keywords:    keywords(lang),
		Robots:      RobotsIndex,
		Author:      s.site.Author,
		Canonical:   s.url(r.Path),
		Locale:      locale(lang),
		SiteName:    s.site.Name,
		ThemeColor:  s.site.ThemeColor,
		Type:        "website",
		Image:       s.url(s.site.Image),
		TwitterCard: "summary_large_image",
		TwitterSite: s.site.Twitter,
	}
}

func (s *Synthesizer) deal(m *Metadata, data catalog.PageData, lang catalog.Lang) {
	generic := copyFor(route.DealDetail, lang)
	d := data.Product
	if d == nil {
		m.Title = s.title(generic.Title)
		m.Description = generic.Description
		return
	}

	title := d.Title.In(lang)
	store := d.StoreName.In(lang)
	if data.Store != nil {
		store = data.Store.Name.In(lang)
	}

	phrases := phrasesFor(lang)
	heading := title
	if store != "" {
		heading = fmt.Sprintf(phrases.at, title, store)
	}
	m.Title = s.title(heading)

	desc := d.Description.In(lang)
	if desc == "" {
		desc = generic.Description
	}
	if pct, ok := DiscountPercent(d.OriginalPrice, d.Price); ok {
		m.Discount = &pct
		desc = fmt.Sprintf(phrases.save, pct) + " " + desc
	}
	m.Description = desc
	m.Type = "product"
	if d.ImageURL != "" {
		m.Image = s.url(d.ImageURL)
	}

	availability := "in stock"
	if d.Expired(s.clock.Now()) {
		availability = "out of stock"
	}
	m.Product = &ProductMeta{
		PriceCurrency: d.Currency,
		Availability:  availability,
	}
	if d.Price != nil {
		m.Product.PriceAmount = price(*d.Price)
	}
}

// fill restores defaults for any field an overlay left blank.
func (s *Synthesizer) fill(m *Metadata, r route.Route, lang catalog.Lang) {
	def := s.base(r, lang)
	fallback := copyFor(route.NotFound, lang)
	for _, f := range []struct {
		field *string
		value string
	}{
		{&m.Charset, def.Charset},
		{&m.Viewport, def.Viewport},
		{&m.Title, s.title(fallback.Title)},
		{&m.Description, fallback.Description},
		{&m.Keywords, def.Keywords},
		{&m.Robots, def.Robots},
		{&m.Author, def.Author},
		{&m.Canonical, def.Canonical},
		{&m.Locale, def.Locale},
		{&m.SiteName, def.SiteName},
		{&m.ThemeColor, def.ThemeColor},
		{&m.Type, def.Type},
		{&m.Image, def.Image},
		{&m.TwitterCard, def.TwitterCard},
		{&m.TwitterSite, def.TwitterSite},
	} {
		if strings.TrimSpace(*f.field) == "" {
			*f.field = f.value
		}
	}
}

// DiscountPercent returns round((original-current)/original*100). It reports false when
// either price is missing, original is not positive, or nothing is saved.
func DiscountPercent(original, current *float64) (int, bool) {
	if original == nil || current == nil || !(*original > 0) || math.IsInf(*original, 0) {
		return 0, false
	}
	pct := int(math.Round((*original - *current) / *original * 100))
	if pct <= 0 {
		return 0, false
	}
	return pct, true
}

func (s *Synthesizer) title(page string) string {
	if page == "" {
		return s.site.Name
	}
	return page + " | " + s.site.Name
}

// url resolves p against the site base URL. Absolute URLs pass through.
func (s *Synthesizer) url(p string) string {
	if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return p
	}
	if p == "" || p == "/" {
		return s.site.BaseURL + "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return s.site.BaseURL + p
}

func count(total int) string {
	if total > 0 {
		return strconv.Itoa(total)
	}
	return fallbackCount
}

func price(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func locale(lang catalog.Lang) string {
	if lang == catalog.LangEnglish {
		return "en_US"
	}
	return "ar_SA"
}
