package seo

import (
	"time"

	"github.com/JakeFAU/dealsite-ssr/internal/catalog"
	"github.com/JakeFAU/dealsite-ssr/internal/route"
)

// MaxListItems caps the items of a listing graph.
const MaxListItems = 10

const schemaContext = "https://schema.org"

// Node is one JSON-LD object.
type Node map[string]any

// StructuredData returns the JSON-LD graph of r, or nil when the route has none.
func (s *Synthesizer) StructuredData(r route.Route, data catalog.PageData) Node {
	lang := data.Lang
	switch r.Name {
	case route.Deals:
		items := make([]Node, 0, min(len(data.Deals), MaxListItems))
		for i, d := range capItems(data.Deals) {
			items = append(items, Node{
				"@type":    "ListItem",
				"position": i + 1,
				"item":     s.offer(d, data.Store, lang),
			})
		}
		c := copyFor(route.Deals, lang)
		return Node{
			"@context":        schemaContext,
			"@type":           "CollectionPage",
			"name":            c.Title,
			"url":             s.url(r.Path),
			"numberOfItems":   len(items),
			"itemListElement": items,
		}
	case route.DealDetail:
		if data.Product == nil {
			return nil
		}
		return s.product(*data.Product, data.Store, lang)
	case route.Guides:
		items := make([]Node, 0, min(len(data.Articles), MaxListItems))
		for i, a := range capItems(data.Articles) {
			items = append(items, Node{
				"@type":    "ListItem",
				"position": i + 1,
				"item":     s.article(a, lang),
			})
		}
		c := copyFor(route.Guides, lang)
		return Node{
			"@context": schemaContext,
			"@type":    "CollectionPage",
			"name":     c.Title,
			"url":      s.url(r.Path),
			"mainEntity": Node{
				"@type":           "ItemList",
				"numberOfItems":   len(items),
				"itemListElement": items,
			},
		}
	default:
		return nil
	}
}

func (s *Synthesizer) offer(d catalog.Deal, store *catalog.Store, lang catalog.Lang) Node {
	n := Node{
		"@type":         "Offer",
		"name":          d.Title.In(lang),
		"url":           s.url(dealPath(d, lang)),
		"priceCurrency": d.Currency,
		"availability":  s.availability(d),
		"seller":        organization(sellerName(d, store, lang)),
		"provider":      organization(s.site.Name),
	}
	if desc := d.Description.In(lang); desc != "" {
		n["description"] = desc
	}
	if d.Price != nil {
		n["price"] = price(*d.Price)
	}
	if d.Code != "" {
		n["serialNumber"] = d.Code
	}
	if d.ExpiresAt != nil {
		n["validThrough"] = d.ExpiresAt.Format(time.RFC3339)
	}
	return n
}

func (s *Synthesizer) product(d catalog.Deal, store *catalog.Store, lang catalog.Lang) Node {
	offer := Node{
		"@type":         "Offer",
		"url":           s.url(dealPath(d, lang)),
		"priceCurrency": d.Currency,
		"availability":  s.availability(d),
		"seller":        organization(sellerName(d, store, lang)),
	}
	if d.Price != nil {
		offer["price"] = price(*d.Price)
	}
	if d.CreatedAt != nil {
		offer["validFrom"] = d.CreatedAt.Format(time.RFC3339)
	}
	if d.ExpiresAt != nil {
		offer["priceValidUntil"] = d.ExpiresAt.Format(time.DateOnly)
	}

	n := Node{
		"@context": schemaContext,
		"@type":    "Product",
		"name":     d.Title.In(lang),
		"sku":      d.ID,
		"offers":   offer,
	}
	if desc := d.Description.In(lang); desc != "" {
		n["description"] = desc
	}
	if d.ImageURL != "" {
		n["image"] = s.url(d.ImageURL)
	}
	n["brand"] = Node{"@type": "Brand", "name": sellerName(d, store, lang)}
	return n
}

func (s *Synthesizer) article(a catalog.Article, lang catalog.Lang) Node {
	n := Node{
		"@type":    "Article",
		"headline": a.Title.In(lang),
		"url":      s.url("/guides") + "#" + a.Slug,
		"author":   Node{"@type": "Person", "name": a.Author.In(lang)},
	}
	if excerpt := a.Excerpt.In(lang); excerpt != "" {
		n["description"] = excerpt
	}
	if a.PublishedAt != nil {
		n["datePublished"] = a.PublishedAt.Format(time.RFC3339)
	}
	if a.ImageURL != "" {
		n["image"] = s.url(a.ImageURL)
	}
	return n
}

func (s *Synthesizer) availability(d catalog.Deal) string {
	if d.Expired(s.clock.Now()) {
		return "https://schema.org/OutOfStock"
	}
	return "https://schema.org/InStock"
}

func organization(name string) Node {
	return Node{"@type": "Organization", "name": name}
}

func sellerName(d catalog.Deal, store *catalog.Store, lang catalog.Lang) string {
	if store != nil && store.ID == d.StoreID {
		return store.Name.In(lang)
	}
	if name := d.StoreName.In(lang); name != "" {
		return name
	}
	return catalog.PlaceholderStore
}

func dealPath(d catalog.Deal, lang catalog.Lang) string {
	return "/deal/" + d.Slug.In(lang)
}

func capItems[T any](s []T) []T {
	if len(s) > MaxListItems {
		return s[:MaxListItems]
	}
	return s
}
