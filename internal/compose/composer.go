// Package compose assembles the PageData bag for a resolved route. Every backend read is
// isolated: a failure empties its own slice and never aborts the rest of the composition.
package compose

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/JakeFAU/dealsite-ssr/internal/backend"
	"github.com/JakeFAU/dealsite-ssr/internal/catalog"
	"github.com/JakeFAU/dealsite-ssr/internal/route"
)

// relatedDealsCap is how many related deals a deal page shows.
const relatedDealsCap = 4

// Options tune the reads issued per route. ScanLimit bounds the scan that matches derived
// slugs when a keyed lookup misses.
type Options struct {
	PageSize       int
	ScanLimit      int
	ReadTimeout    time.Duration
	DefaultLang    catalog.Lang
	DefaultCountry string
}

// Composer issues the reads a route needs and folds them into PageData.
type Composer struct {
	reader     *reader
	footer     *Fetcher
	normalizer catalog.Normalizer
	opts       Options
}

// New creates a Composer over b.
func New(b backend.Backend, opts Options, logger *zap.Logger) *Composer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 24
	}
	if opts.ScanLimit <= 0 {
		opts.ScanLimit = 200
	}
	if opts.DefaultLang == "" {
		opts.DefaultLang = catalog.LangArabic
	}
	return &Composer{
		reader: &reader{backend: b, timeout: opts.ReadTimeout, logger: logger},
		footer: NewFetcher(b, opts.ReadTimeout, logger),
		opts:   opts,
	}
}

// Fetch composes the PageData for r. The footer aggregate is always fetched, concurrently
// with the route reads. Fetch blocks until every read has finished or been abandoned, and
// always returns well-formed data.
func (c *Composer) Fetch(ctx context.Context, r route.Route, req catalog.PageRequest) catalog.PageData {
	data := catalog.NewPageData(catalog.ParseLang(req.Param("lang"), c.opts.DefaultLang))

	country := req.Param("country")
	if country == "" {
		country = c.opts.DefaultCountry
	}

	var (
		footer catalog.FooterAggregate
		g      errgroup.Group
	)
	g.Go(func() error {
		footer = c.footer.Footer(ctx, country)
		return nil
	})
	g.Go(func() error {
		c.primary(ctx, r, req, &data)
		return nil
	})
	_ = g.Wait()

	data.Footer = footer
	data.Normalize()
	return data
}

func (c *Composer) primary(ctx context.Context, r route.Route, req catalog.PageRequest, data *catalog.PageData) {
	offset := (req.PageNumber() - 1) * c.opts.PageSize
	page := backend.Query{}.Page(c.opts.PageSize, offset)

	switch r.Fetch {
	case route.FetchDeals:
		for _, rec := range c.reader.list(ctx, "deals", backend.KindDeals, page.Newest("created_at")) {
			data.Deals = append(data.Deals, c.normalizer.Deal(rec))
		}
		data.Total = len(data.Deals)
	case route.FetchStores:
		for _, rec := range c.reader.list(ctx, "stores", backend.KindStores, page.Newest("created_at")) {
			data.Stores = append(data.Stores, c.normalizer.Store(rec))
		}
		data.Total = len(data.Stores)
	case route.FetchProducts:
		for _, rec := range c.reader.list(ctx, "products", backend.KindProducts, page.Newest("created_at")) {
			data.Products = append(data.Products, c.normalizer.Product(rec))
		}
		data.Total = len(data.Products)
	case route.FetchGuides:
		for _, rec := range c.reader.list(ctx, "articles", backend.KindArticles, page.Newest("published_at")) {
			data.Articles = append(data.Articles, c.normalizer.Article(rec))
		}
		data.Total = len(data.Articles)
	case route.FetchDeal:
		c.deal(ctx, r.Slug, data)
	case route.FetchStore:
		c.store(ctx, r.Slug, data)
	}
}

// deal finds the deal for slug, then reads its store and related deals concurrently.
func (c *Composer) deal(ctx context.Context, slug string, data *catalog.PageData) {
	found := c.findDeal(ctx, slug, data.Lang)
	if found == nil {
		return
	}
	deal := *found
	data.Product = &deal
	if deal.StoreID == "" {
		return
	}

	var (
		store   *catalog.Store
		related []catalog.Deal
		g       errgroup.Group
	)
	g.Go(func() error {
		if rec, ok := c.reader.get(ctx, "store", backend.KindStores, "id", deal.StoreID); ok {
			s := c.normalizer.Store(rec)
			store = &s
		}
		return nil
	})
	g.Go(func() error {
		q := backend.Query{}.Where("store_id", deal.StoreID).Newest("created_at").Page(relatedDealsCap+1, 0)
		for _, rec := range c.reader.list(ctx, "related_deals", backend.KindDeals, q) {
			d := c.normalizer.Deal(rec)
			if d.ID == deal.ID {
				continue
			}
			related = append(related, d)
		}
		related = capped(related, relatedDealsCap)
		return nil
	})
	_ = g.Wait()

	data.Store = store
	data.RelatedDeals = related
}

// findDeal reads by id for a UUID-shaped slug. Otherwise it tries the bare slug column, then
// the language-suffixed columns (lang first), then scans for a matching derived slug.
func (c *Composer) findDeal(ctx context.Context, slug string, lang catalog.Lang) *catalog.Deal {
	if catalog.IsUUID(slug) {
		if rec, ok := c.reader.get(ctx, "product", backend.KindDeals, "id", slug); ok {
			d := c.normalizer.Deal(rec)
			return &d
		}
		return nil
	}

	fields := []string{"slug", "slug_" + string(lang), "slug_" + string(otherLang(lang))}
	for _, field := range fields {
		if rec, ok := c.reader.get(ctx, "product", backend.KindDeals, field, slug); ok {
			d := c.normalizer.Deal(rec)
			return &d
		}
	}

	q := backend.Query{}.Ascending("id").Page(c.opts.ScanLimit, 0)
	for _, rec := range c.reader.list(ctx, "product_scan", backend.KindDeals, q) {
		d := c.normalizer.Deal(rec)
		if d.Slug.AR == slug || d.Slug.EN == slug {
			return &d
		}
	}
	return nil
}

func otherLang(lang catalog.Lang) catalog.Lang {
	if lang == catalog.LangEnglish {
		return catalog.LangArabic
	}
	return catalog.LangEnglish
}

// store reads the store by slug. Stores without a stored slug are found by scanning and
// comparing their derived slug.
func (c *Composer) store(ctx context.Context, slug string, data *catalog.PageData) {
	var store *catalog.Store
	if rec, found := c.reader.get(ctx, "store", backend.KindStores, "slug", slug); found {
		s := c.normalizer.Store(rec)
		store = &s
	} else {
		q := backend.Query{}.Ascending("id").Page(c.opts.ScanLimit, 0)
		for _, rec := range c.reader.list(ctx, "store_scan", backend.KindStores, q) {
			s := c.normalizer.Store(rec)
			if s.Slug.AR == slug || s.Slug.EN == slug {
				store = &s
				break
			}
		}
	}
	if store == nil {
		return
	}
	data.Store = store

	q := backend.Query{}.Where("store_id", store.ID).Newest("created_at").Page(c.opts.PageSize, 0)
	for _, rec := range c.reader.list(ctx, "store_deals", backend.KindDeals, q) {
		data.Deals = append(data.Deals, c.normalizer.Deal(rec))
	}
	data.Total = len(data.Deals)
}
