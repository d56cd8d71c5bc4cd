package compose

import (
	"context"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/JakeFAU/dealsite-ssr/internal/backend"
	"github.com/JakeFAU/dealsite-ssr/internal/catalog"
)

// footerStoreCandidates is how many stores are read before sampling.
const footerStoreCandidates = 20

// Fetcher builds the footer aggregate shown on every page.
type Fetcher struct {
	reader     *reader
	normalizer catalog.Normalizer
	shuffle    func(n int, swap func(i, j int))
}

// NewFetcher creates a Fetcher over b. Each read is bounded by timeout.
func NewFetcher(b backend.Backend, timeout time.Duration, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		reader:  &reader{backend: b, timeout: timeout, logger: logger},
		shuffle: rand.Shuffle,
	}
}

// Footer reads the four footer slices concurrently. A failed slice is left empty; the
// others are unaffected. An empty country applies no filter.
func (f *Fetcher) Footer(ctx context.Context, country string) catalog.FooterAggregate {
	var (
		out catalog.FooterAggregate
		g   errgroup.Group
	)

	g.Go(func() error {
		q := backend.Query{}.Where("is_featured", true).Newest("created_at").Page(catalog.FooterFeaturedDeals, 0)
		for _, rec := range capped(f.reader.list(ctx, "footer_featured_deals", backend.KindDeals, q), catalog.FooterFeaturedDeals) {
			out.FeaturedDeals = append(out.FeaturedDeals, f.normalizer.Deal(rec))
		}
		return nil
	})
	g.Go(func() error {
		q := backend.Query{}.Page(footerStoreCandidates, 0)
		if country != "" {
			q = q.Where("country", country)
		}
		stores := make([]catalog.Store, 0, footerStoreCandidates)
		for _, rec := range f.reader.list(ctx, "footer_top_stores", backend.KindStores, q) {
			stores = append(stores, f.normalizer.Store(rec))
		}
		out.TopStores = f.sample(stores, catalog.FooterStoreSample)
		return nil
	})
	g.Go(func() error {
		q := backend.Query{}.Ascending("id").Page(catalog.FooterCategories, 0)
		for _, rec := range capped(f.reader.list(ctx, "footer_categories", backend.KindCategories, q), catalog.FooterCategories) {
			out.Categories = append(out.Categories, f.normalizer.Category(rec))
		}
		return nil
	})
	g.Go(func() error {
		q := backend.Query{}.Newest("is_featured").Newest("published_at").Page(catalog.FooterGuides, 0)
		for _, rec := range capped(f.reader.list(ctx, "footer_guides", backend.KindArticles, q), catalog.FooterGuides) {
			out.Guides = append(out.Guides, f.normalizer.Article(rec))
		}
		return nil
	})

	_ = g.Wait()
	out.Normalize()
	return out
}

// sample shuffles stores uniformly and keeps the first n.
func (f *Fetcher) sample(stores []catalog.Store, n int) []catalog.Store {
	f.shuffle(len(stores), func(i, j int) { stores[i], stores[j] = stores[j], stores[i] })
	return capped(stores, n)
}

func capped[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
