package route

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path  string
		name  Name
		fetch FetchKey
		slug  string
		norm  string
	}{
		{path: "/", name: Home, fetch: FetchNone, norm: "/"},
		{path: "", name: Home, fetch: FetchNone, norm: "/"},
		{path: "/deals", name: Deals, fetch: FetchDeals, norm: "/deals"},
		{path: "/deals/", name: Deals, fetch: FetchDeals, norm: "/deals"},
		{path: "/deals?page=2", name: Deals, fetch: FetchDeals, norm: "/deals"},
		{path: "//stores//", name: Stores, fetch: FetchStores, norm: "/stores"},
		{path: "/guides#top", name: Guides, fetch: FetchGuides, norm: "/guides"},
		{path: "/products", name: Products, fetch: FetchProducts, norm: "/products"},
		{path: "/register", name: Register, fetch: FetchNone, norm: "/register"},
		{path: "/deal/summer-sale", name: DealDetail, fetch: FetchDeal, slug: "summer-sale", norm: "/deal/summer-sale"},
		{path: "/deal/summer-sale/", name: DealDetail, fetch: FetchDeal, slug: "summer-sale", norm: "/deal/summer-sale"},
		{path: "/store/noon", name: StoreDetail, fetch: FetchStore, slug: "noon", norm: "/store/noon"},
		{path: "/deal", name: NotFound, fetch: FetchNone, norm: "/deal"},
		{path: "/deal/a/b", name: NotFound, fetch: FetchNone, norm: "/deal/a/b"},
		{path: "/Deals", name: NotFound, fetch: FetchNone, norm: "/Deals"},
		{path: "/does/not/exist", name: NotFound, fetch: FetchNone, norm: "/does/not/exist"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			got := Resolve(tt.path)
			require.Equal(t, tt.name, got.Name)
			require.Equal(t, tt.fetch, got.Fetch)
			require.Equal(t, tt.slug, got.Slug)
			require.Equal(t, tt.norm, got.Path)
			require.NotEmpty(t, got.Render)
		})
	}
}

func TestResolveIsTotal(t *testing.T) {
	t.Parallel()

	inputs := []string{"?", "#", "///", "/\x00", "/%2e%2e/", "/deal//x", "/store/?q=1", "/ع/مرحبا"}
	for _, in := range inputs {
		require.NotPanics(t, func() {
			r := Resolve(in)
			require.NotEmpty(t, r.Name)
			require.NotEmpty(t, r.Render)
		}, in)
	}
}

func TestTableEndsWithFallback(t *testing.T) {
	t.Parallel()

	entries := Table()
	require.Len(t, entries, len(table)+1)
	require.Equal(t, NotFound, entries[len(entries)-1].Name)
	require.Equal(t, "/deal/{slug}", Param("/deal").Pattern())

	entries[0].Name = "mutated"
	require.Equal(t, Home, Resolve("/").Name)
}
