package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/JakeFAU/dealsite-ssr/internal/backend"
)

func fixtureStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(map[backend.Kind][]backend.Record{
		backend.KindDeals: {
			backend.Record(`{"id":"1","store_id":"a","is_featured":true,"created_at":"2026-01-01T00:00:00Z"}`),
			backend.Record(`{"id":"2","store_id":"b","is_featured":false,"created_at":"2026-03-01T00:00:00Z"}`),
			backend.Record(`{"id":"3","store_id":"a","is_featured":true,"created_at":"2026-02-01T00:00:00Z"}`),
			backend.Record(`{"id":"4","store_id":"a","created_at":null}`),
		},
		backend.KindCategories: {
			backend.Record(`{"id":10,"name":"Fashion"}`),
			backend.Record(`{"id":2,"name":"Electronics"}`),
		},
	})
	require.NoError(t, err)
	return s
}

func ids(t *testing.T, records []backend.Record) []string {
	t.Helper()
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, gjsonID(r))
	}
	return out
}

func gjsonID(r backend.Record) string {
	return gjson.GetBytes(r, "id").String()
}

func TestListFiltersOrdersAndPages(t *testing.T) {
	t.Parallel()

	s := fixtureStore(t)
	ctx := context.Background()

	got, err := s.List(ctx, backend.KindDeals, backend.Query{}.Where("store_id", "a").Newest("created_at"))
	require.NoError(t, err)
	require.Equal(t, []string{"3", "1", "4"}, ids(t, got))

	got, err = s.List(ctx, backend.KindDeals, backend.Query{}.Where("is_featured", true).Newest("created_at").Page(1, 0))
	require.NoError(t, err)
	require.Equal(t, []string{"3"}, ids(t, got))

	got, err = s.List(ctx, backend.KindDeals, backend.Query{}.Newest("created_at").Page(2, 1))
	require.NoError(t, err)
	require.Equal(t, []string{"3", "1"}, ids(t, got))

	got, err = s.List(ctx, backend.KindCategories, backend.Query{}.Ascending("id"))
	require.NoError(t, err)
	require.Equal(t, []string{"2", "10"}, ids(t, got))

	got, err = s.List(ctx, backend.KindDeals, backend.Query{Offset: 50})
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)

	got, err = s.List(ctx, backend.KindStores, backend.Query{})
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestGetByKey(t *testing.T) {
	t.Parallel()

	s := fixtureStore(t)

	rec, found, err := s.GetByKey(context.Background(), backend.KindDeals, "id", "2")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "2", gjsonID(rec))

	_, found, err = s.GetByKey(context.Background(), backend.KindDeals, "id", "missing")
	require.NoError(t, err)
	require.False(t, found)

	_, _, err = s.GetByKey(context.Background(), backend.Kind("users"), "id", "1")
	require.ErrorIs(t, err, backend.ErrUnknownKind)
}

func TestCanceledContext(t *testing.T) {
	t.Parallel()

	s := fixtureStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.List(ctx, backend.KindDeals, backend.Query{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoadFixtureFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "fixtures.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"stores":[{"id":"s1","name":"Noon"}]}`), 0o600))

	s, err := Load(path)
	require.NoError(t, err)
	got, err := s.List(context.Background(), backend.KindStores, backend.Query{})
	require.NoError(t, err)
	require.Len(t, got, 1)

	_, err = Load(filepath.Join(dir, "missing.json"))
	require.ErrorContains(t, err, "read fixtures")

	require.NoError(t, os.WriteFile(path, []byte(`{"users":[]}`), 0o600))
	_, err = Load(path)
	require.ErrorIs(t, err, backend.ErrUnknownKind)
}
