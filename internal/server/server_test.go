package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JakeFAU/dealsite-ssr/internal/config"
)

const fixtures = `{
  "deals": [
    {"id": "d1", "slug": "summer", "title_en": "Summer sale", "title_ar": "تخفيضات الصيف", "created_at": "2024-05-01T00:00:00Z"}
  ],
  "stores": [
    {"id": "s1", "slug": "noon", "name": "Noon", "country": "sa"}
  ]
}`

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	root := filepath.Join(dir, "public")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "assets"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "robots.txt"), []byte("User-agent: *"), 0o600))
	fixturePath := filepath.Join(dir, "fixtures.json")
	require.NoError(t, os.WriteFile(fixturePath, []byte(fixtures), 0o600))

	return config.Config{
		Server:  config.ServerConfig{Port: 0, RequestTimeout: 5 * time.Second, ShutdownTimeout: time.Second},
		Site:    config.SiteConfig{Name: "Deals", BaseURL: "https://deals.example", DefaultLang: "en"},
		Backend: config.BackendConfig{Driver: "memory", Fixtures: fixturePath, ReadTimeout: time.Second},
		Compose: config.ComposeConfig{PageSize: 24, StoreScanLimit: 200},
		Assets:  config.AssetsConfig{Root: root, StaticFiles: []string{"robots.txt"}},
	}
}

func TestBuildServesPagesFromFixtures(t *testing.T) {
	t.Parallel()

	app, err := Build(context.Background(), testConfig(t), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(app.Close)

	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/deals", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Summer sale")

	rec = httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/robots.txt", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestBuildWithoutFixturesRendersEmptySlices(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Backend.Fixtures = ""
	app, err := Build(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(app.Close)

	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "coming-soon")
}

func TestBuildErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{name: "unknown driver", mutate: func(c *config.Config) { c.Backend.Driver = "mongo" }, want: "unknown backend driver"},
		{name: "missing fixtures", mutate: func(c *config.Config) { c.Backend.Fixtures = "/nonexistent/fixtures.json" }, want: "memory backend"},
		{name: "missing asset root", mutate: func(c *config.Config) { c.Assets.Root = "/nonexistent/public" }, want: "assets"},
		{name: "bad postgres dsn", mutate: func(c *config.Config) {
			c.Backend.Driver = "postgres"
			c.Backend.DSN = "://not a dsn"
		}, want: "postgres backend"},
		{name: "bad redis url", mutate: func(c *config.Config) {
			c.Cache.Enabled = true
			c.Cache.RedisURL = "not-a-url"
		}, want: "cache"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := testConfig(t)
			tt.mutate(&cfg)
			_, err := Build(context.Background(), cfg, zap.NewNop())
			require.ErrorContains(t, err, tt.want)
		})
	}
}

func TestRunStopsWhenContextIsCanceled(t *testing.T) {
	t.Parallel()

	app, err := Build(context.Background(), testConfig(t), zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}
