package api

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JakeFAU/dealsite-ssr/internal/assets"
	"github.com/JakeFAU/dealsite-ssr/internal/backend"
	"github.com/JakeFAU/dealsite-ssr/internal/backend/memory"
	"github.com/JakeFAU/dealsite-ssr/internal/catalog"
	"github.com/JakeFAU/dealsite-ssr/internal/compose"
	"github.com/JakeFAU/dealsite-ssr/internal/render"
	"github.com/JakeFAU/dealsite-ssr/internal/route"
	"github.com/JakeFAU/dealsite-ssr/internal/seo"
	"github.com/JakeFAU/dealsite-ssr/internal/ssr"
)

// flakyPages panics on the first n renders, then delegates.
type flakyPages struct {
	next   render.PageRenderer
	panics atomic.Int32
}

func (f *flakyPages) Render(r route.Route, data catalog.PageData, meta seo.Metadata) (template.HTML, error) {
	if f.panics.Add(-1) >= 0 {
		panic("synthetic render failure")
	}
	return f.next.Render(r, data, meta)
}

type stubPipeline struct {
	doc render.Document
	err error
}

func (s stubPipeline) Handle(context.Context, catalog.PageRequest) (render.Document, error) {
	return s.doc, s.err
}

func newAssetStore(t *testing.T) *assets.Store {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "assets"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "assets", "client.js"), []byte("console.log(1)"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "robots.txt"), []byte("User-agent: *"), 0o600))
	store, err := assets.New(root)
	require.NoError(t, err)
	return store
}

func newTestServer(t *testing.T, renderPanics int32) *Server {
	t.Helper()

	mem, err := memory.New(map[backend.Kind][]backend.Record{
		backend.KindDeals: {
			backend.Record(`{"id":"d1","slug":"summer","title_en":"Summer sale","store_id":"s1","original_price":100,"price":60,"created_at":"2024-05-01T00:00:00Z"}`),
		},
		backend.KindStores: {
			backend.Record(`{"id":"s1","name":"Noon"}`),
		},
	})
	require.NoError(t, err)

	pages, err := render.NewPages("Deals")
	require.NoError(t, err)
	flaky := &flakyPages{next: pages}
	flaky.panics.Store(renderPanics)
	assembler, err := render.NewAssembler(flaky, render.Options{})
	require.NoError(t, err)

	pipeline := ssr.New(
		compose.New(mem, compose.Options{ReadTimeout: time.Second, DefaultLang: catalog.LangEnglish}, nil),
		seo.New(seo.Site{Name: "Deals", BaseURL: "https://deals.example"}, nil),
		assembler,
		nil,
	)
	return NewServer(pipeline, newAssetStore(t), Config{
		StaticFiles:    []string{"robots.txt", "favicon.ico"},
		MetricsEnabled: true,
	}, zap.NewNop())
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestServer_Healthz(t *testing.T) {
	t.Parallel()

	rec := do(t, newTestServer(t, 0).Handler(), http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestServer_ReusesInboundRequestID(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, 0).Handler()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "edge-1234")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, "edge-1234", rec.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", maxRequestIDLen+1))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Len(t, rec.Header().Get("X-Request-ID"), 36)
}

func TestServer_Readyz(t *testing.T) {
	t.Parallel()

	ok := NewServer(stubPipeline{}, nil, Config{}, nil)
	require.Equal(t, http.StatusOK, do(t, ok.Handler(), http.MethodGet, "/readyz").Code)

	down := NewServer(stubPipeline{}, nil, Config{Ready: func(context.Context) error {
		return errors.New("redis unreachable")
	}}, nil)
	rec := do(t, down.Handler(), http.MethodGet, "/readyz")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServer_RendersPageWithFixedHeaders(t *testing.T) {
	t.Parallel()

	rec := do(t, newTestServer(t, 0).Handler(), http.MethodGet, "/deal/summer?lang=en")
	require.Equal(t, http.StatusOK, rec.Code)
	for name, want := range render.Headers() {
		require.Equal(t, want, rec.Header().Values(name), name)
	}

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	require.Equal(t, "Summer sale", strings.TrimSpace(doc.Find(".deal-detail h1").Text()))
	require.Contains(t, doc.Find(`meta[name="description"]`).AttrOr("content", ""), "40%")
	require.Equal(t, 1, doc.Find(`script[type="application/ld+json"]`).Length())
}

func TestServer_UnknownDealRendersFallback(t *testing.T) {
	t.Parallel()

	rec := do(t, newTestServer(t, 0).Handler(), http.MethodGet, "/deal/does-not-exist")
	require.Equal(t, http.StatusOK, rec.Code)

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	require.Equal(t, 0, doc.Find(`script[type="application/ld+json"]`).Length())
	require.Equal(t, 1, doc.Find(".missing").Length())
}

func TestServer_RenderFailureReturnsErrorDocumentAndKeepsServing(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, 1).Handler()

	first := do(t, h, http.MethodGet, "/")
	require.Equal(t, http.StatusInternalServerError, first.Code)
	require.Equal(t, string(render.ErrorDocument().Body), first.Body.String())
	require.Equal(t, "no-store", first.Header().Get("Cache-Control"))

	second := do(t, h, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, second.Code)
	require.Contains(t, second.Body.String(), "window.__INITIAL_DATA__")
}

func TestServer_PipelineErrorAndPanic(t *testing.T) {
	t.Parallel()

	failing := NewServer(stubPipeline{err: &ssr.StageError{Stage: ssr.StageAssemble, Err: errors.New("boom")}}, nil, Config{}, nil)
	rec := do(t, failing.Handler(), http.MethodGet, "/about")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, string(render.ErrorDocument().Body), rec.Body.String())

	panicking := NewServer(panicPipeline{}, nil, Config{}, nil)
	rec = do(t, panicking.Handler(), http.MethodGet, "/about")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, string(render.ErrorDocument().Body), rec.Body.String())
}

type panicPipeline struct{}

func (panicPipeline) Handle(context.Context, catalog.PageRequest) (render.Document, error) {
	panic("unexpected")
}

func TestServer_Head(t *testing.T) {
	t.Parallel()

	rec := do(t, newTestServer(t, 0).Handler(), http.MethodHead, "/stores")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	require.Zero(t, rec.Body.Len())
}

func TestServer_StaticAssets(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, 0).Handler()

	rec := do(t, h, http.MethodGet, "/assets/client.js")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, assets.CacheControl, rec.Header().Get("Cache-Control"))
	require.Equal(t, "text/javascript; charset=utf-8", rec.Header().Get("Content-Type"))

	rec = do(t, h, http.MethodGet, "/robots.txt")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "User-agent: *", rec.Body.String())

	require.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/favicon.ico").Code)
	require.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/assets/missing.css").Code)
	require.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/assets/").Code)
}

func TestServer_Metrics(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, 0).Handler()
	do(t, h, http.MethodGet, "/deals")

	rec := do(t, h, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.True(t, bytes.Contains(body, []byte("http_requests_total")))
	require.True(t, bytes.Contains(body, []byte("ssr_pages_total")))
}

func TestServer_RequestTimeoutBoundsPipeline(t *testing.T) {
	t.Parallel()

	var deadline time.Time
	p := pipelineFunc(func(ctx context.Context, _ catalog.PageRequest) (render.Document, error) {
		deadline, _ = ctx.Deadline()
		return render.Document{Status: http.StatusOK, Header: render.Headers()}, nil
	})
	s := NewServer(p, nil, Config{RequestTimeout: 5 * time.Second}, nil)

	start := time.Now()
	require.Equal(t, http.StatusOK, do(t, s.Handler(), http.MethodGet, "/").Code)
	require.WithinDuration(t, start.Add(5*time.Second), deadline, time.Second)
}

type pipelineFunc func(ctx context.Context, req catalog.PageRequest) (render.Document, error)

func (f pipelineFunc) Handle(ctx context.Context, req catalog.PageRequest) (render.Document, error) {
	return f(ctx, req)
}
