package ssr

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/dealsite-ssr/internal/catalog"
	"github.com/JakeFAU/dealsite-ssr/internal/render"
	"github.com/JakeFAU/dealsite-ssr/internal/route"
	"github.com/JakeFAU/dealsite-ssr/internal/seo"
)

type fakeComposer struct {
	mu    sync.Mutex
	calls []route.Route
}

func (f *fakeComposer) Fetch(_ context.Context, r route.Route, req catalog.PageRequest) catalog.PageData {
	f.mu.Lock()
	f.calls = append(f.calls, r)
	f.mu.Unlock()
	return catalog.NewPageData(catalog.ParseLang(req.Param("lang"), catalog.LangArabic))
}

type fakeAssembler struct {
	err   error
	panic bool
}

func (f fakeAssembler) Assemble(r route.Route, _ catalog.PageData, meta seo.Metadata, graph seo.Node) (render.Document, error) {
	if f.panic {
		panic("template exploded")
	}
	if f.err != nil {
		return render.Document{}, f.err
	}
	body := string(r.Name) + "|" + meta.Title
	if graph != nil {
		body += "|graph"
	}
	return render.Document{Status: http.StatusOK, Body: []byte(body)}, nil
}

type panickingSynth struct{ *seo.Synthesizer }

func (panickingSynth) Metadata(route.Route, catalog.PageData) seo.Metadata {
	panic("nil map")
}

func newSynth() *seo.Synthesizer {
	return seo.New(seo.Site{Name: "Deals", BaseURL: "https://deals.example"}, nil)
}

func TestHandleRunsStagesInOrder(t *testing.T) {
	t.Parallel()

	composer := &fakeComposer{}
	p := New(composer, newSynth(), fakeAssembler{}, nil)

	doc, err := p.Handle(context.Background(), catalog.PageRequest{Path: "/deals/", Query: map[string]string{"lang": "en"}})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, doc.Status)
	require.Equal(t, "deals|Latest Deals and Offers | Deals|graph", string(doc.Body))
	require.Len(t, composer.calls, 1)
	require.Equal(t, route.FetchDeals, composer.calls[0].Fetch)
}

func TestHandleUnmatchedRouteSucceeds(t *testing.T) {
	t.Parallel()

	p := New(&fakeComposer{}, newSynth(), fakeAssembler{}, nil)
	doc, err := p.Handle(context.Background(), catalog.PageRequest{Path: "/no/such/page"})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, doc.Status)
}

func TestHandleWrapsAssemblyError(t *testing.T) {
	t.Parallel()

	boom := errors.New("write failed")
	p := New(&fakeComposer{}, newSynth(), fakeAssembler{err: boom}, nil)

	_, err := p.Handle(context.Background(), catalog.PageRequest{Path: "/"})
	require.ErrorIs(t, err, boom)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	require.Equal(t, StageAssemble, stageErr.Stage)
}

func TestHandleConvertsPanics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		p     *Pipeline
		stage Stage
	}{
		{
			name:  "assembly panic",
			p:     New(&fakeComposer{}, newSynth(), fakeAssembler{panic: true}, nil),
			stage: StageAssemble,
		},
		{
			name:  "synthesis panic",
			p:     New(&fakeComposer{}, panickingSynth{Synthesizer: newSynth()}, fakeAssembler{}, nil),
			stage: StageSynthesize,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var err error
			require.NotPanics(t, func() {
				_, err = tt.p.Handle(context.Background(), catalog.PageRequest{Path: "/"})
			})
			var stageErr *StageError
			require.ErrorAs(t, err, &stageErr)
			require.Equal(t, tt.stage, stageErr.Stage)
			require.Contains(t, err.Error(), "panic")
		})
	}
}
