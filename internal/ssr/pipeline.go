// Package ssr runs the per-request render pipeline: dispatch, compose, synthesize and
// assemble. Stages run once each, in order, with no retries.
package ssr

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/JakeFAU/dealsite-ssr/internal/catalog"
	"github.com/JakeFAU/dealsite-ssr/internal/metrics"
	"github.com/JakeFAU/dealsite-ssr/internal/render"
	"github.com/JakeFAU/dealsite-ssr/internal/route"
	"github.com/JakeFAU/dealsite-ssr/internal/seo"
)

// Stage names a pipeline step.
type Stage string

// Pipeline stages, in execution order.
const (
	StageDispatch   Stage = "dispatch"
	StageCompose    Stage = "compose"
	StageSynthesize Stage = "synthesize"
	StageAssemble   Stage = "assemble"
)

// StageError reports the stage a request failed in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Composer builds page data for a route. It must not fail.
type Composer interface {
	Fetch(ctx context.Context, r route.Route, req catalog.PageRequest) catalog.PageData
}

// Synthesizer derives metadata and structured data from page data.
type Synthesizer interface {
	Metadata(r route.Route, data catalog.PageData) seo.Metadata
	StructuredData(r route.Route, data catalog.PageData) seo.Node
}

// Assembler produces the final document.
type Assembler interface {
	Assemble(r route.Route, data catalog.PageData, meta seo.Metadata, graph seo.Node) (render.Document, error)
}

// Pipeline wires the stages together.
type Pipeline struct {
	composer  Composer
	synth     Synthesizer
	assembler Assembler
	logger    *zap.Logger
}

// New creates a Pipeline.
func New(composer Composer, synth Synthesizer, assembler Assembler, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{composer: composer, synth: synth, assembler: assembler, logger: logger}
}

// Handle renders req. Any failure or panic is returned as a *StageError; the caller is
// expected to answer with render.ErrorDocument.
func (p *Pipeline) Handle(ctx context.Context, req catalog.PageRequest) (render.Document, error) {
	var (
		r     route.Route
		data  catalog.PageData
		meta  seo.Metadata
		graph seo.Node
		doc   render.Document
	)

	steps := []struct {
		stage Stage
		run   func() error
	}{
		{StageDispatch, func() error {
			r = route.Resolve(req.Path)
			return nil
		}},
		{StageCompose, func() error {
			data = p.composer.Fetch(ctx, r, req)
			return nil
		}},
		{StageSynthesize, func() error {
			meta = p.synth.Metadata(r, data)
			graph = p.synth.StructuredData(r, data)
			return nil
		}},
		{StageAssemble, func() error {
			var err error
			doc, err = p.assembler.Assemble(r, data, meta, graph)
			return err
		}},
	}

	for _, step := range steps {
		if err := guard(step.stage, step.run); err != nil {
			metrics.ObservePage(string(r.Name), "error")
			return render.Document{}, err
		}
	}

	metrics.ObservePage(string(r.Name), "ok")
	p.logger.Debug("page rendered",
		zap.String("route", string(r.Name)),
		zap.String("path", r.Path),
		zap.Int("bytes", len(doc.Body)),
	)
	return doc, nil
}

func guard(stage Stage, run func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &StageError{Stage: stage, Err: fmt.Errorf("panic: %v", rec)}
		}
	}()
	if err := run(); err != nil {
		return &StageError{Stage: stage, Err: err}
	}
	return nil
}
