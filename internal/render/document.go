// Package render turns composed page data into the final HTML document: page markup,
// metadata, JSON-LD, the hydration payload and the fixed response headers.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"github.com/JakeFAU/dealsite-ssr/internal/catalog"
	"github.com/JakeFAU/dealsite-ssr/internal/route"
	"github.com/JakeFAU/dealsite-ssr/internal/seo"
)

// Document is a complete HTTP response.
type Document struct {
	Status int
	Header http.Header
	Body   []byte
}

// Write sends the document to w.
func (d Document) Write(w http.ResponseWriter) error {
	for k, vs := range d.Header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(d.Status)
	if _, err := w.Write(d.Body); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

// Options configures the document shell.
type Options struct {
	ClientScript string
	ClientStyle  string
}

// Assembler produces the final HTML document for a page.
type Assembler struct {
	pages PageRenderer
	opts  Options
	doc   *template.Template
}

type documentView struct {
	Lang           catalog.Lang
	Dir            string
	Meta           seo.Metadata
	StructuredData template.JS
	Body           template.HTML
	Hydration      template.JS
	Script         string
	Style          string
}

// NewAssembler creates an Assembler that renders page bodies with pages.
func NewAssembler(pages PageRenderer, opts Options) (*Assembler, error) {
	doc, err := template.ParseFS(templateFS, "templates/document.html")
	if err != nil {
		return nil, fmt.Errorf("parse document template: %w", err)
	}
	if opts.ClientScript == "" {
		opts.ClientScript = "/assets/client.js"
	}
	if opts.ClientStyle == "" {
		opts.ClientStyle = "/assets/client.css"
	}
	return &Assembler{pages: pages, opts: opts, doc: doc}, nil
}

// Assemble renders the page and wraps it in the document. The hydration payload is data
// serialized as-is; graph is omitted when nil.
func (a *Assembler) Assemble(r route.Route, data catalog.PageData, meta seo.Metadata, graph seo.Node) (Document, error) {
	body, err := a.pages.Render(r, data, meta)
	if err != nil {
		return Document{}, err //nolint:wrapcheck // already carries the template name
	}

	hydration, err := inlineJSON(data)
	if err != nil {
		return Document{}, fmt.Errorf("encode hydration payload: %w", err)
	}
	var ld template.JS
	if graph != nil {
		if ld, err = inlineJSON(graph); err != nil {
			return Document{}, fmt.Errorf("encode structured data: %w", err)
		}
	}

	view := documentView{
		Lang:           data.Lang,
		Dir:            direction(data.Lang),
		Meta:           meta,
		StructuredData: ld,
		Body:           body,
		Hydration:      hydration,
		Script:         a.opts.ClientScript,
		Style:          a.opts.ClientStyle,
	}
	var buf bytes.Buffer
	if err := a.doc.Execute(&buf, view); err != nil {
		return Document{}, fmt.Errorf("assemble document: %w", err)
	}
	return Document{Status: http.StatusOK, Header: Headers(), Body: buf.Bytes()}, nil
}

// inlineJSON encodes v for embedding inside a <script> element. The encoder escapes <, >, &,
// U+2028 and U+2029, so the payload can neither close the element nor break the script.
func inlineJSON(v any) (template.JS, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(true)
	if err := enc.Encode(v); err != nil {
		return "", err //nolint:wrapcheck // wrapped by callers
	}
	return template.JS(bytes.TrimRight(buf.Bytes(), "\n")), nil //nolint:gosec // escaped above
}

func direction(lang catalog.Lang) string {
	if lang == catalog.LangArabic {
		return "rtl"
	}
	return "ltr"
}

const errorBody = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Something went wrong</title><meta name="robots" content="noindex"></head>
<body><h1>Something went wrong</h1><p>Please try again in a moment.</p><p><a href="/">Home</a></p></body>
</html>
`

// ErrorDocument is the fixed minimal response for a failed render.
func ErrorDocument() Document {
	return Document{
		Status: http.StatusInternalServerError,
		Header: http.Header{
			"Content-Type":           {"text/html; charset=utf-8"},
			"Cache-Control":          {"no-store"},
			"X-Content-Type-Options": {"nosniff"},
		},
		Body: []byte(errorBody),
	}
}
