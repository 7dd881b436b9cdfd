// Package render turns a validated invoice record plus a template into a
// paginated PDF document. The layout is a fixed vertical flow on US-Letter
// pages; templates vary colors, fonts and spacing, not structure.
package render

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/invoiceartisan/invoice-artisan/internal/invoice"
	"github.com/invoiceartisan/invoice-artisan/internal/pdfio"
	"github.com/invoiceartisan/invoice-artisan/internal/template"
)

// Page geometry in points: US-Letter with 0.6 inch margins.
const (
	pageWidth  = 612.0
	pageHeight = 792.0
	pageMargin = 43.2
)

// FooterCaption is always rendered regardless of template or record content.
const FooterCaption = "Thank you for your business!"

// RenderError reports an unexpected failure mid-layout. No partial document
// is emitted alongside it.
type RenderError struct {
	Stage string
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render failed during %s: %v", e.Stage, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Renderer produces invoice documents. It holds the template registry it was
// composed with and an ordered list of logo candidate paths; construct with
// NewRenderer and share freely, Render never mutates its inputs.
type Renderer struct {
	registry       *template.Registry
	logoCandidates []string
}

// NewRenderer creates a renderer backed by the given registry. logoCandidates
// is the ordered list of asset locations tried for the header logo; a miss is
// fine, a textual placeholder is substituted.
func NewRenderer(registry *template.Registry, logoCandidates []string) *Renderer {
	return &Renderer{
		registry:       registry,
		logoCandidates: logoCandidates,
	}
}

// Render lays out rec using the named template (unknown ids degrade to the
// registry default) and returns the finished PDF bytes.
func (r *Renderer) Render(rec *invoice.Record, templateID string) ([]byte, error) {
	return r.RenderTemplate(rec, r.registry.Get(templateID))
}

// RenderTemplate is Render with an explicit template value.
func (r *Renderer) RenderTemplate(rec *invoice.Record, tpl template.Template) (out []byte, err error) {
	if rec == nil {
		return nil, &RenderError{Stage: "setup", Err: fmt.Errorf("record is nil")}
	}
	if len(rec.Items) == 0 {
		return nil, &RenderError{Stage: "setup", Err: fmt.Errorf("record has no line items")}
	}

	// A panic anywhere in layout must surface as a RenderError, never as a
	// partial document.
	defer func() {
		if p := recover(); p != nil {
			out = nil
			err = &RenderError{Stage: "layout", Err: fmt.Errorf("panic: %v", p)}
		}
	}()

	doc := gofpdf.New("P", "pt", "Letter", "")
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.SetAutoPageBreak(true, pageMargin)
	doc.SetTitle("Invoice "+rec.Invoice.Number, true)
	doc.SetCreator("invoice-artisan", true)
	doc.AddPage()

	logoPath, _ := pdfio.ResolveAsset(r.logoCandidates)

	l := newLayout(doc, rec, tpl, logoPath)
	l.run()

	if doc.Err() {
		return nil, &RenderError{Stage: "layout", Err: doc.Error()}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, &RenderError{Stage: "output", Err: err}
	}
	return buf.Bytes(), nil
}

// RenderToFile renders rec and writes the document to path. The bytes are
// validated before being moved into place; a failed render or a malformed
// document never leaves partial output at the destination.
func (r *Renderer) RenderToFile(rec *invoice.Record, templateID, path string) error {
	data, err := r.Render(rec, templateID)
	if err != nil {
		return err
	}
	if err := pdfio.ValidateBytes(data); err != nil {
		return &RenderError{Stage: "verify", Err: err}
	}
	if err := pdfio.WriteFileAtomic(path, data); err != nil {
		return &RenderError{Stage: "write", Err: err}
	}
	return nil
}
