package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/invoiceartisan/invoice-artisan/internal/invoice"
	"github.com/invoiceartisan/invoice-artisan/internal/pdfio"
)

// errorResponse is the JSON body for every failed request.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Field string `json:"field,omitempty"`
	Item  int    `json:"item,omitempty"`
}

// templateInfo is the public view of one registered template.
type templateInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Features    []string `json:"features,omitempty"`
	Default     bool     `json:"default,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.config.Version,
	})
}

func (s *Server) handleTemplates(w http.ResponseWriter, _ *http.Request) {
	var infos []templateInfo
	for _, tpl := range s.registry.List() {
		infos = append(infos, templateInfo{
			ID:          tpl.ID,
			Name:        tpl.Name,
			Description: tpl.Description,
			Features:    tpl.Features,
			Default:     tpl.ID == s.config.DefaultTemplate,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"templates": infos})
}

// handleRender turns a YAML or JSON source document into a PDF attachment.
// Malformed documents get 400, documents that fail validation get 422 with
// the offending field, renderer failures get 500.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxFileSize))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("request body: %w", err))
		return
	}

	raw, err := invoice.DecodeSource(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	rec, err := invoice.Validate(raw)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	templateID := r.URL.Query().Get("template")
	if templateID == "" {
		templateID = s.config.DefaultTemplate
	}

	pdf, err := s.renderer.Render(rec, templateID)
	if err != nil {
		log.Printf("render failed for invoice %s: %v", rec.Invoice.Number, err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename="+pdfFilename(rec.Invoice.Number))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		log.Printf("failed to write PDF response: %v", err)
	}
}

// handleExtract recovers a source document from uploaded PDF bytes. The YAML
// response carries the extraction warnings as leading comment lines so the
// need for manual review travels with the document.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxFileSize))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("request body: %w", err))
		return
	}

	if err := pdfio.ValidateBytes(body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("not a readable PDF: %w", err))
		return
	}
	text, err := s.reader.ReadTextBytes(body)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, fmt.Errorf("text extraction: %w", err))
		return
	}

	res := s.extractor.Extract(text)
	out, err := invoice.EncodeSource(res.Record)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	var buf strings.Builder
	for _, warning := range res.Warnings {
		buf.WriteString("# warning: ")
		buf.WriteString(warning)
		buf.WriteString("\n")
	}
	buf.Write(out)

	w.Header().Set("Content-Type", "application/x-yaml")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, buf.String()); err != nil {
		log.Printf("failed to write YAML response: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := errorResponse{Error: err.Error()}
	var verr *invoice.ValidationError
	if errors.As(err, &verr) {
		resp.Kind = string(verr.Kind)
		resp.Field = verr.Field
		resp.Item = verr.Item
	}
	writeJSON(w, status, resp)
}

var filenameSafeRe = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// pdfFilename derives an attachment name from the invoice number.
func pdfFilename(number string) string {
	safe := filenameSafeRe.ReplaceAllString(number, "-")
	safe = strings.Trim(safe, "-.")
	if safe == "" {
		safe = "invoice"
	}
	return safe + ".pdf"
}
