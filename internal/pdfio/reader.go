// Package pdfio wraps the PDF collaborators the core transforms rely on:
// page-by-page text recovery, structural validation of PDF bytes, asset
// resolution and atomic destination writes.
package pdfio

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Reader recovers plain text from rendered PDFs, page order preserved.
type Reader struct {
	maxFileSize int64
	maxTextSize int
}

// NewReader creates a reader with the specified file size constraint.
func NewReader(maxFileSize int64) *Reader {
	return &Reader{
		maxFileSize: maxFileSize,
		maxTextSize: 10 * 1024 * 1024, // 10MB text limit
	}
}

// ReadText extracts the full text of the document at path, one page at a
// time, with a newline between pages.
func (r *Reader) ReadText(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return "", fmt.Errorf("cannot access file: %w", err)
	}
	if err := r.validateSource(path, fileInfo); err != nil {
		return "", err
	}

	f, pdfReader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	return r.collectText(pdfReader), nil
}

// ReadTextBytes extracts text from in-memory PDF bytes, for callers that
// receive the document over the wire rather than from disk.
func (r *Reader) ReadTextBytes(data []byte) (string, error) {
	if int64(len(data)) > r.maxFileSize {
		return "", fmt.Errorf("document too large: %d bytes (max: %d bytes)", len(data), r.maxFileSize)
	}

	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	return r.collectText(pdfReader), nil
}

func (r *Reader) collectText(pdfReader *pdf.Reader) string {
	var builder strings.Builder
	totalLength := 0

	for pageNum := 1; pageNum <= pdfReader.NumPage(); pageNum++ {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			// Continue with other pages even if one fails
			continue
		}

		if totalLength+len(content) > r.maxTextSize {
			remaining := r.maxTextSize - totalLength
			if remaining > 0 {
				builder.WriteString(content[:remaining])
			}
			break
		}

		builder.WriteString(content)
		builder.WriteString("\n")
		totalLength += len(content) + 1
	}

	return builder.String()
}

func (r *Reader) validateSource(path string, fileInfo os.FileInfo) error {
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return fmt.Errorf("file is not a PDF: %s", path)
	}
	if fileInfo.Size() > r.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)", fileInfo.Size(), r.maxFileSize)
	}
	return nil
}
