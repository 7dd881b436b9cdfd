package pdfio

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ValidateBytes checks that data is a structurally sound PDF with at least
// one page. Relaxed validation mode matches what real-world producers emit.
func ValidateBytes(data []byte) error {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return fmt.Errorf("failed to read PDF context: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return fmt.Errorf("failed to ensure page count: %w", err)
	}
	if ctx.PageCount < 1 {
		return fmt.Errorf("document has no pages")
	}
	return nil
}

// ValidateFile checks the document at path the same way.
func ValidateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}
	return ValidateBytes(data)
}
