package acquire

import (
	"context"
	"log/slog"
	"os"

	"github.com/poiesic/finsight/core"
	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/schema"
)

// PDFLoader loads page-segmented body text from PDF reports.
type PDFLoader struct {
	logger *slog.Logger
}

// NewPDFLoader creates a new PDF body-text loader.
func NewPDFLoader() *PDFLoader {
	return &PDFLoader{
		logger: slog.Default().With("component", "pdf-loader"),
	}
}

// LoadPages reads the PDF at path and returns one document per page, in
// page order, with "page" metadata attached by the loader. A whole-document
// open or parse failure is fatal and surfaces as *core.AcquisitionError.
func (l *PDFLoader) LoadPages(ctx context.Context, path string) ([]schema.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.NewAcquisitionError(path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, core.NewAcquisitionError(path, err)
	}

	loader := documentloaders.NewPDF(f, info.Size())
	docs, err := loader.Load(ctx)
	if err != nil {
		return nil, core.NewAcquisitionError(path, err)
	}

	l.logger.Debug("loaded PDF pages", "path", path, "pages", len(docs))
	return docs, nil
}

// PageNumber reads the loader-attached page number from a document's
// metadata, or 0 when absent.
func PageNumber(doc schema.Document) int {
	switch v := doc.Metadata["page"].(type) {
	case int:
		return v
	case float64:
		return int(v)
	case string:
		// The upstream loader has historically stored pages as strings.
		n := 0
		for _, r := range v {
			if r < '0' || r > '9' {
				return 0
			}
			n = n*10 + int(r-'0')
		}
		return n
	}
	return 0
}
