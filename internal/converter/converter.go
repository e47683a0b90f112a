// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package converter

import (
	"fmt"
	"os"

	"github.com/pdf-ocr/internal/logger"
	"github.com/pdf-ocr/internal/ocr"
	"github.com/pdf-ocr/internal/pdf"
)

// Run statuses recorded in a Report
const (
	StatusOK      = "ok"
	StatusPartial = "partial"
	StatusNoPages = "no_pages"
	StatusNoText  = "no_text"
)

// Rasterizer turns a PDF into ordered page images. An empty result means
// the document could not be rasterized.
type Rasterizer interface {
	Rasterize(filePath string) []pdf.Page
}

// Extractor recognizes the text of ordered page images
type Extractor interface {
	Extract(pages []pdf.Page) []ocr.PageResult
}

// Report describes a single document run
type Report struct {
	DocumentPath string
	OutputPath   string
	Text         string
	Pages        int
	FailedPages  []int
	Persisted    bool
	Status       string
}

// Converter runs the rasterize → OCR → save pipeline for one document at a
// time. It holds no state between runs.
type Converter struct {
	rasterizer Rasterizer
	extractor  Extractor
	log        *logger.Logger
}

// NewConverter creates a converter from its two stages
func NewConverter(rasterizer Rasterizer, extractor Extractor, log *logger.Logger) *Converter {
	if log == nil {
		log = logger.Discard
	}
	return &Converter{
		rasterizer: rasterizer,
		extractor:  extractor,
		log:        log,
	}
}

// ProcessDocument converts the PDF at documentPath to text. When outputPath
// is not empty the text is also written there. Failures are logged, never
// returned: an empty string means no page could be rasterized.
func (c *Converter) ProcessDocument(documentPath, outputPath string) string {
	return c.ProcessDocumentReport(documentPath, outputPath).Text
}

// ProcessDocumentReport is ProcessDocument with the run details
func (c *Converter) ProcessDocumentReport(documentPath, outputPath string) *Report {
	report := &Report{
		DocumentPath: documentPath,
		OutputPath:   outputPath,
	}

	pages := c.rasterizer.Rasterize(documentPath)
	if len(pages) == 0 {
		c.log.Errorf("no images produced from %s", documentPath)
		report.Status = StatusNoPages
		return report
	}
	report.Pages = len(pages)

	results := c.extractor.Extract(pages)
	report.Text = ocr.Join(results)
	report.FailedPages = ocr.FailedPages(results)

	switch {
	case len(report.FailedPages) == len(results):
		report.Status = StatusNoText
	case len(report.FailedPages) > 0:
		report.Status = StatusPartial
	default:
		report.Status = StatusOK
	}

	if outputPath != "" {
		if err := SaveText(report.Text, outputPath); err != nil {
			c.log.Errorf("file save error for %s: %v", outputPath, err)
		} else {
			report.Persisted = true
			c.log.Infof("text saved to %s", outputPath)
		}
	}

	return report
}

// SaveText writes text to path as UTF-8, creating or truncating the file
func SaveText(text, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if _, err := file.WriteString(text); err != nil {
		file.Close()
		return fmt.Errorf("failed to write output file: %w", err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}
