// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package pdf

import (
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"

	"github.com/pdf-ocr/internal/logger"
)

// DefaultDPI is the render resolution used when none is configured
const DefaultDPI = 300

// Page is one rendered PDF page
type Page struct {
	Number int // 1-based
	Image  image.Image
}

// document is the subset of *fitz.Document the rasterizer needs
type document interface {
	NumPage() int
	ImageDPI(pageNumber int, dpi float64) (*image.RGBA, error)
	Close() error
}

func openFitz(filePath string) (document, error) {
	doc, err := fitz.New(filePath)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Rasterizer renders PDF pages to images using go-fitz (MuPDF)
type Rasterizer struct {
	dpi  float64
	log  *logger.Logger
	open func(filePath string) (document, error)
}

// NewRasterizer creates a rasterizer rendering at dpi
func NewRasterizer(dpi float64, log *logger.Logger) *Rasterizer {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	if log == nil {
		log = logger.Discard
	}
	return &Rasterizer{
		dpi:  dpi,
		log:  log,
		open: openFitz,
	}
}

// Rasterize renders every page of the document in order. Any failure is
// logged and reported as an empty result; an empty result always means
// there is nothing to OCR.
func (r *Rasterizer) Rasterize(filePath string) []Page {
	pages, err := r.render(filePath)
	if err != nil {
		r.log.Errorf("PDF conversion error for %s: %v", filePath, err)
		return nil
	}
	if len(pages) == 0 {
		r.log.Warnf("%s has no pages", filePath)
		return nil
	}

	r.log.Infof("%s converted to %d page images", filePath, len(pages))
	return pages
}

func (r *Rasterizer) render(filePath string) ([]Page, error) {
	doc, err := r.open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	numPages := doc.NumPage()
	pages := make([]Page, 0, numPages)

	for i := 0; i < numPages; i++ {
		img, err := doc.ImageDPI(i, r.dpi)
		if err != nil {
			return nil, fmt.Errorf("failed to render page %d: %w", i+1, err)
		}
		pages = append(pages, Page{Number: i + 1, Image: img})
	}

	return pages, nil
}
