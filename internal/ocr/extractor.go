// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package ocr

import (
	"image"
	"strings"

	"github.com/pdf-ocr/internal/logger"
	"github.com/pdf-ocr/internal/pdf"
)

// PageSeparator joins page texts in the document text
const PageSeparator = "\n\n"

// Engine recognizes the text in a single page image
type Engine interface {
	Recognize(img image.Image, language string) (string, error)
}

// TrimPageBreak removes the line break and form feed tesseract appends to
// every page. The recognized text itself is left as is.
func TrimPageBreak(text string) string {
	return strings.TrimRight(text, "\r\n\f")
}

// PageResult is the outcome of OCR on one page. Err is set when recognition
// failed; Text may be empty on success.
type PageResult struct {
	Page int
	Text string
	Err  error
}

// OK reports whether the page was recognized
func (r PageResult) OK() bool {
	return r.Err == nil
}

// Extractor runs OCR over page images one at a time
type Extractor struct {
	engine   Engine
	language string
	log      *logger.Logger
}

// NewExtractor creates an extractor using engine with a fixed language
func NewExtractor(engine Engine, language string, log *logger.Logger) *Extractor {
	if log == nil {
		log = logger.Discard
	}
	return &Extractor{
		engine:   engine,
		language: language,
		log:      log,
	}
}

// Language returns the configured OCR language
func (e *Extractor) Language() string {
	return e.language
}

// Extract recognizes every page in order. A failed page is logged and
// recorded; it never stops the remaining pages.
func (e *Extractor) Extract(pages []pdf.Page) []PageResult {
	results := make([]PageResult, 0, len(pages))

	for i, page := range pages {
		index := i + 1
		text, err := e.engine.Recognize(page.Image, e.language)
		if err != nil {
			e.log.Errorf("page %d text extraction error: %v", index, err)
			results = append(results, PageResult{Page: page.Number, Err: err})
			continue
		}
		e.log.Infof("page %d text extraction succeeded", index)
		results = append(results, PageResult{Page: page.Number, Text: text})
	}

	return results
}

// ExtractText recognizes every page and joins the successful results
func (e *Extractor) ExtractText(pages []pdf.Page) string {
	return Join(e.Extract(pages))
}

// Join concatenates the text of successful pages in order. Failed pages
// contribute nothing, not even a separator.
func Join(results []PageResult) string {
	texts := make([]string, 0, len(results))
	for _, r := range results {
		if r.OK() {
			texts = append(texts, r.Text)
		}
	}
	return strings.Join(texts, PageSeparator)
}

// FailedPages returns the page numbers whose recognition failed
func FailedPages(results []PageResult) []int {
	var failed []int
	for _, r := range results {
		if !r.OK() {
			failed = append(failed, r.Page)
		}
	}
	return failed
}
