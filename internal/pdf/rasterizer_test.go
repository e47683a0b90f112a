// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdf-ocr/internal/logger"
)

// fakeDocument renders blank pages and can fail on a chosen page
type fakeDocument struct {
	pages   int
	failAt  int // 0-based, -1 disables
	closed  bool
	renders []int
}

func (d *fakeDocument) NumPage() int { return d.pages }

func (d *fakeDocument) ImageDPI(pageNumber int, dpi float64) (*image.RGBA, error) {
	d.renders = append(d.renders, pageNumber)
	if pageNumber == d.failAt {
		return nil, errors.New("render failed")
	}
	return image.NewRGBA(image.Rect(0, 0, int(dpi), int(dpi))), nil
}

func (d *fakeDocument) Close() error {
	d.closed = true
	return nil
}

func newTestRasterizer(buf *bytes.Buffer, doc *fakeDocument, openErr error) *Rasterizer {
	r := NewRasterizer(10, logger.New(buf))
	r.open = func(string) (document, error) {
		if openErr != nil {
			return nil, openErr
		}
		return doc, nil
	}
	return r
}

func TestRasterize_OrderedPages(t *testing.T) {
	var buf bytes.Buffer
	doc := &fakeDocument{pages: 3, failAt: -1}
	r := newTestRasterizer(&buf, doc, nil)

	pages := r.Rasterize("scan.pdf")

	if len(pages) != 3 {
		t.Fatalf("Expected 3 pages, got %d", len(pages))
	}
	for i, p := range pages {
		if p.Number != i+1 {
			t.Errorf("Page %d has number %d", i, p.Number)
		}
		if p.Image == nil {
			t.Errorf("Page %d has no image", p.Number)
		}
	}
	if !doc.closed {
		t.Error("Document was not closed")
	}
	if !strings.Contains(buf.String(), "[INFO] scan.pdf converted to 3 page images") {
		t.Errorf("Missing success log, got: %s", buf.String())
	}
}

func TestRasterize_UsesConfiguredDPI(t *testing.T) {
	var buf bytes.Buffer
	doc := &fakeDocument{pages: 1, failAt: -1}
	r := newTestRasterizer(&buf, doc, nil)

	pages := r.Rasterize("scan.pdf")

	if got := pages[0].Image.Bounds().Dx(); got != 10 {
		t.Errorf("Expected image rendered at dpi 10, got width %d", got)
	}
}

func TestRasterize_OpenFailureIsEmpty(t *testing.T) {
	var buf bytes.Buffer
	r := newTestRasterizer(&buf, nil, errors.New("no such file"))

	pages := r.Rasterize("missing.pdf")

	if len(pages) != 0 {
		t.Fatalf("Expected no pages, got %d", len(pages))
	}
	out := buf.String()
	if !strings.Contains(out, "[ERROR]") || !strings.Contains(out, "missing.pdf") || !strings.Contains(out, "no such file") {
		t.Errorf("Expected error log with path and cause, got: %s", out)
	}
}

func TestRasterize_PageFailureIsEmpty(t *testing.T) {
	var buf bytes.Buffer
	doc := &fakeDocument{pages: 3, failAt: 1}
	r := newTestRasterizer(&buf, doc, nil)

	pages := r.Rasterize("broken.pdf")

	if len(pages) != 0 {
		t.Fatalf("Expected no pages after render failure, got %d", len(pages))
	}
	if !doc.closed {
		t.Error("Document was not closed after render failure")
	}
	if !strings.Contains(buf.String(), "failed to render page 2") {
		t.Errorf("Expected 1-based page number in log, got: %s", buf.String())
	}
}

func TestRasterize_ZeroPages(t *testing.T) {
	var buf bytes.Buffer
	doc := &fakeDocument{pages: 0, failAt: -1}
	r := newTestRasterizer(&buf, doc, nil)

	pages := r.Rasterize("empty.pdf")

	if len(pages) != 0 {
		t.Fatalf("Expected no pages, got %d", len(pages))
	}
	if !strings.Contains(buf.String(), "[WARN] empty.pdf has no pages") {
		t.Errorf("Expected warning for zero-page document, got: %s", buf.String())
	}
}

func TestNewRasterizer_DefaultDPI(t *testing.T) {
	r := NewRasterizer(0, nil)
	if r.dpi != DefaultDPI {
		t.Errorf("dpi = %v, want %v", r.dpi, DefaultDPI)
	}
}

// writeMinimalPDF writes a PDF with the given number of blank 200x100pt pages
func writeMinimalPDF(t *testing.T, pages int) string {
	t.Helper()

	var objects []string
	objects = append(objects, "<< /Type /Catalog /Pages 2 0 R >>")
	kids := make([]string, pages)
	for i := range kids {
		kids[i] = fmt.Sprintf("%d 0 R", i+3)
	}
	objects = append(objects, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pages))
	for i := 0; i < pages; i++ {
		objects = append(objects, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 200 100] >>")
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	path := filepath.Join(t.TempDir(), "blank.pdf")
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("writeMinimalPDF: %v", err)
	}
	return path
}

func TestRasterize_RealPDF(t *testing.T) {
	path := writeMinimalPDF(t, 2)
	r := NewRasterizer(72, logger.Discard)

	pages := r.Rasterize(path)

	if len(pages) != 2 {
		t.Fatalf("Expected 2 pages, got %d", len(pages))
	}
	b := pages[1].Image.Bounds()
	if b.Dx() <= b.Dy() {
		t.Errorf("Expected landscape page image, got %v", b)
	}
}

func TestRasterize_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.pdf")
	if err := os.WriteFile(path, []byte("this is not a PDF"), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if pages := NewRasterizer(72, logger.Discard).Rasterize(path); len(pages) != 0 {
		t.Errorf("Expected no pages for garbage input, got %d", len(pages))
	}
}

func TestRasterize_MissingFile(t *testing.T) {
	if pages := NewRasterizer(72, logger.Discard).Rasterize("/no/such/file.pdf"); len(pages) != 0 {
		t.Errorf("Expected no pages for missing file, got %d", len(pages))
	}
}
