// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package tesseract

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"

	"github.com/pdf-ocr/internal/ocr"
)

// Engine implements ocr.Engine on top of the gosseract binding to
// libtesseract. A fresh client is used per page.
type Engine struct {
	tessdataPrefix string
	clientFactory  func() *gosseract.Client
}

// NewEngine creates a gosseract-backed engine. tessdataPrefix points at the
// tessdata directory; empty uses the library default.
func NewEngine(tessdataPrefix string) *Engine {
	return &Engine{
		tessdataPrefix: tessdataPrefix,
		clientFactory:  gosseract.NewClient,
	}
}

// Version reports the linked libtesseract version
func Version() string {
	return gosseract.Version()
}

// Recognize runs OCR on a single page image
func (e *Engine) Recognize(img image.Image, language string) (string, error) {
	if img == nil {
		return "", errors.New("no page image")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode page image: %w", err)
	}

	c := e.clientFactory()
	defer c.Close()

	if e.tessdataPrefix != "" {
		if err := c.SetTessdataPrefix(e.tessdataPrefix); err != nil {
			return "", fmt.Errorf("set tessdata prefix: %w", err)
		}
	}
	if language != "" {
		if err := c.SetLanguage(language); err != nil {
			return "", fmt.Errorf("set language: %w", err)
		}
	}
	if err := c.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}

	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return ocr.TrimPageBreak(text), nil
}
