// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package main

import (
	"fmt"

	"github.com/pdf-ocr/internal/config"
	"github.com/pdf-ocr/internal/converter"
	"github.com/pdf-ocr/internal/logger"
	"github.com/pdf-ocr/internal/ocr"
	"github.com/pdf-ocr/internal/ocr/tesseract"
	"github.com/pdf-ocr/internal/pdf"
)

// newEngine picks the OCR engine named by the configuration
func newEngine(cfg *config.Config) (ocr.Engine, error) {
	switch cfg.Engine {
	case config.EngineCommand:
		return ocr.NewCommandEngine(cfg.TesseractPath, cfg.TessdataPrefix)
	case config.EngineGosseract:
		return tesseract.NewEngine(cfg.TessdataPrefix), nil
	default:
		return nil, fmt.Errorf("unknown OCR engine %q", cfg.Engine)
	}
}

// newConverter wires the rasterizer and extractor from the configuration
func newConverter(cfg *config.Config, log *logger.Logger) (*converter.Converter, error) {
	engine, err := newEngine(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Engine == config.EngineGosseract {
		log.Printf("Using libtesseract %s", tesseract.Version())
	}
	rasterizer := pdf.NewRasterizer(cfg.DPI, log)
	extractor := ocr.NewExtractor(engine, cfg.Language, log)
	log.Printf("OCR engine %s ready (language %s)", cfg.Engine, extractor.Language())
	return converter.NewConverter(rasterizer, extractor, log), nil
}
