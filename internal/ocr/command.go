// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package ocr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"strings"
)

// lookPath resolves the tesseract executable. Tests may replace it to
// simulate a missing binary.
var lookPath = exec.LookPath

// CommandEngine runs the tesseract executable once per page
type CommandEngine struct {
	path        string
	tessdataDir string
}

// NewCommandEngine creates an engine invoking the tesseract binary at path.
// path may be a bare name resolved through PATH.
func NewCommandEngine(path, tessdataDir string) (*CommandEngine, error) {
	resolved, err := lookPath(path)
	if err != nil {
		return nil, fmt.Errorf("tesseract is not installed or not on PATH (%s): %w", path, err)
	}
	return &CommandEngine{path: resolved, tessdataDir: tessdataDir}, nil
}

// Recognize writes the page to a temporary PNG and runs tesseract on it
func (e *CommandEngine) Recognize(img image.Image, language string) (string, error) {
	if img == nil {
		return "", errors.New("no page image")
	}

	tmp, err := os.CreateTemp("", "pdf-ocr-page-*.png")
	if err != nil {
		return "", fmt.Errorf("create temp file for OCR: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if err := png.Encode(tmp, img); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("encode page image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file for OCR: %w", err)
	}

	args := []string{tmpPath, "stdout", "-l", language}
	if e.tessdataDir != "" {
		args = append(args, "--tessdata-dir", e.tessdataDir)
	}

	var stderr bytes.Buffer
	cmd := exec.Command(e.path, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("tesseract: %w: %s", err, msg)
		}
		return "", fmt.Errorf("tesseract: %w", err)
	}

	return TrimPageBreak(string(out)), nil
}
