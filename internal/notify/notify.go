// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package notify

import (
	"fmt"
	"path/filepath"

	"github.com/gen2brain/beeep"

	"github.com/pdf-ocr/internal/converter"
	"github.com/pdf-ocr/internal/logger"
)

// Notifier raises OS notifications for documents that did not convert cleanly
type Notifier struct {
	enabled bool
	log     *logger.Logger
	alert   func(title, message string) error
}

// NewNotifier creates a notifier. A disabled notifier does nothing.
func NewNotifier(enabled bool, log *logger.Logger) *Notifier {
	if log == nil {
		log = logger.Discard
	}
	return &Notifier{
		enabled: enabled,
		log:     log,
		alert:   sendAlert,
	}
}

func sendAlert(title, message string) error {
	return beeep.Alert(title, message, "")
}

// Report notifies about a run that produced no text or lost pages.
// It reports whether a notification was sent.
func (n *Notifier) Report(report *converter.Report) bool {
	if n == nil || !n.enabled || report == nil {
		return false
	}

	var title, message string
	name := filepath.Base(report.DocumentPath)

	switch report.Status {
	case converter.StatusNoPages:
		title = "PDF Conversion Failed"
		message = fmt.Sprintf("No page images could be produced from %s.", name)
	case converter.StatusNoText:
		title = "OCR Failed"
		message = fmt.Sprintf("Text extraction failed on every page of %s.", name)
	case converter.StatusPartial:
		title = "OCR Incomplete"
		message = fmt.Sprintf("%s: text extraction failed on pages %v.", name, report.FailedPages)
	default:
		return false
	}

	if err := n.alert(title, message); err != nil {
		n.log.Warnf("Failed to send OS notification: %v", err)
		return false
	}
	return true
}
