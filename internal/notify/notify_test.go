// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package notify

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/pdf-ocr/internal/converter"
	"github.com/pdf-ocr/internal/logger"
)

type recordedAlert struct {
	title, message string
}

func newRecordingNotifier(enabled bool, err error) (*Notifier, *[]recordedAlert, *bytes.Buffer) {
	var buf bytes.Buffer
	var alerts []recordedAlert
	n := NewNotifier(enabled, logger.New(&buf))
	n.alert = func(title, message string) error {
		alerts = append(alerts, recordedAlert{title, message})
		return err
	}
	return n, &alerts, &buf
}

func TestReport_Statuses(t *testing.T) {
	n, alerts, _ := newRecordingNotifier(true, nil)

	if n.Report(&converter.Report{DocumentPath: "/in/ok.pdf", Status: converter.StatusOK}) {
		t.Error("Successful run should not notify")
	}
	if !n.Report(&converter.Report{DocumentPath: "/in/bad.pdf", Status: converter.StatusNoPages}) {
		t.Error("Rasterization failure should notify")
	}
	if !n.Report(&converter.Report{DocumentPath: "/in/part.pdf", Status: converter.StatusPartial, FailedPages: []int{2, 5}}) {
		t.Error("Partial run should notify")
	}

	if len(*alerts) != 2 {
		t.Fatalf("Expected 2 alerts, got %d", len(*alerts))
	}
	if !strings.Contains((*alerts)[0].message, "bad.pdf") {
		t.Errorf("Alert should name the document, got %q", (*alerts)[0].message)
	}
	if !strings.Contains((*alerts)[1].message, "[2 5]") {
		t.Errorf("Alert should list failed pages, got %q", (*alerts)[1].message)
	}
}

func TestReport_Disabled(t *testing.T) {
	n, alerts, _ := newRecordingNotifier(false, nil)

	if n.Report(&converter.Report{Status: converter.StatusNoText}) {
		t.Error("Disabled notifier should not notify")
	}
	if len(*alerts) != 0 {
		t.Errorf("Expected no alerts, got %d", len(*alerts))
	}
}

func TestReport_AlertError(t *testing.T) {
	n, _, buf := newRecordingNotifier(true, errors.New("no dbus"))

	if n.Report(&converter.Report{DocumentPath: "x.pdf", Status: converter.StatusNoText}) {
		t.Error("Failed alert should report false")
	}
	if !strings.Contains(buf.String(), "[WARN] Failed to send OS notification: no dbus") {
		t.Errorf("Expected warning log, got: %s", buf.String())
	}
}

func TestReport_NilNotifier(t *testing.T) {
	var n *Notifier
	if n.Report(&converter.Report{Status: converter.StatusNoText}) {
		t.Error("Nil notifier should not notify")
	}
}
