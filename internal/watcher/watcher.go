// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pdf-ocr/internal/converter"
	"github.com/pdf-ocr/internal/history"
	"github.com/pdf-ocr/internal/logger"
	"github.com/pdf-ocr/internal/notify"
)

// Processor converts one document, writing the text to outputPath
type Processor interface {
	ProcessDocumentReport(documentPath, outputPath string) *converter.Report
}

// Options configures a Watcher. Store and Notifier are optional.
type Options struct {
	Dir       string
	OutputDir string
	Debounce  time.Duration
	Store     *history.Store
	Notifier  *notify.Notifier
	Logger    *logger.Logger
}

// Watcher converts PDFs dropped into an inbox directory. Documents are
// converted one at a time in arrival order.
type Watcher struct {
	dir       string
	outputDir string
	processor Processor
	store     *history.Store
	notifier  *notify.Notifier
	log       *logger.Logger
	debouncer *Debouncer
	queue     chan string
}

// New creates a watcher for opts.Dir
func New(processor Processor, opts Options) *Watcher {
	if opts.Debounce <= 0 {
		opts.Debounce = 500 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard
	}
	return &Watcher{
		dir:       opts.Dir,
		outputDir: opts.OutputDir,
		processor: processor,
		store:     opts.Store,
		notifier:  opts.Notifier,
		log:       opts.Logger,
		debouncer: NewDebouncer(opts.Debounce, nil),
		queue:     make(chan string, 64),
	}
}

// Run watches the inbox until ctx is cancelled. PDFs already in the
// directory are converted first.
func (w *Watcher) Run(ctx context.Context) error {
	absPath, err := filepath.Abs(w.dir)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	if err := os.MkdirAll(absPath, 0755); err != nil {
		return fmt.Errorf("failed to create watch directory: %w", err)
	}
	if w.outputDir != "" {
		if err := os.MkdirAll(w.outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(absPath); err != nil {
		return fmt.Errorf("failed to watch %s: %w", absPath, err)
	}
	w.log.Printf("Watching directory: %s", absPath)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w.debouncer.SetCallback(func(path string) {
		w.log.Debugf("Queued %s", path)
		select {
		case w.queue <- path:
		case <-ctx.Done():
		}
	})
	defer w.stopDebouncer()

	done := make(chan struct{})
	go func() {
		defer close(done)
		w.processLoop(ctx)
	}()

	w.scanExisting(absPath)
	w.watchEvents(ctx, fsw.Events, fsw.Errors)

	cancel()
	<-done
	return nil
}

// watchEvents feeds inbox events to the debouncer until ctx is cancelled
// or fsnotify closes its channels
func (w *Watcher) watchEvents(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if IsCandidate(event.Name) {
				w.debouncer.Trigger(event.Name)
			}
		case err, ok := <-errs:
			if !ok {
				return
			}
			w.log.Errorf("Watcher error for %s: %v", w.dir, err)
		}
	}
}

// stopDebouncer drops documents that had not settled yet
func (w *Watcher) stopDebouncer() {
	if n := w.debouncer.Pending(); n > 0 {
		w.log.Warnf("Dropping %d document(s) that had not settled", n)
	}
	w.debouncer.Stop()
}

// processLoop drains the queue, one document at a time
func (w *Watcher) processLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case path := <-w.queue:
			w.ProcessFile(path)
		}
	}
}

// scanExisting queues PDFs that were already in the inbox
func (w *Watcher) scanExisting(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		w.log.Errorf("Error scanning directory %s: %v", dir, err)
		return
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if !entry.IsDir() && IsCandidate(path) {
			w.debouncer.Trigger(path)
		}
	}
}

// ProcessFile converts a single inbox document. It returns nil when the
// document was skipped.
func (w *Watcher) ProcessFile(filePath string) *converter.Report {
	var decision *history.Decision
	if w.store != nil {
		var err error
		decision, err = w.store.Decide(filePath)
		if err != nil {
			w.log.Errorf("Failed to decide on file %s: %v", filePath, err)
			return nil
		}
		if !decision.ShouldProcess {
			w.log.Printf("Skipping file: %s - %s", filePath, decision.Reason)
			return nil
		}
	}

	outputPath := w.OutputPath(filePath)
	w.log.Printf("Processing %s -> %s", filePath, outputPath)

	report := w.processor.ProcessDocumentReport(filePath, outputPath)

	if w.store != nil {
		if _, err := w.store.RecordRun(report, decision.DocumentHash); err != nil {
			w.log.Errorf("Failed to record run for %s: %v", filePath, err)
		}
	}
	w.notifier.Report(report)

	w.log.Printf("Finished %s: status=%s pages=%d failed=%v", filePath, report.Status, report.Pages, report.FailedPages)
	return report
}

// OutputPath returns the text file path for an inbox document
func (w *Watcher) OutputPath(filePath string) string {
	dir := w.outputDir
	if dir == "" {
		dir = filepath.Dir(filePath)
	}
	base := filepath.Base(filePath)
	return filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base))+".txt")
}

// IsCandidate reports whether a path is a PDF worth converting
func IsCandidate(filePath string) bool {
	if IsTemporaryFile(filePath) {
		return false
	}
	return strings.EqualFold(filepath.Ext(filePath), ".pdf")
}

// IsTemporaryFile checks if a file is a temporary file (e.g., ~$doc.pdf)
func IsTemporaryFile(filePath string) bool {
	base := filepath.Base(filePath)
	if strings.HasPrefix(base, "~$") {
		return true
	}
	if strings.HasPrefix(base, "._") {
		return true
	}
	if strings.HasSuffix(base, ".tmp") || strings.HasSuffix(base, ".part") {
		return true
	}
	return false
}
