// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pdf-ocr/internal/config"
	"github.com/pdf-ocr/internal/history"
	"github.com/pdf-ocr/internal/logger"
	"github.com/pdf-ocr/internal/notify"
	"github.com/pdf-ocr/internal/watcher"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run is main without the process exit, returning the exit code
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("pdf-ocr", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to YAML config file")
	inputPath := fs.String("input", "", "PDF to convert (overrides config)")
	outputPath := fs.String("output", "", "Text file to write (overrides config)")
	language := fs.String("lang", "", "Tesseract language code (overrides config)")
	watchDir := fs.String("watch", "", "Watch this directory and convert every PDF dropped into it")
	historyN := fs.Int("history", 0, "Print the last N recorded runs and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
		return 1
	}
	config.ApplyCLIFlags(cfg, *inputPath, *outputPath, *language, *watchDir)

	log, err := logger.NewLogger(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer log.Close()

	var store *history.Store
	if cfg.History.DBPath != "" {
		store, err = history.NewStore(cfg.History.DBPath)
		if err != nil {
			log.Errorf("Failed to open run history: %v", err)
			return 1
		}
		defer store.Close()
	}

	if *historyN > 0 {
		return printHistory(store, *historyN, stdout, log)
	}

	conv, err := newConverter(cfg, log)
	if err != nil {
		log.Errorf("Failed to initialize OCR engine: %v", err)
		return 1
	}

	if cfg.Watch.Dir != "" {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		w := watcher.New(conv, watcher.Options{
			Dir:       cfg.Watch.Dir,
			OutputDir: cfg.Watch.OutputDir,
			Debounce:  cfg.Watch.Debounce,
			Store:     store,
			Notifier:  notify.NewNotifier(cfg.Notify, log),
			Logger:    log,
		})
		log.Printf("Watch mode running (language %s). Press Ctrl+C to stop.", cfg.Language)
		if err := w.Run(ctx); err != nil {
			log.Errorf("Watcher stopped: %v", err)
			return 1
		}
		log.Printf("Shutdown complete")
		return 0
	}

	report := conv.ProcessDocumentReport(cfg.InputPath, cfg.OutputPath)
	if store != nil {
		hash, err := history.HashFile(cfg.InputPath)
		if err != nil {
			log.Warnf("Failed to hash %s: %v", cfg.InputPath, err)
		}
		if _, err := store.RecordRun(report, hash); err != nil {
			log.Errorf("Failed to record run: %v", err)
		}
	}

	fmt.Fprintln(stdout, report.Text)
	return 0
}

func printHistory(store *history.Store, n int, stdout io.Writer, log *logger.Logger) int {
	if store == nil {
		log.Errorf("Run history is disabled; set history.db_path")
		return 1
	}
	runs, err := store.ListRuns(n)
	if err != nil {
		log.Errorf("Failed to list runs: %v", err)
		return 1
	}
	for _, r := range runs {
		failed := "-"
		if len(r.FailedPages) > 0 {
			parts := make([]string, len(r.FailedPages))
			for i, p := range r.FailedPages {
				parts[i] = fmt.Sprint(p)
			}
			failed = strings.Join(parts, ",")
		}
		fmt.Fprintf(stdout, "%s  %-8s  pages=%d failed=%s  %s -> %s\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"), r.Status, r.Pages, failed, r.DocumentPath, r.OutputPath)
	}
	return 0
}
