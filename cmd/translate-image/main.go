package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/translation-backend/internal/app"
	"github.com/joseph-ayodele/translation-backend/internal/common"
	"github.com/joseph-ayodele/translation-backend/internal/ingest"
	"github.com/joseph-ayodele/translation-backend/internal/pipeline"
)

func main() {
	var (
		input    = flag.String("in", "", "image file or directory of images")
		output   = flag.String("out", "./out", "output directory")
		src      = flag.String("src", "", "source language (empty to detect)")
		tgt      = flag.String("tgt", "", "target language")
		engine   = flag.String("engine", "", "engine selector, e.g. llm_:_openai")
		xlsx     = flag.Bool("xlsx", false, "also write a transcript workbook per image")
		useDB    = flag.Bool("ledger", false, "record runs in the job ledger")
		timeout  = flag.Duration("timeout", 5*time.Minute, "per-image timeout")
		logLevel = flag.String("log", "info", "log level: debug|info|warn|error")
	)
	flag.Parse()

	var level slog.Level
	_ = level.UnmarshalText([]byte(*logLevel))
	logger := app.NewLogger(level)
	slog.SetDefault(logger)

	if *input == "" || *tgt == "" {
		fmt.Fprintln(os.Stderr, "usage: translate-image -in <file|dir> -tgt <lang> [-src <lang>] [-engine <family_:_model>] [-out dir] [-xlsx]")
		os.Exit(2)
	}

	ctx := context.Background()
	cfg := common.LoadConfig()
	a, err := app.Build(ctx, cfg, app.Options{Ledger: *useDB}, logger)
	if err != nil {
		logger.Error("failed to build translation stack", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	files, err := inputs(*input)
	if err != nil {
		logger.Error("failed to list input", "path", *input, "error", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(*output, 0o755); err != nil {
		logger.Error("failed to create output dir", "dir", *output, "error", err)
		os.Exit(1)
	}

	var failed int
	for _, path := range files {
		if err := translateFile(ctx, a, path, *output, *src, *tgt, *engine, *xlsx, *timeout); err != nil {
			failed++
			logger.Error("translate.file_failed", "path", path, "kind", common.KindOf(err), "error", err)
			continue
		}
		logger.Info("translate.file_done", "path", path)
	}
	logger.Info("translate.batch_done", "files", len(files), "failed", failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func inputs(path string) ([]string, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		return []string{path}, nil
	}
	files, _, err := ingest.ScanDirectory(path, true)
	return files, err
}

func translateFile(ctx context.Context, a *app.App, path, outDir, src, tgt, engine string, xlsx bool, timeout time.Duration) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := a.Processor.TranslateImage(ctx, pipeline.ImageRequest{Image: raw, SrcLang: src, TgtLang: tgt, Engine: engine})
	if err != nil {
		return err
	}
	edited, transcript := ingest.OutputPaths(outDir, path)
	if err := os.WriteFile(edited, res.Edited, 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(transcript, res.Transcript, 0o644); err != nil {
		return err
	}
	if !xlsx {
		return nil
	}
	b, err := a.Exporter.TranscriptXLSX(res.Lines)
	if err != nil {
		return err
	}
	stem := filepath.Base(path)
	stem = stem[:len(stem)-len(filepath.Ext(stem))]
	return os.WriteFile(filepath.Join(outDir, stem+".transcript.xlsx"), b, 0o644)
}
