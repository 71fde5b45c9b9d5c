package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/translation-backend/internal/entity"
	"github.com/joseph-ayodele/translation-backend/internal/repository"
)

const (
	TranscriptSheet = "Transcript"
	JobsSheet       = "Jobs"
)

// Service produces XLSX workbooks for transcripts and the job ledger.
type Service struct {
	jobs   repository.TranslationJobRepository
	logger *slog.Logger
}

// NewService accepts a nil jobs repository; JobsXLSX then fails.
func NewService(jobs repository.TranslationJobRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{jobs: jobs, logger: logger}
}

// TranscriptXLSX writes one row per merged line: index, source, translation
// and the line's box.
func (s *Service) TranscriptXLSX(lines []entity.LineTranslation) ([]byte, error) {
	start := time.Now()
	f, err := newWorkbook(TranscriptSheet)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	writeRow(f, TranscriptSheet, 1, "#", "Source", "Translation", "X", "Y", "Width", "Height")
	for i, ln := range lines {
		writeRow(f, TranscriptSheet, i+2, ln.Index, ln.Source, ln.Translation, ln.Box.X, ln.Box.Y, ln.Box.W, ln.Box.H)
	}
	_ = f.SetColWidth(TranscriptSheet, "A", "A", 6)
	_ = f.SetColWidth(TranscriptSheet, "B", "C", 48)
	_ = f.SetColWidth(TranscriptSheet, "D", "G", 10)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	s.logger.Info("export.transcript", "rows", len(lines), "bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds())
	return buf.Bytes(), nil
}

// JobsXLSX exports the newest ledger rows.
func (s *Service) JobsXLSX(ctx context.Context, limit int) ([]byte, error) {
	if s.jobs == nil {
		return nil, fmt.Errorf("job ledger not configured")
	}
	start := time.Now()
	jobs, err := s.jobs.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}

	f, err := newWorkbook(JobsSheet)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	writeRow(f, JobsSheet, 1, "Job ID", "Kind", "Source", "Target", "Engine", "Status", "Lines", "Error Kind", "Started", "Finished")
	for i, j := range jobs {
		finished := ""
		if j.FinishedAt != nil {
			finished = j.FinishedAt.UTC().Format(time.RFC3339)
		}
		writeRow(f, JobsSheet, i+2, j.ID.String(), j.Kind, j.SrcLang, j.TgtLang, j.Engine, j.Status,
			j.LineCount, deref(j.ErrorKind), j.StartedAt.UTC().Format(time.RFC3339), finished)
	}
	_ = f.SetColWidth(JobsSheet, "A", "A", 38)
	_ = f.SetColWidth(JobsSheet, "E", "E", 44)
	_ = f.SetColWidth(JobsSheet, "I", "J", 22)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	s.logger.Info("export.jobs", "rows", len(jobs), "bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds())
	return buf.Bytes(), nil
}

func newWorkbook(sheet string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		_ = f.Close()
		return nil, err
	}
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	f.SetActiveSheet(idx)
	return f, nil
}

func writeRow(f *excelize.File, sheet string, row int, values ...any) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
