package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/translation-backend/internal/entity"
)

type stubJobs struct {
	jobs []entity.TranslationJob
}

func (s stubJobs) Start(context.Context, entity.TranslationJob) (entity.TranslationJob, error) {
	return entity.TranslationJob{}, nil
}
func (s stubJobs) Finish(context.Context, uuid.UUID, int) error { return nil }
func (s stubJobs) Fail(context.Context, uuid.UUID, string, string) error { return nil }
func (s stubJobs) Get(context.Context, uuid.UUID) (entity.TranslationJob, error) {
	return entity.TranslationJob{}, nil
}
func (s stubJobs) ListRecent(context.Context, int) ([]entity.TranslationJob, error) {
	return s.jobs, nil
}

func TestTranscriptXLSX(t *testing.T) {
	t.Parallel()

	lines := []entity.LineTranslation{
		{Index: 0, Source: "Hola Mundo", Translation: "Hello World", Box: entity.Box{X: 10, Y: 10, W: 100, H: 22}},
		{Index: 1, Source: "adios", Translation: "goodbye", Box: entity.Box{X: 10, Y: 70, W: 60, H: 20}},
	}
	b, err := NewService(nil, nil).TranscriptXLSX(lines)
	if err != nil {
		t.Fatalf("TranscriptXLSX: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(TranscriptSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	if rows[1][1] != "Hola Mundo" || rows[1][2] != "Hello World" || rows[1][5] != "100" || rows[1][6] != "22" {
		t.Fatalf("row 2 = %v", rows[1])
	}
}

func TestJobsXLSX(t *testing.T) {
	t.Parallel()

	kind := "PROVIDER_AUTH"
	now := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	svc := NewService(stubJobs{jobs: []entity.TranslationJob{
		{ID: uuid.New(), Kind: "TEXT", TgtLang: "en", Engine: "llm_:_openai", Status: "FAILED", ErrorKind: &kind, StartedAt: now},
	}}, nil)

	b, err := svc.JobsXLSX(context.Background(), 10)
	if err != nil {
		t.Fatalf("JobsXLSX: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()
	v, err := f.GetCellValue(JobsSheet, "H2")
	if err != nil || v != kind {
		t.Fatalf("H2 = %q, %v", v, err)
	}
	if v, _ := f.GetCellValue(JobsSheet, "I2"); v != "2026-03-04T05:06:07Z" {
		t.Fatalf("I2 = %q", v)
	}
}

func TestJobsXLSXWithoutLedger(t *testing.T) {
	t.Parallel()

	if _, err := NewService(nil, nil).JobsXLSX(context.Background(), 1); err == nil {
		t.Fatal("expected error without ledger")
	}
}
