package pipeline

import (
	"context"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/translation-backend/internal/entity"
)

// Ledger records one row per run. Failures are logged by the processor and
// never fail the request.
type Ledger interface {
	Start(ctx context.Context, job entity.TranslationJob) (entity.TranslationJob, error)
	Finish(ctx context.Context, id uuid.UUID, lineCount int) error
	Fail(ctx context.Context, id uuid.UUID, kind, message string) error
}

// Cache stores finished results by content key.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}
