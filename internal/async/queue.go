package async

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/translation-backend/internal/pipeline"
)

// Job is one queued image translation. OnDone receives the outcome on the
// worker goroutine.
type Job struct {
	ID          uuid.UUID
	Request     pipeline.ImageRequest
	Source      string // "redis", "watch", ...
	SubmittedAt time.Time
	OnDone      func(ctx context.Context, res pipeline.ImageResult, err error)
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}

// ImageTranslator is the part of the pipeline the queue needs.
type ImageTranslator interface {
	TranslateImage(ctx context.Context, req pipeline.ImageRequest) (pipeline.ImageResult, error)
}
