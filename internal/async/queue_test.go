package async

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/joseph-ayodele/translation-backend/internal/pipeline"
)

type countingTranslator struct {
	calls atomic.Int32
	err   error
}

func (c *countingTranslator) TranslateImage(ctx context.Context, req pipeline.ImageRequest) (pipeline.ImageResult, error) {
	c.calls.Add(1)
	if c.err != nil {
		return pipeline.ImageResult{}, c.err
	}
	return pipeline.ImageResult{SrcLang: req.SrcLang}, nil
}

func TestQueueRunsEveryJob(t *testing.T) {
	t.Parallel()

	tr := &countingTranslator{}
	q := NewProcessorQueue(tr, nil, WithWorkers(3), WithQueueSize(2))

	var wg sync.WaitGroup
	var done atomic.Int32
	for i := 0; i < 10; i++ {
		wg.Add(1)
		err := q.Enqueue(context.Background(), Job{
			Request: pipeline.ImageRequest{SrcLang: "es"},
			OnDone: func(_ context.Context, res pipeline.ImageResult, err error) {
				defer wg.Done()
				if err == nil && res.SrcLang == "es" {
					done.Add(1)
				}
			},
		})
		if err != nil {
			t.Fatalf("Enqueue: %v", err)
		}
	}
	wg.Wait()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	if done.Load() != 10 || tr.calls.Load() != 10 {
		t.Fatalf("done=%d calls=%d, want 10", done.Load(), tr.calls.Load())
	}
}

func TestQueuePassesErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	q := NewProcessorQueue(&countingTranslator{err: boom}, nil, WithWorkers(1))
	got := make(chan error, 1)
	if err := q.Enqueue(context.Background(), Job{OnDone: func(_ context.Context, _ pipeline.ImageResult, err error) { got <- err }}); err != nil {
		t.Fatal(err)
	}
	if err := <-got; !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	q.Shutdown(context.Background())
}

func TestEnqueueAfterShutdown(t *testing.T) {
	t.Parallel()

	q := NewProcessorQueue(&countingTranslator{}, nil, WithWorkers(1))
	q.Shutdown(context.Background())
	if err := q.Enqueue(context.Background(), Job{}); !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("err = %v, want ErrQueueClosed", err)
	}
}

type gatedTranslator struct {
	started chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func (g *gatedTranslator) TranslateImage(context.Context, pipeline.ImageRequest) (pipeline.ImageResult, error) {
	g.calls.Add(1)
	g.started <- struct{}{}
	<-g.release
	return pipeline.ImageResult{}, nil
}

func TestShutdownReleasesBlockedEnqueue(t *testing.T) {
	t.Parallel()

	tr := &gatedTranslator{started: make(chan struct{}, 4), release: make(chan struct{})}
	q := NewProcessorQueue(tr, nil, WithWorkers(1), WithQueueSize(1))

	if err := q.Enqueue(context.Background(), Job{}); err != nil {
		t.Fatal(err)
	}
	<-tr.started // worker busy, buffer empty
	if err := q.Enqueue(context.Background(), Job{}); err != nil {
		t.Fatal(err)
	}

	blocked := make(chan error, 1)
	go func() { blocked <- q.Enqueue(context.Background(), Job{}) }()

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		q.Shutdown(ctx)
	}()

	select {
	case err := <-blocked:
		if !errors.Is(err, ErrQueueClosed) {
			t.Fatalf("blocked Enqueue err = %v, want ErrQueueClosed", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Enqueue on a full queue stayed blocked through Shutdown")
	}

	close(tr.release)
	<-stopped
	if got := tr.calls.Load(); got != 2 {
		t.Fatalf("calls = %d, want the running and the buffered job", got)
	}
}
