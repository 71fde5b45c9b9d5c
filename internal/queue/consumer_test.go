package queue

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/joseph-ayodele/translation-backend/internal/async"
	"github.com/joseph-ayodele/translation-backend/internal/common"
	"github.com/joseph-ayodele/translation-backend/internal/entity"
	"github.com/joseph-ayodele/translation-backend/internal/pipeline"
)

type fakeRedis struct {
	mu      sync.Mutex
	pending [][]string
	hashes  map[string]map[string]any
	ttls    map[string]time.Duration
}

func newFakeRedis(payloads ...[]byte) *fakeRedis {
	f := &fakeRedis{hashes: map[string]map[string]any{}, ttls: map[string]time.Duration{}}
	for _, p := range payloads {
		f.pending = append(f.pending, []string{"translate:jobs", string(p)})
	}
	return f
}

func (f *fakeRedis) BRPop(ctx context.Context, _ time.Duration, _ ...string) *redis.StringSliceCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.pending) == 0 {
		return redis.NewStringSliceResult(nil, redis.Nil)
	}
	next := f.pending[0]
	f.pending = f.pending[1:]
	return redis.NewStringSliceResult(next, nil)
}

func (f *fakeRedis) HSet(_ context.Context, key string, values ...interface{}) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	fields := values[0].(map[string]any)
	f.hashes[key] = fields
	return redis.NewIntResult(int64(len(fields)), nil)
}

func (f *fakeRedis) Expire(_ context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ttls[key] = ttl
	return redis.NewBoolResult(true, nil)
}

func (f *fakeRedis) hash(key string) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hashes[key]
}

// inlineQueue runs the job on the caller's goroutine.
type inlineQueue struct {
	res pipeline.ImageResult
	err error
	got []async.Job
}

func (q *inlineQueue) Enqueue(ctx context.Context, job async.Job) error {
	q.got = append(q.got, job)
	job.OnDone(ctx, q.res, q.err)
	return nil
}

func (q *inlineQueue) Shutdown(context.Context) {}

func payload(t *testing.T, id uuid.UUID) []byte {
	t.Helper()
	b, err := json.Marshal(Payload{
		ID:       id.String(),
		ImageB64: base64.StdEncoding.EncodeToString([]byte("img")),
		SrcLang:  "es", TgtLang: "en", Engine: "ml",
	})
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func runUntilDrained(t *testing.T, c *Consumer, f *fakeRedis) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { defer close(done); _ = c.Run(ctx) }()
	deadline := time.After(5 * time.Second)
	for {
		f.mu.Lock()
		empty := len(f.pending) == 0
		f.mu.Unlock()
		if empty {
			break
		}
		select {
		case <-deadline:
			t.Fatal("consumer did not drain")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done
}

func TestConsumerWritesResult(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	f := newFakeRedis(payload(t, id))
	q := &inlineQueue{res: pipeline.ImageResult{
		SrcLang: "es", Edited: []byte("E"), Transcript: []byte("T"),
		Lines: []entity.LineTranslation{{Source: "hola", Translation: "hello"}},
	}}
	c := NewConsumer(Config{ResultTTL: time.Hour, PollTimeout: time.Millisecond}, f, q, nil)
	runUntilDrained(t, c, f)

	if len(q.got) != 1 || q.got[0].ID != id || string(q.got[0].Request.Image) != "img" || q.got[0].Request.TgtLang != "en" {
		t.Fatalf("enqueued = %+v", q.got)
	}
	h := f.hash(ResultKey(id))
	if h["status"] != "SUCCEEDED" || h["edited"] != base64.StdEncoding.EncodeToString([]byte("E")) {
		t.Fatalf("result hash = %v", h)
	}
	if f.ttls[ResultKey(id)] != time.Hour {
		t.Fatalf("ttl = %v", f.ttls[ResultKey(id)])
	}
}

func TestConsumerWritesErrorKind(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	f := newFakeRedis(payload(t, id))
	q := &inlineQueue{err: common.NoTextDetected("no text")}
	c := NewConsumer(Config{PollTimeout: time.Millisecond}, f, q, nil)
	runUntilDrained(t, c, f)

	h := f.hash(ResultKey(id))
	if h["status"] != "FAILED" || h["error_kind"] != string(common.KindNoTextDetected) {
		t.Fatalf("result hash = %v", h)
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()

	if _, err := Decode([]byte("{")); !common.IsKind(err, common.KindInvalidInput) {
		t.Fatalf("bad json err = %v", err)
	}
	if _, err := Decode([]byte(`{"id":"nope"}`)); !common.IsKind(err, common.KindInvalidInput) {
		t.Fatalf("bad id err = %v", err)
	}
	id := uuid.New()
	job, err := Decode([]byte(`{"id":"` + id.String() + `","image_b64":"***"}`))
	if !common.IsKind(err, common.KindInvalidInput) || job.ID != id {
		t.Fatalf("bad base64: job=%+v err=%v", job, err)
	}
}

func TestConsumerReportsBadImage(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	f := newFakeRedis([]byte(`{"id":"` + id.String() + `","image_b64":"***"}`))
	q := &inlineQueue{}
	c := NewConsumer(Config{PollTimeout: time.Millisecond}, f, q, nil)
	runUntilDrained(t, c, f)

	if len(q.got) != 0 {
		t.Fatal("invalid payload was enqueued")
	}
	if h := f.hash(ResultKey(id)); h["error_kind"] != string(common.KindInvalidInput) {
		t.Fatalf("result hash = %v", h)
	}
}
