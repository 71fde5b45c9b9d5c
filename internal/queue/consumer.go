// Package queue feeds image jobs from a Redis list into the worker pool and
// writes results back to Redis.
package queue

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/joseph-ayodele/translation-backend/internal/async"
	"github.com/joseph-ayodele/translation-backend/internal/common"
	"github.com/joseph-ayodele/translation-backend/internal/pipeline"
)

// ResultKeyPrefix prefixes the per-job result hash.
const ResultKeyPrefix = "translate:result:"

// Client is the subset of redis.Cmdable the consumer uses.
type Client interface {
	BRPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// Payload is the JSON pushed onto the job list.
type Payload struct {
	ID       string `json:"id"`
	ImageB64 string `json:"image_b64"`
	SrcLang  string `json:"src_lang"`
	TgtLang  string `json:"tgt_lang"`
	Engine   string `json:"engine"`
}

type Config struct {
	QueueName   string        // default "translate:jobs"
	ResultTTL   time.Duration // default 24h
	PollTimeout time.Duration // BRPOP block time, default 5s
}

type Consumer struct {
	cfg    Config
	client Client
	queue  async.Queue
	logger *slog.Logger

	wg sync.WaitGroup
}

func NewConsumer(cfg Config, client Client, q async.Queue, logger *slog.Logger) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.QueueName == "" {
		cfg.QueueName = "translate:jobs"
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 5 * time.Second
	}
	return &Consumer{cfg: cfg, client: client, queue: q, logger: logger}
}

// Run pops jobs until ctx is cancelled, then waits for in-flight result
// writes to finish.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("consumer.started", "queue", c.cfg.QueueName)
	defer c.wg.Wait()
	for {
		if err := ctx.Err(); err != nil {
			c.logger.Info("consumer.stopped", "queue", c.cfg.QueueName)
			return nil
		}
		res, err := c.client.BRPop(ctx, c.cfg.PollTimeout, c.cfg.QueueName).Result()
		switch {
		case errors.Is(err, redis.Nil):
			continue
		case ctx.Err() != nil:
			continue
		case err != nil:
			c.logger.Error("consumer.pop_failed", "error", err)
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
			continue
		}
		// BRPOP replies [key, value].
		if len(res) != 2 {
			continue
		}
		c.handle(ctx, []byte(res[1]))
	}
}

func (c *Consumer) handle(ctx context.Context, raw []byte) {
	job, err := Decode(raw)
	if err != nil {
		c.logger.Warn("consumer.bad_payload", "error", err)
		if job.ID != uuid.Nil {
			c.writeError(ctx, job.ID, err)
		}
		return
	}
	c.wg.Add(1)
	job.OnDone = func(ctx context.Context, res pipeline.ImageResult, err error) {
		defer c.wg.Done()
		// The job context may already be past its deadline.
		ctx = context.WithoutCancel(ctx)
		if err != nil {
			c.writeError(ctx, job.ID, err)
			return
		}
		c.writeResult(ctx, job.ID, res)
	}
	if err := c.queue.Enqueue(ctx, job); err != nil {
		c.wg.Done()
		c.writeError(context.WithoutCancel(ctx), job.ID, err)
	}
}

// Decode parses a payload into a queue job. The returned job carries the ID
// even when the rest of the payload is invalid so the error can be reported.
func Decode(raw []byte) (async.Job, error) {
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return async.Job{}, common.InvalidInput("payload is not JSON", err)
	}
	id, err := uuid.Parse(p.ID)
	if err != nil {
		return async.Job{}, common.InvalidInput(fmt.Sprintf("bad job id %q", p.ID), err)
	}
	job := async.Job{ID: id, Source: "redis", SubmittedAt: time.Now()}
	img, err := base64.StdEncoding.DecodeString(p.ImageB64)
	if err != nil {
		return job, common.InvalidInput("image_b64 is not base64", err)
	}
	job.Request = pipeline.ImageRequest{Image: img, SrcLang: p.SrcLang, TgtLang: p.TgtLang, Engine: p.Engine}
	return job, nil
}

// ResultKey is the hash holding a job's outcome.
func ResultKey(id uuid.UUID) string {
	return ResultKeyPrefix + id.String()
}

func (c *Consumer) writeResult(ctx context.Context, id uuid.UUID, res pipeline.ImageResult) {
	lines, _ := json.Marshal(res.Lines)
	c.write(ctx, id, map[string]any{
		"status":     "SUCCEEDED",
		"src_lang":   res.SrcLang,
		"edited":     base64.StdEncoding.EncodeToString(res.Edited),
		"transcript": base64.StdEncoding.EncodeToString(res.Transcript),
		"lines":      string(lines),
	})
}

func (c *Consumer) writeError(ctx context.Context, id uuid.UUID, cause error) {
	c.write(ctx, id, map[string]any{
		"status":     "FAILED",
		"error_kind": string(common.KindOf(cause)),
		"error":      cause.Error(),
	})
}

func (c *Consumer) write(ctx context.Context, id uuid.UUID, fields map[string]any) {
	key := ResultKey(id)
	if err := c.client.HSet(ctx, key, fields).Err(); err != nil {
		c.logger.Error("consumer.result_write_failed", "job_id", id, "error", err)
		return
	}
	if err := c.client.Expire(ctx, key, c.cfg.ResultTTL).Err(); err != nil {
		c.logger.Warn("consumer.result_expire_failed", "job_id", id, "error", err)
	}
	c.logger.Info("consumer.result_written", "job_id", id, "status", fields["status"])
}
