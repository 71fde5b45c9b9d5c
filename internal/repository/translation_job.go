package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/translation-backend/constants"
	"github.com/joseph-ayodele/translation-backend/internal/common"
	"github.com/joseph-ayodele/translation-backend/internal/entity"
)

const jobsTable = "translation_jobs"

var jobColumns = []string{
	"id", "kind", "src_lang", "tgt_lang", "engine", "status", "line_count",
	"input_sha256", "error_kind", "error_message", "started_at", "finished_at",
}

type TranslationJobRepository interface {
	Start(ctx context.Context, job entity.TranslationJob) (entity.TranslationJob, error)
	Finish(ctx context.Context, id uuid.UUID, lineCount int) error
	Fail(ctx context.Context, id uuid.UUID, kind, message string) error
	Get(ctx context.Context, id uuid.UUID) (entity.TranslationJob, error)
	ListRecent(ctx context.Context, limit int) ([]entity.TranslationJob, error)
}

type translationJobRepo struct {
	db  *DB
	log *slog.Logger
	now func() time.Time
}

func NewTranslationJobRepository(db *DB, log *slog.Logger) TranslationJobRepository {
	if log == nil {
		log = slog.Default()
	}
	return &translationJobRepo{db: db, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// Start inserts a RUNNING row. A zero ID is replaced with a new UUID.
func (r *translationJobRepo) Start(ctx context.Context, job entity.TranslationJob) (entity.TranslationJob, error) {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	job.Status = string(constants.JobStatusRunning)
	job.StartedAt = r.now()

	query, args := r.db.builder().Insert(jobsTable).
		Columns("id", "kind", "src_lang", "tgt_lang", "engine", "status", "line_count", "input_sha256", "started_at").
		Values(job.ID.String(), job.Kind, job.SrcLang, job.TgtLang, job.Engine, job.Status, job.LineCount, job.InputSHA256, job.StartedAt).
		Query()
	if _, err := r.db.SQL.ExecContext(ctx, query, args...); err != nil {
		r.log.Error("translation_job.start_failed", "job_id", job.ID, "error", err)
		return entity.TranslationJob{}, err
	}
	r.log.Info("translation_job.started", "job_id", job.ID, "kind", job.Kind, "engine", job.Engine)
	return job, nil
}

func (r *translationJobRepo) Finish(ctx context.Context, id uuid.UUID, lineCount int) error {
	query, args := r.db.builder().Update(jobsTable).
		Set("status", string(constants.JobStatusSucceeded)).
		Set("line_count", lineCount).
		Set("finished_at", r.now()).
		Where(entsql.EQ("id", id.String())).
		Query()
	if err := r.exec(ctx, id, query, args); err != nil {
		r.log.Error("translation_job.finish_failed", "job_id", id, "error", err)
		return err
	}
	r.log.Info("translation_job.succeeded", "job_id", id, "lines", lineCount)
	return nil
}

func (r *translationJobRepo) Fail(ctx context.Context, id uuid.UUID, kind, message string) error {
	query, args := r.db.builder().Update(jobsTable).
		Set("status", string(constants.JobStatusFailed)).
		Set("error_kind", kind).
		Set("error_message", message).
		Set("finished_at", r.now()).
		Where(entsql.EQ("id", id.String())).
		Query()
	if err := r.exec(ctx, id, query, args); err != nil {
		r.log.Error("translation_job.fail_failed", "job_id", id, "error", err)
		return err
	}
	r.log.Warn("translation_job.failed", "job_id", id, "kind", kind, "error", message)
	return nil
}

func (r *translationJobRepo) exec(ctx context.Context, id uuid.UUID, query string, args []any) error {
	res, err := r.db.SQL.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.NotFoundError("translation job " + id.String())
	}
	return nil
}

func (r *translationJobRepo) Get(ctx context.Context, id uuid.UUID) (entity.TranslationJob, error) {
	query, args := r.db.builder().Select(jobColumns...).
		From(entsql.Table(jobsTable)).
		Where(entsql.EQ("id", id.String())).
		Query()
	row := r.db.SQL.QueryRowContext(ctx, query, args...)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.TranslationJob{}, common.NotFoundError("translation job " + id.String())
	}
	return job, err
}

// ListRecent returns up to limit jobs, newest first.
func (r *translationJobRepo) ListRecent(ctx context.Context, limit int) ([]entity.TranslationJob, error) {
	if limit <= 0 {
		limit = 50
	}
	query, args := r.db.builder().Select(jobColumns...).
		From(entsql.Table(jobsTable)).
		OrderBy(entsql.Desc("started_at")).
		Limit(limit).
		Query()
	rows, err := r.db.SQL.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []entity.TranslationJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(s scanner) (entity.TranslationJob, error) {
	var (
		job        entity.TranslationJob
		id         string
		errKind    sql.NullString
		errMessage sql.NullString
		finished   sql.NullTime
	)
	if err := s.Scan(&id, &job.Kind, &job.SrcLang, &job.TgtLang, &job.Engine, &job.Status, &job.LineCount,
		&job.InputSHA256, &errKind, &errMessage, &job.StartedAt, &finished); err != nil {
		return entity.TranslationJob{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return entity.TranslationJob{}, err
	}
	job.ID = parsed
	if errKind.Valid {
		job.ErrorKind = &errKind.String
	}
	if errMessage.Valid {
		job.ErrorMessage = &errMessage.String
	}
	if finished.Valid {
		t := finished.Time
		job.FinishedAt = &t
	}
	return job, nil
}
