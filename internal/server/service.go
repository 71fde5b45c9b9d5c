package server

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/translation-backend/internal/common"
	"github.com/joseph-ayodele/translation-backend/internal/lang"
	"github.com/joseph-ayodele/translation-backend/internal/pipeline"
	"github.com/joseph-ayodele/translation-backend/internal/translate"
)

// Processor is the pipeline surface the service calls.
type Processor interface {
	TranslateImage(ctx context.Context, req pipeline.ImageRequest) (pipeline.ImageResult, error)
	TranslateText(ctx context.Context, req pipeline.TextRequest) (pipeline.TextResult, error)
	DetectLanguage(ctx context.Context, text string) (lang.Detection, error)
	Engines() []translate.Selector
}

// JobsExporter renders the job ledger as a workbook.
type JobsExporter interface {
	JobsXLSX(ctx context.Context, limit int) ([]byte, error)
}

const maxTextRunes = 20000

type Config struct {
	MaxImageBytes  int
	RequestTimeout time.Duration
	DefaultEngine  string
}

type TranslatorService struct {
	cfg      Config
	proc     Processor
	exporter JobsExporter
	logger   *slog.Logger
}

var _ TranslatorServer = (*TranslatorService)(nil)

// NewTranslatorService accepts a nil exporter; ExportJobs then fails with
// FailedPrecondition.
func NewTranslatorService(cfg Config, proc Processor, exporter JobsExporter, logger *slog.Logger) *TranslatorService {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxImageBytes <= 0 {
		cfg.MaxImageBytes = 20 << 20
	}
	return &TranslatorService{cfg: cfg, proc: proc, exporter: exporter, logger: logger}
}

func (s *TranslatorService) TranslateImage(ctx context.Context, req *TranslateImageRequest) (*TranslateImageResponse, error) {
	v := common.NewValidator().
		Field("image", req.Image, common.NonEmptyBytes, common.MaxBytes(s.cfg.MaxImageBytes))
	validateLangs(v, req.SrcLang, req.TgtLang)
	if err := common.ValidateAndReturnError(v); err != nil {
		return nil, common.ToStatus(err)
	}
	ctx, cancel := common.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	res, err := s.proc.TranslateImage(ctx, pipeline.ImageRequest{
		Image:   req.Image,
		SrcLang: req.SrcLang,
		TgtLang: req.TgtLang,
		Engine:  req.Engine,
	})
	if err != nil {
		return nil, common.ToStatus(err)
	}
	return &TranslateImageResponse{
		JobID:      jobID(res.JobID),
		SrcLang:    res.SrcLang,
		Edited:     res.Edited,
		Transcript: res.Transcript,
		Lines:      res.Lines,
		Cached:     res.Cached,
	}, nil
}

func (s *TranslatorService) TranslateText(ctx context.Context, req *TranslateTextRequest) (*TranslateTextResponse, error) {
	v := common.NewValidator().Field("text", req.Text, common.MaxLength(maxTextRunes))
	validateLangs(v, req.SrcLang, req.TgtLang)
	if err := common.ValidateAndReturnError(v); err != nil {
		return nil, common.ToStatus(err)
	}
	ctx, cancel := common.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	res, err := s.proc.TranslateText(ctx, pipeline.TextRequest{
		Text:    req.Text,
		SrcLang: req.SrcLang,
		TgtLang: req.TgtLang,
		Engine:  req.Engine,
	})
	if err != nil {
		return nil, common.ToStatus(err)
	}
	return &TranslateTextResponse{
		JobID:       jobID(res.JobID),
		SrcLang:     res.SrcLang,
		Translation: res.Translation,
		Cached:      res.Cached,
	}, nil
}

func (s *TranslatorService) DetectLanguage(ctx context.Context, req *DetectLanguageRequest) (*DetectLanguageResponse, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, common.ToStatus(common.NoTextDetected("text is empty"))
	}
	d, err := s.proc.DetectLanguage(ctx, req.Text)
	if err != nil {
		return nil, common.ToStatus(err)
	}
	return &DetectLanguageResponse{
		Language:    d.Language,
		DisplayName: lang.DisplayName(d.Language),
		Confidence:  d.Confidence,
	}, nil
}

// ListEngines reports every selector as {selector, family, model} plus the
// default selector.
func (s *TranslatorService) ListEngines(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	sels := s.proc.Engines()
	engines := make([]any, 0, len(sels))
	for _, sel := range sels {
		engines = append(engines, map[string]any{
			"selector": sel.String(),
			"family":   string(sel.Family),
			"model":    sel.Model,
		})
	}
	out, err := structpb.NewStruct(map[string]any{
		"engines": engines,
		"default": s.cfg.DefaultEngine,
	})
	if err != nil {
		return nil, common.ToStatus(common.WrapError(err, "encode engines"))
	}
	return out, nil
}

func (s *TranslatorService) ExportJobs(ctx context.Context, req *ExportJobsRequest) (*ExportJobsResponse, error) {
	if s.exporter == nil {
		return nil, status.Error(codes.FailedPrecondition, "job ledger is not configured")
	}
	b, err := s.exporter.JobsXLSX(ctx, req.Limit)
	if err != nil {
		s.logger.Error("export.jobs_failed", "error", err)
		return nil, common.InternalError("export jobs failed")
	}
	return &ExportJobsResponse{XLSX: b}, nil
}

// validateLangs requires tgt and checks src only when the caller set it.
func validateLangs(v *common.Validator, src, tgt string) {
	v.Field("tgt_lang", tgt, common.Required, common.LanguageCode)
	if src != "" {
		v.Field("src_lang", src, common.LanguageCode)
	}
}

func jobID(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return id.String()
}
