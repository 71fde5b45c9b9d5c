package server

import (
	"context"
	"net"
	"strings"
	"testing"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/joseph-ayodele/translation-backend/constants"
	"github.com/joseph-ayodele/translation-backend/internal/common"
	"github.com/joseph-ayodele/translation-backend/internal/entity"
	"github.com/joseph-ayodele/translation-backend/internal/lang"
	"github.com/joseph-ayodele/translation-backend/internal/pipeline"
	"github.com/joseph-ayodele/translation-backend/internal/translate"
)

type fakeProcessor struct {
	imageErr error
	lastImg  pipeline.ImageRequest
}

func (f *fakeProcessor) TranslateImage(_ context.Context, req pipeline.ImageRequest) (pipeline.ImageResult, error) {
	f.lastImg = req
	if f.imageErr != nil {
		return pipeline.ImageResult{}, f.imageErr
	}
	return pipeline.ImageResult{
		JobID: uuid.MustParse("6f1c1a52-4a40-4d0e-9d0a-3f4f5f1d2a10"), SrcLang: "es",
		Edited: []byte{1, 2}, Transcript: []byte{3},
		Lines: []entity.LineTranslation{{Source: "Hola Mundo", Translation: "Hello World"}},
	}, nil
}

func (f *fakeProcessor) TranslateText(_ context.Context, req pipeline.TextRequest) (pipeline.TextResult, error) {
	if strings.TrimSpace(req.Text) == "" {
		return pipeline.TextResult{}, common.NoTextDetected("text is empty")
	}
	return pipeline.TextResult{SrcLang: "es", Translation: strings.ToUpper(req.Text)}, nil
}

func (f *fakeProcessor) DetectLanguage(context.Context, string) (lang.Detection, error) {
	return lang.Detection{Language: "hr", Confidence: 0.9}, nil
}

func (f *fakeProcessor) Engines() []translate.Selector {
	return []translate.Selector{
		{Family: constants.FamilyLLM, Model: constants.ProviderOpenAI},
		{Family: constants.FamilyNeural, Model: constants.ModelM2M100Small},
	}
}

type fakeExporter struct{}

func (fakeExporter) JobsXLSX(context.Context, int) ([]byte, error) { return []byte("PK"), nil }

func dial(t *testing.T, proc Processor, exp JobsExporter) *Client {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(UnaryLogging(nil)))
	RegisterTranslatorServer(srv, NewTranslatorService(Config{MaxImageBytes: 16, DefaultEngine: "ml"}, proc, exp, nil))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return NewClient(conn)
}

func TestTranslateImageRPC(t *testing.T) {
	t.Parallel()

	proc := &fakeProcessor{}
	c := dial(t, proc, nil)
	resp, err := c.TranslateImage(context.Background(), &TranslateImageRequest{Image: []byte("img"), TgtLang: "en", Engine: "llm_:_openai"})
	if err != nil {
		t.Fatalf("TranslateImage: %v", err)
	}
	if resp.JobID != "6f1c1a52-4a40-4d0e-9d0a-3f4f5f1d2a10" || len(resp.Edited) != 2 || resp.Lines[0].Translation != "Hello World" {
		t.Fatalf("resp = %+v", resp)
	}
	if proc.lastImg.Engine != "llm_:_openai" || string(proc.lastImg.Image) != "img" {
		t.Fatalf("request = %+v", proc.lastImg)
	}
}

func TestTranslateImageErrorCodes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want codes.Code
	}{
		{common.NoTextDetected("none"), codes.FailedPrecondition},
		{common.UnsupportedEngine("ml_:_unknown-model"), codes.InvalidArgument},
		{common.ProviderError(common.KindProviderAuth, "openai", nil), codes.Unauthenticated},
		{common.ProviderError(common.KindProviderRateLimit, "openai", nil), codes.ResourceExhausted},
		{common.ProviderError(common.KindProviderConnectivity, "anthropic", nil), codes.Unavailable},
		{common.RenderingFailure("font", nil), codes.Internal},
	}
	for _, tc := range cases {
		c := dial(t, &fakeProcessor{imageErr: tc.err}, nil)
		_, err := c.TranslateImage(context.Background(), &TranslateImageRequest{Image: []byte("img"), TgtLang: "en"})
		if got := status.Code(err); got != tc.want {
			t.Fatalf("%v: code = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestTranslateImageValidation(t *testing.T) {
	t.Parallel()

	c := dial(t, &fakeProcessor{}, nil)
	for _, req := range []*TranslateImageRequest{
		{TgtLang: "en"},
		{Image: []byte("img")},
		{Image: []byte("img"), TgtLang: "en", SrcLang: "not a code"},
		{Image: make([]byte, 17), TgtLang: "en"},
	} {
		if _, err := c.TranslateImage(context.Background(), req); status.Code(err) != codes.InvalidArgument {
			t.Fatalf("req %+v: err = %v, want InvalidArgument", req, err)
		}
	}
}

func TestTranslateTextRPC(t *testing.T) {
	t.Parallel()

	c := dial(t, &fakeProcessor{}, nil)
	resp, err := c.TranslateText(context.Background(), &TranslateTextRequest{Text: "hola", SrcLang: "es", TgtLang: "en"})
	if err != nil || resp.Translation != "HOLA" {
		t.Fatalf("resp = %+v, err = %v", resp, err)
	}
	_, err = c.TranslateText(context.Background(), &TranslateTextRequest{Text: "  ", TgtLang: "en"})
	if status.Code(err) != codes.FailedPrecondition {
		t.Fatalf("blank text err = %v", err)
	}
}

func TestDetectLanguageRPC(t *testing.T) {
	t.Parallel()

	c := dial(t, &fakeProcessor{}, nil)
	resp, err := c.DetectLanguage(context.Background(), &DetectLanguageRequest{Text: "dobar dan"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Language != "hr" || resp.DisplayName != "Croatian" {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestListEnginesRPC(t *testing.T) {
	t.Parallel()

	c := dial(t, &fakeProcessor{}, nil)
	resp, err := c.ListEngines(context.Background())
	if err != nil {
		t.Fatalf("ListEngines: %v", err)
	}
	engines := resp.GetFields()["engines"].GetListValue().GetValues()
	if len(engines) != 2 {
		t.Fatalf("engines = %v", engines)
	}
	first := engines[0].GetStructValue().GetFields()
	if first["selector"].GetStringValue() != "llm_:_openai" || first["family"].GetStringValue() != "llm" {
		t.Fatalf("first engine = %v", first)
	}
	if resp.GetFields()["default"].GetStringValue() != "ml" {
		t.Fatalf("default = %v", resp.GetFields()["default"])
	}
}

func TestExportJobsRPC(t *testing.T) {
	t.Parallel()

	if _, err := dial(t, &fakeProcessor{}, nil).ExportJobs(context.Background(), &ExportJobsRequest{}); status.Code(err) != codes.FailedPrecondition {
		t.Fatalf("err = %v, want FailedPrecondition", err)
	}
	resp, err := dial(t, &fakeProcessor{}, fakeExporter{}).ExportJobs(context.Background(), &ExportJobsRequest{Limit: 5})
	if err != nil || string(resp.XLSX) != "PK" {
		t.Fatalf("resp = %+v, err = %v", resp, err)
	}
}
