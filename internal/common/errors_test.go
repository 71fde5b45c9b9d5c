package common

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestKindOfThroughWrapping(t *testing.T) {
	t.Parallel()
	base := NoTextDetected("no lines")
	wrapped := fmt.Errorf("pipeline: %w", fmt.Errorf("guard: %w", base))

	if got := KindOf(wrapped); got != KindNoTextDetected {
		t.Fatalf("KindOf = %q, want %q", got, KindNoTextDetected)
	}
	if KindOf(errors.New("plain")) != KindInternal {
		t.Fatalf("plain errors should classify as internal")
	}
	if KindOf(nil) != "" {
		t.Fatalf("nil error should have no kind")
	}
}

func TestProviderErrorSubKinds(t *testing.T) {
	t.Parallel()
	cause := errors.New("boom")
	cases := []struct {
		in, want ErrorKind
	}{
		{KindProviderAuth, KindProviderAuth},
		{KindProviderRateLimit, KindProviderRateLimit},
		{KindProviderConnectivity, KindProviderConnectivity},
		{KindProviderGeneric, KindProviderGeneric},
		{KindRendering, KindProviderGeneric},
	}
	for _, tc := range cases {
		err := ProviderError(tc.in, "openai", cause)
		if err.Kind != tc.want {
			t.Errorf("ProviderError(%q).Kind = %q, want %q", tc.in, err.Kind, tc.want)
		}
		if !IsProviderError(err) {
			t.Errorf("IsProviderError(%q) = false", tc.in)
		}
		if !errors.Is(err, cause) {
			t.Errorf("cause not preserved for %q", tc.in)
		}
	}
	if IsProviderError(UnsupportedEngine("x")) {
		t.Fatalf("unsupported engine must not be a provider error")
	}
}

func TestRetryable(t *testing.T) {
	t.Parallel()
	if !Retryable(ProviderError(KindProviderRateLimit, "p", nil)) {
		t.Errorf("rate limit should be retryable")
	}
	if Retryable(ProviderError(KindProviderAuth, "p", nil)) {
		t.Errorf("auth failure should not be retryable")
	}
}

func TestToStatusMapping(t *testing.T) {
	t.Parallel()
	cases := []struct {
		err  error
		want codes.Code
	}{
		{NoTextDetected("none"), codes.FailedPrecondition},
		{UnsupportedEngine("ml_:_unknown-model"), codes.InvalidArgument},
		{InvalidInput("bad image", nil), codes.InvalidArgument},
		{ProviderError(KindProviderAuth, "openai", nil), codes.Unauthenticated},
		{ProviderError(KindProviderRateLimit, "openai", nil), codes.ResourceExhausted},
		{ProviderError(KindProviderConnectivity, "openai", nil), codes.Unavailable},
		{RenderingFailure("font", nil), codes.Internal},
		{errors.New("unclassified"), codes.Internal},
	}
	for _, tc := range cases {
		st, _ := status.FromError(ToStatus(tc.err))
		if st.Code() != tc.want {
			t.Errorf("ToStatus(%v) code = %v, want %v", tc.err, st.Code(), tc.want)
		}
	}

	passthrough := status.Error(codes.NotFound, "gone")
	if got := ToStatus(passthrough); got != passthrough {
		t.Errorf("status errors should pass through unchanged")
	}
}

func TestStatusHelpersPassThroughToStatus(t *testing.T) {
	t.Parallel()
	cases := []struct {
		err  error
		want codes.Code
	}{
		{NotFoundError("job 1"), codes.NotFound},
		{InternalError("export failed"), codes.Internal},
		{InvalidInput("bad image", nil), codes.InvalidArgument},
	}
	for _, tc := range cases {
		if got := status.Code(ToStatus(tc.err)); got != tc.want {
			t.Errorf("ToStatus(%v) code = %v, want %v", tc.err, got, tc.want)
		}
	}
	if !errors.Is(InvalidInput("bad image", nil), ErrInvalidInput) {
		t.Errorf("InvalidInput without cause should wrap ErrInvalidInput")
	}
}
