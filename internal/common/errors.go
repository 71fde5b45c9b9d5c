package common

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrorKind classifies failures so callers can pick retry vs. abort and a
// transport-level status.
type ErrorKind string

const (
	KindNoTextDetected       ErrorKind = "NO_TEXT_DETECTED"
	KindUnsupportedEngine    ErrorKind = "UNSUPPORTED_ENGINE"
	KindProviderAuth         ErrorKind = "PROVIDER_AUTH"
	KindProviderRateLimit    ErrorKind = "PROVIDER_RATE_LIMIT"
	KindProviderConnectivity ErrorKind = "PROVIDER_CONNECTIVITY"
	KindProviderGeneric      ErrorKind = "PROVIDER_ERROR"
	KindOrientationRead      ErrorKind = "ORIENTATION_READ"
	KindRendering            ErrorKind = "RENDERING"
	KindInvalidInput         ErrorKind = "INVALID_INPUT"
	KindInternal             ErrorKind = "INTERNAL"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// ErrInvalidInput is the cause of an InvalidInput error built without one.
var ErrInvalidInput = errors.New("invalid input")

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Kind:    KindInternal,
		Message: message,
		Cause:   cause,
	}
}

func newKindError(kind ErrorKind, message string, cause error) *AppError {
	return &AppError{Code: string(kind), Kind: kind, Message: message, Cause: cause}
}

func NoTextDetected(message string) *AppError {
	return newKindError(KindNoTextDetected, message, nil)
}

func UnsupportedEngine(selector string) *AppError {
	return newKindError(KindUnsupportedEngine, fmt.Sprintf("unsupported engine %q", selector), nil)
}

// ProviderError builds one of the four TranslationProviderError sub-kinds.
func ProviderError(kind ErrorKind, provider string, cause error) *AppError {
	switch kind {
	case KindProviderAuth, KindProviderRateLimit, KindProviderConnectivity:
	default:
		kind = KindProviderGeneric
	}
	return newKindError(kind, provider, cause)
}

func RenderingFailure(message string, cause error) *AppError {
	return newKindError(KindRendering, message, cause)
}

func OrientationReadFailure(cause error) *AppError {
	return newKindError(KindOrientationRead, "orientation metadata unreadable", cause)
}

func InvalidInput(message string, cause error) *AppError {
	if cause == nil {
		cause = ErrInvalidInput
	}
	return newKindError(KindInvalidInput, message, cause)
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// KindOf returns the kind of the first AppError in err's chain, or
// KindInternal when there is none.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

// IsProviderError reports whether err is any TranslationProviderError sub-kind.
func IsProviderError(err error) bool {
	switch KindOf(err) {
	case KindProviderAuth, KindProviderRateLimit, KindProviderConnectivity, KindProviderGeneric:
		return true
	}
	return false
}

// Retryable reports whether a caller may reasonably retry later.
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindProviderRateLimit, KindProviderConnectivity:
		return true
	}
	return false
}

// gRPC error helpers
func NotFoundError(message string) error {
	return status.Error(codes.NotFound, message)
}

func InternalError(message string) error {
	return status.Error(codes.Internal, message)
}

// GRPCCode maps an error kind to the status code returned to RPC callers.
func GRPCCode(kind ErrorKind) codes.Code {
	switch kind {
	case KindNoTextDetected:
		return codes.FailedPrecondition
	case KindUnsupportedEngine, KindInvalidInput:
		return codes.InvalidArgument
	case KindProviderAuth:
		return codes.Unauthenticated
	case KindProviderRateLimit:
		return codes.ResourceExhausted
	case KindProviderConnectivity, KindProviderGeneric:
		return codes.Unavailable
	case KindRendering, KindInternal:
		return codes.Internal
	}
	return codes.Unknown
}

// ToStatus converts err into a gRPC status error. Status errors pass through.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	kind := KindOf(err)
	return status.Error(GRPCCode(kind), err.Error())
}
