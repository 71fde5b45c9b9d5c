package llm

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/joseph-ayodele/translation-backend/internal/common"
	"github.com/joseph-ayodele/translation-backend/internal/utils"
)

// KindForStatus maps an HTTP status from a provider to an error kind.
func KindForStatus(status int) common.ErrorKind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return common.KindProviderAuth
	case status == http.StatusTooManyRequests:
		return common.KindProviderRateLimit
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return common.KindProviderConnectivity
	}
	return common.KindProviderGeneric
}

var (
	authHints = []string{"401", "403", "unauthorized", "authentication", "invalid api key", "invalid x-api-key", "permission denied"}
	rateHints = []string{"429", "rate limit", "rate_limit", "too many requests", "overloaded", "quota"}
	connHints = []string{"connection refused", "connection reset", "no such host", "i/o timeout", "tls handshake", "eof"}
)

// Classify wraps err in a provider AppError of the matching sub-kind.
// Errors that already carry a provider kind are returned unchanged.
func Classify(provider string, err error) error {
	if err == nil {
		return nil
	}
	if common.IsProviderError(err) {
		return err
	}

	var he *utils.HTTPError
	if errors.As(err, &he) {
		return common.ProviderError(KindForStatus(he.Status), provider, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return common.ProviderError(common.KindProviderConnectivity, provider, err)
	}
	var ne net.Error
	var ue *url.Error
	if errors.As(err, &ne) || errors.As(err, &ue) {
		return common.ProviderError(common.KindProviderConnectivity, provider, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, authHints):
		return common.ProviderError(common.KindProviderAuth, provider, err)
	case containsAny(msg, rateHints):
		return common.ProviderError(common.KindProviderRateLimit, provider, err)
	case containsAny(msg, connHints):
		return common.ProviderError(common.KindProviderConnectivity, provider, err)
	}
	return common.ProviderError(common.KindProviderGeneric, provider, err)
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
