package activity

import (
	"strings"

	"github.com/yanqian/run-reporter/internal/infra/transport"
	apperrors "github.com/yanqian/run-reporter/pkg/errors"
)

const (
	msgSessionExpired = "Your session has expired. Please log in again."
	msgGeneric        = "Something went wrong. Please try again later."
)

var expiryMarkers = []string{"invalid", "expired", "token"}

// IsTokenExpired applies the remote service's loose convention: an error text mentioning
// an invalid or expired token means the session is over.
func IsTokenExpired(message string) bool {
	lowered := strings.ToLower(message)
	for _, marker := range expiryMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

type failureKind int

const (
	failureGeneric failureKind = iota
	failureExpired
	failureUnavailable
)

// classify maps a failed upstream result onto the error taxonomy. fallback is the message
// used when the upstream did not send one.
func classify[T any](res transport.Result[T], fallback string) (failureKind, error) {
	switch {
	case res.Status == transport.StatusNetworkError:
		return failureUnavailable, apperrors.Wrap(apperrors.CodeUpstreamUnavailable, res.ErrorOr(transport.MessageNetworkError), nil)
	case res.Unauthorized():
		if IsTokenExpired(res.ErrorOr("Unauthorized")) {
			return failureExpired, apperrors.Wrap(apperrors.CodeSessionExpired, msgSessionExpired, nil)
		}
		return failureGeneric, apperrors.Wrap(apperrors.CodeUpstreamError, msgGeneric, nil)
	default:
		return failureGeneric, apperrors.Wrap(apperrors.CodeUpstreamError, res.ErrorOr(fallback), nil)
	}
}
