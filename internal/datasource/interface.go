package datasource

import (
	"context"
	"errors"
	"time"

	"github.com/yourusername/rank-engine/internal/models"
)

// OutcomeSource defines the interface for fetching verified outcomes. The
// engine can read them from its own database or pull them from the external
// verification feed; the ranking run does not care which.
type OutcomeSource interface {
	// FetchVerified retrieves settled outcomes for one partition in the range
	FetchVerified(ctx context.Context, sport models.Sport, betType models.BetType, start, end time.Time) ([]*models.VerifiedOutcome, error)

	// Name returns the name of the outcome source
	Name() string
}

// SourceError represents errors from outcome source operations
type SourceError struct {
	Source  string // Outcome source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e SourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e SourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
)

// Sentinel errors for upstream failures. A run that hits ErrUnavailable is
// aborted rather than published against partial data.
var (
	ErrUnavailable = errors.New("outcome source unavailable")
	ErrInvalidData = errors.New("invalid outcome data")
)

// NewSourceError creates a new outcome source error
func NewSourceError(source, code, message string, err error) SourceError {
	return SourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
