package assess

import (
	"context"
	"errors"
	"fmt"

	"github.com/trustguard/trustguard/internal"
)

// DefaultConfidence - used when the assessment service doesn't say how confident it is.
const DefaultConfidence = 0.6

// ServiceHint - shown alongside any assessment failure.
const ServiceHint = "Set TG_OPENAI_API_KEY (or OPENAI_API_KEY) and try again."

var ErrEmptyMessage = errors.New("message must not be empty")

type Request struct {
	Message string
	Sender  string
	// Trusted brands or domains, as typed by the user. See ParseAllowlist.
	Allowlist []string
}

type Assessment struct {
	Verdict    string   `json:"verdict"`
	Score      int      `json:"score"`
	Confidence *float64 `json:"confidence,omitempty"`
	Reasons    []string `json:"reasons"`
	Advice     []string `json:"advice"`
}

func (a *Assessment) EffectiveConfidence() float64 {
	return internal.DereferenceOr(a.Confidence, DefaultConfidence)
}

type Provider interface {
	// Name - a short label for logs and metrics.
	Name() string
	Assess(ctx context.Context, req *Request) (*Assessment, error)
}

// ServiceError - the assessment service could not be reached or gave an unusable answer. The error text is safe
// to show to users as-is.
type ServiceError struct {
	Err  error
	Hint string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("assessment failed: %v", e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func newServiceError(err error) *ServiceError {
	return &ServiceError{Err: err, Hint: ServiceHint}
}
