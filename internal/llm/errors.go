package llm

import "strings"

// ErrorKind partitions provider failures into classes the API surfaces
// differently: quota exhaustion and rate limiting carry actionable
// remediation, everything else is a generic translation failure.
type ErrorKind string

const (
	KindQuotaExceeded     ErrorKind = "quota_exceeded"
	KindRateLimited       ErrorKind = "rate_limited"
	KindTranslationFailed ErrorKind = "translation_failed"
)

// Error is a classified provider failure.
type Error struct {
	Kind        ErrorKind
	Message     string
	Remediation string
}

func (e *Error) Error() string {
	return e.Message
}

// classifyError maps a raw provider error onto an ErrorKind by matching
// the error text. The SDK does not expose structured status codes for
// every transport path, so string matching is the common denominator.
func classifyError(err error) *Error {
	msg := err.Error()
	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(msg, "429") || strings.Contains(lower, "quota"):
		return &Error{
			Kind:        KindQuotaExceeded,
			Message:     "API quota exceeded: " + msg,
			Remediation: "check the plan and billing details for the configured API key",
		}
	case strings.Contains(lower, "rate") && strings.Contains(lower, "limit"):
		return &Error{
			Kind:        KindRateLimited,
			Message:     "rate limited by provider: " + msg,
			Remediation: "wait a moment and retry the request",
		}
	default:
		return &Error{
			Kind:        KindTranslationFailed,
			Message:     "translation failed: " + msg,
			Remediation: "rephrase the question or try again",
		}
	}
}
