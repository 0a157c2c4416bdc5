package pipeline

import (
	"errors"

	"github.com/melodex/melodex/internal/llm"
)

// ErrorKind names the pipeline stage that failed. Every failure is an
// ordinary error value carried back to the caller; no stage aborts the
// process or unwinds past the pipeline boundary.
type ErrorKind string

const (
	KindStoreUnavailable   ErrorKind = "store_unavailable"
	KindValidationRejected ErrorKind = "validation_rejected"
	KindExecutionFailed    ErrorKind = "execution_failed"
	KindTranslationFailed  ErrorKind = "translation_failed"
	KindQuotaExceeded      ErrorKind = "quota_exceeded"
	KindRateLimited        ErrorKind = "rate_limited"
)

// Error is a stage-attributed pipeline failure. SQL is populated when a
// candidate query existed at the point of failure, so a rejected or
// failing query can still be shown to the user.
type Error struct {
	Kind        ErrorKind
	Message     string
	Remediation string
	SQL         string
	cause       error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// fromLLMError lifts a classified provider error into a pipeline error,
// keeping its remediation text.
func fromLLMError(err error) *Error {
	var lerr *llm.Error
	if errors.As(err, &lerr) {
		kind := KindTranslationFailed
		switch lerr.Kind {
		case llm.KindQuotaExceeded:
			kind = KindQuotaExceeded
		case llm.KindRateLimited:
			kind = KindRateLimited
		}
		return &Error{
			Kind:        kind,
			Message:     lerr.Message,
			Remediation: lerr.Remediation,
			cause:       err,
		}
	}
	return &Error{
		Kind:    KindTranslationFailed,
		Message: err.Error(),
		cause:   err,
	}
}
