package security

import (
	"crypto/sha256"
	"fmt"

	"github.com/rs/zerolog/log"
)

// AuditLogger logs query and pipeline events with hashed identifiers so
// raw SQL and API keys never land in the log stream.
type AuditLogger struct {
	enabled bool
}

func NewAuditLogger(enabled bool) *AuditLogger {
	return &AuditLogger{enabled: enabled}
}

// LogQuery records a direct SQL execution event.
func (a *AuditLogger) LogQuery(
	sql, apiKey string,
	executionTimeMs int64,
	rowCount int,
	success bool,
	errMsg string,
) {
	if !a.enabled {
		return
	}

	evt := log.Info().
		Str("event", "query_audit").
		Str("sql_hash", hashStr(sql)[:16]).
		Str("api_key_hash", hashStr(apiKey)[:16]).
		Int64("execution_time_ms", executionTimeMs).
		Int("row_count", rowCount).
		Bool("success", success)

	if errMsg != "" {
		evt = evt.Str("error", errMsg)
	}
	evt.Msg("audit")
}

// LogPipelineRun records a natural-language pipeline run.
func (a *AuditLogger) LogPipelineRun(
	question, apiKey, generatedSQL string,
	validationPassed bool,
	executionTimeMs int64,
) {
	if !a.enabled {
		return
	}

	sqlHash := ""
	if generatedSQL != "" {
		sqlHash = hashStr(generatedSQL)[:16]
	}

	log.Info().
		Str("event", "pipeline_audit").
		Str("question_hash", hashStr(question)[:16]).
		Str("api_key_hash", hashStr(apiKey)[:16]).
		Str("sql_hash", sqlHash).
		Bool("validation_passed", validationPassed).
		Int64("execution_time_ms", executionTimeMs).
		Msg("pipeline audit")
}

func hashStr(s string) string {
	h := sha256.Sum256([]byte(s))
	return fmt.Sprintf("%x", h)
}
