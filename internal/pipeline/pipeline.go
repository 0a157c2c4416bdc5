package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/melodex/melodex/internal/chart"
	"github.com/melodex/melodex/internal/config"
	"github.com/melodex/melodex/internal/security"
	"github.com/melodex/melodex/internal/store"
)

// Store is the read surface the pipeline needs from the data layer.
type Store interface {
	SchemaForLLM(ctx context.Context) (string, error)
	ExecuteQuery(ctx context.Context, sql string) (*store.ResultSet, error)
}

// Translator turns a natural-language question into a candidate query.
type Translator interface {
	TextToSQL(ctx context.Context, question, schemaText string) (string, error)
}

// Summarizer produces a prose analysis from a bounded result preview.
type Summarizer interface {
	AnalyzeResults(ctx context.Context, question, sql, preview string) (string, error)
}

// Validator accepts or rejects a candidate query before execution.
type Validator interface {
	Validate(ctx context.Context, sql string) security.Verdict
}

// QueryRecord is the immutable outcome of one pipeline run.
type QueryRecord struct {
	ID        string           `json:"id"`
	Question  string           `json:"question,omitempty"`
	SQL       string           `json:"sql"`
	Result    *store.ResultSet `json:"result"`
	Analysis  string           `json:"analysis,omitempty"`
	Chart     chart.Spec       `json:"chart"`
	CreatedAt time.Time        `json:"created_at"`
	TookMs    int64            `json:"took_ms"`
}

// Pipeline orchestrates one question or one user-supplied query from
// schema introspection through chart selection. Stages fail with typed
// errors; only summarization degrades instead of failing.
type Pipeline struct {
	store       Store
	translator  Translator
	summarizer  Summarizer
	validator   Validator
	previewRows int
}

func New(st Store, tr Translator, sm Summarizer, vd Validator) *Pipeline {
	return &Pipeline{
		store:       st,
		translator:  tr,
		summarizer:  sm,
		validator:   vd,
		previewRows: config.DefaultPreviewRows,
	}
}

// Run executes the full natural-language pipeline for one question.
func (p *Pipeline) Run(ctx context.Context, question string) (*QueryRecord, error) {
	start := time.Now()

	schemaText, err := p.store.SchemaForLLM(ctx)
	if err != nil {
		return nil, &Error{
			Kind:        KindStoreUnavailable,
			Message:     fmt.Sprintf("store unavailable: %v", err),
			Remediation: "verify the database file exists and is readable",
			cause:       err,
		}
	}

	sqlText, err := p.translator.TextToSQL(ctx, question, schemaText)
	if err != nil {
		return nil, fromLLMError(err)
	}

	record, err := p.execute(ctx, question, sqlText)
	if err != nil {
		return nil, err
	}

	record.TookMs = time.Since(start).Milliseconds()
	log.Info().
		Str("record_id", record.ID).
		Int("rows", record.Result.RowCount()).
		Int64("took_ms", record.TookMs).
		Msg("pipeline run complete")

	return record, nil
}

// RunSQL executes a user-supplied query, skipping translation. The
// query still passes validation; there is no trusted path around it.
func (p *Pipeline) RunSQL(ctx context.Context, sqlText string) (*QueryRecord, error) {
	start := time.Now()

	record, err := p.execute(ctx, "", sqlText)
	if err != nil {
		return nil, err
	}

	record.TookMs = time.Since(start).Milliseconds()
	return record, nil
}

// execute runs the validate -> execute -> summarize -> chart tail shared
// by both entry points.
func (p *Pipeline) execute(ctx context.Context, question, sqlText string) (*QueryRecord, error) {
	verdict := p.validator.Validate(ctx, sqlText)
	if !verdict.Valid {
		return nil, &Error{
			Kind:        KindValidationRejected,
			Message:     "query rejected: " + verdict.Reason,
			Remediation: "only read-only SELECT queries are allowed",
			SQL:         sqlText,
		}
	}

	rs, err := p.store.ExecuteQuery(ctx, sqlText)
	if err != nil {
		return nil, &Error{
			Kind:    KindExecutionFailed,
			Message: fmt.Sprintf("execution failed: %v", err),
			SQL:     sqlText,
			cause:   err,
		}
	}

	analysis := p.summarize(ctx, question, sqlText, rs)

	return &QueryRecord{
		ID:        uuid.New().String(),
		Question:  question,
		SQL:       sqlText,
		Result:    rs,
		Analysis:  analysis,
		Chart:     chart.Select(rs),
		CreatedAt: time.Now().UTC(),
	}, nil
}

// summarize never fails the run: a provider error degrades to a local
// fallback string that names the failure.
func (p *Pipeline) summarize(ctx context.Context, question, sqlText string, rs *store.ResultSet) string {
	if p.summarizer == nil {
		return fallbackAnalysis(rs, nil)
	}

	analysis, err := p.summarizer.AnalyzeResults(ctx, question, sqlText, rs.Preview(p.previewRows))
	if err != nil {
		log.Warn().Err(err).Msg("summarization degraded to fallback")
		return fallbackAnalysis(rs, err)
	}
	return analysis
}

func fallbackAnalysis(rs *store.ResultSet, err error) string {
	msg := fmt.Sprintf("Query returned %d rows with %d columns.", rs.RowCount(), len(rs.Columns))
	if err != nil {
		msg += fmt.Sprintf(" Analysis unavailable: %v.", err)
	}
	return msg
}
