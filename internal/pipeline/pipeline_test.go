package pipeline_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/melodex/melodex/internal/chart"
	"github.com/melodex/melodex/internal/llm"
	"github.com/melodex/melodex/internal/pipeline"
	"github.com/melodex/melodex/internal/security"
	"github.com/melodex/melodex/internal/store"
)

type fakeStore struct {
	schemaErr  error
	execErr    error
	result     *store.ResultSet
	executed   []string
	introspect int
}

func (f *fakeStore) SchemaForLLM(ctx context.Context) (string, error) {
	f.introspect++
	if f.schemaErr != nil {
		return "", f.schemaErr
	}
	return "Table: tracks\nColumns:\n  - track_name: VARCHAR\n  - popularity: BIGINT\n", nil
}

func (f *fakeStore) ExecuteQuery(ctx context.Context, sql string) (*store.ResultSet, error) {
	f.executed = append(f.executed, sql)
	if f.execErr != nil {
		return nil, f.execErr
	}
	return f.result, nil
}

type fakeTranslator struct {
	sql string
	err error
}

func (f *fakeTranslator) TextToSQL(ctx context.Context, question, schemaText string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.sql, nil
}

type fakeSummarizer struct {
	analysis string
	err      error
	preview  string
}

func (f *fakeSummarizer) AnalyzeResults(ctx context.Context, question, sql, preview string) (string, error) {
	f.preview = preview
	if f.err != nil {
		return "", f.err
	}
	return f.analysis, nil
}

type fakeValidator struct {
	verdict security.Verdict
	seen    []string
}

func (f *fakeValidator) Validate(ctx context.Context, sql string) security.Verdict {
	f.seen = append(f.seen, sql)
	return f.verdict
}

func sampleResult() *store.ResultSet {
	return &store.ResultSet{
		Columns: []string{"track_name", "popularity"},
		Kinds:   []store.ColumnKind{store.KindText, store.KindNumeric},
		Rows: []map[string]any{
			{"track_name": "Dynamite", "popularity": int64(95)},
			{"track_name": "Butter", "popularity": int64(92)},
		},
	}
}

func validVerdict() security.Verdict {
	return security.Verdict{Valid: true, Reason: "valid"}
}

func TestRunSuccess(t *testing.T) {
	st := &fakeStore{result: sampleResult()}
	tr := &fakeTranslator{sql: "SELECT track_name, popularity FROM tracks LIMIT 100"}
	sm := &fakeSummarizer{analysis: "인기 있는 곡들의 목록입니다."}
	vd := &fakeValidator{verdict: validVerdict()}

	p := pipeline.New(st, tr, sm, vd)
	record, err := p.Run(context.Background(), "가장 인기 있는 곡은?")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if record.ID == "" {
		t.Error("record should have an id")
	}
	if record.Question != "가장 인기 있는 곡은?" {
		t.Errorf("question = %q", record.Question)
	}
	if record.SQL != tr.sql {
		t.Errorf("sql = %q, want translated query", record.SQL)
	}
	if record.Result.RowCount() != 2 {
		t.Errorf("rows = %d, want 2", record.Result.RowCount())
	}
	if record.Analysis != "인기 있는 곡들의 목록입니다." {
		t.Errorf("analysis = %q", record.Analysis)
	}
	if record.Chart.Kind != chart.KindBar {
		t.Errorf("chart kind = %s, want bar", record.Chart.Kind)
	}
	if record.CreatedAt.IsZero() {
		t.Error("created_at should be set")
	}
	if len(vd.seen) != 1 || vd.seen[0] != tr.sql {
		t.Errorf("validator saw %v, want the translated query once", vd.seen)
	}
}

func TestRunAbortsBeforeExecuteOnRejection(t *testing.T) {
	st := &fakeStore{result: sampleResult()}
	tr := &fakeTranslator{sql: "DROP TABLE tracks"}
	vd := &fakeValidator{verdict: security.Verdict{Valid: false, Reason: "keyword DROP is not allowed in queries"}}

	p := pipeline.New(st, tr, &fakeSummarizer{}, vd)
	_, err := p.Run(context.Background(), "테이블을 삭제해줘")
	if err == nil {
		t.Fatal("expected validation error")
	}

	var perr *pipeline.Error
	if !errors.As(err, &perr) {
		t.Fatalf("error type %T, want *pipeline.Error", err)
	}
	if perr.Kind != pipeline.KindValidationRejected {
		t.Errorf("kind = %s, want validation_rejected", perr.Kind)
	}
	if perr.SQL != "DROP TABLE tracks" {
		t.Errorf("rejected SQL should be preserved, got %q", perr.SQL)
	}
	if len(st.executed) != 0 {
		t.Error("rejected query must never execute")
	}
}

func TestRunDegradesWhenSummarizationFails(t *testing.T) {
	st := &fakeStore{result: sampleResult()}
	tr := &fakeTranslator{sql: "SELECT track_name, popularity FROM tracks"}
	sm := &fakeSummarizer{err: errors.New("model overloaded")}
	vd := &fakeValidator{verdict: validVerdict()}

	p := pipeline.New(st, tr, sm, vd)
	record, err := p.Run(context.Background(), "곡을 보여줘")
	if err != nil {
		t.Fatalf("summarization failure must not fail the run: %v", err)
	}
	if !strings.Contains(record.Analysis, "2 rows") {
		t.Errorf("fallback analysis should state the row count, got %q", record.Analysis)
	}
	if !strings.Contains(record.Analysis, "model overloaded") {
		t.Errorf("fallback analysis should name the failure, got %q", record.Analysis)
	}
	if record.Chart.Kind == "" {
		t.Error("chart selection should still run after degraded summarization")
	}
}

func TestRunSummarizerGetsBoundedPreview(t *testing.T) {
	rs := &store.ResultSet{
		Columns: []string{"n"},
		Kinds:   []store.ColumnKind{store.KindNumeric},
	}
	for i := 0; i < 50; i++ {
		rs.Rows = append(rs.Rows, map[string]any{"n": int64(i)})
	}

	st := &fakeStore{result: rs}
	sm := &fakeSummarizer{analysis: "ok"}
	p := pipeline.New(st, &fakeTranslator{sql: "SELECT n FROM t"}, sm, &fakeValidator{verdict: validVerdict()})

	if _, err := p.Run(context.Background(), "q"); err != nil {
		t.Fatal(err)
	}

	// header + at most 5 rows
	lines := strings.Split(sm.preview, "\n")
	if len(lines) > 6 {
		t.Errorf("preview has %d lines, want at most 6", len(lines))
	}
}

func TestRunStoreUnavailable(t *testing.T) {
	st := &fakeStore{schemaErr: errors.New("no such file")}
	p := pipeline.New(st, &fakeTranslator{sql: "SELECT 1"}, &fakeSummarizer{}, &fakeValidator{verdict: validVerdict()})

	_, err := p.Run(context.Background(), "q")
	var perr *pipeline.Error
	if !errors.As(err, &perr) || perr.Kind != pipeline.KindStoreUnavailable {
		t.Fatalf("err = %v, want store_unavailable", err)
	}
}

func TestRunLiftsTranslatorErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want pipeline.ErrorKind
	}{
		{"quota", &llm.Error{Kind: llm.KindQuotaExceeded, Message: "quota"}, pipeline.KindQuotaExceeded},
		{"rate", &llm.Error{Kind: llm.KindRateLimited, Message: "rate"}, pipeline.KindRateLimited},
		{"generic", errors.New("boom"), pipeline.KindTranslationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &fakeStore{result: sampleResult()}
			p := pipeline.New(st, &fakeTranslator{err: tt.err}, &fakeSummarizer{}, &fakeValidator{verdict: validVerdict()})

			_, err := p.Run(context.Background(), "q")
			var perr *pipeline.Error
			if !errors.As(err, &perr) || perr.Kind != tt.want {
				t.Fatalf("err = %v, want kind %s", err, tt.want)
			}
		})
	}
}

func TestRunSQLStillValidates(t *testing.T) {
	st := &fakeStore{result: sampleResult()}
	vd := &fakeValidator{verdict: security.Verdict{Valid: false, Reason: "keyword DELETE is not allowed in queries"}}
	p := pipeline.New(st, &fakeTranslator{}, &fakeSummarizer{}, vd)

	_, err := p.RunSQL(context.Background(), "DELETE FROM tracks")
	var perr *pipeline.Error
	if !errors.As(err, &perr) || perr.Kind != pipeline.KindValidationRejected {
		t.Fatalf("err = %v, want validation_rejected", err)
	}
	if len(st.executed) != 0 {
		t.Error("rejected direct SQL must never execute")
	}
	if st.introspect != 0 {
		t.Error("RunSQL should not introspect the schema")
	}
}

func TestRunSQLSuccess(t *testing.T) {
	st := &fakeStore{result: sampleResult()}
	p := pipeline.New(st, &fakeTranslator{}, &fakeSummarizer{analysis: "ok"}, &fakeValidator{verdict: validVerdict()})

	record, err := p.RunSQL(context.Background(), "SELECT track_name, popularity FROM tracks")
	if err != nil {
		t.Fatalf("RunSQL failed: %v", err)
	}
	if record.Question != "" {
		t.Errorf("direct SQL record should have no question, got %q", record.Question)
	}
	if len(st.executed) != 1 {
		t.Errorf("executed %d queries, want 1", len(st.executed))
	}
}

func TestRunExecutionFailure(t *testing.T) {
	st := &fakeStore{execErr: errors.New("binder error: column nope not found")}
	p := pipeline.New(st, &fakeTranslator{sql: "SELECT nope FROM tracks"}, &fakeSummarizer{}, &fakeValidator{verdict: validVerdict()})

	_, err := p.Run(context.Background(), "q")
	var perr *pipeline.Error
	if !errors.As(err, &perr) || perr.Kind != pipeline.KindExecutionFailed {
		t.Fatalf("err = %v, want execution_failed", err)
	}
	if perr.SQL == "" {
		t.Error("failing SQL should be preserved on the error")
	}
}
