package report_test

import (
	"strings"
	"testing"
	"time"

	"github.com/melodex/melodex/internal/chart"
	"github.com/melodex/melodex/internal/pipeline"
	"github.com/melodex/melodex/internal/report"
	"github.com/melodex/melodex/internal/store"
)

func sampleRecord() *pipeline.QueryRecord {
	return &pipeline.QueryRecord{
		ID:       "r1",
		Question: "장르별 곡 개수를 보여줘",
		SQL:      "SELECT genre_name, COUNT(*) AS cnt FROM genres GROUP BY genre_name",
		Result: &store.ResultSet{
			Columns: []string{"genre_name", "cnt"},
			Kinds:   []store.ColumnKind{store.KindText, store.KindNumeric},
			Rows: []map[string]any{
				{"genre_name": "pop", "cnt": int64(42)},
				{"genre_name": "rock", "cnt": int64(17)},
			},
		},
		Analysis: "팝이 가장 많습니다.",
		Chart:    chart.Spec{Kind: chart.KindBar, X: "genre_name", Y: "cnt"},
		TookMs:   12,
	}
}

func TestRenderContainsAllSections(t *testing.T) {
	md := report.Render(sampleRecord())

	for _, want := range []string{
		"## 장르별 곡 개수를 보여줘",
		"```sql",
		"**Rows:** 2",
		"팝이 가장 많습니다.",
		"| genre_name | cnt |",
		"Suggested chart: bar",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q:\n%s", want, md)
		}
	}
}

func TestRenderLimitsPreview(t *testing.T) {
	record := sampleRecord()
	record.Result.Rows = nil
	for i := 0; i < 25; i++ {
		record.Result.Rows = append(record.Result.Rows, map[string]any{
			"genre_name": "g", "cnt": int64(i),
		})
	}

	md := report.Render(record)
	if !strings.Contains(md, "15 more rows omitted") {
		t.Errorf("long result should note omitted rows:\n%s", md)
	}
}

func TestRenderEscapesPipes(t *testing.T) {
	record := sampleRecord()
	record.Result.Rows = []map[string]any{
		{"genre_name": "synth|wave", "cnt": int64(1)},
	}

	md := report.Render(record)
	if !strings.Contains(md, `synth\|wave`) {
		t.Error("pipe characters in cells should be escaped")
	}
}

func TestRenderSuggestsAlternativeViews(t *testing.T) {
	// text + numeric at 2 rows supports pie and box alternatives
	md := report.Render(sampleRecord())

	if !strings.Contains(md, "### Alternative views") {
		t.Fatalf("missing alternative views section:\n%s", md)
	}
	if !strings.Contains(md, "pie: cnt share by genre_name") {
		t.Errorf("missing pie alternative:\n%s", md)
	}
	if !strings.Contains(md, "box: cnt distribution by genre_name") {
		t.Errorf("missing box alternative:\n%s", md)
	}
}

func TestRenderHeatmapAlternativeForNumericPairs(t *testing.T) {
	record := sampleRecord()
	record.Result = &store.ResultSet{
		Columns: []string{"energy", "danceability"},
		Kinds:   []store.ColumnKind{store.KindNumeric, store.KindNumeric},
		Rows: []map[string]any{
			{"energy": 0.7, "danceability": 0.8},
			{"energy": 0.3, "danceability": 0.5},
		},
	}

	md := report.Render(record)
	if !strings.Contains(md, "heatmap: correlation of energy, danceability") {
		t.Errorf("missing heatmap alternative:\n%s", md)
	}
}

func TestRenderSkipsCrowdedPie(t *testing.T) {
	record := sampleRecord()
	record.Result.Rows = nil
	for i := 0; i < 30; i++ {
		record.Result.Rows = append(record.Result.Rows, map[string]any{
			"genre_name": "g", "cnt": int64(i),
		})
	}

	md := report.Render(record)
	if strings.Contains(md, "pie:") {
		t.Error("pie should not be suggested past a dozen categories")
	}
	if !strings.Contains(md, "box:") {
		t.Error("box should still be suggested for text + numeric")
	}
}

func TestRenderNoAlternativesForEmptyResult(t *testing.T) {
	record := sampleRecord()
	record.Result.Rows = nil

	md := report.Render(record)
	if strings.Contains(md, "Alternative views") {
		t.Error("empty result should suggest nothing")
	}
}

func TestRenderSessionJoinsRecords(t *testing.T) {
	a := sampleRecord()
	b := sampleRecord()
	b.ID = "r2"
	b.Question = "가장 인기 있는 곡은?"

	md := report.RenderSession("sess-1", []*pipeline.QueryRecord{b, a}, time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC))

	if !strings.Contains(md, "# Analysis Report") {
		t.Error("missing report title")
	}
	if !strings.Contains(md, "2 queries") {
		t.Error("missing query count")
	}
	if strings.Index(md, "가장 인기 있는 곡은?") > strings.Index(md, "장르별 곡 개수를 보여줘") {
		t.Error("records should render newest first")
	}
}
