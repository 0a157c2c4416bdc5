package chart_test

import (
	"strings"
	"testing"

	"github.com/melodex/melodex/internal/chart"
	"github.com/melodex/melodex/internal/store"
)

func genreCounts() *store.ResultSet {
	return &store.ResultSet{
		Columns: []string{"genre", "cnt"},
		Kinds:   []store.ColumnKind{store.KindText, store.KindNumeric},
		Rows: []map[string]any{
			{"genre": "pop", "cnt": int64(42)},
			{"genre": "rock", "cnt": int64(17)},
		},
	}
}

func TestPie(t *testing.T) {
	spec := chart.Pie(genreCounts(), "genre", "cnt")
	if spec.Kind != chart.KindPie {
		t.Fatalf("kind = %s, want pie", spec.Kind)
	}
	if spec.X != "genre" || spec.Y != "cnt" {
		t.Errorf("axes = (%s, %s), want (genre, cnt)", spec.X, spec.Y)
	}
	if len(spec.Rows) != 2 {
		t.Errorf("rows = %d, want 2", len(spec.Rows))
	}
	if !strings.Contains(spec.Title, "cnt") || !strings.Contains(spec.Title, "genre") {
		t.Errorf("title = %q, should name both columns", spec.Title)
	}
}

func TestBox(t *testing.T) {
	spec := chart.Box(genreCounts(), "genre", "cnt")
	if spec.Kind != chart.KindBox {
		t.Fatalf("kind = %s, want box", spec.Kind)
	}
	if spec.X != "genre" || spec.Y != "cnt" {
		t.Errorf("axes = (%s, %s), want (genre, cnt)", spec.X, spec.Y)
	}
}

func TestHeatmap(t *testing.T) {
	rs := numericPair(10)
	spec := chart.Heatmap(rs)
	if spec.Kind != chart.KindHeatmap {
		t.Fatalf("kind = %s, want heatmap", spec.Kind)
	}
	if len(spec.Columns) != 2 || spec.Columns[0] != "energy" || spec.Columns[1] != "danceability" {
		t.Errorf("columns = %v, want the numeric columns in select order", spec.Columns)
	}
	if len(spec.Rows) != 10 {
		t.Errorf("rows = %d, want 10", len(spec.Rows))
	}
}

func TestHeatmapNeedsTwoNumericColumns(t *testing.T) {
	spec := chart.Heatmap(genreCounts())
	if spec.Kind != chart.KindNone {
		t.Fatalf("kind = %s, want none for a single numeric column", spec.Kind)
	}
	if spec.Message == "" {
		t.Error("degenerate heatmap should explain itself")
	}
}
