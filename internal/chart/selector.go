package chart

import (
	"fmt"
	"sort"

	"github.com/melodex/melodex/internal/store"
)

// Kind names a chart family the frontend knows how to render.
type Kind string

const (
	KindScatter   Kind = "scatter"
	KindBar       Kind = "bar"
	KindHistogram Kind = "histogram"
	KindPie       Kind = "pie"
	KindBox       Kind = "box"
	KindHeatmap   Kind = "heatmap"
	KindNone      Kind = "none"
)

// barTopN caps bar charts at the largest N categories so wide result
// sets stay readable.
const barTopN = 20

// Spec describes the chart chosen for one result set. When Kind is
// KindNone, Message explains why no chart applies.
type Spec struct {
	Kind    Kind             `json:"kind"`
	X       string           `json:"x,omitempty"`
	Y       string           `json:"y,omitempty"`
	Columns []string         `json:"columns,omitempty"` // heatmap column set
	Title   string           `json:"title,omitempty"`
	Message string           `json:"message,omitempty"`
	Rows    []map[string]any `json:"rows,omitempty"`
}

// Select picks a chart for the result set. The decision is a pure
// function of column kinds and row count; the first matching rule wins.
//
//	no rows                        -> none
//	>=2 numeric columns, >1 row    -> scatter of the first two
//	>=1 text and >=1 numeric       -> bar, top categories by value
//	exactly 1 numeric column       -> histogram
//	anything else                  -> none, view as table
func Select(rs *store.ResultSet) Spec {
	if rs == nil || rs.RowCount() == 0 {
		return Spec{Kind: KindNone, Message: "no data to visualize"}
	}

	numeric := rs.NumericColumns()
	text := rs.TextColumns()

	switch {
	case len(numeric) >= 2 && rs.RowCount() > 1:
		return Spec{
			Kind:  KindScatter,
			X:     numeric[0],
			Y:     numeric[1],
			Title: fmt.Sprintf("%s vs %s", numeric[0], numeric[1]),
			Rows:  rs.Rows,
		}
	case len(text) >= 1 && len(numeric) >= 1:
		return Spec{
			Kind:  KindBar,
			X:     text[0],
			Y:     numeric[0],
			Title: fmt.Sprintf("%s by %s", numeric[0], text[0]),
			Rows:  topRowsByValue(rs.Rows, numeric[0], barTopN),
		}
	case len(numeric) == 1:
		return Spec{
			Kind:  KindHistogram,
			X:     numeric[0],
			Title: fmt.Sprintf("distribution of %s", numeric[0]),
			Rows:  rs.Rows,
		}
	default:
		return Spec{Kind: KindNone, Message: "view results as a table"}
	}
}

// topRowsByValue returns the n rows with the largest value in column,
// preserving the original order of rows beyond the sort key. Rows whose
// value is not a number sort last.
func topRowsByValue(rows []map[string]any, column string, n int) []map[string]any {
	if len(rows) <= n {
		return rows
	}

	sorted := make([]map[string]any, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return numericValue(sorted[i][column]) > numericValue(sorted[j][column])
	})
	return sorted[:n]
}

func numericValue(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int64:
		return float64(t)
	case int32:
		return float64(t)
	case int:
		return float64(t)
	default:
		return 0
	}
}
