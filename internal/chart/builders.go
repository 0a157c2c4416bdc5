package chart

import (
	"fmt"
	"strings"

	"github.com/melodex/melodex/internal/store"
)

// Builders below construct chart specs outside the automatic decision
// table. Select covers the common single-query case; report surfaces
// use these for the richer views a result shape supports.

// Pie builds a share-of-whole view from a label column and a value
// column. Readability degrades past a dozen slices, so callers should
// gate on row count.
func Pie(rs *store.ResultSet, names, values string) Spec {
	return Spec{
		Kind:  KindPie,
		X:     names,
		Y:     values,
		Title: fmt.Sprintf("%s share by %s", values, names),
		Rows:  rs.Rows,
	}
}

// Box builds a distribution view of a numeric column grouped by a
// category column.
func Box(rs *store.ResultSet, x, y string) Spec {
	return Spec{
		Kind:  KindBox,
		X:     x,
		Y:     y,
		Title: fmt.Sprintf("%s distribution by %s", y, x),
		Rows:  rs.Rows,
	}
}

// Heatmap builds a correlation view over the set's numeric columns.
// The spec carries the column list and raw rows; the renderer computes
// the correlation matrix. Fewer than two numeric columns have nothing
// to correlate.
func Heatmap(rs *store.ResultSet) Spec {
	numeric := rs.NumericColumns()
	if len(numeric) < 2 {
		return Spec{Kind: KindNone, Message: "correlation needs at least two numeric columns"}
	}
	return Spec{
		Kind:    KindHeatmap,
		Columns: numeric,
		Title:   "correlation of " + strings.Join(numeric, ", "),
		Rows:    rs.Rows,
	}
}
