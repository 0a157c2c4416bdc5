package store

import (
	"fmt"
	"strings"
)

// ColumnKind classifies a result column by its declared scalar type.
// Kinds are tagged once when a ResultSet is scanned so downstream
// consumers (chart selection, previews) never re-inspect runtime values.
type ColumnKind string

const (
	KindNumeric ColumnKind = "numeric"
	KindText    ColumnKind = "text"
	KindOther   ColumnKind = "other"
)

// ColumnInfo describes one column of a stored table.
type ColumnInfo struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	NotNull    bool   `json:"not_null"`
	PrimaryKey bool   `json:"primary_key"`
}

// TableSchema describes one stored table.
type TableSchema struct {
	Name    string       `json:"name"`
	Columns []ColumnInfo `json:"columns"`
}

// TableDetail combines a table's schema with its row count.
type TableDetail struct {
	Name     string       `json:"name"`
	RowCount int64        `json:"row_count"`
	Columns  []ColumnInfo `json:"columns"`
}

// DatabaseInfo summarizes the whole store.
type DatabaseInfo struct {
	Path      string        `json:"path"`
	SizeBytes int64         `json:"size_bytes"`
	Tables    []TableDetail `json:"tables"`
}

// ResultSet holds the rows returned by a single query execution.
// Columns preserve the select-list order; Kinds[i] classifies Columns[i].
// A ResultSet is immutable once produced.
type ResultSet struct {
	Columns []string         `json:"columns"`
	Kinds   []ColumnKind     `json:"kinds"`
	Rows    []map[string]any `json:"rows"`
}

// RowCount returns the number of rows in the set.
func (rs *ResultSet) RowCount() int {
	return len(rs.Rows)
}

// NumericColumns returns column names tagged KindNumeric, in select order.
func (rs *ResultSet) NumericColumns() []string {
	return rs.columnsOfKind(KindNumeric)
}

// TextColumns returns column names tagged KindText, in select order.
func (rs *ResultSet) TextColumns() []string {
	return rs.columnsOfKind(KindText)
}

func (rs *ResultSet) columnsOfKind(kind ColumnKind) []string {
	var cols []string
	for i, c := range rs.Columns {
		if i < len(rs.Kinds) && rs.Kinds[i] == kind {
			cols = append(cols, c)
		}
	}
	return cols
}

// Preview renders at most n rows as a plain text table, suitable for
// embedding in a model prompt.
func (rs *ResultSet) Preview(n int) string {
	if rs.RowCount() == 0 {
		return "(no rows)"
	}
	if n > rs.RowCount() {
		n = rs.RowCount()
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(rs.Columns, " | "))
	sb.WriteString("\n")

	for _, row := range rs.Rows[:n] {
		cells := make([]string, len(rs.Columns))
		for i, col := range rs.Columns {
			cells[i] = formatCell(row[col])
		}
		sb.WriteString(strings.Join(cells, " | "))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatCell(v any) string {
	if v == nil {
		return "NULL"
	}
	switch t := v.(type) {
	case float64:
		return formatFloat(t)
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}

func formatFloat(f float64) string {
	// Trim trailing zeros so previews stay compact
	s := fmt.Sprintf("%.4f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// classifyKind maps a declared database type name to a ColumnKind.
func classifyKind(dbType string) ColumnKind {
	upper := strings.ToUpper(dbType)
	for _, marker := range []string{"INT", "DOUBLE", "FLOAT", "DECIMAL", "NUMERIC", "REAL"} {
		if strings.Contains(upper, marker) {
			return KindNumeric
		}
	}
	for _, marker := range []string{"VARCHAR", "CHAR", "TEXT", "STRING", "UUID", "ENUM"} {
		if strings.Contains(upper, marker) {
			return KindText
		}
	}
	return KindOther
}
