package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/melodex/melodex/internal/chart"
	"github.com/melodex/melodex/internal/pipeline"
	"github.com/melodex/melodex/internal/store"
)

const previewRows = 10

// Render produces a markdown report for one completed query.
func Render(record *pipeline.QueryRecord) string {
	var sb strings.Builder

	if record.Question != "" {
		sb.WriteString("## " + record.Question + "\n\n")
	} else {
		sb.WriteString("## Query\n\n")
	}

	sb.WriteString("```sql\n" + record.SQL + "\n```\n\n")

	sb.WriteString(fmt.Sprintf("**Rows:** %d · **Columns:** %d · **Took:** %dms\n\n",
		record.Result.RowCount(), len(record.Result.Columns), record.TookMs))

	if record.Analysis != "" {
		sb.WriteString(record.Analysis + "\n\n")
	}

	if record.Result.RowCount() > 0 {
		sb.WriteString("### Preview\n\n")
		sb.WriteString(markdownTable(record, previewRows))
		sb.WriteString("\n")
	}

	if record.Chart.Kind != "none" && record.Chart.Kind != "" {
		sb.WriteString(fmt.Sprintf("_Suggested chart: %s", record.Chart.Kind))
		if record.Chart.X != "" {
			sb.WriteString(" of " + record.Chart.X)
			if record.Chart.Y != "" {
				sb.WriteString(" vs " + record.Chart.Y)
			}
		}
		sb.WriteString("_\n")
	}

	if alts := alternativeViews(record.Result); len(alts) > 0 {
		sb.WriteString("\n### Alternative views\n\n")
		for _, alt := range alts {
			sb.WriteString(fmt.Sprintf("- %s: %s\n", alt.Kind, alt.Title))
		}
	}

	return sb.String()
}

// pieMaxSlices bounds pie suggestions; past this the slices are
// unreadable and the bar view wins anyway.
const pieMaxSlices = 12

// alternativeViews builds the extra chart specs a result shape
// supports beyond the automatically selected one.
func alternativeViews(rs *store.ResultSet) []chart.Spec {
	if rs == nil || rs.RowCount() == 0 {
		return nil
	}

	text := rs.TextColumns()
	numeric := rs.NumericColumns()

	var specs []chart.Spec
	if len(text) >= 1 && len(numeric) >= 1 {
		if rs.RowCount() <= pieMaxSlices {
			specs = append(specs, chart.Pie(rs, text[0], numeric[0]))
		}
		specs = append(specs, chart.Box(rs, text[0], numeric[0]))
	}
	if len(numeric) >= 2 && rs.RowCount() > 1 {
		specs = append(specs, chart.Heatmap(rs))
	}
	return specs
}

// RenderSession concatenates per-record reports, newest first, under a
// dated title.
func RenderSession(sessionID string, records []*pipeline.QueryRecord, now time.Time) string {
	var sb strings.Builder
	sb.WriteString("# Analysis Report\n\n")
	sb.WriteString(fmt.Sprintf("Session `%s` · %s · %d queries\n\n",
		sessionID, now.Format("2006-01-02 15:04"), len(records)))

	for _, record := range records {
		sb.WriteString(Render(record))
		sb.WriteString("\n---\n\n")
	}
	return strings.TrimSuffix(sb.String(), "\n---\n\n") + "\n"
}

func markdownTable(record *pipeline.QueryRecord, limit int) string {
	rs := record.Result
	n := rs.RowCount()
	if n > limit {
		n = limit
	}

	var sb strings.Builder
	sb.WriteString("| " + strings.Join(rs.Columns, " | ") + " |\n")

	sep := make([]string, len(rs.Columns))
	for i := range sep {
		sep[i] = "---"
	}
	sb.WriteString("| " + strings.Join(sep, " | ") + " |\n")

	for _, row := range rs.Rows[:n] {
		cells := make([]string, len(rs.Columns))
		for i, col := range rs.Columns {
			cells[i] = cellString(row[col])
		}
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	if rs.RowCount() > limit {
		sb.WriteString(fmt.Sprintf("\n_%d more rows omitted_\n", rs.RowCount()-limit))
	}
	return sb.String()
}

func cellString(v any) string {
	if v == nil {
		return ""
	}
	return strings.ReplaceAll(fmt.Sprintf("%v", v), "|", "\\|")
}
