package security

import (
	"context"
	"fmt"
	"strings"
)

// deniedKeywords unconditionally reject a candidate query. Matching is a
// coarse case-insensitive substring scan: a value that merely contains a
// keyword (e.g. a column named "updated_at") is also rejected. That trades
// false positives for a guard that quoting tricks cannot slip past, since
// the check runs before execution and the store holds no write handle.
var deniedKeywords = []string{
	"DROP", "DELETE", "INSERT", "UPDATE", "ALTER", "CREATE", "TRUNCATE",
}

// Verdict is the outcome of validating one candidate query.
type Verdict struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason"`
}

// Planner produces a query plan without executing the query body.
type Planner interface {
	Explain(ctx context.Context, sql string) error
}

// SQLValidator accepts or rejects candidate queries before execution.
// It never mutates store state; the dry-run only asks the planner for
// a plan.
type SQLValidator struct {
	planner Planner
}

func NewSQLValidator(planner Planner) *SQLValidator {
	return &SQLValidator{planner: planner}
}

// Validate returns a Verdict for the candidate query. The verdict is a
// pure function of the query text and the store's current read path.
func (v *SQLValidator) Validate(ctx context.Context, sqlText string) Verdict {
	if strings.TrimSpace(sqlText) == "" {
		return Verdict{Valid: false, Reason: "empty query"}
	}

	upper := strings.ToUpper(sqlText)
	for _, kw := range deniedKeywords {
		if strings.Contains(upper, kw) {
			return Verdict{
				Valid:  false,
				Reason: fmt.Sprintf("keyword %s is not allowed in queries", kw),
			}
		}
	}

	if v.planner != nil {
		if err := v.planner.Explain(ctx, sqlText); err != nil {
			return Verdict{Valid: false, Reason: fmt.Sprintf("query error: %v", err)}
		}
	}

	return Verdict{Valid: true, Reason: "valid"}
}
