package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/melodex/melodex/internal/models"
	"github.com/melodex/melodex/internal/pipeline"
	"github.com/melodex/melodex/internal/security"
	"github.com/melodex/melodex/internal/session"
)

// QueryHandler executes user-edited SQL. The statement goes through the
// same validation and execution tail as a translated one; only the
// translation step is skipped.
type QueryHandler struct {
	pipeline *pipeline.Pipeline
	sessions *session.Manager
	audit    *security.AuditLogger
}

func NewQueryHandler(p *pipeline.Pipeline, sm *session.Manager, audit *security.AuditLogger) *QueryHandler {
	return &QueryHandler{pipeline: p, sessions: sm, audit: audit}
}

// Query handles POST /api/v1/query
func (h *QueryHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req models.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.SQL) == "" {
		models.WriteError(w, http.StatusBadRequest, "sql is required")
		return
	}
	req.SetDefaults()

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(req.TimeoutMs)*time.Millisecond)
	defer cancel()

	sess := h.sessions.GetOrCreate(req.SessionID)
	start := time.Now()

	record, err := h.pipeline.RunSQL(ctx, req.SQL)
	if err != nil {
		h.audit.LogQuery(req.SQL, apiKeyFrom(r), time.Since(start).Milliseconds(), 0, false, err.Error())
		writePipelineError(w, err)
		return
	}

	sess.Prepend(record)
	h.audit.LogQuery(req.SQL, apiKeyFrom(r), record.TookMs, record.Result.RowCount(), true, "")

	models.WriteJSON(w, http.StatusOK, models.AskResponse{
		Status:    "success",
		SessionID: sess.ID,
		Record:    record,
	})
}
