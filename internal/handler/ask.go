package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/melodex/melodex/internal/models"
	"github.com/melodex/melodex/internal/pipeline"
	"github.com/melodex/melodex/internal/security"
	"github.com/melodex/melodex/internal/session"
)

// AskHandler runs the natural-language pipeline and records results in
// the caller's session.
type AskHandler struct {
	pipeline *pipeline.Pipeline
	sessions *session.Manager
	audit    *security.AuditLogger
}

func NewAskHandler(p *pipeline.Pipeline, sm *session.Manager, audit *security.AuditLogger) *AskHandler {
	return &AskHandler{pipeline: p, sessions: sm, audit: audit}
}

// Ask handles POST /api/v1/ask
func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req models.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		models.WriteError(w, http.StatusBadRequest, "question is required")
		return
	}

	sess := h.sessions.GetOrCreate(req.SessionID)
	start := time.Now()

	record, err := h.pipeline.Run(r.Context(), req.Question)
	if err != nil {
		h.audit.LogPipelineRun(req.Question, apiKeyFrom(r), sqlFrom(err), false, time.Since(start).Milliseconds())
		writePipelineError(w, err)
		return
	}

	sess.Prepend(record)
	h.audit.LogPipelineRun(req.Question, apiKeyFrom(r), record.SQL, true, record.TookMs)

	models.WriteJSON(w, http.StatusOK, models.AskResponse{
		Status:    "success",
		SessionID: sess.ID,
		Record:    record,
	})
}

func apiKeyFrom(r *http.Request) string {
	return r.Header.Get("X-API-Key")
}

func sqlFrom(err error) string {
	var perr *pipeline.Error
	if errors.As(err, &perr) {
		return perr.SQL
	}
	return ""
}

// writePipelineError maps a stage-attributed failure onto an HTTP status.
func writePipelineError(w http.ResponseWriter, err error) {
	var perr *pipeline.Error
	if !errors.As(err, &perr) {
		models.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	code := http.StatusInternalServerError
	switch perr.Kind {
	case pipeline.KindValidationRejected, pipeline.KindExecutionFailed:
		code = http.StatusBadRequest
	case pipeline.KindStoreUnavailable:
		code = http.StatusServiceUnavailable
	case pipeline.KindQuotaExceeded, pipeline.KindRateLimited:
		code = http.StatusTooManyRequests
	case pipeline.KindTranslationFailed:
		code = http.StatusBadGateway
	}

	models.WriteErrorDetail(w, code, perr.Message, perr.Remediation, perr.SQL)
}
