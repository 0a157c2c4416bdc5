package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/melodex/melodex/internal/models"
	"github.com/melodex/melodex/internal/pipeline"
	"github.com/melodex/melodex/internal/report"
	"github.com/melodex/melodex/internal/session"
)

// ReportHandler renders session history as a markdown report.
type ReportHandler struct {
	sessions *session.Manager
}

func NewReportHandler(sm *session.Manager) *ReportHandler {
	return &ReportHandler{sessions: sm}
}

// Report handles POST /api/v1/report
func (h *ReportHandler) Report(w http.ResponseWriter, r *http.Request) {
	var req models.ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.SessionID == "" {
		models.WriteError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	sess, ok := h.sessions.Get(req.SessionID)
	if !ok {
		models.WriteError(w, http.StatusNotFound, "session not found")
		return
	}

	records := sess.History()
	if len(records) == 0 {
		models.WriteError(w, http.StatusUnprocessableEntity, "session has no query history")
		return
	}

	var markdown string
	if req.RecordID != "" {
		record := findRecord(records, req.RecordID)
		if record == nil {
			models.WriteError(w, http.StatusNotFound, "record not found in session")
			return
		}
		markdown = report.Render(record)
	} else {
		markdown = report.RenderSession(sess.ID, records, time.Now().UTC())
	}

	models.WriteJSON(w, http.StatusOK, models.ReportResponse{
		Status:   "success",
		Markdown: markdown,
	})
}

func findRecord(records []*pipeline.QueryRecord, id string) *pipeline.QueryRecord {
	for _, record := range records {
		if record.ID == id {
			return record
		}
	}
	return nil
}
