package handler

import (
	"net/http"

	"github.com/melodex/melodex/internal/models"
	"github.com/melodex/melodex/internal/session"
)

// HistoryHandler serves and resets per-session query history.
type HistoryHandler struct {
	sessions *session.Manager
}

func NewHistoryHandler(sm *session.Manager) *HistoryHandler {
	return &HistoryHandler{sessions: sm}
}

// GetHistory handles GET /api/v1/history?session_id=...
func (h *HistoryHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	records := sess.History()
	models.WriteJSON(w, http.StatusOK, models.HistoryResponse{
		Status:    "success",
		SessionID: sess.ID,
		Count:     len(records),
		Records:   records,
	})
}

// ResetHistory handles DELETE /api/v1/history?session_id=...
func (h *HistoryHandler) ResetHistory(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	sess.Reset()
	models.WriteJSON(w, http.StatusOK, map[string]any{
		"status":     "success",
		"session_id": sess.ID,
		"message":    "history cleared",
	})
}

func (h *HistoryHandler) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := r.URL.Query().Get("session_id")
	if id == "" {
		models.WriteError(w, http.StatusBadRequest, "session_id is required")
		return nil, false
	}
	sess, ok := h.sessions.Get(id)
	if !ok {
		models.WriteError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return sess, true
}
