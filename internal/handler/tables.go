package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/melodex/melodex/internal/models"
	"github.com/melodex/melodex/internal/store"
)

// TablesHandler serves store introspection endpoints.
type TablesHandler struct {
	store *store.Store
}

func NewTablesHandler(st *store.Store) *TablesHandler {
	return &TablesHandler{store: st}
}

// ListTables handles GET /api/v1/tables
func (h *TablesHandler) ListTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.store.Tables(r.Context())
	if err != nil {
		models.WriteError(w, http.StatusInternalServerError, "failed to list tables: "+err.Error())
		return
	}
	models.WriteJSON(w, http.StatusOK, models.TablesResponse{
		Status: "success",
		Tables: tables,
	})
}

// GetTable handles GET /api/v1/tables/{table}
func (h *TablesHandler) GetTable(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")

	cols, err := h.store.TableSchema(r.Context(), table)
	if err != nil {
		models.WriteError(w, http.StatusNotFound, "table not found: "+err.Error())
		return
	}
	count, err := h.store.TableCount(r.Context(), table)
	if err != nil {
		models.WriteError(w, http.StatusInternalServerError, "failed to count rows: "+err.Error())
		return
	}

	models.WriteJSON(w, http.StatusOK, models.TableDetailResponse{
		Status: "success",
		Table: store.TableDetail{
			Name:     table,
			RowCount: count,
			Columns:  cols,
		},
	})
}

// SampleTable handles GET /api/v1/tables/{table}/sample
func (h *TablesHandler) SampleTable(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")

	limit := 5
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			models.WriteError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	rs, err := h.store.TableSample(r.Context(), table, limit)
	if err != nil {
		models.WriteError(w, http.StatusNotFound, "failed to sample table: "+err.Error())
		return
	}

	models.WriteJSON(w, http.StatusOK, models.SampleResponse{
		Status: "success",
		Table:  table,
		Sample: rs,
	})
}

// GetDatabase handles GET /api/v1/database
func (h *TablesHandler) GetDatabase(w http.ResponseWriter, r *http.Request) {
	info, err := h.store.DatabaseInfo(r.Context())
	if err != nil {
		models.WriteError(w, http.StatusInternalServerError, "failed to inspect database: "+err.Error())
		return
	}
	models.WriteJSON(w, http.StatusOK, models.DatabaseResponse{
		Status:   "success",
		Database: info,
	})
}
