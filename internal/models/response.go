package models

import (
	"github.com/melodex/melodex/internal/pipeline"
	"github.com/melodex/melodex/internal/store"
)

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// AskResponse is returned by POST /api/v1/ask and POST /api/v1/query
type AskResponse struct {
	Status    string                `json:"status"`
	SessionID string                `json:"session_id"`
	Record    *pipeline.QueryRecord `json:"record"`
}

// HistoryResponse is returned by GET /api/v1/history
type HistoryResponse struct {
	Status    string                  `json:"status"`
	SessionID string                  `json:"session_id"`
	Count     int                     `json:"count"`
	Records   []*pipeline.QueryRecord `json:"records"`
}

// TablesResponse is returned by GET /api/v1/tables
type TablesResponse struct {
	Status string   `json:"status"`
	Tables []string `json:"tables"`
}

// TableDetailResponse is returned by GET /api/v1/tables/{table}
type TableDetailResponse struct {
	Status string            `json:"status"`
	Table  store.TableDetail `json:"table"`
}

// SampleResponse is returned by GET /api/v1/tables/{table}/sample
type SampleResponse struct {
	Status string           `json:"status"`
	Table  string           `json:"table"`
	Sample *store.ResultSet `json:"sample"`
}

// DatabaseResponse is returned by GET /api/v1/database
type DatabaseResponse struct {
	Status   string              `json:"status"`
	Database *store.DatabaseInfo `json:"database"`
}

// ExamplesResponse is returned by GET /api/v1/examples
type ExamplesResponse struct {
	Status    string   `json:"status"`
	Questions []string `json:"questions"`
}

// ReportResponse is returned by POST /api/v1/report
type ReportResponse struct {
	Status   string `json:"status"`
	Markdown string `json:"markdown"`
}
