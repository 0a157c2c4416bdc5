package models

// AskRequest for POST /api/v1/ask (natural-language question)
type AskRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id,omitempty"`
}

// QueryRequest for POST /api/v1/query (user-edited SQL)
type QueryRequest struct {
	SQL       string `json:"sql"`
	SessionID string `json:"session_id,omitempty"`
	TimeoutMs int    `json:"timeout_ms"`
}

func (r *QueryRequest) SetDefaults() {
	if r.TimeoutMs == 0 {
		r.TimeoutMs = 60000
	}
	if r.TimeoutMs < 1000 {
		r.TimeoutMs = 1000
	}
	if r.TimeoutMs > 300000 {
		r.TimeoutMs = 300000
	}
}

// ReportRequest for POST /api/v1/report
type ReportRequest struct {
	SessionID string `json:"session_id"`
	RecordID  string `json:"record_id,omitempty"`
}
