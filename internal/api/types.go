package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// GenerateRequest is the body of POST /api/generate-pdf.
type GenerateRequest struct {
	HTML string `json:"html"`
}

// ConversionItem describes one finished conversion in a transport-friendly
// format.
type ConversionItem struct {
	ID           int64  `json:"id"`
	RequestID    string `json:"requestId"`
	Title        string `json:"title"`
	Status       string `json:"status"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	InputBytes   int64  `json:"inputBytes"`
	OutputBytes  int64  `json:"outputBytes"`
	PollAttempts int    `json:"pollAttempts"`
	DurationMS   int64  `json:"durationMs"`
	CreatedAt    string `json:"createdAt,omitempty"`
	FinishedAt   string `json:"finishedAt,omitempty"`
}

// ConversionTotals aggregates history counts by terminal status.
type ConversionTotals struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	TimedOut  int `json:"timedOut"`
	Rejected  int `json:"rejected"`
}

// HistoryResponse wraps a collection of conversion records.
type HistoryResponse struct {
	Items []ConversionItem `json:"items"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running       bool             `json:"running"`
	PID           int              `json:"pid"`
	Version       string           `json:"version,omitempty"`
	StartedAt     string           `json:"startedAt,omitempty"`
	Bind          string           `json:"bind"`
	HistoryDBPath string           `json:"historyDbPath,omitempty"`
	LockFilePath  string           `json:"lockFilePath,omitempty"`
	Conversions   ConversionTotals `json:"conversions"`
}

// ErrorResponse is the JSON error envelope used by API endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}
