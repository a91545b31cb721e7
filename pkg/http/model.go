package http

// APIResponse is the envelope every endpoint answers with. Status mirrors the
// HTTP status line.
type APIResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ValidationError describes one rejected request field.
type ValidationError struct {
	Code    string         `json:"code,omitempty"`
	Field   string         `json:"field,omitempty"`
	Message string         `json:"message,omitempty"`
	Params  map[string]any `json:"params,omitempty"`
}

// ListDataResponse wraps collection results. The catalog is small and fully
// in memory, so there is no paging: Total always equals len(Rows).
type ListDataResponse struct {
	Rows  any `json:"rows"`
	Total int `json:"total"`
}
