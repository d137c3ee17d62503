package models

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Queue     bool   `json:"queue"`
	Cache     string `json:"cache"`
}

// OperationResponse wraps the result of a single gap operation
type OperationResponse struct {
	Operation string      `json:"operation"`
	Window    int         `json:"window,omitempty"`
	Mode      string      `json:"mode,omitempty"`
	Result    interface{} `json:"result"`
}

// ErrorResponse represents error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Path    string                 `json:"path,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}
