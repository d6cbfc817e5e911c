package models

// ScanRequest represents a request to scan a directory tree
type ScanRequest struct {
	Path      string `json:"path" binding:"required"`
	Extension string `json:"extension,omitempty"`
}

// ScanResponse represents the meshes found under a root
type ScanResponse struct {
	Root      string   `json:"root"`
	Extension string   `json:"extension"`
	Meshes    []string `json:"meshes"`
	Count     int      `json:"count"`
}

// ErrorResponse represents a failed request
type ErrorResponse struct {
	Error     string `json:"error"`
	ErrorType string `json:"error_type,omitempty"`
	Path      string `json:"path,omitempty"`
}
