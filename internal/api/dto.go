package api

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// RefreshRequest is the body of POST /api/refresh. Path limits the rescan
// to one folder of the section.
type RefreshRequest struct {
	SectionID string `json:"section_id" validate:"required"`
	Path      string `json:"path,omitempty"`
}

type ActionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
