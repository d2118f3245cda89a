package dto

// ErrorResponse is the JSON error envelope for orchestration endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NotFoundResponse mirrors the relay's 404 contract.
type NotFoundResponse struct {
	Error              string   `json:"error"`
	Method             string   `json:"method"`
	URI                string   `json:"uri"`
	AvailableEndpoints []string `json:"available_endpoints"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
