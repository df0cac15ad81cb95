package models

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

type RootResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status string   `json:"status"`
	Models []string `json:"models"`
}
