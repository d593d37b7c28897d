package dto

// ErrorResponse is the uniform failure envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse is the uniform bare-success envelope.
type SuccessResponse struct {
	Success bool `json:"success"`
}
