package utils

import "time"

// SuccessResponse is the envelope every quoting endpoint returns on success.
// Handlers put the step, coverage, or widget payload in Data as-is.
type SuccessResponse struct {
	Success bool  `json:"success"`
	Data    any   `json:"data"`
	Meta    *Meta `json:"meta,omitempty"`
}

// ErrorResponse carries a machine-readable code (SESSION_NOT_FOUND,
// STEP_GATED, ...) plus a message safe to show the applicant.
type ErrorResponse struct {
	Success bool     `json:"success"`
	Error   APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Meta stamps when the response was produced, which the client uses to
// order quote refreshes arriving out of sequence.
type Meta struct {
	Timestamp time.Time `json:"timestamp"`
}

func CreateErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Success: false,
		Error:   APIError{Code: code, Message: message},
	}
}

func CreateSuccessResponse(data any) SuccessResponse {
	return SuccessResponse{
		Success: true,
		Data:    data,
		Meta:    &Meta{Timestamp: time.Now()},
	}
}
