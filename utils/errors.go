package utils

import "net/http"

// CustomError carries an HTTP status alongside the client-facing message.
type CustomError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`
}

func (e *CustomError) Error() string {
	return e.Message
}

// NewCustomError builds a CustomError for the given status.
func NewCustomError(statusCode int, message string) *CustomError {
	return &CustomError{StatusCode: statusCode, Message: message}
}

func BadRequest(message string) *CustomError {
	return NewCustomError(http.StatusBadRequest, message)
}

func UnsupportedMediaType() *CustomError {
	return NewCustomError(http.StatusUnsupportedMediaType, "Unsupported media type")
}

func EntityTooLarge() *CustomError {
	return NewCustomError(http.StatusRequestEntityTooLarge, "Request entity too large")
}
