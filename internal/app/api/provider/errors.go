package provider

import (
	"errors"
	"fmt"
)

// Error codes for TranscriptionError.
const (
	CodeMissingAPIKey = "missing_api_key"
	CodeUploadFailed  = "upload_failed"
	CodeSubmitFailed  = "submit_failed"
	CodePollFailed    = "poll_failed"
	CodeNetworkError  = "network_error"
	CodeVendorError   = "vendor_error"
	CodeInvalidInput  = "invalid_input"
	CodeParseError    = "response_parse_error"
	CodeTimeout       = "timeout"
	CodeCanceled      = "canceled"
)

// TranscriptionError is returned by vendors and the polling loop. Message is
// user facing and is what the proxy puts in its error field.
type TranscriptionError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Provider  string `json:"provider"`
	Retryable bool   `json:"retryable"`
	cause     error
}

func (e *TranscriptionError) Error() string {
	return e.Message
}

func (e *TranscriptionError) Unwrap() error {
	return e.cause
}

// NewError builds a TranscriptionError.
func NewError(provider, code, message string) *TranscriptionError {
	return &TranscriptionError{Code: code, Message: message, Provider: provider}
}

// WrapError builds a retryable TranscriptionError around a transport failure.
func WrapError(provider, code string, cause error, format string, args ...interface{}) *TranscriptionError {
	return &TranscriptionError{
		Code:      code,
		Message:   fmt.Sprintf(format, args...),
		Provider:  provider,
		Retryable: code == CodeNetworkError,
		cause:     cause,
	}
}

// MissingAPIKey is the configuration error raised before any network call.
func MissingAPIKey(provider, envVar string) *TranscriptionError {
	return NewError(provider, CodeMissingAPIKey, fmt.Sprintf("%s não está configurada!", envVar))
}

// Code extracts the TranscriptionError code from err, or "" when err is of
// another type.
func Code(err error) string {
	var te *TranscriptionError
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}
