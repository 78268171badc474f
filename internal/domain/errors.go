package domain

import (
	"errors"
	"fmt"
)

// APIErrorKind classifies client-level failures. The HTTP adapter returns
// these through the Client port; everything else only switches on kinds.
type APIErrorKind int

const (
	APIErrHTTP APIErrorKind = iota
	APIErrJSONParse
	APIErrGithubAPI
	APIErrConfig
	APIErrConfigValidation
	APIErrAuthentication
	APIErrInvalidToken
	APIErrExpiredToken
	APIErrTimeout
	APIErrInvalidURL
	APIErrNotFound
	APIErrRateLimit
)

// APIError is the typed error produced by the remote API client.
type APIError struct {
	Kind     APIErrorKind
	Message  string
	Endpoint string // JSON parse failures: the path that produced the body
	Field    string // config validation failures
	Resource string // not-found failures
	Status   int    // HTTP status when one was received
	Cause    error
}

func (e *APIError) Error() string {
	switch e.Kind {
	case APIErrHTTP:
		return fmt.Sprintf("HTTP error: %s", e.Message)
	case APIErrJSONParse:
		return fmt.Sprintf("JSON parse error from %s: %s", e.Endpoint, e.Message)
	case APIErrConfigValidation:
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	case APIErrAuthentication:
		return "authentication failed"
	case APIErrInvalidToken:
		return "the provided token is invalid"
	case APIErrExpiredToken:
		return "the provided token has expired"
	case APIErrTimeout:
		return "request timeout"
	case APIErrInvalidURL:
		return fmt.Sprintf("invalid URL: %s", e.Message)
	case APIErrNotFound:
		return fmt.Sprintf("not found: %s", e.Resource)
	case APIErrRateLimit:
		return "rate limit exceeded"
	}
	return e.Message
}

func (e *APIError) Unwrap() error { return e.Cause }

func NewAPIError(kind APIErrorKind, message string) *APIError {
	return &APIError{Kind: kind, Message: message}
}

func ConfigValidationError(field, message string) *APIError {
	return &APIError{Kind: APIErrConfigValidation, Field: field, Message: message}
}

// FailureKind classifies application-level errors, the payload of AppError
// events and the input to notice classification.
type FailureKind int

const (
	FailGeneral FailureKind = iota
	FailInvalidToken
	FailExpiredToken
	FailConfigFileNotFound
	FailConfigLoad
	FailConfigSave
	FailConfigValidation
	FailJSONDecode
)

// Failure is the application-level error carried by AppError events.
type Failure struct {
	Kind    FailureKind
	Message string
	Field   string
	Path    string
}

func (f Failure) Error() string {
	switch f.Kind {
	case FailInvalidToken:
		return "The provided token is invalid."
	case FailExpiredToken:
		return "The provided token has expired."
	case FailConfigFileNotFound:
		return fmt.Sprintf("Configuration file not found: %s", f.Path)
	case FailConfigLoad:
		return fmt.Sprintf("Failed to load configuration from %s: %s", f.Path, f.Message)
	case FailConfigSave:
		return fmt.Sprintf("Failed to save configuration to %s: %s", f.Path, f.Message)
	case FailConfigValidation:
		return fmt.Sprintf("Invalid %s: %s", f.Field, f.Message)
	case FailJSONDecode:
		return fmt.Sprintf("JSON decode failed at %s: %s", f.Path, f.Message)
	}
	return f.Message
}

func GeneralFailure(format string, args ...any) Failure {
	return Failure{Kind: FailGeneral, Message: fmt.Sprintf(format, args...)}
}

// AsFailure converts any error into the application-level Failure,
// preserving the token and config sub-kinds that get dedicated notices.
func AsFailure(err error) Failure {
	var f Failure
	if errors.As(err, &f) {
		return f
	}
	var api *APIError
	if !errors.As(err, &api) {
		return Failure{Kind: FailGeneral, Message: err.Error()}
	}
	switch api.Kind {
	case APIErrInvalidToken:
		return Failure{Kind: FailInvalidToken}
	case APIErrExpiredToken:
		return Failure{Kind: FailExpiredToken}
	case APIErrConfigValidation:
		return Failure{Kind: FailConfigValidation, Field: api.Field, Message: api.Message}
	case APIErrJSONParse:
		return Failure{Kind: FailJSONDecode, Path: api.Endpoint, Message: api.Message}
	}
	return Failure{Kind: FailGeneral, Message: api.Error()}
}
