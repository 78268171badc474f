package github_http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/davarch/actions-dash/internal/domain"
)

// GitHub reports errors in two shapes depending on the endpoint.
type errorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

type messageBody struct {
	Message string `json:"message"`
}

// classifyError maps a failed response onto the error taxonomy. 401
// bodies are inspected to tell an invalid credential from an expired one
// since the user remedy differs.
func classifyError(status int, body []byte) *domain.APIError {
	switch status {
	case http.StatusUnauthorized:
		return classifyUnauthorized(body)

	case http.StatusNotFound:
		return &domain.APIError{Kind: domain.APIErrNotFound, Resource: "resource", Status: status}

	case http.StatusUnprocessableEntity:
		var mb messageBody
		if json.Unmarshal(body, &mb) == nil && mb.Message != "" {
			return &domain.APIError{
				Kind:    domain.APIErrGithubAPI,
				Message: fmt.Sprintf("validation failed: %s", mb.Message),
				Status:  status,
			}
		}
		return &domain.APIError{
			Kind:    domain.APIErrGithubAPI,
			Message: fmt.Sprintf("validation failed: %s", body),
			Status:  status,
		}

	case http.StatusTooManyRequests:
		return &domain.APIError{Kind: domain.APIErrRateLimit, Status: status}
	}

	var eb errorBody
	if json.Unmarshal(body, &eb) == nil && eb.Error != "" {
		return &domain.APIError{
			Kind:    domain.APIErrGithubAPI,
			Message: fmt.Sprintf("HTTP %d: %s %s", status, eb.Error, eb.ErrorDescription),
			Status:  status,
		}
	}
	var mb messageBody
	if json.Unmarshal(body, &mb) == nil && mb.Message != "" {
		return &domain.APIError{
			Kind:    domain.APIErrGithubAPI,
			Message: fmt.Sprintf("HTTP %d: %s", status, mb.Message),
			Status:  status,
		}
	}
	return &domain.APIError{
		Kind:    domain.APIErrGithubAPI,
		Message: fmt.Sprintf("HTTP %d: %s", status, body),
		Status:  status,
	}
}

func classifyUnauthorized(body []byte) *domain.APIError {
	var eb errorBody
	if json.Unmarshal(body, &eb) != nil || eb.Error == "" {
		return &domain.APIError{Kind: domain.APIErrAuthentication, Status: http.StatusUnauthorized}
	}
	switch eb.Error {
	case "invalid_token":
		return &domain.APIError{Kind: domain.APIErrInvalidToken, Status: http.StatusUnauthorized}
	case "expired_token":
		return &domain.APIError{Kind: domain.APIErrExpiredToken, Status: http.StatusUnauthorized}
	}
	if strings.Contains(eb.ErrorDescription, "expired") || strings.Contains(eb.ErrorDescription, "expiry") {
		return &domain.APIError{Kind: domain.APIErrExpiredToken, Status: http.StatusUnauthorized}
	}
	return &domain.APIError{Kind: domain.APIErrAuthentication, Status: http.StatusUnauthorized}
}
