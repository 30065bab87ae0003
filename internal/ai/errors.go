package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrNoContent is returned when there is nothing to analyze.
var ErrNoContent = errors.New("please provide a resume to analyze")

// MissingKeyError reports that the active provider has no API key configured.
type MissingKeyError struct {
	Provider Provider
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("Please configure your %s API key first", e.Provider.DisplayName())
}

// APIError is a non-2xx response from a provider.
type APIError struct {
	Provider   Provider
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	label := e.Provider.DisplayName()
	switch {
	case e.Message != "" && e.Code != "":
		return fmt.Sprintf("%s API error: status=%d code=%s message=%s", label, e.StatusCode, e.Code, e.Message)
	case e.Message != "":
		return fmt.Sprintf("%s API error: status=%d message=%s", label, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s API error: status=%d", label, e.StatusCode)
}

// AuthError indicates authentication/authorization failures (401/403).
type AuthError struct{ *APIError }

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.APIError.Error())
}

// RateLimitError indicates 429 responses.
type RateLimitError struct{ *APIError }

func (e *RateLimitError) Error() string { return fmt.Sprintf("rate limited: %s", e.APIError.Error()) }

// BadRequestError indicates a 400 from the provider.
type BadRequestError struct{ *APIError }

func (e *BadRequestError) Error() string { return fmt.Sprintf("bad request: %s", e.APIError.Error()) }

// ServerError indicates 5xx errors from the provider.
type ServerError struct{ *APIError }

func (e *ServerError) Error() string { return fmt.Sprintf("provider error: %s", e.APIError.Error()) }

// ResponseError means the provider answered 2xx but the body was not a usable analysis.
type ResponseError struct {
	Provider Provider
	Reason   string
	Err      error
}

func (e *ResponseError) Error() string {
	msg := fmt.Sprintf("unusable response from %s: %s", e.Provider.DisplayName(), e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ResponseError) Unwrap() error { return e.Err }

// readAPIError drains a failed response and classifies it.
func readAPIError(p Provider, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
	apiErr := &APIError{Provider: p, StatusCode: resp.StatusCode}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err == nil {
		fields := raw
		if nested, ok := raw["error"].(map[string]any); ok {
			fields = nested
		} else if msg, ok := raw["error"].(string); ok {
			apiErr.Message = msg
		}
		if msg, ok := fields["message"].(string); ok {
			apiErr.Message = msg
		}
		if code, ok := fields["code"].(string); ok {
			apiErr.Code = code
		} else if status, ok := fields["status"].(string); ok {
			apiErr.Code = status
		}
	} else if len(body) > 0 {
		apiErr.Message = string(body)
	}
	return classifyAPIError(apiErr)
}

func classifyAPIError(apiErr *APIError) error {
	sc := apiErr.StatusCode
	switch {
	case sc == http.StatusUnauthorized || sc == http.StatusForbidden:
		return &AuthError{APIError: apiErr}
	case sc == http.StatusTooManyRequests:
		return &RateLimitError{APIError: apiErr}
	case sc == http.StatusBadRequest:
		return &BadRequestError{APIError: apiErr}
	case sc >= 500 && sc <= 599:
		return &ServerError{APIError: apiErr}
	}
	return apiErr
}
