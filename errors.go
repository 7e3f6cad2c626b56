package alma

import (
	"errors"
	"fmt"
)

// ConfigError is returned when a client cannot be built from the given options.
type ConfigError struct {
	Option  string
	Message string
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "alma: invalid configuration"
	}
	if e.Option == "" {
		return fmt.Sprintf("alma: invalid configuration: %s", e.Message)
	}
	return fmt.Sprintf("alma: invalid configuration: `%s` %s", e.Option, e.Message)
}

func configErrorf(option, format string, args ...any) *ConfigError {
	return &ConfigError{Option: option, Message: fmt.Sprintf(format, args...)}
}

// IsConfigError checks whether err is a *ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// ValidationError indicates that a call is missing required arguments or contains invalid data.
type ValidationError struct {
	Fields []FieldError
}

type FieldError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation error"
	}
	if len(e.Fields) == 1 {
		fe := e.Fields[0]
		if fe.Field == "" {
			return fmt.Sprintf("validation error: %s", fe.Message)
		}
		return fmt.Sprintf("validation error: %s: %s", fe.Field, fe.Message)
	}
	return fmt.Sprintf("validation error: %d fields", len(e.Fields))
}

func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// IsValidationError checks whether err is a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// RequestError represents a non-2xx response from the Alma API.
//
// Message is the `message` field of the JSON error body when present, or the
// HTTP status line otherwise.
type RequestError struct {
	Message  string
	Request  *Request
	Response *Response
}

func (e *RequestError) Error() string {
	if e == nil {
		return "alma api error"
	}
	if e.Response == nil {
		return fmt.Sprintf("alma api error: %s", e.Message)
	}
	return fmt.Sprintf("alma api error: status %d: %s", e.Response.StatusCode, e.Message)
}

// StatusCode returns the HTTP status of the failed call, or 0 when unknown.
func (e *RequestError) StatusCode() int {
	if e == nil || e.Response == nil {
		return 0
	}
	return e.Response.StatusCode
}

// IsRequestError checks whether err is a *RequestError.
func IsRequestError(err error) bool {
	_, ok := AsRequestError(err)
	return ok
}

// AsRequestError extracts a *RequestError from err.
func AsRequestError(err error) (*RequestError, bool) {
	var re *RequestError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
