// Package errors provides the assistant's error taxonomy and its BPMN mapping.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Request outcomes
const (
	ErrCodeInputInvalid      ErrorCode = "INPUT_INVALID"
	ErrCodeSubRegionNotFound ErrorCode = "SUBREGION_NOT_FOUND"
	ErrCodePriceNotFound     ErrorCode = "PRICE_NOT_FOUND"
	ErrCodeParseError        ErrorCode = "PARSE_ERROR"
	ErrCodeSchemaError       ErrorCode = "SCHEMA_ERROR"
	ErrCodeUpstreamFailure   ErrorCode = "UPSTREAM_FAILURE"
)

// Infrastructure
const (
	ErrCodeInternal                 ErrorCode = "INTERNAL_ERROR"
	ErrCodeConfigInvalid            ErrorCode = "CONFIG_INVALID"
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeSchemaRegistryInvalid    ErrorCode = "SCHEMA_REGISTRY_INVALID"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error { return e.cause }

// WithMetadata returns e with key set in its metadata.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewInputInvalidError reports a request the pipeline cannot act on.
func NewInputInvalidError(details string) *StandardError {
	return newError(ErrCodeInputInvalid, "message (or query/input) is required", details, false)
}

// NewSubRegionNotFoundError carries guidance the client can render as-is.
func NewSubRegionNotFoundError(jurisdiction string) *StandardError {
	return newError(ErrCodeSubRegionNotFound,
		fmt.Sprintf("Couldn't resolve county. Provide a county FIPS or an exact county name in %s.", jurisdiction),
		"", false).WithMetadata("jurisdiction", jurisdiction)
}

// NewPriceNotFoundError reports a resolved county with no price rows.
func NewPriceNotFoundError(county, jurisdiction string) *StandardError {
	return newError(ErrCodePriceNotFound,
		fmt.Sprintf("No NDCP price rows found for %s, %s.", county, jurisdiction),
		"", false).WithMetadata("county", county)
}

func NewParseError(details string) *StandardError {
	return newError(ErrCodeParseError, "JSON parse failed", details, false)
}

func NewSchemaError(details string) *StandardError {
	return newError(ErrCodeSchemaError, "Schema validation failed", details, false)
}

// NewUpstreamFailureError wraps an embedding, completion or database failure.
func NewUpstreamFailureError(service string, err error) *StandardError {
	e := newError(ErrCodeUpstreamFailure, fmt.Sprintf("%s call failed", service), err.Error(), true)
	e.cause = err
	return e.WithMetadata("service", service)
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	e := newError(ErrCodeDatabaseConnectionFailed, "Database connection failed", err.Error(), true)
	e.cause = err
	return e
}

func NewConfigInvalidError(details string) *StandardError {
	return newError(ErrCodeConfigInvalid, "Invalid configuration", details, false)
}

func NewSchemaRegistryInvalidError(intent string, err error) *StandardError {
	e := newError(ErrCodeSchemaRegistryInvalid, "Schema registry entry is invalid", err.Error(), false)
	e.cause = err
	return e.WithMetadata("intent", intent)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to the codes modelled on BPMN
// boundary events.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInputInvalid:             "INPUT_INVALID",
	ErrCodeSubRegionNotFound:        "SUBREGION_NOT_FOUND",
	ErrCodePriceNotFound:            "PRICE_NOT_FOUND",
	ErrCodeParseError:               "MODEL_OUTPUT_INVALID",
	ErrCodeSchemaError:              "MODEL_OUTPUT_INVALID",
	ErrCodeUpstreamFailure:          "UPSTREAM_FAILURE",
	ErrCodeDatabaseConnectionFailed: "UPSTREAM_FAILURE",
}

// GetRetryCount returns the recommended job retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeUpstreamFailure, ErrCodeDatabaseConnectionFailed:
		return 3
	default:
		return 0 // business outcomes are thrown, not retried
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// AsStandard extracts a StandardError from err's chain.
func AsStandard(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	stdErr, ok := AsStandard(err)
	return ok && stdErr.Code == code
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "NOT_FOUND"):
		return "LOOKUP"
	case strings.Contains(codeStr, "PARSE") || strings.Contains(codeStr, "SCHEMA"):
		return "MODEL_OUTPUT"
	case strings.Contains(codeStr, "UPSTREAM") || strings.Contains(codeStr, "DATABASE"):
		return "UPSTREAM"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
