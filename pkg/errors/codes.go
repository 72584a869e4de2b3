package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeNotImplemented     ErrorCode = "COMMON_016"
)

// Aliases used by call sites that predate the prefixed names.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
	CodeOK           = ErrorCode("OK")
	CodeUnknown      = ErrorCode("UNKNOWN")
)

// Reaction Module Error Codes
const (
	// ErrCodeEquationMalformed marks an equation that does not follow the
	// equation grammar. It is fatal for a whole model conversion.
	ErrCodeEquationMalformed ErrorCode = "RXN_001"
	// ErrCodeCompartmentOverflow is raised when a model has more distinct
	// compartments than single-character codes available.
	ErrCodeCompartmentOverflow ErrorCode = "RXN_002"
	ErrCodeCompartmentUnmapped ErrorCode = "RXN_003"
	ErrCodeIdentifierTable     ErrorCode = "RXN_004"
)

// IO Error Codes
const (
	ErrCodeReadFailed  ErrorCode = "IO_001"
	ErrCodeWriteFailed ErrorCode = "IO_002"
	ErrCodeStorage     ErrorCode = "IO_003"
	ErrCodeCache       ErrorCode = "IO_004"
	ErrCodeMessaging   ErrorCode = "IO_005"
)

// ErrorCodeHTTPStatus maps an ErrorCode to the status returned by the API server.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusBadRequest,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeEquationMalformed:   http.StatusUnprocessableEntity,
	ErrCodeCompartmentOverflow: http.StatusUnprocessableEntity,
	ErrCodeCompartmentUnmapped: http.StatusUnprocessableEntity,
	ErrCodeIdentifierTable:     http.StatusUnprocessableEntity,

	ErrCodeReadFailed:  http.StatusInternalServerError,
	ErrCodeWriteFailed: http.StatusInternalServerError,
	ErrCodeStorage:     http.StatusBadGateway,
	ErrCodeCache:       http.StatusBadGateway,
	ErrCodeMessaging:   http.StatusBadGateway,
}

// ErrorCodeMessage holds the default message for each ErrorCode.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeEquationMalformed:   "equation is badly formatted",
	ErrCodeCompartmentOverflow: "too many compartments for the alphabet",
	ErrCodeCompartmentUnmapped: "compartment tag has no allocated code",
	ErrCodeIdentifierTable:     "invalid identifier table",

	ErrCodeReadFailed:  "failed to read input",
	ErrCodeWriteFailed: "failed to write output",
	ErrCodeStorage:     "object storage request failed",
	ErrCodeCache:       "result cache request failed",
	ErrCodeMessaging:   "event publish failed",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
