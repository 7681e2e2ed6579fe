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
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeForbidden          ErrorCode = "COMMON_004"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
	ErrCodeNotImplemented     ErrorCode = "COMMON_015"
)

// Property Module Error Codes
const (
	ErrCodePropertyInvalid       ErrorCode = "PROP_001"
	ErrCodePropertyNotFound      ErrorCode = "PROP_002"
	ErrCodePropertyAlreadyExists ErrorCode = "PROP_003"
)

// Deck Module Error Codes
const (
	ErrCodeDeckNotFound    ErrorCode = "DECK_001"
	ErrCodeDeckEmpty       ErrorCode = "DECK_002"
	ErrCodeCardNotFound    ErrorCode = "DECK_003"
	ErrCodeDuplicateCard   ErrorCode = "DECK_004"
	ErrCodeNoMasterCard    ErrorCode = "DECK_005"
	ErrCodeDeckExportError ErrorCode = "DECK_006"
)

// Valuation Module Error Codes
const (
	ErrCodeValuationFailed           ErrorCode = "VAL_001"
	ErrCodeValuationDataInsufficient ErrorCode = "VAL_002"
	ErrCodeScoringFailed             ErrorCode = "VAL_003"
)

// Renovation Module Error Codes
const (
	ErrCodeRenovationTierInvalid  ErrorCode = "RENO_001"
	ErrCodeRenovationScopeInvalid ErrorCode = "RENO_002"
)

// Aliases used at call sites that pre-date the COMMON_* scheme.
const (
	CodeInternal       = ErrCodeInternal
	CodeInvalidParam   = ErrCodeBadRequest
	CodeUnauthorized   = ErrCodeUnauthorized
	CodeForbidden      = ErrCodeForbidden
	CodeNotFound       = ErrCodeNotFound
	CodeConflict       = ErrCodeConflict
	CodeRateLimit      = ErrCodeTooManyRequests
	CodeNotImplemented = ErrCodeNotImplemented
	CodeOK             = ErrorCode("OK")

	CodeDatabaseError = ErrCodeDatabaseError
	CodeCacheError    = ErrCodeCacheError
	CodeStorageError  = ErrCodeExternalService
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusInternalServerError,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodePropertyInvalid:       http.StatusBadRequest,
	ErrCodePropertyNotFound:      http.StatusNotFound,
	ErrCodePropertyAlreadyExists: http.StatusConflict,

	ErrCodeDeckNotFound:    http.StatusNotFound,
	ErrCodeDeckEmpty:       http.StatusUnprocessableEntity,
	ErrCodeCardNotFound:    http.StatusNotFound,
	ErrCodeDuplicateCard:   http.StatusConflict,
	ErrCodeNoMasterCard:    http.StatusUnprocessableEntity,
	ErrCodeDeckExportError: http.StatusInternalServerError,

	ErrCodeValuationFailed:           http.StatusInternalServerError,
	ErrCodeValuationDataInsufficient: http.StatusUnprocessableEntity,
	ErrCodeScoringFailed:             http.StatusInternalServerError,

	ErrCodeRenovationTierInvalid:  http.StatusBadRequest,
	ErrCodeRenovationScopeInvalid: http.StatusBadRequest,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeUnauthorized:       "unauthorized",
	ErrCodeForbidden:          "forbidden",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodePropertyInvalid:       "invalid property record",
	ErrCodePropertyNotFound:      "property not found",
	ErrCodePropertyAlreadyExists: "property already exists",

	ErrCodeDeckNotFound:    "deck not found",
	ErrCodeDeckEmpty:       "deck has no cards",
	ErrCodeCardNotFound:    "card not found",
	ErrCodeDuplicateCard:   "property already present in deck",
	ErrCodeNoMasterCard:    "deck has no subject property",
	ErrCodeDeckExportError: "failed to export deck",

	ErrCodeValuationFailed:           "comparable valuation failed",
	ErrCodeValuationDataInsufficient: "insufficient data for valuation",
	ErrCodeScoringFailed:             "comparability scoring failed",

	ErrCodeRenovationTierInvalid:  "unknown renovation quality tier",
	ErrCodeRenovationScopeInvalid: "invalid renovation scope",
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

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
