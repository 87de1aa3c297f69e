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
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
)

// Dataset Module Error Codes
const (
	ErrCodeDatasetColumnMissing ErrorCode = "DS_001"
	ErrCodeDatasetUnreadable    ErrorCode = "DS_002"
	ErrCodeDatasetParseFailed   ErrorCode = "DS_003"
	ErrCodeDatasetEncoding      ErrorCode = "DS_004"
	ErrCodeDatasetSourceInvalid ErrorCode = "DS_005"
)

// Upload Module Error Codes
const (
	ErrCodeUploadNotFound ErrorCode = "UPL_001"
	ErrCodeUploadTooLarge ErrorCode = "UPL_002"
	ErrCodeUploadDisabled ErrorCode = "UPL_003"
)

// Storage Error Codes
const (
	ErrCodeObjectNotFound ErrorCode = "OBJ_001"
	ErrCodeStorageError   ErrorCode = "OBJ_002"
)

// CodeOK is reported by GetCode for a nil error, CodeUnknown for an error
// chain without an AppError.
const (
	CodeOK      = ErrorCode("OK")
	CodeUnknown = ErrorCode("UNKNOWN")
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,

	ErrCodeDatasetColumnMissing: http.StatusUnprocessableEntity,
	ErrCodeDatasetUnreadable:    http.StatusInternalServerError,
	ErrCodeDatasetParseFailed:   http.StatusUnprocessableEntity,
	ErrCodeDatasetEncoding:      http.StatusUnprocessableEntity,
	ErrCodeDatasetSourceInvalid: http.StatusInternalServerError,

	ErrCodeUploadNotFound: http.StatusNotFound,
	ErrCodeUploadTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeUploadDisabled: http.StatusForbidden,

	ErrCodeObjectNotFound: http.StatusNotFound,
	ErrCodeStorageError:   http.StatusBadGateway,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeCacheError:         "cache error",

	ErrCodeDatasetColumnMissing: "required dataset column missing",
	ErrCodeDatasetUnreadable:    "dataset could not be read",
	ErrCodeDatasetParseFailed:   "dataset could not be parsed",
	ErrCodeDatasetEncoding:      "unsupported dataset encoding",
	ErrCodeDatasetSourceInvalid: "invalid dataset source",

	ErrCodeUploadNotFound: "upload not found or expired",
	ErrCodeUploadTooLarge: "upload exceeds size limit",
	ErrCodeUploadDisabled: "uploads are disabled",

	ErrCodeObjectNotFound: "object not found",
	ErrCodeStorageError:   "object storage error",
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

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode ("DS", "UPL").
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
