package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeDistributorNotFound = "ERR_DISTRIBUTOR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	// ErrCodeUploadInFlight is used when the same file is already being processed
	ErrCodeUploadInFlight = "ERR_UPLOAD_IN_FLIGHT"
	ErrCodeInvalidState   = "ERR_INVALID_STATE"
)

// Upload error codes, one per ingestion error type
const (
	ErrCodeInvalidFormat       = "ERR_INVALID_FORMAT"
	ErrCodeMissingInstallation = "ERR_MISSING_INSTALLATION"
	ErrCodeUploadFailed        = "ERR_UPLOAD_FAILED"
	ErrCodeRequestTooLarge     = "ERR_REQUEST_TOO_LARGE"
)

// Input error codes
const (
	ErrCodeValidation         = "ERR_VALIDATION"
	ErrCodeBadRequest         = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput       = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON        = "ERR_INVALID_JSON"
	ErrCodeInvalidPeriod      = "ERR_INVALID_PERIOD"
	ErrCodeInvalidRates       = "ERR_INVALID_RATES"
	ErrCodeInvalidDistributor = "ERR_INVALID_DISTRIBUTOR"
	ErrCodeInvalidFile        = "ERR_INVALID_FILE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeDistributorNotFound: http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeUploadInFlight:      http.StatusConflict,
	ErrCodeInvalidState:        http.StatusUnprocessableEntity,

	ErrCodeInvalidFormat:       http.StatusBadRequest,
	ErrCodeMissingInstallation: http.StatusUnprocessableEntity,
	ErrCodeUploadFailed:        http.StatusInternalServerError,
	ErrCodeRequestTooLarge:     http.StatusRequestEntityTooLarge,

	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeInvalidInput:       http.StatusBadRequest,
	ErrCodeInvalidJSON:        http.StatusBadRequest,
	ErrCodeInvalidPeriod:      http.StatusBadRequest,
	ErrCodeInvalidRates:       http.StatusBadRequest,
	ErrCodeInvalidDistributor: http.StatusBadRequest,
	ErrCodeInvalidFile:        http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to API codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":             ErrCodeNotFound,
	"DISTRIBUTOR_NOT_FOUND": ErrCodeDistributorNotFound,
	"ALREADY_EXISTS":        ErrCodeAlreadyExists,
	"IN_FLIGHT":             ErrCodeUploadInFlight,
	"INVALID_INPUT":         ErrCodeInvalidInput,
	"INVALID_STATE":         ErrCodeInvalidState,
	"INVALID_PERIOD":        ErrCodeInvalidPeriod,
	"INVALID_RATES":         ErrCodeInvalidRates,
	"INVALID_DISTRIBUTOR":   ErrCodeInvalidDistributor,
	"INVALID_FILE_NAME":     ErrCodeInvalidFile,
	"INVALID_FILE_SIZE":     ErrCodeInvalidFile,
	"UNAUTHORIZED":          ErrCodeUnauthorized,
	"FORBIDDEN":             ErrCodeForbidden,
	"BAD_REQUEST":           ErrCodeBadRequest,
	"INTERNAL_ERROR":        ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the API format.
// Codes already in the API format or unknown are returned as-is.
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
