package errors

// ErrorCode identifies application error categories for API responses
type ErrorCode int32

const (
	ErrorCode_HTTP_OK ErrorCode = 0

	// General
	ErrorCode_INTERNAL          ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT  ErrorCode = 1001
	ErrorCode_NOT_FOUND         ErrorCode = 1002
	ErrorCode_ALREADY_EXISTS    ErrorCode = 1003
	ErrorCode_PERMISSION_DENIED ErrorCode = 1004
	ErrorCode_UNAUTHENTICATED   ErrorCode = 1005
	ErrorCode_FORBIDDEN         ErrorCode = 1006
	ErrorCode_INVALID_PAYLOAD   ErrorCode = 1007

	// Auth
	ErrorCode_AUTH_INVALID_TOKEN ErrorCode = 2000
	ErrorCode_AUTH_TOKEN_EXPIRED ErrorCode = 2001

	// Pipeline
	ErrorCode_UPLOAD_FAILED        ErrorCode = 3000
	ErrorCode_PAYLOAD_TOO_LARGE    ErrorCode = 3001
	ErrorCode_TRANSCRIPTION_FAILED ErrorCode = 3002
	ErrorCode_ANALYSIS_FAILED      ErrorCode = 3003
	ErrorCode_PERSIST_FAILED       ErrorCode = 3004

	// Integrations
	ErrorCode_INTEGRATION_STORAGE_FAILED ErrorCode = 4000
	ErrorCode_INTEGRATION_AI_FAILED      ErrorCode = 4001
	ErrorCode_AI_NOT_CONFIGURED          ErrorCode = 4002

	// Database
	ErrorCode_DB_QUERY_FAILED ErrorCode = 5000
)

var codeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                    "OK",
	ErrorCode_INTERNAL:                   "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:           "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                  "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:             "ALREADY_EXISTS",
	ErrorCode_PERMISSION_DENIED:          "PERMISSION_DENIED",
	ErrorCode_UNAUTHENTICATED:            "UNAUTHENTICATED",
	ErrorCode_FORBIDDEN:                  "FORBIDDEN",
	ErrorCode_INVALID_PAYLOAD:            "INVALID_PAYLOAD",
	ErrorCode_AUTH_INVALID_TOKEN:         "AUTH_INVALID_TOKEN",
	ErrorCode_AUTH_TOKEN_EXPIRED:         "AUTH_TOKEN_EXPIRED",
	ErrorCode_UPLOAD_FAILED:              "UPLOAD_FAILED",
	ErrorCode_PAYLOAD_TOO_LARGE:          "PAYLOAD_TOO_LARGE",
	ErrorCode_TRANSCRIPTION_FAILED:       "TRANSCRIPTION_FAILED",
	ErrorCode_ANALYSIS_FAILED:            "ANALYSIS_FAILED",
	ErrorCode_PERSIST_FAILED:             "PERSIST_FAILED",
	ErrorCode_INTEGRATION_STORAGE_FAILED: "INTEGRATION_STORAGE_FAILED",
	ErrorCode_INTEGRATION_AI_FAILED:      "INTEGRATION_AI_FAILED",
	ErrorCode_AI_NOT_CONFIGURED:          "AI_NOT_CONFIGURED",
	ErrorCode_DB_QUERY_FAILED:            "DB_QUERY_FAILED",
}

// String returns the symbolic name of the error code
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
