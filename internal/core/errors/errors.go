package errors

const (
	HttpInternalError         = "internal_error"
	HttpInvalidJsonError      = "invalid_json"
	HttpPayloadTooLargeError  = "payload_too_large"
	HttpNormalizationError    = "normalization_failed"
	HttpSimulatedFailureError = "simulated_failure"
	HttpPersistenceError      = "persistence_failed"
	HttpInvalidQueryError     = "invalid_query"
	HttpRateLimitedError      = "rate_limited"
)

// ErrorResponse is the error response body for every endpoint.
// Message is serialized as "error" so clients can key off a stable human string.
type ErrorResponse struct {
	Message   string      `json:"error"`
	ErrorType string      `json:"error_type"`
	Details   interface{} `json:"details,omitempty"`
}
