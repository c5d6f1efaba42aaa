// Package apierror defines the JSON error envelopes the API returns.
// Handlers build responses exclusively through New and NewValidation so a
// client always sees a "detail" message and never a raw DB or stack error.
package apierror

// APIError carries a single human-readable message. Used for every 4xx/5xx
// except validation failures.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError adds a per-field breakdown, keyed by struct field name
// with the failing validator tag as value.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}
