// Package api exposes the backtest engines over HTTP. Bars and strategy
// parameters come in as JSON, the frozen result object goes back out;
// loading CSVs and formatting reports stay with the callers.
package api

// APIError is the wire-level error taxonomy.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

var (
	ErrInvalidStrategy = APIError{Code: "INVALID_STRATEGY", Message: "Unknown or invalid strategy"}
	ErrInvalidParams   = APIError{Code: "INVALID_PARAMS", Message: "Invalid parameters provided"}
	ErrDataNotFound    = APIError{Code: "DATA_NOT_FOUND", Message: "Required data not available"}
	ErrExecutionFailed = APIError{Code: "EXECUTION_FAILED", Message: "Backtest execution failed"}
)

func (e APIError) withDetails(details string) APIError {
	e.Details = details
	return e
}
