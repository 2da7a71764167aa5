package httpapi

// Result response envelope shared by every endpoint
// - code: 2000 on success, -1 on error
// - type: "success" | "error"
// - result: payload, or {"error_id": ...} on error
type Result[T any] struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Result  T      `json:"result"`
}

const (
	ResultSuccess = 2000
	ResultError   = -1
)

func Ok[T any](result T) Result[T] {
	return Result[T]{Code: ResultSuccess, Type: "success", Message: "ok", Result: result}
}

// ErrorDetail correlates an error response with the server log entry.
type ErrorDetail struct {
	ErrorID string `json:"error_id"`
}

func FailWithID(message, errorID string) Result[ErrorDetail] {
	return Result[ErrorDetail]{Code: ResultError, Type: "error", Message: message, Result: ErrorDetail{ErrorID: errorID}}
}
