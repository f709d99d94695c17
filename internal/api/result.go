package api

// Result is the uniform envelope returned by every network operation.
// Transport failures, non-2xx statuses and malformed bodies are all folded
// into a failed Result; they never surface as errors to callers.
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// Failure builds a failed result with a human-readable message
func Failure[T any](message string) Result[T] {
	return Result[T]{Success: false, Message: message}
}

// Ok builds a successful result carrying data
func Ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}
