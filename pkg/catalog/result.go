package catalog

// Result is the envelope every fetcher operation returns. Callers must treat
// an empty successful result and a failed result as distinct: empty means "no
// matches", failure means "could not determine".
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Total   int    `json:"total,omitempty"`
	Err     string `json:"error,omitempty"`
}

// OK wraps a successful payload.
func OK[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

// OKWithTotal wraps a successful payload alongside the upstream total count,
// which may exceed len(data) for paginated listings.
func OKWithTotal[T any](data T, total int) Result[T] {
	return Result[T]{Success: true, Data: data, Total: total}
}

// Fail wraps a terminal error into a failed envelope.
func Fail[T any](err error) Result[T] {
	return Result[T]{Success: false, Err: err.Error()}
}
