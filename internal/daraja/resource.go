package daraja

// Status tags the three possible outcomes of a transport call.
type Status int

const (
	StatusLoading Status = iota
	StatusSuccess
	StatusError
)

// Resource is the tagged result wrapper every transport operation emits.
// Each call yields exactly two values on its channel: Loading, then one of
// Success or Error. Faults never escape as panics or raw errors.
type Resource[T any] struct {
	Status  Status
	Data    *T
	Message string
	Err     error
}

func Loading[T any]() Resource[T] {
	return Resource[T]{Status: StatusLoading}
}

func Success[T any](data *T) Resource[T] {
	return Resource[T]{Status: StatusSuccess, Data: data}
}

func Failure[T any](message string, err error) Resource[T] {
	return Resource[T]{Status: StatusError, Message: message, Err: err}
}

// ErrorMessage resolves the human-readable reason for an Error resource,
// falling back to the wrapped error, then to the given default.
func (r Resource[T]) ErrorMessage(fallback string) string {
	if r.Message != "" {
		return r.Message
	}
	if r.Err != nil {
		return r.Err.Error()
	}
	return fallback
}
