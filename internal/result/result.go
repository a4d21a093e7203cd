// Package result provides a small Result type so fallback policy is visible
// at the call site: fail-open paths use OrDefault, fail-fatal paths unwrap
// the error explicitly.
package result

// Result carries either a value or the error that prevented producing one.
type Result[T any] struct {
	value T
	err   error
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Err wraps a failure.
func Err[T any](err error) Result[T] {
	return Result[T]{err: err}
}

// Of wraps a conventional (value, error) return.
func Of[T any](v T, err error) Result[T] {
	if err != nil {
		return Err[T](err)
	}
	return Ok(v)
}

// Unwrap returns the value and error in conventional form.
func (r Result[T]) Unwrap() (T, error) {
	return r.value, r.err
}

// Err returns the carried error, if any.
func (r Result[T]) Err() error {
	return r.err
}

// OrDefault returns the value, or def if the result carries an error.
// This is the fail-open combinator.
func (r Result[T]) OrDefault(def T) T {
	if r.err != nil {
		return def
	}
	return r.value
}

// OrElse returns the value, or the result of fn applied to the error.
func (r Result[T]) OrElse(fn func(error) T) T {
	if r.err != nil {
		return fn(r.err)
	}
	return r.value
}
