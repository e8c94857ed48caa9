package framework

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Converter turns the text captured by an argument into a typed value.
type Converter[T any] func(text string) (T, error)

// Value converts the text captured by arg in m.
// A conversion failure is reported as a RunError naming arg, unless the
// converter already returned a RunError.
func Value[T any](m *Match, arg *Token, conv Converter[T]) (T, error) {
	text := m.Text(arg)
	v, err := conv(text)
	if err != nil {
		var zero T
		var re *RunError
		if errors.As(err, &re) {
			return zero, err
		}
		return zero, WrapRunError(arg, err, fmt.Sprintf("Could not convert %q", text))
	}
	return v, nil
}

// String returns the captured text unchanged.
func String(text string) (string, error) {
	return text, nil
}

// Float64 parses the captured text as a float.
func Float64(text string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(text), 64)
}

// Int parses the captured text as a base 10 integer.
func Int(text string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(text))
}

// Bool parses the captured text with strconv.ParseBool rules.
func Bool(text string) (bool, error) {
	return strconv.ParseBool(strings.TrimSpace(text))
}

// Lookup returns a Converter resolving the captured text in values.
func Lookup[T any](values map[string]T) Converter[T] {
	return func(text string) (T, error) {
		v, ok := values[strings.TrimSpace(text)]
		if !ok {
			var zero T
			return zero, errors.Newf("no entry named %q", text)
		}
		return v, nil
	}
}
