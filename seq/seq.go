// Package seq provides small pure helpers over slices.
//
// Every function leaves its input untouched and returns fresh storage, so
// results can be shared freely across goroutines.
package seq

import "errors"

// ErrEmptySequence is returned when an operation requires at least one element.
var ErrEmptySequence = errors.New("empty sequence")

// ErrIndexOutOfRange is returned by At when the index is invalid.
var ErrIndexOutOfRange = errors.New("index out of range")

// Append returns a new sequence with elem added at the end.
func Append[T any](s []T, elem T) []T {
	out := make([]T, len(s)+1)
	copy(out, s)
	out[len(s)] = elem
	return out
}

// Prepend returns a new sequence with elem added at the front.
func Prepend[T any](elem T, s []T) []T {
	out := make([]T, len(s)+1)
	out[0] = elem
	copy(out[1:], s)
	return out
}

// DropFirst returns the sequence without its first element.
func DropFirst[T any](s []T) ([]T, error) {
	if len(s) == 0 {
		return nil, ErrEmptySequence
	}
	out := make([]T, len(s)-1)
	copy(out, s[1:])
	return out, nil
}

// At returns the element at index i.
func At[T any](s []T, i int) (T, error) {
	if i < 0 || i >= len(s) {
		var zero T
		return zero, ErrIndexOutOfRange
	}
	return s[i], nil
}

// Filter returns the elements satisfying pred, preserving relative order.
// The result is never nil.
func Filter[T any](s []T, pred func(T) bool) []T {
	out := make([]T, 0, len(s))
	for _, elem := range s {
		if pred(elem) {
			out = append(out, elem)
		}
	}
	return out
}

// MaxBy returns the greatest element of s under cmp, where cmp(a, b) reports
// whether a outranks b.
//
// The scan runs from the last element toward the first, replacing the current
// winner whenever an earlier element outranks it. When two elements are
// mutually unranked under cmp, the one closer to the end of s survives.
func MaxBy[T any](s []T, cmp func(a, b T) bool) (T, error) {
	if len(s) == 0 {
		var zero T
		return zero, ErrEmptySequence
	}
	winner := s[len(s)-1]
	for i := len(s) - 2; i >= 0; i-- {
		if cmp(s[i], winner) {
			winner = s[i]
		}
	}
	return winner, nil
}
