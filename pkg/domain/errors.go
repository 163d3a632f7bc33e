package domain

import "errors"

// ErrEmptySelection is returned when the selected lines trim to nothing.
var ErrEmptySelection = errors.New("empty selection")

// ErrNoFocusedInput is returned when a focused conversion cannot resolve a text input.
var ErrNoFocusedInput = errors.New("no focused input")

// ErrNotFound is returned when a group, item or node id does not resolve.
var ErrNotFound = errors.New("not found")

// ErrInvalidState is returned when a classification requests something other than success or failure.
var ErrInvalidState = errors.New("invalid item state")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// IsNoop reports whether err is one of the absorbed outcomes that leave the document untouched.
func IsNoop(err error) bool {
	return errors.Is(err, ErrEmptySelection) ||
		errors.Is(err, ErrNoFocusedInput) ||
		errors.Is(err, ErrNotFound)
}
