package domain

import "errors"

var (
	// ErrBackendFailure is returned when a search backend request fails
	ErrBackendFailure = errors.New("search backend request failed")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrAnalyzerFailure is returned when the intent analyzer cannot produce pairs
	ErrAnalyzerFailure = errors.New("intent analyzer request failed")

	// ErrNoActivity is returned when a user has no recorded activity
	ErrNoActivity = errors.New("no recorded activity for user")
)
