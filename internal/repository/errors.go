package repository

import "errors"

var (
	// ErrRecordNotFound indicates the record was not found
	ErrRecordNotFound = errors.New("record not found")

	// ErrMissingUserID indicates a save without a user identifier
	ErrMissingUserID = errors.New("user id is required")

	// ErrStoreUnavailable indicates the backing store is unavailable
	ErrStoreUnavailable = errors.New("record store unavailable")
)
