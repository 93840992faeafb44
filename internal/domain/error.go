package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidPhone    = errors.New("invalid phone number")
	ErrEmptyBroadcast  = errors.New("broadcast text is empty")
	ErrSendFailed      = errors.New("messenger send failed")
)
