package room

import "errors"

var (
	ErrNotFound          = errors.New("room not found")
	ErrInvalidTransition = errors.New("invalid room status transition")
)
