package match

import "errors"

var (
	ErrNotFound     = errors.New("match not found")
	ErrAlreadyEnded = errors.New("match already ended")
)
