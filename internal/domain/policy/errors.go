package policy

import "errors"

var (
	// ErrForbidden denies a write. Surfaces as 403.
	ErrForbidden = errors.New("operation not permitted")

	// ErrHidden denies a read. Surfaces exactly like absence (404 or an
	// empty list) so an unauthorized caller cannot tell a hidden row from
	// a nonexistent one.
	ErrHidden = errors.New("not found")

	// ErrConflict rejects a state-machine violation
	ErrConflict = errors.New("conflicting state")

	// ErrInvalid rejects malformed input before any policy decision
	ErrInvalid = errors.New("invalid request")
)
