package request

import "errors"

var (
	ErrNotFound         = errors.New("request not found")
	ErrRoomFull         = errors.New("room is at capacity")
	ErrDuplicateRequest = errors.New("open request already exists")
	ErrAlreadyDecided   = errors.New("request already decided")
	ErrRoomClosed       = errors.New("room is no longer active")
)
