package service

import "errors"

// Expected control-flow errors; handlers map them to HTTP status codes.
var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrRoomExists         = errors.New("room name already exists")
	ErrRoomNotFound       = errors.New("room not found")
	ErrAlreadyJoined      = errors.New("already joined")
	ErrNotJoined          = errors.New("not joined")
	ErrMessageNotFound    = errors.New("message not found")
)
