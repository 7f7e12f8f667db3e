package rooms

import (
	"errors"
)

var (
	ErrNotFound       = errors.New("room not found")
	ErrAlreadyEnded   = errors.New("room already ended")
	ErrFull           = errors.New("room is full")
	ErrForbidden      = errors.New("only the room creator may end it")
	ErrEmptyContent   = errors.New("message content is empty")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrNotJoined      = errors.New("connection has not joined this room")
	ErrTurnInProgress = errors.New("assistant turn queue is full")
)
