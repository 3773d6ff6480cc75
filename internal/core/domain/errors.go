package domain

import "errors"

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrConnectionFailed = errors.New("not connected")
	ErrConnectionClosed = errors.New("connection closed")
	ErrEmptyLadder      = errors.New("quality ladder is empty")
)
