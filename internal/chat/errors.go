package chat

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrServiceUnavailable = errors.New("chat service unavailable")
	ErrAnswerFailed       = errors.New("chat answer failed")
)

const (
	ErrorCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrorCodeAnswerFailed       = "CHAT_ERROR"
)
