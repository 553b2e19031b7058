package documents

import "errors"

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrPayloadTooLarge = errors.New("payload too large")
	ErrNotFound        = errors.New("document not found")
	ErrProcessing      = errors.New("document processing failed")
)

const (
	ErrorCodeValidation      = "VALIDATION_ERROR"
	ErrorCodePayloadTooLarge = "PAYLOAD_TOO_LARGE"
	ErrorCodeNotFound        = "NOT_FOUND"
	ErrorCodeProcessing      = "PROCESSING_ERROR"
	ErrorCodeInternal        = "INTERNAL_ERROR"
)
