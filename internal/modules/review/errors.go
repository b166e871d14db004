package review

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrUnknownItem    = errors.New("unknown item type")
)
