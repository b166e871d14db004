package catalog

import "errors"

var (
	ErrHotelNotFound  = errors.New("hotel not found")
	ErrSafariNotFound = errors.New("safari not found")
	ErrSlugTaken      = errors.New("slug already exists")
	ErrUnknownKind    = errors.New("unknown item kind")
)
