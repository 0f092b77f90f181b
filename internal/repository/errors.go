package repository

import "errors"

// ErrExtractionNotFound is returned when no extraction matches the lookup
var ErrExtractionNotFound = errors.New("extraction not found")
