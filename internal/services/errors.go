package services

import "errors"

// Dataset service errors
var (
	ErrDatasetNotLoaded = errors.New("dataset not loaded")
	ErrInvalidQuery     = errors.New("invalid query")
	ErrMatchNotFound    = errors.New("match not found")
)
