package dataset

import "errors"

var (
	// ErrMissingColumn indicates a required CSV header is absent.
	ErrMissingColumn = errors.New("missing column")

	// ErrInvalidSplit indicates a train/test split that leaves either side empty.
	ErrInvalidSplit = errors.New("invalid train/test split")
)
