package svm

import "errors"

var (
	// ErrLabelMismatch indicates the vector and label counts differ.
	ErrLabelMismatch = errors.New("vector/label count mismatch")

	// ErrInsufficientClasses indicates fewer than two distinct training labels.
	ErrInsufficientClasses = errors.New("at least two distinct classes are required")

	// ErrUnknownLabel indicates a training label outside the configured class ordering.
	ErrUnknownLabel = errors.New("label not in class ordering")

	// ErrDimMismatch indicates a feature vector does not match the model dimension.
	ErrDimMismatch = errors.New("feature dimension mismatch")

	// ErrNotFitted indicates a Model was used before Train.
	ErrNotFitted = errors.New("classifier is not fitted")

	// ErrInvalidModel indicates persisted classifier state is inconsistent.
	ErrInvalidModel = errors.New("invalid classifier state")
)
