package model

import "errors"

var (
	// ErrUnsupportedFormat indicates a manifest written by an incompatible version.
	ErrUnsupportedFormat = errors.New("unsupported model format")

	// ErrCorruptModel indicates model artifacts disagree with their manifest.
	ErrCorruptModel = errors.New("corrupt model artifacts")

	// ErrNoPipeline indicates Write was called without a fitted pipeline.
	ErrNoPipeline = errors.New("no pipeline to write")

	// ErrInstallInProgress indicates another process holds the install lock.
	ErrInstallInProgress = errors.New("another model install is in progress")
)
