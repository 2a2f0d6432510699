package features

import "errors"

var (
	// ErrEmptyCorpus indicates Fit received no documents or no extractable tokens.
	ErrEmptyCorpus = errors.New("empty corpus")

	// ErrNotFitted indicates a Vectorizer was used before Fit.
	ErrNotFitted = errors.New("vectorizer is not fitted")

	// ErrInvalidVocabulary indicates persisted vocabulary state is inconsistent.
	ErrInvalidVocabulary = errors.New("invalid vocabulary")
)
