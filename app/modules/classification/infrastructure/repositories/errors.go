package classificationdb

import "errors"

var (
	// ErrNotFound is returned by Get methods when no row matches.
	ErrNotFound = errors.New("classificationdb: not found")
	// ErrScoringSystemNotFound is returned when neither the category nor the
	// championship has a scoring system the engine can use.
	ErrScoringSystemNotFound = errors.New("classificationdb: scoring system not found")
)
