package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a quiz session has not been started.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrCatalogNotFound indicates the question catalog could not be loaded.
	ErrCatalogNotFound = errors.New("catalog not found")
	// ErrInvalidCatalog is wrapped by Catalog.Validate with the offending question.
	ErrInvalidCatalog = errors.New("invalid catalog")
	// ErrOptionOutOfRange rejects an answer index outside the current question's options.
	ErrOptionOutOfRange = errors.New("option out of range")
	// ErrSessionFinished rejects answers once the quiz has been completed.
	ErrSessionFinished = errors.New("quiz session already finished")
)
