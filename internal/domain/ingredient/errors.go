package ingredient

import "errors"

// Domain errors for ingredient candidates

var (
	ErrEmptyName         = errors.New("ingredient name must not be empty")
	ErrInvalidConfidence = errors.New("confidence must be between 0 and 1")
	ErrUnknownCandidate  = errors.New("candidate id not present in the current list")
)
