package model

import "errors"

// Sentinel kinds for pool construction.
var (
	ErrInvalidRequirement = errors.New("invalid category requirement")
	ErrDuplicateCandidate = errors.New("duplicate candidate id")
	ErrEmptyID            = errors.New("candidate id is empty")
	ErrUnknownCandidate   = errors.New("unknown candidate")
)
