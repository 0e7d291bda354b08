package repository

import "errors"

// Sentinel kinds for top-N store errors.
var (
	ErrInvalidCapacity = errors.New("invalid store capacity")
)
