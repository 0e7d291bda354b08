package ingest

import "errors"

// ErrInvalidPool reports a candidate pool document that cannot be decoded.
var ErrInvalidPool = errors.New("invalid candidate pool")
