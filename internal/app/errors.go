package service

import "errors"

// ErrInvalidRequest reports a request the service cannot interpret, such as
// an unknown scorer name or an invalid formation.
var ErrInvalidRequest = errors.New("invalid request")
