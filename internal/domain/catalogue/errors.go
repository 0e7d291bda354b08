package catalogue

import "errors"

// ErrCatalogueTooLarge is returned when enumeration would exceed the
// configured limit.
var ErrCatalogueTooLarge = errors.New("catalogue too large")
