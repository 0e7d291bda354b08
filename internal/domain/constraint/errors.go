package constraint

import "errors"

// ErrInfeasibleInput reports a self-contradictory or unsatisfiable input,
// detected before any search begins.
var ErrInfeasibleInput = errors.New("infeasible input")
