package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/lineup/internal/adapters/ingest"
	service "github.com/okian/lineup/internal/app"
	"github.com/okian/lineup/internal/domain/catalogue"
	"github.com/okian/lineup/internal/domain/constraint"
	"github.com/okian/lineup/internal/domain/model"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrInfeasible = errors.New("infeasible input")
	ErrTimeout    = errors.New("search timed out")
	ErrInternal   = errors.New("internal error")
)

// NewKind returns kind tagged with the failing operation.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// WrapKind tags err with op and kind so both stay reachable via errors.Is.
func WrapKind(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}

// Wrap classifies err by its domain kind and tags it with op.
func Wrap(op string, err error) error {
	return WrapKind(op, kindOf(err), err)
}

func kindOf(err error) error {
	switch {
	case errors.Is(err, ingest.ErrInvalidPool),
		errors.Is(err, model.ErrUnknownCandidate),
		errors.Is(err, model.ErrDuplicateCandidate),
		errors.Is(err, model.ErrInvalidRequirement),
		errors.Is(err, service.ErrInvalidRequest):
		return ErrBadRequest
	case errors.Is(err, constraint.ErrInfeasibleInput),
		errors.Is(err, catalogue.ErrCatalogueTooLarge):
		return ErrInfeasible
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	default:
		return ErrInternal
	}
}

// status maps a kind-tagged error to its HTTP status and error code.
func status(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrInfeasible):
		return http.StatusUnprocessableEntity, "infeasible_input"
	case errors.Is(err, ErrTimeout):
		return http.StatusGatewayTimeout, "timeout"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
