package api

import (
	"context"
	"net/http"

	"github.com/okian/lineup/internal/domain/types"
)

// SquadsDependencies defines the interface for squad search.
type SquadsDependencies interface {
	SearchSquads(ctx context.Context, req types.SquadsRequest) (types.SquadsResponse, error)
}

// SquadsHandler handles squad search requests.
type SquadsHandler struct {
	deps   SquadsDependencies
	limits limits
}

// NewSquadsHandler creates a new squads handler.
func NewSquadsHandler(deps SquadsDependencies, opts ...Option) *SquadsHandler {
	return &SquadsHandler{deps: deps, limits: newLimits(opts)}
}

// HandlePostSquads handles POST /v1/squads requests.
func (h *SquadsHandler) HandlePostSquads(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_squads"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req types.SquadsRequest
	if err := decode(w, r, h.limits.maxBodyBytes, &req); err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if len(req.Pool) == 0 {
		writeError(w, NewKind(op, ErrBadRequest))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.limits.timeout)
	defer cancel()
	resp, err := h.deps.SearchSquads(ctx, req)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
