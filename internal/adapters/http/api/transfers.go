package api

import (
	"context"
	"net/http"

	"github.com/okian/lineup/internal/domain/types"
)

// TransfersDependencies defines the interface for transfer search.
type TransfersDependencies interface {
	SearchTransfers(ctx context.Context, req types.TransfersRequest) (types.TransfersResponse, error)
}

// TransfersHandler handles transfer search requests.
type TransfersHandler struct {
	deps   TransfersDependencies
	limits limits
}

// NewTransfersHandler creates a new transfers handler.
func NewTransfersHandler(deps TransfersDependencies, opts ...Option) *TransfersHandler {
	return &TransfersHandler{deps: deps, limits: newLimits(opts)}
}

// HandlePostTransfers handles POST /v1/transfers requests.
func (h *TransfersHandler) HandlePostTransfers(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_transfers"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req types.TransfersRequest
	if err := decode(w, r, h.limits.maxBodyBytes, &req); err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if len(req.Pool) == 0 || len(req.Roster) == 0 {
		writeError(w, NewKind(op, ErrBadRequest))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.limits.timeout)
	defer cancel()
	resp, err := h.deps.SearchTransfers(ctx, req)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
