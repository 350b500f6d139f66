package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/okian/muster/internal/domain/dashboard"
	"github.com/okian/muster/internal/domain/personnel"
)

// PersonnelDependencies defines the roster read operations.
type PersonnelDependencies interface {
	Roster(ctx context.Context, unit string, limit int) (personnel.Roster, error)
	Personnel(ctx context.Context, id string) (*dashboard.Profile, error)
}

// PersonnelHandler handles personnel requests.
type PersonnelHandler struct {
	deps PersonnelDependencies
}

// NewPersonnelHandler creates a new personnel handler.
func NewPersonnelHandler(deps PersonnelDependencies) *PersonnelHandler {
	return &PersonnelHandler{deps: deps}
}

// HandleList handles GET /personnel?unit=U&limit=N requests.
func (h *PersonnelHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_personnel"
	q := r.URL.Query()
	limit := 0
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("limit must be a positive integer")))
			return
		}
		limit = n
	}
	roster, err := h.deps.Roster(r.Context(), q.Get("unit"), limit)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, personnel.EncodeRoster(roster))
}

// HandleGet handles GET /personnel/{id} requests.
func (h *PersonnelHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_personnel"
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	profile, err := h.deps.Personnel(r.Context(), id)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
