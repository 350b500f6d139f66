package api

import (
	"context"
	"net/http"

	"github.com/okian/muster/internal/domain/dashboard"
)

// DashboardDependencies builds role dashboards.
type DashboardDependencies interface {
	Dashboard(ctx context.Context, role dashboard.Role, unit string) (any, error)
}

// DashboardHandler handles dashboard requests.
type DashboardHandler struct {
	deps DashboardDependencies
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(deps DashboardDependencies) *DashboardHandler {
	return &DashboardHandler{deps: deps}
}

// HandleDashboard handles GET /dashboards/{role}?unit=U requests. Only the
// commander dashboard honours unit.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_dashboard"
	role := dashboard.Role(r.PathValue("role"))
	out, err := h.deps.Dashboard(r.Context(), role, r.URL.Query().Get("unit"))
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, out)
}
