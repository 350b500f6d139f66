// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/okian/muster/internal/adapters/repository"
	"github.com/okian/muster/internal/adapters/roster"
	"github.com/okian/muster/internal/domain/dashboard"
	"github.com/okian/muster/internal/domain/personnel"
	"github.com/okian/muster/internal/domain/scenario"
)

const defaultMaxLimit = 100

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	PersonnelDependencies
	LeaderboardDependencies
	DashboardDependencies
	ScenarioDependencies
	JobDependencies
}

// Option configures the Server.
type Option func(*Server)

// WithMaxLimit caps the leaderboard size a client may request.
func WithMaxLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// Server wires HTTP routes for the business API.
type Server struct {
	maxLimit int

	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	personnelHandler   *PersonnelHandler
	leaderboardHandler *LeaderboardHandler
	dashboardHandler   *DashboardHandler
	scenarioHandler    *ScenarioHandler
	jobsHandler        *JobsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{maxLimit: defaultMaxLimit}
	for _, opt := range opts {
		opt(s)
	}

	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.personnelHandler = NewPersonnelHandler(deps)
	s.leaderboardHandler = NewLeaderboardHandler(deps, s.maxLimit)
	s.dashboardHandler = NewDashboardHandler(deps)
	s.scenarioHandler = NewScenarioHandler(deps)
	s.jobsHandler = NewJobsHandler(deps)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /personnel", MetricsMiddleware(s.personnelHandler.HandleList, "personnel"))
	mux.HandleFunc("GET /personnel/{id}", MetricsMiddleware(s.personnelHandler.HandleGet, "personnel_profile"))
	mux.HandleFunc("GET /leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("GET /dashboards/{role}", MetricsMiddleware(s.dashboardHandler.HandleDashboard, "dashboards"))
	mux.HandleFunc("POST /scenarios/compare", MetricsMiddleware(s.scenarioHandler.HandleCompare, "scenarios_compare"))
	mux.HandleFunc("POST /scenarios/{kind}", MetricsMiddleware(s.scenarioHandler.HandleRun, "scenarios"))
	mux.HandleFunc("POST /jobs", MetricsMiddleware(s.jobsHandler.HandleSubmit, "jobs"))
	mux.HandleFunc("GET /jobs/{id}", MetricsMiddleware(s.jobsHandler.HandleGet, "jobs_status"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps err onto a status and error code.
func writeFailure(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBackpressure):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, scenario.ErrInvalidParameter):
		return http.StatusBadRequest, "invalid_parameter"
	case errors.Is(err, personnel.ErrInvalidRecord):
		return http.StatusBadRequest, "invalid_record"
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, scenario.ErrUnknownKind),
		errors.Is(err, dashboard.ErrUnknownRole),
		errors.Is(err, dashboard.ErrUnknownMetric):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, personnel.ErrEmptyRoster):
		return http.StatusUnprocessableEntity, "empty_roster"
	case errors.Is(err, scenario.ErrEmptyCohort):
		return http.StatusUnprocessableEntity, "empty_cohort"
	case errors.Is(err, roster.ErrNetwork):
		return http.StatusBadGateway, "roster_unavailable"
	case errors.Is(err, ErrNotFound),
		errors.Is(err, dashboard.ErrMemberNotFound),
		errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
