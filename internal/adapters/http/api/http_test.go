package api_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"github.com/okian/muster/internal/adapters/http/api"
	"github.com/okian/muster/internal/adapters/repository"
	"github.com/okian/muster/internal/adapters/roster"
	"github.com/okian/muster/internal/domain/dashboard"
	"github.com/okian/muster/internal/domain/personnel"
	pt "github.com/okian/muster/internal/domain/personnel/personneltest"
	"github.com/okian/muster/internal/domain/scenario"
	. "github.com/smartystreets/goconvey/convey"
)

// mockDependencies serves a fixed roster through the real domain engines.
type mockDependencies struct {
	roster    personnel.Roster
	fetchErr  error
	builder   *dashboard.Builder
	jobs      *repository.JobStore
	enqueueOK bool
	enqueued  []string
}

func newMockDependencies() *mockDependencies {
	r := pt.Roster(20)
	for i := range r {
		r[i].ReadinessScore = float64(60 + i)
		if i >= 10 {
			r[i].Unit = "No. 7 Squadron"
		}
	}
	return &mockDependencies{
		roster:    r,
		builder:   dashboard.New(dashboard.WithClock(func() time.Time { return pt.Now })),
		jobs:      repository.NewJobStore(),
		enqueueOK: true,
	}
}

func (m *mockDependencies) fetch() (personnel.Roster, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.roster, nil
}

func (m *mockDependencies) Roster(_ context.Context, unit string, limit int) (personnel.Roster, error) {
	r, err := m.fetch()
	if err != nil {
		return nil, err
	}
	if unit != "" {
		r = r.Filter(func(rec *personnel.Record) bool { return rec.Unit == unit })
	}
	if limit > 0 && len(r) > limit {
		r = r[:limit]
	}
	return r, nil
}

func (m *mockDependencies) Personnel(_ context.Context, id string) (*dashboard.Profile, error) {
	r, err := m.fetch()
	if err != nil {
		return nil, err
	}
	return m.builder.Personnel(r, id)
}

func (m *mockDependencies) Dashboard(_ context.Context, role dashboard.Role, unit string) (any, error) {
	r, err := m.fetch()
	if err != nil {
		return nil, err
	}
	return m.builder.Build(role, r, unit)
}

func (m *mockDependencies) Leaderboard(_ context.Context, metric dashboard.Metric, n int) ([]dashboard.Standing, error) {
	r, err := m.fetch()
	if err != nil {
		return nil, err
	}
	return m.builder.Leaderboard(r, metric, n)
}

func (m *mockDependencies) RunScenario(_ context.Context, req scenario.Request) (scenario.Report, error) {
	r, err := m.fetch()
	if err != nil {
		return nil, err
	}
	return scenario.Run(r, req)
}

func (m *mockDependencies) Compare(ctx context.Context, req scenario.CompareRequest) (*scenario.CompareResult, error) {
	r, err := m.fetch()
	if err != nil {
		return nil, err
	}
	return scenario.Compare(ctx, r, req)
}

func (m *mockDependencies) CreateJob(ctx context.Context, requestID string, req scenario.Request) (repository.Job, bool, error) {
	return m.jobs.Create(ctx, requestID, req)
}

func (m *mockDependencies) EnqueueJob(_ context.Context, job repository.Job) bool { //nolint:gocritic // hugeParam: matches the service signature
	if !m.enqueueOK {
		return false
	}
	m.enqueued = append(m.enqueued, job.ID)
	return true
}

func (m *mockDependencies) RemoveJob(ctx context.Context, id string) error {
	return m.jobs.Remove(ctx, id)
}

func (m *mockDependencies) Job(ctx context.Context, id string) (repository.Job, error) {
	return m.jobs.Get(ctx, id)
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newMux(deps *mockDependencies, opts ...api.Option) *http.ServeMux {
	server := api.NewServer(deps, &mockStatsProvider{stats: map[string]interface{}{"started": true}}, opts...)
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func do(mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) errorBody {
	var e errorBody
	So(json.NewDecoder(w.Body).Decode(&e), ShouldBeNil)
	return e
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux(newMockDependencies())

		Convey("Then health serves Prometheus metrics", func() {
			w := do(mux, "GET", "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then stats returns the provider's map as JSON", func() {
			w := do(mux, "GET", "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "application/json")
			var stats map[string]interface{}
			So(json.NewDecoder(w.Body).Decode(&stats), ShouldBeNil)
			So(stats["started"], ShouldEqual, true)
		})

		Convey("Then unknown paths are not found", func() {
			So(do(mux, "GET", "/unknown", "").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Then a wrong method is rejected", func() {
			So(do(mux, "DELETE", "/personnel", "").Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestPersonnelHandlers(t *testing.T) {
	Convey("Given a roster of twenty across two units", t, func() {
		deps := newMockDependencies()
		mux := newMux(deps)

		Convey("When listing one unit with a limit", func() {
			w := do(mux, "GET", "/personnel?unit=No.+7+Squadron&limit=3", "")

			Convey("Then wire records of that unit are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var records []personnel.WireRecord
				So(json.NewDecoder(w.Body).Decode(&records), ShouldBeNil)
				So(len(records), ShouldEqual, 3)
				So(records[0].Unit, ShouldEqual, "No. 7 Squadron")
				So(records[0].ID, ShouldEqual, "P0010")
			})
		})

		Convey("When the limit is not a number", func() {
			w := do(mux, "GET", "/personnel?limit=lots", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeError(w).Code, ShouldEqual, "bad_request")
		})

		Convey("When fetching one member", func() {
			w := do(mux, "GET", "/personnel/P0012", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var p dashboard.Profile
			So(json.NewDecoder(w.Body).Decode(&p), ShouldBeNil)
			So(p.Record.ID, ShouldEqual, "P0012")
			So(p.UnitSize, ShouldEqual, 10)
		})

		Convey("When the member is unknown", func() {
			w := do(mux, "GET", "/personnel/P9999", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(decodeError(w).Code, ShouldEqual, "not_found")
		})

		Convey("When the remote roster is unreachable", func() {
			deps.fetchErr = &roster.NetworkError{URL: "http://roster", Err: errors.New("connection refused")}
			w := do(mux, "GET", "/personnel", "")
			So(w.Code, ShouldEqual, http.StatusBadGateway)
			So(decodeError(w).Code, ShouldEqual, "roster_unavailable")
		})

		Convey("When a roster record is invalid", func() {
			deps.fetchErr = fmt.Errorf("decode: %w", personnel.ErrInvalidRecord)
			w := do(mux, "GET", "/personnel", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeError(w).Code, ShouldEqual, "invalid_record")
		})
	})
}

func TestLeaderboardHandler_HandleGetLeaderboard(t *testing.T) {
	Convey("Given a leaderboard handler", t, func() {
		deps := newMockDependencies()
		handler := api.NewLeaderboardHandler(deps, 5)

		Convey("When requesting the top readiness scores", func() {
			req := httptest.NewRequest("GET", "/leaderboard?by=readiness&limit=2", http.NoBody)
			w := httptest.NewRecorder()
			handler.HandleGetLeaderboard(w, req)

			Convey("Then the best two are returned in order", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var rows []dashboard.Standing
				So(json.NewDecoder(w.Body).Decode(&rows), ShouldBeNil)
				So(len(rows), ShouldEqual, 2)
				So(rows[0].ID, ShouldEqual, "P0019")
				So(rows[0].Rank, ShouldEqual, 1)
				So(rows[1].ID, ShouldEqual, "P0018")
			})
		})

		Convey("When no limit is specified", func() {
			req := httptest.NewRequest("GET", "/leaderboard", http.NoBody)
			w := httptest.NewRecorder()
			handler.HandleGetLeaderboard(w, req)

			Convey("Then the default size is capped by the maximum", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w).Code, ShouldEqual, "limit_exceeded")
			})
		})

		Convey("When the limit or metric is invalid", func() {
			for _, target := range []string{"/leaderboard?limit=0", "/leaderboard?limit=x", "/leaderboard?by=stress&limit=2"} {
				w := httptest.NewRecorder()
				handler.HandleGetLeaderboard(w, httptest.NewRequest("GET", target, http.NoBody))
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			}
		})

		Convey("When the roster is empty", func() {
			deps.roster = nil
			w := httptest.NewRecorder()
			handler.HandleGetLeaderboard(w, httptest.NewRequest("GET", "/leaderboard?limit=3", http.NoBody))
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
			So(decodeError(w).Code, ShouldEqual, "empty_roster")
		})

		Convey("When the roster source fails", func() {
			deps.fetchErr = fmt.Errorf("database error")
			w := httptest.NewRecorder()
			handler.HandleGetLeaderboard(w, httptest.NewRequest("GET", "/leaderboard?limit=3", http.NoBody))
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(decodeError(w).Code, ShouldEqual, "internal_error")
		})
	})
}

func TestDashboardHandler(t *testing.T) {
	Convey("Given the dashboard routes", t, func() {
		mux := newMux(newMockDependencies())

		Convey("When the commander dashboard is filtered to a unit", func() {
			w := do(mux, "GET", "/dashboards/commander?unit=No.+7+Squadron", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var sum dashboard.CommanderSummary
			So(json.NewDecoder(w.Body).Decode(&sum), ShouldBeNil)
			So(sum.Total, ShouldEqual, 10)
		})

		Convey("When every roster-wide role is requested", func() {
			for _, role := range []string{"commander", "hr", "medical", "training"} {
				So(do(mux, "GET", "/dashboards/"+role, "").Code, ShouldEqual, http.StatusOK)
			}
		})

		Convey("When the role is unknown", func() {
			w := do(mux, "GET", "/dashboards/pilot", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the unit is empty", func() {
			w := do(mux, "GET", "/dashboards/commander?unit=Nowhere", "")
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
		})
	})
}

func TestScenarioHandler(t *testing.T) {
	Convey("Given the scenario routes", t, func() {
		mux := newMux(newMockDependencies())

		Convey("When a mobilization runs with an empty body", func() {
			w := do(mux, "POST", "/scenarios/mobilization", "")

			Convey("Then the default parameters are used", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var rep scenario.MobilizationReport
				So(json.NewDecoder(w.Body).Decode(&rep), ShouldBeNil)
				So(rep.ReportType, ShouldNotBeEmpty)
				So(rep.UnitReadiness, ShouldHaveLength, 2)
			})
		})

		Convey("When a redeployment names its units", func() {
			w := do(mux, "POST", "/scenarios/redeployment",
				`{"source_unit":"No. 1 Squadron","target_unit":"No. 7 Squadron","move_rate_percent":50}`)
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("When the source unit is empty", func() {
			w := do(mux, "POST", "/scenarios/redeployment",
				`{"source_unit":"No. 99 Squadron","target_unit":"No. 7 Squadron"}`)
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
			So(decodeError(w).Code, ShouldEqual, "empty_cohort")
		})

		Convey("When a parameter is out of range", func() {
			w := do(mux, "POST", "/scenarios/retirement", `{"retirement_rate_percent":140}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeError(w).Code, ShouldEqual, "invalid_parameter")
		})

		Convey("When the kind or body is malformed", func() {
			So(do(mux, "POST", "/scenarios/evacuation", "").Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, "POST", "/scenarios/retirement", "{not json").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When comparing with an empty body", func() {
			w := do(mux, "POST", "/scenarios/compare", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var res scenario.CompareResult
			So(json.NewDecoder(w.Body).Decode(&res), ShouldBeNil)
			So(res.Retirement, ShouldNotBeNil)
			So(res.Mobilization, ShouldNotBeNil)
			So(res.Redeployment, ShouldBeNil)
		})

		Convey("When comparing with partial parameters", func() {
			w := do(mux, "POST", "/scenarios/compare",
				`{"redeployment":{"source_unit":"No. 1 Squadron","target_unit":"No. 7 Squadron"}}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			var res scenario.CompareResult
			So(json.NewDecoder(w.Body).Decode(&res), ShouldBeNil)
			So(res.Redeployment, ShouldNotBeNil)
			So(res.Retirement, ShouldBeNil)
		})

		Convey("When comparing nothing", func() {
			w := do(mux, "POST", "/scenarios/compare", `{}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestJobsHandler(t *testing.T) {
	Convey("Given the job routes", t, func() {
		deps := newMockDependencies()
		mux := newMux(deps)

		Convey("When a job is submitted", func() {
			w := do(mux, "POST", "/jobs", `{"request_id":"r-1","kind":"mobilization","params":{"min_readiness":75}}`)

			Convey("Then it is accepted and queued", func() {
				So(w.Code, ShouldEqual, http.StatusAccepted)
				var ack map[string]interface{}
				So(json.NewDecoder(w.Body).Decode(&ack), ShouldBeNil)
				So(ack["status"], ShouldEqual, "queued")
				So(ack["duplicate"], ShouldEqual, false)
				So(deps.enqueued, ShouldHaveLength, 1)
				So(ack["job_id"], ShouldEqual, deps.enqueued[0])

				job, err := deps.jobs.Get(context.Background(), deps.enqueued[0])
				So(err, ShouldBeNil)
				params, ok := job.Request.Params.(*scenario.MobilizationParams)
				So(ok, ShouldBeTrue)
				So(params.MinReadiness, ShouldEqual, 75)
				So(params.TimeframeHours, ShouldEqual, scenario.DefaultMobilization.TimeframeHours)
			})

			Convey("Then a retry with the same request id is a duplicate", func() {
				w := do(mux, "POST", "/jobs", `{"request_id":"r-1","kind":"mobilization"}`)
				So(w.Code, ShouldEqual, http.StatusOK)
				var ack map[string]interface{}
				So(json.NewDecoder(w.Body).Decode(&ack), ShouldBeNil)
				So(ack["duplicate"], ShouldEqual, true)
				So(deps.enqueued, ShouldHaveLength, 1)
			})

			Convey("Then its status can be read", func() {
				So(deps.jobs.Start(context.Background(), deps.enqueued[0]), ShouldBeNil)
				So(deps.jobs.Fail(context.Background(), deps.enqueued[0],
					&roster.NetworkError{URL: "http://roster", StatusCode: 503}), ShouldBeNil)

				w := do(mux, "GET", "/jobs/"+deps.enqueued[0], "")
				So(w.Code, ShouldEqual, http.StatusOK)
				var job map[string]interface{}
				So(json.NewDecoder(w.Body).Decode(&job), ShouldBeNil)
				So(job["status"], ShouldEqual, "failed")
				So(job["kind"], ShouldEqual, "mobilization")
				So(job["started_at"], ShouldNotBeNil)
				So(job["error"].(map[string]interface{})["code"], ShouldEqual, "roster_unavailable")
			})
		})

		Convey("When the queue is full", func() {
			deps.enqueueOK = false
			w := do(mux, "POST", "/jobs", `{"request_id":"r-2","kind":"retirement"}`)

			Convey("Then the client is told to back off and may retry", func() {
				So(w.Code, ShouldEqual, http.StatusTooManyRequests)
				So(decodeError(w).Code, ShouldEqual, "backpressure")
				So(deps.jobs.Counts(context.Background())[repository.JobQueued], ShouldEqual, 0)

				deps.enqueueOK = true
				So(do(mux, "POST", "/jobs", `{"request_id":"r-2","kind":"retirement"}`).Code, ShouldEqual, http.StatusAccepted)
			})
		})

		Convey("When the request is invalid", func() {
			So(do(mux, "POST", "/jobs", `{"request_id":"r-3"}`).Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, "POST", "/jobs", `{"kind":"evacuation"}`).Code, ShouldEqual, http.StatusBadRequest)
			w := do(mux, "POST", "/jobs", `{"kind":"redeployment","params":{"move_rate_percent":10}}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeError(w).Code, ShouldEqual, "invalid_parameter")
			So(deps.enqueued, ShouldBeEmpty)
		})

		Convey("When the job is unknown", func() {
			w := do(mux, "GET", "/jobs/nope", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestErrorWrapping(t *testing.T) {
	Convey("Given wrapped API errors", t, func() {
		cause := errors.New("boom")

		Convey("Then kind and cause are both reachable", func() {
			err := api.WrapKind("api.op", api.ErrBadRequest, cause)
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: bad request: boom")
		})

		Convey("Then NewKind and Wrap tag the operation", func() {
			So(api.NewKind("api.op", api.ErrBackpressure).Error(), ShouldEqual, "api.op: backpressure")
			So(api.Wrap("api.op", nil), ShouldBeNil)
			So(errors.Is(api.Wrap("api.op", cause), cause), ShouldBeTrue)
		})
	})
}
