package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/muster/internal/adapters/repository"
	"github.com/okian/muster/internal/adapters/roster"
	service "github.com/okian/muster/internal/app"
	"github.com/okian/muster/internal/domain/dashboard"
	"github.com/okian/muster/internal/domain/personnel"
	"github.com/okian/muster/internal/domain/scenario"
	"github.com/okian/muster/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func newService(opts ...service.Option) *service.Service {
	base := []service.Option{
		service.WithProvider(roster.NewMockProvider(roster.WithSize(60))),
		service.WithWorkerCount(2),
		service.WithQueueSize(16),
	}
	return service.New(append(base, opts...)...)
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, false)
			So(stats["source"], ShouldEqual, roster.SourceMock)
			So(stats["queueSize"], ShouldEqual, 1000)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithWorkerCount(8),
			service.WithQueueSize(50_000),
			service.WithShutdownTimeout(time.Second),
		)

		Convey("Then it should be created successfully", func() {
			So(svc, ShouldNotBeNil)
			So(svc.GetStats()["workerCount"], ShouldEqual, 8)
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := newService()
		// Ensure service is stopped after test
		defer svc.Stop()

		Convey("When starting the service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := svc.Start(ctx)

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
			})

			Convey("And it should be marked as started", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["queueLength"], ShouldEqual, 0)
				So(stats["workerCount"], ShouldEqual, 2)
			})

			Convey("And starting twice is a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})
	})
}

func TestService_Stop(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := newService()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := svc.Start(ctx)
		So(err, ShouldBeNil)

		Convey("When stopping the service", func() {
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, false)
			})

			Convey("And job operations report that it is not started", func() {
				_, _, err := svc.CreateJob(ctx, "", scenario.Request{Kind: scenario.KindRetirement, Params: scenario.DefaultRetirement})
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)

				_, err = svc.Job(ctx, "missing")
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)

				So(svc.EnqueueJob(ctx, repository.Job{ID: "x"}), ShouldBeFalse)
			})

			Convey("And stopping again is safe", func() {
				So(func() { svc.Stop() }, ShouldNotPanic)
			})
		})
	})
}

func TestService_Queries(t *testing.T) {
	Convey("Given a service over the mock roster", t, func() {
		svc := newService()
		ctx := context.Background()

		Convey("Roster filters by unit and caps by limit", func() {
			all, err := svc.Roster(ctx, "", 0)
			So(err, ShouldBeNil)
			So(len(all), ShouldEqual, 60)
			So(svc.GetStats()["rosterSize"], ShouldEqual, int64(60))

			unit, err := svc.Roster(ctx, "No. 7 Squadron", 0)
			So(err, ShouldBeNil)
			So(len(unit), ShouldEqual, 12)
			for i := range unit {
				So(unit[i].Unit, ShouldEqual, "No. 7 Squadron")
			}

			capped, err := svc.Roster(ctx, "", 5)
			So(err, ShouldBeNil)
			So(len(capped), ShouldEqual, 5)
		})

		Convey("Personnel returns a profile or not found", func() {
			all, err := svc.Roster(ctx, "", 1)
			So(err, ShouldBeNil)

			p, err := svc.Personnel(ctx, all[0].ID)
			So(err, ShouldBeNil)
			So(p.Record.ID, ShouldEqual, all[0].ID)

			_, err = svc.Personnel(ctx, "IAF999999")
			So(errors.Is(err, dashboard.ErrMemberNotFound), ShouldBeTrue)
		})

		Convey("Dashboard dispatches by role", func() {
			out, err := svc.Dashboard(ctx, dashboard.RoleCommander, "")
			So(err, ShouldBeNil)
			So(out, ShouldHaveSameTypeAs, &dashboard.CommanderSummary{})

			_, err = svc.Dashboard(ctx, "pilot", "")
			So(errors.Is(err, dashboard.ErrUnknownRole), ShouldBeTrue)
		})

		Convey("Leaderboard ranks the top members", func() {
			rows, err := svc.Leaderboard(ctx, dashboard.MetricReadiness, 10)
			So(err, ShouldBeNil)
			So(len(rows), ShouldEqual, 10)
			So(rows[0].Rank, ShouldEqual, 1)
			So(rows[0].Score, ShouldBeGreaterThanOrEqualTo, rows[9].Score)
		})

		Convey("RunScenario and Compare produce reports", func() {
			rep, err := svc.RunScenario(ctx, scenario.Request{Kind: scenario.KindMobilization, Params: scenario.DefaultMobilization})
			So(err, ShouldBeNil)
			So(rep.Kind(), ShouldEqual, scenario.KindMobilization)

			ret := scenario.DefaultRetirement
			res, err := svc.Compare(ctx, scenario.CompareRequest{Retirement: &ret})
			So(err, ShouldBeNil)
			So(res.Retirement, ShouldNotBeNil)
			So(res.Mobilization, ShouldBeNil)

			bad := scenario.RetirementParams{AgeThreshold: 58, RetirementRatePercent: 150}
			_, err = svc.RunScenario(ctx, scenario.Request{Kind: scenario.KindRetirement, Params: bad})
			So(errors.Is(err, scenario.ErrInvalidParameter), ShouldBeTrue)
		})
	})

	Convey("Given a provider that fails", t, func() {
		svc := service.New(service.WithProvider(failingProvider{}))

		Convey("Then every query reports the failure", func() {
			_, err := svc.Roster(context.Background(), "", 0)
			So(errors.Is(err, errUnavailable), ShouldBeTrue)

			_, err = svc.Leaderboard(context.Background(), dashboard.MetricFitness, 3)
			So(errors.Is(err, errUnavailable), ShouldBeTrue)
		})
	})
}

var errUnavailable = errors.New("roster offline")

type failingProvider struct{}

func (failingProvider) FetchRoster(context.Context) (personnel.Roster, error) {
	return nil, errUnavailable
}

func (failingProvider) Name() string { return "failing" }
