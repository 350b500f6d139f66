package loadtest_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/muster/internal/adapters/http/api"
	"github.com/okian/muster/internal/adapters/roster"
	service "github.com/okian/muster/internal/app"
	"github.com/okian/muster/internal/loadtest"
	"github.com/okian/muster/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()
	svc := service.New(
		service.WithProvider(roster.NewMockProvider(roster.WithSize(50))),
		service.WithWorkerCount(4),
		service.WithQueueSize(256),
	)
	if err := svc.Start(ctx); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)

	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(ctx, mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestGenerate(t *testing.T) {
	Convey("Given a seed", t, func() {
		a := loadtest.Generate(9, 7)
		b := loadtest.Generate(9, 7)

		Convey("Then kinds cycle and parameters repeat for the same seed", func() {
			So(len(a), ShouldEqual, 9)
			So(a[0].Kind, ShouldEqual, "retirement")
			So(a[1].Kind, ShouldEqual, "redeployment")
			So(a[2].Kind, ShouldEqual, "mobilization")
			So(a[4].Params, ShouldResemble, b[4].Params)
			So(a[0].RequestID, ShouldNotEqual, b[0].RequestID)
		})

		Convey("Then redeployments never target their source unit", func() {
			for _, r := range loadtest.Generate(300, 1) {
				if r.Kind == "redeployment" {
					So(r.Params["source_unit"], ShouldNotEqual, r.Params["target_unit"])
				}
			}
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a running service", t, func() {
		srv := newServer(t)

		Convey("When a load run submits jobs", func() {
			stats, err := loadtest.Run(context.Background(), loadtest.Config{
				BaseURL:      srv.URL,
				Jobs:         30,
				Workers:      4,
				PollInterval: 10 * time.Millisecond,
				Deadline:     30 * time.Second,
				Seed:         3,
			})

			Convey("Then every accepted job succeeds", func() {
				So(err, ShouldBeNil)
				So(stats.Submitted, ShouldEqual, 30)
				So(stats.Accepted, ShouldEqual, 30)
				So(stats.Succeeded, ShouldEqual, 30)
				So(stats.JobFailures, ShouldBeEmpty)
			})
		})
	})

	Convey("Given nothing listening", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()

		Convey("Then the health check fails", func() {
			_, err := loadtest.Run(context.Background(), loadtest.Config{BaseURL: srv.URL, Timeout: time.Second})
			So(err, ShouldNotBeNil)
		})
	})
}

func TestClient(t *testing.T) {
	Convey("Given a running service", t, func() {
		srv := newServer(t)
		client := loadtest.NewHTTPClient(srv.URL, 5*time.Second)
		ctx := context.Background()

		Convey("When the same request id is submitted twice", func() {
			req := loadtest.JobRequest{RequestID: "dup-1", Kind: "retirement"}
			status, first, err := client.Submit(ctx, req)
			So(err, ShouldBeNil)
			So(status, ShouldEqual, http.StatusAccepted)

			status, second, err := client.Submit(ctx, req)
			So(err, ShouldBeNil)
			So(status, ShouldEqual, http.StatusOK)
			So(second.Duplicate, ShouldBeTrue)
			So(second.JobID, ShouldEqual, first.JobID)
		})

		Convey("When an unknown job is fetched", func() {
			_, err := client.Job(ctx, "missing")
			So(err, ShouldNotBeNil)
		})
	})
}
