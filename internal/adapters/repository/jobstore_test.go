package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/muster/internal/domain/scenario"
)

type stubReport struct{}

func (stubReport) Kind() scenario.Kind      { return scenario.KindRetirement }
func (stubReport) Summary() scenario.Header { return scenario.Header{} }

func retirementRequest() scenario.Request {
	return scenario.Request{Kind: scenario.KindRetirement, Params: scenario.DefaultRetirement}
}

func TestJobStore(t *testing.T) {
	Convey("Given an empty job store", t, func() {
		ctx := context.Background()
		s := NewJobStore()

		Convey("When a job is created", func() {
			job, created, err := s.Create(ctx, "req-1", retirementRequest())

			Convey("Then it is queued with a uuid", func() {
				So(err, ShouldBeNil)
				So(created, ShouldBeTrue)
				So(job.Status, ShouldEqual, JobQueued)
				So(len(job.ID), ShouldEqual, 36)
			})

			Convey("Then the same request id returns the same job", func() {
				again, created, err := s.Create(ctx, "req-1", retirementRequest())
				So(err, ShouldBeNil)
				So(created, ShouldBeFalse)
				So(again.ID, ShouldEqual, job.ID)
			})

			Convey("Then it moves through running to succeeded", func() {
				So(s.Start(ctx, job.ID), ShouldBeNil)
				got, _ := s.Get(ctx, job.ID)
				So(got.Status, ShouldEqual, JobRunning)

				So(s.Complete(ctx, job.ID, stubReport{}), ShouldBeNil)
				got, _ = s.Get(ctx, job.ID)
				So(got.Status, ShouldEqual, JobSucceeded)
				So(got.Report, ShouldNotBeNil)
				So(got.FinishedAt.IsZero(), ShouldBeFalse)
			})

			Convey("Then a failed job keeps its cause", func() {
				cause := errors.New("boom")
				So(s.Fail(ctx, job.ID, cause), ShouldBeNil)
				got, _ := s.Get(ctx, job.ID)
				So(got.Status, ShouldEqual, JobFailed)
				So(errors.Is(got.Err, cause), ShouldBeTrue)
			})

			Convey("Then invalid transitions are rejected", func() {
				So(errors.Is(s.Complete(ctx, job.ID, stubReport{}), ErrInvalidStatus), ShouldBeTrue)
				So(s.Start(ctx, job.ID), ShouldBeNil)
				So(errors.Is(s.Start(ctx, job.ID), ErrInvalidStatus), ShouldBeTrue)
			})

			Convey("Then removing it frees the request id", func() {
				So(s.Remove(ctx, job.ID), ShouldBeNil)
				_, err := s.Get(ctx, job.ID)
				So(errors.Is(err, ErrNotFound), ShouldBeTrue)

				_, created, _ := s.Create(ctx, "req-1", retirementRequest())
				So(created, ShouldBeTrue)
			})
		})

		Convey("When looking up unknown jobs", func() {
			_, err := s.Get(ctx, "nope")
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			So(errors.Is(s.Start(ctx, "nope"), ErrNotFound), ShouldBeTrue)
			So(errors.Is(s.Remove(ctx, "nope"), ErrNotFound), ShouldBeTrue)
		})

		Convey("When many callers submit the same request id concurrently", func() {
			var wg sync.WaitGroup
			ids := make([]string, 20)
			for i := range ids {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					job, _, _ := s.Create(ctx, "shared", retirementRequest())
					ids[i] = job.ID
				}(i)
			}
			wg.Wait()

			Convey("Then exactly one job exists", func() {
				for _, id := range ids {
					So(id, ShouldEqual, ids[0])
				}
				So(s.Counts(ctx)[JobQueued], ShouldEqual, 1)
			})
		})
	})

	Convey("Given a store that retains two finished jobs", t, func() {
		ctx := context.Background()
		s := NewJobStore(WithMaxFinished(2))

		var ids []string
		for _, req := range []string{"r1", "r2", "r3"} {
			job, _, _ := s.Create(ctx, req, retirementRequest())
			So(s.Fail(ctx, job.ID, errors.New("x")), ShouldBeNil)
			ids = append(ids, job.ID)
		}

		Convey("Then the oldest finished job is evicted", func() {
			_, err := s.Get(ctx, ids[0])
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			_, err = s.Get(ctx, ids[2])
			So(err, ShouldBeNil)
			So(s.Counts(ctx)[JobFailed], ShouldEqual, 2)
		})
	})
}
