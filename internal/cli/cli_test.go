package cli_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/okian/muster/internal/cli"
	"github.com/okian/muster/internal/domain/dashboard"
	"github.com/okian/muster/internal/domain/scenario"
	. "github.com/smartystreets/goconvey/convey"
)

// execute runs musterctl with args and decodes its JSON output.
func execute(args ...string) (map[string]any, error) {
	var out, errOut bytes.Buffer
	root := cli.NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	if err := root.ExecuteContext(context.Background()); err != nil {
		return nil, err
	}
	var v map[string]any
	if err := json.Unmarshal(out.Bytes(), &v); err != nil {
		return nil, err
	}
	return v, nil
}

func TestGenerateAndImport(t *testing.T) {
	Convey("Given a temp directory", t, func() {
		dir := t.TempDir()
		file := filepath.Join(dir, "roster.yaml")
		db := filepath.Join(dir, "muster.db")

		Convey("When a roster is generated and imported", func() {
			gen, err := execute("generate", "--size", "40", "--seed", "9", "--out", file)
			So(err, ShouldBeNil)
			So(gen["records"], ShouldEqual, float64(40))

			batch, err := execute("import", "--file", file, "--db", db)
			So(err, ShouldBeNil)

			Convey("Then the import batch reports every record", func() {
				So(batch["records"], ShouldEqual, float64(40))
				So(batch["source"], ShouldEqual, file)
				So(batch["id"], ShouldNotBeEmpty)
			})

			Convey("Then dashboards read the same roster from either source", func() {
				fromDB, err := execute("summary", "commander", "--db", db)
				So(err, ShouldBeNil)
				fromFile, err := execute("summary", "commander", "--file", file)
				So(err, ShouldBeNil)
				So(fromDB["total_personnel"], ShouldEqual, float64(40))
				So(fromDB["avg_readiness"], ShouldEqual, fromFile["avg_readiness"])
			})
		})

		Convey("When --out is missing", func() {
			_, err := execute("generate", "--size", "5")
			So(err, ShouldNotBeNil)
		})

		Convey("When the output format is unknown", func() {
			_, err := execute("generate", "--size", "5", "--out", filepath.Join(dir, "roster.csv"))
			So(err, ShouldNotBeNil)
		})
	})
}

func TestSimulate(t *testing.T) {
	Convey("Given the default mock roster", t, func() {
		Convey("When retirement is simulated with flags", func() {
			rep, err := execute("simulate", "retirement", "--size", "100", "--age-threshold", "40", "--retirement-rate", "50")

			Convey("Then a retirement report is printed", func() {
				So(err, ShouldBeNil)
				So(rep["report_type"], ShouldEqual, scenario.ReportRetirement)
				So(rep["risk_level"], ShouldBeIn, "Low", "Medium", "High")
			})
		})

		Convey("When redeployment names two units", func() {
			rep, err := execute("simulate", "redeployment", "--size", "100",
				"--source-unit", "No. 1 Squadron", "--target-unit", "No. 7 Squadron")
			So(err, ShouldBeNil)
			So(rep["report_type"], ShouldEqual, scenario.ReportRedeployment)
		})

		Convey("When redeployment omits its units", func() {
			_, err := execute("simulate", "redeployment")
			So(errors.Is(err, scenario.ErrInvalidParameter), ShouldBeTrue)
		})

		Convey("When mobilization uses an out-of-range bar", func() {
			_, err := execute("simulate", "mobilization", "--min-readiness", "120")
			So(errors.Is(err, scenario.ErrInvalidParameter), ShouldBeTrue)
		})

		Convey("When the kind is unknown", func() {
			_, err := execute("simulate", "evacuation")
			So(errors.Is(err, scenario.ErrUnknownKind), ShouldBeTrue)
		})

		Convey("When both --file and --db are given", func() {
			_, err := execute("simulate", "retirement", "--file", "a.json", "--db", "b.db")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestSummary(t *testing.T) {
	Convey("Given the default mock roster", t, func() {
		Convey("When each roster-wide role is requested", func() {
			for _, role := range []string{"commander", "hr", "medical", "training"} {
				out, err := execute("summary", role, "--size", "50")
				So(err, ShouldBeNil)
				So(out, ShouldNotBeEmpty)
			}
		})

		Convey("When a personnel profile is requested", func() {
			out, err := execute("summary", "personnel", "--size", "50", "--id", "IAF000001")
			So(err, ShouldBeNil)
			record, _ := out["record"].(map[string]any)
			So(record["id"], ShouldEqual, "IAF000001")
		})

		Convey("When the member is unknown", func() {
			_, err := execute("summary", "personnel", "--size", "50", "--id", "nobody")
			So(errors.Is(err, dashboard.ErrMemberNotFound), ShouldBeTrue)
		})

		Convey("When the role is unknown", func() {
			_, err := execute("summary", "pilot")
			So(errors.Is(err, dashboard.ErrUnknownRole), ShouldBeTrue)
		})
	})
}
