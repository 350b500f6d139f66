package cli

import (
	"github.com/spf13/cobra"

	"github.com/okian/muster/internal/loadtest"
)

func newLoadtestCmd() *cobra.Command {
	cfg := loadtest.Config{}

	cmd := &cobra.Command{
		Use:   "loadtest",
		Short: "Submit concurrent scenario jobs to a running server",
		Long:  "Check /healthz, submit generated jobs with several workers, then poll until every accepted job finishes.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := loadtest.Run(cmd.Context(), cfg)
			if stats != nil {
				if perr := printJSON(cmd.OutOrStdout(), stats); perr != nil {
					return perr
				}
			}
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.BaseURL, "url", "http://localhost:8080", "Base URL of the service")
	f.IntVar(&cfg.Jobs, "jobs", loadtest.DefaultJobs, "Number of jobs to submit")
	f.IntVar(&cfg.Workers, "workers", loadtest.DefaultWorkers, "Number of concurrent submitters")
	f.DurationVar(&cfg.Timeout, "timeout", loadtest.DefaultTimeout, "HTTP request timeout")
	f.DurationVar(&cfg.PollInterval, "poll", loadtest.DefaultPollInterval, "Delay between job status polls")
	f.DurationVar(&cfg.Deadline, "deadline", loadtest.DefaultDeadline, "Upper bound for all jobs to finish")
	f.Int64Var(&cfg.Seed, "seed", defaultSeed, "Seed for parameter variation")
	f.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Log every failed submission and job")
	return cmd
}
