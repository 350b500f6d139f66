package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/muster/internal/adapters/roster"
)

func newGenerateCmd() *cobra.Command {
	var (
		size int
		seed int64
		out  string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic roster to a file",
		Long:  "Generate a seeded synthetic roster and write it as JSON or YAML, chosen by the --out extension.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if size <= 0 {
				return fmt.Errorf("--size must be positive, got %d", size)
			}
			r, err := roster.NewMockProvider(roster.WithSize(size), roster.WithSeed(seed)).FetchRoster(cmd.Context())
			if err != nil {
				return err
			}
			if err := roster.WriteFile(out, r); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{"ok": true, "records": len(r), "out": out})
		},
	}

	cmd.Flags().IntVar(&size, "size", defaultSize, "Number of records")
	cmd.Flags().Int64Var(&seed, "seed", defaultSeed, "Generator seed")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (.json, .yaml or .yml)")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
