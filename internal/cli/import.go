package cli

import (
	"github.com/spf13/cobra"

	"github.com/okian/muster/internal/adapters/repository"
	"github.com/okian/muster/internal/adapters/roster"
)

func newImportCmd() *cobra.Command {
	var file, db string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load a roster file into SQLite",
		Long:  "Validate a roster file and replace the contents of the SQLite roster store with it.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			p, err := roster.NewFileProvider(file)
			if err != nil {
				return err
			}
			r, err := p.FetchRoster(ctx)
			if err != nil {
				return err
			}

			store, err := repository.NewSQLiteStore(db)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			batch, err := store.ReplaceAll(ctx, r, file)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), batch)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Roster file (.json, .yaml or .yml)")
	cmd.Flags().StringVar(&db, "db", defaultDB, "SQLite database path")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
