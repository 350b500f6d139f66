// Package cli implements the musterctl commands.
package cli

import (
	"context"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/okian/muster/internal/adapters/repository"
	"github.com/okian/muster/internal/adapters/roster"
	"github.com/okian/muster/internal/domain/personnel"
	"github.com/okian/muster/pkg/logger"
)

// Defaults shared by the roster-reading commands.
const (
	defaultSize = 500
	defaultSeed = 42
	defaultDB   = "data/muster.db"
)

// sourceFlags select the roster a command reads: a file, a SQLite database,
// or the seeded mock generator when neither is set.
type sourceFlags struct {
	file string
	db   string
	size int
	seed int64
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.file, "file", "", "Roster file (.json, .yaml or .yml)")
	cmd.Flags().StringVar(&f.db, "db", "", "Roster SQLite database")
	cmd.Flags().IntVar(&f.size, "size", defaultSize, "Mock roster size when no --file or --db is given")
	cmd.Flags().Int64Var(&f.seed, "seed", defaultSeed, "Mock roster seed")
	cmd.MarkFlagsMutuallyExclusive("file", "db")
}

// load fetches the roster from the selected source.
func (f *sourceFlags) load(ctx context.Context) (personnel.Roster, error) {
	switch {
	case f.file != "":
		p, err := roster.NewFileProvider(f.file)
		if err != nil {
			return nil, err
		}
		return p.FetchRoster(ctx)
	case f.db != "":
		store, err := repository.NewSQLiteStore(f.db)
		if err != nil {
			return nil, err
		}
		defer func() { _ = store.Close() }()
		return roster.NewStoreProvider(store).FetchRoster(ctx)
	default:
		return roster.NewMockProvider(roster.WithSize(f.size), roster.WithSeed(f.seed)).FetchRoster(ctx)
	}
}

// NewRootCmd builds the musterctl command tree.
func NewRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "musterctl",
		Short:         "Roster analytics from the command line",
		Long:          "Generate, import and analyse personnel rosters, and drive a running muster server.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr())); err != nil {
				return err
			}
			return logger.SetLevelString(logLevel)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn or error")

	root.AddCommand(
		newGenerateCmd(),
		newImportCmd(),
		newSimulateCmd(),
		newSummaryCmd(),
		newLoadtestCmd(),
	)
	return root
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
