package cli

import (
	"github.com/spf13/cobra"

	"github.com/okian/muster/internal/domain/dashboard"
)

func newSummaryCmd() *cobra.Command {
	var (
		src           sourceFlags
		unit, id      string
		overdueMonths int
	)

	cmd := &cobra.Command{
		Use:   "summary commander|hr|medical|training|personnel",
		Short: "Print a role dashboard as JSON",
		Long:  "Build the dashboard for a role. The personnel dashboard needs --id; --unit narrows the commander view.",
		Args:  cobra.ExactArgs(1),
		ValidArgs: []string{
			string(dashboard.RoleCommander), string(dashboard.RoleHR), string(dashboard.RoleMedical),
			string(dashboard.RoleTraining), string(dashboard.RolePersonnel),
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := src.load(cmd.Context())
			if err != nil {
				return err
			}

			b := dashboard.New(dashboard.WithOverdueMonths(overdueMonths))
			role := dashboard.Role(args[0])
			if role == dashboard.RolePersonnel {
				profile, err := b.Personnel(r, id)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), profile)
			}

			out, err := b.Build(role, r, unit)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	src.register(cmd)
	cmd.Flags().StringVar(&unit, "unit", "", "Commander: restrict to one unit")
	cmd.Flags().StringVar(&id, "id", "", "Personnel: member id")
	cmd.Flags().IntVar(&overdueMonths, "overdue-months", 6, "Months after which a medical checkup is overdue")
	return cmd
}
