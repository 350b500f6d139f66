package cli

import (
	"github.com/spf13/cobra"

	"github.com/okian/muster/internal/domain/scenario"
)

func newSimulateCmd() *cobra.Command {
	var (
		src  sourceFlags
		kind scenario.Kind
	)
	ret := scenario.DefaultRetirement
	red := scenario.DefaultRedeployment
	mob := scenario.DefaultMobilization

	cmd := &cobra.Command{
		Use:       "simulate retirement|redeployment|mobilization",
		Short:     "Run a what-if scenario against a roster",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(scenario.KindRetirement), string(scenario.KindRedeployment), string(scenario.KindMobilization)},
		PreRunE: func(_ *cobra.Command, args []string) error {
			k, err := scenario.ParseKind(args[0])
			kind = k
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var params scenario.Params
			switch kind {
			case scenario.KindRetirement:
				params = ret
			case scenario.KindRedeployment:
				params = red
			default:
				params = mob
			}
			if err := params.Validate(); err != nil {
				return err
			}

			r, err := src.load(cmd.Context())
			if err != nil {
				return err
			}
			report, err := scenario.Run(r, scenario.Request{Kind: kind, Params: params})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	}

	src.register(cmd)
	f := cmd.Flags()
	f.IntVar(&ret.AgeThreshold, "age-threshold", ret.AgeThreshold, "Retirement: minimum age")
	f.Float64Var(&ret.RetirementRatePercent, "retirement-rate", ret.RetirementRatePercent, "Retirement: percent of eligible members who retire")
	f.StringVar(&red.SourceUnit, "source-unit", "", "Redeployment: unit members move from")
	f.StringVar(&red.TargetUnit, "target-unit", "", "Redeployment: unit members move to")
	f.Float64Var(&red.MoveRatePercent, "move-rate", red.MoveRatePercent, "Redeployment: percent of the source unit that moves")
	f.IntVar(&mob.TimeframeHours, "timeframe-hours", mob.TimeframeHours, "Mobilization: window in hours")
	f.Float64Var(&mob.MinReadiness, "min-readiness", mob.MinReadiness, "Mobilization: readiness bar")
	return cmd
}
