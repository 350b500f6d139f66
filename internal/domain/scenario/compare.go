package scenario

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/okian/muster/internal/domain/personnel"
)

// CompareRequest holds the parameters of each analysis to run side by side.
// A nil entry skips that analysis.
type CompareRequest struct {
	Retirement   *RetirementParams   `json:"retirement,omitempty"`
	Redeployment *RedeploymentParams `json:"redeployment,omitempty"`
	Mobilization *MobilizationParams `json:"mobilization,omitempty"`
}

// CompareResult holds one report per requested analysis.
type CompareResult struct {
	Retirement   *RetirementReport   `json:"retirement,omitempty"`
	Redeployment *RedeploymentReport `json:"redeployment,omitempty"`
	Mobilization *MobilizationReport `json:"mobilization,omitempty"`
}

// Compare runs the requested analyses concurrently over the same roster.
// The reports equal those of sequential calls. The first error wins and no
// partial result is returned.
func Compare(ctx context.Context, roster personnel.Roster, req CompareRequest) (*CompareResult, error) {
	if req.Retirement == nil && req.Redeployment == nil && req.Mobilization == nil {
		return nil, &InvalidParameterError{Param: "compare", Value: nil, Reason: "requires at least one analysis"}
	}

	var res CompareResult
	g, ctx := errgroup.WithContext(ctx)
	if req.Retirement != nil {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rep, err := RunRetirement(roster, *req.Retirement)
			res.Retirement = rep
			return err
		})
	}
	if req.Redeployment != nil {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rep, err := RunRedeployment(roster, *req.Redeployment)
			res.Redeployment = rep
			return err
		})
	}
	if req.Mobilization != nil {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rep, err := RunMobilization(roster, *req.Mobilization)
			res.Mobilization = rep
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &res, nil
}
