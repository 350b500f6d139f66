package loadtest

import (
	"math/rand"

	"github.com/google/uuid"
)

// Unit names the mock roster generator assigns.
var units = []string{ //nolint:gochecknoglobals // read-only lookup table
	"No. 1 Squadron", "No. 7 Squadron", "No. 17 Squadron", "No. 26 Squadron", "No. 32 Squadron",
}

// Generate builds n job requests cycling through the three scenario kinds
// with parameters varied by seed.
func Generate(n int, seed int64) []JobRequest {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // load shaping, not security
	out := make([]JobRequest, 0, n)
	for i := range n {
		req := JobRequest{RequestID: uuid.NewString()}
		switch i % 3 {
		case 0:
			req.Kind = "retirement"
			req.Params = map[string]any{
				"age_threshold":           50 + rng.Intn(10),
				"retirement_rate_percent": 5 + rng.Intn(30),
			}
		case 1:
			src := rng.Intn(len(units))
			dst := (src + 1 + rng.Intn(len(units)-1)) % len(units)
			req.Kind = "redeployment"
			req.Params = map[string]any{
				"source_unit":       units[src],
				"target_unit":       units[dst],
				"move_rate_percent": 10 + rng.Intn(40),
			}
		default:
			req.Kind = "mobilization"
			req.Params = map[string]any{
				"timeframe_hours": 12 + rng.Intn(60),
				"min_readiness":   70 + rng.Intn(25),
			}
		}
		out = append(out, req)
	}
	return out
}
