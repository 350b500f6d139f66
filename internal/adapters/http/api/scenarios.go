package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/okian/muster/internal/domain/scenario"
)

const maxBodyBytes = 1 << 20

// ScenarioDependencies runs analyses synchronously.
type ScenarioDependencies interface {
	RunScenario(ctx context.Context, req scenario.Request) (scenario.Report, error)
	Compare(ctx context.Context, req scenario.CompareRequest) (*scenario.CompareResult, error)
}

// ScenarioHandler handles scenario requests.
type ScenarioHandler struct {
	deps ScenarioDependencies
}

// NewScenarioHandler creates a new scenario handler.
func NewScenarioHandler(deps ScenarioDependencies) *ScenarioHandler {
	return &ScenarioHandler{deps: deps}
}

// HandleRun handles POST /scenarios/{kind}. The body holds the parameters;
// omitted fields and an empty body keep their defaults.
func (h *ScenarioHandler) HandleRun(w http.ResponseWriter, r *http.Request) {
	const op = "api.run_scenario"
	req, err := decodeRequest(r.PathValue("kind"), r.Body)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	report, err := h.deps.RunScenario(r.Context(), req)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// compareRequest holds raw parameters so each analysis starts from its
// defaults before the body is applied.
type compareRequest struct {
	Retirement   json.RawMessage `json:"retirement"`
	Redeployment json.RawMessage `json:"redeployment"`
	Mobilization json.RawMessage `json:"mobilization"`
}

// HandleCompare handles POST /scenarios/compare. An empty body runs the
// retirement and mobilization analyses with default parameters;
// redeployment needs units and runs only when given.
func (h *ScenarioHandler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	const op = "api.compare_scenarios"
	var body compareRequest
	empty, err := decodeBody(r.Body, &body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	var req scenario.CompareRequest
	if empty {
		ret, mob := scenario.DefaultRetirement, scenario.DefaultMobilization
		req = scenario.CompareRequest{Retirement: &ret, Mobilization: &mob}
	} else {
		req, err = body.resolve()
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
	}
	res, err := h.deps.Compare(r.Context(), req)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (c *compareRequest) resolve() (scenario.CompareRequest, error) {
	var req scenario.CompareRequest
	if c.Retirement != nil {
		p := scenario.DefaultRetirement
		if err := json.Unmarshal(c.Retirement, &p); err != nil {
			return req, err
		}
		req.Retirement = &p
	}
	if c.Redeployment != nil {
		p := scenario.DefaultRedeployment
		if err := json.Unmarshal(c.Redeployment, &p); err != nil {
			return req, err
		}
		req.Redeployment = &p
	}
	if c.Mobilization != nil {
		p := scenario.DefaultMobilization
		if err := json.Unmarshal(c.Mobilization, &p); err != nil {
			return req, err
		}
		req.Mobilization = &p
	}
	return req, nil
}

// decodeRequest builds a request for kind from a JSON parameter body.
func decodeRequest(kind string, body io.Reader) (scenario.Request, error) {
	k, err := scenario.ParseKind(kind)
	if err != nil {
		return scenario.Request{}, err
	}
	params, err := scenario.NewParams(k)
	if err != nil {
		return scenario.Request{}, err
	}
	if _, err := decodeBody(body, params); err != nil {
		return scenario.Request{}, errors.Join(ErrBadRequest, err)
	}
	return scenario.Request{Kind: k, Params: params}, nil
}

// decodeBody decodes a JSON body into v and reports whether it was empty.
func decodeBody(body io.Reader, v any) (bool, error) {
	if body == nil {
		return true, nil
	}
	err := json.NewDecoder(io.LimitReader(body, maxBodyBytes)).Decode(v)
	if errors.Is(err, io.EOF) {
		return true, nil
	}
	return false, err
}
