package scenario

import (
	"fmt"
	"reflect"

	"github.com/okian/muster/internal/domain/personnel"
)

// Request selects an analysis and carries its parameters.
type Request struct {
	Kind   Kind
	Params Params
}

type runner struct {
	newParams func() Params
	run       func(personnel.Roster, Params) (Report, error)
}

var registry = map[Kind]runner{
	KindRetirement: {
		newParams: func() Params { p := DefaultRetirement; return &p },
		run: func(r personnel.Roster, p Params) (Report, error) {
			rep, err := RunRetirement(r, deref[RetirementParams](p))
			if err != nil {
				return nil, err
			}
			return rep, nil
		},
	},
	KindRedeployment: {
		newParams: func() Params { p := DefaultRedeployment; return &p },
		run: func(r personnel.Roster, p Params) (Report, error) {
			rep, err := RunRedeployment(r, deref[RedeploymentParams](p))
			if err != nil {
				return nil, err
			}
			return rep, nil
		},
	},
	KindMobilization: {
		newParams: func() Params { p := DefaultMobilization; return &p },
		run: func(r personnel.Roster, p Params) (Report, error) {
			rep, err := RunMobilization(r, deref[MobilizationParams](p))
			if err != nil {
				return nil, err
			}
			return rep, nil
		},
	},
}

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if _, ok := registry[k]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

// NewParams returns a pointer to the kind's parameter struct pre-filled with
// defaults, ready to be decoded into.
func NewParams(k Kind) (Params, error) {
	r, ok := registry[k]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, k)
	}
	return r.newParams(), nil
}

// Run dispatches req to the analysis for its kind.
func Run(roster personnel.Roster, req Request) (Report, error) {
	r, ok := registry[req.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, req.Kind)
	}
	if isNil(req.Params) || req.Params.Kind() != req.Kind {
		return nil, &InvalidParameterError{Param: "params", Value: req.Params, Reason: "do not match kind " + string(req.Kind)}
	}
	return r.run(roster, req.Params)
}

// isNil reports a nil interface or a typed nil pointer behind it.
func isNil(p Params) bool {
	if p == nil {
		return true
	}
	v := reflect.ValueOf(p)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// deref accepts both T and *T. Callers have already checked the kind.
func deref[T any](p Params) T {
	switch v := any(p).(type) {
	case *T:
		return *v
	case T:
		return v
	}
	var zero T
	return zero
}
