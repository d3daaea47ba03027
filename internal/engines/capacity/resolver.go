package capacity

import (
	"math"

	"github.com/enermodel/capacity-planner/pkg/core"
	"github.com/enermodel/capacity-planner/pkg/params"
)

// OutcomeKind enumerates the three possible results of bound resolution.
type OutcomeKind int

const (
	// OutcomeUnconstrained attaches no constraint at all. Semantically
	// equivalent to a [0, +inf) range, kept distinct purely to avoid
	// emitting vacuous constraints into the solver.
	OutcomeUnconstrained OutcomeKind = iota
	// OutcomeEquality pins the variable to Value.
	OutcomeEquality
	// OutcomeRange bounds the variable to [Min, Max].
	OutcomeRange
)

// Outcome is the result of resolving the equals/max/min parameters of one
// capacity variable. Exactly one outcome is produced per resolution call;
// equality and range are mutually exclusive.
type Outcome struct {
	Kind  OutcomeKind
	Value float64
	Min   float64
	Max   float64
}

// Overrides lets specialized rules supply parameters directly instead of
// the generic "{kind}_equals" / "{kind}_max" / "{kind}_min" store lookups.
// Only set values override; absent fields fall back to the lookup. Scale,
// when numeric, multiplies the equals value or both range bounds.
type Overrides struct {
	Equals params.Value
	Max    params.Value
	Min    params.Value
	Scale  params.Value
}

// Resolve applies the capacity decision table for (kind, lt).
//
// equals is considered configured when it carries a number; boolean false
// is the configuration sentinel for "explicitly unset" and falls through
// to range handling. An unset min defaults to 0 and an unset max to +inf.
func Resolve(res params.Resolver, kind core.CapacityKind, lt core.LocTech, ov Overrides) (Outcome, error) {
	equals := ov.Equals
	if !equals.IsSet() {
		equals = res.Get(string(kind)+"_equals", lt)
	}
	max := ov.Max
	if !max.IsSet() {
		max = res.Get(string(kind)+"_max", lt)
	}
	min := ov.Min
	if !min.IsSet() {
		min = res.Get(string(kind)+"_min", lt)
	}

	if equals.IsNumber() {
		value := equals.Float()
		if math.IsInf(value, 0) {
			return Outcome{}, &core.ModelError{
				Param:  string(kind) + "_equals",
				Node:   lt.Node,
				Tech:   lt.Tech,
				Reason: "cannot use infinity for an equals bound",
			}
		}
		if ov.Scale.IsNumber() {
			value *= ov.Scale.Float()
		}
		return Outcome{Kind: OutcomeEquality, Value: value}, nil
	}

	lower := min.FloatOr(0)
	upper := max.FloatOr(math.Inf(1))
	if lower == 0 && math.IsInf(upper, 1) {
		return Outcome{Kind: OutcomeUnconstrained}, nil
	}
	if ov.Scale.IsNumber() {
		scale := ov.Scale.Float()
		lower *= scale
		upper *= scale
	}
	return Outcome{Kind: OutcomeRange, Min: lower, Max: upper}, nil
}
