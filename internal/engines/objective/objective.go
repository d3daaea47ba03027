// Package objective assembles the scalar objective of the planning model.
//
// Two mutually exclusive modes exist, selected by the run configuration:
//
//   - cost: the weighted sum of per-class costs, optionally adjusted by an
//     unmet-demand/unused-supply penalty term when ensure_feasibility is set
//   - feasibility: the constant 1, used solely to verify that the
//     constraint set is not contradictory
//
// Either mode registers the single model objective; building the second
// after the first replaces it.
package objective

import (
	"fmt"
	"sort"

	"github.com/enermodel/capacity-planner/pkg/config"
	"github.com/enermodel/capacity-planner/pkg/core"
)

// Build constructs and registers the objective selected by cfg.
func Build(m *core.Model, cfg config.RunConfig) error {
	switch cfg.Objective {
	case config.ObjectiveCost:
		return buildCost(m, cfg)
	case config.ObjectiveFeasibility:
		return buildFeasibilityCheck(m)
	default:
		return fmt.Errorf("unsupported objective mode: %q", cfg.Objective)
	}
}

// buildCost registers the cost minimization/maximization objective:
// the sum over (cost class, loc::tech) of cost * class weight, plus the
// feasibility penalty when enabled.
func buildCost(m *core.Model, cfg config.RunConfig) error {
	expr := core.LinearExpr{}

	classes := make([]core.CostClass, 0, len(cfg.CostClassWeights))
	for class := range cfg.CostClassWeights {
		classes = append(classes, class)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })

	for _, class := range classes {
		weight := cfg.CostClassWeights[class]
		for _, v := range m.CostVariables(class) {
			expr = expr.AddTerm(weight, v)
		}
	}

	if cfg.EnsureFeasibility {
		expr = expr.Add(penaltyTerm(m, cfg))
	}

	m.SetObjective(core.Objective{Name: core.ObjectiveName, Sense: cfg.Sense, Expr: expr})
	return nil
}

// penaltyTerm builds the feasibility penalty: per timestep,
// (sum unmet_demand - sum unused_supply) * timestep weight * bigM. Under a
// maximize sense the term is negated, so infeasibility slack is penalized
// regardless of optimization direction.
func penaltyTerm(m *core.Model, cfg config.RunConfig) core.LinearExpr {
	sign := 1.0
	if cfg.Sense == core.Maximize {
		sign = -1
	}

	term := core.LinearExpr{}
	for _, ts := range m.Timesteps() {
		coeff := sign * ts.Weight * cfg.BigM
		for _, v := range m.UnmetDemandAt(ts.Name) {
			term = term.AddTerm(coeff, v)
		}
		for _, v := range m.UnusedSupplyAt(ts.Name) {
			term = term.AddTerm(-coeff, v)
		}
	}
	return term
}

// buildFeasibilityCheck registers the constant objective used to probe the
// constraint set for contradictions. No cost data is consulted.
func buildFeasibilityCheck(m *core.Model) error {
	m.SetObjective(core.Objective{
		Name:  core.ObjectiveName,
		Sense: core.Minimize,
		Expr:  core.ConstExpr(1),
	})
	return nil
}
