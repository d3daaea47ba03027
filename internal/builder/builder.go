package builder

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/enermodel/capacity-planner/internal/engines/capacity"
	"github.com/enermodel/capacity-planner/internal/engines/objective"
	"github.com/enermodel/capacity-planner/internal/logging"
	"github.com/enermodel/capacity-planner/pkg/config"
	"github.com/enermodel/capacity-planner/pkg/core"
	"github.com/enermodel/capacity-planner/pkg/params"
)

// Builder assembles the constraint and objective structure of one model.
type Builder struct {
	model  *core.Model
	params params.Resolver
	cfg    config.RunConfig
}

// New creates a Builder for the given model, parameter store and run
// configuration. The parameter store must be fully populated and the
// model's variable index sets fully declared before Build is called.
func New(m *core.Model, res params.Resolver, cfg config.RunConfig) (*Builder, error) {
	if m == nil {
		return nil, fmt.Errorf("model cannot be nil")
	}
	if res == nil {
		return nil, fmt.Errorf("parameter resolver cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid run config: %w", err)
	}
	return &Builder{model: m, params: res, cfg: cfg}, nil
}

// Build runs the construction pipeline: capacity rules over each rule's
// index set, systemwide aggregation, area budgets, then the objective.
// The first error aborts the build.
func (b *Builder) Build(ctx context.Context) error {
	logger := logging.FromContext(ctx)
	timer := prometheus.NewTimer(buildDuration)
	defer timer.ObserveDuration()

	for _, rule := range capacity.Rules(b.cfg) {
		before := b.model.ConstraintCount()
		for _, lt := range b.model.LocTechs(rule.Kind()) {
			if err := rule.Apply(b.model, b.params, lt); err != nil {
				return fmt.Errorf("rule %s: %w", rule.Name(), err)
			}
		}
		built := b.model.ConstraintCount() - before
		constraintsBuilt.WithLabelValues(rule.Name()).Add(float64(built))
		logger.V(logging.DEBUG).Info("applied capacity rule",
			"rule", rule.Name(), "kind", string(rule.Kind()), "constraints", built)
	}

	before := b.model.ConstraintCount()
	if err := capacity.ApplySystemwide(b.model, b.params); err != nil {
		return fmt.Errorf("systemwide aggregation: %w", err)
	}
	constraintsBuilt.WithLabelValues("energy_capacity_systemwide").Add(float64(b.model.ConstraintCount() - before))

	before = b.model.ConstraintCount()
	if err := capacity.ApplyAreaBudget(b.model, b.params); err != nil {
		return fmt.Errorf("area budget aggregation: %w", err)
	}
	constraintsBuilt.WithLabelValues("available_area").Add(float64(b.model.ConstraintCount() - before))

	if err := objective.Build(b.model, b.cfg); err != nil {
		return fmt.Errorf("objective: %w", err)
	}

	unconstrained := len(b.model.UnconstrainedMarkers())
	unconstrainedMarkers.Set(float64(unconstrained))
	logger.Info("model build complete",
		"constraints", b.model.ConstraintCount(),
		"unconstrained", unconstrained,
		"objective", b.cfg.Objective,
		"sense", string(b.cfg.Sense))
	return nil
}
