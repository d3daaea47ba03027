package capacity

import (
	"fmt"

	"github.com/enermodel/capacity-planner/pkg/config"
	"github.com/enermodel/capacity-planner/pkg/core"
	"github.com/enermodel/capacity-planner/pkg/params"
)

// Rule builds the constraints of one capacity concern for a single
// loc::tech pair. Rules are applied over the index set named by Kind;
// pairs absent from that set are never visited.
type Rule interface {
	// Name identifies the rule in logs and metrics.
	Name() string
	// Kind is the capacity variable whose index set the rule scans.
	Kind() core.CapacityKind
	// Apply emits the rule's constraint (if any) for lt into m.
	Apply(m *core.Model, res params.Resolver, lt core.LocTech) error
}

// Rules returns the full ordered rule set for the given run configuration:
// the four per-kind bound rules followed by the derived-ratio rules.
func Rules(cfg config.RunConfig) []Rule {
	rules := []Rule{
		storageCapacityRule{},
		resourceCapacityRule{},
		resourceAreaRule{},
		energyCapacityRule{},
	}
	return append(rules, derivedRules(cfg)...)
}

func constraintName(kind core.CapacityKind, lt core.LocTech) string {
	return fmt.Sprintf("%s_constraint[%s,%s]", kind, lt.Node, lt.Tech)
}

// applyBounds resolves the equals/max/min parameters for (kind, lt) and
// registers the resulting constraint, range, or no-constraint marker.
func applyBounds(m *core.Model, res params.Resolver, kind core.CapacityKind, lt core.LocTech, ov Overrides) error {
	v, ok := m.CapacityVariable(kind, lt)
	if !ok {
		return nil
	}
	outcome, err := Resolve(res, kind, lt, ov)
	if err != nil {
		return err
	}
	name := constraintName(kind, lt)
	switch outcome.Kind {
	case OutcomeEquality:
		return m.AddConstraint(core.Equality(name, core.VarExpr(v), outcome.Value))
	case OutcomeRange:
		return m.AddConstraint(core.Bounds(name, core.VarExpr(v), outcome.Min, outcome.Max))
	default:
		m.MarkUnconstrained(name)
		return nil
	}
}

// storageCapacityRule bounds the storage capacity of storage technologies.
type storageCapacityRule struct{}

func (storageCapacityRule) Name() string            { return "storage_capacity" }
func (storageCapacityRule) Kind() core.CapacityKind { return core.StorageCap }

func (storageCapacityRule) Apply(m *core.Model, res params.Resolver, lt core.LocTech) error {
	return applyBounds(m, res, core.StorageCap, lt, Overrides{})
}

// resourceCapacityRule bounds the resource-consumption capacity.
type resourceCapacityRule struct{}

func (resourceCapacityRule) Name() string            { return "resource_capacity" }
func (resourceCapacityRule) Kind() core.CapacityKind { return core.ResourceCap }

func (resourceCapacityRule) Apply(m *core.Model, res params.Resolver, lt core.LocTech) error {
	return applyBounds(m, res, core.ResourceCap, lt, Overrides{})
}

// resourceAreaRule bounds the area use of area-consuming technologies.
type resourceAreaRule struct{}

func (resourceAreaRule) Name() string            { return "resource_area" }
func (resourceAreaRule) Kind() core.CapacityKind { return core.ResourceArea }

func (resourceAreaRule) Apply(m *core.Model, res params.Resolver, lt core.LocTech) error {
	energyCapMax := res.Get("energy_cap_max", lt)
	areaPerEnergyCap := res.Get("resource_area_per_energy_cap", lt)

	// A technology with zero energy capacity and no area-to-energy ratio
	// gets its area pinned to zero, overriding any configured area bounds,
	// so it cannot accrue area-driven costs.
	if energyCapMax.IsNumber() && energyCapMax.Float() == 0 && !areaPerEnergyCap.IsNumber() {
		v, ok := m.CapacityVariable(core.ResourceArea, lt)
		if !ok {
			return nil
		}
		return m.AddConstraint(core.Equality(constraintName(core.ResourceArea, lt), core.VarExpr(v), 0))
	}
	return applyBounds(m, res, core.ResourceArea, lt, Overrides{})
}

// energyCapacityRule bounds the energy capacity, honoring energy_cap_scale.
type energyCapacityRule struct{}

func (energyCapacityRule) Name() string            { return "energy_capacity" }
func (energyCapacityRule) Kind() core.CapacityKind { return core.EnergyCap }

func (energyCapacityRule) Apply(m *core.Model, res params.Resolver, lt core.LocTech) error {
	scale := res.Get("energy_cap_scale", lt)
	return applyBounds(m, res, core.EnergyCap, lt, Overrides{Scale: scale})
}
