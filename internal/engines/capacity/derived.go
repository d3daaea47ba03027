package capacity

import (
	"fmt"

	"github.com/enermodel/capacity-planner/pkg/config"
	"github.com/enermodel/capacity-planner/pkg/core"
	"github.com/enermodel/capacity-planner/pkg/params"
)

// derivedRule emits a constraint tying one capacity variable to another
// whenever its governing parameter is configured for a loc::tech pair.
// Derived rules are independent of the bound rules and of each other:
// several may apply to the same pair, and the tighter constraint binds.
type derivedRule struct {
	name  string
	kind  core.CapacityKind
	apply func(m *core.Model, res params.Resolver, lt core.LocTech) error
}

func (r derivedRule) Name() string            { return r.name }
func (r derivedRule) Kind() core.CapacityKind { return r.kind }

func (r derivedRule) Apply(m *core.Model, res params.Resolver, lt core.LocTech) error {
	return r.apply(m, res, lt)
}

// derivedRules returns the ordered derived-constraint rules. The deprecated
// charge_rate rule is included only when the configuration opts into it;
// it is superseded by energy_cap_per_storage_cap_max and retained for
// backward compatibility with older parameter sets.
func derivedRules(cfg config.RunConfig) []Rule {
	rules := []Rule{
		derivedRule{
			name: "energy_capacity_per_storage_capacity_equals",
			kind: core.StorageCap,
			apply: func(m *core.Model, res params.Resolver, lt core.LocTech) error {
				return storageRatioConstraint(m, res, lt, "energy_cap_per_storage_cap_equals", ratioEquality)
			},
		},
		derivedRule{
			name: "energy_capacity_per_storage_capacity_max",
			kind: core.StorageCap,
			apply: func(m *core.Model, res params.Resolver, lt core.LocTech) error {
				return storageRatioConstraint(m, res, lt, "energy_cap_per_storage_cap_max", ratioUpper)
			},
		},
		derivedRule{
			name: "energy_capacity_per_storage_capacity_min",
			kind: core.StorageCap,
			apply: func(m *core.Model, res params.Resolver, lt core.LocTech) error {
				return storageRatioConstraint(m, res, lt, "energy_cap_per_storage_cap_min", ratioLower)
			},
		},
	}
	if cfg.AllowLegacyChargeRate {
		rules = append(rules, derivedRule{
			name: "energy_capacity_charge_rate",
			kind: core.StorageCap,
			apply: func(m *core.Model, res params.Resolver, lt core.LocTech) error {
				return storageRatioConstraint(m, res, lt, "charge_rate", ratioUpper)
			},
		})
	}
	rules = append(rules,
		derivedRule{
			name:  "resource_capacity_equals_energy_capacity",
			kind:  core.ResourceCap,
			apply: resourceCapEqualsEnergyCap,
		},
		derivedRule{
			name:  "resource_area_per_energy_capacity",
			kind:  core.ResourceArea,
			apply: resourceAreaPerEnergyCap,
		},
	)
	return rules
}

type ratioSense int

const (
	ratioEquality ratioSense = iota
	ratioUpper
	ratioLower
)

// storageRatioConstraint ties energy_cap to storage_cap scaled by the named
// ratio parameter: energy_cap (== | <= | >=) storage_cap * ratio. Skipped
// when the ratio is not configured or either variable is not buildable at
// the pair.
func storageRatioConstraint(m *core.Model, res params.Resolver, lt core.LocTech, param string, sense ratioSense) error {
	ratio := res.Get(param, lt)
	if !ratio.IsNumber() {
		return nil
	}
	energyCap, ok := m.CapacityVariable(core.EnergyCap, lt)
	if !ok {
		return nil
	}
	storageCap, ok := m.CapacityVariable(core.StorageCap, lt)
	if !ok {
		return nil
	}
	name := fmt.Sprintf("%s_constraint[%s,%s]", param, lt.Node, lt.Tech)
	body := core.VarExpr(energyCap).AddTerm(-ratio.Float(), storageCap)
	switch sense {
	case ratioUpper:
		return m.AddConstraint(core.UpperBound(name, body, 0))
	case ratioLower:
		return m.AddConstraint(core.LowerBound(name, body, 0))
	default:
		return m.AddConstraint(core.Equality(name, body, 0))
	}
}

// resourceCapEqualsEnergyCap pins resource_cap to energy_cap for
// technologies carrying the resource_cap_equals_energy_cap flag.
func resourceCapEqualsEnergyCap(m *core.Model, res params.Resolver, lt core.LocTech) error {
	if !res.Get("resource_cap_equals_energy_cap", lt).True() {
		return nil
	}
	resourceCap, ok := m.CapacityVariable(core.ResourceCap, lt)
	if !ok {
		return nil
	}
	energyCap, ok := m.CapacityVariable(core.EnergyCap, lt)
	if !ok {
		return nil
	}
	name := fmt.Sprintf("resource_cap_equals_energy_cap_constraint[%s,%s]", lt.Node, lt.Tech)
	body := core.VarExpr(resourceCap).AddTerm(-1, energyCap)
	return m.AddConstraint(core.Equality(name, body, 0))
}

// resourceAreaPerEnergyCap pins resource_area to a fraction of energy_cap
// for technologies with a configured resource_area_per_energy_cap ratio.
func resourceAreaPerEnergyCap(m *core.Model, res params.Resolver, lt core.LocTech) error {
	ratio := res.Get("resource_area_per_energy_cap", lt)
	if !ratio.IsNumber() {
		return nil
	}
	resourceArea, ok := m.CapacityVariable(core.ResourceArea, lt)
	if !ok {
		return nil
	}
	energyCap, ok := m.CapacityVariable(core.EnergyCap, lt)
	if !ok {
		return nil
	}
	name := fmt.Sprintf("resource_area_per_energy_cap_constraint[%s,%s]", lt.Node, lt.Tech)
	body := core.VarExpr(resourceArea).AddTerm(-ratio.Float(), energyCap)
	return m.AddConstraint(core.Equality(name, body, 0))
}
