package capacity

import (
	"fmt"

	"github.com/enermodel/capacity-planner/pkg/core"
	"github.com/enermodel/capacity-planner/pkg/params"
)

// ApplySystemwide constrains, per technology, the energy capacity summed
// across every node where the technology is buildable. Pairs absent from
// the energy_cap index set are skipped, not treated as zero-valued terms.
//
// A systemwide equals bound takes precedence over max. Systemwide bounds
// support equals and max only; unlike the per-loc::tech resolver there is
// no min fallback. Technologies with neither bound configured receive no
// systemwide constraint.
func ApplySystemwide(m *core.Model, res params.Resolver) error {
	for _, tech := range m.Techs(core.EnergyCap) {
		equals := res.GetTech("energy_cap_equals_systemwide", tech)
		max := res.GetTech("energy_cap_max_systemwide", tech)
		if !equals.IsNumber() && !max.IsNumber() {
			continue
		}

		var sum core.LinearExpr
		for _, lt := range m.LocTechsForTech(core.EnergyCap, tech) {
			v, ok := m.CapacityVariable(core.EnergyCap, lt)
			if !ok {
				continue
			}
			sum = sum.AddTerm(1, v)
		}

		name := fmt.Sprintf("energy_cap_systemwide_constraint[%s]", tech)
		if equals.IsNumber() {
			if err := m.AddConstraint(core.Equality(name, sum, equals.Float())); err != nil {
				return err
			}
			continue
		}
		if err := m.AddConstraint(core.UpperBound(name, sum, max.Float())); err != nil {
			return err
		}
	}
	return nil
}
