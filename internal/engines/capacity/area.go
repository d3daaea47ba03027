package capacity

import (
	"fmt"

	"github.com/enermodel/capacity-planner/pkg/core"
	"github.com/enermodel/capacity-planner/pkg/params"
)

// ApplyAreaBudget caps, per node, the summed area use of all area-consuming
// technologies at that node against the node's available_area parameter.
// Nodes without a configured available_area receive no constraint.
func ApplyAreaBudget(m *core.Model, res params.Resolver) error {
	for _, node := range m.Nodes(core.ResourceArea) {
		available := res.GetNode("available_area", node)
		if !available.IsNumber() {
			continue
		}

		var sum core.LinearExpr
		for _, lt := range m.LocTechsAt(core.ResourceArea, node) {
			v, ok := m.CapacityVariable(core.ResourceArea, lt)
			if !ok {
				continue
			}
			sum = sum.AddTerm(1, v)
		}

		name := fmt.Sprintf("available_area_constraint[%s]", node)
		if err := m.AddConstraint(core.UpperBound(name, sum, available.Float())); err != nil {
			return err
		}
	}
	return nil
}
