// Package core provides the fundamental data structures for the capacity-planning model builder.
//
// This package contains the domain types that represent the entities and
// relationships of a multi-node energy system plan:
//
//   - Node, Tech, LocTech: the system topology and the (node, technology)
//     pairs that index most capacity decisions
//   - CapacityKind: the enumerated registry of capacity decision variables
//     (storage_cap, resource_cap, resource_area, energy_cap)
//   - VarRef, Term, LinearExpr: references to decision variables and the
//     linear expressions built over them
//   - Constraint: a named linear constraint with lower/upper bounds
//   - Objective: the single scalar objective with an explicit sense
//   - Model: the append-only registry the rule engines emit variables,
//     constraints and the objective into
//
// These types form the target the constraint engines in
// internal/engines/capacity and internal/engines/objective write to. The
// model is handed to a solver stage afterwards; nothing in this package
// solves anything.
//
// Example usage:
//
//	m := core.NewModel()
//	lt := core.LocTech{Node: "region1", Tech: "pv"}
//	v := m.AddCapacityVariable(core.EnergyCap, lt)
//	m.AddConstraint(core.Equality("energy_cap_constraint["+lt.Key()+"]", core.VarExpr(v), 50))
//
// The core package is designed to be:
//   - Immutable where possible (value types)
//   - Deterministic: all iteration orders are sorted
//   - Independent of any solver API (pure domain logic)
package core
