// Package capacity builds the capacity constraints of the planning model.
//
// For every (node, technology) pair in a capacity variable's index set, the
// package decides which algebraic constraint to attach, if any, from up to
// three independently-specified, possibly absent parameters: an exact value,
// an upper bound, and a lower bound.
//
// Key components:
//
//   - Resolve: the shared decision table turning equals/max/min parameters
//     into exactly one of equality, bounded range, or no constraint
//   - Rules: one bound rule per capacity kind (storage_cap, resource_cap,
//     resource_area, energy_cap) plus the ordered derived-ratio rules
//   - ApplySystemwide: the per-technology sum-across-nodes variant of the
//     energy capacity rule
//   - ApplyAreaBudget: the per-node cap on total area use
//
// Decision table (first match wins):
//
//  1. equals configured: equality at that value (scaled if a scale factor
//     applies). An infinite equals is a fatal configuration error.
//  2. min resolves to 0 and max to +inf: no constraint is attached; the
//     slot receives an explicit no-constraint marker.
//  3. otherwise: a [min, max] range with the scale applied to both bounds.
//
// Derived-ratio rules are not mutually exclusive with the bound rules: a
// technology may be subject to both, and the tighter constraint binds.
//
// All rules are pure functions of the parameter store and the model's
// variable index sets; evaluation order across loc::tech pairs does not
// affect the result.
package capacity
