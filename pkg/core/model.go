package core

import (
	"fmt"
	"sort"
)

// Variable family names for cost and slack variables. Capacity variables
// use their CapacityKind as the family name.
const (
	CostSet         = "cost"
	UnmetDemandSet  = "unmet_demand"
	UnusedSupplySet = "unused_supply"
)

// ObjectiveName is the well-known name the single model objective is
// registered under.
const ObjectiveName = "obj"

type slackKey struct {
	Node     Node
	Carrier  Carrier
	Timestep string
}

func (k slackKey) key() string {
	return fmt.Sprintf("%s::%s::%s", k.Node, k.Carrier, k.Timestep)
}

// Model is the registry the constraint and objective engines emit into.
// During model construction it is append-only: variables and constraints
// are registered once and never revisited. It is not safe for concurrent
// mutation; construction is single-threaded by design.
type Model struct {
	capacity map[CapacityKind]map[LocTech]VarRef
	cost     map[CostClass]map[LocTech]VarRef

	timesteps []Timestep
	unmet     map[slackKey]VarRef
	unused    map[slackKey]VarRef

	constraints    []Constraint
	constraintIdx  map[string]int
	unconstrained  map[string]struct{}
	objective      Objective
	objectiveSetup bool
}

// NewModel returns an empty model.
func NewModel() *Model {
	m := &Model{
		capacity:      make(map[CapacityKind]map[LocTech]VarRef),
		cost:          make(map[CostClass]map[LocTech]VarRef),
		unmet:         make(map[slackKey]VarRef),
		unused:        make(map[slackKey]VarRef),
		constraintIdx: make(map[string]int),
		unconstrained: make(map[string]struct{}),
	}
	for _, kind := range CapacityKinds() {
		m.capacity[kind] = make(map[LocTech]VarRef)
	}
	return m
}

// AddCapacityVariable declares that kind is a valid decision for lt and
// returns the variable reference. Declaring the same pair twice returns
// the existing reference.
func (m *Model) AddCapacityVariable(kind CapacityKind, lt LocTech) VarRef {
	set := m.capacity[kind]
	if v, ok := set[lt]; ok {
		return v
	}
	v := VarRef{Set: string(kind), Key: lt.Key()}
	set[lt] = v
	return v
}

// CapacityVariable returns the variable for (kind, lt) and whether the pair
// is in the kind's index set.
func (m *Model) CapacityVariable(kind CapacityKind, lt LocTech) (VarRef, bool) {
	v, ok := m.capacity[kind][lt]
	return v, ok
}

// LocTechs returns the index set of kind, sorted by node then tech.
func (m *Model) LocTechs(kind CapacityKind) []LocTech {
	set := m.capacity[kind]
	out := make([]LocTech, 0, len(set))
	for lt := range set {
		out = append(out, lt)
	}
	sortLocTechs(out)
	return out
}

// Techs returns the distinct technologies present in kind's index set,
// sorted.
func (m *Model) Techs(kind CapacityKind) []Tech {
	seen := make(map[Tech]struct{})
	for lt := range m.capacity[kind] {
		seen[lt.Tech] = struct{}{}
	}
	out := make([]Tech, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Nodes returns the distinct nodes present in kind's index set, sorted.
func (m *Model) Nodes(kind CapacityKind) []Node {
	seen := make(map[Node]struct{})
	for lt := range m.capacity[kind] {
		seen[lt.Node] = struct{}{}
	}
	out := make([]Node, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// LocTechsForTech returns kind's index set filtered to one technology,
// sorted by node. Pairs where the technology is not buildable are simply
// absent, never zero-valued placeholders.
func (m *Model) LocTechsForTech(kind CapacityKind, tech Tech) []LocTech {
	var out []LocTech
	for lt := range m.capacity[kind] {
		if lt.Tech == tech {
			out = append(out, lt)
		}
	}
	sortLocTechs(out)
	return out
}

// LocTechsAt returns kind's index set filtered to one node, sorted by tech.
func (m *Model) LocTechsAt(kind CapacityKind, node Node) []LocTech {
	var out []LocTech
	for lt := range m.capacity[kind] {
		if lt.Node == node {
			out = append(out, lt)
		}
	}
	sortLocTechs(out)
	return out
}

// AddCostVariable declares the cost variable for (class, lt) and returns
// its reference.
func (m *Model) AddCostVariable(class CostClass, lt LocTech) VarRef {
	set, ok := m.cost[class]
	if !ok {
		set = make(map[LocTech]VarRef)
		m.cost[class] = set
	}
	if v, ok := set[lt]; ok {
		return v
	}
	v := VarRef{Set: CostSet, Key: fmt.Sprintf("%s::%s", class, lt.Key())}
	set[lt] = v
	return v
}

// CostVariables returns all cost variables of a class, sorted by loc::tech.
func (m *Model) CostVariables(class CostClass) []VarRef {
	set := m.cost[class]
	lts := make([]LocTech, 0, len(set))
	for lt := range set {
		lts = append(lts, lt)
	}
	sortLocTechs(lts)
	out := make([]VarRef, len(lts))
	for i, lt := range lts {
		out[i] = set[lt]
	}
	return out
}

// CostClasses returns the declared cost classes, sorted.
func (m *Model) CostClasses() []CostClass {
	out := make([]CostClass, 0, len(m.cost))
	for c := range m.cost {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// AddTimestep appends one weighted timestep to the dispatch horizon.
func (m *Model) AddTimestep(ts Timestep) {
	m.timesteps = append(m.timesteps, ts)
}

// Timesteps returns the horizon in declaration order.
func (m *Model) Timesteps() []Timestep {
	out := make([]Timestep, len(m.timesteps))
	copy(out, m.timesteps)
	return out
}

// AddSlackVariables declares the unmet-demand and unused-supply slack pair
// for (node, carrier, timestep) and returns both references.
func (m *Model) AddSlackVariables(node Node, carrier Carrier, timestep string) (unmet, unused VarRef) {
	k := slackKey{Node: node, Carrier: carrier, Timestep: timestep}
	if v, ok := m.unmet[k]; ok {
		return v, m.unused[k]
	}
	unmet = VarRef{Set: UnmetDemandSet, Key: k.key()}
	unused = VarRef{Set: UnusedSupplySet, Key: k.key()}
	m.unmet[k] = unmet
	m.unused[k] = unused
	return unmet, unused
}

// UnmetDemandAt returns all unmet-demand variables of one timestep, sorted.
func (m *Model) UnmetDemandAt(timestep string) []VarRef {
	return slackAt(m.unmet, timestep)
}

// UnusedSupplyAt returns all unused-supply variables of one timestep, sorted.
func (m *Model) UnusedSupplyAt(timestep string) []VarRef {
	return slackAt(m.unused, timestep)
}

func slackAt(set map[slackKey]VarRef, timestep string) []VarRef {
	var out []VarRef
	for k, v := range set {
		if k.Timestep == timestep {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// AddConstraint registers a named constraint. Names are unique; a second
// registration under the same name is a programming error and rejected.
func (m *Model) AddConstraint(c Constraint) error {
	if c.Name == "" {
		return fmt.Errorf("constraint must have a name")
	}
	if _, exists := m.constraintIdx[c.Name]; exists {
		return fmt.Errorf("constraint %q already registered", c.Name)
	}
	m.constraintIdx[c.Name] = len(m.constraints)
	m.constraints = append(m.constraints, c)
	return nil
}

// Constraint looks up a registered constraint by name.
func (m *Model) Constraint(name string) (Constraint, bool) {
	i, ok := m.constraintIdx[name]
	if !ok {
		return Constraint{}, false
	}
	return m.constraints[i], true
}

// ConstraintCount returns the number of registered constraints.
func (m *Model) ConstraintCount() int {
	return len(m.constraints)
}

// Constraints returns all registered constraints in registration order.
func (m *Model) Constraints() []Constraint {
	out := make([]Constraint, len(m.constraints))
	copy(out, m.constraints)
	return out
}

// MarkUnconstrained records that the named constraint slot was resolved to
// "no constraint". The marker lets downstream stages distinguish a slot
// that was considered and skipped from one that was never visited.
func (m *Model) MarkUnconstrained(name string) {
	m.unconstrained[name] = struct{}{}
}

// IsUnconstrained reports whether the named slot carries the explicit
// no-constraint marker.
func (m *Model) IsUnconstrained(name string) bool {
	_, ok := m.unconstrained[name]
	return ok
}

// UnconstrainedMarkers returns all no-constraint markers, sorted.
func (m *Model) UnconstrainedMarkers() []string {
	out := make([]string, 0, len(m.unconstrained))
	for n := range m.unconstrained {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// SetObjective registers the model objective, replacing any previous one.
// Exactly one objective is active at a time.
func (m *Model) SetObjective(o Objective) {
	if o.Name == "" {
		o.Name = ObjectiveName
	}
	m.objective = o
	m.objectiveSetup = true
}

// Objective returns the registered objective, if any.
func (m *Model) Objective() (Objective, bool) {
	return m.objective, m.objectiveSetup
}

func sortLocTechs(lts []LocTech) {
	sort.Slice(lts, func(i, j int) bool {
		if lts[i].Node != lts[j].Node {
			return lts[i].Node < lts[j].Node
		}
		return lts[i].Tech < lts[j].Tech
	})
}
