package core

import "fmt"

// Node identifies a location in the energy system topology.
type Node string

// Tech identifies a technology type that may be installed at a node.
type Tech string

// Carrier identifies an energy carrier (e.g. power, heat).
type Carrier string

// LocTech is a (node, technology) pair, the unit of most capacity decisions.
// Membership of a LocTech in a variable's index set is itself meaningful:
// absence means the technology is not buildable at that node and no rule
// may be applied to the pair.
type LocTech struct {
	Node Node
	Tech Tech
}

// Key returns the canonical "node::tech" form used in variable and
// constraint names.
func (lt LocTech) Key() string {
	return fmt.Sprintf("%s::%s", lt.Node, lt.Tech)
}

// CapacityKind enumerates the capacity decision variables of the model.
// Rules address variables through this fixed set rather than by dynamic
// name lookup.
type CapacityKind string

const (
	// StorageCap is the installed storage capacity of a loc::tech.
	StorageCap CapacityKind = "storage_cap"
	// ResourceCap is the installed resource-consumption capacity of a loc::tech.
	ResourceCap CapacityKind = "resource_cap"
	// ResourceArea is the land/area use of a loc::tech.
	ResourceArea CapacityKind = "resource_area"
	// EnergyCap is the installed energy conversion/output capacity of a loc::tech.
	EnergyCap CapacityKind = "energy_cap"
)

// CapacityKinds lists all capacity kinds in their canonical order.
func CapacityKinds() []CapacityKind {
	return []CapacityKind{StorageCap, ResourceCap, ResourceArea, EnergyCap}
}

// CostClass identifies a cost accounting class (e.g. "monetary", "emissions").
type CostClass string

// Timestep is one weighted step of the dispatch horizon. Weights scale the
// contribution of per-timestep terms (such as the unmet-demand penalty) to
// the objective.
type Timestep struct {
	Name   string
	Weight float64
}

// Sense is the optimization direction of an objective.
type Sense string

const (
	Minimize Sense = "minimize"
	Maximize Sense = "maximize"
)
