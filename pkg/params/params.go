// Package params provides the parameter store boundary consumed by the
// constraint and objective engines.
//
// Parameters are read-only scalar inputs keyed by name and an index: a
// loc::tech pair, a bare technology, or a bare node, depending on the
// parameter's declared dimensionality. Lookups never fail: a missing
// parameter yields an absent Value and callers supply their own fallbacks.
//
// A Value distinguishes three states that the upstream configuration
// surface conflates at its own peril: not set at all, a number (including
// zero), and a boolean (including false). Boolean false doubles as the
// "explicitly unset" sentinel for equals-style parameters, matching the
// configuration convention of the modeling front end.
package params

import (
	"fmt"

	"github.com/enermodel/capacity-planner/pkg/core"
)

type valueKind int

const (
	kindAbsent valueKind = iota
	kindNumber
	kindBool
)

// Value is a typed scalar parameter value with explicit absence.
type Value struct {
	kind valueKind
	num  float64
	flag bool
}

// Absent returns the "not set" value.
func Absent() Value { return Value{} }

// Number returns a numeric value.
func Number(v float64) Value { return Value{kind: kindNumber, num: v} }

// Bool returns a boolean value.
func Bool(v bool) Value { return Value{kind: kindBool, flag: v} }

// IsSet reports whether the parameter was configured at all.
func (v Value) IsSet() bool { return v.kind != kindAbsent }

// IsNumber reports whether the value carries a number. Numeric zero counts;
// absent and boolean values do not.
func (v Value) IsNumber() bool { return v.kind == kindNumber }

// Float returns the numeric value, or 0 when the value is not a number.
func (v Value) Float() float64 {
	if v.kind != kindNumber {
		return 0
	}
	return v.num
}

// FloatOr returns the numeric value, or def when the value is not a number.
func (v Value) FloatOr(def float64) float64 {
	if v.kind != kindNumber {
		return def
	}
	return v.num
}

// True reports whether the value is the boolean true.
func (v Value) True() bool { return v.kind == kindBool && v.flag }

func (v Value) String() string {
	switch v.kind {
	case kindNumber:
		return fmt.Sprintf("%g", v.num)
	case kindBool:
		return fmt.Sprintf("%t", v.flag)
	default:
		return "<absent>"
	}
}

// Resolver is the lookup boundary the engines consume. Implementations
// must be safe for concurrent reads and are treated as immutable for the
// duration of model construction.
type Resolver interface {
	// Get looks up a per-loc::tech parameter.
	Get(name string, lt core.LocTech) Value
	// GetTech looks up a per-technology parameter.
	GetTech(name string, tech core.Tech) Value
	// GetNode looks up a per-node parameter.
	GetNode(name string, node core.Node) Value
}

// Store is the in-memory Resolver populated by the external loading stage
// before constraint building begins.
type Store struct {
	locTech map[string]Value
	tech    map[string]Value
	node    map[string]Value
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		locTech: make(map[string]Value),
		tech:    make(map[string]Value),
		node:    make(map[string]Value),
	}
}

func composite(name, index string) string {
	return name + "\x00" + index
}

// Set stores a per-loc::tech parameter.
func (s *Store) Set(name string, lt core.LocTech, v Value) {
	s.locTech[composite(name, lt.Key())] = v
}

// SetTech stores a per-technology parameter.
func (s *Store) SetTech(name string, tech core.Tech, v Value) {
	s.tech[composite(name, string(tech))] = v
}

// SetNode stores a per-node parameter.
func (s *Store) SetNode(name string, node core.Node, v Value) {
	s.node[composite(name, string(node))] = v
}

// Get implements Resolver.
func (s *Store) Get(name string, lt core.LocTech) Value {
	return s.locTech[composite(name, lt.Key())]
}

// GetTech implements Resolver.
func (s *Store) GetTech(name string, tech core.Tech) Value {
	return s.tech[composite(name, string(tech))]
}

// GetNode implements Resolver.
func (s *Store) GetNode(name string, node core.Node) Value {
	return s.node[composite(name, string(node))]
}

var _ Resolver = (*Store)(nil)
