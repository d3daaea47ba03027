package core

import "math"

// VarRef references a decision variable held by a Model. Set is the
// variable family (e.g. "energy_cap"), Key the canonical index within it.
type VarRef struct {
	Set string
	Key string
}

// Term is one coefficient-weighted variable of a linear expression.
type Term struct {
	Coeff float64
	Var   VarRef
}

// LinearExpr is a linear expression over decision variables plus a constant.
// Expressions are values; all operations return a new expression and leave
// the receiver untouched.
type LinearExpr struct {
	Terms    []Term
	Constant float64
}

// VarExpr returns the expression consisting of the single variable v.
func VarExpr(v VarRef) LinearExpr {
	return LinearExpr{Terms: []Term{{Coeff: 1, Var: v}}}
}

// ConstExpr returns a constant expression.
func ConstExpr(c float64) LinearExpr {
	return LinearExpr{Constant: c}
}

// Sum returns the expression summing all given variables with coefficient 1.
func Sum(vars []VarRef) LinearExpr {
	terms := make([]Term, len(vars))
	for i, v := range vars {
		terms[i] = Term{Coeff: 1, Var: v}
	}
	return LinearExpr{Terms: terms}
}

// AddTerm returns e plus coeff*v.
func (e LinearExpr) AddTerm(coeff float64, v VarRef) LinearExpr {
	terms := make([]Term, len(e.Terms), len(e.Terms)+1)
	copy(terms, e.Terms)
	terms = append(terms, Term{Coeff: coeff, Var: v})
	return LinearExpr{Terms: terms, Constant: e.Constant}
}

// Add returns the sum of e and o.
func (e LinearExpr) Add(o LinearExpr) LinearExpr {
	terms := make([]Term, 0, len(e.Terms)+len(o.Terms))
	terms = append(terms, e.Terms...)
	terms = append(terms, o.Terms...)
	return LinearExpr{Terms: terms, Constant: e.Constant + o.Constant}
}

// Scale returns e with every coefficient and the constant multiplied by f.
func (e LinearExpr) Scale(f float64) LinearExpr {
	terms := make([]Term, len(e.Terms))
	for i, t := range e.Terms {
		terms[i] = Term{Coeff: t.Coeff * f, Var: t.Var}
	}
	return LinearExpr{Terms: terms, Constant: e.Constant * f}
}

// Sub returns e minus o.
func (e LinearExpr) Sub(o LinearExpr) LinearExpr {
	return e.Add(o.Scale(-1))
}

// IsZero reports whether the expression has no terms and a zero constant.
func (e LinearExpr) IsZero() bool {
	return len(e.Terms) == 0 && e.Constant == 0
}

// Coeff returns the summed coefficient of v across all terms of e.
func (e LinearExpr) Coeff(v VarRef) float64 {
	var c float64
	for _, t := range e.Terms {
		if t.Var == v {
			c += t.Coeff
		}
	}
	return c
}

// Constraint is a named linear constraint Lower <= Body <= Upper. An
// equality constraint has Lower == Upper. Unbounded sides carry the
// corresponding infinity.
type Constraint struct {
	Name  string
	Body  LinearExpr
	Lower float64
	Upper float64
}

// Equality returns the constraint body == value.
func Equality(name string, body LinearExpr, value float64) Constraint {
	return Constraint{Name: name, Body: body, Lower: value, Upper: value}
}

// Bounds returns the constraint lower <= body <= upper.
func Bounds(name string, body LinearExpr, lower, upper float64) Constraint {
	return Constraint{Name: name, Body: body, Lower: lower, Upper: upper}
}

// UpperBound returns the constraint body <= upper.
func UpperBound(name string, body LinearExpr, upper float64) Constraint {
	return Constraint{Name: name, Body: body, Lower: math.Inf(-1), Upper: upper}
}

// LowerBound returns the constraint body >= lower.
func LowerBound(name string, body LinearExpr, lower float64) Constraint {
	return Constraint{Name: name, Body: body, Lower: lower, Upper: math.Inf(1)}
}

// IsEquality reports whether the constraint pins its body to a single value.
func (c Constraint) IsEquality() bool {
	return c.Lower == c.Upper && !math.IsInf(c.Lower, 0)
}

// Objective is the single scalar objective of a model.
type Objective struct {
	Name  string
	Sense Sense
	Expr  LinearExpr
}
