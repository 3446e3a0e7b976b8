// Package constraint implements the Constraint Generator (§4.4) and
// Constraint Solver (§4.6): the two components that sit between the type
// representation/unification leaves and the external AST. It is grounded
// on the teacher's two partially-overlapping implementations —
// internal/types/algorithm_w.go's visitor-based Algorithm W and
// internal/types/constraint_generator.go's constraint-kind/priority
// scheme — synthesized into the one coherent pipeline §2 describes:
// generator produces (type, constraints), solver produces a substitution.
package constraint

import (
	"github.com/bendu-lang/bendu-typecheck/internal/position"
	"github.com/bendu-lang/bendu-typecheck/internal/types"
)

// Kind is a constraint's priority tag, ordered Equality < Subtyping <
// Instance (§4.4, §4.6).
type Kind int

const (
	Equality Kind = iota
	Subtyping
	Instance
)

func (k Kind) String() string {
	switch k {
	case Equality:
		return "="
	case Subtyping:
		return "<:"
	case Instance:
		return "instance"
	default:
		return "?"
	}
}

// Constraint carries two types, the priority it was generated at, and the
// source location of the expression that produced it (used for error
// reporting per §4.6: "failures must include... the source location
// attached to the originating constraint"). ClassName is set only for
// Instance constraints, naming the type-class Left is asserted to belong
// to.
type Constraint struct {
	Left, Right *types.Type
	Kind        Kind
	Span        position.Span
	ClassName   string
}

func (c Constraint) String() string {
	if c.Kind == Instance {
		return c.ClassName + " " + c.Left.String()
	}
	return c.Left.String() + " " + c.Kind.String() + " " + c.Right.String()
}

// Set accumulates constraints in generation order; the solver sorts a
// copy by priority rather than mutating generation order in place, so a
// Set can be inspected (e.g. in tests) independent of solving.
type Set struct {
	items []Constraint
}

func NewSet() *Set {
	return &Set{}
}

func (s *Set) Add(c Constraint) {
	s.items = append(s.items, c)
}

func (s *Set) AddEquality(left, right *types.Type, span position.Span) {
	s.Add(Constraint{Left: left, Right: right, Kind: Equality, Span: span})
}

func (s *Set) AddSubtyping(sub, super *types.Type, span position.Span) {
	s.Add(Constraint{Left: sub, Right: super, Kind: Subtyping, Span: span})
}

func (s *Set) AddInstance(class string, t *types.Type, span position.Span) {
	s.Add(Constraint{Left: t, ClassName: class, Kind: Instance, Span: span})
}

func (s *Set) Items() []Constraint {
	return append([]Constraint{}, s.items...)
}

func (s *Set) Len() int {
	return len(s.items)
}

func (s *Set) IsEmpty() bool {
	return len(s.items) == 0
}
