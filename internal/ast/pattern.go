package ast

import "github.com/bendu-lang/bendu-typecheck/internal/position"

// Pattern is a match-arm pattern (§4.5 and §6). Unlike Expr, patterns do
// not produce a value by themselves — internal/constraint's pattern typer
// elaborates one against an expected scrutinee type, producing equality
// constraints and a set of variable bindings.
type Pattern interface {
	Span() position.Span
	isPattern()
}

type LiteralPattern struct {
	// exactly one of these is set, matching the literal kinds §4.5
	// allows a pattern to discriminate on.
	Int    *int64
	Float  *float64
	String *string
	Char   *rune
	Bool   *bool
	Sp     position.Span
}

func (p *LiteralPattern) Span() position.Span { return p.Sp }
func (*LiteralPattern) isPattern()            {}

type WildcardPattern struct {
	Sp position.Span
}

func (p *WildcardPattern) Span() position.Span { return p.Sp }
func (*WildcardPattern) isPattern()            {}

// VariablePattern binds Name to the scrutinee's type. An optional
// annotation emits an equality constraint against it (§4.5).
type VariablePattern struct {
	Name       string
	Annotation TypeExpr
	Sp         position.Span
}

func (p *VariablePattern) Span() position.Span { return p.Sp }
func (*VariablePattern) isPattern()            {}

type TuplePattern struct {
	Elems []Pattern
	Sp    position.Span
}

func (p *TuplePattern) Span() position.Span { return p.Sp }
func (*TuplePattern) isPattern()            {}

// RecordPatternField is one `name = pattern` entry of a record pattern.
type RecordPatternField struct {
	Name    string
	Pattern Pattern
}

// RecordPattern is `{ f = p_f, ... }` (§4.5): the scrutinee is matched
// against an open record carrying exactly the listed fields, each bound
// to a fresh variable unified with the sub-pattern — width subtyping at
// the pattern side, i.e. the scrutinee may carry additional fields not
// mentioned here.
type RecordPattern struct {
	Fields []RecordPatternField
	Sp     position.Span
}

func (p *RecordPattern) Span() position.Span { return p.Sp }
func (*RecordPattern) isPattern()            {}

// ConstructorPattern is left to future work per §4.5: "the spec documents
// the shape but treats it as emitting an equality against the relevant
// constructor type scheme." The generator accepts it without failing:
// each argument sub-pattern is typed against a fresh variable, and the
// scrutinee's type is not constrained by the constructor name.
type ConstructorPattern struct {
	Name string
	Args []Pattern
	Sp   position.Span
}

func (p *ConstructorPattern) Span() position.Span { return p.Sp }
func (*ConstructorPattern) isPattern()            {}
