// Package ast is the external interface of §6: the node shapes the type
// checker consumes from an external parser. Lexing, parsing, and AST
// construction are explicitly out of scope (§1) — this package exists
// only so the constraint generator has something concrete to walk; it is
// grounded on the teacher's visitor-based Expr/ExprVisitor shape in
// internal/types/algorithm_w.go, generalized from that file's node
// kinds (literal, variable, application, lambda, let, if/else, binary,
// unary) to the full surface §6 names (tuples, records with spreads,
// field projection, match, type alias definitions, explicit
// annotations).
package ast

import "github.com/bendu-lang/bendu-typecheck/internal/position"

// Expr is any expression node. Every concrete node type below carries its
// own Span and implements Accept for the visitor dispatch the constraint
// generator uses (internal/constraint).
type Expr interface {
	Span() position.Span
	Accept(v ExprVisitor) (interface{}, error)
}

// ExprVisitor dispatches on concrete expression type. The constraint
// generator is the only production implementation; tests may supply
// others.
type ExprVisitor interface {
	VisitIntLiteral(e *IntLiteral) (interface{}, error)
	VisitFloatLiteral(e *FloatLiteral) (interface{}, error)
	VisitStringLiteral(e *StringLiteral) (interface{}, error)
	VisitCharLiteral(e *CharLiteral) (interface{}, error)
	VisitBoolLiteral(e *BoolLiteral) (interface{}, error)
	VisitUnitLiteral(e *UnitLiteral) (interface{}, error)
	VisitVariable(e *Variable) (interface{}, error)
	VisitLambda(e *Lambda) (interface{}, error)
	VisitApplication(e *Application) (interface{}, error)
	VisitLet(e *Let) (interface{}, error)
	VisitIf(e *If) (interface{}, error)
	VisitBinaryOp(e *BinaryOp) (interface{}, error)
	VisitUnaryOp(e *UnaryOp) (interface{}, error)
	VisitTuple(e *Tuple) (interface{}, error)
	VisitRecord(e *Record) (interface{}, error)
	VisitFieldProjection(e *FieldProjection) (interface{}, error)
	VisitMatch(e *Match) (interface{}, error)
	VisitTypeAliasDef(e *TypeAliasDef) (interface{}, error)
	VisitAnnotation(e *Annotation) (interface{}, error)
}

type IntLiteral struct {
	Value int64
	Sp    position.Span
}

func (e *IntLiteral) Span() position.Span { return e.Sp }
func (e *IntLiteral) Accept(v ExprVisitor) (interface{}, error) {
	return v.VisitIntLiteral(e)
}

type FloatLiteral struct {
	Value float64
	Sp    position.Span
}

func (e *FloatLiteral) Span() position.Span { return e.Sp }
func (e *FloatLiteral) Accept(v ExprVisitor) (interface{}, error) {
	return v.VisitFloatLiteral(e)
}

type StringLiteral struct {
	Value string
	Sp    position.Span
}

func (e *StringLiteral) Span() position.Span { return e.Sp }
func (e *StringLiteral) Accept(v ExprVisitor) (interface{}, error) {
	return v.VisitStringLiteral(e)
}

type CharLiteral struct {
	Value rune
	Sp    position.Span
}

func (e *CharLiteral) Span() position.Span { return e.Sp }
func (e *CharLiteral) Accept(v ExprVisitor) (interface{}, error) {
	return v.VisitCharLiteral(e)
}

type BoolLiteral struct {
	Value bool
	Sp    position.Span
}

func (e *BoolLiteral) Span() position.Span { return e.Sp }
func (e *BoolLiteral) Accept(v ExprVisitor) (interface{}, error) {
	return v.VisitBoolLiteral(e)
}

type UnitLiteral struct {
	Sp position.Span
}

func (e *UnitLiteral) Span() position.Span { return e.Sp }
func (e *UnitLiteral) Accept(v ExprVisitor) (interface{}, error) {
	return v.VisitUnitLiteral(e)
}

// Variable is a reference to a bound name.
type Variable struct {
	Name string
	Sp   position.Span
}

func (e *Variable) Span() position.Span { return e.Sp }
func (e *Variable) Accept(v ExprVisitor) (interface{}, error) {
	return v.VisitVariable(e)
}

// Lambda is a single-parameter function; multi-parameter surface syntax
// is expected to have already been desugared to nested Lambdas by the
// (out-of-scope) parser.
type Lambda struct {
	Param      string
	Annotation TypeExpr // nil if the parameter is unannotated
	Body       Expr
	Sp         position.Span
}

func (e *Lambda) Span() position.Span { return e.Sp }
func (e *Lambda) Accept(v ExprVisitor) (interface{}, error) {
	return v.VisitLambda(e)
}

// Application is a single-argument call; curried multi-argument calls are
// expected to arrive as nested Applications, left to right (§4.4).
type Application struct {
	Func Expr
	Arg  Expr
	Sp   position.Span
}

func (e *Application) Span() position.Span { return e.Sp }
func (e *Application) Accept(v ExprVisitor) (interface{}, error) {
	return v.VisitApplication(e)
}

// Let is `let x [: tau] = init [in body]`, optionally recursive. Body may
// be nil for a top-level declaration whose "body" is the rest of the
// compilation unit (handled by the caller, not this node — see
// internal/typecheck's Engine.CheckTopLevel).
type Let struct {
	Name       string
	TypeParams []string // names of alias-style type parameters, if any
	Annotation TypeExpr
	Init       Expr
	Body       Expr // nil at top level
	Recursive  bool
	Sp         position.Span
}

func (e *Let) Span() position.Span { return e.Sp }
func (e *Let) Accept(v ExprVisitor) (interface{}, error) {
	return v.VisitLet(e)
}

type If struct {
	Cond, Then, Else Expr
	Sp               position.Span
}

func (e *If) Span() position.Span { return e.Sp }
func (e *If) Accept(v ExprVisitor) (interface{}, error) {
	return v.VisitIf(e)
}

// BinaryOperator names the class of the operator the generator needs to
// pick the right constraint rule (§4.4: arithmetic / comparison /
// logical each have distinct typing rules).
type BinaryOperator string

const (
	OpAdd BinaryOperator = "+"
	OpSub BinaryOperator = "-"
	OpMul BinaryOperator = "*"
	OpDiv BinaryOperator = "/"

	OpEq  BinaryOperator = "=="
	OpNeq BinaryOperator = "!="
	OpLt  BinaryOperator = "<"
	OpLte BinaryOperator = "<="
	OpGt  BinaryOperator = ">"
	OpGte BinaryOperator = ">="

	OpAnd BinaryOperator = "&&"
	OpOr  BinaryOperator = "||"
)

type BinaryOp struct {
	Op          BinaryOperator
	Left, Right Expr
	Sp          position.Span
}

func (e *BinaryOp) Span() position.Span { return e.Sp }
func (e *BinaryOp) Accept(v ExprVisitor) (interface{}, error) {
	return v.VisitBinaryOp(e)
}

type UnaryOperator string

const (
	OpNeg UnaryOperator = "-"
	OpNot UnaryOperator = "!"
)

type UnaryOp struct {
	Op      UnaryOperator
	Operand Expr
	Sp      position.Span
}

func (e *UnaryOp) Span() position.Span { return e.Sp }
func (e *UnaryOp) Accept(v ExprVisitor) (interface{}, error) {
	return v.VisitUnaryOp(e)
}

type Tuple struct {
	Elems []Expr
	Sp    position.Span
}

func (e *Tuple) Span() position.Span { return e.Sp }
func (e *Tuple) Accept(v ExprVisitor) (interface{}, error) {
	return v.VisitTuple(e)
}

// RecordEntry is one entry of a record literal: either a named field
// (Name != "", Value set) or a spread (Name == "", Spread set), matching
// §6's "a flat list of entries, each either `name = expr` or `...expr`".
// Entries are stored in source order because the field-override rule
// (§4.4) is order-sensitive: a later field with the same name shadows an
// earlier one.
type RecordEntry struct {
	Name   string
	Value  Expr // set when this is a `name = expr` entry
	Spread Expr // set when this is a `...expr` entry
}

type Record struct {
	Entries []RecordEntry
	Sp      position.Span
}

func (e *Record) Span() position.Span { return e.Sp }
func (e *Record) Accept(v ExprVisitor) (interface{}, error) {
	return v.VisitRecord(e)
}

type FieldProjection struct {
	Target Expr
	Field  string
	Sp     position.Span
}

func (e *FieldProjection) Span() position.Span { return e.Sp }
func (e *FieldProjection) Accept(v ExprVisitor) (interface{}, error) {
	return v.VisitFieldProjection(e)
}

// MatchArm is one `pattern -> body` arm of a match expression.
type MatchArm struct {
	Pattern Pattern
	Body    Expr
}

type Match struct {
	Scrutinee Expr
	Arms      []MatchArm
	Sp        position.Span
}

func (e *Match) Span() position.Span { return e.Sp }
func (e *Match) Accept(v ExprVisitor) (interface{}, error) {
	return v.VisitMatch(e)
}

// TypeAliasDef introduces a named, possibly parameterized type alias
// (§4.7). It emits no constraint of its own (§4.4); the generator
// delegates straight to the alias registry.
type TypeAliasDef struct {
	Name   string
	Params []string
	Body   TypeExpr
	Sp     position.Span
}

func (e *TypeAliasDef) Span() position.Span { return e.Sp }
func (e *TypeAliasDef) Accept(v ExprVisitor) (interface{}, error) {
	return v.VisitTypeAliasDef(e)
}

// Annotation is the explicit type annotation expression `e : tau` (§4.4's
// last rule).
type Annotation struct {
	Expr Expr
	Type TypeExpr
	Sp   position.Span
}

func (e *Annotation) Span() position.Span { return e.Sp }
func (e *Annotation) Accept(v ExprVisitor) (interface{}, error) {
	return v.VisitAnnotation(e)
}
