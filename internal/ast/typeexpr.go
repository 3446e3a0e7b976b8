package ast

// TypeExpr is the surface syntax for a type annotation — what a parser
// hands the checker for `x : TypeExpr`, a lambda parameter annotation, or
// an alias body. It mirrors types.Type's shape but in syntactic form:
// names instead of resolved aliases, explicit variable names instead of
// minted ids. internal/constraint.Generator resolves a TypeExpr to a
// *types.Type against the current type environment and alias registry.
type TypeExpr interface {
	isTypeExpr()
}

// NamedType is a primitive (Int, Float, String, Bool, Char, Unit) or an
// alias reference, distinguished only by lookup against the environment
// and alias registry at resolution time — the surface grammar does not
// tell them apart syntactically.
type NamedType struct {
	Name string
	Args []TypeExpr // non-empty only for a parameterized alias reference
}

func (*NamedType) isTypeExpr() {}

// VarType is an explicit lowercase type variable in source, e.g. the `a`
// in `a -> a`.
type VarType struct {
	Name string
}

func (*VarType) isTypeExpr() {}

type FuncType struct {
	Param, Result TypeExpr
}

func (*FuncType) isTypeExpr() {}

type TupleType struct {
	Elems []TypeExpr
}

func (*TupleType) isTypeExpr() {}

// RecordFieldType is one `name: TypeExpr` entry of a record type literal.
type RecordFieldType struct {
	Name string
	Type TypeExpr
}

// RecordType is a record type literal. Row is the name of the row
// variable when the record type is written open (`{ x: Int | r }`), and
// empty when closed.
type RecordType struct {
	Fields []RecordFieldType
	Row    string
}

func (*RecordType) isTypeExpr() {}

// UnionType is a `|`-separated union type literal.
type UnionType struct {
	Alts []TypeExpr
}

func (*UnionType) isTypeExpr() {}

// IntersectionType is a `&`-separated intersection type literal.
type IntersectionType struct {
	Members []TypeExpr
}

func (*IntersectionType) isTypeExpr() {}

// LiteralType is a string-literal type, the atom of a discriminated
// union, e.g. the `"pending"` in `"pending" | "done"`.
type LiteralType struct {
	Value string
}

func (*LiteralType) isTypeExpr() {}
