// Package types is the algebra of mini-bendu types: construction, free
// variable extraction, and structural equivalence. It is the leaf
// component of the inference pipeline — substitution, unification, the
// constraint generator and solver, and the alias registry all build on the
// Type value defined here.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Kind tags which variant of the tagged sum a Type value holds.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindString
	KindBool
	KindChar
	KindUnit
	KindLiteral
	KindVar
	KindFunc
	KindTuple
	KindRecord
	KindUnion
	KindIntersection
	KindAlias
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindBool:
		return "Bool"
	case KindChar:
		return "Char"
	case KindUnit:
		return "Unit"
	case KindLiteral:
		return "Literal"
	case KindVar:
		return "Var"
	case KindFunc:
		return "Func"
	case KindTuple:
		return "Tuple"
	case KindRecord:
		return "Record"
	case KindUnion:
		return "Union"
	case KindIntersection:
		return "Intersection"
	case KindAlias:
		return "Alias"
	default:
		return "Unknown"
	}
}

// Type is the tagged sum described in §3 of the spec: a Kind tag plus a
// Data payload whose concrete shape depends on the Kind. Primitives carry
// no payload; every other variant's payload is one of the *Data structs
// below.
type Type struct {
	Kind Kind
	Data interface{}
}

// LiteralData is the payload of a Literal type — the atom of a
// discriminated union, e.g. the type of the string "pending".
type LiteralData struct {
	Value string
}

// VarData is the payload of a type variable. ID is globally unique and
// monotone within a run (invariant 6); Level is the level passed to the
// VarGen that minted it. Generalization does not read it: it uses the
// fv(τ) − fv(Γ) test (internal/constraint.Generalize).
type VarData struct {
	ID    uint64
	Level int
	// Name, when non-empty, is a user-chosen hint (e.g. for a row
	// variable) used only for pretty-printing; it plays no role in
	// equality, which is always by ID.
	Name string
}

// FuncData is the payload of a function type. Functions are always unary;
// multi-argument lambdas are curried by the generator (§4.4).
type FuncData struct {
	Param  *Type
	Result *Type
}

// TupleData is the payload of a tuple type; arity is part of identity.
type TupleData struct {
	Elems []*Type
}

// RecordData is the payload of a record type. Row is nil for a closed
// record (no additional fields permitted) and a KindVar type for an open
// record (the row variable standing for the unspecified tail, invariant
// 4: it never appears as a field value of its own record).
type RecordData struct {
	Fields map[string]*Type
	Row    *Type
}

// UnionData is the payload of a union type: an unordered set of
// alternatives, flattened (no union-of-union) and never of size < 2
// (invariant 3 — NewUnion collapses a singleton to its lone member before
// a Type with KindUnion is ever constructed).
type UnionData struct {
	Alts []*Type
}

// IntersectionData is the payload of an intersection type: an unordered
// set of constraint types.
type IntersectionData struct {
	Members []*Type
}

// AliasData is the payload of a lazy alias reference: a name plus the
// ordered list of type arguments it was applied to. Resolving it to a
// concrete type is the Alias Registry's job (internal/alias); the types
// package never expands an alias on its own.
type AliasData struct {
	Name string
	Args []*Type
}

// Primitive singletons. Primitives carry no payload, so equality reduces
// to comparing Kind, and these are safe to share.
var (
	Int    = &Type{Kind: KindInt}
	Float  = &Type{Kind: KindFloat}
	String = &Type{Kind: KindString}
	Bool   = &Type{Kind: KindBool}
	Char   = &Type{Kind: KindChar}
	Unit   = &Type{Kind: KindUnit}
)

func NewLiteral(value string) *Type {
	return &Type{Kind: KindLiteral, Data: LiteralData{Value: value}}
}

func NewVar(id uint64, level int) *Type {
	return &Type{Kind: KindVar, Data: VarData{ID: id, Level: level}}
}

// NewNamedVar mints a variable carrying a pretty-printing hint, used for
// row variables (ρ) so error messages read `{ x: Int | ρ }` rather than
// `{ x: Int | t17 }`.
func NewNamedVar(id uint64, level int, name string) *Type {
	return &Type{Kind: KindVar, Data: VarData{ID: id, Level: level, Name: name}}
}

func NewFunc(param, result *Type) *Type {
	return &Type{Kind: KindFunc, Data: FuncData{Param: param, Result: result}}
}

// NewCurriedFunc builds a curried n-ary function type from a slice of
// parameter types and a final result type, left to right, matching the
// generator's left-to-right currying of multi-argument calls (§4.4).
func NewCurriedFunc(params []*Type, result *Type) *Type {
	t := result
	for i := len(params) - 1; i >= 0; i-- {
		t = NewFunc(params[i], t)
	}
	return t
}

func NewTuple(elems ...*Type) *Type {
	cp := make([]*Type, len(elems))
	copy(cp, elems)
	return &Type{Kind: KindTuple, Data: TupleData{Elems: cp}}
}

// NewRecordClosed builds a closed record: no additional fields permitted.
func NewRecordClosed(fields map[string]*Type) *Type {
	return &Type{Kind: KindRecord, Data: RecordData{Fields: copyFields(fields), Row: nil}}
}

// NewRecordOpen builds an open record whose tail is the given row
// variable. row must be a KindVar type.
func NewRecordOpen(fields map[string]*Type, row *Type) *Type {
	return &Type{Kind: KindRecord, Data: RecordData{Fields: copyFields(fields), Row: row}}
}

func copyFields(fields map[string]*Type) map[string]*Type {
	cp := make(map[string]*Type, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return cp
}

// NewUnion builds a union type, flattening nested unions and deduplicating
// alternatives by structural equality (invariant 3: semantic identity is
// the set, not construction order). A single remaining alternative
// collapses to that alternative rather than a singleton union.
func NewUnion(alts ...*Type) *Type {
	flat := make([]*Type, 0, len(alts))
	for _, a := range alts {
		if a.Kind == KindUnion {
			flat = append(flat, a.Data.(UnionData).Alts...)
		} else {
			flat = append(flat, a)
		}
	}

	dedup := make([]*Type, 0, len(flat))
	for _, a := range flat {
		found := false
		for _, d := range dedup {
			if Equals(a, d) {
				found = true
				break
			}
		}
		if !found {
			dedup = append(dedup, a)
		}
	}

	if len(dedup) == 1 {
		return dedup[0]
	}
	return &Type{Kind: KindUnion, Data: UnionData{Alts: dedup}}
}

func NewIntersection(members ...*Type) *Type {
	cp := make([]*Type, len(members))
	copy(cp, members)
	return &Type{Kind: KindIntersection, Data: IntersectionData{Members: cp}}
}

func NewAlias(name string, args ...*Type) *Type {
	cp := make([]*Type, len(args))
	copy(cp, args)
	return &Type{Kind: KindAlias, Data: AliasData{Name: name, Args: cp}}
}

// IsVar reports whether t is a type variable, and returns its VarData.
func (t *Type) IsVar() (VarData, bool) {
	if t.Kind == KindVar {
		return t.Data.(VarData), true
	}
	return VarData{}, false
}

// FreeVars returns the set of variable ids reachable from t by any path,
// used by generalization (§4.4) and the occurs check (§4.3).
func FreeVars(t *Type) map[uint64]struct{} {
	fv := make(map[uint64]struct{})
	collectFreeVars(t, fv)
	return fv
}

func collectFreeVars(t *Type, fv map[uint64]struct{}) {
	if t == nil {
		return
	}
	switch t.Kind {
	case KindVar:
		fv[t.Data.(VarData).ID] = struct{}{}
	case KindFunc:
		d := t.Data.(FuncData)
		collectFreeVars(d.Param, fv)
		collectFreeVars(d.Result, fv)
	case KindTuple:
		for _, e := range t.Data.(TupleData).Elems {
			collectFreeVars(e, fv)
		}
	case KindRecord:
		d := t.Data.(RecordData)
		for _, f := range d.Fields {
			collectFreeVars(f, fv)
		}
		if d.Row != nil {
			collectFreeVars(d.Row, fv)
		}
	case KindUnion:
		for _, a := range t.Data.(UnionData).Alts {
			collectFreeVars(a, fv)
		}
	case KindIntersection:
		for _, m := range t.Data.(IntersectionData).Members {
			collectFreeVars(m, fv)
		}
	case KindAlias:
		for _, a := range t.Data.(AliasData).Args {
			collectFreeVars(a, fv)
		}
	}
}

// Equals tests structural equivalence: variant-by-variant, element-wise;
// unions as sets; records as field maps plus row-variable identity;
// aliases by name and argument list; variables by id (§4.1).
func Equals(a, b *Type) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Kind != b.Kind {
		return false
	}

	switch a.Kind {
	case KindInt, KindFloat, KindString, KindBool, KindChar, KindUnit:
		return true
	case KindLiteral:
		return a.Data.(LiteralData).Value == b.Data.(LiteralData).Value
	case KindVar:
		return a.Data.(VarData).ID == b.Data.(VarData).ID
	case KindFunc:
		af, bf := a.Data.(FuncData), b.Data.(FuncData)
		return Equals(af.Param, bf.Param) && Equals(af.Result, bf.Result)
	case KindTuple:
		at, bt := a.Data.(TupleData), b.Data.(TupleData)
		if len(at.Elems) != len(bt.Elems) {
			return false
		}
		for i := range at.Elems {
			if !Equals(at.Elems[i], bt.Elems[i]) {
				return false
			}
		}
		return true
	case KindRecord:
		ar, br := a.Data.(RecordData), b.Data.(RecordData)
		if len(ar.Fields) != len(br.Fields) {
			return false
		}
		for name, ft := range ar.Fields {
			bft, ok := br.Fields[name]
			if !ok || !Equals(ft, bft) {
				return false
			}
		}
		if (ar.Row == nil) != (br.Row == nil) {
			return false
		}
		if ar.Row != nil && !Equals(ar.Row, br.Row) {
			return false
		}
		return true
	case KindUnion:
		au, bu := a.Data.(UnionData), b.Data.(UnionData)
		return sameSet(au.Alts, bu.Alts)
	case KindIntersection:
		ai, bi := a.Data.(IntersectionData), b.Data.(IntersectionData)
		return sameSet(ai.Members, bi.Members)
	case KindAlias:
		aa, ba := a.Data.(AliasData), b.Data.(AliasData)
		if aa.Name != ba.Name || len(aa.Args) != len(ba.Args) {
			return false
		}
		for i := range aa.Args {
			if !Equals(aa.Args[i], ba.Args[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func sameSet(xs, ys []*Type) bool {
	if len(xs) != len(ys) {
		return false
	}
	used := make([]bool, len(ys))
	for _, x := range xs {
		matched := false
		for j, y := range ys {
			if !used[j] && Equals(x, y) {
				used[j] = true
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// String renders t using the source language's notation, e.g.
// `Int -> String`, `{ x: Int | rho }`, `"pending" | "done"`. This is the
// notation error messages use (§7: "every error message names the two
// conflicting types, rendered with the source language's notation").
func (t *Type) String() string {
	var b strings.Builder
	writeType(&b, t, false)
	return b.String()
}

func writeType(b *strings.Builder, t *Type, paren bool) {
	if t == nil {
		b.WriteString("<nil>")
		return
	}
	switch t.Kind {
	case KindInt, KindFloat, KindString, KindBool, KindChar, KindUnit:
		b.WriteString(t.Kind.String())
	case KindLiteral:
		fmt.Fprintf(b, "%q", t.Data.(LiteralData).Value)
	case KindVar:
		v := t.Data.(VarData)
		if v.Name != "" {
			b.WriteString(v.Name)
		} else {
			fmt.Fprintf(b, "t%d", v.ID)
		}
	case KindFunc:
		d := t.Data.(FuncData)
		open := paren
		if open {
			b.WriteString("(")
		}
		writeType(b, d.Param, d.Param.Kind == KindFunc)
		b.WriteString(" -> ")
		writeType(b, d.Result, false)
		if open {
			b.WriteString(")")
		}
	case KindTuple:
		elems := t.Data.(TupleData).Elems
		b.WriteString("(")
		for i, e := range elems {
			if i > 0 {
				b.WriteString(", ")
			}
			writeType(b, e, false)
		}
		b.WriteString(")")
	case KindRecord:
		d := t.Data.(RecordData)
		names := make([]string, 0, len(d.Fields))
		for n := range d.Fields {
			names = append(names, n)
		}
		sort.Strings(names)
		b.WriteString("{ ")
		for i, n := range names {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "%s: ", n)
			writeType(b, d.Fields[n], false)
		}
		if d.Row != nil {
			if len(names) > 0 {
				b.WriteString(" | ")
			} else {
				b.WriteString("| ")
			}
			writeType(b, d.Row, false)
		}
		b.WriteString(" }")
	case KindUnion:
		alts := t.Data.(UnionData).Alts
		for i, a := range alts {
			if i > 0 {
				b.WriteString(" | ")
			}
			writeType(b, a, true)
		}
	case KindIntersection:
		members := t.Data.(IntersectionData).Members
		for i, m := range members {
			if i > 0 {
				b.WriteString(" & ")
			}
			writeType(b, m, true)
		}
	case KindAlias:
		d := t.Data.(AliasData)
		b.WriteString(d.Name)
		if len(d.Args) > 0 {
			b.WriteString("[")
			for i, a := range d.Args {
				if i > 0 {
					b.WriteString(", ")
				}
				writeType(b, a, false)
			}
			b.WriteString("]")
		}
	default:
		b.WriteString("?")
	}
}
