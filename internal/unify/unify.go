// Package unify implements the unification algorithm of §4.3: deciding
// equality of two types modulo a substitution, with an occurs check and
// symmetric row-variable extension for open records. It is grounded on
// the teacher's internal/types/inference.go Unify/unifyTypeVar/
// unifyStructTypes family, generalized from the teacher's "match struct
// fields by name, fail if one side is missing a field" rule into the full
// three-way common/left-only/right-only row partition §4.3 specifies.
package unify

import (
	"fmt"

	"github.com/bendu-lang/bendu-typecheck/internal/errors"
	"github.com/bendu-lang/bendu-typecheck/internal/position"
	"github.com/bendu-lang/bendu-typecheck/internal/types"
)

// AliasExpander is the one capability unify needs from an alias registry.
// It is declared here, not imported from package alias, so that alias and
// unify each depend only on package types and neither depends on the
// other; *alias.Registry satisfies this interface structurally.
type AliasExpander interface {
	Expand(name string, args []*types.Type, span position.Span) (*types.Type, error)
}

// VarMinter is the one capability unify needs to mint fresh row
// variables while splitting an open row's unspecified tail.
type VarMinter interface {
	FreshRow(level int) *types.Type
}

// Unify decides whether t1 and t2 can be made equal under s, per the
// eleven cases of §4.3, evaluated in order. On success it returns an
// extended substitution s' such that s'.Apply(t1) ≡ s'.Apply(t2).
func Unify(t1, t2 *types.Type, s *types.Substitution, aliases AliasExpander, vars VarMinter, span position.Span) (*types.Substitution, error) {
	// Case 1: rewrite both sides by s first.
	t1 = s.Apply(t1)
	t2 = s.Apply(t2)

	// Case 2: structurally equivalent, fast pre-filter (§4.1).
	if types.Equals(t1, t2) {
		return s, nil
	}

	// Case 3: variable vs anything.
	if v1, ok := t1.IsVar(); ok {
		return bindVar(v1.ID, t1, t2, s, span)
	}
	if v2, ok := t2.IsVar(); ok {
		return bindVar(v2.ID, t2, t1, s, span)
	}

	// Case 10: alias vs anything — force expansion and retry. Checked
	// before the primitive/shape cases since an alias's Kind never
	// matches a concrete Kind.
	if t1.Kind == types.KindAlias {
		expanded, err := expandAlias(t1, aliases, span)
		if err != nil {
			return nil, err
		}
		return Unify(expanded, t2, s, aliases, vars, span)
	}
	if t2.Kind == types.KindAlias {
		expanded, err := expandAlias(t2, aliases, span)
		if err != nil {
			return nil, err
		}
		return Unify(t1, expanded, s, aliases, vars, span)
	}

	if t1.Kind != t2.Kind {
		return nil, errors.TypeMismatch(t1.String(), t2.String(), span)
	}

	switch t1.Kind {
	case types.KindLiteral:
		// Case 5.
		l1, l2 := t1.Data.(types.LiteralData), t2.Data.(types.LiteralData)
		if l1.Value == l2.Value {
			return s, nil
		}
		return nil, errors.TypeMismatch(t1.String(), t2.String(), span)

	case types.KindFunc:
		// Case 6: unify domains, then codomains under that substitution.
		f1, f2 := t1.Data.(types.FuncData), t2.Data.(types.FuncData)
		s1, err := Unify(f1.Param, f2.Param, s, aliases, vars, span)
		if err != nil {
			return nil, err
		}
		return Unify(f1.Result, f2.Result, s1, aliases, vars, span)

	case types.KindTuple:
		// Case 7.
		tup1, tup2 := t1.Data.(types.TupleData), t2.Data.(types.TupleData)
		if len(tup1.Elems) != len(tup2.Elems) {
			return nil, errors.TypeMismatch(t1.String(), t2.String(), span)
		}
		cur := s
		for i := range tup1.Elems {
			next, err := Unify(tup1.Elems[i], tup2.Elems[i], cur, aliases, vars, span)
			if err != nil {
				return nil, err
			}
			cur = next
		}
		return cur, nil

	case types.KindRecord:
		// Case 8.
		return unifyRecords(t1, t2, s, aliases, vars, span)

	case types.KindUnion:
		// Case 9.
		return unifyUnions(t1, t2, s, aliases, vars, span)

	default:
		return nil, errors.TypeMismatch(t1.String(), t2.String(), span)
	}
}

func expandAlias(t *types.Type, aliases AliasExpander, span position.Span) (*types.Type, error) {
	d := t.Data.(types.AliasData)
	if aliases == nil {
		return nil, fmt.Errorf("cannot expand alias %q: no alias registry available", d.Name)
	}
	return aliases.Expand(d.Name, d.Args, span)
}

// bindVar implements case 3: extend s with id -> other unless id occurs
// free in other, in which case fail with an occurs-check error. The
// occurs check treats a row variable occurring anywhere inside a type —
// as a row tail or as a substituted image — as occurring, which falls
// out of FreeVars walking RecordData.Row like any other subterm.
func bindVar(id uint64, varType, other *types.Type, s *types.Substitution, span position.Span) (*types.Substitution, error) {
	if occurs(id, other) {
		return nil, errors.OccursCheck(varType.String(), other.String(), span)
	}
	return s.Extend(id, other), nil
}

func occurs(id uint64, t *types.Type) bool {
	_, found := types.FreeVars(t)[id]
	return found
}

// unifyUnions implements case 9: attempt a matching that pairs every
// alternative on each side with a compatible alternative on the other.
// Discriminated unions (all alternatives are literal types) compare as
// sets, so this reduces to set equality for the common case the spec
// singles out; non-literal alternatives are paired by finding, for each
// left alternative, some unused right alternative it unifies with.
func unifyUnions(t1, t2 *types.Type, s *types.Substitution, aliases AliasExpander, vars VarMinter, span position.Span) (*types.Substitution, error) {
	u1, u2 := t1.Data.(types.UnionData), t2.Data.(types.UnionData)
	if len(u1.Alts) != len(u2.Alts) {
		return nil, errors.TypeMismatch(t1.String(), t2.String(), span)
	}

	used := make([]bool, len(u2.Alts))
	cur := s
	for _, a := range u1.Alts {
		matched := false
		for j, b := range u2.Alts {
			if used[j] {
				continue
			}
			if next, err := Unify(a, b, cur, aliases, vars, span); err == nil {
				cur = next
				used[j] = true
				matched = true
				break
			}
		}
		if !matched {
			return nil, errors.TypeMismatch(t1.String(), t2.String(), span)
		}
	}
	return cur, nil
}

// unifyRecords implements case 8 and the row-unification rules of §4.3.
func unifyRecords(t1, t2 *types.Type, s *types.Substitution, aliases AliasExpander, vars VarMinter, span position.Span) (*types.Substitution, error) {
	r1, r2 := t1.Data.(types.RecordData), t2.Data.(types.RecordData)

	common, leftOnly, rightOnly := partitionFields(r1.Fields, r2.Fields)

	cur := s
	for _, name := range common {
		next, err := Unify(r1.Fields[name], r2.Fields[name], cur, aliases, vars, span)
		if err != nil {
			return nil, fieldConflictError(name, r1.Fields[name], r2.Fields[name], cur, span)
		}
		cur = next
	}

	leftOpen, rightOpen := r1.Row != nil, r2.Row != nil

	switch {
	case !leftOpen && !rightOpen:
		if len(leftOnly) > 0 || len(rightOnly) > 0 {
			return nil, errors.TypeMismatch(t1.String(), t2.String(), span)
		}
		return cur, nil

	case !leftOpen && rightOpen:
		// Left closed, right open: right-only fields fail against a
		// closed left (left can't grow to cover them); the right row
		// variable is unified with a closed record of the left-only
		// fields, closing the row on the right to match the left.
		if len(rightOnly) > 0 {
			return nil, fieldMissingError(rightOnly[0], t1.String(), span)
		}
		leftOnlyFields := selectFields(r1.Fields, leftOnly)
		return Unify(r2.Row, types.NewRecordClosed(leftOnlyFields), cur, aliases, vars, span)

	case leftOpen && !rightOpen:
		if len(leftOnly) > 0 {
			return nil, fieldMissingError(leftOnly[0], t2.String(), span)
		}
		rightOnlyFields := selectFields(r2.Fields, rightOnly)
		return Unify(r1.Row, types.NewRecordClosed(rightOnlyFields), cur, aliases, vars, span)

	default:
		// Both open: mint a fresh row variable and unify each side's
		// row with the other side's exclusive fields plus that fresh
		// tail, symmetrically, so both rows agree on a common tail
		// (§4.3's row-unification paragraph, last bullet).
		if vars == nil {
			return nil, fmt.Errorf("cannot unify two open records: no variable generator available")
		}
		level := 0
		if v, ok := r1.Row.IsVar(); ok {
			level = v.Level
		}
		fresh := vars.FreshRow(level)

		leftOnlyFields := selectFields(r1.Fields, leftOnly)
		rightOnlyFields := selectFields(r2.Fields, rightOnly)

		next, err := Unify(r1.Row, types.NewRecordOpen(rightOnlyFields, fresh), cur, aliases, vars, span)
		if err != nil {
			return nil, err
		}
		return Unify(r2.Row, types.NewRecordOpen(leftOnlyFields, fresh), next, aliases, vars, span)
	}
}

func fieldMissingError(field, recordType string, span position.Span) error {
	return errors.FieldMissing(field, recordType, span)
}

func fieldConflictError(field string, left, right *types.Type, s *types.Substitution, span position.Span) error {
	return errors.FieldConflict(field, s.Apply(left).String(), s.Apply(right).String(), span)
}

func partitionFields(a, b map[string]*types.Type) (common, leftOnly, rightOnly []string) {
	for name := range a {
		if _, ok := b[name]; ok {
			common = append(common, name)
		} else {
			leftOnly = append(leftOnly, name)
		}
	}
	for name := range b {
		if _, ok := a[name]; !ok {
			rightOnly = append(rightOnly, name)
		}
	}
	return
}

func selectFields(from map[string]*types.Type, names []string) map[string]*types.Type {
	out := make(map[string]*types.Type, len(names))
	for _, n := range names {
		out[n] = from[n]
	}
	return out
}
