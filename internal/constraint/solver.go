package constraint

import (
	"sort"

	"github.com/bendu-lang/bendu-typecheck/internal/errors"
	"github.com/bendu-lang/bendu-typecheck/internal/position"
	"github.com/bendu-lang/bendu-typecheck/internal/types"
	"github.com/bendu-lang/bendu-typecheck/internal/unify"
)

// instanceTable is the fixed, closed set of type classes an Instance
// constraint may name (§4.6: "a placeholder for future extension").
// Printable accepts any type; Comparable accepts only primitives.
var instanceTable = map[string]func(*types.Type) bool{
	"Printable":  func(t *types.Type) bool { return true },
	"Comparable": isPrimitive,
}

func isPrimitive(t *types.Type) bool {
	switch t.Kind {
	case types.KindInt, types.KindFloat, types.KindString, types.KindBool, types.KindChar, types.KindUnit:
		return true
	}
	return false
}

// Solve implements §4.6: sort the set by priority (Equality < Subtyping <
// Instance), then make a single deterministic pass applying each
// constraint's rule against the growing substitution. Unlike the
// teacher's constraint_solver.go, which retries unresolved constraints in
// a fixed-point loop, this pass is single-shot: the priority sort already
// ensures every Equality constraint — the only kind that can bind a
// variable another constraint depends on — has run before any Subtyping
// or Instance constraint is checked.
func Solve(cs *Set, aliases unify.AliasExpander, vars unify.VarMinter) (*types.Substitution, error) {
	items := cs.Items()
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Kind < items[j].Kind
	})

	s := types.Empty()
	for _, c := range items {
		var err error
		switch c.Kind {
		case Equality:
			s, err = unify.Unify(c.Left, c.Right, s, aliases, vars, c.Span)
		case Subtyping:
			s, err = solveSubtyping(c.Left, c.Right, s, aliases, vars, c.Span)
		case Instance:
			err = solveInstance(c.ClassName, s.Apply(c.Left), c.Span)
		}
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

// solveSubtyping implements §4.6's Subtyping bucket: trivial equivalence
// short-circuits; records use width subtyping (the supertype's fields
// must be a subset of the subtype's, pointwise unifiable); functions
// recurse contravariantly on the domain and covariantly on the codomain;
// a union subtype requires every alternative to be a subtype of the
// supertype (§9 Open Question 1); anything involving a bare variable
// falls back to equality; other shapes fail.
func solveSubtyping(sub, super *types.Type, s *types.Substitution, aliases unify.AliasExpander, vars unify.VarMinter, span position.Span) (*types.Substitution, error) {
	sub = s.Apply(sub)
	super = s.Apply(super)

	if types.Equals(sub, super) {
		return s, nil
	}

	if _, ok := sub.IsVar(); ok {
		return unify.Unify(sub, super, s, aliases, vars, span)
	}
	if _, ok := super.IsVar(); ok {
		return unify.Unify(sub, super, s, aliases, vars, span)
	}

	if sub.Kind == types.KindUnion {
		cur := s
		for _, alt := range sub.Data.(types.UnionData).Alts {
			next, err := solveSubtyping(alt, super, cur, aliases, vars, span)
			if err != nil {
				return nil, err
			}
			cur = next
		}
		return cur, nil
	}

	// A union supertype is satisfied if the subtype matches any one of
	// its alternatives — the dual of the union-as-subtype rule above,
	// needed e.g. for contravariant function-parameter comparisons where
	// a union shows up on the supertype side.
	if super.Kind == types.KindUnion {
		for _, alt := range super.Data.(types.UnionData).Alts {
			if next, err := solveSubtyping(sub, alt, s, aliases, vars, span); err == nil {
				return next, nil
			}
		}
		return nil, errors.TypeMismatch(sub.String(), super.String(), span)
	}

	if sub.Kind == types.KindRecord && super.Kind == types.KindRecord {
		return solveRecordSubtyping(sub, super, s, aliases, vars, span)
	}

	if sub.Kind == types.KindFunc && super.Kind == types.KindFunc {
		subFn, superFn := sub.Data.(types.FuncData), super.Data.(types.FuncData)
		// Contravariant on the domain: the supertype's parameter must be
		// a subtype of the subtype's parameter.
		s1, err := solveSubtyping(superFn.Param, subFn.Param, s, aliases, vars, span)
		if err != nil {
			return nil, err
		}
		// Covariant on the codomain.
		return solveSubtyping(subFn.Result, superFn.Result, s1, aliases, vars, span)
	}

	return nil, errors.TypeMismatch(sub.String(), super.String(), span)
}

// solveRecordSubtyping implements width subtyping: every field super
// demands must be present in sub with a unifiable type; sub may carry
// additional fields beyond what super names. An open super accepts sub's
// extra fields into its row; a closed super with extra sub fields still
// satisfies width subtyping (the subtype is merely wider, which is
// exactly what "subtype" means here).
func solveRecordSubtyping(sub, super *types.Type, s *types.Substitution, aliases unify.AliasExpander, vars unify.VarMinter, span position.Span) (*types.Substitution, error) {
	subData, superData := sub.Data.(types.RecordData), super.Data.(types.RecordData)

	cur := s
	for name, superField := range superData.Fields {
		subField, ok := subData.Fields[name]
		if !ok {
			return nil, errors.FieldMissing(name, sub.String(), span)
		}
		next, err := unify.Unify(subField, superField, cur, aliases, vars, span)
		if err != nil {
			return nil, err
		}
		cur = next
	}

	if superData.Row != nil {
		extra := make(map[string]*types.Type)
		for name, t := range subData.Fields {
			if _, named := superData.Fields[name]; !named {
				extra[name] = t
			}
		}
		if subData.Row != nil {
			return unify.Unify(superData.Row, types.NewRecordOpen(extra, subData.Row), cur, aliases, vars, span)
		}
		return unify.Unify(superData.Row, types.NewRecordClosed(extra), cur, aliases, vars, span)
	}
	return cur, nil
}

func solveInstance(class string, t *types.Type, span position.Span) error {
	accept, ok := instanceTable[class]
	if !ok {
		return errors.UnknownTypeClass(class, span)
	}
	if !accept(t) {
		return errors.TypeMismatch(class, t.String(), span)
	}
	return nil
}
