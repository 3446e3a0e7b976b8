package constraint

import (
	"testing"

	"github.com/bendu-lang/bendu-typecheck/internal/position"
	"github.com/bendu-lang/bendu-typecheck/internal/types"
)

func newVars() *types.VarGen { return types.NewVarGen(0) }

func TestSolveEqualityUnifiesTwoVariablesToInt(t *testing.T) {
	vars := newVars()
	a := vars.Fresh(0)
	cs := NewSet()
	cs.AddEquality(a, types.Int, position.Zero)

	s, err := Solve(cs, nil, vars)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if s.Apply(a).Kind != types.KindInt {
		t.Errorf("expected a resolved to Int, got %s", s.Apply(a))
	}
}

func TestSolveSubtypingRecordWidthAcceptsExtraFields(t *testing.T) {
	sub := types.NewRecordClosed(map[string]*types.Type{"x": types.Int, "y": types.String})
	super := types.NewRecordClosed(map[string]*types.Type{"x": types.Int})

	cs := NewSet()
	cs.AddSubtyping(sub, super, position.Zero)

	if _, err := Solve(cs, nil, newVars()); err != nil {
		t.Fatalf("expected width subtyping to accept extra fields, got: %v", err)
	}
}

func TestSolveSubtypingRecordMissingFieldFails(t *testing.T) {
	sub := types.NewRecordClosed(map[string]*types.Type{"x": types.Int})
	super := types.NewRecordClosed(map[string]*types.Type{"x": types.Int, "y": types.String})

	cs := NewSet()
	cs.AddSubtyping(sub, super, position.Zero)

	if _, err := Solve(cs, nil, newVars()); err == nil {
		t.Fatalf("expected missing-field subtyping failure")
	}
}

func TestSolveSubtypingFunctionIsContravariantInParam(t *testing.T) {
	// (Int | String) -> Int <: Int -> Int holds: the parameter check is
	// contravariant, Int <: (Int | String), which the union-supertype rule
	// accepts. With the variance flipped the check would be
	// (Int | String) <: Int, which fails.
	wide := types.NewFunc(types.NewUnion(types.Int, types.String), types.Int)
	narrow := types.NewFunc(types.Int, types.Int)

	cs := NewSet()
	cs.AddSubtyping(wide, narrow, position.Zero)
	if _, err := Solve(cs, nil, newVars()); err != nil {
		t.Fatalf("expected wide-param function to be a subtype of narrow-param function, got: %v", err)
	}
}

func TestSolveSubtypingUnionRequiresEveryAlternative(t *testing.T) {
	// §9 Open Question 1: U <: T requires every alternative of U to be <: T.
	sub := types.NewUnion(types.Int, types.String)
	cs := NewSet()
	cs.AddSubtyping(sub, types.Int, position.Zero)

	if _, err := Solve(cs, nil, newVars()); err == nil {
		t.Fatalf("expected union subtyping to fail when one alternative isn't a subtype")
	}
}

func TestSolveInstancePrintableAcceptsAnyType(t *testing.T) {
	cs := NewSet()
	cs.AddInstance("Printable", types.NewRecordClosed(nil), position.Zero)

	if _, err := Solve(cs, nil, newVars()); err != nil {
		t.Fatalf("expected Printable to accept any type, got: %v", err)
	}
}

func TestSolveInstanceComparableRejectsNonPrimitive(t *testing.T) {
	cs := NewSet()
	cs.AddInstance("Comparable", types.NewRecordClosed(nil), position.Zero)

	if _, err := Solve(cs, nil, newVars()); err == nil {
		t.Fatalf("expected Comparable to reject a record type")
	}
}

func TestSolveInstanceUnknownClassFails(t *testing.T) {
	cs := NewSet()
	cs.AddInstance("Serializable", types.Int, position.Zero)

	if _, err := Solve(cs, nil, newVars()); err == nil {
		t.Fatalf("expected unknown type class to fail")
	}
}

func TestSolveOrdersEqualityBeforeSubtyping(t *testing.T) {
	vars := newVars()
	a := vars.Fresh(0)
	sup := types.NewRecordClosed(map[string]*types.Type{"x": types.Int})
	sub := types.NewRecordClosed(map[string]*types.Type{"x": types.Int, "y": types.String})

	cs := NewSet()
	// Added in reverse priority order; Solve must still apply the
	// Equality constraint (binding a to sub) before the Subtyping
	// constraint that depends on a's resolved value.
	cs.AddSubtyping(a, sup, position.Zero)
	cs.AddEquality(a, sub, position.Zero)

	if _, err := Solve(cs, nil, vars); err != nil {
		t.Fatalf("expected priority-ordered solve to succeed, got: %v", err)
	}
}
