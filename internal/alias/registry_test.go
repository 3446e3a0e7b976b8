package alias

import (
	"testing"

	"github.com/bendu-lang/bendu-typecheck/internal/position"
	"github.com/bendu-lang/bendu-typecheck/internal/types"
)

func TestExpandSubstitutesParams(t *testing.T) {
	r := NewRegistry()
	tParam := uint64(1)
	body := types.NewTuple(types.NewVar(tParam, 0), types.Int)

	if err := r.Define("Pair", []uint64{tParam}, body, position.Zero); err != nil {
		t.Fatalf("Define: %v", err)
	}

	got, err := r.Expand("Pair", []*types.Type{types.String}, position.Zero)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	want := types.NewTuple(types.String, types.Int)
	if !types.Equals(got, want) {
		t.Errorf("Expand() = %s, want %s", got, want)
	}
}

func TestExpandArityMismatch(t *testing.T) {
	r := NewRegistry()
	if err := r.Define("Box", []uint64{1}, types.NewVar(1, 0), position.Zero); err != nil {
		t.Fatalf("Define: %v", err)
	}

	if _, err := r.Expand("Box", nil, position.Zero); err == nil {
		t.Errorf("expected an arity-mismatch error for zero args against one parameter")
	}
}

func TestExpandUndefined(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Expand("Nope", nil, position.Zero); err == nil {
		t.Errorf("expected an error for an undefined alias")
	}
}

func TestDefineDirectCycleRejected(t *testing.T) {
	r := NewRegistry()
	if err := r.Define("A", nil, types.NewAlias("B"), position.Zero); err != nil {
		t.Fatalf("Define A: %v", err)
	}
	if err := r.Define("B", nil, types.NewAlias("A"), position.Zero); err == nil {
		t.Errorf("expected type A = B; type B = A to be rejected as a cycle")
	}
}

func TestDefineImmediateSelfCycleRejected(t *testing.T) {
	r := NewRegistry()
	if err := r.Define("A", nil, types.NewAlias("A"), position.Zero); err == nil {
		t.Errorf("expected type A = A to be rejected")
	}
}

func TestDefineRecursiveThroughRecordAccepted(t *testing.T) {
	r := NewRegistry()
	tParam := uint64(1)
	// List[T] = { head: T, tail: List[T] }
	body := types.NewRecordClosed(map[string]*types.Type{
		"head": types.NewVar(tParam, 0),
		"tail": types.NewAlias("List", types.NewVar(tParam, 0)),
	})

	if err := r.Define("List", []uint64{tParam}, body, position.Zero); err != nil {
		t.Errorf("expected List[T] = {head:T, tail:List[T]} to be accepted, got %v", err)
	}
}

func TestDefineRecursiveThroughUnionRejected(t *testing.T) {
	r := NewRegistry()
	body := types.NewUnion(types.NewAlias("Bad"), types.Int)
	if err := r.Define("Bad", nil, body, position.Zero); err == nil {
		t.Errorf("expected a self-reference under a union (not a lazy constructor) to be rejected")
	}
}

func TestDefineAlreadyDefinedRejected(t *testing.T) {
	r := NewRegistry()
	if err := r.Define("A", nil, types.Int, position.Zero); err != nil {
		t.Fatalf("Define: %v", err)
	}
	if err := r.Define("A", nil, types.String, position.Zero); err == nil {
		t.Errorf("expected redefining A to be rejected")
	}
}

func TestNormalizeExpandsNonRecursiveAlias(t *testing.T) {
	r := NewRegistry()
	if err := r.Define("IntPair", nil, types.NewTuple(types.Int, types.Int), position.Zero); err != nil {
		t.Fatalf("Define: %v", err)
	}

	got := r.Normalize(types.NewAlias("IntPair"), 10)
	want := types.NewTuple(types.Int, types.Int)
	if !types.Equals(got, want) {
		t.Errorf("Normalize() = %s, want %s", got, want)
	}
}
