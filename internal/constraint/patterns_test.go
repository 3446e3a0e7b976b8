package constraint

import (
	"testing"

	"github.com/bendu-lang/bendu-typecheck/internal/alias"
	"github.com/bendu-lang/bendu-typecheck/internal/ast"
	"github.com/bendu-lang/bendu-typecheck/internal/position"
	"github.com/bendu-lang/bendu-typecheck/internal/types"
)

func newTestGenerator() *Generator {
	return NewGenerator(types.NewVarGen(0), alias.NewRegistry(), false)
}

func TestTypePatternVariableBindsScrutineeType(t *testing.T) {
	g := newTestGenerator()
	g.env = NewEnvironment()

	env, err := g.typePattern(&ast.VariablePattern{Name: "x", Sp: position.Zero}, types.Int)
	if err != nil {
		t.Fatalf("typePattern: %v", err)
	}
	scheme, ok := env.Lookup("x")
	if !ok {
		t.Fatalf("expected x to be bound")
	}
	if scheme.Type.Kind != types.KindInt {
		t.Errorf("expected x : Int, got %s", scheme.Type)
	}
}

func TestTypePatternRecordBindsEachFieldAndLeavesScrutineeOpen(t *testing.T) {
	g := newTestGenerator()
	g.env = NewEnvironment()
	scrutinee := g.fresh()

	env, err := g.typePattern(&ast.RecordPattern{
		Fields: []ast.RecordPatternField{
			{Name: "x", Pattern: &ast.VariablePattern{Name: "a", Sp: position.Zero}},
		},
		Sp: position.Zero,
	}, scrutinee)
	if err != nil {
		t.Fatalf("typePattern: %v", err)
	}
	if _, ok := env.Lookup("a"); !ok {
		t.Fatalf("expected 'a' to be bound from the record pattern")
	}

	s, err := Solve(g.cs, nil, g.vars)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	resolved := s.Apply(scrutinee)
	if resolved.Kind != types.KindRecord {
		t.Fatalf("expected scrutinee to resolve to a record, got %s", resolved)
	}
	if resolved.Data.(types.RecordData).Row == nil {
		t.Errorf("expected the record pattern to leave the scrutinee open, got closed: %s", resolved)
	}
}

func TestTypePatternTupleTypesEachElementIndependently(t *testing.T) {
	g := newTestGenerator()
	g.env = NewEnvironment()
	scrutinee := g.fresh()

	one := int64(1)
	env, err := g.typePattern(&ast.TuplePattern{
		Elems: []ast.Pattern{
			&ast.LiteralPattern{Int: &one, Sp: position.Zero},
			&ast.VariablePattern{Name: "b", Sp: position.Zero},
		},
		Sp: position.Zero,
	}, scrutinee)
	if err != nil {
		t.Fatalf("typePattern: %v", err)
	}
	if _, ok := env.Lookup("b"); !ok {
		t.Fatalf("expected 'b' to be bound")
	}

	s, err := Solve(g.cs, nil, g.vars)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	resolved := s.Apply(scrutinee)
	if resolved.Kind != types.KindTuple {
		t.Fatalf("expected a tuple, got %s", resolved)
	}
	elems := resolved.Data.(types.TupleData).Elems
	if elems[0].Kind != types.KindInt {
		t.Errorf("expected first tuple element to resolve to Int, got %s", elems[0])
	}
}
