package constraint

import (
	"testing"

	"github.com/bendu-lang/bendu-typecheck/internal/ast"
	"github.com/bendu-lang/bendu-typecheck/internal/position"
	"github.com/bendu-lang/bendu-typecheck/internal/types"
)

func infer(t *testing.T, g *Generator, expr ast.Expr) *types.Type {
	t.Helper()
	inferred, err := g.Infer(NewEnvironment(), expr)
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	s, err := Solve(g.cs, g.aliases, g.vars)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	return s.Apply(inferred)
}

func TestGeneratorRecordLiteralWithSpreadOverridesCompatibleField(t *testing.T) {
	g := newTestGenerator()
	base := &ast.Let{
		Name: "base",
		Init: &ast.Record{Entries: []ast.RecordEntry{
			{Name: "x", Value: &ast.IntLiteral{Value: 1, Sp: position.Zero}},
			{Name: "y", Value: &ast.StringLiteral{Value: "hi", Sp: position.Zero}},
		}, Sp: position.Zero},
		Body: &ast.Record{Entries: []ast.RecordEntry{
			{Spread: &ast.Variable{Name: "base", Sp: position.Zero}},
			{Name: "x", Value: &ast.IntLiteral{Value: 2, Sp: position.Zero}},
		}, Sp: position.Zero},
		Sp: position.Zero,
	}

	result := infer(t, g, base)
	if result.Kind != types.KindRecord {
		t.Fatalf("expected a record, got %s", result)
	}
	fields := result.Data.(types.RecordData).Fields
	if fields["x"].Kind != types.KindInt {
		t.Errorf("expected field x : Int, got %s", fields["x"])
	}
}

func TestGeneratorRecordLiteralSpreadIncompatibleOverrideFails(t *testing.T) {
	g := newTestGenerator()
	base := &ast.Let{
		Name: "base",
		Init: &ast.Record{Entries: []ast.RecordEntry{
			{Name: "x", Value: &ast.IntLiteral{Value: 1, Sp: position.Zero}},
		}, Sp: position.Zero},
		Body: &ast.Record{Entries: []ast.RecordEntry{
			{Spread: &ast.Variable{Name: "base", Sp: position.Zero}},
			{Name: "x", Value: &ast.StringLiteral{Value: "nope", Sp: position.Zero}},
		}, Sp: position.Zero},
		Sp: position.Zero,
	}

	inferred, err := g.Infer(NewEnvironment(), base)
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	if _, err := Solve(g.cs, g.aliases, g.vars); err == nil {
		t.Fatalf("expected an incompatible field override to fail, inferred %s", inferred)
	}
}

func TestGeneratorAliasDefinitionThenReferenceExpandsTransparently(t *testing.T) {
	g := newTestGenerator()

	aliasDef := &ast.TypeAliasDef{
		Name: "Point",
		Body: &ast.RecordType{Fields: []ast.RecordFieldType{
			{Name: "x", Type: &ast.NamedType{Name: "Int"}},
			{Name: "y", Type: &ast.NamedType{Name: "Int"}},
		}},
		Sp: position.Zero,
	}
	if _, err := g.Infer(NewEnvironment(), aliasDef); err != nil {
		t.Fatalf("defining alias: %v", err)
	}

	expanded, err := g.aliases.Expand("Point", nil, position.Zero)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if expanded.Kind != types.KindRecord {
		t.Fatalf("expected Point to expand to a record, got %s", expanded)
	}
}

func TestGeneratorAliasCycleRejectedAtSecondDefinition(t *testing.T) {
	// type A = B; type B = A (§8 scenario 8).
	g := newTestGenerator()

	defA := &ast.TypeAliasDef{Name: "A", Body: &ast.NamedType{Name: "B"}, Sp: position.Zero}
	defB := &ast.TypeAliasDef{Name: "B", Body: &ast.NamedType{Name: "A"}, Sp: position.Zero}

	if _, err := g.Infer(NewEnvironment(), defA); err != nil {
		t.Fatalf("defining A: %v", err)
	}
	if _, err := g.Infer(NewEnvironment(), defB); err == nil {
		t.Fatalf("expected an alias-cycle error defining B")
	}
}

func TestGeneratorRecursiveListAliasAccepted(t *testing.T) {
	// type List[T] = { head: T, tail: List[T] } (§8 scenario 9).
	g := newTestGenerator()
	listDef := &ast.TypeAliasDef{
		Name:   "List",
		Params: []string{"T"},
		Body: &ast.RecordType{Fields: []ast.RecordFieldType{
			{Name: "head", Type: &ast.VarType{Name: "T"}},
			{Name: "tail", Type: &ast.NamedType{Name: "List", Args: []ast.TypeExpr{&ast.VarType{Name: "T"}}}},
		}},
		Sp: position.Zero,
	}
	if _, err := g.Infer(NewEnvironment(), listDef); err != nil {
		t.Fatalf("expected recursive record alias to be accepted, got: %v", err)
	}
}

func TestGeneratorLambdaVarTypeAnnotationAcceptsIdentity(t *testing.T) {
	// `\x : a -> x` annotated `a -> a` (§4.4's annotation rule): the bare
	// lowercase `a` is an implicitly-quantified type variable, not an
	// undefined name, and must resolve the same way on both sides.
	g := newTestGenerator()
	expr := &ast.Lambda{
		Param: "x",
		Annotation: &ast.FuncType{
			Param:  &ast.VarType{Name: "a"},
			Result: &ast.VarType{Name: "a"},
		},
		Body: &ast.Variable{Name: "x", Sp: position.Zero},
		Sp:   position.Zero,
	}

	result := infer(t, g, expr)
	if result.Kind != types.KindFunc {
		t.Fatalf("expected a function type, got %s", result)
	}
	fn := result.Data.(types.FuncData)
	if !types.Equals(fn.Param, fn.Result) {
		t.Errorf("expected identity's param and result to unify to the same type, got %s and %s", fn.Param, fn.Result)
	}
}

func TestGeneratorBinaryOpMismatchedOperandsFails(t *testing.T) {
	g := newTestGenerator()
	expr := &ast.BinaryOp{
		Op:    ast.OpAdd,
		Left:  &ast.IntLiteral{Value: 1, Sp: position.Zero},
		Right: &ast.StringLiteral{Value: "x", Sp: position.Zero},
		Sp:    position.Zero,
	}
	if _, err := g.Infer(NewEnvironment(), expr); err != nil {
		t.Fatalf("Infer: %v", err)
	}
	if _, err := Solve(g.cs, g.aliases, g.vars); err == nil {
		t.Fatalf("expected mismatched arithmetic operands to fail")
	}
}
