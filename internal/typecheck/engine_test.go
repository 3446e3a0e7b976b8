package typecheck

import (
	"testing"

	"github.com/bendu-lang/bendu-typecheck/internal/ast"
	"github.com/bendu-lang/bendu-typecheck/internal/position"
	"github.com/bendu-lang/bendu-typecheck/internal/types"
)

func sp() position.Span { return position.Zero }

// Scenario 1 (§8): `let x = 42 in x` infers Int.
func TestCheckTopLevelLetBindingInfersInt(t *testing.T) {
	e := NewEngine(EngineConfig{})
	expr := &ast.Let{
		Name: "x",
		Init: &ast.IntLiteral{Value: 42, Sp: sp()},
		Body: &ast.Variable{Name: "x", Sp: sp()},
		Sp:   sp(),
	}

	result := e.CheckTopLevel(expr)
	if !result.Ok() {
		t.Fatalf("expected success, got error: %v", result.Err)
	}
	if result.Type.Kind != types.KindInt {
		t.Errorf("expected Int, got %s", result.Type)
	}
}

// Scenario 2 (§8): `λx. x + 1` infers Int -> Int.
func TestCheckTopLevelLambdaArithmeticInfersIntToInt(t *testing.T) {
	e := NewEngine(EngineConfig{})
	expr := &ast.Lambda{
		Param: "x",
		Body: &ast.BinaryOp{
			Op:    ast.OpAdd,
			Left:  &ast.Variable{Name: "x", Sp: sp()},
			Right: &ast.IntLiteral{Value: 1, Sp: sp()},
			Sp:    sp(),
		},
		Sp: sp(),
	}

	result := e.CheckTopLevel(expr)
	if !result.Ok() {
		t.Fatalf("expected success, got error: %v", result.Err)
	}
	if result.Type.Kind != types.KindFunc {
		t.Fatalf("expected a function type, got %s", result.Type)
	}
	fn := result.Type.Data.(types.FuncData)
	if fn.Param.Kind != types.KindInt || fn.Result.Kind != types.KindInt {
		t.Errorf("expected Int -> Int, got %s", result.Type)
	}
}

// Scenario 3 (§8): `let id = λx. x in (id(42), id("s"))` infers (Int, String) —
// two independent instantiations of id's generalized scheme.
func TestCheckTopLevelLetPolymorphismAllowsIndependentInstantiations(t *testing.T) {
	e := NewEngine(EngineConfig{})
	idExpr := &ast.Lambda{Param: "x", Body: &ast.Variable{Name: "x", Sp: sp()}, Sp: sp()}
	tuple := &ast.Tuple{
		Elems: []ast.Expr{
			&ast.Application{Func: &ast.Variable{Name: "id", Sp: sp()}, Arg: &ast.IntLiteral{Value: 42, Sp: sp()}, Sp: sp()},
			&ast.Application{Func: &ast.Variable{Name: "id", Sp: sp()}, Arg: &ast.StringLiteral{Value: "s", Sp: sp()}, Sp: sp()},
		},
		Sp: sp(),
	}
	expr := &ast.Let{Name: "id", Init: idExpr, Body: tuple, Sp: sp()}

	result := e.CheckTopLevel(expr)
	if !result.Ok() {
		t.Fatalf("expected success, got error: %v", result.Err)
	}
	if result.Type.Kind != types.KindTuple {
		t.Fatalf("expected a tuple type, got %s", result.Type)
	}
	elems := result.Type.Data.(types.TupleData).Elems
	if elems[0].Kind != types.KindInt || elems[1].Kind != types.KindString {
		t.Errorf("expected (Int, String), got %s", result.Type)
	}
}

// Scenario 4 (§8): `λr. r.name` infers { name: α | ρ } -> α (open record).
func TestCheckTopLevelFieldProjectionInfersOpenRecordParam(t *testing.T) {
	e := NewEngine(EngineConfig{})
	expr := &ast.Lambda{
		Param: "r",
		Body:  &ast.FieldProjection{Target: &ast.Variable{Name: "r", Sp: sp()}, Field: "name", Sp: sp()},
		Sp:    sp(),
	}

	result := e.CheckTopLevel(expr)
	if !result.Ok() {
		t.Fatalf("expected success, got error: %v", result.Err)
	}
	fn := result.Type.Data.(types.FuncData)
	if fn.Param.Kind != types.KindRecord {
		t.Fatalf("expected a record parameter, got %s", fn.Param)
	}
	rec := fn.Param.Data.(types.RecordData)
	if _, ok := rec.Fields["name"]; !ok {
		t.Errorf("expected field 'name' in %s", fn.Param)
	}
	if rec.Row == nil {
		t.Errorf("expected an open record, got closed: %s", fn.Param)
	}
}

// Scenario 5 (§8): a match over String with two literal patterns and a
// wildcard, all arm bodies Int, infers Int — not a union, since the arm
// bodies themselves are plain Int literals, not literal *types*.
func TestCheckTopLevelMatchOverStringInfersInt(t *testing.T) {
	e := NewEngine(EngineConfig{})
	pending := "pending"
	done := "done"
	expr := &ast.Let{
		Name: "s",
		Init: &ast.StringLiteral{Value: "pending", Sp: sp()},
		Body: &ast.Match{
			Scrutinee: &ast.Variable{Name: "s", Sp: sp()},
			Arms: []ast.MatchArm{
				{Pattern: &ast.LiteralPattern{String: &pending, Sp: sp()}, Body: &ast.IntLiteral{Value: 0, Sp: sp()}},
				{Pattern: &ast.LiteralPattern{String: &done, Sp: sp()}, Body: &ast.IntLiteral{Value: 1, Sp: sp()}},
				{Pattern: &ast.WildcardPattern{Sp: sp()}, Body: &ast.IntLiteral{Value: 2, Sp: sp()}},
			},
			Sp: sp(),
		},
		Sp: sp(),
	}

	result := e.CheckTopLevel(expr)
	if !result.Ok() {
		t.Fatalf("expected success, got error: %v", result.Err)
	}
	if result.Type.Kind != types.KindInt {
		t.Errorf("expected Int, got %s", result.Type)
	}
}

func TestCheckTopLevelUndefinedNameFails(t *testing.T) {
	e := NewEngine(EngineConfig{})
	result := e.CheckTopLevel(&ast.Variable{Name: "nope", Sp: sp()})
	if result.Ok() {
		t.Fatalf("expected failure for undefined name, got %s", result.Type)
	}
	if result.Err.Category != "UNDEFINED_NAME" {
		t.Errorf("expected UNDEFINED_NAME, got %s", result.Err.Category)
	}
}

func TestCheckTopLevelErrorRecoveryContinuesPastUndefinedName(t *testing.T) {
	e := NewEngine(EngineConfig{ErrorRecovery: true})
	expr := &ast.Application{
		Func: &ast.Lambda{Param: "x", Body: &ast.Variable{Name: "x", Sp: sp()}, Sp: sp()},
		Arg:  &ast.Variable{Name: "nope", Sp: sp()},
		Sp:   sp(),
	}
	result := e.CheckTopLevel(expr)
	if !result.Ok() {
		t.Fatalf("expected recovery to continue, got error: %v", result.Err)
	}
}

func TestCheckTopLevelTypeMismatchFails(t *testing.T) {
	e := NewEngine(EngineConfig{})
	expr := &ast.If{
		Cond: &ast.BoolLiteral{Value: true, Sp: sp()},
		Then: &ast.IntLiteral{Value: 1, Sp: sp()},
		Else: &ast.StringLiteral{Value: "nope", Sp: sp()},
		Sp:   sp(),
	}
	result := e.CheckTopLevel(expr)
	if result.Ok() {
		t.Fatalf("expected type mismatch, got %s", result.Type)
	}
	if result.Err.Category != "TYPE_MISMATCH" {
		t.Errorf("expected TYPE_MISMATCH, got %s", result.Err.Category)
	}
}
