package constraint

import (
	"github.com/bendu-lang/bendu-typecheck/internal/alias"
	"github.com/bendu-lang/bendu-typecheck/internal/ast"
	"github.com/bendu-lang/bendu-typecheck/internal/errors"
	"github.com/bendu-lang/bendu-typecheck/internal/types"
)

// Generator walks an AST under a type environment and produces
// (inferredType, constraintSet) pairs, per §4.4. It implements
// ast.ExprVisitor directly (the teacher's algorithm_w.go shape); the
// current environment is threaded through an internal stack rather than
// a visitor parameter, since Go's method-per-node-kind dispatch doesn't
// carry extra arguments — Infer pushes/pops it around each recursive
// descent, mirroring the teacher's PushEnvironment/PopEnvironment pattern
// in internal/types/inference.go.
type Generator struct {
	vars     *types.VarGen
	aliases  *alias.Registry
	cs       *Set
	env      *Environment
	level    int
	recovery bool // EngineConfig.ErrorRecovery — see NewGenerator
}

// NewGenerator creates a generator over a fresh constraint set. recovery
// enables §7.1's "error recovery mode": on an undefined name the
// generator substitutes a fresh variable and continues instead of
// aborting the expression.
func NewGenerator(vars *types.VarGen, aliases *alias.Registry, recovery bool) *Generator {
	return &Generator{vars: vars, aliases: aliases, cs: NewSet(), recovery: recovery}
}

func (g *Generator) Constraints() *Set {
	return g.cs
}

// Infer is the entry point: type e under env, returning its inferred
// type. Errors surface here for undefined names outside recovery mode,
// for annotations and alias definitions that fail to resolve or register,
// for an unknown binary operator, and for constraints that fail to solve
// when a let binding is generalized; every other failure is deferred to
// the solver as a constraint it cannot satisfy.
func (g *Generator) Infer(env *Environment, e ast.Expr) (*types.Type, error) {
	saved := g.env
	g.env = env
	result, err := e.Accept(g)
	g.env = saved
	if err != nil {
		return nil, err
	}
	return result.(*types.Type), nil
}

func (g *Generator) fresh() *types.Type {
	return g.vars.Fresh(g.level)
}

func (g *Generator) freshRow() *types.Type {
	return g.vars.FreshRow(g.level)
}

func (g *Generator) VisitIntLiteral(e *ast.IntLiteral) (interface{}, error) {
	return types.Int, nil
}

func (g *Generator) VisitFloatLiteral(e *ast.FloatLiteral) (interface{}, error) {
	return types.Float, nil
}

func (g *Generator) VisitStringLiteral(e *ast.StringLiteral) (interface{}, error) {
	return types.String, nil
}

func (g *Generator) VisitCharLiteral(e *ast.CharLiteral) (interface{}, error) {
	return types.Char, nil
}

func (g *Generator) VisitBoolLiteral(e *ast.BoolLiteral) (interface{}, error) {
	return types.Bool, nil
}

func (g *Generator) VisitUnitLiteral(e *ast.UnitLiteral) (interface{}, error) {
	return types.Unit, nil
}

// VisitVariable looks up the scheme in the environment and instantiates
// it by replacing every quantified variable with a fresh one (§4.4). An
// unbound name fails immediately unless recovery mode is on.
func (g *Generator) VisitVariable(e *ast.Variable) (interface{}, error) {
	scheme, ok := g.env.Lookup(e.Name)
	if !ok {
		if g.recovery {
			return g.fresh(), nil
		}
		return nil, errors.UndefinedName(e.Name, e.Sp)
	}
	return Instantiate(scheme, g.vars, g.level), nil
}

// VisitLambda mints a fresh parameter variable, extends the environment
// monomorphically, and infers the body (§4.4).
func (g *Generator) VisitLambda(e *ast.Lambda) (interface{}, error) {
	param := g.fresh()
	if e.Annotation != nil {
		ann, err := g.resolveAnnotation(e.Annotation)
		if err != nil {
			return nil, err
		}
		g.cs.AddEquality(param, ann, e.Sp)
	}

	bodyEnv := g.env.Extend(e.Param, Mono(param))
	bodyType, err := g.Infer(bodyEnv, e.Body)
	if err != nil {
		return nil, err
	}

	return types.NewFunc(param, bodyType), nil
}

// VisitApplication infers f and a, mints a fresh result variable, and
// emits φ = α → β (§4.4).
func (g *Generator) VisitApplication(e *ast.Application) (interface{}, error) {
	fnType, err := g.Infer(g.env, e.Func)
	if err != nil {
		return nil, err
	}
	argType, err := g.Infer(g.env, e.Arg)
	if err != nil {
		return nil, err
	}

	result := g.fresh()
	g.cs.AddEquality(fnType, types.NewFunc(argType, result), e.Sp)
	return result, nil
}

// VisitLet implements §4.4's let rule, including the recursive case
// (bind x : fresh in the initializer's own environment first). Every let
// with a body is generalized, recursive or not and at any nesting depth,
// after the constraints generated so far are solved; a top-level let (nil
// Body) is generalized by internal/typecheck's Engine.CheckTopLevel.
func (g *Generator) VisitLet(e *ast.Let) (interface{}, error) {
	var initType *types.Type
	var err error

	if e.Recursive {
		placeholder := g.fresh()
		recEnv := g.env.Extend(e.Name, Mono(placeholder))
		initType, err = g.Infer(recEnv, e.Init)
		if err != nil {
			return nil, err
		}
		g.cs.AddEquality(placeholder, initType, e.Sp)
		initType = placeholder
	} else {
		initType, err = g.Infer(g.env, e.Init)
		if err != nil {
			return nil, err
		}
	}

	if e.Annotation != nil {
		ann, aerr := g.resolveAnnotation(e.Annotation)
		if aerr != nil {
			return nil, aerr
		}
		g.cs.AddEquality(initType, ann, e.Sp)
	}

	if e.Body == nil {
		// Top-level declaration: the "body" is the residual environment
		// the caller (internal/typecheck's Engine.CheckTopLevel) threads
		// to the next declaration, not a sub-expression here.
		return initType, nil
	}

	// Generalize the initializer's solved type rather than its raw one, so
	// a variable that the constraints generated so far already pin down
	// (e.g. a record field bound to Int) is not quantified. fv(Γ) is taken
	// under the same substitution, through one extra binding carrying the
	// solved image of every variable free in Γ.
	s, err := Solve(g.cs, g.aliases, g.vars)
	if err != nil {
		return nil, err
	}
	var envImages []*types.Type
	for id := range g.env.FreeVars() {
		envImages = append(envImages, s.Apply(types.NewVar(id, 0)))
	}
	scheme := Generalize(s.Apply(initType), g.env.Extend("", Mono(types.NewTuple(envImages...))))

	bodyEnv := g.env.Extend(e.Name, scheme)
	return g.Infer(bodyEnv, e.Body)
}

func (g *Generator) VisitIf(e *ast.If) (interface{}, error) {
	condType, err := g.Infer(g.env, e.Cond)
	if err != nil {
		return nil, err
	}
	g.cs.AddEquality(condType, types.Bool, e.Cond.Span())

	thenType, err := g.Infer(g.env, e.Then)
	if err != nil {
		return nil, err
	}
	elseType, err := g.Infer(g.env, e.Else)
	if err != nil {
		return nil, err
	}
	g.cs.AddEquality(thenType, elseType, e.Sp)
	return thenType, nil
}

func isArithmetic(op ast.BinaryOperator) bool {
	switch op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv:
		return true
	}
	return false
}

func isComparison(op ast.BinaryOperator) bool {
	switch op {
	case ast.OpEq, ast.OpNeq, ast.OpLt, ast.OpLte, ast.OpGt, ast.OpGte:
		return true
	}
	return false
}

func isLogical(op ast.BinaryOperator) bool {
	return op == ast.OpAnd || op == ast.OpOr
}

// VisitBinaryOp implements §4.4's three binary-operator rules:
// arithmetic (both operands equal to each other, result the same type;
// the operand type is not restricted to Int, Float or Char), comparison
// (operands equal to each other, result Bool), logical (both operands
// Bool, result Bool).
func (g *Generator) VisitBinaryOp(e *ast.BinaryOp) (interface{}, error) {
	leftType, err := g.Infer(g.env, e.Left)
	if err != nil {
		return nil, err
	}
	rightType, err := g.Infer(g.env, e.Right)
	if err != nil {
		return nil, err
	}

	switch {
	case isArithmetic(e.Op):
		g.cs.AddEquality(leftType, rightType, e.Sp)
		// No constraint ties the shared operand type to a numeric
		// primitive: any type that both operands unify to is accepted,
		// and it is also the result type.
		return leftType, nil

	case isComparison(e.Op):
		g.cs.AddEquality(leftType, rightType, e.Sp)
		return types.Bool, nil

	case isLogical(e.Op):
		g.cs.AddEquality(leftType, types.Bool, e.Left.Span())
		g.cs.AddEquality(rightType, types.Bool, e.Right.Span())
		return types.Bool, nil

	default:
		return nil, errors.TypeMismatch(string(e.Op), "a known binary operator", e.Sp)
	}
}

func (g *Generator) VisitUnaryOp(e *ast.UnaryOp) (interface{}, error) {
	operandType, err := g.Infer(g.env, e.Operand)
	if err != nil {
		return nil, err
	}
	if e.Op == ast.OpNot {
		g.cs.AddEquality(operandType, types.Bool, e.Sp)
		return types.Bool, nil
	}
	// OpNeg: numeric negation, result is the same type as the operand.
	return operandType, nil
}

func (g *Generator) VisitTuple(e *ast.Tuple) (interface{}, error) {
	elems := make([]*types.Type, len(e.Elems))
	for i, el := range e.Elems {
		t, err := g.Infer(g.env, el)
		if err != nil {
			return nil, err
		}
		elems[i] = t
	}
	return types.NewTuple(elems...), nil
}

// VisitRecord implements §4.4's record-literal rule. Every distinct
// explicit field name appearing anywhere in the literal gets one shared
// "slot" variable up front, regardless of position; every explicit
// occurrence of that name and every spread's own contribution for that
// name are constrained equal to the same slot. That is what makes the
// field-override rule (§9 Open Question 2: "the later field wins only if
// the types unify") hold independent of whether the spread comes before
// or after the explicit field — a single fields-map populated only as
// entries are walked left-to-right would miss the equality when a spread
// precedes the explicit override, since the spread's contribution to
// that name was never recorded anywhere to unify against.
func (g *Generator) VisitRecord(e *ast.Record) (interface{}, error) {
	slots := make(map[string]*types.Type)
	for _, entry := range e.Entries {
		if entry.Spread != nil {
			continue
		}
		if _, ok := slots[entry.Name]; !ok {
			slots[entry.Name] = g.fresh()
		}
	}

	hadSpread := false
	for _, entry := range e.Entries {
		if entry.Spread != nil {
			spreadType, err := g.Infer(g.env, entry.Spread)
			if err != nil {
				return nil, err
			}
			row := g.freshRow()
			g.cs.AddEquality(spreadType, types.NewRecordOpen(copyTypeMap(slots), row), entry.Spread.Span())
			hadSpread = true
			continue
		}

		valueType, err := g.Infer(g.env, entry.Value)
		if err != nil {
			return nil, err
		}
		g.cs.AddEquality(slots[entry.Name], valueType, entry.Value.Span())
	}

	if hadSpread {
		return types.NewRecordOpen(slots, g.freshRow()), nil
	}
	return types.NewRecordClosed(slots), nil
}

func copyTypeMap(m map[string]*types.Type) map[string]*types.Type {
	cp := make(map[string]*types.Type, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

// VisitFieldProjection implements §4.4's field-projection rule, the
// source of row polymorphism: `e.f` only requires that e carry at least
// an f field.
func (g *Generator) VisitFieldProjection(e *ast.FieldProjection) (interface{}, error) {
	targetType, err := g.Infer(g.env, e.Target)
	if err != nil {
		return nil, err
	}

	field := g.fresh()
	row := g.freshRow()
	g.cs.AddEquality(targetType, types.NewRecordOpen(map[string]*types.Type{e.Field: field}, row), e.Sp)
	return field, nil
}

// VisitMatch implements §4.4's match rule. Pattern typing is delegated to
// typePattern (patterns.go). When every arm body is a string-literal type
// the result is the union of the arm types; otherwise all arm bodies are
// constrained equal to the first arm's type.
func (g *Generator) VisitMatch(e *ast.Match) (interface{}, error) {
	scrutType, err := g.Infer(g.env, e.Scrutinee)
	if err != nil {
		return nil, err
	}

	if len(e.Arms) == 0 {
		return types.Unit, nil
	}

	armTypes := make([]*types.Type, len(e.Arms))
	for i, arm := range e.Arms {
		armEnv, err := g.typePattern(arm.Pattern, scrutType)
		if err != nil {
			return nil, err
		}
		bodyType, err := g.Infer(armEnv, arm.Body)
		if err != nil {
			return nil, err
		}
		armTypes[i] = bodyType
	}

	if allLiteral(armTypes) {
		return types.NewUnion(armTypes...), nil
	}

	result := armTypes[0]
	for _, t := range armTypes[1:] {
		g.cs.AddEquality(result, t, e.Sp)
	}
	return result, nil
}

func allLiteral(ts []*types.Type) bool {
	for _, t := range ts {
		if t.Kind != types.KindLiteral {
			return false
		}
	}
	return true
}

// VisitTypeAliasDef delegates to the alias registry and emits no
// constraint (§4.4).
func (g *Generator) VisitTypeAliasDef(e *ast.TypeAliasDef) (interface{}, error) {
	paramIDs := make([]uint64, len(e.Params))
	paramEnv := map[string]*types.Type{}
	for i, name := range e.Params {
		v := g.fresh()
		id, _ := v.IsVar()
		paramIDs[i] = id.ID
		paramEnv[name] = v
	}

	body, err := g.resolveTypeExprWithParams(e.Body, paramEnv)
	if err != nil {
		return nil, err
	}

	if err := g.aliases.Define(e.Name, paramIDs, body, e.Sp); err != nil {
		return nil, err
	}
	return types.Unit, nil
}

// VisitAnnotation implements §4.4's explicit-annotation rule: infer e,
// emit equality against tau, result is tau.
func (g *Generator) VisitAnnotation(e *ast.Annotation) (interface{}, error) {
	inferred, err := g.Infer(g.env, e.Expr)
	if err != nil {
		return nil, err
	}
	ann, err := g.resolveAnnotation(e.Type)
	if err != nil {
		return nil, err
	}
	g.cs.AddEquality(inferred, ann, e.Sp)
	return ann, nil
}

var _ ast.ExprVisitor = (*Generator)(nil)
