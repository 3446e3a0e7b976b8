// Package typecheck wires the constraint generator, solver, and alias
// registry into the one entry point an embedder calls: type-check a
// top-level expression under an environment and get back a
// TypeCheckResult. It is grounded on the teacher's InferenceConfig/
// engine-constructor shape in internal/types/inference.go, adapted to
// §6's three-option EngineConfig.
package typecheck

import (
	"github.com/bendu-lang/bendu-typecheck/internal/alias"
	"github.com/bendu-lang/bendu-typecheck/internal/ast"
	"github.com/bendu-lang/bendu-typecheck/internal/constraint"
	"github.com/bendu-lang/bendu-typecheck/internal/errors"
	"github.com/bendu-lang/bendu-typecheck/internal/types"
)

// EngineConfig holds the three options §6 recognizes: which primitive
// bindings seed the base environment, the starting fresh-id seed (for
// reproducible tests), and whether the generator runs in error-recovery
// mode on an undefined name. The instance table itself is fixed by
// §4.6 and is not configurable (internal/constraint.solveInstance).
type EngineConfig struct {
	// Builtins maps a name (e.g. "not", "printLine") to its type scheme,
	// merged into the base environment below the primitive types
	// themselves, which are always in scope by name resolution in
	// TypeExpr (NamedType), not as Variable bindings.
	Builtins map[string]*types.Type

	// Seed, if non-zero, is the VarGen's starting counter value.
	Seed uint64

	// ErrorRecovery enables §7's "error recovery mode": an undefined
	// name produces a fresh variable instead of aborting the expression.
	ErrorRecovery bool
}

// Engine is a configured type-checking session: one VarGen, one alias
// registry, and one base environment, shared across every top-level
// expression checked through it — aliases and builtin bindings
// accumulate across top levels the way a real compilation unit's
// declarations do (§5: "a mutable mapping used in an append-mostly
// fashion").
type Engine struct {
	vars    *types.VarGen
	aliases *alias.Registry
	base    *constraint.Environment
	config  EngineConfig
}

// NewEngine builds an Engine from config, seeding the base environment
// with config.Builtins.
func NewEngine(config EngineConfig) *Engine {
	return NewEngineWithState(types.NewVarGen(config.Seed), alias.NewRegistry(), config)
}

// NewEngineWithState builds an Engine reusing a caller-supplied VarGen and
// alias Registry instead of minting fresh ones. An embedder that must
// resolve config.Builtins' surface syntax itself (e.g. a CLI decoding
// builtins from JSON via constraint.ResolveTypeExpr) needs to resolve
// them against the very same fresh-variable counter and alias table the
// engine will go on to use, or a builtin's free type variable could
// collide with one the engine mints later for an unrelated expression.
func NewEngineWithState(vars *types.VarGen, aliases *alias.Registry, config EngineConfig) *Engine {
	env := constraint.NewEnvironment()
	for name, t := range config.Builtins {
		env = env.Extend(name, constraint.Generalize(t, env))
	}
	return &Engine{
		vars:    vars,
		aliases: aliases,
		base:    env,
		config:  config,
	}
}

// TypeCheckResult is §6's output shape: either a fully-substituted type
// plus the residual environment (on success), or a structured error (on
// failure).
type TypeCheckResult struct {
	Type        *types.Type
	Environment *constraint.Environment
	Err         *errors.TypeError
}

// Ok reports whether this result represents a successful type-check.
func (r TypeCheckResult) Ok() bool {
	return r.Err == nil
}

// CheckTopLevel type-checks one top-level expression against the
// engine's accumulated base environment: generate constraints, solve
// them, apply the resulting substitution to the inferred type, and
// normalize away alias references for presentation. On a non-nil,
// non-*errors.TypeError failure from the generator or solver it is
// wrapped into a TypeMismatch so CheckTopLevel always returns a
// TypeCheckResult rather than a bare error — matching §6's contract that
// the only output shapes are "success" and "a structured record".
func (e *Engine) CheckTopLevel(expr ast.Expr) TypeCheckResult {
	gen := constraint.NewGenerator(e.vars, e.aliases, e.config.ErrorRecovery)

	inferred, err := gen.Infer(e.base, expr)
	if err != nil {
		return TypeCheckResult{Err: asTypeError(err)}
	}

	subst, err := constraint.Solve(gen.Constraints(), e.aliases, e.vars)
	if err != nil {
		return TypeCheckResult{Err: asTypeError(err)}
	}

	final := subst.Apply(inferred)
	final = e.aliases.Normalize(final, normalizeDepth)

	// A top-level `let` binding extends the base environment for
	// subsequent top levels in this compilation unit; any other
	// expression kind leaves it untouched.
	if let, ok := expr.(*ast.Let); ok && let.Body == nil {
		scheme := constraint.Generalize(final, e.base)
		e.base = e.base.Extend(let.Name, scheme)
	}

	return TypeCheckResult{Type: final, Environment: e.base}
}

// normalizeDepth bounds alias expansion during final normalization
// (internal/alias.Registry.Normalize's guard against the legal recursive
// aliases this registry allows, e.g. List[T]).
const normalizeDepth = 8

func asTypeError(err error) *errors.TypeError {
	if te, ok := err.(*errors.TypeError); ok {
		return te
	}
	return &errors.TypeError{Category: errors.CategoryTypeMismatch, Message: err.Error()}
}
