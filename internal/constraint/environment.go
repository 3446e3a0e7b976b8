package constraint

import "github.com/bendu-lang/bendu-typecheck/internal/types"

// Scheme is a type scheme ∀vars. Type — the quantified variables plus the
// monotype they scope over. A monomorphic binding (a lambda parameter,
// per §4.4: "lambda parameters are never generalized") is a Scheme with
// no quantified variables.
type Scheme struct {
	Vars []uint64
	Type *types.Type
}

func Mono(t *types.Type) *Scheme {
	return &Scheme{Type: t}
}

// Environment is the scoping stack from names to type schemes (§4.4),
// grounded on the teacher's TypeEnvironment{Variables, Parent, Level}
// linked-list idiom in internal/types/inference.go. It is persistent:
// Extend returns a new Environment sharing its parent's structure rather
// than mutating it (§5: "the environment is a persistent stack, older
// scopes shared structurally with newer ones").
type Environment struct {
	name   string
	scheme *Scheme
	parent *Environment
}

// NewEnvironment returns the empty environment, the root of the stack.
func NewEnvironment() *Environment {
	return nil
}

// Extend returns a new environment identical to e but with name
// additionally bound to scheme, shadowing any existing binding of name.
func (e *Environment) Extend(name string, scheme *Scheme) *Environment {
	return &Environment{name: name, scheme: scheme, parent: e}
}

// Lookup searches from the innermost scope outward.
func (e *Environment) Lookup(name string) (*Scheme, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if cur.name == name {
			return cur.scheme, true
		}
	}
	return nil, false
}

// FreeVars computes fv(Γ): the union, over every binding in e, of the
// free variables of its scheme's type that are not themselves quantified
// by that scheme. This is the environment side of the "escape to
// environment" generalization test (§9): a scheme's own quantified
// variables are bound, not free, in Γ.
func (e *Environment) FreeVars() map[uint64]struct{} {
	fv := make(map[uint64]struct{})
	seen := make(map[string]bool)
	for cur := e; cur != nil; cur = cur.parent {
		if seen[cur.name] {
			continue // shadowed by an inner binding already counted
		}
		seen[cur.name] = true

		quantified := make(map[uint64]struct{}, len(cur.scheme.Vars))
		for _, v := range cur.scheme.Vars {
			quantified[v] = struct{}{}
		}
		for id := range types.FreeVars(cur.scheme.Type) {
			if _, bound := quantified[id]; !bound {
				fv[id] = struct{}{}
			}
		}
	}
	return fv
}

// Generalize implements the generalization operation of §4.4/§9: compute
// fv(τ) − fv(Γ) and quantify over those variables. Let bindings (recursive
// or not) and top-level declarations call this; lambda parameters use
// Mono instead.
func Generalize(t *types.Type, env *Environment) *Scheme {
	tfv := types.FreeVars(t)
	efv := env.FreeVars()

	var quantified []uint64
	for id := range tfv {
		if _, escapes := efv[id]; !escapes {
			quantified = append(quantified, id)
		}
	}
	return &Scheme{Vars: quantified, Type: t}
}

// Instantiate mints a fresh variable for every quantified variable of
// scheme and substitutes it in, producing a monotype suitable for use at
// a single occurrence (§4.4, GLOSSARY).
func Instantiate(scheme *Scheme, vars *types.VarGen, level int) *types.Type {
	if len(scheme.Vars) == 0 {
		return scheme.Type
	}
	s := types.Empty()
	for _, id := range scheme.Vars {
		s = s.Extend(id, vars.Fresh(level))
	}
	return s.Apply(scheme.Type)
}
