package constraint

import (
	"github.com/bendu-lang/bendu-typecheck/internal/alias"
	"github.com/bendu-lang/bendu-typecheck/internal/ast"
	"github.com/bendu-lang/bendu-typecheck/internal/errors"
	"github.com/bendu-lang/bendu-typecheck/internal/position"
	"github.com/bendu-lang/bendu-typecheck/internal/types"
)

var primitiveNames = map[string]*types.Type{
	"Int":    types.Int,
	"Float":  types.Float,
	"String": types.String,
	"Bool":   types.Bool,
	"Char":   types.Char,
	"Unit":   types.Unit,
}

// resolveTypeExpr resolves a surface TypeExpr to a *types.Type with no
// in-scope type parameters (an alias body's own params, or the implicit
// per-annotation params a bare VarType needs — see resolveAnnotation).
// Only VisitTypeAliasDef's body resolution, which builds its own params
// map from the alias's declared parameters, should call this directly.
func (g *Generator) resolveTypeExpr(te ast.TypeExpr) (*types.Type, error) {
	return g.resolveTypeExprWithParams(te, nil)
}

// resolveAnnotation resolves a surface TypeExpr that stands alone — a
// lambda parameter annotation, a let annotation, an explicit `e : tau`,
// or a pattern annotation — none of which declare their type parameters
// up front the way an alias definition does. A bare lowercase name in
// one of these (e.g. the `a` in `a -> a`) is an implicitly-quantified
// type variable, and per §4.4 the same name must resolve to the same
// fresh variable everywhere it occurs in that one annotation. This scans
// te for every distinct VarType name (and open-record row name) first,
// mints one fresh variable per distinct name, and only then resolves the
// whole tree against that shared map — the params map resolveTypeExpr
// alone, called with nil, has no way to build since it sees one node at
// a time.
func (g *Generator) resolveAnnotation(te ast.TypeExpr) (*types.Type, error) {
	names := make(map[string]bool)
	collectTypeParamNames(te, names)

	params := make(map[string]*types.Type, len(names))
	for name := range names {
		params[name] = g.fresh()
	}
	return g.resolveTypeExprWithParams(te, params)
}

// collectTypeParamNames walks te collecting every bare VarType name and
// every open record's row name, the two kinds of implicitly-quantified
// name resolveAnnotation must mint a shared fresh variable for.
func collectTypeParamNames(te ast.TypeExpr, names map[string]bool) {
	switch t := te.(type) {
	case *ast.VarType:
		names[t.Name] = true
	case *ast.NamedType:
		for _, a := range t.Args {
			collectTypeParamNames(a, names)
		}
	case *ast.FuncType:
		collectTypeParamNames(t.Param, names)
		collectTypeParamNames(t.Result, names)
	case *ast.TupleType:
		for _, e := range t.Elems {
			collectTypeParamNames(e, names)
		}
	case *ast.RecordType:
		for _, f := range t.Fields {
			collectTypeParamNames(f.Type, names)
		}
		if t.Row != "" {
			names[t.Row] = true
		}
	case *ast.UnionType:
		for _, a := range t.Alts {
			collectTypeParamNames(a, names)
		}
	case *ast.IntersectionType:
		for _, m := range t.Members {
			collectTypeParamNames(m, names)
		}
	}
}

// ResolveTypeExpr exposes resolveAnnotation to callers outside this
// package that need to turn a surface TypeExpr into a *types.Type before
// any expression exists to infer — chiefly an embedder building
// EngineConfig.Builtins from an external declaration (§6). vars and
// aliases should be the same VarGen and Registry passed to the Engine
// these builtins will seed, so any row or alias reference they mint is
// visible to it.
func ResolveTypeExpr(vars *types.VarGen, aliases *alias.Registry, te ast.TypeExpr) (*types.Type, error) {
	g := NewGenerator(vars, aliases, false)
	return g.resolveAnnotation(te)
}

// resolveTypeExprWithParams resolves te against an optional map of
// in-scope type-parameter names to the variables standing for them (used
// while resolving an alias definition's body, §4.7: "the parameters are
// bound to fresh variables for the duration of resolving the body").
// NamedType disambiguates a primitive name, a bound type parameter, and
// an alias reference, in that order, matching §4.4's resolution rule.
func (g *Generator) resolveTypeExprWithParams(te ast.TypeExpr, params map[string]*types.Type) (*types.Type, error) {
	switch t := te.(type) {
	case *ast.NamedType:
		if prim, ok := primitiveNames[t.Name]; ok && len(t.Args) == 0 {
			return prim, nil
		}
		if bound, ok := params[t.Name]; ok && len(t.Args) == 0 {
			return bound, nil
		}
		args := make([]*types.Type, len(t.Args))
		for i, a := range t.Args {
			resolved, err := g.resolveTypeExprWithParams(a, params)
			if err != nil {
				return nil, err
			}
			args[i] = resolved
		}
		// A named type that is neither a primitive nor a bound parameter
		// is an alias reference. It is stored lazily as AliasData, not
		// expanded here — expansion happens on demand, during
		// unification (internal/unify's alias case) or final
		// normalization (internal/alias.Registry.Normalize) — matching
		// §4.7's "rewrite the body so that every reference... goes
		// through an alias reference, never expanded" rule. This is what
		// lets a self-referential alias body like List[T]'s tail field
		// be constructed at all, since eagerly expanding it here would
		// never terminate.
		return types.NewAlias(t.Name, args...), nil

	case *ast.VarType:
		if bound, ok := params[t.Name]; ok {
			return bound, nil
		}
		// A VarType with no entry in params is genuinely unbound: either
		// an alias body referenced a name outside its own declared
		// parameter list, or a caller resolved a standalone annotation
		// directly through resolveTypeExpr/resolveTypeExprWithParams
		// instead of resolveAnnotation, which is the one that populates
		// params with a fresh variable per distinct name up front.
		return nil, errors.UndefinedName(t.Name, position.Zero)

	case *ast.FuncType:
		param, err := g.resolveTypeExprWithParams(t.Param, params)
		if err != nil {
			return nil, err
		}
		result, err := g.resolveTypeExprWithParams(t.Result, params)
		if err != nil {
			return nil, err
		}
		return types.NewFunc(param, result), nil

	case *ast.TupleType:
		elems := make([]*types.Type, len(t.Elems))
		for i, e := range t.Elems {
			resolved, err := g.resolveTypeExprWithParams(e, params)
			if err != nil {
				return nil, err
			}
			elems[i] = resolved
		}
		return types.NewTuple(elems...), nil

	case *ast.RecordType:
		fields := make(map[string]*types.Type, len(t.Fields))
		for _, f := range t.Fields {
			resolved, err := g.resolveTypeExprWithParams(f.Type, params)
			if err != nil {
				return nil, err
			}
			fields[f.Name] = resolved
		}
		if t.Row != "" {
			row, ok := params[t.Row]
			if !ok {
				row = g.freshRow()
			}
			return types.NewRecordOpen(fields, row), nil
		}
		return types.NewRecordClosed(fields), nil

	case *ast.UnionType:
		alts := make([]*types.Type, len(t.Alts))
		for i, a := range t.Alts {
			resolved, err := g.resolveTypeExprWithParams(a, params)
			if err != nil {
				return nil, err
			}
			alts[i] = resolved
		}
		return types.NewUnion(alts...), nil

	case *ast.IntersectionType:
		members := make([]*types.Type, len(t.Members))
		for i, m := range t.Members {
			resolved, err := g.resolveTypeExprWithParams(m, params)
			if err != nil {
				return nil, err
			}
			members[i] = resolved
		}
		return types.NewIntersection(members...), nil

	case *ast.LiteralType:
		return types.NewLiteral(t.Value), nil

	default:
		return nil, errors.TypeMismatch("<unknown type expression>", "<resolved type>", position.Zero)
	}
}
