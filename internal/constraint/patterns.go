package constraint

import (
	"github.com/bendu-lang/bendu-typecheck/internal/ast"
	"github.com/bendu-lang/bendu-typecheck/internal/types"
)

// typePattern elaborates a match-arm pattern against the scrutinee's
// already-inferred type (§4.5), returning the environment extended with
// whatever variable bindings the pattern introduces. Constraints are
// accumulated onto g.cs exactly like any other rule; there is no
// separate pattern constraint set.
func (g *Generator) typePattern(p ast.Pattern, scrutinee *types.Type) (*Environment, error) {
	switch pat := p.(type) {
	case *ast.LiteralPattern:
		return g.env, g.typeLiteralPattern(pat, scrutinee)

	case *ast.WildcardPattern:
		// No constraint: a wildcard matches any type (§4.5).
		return g.env, nil

	case *ast.VariablePattern:
		env := g.env.Extend(pat.Name, Mono(scrutinee))
		if pat.Annotation != nil {
			ann, err := g.resolveAnnotation(pat.Annotation)
			if err != nil {
				return nil, err
			}
			g.cs.AddEquality(scrutinee, ann, pat.Sp)
		}
		return env, nil

	case *ast.TuplePattern:
		elems := make([]*types.Type, len(pat.Elems))
		for i := range pat.Elems {
			elems[i] = g.fresh()
		}
		g.cs.AddEquality(scrutinee, types.NewTuple(elems...), pat.Sp)

		env := g.env
		for i, sub := range pat.Elems {
			saved := g.env
			g.env = env
			var err error
			env, err = g.typePattern(sub, elems[i])
			g.env = saved
			if err != nil {
				return nil, err
			}
		}
		return env, nil

	case *ast.RecordPattern:
		fields := make(map[string]*types.Type, len(pat.Fields))
		for _, f := range pat.Fields {
			fields[f.Name] = g.fresh()
		}
		g.cs.AddEquality(scrutinee, types.NewRecordOpen(fields, g.freshRow()), pat.Sp)

		env := g.env
		for _, f := range pat.Fields {
			saved := g.env
			g.env = env
			var err error
			env, err = g.typePattern(f.Pattern, fields[f.Name])
			g.env = saved
			if err != nil {
				return nil, err
			}
		}
		return env, nil

	case *ast.ConstructorPattern:
		// §4.5 treats this shape as emitting an equality against the
		// relevant constructor type scheme; without a constructor/variant
		// declaration form in this AST (out of scope per §1's external
		// interface), the best available approximation is to type each
		// argument sub-pattern against a fresh variable and leave the
		// scrutinee's own type unconstrained by the constructor name.
		env := g.env
		for _, sub := range pat.Args {
			saved := g.env
			g.env = env
			var err error
			env, err = g.typePattern(sub, g.fresh())
			g.env = saved
			if err != nil {
				return nil, err
			}
		}
		return env, nil

	default:
		return g.env, nil
	}
}

func (g *Generator) typeLiteralPattern(pat *ast.LiteralPattern, scrutinee *types.Type) error {
	var litType *types.Type
	switch {
	case pat.Int != nil:
		litType = types.Int
	case pat.Float != nil:
		litType = types.Float
	case pat.String != nil:
		litType = types.String
	case pat.Char != nil:
		litType = types.Char
	case pat.Bool != nil:
		litType = types.Bool
	default:
		litType = types.Unit
	}
	g.cs.AddEquality(scrutinee, litType, pat.Sp)
	return nil
}
