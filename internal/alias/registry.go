// Package alias implements the Alias Registry (§4.7): storage for named,
// parameterized type schemes, demand-driven expansion, and cycle
// detection. It is grounded on the teacher's module dependency graph
// (internal/modules/modules.go's DependencyGraph/DetectCycles), adapted
// from module-path nodes to alias-name nodes and extended with the one
// rule modules.go never needed: a cycle that passes through a structural
// (lazy) constructor — function, record, or tuple — is not an error,
// because such a constructor defers evaluation of its contents the same
// way module dependency edges never do.
package alias

import (
	"fmt"

	"github.com/bendu-lang/bendu-typecheck/internal/errors"
	"github.com/bendu-lang/bendu-typecheck/internal/position"
	"github.com/bendu-lang/bendu-typecheck/internal/types"
)

// scheme is one stored alias definition: the formal parameters and the
// body they parameterize. The body is stored exactly as written — any
// reference to this alias (direct or through a chain) inside the body was
// already rewritten by the caller to go through an AliasData reference,
// never expanded (§4.7: "rewrite the body so that every reference to name
// goes through alias references").
type scheme struct {
	params []uint64 // ids of the parameter variables, in declaration order
	body   *types.Type
}

// Registry is the mutable, append-mostly alias store (§5: "a mutable
// mapping used in an append-mostly fashion with cycle checking before
// commit").
type Registry struct {
	schemes map[string]scheme
}

func NewRegistry() *Registry {
	return &Registry{schemes: make(map[string]scheme)}
}

// Define registers a new alias. It fails if the name is already bound, or
// if the reference graph reachable from name contains a cycle not broken
// by a structural constructor.
func (r *Registry) Define(name string, params []uint64, body *types.Type, span position.Span) error {
	if _, exists := r.schemes[name]; exists {
		return fmt.Errorf("alias %q is already defined", name)
	}

	// Register provisionally so the cycle check can see self-reference,
	// then roll back on failure — Define must not leave a partially
	// committed definition behind.
	r.schemes[name] = scheme{params: params, body: body}
	if cycle := r.findIllegalCycle(name); cycle != nil {
		delete(r.schemes, name)
		return errors.AliasCycle(cycle, span)
	}
	return nil
}

// Expand substitutes args for the stored parameters of name's body. It
// fails with an arity error (reported identically to "not found", per
// §4.7) if len(args) doesn't match the declared parameter count, or if
// name isn't defined at all.
func (r *Registry) Expand(name string, args []*types.Type, span position.Span) (*types.Type, error) {
	sc, ok := r.schemes[name]
	if !ok {
		return nil, errors.AliasArity(name, 0, len(args), span)
	}
	if len(sc.params) != len(args) {
		return nil, errors.AliasArity(name, len(sc.params), len(args), span)
	}

	s := types.Empty()
	for i, p := range sc.params {
		s = s.Extend(p, args[i])
	}
	return s.Apply(sc.body), nil
}

// Normalize exhaustively expands every alias reference reachable in t,
// used for final printing (§4.7). A depth counter guards against runaway
// expansion of the legal recursive aliases this registry allows (e.g.
// List[T] = { head: T, tail: List[T] }) — those are only safe to expand
// to a bounded depth, since their very purpose is an infinite type at the
// value level.
func (r *Registry) Normalize(t *types.Type, maxDepth int) *types.Type {
	return r.normalize(t, maxDepth)
}

func (r *Registry) normalize(t *types.Type, depth int) *types.Type {
	if t == nil || depth <= 0 {
		return t
	}
	switch t.Kind {
	case types.KindAlias:
		d := t.Data.(types.AliasData)
		expanded, err := r.Expand(d.Name, d.Args, position.Zero)
		if err != nil {
			return t
		}
		return r.normalize(expanded, depth-1)
	case types.KindFunc:
		d := t.Data.(types.FuncData)
		return types.NewFunc(r.normalize(d.Param, depth), r.normalize(d.Result, depth))
	case types.KindTuple:
		d := t.Data.(types.TupleData)
		elems := make([]*types.Type, len(d.Elems))
		for i, e := range d.Elems {
			elems[i] = r.normalize(e, depth)
		}
		return types.NewTuple(elems...)
	case types.KindRecord:
		d := t.Data.(types.RecordData)
		fields := make(map[string]*types.Type, len(d.Fields))
		for k, v := range d.Fields {
			fields[k] = r.normalize(v, depth)
		}
		if d.Row != nil {
			return types.NewRecordOpen(fields, r.normalize(d.Row, depth))
		}
		return types.NewRecordClosed(fields)
	case types.KindUnion:
		d := t.Data.(types.UnionData)
		alts := make([]*types.Type, len(d.Alts))
		for i, a := range d.Alts {
			alts[i] = r.normalize(a, depth)
		}
		return types.NewUnion(alts...)
	default:
		return t
	}
}

// findIllegalCycle runs a DFS from start over the alias reference graph
// (an edge name -> dep exists when dep's AliasData appears anywhere in
// name's body), in the same recursion-stack-and-path-slice shape as
// modules.go's detectCyclesDFS, tracking alongside the path whether each
// edge was reached only through structural constructors. It returns the
// offending cycle path, or nil if there is none (or every cycle found is
// legal).
func (r *Registry) findIllegalCycle(start string) []string {
	visited := make(map[string]bool)
	stackIndex := make(map[string]int)
	var path []string
	// pathStructural[i] records whether the edge taken to reach path[i]
	// passed through a structural constructor. A cycle closing back to
	// path[i] is legal iff some edge in pathStructural[i+1:], plus the
	// closing edge itself, is structural.
	var pathStructural []bool

	var visit func(name string, edgeStructural bool) []string
	visit = func(name string, edgeStructural bool) []string {
		if i, onStack := stackIndex[name]; onStack {
			for _, structural := range pathStructural[i+1:] {
				if structural {
					return nil
				}
			}
			if edgeStructural {
				return nil
			}
			cycle := append(append([]string{}, path[i:]...), name)
			return cycle
		}
		if visited[name] {
			return nil
		}

		sc, ok := r.schemes[name]
		if !ok {
			return nil
		}

		visited[name] = true
		stackIndex[name] = len(path)
		path = append(path, name)
		pathStructural = append(pathStructural, edgeStructural)

		for _, dep := range directAliasDeps(sc.body) {
			if cycle := visit(dep.name, dep.structural); cycle != nil {
				delete(stackIndex, name)
				path = path[:len(path)-1]
				pathStructural = pathStructural[:len(pathStructural)-1]
				return cycle
			}
		}

		delete(stackIndex, name)
		path = path[:len(path)-1]
		pathStructural = pathStructural[:len(pathStructural)-1]
		return nil
	}

	return visit(start, false)
}

type aliasDep struct {
	name       string
	structural bool
}

// directAliasDeps walks t collecting every alias name referenced anywhere
// within it, tagging each with whether the reference sits under a
// structural (lazy) constructor — function, record, or tuple — per
// §4.7: these "break the cycle because they are lazy under expansion". A
// reference reached directly, or only through a union/intersection (which
// are eagerly flattened, not lazy, and so never break a cycle), is
// tagged non-structural.
func directAliasDeps(t *types.Type) []aliasDep {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case types.KindAlias:
		d := t.Data.(types.AliasData)
		deps := []aliasDep{{name: d.Name, structural: false}}
		for _, a := range d.Args {
			deps = append(deps, directAliasDeps(a)...)
		}
		return deps
	case types.KindFunc:
		d := t.Data.(types.FuncData)
		var deps []aliasDep
		deps = append(deps, markStructural(directAliasDeps(d.Param))...)
		deps = append(deps, markStructural(directAliasDeps(d.Result))...)
		return deps
	case types.KindTuple:
		d := t.Data.(types.TupleData)
		var deps []aliasDep
		for _, e := range d.Elems {
			deps = append(deps, markStructural(directAliasDeps(e))...)
		}
		return deps
	case types.KindRecord:
		d := t.Data.(types.RecordData)
		var deps []aliasDep
		for _, f := range d.Fields {
			deps = append(deps, markStructural(directAliasDeps(f))...)
		}
		if d.Row != nil {
			deps = append(deps, markStructural(directAliasDeps(d.Row))...)
		}
		return deps
	case types.KindUnion:
		d := t.Data.(types.UnionData)
		var deps []aliasDep
		for _, a := range d.Alts {
			deps = append(deps, directAliasDeps(a)...)
		}
		return deps
	case types.KindIntersection:
		d := t.Data.(types.IntersectionData)
		var deps []aliasDep
		for _, m := range d.Members {
			deps = append(deps, directAliasDeps(m)...)
		}
		return deps
	default:
		return nil
	}
}

func markStructural(deps []aliasDep) []aliasDep {
	for i := range deps {
		deps[i].structural = true
	}
	return deps
}
