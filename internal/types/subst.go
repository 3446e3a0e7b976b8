package types

// Substitution is a finite, immutable mapping from variable ids to types
// (§4.2). Extend returns a new value rather than mutating the receiver,
// matching §5's resource model: "substitutions are immutable values
// composed to form a new value."
type Substitution struct {
	mapping map[uint64]*Type
}

// Empty is the substitution with no mappings, the solver's starting point
// (§4.6 step 2).
func Empty() *Substitution {
	return &Substitution{mapping: make(map[uint64]*Type)}
}

// Lookup returns the type var id is mapped to, if any.
func (s *Substitution) Lookup(id uint64) (*Type, bool) {
	if s == nil {
		return nil, false
	}
	t, ok := s.mapping[id]
	return t, ok
}

// Len reports how many variables this substitution binds.
func (s *Substitution) Len() int {
	if s == nil {
		return 0
	}
	return len(s.mapping)
}

// Extend returns a new substitution identical to s but additionally
// mapping id to t. t is first rewritten by s itself so that the new image
// never contains a variable s already maps. Earlier images are not
// rewritten, so one of them may still name id; Apply follows such chains
// recursively, which keeps applying a substitution idempotent (invariant
// 1). Invariant 1 also forbids a variable mapping to itself; Extend is a
// no-op in that case.
func (s *Substitution) Extend(id uint64, t *Type) *Substitution {
	t = s.Apply(t)
	if v, ok := t.IsVar(); ok && v.ID == id {
		return s
	}

	next := make(map[uint64]*Type, s.Len()+1)
	for k, v := range s.mapping {
		next[k] = v
	}
	next[id] = t
	return &Substitution{mapping: next}
}

// Apply rewrites t by replacing every variable Apply finds a mapping for,
// recursively. Applying an alias reference's substitution rewrites only
// its argument list (§4.2: "it does not force expansion").
func (s *Substitution) Apply(t *Type) *Type {
	if s == nil || t == nil {
		return t
	}
	switch t.Kind {
	case KindVar:
		v := t.Data.(VarData)
		if mapped, ok := s.mapping[v.ID]; ok {
			return s.Apply(mapped)
		}
		return t
	case KindFunc:
		d := t.Data.(FuncData)
		param, result := s.Apply(d.Param), s.Apply(d.Result)
		if param == d.Param && result == d.Result {
			return t
		}
		return NewFunc(param, result)
	case KindTuple:
		d := t.Data.(TupleData)
		elems := make([]*Type, len(d.Elems))
		changed := false
		for i, e := range d.Elems {
			elems[i] = s.Apply(e)
			changed = changed || elems[i] != e
		}
		if !changed {
			return t
		}
		return &Type{Kind: KindTuple, Data: TupleData{Elems: elems}}
	case KindRecord:
		d := t.Data.(RecordData)
		fields := make(map[string]*Type, len(d.Fields))
		for k, v := range d.Fields {
			fields[k] = s.Apply(v)
		}
		var row *Type
		if d.Row != nil {
			row = s.Apply(d.Row)
		}
		return &Type{Kind: KindRecord, Data: RecordData{Fields: fields, Row: row}}
	case KindUnion:
		d := t.Data.(UnionData)
		alts := make([]*Type, len(d.Alts))
		for i, a := range d.Alts {
			alts[i] = s.Apply(a)
		}
		return NewUnion(alts...)
	case KindIntersection:
		d := t.Data.(IntersectionData)
		members := make([]*Type, len(d.Members))
		for i, m := range d.Members {
			members[i] = s.Apply(m)
		}
		return &Type{Kind: KindIntersection, Data: IntersectionData{Members: members}}
	case KindAlias:
		d := t.Data.(AliasData)
		args := make([]*Type, len(d.Args))
		for i, a := range d.Args {
			args[i] = s.Apply(a)
		}
		return &Type{Kind: KindAlias, Data: AliasData{Name: d.Name, Args: args}}
	default:
		return t
	}
}

// Compose produces a substitution semantically equal to "apply s1 first,
// then s2" (§4.2): s2 is mapped over the codomain of s1, then s2's own
// mappings that are not already in s1's domain are added. Composition is
// associative but not commutative.
func Compose(s2, s1 *Substitution) *Substitution {
	next := make(map[uint64]*Type, s1.Len()+s2.Len())
	for id, t := range s1.mapping {
		next[id] = s2.Apply(t)
	}
	for id, t := range s2.mapping {
		if _, ok := next[id]; !ok {
			next[id] = t
		}
	}
	return &Substitution{mapping: next}
}
