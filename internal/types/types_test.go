package types

import "testing"

func TestUnionCollapsesSingleton(t *testing.T) {
	u := NewUnion(NewLiteral("pending"))
	if u.Kind != KindLiteral {
		t.Errorf("expected singleton union to collapse to Literal, got %v", u.Kind)
	}
}

func TestUnionFlattensAndDedups(t *testing.T) {
	inner := NewUnion(NewLiteral("a"), NewLiteral("b"))
	u := NewUnion(inner, NewLiteral("b"), NewLiteral("c"))

	alts := u.Data.(UnionData).Alts
	if len(alts) != 3 {
		t.Fatalf("expected 3 deduplicated alternatives, got %d: %v", len(alts), u)
	}
}

func TestEqualsStructural(t *testing.T) {
	a := NewFunc(Int, String)
	b := NewFunc(Int, String)
	if !Equals(a, b) {
		t.Errorf("expected structurally identical functions to be equal")
	}

	c := NewFunc(Int, Bool)
	if Equals(a, c) {
		t.Errorf("expected functions with different codomains to differ")
	}
}

func TestEqualsVariablesByID(t *testing.T) {
	v1 := NewVar(1, 0)
	v2 := NewVar(1, 5) // same id, different level
	v3 := NewVar(2, 0)

	if !Equals(v1, v2) {
		t.Errorf("expected variables with the same id to be equal regardless of level")
	}
	if Equals(v1, v3) {
		t.Errorf("expected variables with different ids to differ")
	}
}

func TestEqualsRecordsIgnoreInsertionOrder(t *testing.T) {
	a := NewRecordClosed(map[string]*Type{"x": Int, "y": String})
	b := NewRecordClosed(map[string]*Type{"y": String, "x": Int})
	if !Equals(a, b) {
		t.Errorf("expected field maps to compare equal independent of insertion order")
	}
}

func TestEqualsOpenVsClosedRecordDiffer(t *testing.T) {
	row := NewVar(9, 0)
	open := NewRecordOpen(map[string]*Type{"x": Int}, row)
	closed := NewRecordClosed(map[string]*Type{"x": Int})
	if Equals(open, closed) {
		t.Errorf("expected an open record to differ from an otherwise identical closed record")
	}
}

func TestFreeVarsReachesIntoEveryVariant(t *testing.T) {
	row := NewVar(3, 0)
	rec := NewRecordOpen(map[string]*Type{"f": NewVar(1, 0)}, row)
	tup := NewTuple(rec, NewVar(2, 0))
	fn := NewFunc(tup, NewAlias("Foo", NewVar(4, 0)))

	fv := FreeVars(fn)
	for _, id := range []uint64{1, 2, 3, 4} {
		if _, ok := fv[id]; !ok {
			t.Errorf("expected variable %d to be free in %s", id, fn)
		}
	}
}

func TestStringRendersArrowAndRecord(t *testing.T) {
	fn := NewFunc(Int, String)
	if got, want := fn.String(), "Int -> String"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	row := NewNamedVar(1, 0, "rho")
	rec := NewRecordOpen(map[string]*Type{"x": Int}, row)
	if got, want := rec.String(), "{ x: Int | rho }"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestVarGenMonotoneAndSeeded(t *testing.T) {
	g := NewVarGen(100)
	a := g.Fresh(0)
	b := g.Fresh(0)

	av, _ := a.IsVar()
	bv, _ := b.IsVar()
	if av.ID == bv.ID {
		t.Errorf("expected distinct fresh ids, got %d twice", av.ID)
	}
	if av.ID <= 100 {
		t.Errorf("expected fresh ids to start above the seed 100, got %d", av.ID)
	}
}
