package types

import "testing"

func TestSubstitutionApplyReplacesVariable(t *testing.T) {
	s := Empty().Extend(1, Int)
	v := NewVar(1, 0)

	if got := s.Apply(v); !Equals(got, Int) {
		t.Errorf("Apply(v) = %s, want Int", got)
	}
}

func TestSubstitutionApplyIsIdempotent(t *testing.T) {
	s := Empty().Extend(1, NewFunc(Int, Int))
	ty := NewTuple(NewVar(1, 0), String)

	once := s.Apply(ty)
	twice := s.Apply(once)

	if !Equals(once, twice) {
		t.Errorf("Apply is not idempotent: once=%s twice=%s", once, twice)
	}
}

func TestSubstitutionNeverMapsVariableToItself(t *testing.T) {
	s := Empty().Extend(1, NewVar(1, 0))
	if s.Len() != 0 {
		t.Errorf("expected Extend(1, var(1)) to be a no-op, got %d mappings", s.Len())
	}
}

func TestSubstitutionExtendChainsThroughExisting(t *testing.T) {
	// 1 -> 2, then 2 -> Int: the second Extend rewrites only its own
	// image through s, so the stored image of 1 is still var 2 (Apply
	// follows the chain on to Int).
	s := Empty().Extend(1, NewVar(2, 0))
	s = s.Extend(2, Int)

	got, ok := s.Lookup(1)
	if !ok || !Equals(got, NewVar(2, 0)) {
		t.Fatalf("expected var 1 to still map to var 2 (Extend only rewrites the new mapping), got %v", got)
	}
}

func TestComposeMatchesSequentialApplication(t *testing.T) {
	s1 := Empty().Extend(1, NewVar(2, 0))
	s2 := Empty().Extend(2, Int)

	composed := Compose(s2, s1)
	ty := NewVar(1, 0)

	want := s2.Apply(s1.Apply(ty))
	got := composed.Apply(ty)

	if !Equals(got, want) {
		t.Errorf("Compose(s2,s1).Apply(ty) = %s, want %s", got, want)
	}
}

func TestComposeKeepsUnconflictingS2Mappings(t *testing.T) {
	s1 := Empty().Extend(1, Int)
	s2 := Empty().Extend(3, String)

	composed := Compose(s2, s1)

	if got, ok := composed.Lookup(1); !ok || !Equals(got, Int) {
		t.Errorf("expected composed substitution to retain s1's mapping for 1")
	}
	if got, ok := composed.Lookup(3); !ok || !Equals(got, String) {
		t.Errorf("expected composed substitution to retain s2's mapping for 3")
	}
}

func TestApplyOnAliasOnlyRewritesArgs(t *testing.T) {
	s := Empty().Extend(1, Int)
	alias := NewAlias("Box", NewVar(1, 0))

	got := s.Apply(alias)
	if got.Kind != KindAlias {
		t.Fatalf("expected Apply on an alias reference to stay an alias reference, got %v", got.Kind)
	}
	args := got.Data.(AliasData).Args
	if !Equals(args[0], Int) {
		t.Errorf("expected alias argument to be rewritten to Int, got %s", args[0])
	}
}
