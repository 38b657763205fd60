package domain

import "testing"

func TestCanonicalKeyOrderIndependent(t *testing.T) {
	a := Labels{{"app", "api"}, {"env", "prod"}}
	b := Labels{{"env", "prod"}, {"app", "api"}}

	if a.CanonicalKey() != b.CanonicalKey() {
		t.Fatalf("equal label sets produced different keys: %q vs %q", a.CanonicalKey(), b.CanonicalKey())
	}
}

func TestCanonicalKeyLiteral(t *testing.T) {
	ls := Labels{{"b", "2"}, {"a", "1"}}
	if got, want := ls.CanonicalKey(), "a,1,b,2,"; got != want {
		t.Fatalf("expected key %q, got %q", want, got)
	}
}

func TestCanonicalKeyDistinctSets(t *testing.T) {
	a := Labels{{"app", "api"}, {"env", "prod"}}
	b := Labels{{"app", "api"}, {"env", "dev"}}

	if a.CanonicalKey() == b.CanonicalKey() {
		t.Fatalf("distinct label sets produced equal key %q", a.CanonicalKey())
	}
}

func TestCanonicalKeyEscaping(t *testing.T) {
	// Naive unescaped concatenation would render both of these as
	// "a,b,c,": one label with an embedded comma vs two plain labels.
	withComma := Labels{{"a", "b,c"}}
	plain := Labels{{"a", "b"}, {"c", ""}}

	if got, want := withComma.CanonicalKey(), `a,b\,c,`; got != want {
		t.Fatalf("expected escaped key %q, got %q", want, got)
	}
	if withComma.CanonicalKey() == plain.CanonicalKey() {
		t.Fatalf("escaping failed to separate colliding label sets")
	}

	backslash := Labels{{"k", `v\`}}
	if got, want := backslash.CanonicalKey(), `k,v\\,`; got != want {
		t.Fatalf("expected escaped key %q, got %q", want, got)
	}
}

func TestCanonicalKeyDuplicateKeys(t *testing.T) {
	// A repeated key stays in the grouping key even though the resolved
	// mapping keeps only the last value. Pinned: lists that differ only
	// in the shadowed duplicate value group into different streams.
	dup := Labels{{"k", "1"}, {"k", "2"}}
	if got, want := dup.CanonicalKey(), "k,1,k,2,"; got != want {
		t.Fatalf("expected key %q, got %q", want, got)
	}

	otherDup := Labels{{"k", "2"}, {"k", "2"}}
	if dup.CanonicalKey() == otherDup.CanonicalKey() {
		t.Fatalf("duplicate-key lists with different shadowed values must not share a key")
	}

	m := dup.Map()
	if len(m) != 1 || m["k"] != "2" {
		t.Fatalf("expected last-write-wins mapping {k:2}, got %v", m)
	}
}

func TestMapEmptyLabels(t *testing.T) {
	var ls Labels
	m := ls.Map()
	if m == nil {
		t.Fatal("Map must not return nil")
	}
	if len(m) != 0 {
		t.Fatalf("expected empty mapping, got %v", m)
	}
	if ls.CanonicalKey() != "" {
		t.Fatalf("expected empty canonical key, got %q", ls.CanonicalKey())
	}
}
