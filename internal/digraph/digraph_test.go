package digraph

import (
	"reflect"
	"sort"
	"testing"
)

func sorted(m map[string]struct{}) []string {
	var out []string
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func TestSolveLinearChain(t *testing.T) {
	// a -> b -> c, each seeded with its own name.
	rel := map[string][]string{
		"a": {"b"},
		"b": {"c"},
		"c": {},
	}
	seeds := map[string]map[string]struct{}{
		"a": {"a": {}},
		"b": {"b": {}},
		"c": {"c": {}},
	}
	res := Solve([]string{"a", "b", "c"}, func(x string) []string { return rel[x] }, func(x string) map[string]struct{} { return seeds[x] })

	if got := sorted(res.F["a"]); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("F(a) = %v, want [a b c]", got)
	}
	if got := sorted(res.F["b"]); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Fatalf("F(b) = %v, want [b c]", got)
	}
	if got := sorted(res.F["c"]); !reflect.DeepEqual(got, []string{"c"}) {
		t.Fatalf("F(c) = %v, want [c]", got)
	}
	if len(res.SCC) != 0 {
		t.Fatalf("expected no SCCs in a DAG, got %v", res.SCC)
	}
}

func TestSolveDiamond(t *testing.T) {
	// a -> b, a -> c, b -> d, c -> d.
	rel := map[string][]string{
		"a": {"b", "c"},
		"b": {"d"},
		"c": {"d"},
		"d": {},
	}
	seeds := map[string]map[string]struct{}{
		"a": {},
		"b": {"b": {}},
		"c": {"c": {}},
		"d": {"d": {}},
	}
	res := Solve([]string{"a", "b", "c", "d"}, func(x string) []string { return rel[x] }, func(x string) map[string]struct{} { return seeds[x] })

	if got := sorted(res.F["a"]); !reflect.DeepEqual(got, []string{"b", "c", "d"}) {
		t.Fatalf("F(a) = %v, want [b c d]", got)
	}
}

func TestSolveNonTrivialSCCWithEmptyReadIsNotReported(t *testing.T) {
	// a <-> b, both empty seeds: SCC exists but must not be reported
	// because its Read set is empty.
	rel := map[string][]string{
		"a": {"b"},
		"b": {"a"},
	}
	seeds := map[string]map[string]struct{}{
		"a": {},
		"b": {},
	}
	res := Solve([]string{"a", "b"}, func(x string) []string { return rel[x] }, func(x string) map[string]struct{} { return seeds[x] })
	if len(res.SCC) != 0 {
		t.Fatalf("expected no reported SCC for an empty-Read cycle, got %v", res.SCC)
	}
}

func TestSolveNonTrivialSCCWithNonEmptyReadIsFatal(t *testing.T) {
	// a <-> b <-> c, b seeded: a non-trivial SCC with a non-empty union
	// is exactly the "not LR(k) for any k" condition from spec §4.7.
	rel := map[string][]string{
		"a": {"b"},
		"b": {"c"},
		"c": {"a"},
	}
	seeds := map[string]map[string]struct{}{
		"a": {},
		"b": {"X": {}},
		"c": {},
	}
	res := Solve([]string{"a", "b", "c"}, func(x string) []string { return rel[x] }, func(x string) map[string]struct{} { return seeds[x] })

	if len(res.SCC) != 1 {
		t.Fatalf("expected exactly one reported SCC, got %v", res.SCC)
	}
	members := append([]string{}, res.SCC[0].Members...)
	sort.Strings(members)
	if !reflect.DeepEqual(members, []string{"a", "b", "c"}) {
		t.Fatalf("SCC members = %v, want [a b c]", members)
	}
	// Every member of a non-trivial SCC shares the same final F.
	if !reflect.DeepEqual(sorted(res.F["a"]), sorted(res.F["b"])) || !reflect.DeepEqual(sorted(res.F["b"]), sorted(res.F["c"])) {
		t.Fatalf("SCC members should share F: a=%v b=%v c=%v", res.F["a"], res.F["b"], res.F["c"])
	}
}

func TestSolveCrossEdgeToFinishedComponentDoesNotMergeComponents(t *testing.T) {
	// a -> b, a -> c, c -> b. b finishes as its own trivial component
	// before c's edge to it is considered; c must not be folded into
	// b's (already closed) component.
	rel := map[string][]string{
		"a": {"b", "c"},
		"b": {},
		"c": {"b"},
	}
	seeds := map[string]map[string]struct{}{
		"a": {},
		"b": {"b": {}},
		"c": {"c": {}},
	}
	res := Solve([]string{"a", "b", "c"}, func(x string) []string { return rel[x] }, func(x string) map[string]struct{} { return seeds[x] })
	if len(res.SCC) != 0 {
		t.Fatalf("expected no SCCs, got %v", res.SCC)
	}
	if got := sorted(res.F["c"]); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Fatalf("F(c) = %v, want [b c]", got)
	}
}
