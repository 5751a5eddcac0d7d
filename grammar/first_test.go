package grammar

import (
	"testing"

	"github.com/okabe-lang/parsegen/grammar/symbol"
)

func exprGrammarRows() [][]string {
	return [][]string{
		{"E", "T", "E2"},
		{"E2", "plus", "T", "E2"},
		{"E2"},
		{"T", "F", "T2"},
		{"T2", "star", "F", "T2"},
		{"T2"},
		{"F", "id"},
		{"F", "l_paren", "E", "r_paren"},
	}
}

func symsOf(t *testing.T, r *symbol.Reader, names ...string) map[symbol.Symbol]struct{} {
	t.Helper()
	set := map[symbol.Symbol]struct{}{}
	for _, name := range names {
		sym, ok := r.ToSymbol(name)
		if !ok {
			t.Fatalf("symbol %q was not declared", name)
		}
		set[sym] = struct{}{}
	}
	return set
}

func assertSymbolSet(t *testing.T, label string, got map[symbol.Symbol]struct{}, want map[symbol.Symbol]struct{}) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: got %v entries, want %v (got=%v want=%v)", label, len(got), len(want), got, want)
	}
	for sym := range want {
		if _, ok := got[sym]; !ok {
			t.Fatalf("%s: missing %v", label, sym)
		}
	}
}

func TestGenFirstSet(t *testing.T) {
	tab, prods := testGrammar(t, "E", exprGrammarRows())
	r := tab.Reader()

	fst, err := genFirstSet(prods)
	if err != nil {
		t.Fatalf("genFirstSet: %v", err)
	}

	tests := []struct {
		nonTerm string
		want    map[symbol.Symbol]struct{}
		nullable bool
	}{
		{"F", symsOf(t, r, "id", "l_paren"), false},
		{"T2", symsOf(t, r, "star"), true},
		{"E2", symsOf(t, r, "plus"), true},
		{"T", symsOf(t, r, "id", "l_paren"), false},
		{"E", symsOf(t, r, "id", "l_paren"), false},
	}
	for _, tc := range tests {
		sym, ok := r.ToSymbol(tc.nonTerm)
		if !ok {
			t.Fatalf("symbol %q not declared", tc.nonTerm)
		}
		e := fst.findBySymbol(sym)
		if e == nil {
			t.Fatalf("FIRST(%v): no entry", tc.nonTerm)
		}
		assertSymbolSet(t, "FIRST("+tc.nonTerm+")", e.symbols, tc.want)
		if e.empty != tc.nullable {
			t.Fatalf("FIRST(%v).empty = %v, want %v", tc.nonTerm, e.empty, tc.nullable)
		}
		if fst.nullable(sym) != tc.nullable {
			t.Fatalf("nullable(%v) = %v, want %v", tc.nonTerm, fst.nullable(sym), tc.nullable)
		}
	}
}

func TestFirstSetNullableIsFalseForTerminals(t *testing.T) {
	tab, prods := testGrammar(t, "E", exprGrammarRows())
	r := tab.Reader()

	fst, err := genFirstSet(prods)
	if err != nil {
		t.Fatalf("genFirstSet: %v", err)
	}

	id, _ := r.ToSymbol("id")
	if fst.nullable(id) {
		t.Fatalf("nullable(id) = true, want false")
	}
}
