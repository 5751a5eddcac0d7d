package grammar

import (
	"testing"

	"github.com/okabe-lang/parsegen/grammar/symbol"
)

// testGrammar builds a productionSet directly from symbolic production
// rows, bypassing any source-text syntax (the grammar file's own parser
// is an external collaborator this package never depends on). Each row
// is `lhs, rhs...`; an empty rhs slice is an empty production. start
// names the single nonterminal to augment with `Start → start EndOfFile`.
func testGrammar(t *testing.T, start string, rows [][]string) (*symbol.Table, *productionSet) {
	t.Helper()

	tab := symbol.NewTable()
	w := tab.Writer()
	r := tab.Reader()

	nonTerms := map[string]struct{}{}
	for _, row := range rows {
		nonTerms[row[0]] = struct{}{}
	}
	for name := range nonTerms {
		if _, err := w.RegisterNonTerminal(name); err != nil {
			t.Fatalf("RegisterNonTerminal(%q): %v", name, err)
		}
	}

	for _, row := range rows {
		for _, sym := range row[1:] {
			if _, ok := nonTerms[sym]; ok {
				continue
			}
			if _, ok := r.ToSymbol(sym); ok {
				continue
			}
			if _, err := w.RegisterTerminal(sym); err != nil {
				t.Fatalf("RegisterTerminal(%q): %v", sym, err)
			}
		}
	}

	prods := newProductionSet()

	startSym, ok := r.ToSymbol(start)
	if !ok {
		t.Fatalf("start nonterminal %q was not declared by any row", start)
	}
	startProd, err := newProduction(symbol.Start, []symbol.Symbol{startSym, symbol.EndOfFile}, symbol.Nil, "")
	if err != nil {
		t.Fatalf("newProduction(start): %v", err)
	}
	prods.append(startProd)

	for _, row := range rows {
		lhs, _ := r.ToSymbol(row[0])
		var rhs []symbol.Symbol
		for _, symName := range row[1:] {
			sym, _ := r.ToSymbol(symName)
			rhs = append(rhs, sym)
		}
		prod, err := newProduction(lhs, rhs, symbol.Nil, "")
		if err != nil {
			t.Fatalf("newProduction(%v): %v", row, err)
		}
		prods.append(prod)
	}

	return tab, prods
}
