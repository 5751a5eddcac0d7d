package grammar

import (
	"github.com/okabe-lang/parsegen/internal/diag"

	"github.com/okabe-lang/parsegen/grammar/symbol"
)

// augment implements spec.md §4.3: wraps every validated production as a
// production.go production, and for each declared start nonterminal s
// adds `Start → s EndOfFile`. Grounded on symbol.Symbol's Start/EndOfFile
// constants and on productionSet.append's num assignment (every appended
// production, start or not, gets the next number off the same counter,
// so two starting productions never collide on one shared number).
func augment(spec Specification, st *PrecompilationState, bag *diag.Bag) *productionSet {
	prods := newProductionSet()
	r := st.symTab.Reader()

	for _, s := range st.startSymbols {
		prod, err := newProduction(symbol.Start, []symbol.Symbol{s, symbol.EndOfFile}, symbol.Nil, "")
		if err != nil {
			bag.Errorf(diag.KindGrammar, err, "starting production for %v", s)
			continue
		}
		prods.append(prod)
	}

	for _, decl := range spec.Productions {
		lhs, ok := r.ToSymbol(decl.LHS)
		if !ok {
			continue
		}
		for _, alt := range decl.Alts {
			rhs := make([]symbol.Symbol, 0, len(alt.Symbols))
			ok := true
			for _, id := range alt.Symbols {
				sym, found := r.ToSymbol(id)
				if !found {
					ok = false
					break
				}
				rhs = append(rhs, sym)
			}
			if !ok {
				continue
			}

			precOverride := symbol.Nil
			if alt.ImpersonatedPrecedence != "" {
				sym, found := r.ToSymbol(alt.ImpersonatedPrecedence)
				if found {
					precOverride = sym
				}
			}

			prod, err := newProduction(lhs, rhs, precOverride, alt.Action)
			if err != nil {
				bag.Errorf(diag.KindGrammar, err, "production for %v", decl.LHS)
				continue
			}
			prods.append(prod)
		}
	}

	return prods
}
