package grammar

import (
	"github.com/okabe-lang/parsegen/internal/diag"

	"github.com/okabe-lang/parsegen/grammar/symbol"
)

// PrecompilationState is the normalized, validated result of running a
// Specification through precompile(): every declared terminal and
// nonterminal registered in a symbol.Table, the resolved start symbols,
// and the set of dummy terminals (declared only via `%prec` or an
// associativity group, never as a real terminal) that must be excluded
// from the terminal alphabet backends see. It stays in the grammar
// package rather than a separate subpackage, the way the teacher keeps
// its GrammarBuilder directly in package grammar.
type PrecompilationState struct {
	symTab *symbol.Table

	startSymbols []symbol.Symbol
	dummyTerms   map[symbol.Symbol]struct{}
}

// precompile runs spec.md §4.1's validation rules over a Specification:
// declaration uniqueness, undeclared-symbol references, start-nonterminal
// requirements, associativity-group duplication, and dummy-terminal
// associativity requirements. It always runs to completion, accumulating
// every diagnostic into bag, per §7's propagation rule; the caller
// decides whether to continue only after this returns.
func precompile(spec Specification, bag *diag.Bag) *PrecompilationState {
	symTab := symbol.NewTable()
	w := symTab.Writer()

	declaredTerm := map[string]struct{}{}
	for _, decl := range spec.Terminals {
		for _, id := range decl.IDs {
			if _, ok := declaredTerm[id]; ok {
				bag.Errorf(diag.KindDeclaration, errDuplicateSymbol, "terminal %q declared more than once", id)
				continue
			}
			declaredTerm[id] = struct{}{}
			sym, err := w.RegisterTerminal(id)
			if err != nil {
				bag.Errorf(diag.KindDeclaration, err, "terminal %q", id)
				continue
			}
			if sym.IsNonTerminal() {
				bag.Errorf(diag.KindDeclaration, errDuplicateSymbol, "terminal %q already declared as a nonterminal", id)
			}
		}
	}

	declaredNonTerm := map[string]struct{}{}
	nonTermType := map[string]string{}
	for _, decl := range spec.NonTerminals {
		if _, ok := declaredNonTerm[decl.ID]; ok {
			bag.Errorf(diag.KindDeclaration, errDuplicateSymbol, "nonterminal %q declared more than once", decl.ID)
			continue
		}
		declaredNonTerm[decl.ID] = struct{}{}
		nonTermType[decl.ID] = decl.Type
		sym, err := w.RegisterNonTerminal(decl.ID)
		if err != nil {
			bag.Errorf(diag.KindDeclaration, err, "nonterminal %q", decl.ID)
			continue
		}
		if sym.IsTerminal() {
			bag.Errorf(diag.KindDeclaration, errDuplicateSymbol, "nonterminal %q already declared as a terminal", decl.ID)
		}
	}

	w.RegisterStart("")

	// assocIDs accumulates every id across every group; groupOfID records
	// which group index first claimed an id, so a later sighting in that
	// same group (a typo'd repeat) and a sighting in a different group
	// (a real conflicting declaration) get distinct severities.
	assocIDs := map[string]struct{}{}
	groupOfID := map[string]int{}
	for gi, group := range spec.Associativities {
		seenInGroup := map[string]struct{}{}
		for _, id := range group.IDs {
			if _, ok := seenInGroup[id]; ok {
				bag.Warnf(diag.KindPrecedence, errDuplicateAssocTerm, "terminal %q listed more than once in the same associativity group", id)
				continue
			}
			seenInGroup[id] = struct{}{}
			if firstGroup, ok := groupOfID[id]; ok && firstGroup != gi {
				bag.Errorf(diag.KindPrecedence, errDuplicateAssocTerm, "terminal %q conflicts with earlier declaration in an earlier associativity group", id)
				continue
			}
			groupOfID[id] = gi
			assocIDs[id] = struct{}{}
		}
	}

	precRefs := map[string]struct{}{}
	for _, prod := range spec.Productions {
		for _, alt := range prod.Alts {
			if alt.ImpersonatedPrecedence != "" {
				precRefs[alt.ImpersonatedPrecedence] = struct{}{}
			}
		}
	}

	dummyTerms := map[symbol.Symbol]struct{}{}
	for id := range assocIDs {
		if _, ok := declaredTerm[id]; ok {
			continue
		}
		if _, ok := declaredNonTerm[id]; ok {
			bag.Errorf(diag.KindPrecedence, errPrecTargetIsNonTerminal, "associativity group member %q", id)
			continue
		}
		sym, err := w.RegisterTerminal(id)
		if err != nil {
			bag.Errorf(diag.KindDeclaration, err, "dummy terminal %q", id)
			continue
		}
		dummyTerms[sym] = struct{}{}
	}
	for id := range precRefs {
		if _, ok := declaredNonTerm[id]; ok {
			bag.Errorf(diag.KindPrecedence, errPrecTargetIsNonTerminal, "%%prec target %q", id)
			continue
		}
		if _, ok := declaredTerm[id]; ok {
			continue
		}
		if _, ok := assocIDs[id]; !ok {
			bag.Errorf(diag.KindPrecedence, errDummyNoAssoc, "dummy terminal %q", id)
			continue
		}
	}

	r := symTab.Reader()

	if len(spec.StartingProductions) == 0 {
		bag.Errorf(diag.KindDeclaration, errNoStartProduction, "")
	}

	var startSymbols []symbol.Symbol
	seenStart := map[string]struct{}{}
	for _, id := range spec.StartingProductions {
		if _, ok := seenStart[id]; ok {
			bag.Warnf(diag.KindDeclaration, errDuplicateStart, "starting nonterminal %q", id)
			continue
		}
		seenStart[id] = struct{}{}

		sym, ok := r.ToSymbol(id)
		if !ok || !sym.IsNonTerminal() {
			bag.Errorf(diag.KindReference, errUndeclaredSymbol, "starting nonterminal %q", id)
			continue
		}
		if nonTermType[id] == "" {
			bag.Errorf(diag.KindDeclaration, errStartMissingType, "starting nonterminal %q", id)
			continue
		}
		startSymbols = append(startSymbols, sym)
	}

	for _, prod := range spec.Productions {
		if _, ok := r.ToSymbol(prod.LHS); !ok {
			bag.Errorf(diag.KindReference, errUndeclaredSymbol, "production head %q", prod.LHS)
			continue
		}
		for _, alt := range prod.Alts {
			for _, symID := range alt.Symbols {
				if _, ok := r.ToSymbol(symID); !ok {
					bag.Errorf(diag.KindReference, errUndeclaredSymbol, "symbol %q in production for %q", symID, prod.LHS)
				}
			}
			if alt.ImpersonatedPrecedence != "" {
				if _, ok := r.ToSymbol(alt.ImpersonatedPrecedence); !ok {
					bag.Errorf(diag.KindReference, errUndeclaredSymbol, "%%prec %q in production for %q", alt.ImpersonatedPrecedence, prod.LHS)
				}
			}
		}
	}

	reportUnusedSymbols(spec, r, startSymbols, dummyTerms, bag)

	return &PrecompilationState{
		symTab:       symTab,
		startSymbols: startSymbols,
		dummyTerms:   dummyTerms,
	}
}

// reportUnusedSymbols warns about a declared terminal that no production
// references, and a declared nonterminal unreachable (by BFS over
// production RHS symbols) from any starting nonterminal.
func reportUnusedSymbols(spec Specification, r *symbol.Reader, startSymbols []symbol.Symbol, dummyTerms map[symbol.Symbol]struct{}, bag *diag.Bag) {
	usedTerm := map[symbol.Symbol]struct{}{}
	rhsByLHS := map[symbol.Symbol][]symbol.Symbol{}

	for _, prod := range spec.Productions {
		lhs, ok := r.ToSymbol(prod.LHS)
		if !ok {
			continue
		}
		for _, alt := range prod.Alts {
			for _, symID := range alt.Symbols {
				sym, ok := r.ToSymbol(symID)
				if !ok {
					continue
				}
				if sym.IsTerminal() {
					usedTerm[sym] = struct{}{}
				}
				rhsByLHS[lhs] = append(rhsByLHS[lhs], sym)
			}
		}
	}

	for _, sym := range r.TerminalSymbols() {
		if sym.IsEOF() {
			continue
		}
		if _, isDummy := dummyTerms[sym]; isDummy {
			continue
		}
		if _, used := usedTerm[sym]; !used {
			text, _ := r.ToText(sym)
			bag.Warnf(diag.KindDeclaration, errUnusedTerminal, "terminal %q", text)
		}
	}

	reachable := map[symbol.Symbol]struct{}{}
	queue := append([]symbol.Symbol{}, startSymbols...)
	for len(queue) > 0 {
		sym := queue[0]
		queue = queue[1:]
		if _, ok := reachable[sym]; ok {
			continue
		}
		reachable[sym] = struct{}{}
		for _, next := range rhsByLHS[sym] {
			if next.IsNonTerminal() {
				queue = append(queue, next)
			}
		}
	}

	for _, sym := range r.NonTerminalSymbols() {
		if sym.IsStart() {
			continue
		}
		if _, ok := reachable[sym]; !ok {
			text, _ := r.ToText(sym)
			bag.Warnf(diag.KindDeclaration, errUnusedNonTerminal, "nonterminal %q", text)
		}
	}
}
