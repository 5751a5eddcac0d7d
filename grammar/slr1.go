package grammar

import (
	"github.com/okabe-lang/parsegen/grammar/symbol"
)

// genSLR1Table implements spec.md §4.6's restriction: replace each
// Reduce(r) on (s, a) by Reduce(r) only if a ∈ FOLLOW(head(r)). Grounded
// on follow.go's worklist fixpoint for the FOLLOW sets themselves; the
// restriction loop takes the same shape as the teacher's
// slrTableBuilder.build, reimplemented against the shared ParsingTable
// snapshot rather than a dedicated mutable table.
func genSLR1Table(lr0Table *ParsingTable, prods *productionSet, flw *followSet) (*ParsingTable, error) {
	return restrict(lr0Table, prods, TableKindSLR1, func(_ stateNum, prod *production) map[symbol.Symbol]struct{} {
		e, err := flw.find(prod.lhs)
		if err != nil {
			return nil
		}
		set := map[symbol.Symbol]struct{}{}
		for sym := range e.symbols {
			set[sym] = struct{}{}
		}
		if e.eof {
			set[symbol.EndOfFile] = struct{}{}
		}
		return set
	})
}
