package grammar

import (
	"fmt"

	"github.com/okabe-lang/parsegen/grammar/symbol"
)

type followEntry struct {
	symbols map[symbol.Symbol]struct{}
	eof     bool
}

func newFollowEntry() *followEntry {
	return &followEntry{
		symbols: map[symbol.Symbol]struct{}{},
	}
}

func (e *followEntry) add(sym symbol.Symbol) bool {
	if sym == symbol.EndOfFile {
		return e.addEOF()
	}
	if _, ok := e.symbols[sym]; ok {
		return false
	}
	e.symbols[sym] = struct{}{}
	return true
}

func (e *followEntry) addEOF() bool {
	if !e.eof {
		e.eof = true
		return true
	}
	return false
}

func (e *followEntry) merge(fst *firstEntry, flw *followEntry) bool {
	changed := false
	if fst != nil {
		for sym := range fst.symbols {
			if e.add(sym) {
				changed = true
			}
		}
	}
	if flw != nil {
		for sym := range flw.symbols {
			if e.add(sym) {
				changed = true
			}
		}
		if flw.eof && e.addEOF() {
			changed = true
		}
	}
	return changed
}

type followSet struct {
	set map[symbol.Symbol]*followEntry
}

func newFollow(prods *productionSet) *followSet {
	flw := &followSet{set: map[symbol.Symbol]*followEntry{}}
	for _, prod := range prods.getAllProductions() {
		if _, ok := flw.set[prod.lhs]; ok {
			continue
		}
		flw.set[prod.lhs] = newFollowEntry()
	}
	return flw
}

func (flw *followSet) find(sym symbol.Symbol) (*followEntry, error) {
	e, ok := flw.set[sym]
	if !ok {
		return nil, fmt.Errorf("an entry of FOLLOW was not found; symbol: %s", sym)
	}
	return e, nil
}

// genFollowSet computes FOLLOW over the augmented grammar by worklist
// fixpoint, per spec.md §4.6: the start nonterminal's FOLLOW always
// contains EndOfFile, and FOLLOW propagates through every occurrence of a
// nonterminal in a production's RHS.
func genFollowSet(prods *productionSet, first *firstSet) (*followSet, error) {
	flw := newFollow(prods)
	for {
		more := false
		for ntsym := range flw.set {
			e, err := flw.find(ntsym)
			if err != nil {
				return nil, err
			}
			if ntsym.IsStart() {
				if e.addEOF() {
					more = true
				}
			}
			for _, prod := range prods.getAllProductions() {
				for i, sym := range prod.rhs {
					if sym != ntsym {
						continue
					}
					fst, err := first.find(prod, i+1)
					if err != nil {
						return nil, err
					}
					if e.merge(fst, nil) {
						more = true
					}
					if fst.empty {
						flwOfLHS, err := flw.find(prod.lhs)
						if err != nil {
							return nil, err
						}
						if e.merge(nil, flwOfLHS) {
							more = true
						}
					}
				}
			}
		}
		if !more {
			break
		}
	}
	return flw, nil
}
