package grammar

import (
	"fmt"

	"github.com/okabe-lang/parsegen/internal/diag"
	"github.com/okabe-lang/parsegen/internal/digraph"

	"github.com/okabe-lang/parsegen/grammar/symbol"
)

// transition names a vertex of both the reads and includes digraphs: a
// GOTO edge out of a state labeled by a nonterminal, per spec.md §4.7's
// `t = (s, A)` notation.
type transition struct {
	state kernelID
	sym   symbol.Symbol
}

type lalr1Automaton struct {
	*lr0Automaton

	// la holds the lookahead set assigned to each reducible production in
	// each state, keyed the same way lrState.reducible is.
	la map[kernelID]map[productionID]map[symbol.Symbol]struct{}
}

// genLALR1Automaton upgrades an LR(0) automaton to LALR(1) using the
// DeRemer-Pennello Read/Includes/Lookback/Follow construction of spec.md
// §4.7. A non-trivial SCC with a non-empty Read set discovered while
// solving the reads relation means the grammar is not LR(k) for any k;
// that is reported as a fatal diagnostic rather than returned as an
// error, since it is a property of the grammar, not a bug in the
// construction. Cycles in the includes relation are ordinary (e.g.
// E → E + E) and are not reported.
func genLALR1Automaton(lr0 *lr0Automaton, prods *productionSet, first *firstSet, bag *diag.Bag) (*lalr1Automaton, error) {
	transitions := collectTransitions(lr0)

	readResult := digraph.Solve(transitions, func(t transition) []transition {
		return readsRelation(t, lr0, first)
	}, func(t transition) map[symbol.Symbol]struct{} {
		return directRead(t, lr0)
	})
	reportNonLALR(readResult, bag)

	includeResult := digraph.Solve(transitions, func(t transition) []transition {
		return includesRelation(t, lr0, prods, first)
	}, func(t transition) map[symbol.Symbol]struct{} {
		return readResult.F[t]
	})

	la := map[kernelID]map[productionID]map[symbol.Symbol]struct{}{}
	for _, state := range lr0.states {
		if len(state.reducible) == 0 {
			continue
		}
		prodLA := map[productionID]map[symbol.Symbol]struct{}{}
		for prodID := range state.reducible {
			prod, ok := prods.findByID(prodID)
			if !ok {
				return nil, fmt.Errorf("production not found: %v", prodID)
			}
			set := map[symbol.Symbol]struct{}{}
			for _, lb := range lookback(state, prod, lr0) {
				for a := range includeResult.F[lb] {
					set[a] = struct{}{}
				}
			}
			prodLA[prodID] = set
		}
		la[state.id] = prodLA
	}

	return &lalr1Automaton{lr0Automaton: lr0, la: la}, nil
}

func reportNonLALR(res *digraph.Result[transition, symbol.Symbol], bag *diag.Bag) {
	for _, scc := range res.SCC {
		bag.Errorf(diag.KindGrammar, errNotLALR, "non-trivial cycle of size %d in the lookahead relation", len(scc.Members))
	}
}

func collectTransitions(lr0 *lr0Automaton) []transition {
	var ts []transition
	for _, state := range lr0.states {
		for sym := range state.next {
			if sym.IsTerminal() {
				continue
			}
			ts = append(ts, transition{state: state.id, sym: sym})
		}
	}
	return ts
}

// directRead computes DR(t) for t = (s, A): the terminals that GOTO(s, A)
// can shift, plus EndOfFile when GOTO(s, A) accepts.
func directRead(t transition, lr0 *lr0Automaton) map[symbol.Symbol]struct{} {
	set := map[symbol.Symbol]struct{}{}
	target, ok := lr0.states[lr0.states[t.state].next[t.sym]]
	if !ok {
		return set
	}
	if target.accept {
		set[symbol.EndOfFile] = struct{}{}
	}
	for sym := range target.next {
		if sym.IsTerminal() {
			set[sym] = struct{}{}
		}
	}
	return set
}

// readsRelation computes every t' with t reads t': t' = (GOTO(s,A), B) for
// a nullable nonterminal B with a transition out of that state.
func readsRelation(t transition, lr0 *lr0Automaton, first *firstSet) []transition {
	var out []transition
	target, ok := lr0.states[lr0.states[t.state].next[t.sym]]
	if !ok {
		return out
	}
	for sym := range target.next {
		if sym.IsTerminal() {
			continue
		}
		if first.nullable(sym) {
			out = append(out, transition{state: target.id, sym: sym})
		}
	}
	return out
}

// includesRelation computes every t'' with t includes t'': t = (s, A),
// t'' = (s', B) where some production B → βAγ has γ nullable and tracing
// β from s' lands at s.
func includesRelation(t transition, lr0 *lr0Automaton, prods *productionSet, first *firstSet) []transition {
	var out []transition
	for _, prod := range prods.getAllProductions() {
		for i, sym := range prod.rhs {
			if sym != t.sym {
				continue
			}
			if !sentNullable(first, prod, i+1) {
				continue
			}
			beta := prod.rhs[:i]
			for _, s2 := range lr0.states {
				dst, ok := followPath(lr0, s2.id, beta)
				if ok && dst == t.state {
					if _, ok := s2.next[prod.lhs]; ok {
						out = append(out, transition{state: s2.id, sym: prod.lhs})
					}
				}
			}
		}
	}
	return out
}

// lookback returns every state p with (q, prod) lookback (p, prod.lhs):
// tracing prod.rhs from p lands at q (the state owning the reducible
// item).
func lookback(q *lrState, prod *production, lr0 *lr0Automaton) []transition {
	var out []transition
	for _, p := range lr0.states {
		dst, ok := followPath(lr0, p.id, prod.rhs)
		if ok && dst == q.id {
			out = append(out, transition{state: p.id, sym: prod.lhs})
		}
	}
	return out
}

// followPath traces GOTO through syms starting at start, returning the
// resulting state id, or ok=false if any step is undefined.
func followPath(lr0 *lr0Automaton, start kernelID, syms []symbol.Symbol) (kernelID, bool) {
	cur := start
	for _, sym := range syms {
		state, ok := lr0.states[cur]
		if !ok {
			return kernelID{}, false
		}
		next, ok := state.next[sym]
		if !ok {
			return kernelID{}, false
		}
		cur = next
	}
	return cur, true
}

// genLALR1Table implements spec.md §4.7's final restriction step:
// replace each Reduce(r) on (s, a) by Reduce(r) only if a ∈ LA(s, r).
func genLALR1Table(slr1Table *ParsingTable, prods *productionSet, lalr1 *lalr1Automaton) (*ParsingTable, error) {
	byNum := map[stateNum]kernelID{}
	for kID, s := range lalr1.states {
		byNum[s.num] = kID
	}
	return restrict(slr1Table, prods, TableKindLALR1, func(state stateNum, prod *production) map[symbol.Symbol]struct{} {
		return lalr1.la[byNum[state]][prod.id]
	})
}

// sentNullable reports whether every symbol of prod.rhs from index head
// onward is nullable (the empty suffix counts as nullable).
func sentNullable(first *firstSet, prod *production, head int) bool {
	for _, sym := range prod.rhs[head:] {
		if !first.nullable(sym) {
			return false
		}
	}
	return true
}
