package grammar

import (
	"github.com/okabe-lang/parsegen/internal/diag"

	"github.com/okabe-lang/parsegen/grammar/symbol"
)

const precNone = -1

// precAndAssoc is the resolved precedence/associativity table spec.md
// §4.5 operates on: one precedence number and associativity per terminal
// (from declaration group order), and one derived precedence/
// associativity per production (from `%prec` override or rightmost
// terminal fallback).
type precAndAssoc struct {
	termPrec  map[symbol.Symbol]int
	termAssoc map[symbol.Symbol]Associativity

	prodPrec  map[productionID]int
	prodAssoc map[productionID]Associativity
}

func (pa *precAndAssoc) terminalPrecedence(sym symbol.Symbol) int {
	p, ok := pa.termPrec[sym]
	if !ok {
		return precNone
	}
	return p
}

func (pa *precAndAssoc) productionPrecedence(id productionID) int {
	p, ok := pa.prodPrec[id]
	if !ok {
		return precNone
	}
	return p
}

func (pa *precAndAssoc) productionAssociativity(id productionID) (Associativity, bool) {
	a, ok := pa.prodAssoc[id]
	return a, ok
}

// genPrecAndAssoc builds termPrec/termAssoc from the declared
// associativity groups in declaration order (each group gets the next
// precedence number, starting at 1, so later groups bind tighter), then
// derives prodPrec/prodAssoc per production: a `%prec X` override looks
// up X directly, otherwise the rightmost terminal of the rhs supplies
// the production's precedence, and a production with no terminal in its
// rhs has no precedence at all.
func genPrecAndAssoc(spec Specification, symReader *symbol.Reader, prods *productionSet) (*precAndAssoc, error) {
	pa := &precAndAssoc{
		termPrec:  map[symbol.Symbol]int{},
		termAssoc: map[symbol.Symbol]Associativity{},
		prodPrec:  map[productionID]int{},
		prodAssoc: map[productionID]Associativity{},
	}

	precN := 1
	for _, group := range spec.Associativities {
		for _, id := range group.IDs {
			sym, ok := symReader.ToSymbol(id)
			if !ok {
				continue
			}
			pa.termPrec[sym] = precN
			pa.termAssoc[sym] = group.Assoc
		}
		precN++
	}

	for _, prod := range prods.getAllProductions() {
		if !prod.precOverride.IsNil() {
			if p, ok := pa.termPrec[prod.precOverride]; ok {
				pa.prodPrec[prod.id] = p
				pa.prodAssoc[prod.id] = pa.termAssoc[prod.precOverride]
			}
			continue
		}

		for i := len(prod.rhs) - 1; i >= 0; i-- {
			sym := prod.rhs[i]
			if !sym.IsTerminal() {
				continue
			}
			if p, ok := pa.termPrec[sym]; ok {
				pa.prodPrec[prod.id] = p
				pa.prodAssoc[prod.id] = pa.termAssoc[sym]
			}
			break
		}
	}

	return pa, nil
}

// applyPrecedence implements spec.md §4.5: for every ACTION cell holding
// both a Shift and one or more Reduces, compare the shifted terminal's
// precedence against the reduced rule's precedence and keep only the
// winner. Reduce/Reduce conflicts are left untouched — they are resolved
// only by SLR(1)/LALR(1) restriction or, failing that, the residual
// default policy.
func applyPrecedence(tab *ParsingTable, prods *productionSet, pa *precAndAssoc, symTab *symbol.Table, bag *diag.Bag) *ParsingTable {
	out := tab.clone(tab.Kind)

	for state, row := range tab.action {
		for sym, acts := range row {
			var shifts, reduces []Action
			for _, a := range acts {
				switch a.Kind {
				case ActionKindShift, ActionKindAccept:
					shifts = append(shifts, a)
				case ActionKindReduce:
					reduces = append(reduces, a)
				}
			}
			if len(shifts) == 0 || len(reduces) == 0 {
				out.setActions(state, sym, acts)
				continue
			}

			symPrec := pa.terminalPrecedence(sym)

			var kept []Action
			kept = append(kept, shifts...)
			for _, r := range reduces {
				prod := prodByNum(prods, r.Prod)
				if prod == nil {
					kept = append(kept, r)
					continue
				}
				prodPrec := pa.productionPrecedence(prod.id)

				if symPrec == precNone || prodPrec == precNone {
					// At least one precedence is unknown: leave the
					// conflict for a later phase to resolve.
					kept = append(kept, shifts...)
					kept = append(kept, r)
					continue
				}

				switch {
				case prodPrec > symPrec:
					kept = dropShifts(kept)
					kept = append(kept, r)
				case prodPrec < symPrec:
					// shift already kept, drop this reduce (no-op: simply
					// don't append r).
				default:
					assoc := pa.termAssoc[sym]
					switch assoc {
					case AssocLeft:
						kept = dropShifts(kept)
						kept = append(kept, r)
					case AssocRight:
						// shift already kept; drop this reduce.
					case AssocNonAssoc:
						kept = dropShifts(kept)
						symText, _ := symTab.Reader().ToText(sym)
						bag.Warnf(diag.KindPrecedence, errNonAssocConflict, "state %v: non-associative operator %v used with production %v", state, symText, prod.num)
					}
				}
			}
			out.setActions(state, sym, dedupeActions(kept))
		}
	}

	return out
}

func dropShifts(acts []Action) []Action {
	var out []Action
	for _, a := range acts {
		if a.Kind != ActionKindShift && a.Kind != ActionKindAccept {
			out = append(out, a)
		}
	}
	return out
}

func dedupeActions(acts []Action) []Action {
	seen := map[Action]struct{}{}
	var out []Action
	for _, a := range acts {
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}
