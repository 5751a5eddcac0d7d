package grammar

import (
	"fmt"
	"sort"

	"github.com/okabe-lang/parsegen/internal/diag"

	"github.com/okabe-lang/parsegen/grammar/symbol"
)

// ActionKind distinguishes the three ACTION cell contents spec.md §4.4
// names; ActionKindError is never itself stored in a cell (a cell that
// has nothing in it is the error case), it only names what
// Action.String prints for an Action of any other kind.
type ActionKind string

const (
	ActionKindShift  = ActionKind("shift")
	ActionKindReduce = ActionKind("reduce")
	ActionKindAccept = ActionKind("accept")
	ActionKindError  = ActionKind("error")
)

// Action is one member of an ACTION cell's set. A cell with more than one
// Action is, by spec.md §4.4's definition, a conflict.
type Action struct {
	Kind  ActionKind
	State stateNum     // valid when Kind == ActionKindShift
	Prod  productionNum // valid when Kind == ActionKindReduce
}

func (a Action) String() string {
	switch a.Kind {
	case ActionKindShift:
		return fmt.Sprintf("shift %v", a.State)
	case ActionKindReduce:
		return fmt.Sprintf("reduce %v", a.Prod)
	case ActionKindAccept:
		return "accept"
	default:
		return "error"
	}
}

// TableKind names which of the three snapshots a ParsingTable is, so the
// subset-law property spec.md §8 requires (SLR(1) ⊆ LR(0), LALR(1) ⊆
// SLR(1)) is a checkable fact about named values instead of something
// only true by construction accident.
type TableKind string

const (
	TableKindLR0   = TableKind("lr0")
	TableKindSLR1  = TableKind("slr1")
	TableKindLALR1 = TableKind("lalr1")
)

// Conflict is one ACTION cell whose set had more than one member before
// the residual default policy collapsed it.
type Conflict struct {
	State   stateNum
	Sym     symbol.Symbol
	Actions []Action
}

// ParsingTable is one named snapshot of the ACTION/GOTO tables. Cells are
// sparse maps keyed by (state, symbol) as spec.md §4.7 recommends, rather
// than the teacher's dense packed-int slices, because a cell must be able
// to hold more than one Action while conflicts are still unresolved.
type ParsingTable struct {
	Kind TableKind

	action map[stateNum]map[symbol.Symbol][]Action
	goTo   map[stateNum]map[symbol.Symbol]stateNum

	StateCount       int
	InitialState     stateNum
	Conflicts        []Conflict
	ResolvedConflicts []ResolvedConflict
}

// ResolvedConflict records a conflict the residual default policy (spec.md
// §4.7's final paragraph) collapsed, so a caller can turn it into a
// warning naming the state, token, and rule.
type ResolvedConflict struct {
	Conflict
	Kept Action
}

func newParsingTable(kind TableKind, stateCount int, initial stateNum) *ParsingTable {
	return &ParsingTable{
		Kind:         kind,
		action:       map[stateNum]map[symbol.Symbol][]Action{},
		goTo:         map[stateNum]map[symbol.Symbol]stateNum{},
		StateCount:   stateCount,
		InitialState: initial,
	}
}

func (t *ParsingTable) actions(state stateNum, sym symbol.Symbol) []Action {
	return t.action[state][sym]
}

func (t *ParsingTable) setActions(state stateNum, sym symbol.Symbol, acts []Action) {
	if t.action[state] == nil {
		t.action[state] = map[symbol.Symbol][]Action{}
	}
	if len(acts) == 0 {
		delete(t.action[state], sym)
		return
	}
	t.action[state][sym] = acts
}

func (t *ParsingTable) addAction(state stateNum, sym symbol.Symbol, act Action) {
	t.setActions(state, sym, append(t.action[state][sym], act))
}

// GoTo returns the state (GOTO(state, sym)), or false if undefined.
func (t *ParsingTable) GoTo(state stateNum, sym symbol.Symbol) (stateNum, bool) {
	s, ok := t.goTo[state][sym]
	return s, ok
}

func (t *ParsingTable) setGoTo(state stateNum, sym symbol.Symbol, next stateNum) {
	if t.goTo[state] == nil {
		t.goTo[state] = map[symbol.Symbol]stateNum{}
	}
	t.goTo[state][sym] = next
}

// Actions returns the ACTION cell (state, sym) exactly as built, before
// any residual-conflict resolution: a cell with len > 1 is a genuine
// conflict at this table's refinement level.
func (t *ParsingTable) Actions(state stateNum, sym symbol.Symbol) []Action {
	return t.action[state][sym]
}

// ActionsAt is Actions keyed by a plain state index, for callers outside
// this package that only ever see StateCount as an int (stateNum itself
// is not exported; a backend has no way to construct one otherwise).
func (t *ParsingTable) ActionsAt(state int, sym symbol.Symbol) []Action {
	return t.Actions(stateNum(state), sym)
}

// GoToAt is GoTo keyed by a plain state index; see ActionsAt.
func (t *ParsingTable) GoToAt(state int, sym symbol.Symbol) (int, bool) {
	next, ok := t.GoTo(stateNum(state), sym)
	return int(next), ok
}

// clone makes an independent copy an upgrade stage can filter without
// mutating the snapshot it was derived from.
func (t *ParsingTable) clone(kind TableKind) *ParsingTable {
	out := newParsingTable(kind, t.StateCount, t.InitialState)
	for s, row := range t.action {
		for sym, acts := range row {
			cp := make([]Action, len(acts))
			copy(cp, acts)
			out.setActions(s, sym, cp)
		}
	}
	for s, row := range t.goTo {
		for sym, next := range row {
			out.setGoTo(s, sym, next)
		}
	}
	return out
}

// buildLR0Table builds the unrestricted LR(0) table spec.md §4.4
// describes: a Reduce(r) on every terminal in the alphabet for every
// reducible, non-start item, Shift for every terminal transition, Accept
// for EndOfFile out of a `Start → s·EndOfFile` item.
func buildLR0Table(automaton *lr0Automaton, prods *productionSet, terminals []symbol.Symbol) (*ParsingTable, error) {
	initial := automaton.states[automaton.initialState]
	tab := newParsingTable(TableKindLR0, len(automaton.states), initial.num)

	for _, state := range automaton.states {
		if state.accept {
			tab.addAction(state.num, symbol.EndOfFile, Action{Kind: ActionKindAccept})
		}

		for sym, kID := range state.next {
			next, ok := automaton.states[kID]
			if !ok {
				return nil, fmt.Errorf("state not found: %v", kID)
			}
			if sym.IsTerminal() {
				tab.addAction(state.num, sym, Action{Kind: ActionKindShift, State: next.num})
			} else {
				tab.setGoTo(state.num, sym, next.num)
			}
		}

		for prodID := range state.reducible {
			prod, ok := prods.findByID(prodID)
			if !ok {
				return nil, fmt.Errorf("reducible production not found: %v", prodID)
			}
			for _, a := range terminals {
				tab.addAction(state.num, a, Action{Kind: ActionKindReduce, Prod: prod.num})
			}
		}
	}

	return tab, nil
}

// restrict derives a new, more refined table by keeping, for every
// reducible action in every cell, only the ones whose lookahead symbol is
// permitted by allowed(state, prod). Shift and Accept actions are never
// filtered: SLR(1)/LALR(1) only restrict reductions (spec.md §4.6, §4.7).
func restrict(tab *ParsingTable, prods *productionSet, kind TableKind, allowed func(state stateNum, prod *production) map[symbol.Symbol]struct{}) (*ParsingTable, error) {
	out := tab.clone(kind)
	for state, row := range tab.action {
		for sym, acts := range row {
			var kept []Action
			for _, act := range acts {
				if act.Kind != ActionKindReduce {
					kept = append(kept, act)
					continue
				}
				prod := prodByNum(prods, act.Prod)
				if prod == nil {
					return nil, fmt.Errorf("production not found: %v", act.Prod)
				}
				set := allowed(state, prod)
				if _, ok := set[sym]; ok {
					kept = append(kept, act)
				}
			}
			out.setActions(state, sym, kept)
		}
	}
	return out, nil
}

func prodByNum(prods *productionSet, num productionNum) *production {
	for _, prod := range prods.getAllProductions() {
		if prod.num == num {
			return prod
		}
	}
	return nil
}

// conflicts collects every cell with more than one action, in
// deterministic (state, then symbol) order.
func (t *ParsingTable) conflicts() []Conflict {
	var states []stateNum
	for s := range t.action {
		states = append(states, s)
	}
	sort.Slice(states, func(i, j int) bool { return states[i] < states[j] })

	var out []Conflict
	for _, s := range states {
		var syms []symbol.Symbol
		for sym := range t.action[s] {
			syms = append(syms, sym)
		}
		sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
		for _, sym := range syms {
			acts := t.action[s][sym]
			if len(acts) > 1 {
				out = append(out, Conflict{State: s, Sym: sym, Actions: acts})
			}
		}
	}
	return out
}

// resolveResidual applies spec.md §4.7's final-paragraph default policy
// to every remaining conflict in an LALR(1) table: keep Shift over
// Reduce, and among multiple Reduces keep the lowest ProductionRuleId.
// Every resolution is both recorded on the table and warned into bag.
func resolveResidual(tab *ParsingTable, symTab *symbol.Table, bag *diag.Bag) {
	for _, c := range tab.conflicts() {
		kept := defaultResolve(c.Actions)
		tab.setActions(c.State, c.Sym, []Action{kept})
		tab.ResolvedConflicts = append(tab.ResolvedConflicts, ResolvedConflict{Conflict: c, Kept: kept})

		symText, _ := symTab.Reader().ToText(c.Sym)
		bag.Warnf(diag.KindConflictResidue, errConflictResidue, "state %v: conflict on %v resolved by keeping %v", c.State, symText, kept)
	}
}

func defaultResolve(acts []Action) Action {
	best := acts[0]
	for _, a := range acts[1:] {
		if a.Kind == ActionKindShift || a.Kind == ActionKindAccept {
			if best.Kind != ActionKindShift && best.Kind != ActionKindAccept {
				best = a
			}
			continue
		}
		if best.Kind == ActionKindShift || best.Kind == ActionKindAccept {
			continue
		}
		if a.Prod < best.Prod {
			best = a
		}
	}
	return best
}
