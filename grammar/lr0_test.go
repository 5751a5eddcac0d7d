package grammar

import (
	"testing"

	"github.com/okabe-lang/parsegen/grammar/symbol"
)

func TestGenLR0Automaton(t *testing.T) {
	_, prods := testGrammar(t, "E", [][]string{
		{"E", "E", "plus", "T"},
		{"E", "T"},
		{"T", "id"},
	})

	automaton, err := genLR0Automaton(prods, symbol.Start)
	if err != nil {
		t.Fatalf("genLR0Automaton: %v", err)
	}

	if len(automaton.states) == 0 {
		t.Fatalf("expected at least one state")
	}

	initial, ok := automaton.states[automaton.initialState]
	if !ok {
		t.Fatalf("initial state %v not found", automaton.initialState)
	}
	if len(initial.items) != 1 {
		t.Fatalf("initial kernel has %v items, want 1 (one start production)", len(initial.items))
	}
	if !initial.items[0].initial {
		t.Fatalf("initial kernel item is not marked initial")
	}

	for id, state := range automaton.states {
		if state.id != id {
			t.Fatalf("state stored under id %v reports its own id as %v", id, state.id)
		}
		for sym, nextID := range state.next {
			if _, ok := automaton.states[nextID]; !ok {
				t.Fatalf("state %v: GOTO on %v targets unknown state %v", state.num, sym, nextID)
			}
		}
	}
}

func TestGenLR0AutomatonRejectsNonStartSymbol(t *testing.T) {
	_, prods := testGrammar(t, "E", [][]string{
		{"E", "id"},
	})

	_, err := genLR0Automaton(prods, symbol.Nil)
	if err == nil {
		t.Fatalf("expected an error for a non-start symbol")
	}
}

func TestGenLR0AutomatonMultipleStartProductions(t *testing.T) {
	tab := symbol.NewTable()
	w := tab.Writer()
	r := tab.Reader()

	for _, nt := range []string{"A", "B"} {
		if _, err := w.RegisterNonTerminal(nt); err != nil {
			t.Fatalf("RegisterNonTerminal: %v", err)
		}
	}
	if _, err := w.RegisterTerminal("x"); err != nil {
		t.Fatalf("RegisterTerminal: %v", err)
	}
	if _, err := w.RegisterTerminal("y"); err != nil {
		t.Fatalf("RegisterTerminal: %v", err)
	}

	prods := newProductionSet()
	aSym, _ := r.ToSymbol("A")
	bSym, _ := r.ToSymbol("B")
	xSym, _ := r.ToSymbol("x")
	ySym, _ := r.ToSymbol("y")

	var startProds []*production
	for _, s := range []symbol.Symbol{aSym, bSym} {
		p, err := newProduction(symbol.Start, []symbol.Symbol{s, symbol.EndOfFile}, symbol.Nil, "")
		if err != nil {
			t.Fatalf("newProduction(start): %v", err)
		}
		prods.append(p)
		startProds = append(startProds, p)
	}
	pa, err := newProduction(aSym, []symbol.Symbol{xSym}, symbol.Nil, "")
	if err != nil {
		t.Fatalf("newProduction(A): %v", err)
	}
	prods.append(pa)
	pb, err := newProduction(bSym, []symbol.Symbol{ySym}, symbol.Nil, "")
	if err != nil {
		t.Fatalf("newProduction(B): %v", err)
	}
	prods.append(pb)

	automaton, err := genLR0Automaton(prods, symbol.Start)
	if err != nil {
		t.Fatalf("genLR0Automaton: %v", err)
	}

	initial := automaton.states[automaton.initialState]
	if len(initial.items) != 2 {
		t.Fatalf("initial kernel has %v items, want 2 (one per declared start nonterminal)", len(initial.items))
	}

	if startProds[0].num == startProds[1].num {
		t.Fatalf("both Start productions share productionNum %v; each declared start nonterminal needs a distinct id", startProds[0].num)
	}
	if pa.num == pb.num {
		t.Fatalf("user productions A→x and B→y unexpectedly share productionNum %v", pa.num)
	}

	for _, item := range initial.items {
		if item.dottedSymbol.IsTerminal() && item.dottedSymbol != symbol.EndOfFile {
			t.Fatalf("unexpected terminal dotted symbol in the initial kernel: %v", item.dottedSymbol)
		}
	}
}

// TestGenLR0AutomatonNeverGotosOnEndOfFile confirms EndOfFile is consumed
// by Accept, not by a GOTO transition: no state's next map ever has
// EndOfFile as a key, and the state holding [Start → s・EndOfFile] is
// marked accept instead.
func TestGenLR0AutomatonNeverGotosOnEndOfFile(t *testing.T) {
	_, prods := testGrammar(t, "E", [][]string{
		{"E", "id"},
	})

	automaton, err := genLR0Automaton(prods, symbol.Start)
	if err != nil {
		t.Fatalf("genLR0Automaton: %v", err)
	}

	sawAccept := false
	for _, state := range automaton.states {
		if _, ok := state.next[symbol.EndOfFile]; ok {
			t.Fatalf("state %v has a GOTO transition on EndOfFile; Accept must be emitted directly instead", state.num)
		}
		if state.accept {
			sawAccept = true
		}
	}
	if !sawAccept {
		t.Fatalf("no state in the automaton is marked accept")
	}
}
