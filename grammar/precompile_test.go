package grammar

import (
	"testing"

	"github.com/okabe-lang/parsegen/internal/diag"
)

func findCause(diags []*diag.Diagnostic, cause error) (*diag.Diagnostic, bool) {
	for _, d := range diags {
		if d.Cause == cause {
			return d, true
		}
	}
	return nil, false
}

func TestPrecompileWithinGroupDuplicateIsWarning(t *testing.T) {
	bag := &diag.Bag{}
	spec := Specification{
		Terminals:           []TerminalDecl{{IDs: []string{"PLUS"}}},
		NonTerminals:        []NonTerminalDecl{{ID: "E", Type: "int"}},
		StartingProductions: []string{"E"},
		Associativities: []AssociativityDecl{
			{Assoc: AssocLeft, IDs: []string{"PLUS", "PLUS"}},
		},
	}

	precompile(spec, bag)

	d, ok := findCause(bag.All(), errDuplicateAssocTerm)
	if !ok {
		t.Fatalf("expected errDuplicateAssocTerm among diagnostics, got %v", bag.All())
	}
	if d.Severity != diag.SeverityWarning {
		t.Fatalf("within-group duplicate should be a warning, got %v", d.Severity)
	}
	if bag.HasErrors() {
		t.Fatalf("within-group duplicate must not be fatal, got %v", bag.All())
	}
}

func TestPrecompileCrossGroupDuplicateIsError(t *testing.T) {
	bag := &diag.Bag{}
	spec := Specification{
		Terminals:           []TerminalDecl{{IDs: []string{"PLUS"}}},
		NonTerminals:        []NonTerminalDecl{{ID: "E", Type: "int"}},
		StartingProductions: []string{"E"},
		Associativities: []AssociativityDecl{
			{Assoc: AssocLeft, IDs: []string{"PLUS"}},
			{Assoc: AssocRight, IDs: []string{"PLUS"}},
		},
	}

	precompile(spec, bag)

	d, ok := findCause(bag.All(), errDuplicateAssocTerm)
	if !ok {
		t.Fatalf("expected errDuplicateAssocTerm among diagnostics, got %v", bag.All())
	}
	if d.Severity != diag.SeverityError {
		t.Fatalf("cross-group duplicate should be an error, got %v", d.Severity)
	}
}

func TestPrecompileRedeclaringNonTerminalAsTerminalFails(t *testing.T) {
	bag := &diag.Bag{}
	spec := Specification{
		Terminals:           []TerminalDecl{{IDs: []string{"X"}}},
		NonTerminals:        []NonTerminalDecl{{ID: "X", Type: "int"}},
		StartingProductions: []string{"X"},
	}

	precompile(spec, bag)

	if _, ok := findCause(bag.All(), errDuplicateSymbol); !ok {
		t.Fatalf("expected errDuplicateSymbol for a name declared both ways, got %v", bag.All())
	}
}

func TestPrecompilePrecTargetMustNotBeNonTerminal(t *testing.T) {
	bag := &diag.Bag{}
	spec := Specification{
		Terminals:    []TerminalDecl{{IDs: []string{"MINUS"}}},
		NonTerminals: []NonTerminalDecl{{ID: "E", Type: "int"}, {ID: "UMINUS"}},
		Productions: []ProductionDecl{
			{LHS: "E", Alts: []AltDecl{
				{Symbols: []string{"MINUS", "E"}, ImpersonatedPrecedence: "UMINUS"},
			}},
		},
		StartingProductions: []string{"E"},
	}

	precompile(spec, bag)

	if _, ok := findCause(bag.All(), errPrecTargetIsNonTerminal); !ok {
		t.Fatalf("expected errPrecTargetIsNonTerminal, got %v", bag.All())
	}
}

func TestPrecompileStartingNonTerminalRequiresType(t *testing.T) {
	bag := &diag.Bag{}
	spec := Specification{
		NonTerminals:        []NonTerminalDecl{{ID: "E"}},
		StartingProductions: []string{"E"},
	}

	precompile(spec, bag)

	if _, ok := findCause(bag.All(), errStartMissingType); !ok {
		t.Fatalf("expected errStartMissingType, got %v", bag.All())
	}
}

func TestPrecompileDuplicateStartIsWarning(t *testing.T) {
	bag := &diag.Bag{}
	spec := Specification{
		NonTerminals:        []NonTerminalDecl{{ID: "E", Type: "int"}},
		StartingProductions: []string{"E", "E"},
	}

	st := precompile(spec, bag)

	d, ok := findCause(bag.All(), errDuplicateStart)
	if !ok {
		t.Fatalf("expected errDuplicateStart, got %v", bag.All())
	}
	if d.Severity != diag.SeverityWarning {
		t.Fatalf("duplicate %%start should be a warning, got %v", d.Severity)
	}
	if len(st.startSymbols) != 1 {
		t.Fatalf("expected the duplicate start entry to be added only once, got %v", st.startSymbols)
	}
}
