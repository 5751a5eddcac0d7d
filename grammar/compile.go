package grammar

import (
	"fmt"

	"github.com/okabe-lang/parsegen/internal/diag"

	"github.com/okabe-lang/parsegen/grammar/symbol"
)

// CompileOption configures one aspect of a compile.
type CompileOption func(*compileOptions)

type compileOptions struct {
	descriptionFileName string
	class               TableKind
}

// EnableDescription asks CompileSpecification to record fileName on the
// result so a driver knows where the caller wants a human-readable report
// of the compiled tables written; the core itself never writes the file,
// since rendering a report is a backend's job (spec.md §6).
func EnableDescription(fileName string) CompileOption {
	return func(cfg *compileOptions) {
		cfg.descriptionFileName = fileName
	}
}

// SpecifyClass selects which of the three named table snapshots
// CompileResult.ParserTable is: TableKindLR0 and TableKindSLR1 are
// useful for inspecting exactly where a grammar needed the LALR(1)
// upgrade to become conflict-free. Defaults to TableKindLALR1.
func SpecifyClass(class TableKind) CompileOption {
	return func(cfg *compileOptions) {
		cfg.class = class
	}
}

// ProcessedSpec carries what the precompiler and precedence phase
// actually resolved: the terminal/nonterminal alphabet exposed to
// backends (dummy, %prec-only terminals excluded), their declared types,
// and the precedence table that was applied.
type ProcessedSpec struct {
	Terminals        []string
	NonTerminals     []string
	TerminalTypes    map[string]string
	NonTerminalTypes map[string]string

	// Productions renders every augmented production as "LHS → RHS...",
	// in productionNum order, for backends that print a grammar listing
	// (e.g. the describe backend) without needing the unexported productionSet.
	Productions []string

	// SymbolTable lets a backend turn a terminal/nonterminal name back
	// into the symbol.Symbol a ParsingTable cell is keyed on.
	SymbolTable *symbol.Table
}

// CompileResult bundles the final LALR(1) ACTION/GOTO table with the
// intermediate LR(0) and SLR(1) snapshots (so a caller, or a test, can
// check spec.md §8's subset-law property directly) and the resolved
// specification.
type CompileResult struct {
	ParserTable *ParsingTable
	LR0Table    *ParsingTable
	SLR1Table   *ParsingTable

	ProcessedSpec *ProcessedSpec
	Warnings      []*diag.Diagnostic

	SymbolTable *symbol.Table
	Productions *productionSet

	// DescriptionFileName is set when the caller passed EnableDescription;
	// a driver should treat a non-empty value as a request to render a
	// report of ParserTable to that path via a description backend.
	DescriptionFileName string
}

// CompileSpecification runs spec.md §6's full pipeline: precompile,
// augment, LR(0) construction, precedence application, SLR(1)
// restriction, LALR(1) upgrade, and residual-conflict resolution. It
// returns either a populated CompileResult with only warnings, or a nil
// result alongside every diagnostic recorded and a non-nil error.
func CompileSpecification(spec Specification, opts ...CompileOption) (*CompileResult, []*diag.Diagnostic, error) {
	cfg := &compileOptions{class: TableKindLALR1}
	for _, opt := range opts {
		opt(cfg)
	}

	bag := &diag.Bag{}

	st := precompile(spec, bag)
	if bag.HasErrors() {
		return nil, bag.All(), fmt.Errorf("precompilation failed")
	}

	prods := augment(spec, st, bag)
	if bag.HasErrors() {
		return nil, bag.All(), fmt.Errorf("grammar construction failed")
	}

	lr0, err := genLR0Automaton(prods, symbol.Start)
	if err != nil {
		return nil, bag.All(), err
	}

	first, err := genFirstSet(prods)
	if err != nil {
		return nil, bag.All(), err
	}
	follow, err := genFollowSet(prods, first)
	if err != nil {
		return nil, bag.All(), err
	}

	r := st.symTab.Reader()
	var terminals []symbol.Symbol
	for _, sym := range r.TerminalSymbols() {
		if _, dummy := st.dummyTerms[sym]; dummy {
			continue
		}
		terminals = append(terminals, sym)
	}

	lr0Table, err := buildLR0Table(lr0, prods, terminals)
	if err != nil {
		return nil, bag.All(), err
	}

	pa, err := genPrecAndAssoc(spec, r, prods)
	if err != nil {
		return nil, bag.All(), err
	}
	precTable := applyPrecedence(lr0Table, prods, pa, st.symTab, bag)
	if bag.HasErrors() {
		return nil, bag.All(), fmt.Errorf("precedence resolution failed")
	}

	slr1Table, err := genSLR1Table(precTable, prods, follow)
	if err != nil {
		return nil, bag.All(), err
	}

	lalr1, err := genLALR1Automaton(lr0, prods, first, bag)
	if err != nil {
		return nil, bag.All(), err
	}
	if bag.HasErrors() {
		return nil, bag.All(), fmt.Errorf("grammar is not LR(k) for any k")
	}

	lalr1Table, err := genLALR1Table(slr1Table, prods, lalr1)
	if err != nil {
		return nil, bag.All(), err
	}

	resolveResidual(lalr1Table, st.symTab, bag)

	processed := &ProcessedSpec{
		TerminalTypes:    map[string]string{},
		NonTerminalTypes: map[string]string{},
		SymbolTable:      st.symTab,
	}
	for _, sym := range terminals {
		text, _ := r.ToText(sym)
		processed.Terminals = append(processed.Terminals, text)
	}
	for _, sym := range r.NonTerminalSymbols() {
		text, _ := r.ToText(sym)
		processed.NonTerminals = append(processed.NonTerminals, text)
	}
	// Types are copied only for a name that still resolves to the symbol
	// kind its declaration claims; a mismatch was already reported as an
	// error during precompilation (a declared-terminal/nonterminal name
	// collision, or a %prec target that turned out to be a nonterminal),
	// so this is a second, defensive pass, not where rule 3 is enforced.
	for _, decl := range spec.Terminals {
		for _, id := range decl.IDs {
			if decl.Type == "" {
				continue
			}
			if sym, ok := r.ToSymbol(id); ok && sym.IsTerminal() {
				processed.TerminalTypes[id] = decl.Type
			}
		}
	}
	for _, decl := range spec.NonTerminals {
		if decl.Type == "" {
			continue
		}
		if sym, ok := r.ToSymbol(decl.ID); ok && sym.IsNonTerminal() {
			processed.NonTerminalTypes[decl.ID] = decl.Type
		}
	}
	for _, prod := range prods.ordered() {
		processed.Productions = append(processed.Productions, productionText(prod, r))
	}

	parserTable := lalr1Table
	switch cfg.class {
	case TableKindLR0:
		parserTable = lr0Table
	case TableKindSLR1:
		parserTable = slr1Table
	}

	return &CompileResult{
		ParserTable:         parserTable,
		LR0Table:            lr0Table,
		SLR1Table:           slr1Table,
		ProcessedSpec:       processed,
		Warnings:            bag.Warnings(),
		SymbolTable:         st.symTab,
		Productions:         prods,
		DescriptionFileName: cfg.descriptionFileName,
	}, bag.All(), nil
}

// productionText renders "LHS → RHS1 RHS2 ..." (or "LHS → ε" for an empty
// RHS), the format the teacher's lrTableBuilder.productionToString used
// for its description output.
func productionText(prod *production, r *symbol.Reader) string {
	lhs, _ := r.ToText(prod.lhs)
	if len(prod.rhs) == 0 {
		return fmt.Sprintf("%v → ε", lhs)
	}
	out := lhs + " →"
	for _, sym := range prod.rhs {
		text, _ := r.ToText(sym)
		out += " " + text
	}
	return out
}
