package grammar

// Associativity is a `%left`/`%right`/`%nonassoc` declaration, per
// spec.md §6's `associativities` field.
type Associativity string

const (
	AssocLeft     = Associativity("left")
	AssocRight    = Associativity("right")
	AssocNonAssoc = Associativity("nonassoc")
)

// TerminalDecl is one entry of spec.md §6's `terminals` list: an
// optionally typed group of terminal identifiers sharing that type.
type TerminalDecl struct {
	Type string
	IDs  []string
}

// NonTerminalDecl is one entry of spec.md §6's `nonterminals` list.
type NonTerminalDecl struct {
	Type string
	ID   string
}

// AltDecl is one alternative of a production: an ordered sequence of
// symbol ids, an optional `%prec` override, and an opaque semantic action
// body the core never parses (spec.md §3, §6).
type AltDecl struct {
	Symbols                []string
	ImpersonatedPrecedence string
	Action                 string
}

// ProductionDecl groups every alternative declared for one nonterminal
// head, in declaration order.
type ProductionDecl struct {
	LHS microProductionLHS
	Alts []AltDecl
}

// microProductionLHS exists only so ProductionDecl.LHS reads as a string
// in literals without letting callers confuse it with a terminal id.
type microProductionLHS = string

// AssociativityDecl is one entry of spec.md §6's `associativities` list:
// one precedence group, in the order `%left`/`%right`/`%nonassoc` was
// declared.
type AssociativityDecl struct {
	Assoc Associativity
	IDs   []string
}

// Specification is the input record spec.md §6 defines: everything the
// core needs to compile a grammar, independent of any source text syntax
// (the grammar file's own lexer/parser is an external collaborator the
// core never depends on).
type Specification struct {
	Terminals           []TerminalDecl
	NonTerminals        []NonTerminalDecl
	Productions         []ProductionDecl
	Associativities     []AssociativityDecl
	StartingProductions []string
	Options             map[string]string
}
