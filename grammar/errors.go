package grammar

import "errors"

// Sentinel causes attached to diagnostics so callers can switch on them
// without parsing Detail strings, per internal/diag's Diagnostic.Cause
// convention.
var (
	errNotLALR = errors.New("grammar is not LR(k) for any k")

	errNoStartProduction  = errors.New("a specification must declare at least one starting nonterminal")
	errUndeclaredSymbol   = errors.New("undeclared symbol")
	errDuplicateSymbol    = errors.New("symbol declared more than once")
	errDuplicateAssocTerm = errors.New("terminal appears in more than one associativity group")
	errDummyNoAssoc       = errors.New("dummy terminal requires an associativity declaration")
	errUnusedTerminal     = errors.New("terminal is not referenced by any production")
	errUnusedNonTerminal  = errors.New("nonterminal is not reachable from any starting nonterminal")
	errNonAssocConflict   = errors.New("non-associative operator used in a self-referential context")
	errConflictResidue    = errors.New("conflict resolved by default policy")

	errPrecTargetIsNonTerminal = errors.New("%prec target must not be a nonterminal")
	errStartMissingType        = errors.New("starting nonterminal has no declared %type")
	errDuplicateStart          = errors.New("nonterminal declared as a starting symbol more than once")
)
