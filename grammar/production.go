package grammar

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/okabe-lang/parsegen/grammar/symbol"
)

// productionID content-addresses a production by its LHS and RHS symbols,
// so that two productions built from unrelated passes over the same
// specification (e.g. re-deriving a closure) collapse to the same
// identity without needing a shared counter.
type productionID [32]byte

func (id productionID) String() string {
	return hex.EncodeToString(id[:])
}

func genProductionID(lhs symbol.Symbol, rhs []symbol.Symbol) productionID {
	seq := lhs.Byte()
	for _, sym := range rhs {
		seq = append(seq, sym.Byte()...)
	}
	return productionID(sha256.Sum256(seq))
}

// productionNum is the dense ProductionRuleId spec.md §3 names: stable
// within one compile, assigned in the order productions are appended to
// a productionSet.
type productionNum uint16

const (
	productionNumNil   = productionNum(0)
	productionNumStart = productionNum(1)
)

func (n productionNum) Int() int {
	return int(n)
}

// production is `Start → s EndOfFile` or a user production after
// augmentation. precOverride holds the `%prec X` terminal, if any;
// action is the opaque semantic-action body spec.md treats as unparsed.
type production struct {
	id          productionID
	num         productionNum
	lhs         symbol.Symbol
	rhs         []symbol.Symbol
	rhsLen      int
	precOverride symbol.Symbol
	action      string
}

func newProduction(lhs symbol.Symbol, rhs []symbol.Symbol, precOverride symbol.Symbol, action string) (*production, error) {
	if lhs.IsNil() {
		return nil, fmt.Errorf("LHS must be a non-nil symbol; LHS: %v, RHS: %v", lhs, rhs)
	}
	for _, sym := range rhs {
		if sym.IsNil() {
			return nil, fmt.Errorf("a symbol of RHS must be a non-nil symbol; LHS: %v, RHS: %v", lhs, rhs)
		}
	}

	return &production{
		id:           genProductionID(lhs, rhs),
		lhs:          lhs,
		rhs:          rhs,
		rhsLen:       len(rhs),
		precOverride: precOverride,
		action:       action,
	}, nil
}

func (p *production) isEmpty() bool {
	return p.rhsLen == 0
}

// productionSet owns every production in the augmented grammar, keyed
// both by content id (for closure/dedup during construction) and by LHS
// (for closure expansion).
type productionSet struct {
	lhs2Prods map[symbol.Symbol][]*production
	id2Prod   map[productionID]*production
	order     []productionID
	num       productionNum
}

func newProductionSet() *productionSet {
	return &productionSet{
		lhs2Prods: map[symbol.Symbol][]*production{},
		id2Prod:   map[productionID]*production{},
		num:       productionNumStart,
	}
}

// append assigns the next dense productionNum off the same running
// counter regardless of LHS, so that two distinct `Start → s EndOfFile`
// productions (one per declared starting nonterminal) each get their own
// number instead of colliding on a single shared constant.
func (ps *productionSet) append(prod *production) {
	if _, ok := ps.id2Prod[prod.id]; ok {
		return
	}

	prod.num = ps.num
	ps.num++

	ps.lhs2Prods[prod.lhs] = append(ps.lhs2Prods[prod.lhs], prod)
	ps.id2Prod[prod.id] = prod
	ps.order = append(ps.order, prod.id)
}

func (ps *productionSet) findByID(id productionID) (*production, bool) {
	prod, ok := ps.id2Prod[id]
	return prod, ok
}

func (ps *productionSet) findByLHS(lhs symbol.Symbol) ([]*production, bool) {
	if lhs.IsNil() {
		return nil, false
	}

	prods, ok := ps.lhs2Prods[lhs]
	return prods, ok
}

func (ps *productionSet) getAllProductions() map[productionID]*production {
	return ps.id2Prod
}

// ordered returns every production sorted by productionNum, giving a
// deterministic traversal order for diagnostics and backend reports
// independent of map iteration.
func (ps *productionSet) ordered() []*production {
	out := make([]*production, 0, len(ps.id2Prod))
	for _, prod := range ps.id2Prod {
		out = append(out, prod)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].num < out[j].num })
	return out
}
