package grammar

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sort"
	"strconv"

	"github.com/okabe-lang/parsegen/grammar/symbol"
)

// lrItemID content-addresses an item by (production, dot), so closure
// construction can dedupe items without a separate counter.
type lrItemID [32]byte

func (id lrItemID) String() string {
	return fmt.Sprintf("%x", id.num())
}

func (id lrItemID) num() uint32 {
	return binary.LittleEndian.Uint32(id[:])
}

// lookAhead holds the terminals under which a reducible item is allowed
// to reduce, and propagation marks a lookahead that is not yet fixed. No
// phase fills it in: the LALR(1) upgrade (grammar/lalr1.go) keeps its
// lookahead sets in lalr1Automaton.la instead.
type lookAhead struct {
	symbols     map[symbol.Symbol]struct{}
	propagation bool
}

// lrItem is `(nonterminal, rhs, dot)` from spec.md §3, with a lookAhead
// field that stays empty (see lookAhead).
//
//	E → E + T
//
//	Dot | Dotted Symbol | Item
//	----+---------------+------------
//	0   | E             | E →・E + T
//	1   | +             | E → E・+ T
//	2   | T             | E → E +・T
//	3   | Nil           | E → E + T・
type lrItem struct {
	id   lrItemID
	prod productionID

	dot          int
	dottedSymbol symbol.Symbol

	// initial is true for `Start →・s`, an entry item of the initial
	// state (there is one per starting production).
	initial bool

	// reducible is true for `A → α・`.
	reducible bool

	// kernel is true for every item except pure closure additions (dot
	// at 0 of a non-start production).
	kernel bool

	lookAhead lookAhead
}

func newLR0Item(prod *production, dot int) (*lrItem, error) {
	if prod == nil {
		return nil, fmt.Errorf("production must be non-nil")
	}
	if dot < 0 || dot > prod.rhsLen {
		return nil, fmt.Errorf("dot must be between 0 and %v", prod.rhsLen)
	}

	var id lrItemID
	{
		b := []byte{}
		b = append(b, prod.id[:]...)
		bDot := make([]byte, 8)
		binary.LittleEndian.PutUint64(bDot, uint64(dot))
		b = append(b, bDot...)
		id = sha256.Sum256(b)
	}

	dottedSymbol := symbol.Nil
	if dot < prod.rhsLen {
		dottedSymbol = prod.rhs[dot]
	}

	initial := prod.lhs.IsStart() && dot == 0
	reducible := dot == prod.rhsLen
	kernel := initial || dot > 0

	return &lrItem{
		id:           id,
		prod:         prod.id,
		dot:          dot,
		dottedSymbol: dottedSymbol,
		initial:      initial,
		reducible:    reducible,
		kernel:       kernel,
	}, nil
}

// kernelID content-addresses a kernel by its sorted member item ids, so a
// state's identity is independent of the order closure happened to
// discover its kernel items in.
type kernelID [32]byte

func (id kernelID) String() string {
	return fmt.Sprintf("%x", binary.LittleEndian.Uint32(id[:]))
}

type kernel struct {
	id    kernelID
	items []*lrItem
}

func newKernel(items []*lrItem) (*kernel, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("a kernel needs at least one item")
	}

	var sortedItems []*lrItem
	{
		m := map[lrItemID]*lrItem{}
		for _, item := range items {
			if !item.kernel {
				return nil, fmt.Errorf("not a kernel item: %v", item)
			}
			m[item.id] = item
		}
		for _, item := range m {
			sortedItems = append(sortedItems, item)
		}
		sort.Slice(sortedItems, func(i, j int) bool {
			return sortedItems[i].id.num() < sortedItems[j].id.num()
		})
	}

	var id kernelID
	{
		b := []byte{}
		for _, item := range sortedItems {
			b = append(b, item.id[:]...)
		}
		id = sha256.Sum256(b)
	}

	return &kernel{id: id, items: sortedItems}, nil
}

type stateNum int

const stateNumInitial = stateNum(0)

func (n stateNum) Int() int {
	return int(n)
}

func (n stateNum) String() string {
	return strconv.Itoa(int(n))
}

func (n stateNum) next() stateNum {
	return stateNum(n + 1)
}

// lrState is a closed item set plus the bookkeeping the table builder
// needs: its outgoing transitions by dotted symbol, and which
// productions it can reduce.
type lrState struct {
	*kernel
	num       stateNum
	next      map[symbol.Symbol]kernelID
	reducible map[productionID]struct{}

	// emptyProdItems holds items like `p →・ε` that are reducible but
	// whose production has no symbols, so they never appear as a kernel
	// item of any other state. Their productions are also in reducible,
	// which is what the LALR(1) upgrade reads; nothing reads this list.
	emptyProdItems []*lrItem

	// accept is true when this state's closure holds an item
	// `Start → s・EndOfFile`, i.e. EndOfFile is never shifted onto a
	// GOTO transition of its own; the table builder emits Accept on
	// EndOfFile directly out of a state with accept set.
	accept bool
}
