// Package symbol implements the tagged-union Symbol representation spec.md
// §3 calls for: a 16-bit value whose top bit distinguishes terminal from
// nonterminal, whose next bit flags the synthetic Start/EndOfFile member,
// and whose low 14 bits are a dense per-kind index. Packing the tag into
// the value itself keeps GOTO/ACTION keys small, comparable with ==, and
// usable directly as map keys without a wrapper struct.
package symbol

import (
	"fmt"
	"sort"
)

type kind string

const (
	kindNonTerminal = kind("non-terminal")
	kindTerminal    = kind("terminal")
)

// Num is the dense, per-kind index carried in a Symbol's low 14 bits.
type Num uint16

func (n Num) Int() int {
	return int(n)
}

// Symbol is an opaque, comparable handle for a terminal or nonterminal.
// The zero value, Nil, belongs to neither alphabet.
type Symbol uint16

func (s Symbol) String() string {
	k, isStart, isEOF, num := s.describe()
	var prefix string
	switch {
	case isStart:
		prefix = "s"
	case isEOF:
		prefix = "e"
	case k == kindNonTerminal:
		prefix = "n"
	default:
		prefix = "t"
	}
	return fmt.Sprintf("%v%v", prefix, num)
}

const (
	maskKind    = uint16(0x8000)
	maskSubKind = uint16(0x4000)
	maskNum     = uint16(0x3fff)

	numStart = uint16(0x0001)
	numEOF   = uint16(0x0001)

	// Nil is the zero Symbol: it belongs to neither alphabet.
	Nil = Symbol(0)

	// Start is the synthetic augmented-grammar start nonterminal
	// spec.md §4.3 adds; EndOfFile is the synthetic terminal appended to
	// close every starting production.
	Start     = Symbol(maskSubKind | numStart)
	EndOfFile = Symbol(maskKind | maskSubKind | numEOF)

	nameEndOfFile = "<eof>"

	// NonTerminalNumMin/TerminalNumMin leave room for Start/EndOfFile,
	// which occupy number 1 in their respective alphabets.
	NonTerminalNumMin = Num(2)
	TerminalNumMin    = Num(2)
	numMax            = Num(0xffff) >> 2
)

func newSymbol(k kind, isStart bool, num Num) (Symbol, error) {
	if num > numMax {
		return Nil, fmt.Errorf("symbol: number %v exceeds the limit %v", num, numMax)
	}
	if k == kindTerminal && isStart {
		return Nil, fmt.Errorf("symbol: a start symbol must be a nonterminal")
	}
	kindMask := uint16(0)
	if k == kindTerminal {
		kindMask = maskKind
	}
	startMask := uint16(0)
	if isStart {
		startMask = maskSubKind
	}
	return Symbol(kindMask | startMask | uint16(num)), nil
}

func (s Symbol) Num() Num {
	_, _, _, num := s.describe()
	return num
}

// Byte renders the symbol as a 2-byte big-endian sequence, used to build
// content-addressed production ids (production.go).
func (s Symbol) Byte() []byte {
	if s.IsNil() {
		return []byte{0, 0}
	}
	return []byte{byte(uint16(s) >> 8), byte(uint16(s) & 0x00ff)}
}

func (s Symbol) IsNil() bool {
	return s.Num() == 0
}

func (s Symbol) IsStart() bool {
	if s.IsNil() {
		return false
	}
	_, isStart, _, _ := s.describe()
	return isStart
}

func (s Symbol) IsEOF() bool {
	if s.IsNil() {
		return false
	}
	_, _, isEOF, _ := s.describe()
	return isEOF
}

func (s Symbol) IsNonTerminal() bool {
	if s.IsNil() {
		return false
	}
	k, _, _, _ := s.describe()
	return k == kindNonTerminal
}

func (s Symbol) IsTerminal() bool {
	if s.IsNil() {
		return false
	}
	return !s.IsNonTerminal()
}

func (s Symbol) describe() (kind, bool, bool, Num) {
	k := kindNonTerminal
	if uint16(s)&maskKind > 0 {
		k = kindTerminal
	}
	isStart, isEOF := false, false
	if uint16(s)&maskSubKind > 0 {
		if k == kindNonTerminal {
			isStart = true
		} else {
			isEOF = true
		}
	}
	return k, isStart, isEOF, Num(uint16(s) & maskNum)
}

// Table interns terminal/nonterminal names into dense Symbols. A fresh
// Table already knows Start and EndOfFile; every user-declared name is
// registered through a Writer and looked up through a Reader.
type Table struct {
	text2Sym     map[string]Symbol
	sym2Text     map[Symbol]string
	nonTermTexts []string
	termTexts    []string
	nonTermNum   Num
	termNum      Num
}

type Writer struct {
	*Table
}

type Reader struct {
	*Table
}

func NewTable() *Table {
	return &Table{
		text2Sym: map[string]Symbol{
			nameEndOfFile: EndOfFile,
		},
		sym2Text: map[Symbol]string{
			EndOfFile: nameEndOfFile,
		},
		termTexts:    []string{"", nameEndOfFile},
		nonTermTexts: []string{"", ""},
		nonTermNum:   NonTerminalNumMin,
		termNum:      TerminalNumMin,
	}
}

func (t *Table) Writer() *Writer { return &Writer{Table: t} }
func (t *Table) Reader() *Reader { return &Reader{Table: t} }

func (w *Writer) RegisterStart(text string) Symbol {
	w.text2Sym[text] = Start
	w.sym2Text[Start] = text
	w.nonTermTexts[Start.Num().Int()] = text
	return Start
}

func (w *Writer) RegisterNonTerminal(text string) (Symbol, error) {
	if sym, ok := w.text2Sym[text]; ok {
		return sym, nil
	}
	sym, err := newSymbol(kindNonTerminal, false, w.nonTermNum)
	if err != nil {
		return Nil, err
	}
	w.nonTermNum++
	w.text2Sym[text] = sym
	w.sym2Text[sym] = text
	w.nonTermTexts = append(w.nonTermTexts, text)
	return sym, nil
}

func (w *Writer) RegisterTerminal(text string) (Symbol, error) {
	if sym, ok := w.text2Sym[text]; ok {
		return sym, nil
	}
	sym, err := newSymbol(kindTerminal, false, w.termNum)
	if err != nil {
		return Nil, err
	}
	w.termNum++
	w.text2Sym[text] = sym
	w.sym2Text[sym] = text
	w.termTexts = append(w.termTexts, text)
	return sym, nil
}

func (r *Reader) ToSymbol(text string) (Symbol, bool) {
	sym, ok := r.text2Sym[text]
	return sym, ok
}

func (r *Reader) ToText(sym Symbol) (string, bool) {
	text, ok := r.sym2Text[sym]
	return text, ok
}

func (r *Reader) TerminalSymbols() []Symbol {
	syms := make([]Symbol, 0, r.termNum.Int()-TerminalNumMin.Int())
	for sym := range r.sym2Text {
		if !sym.IsTerminal() || sym.IsNil() {
			continue
		}
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
	return syms
}

func (r *Reader) NonTerminalSymbols() []Symbol {
	syms := make([]Symbol, 0, r.nonTermNum.Int()-NonTerminalNumMin.Int())
	for sym := range r.sym2Text {
		if !sym.IsNonTerminal() || sym.IsNil() {
			continue
		}
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
	return syms
}
