// Package describe implements a reference Backend that renders a
// human-readable report of a compiled grammar's tables, grounded on
// lrTableBuilder.writeDescription and slrTableBuilder.writeDescription:
// a listing of productions, then for every state its ACTION/GOTO rows,
// then every conflict the residual policy resolved.
package describe

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/okabe-lang/parsegen/grammar"
)

// Backend writes its report to Writer.
type Backend struct {
	Writer io.Writer
}

func (b *Backend) Invoke(ps *grammar.ProcessedSpec, pt *grammar.ParsingTable, opts map[string]string) error {
	w := bufio.NewWriter(b.Writer)
	defer w.Flush()

	r := ps.SymbolTable.Reader()

	fmt.Fprintf(w, "# %s table\n\n", pt.Kind)

	fmt.Fprintln(w, "## Productions")
	for i, p := range ps.Productions {
		fmt.Fprintf(w, "%4d: %s\n", i+1, p)
	}

	terminals := sortedCopy(ps.Terminals)
	nonTerminals := sortedCopy(ps.NonTerminals)

	fmt.Fprintln(w, "\n## States")
	for state := 0; state < pt.StateCount; state++ {
		fmt.Fprintf(w, "state %d:\n", state)
		for _, name := range terminals {
			sym, ok := r.ToSymbol(name)
			if !ok {
				continue
			}
			acts := pt.ActionsAt(state, sym)
			if len(acts) == 0 {
				continue
			}
			fmt.Fprintf(w, "  on %-12s %s\n", name, acts[0])
		}
		for _, name := range nonTerminals {
			sym, ok := r.ToSymbol(name)
			if !ok {
				continue
			}
			next, ok := pt.GoToAt(state, sym)
			if !ok {
				continue
			}
			fmt.Fprintf(w, "  goto %-12s %d\n", name, next)
		}
	}

	if len(pt.ResolvedConflicts) > 0 {
		fmt.Fprintln(w, "\n## Resolved conflicts")
		for _, rc := range pt.ResolvedConflicts {
			fmt.Fprintf(w, "state %d: %d candidate actions, kept %s\n", rc.State, len(rc.Actions), rc.Kept)
		}
	}

	return nil
}

func sortedCopy(names []string) []string {
	out := append([]string(nil), names...)
	sort.Strings(out)
	return out
}
