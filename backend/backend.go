// Package backend defines the code-emitter plugin boundary spec.md §6
// draws around the core: the core is agnostic to backend selection, a
// registry names backends by string key, grounded on cmd/vartan/root.go's
// subcommand wiring and on Cobra's own command-registry idiom.
package backend

import (
	"fmt"

	"github.com/okabe-lang/parsegen/grammar"
)

// Backend consumes a compiled grammar and does its own side effects
// (writing generated source, printing a report, anything else). The
// core never inspects what a Backend does with its inputs.
type Backend interface {
	Invoke(ps *grammar.ProcessedSpec, pt *grammar.ParsingTable, opts map[string]string) error
}

// Registry names backends by string key so a driver can select one
// without importing it directly.
type Registry struct {
	backends map[string]Backend
}

func NewRegistry() *Registry {
	return &Registry{backends: map[string]Backend{}}
}

func (r *Registry) Register(name string, b Backend) {
	r.backends[name] = b
}

func (r *Registry) Lookup(name string) (Backend, error) {
	b, ok := r.backends[name]
	if !ok {
		return nil, fmt.Errorf("backend: no backend registered under %q", name)
	}
	return b, nil
}
