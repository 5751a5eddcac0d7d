// Package digraph implements DeRemer and Pennello's linear-time algorithm
// for computing, over a relation R on a vertex set X and a seed function
// F', the least solution of
//
//	F(x) = F'(x) ∪ ⋃ { F(y) | x R y }
//
// This is the relation/graph utility component spec.md §2 calls out as a
// leaf shared by both halves of the LALR(1) upgrade (Read over the reads
// relation, Follow over the includes relation); it knows nothing about
// grammars, items, or states — only about an abstract vertex type and the
// caller-supplied relation and seed.
package digraph

// Vertex is any comparable handle the caller uses to name a relation's
// members. Grammar code instantiates this with its own transition-id
// type.
type Vertex comparable

// status tracks a vertex's place in the Tarjan-style DFS.
type status int

const (
	untraversed status = iota
	traversing
	traversed
)

// SCC reports a non-trivial (size > 1) strongly connected component with
// a non-empty union F that was discovered while solving; the union shared
// by its members is in Result.F. Per spec §4.7, such an SCC in the reads
// relation indicates the grammar is not LR(k) for any k; the caller
// (grammar/lalr1.go) turns one from its reads solve into a fatal
// diagnostic.
type SCC[X Vertex] struct {
	Members []X
}

// Result is the outcome of Solve: the computed F for every vertex, plus
// any non-trivial SCCs encountered along the way.
type Result[X Vertex, U comparable] struct {
	F   map[X]map[U]struct{}
	SCC []SCC[X]
}

// solver holds the per-run DFS state for Solve.
type solver[X Vertex, U comparable] struct {
	relation func(X) []X
	seed     func(X) map[U]struct{}

	stat  map[X]status
	low   map[X]int
	depth map[X]int
	f     map[X]map[U]struct{}
	stack []X
	next  int

	sccs []SCC[X]
}

// Solve computes F(x) = seed(x) ∪ ⋃_{x R y} F(y) for every vertex in
// vertices, where relation(x) enumerates the y with x R y. It is safe to
// call relation/seed from multiple vertices independently (they receive
// no shared mutable state), which is what would let a future caller
// parallelize per-component work without changing the result; the
// implementation here still walks the DFS on a single goroutine.
func Solve[X Vertex, U comparable](vertices []X, relation func(X) []X, seed func(X) map[U]struct{}) *Result[X, U] {
	s := &solver[X, U]{
		relation: relation,
		seed:     seed,
		stat:     map[X]status{},
		low:      map[X]int{},
		depth:    map[X]int{},
		f:        map[X]map[U]struct{}{},
	}
	for _, x := range vertices {
		if s.stat[x] == untraversed {
			s.traverse(x)
		}
	}
	return &Result[X, U]{F: s.f, SCC: s.sccs}
}

func (s *solver[X, U]) traverse(x X) {
	s.stack = append(s.stack, x)
	d := s.next
	s.next++
	s.depth[x] = d
	s.low[x] = d
	s.stat[x] = traversing

	acc := map[U]struct{}{}
	for u := range s.seed(x) {
		acc[u] = struct{}{}
	}

	for _, y := range s.relation(x) {
		if s.stat[y] == untraversed {
			s.traverse(y)
		}
		if s.stat[y] == traversing && s.low[y] < s.low[x] {
			// y is an ancestor still on the stack: x and y are in the
			// same component. A y that has already finished (Traversed)
			// belongs to an earlier, already-closed component, so it
			// must not pull x's low-link backwards.
			s.low[x] = s.low[y]
		}
		for u := range s.f[y] {
			acc[u] = struct{}{}
		}
	}

	s.f[x] = acc

	if s.low[x] != d {
		return
	}

	// x is the root of its SCC: pop the stack back to x inclusive,
	// marking every popped vertex Traversed and assigning it the same
	// final F(x) (they are mutually reachable, so they share one F).
	var members []X
	for {
		n := len(s.stack) - 1
		y := s.stack[n]
		s.stack = s.stack[:n]
		s.stat[y] = traversed
		s.f[y] = acc
		members = append(members, y)
		if y == x {
			break
		}
	}

	if len(members) > 1 && len(acc) > 0 {
		s.sccs = append(s.sccs, SCC[X]{Members: members})
	}
}
