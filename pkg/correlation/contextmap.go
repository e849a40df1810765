package correlation

// ContextMap indexes configured contexts by pattern so that Dispatch can
// find the (typically few) contexts interested in an event without
// scanning every context (spec §4.G).
type ContextMap struct {
	contexts []*Context
	index    map[string][]int
	wildcard []int // indices of contexts with an empty pattern list
}

// NewContextMap returns an empty ContextMap.
func NewContextMap() *ContextMap {
	return &ContextMap{index: make(map[string][]int)}
}

// Insert appends ctx and updates the pattern index.
//
// A context with an empty pattern list matches every event ("wildcard").
// Rather than being added to index entries, it is recorded in a separate
// wildcard list that Dispatch consults on every lookup, so it also matches
// patterns registered by later inserts.
func (m *ContextMap) Insert(ctx *Context) int {
	m.contexts = append(m.contexts, ctx)
	i := len(m.contexts) - 1

	patterns := ctx.Base.Patterns()
	if len(patterns) == 0 {
		m.wildcard = append(m.wildcard, i)
		return i
	}
	for _, p := range patterns {
		m.index[p] = append(m.index[p], i)
	}
	return i
}

// Contexts returns the underlying slice of contexts in insertion order.
// The reactor uses this directly to drive every context on a Timer
// request (spec §4.I).
func (m *ContextMap) Contexts() []*Context {
	return m.contexts
}

// Len returns the number of contexts held.
func (m *ContextMap) Len() int {
	return len(m.contexts)
}

// Get resolves a context index to its *Context, re-fetched fresh on each
// call so callers never hold a stale reference while the map is mutated
// (spec §9 "streaming iterator over indexed contexts").
func (m *ContextMap) Get(i int) *Context {
	if i < 0 || i >= len(m.contexts) {
		return nil
	}
	return m.contexts[i]
}

// Dispatch returns, in insertion order and without duplicates, the indices
// of every context reachable by any id of e — patterns match on e.IDs(),
// plus every wildcard (empty-pattern) context (spec §4.G, §8 "Dispatch
// correctness"; spec §9 resolves the deduplication open question in favor
// of at-most-once delivery per context per event).
func (m *ContextMap) Dispatch(ids []string) []int {
	seen := make(map[int]bool)

	for _, id := range ids {
		for _, i := range m.index[id] {
			seen[i] = true
		}
	}
	for _, i := range m.wildcard {
		seen[i] = true
	}

	out := make([]int, 0, len(seen))
	for i := 0; i < len(m.contexts); i++ {
		if seen[i] {
			out = append(out, i)
		}
	}
	return out
}
