package alias

import (
	"sort"
	"sync"
)

// Pair is one user-facing name mapped to a provider symbol.
type Pair struct {
	Name   string
	Symbol string
}

// Table maps user-friendly instrument names (EURUSD_OTC) to provider symbols
// (frxEURUSD). Unknown names resolve to themselves so raw provider symbols
// keep working. Safe for concurrent use.
type Table struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewTable creates a table seeded from config.
func NewTable(seed map[string]string) *Table {
	m := make(map[string]string, len(seed))
	for k, v := range seed {
		m[k] = v
	}
	return &Table{m: m}
}

// Resolve maps a user name to the provider symbol, or returns the input
// unchanged when no alias exists.
func (t *Table) Resolve(name string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if sym, ok := t.m[name]; ok {
		return sym
	}
	return name
}

// Add registers or replaces an alias.
func (t *Table) Add(name, symbol string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.m[name] = symbol
}

// List returns all known aliases sorted by name.
func (t *Table) List() []Pair {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Pair, 0, len(t.m))
	for k, v := range t.m {
		out = append(out, Pair{Name: k, Symbol: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
