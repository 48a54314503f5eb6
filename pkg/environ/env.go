package environ

import (
	"os"
	"strings"

	"github.com/rivo/uniseg"
)

// PathVar is the search path variable
const PathVar = "PATH"

// Env is an ordered environment map that tracks changes.
type Env struct {
	vars    map[string]string
	order   []string
	changed []string
	unset   map[string]bool
}

// FromOS copies the current process environment
func FromOS() *Env {
	return FromSlice(os.Environ())
}

// FromSlice builds an Env from KEY=VALUE pairs. Later duplicates win.
func FromSlice(pairs []string) *Env {
	e := &Env{
		vars:  make(map[string]string, len(pairs)),
		unset: make(map[string]bool),
	}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			continue
		}
		if _, exists := e.vars[key]; !exists {
			e.order = append(e.order, key)
		}
		e.vars[key] = value
	}
	return e
}

// Get returns the value of key, or "" when unset
func (e *Env) Get(key string) string {
	return e.vars[key]
}

// Lookup returns the value of key and whether it is set
func (e *Env) Lookup(key string) (string, bool) {
	v, ok := e.vars[key]
	return v, ok
}

// Set assigns key and records the change
func (e *Env) Set(key, value string) {
	if _, exists := e.vars[key]; !exists {
		e.order = append(e.order, key)
	}
	e.vars[key] = value
	delete(e.unset, key)
	e.markChanged(key)
}

// Unset removes key and records the change
func (e *Env) Unset(key string) {
	if _, exists := e.vars[key]; exists {
		delete(e.vars, key)
		for i, k := range e.order {
			if k == key {
				e.order = append(e.order[:i], e.order[i+1:]...)
				break
			}
		}
	}
	e.unset[key] = true
	e.markChanged(key)
}

func (e *Env) markChanged(key string) {
	for _, k := range e.changed {
		if k == key {
			return
		}
	}
	e.changed = append(e.changed, key)
}

// PrependPath puts dir in front of PATH. It always prepends, an entry
// already present further down is left in place.
func (e *Env) PrependPath(dir string) string {
	current := e.Get(PathVar)
	next := dir
	if current != "" {
		next = dir + string(os.PathListSeparator) + current
	}
	e.Set(PathVar, next)
	return next
}

// PathEntries splits PATH into its entries
func (e *Env) PathEntries() []string {
	return SplitPath(e.Get(PathVar))
}

// SplitPath splits a PATH value, dropping empty entries
func SplitPath(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, string(os.PathListSeparator))
	entries := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			entries = append(entries, p)
		}
	}
	return entries
}

// Slice renders the environment as KEY=VALUE pairs for a child process
func (e *Env) Slice() []string {
	out := make([]string, 0, len(e.order))
	for _, k := range e.order {
		out = append(out, k+"="+e.vars[k])
	}
	return out
}

// Change is a single recorded mutation
type Change struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
	Unset bool   `json:"unset,omitempty" yaml:"unset,omitempty"`
}

// Changes lists the mutated variables in the order they were first changed
func (e *Env) Changes() []Change {
	changes := make([]Change, 0, len(e.changed))
	for _, k := range e.changed {
		if e.unset[k] {
			changes = append(changes, Change{Key: k, Unset: true})
			continue
		}
		changes = append(changes, Change{Key: k, Value: e.vars[k]})
	}
	return changes
}

// Apply writes the recorded changes to the current process
func (e *Env) Apply() error {
	for _, c := range e.Changes() {
		if c.Unset {
			if err := os.Unsetenv(c.Key); err != nil {
				return err
			}
			continue
		}
		if err := os.Setenv(c.Key, c.Value); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns an independent copy, including the change log
func (e *Env) Clone() *Env {
	c := &Env{
		vars:    make(map[string]string, len(e.vars)),
		order:   append([]string(nil), e.order...),
		changed: append([]string(nil), e.changed...),
		unset:   make(map[string]bool, len(e.unset)),
	}
	for k, v := range e.vars {
		c.vars[k] = v
	}
	for k, v := range e.unset {
		c.unset[k] = v
	}
	return c
}

// Truncate shortens s to n characters, appending "..." when cut.
// Characters are grapheme clusters, so multi-byte text is never split.
func Truncate(s string, n int) string {
	if n <= 0 || uniseg.GraphemeClusterCount(s) <= n {
		return s
	}
	var b strings.Builder
	g := uniseg.NewGraphemes(s)
	for i := 0; i < n && g.Next(); i++ {
		b.WriteString(g.Str())
	}
	return b.String() + "..."
}
