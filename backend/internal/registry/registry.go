// Package `registry` selects implementations by tag and priority.  It is the
// explicit replacement of attribute based class discovery: each package
// registers its implementations, and callers resolve a tag like the tube
// `ecfs` to the entry with the highest priority.
package registry

import "sort"

type Priority int

const (
	PriorityNone    Priority = 0
	PriorityDefault Priority = 10
	PriorityToolbox Priority = 50
)

type entry[T any] struct {
	priority Priority
	v        T
}

type Registry[T any] struct {
	entries map[string][]entry[T]
}

func New[T any]() *Registry[T] {
	return &Registry[T]{entries: make(map[string][]entry[T])}
}

func (r *Registry[T]) Register(tag string, priority Priority, v T) {
	r.entries[tag] = append(r.entries[tag], entry[T]{priority, v})
}

// `Resolve()` returns the entry with the highest priority for `tag`.  Among
// equal priorities, the latest registration wins.
func (r *Registry[T]) Resolve(tag string) (T, bool) {
	var best T
	found := false
	var bestPrio Priority
	for _, e := range r.entries[tag] {
		if !found || e.priority >= bestPrio {
			best, bestPrio, found = e.v, e.priority, true
		}
	}
	return best, found
}

// `Tags()` returns the registered tags in sorted order.
func (r *Registry[T]) Tags() []string {
	tags := make([]string, 0, len(r.entries))
	for t := range r.entries {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}
