package algo

import "iter"

// Groups is an ordered partition of items by key.
// Keys are in order of first occurrence and each group keeps input order.
type Groups[K comparable, V any] struct {
	keys    []K
	members map[K][]V
}

// GroupBy partitions items by key without sorting.
func GroupBy[K comparable, V any](items []V, key func(V) K) *Groups[K, V] {
	g := &Groups[K, V]{members: make(map[K][]V)}
	for _, item := range items {
		k := key(item)
		if _, seen := g.members[k]; !seen {
			g.keys = append(g.keys, k)
		}
		g.members[k] = append(g.members[k], item)
	}
	return g
}

// Keys returns the group keys in first-occurrence order.
func (g *Groups[K, V]) Keys() []K {
	return append([]K(nil), g.keys...)
}

// Get returns the members of one group.
func (g *Groups[K, V]) Get(k K) ([]V, bool) {
	v, ok := g.members[k]
	return v, ok
}

// Len returns the number of groups.
func (g *Groups[K, V]) Len() int {
	return len(g.keys)
}

// All iterates the groups in key order.
func (g *Groups[K, V]) All() iter.Seq2[K, []V] {
	return func(yield func(K, []V) bool) {
		for _, k := range g.keys {
			if !yield(k, g.members[k]) {
				return
			}
		}
	}
}

// Nested is a two-level grouping: outer key, then inner key.
type Nested[K1, K2 comparable, V any] struct {
	outer *Groups[K1, V]
	inner map[K1]*Groups[K2, V]
}

// Nest groups items by an outer key, then each outer group by an inner key.
func Nest[K1, K2 comparable, V any](items []V, outer func(V) K1, inner func(V) K2) *Nested[K1, K2, V] {
	n := &Nested[K1, K2, V]{outer: GroupBy(items, outer)}
	n.inner = make(map[K1]*Groups[K2, V], n.outer.Len())
	for k, members := range n.outer.All() {
		n.inner[k] = GroupBy(members, inner)
	}
	return n
}

// Keys returns the outer keys in first-occurrence order.
func (n *Nested[K1, K2, V]) Keys() []K1 {
	return n.outer.Keys()
}

// Inner returns the inner grouping of one outer key.
func (n *Nested[K1, K2, V]) Inner(k K1) (*Groups[K2, V], bool) {
	g, ok := n.inner[k]
	return g, ok
}

// Lookup returns the members of one (outer, inner) pair.
// A missing pair is reported with ok == false, never as an error.
func (n *Nested[K1, K2, V]) Lookup(k1 K1, k2 K2) ([]V, bool) {
	g, ok := n.inner[k1]
	if !ok {
		return nil, false
	}
	return g.Get(k2)
}
