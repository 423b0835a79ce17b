package accounting

import (
	"iter"
	"slices"

	"github.com/manuel-koch/accounting/date"
)

// grouping buckets items by a key derived from each item. Items are
// de-duplicated; bucket lookup applies an optional secondary filter.
type grouping[K comparable] struct {
	keyOf  func(Item) K
	less   func(K, K) bool
	groups map[K][]Item
	added  map[Item]struct{}
}

func newGrouping[K comparable](keyOf func(Item) K, less func(K, K) bool) *grouping[K] {
	return &grouping[K]{
		keyOf:  keyOf,
		less:   less,
		groups: make(map[K][]Item),
		added:  make(map[Item]struct{}),
	}
}

// seed ensures a bucket exists for the key even when no item maps to it.
func (g *grouping[K]) seed(key K) {
	if _, ok := g.groups[key]; !ok {
		g.groups[key] = nil
	}
}

func (g *grouping[K]) add(it Item) {
	if _, ok := g.added[it]; ok {
		return
	}
	g.added[it] = struct{}{}
	key := g.keyOf(it)
	g.groups[key] = append(g.groups[key], it)
}

func (g *grouping[K]) addAll(items iter.Seq[Item]) {
	for it := range items {
		g.add(it)
	}
}

// keys returns all bucket keys, seeded ones included, in sorted order.
func (g *grouping[K]) keys() []K {
	keys := make([]K, 0, len(g.groups))
	for key := range g.groups {
		keys = append(keys, key)
	}
	if g.less != nil {
		slices.SortFunc(keys, func(a, b K) int {
			switch {
			case g.less(a, b):
				return -1
			case g.less(b, a):
				return 1
			default:
				return 0
			}
		})
	}
	return keys
}

// items returns the bucket for the key narrowed by the optional filter.
func (g *grouping[K]) items(key K, f Filter) iter.Seq[Item] {
	return func(yield func(Item) bool) {
		for _, it := range g.groups[key] {
			if f != nil && RejectsItem(f, it) {
				continue
			}
			if !yield(it) {
				return
			}
		}
	}
}

// newDateRangeGrouping buckets items by the interval unit containing their
// date. One bucket per interval step across [from, till] is pre-seeded so
// that empty intervals still appear in reports. Keys are value-typed
// normalized date ranges, ordered by their starting date.
func newDateRangeGrouping(from, till date.Date, iv date.Interval) *grouping[date.Range] {
	g := newGrouping(
		func(it Item) date.Range { return iv.Span(it.Date(), it.Date()) },
		date.Range.Before,
	)
	for d := range date.Steps(from, till, iv) {
		g.seed(iv.Span(d, d))
	}
	return g
}
