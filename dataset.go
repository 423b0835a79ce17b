package accounting

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// Dataset is the hierarchical result of a report aggregation: an ordered
// list of groups, each holding an ordered list of values.
type Dataset struct {
	groups []*Group
}

// Groups returns the ordered groups of the dataset.
func (ds *Dataset) Groups() []*Group { return ds.groups }

// Len returns the number of groups.
func (ds *Dataset) Len() int { return len(ds.groups) }

// Series returns the value labels of the dataset, taken from its first group.
func (ds *Dataset) Series() []string {
	if len(ds.groups) == 0 {
		return nil
	}
	return ds.groups[0].Series()
}

func (ds *Dataset) addGroup(label string) *Group {
	g := &Group{label: label}
	ds.groups = append(ds.groups, g)
	return g
}

// Group is a single bucket of a dataset, e.g. one calendar month.
type Group struct {
	label  string
	values []*Value
}

// Label returns the group's label.
func (g *Group) Label() string { return g.label }

// Values returns the ordered values of the group.
func (g *Group) Values() []*Value { return g.values }

// Len returns the number of values.
func (g *Group) Len() int { return len(g.values) }

// Series returns the labels of the group's values.
func (g *Group) Series() []string {
	labels := make([]string, 0, len(g.values))
	for _, v := range g.values {
		labels = append(labels, v.label)
	}
	return labels
}

// Sum returns the sum of all values in the group.
func (g *Group) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, v := range g.values {
		sum = sum.Add(v.value)
	}
	return sum
}

// Sorted returns the non-zero values in descending order. When max > 0 caps
// the result, the remainder collapses into a single synthetic "..." value
// summing the excess.
func (g *Group) Sorted(max int) []*Value {
	var vals []*Value
	for _, v := range g.values {
		if !v.value.IsZero() {
			vals = append(vals, v)
		}
	}
	slices.SortStableFunc(vals, func(a, b *Value) int { return b.value.Cmp(a.value) })
	if max <= 0 || len(vals) <= max {
		return vals
	}
	rest := vals[max-1:]
	vals = vals[:max-1]
	sum := decimal.Zero
	for _, v := range rest {
		sum = sum.Add(v.value)
	}
	if !sum.IsZero() {
		vals = append(vals, &Value{label: "...", value: sum, group: g})
	}
	return vals
}

func (g *Group) addValue(label string, value decimal.Decimal, items []Item) *Value {
	v := &Value{label: label, value: value, items: items, group: g}
	g.values = append(g.values, v)
	return v
}

func (g *Group) String() string { return g.label }

// Value is a single labelled total within a group, carrying the items that
// contributed to it.
type Value struct {
	label string
	value decimal.Decimal
	items []Item
	group *Group
}

// Label returns the value's label, e.g. an account path or type name.
func (v *Value) Label() string { return v.label }

// Amount returns the aggregated decimal value.
func (v *Value) Amount() decimal.Decimal { return v.value }

// Items returns the items contributing to the value.
func (v *Value) Items() []Item { return v.items }

// Percent returns the value's share of its group's total, in percent. A
// zero-sum group yields 100, covering the degenerate single-value case
// without dividing by zero.
func (v *Value) Percent() float64 {
	if v.group == nil {
		return 100
	}
	sum := v.group.Sum()
	if sum.IsZero() {
		return 100
	}
	pct, _ := v.value.Mul(decimal.New(100, 0)).Div(sum).Float64()
	return pct
}

func (v *Value) String() string { return fmt.Sprintf("%s %s", v.label, v.value) }
