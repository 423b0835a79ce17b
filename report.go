package accounting

import (
	"slices"

	"github.com/manuel-koch/accounting/date"
	"github.com/shopspring/decimal"
)

// Report aggregates the items of a set of selected accounts over a date
// range into datasets. Items and datasets are computed lazily and memoized;
// changing the range invalidates every cached result.
//
// A Report never observes ledger mutations: after writing to the database,
// re-set the range or construct a new Report.
type Report struct {
	db       *Database
	accounts []Account
	from     date.Date
	till     date.Date

	items    []Item // memo, nil when not yet computed
	datasets map[string]*Dataset
}

// NewReport creates a report over the database for the given date range.
func NewReport(db *Database, from, till date.Date) *Report {
	r := &Report{db: db}
	r.SetRange(from, till)
	return r
}

// SetRange changes the date range of the report and drops all cached
// results.
func (r *Report) SetRange(from, till date.Date) {
	r.from = from
	r.till = till
	r.items = nil
	r.datasets = make(map[string]*Dataset)
}

// From returns the start of the report range.
func (r *Report) From() date.Date { return r.from }

// Till returns the end of the report range.
func (r *Report) Till() date.Date { return r.till }

// AddAccount selects an account for the report. Adding a selected account
// again is a no-op; selection order is preserved.
func (r *Report) AddAccount(a Account) {
	if !slices.Contains(r.accounts, a) {
		r.accounts = append(r.accounts, a)
	}
}

// RemoveAccount removes an account from the selection.
func (r *Report) RemoveAccount(a Account) {
	r.accounts = slices.DeleteFunc(r.accounts, func(x Account) bool { return x == a })
}

// Accounts returns the selected accounts in selection order.
func (r *Report) Accounts() []Account { return slices.Clone(r.accounts) }

// Items returns all items within the date range booked on a selected
// account or one of its descendants. The result is memoized until the range
// changes.
func (r *Report) Items() []Item {
	if r.items != nil {
		return r.items
	}
	f := And(
		ByAccountsAndChildren(r.accounts...),
		ByFromDate(r.from),
		ByTillDate(r.till),
	)
	r.items = slices.Collect(r.db.Items(f))
	if r.items == nil {
		r.items = []Item{} // memoize the empty result too
	}
	return r.items
}

// Monthly returns the dataset of items grouped per month, one value per
// selected account. When both an ancestor and its descendant are selected,
// the ancestor's value excludes the items attributable to the selected
// descendant, avoiding double counting, while still covering its other
// descendants.
func (r *Report) Monthly() *Dataset {
	if ds, ok := r.datasets["monthly"]; ok {
		return ds
	}
	ds := &Dataset{}
	grp := r.monthlyGrouping()
	for _, key := range grp.keys() {
		g := ds.addGroup(key.Label(date.Monthly))
		for _, acc := range r.accounts {
			var selectedChildren []Account
			for _, other := range r.accounts {
				if acc.HasDescendant(other) {
					selectedChildren = append(selectedChildren, other)
				}
			}
			f := And(ByAccountsAndChildren(acc), NotByAccountsAndChildren(selectedChildren...))
			items := slices.Collect(grp.items(key, f))
			sum := sumValues(items)
			sortByDate(items)
			g.addValue(acc.FullName(), sum, items)
		}
	}
	r.datasets["monthly"] = ds
	return ds
}

// MonthlyExpanded returns the dataset of items grouped per month, with the
// selected accounts expanded into their full descendant set up front
// (de-duplicated, insertion order) and one value per expanded account,
// counting only items booked exactly on that account.
func (r *Report) MonthlyExpanded() *Dataset {
	if ds, ok := r.datasets["monthlyExpanded"]; ok {
		return ds
	}
	var expanded []Account
	for _, acc := range r.accounts {
		if !slices.Contains(expanded, acc) {
			expanded = append(expanded, acc)
		}
		for _, sub := range acc.Descendants() {
			if !slices.Contains(expanded, sub) {
				expanded = append(expanded, sub)
			}
		}
	}
	ds := &Dataset{}
	grp := r.monthlyGrouping()
	for _, key := range grp.keys() {
		g := ds.addGroup(key.Label(date.Monthly))
		for _, acc := range expanded {
			items := slices.Collect(grp.items(key, ByAccounts(acc)))
			sum := sumValues(items)
			sortByDate(items)
			g.addValue(acc.FullName(), sum, items)
		}
	}
	r.datasets["monthlyExpanded"] = ds
	return ds
}

// MonthlyTypes returns the dataset of items grouped per month, one value
// per account type over the sign-normalized derived values, plus a
// synthetic "Balance" value summing the Profit and Expense contributions of
// the period.
func (r *Report) MonthlyTypes() *Dataset {
	if ds, ok := r.datasets["monthlyTypes"]; ok {
		return ds
	}
	ds := &Dataset{}
	grp := r.monthlyGrouping()
	for _, key := range grp.keys() {
		g := ds.addGroup(key.Label(date.Monthly))
		balance := decimal.Zero
		for _, typ := range []AccountType{Asset, Liability, Profit, Expense} {
			items := slices.Collect(grp.items(key, ByAccountTypes(typ)))
			sum := decimal.Zero
			for _, it := range items {
				sum = sum.Add(it.DerivedValue())
			}
			if typ == Profit || typ == Expense {
				balance = balance.Add(sum)
			}
			sortByDate(items)
			g.addValue(typ.String(), sum, items)
		}
		g.addValue("Balance", balance, nil)
	}
	r.datasets["monthlyTypes"] = ds
	return ds
}

func (r *Report) monthlyGrouping() *grouping[date.Range] {
	grp := newDateRangeGrouping(r.from, r.till, date.Monthly)
	grp.addAll(slices.Values(r.Items()))
	return grp
}

func sumValues(items []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Value())
	}
	return sum
}

func sortByDate(items []Item) {
	slices.SortStableFunc(items, func(a, b Item) int { return a.Date().Compare(b.Date()) })
}
