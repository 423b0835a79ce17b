package accounting

import (
	"regexp"

	"github.com/manuel-koch/accounting/date"
	"github.com/shopspring/decimal"
)

// Filter is a stateless, reusable predicate over the two ledger entity
// kinds. The two methods form a closed capability set: adding an entity
// kind is a compile-time change, not a runtime type error.
//
// Item-scoped predicates accept a Transaction iff at least one of its items
// is accepted.
type Filter interface {
	AcceptsItem(Item) bool
	AcceptsTransaction(Transaction) bool
}

// rejecter is implemented by combinators whose rejection is the dual of
// their acceptance under the same short-circuit algebra.
type rejecter interface {
	RejectsItem(Item) bool
	RejectsTransaction(Transaction) bool
}

// RejectsItem reports whether the filter rejects the item. Combinators
// evaluate the dual algebra with its own short-circuit; plain predicates
// fall back to the negated acceptance.
func RejectsItem(f Filter, it Item) bool {
	if r, ok := f.(rejecter); ok {
		return r.RejectsItem(it)
	}
	return !f.AcceptsItem(it)
}

// RejectsTransaction reports whether the filter rejects the transaction.
func RejectsTransaction(f Filter, t Transaction) bool {
	if r, ok := f.(rejecter); ok {
		return r.RejectsTransaction(t)
	}
	return !f.AcceptsTransaction(t)
}

// andFilter accepts when every sub-filter accepts, evaluated left to right,
// stopping at the first rejecting sub-filter. An empty list is vacuously
// true.
type andFilter struct{ filters []Filter }

// And combines filters so that all of them must accept.
func And(filters ...Filter) Filter { return andFilter{filters} }

func (f andFilter) AcceptsItem(it Item) bool {
	for _, sub := range f.filters {
		if !sub.AcceptsItem(it) {
			return false
		}
	}
	return true
}

func (f andFilter) AcceptsTransaction(t Transaction) bool {
	for _, sub := range f.filters {
		if !sub.AcceptsTransaction(t) {
			return false
		}
	}
	return true
}

func (f andFilter) RejectsItem(it Item) bool {
	for _, sub := range f.filters {
		if RejectsItem(sub, it) {
			return true
		}
	}
	return false
}

func (f andFilter) RejectsTransaction(t Transaction) bool {
	for _, sub := range f.filters {
		if RejectsTransaction(sub, t) {
			return true
		}
	}
	return false
}

// orFilter accepts when any sub-filter accepts, evaluated left to right,
// stopping at the first accepting sub-filter. An empty list is vacuously
// true.
type orFilter struct{ filters []Filter }

// Or combines filters so that any of them may accept.
func Or(filters ...Filter) Filter { return orFilter{filters} }

func (f orFilter) AcceptsItem(it Item) bool {
	if len(f.filters) == 0 {
		return true
	}
	for _, sub := range f.filters {
		if sub.AcceptsItem(it) {
			return true
		}
	}
	return false
}

func (f orFilter) AcceptsTransaction(t Transaction) bool {
	if len(f.filters) == 0 {
		return true
	}
	for _, sub := range f.filters {
		if sub.AcceptsTransaction(t) {
			return true
		}
	}
	return false
}

func (f orFilter) RejectsItem(it Item) bool {
	if len(f.filters) == 0 {
		return false
	}
	for _, sub := range f.filters {
		if !RejectsItem(sub, it) {
			return false
		}
	}
	return true
}

func (f orFilter) RejectsTransaction(t Transaction) bool {
	if len(f.filters) == 0 {
		return false
	}
	for _, sub := range f.filters {
		if !RejectsTransaction(sub, t) {
			return false
		}
	}
	return true
}

// byFromDate accepts dates equal to or after the given date.
type byFromDate struct{ from date.Date }

// ByFromDate accepts items and transactions dated on or after from.
func ByFromDate(from date.Date) Filter { return byFromDate{from} }

func (f byFromDate) AcceptsItem(it Item) bool { return !it.Date().Before(f.from) }

func (f byFromDate) AcceptsTransaction(t Transaction) bool { return !t.Date().Before(f.from) }

// byTillDate accepts dates equal to or before the given date.
type byTillDate struct{ till date.Date }

// ByTillDate accepts items and transactions dated on or before till.
func ByTillDate(till date.Date) Filter { return byTillDate{till} }

func (f byTillDate) AcceptsItem(it Item) bool { return !it.Date().After(f.till) }

func (f byTillDate) AcceptsTransaction(t Transaction) bool { return !t.Date().After(f.till) }

// byDateRange accepts dates between from and till, boundaries included.
type byDateRange struct{ r date.Range }

// ByDateRange accepts items and transactions dated within [from, till].
// Swapped boundaries are normalized.
func ByDateRange(from, till date.Date) Filter {
	return byDateRange{date.NewRange(from, till)}
}

func (f byDateRange) AcceptsItem(it Item) bool { return f.r.Contains(it.Date()) }

func (f byDateRange) AcceptsTransaction(t Transaction) bool { return f.r.Contains(t.Date()) }

// byValue accepts items carrying the given value, or belonging to a
// transaction any of whose items carries it.
type byValue struct{ value decimal.Decimal }

// ByValue accepts items whose value - or any sibling item's value within the
// same transaction - equals v, and transactions with at least one such item.
func ByValue(v decimal.Decimal) Filter { return byValue{v} }

func (f byValue) AcceptsItem(it Item) bool {
	if it.Value().Equal(f.value) {
		return true
	}
	if t, ok := it.Transaction(); ok {
		return f.AcceptsTransaction(t)
	}
	return false
}

func (f byValue) AcceptsTransaction(t Transaction) bool {
	for it := range t.Items(nil) {
		if it.Value().Equal(f.value) {
			return true
		}
	}
	return false
}

// byDescr accepts descriptions matching the given regular expression. For an
// item the match considers the item's own description, its transaction's
// description and the sibling items' descriptions.
type byDescr struct{ re *regexp.Regexp }

// ByDescr accepts items and transactions whose description context matches
// the regular expression.
func ByDescr(re *regexp.Regexp) Filter { return byDescr{re} }

func (f byDescr) AcceptsItem(it Item) bool {
	if f.re.MatchString(it.Descr()) {
		return true
	}
	if t, ok := it.Transaction(); ok {
		if f.re.MatchString(t.Descr()) {
			return true
		}
		for sibling := range t.Items(nil) {
			if sibling != it && f.re.MatchString(sibling.Descr()) {
				return true
			}
		}
	}
	return false
}

func (f byDescr) AcceptsTransaction(t Transaction) bool {
	if f.re.MatchString(t.Descr()) {
		return true
	}
	for it := range t.Items(nil) {
		if f.re.MatchString(it.Descr()) {
			return true
		}
	}
	return false
}

// byAccounts accepts items booked exactly on one of the given accounts.
type byAccounts struct{ accounts []Account }

// ByAccounts accepts items booked on exactly one of the given accounts, and
// transactions with at least one such item.
func ByAccounts(accounts ...Account) Filter { return byAccounts{accounts} }

func (f byAccounts) AcceptsItem(it Item) bool {
	acc, ok := it.Account()
	if !ok {
		return false
	}
	for _, a := range f.accounts {
		if a == acc {
			return true
		}
	}
	return false
}

func (f byAccounts) AcceptsTransaction(t Transaction) bool { return t.HasItems(f) }

// byAccountsAndChildren accepts items booked on one of the given accounts or
// any of their descendants.
type byAccountsAndChildren struct{ accounts []Account }

// ByAccountsAndChildren accepts items booked on one of the given accounts or
// their nested accounts, and transactions with at least one such item.
func ByAccountsAndChildren(accounts ...Account) Filter {
	return byAccountsAndChildren{accounts}
}

func (f byAccountsAndChildren) AcceptsItem(it Item) bool {
	acc, ok := it.Account()
	if !ok {
		return false
	}
	for _, a := range f.accounts {
		if a.Covers(acc) {
			return true
		}
	}
	return false
}

func (f byAccountsAndChildren) AcceptsTransaction(t Transaction) bool { return t.HasItems(f) }

// notByAccountsAndChildren accepts everything but the given accounts and
// their nested accounts.
type notByAccountsAndChildren struct{ accounts []Account }

// NotByAccountsAndChildren accepts items booked outside the given accounts
// and their nested accounts, and transactions with at least one such item.
func NotByAccountsAndChildren(accounts ...Account) Filter {
	return notByAccountsAndChildren{accounts}
}

func (f notByAccountsAndChildren) AcceptsItem(it Item) bool {
	acc, ok := it.Account()
	if !ok {
		return true
	}
	for _, a := range f.accounts {
		if a.Covers(acc) {
			return false
		}
	}
	return true
}

func (f notByAccountsAndChildren) AcceptsTransaction(t Transaction) bool { return t.HasItems(f) }

// byAccountTypes accepts items whose account's derived type is in the set.
type byAccountTypes struct{ types []AccountType }

// ByAccountTypes accepts items booked on accounts whose derived type is one
// of the given types, and transactions with at least one such item.
func ByAccountTypes(types ...AccountType) Filter { return byAccountTypes{types} }

func (f byAccountTypes) AcceptsItem(it Item) bool {
	acc, ok := it.Account()
	if !ok {
		return false
	}
	derived := acc.DerivedType()
	for _, t := range f.types {
		if t == derived {
			return true
		}
	}
	return false
}

func (f byAccountTypes) AcceptsTransaction(t Transaction) bool { return t.HasItems(f) }
