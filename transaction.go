package accounting

import (
	"fmt"
	"iter"
	"slices"

	"github.com/manuel-koch/accounting/date"
	"github.com/shopspring/decimal"
)

// Transaction is a handle to a dated event combining multiple items. The
// zero value is not a valid transaction.
type Transaction struct {
	db *Database
	id txID
}

// IsZero reports whether the handle designates no transaction.
func (t Transaction) IsZero() bool { return t.db == nil }

func (t Transaction) node() *txNode { return t.db.tx(t.id) }

// Date returns the transaction date.
func (t Transaction) Date() date.Date { return t.node().date }

// SetDate changes the transaction date. The database's transaction list is
// resorted when the transaction is part of it.
func (t Transaction) SetDate(d date.Date) {
	n := t.node()
	if n.date == d {
		return
	}
	n.date = d
	if n.inDB {
		t.db.sortTransactions()
	}
}

// Descr returns the free-text description of the transaction.
func (t Transaction) Descr() string { return t.node().descr }

// SetDescr changes the transaction description.
func (t Transaction) SetDescr(descr string) { t.node().descr = descr }

// Len returns the number of items of the transaction.
func (t Transaction) Len() int { return len(t.node().items) }

// AddItem appends the item to the transaction, keeping insertion order. The
// item is detached from any previous transaction first; adding an already
// owned item is a no-op.
func (t Transaction) AddItem(it Item) {
	if t.db != it.db {
		return
	}
	in := it.node()
	if in.tx == t.id {
		return
	}
	if in.tx != 0 {
		Transaction{t.db, in.tx}.RemoveItem(it)
	}
	in.tx = t.id
	n := t.node()
	n.items = append(n.items, it.id)
}

// RemoveItem detaches the item from the transaction. Removing an item that
// is not owned is a no-op. The item itself is not destroyed.
func (t Transaction) RemoveItem(it Item) {
	if t.db != it.db || it.node().tx != t.id {
		return
	}
	n := t.node()
	n.items = slices.DeleteFunc(n.items, func(id itemID) bool { return id == it.id })
	it.node().tx = 0
}

// Items returns a lazy, order-preserving sequence of the transaction's items
// accepted by the optional filter.
func (t Transaction) Items(f Filter) iter.Seq[Item] {
	return func(yield func(Item) bool) {
		for _, id := range t.node().items {
			it := Item{t.db, id}
			if f != nil && RejectsItem(f, it) {
				continue
			}
			if !yield(it) {
				return
			}
		}
	}
}

// HasItems reports whether at least one item is accepted by the filter.
func (t Transaction) HasItems(f Filter) bool {
	for range t.Items(f) {
		return true
	}
	return false
}

// Balance returns the sum of all item values of this transaction.
func (t Transaction) Balance() decimal.Decimal {
	sum := decimal.Zero
	for _, id := range t.node().items {
		sum = sum.Add(t.db.item(id).value)
	}
	return sum
}

// IsBalanced reports whether the item values distribute equally among
// accounts, i.e. sum up to zero.
func (t Transaction) IsBalanced() bool { return t.Balance().IsZero() }

func (t Transaction) String() string {
	return fmt.Sprintf("%s %s", t.Date(), t.Descr())
}
