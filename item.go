package accounting

import (
	"fmt"

	"github.com/manuel-koch/accounting/date"
	"github.com/shopspring/decimal"
)

// Item is a handle to a single posting: a signed monetary entry belonging to
// at most one account and at most one transaction. The zero value is not a
// valid item.
type Item struct {
	db *Database
	id itemID
}

// IsZero reports whether the handle designates no item.
func (it Item) IsZero() bool { return it.db == nil }

func (it Item) node() *itemNode { return it.db.item(it.id) }

// Descr returns the item description.
func (it Item) Descr() string { return it.node().descr }

// SetDescr changes the item description.
func (it Item) SetDescr(descr string) { it.node().descr = descr }

// Value returns the item's quantized value.
func (it Item) Value() decimal.Decimal { return it.node().value }

// SetValue stores the value quantized to the default precision.
func (it Item) SetValue(v decimal.Decimal) { it.node().value = Quantize(v, DefaultPrecision) }

// SetAsset stores v as an asset movement (positive).
func (it Item) SetAsset(v decimal.Decimal) { it.SetValue(v) }

// SetDebit stores v as a debit movement (negative).
func (it Item) SetDebit(v decimal.Decimal) { it.SetValue(v.Neg()) }

// DerivedValue flips the sign when the owning account's derived type is
// Expense or Profit, so all account types share an "increase is positive"
// convention in reports.
func (it Item) DerivedValue() decimal.Decimal {
	v := it.node().value
	if acc, ok := it.Account(); ok {
		switch acc.DerivedType() {
		case Expense, Profit:
			return v.Neg()
		}
	}
	return v
}

// Confirmed reports whether the posting was confirmed against a statement.
func (it Item) Confirmed() bool { return it.node().confirmed }

// SetConfirmed changes the confirmed flag.
func (it Item) SetConfirmed(c bool) { it.node().confirmed = c }

// Account returns the account the item is booked on, if any.
func (it Item) Account() (Account, bool) {
	if id := it.node().account; id != 0 {
		return Account{it.db, id}, true
	}
	return Account{}, false
}

// AccountFullName returns the full path of the booked account, or "".
func (it Item) AccountFullName() string {
	if acc, ok := it.Account(); ok {
		return acc.FullName()
	}
	return ""
}

// Transaction returns the owning transaction, if any.
func (it Item) Transaction() (Transaction, bool) {
	if id := it.node().tx; id != 0 {
		return Transaction{it.db, id}, true
	}
	return Transaction{}, false
}

// Date returns the date of the owning transaction, or the zero date for an
// item that is not part of a transaction.
func (it Item) Date() date.Date {
	if t, ok := it.Transaction(); ok {
		return t.Date()
	}
	return date.Date{}
}

func (it Item) String() string {
	return fmt.Sprintf("Item(%q %s)", it.Descr(), it.Value())
}
