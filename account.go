package accounting

import (
	"fmt"
	"iter"
	"strings"
)

// Separator joins account names into hierarchical paths. A single account
// name must not contain it.
const Separator = "/"

// AccountType classifies accounts in the chart of accounts.
type AccountType int

const (
	Unknown   AccountType = iota
	Profit                // getting money from
	Expense               // spending money on
	Asset                 // e.g. cash or bank account
	Liability             // e.g. a credit card
)

// AccountTypes lists all known types in display order.
var AccountTypes = []AccountType{Unknown, Profit, Expense, Asset, Liability}

func (t AccountType) String() string {
	switch t {
	case Unknown:
		return "Unknown"
	case Profit:
		return "Profit"
	case Expense:
		return "Expense"
	case Asset:
		return "Asset"
	case Liability:
		return "Liability"
	default:
		return "Unknown"
	}
}

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool { return t >= Unknown && t <= Liability }

// ParseAccountType parses a type name as persisted in snapshots.
func ParseAccountType(s string) (AccountType, error) {
	for _, t := range AccountTypes {
		if t.String() == s {
			return t, nil
		}
	}
	return Unknown, fmt.Errorf("%w: %q", ErrInvalidType, s)
}

// Account is a handle to an account node owned by a Database. The zero value
// is not a valid account. Handles are comparable: two handles are equal when
// they designate the same node.
type Account struct {
	db *Database
	id accountID
}

// IsZero reports whether the handle designates no account.
func (a Account) IsZero() bool { return a.db == nil }

func (a Account) node() *accountNode { return a.db.account(a.id) }

// Name returns the account name, the last segment of its path.
func (a Account) Name() string { return a.node().name }

// SetName renames the account. It is not applied, and false is returned,
// when the new name contains the separator or collides with a sibling.
func (a Account) SetName(name string) bool {
	if strings.Contains(name, Separator) {
		return false
	}
	n := a.node()
	for _, sib := range a.siblings() {
		if sib != a.id && a.db.account(sib).name == name {
			return false
		}
	}
	if n.name != name {
		n.name = name
		a.db.notify(Change{Kind: AccountRenamed, Account: a})
	}
	return true
}

// siblings returns the sibling id set the account's name must be unique in.
func (a Account) siblings() []accountID {
	n := a.node()
	if n.parent != 0 {
		return a.db.account(n.parent).children
	}
	if n.root {
		return a.db.roots
	}
	return nil
}

// Type returns the account's own type, which may be Unknown.
func (a Account) Type() AccountType { return a.node().typ }

// SetType changes the account type. Unrecognized types are not applied.
func (a Account) SetType(t AccountType) bool {
	if !t.Valid() {
		return false
	}
	n := a.node()
	if n.typ != t {
		n.typ = t
		a.db.notify(Change{Kind: AccountRetyped, Account: a})
	}
	return true
}

// DerivedType resolves Unknown by walking up to the nearest ancestor with a
// concrete type.
func (a Account) DerivedType() AccountType {
	for id := a.id; id != 0; id = a.db.account(id).parent {
		if t := a.db.account(id).typ; t != Unknown {
			return t
		}
	}
	return Unknown
}

// Parent returns the parent account, if any.
func (a Account) Parent() (Account, bool) {
	if p := a.node().parent; p != 0 {
		return Account{a.db, p}, true
	}
	return Account{}, false
}

// FullName returns the path of the account from its tree root, joined with
// the separator.
func (a Account) FullName() string {
	if p, ok := a.Parent(); ok {
		return p.FullName() + Separator + a.Name()
	}
	return a.Name()
}

func (a Account) String() string { return a.Name() }

// Children returns the ordered list of direct child accounts.
func (a Account) Children() []Account {
	n := a.node()
	children := make([]Account, 0, len(n.children))
	for _, id := range n.children {
		children = append(children, Account{a.db, id})
	}
	return children
}

// Descendants returns all (grand) child accounts in depth-first order.
func (a Account) Descendants() []Account {
	var all []Account
	for _, c := range a.Children() {
		all = append(all, c)
		all = append(all, c.Descendants()...)
	}
	return all
}

// HasDescendant reports whether b is a (grand) child of a.
func (a Account) HasDescendant(b Account) bool {
	if a.db != b.db {
		return false
	}
	for id := b.node().parent; id != 0; id = a.db.account(id).parent {
		if id == a.id {
			return true
		}
	}
	return false
}

// Covers reports whether b is a itself or one of its descendants.
func (a Account) Covers(b Account) bool { return a == b || a.HasDescendant(b) }

// Child resolves a path relative to this account, e.g. "child/grandchild".
func (a Account) Child(path string) (Account, error) {
	name, rest, nested := strings.Cut(path, Separator)
	for _, id := range a.node().children {
		if a.db.account(id).name == name {
			child := Account{a.db, id}
			if nested {
				return child.Child(rest)
			}
			return child, nil
		}
	}
	return Account{}, fmt.Errorf("%w: %q has no child %q", ErrNotFound, a.FullName(), name)
}

// AddChild attaches b as a child of a. It returns true when b is a child of
// a afterwards; attaching an already attached child is a no-op. The
// attachment is refused when b's name collides with an existing child or
// when it would create a cycle. Any previous parent (or root slot) of b is
// detached first.
func (a Account) AddChild(b Account) bool {
	if a.db != b.db || a == b {
		return false
	}
	bn := b.node()
	if bn.parent == a.id {
		return true
	}
	for _, id := range a.node().children {
		if a.db.account(id).name == bn.name {
			return false
		}
	}
	if b.Covers(a) {
		return false
	}
	a.db.detach(b)
	bn.parent = a.id
	an := a.node()
	an.children = append(an.children, b.id)
	return true
}

// RemoveChild detaches b from a. Detaching an account that is not a child is
// a no-op.
func (a Account) RemoveChild(b Account) {
	if a.db != b.db || b.node().parent != a.id {
		return
	}
	a.db.detach(b)
}

// attached reports whether the account is reachable from the database forest.
func (a Account) attached() bool {
	id := a.id
	for a.db.account(id).parent != 0 {
		id = a.db.account(id).parent
	}
	return a.db.account(id).root
}

// AddItem books the item on this account. The item is detached from any
// previous account first; booking an already booked item is a no-op.
func (a Account) AddItem(it Item) {
	if a.db != it.db {
		return
	}
	it.node().account = a.id
}

// RemoveItem clears the item's booking on this account, if any.
func (a Account) RemoveItem(it Item) {
	if a.db != it.db || it.node().account != a.id {
		return
	}
	it.node().account = 0
}

// Items returns a lazy sequence of all ledger items booked on this account
// or one of its descendants, further narrowed by the optional filter.
func (a Account) Items(f Filter) iter.Seq[Item] {
	return a.db.Items(a.scoped(f))
}

// Transactions returns a lazy sequence of all transactions touching this
// account or one of its descendants, further narrowed by the optional filter.
func (a Account) Transactions(f Filter) iter.Seq[Transaction] {
	return a.db.Transactions(a.scoped(f))
}

func (a Account) scoped(f Filter) Filter {
	scope := ByAccountsAndChildren(a)
	if f == nil {
		return scope
	}
	return And(scope, f)
}
