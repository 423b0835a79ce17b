package accounting

import (
	"fmt"
	"iter"
	"slices"
	"sort"
	"strings"

	"github.com/manuel-koch/accounting/date"
	"github.com/shopspring/decimal"
)

// Arena indices. Index 0 designates "none"; valid ids are 1-based so that
// zero-valued nodes never alias a real entity.
type (
	accountID int32
	txID      int32
	itemID    int32
)

type accountNode struct {
	name     string
	typ      AccountType
	parent   accountID
	children []accountID
	root     bool // owned directly by the database forest
}

type txNode struct {
	date  date.Date
	descr string
	items []itemID // insertion order, not value order
	inDB  bool
}

type itemNode struct {
	descr     string
	value     decimal.Decimal
	confirmed bool
	account   accountID
	tx        txID
}

// ChangeKind enumerates the account change events a Database emits.
type ChangeKind int

const (
	AccountRenamed ChangeKind = iota + 1
	AccountRetyped
)

// Change describes a discrete account change event.
type Change struct {
	Kind    ChangeKind
	Account Account
}

// Database holds a forest of root accounts and a list of transactions. All
// accounts, transactions and items live in arenas owned by the Database;
// the Account/Transaction/Item handles index into them.
//
// A Database is not safe for concurrent use: callers embedding it in a
// multi-threaded host must serialize all mutation and query calls.
type Database struct {
	accounts []accountNode
	txs      []txNode
	items    []itemNode

	roots  []accountID // ordered root accounts
	ledger []txID      // sorted ascending by date outside of bulk load

	loading bool // bulk-load phase: sorting deferred to a single final pass

	subs    map[int]func(Change)
	nextSub int
}

// NewDatabase creates an empty database.
func NewDatabase() *Database {
	return &Database{subs: make(map[int]func(Change))}
}

func (db *Database) account(id accountID) *accountNode { return &db.accounts[id-1] }
func (db *Database) tx(id txID) *txNode                { return &db.txs[id-1] }
func (db *Database) item(id itemID) *itemNode          { return &db.items[id-1] }

// NewAccount allocates a free-standing account. It becomes part of the graph
// only when attached to the database or to a parent account.
func (db *Database) NewAccount(name string, typ AccountType) (Account, error) {
	if strings.Contains(name, Separator) {
		return Account{}, fmt.Errorf("%w: %q contains %q", ErrInvalidName, name, Separator)
	}
	if !typ.Valid() {
		return Account{}, fmt.Errorf("%w: %d", ErrInvalidType, typ)
	}
	db.accounts = append(db.accounts, accountNode{name: name, typ: typ})
	return Account{db, accountID(len(db.accounts))}, nil
}

// NewTransaction allocates a free-standing transaction. It is an orphan
// artifact until attached to the database.
func (db *Database) NewTransaction(on date.Date, descr string) Transaction {
	db.txs = append(db.txs, txNode{date: on, descr: descr})
	return Transaction{db, txID(len(db.txs))}
}

// NewItem allocates a free-standing item with the value quantized to the
// default precision.
func (db *Database) NewItem(descr string, value decimal.Decimal, confirmed bool) Item {
	db.items = append(db.items, itemNode{
		descr:     descr,
		value:     Quantize(value, DefaultPrecision),
		confirmed: confirmed,
	})
	return Item{db, itemID(len(db.items))}
}

// AddAccount attaches the account as a root of the database forest. It
// returns true when the account is a root afterwards; attaching an already
// attached root is a no-op. The attachment is refused when the name collides
// with another root. Any previous parent is detached first.
func (db *Database) AddAccount(a Account) bool {
	if a.db != db {
		return false
	}
	n := a.node()
	if n.root {
		return true
	}
	for _, id := range db.roots {
		if db.account(id).name == n.name {
			return false
		}
	}
	db.detach(a)
	n.root = true
	db.roots = append(db.roots, a.id)
	return true
}

// RemoveAccount detaches a root account from the database forest. The
// account's subtree and the items booked on it are left untouched; removing
// an account that is not a root is a no-op.
func (db *Database) RemoveAccount(a Account) {
	if a.db != db || !a.node().root {
		return
	}
	db.detach(a)
}

// detach clears the account's current owner, be it a parent account or the
// database forest.
func (db *Database) detach(a Account) {
	n := a.node()
	if n.parent != 0 {
		p := db.account(n.parent)
		p.children = slices.DeleteFunc(p.children, func(id accountID) bool { return id == a.id })
		n.parent = 0
	}
	if n.root {
		db.roots = slices.DeleteFunc(db.roots, func(id accountID) bool { return id == a.id })
		n.root = false
	}
}

// AddTransaction attaches the transaction to the database. Outside of bulk
// load the transaction list is resorted; attaching an already attached
// transaction is a no-op.
func (db *Database) AddTransaction(t Transaction) {
	if t.db != db || t.node().inDB {
		return
	}
	t.node().inDB = true
	db.ledger = append(db.ledger, t.id)
	if !db.loading {
		db.sortTransactions()
	}
}

// RemoveTransaction detaches the transaction from the database. Its items
// are left untouched; callers are expected to clean them up explicitly.
func (db *Database) RemoveTransaction(t Transaction) {
	if t.db != db || !t.node().inDB {
		return
	}
	db.ledger = slices.DeleteFunc(db.ledger, func(id txID) bool { return id == t.id })
	t.node().inDB = false
}

// sortTransactions sorts the transaction list by date. The sort is stable:
// transactions on the same day keep their relative order.
func (db *Database) sortTransactions() {
	sort.SliceStable(db.ledger, func(i, j int) bool {
		return db.tx(db.ledger[i]).date.Before(db.tx(db.ledger[j]).date)
	})
}

// beginLoad enters the bulk-load phase: transaction sorting is deferred
// until endLoad runs a single sorting pass.
func (db *Database) beginLoad() { db.loading = true }

func (db *Database) endLoad() {
	db.loading = false
	db.sortTransactions()
}

// RootAccounts returns the ordered root accounts of the forest.
func (db *Database) RootAccounts() []Account {
	roots := make([]Account, 0, len(db.roots))
	for _, id := range db.roots {
		roots = append(roots, Account{db, id})
	}
	return roots
}

// AllAccounts returns every attached account in depth-first order.
func (db *Database) AllAccounts() []Account {
	var all []Account
	for _, root := range db.RootAccounts() {
		all = append(all, root)
		all = append(all, root.Descendants()...)
	}
	return all
}

// NumAccounts returns the number of attached accounts.
func (db *Database) NumAccounts() int { return len(db.AllAccounts()) }

// NumTransactions returns the number of transactions in the database.
func (db *Database) NumTransactions() int { return len(db.ledger) }

// Lookup resolves a hierarchical path like "parent/child" to an account, or
// fails with ErrNotFound.
func (db *Database) Lookup(path string) (Account, error) {
	name, rest, nested := strings.Cut(path, Separator)
	for _, id := range db.roots {
		if db.account(id).name == name {
			root := Account{db, id}
			if nested {
				return root.Child(rest)
			}
			return root, nil
		}
	}
	return Account{}, fmt.Errorf("%w: %q", ErrNotFound, path)
}

// Has reports whether an account exists at the given path.
func (db *Database) Has(path string) bool {
	_, err := db.Lookup(path)
	return err == nil
}

// Transactions returns a lazy, order-preserving sequence of the database's
// transactions accepted by the optional filter. The sequence is restartable
// and may be abandoned by the caller without side effects.
func (db *Database) Transactions(f Filter) iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
		for _, id := range db.ledger {
			t := Transaction{db, id}
			if f != nil && RejectsTransaction(f, t) {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

// Items returns a lazy sequence of all items of transactions accepted by the
// filter, each item itself accepted by the filter too.
func (db *Database) Items(f Filter) iter.Seq[Item] {
	return func(yield func(Item) bool) {
		for t := range db.Transactions(f) {
			for it := range t.Items(f) {
				if !yield(it) {
					return
				}
			}
		}
	}
}

// Subscribe registers a callback for account change events and returns its
// cancel function. Events are emitted for attached accounts only: an account
// detached from the graph no longer notifies.
func (db *Database) Subscribe(fn func(Change)) (cancel func()) {
	id := db.nextSub
	db.nextSub++
	if db.subs == nil {
		db.subs = make(map[int]func(Change))
	}
	db.subs[id] = fn
	return func() { delete(db.subs, id) }
}

func (db *Database) notify(c Change) {
	if len(db.subs) == 0 || !c.Account.attached() {
		return
	}
	for _, fn := range db.subs {
		fn(c)
	}
}
