package accounting

import (
	"errors"
	"slices"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/manuel-koch/accounting/date"
)

// mustAccount creates an attached account below parent, or a new root when
// parent is the zero handle.
func mustAccount(t *testing.T, db *Database, parent Account, name string, typ AccountType) Account {
	t.Helper()
	a, err := db.NewAccount(name, typ)
	if err != nil {
		t.Fatalf("NewAccount(%q) unexpected error: %v", name, err)
	}
	if parent.IsZero() {
		if !db.AddAccount(a) {
			t.Fatalf("AddAccount(%q) refused", name)
		}
	} else if !parent.AddChild(a) {
		t.Fatalf("AddChild(%q, %q) refused", parent.FullName(), name)
	}
	return a
}

// book attaches a transaction with a single item booked on acc.
func book(t *testing.T, db *Database, on date.Date, descr, expr string, acc Account) Transaction {
	t.Helper()
	v, err := Eval(expr, DefaultPrecision)
	if err != nil {
		t.Fatalf("Eval(%q) unexpected error: %v", expr, err)
	}
	tx := db.NewTransaction(on, descr)
	db.AddTransaction(tx)
	it := db.NewItem(descr, v, false)
	tx.AddItem(it)
	acc.AddItem(it)
	return tx
}

func TestNewAccountValidation(t *testing.T) {
	db := NewDatabase()
	if _, err := db.NewAccount("a/b", Expense); !errors.Is(err, ErrInvalidName) {
		t.Errorf("separator in name: got %v, want ErrInvalidName", err)
	}
	if _, err := db.NewAccount("ok", AccountType(42)); !errors.Is(err, ErrInvalidType) {
		t.Errorf("bogus type: got %v, want ErrInvalidType", err)
	}
}

func TestAddAccountRootCollision(t *testing.T) {
	db := NewDatabase()
	a := mustAccount(t, db, Account{}, "Home", Unknown)
	b, _ := db.NewAccount("Home", Unknown)
	if db.AddAccount(b) {
		t.Error("second root named Home must be refused")
	}
	// attaching the same root again is a successful no-op
	if !db.AddAccount(a) {
		t.Error("re-attaching an attached root must succeed")
	}
	if got := len(db.RootAccounts()); got != 1 {
		t.Errorf("roots = %d, want 1", got)
	}
}

func TestAddChildRules(t *testing.T) {
	db := NewDatabase()
	root := mustAccount(t, db, Account{}, "Home", Unknown)
	food := mustAccount(t, db, root, "Food", Expense)

	// idempotent
	if !root.AddChild(food) {
		t.Error("re-attaching an attached child must succeed")
	}
	if got := len(root.Children()); got != 1 {
		t.Fatalf("children = %d, want 1", got)
	}

	// name collision with an existing child
	dup, _ := db.NewAccount("Food", Unknown)
	if root.AddChild(dup) {
		t.Error("duplicate child name must be refused")
	}

	// self and cycle refusal
	if root.AddChild(root) {
		t.Error("attaching an account to itself must be refused")
	}
	if food.AddChild(root) {
		t.Error("attaching an ancestor below its descendant must be refused")
	}

	// moving an account detaches it from its previous owner
	cellar := mustAccount(t, db, Account{}, "Cellar", Unknown)
	if !root.AddChild(cellar) {
		t.Fatal("moving a root below Home must succeed")
	}
	if len(db.RootAccounts()) != 1 {
		t.Error("moved account must no longer be a root")
	}
	if p, ok := cellar.Parent(); !ok || p != root {
		t.Error("moved account must have Home as parent")
	}
	if cellar.FullName() != "Home/Cellar" {
		t.Errorf("FullName = %q, want Home/Cellar", cellar.FullName())
	}
}

func TestLookup(t *testing.T) {
	db := NewDatabase()
	root := mustAccount(t, db, Account{}, "Home", Unknown)
	food := mustAccount(t, db, root, "Food", Expense)
	mustAccount(t, db, food, "Groceries", Unknown)

	got, err := db.Lookup("Home/Food/Groceries")
	if err != nil {
		t.Fatalf("Lookup unexpected error: %v", err)
	}
	if got.FullName() != "Home/Food/Groceries" {
		t.Errorf("Lookup resolved %q", got.FullName())
	}
	if _, err := db.Lookup("Home/Bar"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing child: got %v, want ErrNotFound", err)
	}
	if _, err := db.Lookup("Root"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing root: got %v, want ErrNotFound", err)
	}
	if !db.Has("Home/Food") || db.Has("Home/Food/Fruit") {
		t.Error("Has disagrees with Lookup")
	}
}

func TestSetNameCollision(t *testing.T) {
	db := NewDatabase()
	root := mustAccount(t, db, Account{}, "Home", Unknown)
	food := mustAccount(t, db, root, "Food", Expense)
	mustAccount(t, db, root, "Car", Expense)

	if food.SetName("Car") {
		t.Error("renaming to a sibling name must be refused")
	}
	if food.SetName("a/b") {
		t.Error("renaming to a name with separator must be refused")
	}
	if !food.SetName("Groceries") || food.Name() != "Groceries" {
		t.Error("legal rename must be applied")
	}
}

func TestDerivedType(t *testing.T) {
	db := NewDatabase()
	root := mustAccount(t, db, Account{}, "Home", Unknown)
	food := mustAccount(t, db, root, "Food", Expense)
	fruit := mustAccount(t, db, food, "Fruit", Unknown)

	if got := fruit.DerivedType(); got != Expense {
		t.Errorf("DerivedType = %v, want Expense", got)
	}
	if got := root.DerivedType(); got != Unknown {
		t.Errorf("DerivedType = %v, want Unknown", got)
	}
	if got := fruit.Type(); got != Unknown {
		t.Errorf("own Type = %v, want Unknown", got)
	}
}

func TestChangeEvents(t *testing.T) {
	db := NewDatabase()
	root := mustAccount(t, db, Account{}, "Home", Unknown)
	food := mustAccount(t, db, root, "Food", Expense)

	var changes []Change
	cancel := db.Subscribe(func(c Change) { changes = append(changes, c) })

	food.SetName("Groceries")
	food.SetType(Asset)
	food.SetType(Asset) // unchanged, no event
	if len(changes) != 2 {
		t.Fatalf("events = %d, want 2", len(changes))
	}
	if changes[0].Kind != AccountRenamed || changes[0].Account != food {
		t.Errorf("first event = %+v, want rename of Groceries", changes[0])
	}
	if changes[1].Kind != AccountRetyped {
		t.Errorf("second event = %+v, want retype", changes[1])
	}

	// detached accounts stay silent
	root.RemoveChild(food)
	food.SetName("Silent")
	if len(changes) != 2 {
		t.Error("detached account must not notify")
	}

	cancel()
	root.SetName("Flat")
	if len(changes) != 2 {
		t.Error("cancelled subscription must not notify")
	}
}

func TestTransactionOrdering(t *testing.T) {
	db := NewDatabase()
	acc := mustAccount(t, db, Account{}, "Home", Unknown)

	on := date.New(2025, 3, 15)
	first := book(t, db, on, "first", "2", acc)
	second := book(t, db, on, "second", "3", acc)
	late := book(t, db, on.Add(1), "late", "4", acc)
	early := book(t, db, on.Add(-5), "early", "1", acc)

	got := slices.Collect(db.Transactions(nil))
	want := []Transaction{early, first, second, late}
	if !slices.Equal(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}

	// changing a date resorts, equal dates keep their relative order
	early.SetDate(on)
	got = slices.Collect(db.Transactions(nil))
	want = []Transaction{early, first, second, late}
	if !slices.Equal(got, want) {
		t.Fatalf("order after SetDate = %v, want %v", got, want)
	}
	late.SetDate(on.Add(-30))
	if got := slices.Collect(db.Transactions(nil)); got[0] != late {
		t.Error("transaction moved to the past must come first")
	}
}

func TestRemoveTransaction(t *testing.T) {
	db := NewDatabase()
	acc := mustAccount(t, db, Account{}, "Home", Unknown)
	tx := book(t, db, date.New(2025, 1, 1), "bye", "1", acc)

	db.RemoveTransaction(tx)
	if db.NumTransactions() != 0 {
		t.Fatal("transaction must be removed")
	}
	db.RemoveTransaction(tx) // no-op
	// its item still exists and is still booked on the account
	if tx.Len() != 1 {
		t.Error("items of a removed transaction are left untouched")
	}
}

func TestItemSingleOwner(t *testing.T) {
	db := NewDatabase()
	acc := mustAccount(t, db, Account{}, "Home", Unknown)
	other := mustAccount(t, db, Account{}, "Bank", Asset)

	t1 := db.NewTransaction(date.New(2025, 1, 1), "one")
	t2 := db.NewTransaction(date.New(2025, 1, 2), "two")
	db.AddTransaction(t1)
	db.AddTransaction(t2)

	it := db.NewItem("posting", decimal.New(5, 0), false)
	t1.AddItem(it)
	t1.AddItem(it) // no-op
	if t1.Len() != 1 {
		t.Fatalf("t1.Len = %d, want 1", t1.Len())
	}

	// moving the item detaches it from its previous transaction
	t2.AddItem(it)
	if t1.Len() != 0 || t2.Len() != 1 {
		t.Errorf("after move t1.Len = %d, t2.Len = %d", t1.Len(), t2.Len())
	}
	if on := it.Date(); on != t2.Date() {
		t.Errorf("item date = %s, want %s", on, t2.Date())
	}

	// same single-owner rule for accounts
	acc.AddItem(it)
	other.AddItem(it)
	if a, _ := it.Account(); a != other {
		t.Errorf("item account = %v, want Bank", a)
	}
	other.RemoveItem(it)
	if _, ok := it.Account(); ok {
		t.Error("removed item must have no account")
	}
}

func TestTransactionBalance(t *testing.T) {
	db := NewDatabase()
	tx := db.NewTransaction(date.New(2025, 1, 1), "swap")
	db.AddTransaction(tx)

	a := db.NewItem("out", decimal.RequireFromString("-12.5"), false)
	b := db.NewItem("in", decimal.RequireFromString("12.5"), false)
	tx.AddItem(a)
	if tx.IsBalanced() {
		t.Error("single item transaction must be unbalanced")
	}
	tx.AddItem(b)
	if !tx.IsBalanced() {
		t.Errorf("balance = %s, want 0", tx.Balance())
	}
}

func TestItemValueQuantized(t *testing.T) {
	db := NewDatabase()
	it := db.NewItem("x", decimal.RequireFromString("1.005"), false)
	if got := it.Value().String(); got != "1" {
		t.Errorf("quantized value = %s, want 1", got)
	}
	it.SetValue(decimal.RequireFromString("2.345"))
	if got := it.Value().String(); got != "2.34" {
		t.Errorf("quantized value = %s, want 2.34", got)
	}
	it.SetDebit(decimal.RequireFromString("3"))
	if got := it.Value().String(); got != "-3" {
		t.Errorf("debit value = %s, want -3", got)
	}
}
