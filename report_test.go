package accounting

import (
	"slices"
	"testing"

	"github.com/manuel-koch/accounting/date"
)

// reportFixture books expenses and income over january and february 2025:
//
//	Home
//	├── Food (Expense)
//	│   └── Fruit
//	└── Bank (Asset)
type reportFixture struct {
	db                *Database
	root              Account
	food, fruit, bank Account
}

func newReportFixture(t *testing.T) *reportFixture {
	t.Helper()
	db := NewDatabase()
	fx := &reportFixture{db: db}
	fx.root = mustAccount(t, db, Account{}, "Home", Unknown)
	fx.food = mustAccount(t, db, fx.root, "Food", Expense)
	fx.fruit = mustAccount(t, db, fx.food, "Fruit", Unknown)
	fx.bank = mustAccount(t, db, fx.root, "Bank", Asset)

	book(t, db, date.New(2025, 1, 10), "groceries", "-40", fx.food)
	book(t, db, date.New(2025, 1, 12), "apples", "-10", fx.fruit)
	book(t, db, date.New(2025, 1, 25), "wages", "2500", fx.bank)
	book(t, db, date.New(2025, 2, 14), "pears", "-20", fx.fruit)
	return fx
}

func newReport(fx *reportFixture, accounts ...Account) *Report {
	r := NewReport(fx.db, date.New(2025, 1, 1), date.New(2025, 2, 28))
	for _, a := range accounts {
		r.AddAccount(a)
	}
	return r
}

func groupLabels(ds *Dataset) []string {
	var labels []string
	for _, g := range ds.Groups() {
		labels = append(labels, g.Label())
	}
	return labels
}

func amount(g *Group, label string) string {
	for _, v := range g.Values() {
		if v.Label() == label {
			return v.Amount().String()
		}
	}
	return "<missing>"
}

func TestReportItems(t *testing.T) {
	fx := newReportFixture(t)
	r := newReport(fx, fx.food)

	items := r.Items()
	if len(items) != 3 {
		t.Fatalf("items = %d, want 3", len(items))
	}
	// memoized: a second call yields the identical slice
	again := r.Items()
	if &items[0] != &again[0] {
		t.Error("Items must be memoized")
	}

	// out-of-range and foreign-account items are excluded
	r2 := NewReport(fx.db, date.New(2025, 2, 1), date.New(2025, 2, 28))
	r2.AddAccount(fx.food)
	if got := len(r2.Items()); got != 1 {
		t.Errorf("february items = %d, want 1", got)
	}
}

func TestReportSelection(t *testing.T) {
	fx := newReportFixture(t)
	r := newReport(fx, fx.food, fx.bank)
	r.AddAccount(fx.food) // duplicate, ignored
	if got := len(r.Accounts()); got != 2 {
		t.Fatalf("selection = %d, want 2", got)
	}
	r.RemoveAccount(fx.bank)
	if got := r.Accounts(); len(got) != 1 || got[0] != fx.food {
		t.Errorf("selection after remove = %v", got)
	}
}

func TestMonthly(t *testing.T) {
	fx := newReportFixture(t)
	r := newReport(fx, fx.food, fx.bank)

	ds := r.Monthly()
	if got := groupLabels(ds); !slices.Equal(got, []string{"Jan 25", "Feb 25"}) {
		t.Fatalf("groups = %v", got)
	}
	if got := ds.Series(); !slices.Equal(got, []string{"Home/Food", "Home/Bank"}) {
		t.Fatalf("series = %v", got)
	}

	jan, feb := ds.Groups()[0], ds.Groups()[1]
	if got := amount(jan, "Home/Food"); got != "-50" {
		t.Errorf("Jan Food = %s, want -50", got)
	}
	if got := amount(jan, "Home/Bank"); got != "2500" {
		t.Errorf("Jan Bank = %s, want 2500", got)
	}
	if got := amount(feb, "Home/Food"); got != "-20" {
		t.Errorf("Feb Food = %s, want -20", got)
	}
	if got := amount(feb, "Home/Bank"); got != "0" {
		t.Errorf("Feb Bank = %s, want 0", got)
	}

	// memoized until the range changes
	if r.Monthly() != ds {
		t.Error("Monthly must be memoized")
	}
	r.SetRange(date.New(2025, 1, 1), date.New(2025, 1, 31))
	ds = r.Monthly()
	if got := groupLabels(ds); !slices.Equal(got, []string{"Jan 25"}) {
		t.Errorf("groups after SetRange = %v", got)
	}
}

// When both an ancestor and its descendant are selected, the ancestor column
// excludes the items attributable to the selected descendant.
func TestMonthlyAncestorExcludesSelectedDescendant(t *testing.T) {
	fx := newReportFixture(t)
	r := newReport(fx, fx.food, fx.fruit)

	jan := r.Monthly().Groups()[0]
	if got := amount(jan, "Home/Food"); got != "-40" {
		t.Errorf("Food without Fruit = %s, want -40", got)
	}
	if got := amount(jan, "Home/Food/Fruit"); got != "-10" {
		t.Errorf("Fruit = %s, want -10", got)
	}

	// unselected descendants still count towards the ancestor
	r2 := newReport(fx, fx.food)
	jan = r2.Monthly().Groups()[0]
	if got := amount(jan, "Home/Food"); got != "-50" {
		t.Errorf("Food with Fruit folded in = %s, want -50", got)
	}
}

func TestMonthlyEmptyMonthsAppear(t *testing.T) {
	fx := newReportFixture(t)
	r := NewReport(fx.db, date.New(2025, 1, 1), date.New(2025, 4, 30))
	r.AddAccount(fx.bank)

	ds := r.Monthly()
	if got := groupLabels(ds); !slices.Equal(got, []string{"Jan 25", "Feb 25", "Mar 25", "Apr 25"}) {
		t.Fatalf("groups = %v", got)
	}
	for _, g := range ds.Groups()[1:] {
		if got := amount(g, "Home/Bank"); got != "0" {
			t.Errorf("%s Bank = %s, want 0", g.Label(), got)
		}
	}
}

func TestMonthlyExpanded(t *testing.T) {
	fx := newReportFixture(t)
	r := newReport(fx, fx.root)

	ds := r.MonthlyExpanded()
	want := []string{"Home", "Home/Food", "Home/Food/Fruit", "Home/Bank"}
	if got := ds.Series(); !slices.Equal(got, want) {
		t.Fatalf("series = %v, want %v", got, want)
	}

	jan := ds.Groups()[0]
	if got := amount(jan, "Home"); got != "0" {
		t.Errorf("Home = %s, want 0 (no direct items)", got)
	}
	if got := amount(jan, "Home/Food"); got != "-40" {
		t.Errorf("Food = %s, want -40 (exact bookings only)", got)
	}
	if got := amount(jan, "Home/Food/Fruit"); got != "-10" {
		t.Errorf("Fruit = %s, want -10", got)
	}
}

func TestMonthlyTypes(t *testing.T) {
	fx := newReportFixture(t)
	r := newReport(fx, fx.root)

	ds := r.MonthlyTypes()
	want := []string{"Asset", "Liability", "Profit", "Expense", "Balance"}
	if got := ds.Series(); !slices.Equal(got, want) {
		t.Fatalf("series = %v, want %v", got, want)
	}

	jan := ds.Groups()[0]
	// derived values are sign normalized: spending 50 shows as 50 expense
	if got := amount(jan, "Expense"); got != "50" {
		t.Errorf("Expense = %s, want 50", got)
	}
	if got := amount(jan, "Asset"); got != "2500" {
		t.Errorf("Asset = %s, want 2500", got)
	}
	// wages were booked on an asset account, not on a profit account
	if got := amount(jan, "Profit"); got != "0" {
		t.Errorf("Profit = %s, want 0", got)
	}
	if got := amount(jan, "Balance"); got != "50" {
		t.Errorf("Balance = %s, want 50", got)
	}
}

func TestGroupSortedAndPercent(t *testing.T) {
	fx := newReportFixture(t)
	// one more expense account so there is something to collapse
	car := mustAccount(t, fx.db, fx.root, "Car", Expense)
	book(t, fx.db, date.New(2025, 1, 20), "fuel", "-70", car)

	r := newReport(fx, fx.food, fx.fruit, fx.bank, car)
	jan := r.Monthly().Groups()[0]

	sorted := jan.Sorted(0)
	if len(sorted) != 4 {
		t.Fatalf("sorted = %d values, want 4", len(sorted))
	}
	if sorted[0].Label() != "Home/Bank" {
		t.Errorf("largest value = %s, want Home/Bank", sorted[0].Label())
	}

	capped := jan.Sorted(2)
	if len(capped) != 2 {
		t.Fatalf("capped = %d values, want 2", len(capped))
	}
	if capped[1].Label() != "..." {
		t.Fatalf("remainder label = %q, want ...", capped[1].Label())
	}
	// -10 + -40 + -70
	if got := capped[1].Amount().String(); got != "-120" {
		t.Errorf("remainder = %s, want -120", got)
	}

	// percent shares relate to the group sum
	sum := jan.Sum()
	if got := sum.String(); got != "2380" {
		t.Fatalf("group sum = %s, want 2380", got)
	}
	for _, v := range jan.Values() {
		if v.Label() == "Home/Bank" {
			want := 2500.0 * 100 / 2380
			if got := v.Percent(); got < want-0.01 || got > want+0.01 {
				t.Errorf("Percent = %f, want about %f", got, want)
			}
		}
	}
}

func TestPercentZeroSum(t *testing.T) {
	g := &Group{label: "empty"}
	v := g.addValue("only", mustEval(t, "0"), nil)
	if got := v.Percent(); got != 100 {
		t.Errorf("zero sum Percent = %f, want 100", got)
	}
}
