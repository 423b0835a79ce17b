// Package renderer formats databases, reports and datasets as markdown.
package renderer

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/manuel-koch/accounting"
)

// Amount formats a decimal in the given ISO currency, e.g. "€1,234.50".
// An unknown currency code falls back to the plain decimal string.
func Amount(d decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return d.StringFixed(accounting.DefaultPrecision)
	}
	shifted := d.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(shifted.IntPart())
}

// DatasetMarkdown renders a dataset as a markdown table, one row per group
// and one column per series value, with a trailing sum column.
func DatasetMarkdown(title string, ds *accounting.Dataset, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	series := ds.Series()
	if len(series) == 0 {
		fmt.Fprintf(&b, "no data\n")
		return b.String()
	}

	fmt.Fprintf(&b, "| Period |")
	for _, label := range series {
		fmt.Fprintf(&b, " %s |", label)
	}
	fmt.Fprintf(&b, " Sum |\n")
	fmt.Fprintf(&b, "|:---|")
	for range series {
		fmt.Fprintf(&b, "---:|")
	}
	fmt.Fprintf(&b, "---:|\n")

	for _, g := range ds.Groups() {
		fmt.Fprintf(&b, "| %s |", g.Label())
		for _, v := range g.Values() {
			fmt.Fprintf(&b, " %s |", Amount(v.Amount(), currency))
		}
		fmt.Fprintf(&b, " %s |\n", Amount(g.Sum(), currency))
	}
	return b.String()
}

// GroupMarkdown renders a single group as a ranked breakdown of its values
// with their share of the group total. max caps the listed values, the
// remainder collapses into one row.
func GroupMarkdown(g *accounting.Group, currency string, max int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", g.Label())
	fmt.Fprintf(&b, "| Account | Amount | Share |\n")
	fmt.Fprintf(&b, "|:---|---:|---:|\n")
	for _, v := range g.Sorted(max) {
		fmt.Fprintf(&b, "| %s | %s | %.1f%% |\n", v.Label(), Amount(v.Amount(), currency), v.Percent())
	}
	fmt.Fprintf(&b, "| **Sum** | **%s** | |\n", Amount(g.Sum(), currency))
	return b.String()
}

// TransactionsMarkdown renders the filtered transactions of the database as
// a markdown table, flagging unbalanced ones.
func TransactionsMarkdown(title string, db *accounting.Database, f accounting.Filter, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "| Date | Description | Items | Balance |\n")
	fmt.Fprintf(&b, "|:---|:---|---:|---:|\n")
	for t := range db.Transactions(f) {
		balance := ""
		if !t.IsBalanced() {
			balance = Amount(t.Balance(), currency)
		}
		fmt.Fprintf(&b, "| %s | %s | %d | %s |\n", t.Date(), t.Descr(), t.Len(), balance)
	}
	return b.String()
}

// ItemsMarkdown renders items as a markdown table with a trailing sum row.
func ItemsMarkdown(title string, items []accounting.Item, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", title)
	fmt.Fprintf(&b, "| Date | Account | Description | Confirmed | Amount |\n")
	fmt.Fprintf(&b, "|:---|:---|:---|:---:|---:|\n")
	sum := decimal.Zero
	for _, it := range items {
		confirmed := ""
		if it.Confirmed() {
			confirmed = "x"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			it.Date(), it.AccountFullName(), it.Descr(), confirmed, Amount(it.Value(), currency))
		sum = sum.Add(it.Value())
	}
	fmt.Fprintf(&b, "| | | **Sum** | | **%s** |\n", Amount(sum, currency))
	return b.String()
}

// AccountsMarkdown renders the account tree as a nested markdown list with
// the derived type of every account.
func AccountsMarkdown(db *accounting.Database) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Accounts\n\n")
	for _, root := range db.RootAccounts() {
		renderAccount(&b, root, 0)
	}
	return b.String()
}

func renderAccount(b *strings.Builder, a accounting.Account, depth int) {
	fmt.Fprintf(b, "%s- %s (%s)\n", strings.Repeat("  ", depth), a.Name(), a.DerivedType())
	for _, child := range a.Children() {
		renderAccount(b, child, depth+1)
	}
}
