package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/manuel-koch/accounting"
	"github.com/manuel-koch/accounting/date"
)

type addCmd struct {
	date      string
	descr     string
	confirmed bool
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add a transaction" }
func (*addCmd) Usage() string {
	return `acc add [-d <date>] [-descr <text>] [-confirmed] <account>=<value>...

  Adds a transaction with one item per <account>=<value> argument. Values
  accept arithmetic expressions, e.g. "12.50+3*2.30".

Usage Examples:
# Book a grocery purchase paid from the checking account.
$ acc add -d 2025-08-13 -descr "groceries" Home/Food=-42.50 Home/Checking=42.50

`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the transaction (defaults to today)")
	f.StringVar(&c.descr, "descr", "", "Description of the transaction")
	f.BoolVar(&c.confirmed, "confirmed", false, "Mark all items as confirmed")
}

func (c *addCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Error: expected at least one <account>=<value> argument\n")
		return subcommands.ExitUsageError
	}
	on := date.Today()
	if c.date != "" {
		var err error
		if on, err = date.Parse(c.date); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	db, err := loadDatabase()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load database: %v\n", err)
		return subcommands.ExitFailure
	}

	t := db.NewTransaction(on, c.descr)
	db.AddTransaction(t)
	for _, arg := range f.Args() {
		path, expr, ok := strings.Cut(arg, "=")
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: %q is not of the form <account>=<value>\n", arg)
			return subcommands.ExitUsageError
		}
		acc, err := db.Lookup(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: unknown account %q\n", path)
			return subcommands.ExitFailure
		}
		value, err := accounting.Eval(expr, accounting.DefaultPrecision)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		it := db.NewItem(c.descr, value, c.confirmed)
		t.AddItem(it)
		acc.AddItem(it)
	}

	if !t.IsBalanced() {
		fmt.Fprintf(os.Stderr, "Warning: transaction is unbalanced by %s\n", t.Balance())
	}
	if err := saveDatabase(db); err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not save database: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Added transaction %s with %d items\n", t, t.Len())
	return subcommands.ExitSuccess
}
