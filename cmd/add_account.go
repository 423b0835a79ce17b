package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/manuel-koch/accounting"
)

type addAccountCmd struct {
	parent string
	typ    string
}

func (*addAccountCmd) Name() string     { return "add-account" }
func (*addAccountCmd) Synopsis() string { return "add an account to the account tree" }
func (*addAccountCmd) Usage() string {
	return `acc add-account [-parent <path>] [-type <type>] <name>

  Adds an account. Without -parent the account becomes a new root.

Usage Examples:
# Add an expense account for groceries below Home/Food.
$ acc add-account -parent Home/Food -type Expense Groceries

`
}

func (c *addAccountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.parent, "parent", "", "Full path of the parent account, empty for a new root")
	f.StringVar(&c.typ, "type", "Unknown", "Account type (Unknown, Profit, Expense, Asset, Liability)")
}

func (c *addAccountCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one account name\n")
		return subcommands.ExitUsageError
	}
	name := f.Arg(0)

	typ, err := accounting.ParseAccountType(c.typ)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	db, err := loadDatabase()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load database: %v\n", err)
		return subcommands.ExitFailure
	}

	a, err := db.NewAccount(name, typ)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if c.parent == "" {
		if !db.AddAccount(a) {
			fmt.Fprintf(os.Stderr, "Error: a root account named %q already exists\n", name)
			return subcommands.ExitFailure
		}
	} else {
		parent, err := db.Lookup(c.parent)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: unknown parent account %q\n", c.parent)
			return subcommands.ExitFailure
		}
		if !parent.AddChild(a) {
			fmt.Fprintf(os.Stderr, "Error: %q already has an account named %q\n", c.parent, name)
			return subcommands.ExitFailure
		}
	}

	if err := saveDatabase(db); err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not save database: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Added account %s\n", a.FullName())
	return subcommands.ExitSuccess
}
