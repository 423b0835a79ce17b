package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"regexp"

	"github.com/google/subcommands"

	"github.com/manuel-koch/accounting"
	"github.com/manuel-koch/accounting/date"
	"github.com/manuel-koch/accounting/renderer"
)

type txCmd struct {
	from    string
	till    string
	descr   string
	account string
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list transactions" }
func (*txCmd) Usage() string {
	return `acc tx [-from <date>] [-till <date>] [-descr <regexp>] [-account <path>]

  Lists transactions, optionally narrowed by date range, description or
  account subtree.
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "Only transactions on or after this date")
	f.StringVar(&c.till, "till", "", "Only transactions on or before this date")
	f.StringVar(&c.descr, "descr", "", "Only transactions matching this description pattern")
	f.StringVar(&c.account, "account", "", "Only transactions touching this account or its children")
}

func (c *txCmd) filter(db *accounting.Database) (accounting.Filter, error) {
	var filters []accounting.Filter
	if c.from != "" {
		on, err := date.Parse(c.from)
		if err != nil {
			return nil, err
		}
		filters = append(filters, accounting.ByFromDate(on))
	}
	if c.till != "" {
		on, err := date.Parse(c.till)
		if err != nil {
			return nil, err
		}
		filters = append(filters, accounting.ByTillDate(on))
	}
	if c.descr != "" {
		re, err := regexp.Compile(c.descr)
		if err != nil {
			return nil, err
		}
		filters = append(filters, accounting.ByDescr(re))
	}
	if c.account != "" {
		acc, err := db.Lookup(c.account)
		if err != nil {
			return nil, fmt.Errorf("unknown account %q", c.account)
		}
		filters = append(filters, accounting.ByAccountsAndChildren(acc))
	}
	return accounting.And(filters...), nil
}

func (c *txCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	db, err := loadDatabase()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load database: %v\n", err)
		return subcommands.ExitFailure
	}
	filter, err := c.filter(db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	printMarkdown(renderer.TransactionsMarkdown("Transactions", db, filter, *currency))
	return subcommands.ExitSuccess
}
