package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/manuel-koch/accounting"
	"github.com/manuel-koch/accounting/date"
	"github.com/manuel-koch/accounting/renderer"
)

type monthlyCmd struct {
	from     string
	till     string
	expanded bool
	types    bool
}

func (*monthlyCmd) Name() string     { return "monthly" }
func (*monthlyCmd) Synopsis() string { return "display a monthly report over selected accounts" }
func (*monthlyCmd) Usage() string {
	return `acc monthly [-from <date>] [-till <date>] [-expanded|-types] [<account>...]

  Displays monthly sums per selected account. Without accounts all roots are
  selected. With -expanded every nested account gets its own column, with
  -types amounts are aggregated per account type instead.

Usage Examples:
# Monthly sums of the current year for the Home subtree.
$ acc monthly -from 2025-01-01 -till 2025-12-31 Home

`
}

func (c *monthlyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "Start of the report range (defaults to january 1st)")
	f.StringVar(&c.till, "till", "", "End of the report range (defaults to today)")
	f.BoolVar(&c.expanded, "expanded", false, "One column per nested account")
	f.BoolVar(&c.types, "types", false, "Aggregate per account type")
}

func (c *monthlyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.expanded && c.types {
		fmt.Fprintf(os.Stderr, "Error: -expanded and -types are mutually exclusive\n")
		return subcommands.ExitUsageError
	}

	till := date.Today()
	if c.till != "" {
		var err error
		if till, err = date.Parse(c.till); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	from := date.New(till.Year(), 1, 1)
	if c.from != "" {
		var err error
		if from, err = date.Parse(c.from); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	db, err := loadDatabase()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load database: %v\n", err)
		return subcommands.ExitFailure
	}

	report := accounting.NewReport(db, from, till)
	if f.NArg() == 0 {
		for _, root := range db.RootAccounts() {
			report.AddAccount(root)
		}
	} else {
		for _, path := range f.Args() {
			acc, err := db.Lookup(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: unknown account %q\n", path)
				return subcommands.ExitFailure
			}
			report.AddAccount(acc)
		}
	}

	var ds *accounting.Dataset
	title := "Monthly"
	switch {
	case c.expanded:
		ds = report.MonthlyExpanded()
		title = "Monthly per account"
	case c.types:
		ds = report.MonthlyTypes()
		title = "Monthly per account type"
	default:
		ds = report.Monthly()
	}
	printMarkdown(renderer.DatasetMarkdown(title, ds, *currency))
	return subcommands.ExitSuccess
}
