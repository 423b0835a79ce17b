package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/manuel-koch/accounting"
	"github.com/manuel-koch/accounting/renderer"
)

type checkCmd struct{}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "check the database for bookkeeping problems" }
func (*checkCmd) Usage() string {
	return `acc check [-f <file>]

  Lists unbalanced transactions, unconfirmed items and accounts without a
  derivable type.
`
}

func (c *checkCmd) SetFlags(f *flag.FlagSet) {}

func (c *checkCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	db, err := loadDatabase()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load database: %v\n", err)
		return subcommands.ExitFailure
	}

	var b strings.Builder
	problems := 0

	fmt.Fprintf(&b, "# Check\n\n")
	for t := range db.Transactions(nil) {
		if !t.IsBalanced() {
			fmt.Fprintf(&b, "- unbalanced transaction %s, off by %s\n", t, renderer.Amount(t.Balance(), *currency))
			problems++
		}
	}
	for it := range db.Items(nil) {
		if !it.Confirmed() {
			fmt.Fprintf(&b, "- unconfirmed item %s\n", it)
			problems++
		}
	}
	for _, a := range db.AllAccounts() {
		if a.DerivedType() == accounting.Unknown {
			fmt.Fprintf(&b, "- account %s has no derivable type\n", a.FullName())
			problems++
		}
	}

	if problems == 0 {
		fmt.Fprintf(&b, "no problems found\n")
	} else {
		fmt.Fprintf(&b, "\n%d problems found\n", problems)
	}
	printMarkdown(b.String())
	if problems > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
