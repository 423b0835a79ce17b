package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/manuel-koch/accounting/renderer"
)

type accountsCmd struct{}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "display the account tree" }
func (*accountsCmd) Usage() string {
	return `acc accounts [-f <file>]

  Displays the account tree with the derived type of every account.
`
}

func (c *accountsCmd) SetFlags(f *flag.FlagSet) {}

func (c *accountsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	db, err := loadDatabase()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load database: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.AccountsMarkdown(db))
	return subcommands.ExitSuccess
}
