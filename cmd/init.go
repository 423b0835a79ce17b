package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/manuel-koch/accounting"
)

type initCmd struct{}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "create a new accounting database" }
func (*initCmd) Usage() string {
	return `acc init [-f <file>] [<root-account>...]

  Creates a new database file with the given root accounts, or a single
  "Home" root when none is given.

Usage Examples:
# Create home.accdb with a Home root account.
$ acc init

`
}

func (c *initCmd) SetFlags(f *flag.FlagSet) {}

func (c *initCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if _, err := os.Stat(*dbFile); err == nil {
		fmt.Fprintf(os.Stderr, "Error: database %q already exists\n", *dbFile)
		return subcommands.ExitFailure
	}

	roots := f.Args()
	if len(roots) == 0 {
		roots = []string{"Home"}
	}

	db := accounting.NewDatabase()
	for _, name := range roots {
		a, err := db.NewAccount(name, accounting.Unknown)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid account name %q: %v\n", name, err)
			return subcommands.ExitUsageError
		}
		if !db.AddAccount(a) {
			fmt.Fprintf(os.Stderr, "Error: duplicate root account %q\n", name)
			return subcommands.ExitUsageError
		}
	}
	if err := saveDatabase(db); err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not save database: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Created %s with %d root accounts\n", *dbFile, db.NumAccounts())
	return subcommands.ExitSuccess
}
