package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/manuel-koch/accounting"
)

type importCmd struct {
	tsv  string
	json string
	spec accounting.JSONStatementSpec
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import bank statement entries into an account" }
func (*importCmd) Usage() string {
	return `acc import [-tsv <file> | -json <file> -entries <path> -date <path> -descr <path> -value <path> [-bool <path>]] <account>

  Imports statement entries and books them on the given account, one
  transaction per entry. JSON fields are located with JSONPath expressions
  relative to a single entry.

Usage Examples:
# Import a tab separated statement into the checking account.
$ acc import -tsv statement.tsv Home/Checking

# Import a JSON statement.
$ acc import -json statement.json -entries '$.bookings' -date '$.date' \
    -descr '$.purpose' -value '$.amount' Home/Checking

`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.tsv, "tsv", "", "Tab separated statement file")
	f.StringVar(&c.json, "json", "", "JSON statement file")
	f.StringVar(&c.spec.Entries, "entries", "", "JSONPath to the list of entries")
	f.StringVar(&c.spec.Date, "date", "", "JSONPath to the date of one entry")
	f.StringVar(&c.spec.Descr, "descr", "", "JSONPath to the description of one entry")
	f.StringVar(&c.spec.Value, "value", "", "JSONPath to the value of one entry")
	f.StringVar(&c.spec.Confirmed, "bool", "", "JSONPath to the confirmed flag of one entry (optional)")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one target account\n")
		return subcommands.ExitUsageError
	}
	if (c.tsv == "") == (c.json == "") {
		fmt.Fprintf(os.Stderr, "Error: exactly one of -tsv or -json is required\n")
		return subcommands.ExitUsageError
	}

	entries, err := c.readEntries()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	db, err := loadDatabase()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load database: %v\n", err)
		return subcommands.ExitFailure
	}
	target, err := db.Lookup(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: unknown account %q\n", f.Arg(0))
		return subcommands.ExitFailure
	}

	db.Import(target, entries)
	if err := saveDatabase(db); err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not save database: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Imported %d entries into %s\n", len(entries), target.FullName())
	return subcommands.ExitSuccess
}

func (c *importCmd) readEntries() ([]accounting.Entry, error) {
	if c.tsv != "" {
		f, err := os.Open(c.tsv)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return accounting.ReadTSV(f)
	}
	f, err := os.Open(c.json)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return accounting.ReadJSON(f, c.spec)
}
