// Package cmd implements the CLI application to manage an accounting database.
package cmd

import (
	"errors"
	"flag"
	"io/fs"
	"log"

	"github.com/google/subcommands"

	"github.com/manuel-koch/accounting"
)

// Register the subcommands.
// A main package calls Register() to wire the subcommands, and Execute() on
// the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&initCmd{}, "database")
	c.Register(&checkCmd{}, "database")

	c.Register(&accountsCmd{}, "accounts")
	c.Register(&addAccountCmd{}, "accounts")

	c.Register(&txCmd{}, "transactions")
	c.Register(&addCmd{}, "transactions")
	c.Register(&importCmd{}, "transactions")

	c.Register(&monthlyCmd{}, "reports")

	c.Register(&topicCmd{}, "documentation")
}

// As a CLI application the lifecycle is very short lived, so it is ok to use
// global variables.

var dbFile = flag.String("f", "home.accdb", "Path to the accounting database file")

var currency = flag.String("cur", "EUR", "ISO currency code used to format amounts")

// loadDatabase loads the database from the app database file. A missing file
// yields an empty database, so the first command can start from scratch.
func loadDatabase() (*accounting.Database, error) {
	db, err := accounting.Load(*dbFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Println("warning, database does not exist, starting with an empty database instead")
		return accounting.NewDatabase(), nil
	}
	return db, err
}

// saveDatabase writes the database back to the app database file, keeping
// the previous revision as backup.
func saveDatabase(db *accounting.Database) error {
	return accounting.Save(*dbFile, db)
}
