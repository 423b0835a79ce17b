package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/manuel-koch/accounting/cmd"
)

func main() {
	completion()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion answers shell completion requests and returns immediately when
// none is pending.
func completion() {
	dbFiles := predict.Files("*.accdb")
	c := &complete.Command{
		Flags: map[string]complete.Predictor{
			"f":   dbFiles,
			"cur": predict.Set{"EUR", "USD", "GBP", "CHF"},
		},
		Sub: map[string]*complete.Command{
			"init":        {},
			"check":       {},
			"accounts":    {},
			"add-account": {},
			"add":         {},
			"tx":          {},
			"import":      {Flags: map[string]complete.Predictor{"tsv": predict.Files("*.tsv"), "json": predict.Files("*.json")}},
			"monthly":     {},
			"topic":       {Args: predict.Set{"accounts", "values", "reports", "import", "readme", "*"}},
		},
	}
	c.Complete(path.Base(os.Args[0]))
}
