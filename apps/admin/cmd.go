package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mwalimu/darasa/core"
)

var errHelp = errors.New("help provided")

// completionSweeper reclaims completion sub-records left behind by deleted
// assignments.
type completionSweeper interface {
	SweepOrphanCompletions(ctx context.Context) (int, error)
}

type commandLine struct {
	db              *sql.DB
	conf            *core.Config
	completionsRepo completionSweeper
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [args] - run DB migrations. COMMAND: up|up-by-one|up-to|down|down-to|redo|reset|status|version|create|fix")
	fmt.Println("  sweepcompletions - delete completion records whose assignment no longer exists")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "sweepcompletions":
		return cli.sweepCompletions()
	default:
		cli.printUsage()
		return errHelp
	}
}
