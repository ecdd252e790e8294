package main

import (
	"context"
)

// sweepCompletions deletes completion records whose parent assignment is
// gone. Assignment deletion never cascades to completions, so these pile up
// until an admin reclaims them.
func (cli *commandLine) sweepCompletions() error {
	n, err := cli.completionsRepo.SweepOrphanCompletions(context.Background())
	if err != nil {
		return err
	}
	logger.Printf("swept %d orphaned completion(s)\n", n)
	return nil
}
