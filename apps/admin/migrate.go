package main

import (
	"path/filepath"

	"github.com/pressly/goose"
)

var gooseRunFunc = goose.Run // mockable

func (cli *commandLine) migrate(args []string) error {
	if err := goose.SetDialect(cli.conf.Database.Engine); err != nil {
		return err
	}
	dir := filepath.Join(cli.conf.WorkDir, "storage", "database", "migrations")

	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return gooseRunFunc(args[0], cli.db, dir, arguments...)
}
