package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/storage/database"
)

var errNoDatabase = errors.New("migrations need a postgres database (in-memory store in use)")

func (cli *commandLine) migrate(ctx context.Context, args []string) error {
	if cli.db == nil {
		return errNoDatabase
	}
	return database.Migrate(ctx, cli.db, args[0], args[1:]...)
}
