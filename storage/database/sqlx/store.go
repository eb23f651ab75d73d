package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/gradebook"
)

type store struct {
	repository
	db core.DB
}

var _ gradebook.Store = (*store)(nil) // interface compliance check

// NewStore returns a postgres backed gradebook.Store.
func NewStore(db core.DB) gradebook.Store {
	return &store{
		repository: repository{exec: db},
		db:         db,
	}
}

// InTx runs fn inside a transaction: committed when fn returns nil, rolled back on error or panic.
func (s *store) InTx(ctx context.Context, fn func(repo gradebook.Repository) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	return runInTx(tx, func() error { return fn(&repository{exec: tx}) })
}

func runInTx(tx core.DBTransactor, fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			// the store may be left half written
			return core.NewShutdownError(fmt.Sprintf("rolling back transaction after %v", err), rbErr)
		}
		return err
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "committing transaction")
	}
	return nil
}
