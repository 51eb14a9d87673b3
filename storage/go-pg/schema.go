package gopg

import (
	"github.com/go-pg/pg"
	"github.com/go-pg/pg/orm"
	"github.com/pkg/errors"
)

// CreateSchema creates the dispatch table when it does not exist yet.
func CreateSchema(db *pg.DB) error {
	err := db.CreateTable((*dispatchWrapper)(nil), &orm.CreateTableOptions{
		IfNotExists: true,
	})

	return errors.Wrap(err, "Failed to create semaphore_dispatches table")
}
