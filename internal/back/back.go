package back

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Back holds the league database and exposes every operation the outside
// world is allowed to perform on it. It keeps no state of its own between
// calls, everything lives in the DB.
type Back struct {
	db *sqlx.DB
}

func New(sqlDriver string, sqlDSN string) (*Back, error) {
	// Why even bother converting names? A single greppable string across all
	// your source code is better than any odd conversion scheme you could ever
	// come up with.
	// HACK: This is global but putting this in init() makes test ugly.
	// As only the Back relies on the DB, this seems like an okay-ish place.
	sqlx.NameMapper = func(v string) string { return v }

	db, err := sqlx.Connect(sqlDriver, sqlDSN)
	if err != nil {
		return nil, err
	}

	return &Back{
		db: db,
	}, nil
}

type transactionCallback func(*sqlx.Tx) error

// transaction runs the callback inside a single SQL transaction and rolls
// everything back if the callback returns an error. Every read-modify-write
// sequence in this package goes through here so writes are never applied on
// top of a stale snapshot.
func (b *Back) transaction(cb transactionCallback) error {
	tx, err := b.db.Beginx()
	if err != nil {
		return err
	}

	if err := cb(tx); err != nil {
		if err2 := tx.Rollback(); err2 != nil {
			return fmt.Errorf("rollback error: %s\noriginal error: %s", err2, err)
		}

		return err
	}

	return tx.Commit()
}
