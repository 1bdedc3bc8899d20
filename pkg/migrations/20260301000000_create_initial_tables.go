package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`
			CREATE TABLE borrowers (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				username TEXT NOT NULL
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_borrowers_username ON borrowers (username COLLATE NOCASE)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE storages (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				name TEXT NOT NULL
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_storages_name ON storages (name COLLATE NOCASE)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE books (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				isbn TEXT,
				title TEXT NOT NULL,
				author TEXT NOT NULL,
				publish_date TEXT NOT NULL DEFAULT '',
				subject TEXT,
				cover_url TEXT
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_books_title_author ON books (title COLLATE NOCASE, author COLLATE NOCASE)`)
		if err != nil {
			return errors.WithStack(err)
		}
		// ISBN is optional but must be unique when present.
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_books_isbn ON books (isbn) WHERE isbn IS NOT NULL`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE copies (
				id TEXT PRIMARY KEY,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				book_id INTEGER NOT NULL REFERENCES books (id),
				storage_id INTEGER NOT NULL REFERENCES storages (id)
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_copies_book_id ON copies (book_id)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_copies_storage_id ON copies (storage_id)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE loans (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				copy_id TEXT NOT NULL REFERENCES copies (id) ON DELETE CASCADE,
				borrower_id INTEGER NOT NULL REFERENCES borrowers (id),
				status TEXT NOT NULL DEFAULT 'open',
				loan_start DATE NOT NULL,
				due_date DATE NOT NULL,
				returned_on DATE
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		// The storage-level arbiter: at most one open loan per copy, no matter
		// how many promotion attempts race.
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_loans_open_copy ON loans (copy_id) WHERE status = 'open'`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_loans_borrower_id ON loans (borrower_id)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE reservations (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				copy_id TEXT NOT NULL REFERENCES copies (id) ON DELETE CASCADE,
				borrower_id INTEGER NOT NULL REFERENCES borrowers (id),
				future_rent DATE NOT NULL,
				future_return DATE NOT NULL
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_reservations_copy_borrower ON reservations (copy_id, borrower_id)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_reservations_copy_id ON reservations (copy_id)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_reservations_future_rent ON reservations (future_rent)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE reviews (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				book_id INTEGER NOT NULL REFERENCES books (id) ON DELETE CASCADE,
				borrower_id INTEGER NOT NULL REFERENCES borrowers (id),
				score INTEGER NOT NULL,
				title TEXT NOT NULL DEFAULT '',
				body TEXT NOT NULL DEFAULT '',
				reviewed_on DATE NOT NULL
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_reviews_book_borrower ON reviews (book_id, borrower_id)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE promotion_runs (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				triggered_by TEXT NOT NULL,
				started_at TIMESTAMPTZ NOT NULL,
				finished_at TIMESTAMPTZ NOT NULL,
				converted INTEGER NOT NULL DEFAULT 0,
				waiting INTEGER NOT NULL DEFAULT 0,
				cleaned INTEGER NOT NULL DEFAULT 0,
				errors INTEGER NOT NULL DEFAULT 0
			)
`)
		return errors.WithStack(err)
	}

	down := func(_ context.Context, db *bun.DB) error {
		for _, table := range []string{
			"promotion_runs",
			"reviews",
			"reservations",
			"loans",
			"copies",
			"books",
			"storages",
			"borrowers",
		} {
			_, err := db.Exec("DROP TABLE IF EXISTS " + table)
			if err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	}

	Migrations.MustRegister(up, down)
}
