package books

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/kashidashibooks/kashidashi/pkg/errcodes"
	"github.com/kashidashibooks/kashidashi/pkg/metadata"
	"github.com/kashidashibooks/kashidashi/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// Service manages the catalog side: books, copies, and storage locations.
type Service struct {
	db       *bun.DB
	metadata *metadata.Client
}

func NewService(db *bun.DB, metadataClient *metadata.Client) *Service {
	return &Service{db: db, metadata: metadataClient}
}

// RegisterOptions contains options for registering a new copy. Either an ISBN
// or a title/author pair must be provided; ISBN-only registrations are filled
// in from the catalog lookup.
type RegisterOptions struct {
	ISBN        *string
	Title       string
	Author      string
	PublishDate string
	Subject     *string
	CoverURL    *string
	StorageName string
}

// Register creates a copy of a book in a storage location, creating the book
// and the storage first if they don't exist yet.
func (svc *Service) Register(ctx context.Context, opts RegisterOptions) (*models.Copy, error) {
	// The catalog lookup is a network call, so it happens before the
	// transaction opens.
	if opts.ISBN != nil && (opts.Title == "" || opts.Author == "") {
		meta, err := svc.metadata.Lookup(ctx, *opts.ISBN)
		if err != nil {
			return nil, err
		}
		if meta != nil {
			if opts.Title == "" {
				opts.Title = meta.Title
			}
			if opts.Author == "" {
				opts.Author = meta.Author
			}
			if opts.PublishDate == "" {
				opts.PublishDate = meta.PublishDate
			}
			if opts.CoverURL == nil && meta.CoverURL != "" {
				cover := meta.CoverURL
				opts.CoverURL = &cover
			}
		}
	}
	if opts.Title == "" || opts.Author == "" {
		return nil, errcodes.ValidationError("A title and an author are required when the ISBN is unknown.")
	}

	copy := &models.Copy{}

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		storage, err := getOrCreateStorage(ctx, tx, opts.StorageName)
		if err != nil {
			return err
		}

		book, err := getOrCreateBook(ctx, tx, opts)
		if err != nil {
			return err
		}

		now := time.Now()
		copy = &models.Copy{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
			BookID:    book.ID,
			StorageID: storage.ID,
		}
		if _, err := tx.NewInsert().Model(copy).Exec(ctx); err != nil {
			return errors.WithStack(err)
		}

		copy.Book = book
		copy.Storage = storage
		return nil
	})
	if err != nil {
		return nil, err
	}

	return copy, nil
}

func getOrCreateStorage(ctx context.Context, tx bun.Tx, name string) (*models.Storage, error) {
	storage := &models.Storage{}
	err := tx.NewSelect().
		Model(storage).
		Where("s.name = ?", name).
		Scan(ctx)
	if err == nil {
		return storage, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, errors.WithStack(err)
	}

	now := time.Now()
	storage = &models.Storage{
		CreatedAt: now,
		UpdatedAt: now,
		Name:      name,
	}
	if _, err := tx.NewInsert().Model(storage).Exec(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	return storage, nil
}

func getOrCreateBook(ctx context.Context, tx bun.Tx, opts RegisterOptions) (*models.Book, error) {
	book := &models.Book{}

	q := tx.NewSelect().Model(book)
	if opts.ISBN != nil {
		q = q.Where("b.isbn = ?", *opts.ISBN)
	} else {
		q = q.Where("b.title = ? COLLATE NOCASE", opts.Title).
			Where("b.author = ? COLLATE NOCASE", opts.Author)
	}
	err := q.Scan(ctx)
	if err == nil {
		return book, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, errors.WithStack(err)
	}

	now := time.Now()
	book = &models.Book{
		CreatedAt:   now,
		UpdatedAt:   now,
		ISBN:        opts.ISBN,
		Title:       opts.Title,
		Author:      opts.Author,
		PublishDate: opts.PublishDate,
		Subject:     opts.Subject,
		CoverURL:    opts.CoverURL,
	}
	if _, err := tx.NewInsert().Model(book).Exec(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	return book, nil
}

// RetrieveCopy gets a copy by ID with its book and storage.
func (svc *Service) RetrieveCopy(ctx context.Context, id uuid.UUID) (*models.Copy, error) {
	copy := &models.Copy{}
	err := svc.db.NewSelect().
		Model(copy).
		Relation("Book").
		Relation("Storage").
		Where("c.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Copy")
		}
		return nil, errors.WithStack(err)
	}
	return copy, nil
}

// ListCopiesOptions contains options for searching copies.
type ListCopiesOptions struct {
	Search *string
	BookID *int
	Limit  int
	Offset int
}

// ListCopies returns copies matching an optional substring search over isbn,
// title, and author.
func (svc *Service) ListCopies(ctx context.Context, opts ListCopiesOptions) ([]*models.Copy, int, error) {
	copies := []*models.Copy{}

	q := svc.db.NewSelect().
		Model(&copies).
		Relation("Book").
		Relation("Storage").
		Order("c.created_at ASC", "c.id ASC")

	if opts.Search != nil && *opts.Search != "" {
		pattern := "%" + *opts.Search + "%"
		q = q.Join("JOIN books AS sb ON sb.id = c.book_id").
			WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
				return q.
					Where("sb.isbn LIKE ?", pattern).
					WhereOr("sb.title LIKE ? COLLATE NOCASE", pattern).
					WhereOr("sb.author LIKE ? COLLATE NOCASE", pattern)
			})
	}
	if opts.BookID != nil {
		q = q.Where("c.book_id = ?", *opts.BookID)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}

	total, err := q.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return copies, total, nil
}

// DeleteCopy removes a copy along with its loans and reservations. If it was
// the book's last copy, the book goes too.
func (svc *Service) DeleteCopy(ctx context.Context, id uuid.UUID) error {
	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		copy := &models.Copy{}
		err := tx.NewSelect().
			Model(copy).
			Where("c.id = ?", id).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errcodes.NotFound("Copy")
			}
			return errors.WithStack(err)
		}

		// Loans and reservations cascade from the copy.
		if _, err := tx.NewDelete().Model(copy).WherePK().Exec(ctx); err != nil {
			return errors.WithStack(err)
		}

		remaining, err := tx.NewSelect().
			Model((*models.Copy)(nil)).
			Where("c.book_id = ?", copy.BookID).
			Count(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if remaining == 0 {
			_, err = tx.NewDelete().
				Model((*models.Book)(nil)).
				Where("id = ?", copy.BookID).
				Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
		}

		return nil
	})
}

// RetrieveBook gets a book by ID with its copies.
func (svc *Service) RetrieveBook(ctx context.Context, id int) (*models.Book, error) {
	book := &models.Book{}
	err := svc.db.NewSelect().
		Model(book).
		Relation("Copies").
		Where("b.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}
	return book, nil
}

// ListBooksOptions contains options for listing books.
type ListBooksOptions struct {
	Search *string
	Limit  int
	Offset int
}

// ListBooks returns books matching an optional substring search, ordered by
// title.
func (svc *Service) ListBooks(ctx context.Context, opts ListBooksOptions) ([]*models.Book, int, error) {
	books := []*models.Book{}

	q := svc.db.NewSelect().
		Model(&books).
		Order("b.title ASC", "b.id ASC")

	if opts.Search != nil && *opts.Search != "" {
		pattern := "%" + *opts.Search + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("b.isbn LIKE ?", pattern).
				WhereOr("b.title LIKE ? COLLATE NOCASE", pattern).
				WhereOr("b.author LIKE ? COLLATE NOCASE", pattern)
		})
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}

	total, err := q.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return books, total, nil
}
