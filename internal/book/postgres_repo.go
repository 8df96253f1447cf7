package book

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	tableBooks   = "books"
	colID        = "id"
	colName      = "name"
	colISBN      = "isbn"
	colAuthorID  = "author_id"
	colUserID    = "user_id"
	colCreatedAt = "created_at"
	colUpdatedAt = "updated_at"
)

var (
	dialect    = goqu.Dialect("postgres")
	allColumns = []any{colID, colName, colISBN, colAuthorID, colUserID, colCreatedAt, colUpdatedAt}
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]Book, int, error) {
	owned := goqu.Ex{colUserID: ownerID}

	countQuery, countArgs, err := dialect.From(tableBooks).
		Select(goqu.COUNT("*")).
		Where(owned).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int
	if err := r.db.QueryRow(timeoutCtx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query, args, err := dialect.From(tableBooks).
		Select(allColumns...).
		Where(owned).
		Order(goqu.I(colID).Asc()).
		Limit(uint(limit)).
		Offset(uint(offset)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}

	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	books := []Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, err
		}
		books = append(books, b)
	}
	return books, total, rows.Err()
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Book, error) {
	return r.getOne(ctx, goqu.Ex{colID: id})
}

func (r *PostgresRepo) GetByOwner(ctx context.Context, ownerID, id int64) (Book, error) {
	return r.getOne(ctx, goqu.Ex{colID: id, colUserID: ownerID})
}

func (r *PostgresRepo) getOne(ctx context.Context, where goqu.Ex) (Book, error) {
	query, args, err := dialect.From(tableBooks).
		Select(allColumns...).
		Where(where).
		Prepared(true).
		ToSQL()
	if err != nil {
		return Book{}, fmt.Errorf("build select query: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) Create(ctx context.Context, b *Book) error {
	query, args, err := dialect.Insert(tableBooks).
		Rows(goqu.Record{
			colName:     b.Name,
			colISBN:     b.ISBN,
			colAuthorID: b.AuthorID,
			colUserID:   b.UserID,
		}).
		Returning(colID, colCreatedAt, colUpdatedAt).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert query: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.QueryRow(timeoutCtx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

// Update writes name, isbn and author_id. The owner column is never touched.
func (r *PostgresRepo) Update(ctx context.Context, b *Book) error {
	query, args, err := dialect.Update(tableBooks).
		Set(goqu.Record{
			colName:      b.Name,
			colISBN:      b.ISBN,
			colAuthorID:  b.AuthorID,
			colUpdatedAt: goqu.L("now()"),
		}).
		Where(goqu.Ex{colID: b.ID}).
		Returning(colUpdatedAt).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update query: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err = r.db.QueryRow(timeoutCtx, query, args...).Scan(&b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	query, args, err := dialect.Delete(tableBooks).
		Where(goqu.Ex{colID: id}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(&b.ID, &b.Name, &b.ISBN, &b.AuthorID, &b.UserID, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}
