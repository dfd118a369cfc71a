// Package repo contains all database access logic for the Tripcraft API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tripcraft/tripcraft/internal/domain"
)

// db is the query surface shared by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// TxDB is a db that can also open a transaction. *pgxpool.Pool and pgx.Tx
// both satisfy it; Begin on a pgx.Tx creates a savepoint.
type TxDB interface {
	db
	Begin(ctx context.Context) (pgx.Tx, error)
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// Repos bundles every repository bound to the same connection or transaction.
type Repos struct {
	Trips         TripRepo
	Days          DayRepo
	Activities    ActivityRepo
	Packing       PackingRepo
	Expenses      ExpenseRepo
	Notes         NoteRepo
	Documents     DocumentRepo
	Shares        ShareRepo
	Collaborators CollaboratorRepo
}

// Transactor runs fn with repositories bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(tx Repos) error) error
}

// Store owns the top-level connection and hands out repositories.
type Store struct {
	Repos
	db TxDB
}

// NewStore builds every repository on top of db.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewStore(db TxDB) *Store {
	return &Store{Repos: newRepos(db), db: db}
}

func newRepos(db db) Repos {
	return Repos{
		Trips:         NewTripRepo(db),
		Days:          NewDayRepo(db),
		Activities:    NewActivityRepo(db),
		Packing:       NewPackingRepo(db),
		Expenses:      NewExpenseRepo(db),
		Notes:         NewNoteRepo(db),
		Documents:     NewDocumentRepo(db),
		Shares:        NewShareRepo(db),
		Collaborators: NewCollaboratorRepo(db),
	}
}

// WithinTx implements Transactor.
func (s *Store) WithinTx(ctx context.Context, fn func(tx Repos) error) error {
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		return fn(newRepos(tx))
	})
	if err != nil {
		return fmt.Errorf("repo.Store.WithinTx: %w", err)
	}
	return nil
}

// mapErr translates driver errors into domain sentinels:
// no rows becomes ErrNotFound, unique and foreign-key violations become
// ErrConflict and ErrNotFound respectively. Other errors pass through.
func mapErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.Detail)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%w: %s", domain.ErrNotFound, pgErr.Detail)
		case "23514", "22003": // check_violation, numeric_value_out_of_range
			return fmt.Errorf("%w: %s", domain.ErrValidation, pgErr.Message)
		}
	}
	return err
}

// collect drains rows with scan, always returning a non-nil slice.
func collect[T any](rows pgx.Rows, scan func(scanner) (T, error)) ([]T, error) {
	defer rows.Close()
	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}
