package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tripcraft/tripcraft/internal/domain"
)

// ExpenseRepo defines the persistence operations for expenses.
type ExpenseRepo interface {
	Create(ctx context.Context, e domain.Expense) (domain.Expense, error)
	GetByID(ctx context.Context, tripID, expenseID uuid.UUID) (domain.Expense, error)
	// ListByTrip returns expenses newest first.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Expense, error)
	Update(ctx context.Context, e domain.Expense) (domain.Expense, error)
	Delete(ctx context.Context, tripID, expenseID uuid.UUID) error
}

type pgExpenseRepo struct {
	db db
}

// NewExpenseRepo constructs an ExpenseRepo backed by the provided db connection.
func NewExpenseRepo(db db) ExpenseRepo {
	return &pgExpenseRepo{db: db}
}

const expenseColumns = `id, trip_id, date, category, description, amount::float8, currency, note,
		       created_at, updated_at`

func expenseArgs(e domain.Expense) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":          e.ID,
		"trip_id":     e.TripID,
		"date":        e.Date,
		"category":    string(e.Category),
		"description": e.Description,
		"amount":      e.Amount,
		"currency":    e.Currency,
		"note":        e.Note,
	}
}

func (r *pgExpenseRepo) Create(ctx context.Context, e domain.Expense) (domain.Expense, error) {
	const q = `
		INSERT INTO expenses (trip_id, date, category, description, amount, currency, note)
		VALUES (@trip_id, @date, @category, @description, @amount::float8, @currency, @note)
		RETURNING ` + expenseColumns

	result, err := scanExpense(r.db.QueryRow(ctx, q, expenseArgs(e)))
	if err != nil {
		return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.Create: %w", mapErr(err))
	}
	return result, nil
}

func (r *pgExpenseRepo) GetByID(ctx context.Context, tripID, expenseID uuid.UUID) (domain.Expense, error) {
	const q = `SELECT ` + expenseColumns + ` FROM expenses WHERE id = @id AND trip_id = @trip_id`

	result, err := scanExpense(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": expenseID, "trip_id": tripID}))
	if err != nil {
		return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.GetByID: %w", mapErr(err))
	}
	return result, nil
}

func (r *pgExpenseRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Expense, error) {
	const q = `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE trip_id = @trip_id
		ORDER BY date DESC, created_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.ExpenseRepo.ListByTrip: %w", err)
	}
	out, err := collect(rows, scanExpense)
	if err != nil {
		return nil, fmt.Errorf("repo.ExpenseRepo.ListByTrip: %w", err)
	}
	return out, nil
}

func (r *pgExpenseRepo) Update(ctx context.Context, e domain.Expense) (domain.Expense, error) {
	const q = `
		UPDATE expenses
		SET date        = @date,
		    category    = @category,
		    description = @description,
		    amount      = @amount::float8,
		    currency    = @currency,
		    note        = @note,
		    updated_at  = now()
		WHERE id = @id AND trip_id = @trip_id
		RETURNING ` + expenseColumns

	result, err := scanExpense(r.db.QueryRow(ctx, q, expenseArgs(e)))
	if err != nil {
		return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.Update: %w", mapErr(err))
	}
	return result, nil
}

func (r *pgExpenseRepo) Delete(ctx context.Context, tripID, expenseID uuid.UUID) error {
	const q = `DELETE FROM expenses WHERE id = @id AND trip_id = @trip_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": expenseID, "trip_id": tripID})
	if err != nil {
		return fmt.Errorf("repo.ExpenseRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ExpenseRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func scanExpense(s scanner) (domain.Expense, error) {
	var (
		e          domain.Expense
		id, tripID pgtype.UUID
		date       pgtype.Date
		category   string
	)
	err := s.Scan(&id, &tripID, &date, &category, &e.Description, &e.Amount, &e.Currency, &e.Note,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return domain.Expense{}, err
	}
	e.ID = uuid.UUID(id.Bytes)
	e.TripID = uuid.UUID(tripID.Bytes)
	e.Date = date.Time
	e.Category = domain.ExpenseCategory(category)
	return e, nil
}
