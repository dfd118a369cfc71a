package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tripcraft/tripcraft/internal/domain"
	"github.com/tripcraft/tripcraft/internal/realtime"
	"github.com/tripcraft/tripcraft/internal/repo"
)

// ExpenseService implements business logic for trip expenses.
type ExpenseService struct {
	trips    repo.TripRepo
	expenses repo.ExpenseRepo
	events   Publisher
}

// NewExpenseService constructs an ExpenseService.
func NewExpenseService(trips repo.TripRepo, expenses repo.ExpenseRepo, events Publisher) *ExpenseService {
	return &ExpenseService{trips: trips, expenses: expenses, events: orNop(events)}
}

// List returns the trip's expenses, newest first.
func (s *ExpenseService) List(ctx context.Context, tripID uuid.UUID) ([]domain.Expense, error) {
	out, err := s.expenses.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ExpenseService.List: %w", err)
	}
	if out == nil {
		out = []domain.Expense{}
	}
	return out, nil
}

// Create validates and records an expense.
func (s *ExpenseService) Create(ctx context.Context, e domain.Expense) (domain.Expense, error) {
	e.Normalize()
	if err := e.Validate(); err != nil {
		return domain.Expense{}, err
	}
	if _, err := s.trips.GetByID(ctx, e.TripID); err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Create: %w", err)
	}
	result, err := s.expenses.Create(ctx, e)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Create: %w", err)
	}
	changed(s.events, realtime.TableExpenses, realtime.OpInsert, result.TripID, result.ID)
	return result, nil
}

// Update validates and overwrites an expense.
func (s *ExpenseService) Update(ctx context.Context, e domain.Expense) (domain.Expense, error) {
	e.Normalize()
	if err := e.Validate(); err != nil {
		return domain.Expense{}, err
	}
	result, err := s.expenses.Update(ctx, e)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Update: %w", err)
	}
	changed(s.events, realtime.TableExpenses, realtime.OpUpdate, result.TripID, result.ID)
	return result, nil
}

// Delete removes an expense.
func (s *ExpenseService) Delete(ctx context.Context, tripID, expenseID uuid.UUID) error {
	if err := s.expenses.Delete(ctx, tripID, expenseID); err != nil {
		return fmt.Errorf("service.ExpenseService.Delete: %w", err)
	}
	changed(s.events, realtime.TableExpenses, realtime.OpDelete, tripID, expenseID)
	return nil
}

// Summary aggregates the trip's expenses for the budget view.
func (s *ExpenseService) Summary(ctx context.Context, tripID uuid.UUID) (domain.BudgetSummary, error) {
	all, err := s.expenses.ListByTrip(ctx, tripID)
	if err != nil {
		return domain.BudgetSummary{}, fmt.Errorf("service.ExpenseService.Summary: %w", err)
	}
	return domain.SummarizeBudget(all), nil
}
