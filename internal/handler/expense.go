package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/tripcraft/tripcraft/internal/domain"
)

type ExpenseRequest struct {
	Date        openapi_types.Date `json:"date"`
	Category    string             `json:"category"`
	Description string             `json:"description"`
	Amount      float64            `json:"amount"`
	Currency    string             `json:"currency"`
	Note        string             `json:"note"`
}

type Expense struct {
	ID          uuid.UUID          `json:"id"`
	TripID      uuid.UUID          `json:"trip_id"`
	Date        openapi_types.Date `json:"date"`
	Category    string             `json:"category"`
	Description string             `json:"description"`
	Amount      float64            `json:"amount"`
	Currency    string             `json:"currency"`
	Note        string             `json:"note"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Percent  float64 `json:"percent"`
}

// BudgetSummary is the body of GET /trips/{tripId}/expenses/summary.
// When MixedCurrency is set the totals add amounts of different currencies.
type BudgetSummary struct {
	Total         float64         `json:"total"`
	Count         int             `json:"count"`
	Average       float64         `json:"average"`
	Categories    []CategoryTotal `json:"categories"`
	Currencies    []string        `json:"currencies"`
	MixedCurrency bool            `json:"mixed_currency"`
}

// ListExpenses handles GET /trips/{tripId}/expenses.
func (s *Server) ListExpenses(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	expenses, err := s.expenses.List(r.Context(), tripID)
	if err != nil {
		s.serviceError(w, r, err, "trip")
		return
	}
	out := make([]Expense, len(expenses))
	for i, e := range expenses {
		out[i] = expenseToResponse(e)
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateExpense handles POST /trips/{tripId}/expenses.
func (s *Server) CreateExpense(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	var body ExpenseRequest
	if !decodeBody(w, r, &body) {
		return
	}
	created, err := s.expenses.Create(r.Context(), requestToExpense(tripID, body))
	if err != nil {
		s.serviceError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusCreated, expenseToResponse(created))
}

// UpdateExpense handles PUT /trips/{tripId}/expenses/{expenseId}.
func (s *Server) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	expenseID, ok := pathUUID(w, r, "expenseId")
	if !ok {
		return
	}
	var body ExpenseRequest
	if !decodeBody(w, r, &body) {
		return
	}
	e := requestToExpense(tripID, body)
	e.ID = expenseID
	updated, err := s.expenses.Update(r.Context(), e)
	if err != nil {
		s.serviceError(w, r, err, "expense")
		return
	}
	writeJSON(w, http.StatusOK, expenseToResponse(updated))
}

// DeleteExpense handles DELETE /trips/{tripId}/expenses/{expenseId}.
func (s *Server) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	expenseID, ok := pathUUID(w, r, "expenseId")
	if !ok {
		return
	}
	if err := s.expenses.Delete(r.Context(), tripID, expenseID); err != nil {
		s.serviceError(w, r, err, "expense")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetExpenseSummary handles GET /trips/{tripId}/expenses/summary.
func (s *Server) GetExpenseSummary(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	sum, err := s.expenses.Summary(r.Context(), tripID)
	if err != nil {
		s.serviceError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, budgetToResponse(sum))
}

func requestToExpense(tripID uuid.UUID, body ExpenseRequest) domain.Expense {
	return domain.Expense{
		TripID:      tripID,
		Date:        body.Date.Time,
		Category:    domain.ExpenseCategory(body.Category),
		Description: body.Description,
		Amount:      body.Amount,
		Currency:    body.Currency,
		Note:        body.Note,
	}
}

func expenseToResponse(e domain.Expense) Expense {
	return Expense{
		ID:          e.ID,
		TripID:      e.TripID,
		Date:        openapi_types.Date{Time: e.Date},
		Category:    string(e.Category),
		Description: e.Description,
		Amount:      e.Amount,
		Currency:    e.Currency,
		Note:        e.Note,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func budgetToResponse(b domain.BudgetSummary) BudgetSummary {
	cats := make([]CategoryTotal, len(b.Categories))
	for i, c := range b.Categories {
		cats[i] = CategoryTotal{Category: string(c.Category), Total: c.Total, Percent: c.Percent}
	}
	currencies := b.Currencies
	if currencies == nil {
		currencies = []string{}
	}
	return BudgetSummary{
		Total:         b.Total,
		Count:         b.Count,
		Average:       b.Average,
		Categories:    cats,
		Currencies:    currencies,
		MixedCurrency: b.MixedCurrency,
	}
}
