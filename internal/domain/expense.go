package domain

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ExpenseCategory buckets spending for the budget view.
type ExpenseCategory string

const (
	ExpenseTransport     ExpenseCategory = "transport"
	ExpenseAccommodation ExpenseCategory = "accommodation"
	ExpenseFood          ExpenseCategory = "food"
	ExpenseActivities    ExpenseCategory = "activities"
	ExpenseOther         ExpenseCategory = "other"
)

// ExpenseCategories lists every category in display order.
var ExpenseCategories = []ExpenseCategory{
	ExpenseTransport, ExpenseAccommodation, ExpenseFood, ExpenseActivities, ExpenseOther,
}

// Valid reports whether c is a known category.
func (c ExpenseCategory) Valid() bool {
	return slices.Contains(ExpenseCategories, c)
}

var currencyRx = regexp.MustCompile(`^[A-Z]{3}$`)

// MaxAmount is the exclusive upper bound on stored money values, which are
// kept as NUMERIC(12,2).
const MaxAmount = 1e10

// RoundCents rounds v to two decimal places.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// Expense is money spent (or planned) on a trip.
// Amount is always positive; Currency is an ISO 4217 code such as "USD".
type Expense struct {
	ID          uuid.UUID
	TripID      uuid.UUID
	Date        time.Time
	Category    ExpenseCategory
	Description string
	Amount      float64
	Currency    string
	Note        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Normalize upper-cases and trims the currency code and rounds the amount
// to cents.
func (e *Expense) Normalize() {
	e.Amount = RoundCents(e.Amount)
	e.Currency = strings.ToUpper(strings.TrimSpace(e.Currency))
	e.Description = strings.TrimSpace(e.Description)
}

// Validate checks the fields a caller controls. Call Normalize first.
func (e Expense) Validate() error {
	if e.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrValidation)
	}
	if !e.Category.Valid() {
		return fmt.Errorf("%w: category %q is not one of transport, accommodation, food, activities, other", ErrValidation, e.Category)
	}
	if e.Description == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	if !(e.Amount > 0) {
		return fmt.Errorf("%w: amount must be a positive number", ErrValidation)
	}
	if e.Amount >= MaxAmount {
		return fmt.Errorf("%w: amount must be less than 10000000000", ErrValidation)
	}
	if !currencyRx.MatchString(e.Currency) {
		return fmt.Errorf("%w: currency must be a 3-letter code", ErrValidation)
	}
	return nil
}

// CategoryTotal is the spend in one category and its share of the total.
type CategoryTotal struct {
	Category ExpenseCategory
	Total    float64
	Percent  float64
}

// BudgetSummary aggregates a trip's expenses.
// Amounts are summed as-is; MixedCurrency is set when more than one currency
// appears, in which case the totals are not meaningful as a single sum.
type BudgetSummary struct {
	Total         float64
	Count         int
	Average       float64
	Categories    []CategoryTotal
	Currencies    []string
	MixedCurrency bool
}

// SummarizeBudget computes totals, the per-expense average and a
// per-category breakdown. Categories with no spend are omitted; the rest keep
// ExpenseCategories order.
func SummarizeBudget(expenses []Expense) BudgetSummary {
	var s BudgetSummary
	byCat := map[ExpenseCategory]float64{}
	for _, e := range expenses {
		s.Total += e.Amount
		s.Count++
		byCat[e.Category] += e.Amount
		if !slices.Contains(s.Currencies, e.Currency) {
			s.Currencies = append(s.Currencies, e.Currency)
		}
	}
	slices.Sort(s.Currencies)
	s.MixedCurrency = len(s.Currencies) > 1
	if s.Count == 0 {
		return s
	}
	s.Average = s.Total / float64(s.Count)
	for _, c := range ExpenseCategories {
		total, ok := byCat[c]
		if !ok {
			continue
		}
		s.Categories = append(s.Categories, CategoryTotal{
			Category: c,
			Total:    total,
			Percent:  total / s.Total * 100,
		})
	}
	return s
}
