package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Importance ranks an activity within its day.
type Importance string

const (
	ImportanceLow    Importance = "low"
	ImportanceMedium Importance = "medium"
	ImportanceHigh   Importance = "high"
)

// Valid reports whether i is one of low, medium, high.
func (i Importance) Valid() bool {
	switch i {
	case ImportanceLow, ImportanceMedium, ImportanceHigh:
		return true
	}
	return false
}

// Activity is a single scheduled item on a trip day.
// StartTime and EndTime are "HH:MM" wall-clock strings and are nil when the
// activity has no fixed slot. Activities render in ascending OrderIndex.
type Activity struct {
	ID              uuid.UUID
	TripDayID       uuid.UUID
	Title           string
	StartTime       *string
	EndTime         *string
	Category        string
	Location        string
	Notes           string
	BudgetEstimate  float64
	BookingRequired bool
	Importance      Importance
	OrderIndex      float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Validate checks the fields a caller controls.
func (a Activity) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if a.BudgetEstimate < 0 {
		return fmt.Errorf("%w: budget_estimate must not be negative", ErrValidation)
	}
	if a.BudgetEstimate >= MaxAmount {
		return fmt.Errorf("%w: budget_estimate must be less than 10000000000", ErrValidation)
	}
	if !a.Importance.Valid() {
		return fmt.Errorf("%w: importance %q is not one of low, medium, high", ErrValidation, a.Importance)
	}
	start, err := parseClock("start_time", a.StartTime)
	if err != nil {
		return err
	}
	end, err := parseClock("end_time", a.EndTime)
	if err != nil {
		return err
	}
	if start != nil && end != nil && end.Before(*start) {
		return fmt.Errorf("%w: end_time must not be before start_time", ErrValidation)
	}
	return nil
}

func parseClock(field string, v *string) (*time.Time, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, *v); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s must be HH:MM", ErrValidation, field)
}

// Ordering policy for activities within a day.
//
// order_index is a fractional index. New activities are appended OrderStep
// after the current last one. Moving an activity places it at the midpoint
// of its new neighbours; once two neighbours are closer than MinOrderGap the
// whole day is renumbered to i*OrderStep before the move is retried.
const (
	OrderStep   = 1024.0
	MinOrderGap = 1e-6
)

// NextOrderIndex returns the index that appends after last, or 0 for an
// empty day.
func NextOrderIndex(last *float64) float64 {
	if last == nil {
		return 0
	}
	return *last + OrderStep
}

// OrderIndexAt returns the order_index that puts an item at position pos
// (0-based, clamped) among siblings. siblings must be sorted ascending and
// must not contain the item being moved. ok is false when the target gap is
// smaller than MinOrderGap and the siblings must be renumbered first.
func OrderIndexAt(siblings []float64, pos int) (idx float64, ok bool) {
	pos = max(0, min(pos, len(siblings)))
	switch {
	case len(siblings) == 0:
		return 0, true
	case pos == 0:
		return siblings[0] - OrderStep, true
	case pos == len(siblings):
		return siblings[len(siblings)-1] + OrderStep, true
	}
	lo, hi := siblings[pos-1], siblings[pos]
	if hi-lo < MinOrderGap {
		return 0, false
	}
	return lo + (hi-lo)/2, true
}

// EvenOrderIndexes returns n evenly spaced indexes starting at zero.
func EvenOrderIndexes(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) * OrderStep
	}
	return out
}
