package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TripDay is one calendar day of a trip's itinerary.
// DayNumber is 1-based and unique within the trip.
type TripDay struct {
	ID         uuid.UUID
	TripID     uuid.UUID
	DayNumber  int
	Date       time.Time
	Title      string
	Activities []Activity // populated only by calls that load the full itinerary
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Validate checks the fields a caller controls.
func (d TripDay) Validate() error {
	if d.DayNumber < 1 {
		return fmt.Errorf("%w: day_number must be at least 1", ErrValidation)
	}
	if d.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrValidation)
	}
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	return nil
}
