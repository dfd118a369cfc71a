package domain

import (
	"time"

	"github.com/google/uuid"
)

// TripShare maps an unguessable public identifier to a trip, granting
// read-only access without authentication. A trip has at most one share.
type TripShare struct {
	ID        uuid.UUID
	TripID    uuid.UUID
	PublicID  string
	CreatedAt time.Time
}

// SharedTrip is the read-only view served for a public share link.
type SharedTrip struct {
	Trip    Trip
	Days    []TripDay
	Packing PackingProgress
	Budget  BudgetSummary
}
