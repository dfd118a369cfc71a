package domain

import (
	"time"

	"github.com/google/uuid"
)

// Note is the free-text journal for one day of a trip. There is at most one
// note per (TripID, DayNumber); writes are upserts on that pair.
type Note struct {
	ID        uuid.UUID
	TripID    uuid.UUID
	DayNumber int
	Text      string
	AISummary string
	CreatedAt time.Time
	UpdatedAt time.Time
}
