// Package domain contains the core data types for the Tripcraft application.
// This package has no infrastructure dependencies and is imported by every other
// internal package (repo, service, generator, handler).
package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TripType classifies the purpose of a trip.
type TripType string

const (
	TripTypeVacation TripType = "vacation"
	TripTypeBusiness TripType = "business"
	TripTypeMixed    TripType = "mixed"
)

// Valid reports whether t is one of the known trip types.
func (t TripType) Valid() bool {
	switch t {
	case TripTypeVacation, TripTypeBusiness, TripTypeMixed:
		return true
	}
	return false
}

// Vibe is the overall mood the traveller wants from a trip.
type Vibe string

const (
	VibeRelaxed     Vibe = "relaxed"
	VibeAdventurous Vibe = "adventurous"
	VibeLuxury      Vibe = "luxury"
	VibeBudget      Vibe = "budget"
	VibeFamily      Vibe = "family"
)

// Valid reports whether v is one of the known vibes.
func (v Vibe) Valid() bool {
	switch v {
	case VibeRelaxed, VibeAdventurous, VibeLuxury, VibeBudget, VibeFamily:
		return true
	}
	return false
}

// Trip is the top-level aggregate. Days, packing items, expenses, notes,
// documents, shares and collaborators all belong to a trip and are removed
// with it.
type Trip struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	Title        string
	Destination  string
	StartDate    time.Time
	EndDate      time.Time
	TripType     TripType
	Vibe         Vibe
	Interests    []string
	NumTravelers int
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate enforces the rules shared by trip creation and update.
func (t Trip) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if strings.TrimSpace(t.Destination) == "" {
		return fmt.Errorf("%w: destination is required", ErrValidation)
	}
	if t.StartDate.IsZero() || t.EndDate.IsZero() {
		return fmt.Errorf("%w: start_date and end_date are required", ErrValidation)
	}
	if t.EndDate.Before(t.StartDate) {
		return fmt.Errorf("%w: end_date must not be before start_date", ErrValidation)
	}
	if !t.TripType.Valid() {
		return fmt.Errorf("%w: trip_type %q is not one of vacation, business, mixed", ErrValidation, t.TripType)
	}
	if !t.Vibe.Valid() {
		return fmt.Errorf("%w: vibe %q is not one of relaxed, adventurous, luxury, budget, family", ErrValidation, t.Vibe)
	}
	if t.NumTravelers < 1 {
		return fmt.Errorf("%w: num_travelers must be at least 1", ErrValidation)
	}
	return nil
}

// NormalizeInterests trims, lower-cases and de-duplicates an interest list,
// preserving first-seen order and dropping blanks.
func NormalizeInterests(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || slices.Contains(out, s) {
			continue
		}
		out = append(out, s)
	}
	return out
}
