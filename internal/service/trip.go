// Package service contains the business logic for the Tripcraft API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
// Every successful mutation is announced through a Publisher.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tripcraft/tripcraft/internal/domain"
	"github.com/tripcraft/tripcraft/internal/realtime"
	"github.com/tripcraft/tripcraft/internal/repo"
)

// TripService implements business logic for trips and their days.
type TripService struct {
	trips  repo.TripRepo
	days   repo.DayRepo
	events Publisher
}

// NewTripService constructs a TripService. events may be nil.
func NewTripService(trips repo.TripRepo, days repo.DayRepo, events Publisher) *TripService {
	return &TripService{trips: trips, days: days, events: orNop(events)}
}

// Create validates and persists a new trip owned by trip.OwnerID.
func (s *TripService) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	trip = normalizeTrip(trip)
	if trip.OwnerID == uuid.Nil {
		return domain.Trip{}, fmt.Errorf("%w: owner is required", domain.ErrValidation)
	}
	if err := trip.Validate(); err != nil {
		return domain.Trip{}, err
	}
	result, err := s.trips.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	changed(s.events, realtime.TableTrips, realtime.OpInsert, result.ID, result.ID)
	return result, nil
}

// GetByID returns a single trip by ID.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	result, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return result, nil
}

// List returns one page of the trips userID owns or collaborates on, plus
// the total count across all pages.
func (s *TripService) List(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	trips, total, err := s.trips.ListForUser(ctx, userID, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, total, nil
}

// Update validates and updates an existing trip. The owner cannot change.
func (s *TripService) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	trip = normalizeTrip(trip)
	if err := trip.Validate(); err != nil {
		return domain.Trip{}, err
	}
	result, err := s.trips.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	changed(s.events, realtime.TableTrips, realtime.OpUpdate, result.ID, result.ID)
	return result, nil
}

// Delete removes a trip and, by cascade, everything attached to it.
func (s *TripService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.trips.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	changed(s.events, realtime.TableTrips, realtime.OpDelete, id, id)
	return nil
}

// ListDays returns the trip's days ordered by day number.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *TripService) ListDays(ctx context.Context, tripID uuid.UUID) ([]domain.TripDay, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return nil, fmt.Errorf("service.TripService.ListDays: %w", err)
	}
	days, err := s.days.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListDays: %w", err)
	}
	if days == nil {
		days = []domain.TripDay{}
	}
	return days, nil
}

// CreateDay adds a day to a trip. A second day with the same number is a
// domain.ErrConflict.
func (s *TripService) CreateDay(ctx context.Context, day domain.TripDay) (domain.TripDay, error) {
	day.Title = strings.TrimSpace(day.Title)
	if err := day.Validate(); err != nil {
		return domain.TripDay{}, err
	}
	if _, err := s.trips.GetByID(ctx, day.TripID); err != nil {
		return domain.TripDay{}, fmt.Errorf("service.TripService.CreateDay: %w", err)
	}
	result, err := s.days.Create(ctx, day)
	if err != nil {
		return domain.TripDay{}, fmt.Errorf("service.TripService.CreateDay: %w", err)
	}
	changed(s.events, realtime.TableTripDays, realtime.OpInsert, result.TripID, result.ID)
	return result, nil
}

// UpdateDay changes a day's number, date or title.
func (s *TripService) UpdateDay(ctx context.Context, day domain.TripDay) (domain.TripDay, error) {
	day.Title = strings.TrimSpace(day.Title)
	if err := day.Validate(); err != nil {
		return domain.TripDay{}, err
	}
	result, err := s.days.Update(ctx, day)
	if err != nil {
		return domain.TripDay{}, fmt.Errorf("service.TripService.UpdateDay: %w", err)
	}
	changed(s.events, realtime.TableTripDays, realtime.OpUpdate, result.TripID, result.ID)
	return result, nil
}

// DeleteDay removes a day and its activities.
func (s *TripService) DeleteDay(ctx context.Context, tripID, dayID uuid.UUID) error {
	if err := s.days.Delete(ctx, tripID, dayID); err != nil {
		return fmt.Errorf("service.TripService.DeleteDay: %w", err)
	}
	changed(s.events, realtime.TableTripDays, realtime.OpDelete, tripID, dayID)
	return nil
}

func normalizeTrip(t domain.Trip) domain.Trip {
	t.Title = strings.TrimSpace(t.Title)
	t.Destination = strings.TrimSpace(t.Destination)
	t.Interests = domain.NormalizeInterests(t.Interests)
	return t
}
