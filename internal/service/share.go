package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tripcraft/tripcraft/internal/domain"
	"github.com/tripcraft/tripcraft/internal/realtime"
	"github.com/tripcraft/tripcraft/internal/repo"
)

// ShareService manages public read-only links to trips.
type ShareService struct {
	r      repo.Repos
	events Publisher
	logger *slog.Logger
}

// NewShareService constructs a ShareService. It reads across most of r to
// assemble the public view.
func NewShareService(r repo.Repos, events Publisher, logger *slog.Logger) *ShareService {
	return &ShareService{r: r, events: orNop(events), logger: logger}
}

// Create returns the trip's share, minting one with a random public id if
// the trip has none. Calling it again returns the same share.
func (s *ShareService) Create(ctx context.Context, tripID uuid.UUID) (domain.TripShare, error) {
	if _, err := s.r.Trips.GetByID(ctx, tripID); err != nil {
		return domain.TripShare{}, fmt.Errorf("service.ShareService.Create: %w", err)
	}
	candidate := uuid.NewString()
	share, err := s.r.Shares.Create(ctx, tripID, candidate)
	if err != nil {
		return domain.TripShare{}, fmt.Errorf("service.ShareService.Create: %w", err)
	}
	if share.PublicID == candidate {
		s.logger.InfoContext(ctx, "share created", "trip_id", tripID)
		changed(s.events, realtime.TableTripShares, realtime.OpInsert, tripID, share.ID)
	}
	return share, nil
}

// Get returns the trip's share, or domain.ErrNotFound if it is not shared.
func (s *ShareService) Get(ctx context.Context, tripID uuid.UUID) (domain.TripShare, error) {
	share, err := s.r.Shares.GetByTrip(ctx, tripID)
	if err != nil {
		return domain.TripShare{}, fmt.Errorf("service.ShareService.Get: %w", err)
	}
	return share, nil
}

// Revoke deletes the trip's share. The old public id stops working.
func (s *ShareService) Revoke(ctx context.Context, tripID uuid.UUID) error {
	share, err := s.r.Shares.GetByTrip(ctx, tripID)
	if err != nil {
		return fmt.Errorf("service.ShareService.Revoke: %w", err)
	}
	if err := s.r.Shares.DeleteByTrip(ctx, tripID); err != nil {
		return fmt.Errorf("service.ShareService.Revoke: %w", err)
	}
	changed(s.events, realtime.TableTripShares, realtime.OpDelete, tripID, share.ID)
	return nil
}

// PublicView assembles the read-only page behind a public id: the trip, its
// itinerary, the packing list grouped by category and the budget summary.
func (s *ShareService) PublicView(ctx context.Context, publicID string) (domain.SharedTrip, error) {
	if _, err := uuid.Parse(publicID); err != nil {
		return domain.SharedTrip{}, fmt.Errorf("service.ShareService.PublicView: %w", domain.ErrNotFound)
	}
	share, err := s.r.Shares.GetByPublicID(ctx, publicID)
	if err != nil {
		return domain.SharedTrip{}, fmt.Errorf("service.ShareService.PublicView: %w", err)
	}
	trip, err := s.r.Trips.GetByID(ctx, share.TripID)
	if err != nil {
		return domain.SharedTrip{}, fmt.Errorf("service.ShareService.PublicView: %w", err)
	}
	days, err := loadItinerary(ctx, s.r.Days, s.r.Activities, trip.ID)
	if err != nil {
		return domain.SharedTrip{}, fmt.Errorf("service.ShareService.PublicView: %w", err)
	}
	items, err := s.r.Packing.ListByTrip(ctx, trip.ID)
	if err != nil {
		return domain.SharedTrip{}, fmt.Errorf("service.ShareService.PublicView: %w", err)
	}
	expenses, err := s.r.Expenses.ListByTrip(ctx, trip.ID)
	if err != nil {
		return domain.SharedTrip{}, fmt.Errorf("service.ShareService.PublicView: %w", err)
	}
	return domain.SharedTrip{
		Trip:    trip,
		Days:    days,
		Packing: domain.SummarizePacking(items),
		Budget:  domain.SummarizeBudget(expenses),
	}, nil
}
