package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tripcraft/tripcraft/internal/domain"
	"github.com/tripcraft/tripcraft/internal/generator"
	"github.com/tripcraft/tripcraft/internal/realtime"
	"github.com/tripcraft/tripcraft/internal/repo"
)

// PackingService implements business logic for packing lists.
type PackingService struct {
	tx     repo.Transactor
	trips  repo.TripRepo
	items  repo.PackingRepo
	events Publisher
}

// NewPackingService constructs a PackingService.
func NewPackingService(tx repo.Transactor, trips repo.TripRepo, items repo.PackingRepo, events Publisher) *PackingService {
	return &PackingService{tx: tx, trips: trips, items: items, events: orNop(events)}
}

// List returns the trip's packing items ordered by category.
func (s *PackingService) List(ctx context.Context, tripID uuid.UUID) ([]domain.PackingItem, error) {
	items, err := s.items.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.PackingService.List: %w", err)
	}
	if items == nil {
		items = []domain.PackingItem{}
	}
	return items, nil
}

// Create validates and adds one item.
func (s *PackingService) Create(ctx context.Context, item domain.PackingItem) (domain.PackingItem, error) {
	item = normalizePackingItem(item)
	if err := item.Validate(); err != nil {
		return domain.PackingItem{}, err
	}
	if _, err := s.trips.GetByID(ctx, item.TripID); err != nil {
		return domain.PackingItem{}, fmt.Errorf("service.PackingService.Create: %w", err)
	}
	result, err := s.items.Create(ctx, item)
	if err != nil {
		return domain.PackingItem{}, fmt.Errorf("service.PackingService.Create: %w", err)
	}
	changed(s.events, realtime.TablePackingItems, realtime.OpInsert, result.TripID, result.ID)
	return result, nil
}

// BulkCreate adds many items at once. Either every item is stored or none is.
func (s *PackingService) BulkCreate(ctx context.Context, tripID uuid.UUID, items []domain.PackingItem) ([]domain.PackingItem, error) {
	if len(items) == 0 {
		return []domain.PackingItem{}, nil
	}
	items = slices.Clone(items)
	for i := range items {
		items[i].TripID = tripID
		items[i] = normalizePackingItem(items[i])
		if err := items[i].Validate(); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}

	var stored []domain.PackingItem
	err := s.tx.WithinTx(ctx, func(tx repo.Repos) error {
		if _, err := tx.Trips.GetByID(ctx, tripID); err != nil {
			return err
		}
		var err error
		stored, err = tx.Packing.CreateBatch(ctx, items)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("service.PackingService.BulkCreate: %w", err)
	}
	for _, it := range stored {
		changed(s.events, realtime.TablePackingItems, realtime.OpInsert, tripID, it.ID)
	}
	return stored, nil
}

// Update changes an item. Toggling Packed goes through here too.
func (s *PackingService) Update(ctx context.Context, item domain.PackingItem) (domain.PackingItem, error) {
	item = normalizePackingItem(item)
	if err := item.Validate(); err != nil {
		return domain.PackingItem{}, err
	}
	result, err := s.items.Update(ctx, item)
	if err != nil {
		return domain.PackingItem{}, fmt.Errorf("service.PackingService.Update: %w", err)
	}
	changed(s.events, realtime.TablePackingItems, realtime.OpUpdate, result.TripID, result.ID)
	return result, nil
}

// Delete removes an item.
func (s *PackingService) Delete(ctx context.Context, tripID, itemID uuid.UUID) error {
	if err := s.items.Delete(ctx, tripID, itemID); err != nil {
		return fmt.Errorf("service.PackingService.Delete: %w", err)
	}
	changed(s.events, realtime.TablePackingItems, realtime.OpDelete, tripID, itemID)
	return nil
}

// Progress reports how much of the list is packed, grouped by category.
func (s *PackingService) Progress(ctx context.Context, tripID uuid.UUID) (domain.PackingProgress, error) {
	items, err := s.items.ListByTrip(ctx, tripID)
	if err != nil {
		return domain.PackingProgress{}, fmt.Errorf("service.PackingService.Progress: %w", err)
	}
	return domain.SummarizePacking(items), nil
}

// PackingOptions are the generator inputs a trip does not record.
type PackingOptions struct {
	HasChildren bool
	HasElders   bool
	Climate     string
}

// Suggest generates a packing list from the trip's stored details.
// Nothing is persisted.
func (s *PackingService) Suggest(ctx context.Context, tripID uuid.UUID, opts PackingOptions) (generator.PackingList, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return generator.PackingList{}, fmt.Errorf("service.PackingService.Suggest: %w", err)
	}
	start := trip.StartDate.Format(time.DateOnly)
	end := trip.EndDate.Format(time.DateOnly)
	tripType := string(trip.TripType)
	vibe := string(trip.Vibe)
	list, err := generator.GeneratePackingList(generator.PackingRequest{
		Destination:  &trip.Destination,
		StartDate:    &start,
		EndDate:      &end,
		TripType:     &tripType,
		Vibe:         &vibe,
		NumTravelers: &trip.NumTravelers,
		HasChildren:  opts.HasChildren,
		HasElders:    opts.HasElders,
		Climate:      opts.Climate,
	})
	generator.Observe("packing", err)
	if err != nil {
		return generator.PackingList{}, fmt.Errorf("service.PackingService.Suggest: %w", err)
	}
	return list, nil
}

// ApplyGenerated stores every suggestion of a generated list as an unpacked
// item. Suggestion notes carry over; priority is not stored.
func (s *PackingService) ApplyGenerated(ctx context.Context, tripID uuid.UUID, list generator.PackingList) ([]domain.PackingItem, error) {
	var items []domain.PackingItem
	for _, cat := range list.Categories {
		for _, sug := range cat.Items {
			items = append(items, domain.PackingItem{
				TripID:   tripID,
				Category: cat.Name,
				Name:     sug.Name,
				Quantity: max(sug.Quantity, 1),
				Note:     sug.Note,
			})
		}
	}
	stored, err := s.BulkCreate(ctx, tripID, items)
	if err != nil {
		return nil, fmt.Errorf("service.PackingService.ApplyGenerated: %w", err)
	}
	return stored, nil
}

func normalizePackingItem(p domain.PackingItem) domain.PackingItem {
	p.Category = strings.TrimSpace(p.Category)
	p.Name = strings.TrimSpace(p.Name)
	p.Note = strings.TrimSpace(p.Note)
	return p
}
