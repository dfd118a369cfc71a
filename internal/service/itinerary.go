package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tripcraft/tripcraft/internal/domain"
	"github.com/tripcraft/tripcraft/internal/generator"
	"github.com/tripcraft/tripcraft/internal/realtime"
	"github.com/tripcraft/tripcraft/internal/repo"
)

// ItineraryService manages activities, their order within a day, and the
// application of generated itineraries.
type ItineraryService struct {
	tx         repo.Transactor
	trips      repo.TripRepo
	days       repo.DayRepo
	activities repo.ActivityRepo
	planner    generator.Planner
	events     Publisher
	logger     *slog.Logger
}

// NewItineraryService constructs an ItineraryService. The repos in r must be
// bound to the same database that tx opens transactions on.
func NewItineraryService(tx repo.Transactor, r repo.Repos, planner generator.Planner, events Publisher, logger *slog.Logger) *ItineraryService {
	return &ItineraryService{
		tx:         tx,
		trips:      r.Trips,
		days:       r.Days,
		activities: r.Activities,
		planner:    planner,
		events:     orNop(events),
		logger:     logger,
	}
}

// Itinerary returns the trip's days in order, each with its activities in
// render order.
func (s *ItineraryService) Itinerary(ctx context.Context, tripID uuid.UUID) ([]domain.TripDay, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return nil, fmt.Errorf("service.ItineraryService.Itinerary: %w", err)
	}
	days, err := loadItinerary(ctx, s.days, s.activities, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ItineraryService.Itinerary: %w", err)
	}
	return days, nil
}

// ListActivities returns one day's activities in render order.
// Returns domain.ErrNotFound if the day is not part of the trip.
func (s *ItineraryService) ListActivities(ctx context.Context, tripID, dayID uuid.UUID) ([]domain.Activity, error) {
	if _, err := s.days.GetByID(ctx, tripID, dayID); err != nil {
		return nil, fmt.Errorf("service.ItineraryService.ListActivities: %w", err)
	}
	acts, err := s.activities.ListByDay(ctx, dayID)
	if err != nil {
		return nil, fmt.Errorf("service.ItineraryService.ListActivities: %w", err)
	}
	if acts == nil {
		acts = []domain.Activity{}
	}
	return acts, nil
}

// CreateActivity appends an activity to the end of its day.
func (s *ItineraryService) CreateActivity(ctx context.Context, tripID uuid.UUID, a domain.Activity) (domain.Activity, error) {
	a.Title = strings.TrimSpace(a.Title)
	if a.Importance == "" {
		a.Importance = domain.ImportanceMedium
	}
	if err := a.Validate(); err != nil {
		return domain.Activity{}, err
	}
	if _, err := s.days.GetByID(ctx, tripID, a.TripDayID); err != nil {
		return domain.Activity{}, fmt.Errorf("service.ItineraryService.CreateActivity: %w", err)
	}
	last, err := s.activities.LastOrderIndex(ctx, a.TripDayID)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ItineraryService.CreateActivity: %w", err)
	}
	a.OrderIndex = domain.NextOrderIndex(last)

	result, err := s.activities.Create(ctx, a)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ItineraryService.CreateActivity: %w", err)
	}
	changed(s.events, realtime.TableActivities, realtime.OpInsert, tripID, result.ID)
	return result, nil
}

// UpdateActivity changes an activity's content. Its day and position are
// kept; use Move to reorder.
func (s *ItineraryService) UpdateActivity(ctx context.Context, tripID uuid.UUID, a domain.Activity) (domain.Activity, error) {
	a.Title = strings.TrimSpace(a.Title)
	if err := a.Validate(); err != nil {
		return domain.Activity{}, err
	}
	current, err := s.activities.GetForTrip(ctx, tripID, a.ID)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ItineraryService.UpdateActivity: %w", err)
	}
	a.TripDayID = current.TripDayID
	a.OrderIndex = current.OrderIndex

	result, err := s.activities.Update(ctx, a)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ItineraryService.UpdateActivity: %w", err)
	}
	changed(s.events, realtime.TableActivities, realtime.OpUpdate, tripID, result.ID)
	return result, nil
}

// DeleteActivity removes an activity. Remaining activities keep their order.
func (s *ItineraryService) DeleteActivity(ctx context.Context, tripID, activityID uuid.UUID) error {
	if err := s.activities.Delete(ctx, tripID, activityID); err != nil {
		return fmt.Errorf("service.ItineraryService.DeleteActivity: %w", err)
	}
	changed(s.events, realtime.TableActivities, realtime.OpDelete, tripID, activityID)
	return nil
}

// Move puts an activity at position (0-based, clamped) within its day.
// When the neighbouring indexes are too close to split, the whole day is
// renumbered first. Both steps share one transaction.
func (s *ItineraryService) Move(ctx context.Context, tripID, activityID uuid.UUID, position int) (domain.Activity, error) {
	var moved domain.Activity
	err := s.tx.WithinTx(ctx, func(tx repo.Repos) error {
		a, err := tx.Activities.GetForTrip(ctx, tripID, activityID)
		if err != nil {
			return err
		}
		all, err := tx.Activities.ListByDay(ctx, a.TripDayID)
		if err != nil {
			return err
		}
		siblings := make([]domain.Activity, 0, len(all))
		for _, other := range all {
			if other.ID != a.ID {
				siblings = append(siblings, other)
			}
		}

		idx, ok := domain.OrderIndexAt(orderIndexes(siblings), position)
		if !ok {
			even := domain.EvenOrderIndexes(len(siblings))
			renumbered := make(map[uuid.UUID]float64, len(siblings))
			for i, sib := range siblings {
				renumbered[sib.ID] = even[i]
			}
			if err := tx.Activities.SetOrderIndexes(ctx, renumbered); err != nil {
				return err
			}
			s.logger.DebugContext(ctx, "renumbered day", "day_id", a.TripDayID, "activities", len(siblings))
			idx, _ = domain.OrderIndexAt(even, position)
		}

		if err := tx.Activities.SetOrderIndexes(ctx, map[uuid.UUID]float64{a.ID: idx}); err != nil {
			return err
		}
		a.OrderIndex = idx
		moved = a
		return nil
	})
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ItineraryService.Move: %w", err)
	}
	changed(s.events, realtime.TableActivities, realtime.OpUpdate, tripID, moved.ID)
	return moved, nil
}

// Generate plans an itinerary for the trip and applies it.
// See ApplyGenerated for the replace semantics.
func (s *ItineraryService) Generate(ctx context.Context, tripID uuid.UUID, replace bool) ([]domain.TripDay, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ItineraryService.Generate: %w", err)
	}

	itinerary, err := s.planner.Plan(ctx, RequestForTrip(trip))
	generator.Observe("itinerary", err)
	if err != nil {
		return nil, fmt.Errorf("service.ItineraryService.Generate: %w", err)
	}
	s.logger.InfoContext(ctx, "itinerary generated", "trip_id", tripID, "days", len(itinerary.Days))

	return s.ApplyGenerated(ctx, tripID, itinerary, replace)
}

// RequestForTrip builds the planner input from a stored trip.
func RequestForTrip(t domain.Trip) generator.ItineraryRequest {
	return generator.ItineraryRequest{
		TripID:       t.ID.String(),
		Destination:  t.Destination,
		StartDate:    t.StartDate.Format(time.DateOnly),
		EndDate:      t.EndDate.Format(time.DateOnly),
		TripType:     string(t.TripType),
		Vibe:         string(t.Vibe),
		Interests:    t.Interests,
		NumTravelers: t.NumTravelers,
	}
}

// ApplyGenerated stores a generated itinerary as the trip's days and
// activities in one transaction. Activities keep their generated order.
// If the trip already has days the call fails with domain.ErrConflict,
// unless replace is set, in which case the existing days are deleted first.
func (s *ItineraryService) ApplyGenerated(ctx context.Context, tripID uuid.UUID, it generator.Itinerary, replace bool) ([]domain.TripDay, error) {
	days, err := toDomainDays(tripID, it)
	if err != nil {
		return nil, err
	}

	var stored []domain.TripDay
	err = s.tx.WithinTx(ctx, func(tx repo.Repos) error {
		if _, err := tx.Trips.GetByID(ctx, tripID); err != nil {
			return err
		}
		existing, err := tx.Days.ListByTrip(ctx, tripID)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			if !replace {
				return fmt.Errorf("%w: trip already has an itinerary", domain.ErrConflict)
			}
			if _, err := tx.Days.DeleteByTrip(ctx, tripID); err != nil {
				return err
			}
		}

		stored = make([]domain.TripDay, 0, len(days))
		for _, d := range days {
			acts := d.Activities
			created, err := tx.Days.Create(ctx, d)
			if err != nil {
				return err
			}
			for i := range acts {
				acts[i].TripDayID = created.ID
			}
			created.Activities = []domain.Activity{}
			if len(acts) > 0 {
				if created.Activities, err = tx.Activities.CreateBatch(ctx, acts); err != nil {
					return err
				}
			}
			stored = append(stored, created)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("service.ItineraryService.ApplyGenerated: %w", err)
	}

	for _, d := range stored {
		changed(s.events, realtime.TableTripDays, realtime.OpInsert, tripID, d.ID)
	}
	s.logger.InfoContext(ctx, "itinerary applied", "trip_id", tripID, "days", len(stored), "replaced", replace)
	return stored, nil
}

// toDomainDays converts a validated generated itinerary into rows.
// Fields the store cannot hold as given are coerced: unparseable times are
// dropped, budgets are rounded to cents with negatives raised to zero, and
// unknown importance becomes medium. Budgets the store cannot hold fail.
func toDomainDays(tripID uuid.UUID, it generator.Itinerary) ([]domain.TripDay, error) {
	out := make([]domain.TripDay, 0, len(it.Days))
	for _, d := range it.Days {
		date, err := generator.ParseDate("date", d.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: day %d: %v", domain.ErrValidation, d.DayNumber, err)
		}
		day := domain.TripDay{
			TripID:    tripID,
			DayNumber: d.DayNumber,
			Date:      date,
			Title:     strings.TrimSpace(d.Title),
		}
		if err := day.Validate(); err != nil {
			return nil, err
		}
		indexes := domain.EvenOrderIndexes(len(d.Activities))
		for i, a := range d.Activities {
			imp := domain.Importance(strings.ToLower(a.Importance))
			if !imp.Valid() {
				imp = domain.ImportanceMedium
			}
			budget := domain.RoundCents(max(a.BudgetEstimate, 0))
			if budget >= domain.MaxAmount {
				return nil, fmt.Errorf("%w: day %d activity %d: budgetEstimate is too large", domain.ErrValidation, d.DayNumber, i+1)
			}
			day.Activities = append(day.Activities, domain.Activity{
				Title:           strings.TrimSpace(a.Title),
				StartTime:       clock(a.StartTime),
				EndTime:         clock(a.EndTime),
				Category:        a.Category,
				Location:        a.Location,
				Notes:           a.Notes,
				BudgetEstimate:  budget,
				BookingRequired: a.BookingRequired,
				Importance:      imp,
				OrderIndex:      indexes[i],
			})
		}
		out = append(out, day)
	}
	return out, nil
}

// clock normalizes a wall-clock string to HH:MM, or nil if it is not one.
func clock(s string) *string {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	v := t.Format("15:04")
	return &v
}

func orderIndexes(acts []domain.Activity) []float64 {
	out := make([]float64, len(acts))
	for i, a := range acts {
		out[i] = a.OrderIndex
	}
	return out
}

// loadItinerary reads a trip's days and attaches their activities.
func loadItinerary(ctx context.Context, days repo.DayRepo, activities repo.ActivityRepo, tripID uuid.UUID) ([]domain.TripDay, error) {
	ds, err := days.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	acts, err := activities.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	byDay := make(map[uuid.UUID][]domain.Activity, len(ds))
	for _, a := range acts {
		byDay[a.TripDayID] = append(byDay[a.TripDayID], a)
	}
	out := make([]domain.TripDay, len(ds))
	for i, d := range ds {
		d.Activities = byDay[d.ID]
		if d.Activities == nil {
			d.Activities = []domain.Activity{}
		}
		out[i] = d
	}
	return out, nil
}
