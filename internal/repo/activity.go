package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tripcraft/tripcraft/internal/domain"
)

// ActivityRepo defines the persistence operations for activities.
type ActivityRepo interface {
	Create(ctx context.Context, a domain.Activity) (domain.Activity, error)

	// CreateBatch inserts all activities in one round trip and returns them
	// in input order. Run it inside WithinTx for all-or-nothing semantics.
	CreateBatch(ctx context.Context, as []domain.Activity) ([]domain.Activity, error)

	// GetForTrip fetches an activity only if its day belongs to tripID.
	GetForTrip(ctx context.Context, tripID, activityID uuid.UUID) (domain.Activity, error)

	// ListByDay returns a day's activities in render order
	// (order_index ascending, ties broken by created_at).
	ListByDay(ctx context.Context, dayID uuid.UUID) ([]domain.Activity, error)

	// ListByTrip returns every activity of the trip ordered by day number,
	// then render order.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error)

	// LastOrderIndex returns the largest order_index on the day, or nil when
	// the day has no activities.
	LastOrderIndex(ctx context.Context, dayID uuid.UUID) (*float64, error)

	Update(ctx context.Context, a domain.Activity) (domain.Activity, error)

	// SetOrderIndexes rewrites order_index for each id in one batch.
	SetOrderIndexes(ctx context.Context, indexes map[uuid.UUID]float64) error

	Delete(ctx context.Context, tripID, activityID uuid.UUID) error
}

type pgActivityRepo struct {
	db db
}

// NewActivityRepo constructs an ActivityRepo backed by the provided db connection.
func NewActivityRepo(db db) ActivityRepo {
	return &pgActivityRepo{db: db}
}

// TIME and NUMERIC columns are converted in SQL so they scan into plain Go
// strings and floats.
const activityColumns = `a.id, a.trip_day_id, a.title, to_char(a.start_time, 'HH24:MI'),
		       to_char(a.end_time, 'HH24:MI'), a.category, a.location, a.notes,
		       a.budget_estimate::float8, a.booking_required, a.importance, a.order_index,
		       a.created_at, a.updated_at`

const insertActivity = `
		INSERT INTO activities AS a (trip_day_id, title, start_time, end_time, category, location,
		                             notes, budget_estimate, booking_required, importance, order_index)
		VALUES (@trip_day_id, @title, @start_time::text::time, @end_time::text::time, @category,
		        @location, @notes, @budget_estimate::float8, @booking_required, @importance,
		        @order_index)
		RETURNING ` + activityColumns

func activityArgs(a domain.Activity) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":               a.ID,
		"trip_day_id":      a.TripDayID,
		"title":            a.Title,
		"start_time":       emptyToNil(a.StartTime),
		"end_time":         emptyToNil(a.EndTime),
		"category":         a.Category,
		"location":         a.Location,
		"notes":            a.Notes,
		"budget_estimate":  a.BudgetEstimate,
		"booking_required": a.BookingRequired,
		"importance":       string(a.Importance),
		"order_index":      a.OrderIndex,
	}
}

func (r *pgActivityRepo) Create(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	result, err := scanActivity(r.db.QueryRow(ctx, insertActivity, activityArgs(a)))
	if err != nil {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.Create: %w", mapErr(err))
	}
	return result, nil
}

func (r *pgActivityRepo) CreateBatch(ctx context.Context, as []domain.Activity) ([]domain.Activity, error) {
	if len(as) == 0 {
		return []domain.Activity{}, nil
	}
	batch := &pgx.Batch{}
	for _, a := range as {
		batch.Queue(insertActivity, activityArgs(a))
	}
	br := r.db.SendBatch(ctx, batch)
	defer br.Close()

	out := make([]domain.Activity, 0, len(as))
	for range as {
		a, err := scanActivity(br.QueryRow())
		if err != nil {
			return nil, fmt.Errorf("repo.ActivityRepo.CreateBatch: %w", mapErr(err))
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *pgActivityRepo) GetForTrip(ctx context.Context, tripID, activityID uuid.UUID) (domain.Activity, error) {
	const q = `
		SELECT ` + activityColumns + `
		FROM activities a
		JOIN trip_days d ON d.id = a.trip_day_id
		WHERE a.id = @id AND d.trip_id = @trip_id`

	result, err := scanActivity(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": activityID, "trip_id": tripID}))
	if err != nil {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.GetForTrip: %w", mapErr(err))
	}
	return result, nil
}

func (r *pgActivityRepo) ListByDay(ctx context.Context, dayID uuid.UUID) ([]domain.Activity, error) {
	const q = `
		SELECT ` + activityColumns + `
		FROM activities a
		WHERE a.trip_day_id = @day_id
		ORDER BY a.order_index, a.created_at`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"day_id": dayID})
	if err != nil {
		return nil, fmt.Errorf("repo.ActivityRepo.ListByDay: %w", err)
	}
	out, err := collect(rows, scanActivity)
	if err != nil {
		return nil, fmt.Errorf("repo.ActivityRepo.ListByDay: %w", err)
	}
	return out, nil
}

func (r *pgActivityRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error) {
	const q = `
		SELECT ` + activityColumns + `
		FROM activities a
		JOIN trip_days d ON d.id = a.trip_day_id
		WHERE d.trip_id = @trip_id
		ORDER BY d.day_number, a.order_index, a.created_at`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.ActivityRepo.ListByTrip: %w", err)
	}
	out, err := collect(rows, scanActivity)
	if err != nil {
		return nil, fmt.Errorf("repo.ActivityRepo.ListByTrip: %w", err)
	}
	return out, nil
}

func (r *pgActivityRepo) LastOrderIndex(ctx context.Context, dayID uuid.UUID) (*float64, error) {
	const q = `SELECT max(order_index) FROM activities WHERE trip_day_id = @day_id`

	var last *float64
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"day_id": dayID}).Scan(&last); err != nil {
		return nil, fmt.Errorf("repo.ActivityRepo.LastOrderIndex: %w", err)
	}
	return last, nil
}

func (r *pgActivityRepo) Update(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	const q = `
		UPDATE activities AS a
		SET title            = @title,
		    start_time       = @start_time::text::time,
		    end_time         = @end_time::text::time,
		    category         = @category,
		    location         = @location,
		    notes            = @notes,
		    budget_estimate  = @budget_estimate::float8,
		    booking_required = @booking_required,
		    importance       = @importance,
		    updated_at       = now()
		WHERE a.id = @id
		RETURNING ` + activityColumns

	result, err := scanActivity(r.db.QueryRow(ctx, q, activityArgs(a)))
	if err != nil {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.Update: %w", mapErr(err))
	}
	return result, nil
}

func (r *pgActivityRepo) SetOrderIndexes(ctx context.Context, indexes map[uuid.UUID]float64) error {
	if len(indexes) == 0 {
		return nil
	}
	const q = `UPDATE activities SET order_index = @order_index, updated_at = now() WHERE id = @id`

	batch := &pgx.Batch{}
	for id, idx := range indexes {
		batch.Queue(q, pgx.NamedArgs{"id": id, "order_index": idx})
	}
	br := r.db.SendBatch(ctx, batch)
	defer br.Close()

	for range indexes {
		tag, err := br.Exec()
		if err != nil {
			return fmt.Errorf("repo.ActivityRepo.SetOrderIndexes: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("repo.ActivityRepo.SetOrderIndexes: %w", domain.ErrNotFound)
		}
	}
	return nil
}

func (r *pgActivityRepo) Delete(ctx context.Context, tripID, activityID uuid.UUID) error {
	const q = `
		DELETE FROM activities a
		USING trip_days d
		WHERE a.id = @id AND d.id = a.trip_day_id AND d.trip_id = @trip_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": activityID, "trip_id": tripID})
	if err != nil {
		return fmt.Errorf("repo.ActivityRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ActivityRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func scanActivity(s scanner) (domain.Activity, error) {
	var (
		a          domain.Activity
		id, dayID  pgtype.UUID
		importance string
	)
	err := s.Scan(&id, &dayID, &a.Title, &a.StartTime, &a.EndTime, &a.Category, &a.Location,
		&a.Notes, &a.BudgetEstimate, &a.BookingRequired, &importance, &a.OrderIndex,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return domain.Activity{}, err
	}
	a.ID = uuid.UUID(id.Bytes)
	a.TripDayID = uuid.UUID(dayID.Bytes)
	a.Importance = domain.Importance(importance)
	return a, nil
}

// emptyToNil maps an unset or blank optional string to SQL NULL.
func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
