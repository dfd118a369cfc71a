package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tripcraft/tripcraft/internal/domain"
)

// DayRepo defines the persistence operations for trip days.
// Every lookup is scoped by trip ID so a day of one trip can never be
// reached through another trip's URL.
type DayRepo interface {
	Create(ctx context.Context, day domain.TripDay) (domain.TripDay, error)
	GetByID(ctx context.Context, tripID, dayID uuid.UUID) (domain.TripDay, error)
	// ListByTrip returns the trip's days ordered by day_number. Activities are not loaded.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.TripDay, error)
	Update(ctx context.Context, day domain.TripDay) (domain.TripDay, error)
	Delete(ctx context.Context, tripID, dayID uuid.UUID) error
	// DeleteByTrip removes every day (and by cascade every activity) of a trip
	// and reports how many days were removed.
	DeleteByTrip(ctx context.Context, tripID uuid.UUID) (int64, error)
}

type pgDayRepo struct {
	db db
}

// NewDayRepo constructs a DayRepo backed by the provided db connection.
func NewDayRepo(db db) DayRepo {
	return &pgDayRepo{db: db}
}

const dayColumns = `id, trip_id, day_number, date, title, created_at, updated_at`

func (r *pgDayRepo) Create(ctx context.Context, day domain.TripDay) (domain.TripDay, error) {
	const q = `
		INSERT INTO trip_days (trip_id, day_number, date, title)
		VALUES (@trip_id, @day_number, @date, @title)
		RETURNING ` + dayColumns

	args := pgx.NamedArgs{
		"trip_id":    day.TripID,
		"day_number": day.DayNumber,
		"date":       day.Date,
		"title":      day.Title,
	}
	result, err := scanDay(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.TripDay{}, fmt.Errorf("repo.DayRepo.Create: %w", mapErr(err))
	}
	return result, nil
}

func (r *pgDayRepo) GetByID(ctx context.Context, tripID, dayID uuid.UUID) (domain.TripDay, error) {
	const q = `SELECT ` + dayColumns + ` FROM trip_days WHERE id = @id AND trip_id = @trip_id`

	result, err := scanDay(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": dayID, "trip_id": tripID}))
	if err != nil {
		return domain.TripDay{}, fmt.Errorf("repo.DayRepo.GetByID: %w", mapErr(err))
	}
	return result, nil
}

func (r *pgDayRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.TripDay, error) {
	const q = `SELECT ` + dayColumns + ` FROM trip_days WHERE trip_id = @trip_id ORDER BY day_number`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.DayRepo.ListByTrip: %w", err)
	}
	days, err := collect(rows, scanDay)
	if err != nil {
		return nil, fmt.Errorf("repo.DayRepo.ListByTrip: %w", err)
	}
	return days, nil
}

func (r *pgDayRepo) Update(ctx context.Context, day domain.TripDay) (domain.TripDay, error) {
	const q = `
		UPDATE trip_days
		SET day_number = @day_number,
		    date       = @date,
		    title      = @title,
		    updated_at = now()
		WHERE id = @id AND trip_id = @trip_id
		RETURNING ` + dayColumns

	args := pgx.NamedArgs{
		"id":         day.ID,
		"trip_id":    day.TripID,
		"day_number": day.DayNumber,
		"date":       day.Date,
		"title":      day.Title,
	}
	result, err := scanDay(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.TripDay{}, fmt.Errorf("repo.DayRepo.Update: %w", mapErr(err))
	}
	return result, nil
}

func (r *pgDayRepo) Delete(ctx context.Context, tripID, dayID uuid.UUID) error {
	const q = `DELETE FROM trip_days WHERE id = @id AND trip_id = @trip_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": dayID, "trip_id": tripID})
	if err != nil {
		return fmt.Errorf("repo.DayRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.DayRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgDayRepo) DeleteByTrip(ctx context.Context, tripID uuid.UUID) (int64, error) {
	const q = `DELETE FROM trip_days WHERE trip_id = @trip_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return 0, fmt.Errorf("repo.DayRepo.DeleteByTrip: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanDay(s scanner) (domain.TripDay, error) {
	var (
		d          domain.TripDay
		id, tripID pgtype.UUID
		date       pgtype.Date
	)
	if err := s.Scan(&id, &tripID, &d.DayNumber, &date, &d.Title, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return domain.TripDay{}, err
	}
	d.ID = uuid.UUID(id.Bytes)
	d.TripID = uuid.UUID(tripID.Bytes)
	d.Date = date.Time
	return d, nil
}
