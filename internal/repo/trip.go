package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tripcraft/tripcraft/internal/domain"
)

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres implementation,
// which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with DB-generated
	// id, created_at, and updated_at populated).
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its UUID primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// ListForUser returns one page of the trips userID owns or collaborates on,
	// ordered by start_date descending, plus the total number of such trips.
	ListForUser(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error)

	// Update overwrites the mutable fields of an existing trip and returns the
	// updated record. Returns domain.ErrNotFound if no trip with that ID exists.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// Delete removes a trip by ID. Returns domain.ErrNotFound if it does not exist.
	// Every child row is removed by ON DELETE CASCADE.
	Delete(ctx context.Context, id uuid.UUID) error

	// RoleOf returns userID's role on the trip: owner, the collaborator role,
	// or "" when the user has no access. Returns domain.ErrNotFound if the
	// trip does not exist.
	RoleOf(ctx context.Context, tripID, userID uuid.UUID) (domain.Role, error)
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, owner_id, title, destination, start_date, end_date, trip_type,
		       vibe, interests, num_travelers, notes, created_at, updated_at`

func tripArgs(t domain.Trip) pgx.NamedArgs {
	interests := t.Interests
	if interests == nil {
		interests = []string{}
	}
	return pgx.NamedArgs{
		"id":            t.ID,
		"owner_id":      t.OwnerID,
		"title":         t.Title,
		"destination":   t.Destination,
		"start_date":    t.StartDate,
		"end_date":      t.EndDate,
		"trip_type":     string(t.TripType),
		"vibe":          string(t.Vibe),
		"interests":     interests,
		"num_travelers": t.NumTravelers,
		"notes":         t.Notes,
	}
}

// Create inserts a new trip row and returns the full persisted record.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (owner_id, title, destination, start_date, end_date, trip_type,
		                   vibe, interests, num_travelers, notes)
		VALUES (@owner_id, @title, @destination, @start_date, @end_date, @trip_type,
		        @vibe, @interests, @num_travelers, @notes)
		RETURNING ` + tripColumns

	result, err := scanTrip(r.db.QueryRow(ctx, q, tripArgs(trip)))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", mapErr(err))
	}
	return result, nil
}

// GetByID retrieves a trip by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", mapErr(err))
	}
	return result, nil
}

// ListForUser returns a page of accessible trips and the unpaged total.
func (r *pgTripRepo) ListForUser(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	const where = `
		WHERE t.owner_id = @user_id
		   OR EXISTS (SELECT 1 FROM collaborators c WHERE c.trip_id = t.id AND c.user_id = @user_id)`

	const countQ = `SELECT count(*) FROM trips t` + where
	const listQ = `
		SELECT t.id, t.owner_id, t.title, t.destination, t.start_date, t.end_date, t.trip_type,
		       t.vibe, t.interests, t.num_travelers, t.notes, t.created_at, t.updated_at
		FROM trips t` + where + `
		ORDER BY t.start_date DESC, t.created_at DESC
		LIMIT @limit OFFSET @offset`

	var total int64
	if err := r.db.QueryRow(ctx, countQ, pgx.NamedArgs{"user_id": userID}).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListForUser: count: %w", err)
	}

	rows, err := r.db.Query(ctx, listQ, pgx.NamedArgs{
		"user_id": userID,
		"limit":   p.Limit,
		"offset":  p.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListForUser: %w", err)
	}
	trips, err := collect(rows, scanTrip)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListForUser: %w", err)
	}
	return trips, total, nil
}

// Update overwrites the mutable fields of a trip and returns the updated record.
// owner_id is never changed.
func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET title         = @title,
		    destination   = @destination,
		    start_date    = @start_date,
		    end_date      = @end_date,
		    trip_type     = @trip_type,
		    vibe          = @vibe,
		    interests     = @interests,
		    num_travelers = @num_travelers,
		    notes         = @notes,
		    updated_at    = now()
		WHERE id = @id
		RETURNING ` + tripColumns

	result, err := scanTrip(r.db.QueryRow(ctx, q, tripArgs(trip)))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", mapErr(err))
	}
	return result, nil
}

// Delete removes a trip by primary key.
func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// RoleOf resolves the caller's access level in a single round trip.
func (r *pgTripRepo) RoleOf(ctx context.Context, tripID, userID uuid.UUID) (domain.Role, error) {
	const q = `
		SELECT CASE WHEN t.owner_id = @user_id THEN 'owner' ELSE c.role END
		FROM trips t
		LEFT JOIN collaborators c ON c.trip_id = t.id AND c.user_id = @user_id
		WHERE t.id = @trip_id`

	var role *string
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID, "user_id": userID}).Scan(&role)
	if err != nil {
		return "", fmt.Errorf("repo.TripRepo.RoleOf: %w", mapErr(err))
	}
	if role == nil {
		return "", nil
	}
	return domain.Role(*role), nil
}

// scanTrip maps a single database row into a domain.Trip.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t                  domain.Trip
		id, owner          pgtype.UUID
		startDate, endDate pgtype.Date
		tripType, vibe     string
	)

	err := s.Scan(&id, &owner, &t.Title, &t.Destination, &startDate, &endDate, &tripType,
		&vibe, &t.Interests, &t.NumTravelers, &t.Notes, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.OwnerID = uuid.UUID(owner.Bytes)
	t.StartDate = startDate.Time
	t.EndDate = endDate.Time
	t.TripType = domain.TripType(tripType)
	t.Vibe = domain.Vibe(vibe)
	return t, nil
}
