package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tripcraft/tripcraft/internal/domain"
)

// ShareRepo persists public share links. A trip has at most one.
type ShareRepo interface {
	// Create stores a share for the trip. If the trip already has one, the
	// existing share is returned unchanged and publicID is discarded.
	Create(ctx context.Context, tripID uuid.UUID, publicID string) (domain.TripShare, error)
	GetByTrip(ctx context.Context, tripID uuid.UUID) (domain.TripShare, error)
	GetByPublicID(ctx context.Context, publicID string) (domain.TripShare, error)
	DeleteByTrip(ctx context.Context, tripID uuid.UUID) error
}

type pgShareRepo struct {
	db db
}

// NewShareRepo constructs a ShareRepo backed by the provided db connection.
func NewShareRepo(db db) ShareRepo {
	return &pgShareRepo{db: db}
}

const shareColumns = `id, trip_id, public_id, created_at`

func (r *pgShareRepo) Create(ctx context.Context, tripID uuid.UUID, publicID string) (domain.TripShare, error) {
	// The no-op update makes RETURNING yield the existing row on conflict.
	const q = `
		INSERT INTO trip_shares (trip_id, public_id)
		VALUES (@trip_id, @public_id)
		ON CONFLICT (trip_id) DO UPDATE SET trip_id = EXCLUDED.trip_id
		RETURNING ` + shareColumns

	result, err := scanShare(r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID, "public_id": publicID}))
	if err != nil {
		return domain.TripShare{}, fmt.Errorf("repo.ShareRepo.Create: %w", mapErr(err))
	}
	return result, nil
}

func (r *pgShareRepo) GetByTrip(ctx context.Context, tripID uuid.UUID) (domain.TripShare, error) {
	const q = `SELECT ` + shareColumns + ` FROM trip_shares WHERE trip_id = @trip_id`

	result, err := scanShare(r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID}))
	if err != nil {
		return domain.TripShare{}, fmt.Errorf("repo.ShareRepo.GetByTrip: %w", mapErr(err))
	}
	return result, nil
}

func (r *pgShareRepo) GetByPublicID(ctx context.Context, publicID string) (domain.TripShare, error) {
	const q = `SELECT ` + shareColumns + ` FROM trip_shares WHERE public_id = @public_id`

	result, err := scanShare(r.db.QueryRow(ctx, q, pgx.NamedArgs{"public_id": publicID}))
	if err != nil {
		return domain.TripShare{}, fmt.Errorf("repo.ShareRepo.GetByPublicID: %w", mapErr(err))
	}
	return result, nil
}

func (r *pgShareRepo) DeleteByTrip(ctx context.Context, tripID uuid.UUID) error {
	const q = `DELETE FROM trip_shares WHERE trip_id = @trip_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return fmt.Errorf("repo.ShareRepo.DeleteByTrip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ShareRepo.DeleteByTrip: %w", domain.ErrNotFound)
	}
	return nil
}

func scanShare(s scanner) (domain.TripShare, error) {
	var (
		sh         domain.TripShare
		id, tripID pgtype.UUID
	)
	if err := s.Scan(&id, &tripID, &sh.PublicID, &sh.CreatedAt); err != nil {
		return domain.TripShare{}, err
	}
	sh.ID = uuid.UUID(id.Bytes)
	sh.TripID = uuid.UUID(tripID.Bytes)
	return sh, nil
}
