package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tripcraft/tripcraft/internal/domain"
)

// CollaboratorRepo persists the non-owner users who can access a trip.
type CollaboratorRepo interface {
	// Add grants access. Returns domain.ErrConflict if the user is already a collaborator.
	Add(ctx context.Context, c domain.Collaborator) (domain.Collaborator, error)
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Collaborator, error)
	UpdateRole(ctx context.Context, tripID, userID uuid.UUID, role domain.Role) (domain.Collaborator, error)
	Remove(ctx context.Context, tripID, userID uuid.UUID) error
}

type pgCollaboratorRepo struct {
	db db
}

// NewCollaboratorRepo constructs a CollaboratorRepo backed by the provided db connection.
func NewCollaboratorRepo(db db) CollaboratorRepo {
	return &pgCollaboratorRepo{db: db}
}

const collaboratorColumns = `id, trip_id, user_id, role, created_at`

func (r *pgCollaboratorRepo) Add(ctx context.Context, c domain.Collaborator) (domain.Collaborator, error) {
	const q = `
		INSERT INTO collaborators (trip_id, user_id, role)
		VALUES (@trip_id, @user_id, @role)
		RETURNING ` + collaboratorColumns

	args := pgx.NamedArgs{"trip_id": c.TripID, "user_id": c.UserID, "role": string(c.Role)}
	result, err := scanCollaborator(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Collaborator{}, fmt.Errorf("repo.CollaboratorRepo.Add: %w", mapErr(err))
	}
	return result, nil
}

func (r *pgCollaboratorRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Collaborator, error) {
	const q = `SELECT ` + collaboratorColumns + ` FROM collaborators WHERE trip_id = @trip_id ORDER BY created_at`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.CollaboratorRepo.ListByTrip: %w", err)
	}
	out, err := collect(rows, scanCollaborator)
	if err != nil {
		return nil, fmt.Errorf("repo.CollaboratorRepo.ListByTrip: %w", err)
	}
	return out, nil
}

func (r *pgCollaboratorRepo) UpdateRole(ctx context.Context, tripID, userID uuid.UUID, role domain.Role) (domain.Collaborator, error) {
	const q = `
		UPDATE collaborators SET role = @role
		WHERE trip_id = @trip_id AND user_id = @user_id
		RETURNING ` + collaboratorColumns

	args := pgx.NamedArgs{"trip_id": tripID, "user_id": userID, "role": string(role)}
	result, err := scanCollaborator(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Collaborator{}, fmt.Errorf("repo.CollaboratorRepo.UpdateRole: %w", mapErr(err))
	}
	return result, nil
}

func (r *pgCollaboratorRepo) Remove(ctx context.Context, tripID, userID uuid.UUID) error {
	const q = `DELETE FROM collaborators WHERE trip_id = @trip_id AND user_id = @user_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("repo.CollaboratorRepo.Remove: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.CollaboratorRepo.Remove: %w", domain.ErrNotFound)
	}
	return nil
}

func scanCollaborator(s scanner) (domain.Collaborator, error) {
	var (
		c                  domain.Collaborator
		id, tripID, userID pgtype.UUID
		role               string
	)
	if err := s.Scan(&id, &tripID, &userID, &role, &c.CreatedAt); err != nil {
		return domain.Collaborator{}, err
	}
	c.ID = uuid.UUID(id.Bytes)
	c.TripID = uuid.UUID(tripID.Bytes)
	c.UserID = uuid.UUID(userID.Bytes)
	c.Role = domain.Role(role)
	return c, nil
}
