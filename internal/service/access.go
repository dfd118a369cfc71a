package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tripcraft/tripcraft/internal/domain"
	"github.com/tripcraft/tripcraft/internal/realtime"
	"github.com/tripcraft/tripcraft/internal/repo"
)

// AccessService decides who may do what to a trip and manages collaborators.
type AccessService struct {
	trips         repo.TripRepo
	collaborators repo.CollaboratorRepo
	events        Publisher
}

// NewAccessService constructs an AccessService.
func NewAccessService(trips repo.TripRepo, collaborators repo.CollaboratorRepo, events Publisher) *AccessService {
	return &AccessService{trips: trips, collaborators: collaborators, events: orNop(events)}
}

// Role returns userID's role on the trip. A user with no access gets
// domain.ErrForbidden; a missing trip is domain.ErrNotFound.
func (s *AccessService) Role(ctx context.Context, tripID, userID uuid.UUID) (domain.Role, error) {
	role, err := s.trips.RoleOf(ctx, tripID, userID)
	if err != nil {
		return "", fmt.Errorf("service.AccessService.Role: %w", err)
	}
	if role == "" {
		return "", fmt.Errorf("service.AccessService.Role: %w", domain.ErrForbidden)
	}
	return role, nil
}

// Require fails with domain.ErrForbidden unless userID holds at least minRole.
func (s *AccessService) Require(ctx context.Context, tripID, userID uuid.UUID, minRole domain.Role) (domain.Role, error) {
	role, err := s.Role(ctx, tripID, userID)
	if err != nil {
		return "", err
	}
	if !role.Allows(minRole) {
		return role, fmt.Errorf("%w: %s access required", domain.ErrForbidden, minRole)
	}
	return role, nil
}

// ListCollaborators returns the trip's collaborators.
func (s *AccessService) ListCollaborators(ctx context.Context, tripID uuid.UUID) ([]domain.Collaborator, error) {
	out, err := s.collaborators.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.AccessService.ListCollaborators: %w", err)
	}
	if out == nil {
		out = []domain.Collaborator{}
	}
	return out, nil
}

// AddCollaborator grants a user viewer or editor access. The owner cannot be
// added and a user already on the trip is a domain.ErrConflict.
func (s *AccessService) AddCollaborator(ctx context.Context, c domain.Collaborator) (domain.Collaborator, error) {
	if c.UserID == uuid.Nil {
		return domain.Collaborator{}, fmt.Errorf("%w: user_id is required", domain.ErrValidation)
	}
	if !c.Role.ValidCollaboratorRole() {
		return domain.Collaborator{}, fmt.Errorf("%w: role must be viewer or editor", domain.ErrValidation)
	}
	trip, err := s.trips.GetByID(ctx, c.TripID)
	if err != nil {
		return domain.Collaborator{}, fmt.Errorf("service.AccessService.AddCollaborator: %w", err)
	}
	if trip.OwnerID == c.UserID {
		return domain.Collaborator{}, fmt.Errorf("%w: the owner already has full access", domain.ErrConflict)
	}
	result, err := s.collaborators.Add(ctx, c)
	if err != nil {
		return domain.Collaborator{}, fmt.Errorf("service.AccessService.AddCollaborator: %w", err)
	}
	changed(s.events, realtime.TableCollaborators, realtime.OpInsert, c.TripID, result.ID)
	return result, nil
}

// UpdateCollaborator changes a collaborator's role.
func (s *AccessService) UpdateCollaborator(ctx context.Context, tripID, userID uuid.UUID, role domain.Role) (domain.Collaborator, error) {
	if !role.ValidCollaboratorRole() {
		return domain.Collaborator{}, fmt.Errorf("%w: role must be viewer or editor", domain.ErrValidation)
	}
	result, err := s.collaborators.UpdateRole(ctx, tripID, userID, role)
	if err != nil {
		return domain.Collaborator{}, fmt.Errorf("service.AccessService.UpdateCollaborator: %w", err)
	}
	changed(s.events, realtime.TableCollaborators, realtime.OpUpdate, tripID, result.ID)
	return result, nil
}

// RemoveCollaborator revokes a user's access.
func (s *AccessService) RemoveCollaborator(ctx context.Context, tripID, userID uuid.UUID) error {
	if err := s.collaborators.Remove(ctx, tripID, userID); err != nil {
		return fmt.Errorf("service.AccessService.RemoveCollaborator: %w", err)
	}
	changed(s.events, realtime.TableCollaborators, realtime.OpDelete, tripID, userID)
	return nil
}
