package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is a caller's level of access to a trip.
type Role string

const (
	RoleViewer Role = "viewer"
	RoleEditor Role = "editor"
	RoleOwner  Role = "owner"
)

// rank orders roles so that a higher role satisfies a lower requirement.
func (r Role) rank() int {
	switch r {
	case RoleViewer:
		return 1
	case RoleEditor:
		return 2
	case RoleOwner:
		return 3
	}
	return 0
}

// Allows reports whether r is at least min.
func (r Role) Allows(min Role) bool {
	return r.rank() >= min.rank() && r.rank() > 0
}

// ValidCollaboratorRole reports whether r can be granted to a collaborator.
// Ownership is not transferable.
func (r Role) ValidCollaboratorRole() bool {
	return r == RoleViewer || r == RoleEditor
}

// Collaborator grants a non-owner user access to a trip.
type Collaborator struct {
	ID        uuid.UUID
	TripID    uuid.UUID
	UserID    uuid.UUID
	Role      Role
	CreatedAt time.Time
}
