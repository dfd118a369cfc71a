package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tripcraft/tripcraft/internal/domain"
)

type CollaboratorRequest struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
}

type RoleRequest struct {
	Role string `json:"role"`
}

type Collaborator struct {
	TripID    uuid.UUID `json:"trip_id"`
	UserID    uuid.UUID `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ListCollaborators handles GET /trips/{tripId}/collaborators.
func (s *Server) ListCollaborators(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	cs, err := s.access.ListCollaborators(r.Context(), tripID)
	if err != nil {
		s.serviceError(w, r, err, "trip")
		return
	}
	out := make([]Collaborator, len(cs))
	for i, c := range cs {
		out[i] = collaboratorToResponse(c)
	}
	writeJSON(w, http.StatusOK, out)
}

// AddCollaborator handles POST /trips/{tripId}/collaborators.
func (s *Server) AddCollaborator(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	var body CollaboratorRequest
	if !decodeBody(w, r, &body) {
		return
	}
	c, err := s.access.AddCollaborator(r.Context(), domain.Collaborator{
		TripID: tripID,
		UserID: body.UserID,
		Role:   domain.Role(body.Role),
	})
	if err != nil {
		s.serviceError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusCreated, collaboratorToResponse(c))
}

// UpdateCollaborator handles PUT /trips/{tripId}/collaborators/{userId}.
func (s *Server) UpdateCollaborator(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	userID, ok := pathUUID(w, r, "userId")
	if !ok {
		return
	}
	var body RoleRequest
	if !decodeBody(w, r, &body) {
		return
	}
	c, err := s.access.UpdateCollaborator(r.Context(), tripID, userID, domain.Role(body.Role))
	if err != nil {
		s.serviceError(w, r, err, "collaborator")
		return
	}
	writeJSON(w, http.StatusOK, collaboratorToResponse(c))
}

// RemoveCollaborator handles DELETE /trips/{tripId}/collaborators/{userId}.
func (s *Server) RemoveCollaborator(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	userID, ok := pathUUID(w, r, "userId")
	if !ok {
		return
	}
	if err := s.access.RemoveCollaborator(r.Context(), tripID, userID); err != nil {
		s.serviceError(w, r, err, "collaborator")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func collaboratorToResponse(c domain.Collaborator) Collaborator {
	return Collaborator{TripID: c.TripID, UserID: c.UserID, Role: string(c.Role), CreatedAt: c.CreatedAt}
}
