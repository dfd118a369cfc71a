package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tripcraft/tripcraft/internal/domain"
)

// Share is a trip's public link. URL is the public read-only view.
type Share struct {
	TripID    uuid.UUID `json:"trip_id"`
	PublicID  string    `json:"public_id"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// SharedTrip is the body of GET /share/{publicId}.
type SharedTrip struct {
	Trip    Trip            `json:"trip"`
	Days    []ItineraryDay  `json:"days"`
	Packing PackingProgress `json:"packing"`
	Budget  BudgetSummary   `json:"budget"`
}

// CreateShare handles POST /trips/{tripId}/share. Sharing an already shared
// trip returns the existing link.
func (s *Server) CreateShare(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	share, err := s.shares.Create(r.Context(), tripID)
	if err != nil {
		s.serviceError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, s.shareToResponse(share))
}

// GetShare handles GET /trips/{tripId}/share.
func (s *Server) GetShare(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	share, err := s.shares.Get(r.Context(), tripID)
	if err != nil {
		s.serviceError(w, r, err, "share")
		return
	}
	writeJSON(w, http.StatusOK, s.shareToResponse(share))
}

// RevokeShare handles DELETE /trips/{tripId}/share.
func (s *Server) RevokeShare(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	if err := s.shares.Revoke(r.Context(), tripID); err != nil {
		s.serviceError(w, r, err, "share")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSharedTrip handles GET /share/{publicId}. No authentication.
func (s *Server) GetSharedTrip(w http.ResponseWriter, r *http.Request) {
	view, err := s.shares.PublicView(r.Context(), chi.URLParam(r, "publicId"))
	if err != nil {
		s.serviceError(w, r, err, "shared trip")
		return
	}
	writeJSON(w, http.StatusOK, SharedTrip{
		Trip:    tripToResponse(view.Trip),
		Days:    itineraryToResponse(view.Days),
		Packing: progressToResponse(view.Packing),
		Budget:  budgetToResponse(view.Budget),
	})
}

func (s *Server) shareToResponse(sh domain.TripShare) Share {
	return Share{
		TripID:    sh.TripID,
		PublicID:  sh.PublicID,
		URL:       s.baseURL + "/share/" + sh.PublicID,
		CreatedAt: sh.CreatedAt,
	}
}
