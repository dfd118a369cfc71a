package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tripcraft/tripcraft/internal/domain"
)

type ActivityRequest struct {
	Title           string  `json:"title"`
	StartTime       *string `json:"start_time"`
	EndTime         *string `json:"end_time"`
	Category        string  `json:"category"`
	Location        string  `json:"location"`
	Notes           string  `json:"notes"`
	BudgetEstimate  float64 `json:"budget_estimate"`
	BookingRequired bool    `json:"booking_required"`
	Importance      string  `json:"importance"`
}

type Activity struct {
	ID              uuid.UUID `json:"id"`
	TripDayID       uuid.UUID `json:"trip_day_id"`
	Title           string    `json:"title"`
	StartTime       *string   `json:"start_time"`
	EndTime         *string   `json:"end_time"`
	Category        string    `json:"category"`
	Location        string    `json:"location"`
	Notes           string    `json:"notes"`
	BudgetEstimate  float64   `json:"budget_estimate"`
	BookingRequired bool      `json:"booking_required"`
	Importance      string    `json:"importance"`
	OrderIndex      float64   `json:"order_index"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// MoveRequest is the body of POST /trips/{tripId}/activities/{activityId}/move.
// Position is the 0-based slot among the day's other activities.
type MoveRequest struct {
	Position *int `json:"position"`
}

// GetItinerary handles GET /trips/{tripId}/itinerary.
func (s *Server) GetItinerary(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	days, err := s.itinerary.Itinerary(r.Context(), tripID)
	if err != nil {
		s.serviceError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, itineraryToResponse(days))
}

// GenerateItinerary handles POST /trips/{tripId}/itinerary/generate.
// ?replace=true discards an existing itinerary; otherwise one is a 409.
func (s *Server) GenerateItinerary(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	var replace *bool
	if !queryParam(w, r, "replace", &replace) {
		return
	}
	days, err := s.itinerary.Generate(r.Context(), tripID, replace != nil && *replace)
	if err != nil {
		s.serviceError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusCreated, itineraryToResponse(days))
}

// ListActivities handles GET /trips/{tripId}/days/{dayId}/activities.
func (s *Server) ListActivities(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	dayID, ok := pathUUID(w, r, "dayId")
	if !ok {
		return
	}
	acts, err := s.itinerary.ListActivities(r.Context(), tripID, dayID)
	if err != nil {
		s.serviceError(w, r, err, "day")
		return
	}
	writeJSON(w, http.StatusOK, activitiesToResponse(acts))
}

// CreateActivity handles POST /trips/{tripId}/days/{dayId}/activities.
// The activity is appended to the end of the day.
func (s *Server) CreateActivity(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	dayID, ok := pathUUID(w, r, "dayId")
	if !ok {
		return
	}
	var body ActivityRequest
	if !decodeBody(w, r, &body) {
		return
	}
	a := requestToActivity(body)
	a.TripDayID = dayID

	created, err := s.itinerary.CreateActivity(r.Context(), tripID, a)
	if err != nil {
		s.serviceError(w, r, err, "day")
		return
	}
	writeJSON(w, http.StatusCreated, activityToResponse(created))
}

// UpdateActivity handles PUT /trips/{tripId}/activities/{activityId}.
func (s *Server) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	activityID, ok := pathUUID(w, r, "activityId")
	if !ok {
		return
	}
	var body ActivityRequest
	if !decodeBody(w, r, &body) {
		return
	}
	a := requestToActivity(body)
	a.ID = activityID

	updated, err := s.itinerary.UpdateActivity(r.Context(), tripID, a)
	if err != nil {
		s.serviceError(w, r, err, "activity")
		return
	}
	writeJSON(w, http.StatusOK, activityToResponse(updated))
}

// DeleteActivity handles DELETE /trips/{tripId}/activities/{activityId}.
func (s *Server) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	activityID, ok := pathUUID(w, r, "activityId")
	if !ok {
		return
	}
	if err := s.itinerary.DeleteActivity(r.Context(), tripID, activityID); err != nil {
		s.serviceError(w, r, err, "activity")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MoveActivity handles POST /trips/{tripId}/activities/{activityId}/move.
func (s *Server) MoveActivity(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	activityID, ok := pathUUID(w, r, "activityId")
	if !ok {
		return
	}
	var body MoveRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Position == nil || *body.Position < 0 {
		requestError(w, "position must be a non-negative integer")
		return
	}
	moved, err := s.itinerary.Move(r.Context(), tripID, activityID, *body.Position)
	if err != nil {
		s.serviceError(w, r, err, "activity")
		return
	}
	writeJSON(w, http.StatusOK, activityToResponse(moved))
}

// --- mapping helpers --------------------------------------------------------

func requestToActivity(body ActivityRequest) domain.Activity {
	return domain.Activity{
		Title:           body.Title,
		StartTime:       body.StartTime,
		EndTime:         body.EndTime,
		Category:        body.Category,
		Location:        body.Location,
		Notes:           body.Notes,
		BudgetEstimate:  body.BudgetEstimate,
		BookingRequired: body.BookingRequired,
		Importance:      domain.Importance(body.Importance),
	}
}

func activityToResponse(a domain.Activity) Activity {
	return Activity{
		ID:              a.ID,
		TripDayID:       a.TripDayID,
		Title:           a.Title,
		StartTime:       a.StartTime,
		EndTime:         a.EndTime,
		Category:        a.Category,
		Location:        a.Location,
		Notes:           a.Notes,
		BudgetEstimate:  a.BudgetEstimate,
		BookingRequired: a.BookingRequired,
		Importance:      string(a.Importance),
		OrderIndex:      a.OrderIndex,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func activitiesToResponse(acts []domain.Activity) []Activity {
	out := make([]Activity, len(acts))
	for i, a := range acts {
		out[i] = activityToResponse(a)
	}
	return out
}
