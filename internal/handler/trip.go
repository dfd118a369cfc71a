package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/tripcraft/tripcraft/internal/domain"
)

// TripRequest is the body of POST /trips and PUT /trips/{tripId}.
type TripRequest struct {
	Title        string             `json:"title"`
	Destination  string             `json:"destination"`
	StartDate    openapi_types.Date `json:"start_date"`
	EndDate      openapi_types.Date `json:"end_date"`
	TripType     string             `json:"trip_type"`
	Vibe         string             `json:"vibe"`
	Interests    []string           `json:"interests"`
	NumTravelers *int               `json:"num_travelers,omitempty"`
	Notes        string             `json:"notes"`
}

type Trip struct {
	ID           uuid.UUID          `json:"id"`
	OwnerID      uuid.UUID          `json:"owner_id"`
	Title        string             `json:"title"`
	Destination  string             `json:"destination"`
	StartDate    openapi_types.Date `json:"start_date"`
	EndDate      openapi_types.Date `json:"end_date"`
	TripType     string             `json:"trip_type"`
	Vibe         string             `json:"vibe"`
	Interests    []string           `json:"interests"`
	NumTravelers int                `json:"num_travelers"`
	Notes        string             `json:"notes,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

type TripList struct {
	Data       []Trip     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

type DayRequest struct {
	DayNumber int                `json:"day_number"`
	Date      openapi_types.Date `json:"date"`
	Title     string             `json:"title"`
}

type Day struct {
	ID        uuid.UUID          `json:"id"`
	TripID    uuid.UUID          `json:"trip_id"`
	DayNumber int                `json:"day_number"`
	Date      openapi_types.Date `json:"date"`
	Title     string             `json:"title"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// ItineraryDay is a day together with its ordered activities.
type ItineraryDay struct {
	Day
	Activities []Activity `json:"activities"`
}

// CreateTrip handles POST /trips. The caller becomes the owner.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var body TripRequest
	if !decodeBody(w, r, &body) {
		return
	}
	trip := requestToTrip(body)
	trip.OwnerID = currentUser(r)

	created, err := s.trips.Create(r.Context(), trip)
	if err != nil {
		s.serviceError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// ListTrips handles GET /trips: trips the caller owns or collaborates on.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	var page, limit *int
	if !queryParam(w, r, "page", &page) || !queryParam(w, r, "limit", &limit) {
		return
	}
	params := domain.NewPaginationParams(page, limit)
	trips, total, err := s.trips.List(r.Context(), currentUser(r), params)
	if err != nil {
		s.serviceError(w, r, err, "trip")
		return
	}

	data := make([]Trip, len(trips))
	for i, t := range trips {
		data[i] = tripToResponse(t)
	}
	writeJSON(w, http.StatusOK, TripList{
		Data:       data,
		Pagination: Pagination{Page: params.Page, Limit: params.Limit, Total: int(total)},
	})
}

// GetTrip handles GET /trips/{tripId}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	trip, err := s.trips.GetByID(r.Context(), tripID)
	if err != nil {
		s.serviceError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// UpdateTrip handles PUT /trips/{tripId}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	var body TripRequest
	if !decodeBody(w, r, &body) {
		return
	}
	trip := requestToTrip(body)
	trip.ID = tripID

	updated, err := s.trips.Update(r.Context(), trip)
	if err != nil {
		s.serviceError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(updated))
}

// DeleteTrip handles DELETE /trips/{tripId}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	if err := s.trips.Delete(r.Context(), tripID); err != nil {
		s.serviceError(w, r, err, "trip")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListDays handles GET /trips/{tripId}/days.
func (s *Server) ListDays(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	days, err := s.trips.ListDays(r.Context(), tripID)
	if err != nil {
		s.serviceError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, daysToResponse(days))
}

// CreateDay handles POST /trips/{tripId}/days.
func (s *Server) CreateDay(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	var body DayRequest
	if !decodeBody(w, r, &body) {
		return
	}
	day, err := s.trips.CreateDay(r.Context(), domain.TripDay{
		TripID:    tripID,
		DayNumber: body.DayNumber,
		Date:      body.Date.Time,
		Title:     body.Title,
	})
	if err != nil {
		s.serviceError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusCreated, dayToResponse(day))
}

// UpdateDay handles PUT /trips/{tripId}/days/{dayId}.
func (s *Server) UpdateDay(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	dayID, ok := pathUUID(w, r, "dayId")
	if !ok {
		return
	}
	var body DayRequest
	if !decodeBody(w, r, &body) {
		return
	}
	day, err := s.trips.UpdateDay(r.Context(), domain.TripDay{
		ID:        dayID,
		TripID:    tripID,
		DayNumber: body.DayNumber,
		Date:      body.Date.Time,
		Title:     body.Title,
	})
	if err != nil {
		s.serviceError(w, r, err, "day")
		return
	}
	writeJSON(w, http.StatusOK, dayToResponse(day))
}

// DeleteDay handles DELETE /trips/{tripId}/days/{dayId}.
func (s *Server) DeleteDay(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	dayID, ok := pathUUID(w, r, "dayId")
	if !ok {
		return
	}
	if err := s.trips.DeleteDay(r.Context(), tripID, dayID); err != nil {
		s.serviceError(w, r, err, "day")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

// requestToTrip converts a request body into a domain.Trip. Travelers default
// to one when omitted.
func requestToTrip(body TripRequest) domain.Trip {
	travelers := 1
	if body.NumTravelers != nil {
		travelers = *body.NumTravelers
	}
	return domain.Trip{
		Title:        body.Title,
		Destination:  body.Destination,
		StartDate:    body.StartDate.Time,
		EndDate:      body.EndDate.Time,
		TripType:     domain.TripType(body.TripType),
		Vibe:         domain.Vibe(body.Vibe),
		Interests:    body.Interests,
		NumTravelers: travelers,
		Notes:        body.Notes,
	}
}

func tripToResponse(t domain.Trip) Trip {
	interests := t.Interests
	if interests == nil {
		interests = []string{}
	}
	return Trip{
		ID:           t.ID,
		OwnerID:      t.OwnerID,
		Title:        t.Title,
		Destination:  t.Destination,
		StartDate:    openapi_types.Date{Time: t.StartDate},
		EndDate:      openapi_types.Date{Time: t.EndDate},
		TripType:     string(t.TripType),
		Vibe:         string(t.Vibe),
		Interests:    interests,
		NumTravelers: t.NumTravelers,
		Notes:        t.Notes,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func dayToResponse(d domain.TripDay) Day {
	return Day{
		ID:        d.ID,
		TripID:    d.TripID,
		DayNumber: d.DayNumber,
		Date:      openapi_types.Date{Time: d.Date},
		Title:     d.Title,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func itineraryToResponse(days []domain.TripDay) []ItineraryDay {
	out := make([]ItineraryDay, len(days))
	for i, d := range days {
		out[i] = ItineraryDay{Day: dayToResponse(d), Activities: activitiesToResponse(d.Activities)}
	}
	return out
}

func daysToResponse(days []domain.TripDay) []Day {
	out := make([]Day, len(days))
	for i, d := range days {
		out[i] = dayToResponse(d)
	}
	return out
}
