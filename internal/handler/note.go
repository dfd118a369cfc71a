package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tripcraft/tripcraft/internal/service"
)

type NoteRequest struct {
	Text string `json:"text"`
}

// Note is a day note. HTML is the rendered Markdown of Text.
type Note struct {
	ID        uuid.UUID `json:"id"`
	TripID    uuid.UUID `json:"trip_id"`
	DayNumber int       `json:"day_number"`
	Text      string    `json:"text"`
	HTML      string    `json:"html"`
	AISummary string    `json:"ai_summary,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListNotes handles GET /trips/{tripId}/notes.
func (s *Server) ListNotes(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	notes, err := s.notes.List(r.Context(), tripID)
	if err != nil {
		s.serviceError(w, r, err, "trip")
		return
	}
	out := make([]Note, len(notes))
	for i, n := range notes {
		out[i] = noteToResponse(n)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetNote handles GET /trips/{tripId}/notes/{day}.
func (s *Server) GetNote(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	day, ok := pathInt(w, r, "day")
	if !ok {
		return
	}
	n, err := s.notes.GetByDay(r.Context(), tripID, day)
	if err != nil {
		s.serviceError(w, r, err, "note")
		return
	}
	writeJSON(w, http.StatusOK, noteToResponse(n))
}

// PutNote handles PUT /trips/{tripId}/notes/{day}, creating or replacing
// the day's note.
func (s *Server) PutNote(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	day, ok := pathInt(w, r, "day")
	if !ok {
		return
	}
	var body NoteRequest
	if !decodeBody(w, r, &body) {
		return
	}
	n, err := s.notes.Upsert(r.Context(), tripID, day, body.Text)
	if err != nil {
		s.serviceError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, noteToResponse(n))
}

// SummarizeNote handles POST /trips/{tripId}/notes/{day}/summary and stores
// the summary on the note.
func (s *Server) SummarizeNote(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	day, ok := pathInt(w, r, "day")
	if !ok {
		return
	}
	n, err := s.notes.Summarize(r.Context(), tripID, day)
	if err != nil {
		s.serviceError(w, r, err, "note")
		return
	}
	writeJSON(w, http.StatusOK, noteToResponse(n))
}

func noteToResponse(n service.RenderedNote) Note {
	return Note{
		ID:        n.ID,
		TripID:    n.TripID,
		DayNumber: n.DayNumber,
		Text:      n.Text,
		HTML:      n.HTML,
		AISummary: n.AISummary,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}
