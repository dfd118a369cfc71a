package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/tripcraft/tripcraft/internal/domain"
	"github.com/tripcraft/tripcraft/internal/llm"
	"github.com/tripcraft/tripcraft/internal/realtime"
	"github.com/tripcraft/tripcraft/internal/repo"
)

// RenderedNote is a note together with its text rendered from Markdown.
type RenderedNote struct {
	domain.Note
	HTML string
}

// NoteService implements business logic for per-day trip notes.
type NoteService struct {
	trips      repo.TripRepo
	notes      repo.NoteRepo
	summarizer llm.Summarizer
	md         goldmark.Markdown
	events     Publisher
}

// NewNoteService constructs a NoteService. summarizer produces the stored
// AI summary of a day's note.
func NewNoteService(trips repo.TripRepo, notes repo.NoteRepo, summarizer llm.Summarizer, events Publisher) *NoteService {
	return &NoteService{
		trips:      trips,
		notes:      notes,
		summarizer: summarizer,
		// Raw HTML in note text is escaped, not passed through.
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
		events: orNop(events),
	}
}

// List returns every note of the trip ordered by day number.
func (s *NoteService) List(ctx context.Context, tripID uuid.UUID) ([]RenderedNote, error) {
	notes, err := s.notes.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.NoteService.List: %w", err)
	}
	out := make([]RenderedNote, 0, len(notes))
	for _, n := range notes {
		r, err := s.render(n)
		if err != nil {
			return nil, fmt.Errorf("service.NoteService.List: %w", err)
		}
		out = append(out, r)
	}
	return out, nil
}

// GetByDay returns the note for one day.
func (s *NoteService) GetByDay(ctx context.Context, tripID uuid.UUID, dayNumber int) (RenderedNote, error) {
	n, err := s.notes.GetByDay(ctx, tripID, dayNumber)
	if err != nil {
		return RenderedNote{}, fmt.Errorf("service.NoteService.GetByDay: %w", err)
	}
	r, err := s.render(n)
	if err != nil {
		return RenderedNote{}, fmt.Errorf("service.NoteService.GetByDay: %w", err)
	}
	return r, nil
}

// Upsert writes the text of a day's note, creating it on first write.
func (s *NoteService) Upsert(ctx context.Context, tripID uuid.UUID, dayNumber int, text string) (RenderedNote, error) {
	if dayNumber < 1 {
		return RenderedNote{}, fmt.Errorf("%w: day_number must be at least 1", domain.ErrValidation)
	}
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return RenderedNote{}, fmt.Errorf("service.NoteService.Upsert: %w", err)
	}
	n, err := s.notes.Upsert(ctx, domain.Note{TripID: tripID, DayNumber: dayNumber, Text: text})
	if err != nil {
		return RenderedNote{}, fmt.Errorf("service.NoteService.Upsert: %w", err)
	}
	changed(s.events, realtime.TableNotes, realtime.OpUpdate, tripID, n.ID)
	r, err := s.render(n)
	if err != nil {
		return RenderedNote{}, fmt.Errorf("service.NoteService.Upsert: %w", err)
	}
	return r, nil
}

// Summarize condenses the day's note and stores the result as its AI summary.
// An empty note is a validation error.
func (s *NoteService) Summarize(ctx context.Context, tripID uuid.UUID, dayNumber int) (RenderedNote, error) {
	n, err := s.notes.GetByDay(ctx, tripID, dayNumber)
	if err != nil {
		return RenderedNote{}, fmt.Errorf("service.NoteService.Summarize: %w", err)
	}
	if strings.TrimSpace(n.Text) == "" {
		return RenderedNote{}, fmt.Errorf("%w: note for day %d is empty", domain.ErrValidation, dayNumber)
	}
	summary, err := s.summarizer.Summarize(ctx, n.Text)
	if err != nil {
		return RenderedNote{}, fmt.Errorf("service.NoteService.Summarize: %w", err)
	}
	n, err = s.notes.SetSummary(ctx, tripID, dayNumber, summary)
	if err != nil {
		return RenderedNote{}, fmt.Errorf("service.NoteService.Summarize: %w", err)
	}
	changed(s.events, realtime.TableNotes, realtime.OpUpdate, tripID, n.ID)
	r, err := s.render(n)
	if err != nil {
		return RenderedNote{}, fmt.Errorf("service.NoteService.Summarize: %w", err)
	}
	return r, nil
}

func (s *NoteService) render(n domain.Note) (RenderedNote, error) {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(n.Text), &buf); err != nil {
		return RenderedNote{}, fmt.Errorf("render markdown: %w", err)
	}
	return RenderedNote{Note: n, HTML: buf.String()}, nil
}
