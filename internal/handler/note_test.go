package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripcraft/tripcraft/internal/domain"
	"github.com/tripcraft/tripcraft/internal/handler"
	"github.com/tripcraft/tripcraft/internal/service"
)

func TestPutNote_UpsertsDay(t *testing.T) {
	tripID := uuid.New()
	svc := &mockNoteServicer{
		upsert: func(_ context.Context, id uuid.UUID, day int, text string) (service.RenderedNote, error) {
			assert.Equal(t, tripID, id)
			assert.Equal(t, 3, day)
			return service.RenderedNote{
				Note: domain.Note{ID: uuid.New(), TripID: id, DayNumber: day, Text: text},
				HTML: "<p><strong>Gelato</strong></p>\n",
			}, nil
		},
	}

	rec := serve(t, newHTTPHandler(handler.Deps{Notes: svc}), uuid.New(), http.MethodPut,
		"/trips/"+tripID.String()+"/notes/3", map[string]any{"text": "**Gelato**"})

	require.Equal(t, http.StatusOK, rec.Code)
	n := decode[handler.Note](t, rec)
	assert.Equal(t, 3, n.DayNumber)
	assert.Equal(t, "**Gelato**", n.Text)
	assert.Contains(t, n.HTML, "<strong>Gelato</strong>")
}

func TestGetNote(t *testing.T) {
	svc := &mockNoteServicer{
		getByDay: func(context.Context, uuid.UUID, int) (service.RenderedNote, error) {
			return service.RenderedNote{}, fmt.Errorf("service.NoteService.GetByDay: %w", domain.ErrNotFound)
		},
	}
	h := newHTTPHandler(handler.Deps{Notes: svc})

	t.Run("missing", func(t *testing.T) {
		rec := serve(t, h, uuid.New(), http.MethodGet, "/trips/"+uuid.NewString()+"/notes/2", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "note not found", decode[handler.ErrorResponse](t, rec).Error.Message)
	})
	t.Run("non-numeric day", func(t *testing.T) {
		rec := serve(t, h, uuid.New(), http.MethodGet, "/trips/"+uuid.NewString()+"/notes/two", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSummarizeNote(t *testing.T) {
	svc := &mockNoteServicer{
		summarize: func(_ context.Context, _ uuid.UUID, day int) (service.RenderedNote, error) {
			return service.RenderedNote{Note: domain.Note{DayNumber: day, Text: "Long day.", AISummary: "Short."}}, nil
		},
	}

	rec := serve(t, newHTTPHandler(handler.Deps{Notes: svc}), uuid.New(), http.MethodPost,
		"/trips/"+uuid.NewString()+"/notes/1/summary", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Short.", decode[handler.Note](t, rec).AISummary)
}

func TestListNotes(t *testing.T) {
	svc := &mockNoteServicer{
		list: func(context.Context, uuid.UUID) ([]service.RenderedNote, error) {
			return []service.RenderedNote{{Note: domain.Note{DayNumber: 1}}, {Note: domain.Note{DayNumber: 2}}}, nil
		},
	}

	rec := serve(t, newHTTPHandler(handler.Deps{Notes: svc}), uuid.New(), http.MethodGet,
		"/trips/"+uuid.NewString()+"/notes", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]handler.Note](t, rec), 2)
}
