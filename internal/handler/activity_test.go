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
	"github.com/tripcraft/tripcraft/internal/generator"
	"github.com/tripcraft/tripcraft/internal/handler"
)

func TestGetItinerary_200_DaysWithActivities(t *testing.T) {
	tripID := uuid.New()
	dayID := uuid.New()
	svc := &mockItineraryServicer{
		itinerary: func(context.Context, uuid.UUID) ([]domain.TripDay, error) {
			return []domain.TripDay{
				{ID: dayID, TripID: tripID, DayNumber: 1, Date: date(2024, 6, 1), Title: "Arrival",
					Activities: []domain.Activity{{ID: uuid.New(), TripDayID: dayID, Title: "Colosseum", Importance: domain.ImportanceHigh}}},
				{ID: uuid.New(), TripID: tripID, DayNumber: 2, Date: date(2024, 6, 2), Title: "Rest"},
			}, nil
		},
	}

	rec := serve(t, newHTTPHandler(handler.Deps{Itinerary: svc}), uuid.New(), http.MethodGet, "/trips/"+tripID.String()+"/itinerary", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	days := decode[[]handler.ItineraryDay](t, rec)
	require.Len(t, days, 2)
	assert.Equal(t, "Colosseum", days[0].Activities[0].Title)
	assert.Equal(t, 1, days[0].DayNumber)
	assert.NotNil(t, days[1].Activities)
	assert.Empty(t, days[1].Activities)
}

func TestGenerateItinerary_PassesReplaceFlag(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"", false},
		{"?replace=false", false},
		{"?replace=true", true},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var got bool
			svc := &mockItineraryServicer{
				generate: func(_ context.Context, _ uuid.UUID, replace bool) ([]domain.TripDay, error) {
					got = replace
					return []domain.TripDay{}, nil
				},
			}
			rec := serve(t, newHTTPHandler(handler.Deps{Itinerary: svc}), uuid.New(), http.MethodPost,
				"/trips/"+uuid.NewString()+"/itinerary/generate"+tt.query, nil)

			require.Equal(t, http.StatusCreated, rec.Code)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateItinerary_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"existing itinerary", fmt.Errorf("service.ItineraryService.ApplyGenerated: %w: trip already has an itinerary", domain.ErrConflict), http.StatusConflict, "conflict"},
		{"too long", &generator.InputError{Field: "endDate", Message: "trips longer than 60 days cannot be generated"}, http.StatusUnprocessableEntity, "validation_error"},
		{"bad model output", &generator.ValidationError{Problems: []string{"Expected 5 days but got 4"}}, http.StatusBadGateway, "generation_failed"},
		{"unparseable", &generator.ParseError{Raw: "sorry"}, http.StatusBadGateway, "generation_failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockItineraryServicer{
				generate: func(context.Context, uuid.UUID, bool) ([]domain.TripDay, error) { return nil, tt.err },
			}
			rec := serve(t, newHTTPHandler(handler.Deps{Itinerary: svc}), uuid.New(), http.MethodPost,
				"/trips/"+uuid.NewString()+"/itinerary/generate", nil)

			assert.Equal(t, tt.status, rec.Code)
			resp := decode[handler.ErrorResponse](t, rec)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestCreateActivity_201_UsesPathDay(t *testing.T) {
	tripID, dayID := uuid.New(), uuid.New()
	svc := &mockItineraryServicer{
		createActivity: func(_ context.Context, gotTrip uuid.UUID, a domain.Activity) (domain.Activity, error) {
			assert.Equal(t, tripID, gotTrip)
			assert.Equal(t, dayID, a.TripDayID)
			require.NotNil(t, a.StartTime)
			assert.Equal(t, "09:00", *a.StartTime)
			assert.Nil(t, a.EndTime)
			a.ID = uuid.New()
			a.OrderIndex = 2048
			return a, nil
		},
	}

	rec := serve(t, newHTTPHandler(handler.Deps{Itinerary: svc}), uuid.New(), http.MethodPost,
		"/trips/"+tripID.String()+"/days/"+dayID.String()+"/activities",
		map[string]any{"title": "Pantheon", "start_time": "09:00", "category": "Culture", "budget_estimate": 0})

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decode[handler.Activity](t, rec)
	assert.Equal(t, "Pantheon", resp.Title)
	assert.InDelta(t, 2048, resp.OrderIndex, 0)
}

func TestUpdateActivity_422(t *testing.T) {
	svc := &mockItineraryServicer{
		updateActivity: func(context.Context, uuid.UUID, domain.Activity) (domain.Activity, error) {
			return domain.Activity{}, fmt.Errorf("%w: start_time must be HH:MM", domain.ErrValidation)
		},
	}

	rec := serve(t, newHTTPHandler(handler.Deps{Itinerary: svc}), uuid.New(), http.MethodPut,
		"/trips/"+uuid.NewString()+"/activities/"+uuid.NewString(),
		map[string]any{"title": "x", "start_time": "9am", "importance": "low"})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decode[handler.ErrorResponse](t, rec)
	assert.Equal(t, "start_time must be HH:MM", resp.Error.Message)
}

func TestDeleteActivity_204(t *testing.T) {
	activityID := uuid.New()
	svc := &mockItineraryServicer{
		deleteActivity: func(_ context.Context, _ uuid.UUID, id uuid.UUID) error {
			assert.Equal(t, activityID, id)
			return nil
		},
	}

	rec := serve(t, newHTTPHandler(handler.Deps{Itinerary: svc}), uuid.New(), http.MethodDelete,
		"/trips/"+uuid.NewString()+"/activities/"+activityID.String(), nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestMoveActivity(t *testing.T) {
	activityID := uuid.New()
	svc := &mockItineraryServicer{
		move: func(_ context.Context, _ uuid.UUID, id uuid.UUID, position int) (domain.Activity, error) {
			return domain.Activity{ID: id, Title: "Moved", OrderIndex: float64(position) * 512}, nil
		},
	}
	h := newHTTPHandler(handler.Deps{Itinerary: svc})
	path := "/trips/" + uuid.NewString() + "/activities/" + activityID.String() + "/move"

	t.Run("ok", func(t *testing.T) {
		rec := serve(t, h, uuid.New(), http.MethodPost, path, map[string]any{"position": 3})
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decode[handler.Activity](t, rec)
		assert.Equal(t, activityID, resp.ID)
		assert.InDelta(t, 1536, resp.OrderIndex, 0)
	})
	t.Run("missing position", func(t *testing.T) {
		rec := serve(t, h, uuid.New(), http.MethodPost, path, map[string]any{})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
	t.Run("negative position", func(t *testing.T) {
		rec := serve(t, h, uuid.New(), http.MethodPost, path, map[string]any{"position": -1})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}
