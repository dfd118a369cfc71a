package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripcraft/tripcraft/internal/domain"
	"github.com/tripcraft/tripcraft/internal/repo"
	"github.com/tripcraft/tripcraft/internal/service"
)

func TestShareService_Create_Idempotent(t *testing.T) {
	trip := validTrip()
	events := &recorder{}
	var existing *domain.TripShare
	shares := &mockShareRepo{create: func(_ context.Context, tripID uuid.UUID, publicID string) (domain.TripShare, error) {
		if existing == nil {
			existing = &domain.TripShare{ID: uuid.New(), TripID: tripID, PublicID: publicID, CreatedAt: time.Now()}
		}
		return *existing, nil
	}}
	svc := service.NewShareService(repo.Repos{Trips: &mockTripRepo{getByID: tripFound(trip)}, Shares: shares}, events, discardLogger())

	first, err := svc.Create(context.Background(), trip.ID)
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), trip.ID)
	require.NoError(t, err)

	assert.Equal(t, first.PublicID, second.PublicID)
	_, err = uuid.Parse(first.PublicID)
	assert.NoError(t, err, "public id is a random uuid")
	assert.Equal(t, []string{"trip_shares:INSERT"}, events.tables(), "only the first call creates")
}

func TestShareService_Revoke(t *testing.T) {
	tripID := uuid.New()
	events := &recorder{}
	shares := &mockShareRepo{
		getByTrip:    func(context.Context, uuid.UUID) (domain.TripShare, error) { return domain.TripShare{ID: uuid.New()}, nil },
		deleteByTrip: func(context.Context, uuid.UUID) error { return nil },
	}
	svc := service.NewShareService(repo.Repos{Shares: shares}, events, discardLogger())

	require.NoError(t, svc.Revoke(context.Background(), tripID))
	assert.Equal(t, []string{"trip_shares:DELETE"}, events.tables())

	shares.getByTrip = func(context.Context, uuid.UUID) (domain.TripShare, error) { return domain.TripShare{}, domain.ErrNotFound }
	assert.ErrorIs(t, svc.Revoke(context.Background(), tripID), domain.ErrNotFound)
}

func TestShareService_PublicView(t *testing.T) {
	trip := validTrip()
	publicID := uuid.NewString()
	day := domain.TripDay{ID: uuid.New(), TripID: trip.ID, DayNumber: 1, Title: "Arrival"}
	r := repo.Repos{
		Trips: &mockTripRepo{getByID: tripFound(trip)},
		Shares: &mockShareRepo{getByPublicID: func(_ context.Context, id string) (domain.TripShare, error) {
			if id != publicID {
				return domain.TripShare{}, domain.ErrNotFound
			}
			return domain.TripShare{TripID: trip.ID, PublicID: id}, nil
		}},
		Days: &mockDayRepo{listByTrip: func(context.Context, uuid.UUID) ([]domain.TripDay, error) {
			return []domain.TripDay{day}, nil
		}},
		Activities: &mockActivityRepo{listByTrip: func(context.Context, uuid.UUID) ([]domain.Activity, error) {
			return []domain.Activity{activity(day.ID, "Colosseum", 0)}, nil
		}},
		Packing: &mockPackingRepo{listByTrip: func(context.Context, uuid.UUID) ([]domain.PackingItem, error) {
			return []domain.PackingItem{{Category: "Documents", Name: "Passport", Quantity: 1, Packed: true}}, nil
		}},
		Expenses: &mockExpenseRepo{listByTrip: func(context.Context, uuid.UUID) ([]domain.Expense, error) {
			return []domain.Expense{validExpense(trip.ID)}, nil
		}},
	}
	svc := service.NewShareService(r, nil, discardLogger())

	view, err := svc.PublicView(context.Background(), publicID)

	require.NoError(t, err)
	assert.Equal(t, trip.Title, view.Trip.Title)
	require.Len(t, view.Days, 1)
	assert.Len(t, view.Days[0].Activities, 1)
	assert.Equal(t, 1, view.Packing.Packed)
	assert.Equal(t, 1, view.Budget.Count)

	_, err = svc.PublicView(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.PublicView(context.Background(), "../../etc")
	assert.ErrorIs(t, err, domain.ErrNotFound, "malformed ids never reach the store")
}
