package service_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/tripcraft/tripcraft/internal/domain"
	"github.com/tripcraft/tripcraft/internal/generator"
	"github.com/tripcraft/tripcraft/internal/realtime"
	"github.com/tripcraft/tripcraft/internal/repo"
)

// Hand-written test doubles. Each method is a function field; set only the
// ones a test needs. Calling an unset one panics, which flags an unexpected
// repo call.

type mockTripRepo struct {
	create      func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID     func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	listForUser func(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error)
	update      func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	delete      func(ctx context.Context, id uuid.UUID) error
	roleOf      func(ctx context.Context, tripID, userID uuid.UUID) (domain.Role, error)
}

func (m *mockTripRepo) Create(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.create(ctx, t)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) ListForUser(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.listForUser(ctx, userID, p)
}
func (m *mockTripRepo) Update(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.update(ctx, t)
}
func (m *mockTripRepo) Delete(ctx context.Context, id uuid.UUID) error { return m.delete(ctx, id) }
func (m *mockTripRepo) RoleOf(ctx context.Context, tripID, userID uuid.UUID) (domain.Role, error) {
	return m.roleOf(ctx, tripID, userID)
}

type mockDayRepo struct {
	create       func(ctx context.Context, d domain.TripDay) (domain.TripDay, error)
	getByID      func(ctx context.Context, tripID, dayID uuid.UUID) (domain.TripDay, error)
	listByTrip   func(ctx context.Context, tripID uuid.UUID) ([]domain.TripDay, error)
	update       func(ctx context.Context, d domain.TripDay) (domain.TripDay, error)
	delete       func(ctx context.Context, tripID, dayID uuid.UUID) error
	deleteByTrip func(ctx context.Context, tripID uuid.UUID) (int64, error)
}

func (m *mockDayRepo) Create(ctx context.Context, d domain.TripDay) (domain.TripDay, error) {
	return m.create(ctx, d)
}
func (m *mockDayRepo) GetByID(ctx context.Context, tripID, dayID uuid.UUID) (domain.TripDay, error) {
	return m.getByID(ctx, tripID, dayID)
}
func (m *mockDayRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.TripDay, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockDayRepo) Update(ctx context.Context, d domain.TripDay) (domain.TripDay, error) {
	return m.update(ctx, d)
}
func (m *mockDayRepo) Delete(ctx context.Context, tripID, dayID uuid.UUID) error {
	return m.delete(ctx, tripID, dayID)
}
func (m *mockDayRepo) DeleteByTrip(ctx context.Context, tripID uuid.UUID) (int64, error) {
	return m.deleteByTrip(ctx, tripID)
}

type mockActivityRepo struct {
	create          func(ctx context.Context, a domain.Activity) (domain.Activity, error)
	createBatch     func(ctx context.Context, as []domain.Activity) ([]domain.Activity, error)
	getForTrip      func(ctx context.Context, tripID, activityID uuid.UUID) (domain.Activity, error)
	listByDay       func(ctx context.Context, dayID uuid.UUID) ([]domain.Activity, error)
	listByTrip      func(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error)
	lastOrderIndex  func(ctx context.Context, dayID uuid.UUID) (*float64, error)
	update          func(ctx context.Context, a domain.Activity) (domain.Activity, error)
	setOrderIndexes func(ctx context.Context, indexes map[uuid.UUID]float64) error
	delete          func(ctx context.Context, tripID, activityID uuid.UUID) error
}

func (m *mockActivityRepo) Create(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	return m.create(ctx, a)
}
func (m *mockActivityRepo) CreateBatch(ctx context.Context, as []domain.Activity) ([]domain.Activity, error) {
	return m.createBatch(ctx, as)
}
func (m *mockActivityRepo) GetForTrip(ctx context.Context, tripID, activityID uuid.UUID) (domain.Activity, error) {
	return m.getForTrip(ctx, tripID, activityID)
}
func (m *mockActivityRepo) ListByDay(ctx context.Context, dayID uuid.UUID) ([]domain.Activity, error) {
	return m.listByDay(ctx, dayID)
}
func (m *mockActivityRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockActivityRepo) LastOrderIndex(ctx context.Context, dayID uuid.UUID) (*float64, error) {
	return m.lastOrderIndex(ctx, dayID)
}
func (m *mockActivityRepo) Update(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	return m.update(ctx, a)
}
func (m *mockActivityRepo) SetOrderIndexes(ctx context.Context, indexes map[uuid.UUID]float64) error {
	return m.setOrderIndexes(ctx, indexes)
}
func (m *mockActivityRepo) Delete(ctx context.Context, tripID, activityID uuid.UUID) error {
	return m.delete(ctx, tripID, activityID)
}

type mockPackingRepo struct {
	create      func(ctx context.Context, it domain.PackingItem) (domain.PackingItem, error)
	createBatch func(ctx context.Context, its []domain.PackingItem) ([]domain.PackingItem, error)
	getByID     func(ctx context.Context, tripID, itemID uuid.UUID) (domain.PackingItem, error)
	listByTrip  func(ctx context.Context, tripID uuid.UUID) ([]domain.PackingItem, error)
	update      func(ctx context.Context, it domain.PackingItem) (domain.PackingItem, error)
	delete      func(ctx context.Context, tripID, itemID uuid.UUID) error
}

func (m *mockPackingRepo) Create(ctx context.Context, it domain.PackingItem) (domain.PackingItem, error) {
	return m.create(ctx, it)
}
func (m *mockPackingRepo) CreateBatch(ctx context.Context, its []domain.PackingItem) ([]domain.PackingItem, error) {
	return m.createBatch(ctx, its)
}
func (m *mockPackingRepo) GetByID(ctx context.Context, tripID, itemID uuid.UUID) (domain.PackingItem, error) {
	return m.getByID(ctx, tripID, itemID)
}
func (m *mockPackingRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.PackingItem, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockPackingRepo) Update(ctx context.Context, it domain.PackingItem) (domain.PackingItem, error) {
	return m.update(ctx, it)
}
func (m *mockPackingRepo) Delete(ctx context.Context, tripID, itemID uuid.UUID) error {
	return m.delete(ctx, tripID, itemID)
}

type mockExpenseRepo struct {
	create     func(ctx context.Context, e domain.Expense) (domain.Expense, error)
	getByID    func(ctx context.Context, tripID, id uuid.UUID) (domain.Expense, error)
	listByTrip func(ctx context.Context, tripID uuid.UUID) ([]domain.Expense, error)
	update     func(ctx context.Context, e domain.Expense) (domain.Expense, error)
	delete     func(ctx context.Context, tripID, id uuid.UUID) error
}

func (m *mockExpenseRepo) Create(ctx context.Context, e domain.Expense) (domain.Expense, error) {
	return m.create(ctx, e)
}
func (m *mockExpenseRepo) GetByID(ctx context.Context, tripID, id uuid.UUID) (domain.Expense, error) {
	return m.getByID(ctx, tripID, id)
}
func (m *mockExpenseRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Expense, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockExpenseRepo) Update(ctx context.Context, e domain.Expense) (domain.Expense, error) {
	return m.update(ctx, e)
}
func (m *mockExpenseRepo) Delete(ctx context.Context, tripID, id uuid.UUID) error {
	return m.delete(ctx, tripID, id)
}

type mockNoteRepo struct {
	listByTrip func(ctx context.Context, tripID uuid.UUID) ([]domain.Note, error)
	getByDay   func(ctx context.Context, tripID uuid.UUID, day int) (domain.Note, error)
	upsert     func(ctx context.Context, n domain.Note) (domain.Note, error)
	setSummary func(ctx context.Context, tripID uuid.UUID, day int, summary string) (domain.Note, error)
}

func (m *mockNoteRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Note, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockNoteRepo) GetByDay(ctx context.Context, tripID uuid.UUID, day int) (domain.Note, error) {
	return m.getByDay(ctx, tripID, day)
}
func (m *mockNoteRepo) Upsert(ctx context.Context, n domain.Note) (domain.Note, error) {
	return m.upsert(ctx, n)
}
func (m *mockNoteRepo) SetSummary(ctx context.Context, tripID uuid.UUID, day int, summary string) (domain.Note, error) {
	return m.setSummary(ctx, tripID, day, summary)
}

type mockDocumentRepo struct {
	create     func(ctx context.Context, d domain.Document) (domain.Document, error)
	getByID    func(ctx context.Context, tripID, docID uuid.UUID) (domain.Document, error)
	listByTrip func(ctx context.Context, tripID uuid.UUID) ([]domain.Document, error)
	delete     func(ctx context.Context, tripID, docID uuid.UUID) error
}

func (m *mockDocumentRepo) Create(ctx context.Context, d domain.Document) (domain.Document, error) {
	return m.create(ctx, d)
}
func (m *mockDocumentRepo) GetByID(ctx context.Context, tripID, docID uuid.UUID) (domain.Document, error) {
	return m.getByID(ctx, tripID, docID)
}
func (m *mockDocumentRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Document, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockDocumentRepo) Delete(ctx context.Context, tripID, docID uuid.UUID) error {
	return m.delete(ctx, tripID, docID)
}

type mockShareRepo struct {
	create        func(ctx context.Context, tripID uuid.UUID, publicID string) (domain.TripShare, error)
	getByTrip     func(ctx context.Context, tripID uuid.UUID) (domain.TripShare, error)
	getByPublicID func(ctx context.Context, publicID string) (domain.TripShare, error)
	deleteByTrip  func(ctx context.Context, tripID uuid.UUID) error
}

func (m *mockShareRepo) Create(ctx context.Context, tripID uuid.UUID, publicID string) (domain.TripShare, error) {
	return m.create(ctx, tripID, publicID)
}
func (m *mockShareRepo) GetByTrip(ctx context.Context, tripID uuid.UUID) (domain.TripShare, error) {
	return m.getByTrip(ctx, tripID)
}
func (m *mockShareRepo) GetByPublicID(ctx context.Context, publicID string) (domain.TripShare, error) {
	return m.getByPublicID(ctx, publicID)
}
func (m *mockShareRepo) DeleteByTrip(ctx context.Context, tripID uuid.UUID) error {
	return m.deleteByTrip(ctx, tripID)
}

type mockCollaboratorRepo struct {
	add        func(ctx context.Context, c domain.Collaborator) (domain.Collaborator, error)
	listByTrip func(ctx context.Context, tripID uuid.UUID) ([]domain.Collaborator, error)
	updateRole func(ctx context.Context, tripID, userID uuid.UUID, role domain.Role) (domain.Collaborator, error)
	remove     func(ctx context.Context, tripID, userID uuid.UUID) error
}

func (m *mockCollaboratorRepo) Add(ctx context.Context, c domain.Collaborator) (domain.Collaborator, error) {
	return m.add(ctx, c)
}
func (m *mockCollaboratorRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Collaborator, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockCollaboratorRepo) UpdateRole(ctx context.Context, tripID, userID uuid.UUID, role domain.Role) (domain.Collaborator, error) {
	return m.updateRole(ctx, tripID, userID, role)
}
func (m *mockCollaboratorRepo) Remove(ctx context.Context, tripID, userID uuid.UUID) error {
	return m.remove(ctx, tripID, userID)
}

// compile-time checks: the mocks must satisfy the repo interfaces.
var (
	_ repo.TripRepo         = (*mockTripRepo)(nil)
	_ repo.DayRepo          = (*mockDayRepo)(nil)
	_ repo.ActivityRepo     = (*mockActivityRepo)(nil)
	_ repo.PackingRepo      = (*mockPackingRepo)(nil)
	_ repo.ExpenseRepo      = (*mockExpenseRepo)(nil)
	_ repo.NoteRepo         = (*mockNoteRepo)(nil)
	_ repo.DocumentRepo     = (*mockDocumentRepo)(nil)
	_ repo.ShareRepo        = (*mockShareRepo)(nil)
	_ repo.CollaboratorRepo = (*mockCollaboratorRepo)(nil)
)

// fakeTx runs fn against the same repos without a real transaction.
// commits counts the calls whose fn returned nil.
type fakeTx struct {
	repos   repo.Repos
	calls   int
	commits int
}

func (f *fakeTx) WithinTx(_ context.Context, fn func(tx repo.Repos) error) error {
	f.calls++
	if err := fn(f.repos); err != nil {
		return err
	}
	f.commits++
	return nil
}

var _ repo.Transactor = (*fakeTx)(nil)

// recorder is a Publisher that keeps every event.
type recorder struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (r *recorder) Publish(e realtime.Event) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return 1
}

func (r *recorder) tables() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Table + ":" + string(e.Op)
	}
	return out
}

type fakePlanner struct {
	plan func(ctx context.Context, req generator.ItineraryRequest) (generator.Itinerary, error)
}

func (f fakePlanner) Plan(ctx context.Context, req generator.ItineraryRequest) (generator.Itinerary, error) {
	return f.plan(ctx, req)
}

type fakeSummarizer struct {
	summarize func(ctx context.Context, text string) (string, error)
}

func (f fakeSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	return f.summarize(ctx, text)
}

// memStore is an in-memory blob.Store.
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newMemStore() *memStore { return &memStore{objects: map[string][]byte{}} }

func (m *memStore) Put(_ context.Context, key string, r io.Reader) (int64, error) {
	if m.putErr != nil {
		return 0, m.putErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = b
	return int64(len(b)), nil
}

func (m *memStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objects[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memStore) PublicURL(key string) string { return "http://files.test/files/" + key }

func (m *memStore) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }
