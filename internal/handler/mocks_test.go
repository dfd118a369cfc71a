package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tripcraft/tripcraft/internal/auth"
	"github.com/tripcraft/tripcraft/internal/domain"
	"github.com/tripcraft/tripcraft/internal/generator"
	"github.com/tripcraft/tripcraft/internal/handler"
	"github.com/tripcraft/tripcraft/internal/service"
)

// Test doubles for the handler's consumer interfaces.
// Set only the method fields your test needs.

type mockTripServicer struct {
	create    func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	list      func(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error)
	update    func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	delete    func(ctx context.Context, id uuid.UUID) error
	listDays  func(ctx context.Context, tripID uuid.UUID) ([]domain.TripDay, error)
	createDay func(ctx context.Context, day domain.TripDay) (domain.TripDay, error)
	updateDay func(ctx context.Context, day domain.TripDay) (domain.TripDay, error)
	deleteDay func(ctx context.Context, tripID, dayID uuid.UUID) error
}

func (m *mockTripServicer) Create(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.create(ctx, t)
}
func (m *mockTripServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripServicer) List(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.list(ctx, userID, p)
}
func (m *mockTripServicer) Update(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.update(ctx, t)
}
func (m *mockTripServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockTripServicer) ListDays(ctx context.Context, tripID uuid.UUID) ([]domain.TripDay, error) {
	return m.listDays(ctx, tripID)
}
func (m *mockTripServicer) CreateDay(ctx context.Context, d domain.TripDay) (domain.TripDay, error) {
	return m.createDay(ctx, d)
}
func (m *mockTripServicer) UpdateDay(ctx context.Context, d domain.TripDay) (domain.TripDay, error) {
	return m.updateDay(ctx, d)
}
func (m *mockTripServicer) DeleteDay(ctx context.Context, tripID, dayID uuid.UUID) error {
	return m.deleteDay(ctx, tripID, dayID)
}

type mockItineraryServicer struct {
	itinerary      func(ctx context.Context, tripID uuid.UUID) ([]domain.TripDay, error)
	listActivities func(ctx context.Context, tripID, dayID uuid.UUID) ([]domain.Activity, error)
	createActivity func(ctx context.Context, tripID uuid.UUID, a domain.Activity) (domain.Activity, error)
	updateActivity func(ctx context.Context, tripID uuid.UUID, a domain.Activity) (domain.Activity, error)
	deleteActivity func(ctx context.Context, tripID, activityID uuid.UUID) error
	move           func(ctx context.Context, tripID, activityID uuid.UUID, position int) (domain.Activity, error)
	generate       func(ctx context.Context, tripID uuid.UUID, replace bool) ([]domain.TripDay, error)
}

func (m *mockItineraryServicer) Itinerary(ctx context.Context, tripID uuid.UUID) ([]domain.TripDay, error) {
	return m.itinerary(ctx, tripID)
}
func (m *mockItineraryServicer) ListActivities(ctx context.Context, tripID, dayID uuid.UUID) ([]domain.Activity, error) {
	return m.listActivities(ctx, tripID, dayID)
}
func (m *mockItineraryServicer) CreateActivity(ctx context.Context, tripID uuid.UUID, a domain.Activity) (domain.Activity, error) {
	return m.createActivity(ctx, tripID, a)
}
func (m *mockItineraryServicer) UpdateActivity(ctx context.Context, tripID uuid.UUID, a domain.Activity) (domain.Activity, error) {
	return m.updateActivity(ctx, tripID, a)
}
func (m *mockItineraryServicer) DeleteActivity(ctx context.Context, tripID, activityID uuid.UUID) error {
	return m.deleteActivity(ctx, tripID, activityID)
}
func (m *mockItineraryServicer) Move(ctx context.Context, tripID, activityID uuid.UUID, position int) (domain.Activity, error) {
	return m.move(ctx, tripID, activityID, position)
}
func (m *mockItineraryServicer) Generate(ctx context.Context, tripID uuid.UUID, replace bool) ([]domain.TripDay, error) {
	return m.generate(ctx, tripID, replace)
}

type mockPackingServicer struct {
	list           func(ctx context.Context, tripID uuid.UUID) ([]domain.PackingItem, error)
	create         func(ctx context.Context, item domain.PackingItem) (domain.PackingItem, error)
	bulkCreate     func(ctx context.Context, tripID uuid.UUID, items []domain.PackingItem) ([]domain.PackingItem, error)
	update         func(ctx context.Context, item domain.PackingItem) (domain.PackingItem, error)
	delete         func(ctx context.Context, tripID, itemID uuid.UUID) error
	progress       func(ctx context.Context, tripID uuid.UUID) (domain.PackingProgress, error)
	suggest        func(ctx context.Context, tripID uuid.UUID, opts service.PackingOptions) (generator.PackingList, error)
	applyGenerated func(ctx context.Context, tripID uuid.UUID, list generator.PackingList) ([]domain.PackingItem, error)
}

func (m *mockPackingServicer) List(ctx context.Context, tripID uuid.UUID) ([]domain.PackingItem, error) {
	return m.list(ctx, tripID)
}
func (m *mockPackingServicer) Create(ctx context.Context, item domain.PackingItem) (domain.PackingItem, error) {
	return m.create(ctx, item)
}
func (m *mockPackingServicer) BulkCreate(ctx context.Context, tripID uuid.UUID, items []domain.PackingItem) ([]domain.PackingItem, error) {
	return m.bulkCreate(ctx, tripID, items)
}
func (m *mockPackingServicer) Update(ctx context.Context, item domain.PackingItem) (domain.PackingItem, error) {
	return m.update(ctx, item)
}
func (m *mockPackingServicer) Delete(ctx context.Context, tripID, itemID uuid.UUID) error {
	return m.delete(ctx, tripID, itemID)
}
func (m *mockPackingServicer) Progress(ctx context.Context, tripID uuid.UUID) (domain.PackingProgress, error) {
	return m.progress(ctx, tripID)
}
func (m *mockPackingServicer) Suggest(ctx context.Context, tripID uuid.UUID, opts service.PackingOptions) (generator.PackingList, error) {
	return m.suggest(ctx, tripID, opts)
}
func (m *mockPackingServicer) ApplyGenerated(ctx context.Context, tripID uuid.UUID, list generator.PackingList) ([]domain.PackingItem, error) {
	return m.applyGenerated(ctx, tripID, list)
}

type mockExpenseServicer struct {
	list    func(ctx context.Context, tripID uuid.UUID) ([]domain.Expense, error)
	create  func(ctx context.Context, e domain.Expense) (domain.Expense, error)
	update  func(ctx context.Context, e domain.Expense) (domain.Expense, error)
	delete  func(ctx context.Context, tripID, expenseID uuid.UUID) error
	summary func(ctx context.Context, tripID uuid.UUID) (domain.BudgetSummary, error)
}

func (m *mockExpenseServicer) List(ctx context.Context, tripID uuid.UUID) ([]domain.Expense, error) {
	return m.list(ctx, tripID)
}
func (m *mockExpenseServicer) Create(ctx context.Context, e domain.Expense) (domain.Expense, error) {
	return m.create(ctx, e)
}
func (m *mockExpenseServicer) Update(ctx context.Context, e domain.Expense) (domain.Expense, error) {
	return m.update(ctx, e)
}
func (m *mockExpenseServicer) Delete(ctx context.Context, tripID, expenseID uuid.UUID) error {
	return m.delete(ctx, tripID, expenseID)
}
func (m *mockExpenseServicer) Summary(ctx context.Context, tripID uuid.UUID) (domain.BudgetSummary, error) {
	return m.summary(ctx, tripID)
}

type mockNoteServicer struct {
	list      func(ctx context.Context, tripID uuid.UUID) ([]service.RenderedNote, error)
	getByDay  func(ctx context.Context, tripID uuid.UUID, day int) (service.RenderedNote, error)
	upsert    func(ctx context.Context, tripID uuid.UUID, day int, text string) (service.RenderedNote, error)
	summarize func(ctx context.Context, tripID uuid.UUID, day int) (service.RenderedNote, error)
}

func (m *mockNoteServicer) List(ctx context.Context, tripID uuid.UUID) ([]service.RenderedNote, error) {
	return m.list(ctx, tripID)
}
func (m *mockNoteServicer) GetByDay(ctx context.Context, tripID uuid.UUID, day int) (service.RenderedNote, error) {
	return m.getByDay(ctx, tripID, day)
}
func (m *mockNoteServicer) Upsert(ctx context.Context, tripID uuid.UUID, day int, text string) (service.RenderedNote, error) {
	return m.upsert(ctx, tripID, day, text)
}
func (m *mockNoteServicer) Summarize(ctx context.Context, tripID uuid.UUID, day int) (service.RenderedNote, error) {
	return m.summarize(ctx, tripID, day)
}

type mockDocumentServicer struct {
	upload func(ctx context.Context, in service.UploadInput) (domain.Document, error)
	list   func(ctx context.Context, tripID uuid.UUID) ([]domain.Document, error)
	open   func(ctx context.Context, tripID, docID uuid.UUID) (domain.Document, io.ReadCloser, error)
	delete func(ctx context.Context, tripID, docID uuid.UUID) error
}

func (m *mockDocumentServicer) Upload(ctx context.Context, in service.UploadInput) (domain.Document, error) {
	return m.upload(ctx, in)
}
func (m *mockDocumentServicer) List(ctx context.Context, tripID uuid.UUID) ([]domain.Document, error) {
	return m.list(ctx, tripID)
}
func (m *mockDocumentServicer) Open(ctx context.Context, tripID, docID uuid.UUID) (domain.Document, io.ReadCloser, error) {
	return m.open(ctx, tripID, docID)
}
func (m *mockDocumentServicer) Delete(ctx context.Context, tripID, docID uuid.UUID) error {
	return m.delete(ctx, tripID, docID)
}
func (m *mockDocumentServicer) URL(doc domain.Document) string {
	return "http://files.test/files/" + doc.StoragePath
}

type mockShareServicer struct {
	create     func(ctx context.Context, tripID uuid.UUID) (domain.TripShare, error)
	get        func(ctx context.Context, tripID uuid.UUID) (domain.TripShare, error)
	revoke     func(ctx context.Context, tripID uuid.UUID) error
	publicView func(ctx context.Context, publicID string) (domain.SharedTrip, error)
}

func (m *mockShareServicer) Create(ctx context.Context, tripID uuid.UUID) (domain.TripShare, error) {
	return m.create(ctx, tripID)
}
func (m *mockShareServicer) Get(ctx context.Context, tripID uuid.UUID) (domain.TripShare, error) {
	return m.get(ctx, tripID)
}
func (m *mockShareServicer) Revoke(ctx context.Context, tripID uuid.UUID) error {
	return m.revoke(ctx, tripID)
}
func (m *mockShareServicer) PublicView(ctx context.Context, publicID string) (domain.SharedTrip, error) {
	return m.publicView(ctx, publicID)
}

// mockAccessServicer grants every request unless require is set.
type mockAccessServicer struct {
	require func(ctx context.Context, tripID, userID uuid.UUID, minRole domain.Role) (domain.Role, error)
	list    func(ctx context.Context, tripID uuid.UUID) ([]domain.Collaborator, error)
	add     func(ctx context.Context, c domain.Collaborator) (domain.Collaborator, error)
	update  func(ctx context.Context, tripID, userID uuid.UUID, role domain.Role) (domain.Collaborator, error)
	remove  func(ctx context.Context, tripID, userID uuid.UUID) error
}

func (m *mockAccessServicer) Require(ctx context.Context, tripID, userID uuid.UUID, minRole domain.Role) (domain.Role, error) {
	if m.require == nil {
		return domain.RoleOwner, nil
	}
	return m.require(ctx, tripID, userID, minRole)
}
func (m *mockAccessServicer) ListCollaborators(ctx context.Context, tripID uuid.UUID) ([]domain.Collaborator, error) {
	return m.list(ctx, tripID)
}
func (m *mockAccessServicer) AddCollaborator(ctx context.Context, c domain.Collaborator) (domain.Collaborator, error) {
	return m.add(ctx, c)
}
func (m *mockAccessServicer) UpdateCollaborator(ctx context.Context, tripID, userID uuid.UUID, role domain.Role) (domain.Collaborator, error) {
	return m.update(ctx, tripID, userID, role)
}
func (m *mockAccessServicer) RemoveCollaborator(ctx context.Context, tripID, userID uuid.UUID) error {
	return m.remove(ctx, tripID, userID)
}

// compile-time checks: every mock must satisfy its handler interface.
var (
	_ handler.TripServicer      = (*mockTripServicer)(nil)
	_ handler.ItineraryServicer = (*mockItineraryServicer)(nil)
	_ handler.PackingServicer   = (*mockPackingServicer)(nil)
	_ handler.ExpenseServicer   = (*mockExpenseServicer)(nil)
	_ handler.NoteServicer      = (*mockNoteServicer)(nil)
	_ handler.DocumentServicer  = (*mockDocumentServicer)(nil)
	_ handler.ShareServicer     = (*mockShareServicer)(nil)
	_ handler.AccessServicer    = (*mockAccessServicer)(nil)
)

// The real services must satisfy the same interfaces.
var (
	_ handler.TripServicer      = (*service.TripService)(nil)
	_ handler.ItineraryServicer = (*service.ItineraryService)(nil)
	_ handler.PackingServicer   = (*service.PackingService)(nil)
	_ handler.ExpenseServicer   = (*service.ExpenseService)(nil)
	_ handler.NoteServicer      = (*service.NoteService)(nil)
	_ handler.DocumentServicer  = (*service.DocumentService)(nil)
	_ handler.ShareServicer     = (*service.ShareService)(nil)
	_ handler.AccessServicer    = (*service.AccessService)(nil)
)

// ---- helpers ---------------------------------------------------------------

const testSecret = "test-secret"

var testTokens = auth.NewTokenManager(testSecret, time.Hour)

// newHTTPHandler wires a Server with the given deps the same way main.go
// does, minus logging and recovery. A nil Access grants everything.
func newHTTPHandler(d handler.Deps) http.Handler {
	if d.Access == nil {
		d.Access = &mockAccessServicer{}
	}
	if d.PublicBaseURL == "" {
		d.PublicBaseURL = "http://app.test"
	}
	return handler.NewServer(d).Handler(handler.Options{
		Tokens:         testTokens,
		CORSOrigins:    []string{"http://localhost:5173"},
		MaxBodyBytes:   1 << 20,
		MaxUploadBytes: 1 << 20,
		OpenAPI:        []byte("openapi: 3.0.3\n"),
	})
}

// bearer returns an Authorization header value for userID.
func bearer(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	tok, err := testTokens.Issue(userID)
	require.NoError(t, err)
	return "Bearer " + tok
}

// serve sends an authenticated request as user and returns the recorder.
func serve(t *testing.T, h http.Handler, user uuid.UUID, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		rdr = jsonBody(t, body)
	}
	req := httptest.NewRequest(method, target, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", bearer(t, user))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func tripFixture() domain.Trip {
	return domain.Trip{
		ID:           uuid.New(),
		OwnerID:      uuid.New(),
		Title:        "Roman Holiday",
		Destination:  "Rome",
		StartDate:    date(2024, 6, 1),
		EndDate:      date(2024, 6, 5),
		TripType:     domain.TripTypeVacation,
		Vibe:         domain.VibeRelaxed,
		Interests:    []string{"food", "art"},
		NumTravelers: 2,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
}
