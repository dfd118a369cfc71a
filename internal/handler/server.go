// Package handler implements the HTTP surface of the Tripcraft API.
// All handlers are methods on Server. They are split into domain-specific
// files (trip.go, packing.go, functions.go, etc.) but share the same Server
// struct so they can access its dependencies.
package handler

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/tripcraft/tripcraft/internal/domain"
	"github.com/tripcraft/tripcraft/internal/generator"
	"github.com/tripcraft/tripcraft/internal/llm"
	"github.com/tripcraft/tripcraft/internal/realtime"
	"github.com/tripcraft/tripcraft/internal/service"
)

// TripServicer defines the trip and day operations the handlers depend on.
// Each interface lives here, in the consumer package, so handler tests can
// inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	List(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error)
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListDays(ctx context.Context, tripID uuid.UUID) ([]domain.TripDay, error)
	CreateDay(ctx context.Context, day domain.TripDay) (domain.TripDay, error)
	UpdateDay(ctx context.Context, day domain.TripDay) (domain.TripDay, error)
	DeleteDay(ctx context.Context, tripID, dayID uuid.UUID) error
}

// ItineraryServicer covers activities and itinerary generation.
type ItineraryServicer interface {
	Itinerary(ctx context.Context, tripID uuid.UUID) ([]domain.TripDay, error)
	ListActivities(ctx context.Context, tripID, dayID uuid.UUID) ([]domain.Activity, error)
	CreateActivity(ctx context.Context, tripID uuid.UUID, a domain.Activity) (domain.Activity, error)
	UpdateActivity(ctx context.Context, tripID uuid.UUID, a domain.Activity) (domain.Activity, error)
	DeleteActivity(ctx context.Context, tripID, activityID uuid.UUID) error
	Move(ctx context.Context, tripID, activityID uuid.UUID, position int) (domain.Activity, error)
	Generate(ctx context.Context, tripID uuid.UUID, replace bool) ([]domain.TripDay, error)
}

type PackingServicer interface {
	List(ctx context.Context, tripID uuid.UUID) ([]domain.PackingItem, error)
	Create(ctx context.Context, item domain.PackingItem) (domain.PackingItem, error)
	BulkCreate(ctx context.Context, tripID uuid.UUID, items []domain.PackingItem) ([]domain.PackingItem, error)
	Update(ctx context.Context, item domain.PackingItem) (domain.PackingItem, error)
	Delete(ctx context.Context, tripID, itemID uuid.UUID) error
	Progress(ctx context.Context, tripID uuid.UUID) (domain.PackingProgress, error)
	Suggest(ctx context.Context, tripID uuid.UUID, opts service.PackingOptions) (generator.PackingList, error)
	ApplyGenerated(ctx context.Context, tripID uuid.UUID, list generator.PackingList) ([]domain.PackingItem, error)
}

type ExpenseServicer interface {
	List(ctx context.Context, tripID uuid.UUID) ([]domain.Expense, error)
	Create(ctx context.Context, e domain.Expense) (domain.Expense, error)
	Update(ctx context.Context, e domain.Expense) (domain.Expense, error)
	Delete(ctx context.Context, tripID, expenseID uuid.UUID) error
	Summary(ctx context.Context, tripID uuid.UUID) (domain.BudgetSummary, error)
}

type NoteServicer interface {
	List(ctx context.Context, tripID uuid.UUID) ([]service.RenderedNote, error)
	GetByDay(ctx context.Context, tripID uuid.UUID, dayNumber int) (service.RenderedNote, error)
	Upsert(ctx context.Context, tripID uuid.UUID, dayNumber int, text string) (service.RenderedNote, error)
	Summarize(ctx context.Context, tripID uuid.UUID, dayNumber int) (service.RenderedNote, error)
}

type DocumentServicer interface {
	Upload(ctx context.Context, in service.UploadInput) (domain.Document, error)
	List(ctx context.Context, tripID uuid.UUID) ([]domain.Document, error)
	Open(ctx context.Context, tripID, docID uuid.UUID) (domain.Document, io.ReadCloser, error)
	Delete(ctx context.Context, tripID, docID uuid.UUID) error
	URL(doc domain.Document) string
}

type ShareServicer interface {
	Create(ctx context.Context, tripID uuid.UUID) (domain.TripShare, error)
	Get(ctx context.Context, tripID uuid.UUID) (domain.TripShare, error)
	Revoke(ctx context.Context, tripID uuid.UUID) error
	PublicView(ctx context.Context, publicID string) (domain.SharedTrip, error)
}

// AccessServicer resolves trip roles and manages collaborators.
type AccessServicer interface {
	Require(ctx context.Context, tripID, userID uuid.UUID, minRole domain.Role) (domain.Role, error)
	ListCollaborators(ctx context.Context, tripID uuid.UUID) ([]domain.Collaborator, error)
	AddCollaborator(ctx context.Context, c domain.Collaborator) (domain.Collaborator, error)
	UpdateCollaborator(ctx context.Context, tripID, userID uuid.UUID, role domain.Role) (domain.Collaborator, error)
	RemoveCollaborator(ctx context.Context, tripID, userID uuid.UUID) error
}

// Subscriber opens realtime subscriptions. *realtime.Broker satisfies it.
type Subscriber interface {
	Subscribe(topics ...realtime.Topic) *realtime.Subscription
}

// Deps holds everything the Server calls into. Nil services leave their
// routes unusable, which keeps focused tests short.
type Deps struct {
	Trips      TripServicer
	Itinerary  ItineraryServicer
	Packing    PackingServicer
	Expenses   ExpenseServicer
	Notes      NoteServicer
	Documents  DocumentServicer
	Shares     ShareServicer
	Access     AccessServicer
	Planner    generator.Planner
	Summarizer llm.Summarizer
	Events     Subscriber
	Logger     *slog.Logger

	// PublicBaseURL prefixes share links, e.g. https://tripcraft.example.com.
	PublicBaseURL string
}

// Server serves every API endpoint.
type Server struct {
	trips      TripServicer
	itinerary  ItineraryServicer
	packing    PackingServicer
	expenses   ExpenseServicer
	notes      NoteServicer
	documents  DocumentServicer
	shares     ShareServicer
	access     AccessServicer
	planner    generator.Planner
	summarizer llm.Summarizer
	events     Subscriber
	logger     *slog.Logger
	baseURL    string
}

// NewServer constructs the Server with all its dependencies.
func NewServer(d Deps) *Server {
	logger := d.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		trips:      d.Trips,
		itinerary:  d.Itinerary,
		packing:    d.Packing,
		expenses:   d.Expenses,
		notes:      d.Notes,
		documents:  d.Documents,
		shares:     d.Shares,
		access:     d.Access,
		planner:    d.Planner,
		summarizer: d.Summarizer,
		events:     d.Events,
		logger:     logger,
		baseURL:    strings.TrimSuffix(d.PublicBaseURL, "/"),
	}
}
