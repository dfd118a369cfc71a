package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tripcraft/tripcraft/internal/blob"
	"github.com/tripcraft/tripcraft/internal/domain"
	"github.com/tripcraft/tripcraft/internal/middleware"
)

// Options configures the parts of the router that are not services.
type Options struct {
	Tokens          middleware.TokenValidator
	FunctionsAPIKey string
	CORSOrigins     []string
	MaxBodyBytes    int64
	MaxUploadBytes  int64
	Files           blob.Store // objects served under /files/ when set
	OpenAPI         []byte
	Metrics         http.Handler
}

// Handler builds the chi router for every endpoint. Request logging,
// recovery and request ids are left to the caller.
func (s *Server) Handler(opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Metrics)

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI(opts.OpenAPI))
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}
	if opts.Files != nil {
		r.Get("/files/*", s.ServeFile(opts.Files))
	}

	jsonBody := middleware.NewMaxBodySizeHandler(opts.MaxBodyBytes)
	upload := middleware.NewMaxBodySizeHandler(opts.MaxUploadBytes)
	cors := middleware.NewCORSHandler(opts.CORSOrigins)

	r.Route("/functions/v1", func(r chi.Router) {
		r.Use(middleware.NewPublicCORSHandler(), jsonBody, middleware.RequireAPIKey(opts.FunctionsAPIKey))
		r.Post("/generateTrip", s.GenerateTrip)
		r.Post("/generatePackingList", s.GeneratePackingList)
		r.Post("/getRecommendations", s.GetRecommendations)
		r.Post("/summariseNotes", s.SummariseNotes)
	})

	r.Route("/share", func(r chi.Router) {
		r.Use(cors)
		r.Get("/{publicId}", s.GetSharedTrip)
	})

	r.Route("/trips", func(r chi.Router) {
		r.Use(cors, middleware.RequireAuth(opts.Tokens))
		r.With(jsonBody).Post("/", s.CreateTrip)
		r.Get("/", s.ListTrips)

		r.Route("/{tripId}", func(r chi.Router) {
			viewer := s.requireRole(domain.RoleViewer)
			editor := r.With(s.requireRole(domain.RoleEditor), jsonBody)
			owner := r.With(s.requireRole(domain.RoleOwner), jsonBody)
			read := r.With(viewer)

			read.Get("/", s.GetTrip)
			editor.Put("/", s.UpdateTrip)
			owner.Delete("/", s.DeleteTrip)
			read.Get("/events", s.StreamEvents)

			read.Get("/days", s.ListDays)
			editor.Post("/days", s.CreateDay)
			editor.Put("/days/{dayId}", s.UpdateDay)
			editor.Delete("/days/{dayId}", s.DeleteDay)

			read.Get("/itinerary", s.GetItinerary)
			editor.Post("/itinerary/generate", s.GenerateItinerary)
			read.Get("/days/{dayId}/activities", s.ListActivities)
			editor.Post("/days/{dayId}/activities", s.CreateActivity)
			editor.Put("/activities/{activityId}", s.UpdateActivity)
			editor.Delete("/activities/{activityId}", s.DeleteActivity)
			editor.Post("/activities/{activityId}/move", s.MoveActivity)

			read.Get("/packing", s.ListPacking)
			editor.Post("/packing", s.CreatePackingItem)
			editor.Post("/packing/bulk", s.BulkCreatePacking)
			editor.Post("/packing/generate", s.GeneratePacking)
			read.Get("/packing/progress", s.GetPackingProgress)
			editor.Put("/packing/{itemId}", s.UpdatePackingItem)
			editor.Delete("/packing/{itemId}", s.DeletePackingItem)

			read.Get("/expenses", s.ListExpenses)
			editor.Post("/expenses", s.CreateExpense)
			read.Get("/expenses/summary", s.GetExpenseSummary)
			editor.Put("/expenses/{expenseId}", s.UpdateExpense)
			editor.Delete("/expenses/{expenseId}", s.DeleteExpense)

			read.Get("/notes", s.ListNotes)
			read.Get("/notes/{day}", s.GetNote)
			editor.Put("/notes/{day}", s.PutNote)
			editor.Post("/notes/{day}/summary", s.SummarizeNote)

			read.Get("/documents", s.ListDocuments)
			r.With(s.requireRole(domain.RoleEditor), upload).Post("/documents", s.UploadDocument)
			read.Get("/documents/{docId}/content", s.GetDocumentContent)
			editor.Delete("/documents/{docId}", s.DeleteDocument)

			read.Get("/share", s.GetShare)
			owner.Post("/share", s.CreateShare)
			owner.Delete("/share", s.RevokeShare)

			read.Get("/collaborators", s.ListCollaborators)
			owner.Post("/collaborators", s.AddCollaborator)
			owner.Put("/collaborators/{userId}", s.UpdateCollaborator)
			owner.Delete("/collaborators/{userId}", s.RemoveCollaborator)
		})
	})

	return r
}

// requireRole rejects the request unless the caller holds at least minRole
// on the trip named by the tripId path parameter.
func (s *Server) requireRole(minRole domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tripID, ok := pathUUID(w, r, "tripId")
			if !ok {
				return
			}
			if _, err := s.access.Require(r.Context(), tripID, currentUser(r), minRole); err != nil {
				s.serviceError(w, r, err, "trip")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
