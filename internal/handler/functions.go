package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/tripcraft/tripcraft/internal/generator"
	"github.com/tripcraft/tripcraft/internal/llm"
)

// FunctionError is the error body of the /functions/v1 endpoints.
type FunctionError struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// RecommendationsRequest is the body of getRecommendations.
type RecommendationsRequest struct {
	Destination string   `json:"destination"`
	Interests   []string `json:"interests"`
}

// RecommendationsResponse lists suggestions for a destination.
type RecommendationsResponse struct {
	Recommendations []generator.Recommendation `json:"recommendations"`
}

// SummariseRequest carries the note text to summarise.
type SummariseRequest struct {
	Text string `json:"text"`
}

// SummariseResponse is the generated summary.
type SummariseResponse struct {
	Summary string `json:"summary"`
}

// GenerateTrip handles POST /functions/v1/generateTrip.
func (s *Server) GenerateTrip(w http.ResponseWriter, r *http.Request) {
	var req generator.ItineraryRequest
	if !decodeFunctionBody(w, r, &req) {
		return
	}
	it, err := s.planner.Plan(r.Context(), req)
	generator.Observe("itinerary", err)
	if err != nil {
		s.functionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// GeneratePackingList handles POST /functions/v1/generatePackingList.
func (s *Server) GeneratePackingList(w http.ResponseWriter, r *http.Request) {
	var req generator.PackingRequest
	if !decodeFunctionBody(w, r, &req) {
		return
	}
	list, err := generator.GeneratePackingList(req)
	generator.Observe("packing", err)
	if err != nil {
		s.functionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetRecommendations handles POST /functions/v1/getRecommendations.
func (s *Server) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	var req RecommendationsRequest
	if !decodeFunctionBody(w, r, &req) {
		return
	}
	recs := generator.Recommend(req.Destination, req.Interests)
	generator.Observe("recommendations", nil)
	writeJSON(w, http.StatusOK, RecommendationsResponse{Recommendations: recs})
}

// SummariseNotes handles POST /functions/v1/summariseNotes.
func (s *Server) SummariseNotes(w http.ResponseWriter, r *http.Request) {
	var req SummariseRequest
	if !decodeFunctionBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, FunctionError{Error: "Missing required field: text"})
		return
	}
	summary, err := s.summarizer.Summarize(r.Context(), req.Text)
	generator.Observe("summary", err)
	if err != nil {
		s.functionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SummariseResponse{Summary: summary})
}

// functionError maps generator failures: caller input is a 400, everything
// else a 500 with whatever detail helps the caller see what came back.
func (s *Server) functionError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		input      *generator.InputError
		parse      *generator.ParseError
		validation *generator.ValidationError
		upstream   *llm.UpstreamError
	)
	switch {
	case errors.As(err, &input):
		writeJSON(w, http.StatusBadRequest, FunctionError{Error: input.Message})
		return
	case errors.As(err, &parse):
		writeJSON(w, http.StatusInternalServerError, FunctionError{Error: "AI response was not valid JSON", Details: parse.Raw})
	case errors.As(err, &validation):
		writeJSON(w, http.StatusInternalServerError, FunctionError{Error: "Validation failed", Details: validation.Problems})
	case errors.As(err, &upstream):
		resp := FunctionError{Error: upstream.Error()}
		if upstream.Body != "" {
			resp.Details = upstream.Body
		}
		writeJSON(w, http.StatusInternalServerError, resp)
	default:
		writeJSON(w, http.StatusInternalServerError, FunctionError{Error: err.Error()})
	}
	s.logger.WarnContext(r.Context(), "generator failed",
		"path", r.URL.Path, "outcome", generator.Outcome(err), "error", err)
}

func decodeFunctionBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	switch {
	case err == nil:
		return true
	case isTooLarge(err):
		writeJSON(w, http.StatusRequestEntityTooLarge, FunctionError{Error: "Request body too large"})
	default:
		writeJSON(w, http.StatusBadRequest, FunctionError{Error: "Invalid JSON body", Details: err.Error()})
	}
	return false
}
