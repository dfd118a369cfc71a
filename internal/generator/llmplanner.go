package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/tripcraft/tripcraft/internal/llm"
)

// Completer is the slice of llm.Client the LLM planner depends on.
type Completer interface {
	Complete(ctx context.Context, req llm.CompletionRequest) (string, error)
}

// LLMPlanner asks a chat model for an itinerary and accepts the answer only
// if it passes ValidateItinerary for the requested date range.
type LLMPlanner struct {
	llm     Completer
	lenient bool
}

// NewLLMPlanner returns a delegating planner. With lenient set, upstream text
// that is not a bare JSON document is passed through RecoverJSON before it is
// rejected.
func NewLLMPlanner(c Completer, lenient bool) *LLMPlanner {
	return &LLMPlanner{llm: c, lenient: lenient}
}

// Plan implements Planner. Upstream failures come back as *llm.UpstreamError,
// undecodable text as *ParseError and schema violations as *ValidationError.
func (p *LLMPlanner) Plan(ctx context.Context, req ItineraryRequest) (Itinerary, error) {
	_, n, err := req.Span()
	if err != nil {
		return Itinerary{}, err
	}

	text, err := p.llm.Complete(ctx, llm.CompletionRequest{
		System:      itinerarySystemPrompt,
		User:        itineraryUserMessage(req),
		JSON:        true,
		Temperature: 0.25,
		MaxTokens:   4000,
	})
	if err != nil {
		return Itinerary{}, fmt.Errorf("generator.LLMPlanner.Plan: %w", err)
	}

	doc, err := decodeDocument(text, p.lenient)
	if err != nil {
		return Itinerary{}, err
	}
	return ValidateItinerary(doc, n)
}

func itineraryUserMessage(req ItineraryRequest) string {
	var b strings.Builder
	b.WriteString("Generate the itinerary using these traveler inputs:\n")
	fmt.Fprintf(&b, "Destination: %s\n", req.Destination)
	fmt.Fprintf(&b, "Dates: %s to %s\n", req.StartDate, req.EndDate)
	fmt.Fprintf(&b, "Number of travelers: %d\n", max(req.NumTravelers, 1))
	fmt.Fprintf(&b, "Trip type: %s\n", req.TripType)
	fmt.Fprintf(&b, "Vibe: %s\n", req.Vibe)
	fmt.Fprintf(&b, "Interests: %s\n", strings.Join(req.Interests, ", "))
	b.WriteString("Return only the JSON structure described in the system prompt.")
	return b.String()
}

const itinerarySystemPrompt = `You are an expert travel planner and local guide.

Build a personalized, bookable day-by-day itinerary using real places, restaurants, tours and
events, with realistic opening hours and prices. Shape the pace by vibe: relaxed means a slower
schedule, adventurous means hikes and tours, luxury means fine dining and premium experiences,
budget means free attractions and low-cost food, family means breaks and all-ages activities.
Keep arrival and departure days light.

Output ONLY a JSON object matching this schema exactly:

{
  "days": [
    {
      "dayNumber": 1,
      "title": "Arrival Day",
      "date": "YYYY-MM-DD",
      "activities": [
        {
          "id": "act-1-1",
          "startTime": "09:00",
          "endTime": "11:00",
          "title": "Activity name",
          "category": "Attraction",
          "location": "Name, Neighborhood, City",
          "notes": "Why it is recommended, tips, booking info.",
          "budgetEstimate": 50,
          "bookingRequired": false,
          "importance": "medium",
          "source": "https://example.com/activity"
        }
      ]
    }
  ]
}

Rules:
- One entry in "days" per calendar day from the start date to the end date inclusive.
- 2 to 4 activities per day, in chronological order, with no overlapping times.
- Every field is required. importance is one of low, medium, high.
- budgetEstimate is a number in USD for the whole group.
- source is an absolute http(s) URL to an official site or a map listing.
- If information is unavailable, still include the activity and explain in notes.`
