package generator_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripcraft/tripcraft/internal/generator"
	"github.com/tripcraft/tripcraft/internal/llm"
)

func romeRequest() generator.ItineraryRequest {
	return generator.ItineraryRequest{
		TripID:       "trip-1",
		Destination:  "Rome, Italy",
		StartDate:    "2025-06-01",
		EndDate:      "2025-06-03",
		TripType:     "vacation",
		Vibe:         "relaxed",
		Interests:    []string{"food", "art"},
		NumTravelers: 2,
	}
}

// itineraryJSON builds a valid document with n days of one activity each,
// then lets mutate tweak the first activity.
func itineraryJSON(n int, mutate func(act map[string]any)) []byte {
	days := make([]any, 0, n)
	for d := 1; d <= n; d++ {
		act := map[string]any{
			"id": fmt.Sprintf("act-%d-1", d), "startTime": "09:00", "endTime": "11:00",
			"title": "Pantheon", "category": "Attraction", "location": "Piazza della Rotonda, Rome",
			"notes": "Free entry", "budgetEstimate": 0, "bookingRequired": false,
			"importance": "high", "source": "https://www.pantheonroma.com",
		}
		if d == 1 && mutate != nil {
			mutate(act)
		}
		days = append(days, map[string]any{
			"dayNumber": d, "title": "Day", "date": fmt.Sprintf("2025-06-%02d", d),
			"activities": []any{act},
		})
	}
	b, _ := json.Marshal(map[string]any{"days": days})
	return b
}

func validationProblems(t *testing.T, err error) []string {
	t.Helper()
	var verr *generator.ValidationError
	require.True(t, errors.As(err, &verr), "want *ValidationError, got %v", err)
	return verr.Problems
}

func TestValidateItinerary_Valid(t *testing.T) {
	it, err := generator.ValidateItinerary(itineraryJSON(3, nil), 3)

	require.NoError(t, err)
	require.Len(t, it.Days, 3)
	assert.Equal(t, "Pantheon", it.Days[0].Activities[0].Title)
}

func TestValidateItinerary_DayCountMismatch(t *testing.T) {
	_, err := generator.ValidateItinerary(itineraryJSON(2, nil), 3)

	assert.Contains(t, validationProblems(t, err), "Expected 3 days but got 2")
}

func TestValidateItinerary_MissingSource(t *testing.T) {
	_, err := generator.ValidateItinerary(itineraryJSON(1, func(a map[string]any) { delete(a, "source") }), 1)

	assert.Equal(t, []string{"day 0 activity 0 missing source"}, validationProblems(t, err))
}

func TestValidateItinerary_NonHTTPSource(t *testing.T) {
	_, err := generator.ValidateItinerary(itineraryJSON(1, func(a map[string]any) { a["source"] = "www.pantheonroma.com" }), 1)

	assert.Equal(t, []string{"day 0 activity 0 source is not a URL"}, validationProblems(t, err))
}

func TestValidateItinerary_CollectsEveryProblem(t *testing.T) {
	doc := itineraryJSON(1, func(a map[string]any) {
		a["title"] = ""
		a["budgetEstimate"] = "cheap"
		delete(a, "bookingRequired")
	})

	_, err := generator.ValidateItinerary(doc, 2)

	problems := validationProblems(t, err)
	assert.Contains(t, problems, "Expected 2 days but got 1")
	assert.Contains(t, problems, "day 0 activity 0 missing title")
	assert.Contains(t, problems, "day 0 activity 0 missing bookingRequired")
	assert.Contains(t, problems, "day 0 activity 0 budgetEstimate is not a number")
}

func TestValidateItinerary_FalseIsNotMissing(t *testing.T) {
	// bookingRequired=false and budgetEstimate=0 are legitimate values.
	_, err := generator.ValidateItinerary(itineraryJSON(1, nil), 1)

	assert.NoError(t, err)
}

func TestValidateItinerary_DayFields(t *testing.T) {
	doc := []byte(`{"days":[{"title":"","activities":[]}]}`)

	_, err := generator.ValidateItinerary(doc, 1)

	assert.Equal(t, []string{
		"day 0 missing dayNumber",
		"day 0 missing title",
		"day 0 missing date",
		"day 0 has no activities",
	}, validationProblems(t, err))
}

func TestValidateItinerary_MissingDays(t *testing.T) {
	_, err := generator.ValidateItinerary([]byte(`{"itinerary":[]}`), 1)

	assert.Equal(t, []string{"Missing days array"}, validationProblems(t, err))
}

func TestRecoverJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"fenced json", "Here you go:\n```json\n{\"days\":[]}\n```\nEnjoy!", `{"days":[]}`, true},
		{"fenced bare", "```\n{\"a\":1}\n```", `{"a":1}`, true},
		{"braced span", `Sure! {"days": []} Have fun.`, `{"days": []}`, true},
		{"nothing usable", "I cannot help with that.", "", false},
		{"broken braces", "{days: [}", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := generator.RecoverJSON(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestItineraryRequest_Span(t *testing.T) {
	start, n, err := romeRequest().Span()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "2025-06-01", start.Format("2006-01-02"))

	req := romeRequest()
	req.Destination = " "
	_, _, err = req.Span()
	var inputErr *generator.InputError
	require.True(t, errors.As(err, &inputErr))
	assert.Equal(t, "destination", inputErr.Field)

	req = romeRequest()
	req.EndDate = "2025-09-01"
	_, _, err = req.Span()
	assert.True(t, errors.As(err, &inputErr), "longer than the generation limit")
}

func TestTemplatePlanner_PassesValidator(t *testing.T) {
	it, err := generator.NewTemplatePlanner().Plan(context.Background(), romeRequest())
	require.NoError(t, err)
	require.Len(t, it.Days, 3)

	raw, err := json.Marshal(it)
	require.NoError(t, err)
	_, err = generator.ValidateItinerary(raw, 3)
	assert.NoError(t, err)

	assert.Equal(t, "2025-06-03", it.Days[2].Date)
	assert.Equal(t, "Arrival in Rome, Italy", it.Days[0].Title)
	for _, d := range it.Days {
		require.Len(t, d.Activities, 3)
		for _, a := range d.Activities {
			assert.True(t, strings.HasPrefix(a.Source, "https://"))
			assert.Contains(t, []string{"Food", "Art"}, a.Category, "categories come from interests")
		}
	}
}

func TestTemplatePlanner_Deterministic(t *testing.T) {
	p := generator.NewTemplatePlanner()

	a, err := p.Plan(context.Background(), romeRequest())
	require.NoError(t, err)
	b, err := p.Plan(context.Background(), romeRequest())
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestTemplatePlanner_NoInterestsUsesFallbacks(t *testing.T) {
	req := romeRequest()
	req.Interests = nil

	it, err := generator.NewTemplatePlanner().Plan(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "Sightseeing", it.Days[0].Activities[0].Category)
	assert.Equal(t, "Food", it.Days[0].Activities[1].Category)
	assert.Equal(t, "Culture", it.Days[0].Activities[2].Category)
}

type fakeCompleter struct {
	complete func(ctx context.Context, req llm.CompletionRequest) (string, error)
}

func (f *fakeCompleter) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	return f.complete(ctx, req)
}

func replying(text string) *fakeCompleter {
	return &fakeCompleter{complete: func(context.Context, llm.CompletionRequest) (string, error) {
		return text, nil
	}}
}

func TestLLMPlanner_Valid(t *testing.T) {
	var sent llm.CompletionRequest
	c := &fakeCompleter{complete: func(_ context.Context, req llm.CompletionRequest) (string, error) {
		sent = req
		return string(itineraryJSON(3, nil)), nil
	}}

	it, err := generator.NewLLMPlanner(c, false).Plan(context.Background(), romeRequest())

	require.NoError(t, err)
	assert.Len(t, it.Days, 3)
	assert.True(t, sent.JSON)
	assert.Equal(t, 0.25, sent.Temperature)
	assert.Contains(t, sent.User, "Destination: Rome, Italy")
	assert.Contains(t, sent.User, "Interests: food, art")
}

func TestLLMPlanner_FencedResponse_StrictRejects(t *testing.T) {
	text := "```json\n" + string(itineraryJSON(3, nil)) + "\n```"

	_, err := generator.NewLLMPlanner(replying(text), false).Plan(context.Background(), romeRequest())

	var perr *generator.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, text, perr.Raw)
}

func TestLLMPlanner_FencedResponse_LenientRecovers(t *testing.T) {
	text := "```json\n" + string(itineraryJSON(3, nil)) + "\n```"

	it, err := generator.NewLLMPlanner(replying(text), true).Plan(context.Background(), romeRequest())

	require.NoError(t, err)
	assert.Len(t, it.Days, 3)
}

func TestLLMPlanner_Garbage(t *testing.T) {
	_, err := generator.NewLLMPlanner(replying("sorry, no"), true).Plan(context.Background(), romeRequest())

	var perr *generator.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "parse_error", generator.Outcome(err))
}

func TestLLMPlanner_WrongDayCount(t *testing.T) {
	_, err := generator.NewLLMPlanner(replying(string(itineraryJSON(2, nil))), false).Plan(context.Background(), romeRequest())

	assert.Contains(t, validationProblems(t, err), "Expected 3 days but got 2")
}

func TestLLMPlanner_UpstreamError(t *testing.T) {
	c := &fakeCompleter{complete: func(context.Context, llm.CompletionRequest) (string, error) {
		return "", &llm.UpstreamError{StatusCode: 502}
	}}

	_, err := generator.NewLLMPlanner(c, true).Plan(context.Background(), romeRequest())

	var up *llm.UpstreamError
	require.True(t, errors.As(err, &up))
	assert.Equal(t, "upstream_error", generator.Outcome(err))
}

func TestLLMPlanner_InputErrorSkipsUpstream(t *testing.T) {
	c := &fakeCompleter{complete: func(context.Context, llm.CompletionRequest) (string, error) {
		t.Fatal("upstream must not be called for invalid input")
		return "", nil
	}}
	req := romeRequest()
	req.StartDate = ""

	_, err := generator.NewLLMPlanner(c, true).Plan(context.Background(), req)

	assert.Equal(t, "input_error", generator.Outcome(err))
}
