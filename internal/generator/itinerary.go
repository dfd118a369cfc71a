package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// MaxItineraryDays bounds the date range a single generation may cover.
const MaxItineraryDays = 60

// ItineraryRequest is the input to every Planner.
type ItineraryRequest struct {
	TripID       string   `json:"tripId,omitempty"` // opaque, echoed for correlation only
	Destination  string   `json:"destination"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	TripType     string   `json:"tripType"`
	Vibe         string   `json:"vibe"`
	Interests    []string `json:"interests"`
	NumTravelers int      `json:"numTravelers"`
}

// Span validates the request and returns the first day and the inclusive
// number of days it covers.
func (r ItineraryRequest) Span() (time.Time, int, error) {
	if strings.TrimSpace(r.Destination) == "" {
		return time.Time{}, 0, missingField("destination")
	}
	if r.NumTravelers < 0 {
		return time.Time{}, 0, invalidField("numTravelers", "numTravelers must not be negative")
	}
	start, n, err := dateRange(r.StartDate, r.EndDate)
	if err != nil {
		return time.Time{}, 0, err
	}
	if n > MaxItineraryDays {
		return time.Time{}, 0, invalidField("endDate", "trips longer than %d days cannot be generated", MaxItineraryDays)
	}
	return start, n, nil
}

// Itinerary is a generated day-by-day plan.
type Itinerary struct {
	Days []ItineraryDay `json:"days"`
}

// ItineraryDay is one day of a generated plan.
type ItineraryDay struct {
	DayNumber  int                 `json:"dayNumber"`
	Title      string              `json:"title"`
	Date       string              `json:"date"`
	Activities []ItineraryActivity `json:"activities"`
}

// ItineraryActivity is one generated activity. Times are "HH:MM".
type ItineraryActivity struct {
	ID              string  `json:"id"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	Title           string  `json:"title"`
	Category        string  `json:"category"`
	Location        string  `json:"location"`
	Notes           string  `json:"notes"`
	BudgetEstimate  float64 `json:"budgetEstimate"`
	BookingRequired bool    `json:"bookingRequired"`
	Importance      string  `json:"importance"`
	Source          string  `json:"source"`
}

// Planner produces an itinerary for a request.
type Planner interface {
	Plan(ctx context.Context, req ItineraryRequest) (Itinerary, error)
}

var (
	requiredStringFields = []string{"id", "title", "category", "location", "startTime", "endTime", "importance", "source"}
	requiredOrder        = []string{"id", "title", "category", "location", "startTime", "endTime", "budgetEstimate", "bookingRequired", "importance", "source"}
)

// ValidateItinerary checks a decoded JSON document against the itinerary
// schema and returns the typed itinerary. Every problem is collected; any
// problem at all yields a *ValidationError and no itinerary.
func ValidateItinerary(raw []byte, expectedDays int) (Itinerary, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Itinerary{}, &ParseError{Raw: string(raw), Err: err}
	}

	if problems := checkItinerary(doc, expectedDays); len(problems) > 0 {
		return Itinerary{}, &ValidationError{Problems: problems}
	}

	var it Itinerary
	if err := json.Unmarshal(raw, &it); err != nil {
		return Itinerary{}, &ValidationError{Problems: []string{"itinerary does not match schema: " + err.Error()}}
	}
	return it, nil
}

func checkItinerary(doc any, expectedDays int) []string {
	root, _ := doc.(map[string]any)
	days, ok := root["days"].([]any)
	if !ok {
		return []string{"Missing days array"}
	}

	var problems []string
	if len(days) != expectedDays {
		problems = append(problems, fmt.Sprintf("Expected %d days but got %d", expectedDays, len(days)))
	}
	for d, rawDay := range days {
		day, _ := rawDay.(map[string]any)
		if _, ok := day["dayNumber"].(float64); !ok {
			problems = append(problems, fmt.Sprintf("day %d missing dayNumber", d))
		}
		if !nonEmptyString(day["title"]) {
			problems = append(problems, fmt.Sprintf("day %d missing title", d))
		}
		if !nonEmptyString(day["date"]) {
			problems = append(problems, fmt.Sprintf("day %d missing date", d))
		}
		acts, _ := day["activities"].([]any)
		if len(acts) == 0 {
			problems = append(problems, fmt.Sprintf("day %d has no activities", d))
		}
		for a, rawAct := range acts {
			act, _ := rawAct.(map[string]any)
			problems = append(problems, checkActivity(act, d, a)...)
		}
	}
	return problems
}

func checkActivity(act map[string]any, d, a int) []string {
	var problems []string
	for _, f := range requiredOrder {
		v, present := act[f]
		if !present || v == nil || v == "" {
			problems = append(problems, fmt.Sprintf("day %d activity %d missing %s", d, a, f))
		}
	}
	for _, f := range requiredStringFields {
		if v, present := act[f]; present && v != nil {
			if _, ok := v.(string); !ok {
				problems = append(problems, fmt.Sprintf("day %d activity %d %s is not a string", d, a, f))
			}
		}
	}
	if v, present := act["budgetEstimate"]; present && v != nil {
		if _, ok := v.(float64); !ok {
			problems = append(problems, fmt.Sprintf("day %d activity %d budgetEstimate is not a number", d, a))
		}
	}
	if v, present := act["bookingRequired"]; present && v != nil {
		if _, ok := v.(bool); !ok {
			problems = append(problems, fmt.Sprintf("day %d activity %d bookingRequired is not a boolean", d, a))
		}
	}
	if src, ok := act["source"].(string); ok && src != "" && !isHTTPURL(src) {
		problems = append(problems, fmt.Sprintf("day %d activity %d source is not a URL", d, a))
	}
	return problems
}

func nonEmptyString(v any) bool {
	s, ok := v.(string)
	return ok && s != ""
}

// isHTTPURL reports whether s is an absolute http or https URL with a host.
func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
