package generator

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// TemplatePlanner fills a fixed morning/lunch/afternoon skeleton for every
// day. Interests become category hints; vibe and trip type flavor the copy.
// Output is deterministic for a given request and passes ValidateItinerary.
type TemplatePlanner struct{}

// NewTemplatePlanner returns the deterministic planner.
func NewTemplatePlanner() *TemplatePlanner { return &TemplatePlanner{} }

type slot struct {
	start, end string
	importance string
	fallback   string
}

var templateSlots = []slot{
	{start: "09:00", end: "11:30", importance: "high", fallback: "Sightseeing"},
	{start: "12:30", end: "14:00", importance: "medium", fallback: "Food"},
	{start: "15:00", end: "17:30", importance: "medium", fallback: "Culture"},
}

type vibeCopy struct {
	adjective string
	note      string
	budget    [3]float64 // per traveler, per slot
}

var vibes = map[string]vibeCopy{
	"relaxed":     {"Leisurely", "Take it slow and leave room for a long coffee break.", [3]float64{20, 25, 20}},
	"adventurous": {"Active", "Wear sturdy shoes; this one gets the heart rate up.", [3]float64{40, 20, 50}},
	"luxury":      {"Premium", "Reserve ahead for the best experience.", [3]float64{120, 90, 150}},
	"budget":      {"Free", "Little or no cost; bring cash for small extras.", [3]float64{0, 12, 5}},
	"family":      {"Family-friendly", "Suitable for all ages with breaks built in.", [3]float64{25, 20, 25}},
}

var defaultVibe = vibeCopy{"Local", "A good introduction to the area.", [3]float64{25, 20, 25}}

// Plan implements Planner.
func (p *TemplatePlanner) Plan(_ context.Context, req ItineraryRequest) (Itinerary, error) {
	start, n, err := req.Span()
	if err != nil {
		return Itinerary{}, err
	}

	dest := strings.TrimSpace(req.Destination)
	v, ok := vibes[strings.ToLower(req.Vibe)]
	if !ok {
		v = defaultVibe
	}
	travelers := max(req.NumTravelers, 1)
	interests := cleanInterests(req.Interests)

	it := Itinerary{Days: make([]ItineraryDay, 0, n)}
	hint := 0
	for d := 0; d < n; d++ {
		day := ItineraryDay{
			DayNumber: d + 1,
			Date:      start.Add(time.Duration(d) * oneDay).Format(time.DateOnly),
		}
		for i, s := range templateSlots {
			category := s.fallback
			if len(interests) > 0 {
				category = interests[hint%len(interests)]
				hint++
			}
			title := slotTitle(i, v.adjective, category, dest)
			day.Activities = append(day.Activities, ItineraryActivity{
				ID:              fmt.Sprintf("act-%d-%d", d+1, i+1),
				StartTime:       s.start,
				EndTime:         s.end,
				Title:           title,
				Category:        category,
				Location:        dest,
				Notes:           slotNotes(v.note, req.TripType),
				BudgetEstimate:  v.budget[i] * float64(travelers),
				BookingRequired: v.budget[i] >= 50,
				Importance:      s.importance,
				Source:          mapsSearchURL(title + " " + dest),
			})
		}
		day.Title = dayTitle(d, n, dest, day.Activities[0].Category)
		it.Days = append(it.Days, day)
	}
	return it, nil
}

func slotTitle(i int, adjective, category, dest string) string {
	switch i {
	case 0:
		return fmt.Sprintf("%s morning of %s in %s", adjective, strings.ToLower(category), dest)
	case 1:
		return fmt.Sprintf("Lunch at a %s spot in %s", strings.ToLower(adjective), dest)
	default:
		return fmt.Sprintf("%s afternoon: %s highlights", adjective, category)
	}
}

func slotNotes(base, tripType string) string {
	switch strings.ToLower(tripType) {
	case "business":
		return base + " Scheduled to fit around meetings."
	case "mixed":
		return base + " Easy to shorten on work days."
	}
	return base
}

func dayTitle(d, n int, dest, category string) string {
	switch {
	case d == 0:
		return "Arrival in " + dest
	case d == n-1:
		return "Last day in " + dest
	}
	return fmt.Sprintf("Day %d: %s", d+1, category)
}

func cleanInterests(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			r, size := utf8.DecodeRuneInString(s)
			out = append(out, string(unicode.ToUpper(r))+s[size:])
		}
	}
	return out
}

func mapsSearchURL(query string) string {
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(query)
}
