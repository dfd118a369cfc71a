package generator

import "strings"

// MaxRecommendations caps the size of a recommendation set.
const MaxRecommendations = 5

// Recommendation is one suggestion for a destination.
type Recommendation struct {
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	EstimatedCost float64 `json:"estimatedCost"`
	Location      string  `json:"location"`
}

func candidates(dest string) []Recommendation {
	return []Recommendation{
		{"Top-rated restaurant in " + dest, "Experience authentic local cuisine at this highly-rated establishment", "Food", 75, dest},
		{"Historic city tour", "Guided walking tour through the historic district", "Culture", 45, dest},
		{"Local market visit", "Explore the vibrant local markets and shop for souvenirs", "Shopping", 30, dest},
		{"Sunset viewpoint", "Watch the sunset from the best vantage point in the city", "Nature", 0, dest},
		{"Museum visit", "Discover the rich history and art at the local museum", "Art", 20, dest},
	}
}

// Recommend filters the fixed candidate list to those whose category contains
// (case-insensitively) at least one interest. No interests keeps every
// candidate. Candidate order is preserved and the result is capped at
// MaxRecommendations. The result is never nil.
func Recommend(destination string, interests []string) []Recommendation {
	out := []Recommendation{}
	for _, c := range candidates(destination) {
		if len(interests) == 0 || matchesAny(c.Category, interests) {
			out = append(out, c)
		}
		if len(out) == MaxRecommendations {
			break
		}
	}
	return out
}

func matchesAny(category string, interests []string) bool {
	category = strings.ToLower(category)
	for _, in := range interests {
		if strings.Contains(category, strings.ToLower(in)) {
			return true
		}
	}
	return false
}
