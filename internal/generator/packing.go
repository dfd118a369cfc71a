package generator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strings"
)

// Packing categories in canonical order.
const (
	CategoryClothing    = "Clothing"
	CategoryToiletries  = "Toiletries"
	CategoryElectronics = "Electronics"
	CategoryDocuments   = "Documents"
	CategoryHealth      = "Health & Safety"
	CategoryMisc        = "Miscellaneous"
)

// PackingCategories lists every category in the order they are emitted.
var PackingCategories = []string{
	CategoryClothing, CategoryToiletries, CategoryElectronics,
	CategoryDocuments, CategoryHealth, CategoryMisc,
}

// Priority tags how important a packing suggestion is.
type Priority string

const (
	PriorityEssential Priority = "essential"
	PriorityImportant Priority = "important"
	PriorityOptional  Priority = "optional"
)

// Climate buckets used by the packing rules.
const (
	ClimateTropical  = "tropical"
	ClimateCold      = "cold"
	ClimateDesert    = "desert"
	ClimateTemperate = "temperate"
)

// PackingRequest is the input to GeneratePackingList. The pointer fields are
// required; a nil one is reported as missing.
type PackingRequest struct {
	Destination  *string `json:"destination"`
	StartDate    *string `json:"startDate"`
	EndDate      *string `json:"endDate"`
	TripType     *string `json:"tripType"`
	Vibe         *string `json:"vibe"`
	NumTravelers *int    `json:"numTravelers"`
	HasChildren  bool    `json:"hasChildren"`
	HasElders    bool    `json:"hasElders"`
	Climate      string  `json:"climate,omitempty"`
}

// PackingSuggestion is one generated item.
type PackingSuggestion struct {
	Name     string   `json:"name"`
	Quantity int      `json:"quantity"`
	Priority Priority `json:"priority"`
	Note     string   `json:"note,omitempty"`
}

// CategoryItems is one non-empty category of a generated list.
type CategoryItems struct {
	Name  string
	Items []PackingSuggestion
}

// Categories serializes as a JSON object whose keys follow PackingCategories.
type Categories []CategoryItems

// MarshalJSON writes the categories as an ordered JSON object.
func (c Categories) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cat := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(cat.Name)
		if err != nil {
			return nil, err
		}
		items, err := json.Marshal(cat.Items)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(items)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Get returns the items of the named category, or nil if it is absent.
func (c Categories) Get(name string) []PackingSuggestion {
	for _, cat := range c {
		if cat.Name == name {
			return cat.Items
		}
	}
	return nil
}

// PackingList is the generated result.
type PackingList struct {
	Categories   Categories `json:"categories"`
	TripDuration int        `json:"tripDuration"`
	Summary      string     `json:"summary"`
}

var climateKeywords = []struct {
	climate  string
	keywords []string
}{
	{ClimateTropical, []string{"bali", "hawaii", "maldives", "caribbean", "thailand"}},
	{ClimateCold, []string{"iceland", "norway", "alaska", "siberia", "canada"}},
	{ClimateDesert, []string{"dubai", "cairo", "sahara", "arizona"}},
}

// InferClimate returns explicit when it is set. Otherwise it matches the
// destination against small keyword sets and falls back to temperate.
// This is a heuristic, not a weather lookup.
func InferClimate(destination, explicit string) string {
	if explicit = strings.ToLower(strings.TrimSpace(explicit)); explicit != "" {
		return explicit
	}
	dest := strings.ToLower(destination)
	for _, set := range climateKeywords {
		for _, kw := range set.keywords {
			if strings.Contains(dest, kw) {
				return set.climate
			}
		}
	}
	return ClimateTemperate
}

func (r PackingRequest) checkRequired() error {
	switch {
	case r.Destination == nil:
		return missingField("destination")
	case r.StartDate == nil:
		return missingField("startDate")
	case r.EndDate == nil:
		return missingField("endDate")
	case r.TripType == nil:
		return missingField("tripType")
	case r.Vibe == nil:
		return missingField("vibe")
	case r.NumTravelers == nil:
		return missingField("numTravelers")
	}
	return nil
}

// GeneratePackingList applies the packing rule set. Missing required fields
// are reported before any generation runs.
func GeneratePackingList(req PackingRequest) (PackingList, error) {
	if err := req.checkRequired(); err != nil {
		return PackingList{}, err
	}
	_, duration, err := dateRange(*req.StartDate, *req.EndDate)
	if err != nil {
		return PackingList{}, err
	}

	p := packingParams{
		duration:    duration,
		climate:     InferClimate(*req.Destination, req.Climate),
		tripType:    strings.ToLower(*req.TripType),
		vibe:        strings.ToLower(*req.Vibe),
		hasChildren: req.HasChildren,
		hasElders:   req.HasElders,
	}

	byCategory := map[string][]PackingSuggestion{
		CategoryClothing:    clothing(p),
		CategoryToiletries:  toiletries(p),
		CategoryElectronics: electronics(p),
		CategoryDocuments:   documents(),
		CategoryHealth:      healthAndSafety(p),
		CategoryMisc:        miscellaneous(p),
	}

	var cats Categories
	for _, name := range PackingCategories {
		if items := byCategory[name]; len(items) > 0 {
			cats = append(cats, CategoryItems{Name: name, Items: items})
		}
	}

	return PackingList{
		Categories:   cats,
		TripDuration: duration,
		Summary: fmt.Sprintf("Packing list for your %d-day %s %s to %s. Climate: %s. "+
			"Pack essentials and important items; optional items can be added based on personal preference and luggage space.",
			duration, *req.Vibe, *req.TripType, *req.Destination, p.climate),
	}, nil
}

type packingParams struct {
	duration    int
	climate     string
	tripType    string
	vibe        string
	hasChildren bool
	hasElders   bool
}

func (p packingParams) hot() bool  { return p.climate == ClimateTropical || p.climate == ClimateDesert }
func (p packingParams) cold() bool { return p.climate == ClimateCold }
func (p packingParams) work() bool { return p.tripType == "business" || p.tripType == "mixed" }

func halfDays(duration int) int { return int(math.Ceil(float64(duration) / 2)) }

func item(name string, qty int, pr Priority, note ...string) PackingSuggestion {
	return PackingSuggestion{Name: name, Quantity: qty, Priority: pr, Note: strings.Join(note, "")}
}

func clothing(p packingParams) []PackingSuggestion {
	pants := 3
	if p.duration < 5 {
		pants = 2
	}
	out := []PackingSuggestion{
		item("T-shirts/casual tops", halfDays(p.duration), PriorityEssential),
		item("Underwear", halfDays(p.duration), PriorityEssential),
		item("Socks", halfDays(p.duration), PriorityEssential),
		item("Comfortable pants/shorts", pants, PriorityEssential),
	}

	switch {
	case p.hot():
		swimsuits := 1
		if p.hasChildren {
			swimsuits = 2
		}
		out = append(out,
			item("Lightweight summer dress/shirt", 1, PriorityImportant),
			item("Shorts", 2, PriorityEssential),
			item("Swimsuit", swimsuits, PriorityImportant),
			item("Hat/cap", 1, PriorityEssential, "UV protection"),
			item("Sunglasses", 1, PriorityEssential),
		)
	case p.cold():
		out = append(out,
			item("Winter jacket", 1, PriorityEssential),
			item("Thermal layers", 2, PriorityEssential),
			item("Winter hat", 1, PriorityEssential),
			item("Gloves", 1, PriorityEssential),
			item("Scarf/neck warmer", 1, PriorityImportant),
			item("Warm socks", 3, PriorityImportant),
			item("Winter boots", 1, PriorityEssential),
		)
	default:
		out = append(out,
			item("Light jacket", 1, PriorityImportant),
			item("Hat", 1, PriorityImportant),
		)
	}

	if p.work() {
		out = append(out,
			item("Business casual outfit", 2, PriorityEssential),
			item("Closed-toe shoes", 1, PriorityEssential),
			item("Business socks/hosiery", 2, PriorityImportant),
		)
	}
	if p.vibe == "luxury" || p.vibe == "adventurous" {
		out = append(out, item("Formal/semi-formal outfit", 1, PriorityImportant, "for dining/events"))
	}
	if p.vibe == "adventurous" {
		out = append(out,
			item("Hiking boots", 1, PriorityImportant),
			item("Athletic wear", 2, PriorityImportant),
			item("Lightweight waterproof jacket", 1, PriorityImportant),
		)
	}
	if p.hasChildren {
		out = append(out,
			item("Children's clothing", halfDays(p.duration), PriorityEssential),
			item("Children's shoes", 2, PriorityEssential),
		)
	}
	if p.hasElders {
		out = append(out,
			item("Comfortable walking shoes", 1, PriorityEssential),
			item("Extra socks", 2, PriorityImportant),
		)
	}

	// Walking shoes may already be listed for elders; keep one entry.
	if !slices.ContainsFunc(out, func(s PackingSuggestion) bool { return s.Name == "Comfortable walking shoes" }) {
		out = append(out, item("Comfortable walking shoes", 1, PriorityEssential))
	}
	return append(out,
		item("Sandals/flip-flops", 1, PriorityImportant),
		item("Sleepwear", 2, PriorityEssential),
	)
}

func toiletries(p packingParams) []PackingSuggestion {
	out := []PackingSuggestion{
		item("Toothbrush & toothpaste", 1, PriorityEssential),
		item("Deodorant", 1, PriorityEssential),
		item("Shampoo/body wash", 1, PriorityEssential, "travel-size or solid bar"),
		item("Conditioner", 1, PriorityImportant),
		item("Moisturizer", 1, PriorityImportant),
		item("Sunscreen", 1, PriorityEssential, "SPF 30+"),
		item("Lip balm with SPF", 1, PriorityImportant),
		item("Feminine hygiene products", p.duration, PriorityEssential, "if needed"),
		item("Razor & shaving cream", 1, PriorityOptional),
		item("Hairbrush/comb", 1, PriorityImportant),
		item("Hair ties/clips", 1, PriorityOptional),
		item("Nail clippers", 1, PriorityOptional),
		item("Medications (prescription)", p.duration, PriorityEssential, "full supply"),
		item("Pain relievers (ibuprofen/paracetamol)", 1, PriorityImportant),
		item("Antacid", 1, PriorityOptional),
		item("Toilet paper/wet wipes", 1, PriorityImportant, "as backup"),
	}
	if p.hot() {
		out = append(out,
			item("Insect repellent", 1, PriorityImportant, "DEET-based"),
			item("After-sun lotion", 1, PriorityImportant),
		)
	}
	if p.hasChildren {
		out = append(out,
			item("Children's toiletries", 1, PriorityEssential),
			item("Diapers/pull-ups", p.duration*4, PriorityEssential),
		)
	}
	return out
}

func electronics(p packingParams) []PackingSuggestion {
	out := []PackingSuggestion{
		item("Phone & charger", 1, PriorityEssential),
		item("Phone power bank", 1, PriorityImportant, "5000mAh minimum"),
		item("Charging cables", 2, PriorityEssential, "USB-C and backup"),
		item("Universal power adapter", 1, PriorityEssential),
		item("Headphones/earbuds", 1, PriorityImportant),
		item("Camera", 1, PriorityOptional),
		item("E-reader", 1, PriorityOptional),
		item("Laptop/tablet", 1, PriorityOptional, "if needed for work"),
	}
	if p.work() {
		out = append(out,
			item("Laptop & charger", 1, PriorityEssential),
			item("Portable mouse", 1, PriorityImportant),
		)
	}
	return out
}

func documents() []PackingSuggestion {
	return []PackingSuggestion{
		item("Passport", 1, PriorityEssential),
		item("Travel insurance documents", 1, PriorityEssential),
		item("Flight tickets/confirmation", 1, PriorityEssential, "digital & printed"),
		item("Hotel reservations", 1, PriorityEssential, "confirmation numbers"),
		item("ID/Driving license", 1, PriorityEssential),
		item("Credit/debit cards", 1, PriorityEssential, "multiple cards recommended"),
		item("Cash", 1, PriorityImportant, "local currency"),
		item("Emergency contacts", 1, PriorityImportant, "written backup"),
		item("Travel plan/itinerary", 1, PriorityImportant, "shared with family"),
		item("Visa/entry permits", 1, PriorityEssential, "if required"),
	}
}

func healthAndSafety(p packingParams) []PackingSuggestion {
	out := []PackingSuggestion{
		item("First aid kit", 1, PriorityImportant, "band-aids, antiseptic, gauze"),
		item("Antibacterial hand sanitizer", 1, PriorityImportant),
		item("Eye drops", 1, PriorityOptional),
		item("Allergy medication", 1, PriorityOptional),
		item("Sleep aid/melatonin", 1, PriorityOptional),
		item("Nausea/motion sickness medication", 1, PriorityImportant),
		item("Thermometer", 1, PriorityOptional),
		item("Water bottle", 1, PriorityImportant, "refillable, 500-1000ml"),
	}
	if p.hot() {
		out = append(out,
			item("Electrolyte tablets", 1, PriorityImportant),
			item("Cooling towel", 1, PriorityOptional),
		)
	}
	return out
}

func miscellaneous(p packingParams) []PackingSuggestion {
	out := []PackingSuggestion{
		item("Luggage locks", 1, PriorityImportant),
		item("Travel pillow", 1, PriorityOptional),
		item("Sleep mask", 1, PriorityOptional),
		item("Earplugs", 1, PriorityOptional),
		item("Wet bag", 1, PriorityImportant, "for damp clothes"),
		item("Packing cubes", 1, PriorityOptional),
		item("Laundry bag", 1, PriorityImportant),
		item("Portable laundry detergent", 1, PriorityOptional),
		item("Notebook & pen", 1, PriorityOptional),
		item("Book/reading material", 1, PriorityOptional),
		item("Entertainment items", 1, PriorityOptional),
		item("Luggage tags", 1, PriorityImportant),
		item("Zip-lock bags", 1, PriorityImportant, "various sizes"),
		item("Duct tape", 1, PriorityOptional, "wrapped on cardboard"),
	}
	if p.hasChildren {
		out = append(out,
			item("Toys/games", 1, PriorityOptional),
			item("Snacks", 1, PriorityImportant),
			item("Child entertainment", 1, PriorityImportant, "tablets, books"),
		)
	}
	return out
}
