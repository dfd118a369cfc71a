package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PackingItem is one line of a trip's packing list.
type PackingItem struct {
	ID        uuid.UUID
	TripID    uuid.UUID
	Category  string
	Name      string
	Quantity  int
	Note      string
	Packed    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the fields a caller controls.
func (p PackingItem) Validate() error {
	if strings.TrimSpace(p.Category) == "" {
		return fmt.Errorf("%w: category is required", ErrValidation)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if p.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}
	return nil
}

// PackingGroup is the items of one category, in list order.
type PackingGroup struct {
	Category string
	Items    []PackingItem
	Packed   int
}

// PackingProgress summarises how much of a packing list is packed.
type PackingProgress struct {
	Total   int
	Packed  int
	Percent float64
	Groups  []PackingGroup
}

// SummarizePacking groups items by category (first-seen order) and counts
// packed items. Percent is 0 for an empty list.
func SummarizePacking(items []PackingItem) PackingProgress {
	var p PackingProgress
	index := map[string]int{}
	for _, it := range items {
		i, ok := index[it.Category]
		if !ok {
			i = len(p.Groups)
			index[it.Category] = i
			p.Groups = append(p.Groups, PackingGroup{Category: it.Category})
		}
		p.Groups[i].Items = append(p.Groups[i].Items, it)
		p.Total++
		if it.Packed {
			p.Packed++
			p.Groups[i].Packed++
		}
	}
	if p.Total > 0 {
		p.Percent = float64(p.Packed) / float64(p.Total) * 100
	}
	return p
}
