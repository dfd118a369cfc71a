package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tripcraft/tripcraft/internal/domain"
	"github.com/tripcraft/tripcraft/internal/service"
)

type PackingItemRequest struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	Quantity *int   `json:"quantity,omitempty"`
	Note     string `json:"note"`
	Packed   bool   `json:"packed"`
}

type PackingItem struct {
	ID        uuid.UUID `json:"id"`
	TripID    uuid.UUID `json:"trip_id"`
	Category  string    `json:"category"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Note      string    `json:"note"`
	Packed    bool      `json:"packed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BulkPackingRequest struct {
	Items []PackingItemRequest `json:"items"`
}

// GeneratePackingRequest carries the generator inputs a trip does not store.
type GeneratePackingRequest struct {
	HasChildren bool   `json:"has_children"`
	HasElders   bool   `json:"has_elders"`
	Climate     string `json:"climate"`
}

type PackingGroup struct {
	Category string        `json:"category"`
	Packed   int           `json:"packed"`
	Items    []PackingItem `json:"items"`
}

type PackingProgress struct {
	Total   int            `json:"total"`
	Packed  int            `json:"packed"`
	Percent float64        `json:"percent"`
	Groups  []PackingGroup `json:"groups"`
}

// ListPacking handles GET /trips/{tripId}/packing.
func (s *Server) ListPacking(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	items, err := s.packing.List(r.Context(), tripID)
	if err != nil {
		s.serviceError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, packingItemsToResponse(items))
}

// CreatePackingItem handles POST /trips/{tripId}/packing.
func (s *Server) CreatePackingItem(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	var body PackingItemRequest
	if !decodeBody(w, r, &body) {
		return
	}
	item := requestToPackingItem(tripID, body)
	created, err := s.packing.Create(r.Context(), item)
	if err != nil {
		s.serviceError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusCreated, packingItemToResponse(created))
}

// BulkCreatePacking handles POST /trips/{tripId}/packing/bulk. Either every
// item is stored or none is.
func (s *Server) BulkCreatePacking(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	var body BulkPackingRequest
	if !decodeBody(w, r, &body) {
		return
	}
	items := make([]domain.PackingItem, len(body.Items))
	for i, it := range body.Items {
		items[i] = requestToPackingItem(tripID, it)
	}
	created, err := s.packing.BulkCreate(r.Context(), tripID, items)
	if err != nil {
		s.serviceError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusCreated, packingItemsToResponse(created))
}

// GeneratePacking handles POST /trips/{tripId}/packing/generate.
// The suggested list is returned as a preview unless ?apply=true, in which
// case every suggestion is stored and the new items are returned.
func (s *Server) GeneratePacking(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	var apply *bool
	if !queryParam(w, r, "apply", &apply) {
		return
	}
	var body GeneratePackingRequest
	if r.ContentLength != 0 && !decodeBody(w, r, &body) {
		return
	}
	list, err := s.packing.Suggest(r.Context(), tripID, service.PackingOptions{
		HasChildren: body.HasChildren,
		HasElders:   body.HasElders,
		Climate:     body.Climate,
	})
	if err != nil {
		s.serviceError(w, r, err, "trip")
		return
	}
	if apply == nil || !*apply {
		writeJSON(w, http.StatusOK, list)
		return
	}
	items, err := s.packing.ApplyGenerated(r.Context(), tripID, list)
	if err != nil {
		s.serviceError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusCreated, packingItemsToResponse(items))
}

// GetPackingProgress handles GET /trips/{tripId}/packing/progress.
func (s *Server) GetPackingProgress(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	p, err := s.packing.Progress(r.Context(), tripID)
	if err != nil {
		s.serviceError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, progressToResponse(p))
}

// UpdatePackingItem handles PUT /trips/{tripId}/packing/{itemId}. Toggling
// packed is a full update with the flag flipped.
func (s *Server) UpdatePackingItem(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	itemID, ok := pathUUID(w, r, "itemId")
	if !ok {
		return
	}
	var body PackingItemRequest
	if !decodeBody(w, r, &body) {
		return
	}
	item := requestToPackingItem(tripID, body)
	item.ID = itemID
	updated, err := s.packing.Update(r.Context(), item)
	if err != nil {
		s.serviceError(w, r, err, "packing item")
		return
	}
	writeJSON(w, http.StatusOK, packingItemToResponse(updated))
}

// DeletePackingItem handles DELETE /trips/{tripId}/packing/{itemId}.
func (s *Server) DeletePackingItem(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	itemID, ok := pathUUID(w, r, "itemId")
	if !ok {
		return
	}
	if err := s.packing.Delete(r.Context(), tripID, itemID); err != nil {
		s.serviceError(w, r, err, "packing item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

func requestToPackingItem(tripID uuid.UUID, body PackingItemRequest) domain.PackingItem {
	qty := 1
	if body.Quantity != nil {
		qty = *body.Quantity
	}
	return domain.PackingItem{
		TripID:   tripID,
		Category: body.Category,
		Name:     body.Name,
		Quantity: qty,
		Note:     body.Note,
		Packed:   body.Packed,
	}
}

func packingItemToResponse(p domain.PackingItem) PackingItem {
	return PackingItem{
		ID:        p.ID,
		TripID:    p.TripID,
		Category:  p.Category,
		Name:      p.Name,
		Quantity:  p.Quantity,
		Note:      p.Note,
		Packed:    p.Packed,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func packingItemsToResponse(items []domain.PackingItem) []PackingItem {
	out := make([]PackingItem, len(items))
	for i, it := range items {
		out[i] = packingItemToResponse(it)
	}
	return out
}

func progressToResponse(p domain.PackingProgress) PackingProgress {
	groups := make([]PackingGroup, len(p.Groups))
	for i, g := range p.Groups {
		groups[i] = PackingGroup{Category: g.Category, Packed: g.Packed, Items: packingItemsToResponse(g.Items)}
	}
	return PackingProgress{Total: p.Total, Packed: p.Packed, Percent: p.Percent, Groups: groups}
}
