package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tripcraft/tripcraft/internal/domain"
)

// PackingRepo defines the persistence operations for packing items.
type PackingRepo interface {
	Create(ctx context.Context, item domain.PackingItem) (domain.PackingItem, error)
	// CreateBatch inserts items in one round trip, returning them in input order.
	CreateBatch(ctx context.Context, items []domain.PackingItem) ([]domain.PackingItem, error)
	GetByID(ctx context.Context, tripID, itemID uuid.UUID) (domain.PackingItem, error)
	// ListByTrip returns items ordered by category, then creation time.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.PackingItem, error)
	Update(ctx context.Context, item domain.PackingItem) (domain.PackingItem, error)
	Delete(ctx context.Context, tripID, itemID uuid.UUID) error
}

type pgPackingRepo struct {
	db db
}

// NewPackingRepo constructs a PackingRepo backed by the provided db connection.
func NewPackingRepo(db db) PackingRepo {
	return &pgPackingRepo{db: db}
}

const packingColumns = `id, trip_id, category, item_name, quantity, note, packed, created_at, updated_at`

const insertPacking = `
		INSERT INTO packing_items (trip_id, category, item_name, quantity, note, packed)
		VALUES (@trip_id, @category, @item_name, @quantity, @note, @packed)
		RETURNING ` + packingColumns

func packingArgs(p domain.PackingItem) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":        p.ID,
		"trip_id":   p.TripID,
		"category":  p.Category,
		"item_name": p.Name,
		"quantity":  p.Quantity,
		"note":      p.Note,
		"packed":    p.Packed,
	}
}

func (r *pgPackingRepo) Create(ctx context.Context, item domain.PackingItem) (domain.PackingItem, error) {
	result, err := scanPackingItem(r.db.QueryRow(ctx, insertPacking, packingArgs(item)))
	if err != nil {
		return domain.PackingItem{}, fmt.Errorf("repo.PackingRepo.Create: %w", mapErr(err))
	}
	return result, nil
}

func (r *pgPackingRepo) CreateBatch(ctx context.Context, items []domain.PackingItem) ([]domain.PackingItem, error) {
	if len(items) == 0 {
		return []domain.PackingItem{}, nil
	}
	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(insertPacking, packingArgs(it))
	}
	br := r.db.SendBatch(ctx, batch)
	defer br.Close()

	out := make([]domain.PackingItem, 0, len(items))
	for range items {
		it, err := scanPackingItem(br.QueryRow())
		if err != nil {
			return nil, fmt.Errorf("repo.PackingRepo.CreateBatch: %w", mapErr(err))
		}
		out = append(out, it)
	}
	return out, nil
}

func (r *pgPackingRepo) GetByID(ctx context.Context, tripID, itemID uuid.UUID) (domain.PackingItem, error) {
	const q = `SELECT ` + packingColumns + ` FROM packing_items WHERE id = @id AND trip_id = @trip_id`

	result, err := scanPackingItem(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": itemID, "trip_id": tripID}))
	if err != nil {
		return domain.PackingItem{}, fmt.Errorf("repo.PackingRepo.GetByID: %w", mapErr(err))
	}
	return result, nil
}

func (r *pgPackingRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.PackingItem, error) {
	const q = `
		SELECT ` + packingColumns + `
		FROM packing_items
		WHERE trip_id = @trip_id
		ORDER BY category, created_at, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.PackingRepo.ListByTrip: %w", err)
	}
	out, err := collect(rows, scanPackingItem)
	if err != nil {
		return nil, fmt.Errorf("repo.PackingRepo.ListByTrip: %w", err)
	}
	return out, nil
}

func (r *pgPackingRepo) Update(ctx context.Context, item domain.PackingItem) (domain.PackingItem, error) {
	const q = `
		UPDATE packing_items
		SET category   = @category,
		    item_name  = @item_name,
		    quantity   = @quantity,
		    note       = @note,
		    packed     = @packed,
		    updated_at = now()
		WHERE id = @id AND trip_id = @trip_id
		RETURNING ` + packingColumns

	result, err := scanPackingItem(r.db.QueryRow(ctx, q, packingArgs(item)))
	if err != nil {
		return domain.PackingItem{}, fmt.Errorf("repo.PackingRepo.Update: %w", mapErr(err))
	}
	return result, nil
}

func (r *pgPackingRepo) Delete(ctx context.Context, tripID, itemID uuid.UUID) error {
	const q = `DELETE FROM packing_items WHERE id = @id AND trip_id = @trip_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": itemID, "trip_id": tripID})
	if err != nil {
		return fmt.Errorf("repo.PackingRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.PackingRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func scanPackingItem(s scanner) (domain.PackingItem, error) {
	var (
		p          domain.PackingItem
		id, tripID pgtype.UUID
	)
	err := s.Scan(&id, &tripID, &p.Category, &p.Name, &p.Quantity, &p.Note, &p.Packed,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.PackingItem{}, err
	}
	p.ID = uuid.UUID(id.Bytes)
	p.TripID = uuid.UUID(tripID.Bytes)
	return p, nil
}
