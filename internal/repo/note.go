package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tripcraft/tripcraft/internal/domain"
)

// NoteRepo defines the persistence operations for day notes.
// A note is addressed by (trip_id, day_number), never by its own id.
type NoteRepo interface {
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Note, error)
	GetByDay(ctx context.Context, tripID uuid.UUID, dayNumber int) (domain.Note, error)
	// Upsert writes the note text for the day, creating the note if needed.
	// An existing ai_summary is kept.
	Upsert(ctx context.Context, n domain.Note) (domain.Note, error)
	// SetSummary stores the AI summary, creating an empty note if needed.
	SetSummary(ctx context.Context, tripID uuid.UUID, dayNumber int, summary string) (domain.Note, error)
}

type pgNoteRepo struct {
	db db
}

// NewNoteRepo constructs a NoteRepo backed by the provided db connection.
func NewNoteRepo(db db) NoteRepo {
	return &pgNoteRepo{db: db}
}

const noteColumns = `id, trip_id, day_number, text, ai_summary, created_at, updated_at`

func (r *pgNoteRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Note, error) {
	const q = `SELECT ` + noteColumns + ` FROM notes WHERE trip_id = @trip_id ORDER BY day_number`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.NoteRepo.ListByTrip: %w", err)
	}
	out, err := collect(rows, scanNote)
	if err != nil {
		return nil, fmt.Errorf("repo.NoteRepo.ListByTrip: %w", err)
	}
	return out, nil
}

func (r *pgNoteRepo) GetByDay(ctx context.Context, tripID uuid.UUID, dayNumber int) (domain.Note, error) {
	const q = `SELECT ` + noteColumns + ` FROM notes WHERE trip_id = @trip_id AND day_number = @day_number`

	result, err := scanNote(r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID, "day_number": dayNumber}))
	if err != nil {
		return domain.Note{}, fmt.Errorf("repo.NoteRepo.GetByDay: %w", mapErr(err))
	}
	return result, nil
}

func (r *pgNoteRepo) Upsert(ctx context.Context, n domain.Note) (domain.Note, error) {
	const q = `
		INSERT INTO notes (trip_id, day_number, text)
		VALUES (@trip_id, @day_number, @text)
		ON CONFLICT (trip_id, day_number)
		DO UPDATE SET text = EXCLUDED.text, updated_at = now()
		RETURNING ` + noteColumns

	args := pgx.NamedArgs{"trip_id": n.TripID, "day_number": n.DayNumber, "text": n.Text}
	result, err := scanNote(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Note{}, fmt.Errorf("repo.NoteRepo.Upsert: %w", mapErr(err))
	}
	return result, nil
}

func (r *pgNoteRepo) SetSummary(ctx context.Context, tripID uuid.UUID, dayNumber int, summary string) (domain.Note, error) {
	const q = `
		INSERT INTO notes (trip_id, day_number, ai_summary)
		VALUES (@trip_id, @day_number, @ai_summary)
		ON CONFLICT (trip_id, day_number)
		DO UPDATE SET ai_summary = EXCLUDED.ai_summary, updated_at = now()
		RETURNING ` + noteColumns

	args := pgx.NamedArgs{"trip_id": tripID, "day_number": dayNumber, "ai_summary": summary}
	result, err := scanNote(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Note{}, fmt.Errorf("repo.NoteRepo.SetSummary: %w", mapErr(err))
	}
	return result, nil
}

func scanNote(s scanner) (domain.Note, error) {
	var (
		n          domain.Note
		id, tripID pgtype.UUID
	)
	if err := s.Scan(&id, &tripID, &n.DayNumber, &n.Text, &n.AISummary, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return domain.Note{}, err
	}
	n.ID = uuid.UUID(id.Bytes)
	n.TripID = uuid.UUID(tripID.Bytes)
	return n, nil
}
