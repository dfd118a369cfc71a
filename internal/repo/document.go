package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tripcraft/tripcraft/internal/domain"
)

// DocumentRepo persists document metadata. File bytes live in the blob store.
type DocumentRepo interface {
	Create(ctx context.Context, d domain.Document) (domain.Document, error)
	GetByID(ctx context.Context, tripID, docID uuid.UUID) (domain.Document, error)
	// ListByTrip returns documents newest first.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Document, error)
	Delete(ctx context.Context, tripID, docID uuid.UUID) error
}

type pgDocumentRepo struct {
	db db
}

// NewDocumentRepo constructs a DocumentRepo backed by the provided db connection.
func NewDocumentRepo(db db) DocumentRepo {
	return &pgDocumentRepo{db: db}
}

const documentColumns = `id, trip_id, file_name, storage_path, mime_type, file_size, uploader_id, uploaded_at`

func (r *pgDocumentRepo) Create(ctx context.Context, d domain.Document) (domain.Document, error) {
	const q = `
		INSERT INTO documents (trip_id, file_name, storage_path, mime_type, file_size, uploader_id)
		VALUES (@trip_id, @file_name, @storage_path, @mime_type, @file_size, @uploader_id)
		RETURNING ` + documentColumns

	args := pgx.NamedArgs{
		"trip_id":      d.TripID,
		"file_name":    d.FileName,
		"storage_path": d.StoragePath,
		"mime_type":    d.MimeType,
		"file_size":    d.FileSize,
		"uploader_id":  d.UploaderID,
	}
	result, err := scanDocument(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Document{}, fmt.Errorf("repo.DocumentRepo.Create: %w", mapErr(err))
	}
	return result, nil
}

func (r *pgDocumentRepo) GetByID(ctx context.Context, tripID, docID uuid.UUID) (domain.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE id = @id AND trip_id = @trip_id`

	result, err := scanDocument(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": docID, "trip_id": tripID}))
	if err != nil {
		return domain.Document{}, fmt.Errorf("repo.DocumentRepo.GetByID: %w", mapErr(err))
	}
	return result, nil
}

func (r *pgDocumentRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE trip_id = @trip_id
		ORDER BY uploaded_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.DocumentRepo.ListByTrip: %w", err)
	}
	out, err := collect(rows, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("repo.DocumentRepo.ListByTrip: %w", err)
	}
	return out, nil
}

func (r *pgDocumentRepo) Delete(ctx context.Context, tripID, docID uuid.UUID) error {
	const q = `DELETE FROM documents WHERE id = @id AND trip_id = @trip_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": docID, "trip_id": tripID})
	if err != nil {
		return fmt.Errorf("repo.DocumentRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.DocumentRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func scanDocument(s scanner) (domain.Document, error) {
	var (
		d                    domain.Document
		id, tripID, uploader pgtype.UUID
	)
	err := s.Scan(&id, &tripID, &d.FileName, &d.StoragePath, &d.MimeType, &d.FileSize, &uploader, &d.UploadedAt)
	if err != nil {
		return domain.Document{}, err
	}
	d.ID = uuid.UUID(id.Bytes)
	d.TripID = uuid.UUID(tripID.Bytes)
	d.UploaderID = uuid.UUID(uploader.Bytes)
	return d, nil
}
