package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/tripcraft/tripcraft/internal/blob"
	"github.com/tripcraft/tripcraft/internal/domain"
	"github.com/tripcraft/tripcraft/internal/realtime"
	"github.com/tripcraft/tripcraft/internal/repo"
)

// UploadInput describes a file being attached to a trip.
type UploadInput struct {
	TripID     uuid.UUID
	UploaderID uuid.UUID
	FileName   string
	MimeType   string
	Body       io.Reader
}

// DocumentService stores document bytes in the object store and their
// metadata in the database.
type DocumentService struct {
	trips  repo.TripRepo
	docs   repo.DocumentRepo
	store  blob.Store
	events Publisher
	logger *slog.Logger
}

// NewDocumentService constructs a DocumentService.
func NewDocumentService(trips repo.TripRepo, docs repo.DocumentRepo, store blob.Store, events Publisher, logger *slog.Logger) *DocumentService {
	return &DocumentService{trips: trips, docs: docs, store: store, events: orNop(events), logger: logger}
}

// Upload writes the bytes, then records the metadata. If recording fails the
// stored object is removed again.
func (s *DocumentService) Upload(ctx context.Context, in UploadInput) (domain.Document, error) {
	name := strings.TrimSpace(path.Base(strings.ReplaceAll(in.FileName, `\`, "/")))
	if name == "" || name == "." || name == "/" {
		return domain.Document{}, fmt.Errorf("%w: file name is required", domain.ErrValidation)
	}
	if _, err := s.trips.GetByID(ctx, in.TripID); err != nil {
		return domain.Document{}, fmt.Errorf("service.DocumentService.Upload: %w", err)
	}

	key := StorageKey(in.TripID, name)
	size, err := s.store.Put(ctx, key, in.Body)
	if err != nil {
		return domain.Document{}, fmt.Errorf("service.DocumentService.Upload: %w", err)
	}

	mime := in.MimeType
	if mime == "" {
		mime = "application/octet-stream"
	}
	doc, err := s.docs.Create(ctx, domain.Document{
		TripID:      in.TripID,
		FileName:    name,
		StoragePath: key,
		MimeType:    mime,
		FileSize:    size,
		UploaderID:  in.UploaderID,
	})
	if err != nil {
		if derr := s.store.Delete(context.WithoutCancel(ctx), key); derr != nil {
			s.logger.WarnContext(ctx, "orphaned document object", "key", key, "error", derr)
		}
		return domain.Document{}, fmt.Errorf("service.DocumentService.Upload: %w", err)
	}
	changed(s.events, realtime.TableDocuments, realtime.OpInsert, doc.TripID, doc.ID)
	return doc, nil
}

// List returns the trip's documents, newest first.
func (s *DocumentService) List(ctx context.Context, tripID uuid.UUID) ([]domain.Document, error) {
	docs, err := s.docs.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.DocumentService.List: %w", err)
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	return docs, nil
}

// Open returns a document's metadata and a reader over its bytes.
// The caller closes the reader.
func (s *DocumentService) Open(ctx context.Context, tripID, docID uuid.UUID) (domain.Document, io.ReadCloser, error) {
	doc, err := s.docs.GetByID(ctx, tripID, docID)
	if err != nil {
		return domain.Document{}, nil, fmt.Errorf("service.DocumentService.Open: %w", err)
	}
	rc, err := s.store.Open(ctx, doc.StoragePath)
	if err != nil {
		return domain.Document{}, nil, fmt.Errorf("service.DocumentService.Open: %w", err)
	}
	return doc, rc, nil
}

// Delete removes the stored object, then the metadata row.
func (s *DocumentService) Delete(ctx context.Context, tripID, docID uuid.UUID) error {
	doc, err := s.docs.GetByID(ctx, tripID, docID)
	if err != nil {
		return fmt.Errorf("service.DocumentService.Delete: %w", err)
	}
	if err := s.store.Delete(ctx, doc.StoragePath); err != nil {
		return fmt.Errorf("service.DocumentService.Delete: %w", err)
	}
	if err := s.docs.Delete(ctx, tripID, docID); err != nil {
		return fmt.Errorf("service.DocumentService.Delete: %w", err)
	}
	changed(s.events, realtime.TableDocuments, realtime.OpDelete, tripID, docID)
	return nil
}

// URL is the public address of a document's bytes.
func (s *DocumentService) URL(doc domain.Document) string {
	return s.store.PublicURL(doc.StoragePath)
}

var extRx = regexp.MustCompile(`^\.[a-z0-9]{1,10}$`)

// StorageKey names the object for a new upload: the trip id, then a ULID so
// keys sort by upload time, then the original extension when it is sane.
func StorageKey(tripID uuid.UUID, fileName string) string {
	key := tripID.String() + "/" + ulid.Make().String()
	if ext := strings.ToLower(path.Ext(fileName)); extRx.MatchString(ext) {
		key += ext
	}
	return key
}
