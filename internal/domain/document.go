package domain

import (
	"time"

	"github.com/google/uuid"
)

// Document is the metadata of a file attached to a trip (tickets, bookings,
// passports). The bytes live in the object store under StoragePath.
type Document struct {
	ID          uuid.UUID
	TripID      uuid.UUID
	FileName    string
	StoragePath string
	MimeType    string
	FileSize    int64
	UploaderID  uuid.UUID
	UploadedAt  time.Time
}
