package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/tripcraft/tripcraft/internal/domain"
	"github.com/tripcraft/tripcraft/internal/service"
)

type Document struct {
	ID         uuid.UUID `json:"id"`
	TripID     uuid.UUID `json:"trip_id"`
	FileName   string    `json:"file_name"`
	MimeType   string    `json:"mime_type"`
	FileSize   int64     `json:"file_size"`
	UploaderID uuid.UUID `json:"uploader_id"`
	UploadedAt time.Time `json:"uploaded_at"`
	URL        string    `json:"url"`
}

// ListDocuments handles GET /trips/{tripId}/documents.
func (s *Server) ListDocuments(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	docs, err := s.documents.List(r.Context(), tripID)
	if err != nil {
		s.serviceError(w, r, err, "trip")
		return
	}
	out := make([]Document, len(docs))
	for i, d := range docs {
		out[i] = s.documentToResponse(d)
	}
	writeJSON(w, http.StatusOK, out)
}

// UploadDocument handles POST /trips/{tripId}/documents. The body is
// multipart/form-data with the file in the "file" part; the part is streamed
// to the object store without buffering the whole upload.
func (s *Server) UploadDocument(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	mr, err := r.MultipartReader()
	if err != nil {
		requestError(w, "multipart/form-data body is required")
		return
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			requestError(w, `form field "file" is required`)
			return
		}
		if err != nil {
			if isTooLarge(err) {
				writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
				return
			}
			requestError(w, "invalid multipart body")
			return
		}
		if part.FormName() != "file" {
			_ = part.Close()
			continue
		}

		doc, err := s.documents.Upload(r.Context(), service.UploadInput{
			TripID:     tripID,
			UploaderID: currentUser(r),
			FileName:   part.FileName(),
			MimeType:   part.Header.Get("Content-Type"),
			Body:       part,
		})
		_ = part.Close()
		if err != nil {
			s.serviceError(w, r, err, "trip")
			return
		}
		writeJSON(w, http.StatusCreated, s.documentToResponse(doc))
		return
	}
}

// GetDocumentContent handles GET /trips/{tripId}/documents/{docId}/content.
func (s *Server) GetDocumentContent(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	docID, ok := pathUUID(w, r, "docId")
	if !ok {
		return
	}
	doc, body, err := s.documents.Open(r.Context(), tripID, docID)
	if err != nil {
		s.serviceError(w, r, err, "document")
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", doc.MimeType)
	w.Header().Set("Content-Length", strconv.FormatInt(doc.FileSize, 10))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.FileName}))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		s.logger.WarnContext(r.Context(), "document download interrupted", "document_id", docID, "error", err)
	}
}

// DeleteDocument handles DELETE /trips/{tripId}/documents/{docId}.
func (s *Server) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	docID, ok := pathUUID(w, r, "docId")
	if !ok {
		return
	}
	if err := s.documents.Delete(r.Context(), tripID, docID); err != nil {
		s.serviceError(w, r, err, "document")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) documentToResponse(d domain.Document) Document {
	return Document{
		ID:         d.ID,
		TripID:     d.TripID,
		FileName:   d.FileName,
		MimeType:   d.MimeType,
		FileSize:   d.FileSize,
		UploaderID: d.UploaderID,
		UploadedAt: d.UploadedAt,
		URL:        s.documents.URL(d),
	}
}
