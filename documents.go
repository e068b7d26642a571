package docbay

import (
	"context"
	"fmt"
	"time"

	"github.com/docbay-cloud/docbay/internal/domain"
	documentuc "github.com/docbay-cloud/docbay/internal/usecase/document"
)

// Document is one searchable record. Body, Summary, Category and the
// entity lists come from the caller's enrichment pipeline; docbay only
// indexes them.
type Document struct {
	ID          string
	Filename    string
	FolderPath  string
	FolderID    string
	Mime        string
	Size        int64
	Category    string
	Uploaded    time.Time
	DocDate     *time.Time
	Body        string
	Summary     string
	Thumbnail   string
	Tags        []string
	Entities    []string
	KeyEntities []string
}

// DocumentService manages one owner's document records.
type DocumentService struct {
	owner string
	svc   *documentuc.Service
}

// Upsert creates or updates a document record. Returns true if created.
func (s *DocumentService) Upsert(ctx context.Context, doc Document) (bool, error) {
	d := toInternalDocument(s.owner, doc)
	created, err := s.svc.Upsert(ctx, &d)
	if err != nil {
		return false, fmt.Errorf("upsert: %w", err)
	}
	return created, nil
}

// Get retrieves a document record by ID.
func (s *DocumentService) Get(ctx context.Context, id string) (Document, error) {
	d, err := s.svc.Get(ctx, s.owner, id)
	if err != nil {
		return Document{}, fmt.Errorf("get: %w", err)
	}
	return fromInternalDocument(d), nil
}

// Delete removes a document record by ID.
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	if err := s.svc.Delete(ctx, s.owner, id); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

func toInternalDocument(owner string, doc Document) domain.Document {
	return domain.Document{
		ID:          doc.ID,
		OwnerID:     owner,
		Filename:    doc.Filename,
		FolderPath:  doc.FolderPath,
		FolderID:    doc.FolderID,
		Mime:        doc.Mime,
		Size:        doc.Size,
		Category:    doc.Category,
		Uploaded:    doc.Uploaded,
		DocDate:     doc.DocDate,
		Body:        doc.Body,
		Summary:     doc.Summary,
		Thumbnail:   doc.Thumbnail,
		Tags:        doc.Tags,
		Entities:    doc.Entities,
		KeyEntities: doc.KeyEntities,
	}
}

func fromInternalDocument(d domain.Document) Document {
	return Document{
		ID:          d.ID,
		Filename:    d.Filename,
		FolderPath:  d.FolderPath,
		FolderID:    d.FolderID,
		Mime:        d.Mime,
		Size:        d.Size,
		Category:    d.Category,
		Uploaded:    d.Uploaded,
		DocDate:     d.DocDate,
		Body:        d.Body,
		Summary:     d.Summary,
		Thumbnail:   d.Thumbnail,
		Tags:        d.Tags,
		Entities:    d.Entities,
		KeyEntities: d.KeyEntities,
	}
}
