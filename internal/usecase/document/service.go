// Package document handles ingest and removal of document records.
package document

import (
	"context"
	"fmt"
	"time"

	"github.com/docbay-cloud/docbay/internal/domain"
)

// Service handles document record CRUD.
type Service struct {
	repo Repository
	now  func() time.Time
}

// New creates a document service.
func New(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// EnsureIndex creates the search index if missing. Called at startup.
func (s *Service) EnsureIndex(ctx context.Context) error {
	if err := s.repo.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("ensure index: %w", err)
	}
	return nil
}

// Upsert validates and stores a document record. Returns true if the
// record was created, false if updated.
func (s *Service) Upsert(ctx context.Context, doc *domain.Document) (bool, error) {
	if doc.Uploaded.IsZero() {
		doc.Uploaded = s.now()
	}
	if err := doc.Validate(); err != nil {
		return false, fmt.Errorf("%w: %w", domain.ErrInvalidDocument, err)
	}

	created, err := s.repo.Upsert(ctx, doc)
	if err != nil {
		return false, fmt.Errorf("upsert document: %w", err)
	}
	return created, nil
}

// Get returns a document record, scoped to the owner.
func (s *Service) Get(ctx context.Context, ownerID, id string) (domain.Document, error) {
	doc, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		return domain.Document{}, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// Delete removes a document record, scoped to the owner.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}
