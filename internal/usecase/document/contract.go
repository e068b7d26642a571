package document

import (
	"context"

	"github.com/docbay-cloud/docbay/internal/domain"
)

// Repository defines the storage contract for document records.
type Repository interface {
	EnsureIndex(ctx context.Context) error
	Upsert(ctx context.Context, doc *domain.Document) (bool, error)
	Get(ctx context.Context, ownerID, id string) (domain.Document, error)
	Delete(ctx context.Context, ownerID, id string) error
}
