// Package document persists document records as indexed hashes.
package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/docbay-cloud/docbay/internal/db"
	"github.com/docbay-cloud/docbay/internal/domain"
	"github.com/docbay-cloud/docbay/internal/domain/search/plan"
)

// store is the consumer interface for documents (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HMGetMulti(ctx context.Context, keys []string, fields []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
}

// Repo implements usecase/document.Repository.
type Repo struct {
	store store
}

// New creates a document repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// EnsureIndex creates the document index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	err := r.store.CreateIndex(ctx, IndexDefinition())
	if errors.Is(err, db.ErrIndexExists) {
		return nil
	}
	return err
}

// Upsert creates or updates a document record, scoped to the owner.
// Returns true if created.
func (r *Repo) Upsert(ctx context.Context, doc *domain.Document) (bool, error) {
	key := docKey(doc.ID)

	owners, err := r.store.HMGetMulti(ctx, []string{key}, []string{plan.FieldOwner})
	if err != nil {
		return false, fmt.Errorf("check owner %s: %w", key, err)
	}
	exists := len(owners) == 1 && owners[0][plan.FieldOwner] != ""
	// Ids are global; a record held by another owner is never
	// overwritten, matching the Get and Delete scoping.
	if exists && owners[0][plan.FieldOwner] != doc.OwnerID {
		return false, domain.ErrDocumentNotFound
	}

	if err := r.store.HSet(ctx, key, buildHashFields(doc)); err != nil {
		return false, fmt.Errorf("hset %s: %w", key, err)
	}

	return !exists, nil
}

// Get returns a document by id, scoped to the owner.
func (r *Repo) Get(ctx context.Context, ownerID, id string) (domain.Document, error) {
	m, err := r.store.HGetAll(ctx, docKey(id))
	if err != nil {
		return domain.Document{}, fmt.Errorf("hgetall %s: %w", docKey(id), err)
	}
	// HGETALL on a missing key returns an empty map, not an error.
	if len(m) == 0 || m[plan.FieldOwner] != ownerID {
		return domain.Document{}, domain.ErrDocumentNotFound
	}
	return parseHashFields(m), nil
}

// Delete removes a document record, scoped to the owner.
func (r *Repo) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := r.Get(ctx, ownerID, id); err != nil {
		return err
	}
	if err := r.store.Del(ctx, docKey(id)); err != nil {
		return fmt.Errorf("del %s: %w", docKey(id), err)
	}
	return nil
}

// TagsForDocuments fetches tag lists for a result page in one pipelined
// round trip, keyed by document id. Missing documents yield no entry.
func (r *Repo) TagsForDocuments(ctx context.Context, ids []string) (map[string][]string, error) {
	if len(ids) == 0 {
		return map[string][]string{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = docKey(id)
	}

	maps, err := r.store.HMGetMulti(ctx, keys, []string{plan.FieldTags})
	if err != nil {
		return nil, fmt.Errorf("fetch tag lists: %w", err)
	}

	out := make(map[string][]string, len(ids))
	for i, m := range maps {
		if len(m) == 0 {
			continue
		}
		out[ids[i]] = SplitValues(m[plan.FieldTags])
	}
	return out, nil
}

// SummariesForDocuments fetches summaries for a result page in one
// pipelined round trip, keyed by document id. Documents without a
// summary yield no entry.
func (r *Repo) SummariesForDocuments(ctx context.Context, ids []string) (map[string]string, error) {
	if len(ids) == 0 {
		return map[string]string{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = docKey(id)
	}

	maps, err := r.store.HMGetMulti(ctx, keys, []string{plan.FieldSummary})
	if err != nil {
		return nil, fmt.Errorf("fetch summaries: %w", err)
	}

	out := make(map[string]string, len(ids))
	for i, m := range maps {
		if s := m[plan.FieldSummary]; s != "" {
			out[ids[i]] = s
		}
	}
	return out, nil
}
