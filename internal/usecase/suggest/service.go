// Package suggest completes filter values as the user types a query.
package suggest

import (
	"context"
	"fmt"
	"sort"

	"github.com/docbay-cloud/docbay/internal/domain/search/plan"
	"github.com/docbay-cloud/docbay/internal/metrics"
)

// Suggestion limits.
const (
	DefaultLimit = 10
	MaxLimit     = 50
)

// dimensionFields maps a public suggestion dimension onto the index
// field its values live in.
var dimensionFields = map[string]string{
	"filename": plan.FieldFilename,
	"folder":   plan.FieldFolderPath,
	"tag":      plan.FieldTags,
	"entity":   plan.FieldEntities,
	"category": plan.FieldCategory,
}

// Service handles prefix suggestions over the owner's indexed values.
type Service struct {
	repo Repository
}

// New creates a suggestion service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest returns up to limit distinct values of the dimension starting
// with prefix, case-insensitive, sorted. An unknown dimension yields an
// empty list, not an error, so typing ahead never fails the client.
func (s *Service) Suggest(ctx context.Context, ownerID, dimension, prefix string, limit int) ([]string, error) {
	field, ok := dimensionFields[dimension]
	if !ok {
		return []string{}, nil
	}
	metrics.SuggestQueriesTotal.WithLabelValues(dimension).Inc()
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	values, err := s.repo.SuggestValues(ctx, ownerID, field, prefix, limit)
	if err != nil {
		return nil, fmt.Errorf("suggest %s: %w", dimension, err)
	}

	sort.Strings(values)
	return values, nil
}
