package search

import (
	"context"

	"github.com/docbay-cloud/docbay/internal/domain/search/plan"
	"github.com/docbay-cloud/docbay/internal/domain/search/result"
)

// Repository defines the plan-execution contract for search operations.
// All four renderings of one compiled plan go through it.
type Repository interface {
	// Find runs the paginated results rendering and returns the page plus
	// the total match count.
	Find(ctx context.Context, p *plan.Plan) ([]result.Document, int, error)

	// Count runs the count rendering: same predicates, no page.
	Count(ctx context.Context, p *plan.Plan) (int, error)

	// GroupCounts counts matches per distinct value of field with the
	// excluded dimension's positive clause dropped, most frequent first.
	GroupCounts(
		ctx context.Context, p *plan.Plan,
		exclude plan.Dimension, field string, limit int,
	) ([]result.FacetItem, error)

	// CountWhere counts matches with the excluded dimension's positive
	// clause replaced by extra clauses.
	CountWhere(ctx context.Context, p *plan.Plan, exclude plan.Dimension, extra ...plan.Clause) (int, error)

	// BodySnippets extracts highlighted body excerpts for a result page
	// in one round trip, keyed by document id.
	BodySnippets(ctx context.Context, p *plan.Plan, ids []string) (map[string]string, error)
}

// DocumentReader batch-reads stored document fields for result assembly.
type DocumentReader interface {
	TagsForDocuments(ctx context.Context, ids []string) (map[string][]string, error)
	SummariesForDocuments(ctx context.Context, ids []string) (map[string]string, error)
}
