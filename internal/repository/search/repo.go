// Package search executes compiled query plans against the document
// index: the result page, the match count, facet counts, and batched
// snippet extraction all render the same plan.
package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/docbay-cloud/docbay/internal/db"
	"github.com/docbay-cloud/docbay/internal/domain/search/plan"
	"github.com/docbay-cloud/docbay/internal/domain/search/result"
	"github.com/docbay-cloud/docbay/internal/domain/search/sortmode"
	"github.com/docbay-cloud/docbay/internal/repository/document"
)

// snippetFragmentWords sizes the store-side summarizer fragment,
// roughly matching the 160-character excerpt budget.
const snippetFragmentWords = 24

// store is the consumer interface for plan execution (ISP).
type store interface {
	Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error)
	Count(ctx context.Context, q *db.CountQuery) (int, error)
	GroupCount(ctx context.Context, q *db.GroupCountQuery) ([]db.GroupCountEntry, error)
	Snippets(ctx context.Context, q *db.SnippetQuery) (map[string]string, error)
}

// Repo implements usecase/search.Repository.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// returnFields is the projection a result page needs. Body and summary
// stay out; snippets come from their own batched pass.
var returnFields = []string{
	plan.FieldDocID,
	plan.FieldFilename,
	plan.FieldFolderPath,
	plan.FieldFolderID,
	plan.FieldCategory,
	plan.FieldMime,
	plan.FieldSize,
	plan.FieldUploaded,
	plan.FieldDocDate,
	plan.FieldHasText,
	document.ThumbnailField,
}

// Find runs the result-page rendering of a plan and returns the page
// plus the total match count.
func (r *Repo) Find(ctx context.Context, p *plan.Plan) ([]result.Document, int, error) {
	withScores := p.Sort() == sortmode.Relevance

	res, err := r.store.Search(ctx, &db.SearchQuery{
		IndexName:    document.IndexName,
		Clauses:      p.Clauses(),
		Sort:         sortSpec(p.Sort()),
		Limit:        p.Limit(),
		Offset:       p.Offset(),
		ReturnFields: returnFields,
		WithScores:   withScores,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("search: %w", err)
	}

	docs := make([]result.Document, 0, len(res.Entries))
	for _, e := range res.Entries {
		docs = append(docs, entryToDocument(e, withScores))
	}
	orderPage(docs, p.Sort())
	return docs, res.Total, nil
}

// Count runs the count rendering of a plan: same predicates, no page.
func (r *Repo) Count(ctx context.Context, p *plan.Plan) (int, error) {
	n, err := r.store.Count(ctx, &db.CountQuery{
		IndexName: document.IndexName,
		Clauses:   p.Clauses(),
	})
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// GroupCounts counts matches per distinct value of field, with the
// positive clause of the excluded dimension dropped so the facet offers
// alternatives to the current selection. Most frequent first.
func (r *Repo) GroupCounts(ctx context.Context, p *plan.Plan, exclude plan.Dimension, field string, limit int) ([]result.FacetItem, error) {
	entries, err := r.store.GroupCount(ctx, &db.GroupCountQuery{
		IndexName:  document.IndexName,
		Clauses:    p.Clauses(exclude),
		GroupField: field,
		Limit:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("group count %s: %w", field, err)
	}
	items := make([]result.FacetItem, 0, len(entries))
	for _, e := range entries {
		if e.Value == "" {
			continue
		}
		items = append(items, result.FacetItem{Name: e.Value, Count: e.Count})
	}
	return items, nil
}

// CountWhere counts matches of a plan with the excluded dimension's
// positive clause replaced by extra clauses. Backs bucketed facets
// (upload period, text presence) where a grouped count cannot.
func (r *Repo) CountWhere(ctx context.Context, p *plan.Plan, exclude plan.Dimension, extra ...plan.Clause) (int, error) {
	clauses := append(p.Clauses(exclude), extra...)
	n, err := r.store.Count(ctx, &db.CountQuery{
		IndexName: document.IndexName,
		Clauses:   clauses,
	})
	if err != nil {
		return 0, fmt.Errorf("count where: %w", err)
	}
	return n, nil
}

// BodySnippets extracts highlighted body excerpts for a result page in
// one store round trip, keyed by document id. Documents whose body does
// not match the plan's free text yield no entry; the caller falls back
// to summary and filename excerpts.
func (r *Repo) BodySnippets(ctx context.Context, p *plan.Plan, ids []string) (map[string]string, error) {
	text := p.FullText()
	if text == "" || len(ids) == 0 {
		return map[string]string{}, nil
	}

	clauses := []plan.Clause{
		{Dim: plan.DimOwner, Pred: plan.Tag(plan.FieldDocID, ids...)},
		{Dim: plan.DimText, Pred: plan.Text(plan.FieldBody, text)},
	}
	out, err := r.store.Snippets(ctx, &db.SnippetQuery{
		IndexName:   document.IndexName,
		Clauses:     clauses,
		Field:       plan.FieldBody,
		IDField:     plan.FieldDocID,
		FragmentLen: snippetFragmentWords,
		Limit:       len(ids),
	})
	if err != nil {
		return nil, fmt.Errorf("snippets: %w", err)
	}
	return out, nil
}

// SuggestValues returns distinct values of an indexed field starting
// with prefix, scoped to the owner, most frequent first.
func (r *Repo) SuggestValues(ctx context.Context, ownerID, field, prefix string, limit int) ([]string, error) {
	clauses := []plan.Clause{
		{Dim: plan.DimOwner, Pred: plan.Tag(plan.FieldOwner, ownerID)},
	}
	if prefix != "" {
		clauses = append(clauses, plan.Clause{Dim: plan.DimText, Pred: plan.Prefix(field, prefix)})
	}

	// Over-fetch: multi-value TAG rows and case differences shrink the
	// set during the prefix filter below.
	entries, err := r.store.GroupCount(ctx, &db.GroupCountQuery{
		IndexName:  document.IndexName,
		Clauses:    clauses,
		GroupField: field,
		Limit:      limit * 4,
	})
	if err != nil {
		return nil, fmt.Errorf("suggest %s: %w", field, err)
	}

	lowerPrefix := strings.ToLower(prefix)
	seen := make(map[string]struct{}, len(entries))
	values := make([]string, 0, limit)
	for _, e := range entries {
		if e.Value == "" {
			continue
		}
		if !strings.HasPrefix(strings.ToLower(e.Value), lowerPrefix) {
			continue
		}
		if _, ok := seen[e.Value]; ok {
			continue
		}
		seen[e.Value] = struct{}{}
		values = append(values, e.Value)
		if len(values) == limit {
			break
		}
	}
	return values, nil
}

// sortSpec maps a sort mode onto the store's single-field ordering.
func sortSpec(mode sortmode.Mode) db.SortSpec {
	switch mode {
	case sortmode.Relevance:
		return db.SortSpec{ByScore: true}
	case sortmode.DocDate:
		return db.SortSpec{Field: plan.FieldDocDate, Desc: true}
	case sortmode.Filename:
		return db.SortSpec{Field: plan.FieldFilename}
	case sortmode.Size:
		return db.SortSpec{Field: plan.FieldSize, Desc: true}
	default:
		return db.SortSpec{Field: plan.FieldUploaded, Desc: true}
	}
}

// orderPage applies the tie-break the store's single SORTBY cannot:
// equal scores and equal document dates fall back to upload time,
// newest first. Stable, so the store order holds otherwise.
func orderPage(docs []result.Document, mode sortmode.Mode) {
	switch mode {
	case sortmode.Relevance:
		sort.SliceStable(docs, func(i, j int) bool {
			si, sj := scoreOf(docs[i]), scoreOf(docs[j])
			if si != sj {
				return si > sj
			}
			return docs[i].Uploaded.After(docs[j].Uploaded)
		})
	case sortmode.DocDate:
		sort.SliceStable(docs, func(i, j int) bool {
			di, dj := dateOf(docs[i]), dateOf(docs[j])
			if !di.Equal(dj) {
				return di.After(dj)
			}
			return docs[i].Uploaded.After(docs[j].Uploaded)
		})
	}
}
