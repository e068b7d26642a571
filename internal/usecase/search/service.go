// Package search orchestrates one search request end to end: parse,
// validate, compile, fan out the plan's renderings, and assemble the
// response.
package search

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/docbay-cloud/docbay/internal/domain"
	"github.com/docbay-cloud/docbay/internal/domain/search/plan"
	"github.com/docbay-cloud/docbay/internal/domain/search/query"
	"github.com/docbay-cloud/docbay/internal/domain/search/request"
	"github.com/docbay-cloud/docbay/internal/domain/search/result"
	"github.com/docbay-cloud/docbay/internal/metrics"
)

// Service handles query-language search over the owner's documents.
type Service struct {
	repo Repository
	docs DocumentReader
	now  func() time.Time
}

// New creates a search service.
func New(repo Repository, docs DocumentReader) *Service {
	return &Service{repo: repo, docs: docs, now: time.Now}
}

// WithClock fixes the instant relative dates resolve against. For tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Search executes a search request: results, total, and optional facets
// run concurrently over one compiled plan, then tags and snippets attach
// in batched passes.
func (s *Service) Search(ctx context.Context, req *request.Request) (*result.Response, error) {
	started := s.now()

	q := query.ParseString(req.QueryString())
	req.Structured().MergeInto(&q)

	if problems := q.Problems(); len(problems) > 0 {
		metrics.SearchQueriesTotal.WithLabelValues("invalid").Inc()
		return nil, domain.NewInvalidQuery(problems)
	}

	p := plan.Compile(&q, req.OwnerID(), plan.Options{
		Sort:   req.Sort(),
		Limit:  req.Limit(),
		Offset: req.Offset(),
	}, started)

	var (
		docs   []result.Document
		total  int
		facets []result.FacetDimension
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		docs, _, err = s.repo.Find(gctx, p)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx, p)
		return err
	})
	if req.IncludeFacets() {
		g.Go(func() error {
			var err error
			facets, err = s.facets(gctx, p, &q)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		metrics.SearchQueriesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	if err := s.assemble(ctx, p, docs); err != nil {
		metrics.SearchQueriesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.SearchQueriesTotal.WithLabelValues("ok").Inc()
	metrics.SearchDuration.Observe(time.Since(started).Seconds())

	return &result.Response{
		Total:    total,
		Results:  docs,
		Facets:   facets,
		Query:    q,
		TimingMs: time.Since(started).Milliseconds(),
	}, nil
}

// FacetsOnly computes facet counts for a query without fetching a result
// page. Backs the facet refresh endpoint.
func (s *Service) FacetsOnly(ctx context.Context, queryString, ownerID string) ([]result.FacetDimension, error) {
	req, err := request.New(queryString, ownerID, "", 0, 0, true, request.StructuredFilters{})
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	q := query.ParseString(req.QueryString())
	if problems := q.Problems(); len(problems) > 0 {
		return nil, domain.NewInvalidQuery(problems)
	}

	p := plan.Compile(&q, req.OwnerID(), plan.Options{Sort: req.Sort()}, s.now())
	return s.facets(ctx, p, &q)
}

// assemble attaches tags and snippets to a result page. Both are single
// batched round trips keyed by the page's id set, never per-row.
func (s *Service) assemble(ctx context.Context, p *plan.Plan, docs []result.Document) error {
	if len(docs) == 0 {
		return nil
	}

	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}

	var (
		tags     map[string][]string
		snippets map[string]string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tags, err = s.docs.TagsForDocuments(gctx, ids)
		return err
	})
	if p.FullText() != "" {
		g.Go(func() error {
			var err error
			snippets, err = s.repo.BodySnippets(gctx, p, ids)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i := range docs {
		docs[i].Tags = tags[docs[i].ID]
	}
	if p.FullText() != "" {
		if err := s.attachSnippets(ctx, p.FullText(), docs, snippets); err != nil {
			return err
		}
	}
	return nil
}
