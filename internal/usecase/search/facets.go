package search

import (
	"context"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/docbay-cloud/docbay/internal/domain/search/plan"
	"github.com/docbay-cloud/docbay/internal/domain/search/query"
	"github.com/docbay-cloud/docbay/internal/domain/search/result"
	"github.com/docbay-cloud/docbay/internal/metrics"
)

// Facet dimension sizes.
const (
	typeFacetLimit   = 10
	formatFacetLimit = 10
	folderFacetLimit = 10
	tagFacetLimit    = 20
	entityFacetLimit = 15

	// categoryScanLimit over-fetches raw categories so alias folding into
	// type names still fills the type facet.
	categoryScanLimit = 50
)

// facets computes every refinement dimension concurrently. Each
// dimension re-renders the plan without its own positive clause, so the
// counts answer "what if I picked a different value here". Dimensions
// with no values are dropped.
func (s *Service) facets(ctx context.Context, p *plan.Plan, q *query.ParsedQuery) ([]result.FacetDimension, error) {
	defer func(started time.Time) {
		metrics.FacetFanoutDuration.Observe(time.Since(started).Seconds())
	}(time.Now())

	dims := make([]result.FacetDimension, 8)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.typeFacet(gctx, p, q, &dims[0]) })
	g.Go(func() error { return s.formatFacet(gctx, p, q, &dims[1]) })
	g.Go(func() error { return s.pathFacet(gctx, p, q, &dims[2]) })
	g.Go(func() error { return s.uploadPeriodFacet(gctx, p, &dims[3]) })
	g.Go(func() error { return s.tagFacet(gctx, p, q, &dims[4]) })
	g.Go(func() error { return s.hasTextFacet(gctx, p, q, &dims[5]) })
	g.Go(func() error { return s.categoryFacet(gctx, p, q, &dims[6]) })
	g.Go(func() error { return s.entityFacet(gctx, p, q, &dims[7]) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]result.FacetDimension, 0, len(dims))
	for _, d := range dims {
		if len(d.Items) > 0 {
			out = append(out, d)
		}
	}
	return out, nil
}

// typeFacet folds raw category counts through the alias table and adds
// the photo pseudo-type from a no-extractable-text count.
func (s *Service) typeFacet(ctx context.Context, p *plan.Plan, q *query.ParsedQuery, out *result.FacetDimension) error {
	raw, err := s.repo.GroupCounts(ctx, p, plan.DimType, plan.FieldCategory, categoryScanLimit)
	if err != nil {
		return err
	}

	counts := make(map[string]int)
	order := make([]string, 0, len(raw))
	for _, item := range raw {
		name := plan.TypeForCategory(item.Name)
		if _, seen := counts[name]; !seen {
			order = append(order, name)
		}
		counts[name] += item.Count
	}

	photos, err := s.repo.CountWhere(ctx, p, plan.DimType,
		plan.Clause{Dim: plan.DimType, Pred: plan.Flag(plan.FieldHasText, false)})
	if err != nil {
		return err
	}
	if photos > 0 {
		if _, seen := counts["photo"]; !seen {
			order = append(order, "photo")
		}
		counts["photo"] = photos
	}

	items := make([]result.FacetItem, 0, len(order))
	for _, name := range order {
		items = append(items, result.FacetItem{
			Name:     name,
			Count:    counts[name],
			Selected: containsFold(q.Filters.Types, name),
		})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Count > items[j].Count })
	if len(items) > typeFacetLimit {
		items = items[:typeFacetLimit]
	}

	*out = result.FacetDimension{Name: "type", Items: items}
	return nil
}

func (s *Service) formatFacet(ctx context.Context, p *plan.Plan, q *query.ParsedQuery, out *result.FacetDimension) error {
	raw, err := s.repo.GroupCounts(ctx, p, plan.DimFormat, plan.FieldMime, formatFacetLimit)
	if err != nil {
		return err
	}
	items := make([]result.FacetItem, len(raw))
	for i, item := range raw {
		name := plan.FormatForMime(item.Name)
		items[i] = result.FacetItem{
			Name:     name,
			Count:    item.Count,
			Selected: containsFold(q.Filters.Formats, name),
		}
	}
	*out = result.FacetDimension{Name: "format", Items: items}
	return nil
}

func (s *Service) pathFacet(ctx context.Context, p *plan.Plan, q *query.ParsedQuery, out *result.FacetDimension) error {
	raw, err := s.repo.GroupCounts(ctx, p, plan.DimFolder, plan.FieldFolderPath, folderFacetLimit)
	if err != nil {
		return err
	}
	for i := range raw {
		raw[i].Selected = containsFold(q.Filters.Folders, raw[i].Name)
	}
	*out = result.FacetDimension{Name: "folder", Items: raw}
	return nil
}

func (s *Service) tagFacet(ctx context.Context, p *plan.Plan, q *query.ParsedQuery, out *result.FacetDimension) error {
	raw, err := s.repo.GroupCounts(ctx, p, plan.DimTag, plan.FieldTags, tagFacetLimit)
	if err != nil {
		return err
	}
	for i := range raw {
		raw[i].Selected = containsFold(q.Filters.Tags, raw[i].Name)
	}
	*out = result.FacetDimension{Name: "tag", Items: raw}
	return nil
}

func (s *Service) categoryFacet(ctx context.Context, p *plan.Plan, q *query.ParsedQuery, out *result.FacetDimension) error {
	raw, err := s.repo.GroupCounts(ctx, p, plan.DimCategory, plan.FieldCategory, typeFacetLimit)
	if err != nil {
		return err
	}
	for i := range raw {
		raw[i].Selected = containsFold(q.Filters.Categories, raw[i].Name)
	}
	*out = result.FacetDimension{Name: "category", Items: raw}
	return nil
}

func (s *Service) entityFacet(ctx context.Context, p *plan.Plan, q *query.ParsedQuery, out *result.FacetDimension) error {
	raw, err := s.repo.GroupCounts(ctx, p, plan.DimEntity, plan.FieldEntities, entityFacetLimit)
	if err != nil {
		return err
	}
	for i := range raw {
		raw[i].Selected = containsFold(q.Filters.Entities, raw[i].Name)
	}
	*out = result.FacetDimension{Name: "entity", Items: raw}
	return nil
}

// uploadPeriodFacet counts fixed upload windows relative to now. A
// grouped count cannot express overlapping buckets, so each window is
// its own count with the uploaded clause swapped out.
func (s *Service) uploadPeriodFacet(ctx context.Context, p *plan.Plan, out *result.FacetDimension) error {
	now := s.now()
	windows := []struct {
		name     string
		min, max *time.Time
	}{
		{name: "7d", min: timePtr(now.AddDate(0, 0, -7))},
		{name: "30d", min: timePtr(now.AddDate(0, 0, -30))},
		{name: "365d", min: timePtr(now.AddDate(0, 0, -365))},
		{name: "older", max: timePtr(now.AddDate(0, 0, -365))},
	}

	items := make([]result.FacetItem, len(windows))
	g, gctx := errgroup.WithContext(ctx)
	for i, w := range windows {
		g.Go(func() error {
			n, err := s.repo.CountWhere(gctx, p, plan.DimUploaded, plan.Clause{
				Dim:  plan.DimUploaded,
				Pred: plan.Range(plan.FieldUploaded, millisBound(w.min), millisBound(w.max)),
			})
			if err != nil {
				return err
			}
			items[i] = result.FacetItem{Name: w.name, Count: n}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	*out = result.FacetDimension{Name: "upload-period", Items: items}
	return nil
}

// hasTextFacet counts documents with and without extractable text.
func (s *Service) hasTextFacet(ctx context.Context, p *plan.Plan, q *query.ParsedQuery, out *result.FacetDimension) error {
	items := make([]result.FacetItem, 2)
	g, gctx := errgroup.WithContext(ctx)
	for i, value := range []bool{true, false} {
		g.Go(func() error {
			n, err := s.repo.CountWhere(gctx, p, plan.DimHasText, plan.Clause{
				Dim:  plan.DimHasText,
				Pred: plan.Flag(plan.FieldHasText, value),
			})
			if err != nil {
				return err
			}
			name := "true"
			if !value {
				name = "false"
			}
			items[i] = result.FacetItem{
				Name:     name,
				Count:    n,
				Selected: hasTextSelected(q, value),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	*out = result.FacetDimension{Name: "has-text", Items: items}
	return nil
}

// hasTextSelected reports whether the query already pins has-text to
// value, through either the positive filter or its negation.
func hasTextSelected(q *query.ParsedQuery, value bool) bool {
	if q.Filters.HasText != nil && *q.Filters.HasText == value {
		return true
	}
	return q.Negations.HasText != nil && *q.Negations.HasText != value
}

func containsFold(values []string, v string) bool {
	for _, candidate := range values {
		if strings.EqualFold(candidate, v) {
			return true
		}
	}
	return false
}

func timePtr(t time.Time) *time.Time { return &t }

func millisBound(t *time.Time) *float64 {
	if t == nil {
		return nil
	}
	v := float64(t.UnixMilli())
	return &v
}
