package docbay

import (
	"context"
	"fmt"
	"time"

	"github.com/docbay-cloud/docbay/internal/domain/search/request"
	"github.com/docbay-cloud/docbay/internal/domain/search/result"
	"github.com/docbay-cloud/docbay/internal/domain/search/sortmode"
	searchuc "github.com/docbay-cloud/docbay/internal/usecase/search"
	suggestuc "github.com/docbay-cloud/docbay/internal/usecase/suggest"
)

// SearchService executes query-language searches for one owner.
type SearchService struct {
	owner string
	svc   *searchuc.Service
}

// SearchOptions configures a search call.
type SearchOptions struct {
	// Sort is one of relevance, recency, uploaded, date, filename, size.
	Sort          string
	Limit         int
	Offset        int
	IncludeFacets bool

	// Structured filters merge additively with the query string.
	Categories     []string
	FolderIDs      []string
	UploadedAfter  *time.Time
	UploadedBefore *time.Time
}

// SearchResult is one hit of a search.
type SearchResult struct {
	ID         string
	Filename   string
	FolderPath string
	FolderID   string
	Category   string
	Mime       string
	Size       int64
	Uploaded   time.Time
	DocDate    *time.Time
	HasText    bool
	Thumbnail  string
	Tags       []string
	// Snippet is a highlighted excerpt; empty without free text.
	Snippet string
	// Score is the relevance score; 0 unless sorted by relevance.
	Score float64
}

// FacetValue is one candidate refinement value.
type FacetValue struct {
	Name     string
	Count    int
	Selected bool
}

// Facet is one refinement dimension.
type Facet struct {
	Name   string
	Values []FacetValue
}

// SearchResponse is the assembled result of one search.
type SearchResponse struct {
	Total    int
	Results  []SearchResult
	Facets   []Facet
	TimingMs int64
}

// Query executes a query-language search.
func (s *SearchService) Query(ctx context.Context, query string, opts *SearchOptions) (*SearchResponse, error) {
	if opts == nil {
		opts = &SearchOptions{}
	}

	req, err := request.New(
		query, s.owner,
		sortmode.Mode(opts.Sort),
		opts.Limit, opts.Offset,
		opts.IncludeFacets,
		request.StructuredFilters{
			Categories:     opts.Categories,
			FolderIDs:      opts.FolderIDs,
			UploadedAfter:  opts.UploadedAfter,
			UploadedBefore: opts.UploadedBefore,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	resp, err := s.svc.Search(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return fromSearchResponse(resp), nil
}

// NewQuery returns a fluent builder that executes through this service.
func (s *SearchService) NewQuery() *QueryBuilder {
	return &QueryBuilder{svc: s}
}

// SuggestService completes filter values for one owner.
type SuggestService struct {
	owner string
	svc   *suggestuc.Service
}

// Values returns up to limit values of the dimension starting with
// prefix. Dimensions: filename, folder, tag, entity, category.
func (s *SuggestService) Values(ctx context.Context, dimension, prefix string, limit int) ([]string, error) {
	values, err := s.svc.Suggest(ctx, s.owner, dimension, prefix, limit)
	if err != nil {
		return nil, fmt.Errorf("suggest: %w", err)
	}
	return values, nil
}

func fromSearchResponse(resp *result.Response) *SearchResponse {
	out := &SearchResponse{
		Total:    resp.Total,
		Results:  make([]SearchResult, len(resp.Results)),
		TimingMs: resp.TimingMs,
	}
	for i := range resp.Results {
		out.Results[i] = fromSearchResult(&resp.Results[i])
	}
	for _, f := range resp.Facets {
		facet := Facet{Name: f.Name, Values: make([]FacetValue, len(f.Items))}
		for j, item := range f.Items {
			facet.Values[j] = FacetValue{Name: item.Name, Count: item.Count, Selected: item.Selected}
		}
		out.Facets = append(out.Facets, facet)
	}
	return out
}

func fromSearchResult(d *result.Document) SearchResult {
	r := SearchResult{
		ID:         d.ID,
		Filename:   d.Filename,
		FolderPath: d.FolderPath,
		FolderID:   d.FolderID,
		Category:   d.Category,
		Mime:       d.Mime,
		Size:       d.Size,
		Uploaded:   d.Uploaded,
		DocDate:    d.DocDate,
		HasText:    d.HasText,
		Thumbnail:  d.Thumbnail,
		Tags:       d.Tags,
	}
	if d.Snippet != nil {
		r.Snippet = *d.Snippet
	}
	if d.Score != nil {
		r.Score = *d.Score
	}
	return r
}
