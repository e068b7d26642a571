// Package request holds the validated input of one search call.
package request

import (
	"fmt"
	"time"

	"github.com/docbay-cloud/docbay/internal/domain/search/query"
	"github.com/docbay-cloud/docbay/internal/domain/search/sortmode"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed query string length.
	MaxQueryLength = 2048
	DefaultLimit   = 20
	MaxLimit       = 100
)

// StructuredFilters are caller-supplied filters set outside the query
// string (folder tree clicks, category chips, date pickers). They merge
// additively into the parsed query and never override parsed values.
type StructuredFilters struct {
	Categories     []string
	FolderIDs      []string
	UploadedAfter  *time.Time
	UploadedBefore *time.Time
}

// Request is a validated search request.
type Request struct {
	queryString   string
	ownerID       string
	sort          sortmode.Mode
	limit         int
	offset        int
	includeFacets bool
	structured    StructuredFilters
}

// New validates and normalizes search parameters.
// Defaults: sort=recency, limit=20. Limit is clamped to MaxLimit.
func New(
	queryString, ownerID string,
	sort sortmode.Mode,
	limit, offset int,
	includeFacets bool,
	structured StructuredFilters,
) (Request, error) {
	if ownerID == "" {
		return Request{}, fmt.Errorf("owner id is required")
	}
	if len(queryString) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if sort == "" {
		sort = sortmode.Recency
	}
	if !sort.IsValid() {
		return Request{}, fmt.Errorf("invalid sort mode: %q", sort)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}

	return Request{
		queryString:   queryString,
		ownerID:       ownerID,
		sort:          sort,
		limit:         limit,
		offset:        offset,
		includeFacets: includeFacets,
		structured:    structured,
	}, nil
}

// QueryString returns the raw query string.
func (r *Request) QueryString() string { return r.queryString }

// OwnerID returns the owner scope of the request.
func (r *Request) OwnerID() string { return r.ownerID }

// Sort returns the result ordering.
func (r *Request) Sort() sortmode.Mode { return r.sort }

// Limit returns the page size.
func (r *Request) Limit() int { return r.limit }

// Offset returns the page offset.
func (r *Request) Offset() int { return r.offset }

// IncludeFacets reports whether facet counts were requested.
func (r *Request) IncludeFacets() bool { return r.includeFacets }

// Structured returns the caller-supplied structured filters.
func (r *Request) Structured() StructuredFilters { return r.structured }

// MergeInto adds the structured filters to a parsed query. Values append
// to the positive filter lists; date bounds fill only sides the query
// string left open, so parsed filters are never overridden.
func (f StructuredFilters) MergeInto(q *query.ParsedQuery) {
	q.Filters.Categories = append(q.Filters.Categories, f.Categories...)
	q.Filters.FolderIDs = append(q.Filters.FolderIDs, f.FolderIDs...)

	if f.UploadedAfter == nil && f.UploadedBefore == nil {
		return
	}
	if q.Filters.Uploaded == nil {
		q.Filters.Uploaded = &query.DateRange{}
	}
	r := q.Filters.Uploaded
	if r.Relative != "" {
		// A relative keyword already bounds the range fully.
		return
	}
	if r.Start == nil && f.UploadedAfter != nil {
		r.Start = f.UploadedAfter
	}
	if r.End == nil && f.UploadedBefore != nil {
		r.End = f.UploadedBefore
	}
}
