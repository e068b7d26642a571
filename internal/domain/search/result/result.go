// Package result holds the response-side projections of a search.
package result

import (
	"time"

	"github.com/docbay-cloud/docbay/internal/domain/search/query"
)

// Document is one search hit: a per-document projection of the fields the
// result list renders. Snippet is nil when no text scope applied.
type Document struct {
	ID         string     `json:"id"`
	Filename   string     `json:"filename"`
	FolderPath string     `json:"folder_path"`
	FolderID   string     `json:"folder_id,omitempty"`
	Category   string     `json:"category,omitempty"`
	Mime       string     `json:"mime"`
	Size       int64      `json:"size"`
	Uploaded   time.Time  `json:"uploaded"`
	DocDate    *time.Time `json:"doc_date,omitempty"`
	HasText    bool       `json:"has_text"`
	Thumbnail  string     `json:"thumbnail,omitempty"`
	Tags       []string   `json:"tags,omitempty"`
	Snippet    *string    `json:"snippet,omitempty"`
	Score      *float64   `json:"score,omitempty"`
}

// FacetItem is one candidate value of a facet dimension. Selected marks
// values already present in the parsed query.
type FacetItem struct {
	Name     string `json:"name"`
	Count    int    `json:"count"`
	Selected bool   `json:"selected"`
}

// FacetDimension is one refinement dimension with its candidate values.
type FacetDimension struct {
	Name  string      `json:"name"`
	Items []FacetItem `json:"items"`
}

// Response is the assembled search response. Query echoes the parsed
// form back to the caller for display of active filters.
type Response struct {
	Total    int               `json:"total"`
	Results  []Document        `json:"results"`
	Facets   []FacetDimension  `json:"facets,omitempty"`
	Query    query.ParsedQuery `json:"query"`
	TimingMs int64             `json:"timing_ms"`
}
