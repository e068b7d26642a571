package db

import "github.com/docbay-cloud/docbay/internal/domain/search/plan"

// SortSpec orders a result page. ByScore means the store's relevance
// score orders the page and no SORTBY field applies.
type SortSpec struct {
	Field   string
	Desc    bool
	ByScore bool
}

// SearchQuery is the input for a paginated document search.
type SearchQuery struct {
	IndexName    string
	Clauses      []plan.Clause
	Sort         SortSpec
	Limit        int
	Offset       int
	ReturnFields []string
	WithScores   bool
}

// CountQuery is the input for a match count. Same clauses as a search,
// no sort, no pagination.
type CountQuery struct {
	IndexName string
	Clauses   []plan.Clause
}

// GroupCountQuery is the input for a grouped facet count: how many
// matches per distinct value of GroupField.
type GroupCountQuery struct {
	IndexName  string
	Clauses    []plan.Clause
	GroupField string
	Limit      int
}

// GroupCountEntry is one value+count pair of a grouped count.
type GroupCountEntry struct {
	Value string
	Count int
}

// SnippetQuery is the input for batched excerpt extraction: one store
// round trip covering the whole result id set.
type SnippetQuery struct {
	IndexName string
	// Clauses restrict the highlight pass to the page's documents plus
	// the text clause being highlighted.
	Clauses []plan.Clause
	// Field is the text field to summarize and highlight.
	Field string
	// IDField is the TAG field holding the document id, used to key the
	// returned map.
	IDField string
	// FragmentLen is the summarizer fragment length in words.
	FragmentLen int
	Limit       int
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
