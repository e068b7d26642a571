package docbay

import (
	"context"
	"strings"
)

// QueryBuilder is a fluent builder for query-language searches. It
// assembles the same query string a user would type, so builder and
// typed-in queries go through one parser.
type QueryBuilder struct {
	svc   *SearchService
	parts []string
	opts  SearchOptions
}

// Text adds free-text words.
func (b *QueryBuilder) Text(words ...string) *QueryBuilder {
	b.parts = append(b.parts, words...)
	return b
}

// Phrase adds an exact phrase.
func (b *QueryBuilder) Phrase(phrase string) *QueryBuilder {
	b.parts = append(b.parts, `"`+phrase+`"`)
	return b
}

// Scope restricts free text to filename, content, or summary.
func (b *QueryBuilder) Scope(scope string) *QueryBuilder {
	return b.filter("in", scope)
}

// Type filters by document type (document, receipt, photo, ...).
func (b *QueryBuilder) Type(t string) *QueryBuilder {
	return b.filter("type", t)
}

// Format filters by file format (pdf, jpg, ...).
func (b *QueryBuilder) Format(f string) *QueryBuilder {
	return b.filter("format", f)
}

// Category filters by the raw category value.
func (b *QueryBuilder) Category(c string) *QueryBuilder {
	return b.filter("category", c)
}

// Folder filters by folder path: exact with a leading slash, partial
// otherwise.
func (b *QueryBuilder) Folder(path string) *QueryBuilder {
	return b.filter("folder", path)
}

// Tag requires a tag. Repeated calls require every tag.
func (b *QueryBuilder) Tag(tag string) *QueryBuilder {
	return b.filter("tag", tag)
}

// Entity requires a recognized entity.
func (b *QueryBuilder) Entity(name string) *QueryBuilder {
	return b.filter("entity", name)
}

// Uploaded filters by upload date: a year, a day, a range, or a
// relative keyword like last-month.
func (b *QueryBuilder) Uploaded(value string) *QueryBuilder {
	return b.filter("uploaded", value)
}

// Date filters by the extracted document date.
func (b *QueryBuilder) Date(value string) *QueryBuilder {
	return b.filter("date", value)
}

// Size filters by file size, e.g. ">10mb" or "500kb".
func (b *QueryBuilder) Size(value string) *QueryBuilder {
	return b.filter("size", value)
}

// Has requires a feature: text, summary, or thumbnail.
func (b *QueryBuilder) Has(feature string) *QueryBuilder {
	return b.filter("has", feature)
}

// Not negates a filter, e.g. Not("tag", "archived") or Not("has", "text").
func (b *QueryBuilder) Not(key, value string) *QueryBuilder {
	b.parts = append(b.parts, "-"+key+":"+quoteValue(value))
	return b
}

// Sort sets the result ordering.
func (b *QueryBuilder) Sort(mode string) *QueryBuilder {
	b.opts.Sort = mode
	return b
}

// Limit sets the page size.
func (b *QueryBuilder) Limit(n int) *QueryBuilder {
	b.opts.Limit = n
	return b
}

// Offset sets the page offset.
func (b *QueryBuilder) Offset(n int) *QueryBuilder {
	b.opts.Offset = n
	return b
}

// WithFacets requests facet counts alongside results.
func (b *QueryBuilder) WithFacets() *QueryBuilder {
	b.opts.IncludeFacets = true
	return b
}

// String renders the assembled query string.
func (b *QueryBuilder) String() string {
	return strings.Join(b.parts, " ")
}

// Do executes the search.
func (b *QueryBuilder) Do(ctx context.Context) (*SearchResponse, error) {
	return b.svc.Query(ctx, b.String(), &b.opts)
}

func (b *QueryBuilder) filter(key, value string) *QueryBuilder {
	b.parts = append(b.parts, key+":"+quoteValue(value))
	return b
}

// quoteValue wraps values containing spaces so the tokenizer keeps them
// as one filter value.
func quoteValue(v string) string {
	if strings.ContainsAny(v, " \t") {
		return `"` + v + `"`
	}
	return v
}
