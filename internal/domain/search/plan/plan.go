// Package plan turns a parsed query into a predicate plan: an ordered,
// dimension-tagged set of predicates that the store layer renders three
// ways (results, count, per-facet) without duplicating filter logic.
package plan

import "github.com/docbay-cloud/docbay/internal/domain/search/sortmode"

// Index field names of the document index. Shared vocabulary between the
// compiler and the store rendering.
const (
	FieldOwner       = "owner"
	FieldDocID       = "doc_id"
	FieldFilename    = "filename"
	FieldFolderPath  = "folder_path"
	FieldFolderID    = "folder_id"
	FieldMime        = "mime"
	FieldSize        = "size"
	FieldCategory    = "category"
	FieldUploaded    = "uploaded"
	FieldDocDate     = "doc_date"
	FieldHasText     = "has_text"
	FieldHasSummary  = "has_summary"
	FieldHasThumb    = "has_thumb"
	FieldSummary     = "summary"
	FieldBody        = "body"
	FieldTags        = "tags"
	FieldEntities    = "entities"
	FieldKeyEntities = "key_entities"
)

// Dimension names the filter dimension a clause came from, so facet
// queries can drop exactly the clause of the dimension being counted.
type Dimension string

// Clause dimensions.
const (
	DimOwner      Dimension = "owner"
	DimText       Dimension = "text"
	DimType       Dimension = "type"
	DimFormat     Dimension = "format"
	DimCategory   Dimension = "category"
	DimFolder     Dimension = "folder"
	DimFolderID   Dimension = "folder_id"
	DimTag        Dimension = "tag"
	DimEntity     Dimension = "entity"
	DimUploaded   Dimension = "uploaded"
	DimDocDate    Dimension = "doc_date"
	DimHasText    Dimension = "has_text"
	DimHasSummary Dimension = "has_summary"
	DimHasThumb   Dimension = "has_thumb"
	DimSize       Dimension = "size"
)

// Kind discriminates the predicate union.
type Kind int

// Predicate kinds.
const (
	// KindTag is an exact match against a TAG field, any-of across values.
	KindTag Kind = iota
	// KindInfix is a substring match against a TAG or TEXT field.
	KindInfix
	// KindPrefix is a starts-with match against a TAG or TEXT field.
	KindPrefix
	// KindText is a tokenized, relevance-ranked text match.
	KindText
	// KindRange is an inclusive numeric range; nil bounds are open.
	KindRange
	// KindFlag requires a boolean field to hold the given value.
	KindFlag
	// KindOr is satisfied when any child is.
	KindOr
	// KindNot inverts its single child.
	KindNot
)

// Predicate is one node of the closed predicate union. Construct values
// through the Tag/Infix/Text/Range/Flag/Or/Not constructors.
type Predicate struct {
	kind     Kind
	field    string
	values   []string
	min, max *float64
	flag     bool
	children []Predicate
}

// Tag creates an exact-match predicate, satisfied by any of the values.
func Tag(field string, values ...string) Predicate {
	return Predicate{kind: KindTag, field: field, values: values}
}

// Infix creates a substring-match predicate.
func Infix(field, value string) Predicate {
	return Predicate{kind: KindInfix, field: field, values: []string{value}}
}

// Prefix creates a starts-with predicate.
func Prefix(field, value string) Predicate {
	return Predicate{kind: KindPrefix, field: field, values: []string{value}}
}

// Text creates a ranked text-match predicate.
func Text(field, query string) Predicate {
	return Predicate{kind: KindText, field: field, values: []string{query}}
}

// Range creates an inclusive numeric range predicate. A nil bound leaves
// that side open.
func Range(field string, min, max *float64) Predicate {
	return Predicate{kind: KindRange, field: field, min: min, max: max}
}

// Flag creates a boolean-field predicate.
func Flag(field string, value bool) Predicate {
	return Predicate{kind: KindFlag, field: field, flag: value}
}

// Or combines predicates so that any one satisfies the group.
func Or(preds ...Predicate) Predicate {
	if len(preds) == 1 {
		return preds[0]
	}
	return Predicate{kind: KindOr, children: preds}
}

// Not inverts a predicate.
func Not(p Predicate) Predicate {
	return Predicate{kind: KindNot, children: []Predicate{p}}
}

// Kind returns the predicate kind.
func (p Predicate) Kind() Kind { return p.kind }

// Field returns the index field the predicate applies to.
func (p Predicate) Field() string { return p.field }

// Values returns the match values (tag values, infix needle, text query).
func (p Predicate) Values() []string { return p.values }

// Min returns the inclusive lower bound, nil when open.
func (p Predicate) Min() *float64 { return p.min }

// Max returns the inclusive upper bound, nil when open.
func (p Predicate) Max() *float64 { return p.max }

// FlagValue returns the required boolean value.
func (p Predicate) FlagValue() bool { return p.flag }

// Children returns nested predicates for Or and Not nodes.
func (p Predicate) Children() []Predicate { return p.children }

// Clause is one dimension-tagged predicate. Clauses combine with AND.
type Clause struct {
	Dim  Dimension
	Pred Predicate
	// Negated marks clauses compiled from the query's negation set. Facet
	// queries drop only the positive clause of their own dimension;
	// negated clauses always stay.
	Negated bool
}

// Plan is the compiled query: predicates plus sort and pagination. The
// same plan backs the results query, the count query, and every facet
// query; only the rendering differs.
type Plan struct {
	clauses  []Clause
	sort     sortmode.Mode
	limit    int
	offset   int
	fullText string
}

// Clauses returns the plan's clauses, skipping positive clauses of the
// excluded dimensions. Used by facet queries to count "what if I picked a
// different value here".
func (p *Plan) Clauses(exclude ...Dimension) []Clause {
	if len(exclude) == 0 {
		return p.clauses
	}
	skip := make(map[Dimension]struct{}, len(exclude))
	for _, d := range exclude {
		skip[d] = struct{}{}
	}
	out := make([]Clause, 0, len(p.clauses))
	for _, c := range p.clauses {
		if _, ok := skip[c.Dim]; ok && !c.Negated {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Sort returns the result ordering.
func (p *Plan) Sort() sortmode.Mode { return p.sort }

// Limit returns the page size. Applies only to the results rendering.
func (p *Plan) Limit() int { return p.limit }

// Offset returns the page offset. Applies only to the results rendering.
func (p *Plan) Offset() int { return p.offset }

// FullText returns the free-text portion of the query, used for snippet
// extraction alongside the ranked body match.
func (p *Plan) FullText() string { return p.fullText }
