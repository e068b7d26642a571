package plan

import (
	"strings"
	"time"

	"github.com/docbay-cloud/docbay/internal/domain/search/query"
	"github.com/docbay-cloud/docbay/internal/domain/search/scope"
	"github.com/docbay-cloud/docbay/internal/domain/search/sortmode"
)

// Options carries pagination and ordering for the results rendering.
type Options struct {
	Sort   sortmode.Mode
	Limit  int
	Offset int
}

// Compile builds the predicate plan for one request. Relative date
// ranges resolve against now here, not at parse time, so a retried
// request re-resolves against a fresh instant. Compile performs no I/O
// and cannot fail; inconsistent input is the validator's job.
func Compile(q *query.ParsedQuery, ownerID string, opts Options, now time.Time) *Plan {
	p := &Plan{
		limit:    opts.Limit,
		offset:   opts.Offset,
		fullText: q.FullText,
	}

	// Owner scope is always the first clause and is never skippable.
	p.clauses = append(p.clauses, Clause{Dim: DimOwner, Pred: Tag(FieldOwner, ownerID)})

	if q.FullText != "" {
		p.clauses = append(p.clauses, Clause{Dim: DimText, Pred: textPredicate(q.Scope, q.FullText)})
	}

	for _, c := range filterClauses(&q.Filters, now) {
		p.clauses = append(p.clauses, c)
	}
	for _, c := range filterClauses(&q.Negations, now) {
		p.clauses = append(p.clauses, Clause{Dim: c.Dim, Pred: Not(c.Pred), Negated: true})
	}

	p.sort = opts.Sort
	if !p.sort.IsValid() {
		p.sort = sortmode.Recency
	}
	// Relevance needs text to rank against.
	if p.sort == sortmode.Relevance && q.FullText == "" {
		p.sort = sortmode.Recency
	}

	return p
}

// textPredicate builds the free-text clause for the requested scope.
func textPredicate(s scope.Scope, text string) Predicate {
	switch s {
	case scope.Filename:
		return Infix(FieldFilename, text)
	case scope.Content:
		return Text(FieldBody, text)
	case scope.Summary:
		return Text(FieldSummary, text)
	default:
		return Or(
			Infix(FieldFilename, text),
			Text(FieldBody, text),
			Text(FieldSummary, text),
		)
	}
}

// filterClauses compiles one polarity of the filter set. The same
// builders serve positives and negations; the caller wraps negation
// clauses in Not, so both sides cannot drift apart.
func filterClauses(f *query.FilterSet, now time.Time) []Clause {
	var clauses []Clause
	add := func(dim Dimension, preds ...Predicate) {
		for _, pred := range preds {
			clauses = append(clauses, Clause{Dim: dim, Pred: pred})
		}
	}

	if len(f.Types) > 0 {
		add(DimType, typePredicate(f.Types))
	}
	if len(f.Formats) > 0 {
		mimes := make([]string, len(f.Formats))
		for i, format := range f.Formats {
			mimes[i] = MimeForFormat(format)
		}
		add(DimFormat, Tag(FieldMime, mimes...))
	}
	if len(f.Categories) > 0 {
		add(DimCategory, Tag(FieldCategory, f.Categories...))
	}
	if len(f.Folders) > 0 {
		add(DimFolder, folderPredicate(f.Folders))
	}
	if len(f.FolderIDs) > 0 {
		add(DimFolderID, Tag(FieldFolderID, f.FolderIDs...))
	}
	// A document must carry every requested tag: AND across tags.
	for _, tag := range f.Tags {
		add(DimTag, Tag(FieldTags, tag))
	}
	// Each entity is individually satisfied by any of its three sources;
	// AND across entities.
	for _, entity := range f.Entities {
		add(DimEntity, Or(
			Tag(FieldEntities, entity),
			Text(FieldBody, entity),
			Tag(FieldKeyEntities, entity),
		))
	}
	if f.Uploaded != nil {
		if pred, ok := datePredicate(FieldUploaded, *f.Uploaded, now); ok {
			add(DimUploaded, pred)
		}
	}
	if f.DocDate != nil {
		if pred, ok := datePredicate(FieldDocDate, *f.DocDate, now); ok {
			add(DimDocDate, pred)
		}
	}
	if f.HasText != nil {
		add(DimHasText, Flag(FieldHasText, *f.HasText))
	}
	if f.HasSumm != nil {
		add(DimHasSummary, Flag(FieldHasSummary, *f.HasSumm))
	}
	if f.HasThumb != nil {
		add(DimHasThumb, Flag(FieldHasThumb, *f.HasThumb))
	}
	if f.SizeMin != nil || f.SizeMax != nil {
		add(DimSize, Range(FieldSize, intBound(f.SizeMin), intBound(f.SizeMax)))
	}

	return clauses
}

// typePredicate expands type names through the alias table. A lone
// "photo" becomes a no-extractable-text predicate; combined with other
// types it ORs against the expanded category set.
func typePredicate(types []string) Predicate {
	var categories []string
	photo := false
	for _, t := range types {
		cats, isPhoto := ExpandType(t)
		photo = photo || isPhoto
		categories = append(categories, cats...)
	}

	switch {
	case photo && len(categories) == 0:
		return Flag(FieldHasText, false)
	case photo:
		return Or(Tag(FieldCategory, categories...), Flag(FieldHasText, false))
	default:
		return Tag(FieldCategory, categories...)
	}
}

// folderPredicate matches any of the folder values: exact path when the
// value starts with '/', partial otherwise.
func folderPredicate(folders []string) Predicate {
	preds := make([]Predicate, len(folders))
	for i, folder := range folders {
		if strings.HasPrefix(folder, "/") {
			preds[i] = Tag(FieldFolderPath, folder)
		} else {
			preds[i] = Infix(FieldFolderPath, folder)
		}
	}
	return Or(preds...)
}

// datePredicate resolves a date range against now and renders it as a
// millisecond-timestamp range. An empty resolved range constrains
// nothing and produces no clause.
func datePredicate(field string, r query.DateRange, now time.Time) (Predicate, bool) {
	start, end := r.Resolve(now)
	if start == nil && end == nil {
		return Predicate{}, false
	}
	var min, max *float64
	if start != nil {
		v := float64(start.UnixMilli())
		min = &v
	}
	if end != nil {
		v := float64(end.UnixMilli())
		max = &v
	}
	return Range(field, min, max), true
}

func intBound(v *int64) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}
