// Package query holds the parsed form of a user query string and the
// semantic parser that produces it.
package query

import (
	"time"

	"github.com/docbay-cloud/docbay/internal/domain/search/scope"
)

// Relative is a keyword date expression resolved against "now" at
// compile time, never at parse time, so a parsed query can be re-resolved
// against a fresh instant.
type Relative string

// Relative date keywords.
const (
	Today     Relative = "today"
	Yesterday Relative = "yesterday"
	LastWeek  Relative = "last-week"
	LastMonth Relative = "last-month"
	LastYear  Relative = "last-year"
)

// IsValid checks if the keyword is one of the supported values.
func (r Relative) IsValid() bool {
	switch r {
	case Today, Yesterday, LastWeek, LastMonth, LastYear:
		return true
	}
	return false
}

// DateRange is an absolute or relative date constraint. Either Start/End
// or Relative is meaningful; Resolve collapses both forms to bounds.
type DateRange struct {
	Start    *time.Time `json:"start,omitempty"`
	End      *time.Time `json:"end,omitempty"`
	Relative Relative   `json:"relative,omitempty"`
}

// IsZero reports whether the range constrains nothing.
func (d DateRange) IsZero() bool {
	return d.Start == nil && d.End == nil && d.Relative == ""
}

// Resolve returns concrete bounds, resolving a relative keyword against
// the given instant. Absolute bounds pass through unchanged.
func (d DateRange) Resolve(now time.Time) (start, end *time.Time) {
	if d.Relative == "" {
		return d.Start, d.End
	}
	switch d.Relative {
	case Today:
		s, e := dayBounds(now)
		return &s, &e
	case Yesterday:
		s, e := dayBounds(now.AddDate(0, 0, -1))
		return &s, &e
	case LastWeek:
		s := now.AddDate(0, 0, -7)
		return &s, &now
	case LastMonth:
		s := now.AddDate(0, -1, 0)
		return &s, &now
	case LastYear:
		s := now.AddDate(-1, 0, 0)
		return &s, &now
	}
	return nil, nil
}

func dayBounds(t time.Time) (start, end time.Time) {
	y, m, d := t.Date()
	start = time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	end = time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
	return start, end
}

// FilterSet is one polarity of the structured filters. ParsedQuery holds
// two structurally identical instances: positive filters and negations.
type FilterSet struct {
	Types      []string `json:"types,omitempty"`
	Formats    []string `json:"formats,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Folders    []string `json:"folders,omitempty"`
	FolderIDs  []string `json:"folder_ids,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Entities   []string `json:"entities,omitempty"`

	Uploaded *DateRange `json:"uploaded,omitempty"`
	DocDate  *DateRange `json:"doc_date,omitempty"`

	HasText  *bool `json:"has_text,omitempty"`
	HasSumm  *bool `json:"has_summary,omitempty"`
	HasThumb *bool `json:"has_thumbnail,omitempty"`

	SizeMin *int64 `json:"size_min,omitempty"`
	SizeMax *int64 `json:"size_max,omitempty"`
}

// IsZero reports whether the set contains no filters.
func (f *FilterSet) IsZero() bool {
	return len(f.Types) == 0 && len(f.Formats) == 0 && len(f.Categories) == 0 &&
		len(f.Folders) == 0 && len(f.FolderIDs) == 0 && len(f.Tags) == 0 &&
		len(f.Entities) == 0 && f.Uploaded == nil && f.DocDate == nil &&
		f.HasText == nil && f.HasSumm == nil && f.HasThumb == nil &&
		f.SizeMin == nil && f.SizeMax == nil
}

// ParsedQuery is the structured form of one query string.
//
// A value appearing in both Filters and Negations is contradictory user
// input; both sides still apply (positive match AND NOT negative match)
// and must never crash downstream consumers.
type ParsedQuery struct {
	FullText  string      `json:"full_text,omitempty"`
	Scope     scope.Scope `json:"scope"`
	Filters   FilterSet   `json:"filters"`
	Negations FilterSet   `json:"negations"`
}

// HasFullText reports whether free text was present in the query.
func (q *ParsedQuery) HasFullText() bool { return q.FullText != "" }
