package query

import "fmt"

// Problems checks the parsed query for internally inconsistent values and
// returns human-readable descriptions. An empty list means valid.
// Relative ranges cannot be inconsistent, so only absolute bounds are
// checked.
func (q *ParsedQuery) Problems() []string {
	var problems []string

	problems = appendRangeProblems(problems, "uploaded", q.Filters.Uploaded)
	problems = appendRangeProblems(problems, "date", q.Filters.DocDate)
	problems = appendRangeProblems(problems, "uploaded", q.Negations.Uploaded)
	problems = appendRangeProblems(problems, "date", q.Negations.DocDate)

	problems = appendSizeProblems(problems, &q.Filters)
	problems = appendSizeProblems(problems, &q.Negations)

	return problems
}

func appendRangeProblems(problems []string, name string, r *DateRange) []string {
	if r == nil || r.Start == nil || r.End == nil {
		return problems
	}
	// Equal start and end is a valid single-instant range.
	if r.Start.After(*r.End) {
		problems = append(problems, fmt.Sprintf(
			"%s range starts after it ends (%s > %s)",
			name, r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"),
		))
	}
	return problems
}

func appendSizeProblems(problems []string, f *FilterSet) []string {
	if f.SizeMin != nil && *f.SizeMin < 0 {
		problems = append(problems, fmt.Sprintf("minimum size is negative (%d)", *f.SizeMin))
	}
	if f.SizeMax != nil && *f.SizeMax < 0 {
		problems = append(problems, fmt.Sprintf("maximum size is negative (%d)", *f.SizeMax))
	}
	return problems
}
