package query

import (
	"strings"
	"testing"
)

func TestProblems_Valid(t *testing.T) {
	q := ParseString(`acme type:invoice uploaded:2024 size:>10mb -tag:archived`)
	if problems := q.Problems(); len(problems) != 0 {
		t.Errorf("Problems() = %v, want none", problems)
	}
}

func TestProblems_ReversedUploadedRange(t *testing.T) {
	q := ParseString("uploaded:2025-2022")
	problems := q.Problems()
	if len(problems) != 1 {
		t.Fatalf("Problems() = %v, want one", problems)
	}
	if !strings.Contains(problems[0], "uploaded") {
		t.Errorf("problem = %q, want dimension named", problems[0])
	}
}

func TestProblems_ReversedNegatedRange(t *testing.T) {
	q := ParseString("-date:2025-2022")
	if problems := q.Problems(); len(problems) != 1 {
		t.Errorf("Problems() = %v, want one", problems)
	}
}

func TestProblems_SingleInstantRangeValid(t *testing.T) {
	q := ParseString("uploaded:2024-2024")
	if problems := q.Problems(); len(problems) != 0 {
		t.Errorf("Problems() = %v, want none", problems)
	}
}

func TestProblems_RelativeNeverInconsistent(t *testing.T) {
	q := ParseString("uploaded:last-month date:yesterday")
	if problems := q.Problems(); len(problems) != 0 {
		t.Errorf("Problems() = %v, want none", problems)
	}
}

func TestProblems_NegativeSize(t *testing.T) {
	neg := int64(-1)
	q := ParsedQuery{}
	q.Filters.SizeMin = &neg
	problems := q.Problems()
	if len(problems) != 1 || !strings.Contains(problems[0], "negative") {
		t.Errorf("Problems() = %v", problems)
	}
}
