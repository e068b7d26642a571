package plan

import (
	"testing"
	"time"

	"github.com/docbay-cloud/docbay/internal/domain/search/query"
	"github.com/docbay-cloud/docbay/internal/domain/search/sortmode"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func compile(t *testing.T, raw string, opts Options) *Plan {
	t.Helper()
	q := query.ParseString(raw)
	return Compile(&q, "user-1", opts, testNow)
}

// clauseOf returns the single positive clause of a dimension.
func clauseOf(t *testing.T, p *Plan, dim Dimension) Clause {
	t.Helper()
	var found []Clause
	for _, c := range p.Clauses() {
		if c.Dim == dim && !c.Negated {
			found = append(found, c)
		}
	}
	if len(found) != 1 {
		t.Fatalf("want one %s clause, got %d", dim, len(found))
	}
	return found[0]
}

func TestCompile_OwnerAlwaysFirst(t *testing.T) {
	p := compile(t, "", Options{})
	clauses := p.Clauses()
	if len(clauses) != 1 {
		t.Fatalf("clauses = %d, want 1", len(clauses))
	}
	first := clauses[0]
	if first.Dim != DimOwner || first.Pred.Kind() != KindTag || first.Pred.Field() != FieldOwner {
		t.Errorf("first clause = %+v", first)
	}
	if first.Pred.Values()[0] != "user-1" {
		t.Errorf("owner value = %v", first.Pred.Values())
	}
}

func TestCompile_OwnerSurvivesExclusion(t *testing.T) {
	p := compile(t, "type:invoice", Options{})
	for _, c := range p.Clauses(DimOwner, DimType) {
		if c.Dim == DimType {
			t.Error("excluded type clause still present")
		}
	}
	// The owner dimension is never passed as an exclusion by callers; the
	// facet layer only excludes the dimension being counted.
	found := false
	for _, c := range p.Clauses(DimType) {
		if c.Dim == DimOwner {
			found = true
		}
	}
	if !found {
		t.Error("owner clause missing")
	}
}

func TestCompile_FullTextAllScope(t *testing.T) {
	p := compile(t, "acme invoice", Options{})
	c := clauseOf(t, p, DimText)
	if c.Pred.Kind() != KindOr {
		t.Fatalf("kind = %v, want Or across filename, body, summary", c.Pred.Kind())
	}
	if len(c.Pred.Children()) != 3 {
		t.Errorf("children = %d, want 3", len(c.Pred.Children()))
	}
	if p.FullText() != "acme invoice" {
		t.Errorf("FullText() = %q", p.FullText())
	}
}

func TestCompile_FullTextScoped(t *testing.T) {
	p := compile(t, "in:filename report", Options{})
	c := clauseOf(t, p, DimText)
	if c.Pred.Kind() != KindInfix || c.Pred.Field() != FieldFilename {
		t.Errorf("pred = %+v", c.Pred)
	}

	p = compile(t, "in:content report", Options{})
	c = clauseOf(t, p, DimText)
	if c.Pred.Kind() != KindText || c.Pred.Field() != FieldBody {
		t.Errorf("pred = %+v", c.Pred)
	}
}

func TestCompile_TypeExpandsAliases(t *testing.T) {
	p := compile(t, "type:receipt", Options{})
	c := clauseOf(t, p, DimType)
	if c.Pred.Kind() != KindTag || c.Pred.Field() != FieldCategory {
		t.Fatalf("pred = %+v", c.Pred)
	}
	got := c.Pred.Values()
	if len(got) != 2 || got[0] != "receipt" || got[1] != "invoice" {
		t.Errorf("values = %v", got)
	}
}

func TestCompile_PhotoAloneIsNoTextFlag(t *testing.T) {
	p := compile(t, "type:photo", Options{})
	c := clauseOf(t, p, DimType)
	if c.Pred.Kind() != KindFlag || c.Pred.Field() != FieldHasText || c.Pred.FlagValue() {
		t.Errorf("pred = %+v, want has_text == false", c.Pred)
	}
}

func TestCompile_PhotoPlusTypeIsOr(t *testing.T) {
	p := compile(t, "type:photo type:document", Options{})
	c := clauseOf(t, p, DimType)
	if c.Pred.Kind() != KindOr {
		t.Fatalf("kind = %v, want Or", c.Pred.Kind())
	}
	kids := c.Pred.Children()
	if len(kids) != 2 {
		t.Fatalf("children = %d", len(kids))
	}
	if kids[0].Kind() != KindTag || kids[0].Field() != FieldCategory {
		t.Errorf("first child = %+v", kids[0])
	}
	if kids[1].Kind() != KindFlag || kids[1].Field() != FieldHasText || kids[1].FlagValue() {
		t.Errorf("second child = %+v", kids[1])
	}
}

func TestCompile_UnknownTypePassesThrough(t *testing.T) {
	p := compile(t, "type:warranty", Options{})
	c := clauseOf(t, p, DimType)
	if c.Pred.Values()[0] != "warranty" {
		t.Errorf("values = %v", c.Pred.Values())
	}
}

func TestCompile_FormatMapsToMime(t *testing.T) {
	p := compile(t, "format:pdf format:jpg", Options{})
	c := clauseOf(t, p, DimFormat)
	got := c.Pred.Values()
	if len(got) != 2 || got[0] != "application/pdf" || got[1] != "image/jpeg" {
		t.Errorf("values = %v", got)
	}
}

func TestCompile_TagsAndAcrossValues(t *testing.T) {
	p := compile(t, "tag:work tag:taxes", Options{})
	var tagClauses []Clause
	for _, c := range p.Clauses() {
		if c.Dim == DimTag {
			tagClauses = append(tagClauses, c)
		}
	}
	if len(tagClauses) != 2 {
		t.Fatalf("tag clauses = %d, want 2 (AND semantics)", len(tagClauses))
	}
}

func TestCompile_NegatedTagsSeparateClauses(t *testing.T) {
	// Each negated tag is its own NOT clause: -tag:a -tag:b excludes
	// documents carrying either tag.
	p := compile(t, "-tag:archived -tag:spam", Options{})
	var negs []Clause
	for _, c := range p.Clauses() {
		if c.Dim == DimTag {
			negs = append(negs, c)
		}
	}
	if len(negs) != 2 {
		t.Fatalf("negated tag clauses = %d, want 2", len(negs))
	}
	for _, c := range negs {
		if !c.Negated || c.Pred.Kind() != KindNot {
			t.Errorf("clause = %+v, want negated Not", c)
		}
	}
}

func TestCompile_FolderExactVsPartial(t *testing.T) {
	p := compile(t, "folder:/Finance/2024", Options{})
	c := clauseOf(t, p, DimFolder)
	if c.Pred.Kind() != KindTag {
		t.Errorf("leading-slash folder = %+v, want exact Tag", c.Pred)
	}

	p = compile(t, "folder:finance", Options{})
	c = clauseOf(t, p, DimFolder)
	if c.Pred.Kind() != KindInfix {
		t.Errorf("bare folder = %+v, want Infix", c.Pred)
	}
}

func TestCompile_EntityThreeSources(t *testing.T) {
	p := compile(t, `entity:"Acme Corp"`, Options{})
	c := clauseOf(t, p, DimEntity)
	if c.Pred.Kind() != KindOr || len(c.Pred.Children()) != 3 {
		t.Fatalf("pred = %+v, want Or of three sources", c.Pred)
	}
}

func TestCompile_DateRangeResolvesAgainstNow(t *testing.T) {
	p := compile(t, "uploaded:last-week", Options{})
	c := clauseOf(t, p, DimUploaded)
	if c.Pred.Kind() != KindRange || c.Pred.Field() != FieldUploaded {
		t.Fatalf("pred = %+v", c.Pred)
	}
	wantMin := float64(testNow.AddDate(0, 0, -7).UnixMilli())
	if c.Pred.Min() == nil || *c.Pred.Min() != wantMin {
		t.Errorf("min = %v, want %v", c.Pred.Min(), wantMin)
	}
	wantMax := float64(testNow.UnixMilli())
	if c.Pred.Max() == nil || *c.Pred.Max() != wantMax {
		t.Errorf("max = %v, want %v", c.Pred.Max(), wantMax)
	}
}

func TestCompile_SizeRange(t *testing.T) {
	p := compile(t, "size:<1mb", Options{})
	c := clauseOf(t, p, DimSize)
	if c.Pred.Kind() != KindRange || c.Pred.Field() != FieldSize {
		t.Fatalf("pred = %+v", c.Pred)
	}
	if c.Pred.Min() != nil {
		t.Errorf("min = %v, want open", c.Pred.Min())
	}
	if c.Pred.Max() == nil || *c.Pred.Max() != float64(1<<20) {
		t.Errorf("max = %v", c.Pred.Max())
	}
}

func TestCompile_NegatedHasText(t *testing.T) {
	p := compile(t, "-has:text", Options{})
	var c Clause
	for _, cl := range p.Clauses() {
		if cl.Dim == DimHasText {
			c = cl
		}
	}
	if !c.Negated || c.Pred.Kind() != KindNot {
		t.Fatalf("clause = %+v", c)
	}
	inner := c.Pred.Children()[0]
	if inner.Kind() != KindFlag || !inner.FlagValue() {
		t.Errorf("inner = %+v, want has_text == true negated", inner)
	}
}

func TestCompile_PositiveAndNegatedCoexist(t *testing.T) {
	p := compile(t, "tag:work -tag:work", Options{})
	var pos, neg int
	for _, c := range p.Clauses() {
		if c.Dim != DimTag {
			continue
		}
		if c.Negated {
			neg++
		} else {
			pos++
		}
	}
	if pos != 1 || neg != 1 {
		t.Errorf("pos = %d, neg = %d, want both kept", pos, neg)
	}
}

func TestCompile_FacetExclusionKeepsNegated(t *testing.T) {
	p := compile(t, "tag:work -tag:archived", Options{})
	kept := p.Clauses(DimTag)
	var sawNegated, sawPositive bool
	for _, c := range kept {
		if c.Dim == DimTag {
			if c.Negated {
				sawNegated = true
			} else {
				sawPositive = true
			}
		}
	}
	if sawPositive {
		t.Error("positive tag clause must be dropped for the tag facet")
	}
	if !sawNegated {
		t.Error("negated tag clause must survive the tag facet")
	}
}

func TestCompile_SortDefaults(t *testing.T) {
	p := compile(t, "acme", Options{})
	if p.Sort() != sortmode.Recency {
		t.Errorf("Sort() = %q, want recency default", p.Sort())
	}

	p = compile(t, "acme", Options{Sort: "bogus"})
	if p.Sort() != sortmode.Recency {
		t.Errorf("Sort() = %q, want recency for invalid mode", p.Sort())
	}
}

func TestCompile_RelevanceNeedsText(t *testing.T) {
	p := compile(t, "type:invoice", Options{Sort: sortmode.Relevance})
	if p.Sort() != sortmode.Recency {
		t.Errorf("Sort() = %q, want recency without free text", p.Sort())
	}

	p = compile(t, "acme", Options{Sort: sortmode.Relevance})
	if p.Sort() != sortmode.Relevance {
		t.Errorf("Sort() = %q", p.Sort())
	}
}

func TestCompile_Pagination(t *testing.T) {
	p := compile(t, "acme", Options{Limit: 20, Offset: 40})
	if p.Limit() != 20 || p.Offset() != 40 {
		t.Errorf("Limit = %d, Offset = %d", p.Limit(), p.Offset())
	}
}

// Scenario: "acme invoice type:receipt -tag:archived uploaded:2024" is
// the canonical mixed query; every dimension lands in its own clause.
func TestCompile_MixedQueryShape(t *testing.T) {
	p := compile(t, `acme type:receipt -tag:archived uploaded:2024 size:>10mb`, Options{})

	wantDims := map[Dimension]bool{
		DimOwner: false, DimText: false, DimType: false,
		DimTag: false, DimUploaded: false, DimSize: false,
	}
	for _, c := range p.Clauses() {
		wantDims[c.Dim] = true
	}
	for dim, seen := range wantDims {
		if !seen {
			t.Errorf("dimension %s missing from plan", dim)
		}
	}
	if n := len(p.Clauses()); n != 6 {
		t.Errorf("clauses = %d, want 6", n)
	}
}
