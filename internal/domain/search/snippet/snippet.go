// Package snippet builds and manipulates highlighted result excerpts.
//
// Highlighted spans are delimited with <mark>...</mark>, matching what
// the store's highlighter emits, so every snippet source produces the
// same markup.
package snippet

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Highlight markers.
const (
	OpenMark  = "<mark>"
	CloseMark = "</mark>"
)

// MaxExcerptLen is the length budget for computed excerpts, counted on
// the plain text before markers are inserted.
const MaxExcerptLen = 160

// Span is a highlighted range in the plain (marker-free) text.
type Span struct {
	Start int
	End   int
}

// Strip removes highlight markers for plain-text contexts.
func Strip(marked string) string {
	marked = strings.ReplaceAll(marked, OpenMark, "")
	return strings.ReplaceAll(marked, CloseMark, "")
}

// Spans recovers the highlighted ranges from marked-up text. Offsets are
// byte positions in the stripped text, for callers doing custom
// rendering.
func Spans(marked string) []Span {
	var spans []Span
	var plain int

	for len(marked) > 0 {
		open := strings.Index(marked, OpenMark)
		if open < 0 {
			break
		}
		plain += open
		marked = marked[open+len(OpenMark):]

		end := strings.Index(marked, CloseMark)
		if end < 0 {
			// Unbalanced marker: treat the rest as highlighted.
			spans = append(spans, Span{Start: plain, End: plain + len(marked)})
			break
		}
		spans = append(spans, Span{Start: plain, End: plain + end})
		plain += end
		marked = marked[end+len(CloseMark):]
	}

	return spans
}

// Excerpt produces a marked-up excerpt of text centered on the first
// occurrence of any search term, trimmed at word boundaries with
// ellipses, at most maxLen plain characters. It returns "" when no term
// occurs, so the caller can fall through to the next snippet source.
func Excerpt(text string, terms []string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = MaxExcerptLen
	}
	first := -1
	for _, term := range terms {
		if pos, _ := foldIndex(text, term); pos >= 0 && (first < 0 || pos < first) {
			first = pos
		}
	}
	if first < 0 {
		return ""
	}

	start, end := window(text, first, maxLen)
	window := text[start:end]

	marked := markTerms(window, terms)
	if start > 0 {
		marked = "…" + marked
	}
	if end < len(text) {
		marked += "…"
	}
	return marked
}

// MarkLiteral highlights every case-insensitive occurrence of needle.
// Used for the filename fallback where literal-substring matching is the
// search semantics.
func MarkLiteral(text, needle string) string {
	if needle == "" {
		return text
	}
	return markTerms(text, []string{needle})
}

// window picks a [start, end) slice of at most maxLen bytes around the
// match position, snapped outward to word boundaries.
func window(text string, match, maxLen int) (start, end int) {
	if len(text) <= maxLen {
		return 0, len(text)
	}

	start = match - maxLen/2
	if start < 0 {
		start = 0
	}
	end = start + maxLen
	if end > len(text) {
		end = len(text)
		start = end - maxLen
	}

	// Keep the window on rune boundaries.
	for start > 0 && !utf8.RuneStart(text[start]) {
		start--
	}
	for end < len(text) && !utf8.RuneStart(text[end]) {
		end++
	}

	// Snap to word boundaries so ellipses do not split words.
	if start > 0 {
		if idx := strings.IndexByte(text[start:end], ' '); idx >= 0 && start+idx < match {
			start += idx + 1
		}
	}
	if end < len(text) {
		if idx := strings.LastIndexByte(text[start:end], ' '); idx >= 0 && start+idx > match {
			end = start + idx
		}
	}
	return start, end
}

// markTerms wraps every case-insensitive occurrence of each term.
// Longer terms first, so overlapping shorter terms do not split them.
func markTerms(text string, terms []string) string {
	ordered := make([]string, 0, len(terms))
	for _, t := range terms {
		if t != "" {
			ordered = append(ordered, t)
		}
	}
	for i := 0; i < len(ordered); i++ {
		for j := i + 1; j < len(ordered); j++ {
			if len(ordered[j]) > len(ordered[i]) {
				ordered[i], ordered[j] = ordered[j], ordered[i]
			}
		}
	}

	var b strings.Builder
	pos := 0
	for pos < len(text) {
		best, bestLen := -1, 0
		for _, term := range ordered {
			if idx, n := foldIndex(text[pos:], term); idx >= 0 {
				if best < 0 || pos+idx < best || (pos+idx == best && n > bestLen) {
					best, bestLen = pos+idx, n
				}
			}
		}
		if best < 0 {
			b.WriteString(text[pos:])
			break
		}
		b.WriteString(text[pos:best])
		b.WriteString(OpenMark)
		b.WriteString(text[best : best+bestLen])
		b.WriteString(CloseMark)
		pos = best + bestLen
	}
	return b.String()
}

// foldIndex finds the first case-insensitive occurrence of term in text.
// Offset and match length are byte positions in text itself, so runes
// whose case pair encodes to a different width cannot skew them.
func foldIndex(text, term string) (pos, matchLen int) {
	if term == "" {
		return -1, 0
	}
	for i := 0; i < len(text); {
		if n := foldPrefixLen(text[i:], term); n >= 0 {
			return i, n
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return -1, 0
}

// foldPrefixLen reports how many bytes at the start of s case-fold to
// term, or -1 when they do not.
func foldPrefixLen(s, term string) int {
	n := 0
	for _, tr := range term {
		if n >= len(s) {
			return -1
		}
		r, size := utf8.DecodeRuneInString(s[n:])
		if r != tr && unicode.ToLower(r) != unicode.ToLower(tr) {
			return -1
		}
		n += size
	}
	return n
}
