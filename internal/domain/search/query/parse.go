package query

import (
	"strings"

	"github.com/docbay-cloud/docbay/internal/domain/search/scope"
	"github.com/docbay-cloud/docbay/internal/domain/search/token"
)

// filterKey is the closed set of recognized filter keys. Dispatch is an
// exhaustive switch, not a string-keyed handler map, so a typo in a key
// name cannot silently drop a dimension.
type filterKey string

const (
	keyIn       filterKey = "in"
	keyType     filterKey = "type"
	keyFormat   filterKey = "format"
	keyCategory filterKey = "category"
	keyFolder   filterKey = "folder"
	keyTag      filterKey = "tag"
	keyUploaded filterKey = "uploaded"
	keyDate     filterKey = "date"
	keyHas      filterKey = "has"
	keySize     filterKey = "size"
	keyEntity   filterKey = "entity"
	keyCompany  filterKey = "company"
)

// Parse builds a ParsedQuery from a token stream.
//
// Free-text and quoted tokens accumulate into FullText, joined by single
// spaces. Filter tokens dispatch on their key; an unknown key is re-joined
// as "key:value" and treated as free text, so a mistyped filter degrades
// to a literal text search instead of vanishing.
func Parse(tokens []token.Token) ParsedQuery {
	q := ParsedQuery{Scope: scope.All}

	var freeText []string
	for _, t := range tokens {
		switch t.Kind {
		case token.Text, token.Quoted:
			if t.Value != "" {
				freeText = append(freeText, t.Value)
			}
		case token.Filter:
			if rest, ok := q.applyFilter(t); !ok {
				freeText = append(freeText, rest)
			}
		}
	}
	q.FullText = strings.Join(freeText, " ")

	return q
}

// applyFilter dispatches one filter token. It returns ok=false and the
// re-joined "key:value" literal when the key is not recognized.
func (q *ParsedQuery) applyFilter(t token.Token) (string, bool) {
	if t.Value == "" {
		// "tag:" with nothing after the colon constrains nothing.
		return "", true
	}

	target := &q.Filters
	if t.Negated {
		target = &q.Negations
	}

	switch filterKey(t.FilterKey) {
	case keyIn:
		// Scope is never negated; an invalid scope is silently ignored.
		if s := scope.Scope(strings.ToLower(t.Value)); s.IsValid() {
			q.Scope = s
		}
	case keyType:
		target.Types = append(target.Types, strings.ToLower(t.Value))
	case keyFormat:
		target.Formats = append(target.Formats, strings.ToLower(t.Value))
	case keyCategory:
		target.Categories = append(target.Categories, strings.ToLower(t.Value))
	case keyFolder:
		target.Folders = append(target.Folders, t.Value)
	case keyTag:
		target.Tags = append(target.Tags, t.Value)
	case keyUploaded:
		if r := ParseDateValue(t.Value); !r.IsZero() {
			target.Uploaded = &r
		}
	case keyDate:
		if r := ParseDateValue(t.Value); !r.IsZero() {
			target.DocDate = &r
		}
	case keyHas:
		q.applyHas(target, t.Value)
	case keySize:
		if min, max, ok := ParseSizeValue(t.Value); ok {
			if min != nil {
				target.SizeMin = min
			}
			if max != nil {
				target.SizeMax = max
			}
		}
	case keyEntity, keyCompany:
		target.Entities = append(target.Entities, t.Value)
	default:
		return t.FilterKey + ":" + t.Value, false
	}
	return "", true
}

func (q *ParsedQuery) applyHas(target *FilterSet, value string) {
	set := true
	switch strings.ToLower(value) {
	case "text":
		target.HasText = &set
	case "summary":
		target.HasSumm = &set
	case "thumbnail":
		target.HasThumb = &set
	}
	// Anything else is ignored; "has:" is a closed vocabulary.
}

// ParseString tokenizes and parses a raw query string in one step.
func ParseString(raw string) ParsedQuery {
	return Parse(token.Tokenize(raw))
}
