package redis

import (
	"fmt"
	"strings"

	"github.com/docbay-cloud/docbay/internal/domain/search/plan"
)

// textFields are the TEXT fields of the document index; everything else
// a predicate can touch is TAG or NUMERIC. Infix and text predicates
// render differently against the two classes.
var textFields = map[string]bool{
	plan.FieldFilename: true,
	plan.FieldSummary:  true,
	plan.FieldBody:     true,
}

// renderClauses translates a clause list into an FT query string. An
// empty list matches everything. Clauses combine with AND (RediSearch
// juxtaposition); every rendering of one plan goes through here, so the
// results query, the count query, and each facet query share one
// translation of the filter logic.
func renderClauses(clauses []plan.Clause) string {
	if len(clauses) == 0 {
		return "*"
	}
	parts := make([]string, 0, len(clauses))
	for _, c := range clauses {
		parts = append(parts, renderPredicate(c.Pred))
	}
	return strings.Join(parts, " ")
}

func renderPredicate(p plan.Predicate) string {
	switch p.Kind() {
	case plan.KindTag:
		return renderTag(p.Field(), p.Values())
	case plan.KindInfix:
		return renderInfix(p.Field(), p.Values()[0])
	case plan.KindPrefix:
		return renderPrefix(p.Field(), p.Values()[0])
	case plan.KindText:
		return fmt.Sprintf("@%s:(%s)", p.Field(), escapeQuery(p.Values()[0]))
	case plan.KindRange:
		return renderRange(p)
	case plan.KindFlag:
		if p.FlagValue() {
			return fmt.Sprintf("@%s:[1 1]", p.Field())
		}
		return fmt.Sprintf("@%s:[0 0]", p.Field())
	case plan.KindOr:
		parts := make([]string, 0, len(p.Children()))
		for _, child := range p.Children() {
			parts = append(parts, renderPredicate(child))
		}
		return "(" + strings.Join(parts, " | ") + ")"
	case plan.KindNot:
		return "-(" + renderPredicate(p.Children()[0]) + ")"
	}
	return ""
}

func renderTag(field string, values []string) string {
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = tagEscaper.Replace(v)
	}
	return fmt.Sprintf("@%s:{%s}", field, strings.Join(escaped, "|"))
}

// renderInfix renders a substring match as a dialect-2 wildcard:
// w'*needle*' inside parens for TEXT fields, inside braces for TAG.
func renderInfix(field, value string) string {
	needle := wildcardEscaper.Replace(value)
	if textFields[field] {
		return fmt.Sprintf("@%s:(w'*%s*')", field, needle)
	}
	return fmt.Sprintf("@%s:{w'*%s*'}", field, needle)
}

// renderPrefix renders a starts-with match: term* inside parens for
// TEXT fields, inside braces for TAG.
func renderPrefix(field, value string) string {
	if textFields[field] {
		return fmt.Sprintf("@%s:(%s*)", field, escapeQuery(value))
	}
	return fmt.Sprintf("@%s:{%s*}", field, tagEscaper.Replace(value))
}

func renderRange(p plan.Predicate) string {
	minBound := "-inf"
	maxBound := "+inf"
	if p.Min() != nil {
		minBound = fmt.Sprintf("%g", *p.Min())
	}
	if p.Max() != nil {
		maxBound = fmt.Sprintf("%g", *p.Max())
	}
	return fmt.Sprintf("@%s:[%s %s]", p.Field(), minBound, maxBound)
}

// --- Escaping ---

var tagEscaper = strings.NewReplacer(
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	" ", "\\ ",
	"|", "\\|",
)

func escapeQuery(s string) string {
	return queryEscaper.Replace(s)
}

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
	`:`, `\:`,
)

// wildcardEscaper protects the w'...' literal form; only the quote and
// backslash are special inside it.
var wildcardEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
)
