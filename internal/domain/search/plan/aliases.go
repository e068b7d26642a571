package plan

// typeAliases expands a user-facing type name into the internal category
// values it covers. One word in the query can match several categories.
// "photo" is absent on purpose: photos are defined by having no
// extractable text, not by a category label.
var typeAliases = map[string][]string{
	"document":   {"document", "letter", "contract", "report", "stock_overview"},
	"receipt":    {"receipt", "invoice"},
	"screenshot": {"screenshot"},
	"note":       {"note"},
}

// formatMimes maps a format filter value to its mime type. Unknown
// formats fall back to application/<format>.
var formatMimes = map[string]string{
	"pdf":  "application/pdf",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
	"heic": "image/heic",
	"tiff": "image/tiff",
	"txt":  "text/plain",
	"md":   "text/markdown",
	"csv":  "text/csv",
	"html": "text/html",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"xls":  "application/vnd.ms-excel",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"ppt":  "application/vnd.ms-powerpoint",
	"pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	"zip":  "application/zip",
}

// categoryTypes inverts typeAliases for facet folding.
var categoryTypes = func() map[string]string {
	m := make(map[string]string)
	for name, cats := range typeAliases {
		for _, c := range cats {
			m[c] = name
		}
	}
	return m
}()

// mimeFormats inverts formatMimes for facet display, preferring the
// shorter name where several formats share a mime type.
var mimeFormats = func() map[string]string {
	m := make(map[string]string)
	for format, mime := range formatMimes {
		if prev, ok := m[mime]; ok && len(prev) <= len(format) {
			continue
		}
		m[mime] = format
	}
	return m
}()

// ExpandType returns the internal categories for a public type name and
// whether the name is the photo pseudo-type.
func ExpandType(name string) (categories []string, isPhoto bool) {
	if name == "photo" {
		return nil, true
	}
	if cats, ok := typeAliases[name]; ok {
		return cats, false
	}
	// Unknown type names pass through as a single category value.
	return []string{name}, false
}

// TypeForCategory folds an internal category back into its public type
// name. Categories outside the alias table stand for themselves.
func TypeForCategory(category string) string {
	if t, ok := categoryTypes[category]; ok {
		return t
	}
	return category
}

// MimeForFormat returns the mime type for a format filter value.
func MimeForFormat(format string) string {
	if m, ok := formatMimes[format]; ok {
		return m
	}
	return "application/" + format
}

// FormatForMime returns the public format name for a mime type, or the
// mime type itself when no format maps to it.
func FormatForMime(mime string) string {
	if f, ok := mimeFormats[mime]; ok {
		return f
	}
	return mime
}
