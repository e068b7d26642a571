package document

import (
	"strconv"
	"strings"
	"time"

	"github.com/docbay-cloud/docbay/internal/domain"
	"github.com/docbay-cloud/docbay/internal/domain/search/plan"
)

// ThumbnailField holds the thumbnail reference in the hash. It is not
// indexed; has_thumb carries the filterable presence flag.
const ThumbnailField = "thumbnail"

// buildHashFields converts a domain Document into a flat map for HSET.
// Timestamps are unix milliseconds; booleans are 0/1 numerics so range
// predicates can match them.
func buildHashFields(doc *domain.Document) map[string]string {
	m := map[string]string{
		plan.FieldOwner:      doc.OwnerID,
		plan.FieldDocID:      doc.ID,
		plan.FieldFilename:   doc.Filename,
		plan.FieldFolderPath: doc.FolderPath,
		plan.FieldFolderID:   doc.FolderID,
		plan.FieldMime:       doc.Mime,
		plan.FieldSize:       strconv.FormatInt(doc.Size, 10),
		plan.FieldCategory:   doc.Category,
		plan.FieldUploaded:   strconv.FormatInt(doc.Uploaded.UnixMilli(), 10),
		plan.FieldHasText:    boolField(doc.HasText()),
		plan.FieldHasSummary: boolField(doc.Summary != ""),
		plan.FieldHasThumb:   boolField(doc.Thumbnail != ""),
		plan.FieldSummary:    doc.Summary,
		plan.FieldBody:       doc.Body,
		ThumbnailField:       doc.Thumbnail,
	}
	if doc.DocDate != nil {
		m[plan.FieldDocDate] = strconv.FormatInt(doc.DocDate.UnixMilli(), 10)
	}
	m[plan.FieldTags] = joinValues(doc.Tags)
	m[plan.FieldEntities] = joinValues(doc.Entities)
	m[plan.FieldKeyEntities] = joinValues(doc.KeyEntities)
	return m
}

// parseHashFields converts a flat hash map back into a domain Document.
func parseHashFields(m map[string]string) domain.Document {
	doc := domain.Document{
		ID:          m[plan.FieldDocID],
		OwnerID:     m[plan.FieldOwner],
		Filename:    m[plan.FieldFilename],
		FolderPath:  m[plan.FieldFolderPath],
		FolderID:    m[plan.FieldFolderID],
		Mime:        m[plan.FieldMime],
		Category:    m[plan.FieldCategory],
		Summary:     m[plan.FieldSummary],
		Body:        m[plan.FieldBody],
		Thumbnail:   m[ThumbnailField],
		Tags:        SplitValues(m[plan.FieldTags]),
		Entities:    SplitValues(m[plan.FieldEntities]),
		KeyEntities: SplitValues(m[plan.FieldKeyEntities]),
	}
	if v, err := strconv.ParseInt(m[plan.FieldSize], 10, 64); err == nil {
		doc.Size = v
	}
	if t, ok := ParseMillis(m[plan.FieldUploaded]); ok {
		doc.Uploaded = t
	}
	if t, ok := ParseMillis(m[plan.FieldDocDate]); ok {
		doc.DocDate = &t
	}
	return doc
}

// ParseMillis parses a unix-millisecond hash field into a time.
func ParseMillis(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms).UTC(), true
}

// SplitValues splits a multi-value TAG hash field.
func SplitValues(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, tagSeparator)
}

func joinValues(values []string) string {
	if len(values) == 0 {
		return ""
	}
	clean := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ReplaceAll(v, tagSeparator, " ")
		if v != "" {
			clean = append(clean, v)
		}
	}
	return strings.Join(clean, tagSeparator)
}

func boolField(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
