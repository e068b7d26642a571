package document

import (
	"github.com/docbay-cloud/docbay/internal/db"
	"github.com/docbay-cloud/docbay/internal/domain/search/plan"
)

// Key and index naming for document records.
const (
	// KeyPrefix prefixes every document hash key.
	KeyPrefix = "docbay:doc:"
	// IndexName is the FT index over all document records.
	IndexName = "docbay:docs:idx"
)

// tagSeparator joins multi-value TAG fields (tags, entities) in one hash
// field. Values are sanitized on write so the separator cannot occur
// inside a value.
const tagSeparator = "\x1f"

// docKey returns the hash key for a document id.
func docKey(id string) string { return KeyPrefix + id }

// IndexDefinition is the document index schema. Field names are the
// plan package's shared vocabulary, so compiled predicates render
// against exactly these fields.
func IndexDefinition() *db.IndexDefinition {
	return db.NewIndex(IndexName).
		Prefix(KeyPrefix).
		Tag(plan.FieldOwner).
		Tag(plan.FieldDocID).
		Tag(plan.FieldCategory).
		Tag(plan.FieldMime).
		Tag(plan.FieldFolderPath).
		Tag(plan.FieldFolderID).
		TagWithOpts(plan.FieldTags, tagSeparator, false).
		TagWithOpts(plan.FieldEntities, tagSeparator, false).
		TagWithOpts(plan.FieldKeyEntities, tagSeparator, false).
		NumericSortable(plan.FieldSize).
		NumericSortable(plan.FieldUploaded).
		NumericSortable(plan.FieldDocDate).
		Numeric(plan.FieldHasText).
		Numeric(plan.FieldHasSummary).
		Numeric(plan.FieldHasThumb).
		TextSortable(plan.FieldFilename).
		Text(plan.FieldSummary).
		Text(plan.FieldBody).
		MustBuild()
}
