package search

import (
	"strconv"
	"time"

	"github.com/docbay-cloud/docbay/internal/db"
	"github.com/docbay-cloud/docbay/internal/domain/search/plan"
	"github.com/docbay-cloud/docbay/internal/domain/search/result"
	"github.com/docbay-cloud/docbay/internal/repository/document"
)

// entryToDocument projects a search hit onto the result shape. The
// score is carried only for relevance-ordered pages.
func entryToDocument(e db.SearchEntry, withScore bool) result.Document {
	f := e.Fields
	doc := result.Document{
		ID:         f[plan.FieldDocID],
		Filename:   f[plan.FieldFilename],
		FolderPath: f[plan.FieldFolderPath],
		FolderID:   f[plan.FieldFolderID],
		Category:   f[plan.FieldCategory],
		Mime:       f[plan.FieldMime],
		HasText:    f[plan.FieldHasText] == "1",
		Thumbnail:  f[document.ThumbnailField],
	}
	if v, err := strconv.ParseInt(f[plan.FieldSize], 10, 64); err == nil {
		doc.Size = v
	}
	if t, ok := document.ParseMillis(f[plan.FieldUploaded]); ok {
		doc.Uploaded = t
	}
	if t, ok := document.ParseMillis(f[plan.FieldDocDate]); ok {
		doc.DocDate = &t
	}
	if withScore {
		score := e.Score
		doc.Score = &score
	}
	return doc
}

func scoreOf(d result.Document) float64 {
	if d.Score == nil {
		return 0
	}
	return *d.Score
}

func dateOf(d result.Document) time.Time {
	if d.DocDate == nil {
		return time.Time{}
	}
	return *d.DocDate
}
