package chi

import (
	"strconv"
	"time"

	"github.com/docbay-cloud/docbay/internal/domain"
	"github.com/docbay-cloud/docbay/internal/domain/search/request"
	"github.com/docbay-cloud/docbay/internal/domain/search/result"
	"github.com/docbay-cloud/docbay/internal/domain/search/sortmode"
	healthuc "github.com/docbay-cloud/docbay/internal/usecase/health"
)

// searchRequestBody is the POST /search payload.
type searchRequestBody struct {
	Query         string             `json:"query"`
	Sort          string             `json:"sort,omitempty"`
	Limit         int                `json:"limit,omitempty"`
	Offset        int                `json:"offset,omitempty"`
	IncludeFacets bool               `json:"include_facets,omitempty"`
	Filters       *structuredFilters `json:"filters,omitempty"`
}

// structuredFilters are filters set through the UI rather than the
// query string: folder tree clicks, category chips, date pickers.
type structuredFilters struct {
	Categories     []string   `json:"categories,omitempty"`
	FolderIDs      []string   `json:"folder_ids,omitempty"`
	UploadedAfter  *time.Time `json:"uploaded_after,omitempty"`
	UploadedBefore *time.Time `json:"uploaded_before,omitempty"`
}

type facetsResponse struct {
	Facets []result.FacetDimension `json:"facets"`
}

type suggestResponse struct {
	Suggestions []string `json:"suggestions"`
}

type healthResponse struct {
	Status string                          `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks,omitempty"`
}

// upsertDocumentBody is the PUT /documents/{id} payload. ID and owner
// come from the path and headers, everything else from the body.
type upsertDocumentBody struct {
	Filename    string     `json:"filename"`
	FolderPath  string     `json:"folder_path"`
	FolderID    string     `json:"folder_id,omitempty"`
	Mime        string     `json:"mime"`
	Size        int64      `json:"size"`
	Category    string     `json:"category,omitempty"`
	Uploaded    *time.Time `json:"uploaded,omitempty"`
	DocDate     *time.Time `json:"doc_date,omitempty"`
	Body        string     `json:"body,omitempty"`
	Summary     string     `json:"summary,omitempty"`
	Thumbnail   string     `json:"thumbnail,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Entities    []string   `json:"entities,omitempty"`
	KeyEntities []string   `json:"key_entities,omitempty"`
}

func searchRequestFromBody(ownerID string, body searchRequestBody) (request.Request, error) {
	var structured request.StructuredFilters
	if body.Filters != nil {
		structured = request.StructuredFilters{
			Categories:     body.Filters.Categories,
			FolderIDs:      body.Filters.FolderIDs,
			UploadedAfter:  body.Filters.UploadedAfter,
			UploadedBefore: body.Filters.UploadedBefore,
		}
	}

	return request.New(
		body.Query, ownerID,
		sortmode.Mode(body.Sort),
		body.Limit, body.Offset,
		body.IncludeFacets,
		structured,
	)
}

func documentFromBody(id, ownerID string, body upsertDocumentBody) domain.Document {
	doc := domain.Document{
		ID:          id,
		OwnerID:     ownerID,
		Filename:    body.Filename,
		FolderPath:  body.FolderPath,
		FolderID:    body.FolderID,
		Mime:        body.Mime,
		Size:        body.Size,
		Category:    body.Category,
		DocDate:     body.DocDate,
		Body:        body.Body,
		Summary:     body.Summary,
		Thumbnail:   body.Thumbnail,
		Tags:        body.Tags,
		Entities:    body.Entities,
		KeyEntities: body.KeyEntities,
	}
	if body.Uploaded != nil {
		doc.Uploaded = *body.Uploaded
	}
	return doc
}

func intParam(s string) int {
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}
