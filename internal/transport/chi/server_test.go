package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/docbay-cloud/docbay/internal/domain"
	"github.com/docbay-cloud/docbay/internal/domain/search/plan"
	"github.com/docbay-cloud/docbay/internal/domain/search/result"
	documentuc "github.com/docbay-cloud/docbay/internal/usecase/document"
	healthuc "github.com/docbay-cloud/docbay/internal/usecase/health"
	searchuc "github.com/docbay-cloud/docbay/internal/usecase/search"
	suggestuc "github.com/docbay-cloud/docbay/internal/usecase/suggest"
)

type stubSearchRepo struct {
	docs  []result.Document
	total int
	group map[string][]result.FacetItem
	err   error
}

func (s *stubSearchRepo) Find(_ context.Context, _ *plan.Plan) ([]result.Document, int, error) {
	return append([]result.Document(nil), s.docs...), len(s.docs), s.err
}

func (s *stubSearchRepo) Count(_ context.Context, _ *plan.Plan) (int, error) {
	return s.total, s.err
}

func (s *stubSearchRepo) GroupCounts(_ context.Context, _ *plan.Plan, _ plan.Dimension, field string, _ int) ([]result.FacetItem, error) {
	return append([]result.FacetItem(nil), s.group[field]...), nil
}

func (s *stubSearchRepo) CountWhere(_ context.Context, _ *plan.Plan, _ plan.Dimension, _ ...plan.Clause) (int, error) {
	return 0, nil
}

func (s *stubSearchRepo) BodySnippets(_ context.Context, _ *plan.Plan, _ []string) (map[string]string, error) {
	return map[string]string{}, nil
}

type stubDocReader struct{}

func (stubDocReader) TagsForDocuments(_ context.Context, _ []string) (map[string][]string, error) {
	return map[string][]string{}, nil
}

func (stubDocReader) SummariesForDocuments(_ context.Context, _ []string) (map[string]string, error) {
	return map[string]string{}, nil
}

type stubDocRepo struct {
	created bool
	doc     domain.Document
	getErr  error
	deleted string
}

func (s *stubDocRepo) EnsureIndex(_ context.Context) error { return nil }

func (s *stubDocRepo) Upsert(_ context.Context, _ *domain.Document) (bool, error) {
	return s.created, nil
}

func (s *stubDocRepo) Get(_ context.Context, _, _ string) (domain.Document, error) {
	return s.doc, s.getErr
}

func (s *stubDocRepo) Delete(_ context.Context, _, id string) error {
	s.deleted = id
	return nil
}

type stubSuggestRepo struct {
	values []string
}

func (s *stubSuggestRepo) SuggestValues(_ context.Context, _, _, _ string, _ int) ([]string, error) {
	return s.values, nil
}

type stubPinger struct {
	err error
}

func (s *stubPinger) Ping(_ context.Context) error { return s.err }

type testDeps struct {
	search  *stubSearchRepo
	docs    *stubDocRepo
	suggest *stubSuggestRepo
	ping    *stubPinger
}

func newTestRouter(deps testDeps) http.Handler {
	if deps.search == nil {
		deps.search = &stubSearchRepo{}
	}
	if deps.docs == nil {
		deps.docs = &stubDocRepo{}
	}
	if deps.suggest == nil {
		deps.suggest = &stubSuggestRepo{}
	}
	if deps.ping == nil {
		deps.ping = &stubPinger{}
	}

	srv := NewServer(
		documentuc.New(deps.docs),
		searchuc.New(deps.search, stubDocReader{}),
		suggestuc.New(deps.suggest),
		healthuc.New(deps.ping),
		zap.NewNop(),
	)
	r := chi.NewRouter()
	srv.Mount(r)
	return r
}

func doRequest(h http.Handler, method, path, owner, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if owner != "" {
		req.Header.Set(ownerHeader, owner)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var er errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return er
}

func TestSearchDocuments_OK(t *testing.T) {
	h := newTestRouter(testDeps{
		search: &stubSearchRepo{
			docs:  []result.Document{{ID: "doc-1", Filename: "invoice.pdf"}},
			total: 42,
		},
	})

	rec := doRequest(h, http.MethodPost, "/api/v1/search", "user-1", `{"query":"type:invoice"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp result.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 42 {
		t.Errorf("Total = %d, want 42", resp.Total)
	}
	if len(resp.Results) != 1 || resp.Results[0].ID != "doc-1" {
		t.Errorf("Results = %+v", resp.Results)
	}
}

func TestSearchDocuments_MissingOwner(t *testing.T) {
	h := newTestRouter(testDeps{})

	rec := doRequest(h, http.MethodPost, "/api/v1/search", "", `{"query":"acme"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if er := decodeError(t, rec); er.Code != codeBadRequest {
		t.Errorf("code = %q", er.Code)
	}
}

func TestSearchDocuments_MalformedBody(t *testing.T) {
	h := newTestRouter(testDeps{})

	rec := doRequest(h, http.MethodPost, "/api/v1/search", "user-1", `{"query":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if er := decodeError(t, rec); er.Code != codeBadRequest {
		t.Errorf("code = %q", er.Code)
	}
}

func TestSearchDocuments_InvalidQueryReasons(t *testing.T) {
	h := newTestRouter(testDeps{})

	rec := doRequest(h, http.MethodPost, "/api/v1/search", "user-1", `{"query":"uploaded:2025-2022"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	er := decodeError(t, rec)
	if er.Code != codeInvalidQuery {
		t.Errorf("code = %q", er.Code)
	}
	if len(er.Reasons) != 1 {
		t.Errorf("reasons = %v", er.Reasons)
	}
}

func TestSearchFacets_OK(t *testing.T) {
	h := newTestRouter(testDeps{
		search: &stubSearchRepo{
			group: map[string][]result.FacetItem{
				plan.FieldTags: {{Name: "work", Count: 3}},
			},
		},
	})

	rec := doRequest(h, http.MethodGet, "/api/v1/search/facets?q=tag:work", "user-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp facetsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	found := false
	for _, dim := range resp.Facets {
		if dim.Name == "tag" {
			found = true
		}
	}
	if !found {
		t.Errorf("Facets = %+v, tag dimension missing", resp.Facets)
	}
}

func TestSuggest_OK(t *testing.T) {
	h := newTestRouter(testDeps{
		suggest: &stubSuggestRepo{values: []string{"vacation", "vat"}},
	})

	rec := doRequest(h, http.MethodGet, "/api/v1/suggest?dimension=tag&prefix=va&limit=5", "user-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp suggestResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Suggestions) != 2 || resp.Suggestions[0] != "vacation" {
		t.Errorf("Suggestions = %v", resp.Suggestions)
	}
}

func TestUpsertDocument_Created(t *testing.T) {
	h := newTestRouter(testDeps{docs: &stubDocRepo{created: true}})

	body := `{"filename":"invoice.pdf","folder_path":"/Finance","mime":"application/pdf","size":1024}`
	rec := doRequest(h, http.MethodPut, "/api/v1/documents/doc-1", "user-1", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/api/v1/documents/doc-1" {
		t.Errorf("Location = %q", loc)
	}
}

func TestUpsertDocument_Updated(t *testing.T) {
	h := newTestRouter(testDeps{docs: &stubDocRepo{created: false}})

	body := `{"filename":"invoice.pdf","mime":"application/pdf","size":1024}`
	rec := doRequest(h, http.MethodPut, "/api/v1/documents/doc-1", "user-1", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Location") != "" {
		t.Error("Location header set for an update")
	}
}

func TestUpsertDocument_ValidationFailed(t *testing.T) {
	h := newTestRouter(testDeps{})

	// Filename missing.
	rec := doRequest(h, http.MethodPut, "/api/v1/documents/doc-1", "user-1", `{"mime":"application/pdf"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if er := decodeError(t, rec); er.Code != codeValidationFailed {
		t.Errorf("code = %q", er.Code)
	}
}

func TestGetDocument_OK(t *testing.T) {
	h := newTestRouter(testDeps{
		docs: &stubDocRepo{doc: domain.Document{ID: "doc-1", Filename: "invoice.pdf"}},
	})

	rec := doRequest(h, http.MethodGet, "/api/v1/documents/doc-1", "user-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var doc domain.Document
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.ID != "doc-1" {
		t.Errorf("doc = %+v", doc)
	}
}

func TestGetDocument_NotFound(t *testing.T) {
	h := newTestRouter(testDeps{
		docs: &stubDocRepo{getErr: domain.ErrDocumentNotFound},
	})

	rec := doRequest(h, http.MethodGet, "/api/v1/documents/missing", "user-1", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if er := decodeError(t, rec); er.Code != codeDocumentNotFound {
		t.Errorf("code = %q", er.Code)
	}
}

func TestDeleteDocument_NoContent(t *testing.T) {
	docs := &stubDocRepo{}
	h := newTestRouter(testDeps{docs: docs})

	rec := doRequest(h, http.MethodDelete, "/api/v1/documents/doc-1", "user-1", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if docs.deleted != "doc-1" {
		t.Errorf("deleted = %q", docs.deleted)
	}
}

func TestHealthCheck_OK(t *testing.T) {
	h := newTestRouter(testDeps{})

	rec := doRequest(h, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != string(healthuc.Healthy) {
		t.Errorf("Status = %q", resp.Status)
	}
}

func TestHealthCheck_Degraded(t *testing.T) {
	h := newTestRouter(testDeps{ping: &stubPinger{err: context.DeadlineExceeded}})

	rec := doRequest(h, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Checks["database"] != healthuc.CheckError {
		t.Errorf("Checks = %v", resp.Checks)
	}
}
