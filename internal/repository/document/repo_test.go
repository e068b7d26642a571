package document

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/docbay-cloud/docbay/internal/db"
	"github.com/docbay-cloud/docbay/internal/domain"
	"github.com/docbay-cloud/docbay/internal/domain/search/plan"
)

// fakeStore is an in-memory store implementation for repository tests.
type fakeStore struct {
	hashes      map[string]map[string]string
	createErr   error
	createCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{hashes: map[string]map[string]string{}}
}

func (f *fakeStore) HSet(_ context.Context, key string, fields map[string]string) error {
	m, ok := f.hashes[key]
	if !ok {
		m = map[string]string{}
		f.hashes[key] = m
	}
	for k, v := range fields {
		m[k] = v
	}
	return nil
}

func (f *fakeStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	m, ok := f.hashes[key]
	if !ok {
		return map[string]string{}, nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out, nil
}

func (f *fakeStore) HMGetMulti(_ context.Context, keys []string, fields []string) ([]map[string]string, error) {
	out := make([]map[string]string, len(keys))
	for i, key := range keys {
		m := map[string]string{}
		for _, field := range fields {
			if v, ok := f.hashes[key][field]; ok && v != "" {
				m[field] = v
			}
		}
		out[i] = m
	}
	return out, nil
}

func (f *fakeStore) Del(_ context.Context, key string) error {
	delete(f.hashes, key)
	return nil
}

func (f *fakeStore) CreateIndex(_ context.Context, _ *db.IndexDefinition) error {
	f.createCalls++
	return f.createErr
}

func testDoc() *domain.Document {
	return &domain.Document{
		ID:       "doc-1",
		OwnerID:  "user-1",
		Filename: "invoice.pdf",
		Mime:     "application/pdf",
		Size:     2048,
		Uploaded: time.Date(2024, 3, 12, 9, 30, 0, 0, time.UTC),
		Body:     "paid invoice",
		Summary:  "an invoice",
		Tags:     []string{"work", "taxes"},
	}
}

func TestEnsureIndex_AlreadyExists(t *testing.T) {
	s := newFakeStore()
	s.createErr = db.ErrIndexExists

	r := New(s)
	if err := r.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.createCalls != 1 {
		t.Errorf("createCalls = %d", s.createCalls)
	}
}

func TestUpsert_CreateThenUpdate(t *testing.T) {
	s := newFakeStore()
	r := New(s)
	ctx := context.Background()

	created, err := r.Upsert(ctx, testDoc())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("first upsert must report created")
	}

	created, err = r.Upsert(ctx, testDoc())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("second upsert must report updated")
	}
}

func TestUpsert_WrongOwner(t *testing.T) {
	s := newFakeStore()
	r := New(s)
	ctx := context.Background()

	if _, err := r.Upsert(ctx, testDoc()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	intruder := testDoc()
	intruder.OwnerID = "user-2"
	_, err := r.Upsert(ctx, intruder)
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("cross-owner upsert: err = %v", err)
	}
	if s.hashes[docKey("doc-1")][plan.FieldOwner] != "user-1" {
		t.Error("another owner's record was overwritten")
	}
}

func TestUpsert_WritesDerivedFlags(t *testing.T) {
	s := newFakeStore()
	r := New(s)

	if _, err := r.Upsert(context.Background(), testDoc()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := s.hashes[docKey("doc-1")]
	if m[plan.FieldHasText] != "1" {
		t.Errorf("has_text = %q", m[plan.FieldHasText])
	}
	if m[plan.FieldHasSummary] != "1" {
		t.Errorf("has_summary = %q", m[plan.FieldHasSummary])
	}
	if m[plan.FieldHasThumb] != "0" {
		t.Errorf("has_thumb = %q", m[plan.FieldHasThumb])
	}
	if m[plan.FieldUploaded] != "1710235800000" {
		t.Errorf("uploaded = %q", m[plan.FieldUploaded])
	}
	if m[plan.FieldTags] != "work\x1ftaxes" {
		t.Errorf("tags = %q", m[plan.FieldTags])
	}
}

func TestGet_RoundTrip(t *testing.T) {
	s := newFakeStore()
	r := New(s)
	ctx := context.Background()

	doc := testDoc()
	docDate := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	doc.DocDate = &docDate
	if _, err := r.Upsert(ctx, doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := r.Get(ctx, "user-1", "doc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "doc-1" || got.Filename != "invoice.pdf" || got.Size != 2048 {
		t.Errorf("got = %+v", got)
	}
	if !got.Uploaded.Equal(doc.Uploaded) {
		t.Errorf("Uploaded = %v", got.Uploaded)
	}
	if got.DocDate == nil || !got.DocDate.Equal(docDate) {
		t.Errorf("DocDate = %v", got.DocDate)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "work" {
		t.Errorf("Tags = %v", got.Tags)
	}
}

func TestGet_NotFound(t *testing.T) {
	r := New(newFakeStore())
	_, err := r.Get(context.Background(), "user-1", "missing")
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestGet_WrongOwner(t *testing.T) {
	s := newFakeStore()
	r := New(s)
	ctx := context.Background()

	if _, err := r.Upsert(ctx, testDoc()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Another owner's id probe must look identical to a missing document.
	_, err := r.Get(ctx, "user-2", "doc-1")
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestDelete_ScopedToOwner(t *testing.T) {
	s := newFakeStore()
	r := New(s)
	ctx := context.Background()

	if _, err := r.Upsert(ctx, testDoc()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := r.Delete(ctx, "user-2", "doc-1"); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("cross-owner delete: err = %v", err)
	}
	if _, ok := s.hashes[docKey("doc-1")]; !ok {
		t.Fatal("document deleted by wrong owner")
	}

	if err := r.Delete(ctx, "user-1", "doc-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := s.hashes[docKey("doc-1")]; ok {
		t.Error("document still present after delete")
	}
}

func TestTagsForDocuments(t *testing.T) {
	s := newFakeStore()
	r := New(s)
	ctx := context.Background()

	if _, err := r.Upsert(ctx, testDoc()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tags, err := r.TagsForDocuments(ctx, []string{"doc-1", "missing"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tags["doc-1"]) != 2 {
		t.Errorf("tags = %v", tags)
	}
	if _, ok := tags["missing"]; ok {
		t.Error("missing document must yield no entry")
	}
}

func TestSummariesForDocuments(t *testing.T) {
	s := newFakeStore()
	r := New(s)
	ctx := context.Background()

	withSummary := testDoc()
	noSummary := testDoc()
	noSummary.ID = "doc-2"
	noSummary.Summary = ""
	if _, err := r.Upsert(ctx, withSummary); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Upsert(ctx, noSummary); err != nil {
		t.Fatal(err)
	}

	summaries, err := r.SummariesForDocuments(ctx, []string{"doc-1", "doc-2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summaries["doc-1"] != "an invoice" {
		t.Errorf("summaries = %v", summaries)
	}
	if _, ok := summaries["doc-2"]; ok {
		t.Error("document without summary must yield no entry")
	}
}

func TestTagsForDocuments_Empty(t *testing.T) {
	r := New(newFakeStore())
	tags, err := r.TagsForDocuments(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tags) != 0 {
		t.Errorf("tags = %v", tags)
	}
}
