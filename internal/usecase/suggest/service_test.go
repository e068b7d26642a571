package suggest

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/docbay-cloud/docbay/internal/domain/search/plan"
)

type fakeRepo struct {
	values []string
	err    error

	field  string
	prefix string
	limit  int
	calls  int
}

func (f *fakeRepo) SuggestValues(_ context.Context, _, field, prefix string, limit int) ([]string, error) {
	f.calls++
	f.field, f.prefix, f.limit = field, prefix, limit
	return f.values, f.err
}

func TestSuggest_MapsDimensionToField(t *testing.T) {
	tests := []struct {
		dimension string
		field     string
	}{
		{"filename", plan.FieldFilename},
		{"folder", plan.FieldFolderPath},
		{"tag", plan.FieldTags},
		{"entity", plan.FieldEntities},
		{"category", plan.FieldCategory},
	}
	for _, tc := range tests {
		t.Run(tc.dimension, func(t *testing.T) {
			repo := &fakeRepo{}
			svc := New(repo)

			if _, err := svc.Suggest(context.Background(), "user-1", tc.dimension, "a", 5); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if repo.field != tc.field {
				t.Errorf("field = %q, want %q", repo.field, tc.field)
			}
		})
	}
}

func TestSuggest_UnknownDimension(t *testing.T) {
	repo := &fakeRepo{}
	svc := New(repo)

	values, err := svc.Suggest(context.Background(), "user-1", "banana", "a", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if values == nil || len(values) != 0 {
		t.Errorf("values = %v, want empty list", values)
	}
	if repo.calls != 0 {
		t.Error("repository called for unknown dimension")
	}
}

func TestSuggest_SortsValues(t *testing.T) {
	repo := &fakeRepo{values: []string{"work", "Vacation", "taxes"}}
	svc := New(repo)

	values, err := svc.Suggest(context.Background(), "user-1", "tag", "", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(values, []string{"Vacation", "taxes", "work"}) {
		t.Errorf("values = %v", values)
	}
}

func TestSuggest_LimitClamping(t *testing.T) {
	repo := &fakeRepo{}
	svc := New(repo)
	ctx := context.Background()

	if _, err := svc.Suggest(ctx, "user-1", "tag", "", 0); err != nil {
		t.Fatal(err)
	}
	if repo.limit != DefaultLimit {
		t.Errorf("limit = %d, want default", repo.limit)
	}

	if _, err := svc.Suggest(ctx, "user-1", "tag", "", 500); err != nil {
		t.Fatal(err)
	}
	if repo.limit != MaxLimit {
		t.Errorf("limit = %d, want max", repo.limit)
	}
}

func TestSuggest_RepoError(t *testing.T) {
	repo := &fakeRepo{err: errors.New("store down")}
	svc := New(repo)

	if _, err := svc.Suggest(context.Background(), "user-1", "tag", "a", 5); err == nil {
		t.Fatal("expected error")
	}
}
