package menu

import (
	"testing"

	"github.com/google/uuid"

	"cheko/internal/apperr"
	"cheko/internal/store"
)

// newTestService returns a service whose store calls would panic;
// suitable only for exercising the validation paths that reject input
// before any store is touched.
func newTestService() *Service {
	return NewService(nil, nil, 5, store.DefaultPageSize)
}

func TestListRejectsBadPagination(t *testing.T) {
	s := newTestService()

	cases := []struct {
		name string
		p    PageRequest
	}{
		{"negative page", PageRequest{Page: -1}},
		{"negative size", PageRequest{Size: -1}},
		{"oversized page", PageRequest{Size: store.MaxPageSize + 1}},
		{"unknown sort", PageRequest{Sort: "spiciness"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.List(tc.p)
			if !apperr.IsInvalidArgument(err) {
				t.Errorf("expected invalid argument, got %v", err)
			}
		})
	}
}

func TestCreateItemValidation(t *testing.T) {
	s := newTestService()
	catID := uuid.New()
	negative := -5

	cases := []struct {
		name string
		in   ItemInput
	}{
		{"missing name", ItemInput{Price: 10, CategoryID: catID}},
		{"blank name", ItemInput{Name: "   ", Price: 10, CategoryID: catID}},
		{"negative price", ItemInput{Name: "Soup", Price: -1, CategoryID: catID}},
		{"negative calories", ItemInput{Name: "Soup", Price: 10, Calories: &negative, CategoryID: catID}},
		{"missing category", ItemInput{Name: "Soup", Price: 10}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.CreateItem(tc.in)
			if !apperr.IsInvalidArgument(err) {
				t.Errorf("expected invalid argument, got %v", err)
			}
		})
	}
}

func TestUpdateItemValidation(t *testing.T) {
	s := newTestService()

	_, err := s.UpdateItem(uuid.New(), ItemInput{Name: "", Price: 10, CategoryID: uuid.New()})
	if !apperr.IsInvalidArgument(err) {
		t.Errorf("expected invalid argument, got %v", err)
	}
}

func TestSecondHighestRequiresCategory(t *testing.T) {
	s := newTestService()

	_, err := s.SecondHighestForCategory("   ")
	if !apperr.IsInvalidArgument(err) {
		t.Errorf("expected invalid argument, got %v", err)
	}
}

func TestCategoryInputValidation(t *testing.T) {
	s := newTestService()

	if _, err := s.CreateCategory(CategoryInput{Name: " "}); !apperr.IsInvalidArgument(err) {
		t.Errorf("create: expected invalid argument, got %v", err)
	}
	if _, err := s.UpdateCategory(uuid.New(), CategoryInput{Name: ""}); !apperr.IsInvalidArgument(err) {
		t.Errorf("update: expected invalid argument, got %v", err)
	}
}

func TestZeroSizeFallsBackToDefault(t *testing.T) {
	s := newTestService()
	f := s.filterFor(PageRequest{Page: 2})
	if f.Size != store.DefaultPageSize {
		t.Errorf("expected default size %d, got %d", store.DefaultPageSize, f.Size)
	}
	if f.Page != 2 {
		t.Errorf("page lost: %d", f.Page)
	}
}
