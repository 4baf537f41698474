package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapPreservesKind(t *testing.T) {
	err := Wrap(ErrNotFound, "item %d", 42)

	if !IsNotFound(err) {
		t.Error("expected NotFound kind")
	}
	if IsConflict(err) || IsInvalidArgument(err) || IsUnavailable(err) {
		t.Error("kinds must not overlap")
	}
	if err.Error() != "not found: item 42" {
		t.Errorf("message: %q", err.Error())
	}
}

func TestWrapSurvivesFurtherWrapping(t *testing.T) {
	err := Wrap(ErrConflict, "name taken")
	outer := fmt.Errorf("create item: %w", err)

	if !IsConflict(outer) {
		t.Error("kind lost through wrapping")
	}
	if !errors.Is(outer, ErrConflict) {
		t.Error("errors.Is should see the sentinel")
	}
}

func TestKindsAreDistinct(t *testing.T) {
	kinds := []error{ErrNotFound, ErrConflict, ErrInvalidArgument, ErrUnavailable}
	for i, a := range kinds {
		for j, b := range kinds {
			if (i == j) != errors.Is(a, b) {
				t.Errorf("kind %d vs %d: unexpected identity", i, j)
			}
		}
	}
}
