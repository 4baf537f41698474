package store

import (
	"strings"
	"testing"
)

func TestBuildItemFilterDefaults(t *testing.T) {
	where, args, orderBy, err := buildItemFilter(ItemFilter{})
	if err != nil {
		t.Fatalf("buildItemFilter: %v", err)
	}
	if where != "i.deleted_at IS NULL" {
		t.Errorf("where: got %q", where)
	}
	if len(args) != 0 {
		t.Errorf("expected no args, got %v", args)
	}
	if orderBy != "i.name ASC, i.id ASC" {
		t.Errorf("orderBy: got %q", orderBy)
	}
}

func TestBuildItemFilterCombined(t *testing.T) {
	f := ItemFilter{
		Query:       "chicken",
		Category:    "Rice",
		BestSeller:  boolp(true),
		Available:   boolp(true),
		MinCalories: intp(100),
		MaxCalories: intp(900),
	}
	where, args, _, err := buildItemFilter(f)
	if err != nil {
		t.Fatalf("buildItemFilter: %v", err)
	}
	if len(args) != 6 {
		t.Fatalf("expected 6 args, got %d: %v", len(args), args)
	}
	for _, frag := range []string{
		"i.deleted_at IS NULL",
		"i.name ILIKE $1 OR i.description ILIKE $1",
		"lower(c.name) = lower($2)",
		"i.is_best_seller = $3",
		"i.is_available = $4",
		"i.calories >= $5",
		"i.calories <= $6",
	} {
		if !strings.Contains(where, frag) {
			t.Errorf("where missing %q: %q", frag, where)
		}
	}
}

func TestBuildItemFilterBlankQueryIsNoFilter(t *testing.T) {
	where, args, _, err := buildItemFilter(ItemFilter{Query: "   "})
	if err != nil {
		t.Fatalf("buildItemFilter: %v", err)
	}
	if len(args) != 0 {
		t.Errorf("whitespace query should add no args, got %v", args)
	}
	if strings.Contains(where, "ILIKE") {
		t.Errorf("whitespace query should add no condition: %q", where)
	}
}

func TestBuildItemFilterRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		f    ItemFilter
	}{
		{"negative page", ItemFilter{Page: -1}},
		{"negative size", ItemFilter{Size: -5}},
		{"oversized page", ItemFilter{Size: MaxPageSize + 1}},
		{"unknown sort", ItemFilter{Sort: "cleverness"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, _, err := buildItemFilter(tc.f); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestValidSortKey(t *testing.T) {
	for _, key := range []string{"name", "price", "calories", "total_orders", "created_at"} {
		if !ValidSortKey(key) {
			t.Errorf("expected %q to be valid", key)
		}
	}
	if ValidSortKey("DROP TABLE items") {
		t.Error("arbitrary input must not be a sort key")
	}
}

func TestEscapeLike(t *testing.T) {
	got := escapeLike(`50%_off\deal`)
	want := `50\%\_off\\deal`
	if got != want {
		t.Errorf("escapeLike: got %q, want %q", got, want)
	}
}
