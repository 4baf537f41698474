// service_db_test.go exercises the menu service against a real
// PostgreSQL database. Tests are skipped if it is not available.
package menu

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"cheko/internal/database"
	"cheko/internal/models"
	"cheko/internal/store"
)

func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "cheko")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "cheko")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testService returns a service wired to the test database, skipping
// the test when PostgreSQL is unreachable.
func testService(t *testing.T) (*Service, *sql.DB) {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)
	t.Cleanup(func() { db.Close() })

	svc := NewService(store.NewItemStore(db), store.NewCategoryStore(db), 5, store.DefaultPageSize)
	return svc, db
}

// seedCategory inserts a category and registers its removal.
func seedCategory(t *testing.T, db *sql.DB, name string) *models.Category {
	t.Helper()

	cat, err := store.NewCategoryStore(db).Create(&models.Category{Name: name})
	if err != nil {
		t.Fatalf("create category %q: %v", name, err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM items WHERE category_id = $1", cat.ID)
		db.Exec("DELETE FROM categories WHERE id = $1", cat.ID)
	})
	return cat
}

// seedItem inserts an item into the given category and registers its
// removal.
func seedItem(t *testing.T, db *sql.DB, categoryID uuid.UUID, name string) *models.Item {
	t.Helper()

	it, err := store.NewItemStore(db).Create(&models.Item{
		Name:        name,
		Description: "menu test item",
		Price:       9.5,
		CategoryID:  categoryID,
		IsAvailable: true,
	})
	if err != nil {
		t.Fatalf("create item %q: %v", name, err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM items WHERE id = $1", it.ID) })
	return it
}

func TestSearchBlankQueryEqualsList(t *testing.T) {
	s, db := testService(t)
	cat := seedCategory(t, db, "zz-menu-search-cat")
	seedItem(t, db, cat.ID, "zz-menu-search-a")
	seedItem(t, db, cat.ID, "zz-menu-search-b")

	p := PageRequest{Size: store.MaxPageSize}
	listed, err := s.List(p)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	searched, err := s.Search("   ", p)
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if searched.TotalItems != listed.TotalItems {
		t.Errorf("totals diverge: search %d, list %d", searched.TotalItems, listed.TotalItems)
	}
	if len(searched.Items) != len(listed.Items) {
		t.Fatalf("page lengths diverge: search %d, list %d", len(searched.Items), len(listed.Items))
	}
	for i := range listed.Items {
		if searched.Items[i].ID != listed.Items[i].ID {
			t.Fatalf("item %d diverges: search %q, list %q", i, searched.Items[i].Name, listed.Items[i].Name)
		}
	}
}

func TestSearchMatchesNameAndDescription(t *testing.T) {
	s, db := testService(t)
	cat := seedCategory(t, db, "zz-menu-match-cat")
	seedItem(t, db, cat.ID, "zz-menu-match-unique")

	page, err := s.Search("ZZ-MENU-MATCH-UNIQUE", PageRequest{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if page.TotalItems != 1 {
		t.Errorf("expected 1 match, got %d", page.TotalItems)
	}
}

func TestItemCountsByCategoryTotalMatchesSum(t *testing.T) {
	s, db := testService(t)
	cat := seedCategory(t, db, "zz-menu-count-cat")
	seedItem(t, db, cat.ID, "zz-menu-count-a")
	seedItem(t, db, cat.ID, "zz-menu-count-b")

	counts, err := s.ItemCountsByCategory()
	if err != nil {
		t.Fatalf("counts: %v", err)
	}

	total, ok := counts[TotalCountKey]
	if !ok {
		t.Fatalf("missing %q entry in %v", TotalCountKey, counts)
	}
	sum := 0
	for key, n := range counts {
		if key != TotalCountKey {
			sum += n
		}
	}
	if total != sum {
		t.Errorf("total %d does not equal category sum %d: %v", total, sum, counts)
	}
	if counts[cat.Name] != 2 {
		t.Errorf("seeded category: got %d, want 2", counts[cat.Name])
	}
}
