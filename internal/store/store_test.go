// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"cheko/internal/database"
	"cheko/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
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

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testCategory inserts a category and registers its removal.
func testCategory(t *testing.T, db *sql.DB, name string) *models.Category {
	t.Helper()

	cs := NewCategoryStore(db)
	cat, err := cs.Create(&models.Category{Name: name, Description: "test category"})
	if err != nil {
		t.Fatalf("create category %q: %v", name, err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM items WHERE category_id = $1", cat.ID)
		db.Exec("DELETE FROM categories WHERE id = $1", cat.ID)
	})
	return cat
}

// testItem inserts an item into the given category and registers its
// removal. calories may be nil.
func testItem(t *testing.T, db *sql.DB, categoryID uuid.UUID, name string, price float64, calories *int) *models.Item {
	t.Helper()

	is := NewItemStore(db)
	it, err := is.Create(&models.Item{
		Name:        name,
		Description: "test item",
		Price:       price,
		Calories:    calories,
		CategoryID:  categoryID,
		IsAvailable: true,
	})
	if err != nil {
		t.Fatalf("create item %q: %v", name, err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM items WHERE id = $1", it.ID)
	})
	return it
}

// testBranch inserts a branch and registers its removal.
func testBranch(t *testing.T, db *sql.DB, name string, active bool) *models.Branch {
	t.Helper()

	bs := NewBranchStore(db)
	b, err := bs.Create(&models.Branch{Name: name, IsActive: active})
	if err != nil {
		t.Fatalf("create branch %q: %v", name, err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM locations WHERE branch_id = $1", b.ID)
		db.Exec("DELETE FROM branches WHERE id = $1", b.ID)
	})
	return b
}

// intp is a shorthand for optional int fields in tests.
func intp(n int) *int { return &n }

// boolp is a shorthand for optional bool fields in tests.
func boolp(b bool) *bool { return &b }
