package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: a default
// admin user, the three starter categories, a few menu items, and one
// branch with a location. It is a no-op if data already exists.
func Seed(db *sql.DB) error {
	// Check if any categories exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	// Hash the default admin password.
	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	// Insert default admin user. 2FA is not enabled; they must set it up
	// on first login.
	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, role, totp_enabled)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO NOTHING
	`, "admin@cheko.local", string(hash), "Admin", "admin", false)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	// Starter categories.
	categories := []struct {
		name, description, icon string
	}{
		{"Soup", "Warm starters and broths", "soup"},
		{"Rice", "Rice-based main dishes", "rice"},
		{"Others", "Everything else on the menu", "dish"},
	}
	categoryIDs := make(map[string]string, len(categories))
	for _, c := range categories {
		var id string
		err := db.QueryRow(`
			INSERT INTO categories (name, description, icon_name)
			VALUES ($1, $2, $3)
			RETURNING id
		`, c.name, c.description, c.icon).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed category %s: %w", c.name, err)
		}
		categoryIDs[c.name] = id
	}

	// A small starter menu so the search, ranking, and best-seller
	// endpoints return data immediately in development.
	items := []struct {
		name, description, category string
		price                       float64
		calories                    any // int or nil
	}{
		{"Tomato Basil Soup", "Slow-simmered tomatoes with fresh basil", "Soup", 5.50, 220},
		{"Chicken Noodle Soup", "Classic broth with pulled chicken", "Soup", 6.25, 310},
		{"Miso Soup", "Light dashi broth with tofu and wakame", "Soup", 4.75, 90},
		{"Chicken Biryani", "Fragrant basmati rice with spiced chicken", "Rice", 11.00, 780},
		{"Vegetable Fried Rice", "Wok-fried rice with seasonal vegetables", "Rice", 8.50, 560},
		{"Plain Steamed Rice", "A simple side of jasmine rice", "Rice", 2.50, 205},
		{"Grilled Halloumi", "Char-grilled halloumi with lemon", "Others", 7.25, nil},
		{"House Lemonade", "Fresh-squeezed, lightly sweetened", "Others", 3.00, 120},
	}
	for _, it := range items {
		_, err := db.Exec(`
			INSERT INTO items (name, description, price, calories, category_id)
			VALUES ($1, $2, $3, $4, $5)
		`, it.name, it.description, it.price, it.calories, categoryIDs[it.category])
		if err != nil {
			return fmt.Errorf("seed item %s: %w", it.name, err)
		}
	}

	// One branch with a location for the map endpoints.
	var branchID string
	err = db.QueryRow(`
		INSERT INTO branches (name, description, phone, opening_hours)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, "Cheko Downtown", "Flagship branch", "+966-11-555-0100", "Sun-Thu 11:00-23:00").Scan(&branchID)
	if err != nil {
		return fmt.Errorf("seed branch: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO locations (branch_id, address, city, state, country, latitude, longitude, map_zoom_level)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, branchID, "King Fahd Rd 1200", "Riyadh", "Riyadh Province", "SA", 24.7136, 46.6753, 15)
	if err != nil {
		return fmt.Errorf("seed location: %w", err)
	}

	slog.Info("database seeded with development data",
		"admin_email", "admin@cheko.local",
		"categories", len(categories),
		"items", len(items),
	)

	return nil
}
