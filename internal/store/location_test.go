package store

import (
	"testing"

	"cheko/internal/models"
)

// addLocation attaches a location to a branch at the given coordinates.
func addLocation(t *testing.T, ls *LocationStore, b *models.Branch, city string, lat, lng float64) *models.Location {
	t.Helper()
	loc, err := ls.Upsert(&models.Location{
		BranchID:     b.ID,
		Address:      "1 " + b.Name + " street",
		City:         city,
		State:        "Riyadh Province",
		Country:      "SA",
		Latitude:     lat,
		Longitude:    lng,
		MapZoomLevel: 15,
	})
	if err != nil {
		t.Fatalf("upsert location for %q: %v", b.Name, err)
	}
	return loc
}

func TestMarkersExcludeInactiveBranches(t *testing.T) {
	db := testDB(t)
	ls := NewLocationStore(db)

	active := testBranch(t, db, "zz-marker-active", true)
	inactive := testBranch(t, db, "zz-marker-inactive", false)
	addLocation(t, ls, active, "zz-city", 24.7136, 46.6753)
	addLocation(t, ls, inactive, "zz-city", 24.7000, 46.6700)

	markers, err := ls.Markers()
	if err != nil {
		t.Fatalf("markers: %v", err)
	}
	var sawActive, sawInactive bool
	for _, m := range markers {
		switch m.BranchID {
		case active.ID:
			sawActive = true
		case inactive.ID:
			sawInactive = true
		}
	}
	if !sawActive {
		t.Error("active branch missing from markers")
	}
	if sawInactive {
		t.Error("inactive branch must not appear in markers")
	}
}

func TestSearchMarkers(t *testing.T) {
	db := testDB(t)
	ls := NewLocationStore(db)

	b := testBranch(t, db, "zz-search-harbour", true)
	addLocation(t, ls, b, "zz-search-city", 24.7, 46.7)

	byName, err := ls.SearchMarkersByBranchName("HARBOUR")
	if err != nil {
		t.Fatalf("search by name: %v", err)
	}
	if len(byName) == 0 || byName[0].BranchID != b.ID {
		t.Errorf("expected branch by name, got %+v", byName)
	}

	byAddress, err := ls.SearchMarkersByAddress("zz-search-harbour street")
	if err != nil {
		t.Fatalf("search by address: %v", err)
	}
	if len(byAddress) == 0 || byAddress[0].BranchID != b.ID {
		t.Errorf("expected branch by address, got %+v", byAddress)
	}

	none, err := ls.SearchMarkers("zz-absent-term")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no matches, got %+v", none)
	}
}

func TestFilterMarkers(t *testing.T) {
	db := testDB(t)
	ls := NewLocationStore(db)

	riyadh := testBranch(t, db, "zz-filter-riyadh", true)
	jeddah := testBranch(t, db, "zz-filter-jeddah", false)
	addLocation(t, ls, riyadh, "zz-filter-Riyadh", 24.7, 46.7)
	addLocation(t, ls, jeddah, "zz-filter-Jeddah", 21.5, 39.2)

	got, err := ls.FilterMarkers("", "ZZ-FILTER-RIYADH", "", nil)
	if err != nil {
		t.Fatalf("filter by city: %v", err)
	}
	if len(got) != 1 || got[0].BranchID != riyadh.ID {
		t.Errorf("city filter: got %+v", got)
	}

	// active filter is unconstrained by default, so the inactive branch
	// shows up without it and disappears with it.
	got, err = ls.FilterMarkers("zz-filter-jeddah", "", "", nil)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected inactive branch without active filter, got %+v", got)
	}
	got, err = ls.FilterMarkers("zz-filter-jeddah", "", "", boolp(true))
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("active filter should hide the inactive branch, got %+v", got)
	}
}

func TestNearbyOrdersByDistance(t *testing.T) {
	db := testDB(t)
	ls := NewLocationStore(db)

	near := testBranch(t, db, "zz-near", true)
	far := testBranch(t, db, "zz-far", true)
	other := testBranch(t, db, "zz-country-away", true)
	addLocation(t, ls, near, "zz-nearby-city", 24.7140, 46.6760) // ~100 m from origin
	addLocation(t, ls, far, "zz-nearby-city", 24.80, 46.80)      // ~16 km
	addLocation(t, ls, other, "zz-nearby-city", 21.49, 39.19)    // ~800 km

	markers, err := ls.Nearby(24.7136, 46.6753, 50)
	if err != nil {
		t.Fatalf("nearby: %v", err)
	}

	var ours []models.MapMarker
	for _, m := range markers {
		if m.BranchID == near.ID || m.BranchID == far.ID || m.BranchID == other.ID {
			ours = append(ours, m)
		}
	}
	if len(ours) != 2 {
		t.Fatalf("expected 2 branches within 50 km, got %d", len(ours))
	}
	if ours[0].BranchID != near.ID || ours[1].BranchID != far.ID {
		t.Errorf("expected nearest first, got %q then %q", ours[0].BranchName, ours[1].BranchName)
	}
}

func TestUpsertReplacesExistingLocation(t *testing.T) {
	db := testDB(t)
	ls := NewLocationStore(db)
	b := testBranch(t, db, "zz-upsert-branch", true)

	first := addLocation(t, ls, b, "zz-old-city", 24.7, 46.7)
	second, err := ls.Upsert(&models.Location{
		BranchID:     b.ID,
		Address:      "2 new street",
		City:         "zz-new-city",
		Latitude:     25.0,
		Longitude:    47.0,
		MapZoomLevel: 12,
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("upsert should update in place, got new row %s", second.ID)
	}
	if second.City != "zz-new-city" || second.Address != "2 new street" {
		t.Errorf("update not applied: %+v", second)
	}

	got, err := ls.FindByBranchID(b.ID)
	if err != nil {
		t.Fatalf("find by branch: %v", err)
	}
	if got == nil || got.City != "zz-new-city" {
		t.Errorf("expected replaced location, got %+v", got)
	}
}

func TestListWithLocationsJoinsInOneQuery(t *testing.T) {
	db := testDB(t)
	bs := NewBranchStore(db)
	ls := NewLocationStore(db)

	located := testBranch(t, db, "zz-join-located", true)
	bare := testBranch(t, db, "zz-join-bare", true)
	addLocation(t, ls, located, "zz-join-city", 24.7, 46.7)

	branches, err := bs.ListWithLocations(true)
	if err != nil {
		t.Fatalf("list with locations: %v", err)
	}

	var sawLocated, sawBare bool
	for _, b := range branches {
		switch b.ID {
		case located.ID:
			sawLocated = true
			if b.Location == nil || b.Location.City != "zz-join-city" {
				t.Errorf("expected joined location, got %+v", b.Location)
			}
			if b.Location != nil && b.Location.BranchID != located.ID {
				t.Errorf("location branch mismatch: %+v", b.Location)
			}
		case bare.ID:
			sawBare = true
			if b.Location != nil {
				t.Errorf("branch without a location must carry nil, got %+v", b.Location)
			}
		}
	}
	if !sawLocated || !sawBare {
		t.Fatalf("created branches missing from list (located=%v bare=%v)", sawLocated, sawBare)
	}

	// Inactive branches drop out when activeOnly is set.
	inactive := testBranch(t, db, "zz-join-inactive", false)
	branches, err = bs.ListWithLocations(true)
	if err != nil {
		t.Fatalf("list active only: %v", err)
	}
	for _, b := range branches {
		if b.ID == inactive.ID {
			t.Error("inactive branch must be excluded")
		}
	}
	branches, err = bs.ListWithLocations(false)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	found := false
	for _, b := range branches {
		if b.ID == inactive.ID {
			found = true
		}
	}
	if !found {
		t.Error("inactive branch should appear without the active filter")
	}
}

func TestBranchSoftDeleteCascadesLocation(t *testing.T) {
	db := testDB(t)
	bs := NewBranchStore(db)
	ls := NewLocationStore(db)
	b := testBranch(t, db, "zz-cascade-branch", true)
	addLocation(t, ls, b, "zz-cascade-city", 24.7, 46.7)

	ok, err := bs.SoftDelete(b.ID)
	if err != nil || !ok {
		t.Fatalf("soft delete: ok=%v err=%v", ok, err)
	}

	if got, err := bs.FindByID(b.ID); err != nil || got != nil {
		t.Errorf("deleted branch should be invisible: %+v, %v", got, err)
	}
	if got, err := ls.FindByBranchID(b.ID); err != nil || got != nil {
		t.Errorf("branch delete should remove its location: %+v, %v", got, err)
	}
}

func TestCitiesAndStates(t *testing.T) {
	db := testDB(t)
	ls := NewLocationStore(db)
	b := testBranch(t, db, "zz-city-branch", true)
	addLocation(t, ls, b, "zz-distinct-city", 24.7, 46.7)

	cities, err := ls.Cities()
	if err != nil {
		t.Fatalf("cities: %v", err)
	}
	found := false
	for _, c := range cities {
		if c == "zz-distinct-city" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected city in %v", cities)
	}

	states, err := ls.States()
	if err != nil {
		t.Fatalf("states: %v", err)
	}
	found = false
	for _, s := range states {
		if s == "Riyadh Province" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected state in %v", states)
	}
}
