package database_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/edgard/fitbot/internal/database"
)

func newTestStore(t *testing.T) database.Store {
	t.Helper()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.CloseDB(db) })

	return database.NewStore(db, nil)
}

func testProfile(userID int64) *database.Profile {
	return &database.Profile{
		UserID:          userID,
		WeightKG:        70,
		HeightCM:        175,
		AgeYears:        30,
		ActivityMinutes: 45,
		City:            "Lisbon",
		WaterGoalML:     2600,
		CalorieGoalKcal: 1761.5625,
	}
}

func TestProfileRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	got, err := store.GetProfile(ctx, 1)
	if err != nil {
		t.Fatalf("GetProfile on empty table: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil profile before creation, got %+v", got)
	}

	p := testProfile(1)
	if err := store.CreateProfile(ctx, p); err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	got, err = store.GetProfile(ctx, 1)
	if err != nil {
		t.Fatalf("GetProfile after creation: %v", err)
	}
	if got == nil {
		t.Fatal("expected profile after creation, got nil")
	}
	if got.WeightKG != 70 || got.City != "Lisbon" || got.CalorieGoalKcal != 1761.5625 {
		t.Errorf("profile round trip mismatch: %+v", got)
	}

	if err := store.CreateProfile(ctx, testProfile(1)); !errors.Is(err, database.ErrProfileExists) {
		t.Errorf("expected ErrProfileExists for duplicate creation, got %v", err)
	}
}

func TestUpdateProfileOverwritesAttributesAndGoals(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	p := testProfile(2)
	if err := store.CreateProfile(ctx, p); err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	p.WeightKG = 80
	p.City = "Porto"
	p.WaterGoalML = 2900
	p.CalorieGoalKcal = 1911.5625
	if err := store.UpdateProfile(ctx, p); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}

	got, err := store.GetProfile(ctx, 2)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if got.WeightKG != 80 || got.City != "Porto" || got.WaterGoalML != 2900 {
		t.Errorf("update not persisted: %+v", got)
	}
}

func TestGetAllProfiles(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	for _, id := range []int64{3, 1, 2} {
		if err := store.CreateProfile(ctx, testProfile(id)); err != nil {
			t.Fatalf("CreateProfile(%d): %v", id, err)
		}
	}

	profiles, err := store.GetAllProfiles(ctx)
	if err != nil {
		t.Fatalf("GetAllProfiles: %v", err)
	}
	if len(profiles) != 3 {
		t.Fatalf("expected 3 profiles, got %d", len(profiles))
	}
	for i, want := range []int64{1, 2, 3} {
		if profiles[i].UserID != want {
			t.Errorf("profiles[%d].UserID = %d, want %d", i, profiles[i].UserID, want)
		}
	}
}

func TestDailyRecordLifecycle(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	const (
		userID = int64(7)
		date   = "2026-08-28"
	)

	got, err := store.GetDailyRecord(ctx, userID, date)
	if err != nil {
		t.Fatalf("GetDailyRecord on empty table: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil record before creation, got %+v", got)
	}

	record, err := store.CreateDailyRecord(ctx, userID, date)
	if err != nil {
		t.Fatalf("CreateDailyRecord: %v", err)
	}
	if record.WaterLoggedML != 0 || record.CaloriesLoggedKcal != 0 || record.CaloriesBurnedKcal != 0 {
		t.Errorf("new record not zeroed: %+v", record)
	}

	if _, err := store.CreateDailyRecord(ctx, userID, date); !errors.Is(err, database.ErrDuplicateRecord) {
		t.Errorf("expected ErrDuplicateRecord for duplicate creation, got %v", err)
	}

	if err := store.IncrementDailyRecord(ctx, userID, date, database.FieldWaterLoggedML, 300); err != nil {
		t.Fatalf("IncrementDailyRecord water: %v", err)
	}
	if err := store.IncrementDailyRecord(ctx, userID, date, database.FieldCaloriesLoggedKcal, 250.5); err != nil {
		t.Fatalf("IncrementDailyRecord calories: %v", err)
	}
	if err := store.IncrementDailyRecord(ctx, userID, date, database.FieldCaloriesBurnedKcal, 120); err != nil {
		t.Fatalf("IncrementDailyRecord burned: %v", err)
	}

	got, err = store.GetDailyRecord(ctx, userID, date)
	if err != nil {
		t.Fatalf("GetDailyRecord: %v", err)
	}
	if got.WaterLoggedML != 300 || got.CaloriesLoggedKcal != 250.5 || got.CaloriesBurnedKcal != 120 {
		t.Errorf("increments not applied: %+v", got)
	}
}

func TestIncrementDailyRecordValidation(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	err := store.IncrementDailyRecord(ctx, 8, "2026-08-28", database.FieldWaterLoggedML, 100)
	if !errors.Is(err, database.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound for missing record, got %v", err)
	}

	if _, err := store.CreateDailyRecord(ctx, 8, "2026-08-28"); err != nil {
		t.Fatalf("CreateDailyRecord: %v", err)
	}

	if err := store.IncrementDailyRecord(ctx, 8, "2026-08-28", "drop_table", 1); err == nil {
		t.Error("expected error for unknown field, got nil")
	}
	if err := store.IncrementDailyRecord(ctx, 8, "2026-08-28", database.FieldWaterLoggedML, -5); err == nil {
		t.Error("expected error for negative delta, got nil")
	}
}

func TestListDailyRecordsRange(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	const userID = int64(9)
	dates := []string{"2026-08-25", "2026-08-26", "2026-08-27", "2026-09-01"}
	for _, d := range dates {
		if _, err := store.CreateDailyRecord(ctx, userID, d); err != nil {
			t.Fatalf("CreateDailyRecord(%s): %v", d, err)
		}
	}
	// Another user's records must not leak into the range.
	if _, err := store.CreateDailyRecord(ctx, 10, "2026-08-26"); err != nil {
		t.Fatalf("CreateDailyRecord other user: %v", err)
	}

	records, err := store.ListDailyRecords(ctx, userID, "2026-08-26", "2026-08-31")
	if err != nil {
		t.Fatalf("ListDailyRecords: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records in range, got %d", len(records))
	}
	if records[0].Date != "2026-08-26" || records[1].Date != "2026-08-27" {
		t.Errorf("records out of range or order: %q, %q", records[0].Date, records[1].Date)
	}
}

func TestConcurrentIncrementsSumExactly(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	const (
		userID     = int64(11)
		date       = "2026-08-28"
		goroutines = 20
		delta      = 100.0
	)

	if _, err := store.CreateDailyRecord(ctx, userID, date); err != nil {
		t.Fatalf("CreateDailyRecord: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- store.IncrementDailyRecord(ctx, userID, date, database.FieldWaterLoggedML, delta)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent increment failed: %v", err)
		}
	}

	got, err := store.GetDailyRecord(ctx, userID, date)
	if err != nil {
		t.Fatalf("GetDailyRecord: %v", err)
	}
	if want := float64(goroutines) * delta; got.WaterLoggedML != want {
		t.Errorf("lost update: water_logged_ml = %v, want %v", got.WaterLoggedML, want)
	}
}

func TestRunSQLMaintenance(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	if err := store.RunSQLMaintenance(context.Background()); err != nil {
		t.Fatalf("RunSQLMaintenance: %v", err)
	}
}

func TestExtractDBNameFromPath(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		path     string
		expected string
	}{
		{name: "plain path", path: "fitbot.db", expected: "fitbot.db"},
		{name: "file scheme", path: "file:data/fitbot.db", expected: "data/fitbot.db"},
		{name: "query options stripped", path: "fitbot.db?mode=rwc&cache=shared", expected: "fitbot.db"},
		{name: "url escaped", path: "my%20data.db", expected: "my data.db"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := database.ExtractDBNameFromPath(tc.path); got != tc.expected {
				t.Errorf("ExtractDBNameFromPath(%q) = %q, want %q", tc.path, got, tc.expected)
			}
		})
	}
}
