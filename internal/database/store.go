package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// DailyField names an accumulator column of the daily_records table.
// Using a closed type keeps caller-supplied increments away from raw SQL.
type DailyField string

// Accumulator columns accepted by IncrementDailyRecord.
const (
	FieldWaterLoggedML      DailyField = "water_logged_ml"
	FieldCaloriesLoggedKcal DailyField = "calories_logged_kcal"
	FieldCaloriesBurnedKcal DailyField = "calories_burned_kcal"
)

var (
	// ErrProfileExists is returned by CreateProfile when a profile already
	// exists for the user ID.
	ErrProfileExists = errors.New("profile already exists")

	// ErrDuplicateRecord is returned by CreateDailyRecord when a record for
	// the (user, date) pair already exists. Callers are expected to recover
	// by fetching the existing record.
	ErrDuplicateRecord = errors.New("daily record already exists")

	// ErrRecordNotFound is returned by IncrementDailyRecord when no record
	// exists for the (user, date) pair.
	ErrRecordNotFound = errors.New("daily record not found")
)

// Store defines the interface for database operations.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// GetProfile retrieves a profile by user ID. Returns nil, nil if not found.
	GetProfile(ctx context.Context, userID int64) (*Profile, error)

	// GetAllProfiles retrieves every stored profile.
	GetAllProfiles(ctx context.Context) ([]*Profile, error)

	// CreateProfile inserts a new profile. Returns ErrProfileExists when a
	// profile for the user ID is already present.
	CreateProfile(ctx context.Context, profile *Profile) error

	// UpdateProfile overwrites the attribute and goal columns of an existing
	// profile in a single statement.
	UpdateProfile(ctx context.Context, profile *Profile) error

	// GetDailyRecord retrieves the record for a (user, date) pair.
	// Returns nil, nil if not found.
	GetDailyRecord(ctx context.Context, userID int64, date string) (*DailyRecord, error)

	// CreateDailyRecord inserts a zeroed record for the (user, date) pair.
	// Returns ErrDuplicateRecord if one already exists.
	CreateDailyRecord(ctx context.Context, userID int64, date string) (*DailyRecord, error)

	// IncrementDailyRecord atomically adds delta to one accumulator column of
	// the (user, date) record. Returns ErrRecordNotFound when the record is
	// absent.
	IncrementDailyRecord(ctx context.Context, userID int64, date string, field DailyField, delta float64) error

	// ListDailyRecords retrieves records in the inclusive [start, end] date
	// range, ascending by date.
	ListDailyRecords(ctx context.Context, userID int64, start, end string) ([]*DailyRecord, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user_id cannot be zero")
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var profile Profile
	query := `SELECT user_id, created_at, updated_at, weight_kg, height_cm, age_years,
	                 activity_minutes, city, water_goal_ml, calorie_goal_kcal
	          FROM profiles WHERE user_id = ?`

	err := s.db.GetContext(ctx, &profile, query, userID)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		// Not found is expected before profile creation, not an error
		s.logger.DebugContext(ctx, "No profile found", "user_id", userID)
		return nil, nil

	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting profile", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get profile for user ID %d: %w", userID, err)
	}

	return &profile, nil
}

func (s *sqlxStore) GetAllProfiles(ctx context.Context) ([]*Profile, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var profiles []*Profile
	query := `SELECT user_id, created_at, updated_at, weight_kg, height_cm, age_years,
	                 activity_minutes, city, water_goal_ml, calorie_goal_kcal
	          FROM profiles ORDER BY user_id`

	if err := s.db.SelectContext(ctx, &profiles, query); err != nil {
		s.logger.ErrorContext(ctx, "Error getting all profiles", "error", err)
		return nil, fmt.Errorf("failed to get all profiles: %w", err)
	}

	s.logger.DebugContext(ctx, "Fetched all profiles", "count", len(profiles))
	return profiles, nil
}

func (s *sqlxStore) CreateProfile(ctx context.Context, profile *Profile) error {
	if profile == nil {
		return fmt.Errorf("cannot create nil profile")
	}
	if profile.UserID == 0 {
		return fmt.Errorf("profile must have a non-zero user_id")
	}

	now := time.Now().UTC()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	query := `
        INSERT INTO profiles (user_id, created_at, updated_at, weight_kg, height_cm,
                              age_years, activity_minutes, city, water_goal_ml, calorie_goal_kcal)
        VALUES (:user_id, :created_at, :updated_at, :weight_kg, :height_cm,
                :age_years, :activity_minutes, :city, :water_goal_ml, :calorie_goal_kcal);
    `

	_, err := s.db.NamedExecContext(ctx, query, profile)
	if err != nil {
		if isUniqueConstraint(err) {
			s.logger.DebugContext(ctx, "Profile already exists", "user_id", profile.UserID)
			return ErrProfileExists
		}
		s.logger.ErrorContext(ctx, "Error creating profile", "user_id", profile.UserID, "error", err)
		return fmt.Errorf("failed to create profile for user ID %d: %w", profile.UserID, err)
	}

	s.logger.DebugContext(ctx, "Profile created successfully", "user_id", profile.UserID)
	return nil
}

func (s *sqlxStore) UpdateProfile(ctx context.Context, profile *Profile) error {
	if profile == nil {
		return fmt.Errorf("cannot update nil profile")
	}
	if profile.UserID == 0 {
		return fmt.Errorf("profile must have a non-zero user_id")
	}

	profile.UpdatedAt = time.Now().UTC()

	// Attributes and both derived goals are written together so a profile row
	// never holds goals computed from a different attribute set.
	query := `
        UPDATE profiles SET
            updated_at = :updated_at,
            weight_kg = :weight_kg,
            height_cm = :height_cm,
            age_years = :age_years,
            activity_minutes = :activity_minutes,
            city = :city,
            water_goal_ml = :water_goal_ml,
            calorie_goal_kcal = :calorie_goal_kcal
        WHERE user_id = :user_id
    `

	result, err := s.db.NamedExecContext(ctx, query, profile)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error updating profile", "user_id", profile.UserID, "error", err)
		return fmt.Errorf("failed to update profile for user ID %d: %w", profile.UserID, err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected != 1 {
		s.logger.WarnContext(ctx, "Unexpected number of rows affected when updating profile",
			"user_id", profile.UserID, "affected", affected)
	}

	s.logger.DebugContext(ctx, "Profile updated successfully", "user_id", profile.UserID)
	return nil
}

func (s *sqlxStore) GetDailyRecord(ctx context.Context, userID int64, date string) (*DailyRecord, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user_id cannot be zero")
	}
	if date == "" {
		return nil, fmt.Errorf("date cannot be empty")
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var record DailyRecord
	query := `SELECT id, created_at, updated_at, user_id, date,
	                 water_logged_ml, calories_logged_kcal, calories_burned_kcal
	          FROM daily_records WHERE user_id = ? AND date = ?`

	err := s.db.GetContext(ctx, &record, query, userID, date)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.DebugContext(ctx, "No daily record found", "user_id", userID, "date", date)
		return nil, nil

	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting daily record", "user_id", userID, "date", date, "error", err)
		return nil, fmt.Errorf("failed to get daily record for user %d on %s: %w", userID, date, err)
	}

	return &record, nil
}

func (s *sqlxStore) CreateDailyRecord(ctx context.Context, userID int64, date string) (*DailyRecord, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user_id cannot be zero")
	}
	if date == "" {
		return nil, fmt.Errorf("date cannot be empty")
	}

	now := time.Now().UTC()
	record := &DailyRecord{
		CreatedAt: now,
		UpdatedAt: now,
		UserID:    userID,
		Date:      date,
	}

	query := `
        INSERT INTO daily_records (created_at, updated_at, user_id, date,
                                   water_logged_ml, calories_logged_kcal, calories_burned_kcal)
        VALUES (:created_at, :updated_at, :user_id, :date,
                :water_logged_ml, :calories_logged_kcal, :calories_burned_kcal);
    `

	result, err := s.db.NamedExecContext(ctx, query, record)
	if err != nil {
		if isUniqueConstraint(err) {
			// Two near-simultaneous creations for the same day; caller fetches
			// the winner's row instead.
			s.logger.DebugContext(ctx, "Daily record already exists", "user_id", userID, "date", date)
			return nil, ErrDuplicateRecord
		}
		s.logger.ErrorContext(ctx, "Error creating daily record", "user_id", userID, "date", date, "error", err)
		return nil, fmt.Errorf("failed to create daily record for user %d on %s: %w", userID, date, err)
	}

	if id, err := result.LastInsertId(); err == nil {
		//nolint:gosec // integer overflow conversion is acceptable here
		record.ID = uint(id)
	} else {
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID after creating daily record",
			"user_id", userID, "date", date, "error", err)
	}

	s.logger.DebugContext(ctx, "Daily record created successfully",
		"user_id", userID, "date", date, "record_id", record.ID)
	return record, nil
}

func (s *sqlxStore) IncrementDailyRecord(ctx context.Context, userID int64, date string, field DailyField, delta float64) error {
	if userID == 0 {
		return fmt.Errorf("user_id cannot be zero")
	}
	if date == "" {
		return fmt.Errorf("date cannot be empty")
	}
	switch field {
	case FieldWaterLoggedML, FieldCaloriesLoggedKcal, FieldCaloriesBurnedKcal:
	default:
		return fmt.Errorf("unknown daily record field %q", field)
	}
	if delta < 0 {
		return fmt.Errorf("delta must be non-negative, got %v", delta)
	}

	// Single-statement read-modify-write; safe against lost updates from
	// retried or duplicate transport deliveries.
	query := fmt.Sprintf(`UPDATE daily_records SET %s = %s + ?, updated_at = ? WHERE user_id = ? AND date = ?`,
		field, field)

	result, err := s.db.ExecContext(ctx, query, delta, time.Now().UTC(), userID, date)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error incrementing daily record",
			"user_id", userID, "date", date, "field", field, "error", err)
		return fmt.Errorf("failed to increment %s for user %d on %s: %w", field, userID, date, err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return ErrRecordNotFound
	}

	s.logger.DebugContext(ctx, "Daily record incremented",
		"user_id", userID, "date", date, "field", field, "delta", delta)
	return nil
}

func (s *sqlxStore) ListDailyRecords(ctx context.Context, userID int64, start, end string) ([]*DailyRecord, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user_id cannot be zero")
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var records []*DailyRecord
	// Dates are stored as YYYY-MM-DD, so lexical comparison is date comparison.
	query := `SELECT id, created_at, updated_at, user_id, date,
	                 water_logged_ml, calories_logged_kcal, calories_burned_kcal
	          FROM daily_records
	          WHERE user_id = ? AND date >= ? AND date <= ?
	          ORDER BY date ASC`

	if err := s.db.SelectContext(ctx, &records, query, userID, start, end); err != nil {
		s.logger.ErrorContext(ctx, "Error listing daily records",
			"user_id", userID, "start", start, "end", end, "error", err)
		return nil, fmt.Errorf("failed to list daily records for user %d: %w", userID, err)
	}

	s.logger.DebugContext(ctx, "Listed daily records", "user_id", userID, "count", len(records))
	return records, nil
}

// RunSQLMaintenance executes a VACUUM command on the SQLite database.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	// VACUUM must run outside a transaction in SQLite
	_, err := s.db.ExecContext(ctx, "VACUUM;")

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)

	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	return nil
}

// isUniqueConstraint reports whether err is a SQLite unique-constraint
// violation. The modernc driver exposes the condition only through the error
// string, so match on the canonical SQLite message.
func isUniqueConstraint(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed: UNIQUE")
}
