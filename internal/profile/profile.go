// Package profile manages user fitness profiles: creation at the end of the
// profile dialog, field-by-field edits, and the goal recomputation that
// accompanies every attribute change.
package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/edgard/fitbot/internal/database"
	"github.com/edgard/fitbot/internal/goals"
)

// Field names a single editable profile attribute.
type Field string

// Editable profile attributes.
const (
	FieldWeight   Field = "weight"
	FieldHeight   Field = "height"
	FieldAge      Field = "age"
	FieldActivity Field = "activity"
	FieldCity     Field = "city"
)

var (
	// ErrProfileExists is returned by Create when the user already has a profile.
	ErrProfileExists = errors.New("profile already exists")

	// ErrProfileNotFound is returned by update operations when no profile exists.
	ErrProfileNotFound = errors.New("profile not found")
)

// Attributes carries the user-supplied profile inputs.
type Attributes struct {
	WeightKG        float64
	HeightCM        float64
	AgeYears        int
	ActivityMinutes int
	City            string
}

// Service provides profile persistence with derived-goal maintenance.
type Service struct {
	store  database.Store
	logger *slog.Logger
}

// NewService creates a profile Service backed by the given store.
func NewService(store database.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		store:  store,
		logger: logger.With("component", "profile"),
	}
}

// Get retrieves a profile by user ID. Returns nil, nil when absent.
func (s *Service) Get(ctx context.Context, userID int64) (*database.Profile, error) {
	return s.store.GetProfile(ctx, userID)
}

// Create stores a new profile with both goals computed from the supplied
// attributes and the temperature observed at creation time. tempC may be nil
// when the weather lookup was unavailable.
func (s *Service) Create(ctx context.Context, userID int64, attrs Attributes, tempC *float64) (*database.Profile, error) {
	p := &database.Profile{
		UserID:          userID,
		WeightKG:        attrs.WeightKG,
		HeightCM:        attrs.HeightCM,
		AgeYears:        attrs.AgeYears,
		ActivityMinutes: attrs.ActivityMinutes,
		City:            strings.TrimSpace(attrs.City),
		WaterGoalML:     goals.WaterGoal(attrs.WeightKG, attrs.ActivityMinutes, tempC),
		CalorieGoalKcal: goals.CalorieGoal(attrs.WeightKG, attrs.HeightCM, attrs.AgeYears),
	}

	if err := s.store.CreateProfile(ctx, p); err != nil {
		if errors.Is(err, database.ErrProfileExists) {
			return nil, ErrProfileExists
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	s.logger.InfoContext(ctx, "Profile created",
		"user_id", userID,
		"water_goal_ml", p.WaterGoalML,
		"calorie_goal_kcal", p.CalorieGoalKcal)
	return p, nil
}

// UpdateFieldAndRecompute sets one attribute, recomputes both goals from the
// profile's full attribute set, and persists the row atomically. The numeric
// value is used for weight, height, age, and activity; the text value for
// city. tempC may be nil when the weather lookup was unavailable.
func (s *Service) UpdateFieldAndRecompute(ctx context.Context, userID int64, field Field, numeric float64, text string, tempC *float64) (*database.Profile, error) {
	p, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	if p == nil {
		return nil, ErrProfileNotFound
	}

	switch field {
	case FieldWeight:
		p.WeightKG = numeric
	case FieldHeight:
		p.HeightCM = numeric
	case FieldAge:
		p.AgeYears = int(numeric)
	case FieldActivity:
		p.ActivityMinutes = int(numeric)
	case FieldCity:
		p.City = strings.TrimSpace(text)
	default:
		return nil, fmt.Errorf("unknown profile field %q", field)
	}

	p.WaterGoalML = goals.WaterGoal(p.WeightKG, p.ActivityMinutes, tempC)
	p.CalorieGoalKcal = goals.CalorieGoal(p.WeightKG, p.HeightCM, p.AgeYears)

	if err := s.store.UpdateProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.logger.InfoContext(ctx, "Profile field updated",
		"user_id", userID,
		"field", field,
		"water_goal_ml", p.WaterGoalML,
		"calorie_goal_kcal", p.CalorieGoalKcal)
	return p, nil
}
