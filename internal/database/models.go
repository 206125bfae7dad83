package database

import (
	"time"
)

// DayFormat is the canonical encoding of a calendar day in the daily_records
// table. Days are interpreted in server-local time.
const DayFormat = "2006-01-02"

// Day formats a point in time as the calendar day it falls on.
func Day(t time.Time) string {
	return t.Format(DayFormat)
}

// Profile represents a user's fitness profile: physical attributes, the city
// used for temperature lookups, and the derived daily goals. Goals are
// recomputed whenever any input attribute changes; they are stored rather
// than derived on read so historical views reflect the goals in effect when
// the day was logged.
type Profile struct {
	UserID    int64     `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	WeightKG        float64 `db:"weight_kg"`
	HeightCM        float64 `db:"height_cm"`
	AgeYears        int     `db:"age_years"`
	ActivityMinutes int     `db:"activity_minutes"`
	City            string  `db:"city"`

	WaterGoalML     float64 `db:"water_goal_ml"`
	CalorieGoalKcal float64 `db:"calorie_goal_kcal"`
}

// DailyRecord is the per-user, per-day accumulator row. At most one record
// exists per (user_id, date); all mutations are additive increments.
type DailyRecord struct {
	ID        uint      `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	UserID int64  `db:"user_id"`
	Date   string `db:"date"`

	WaterLoggedML      float64 `db:"water_logged_ml"`
	CaloriesLoggedKcal float64 `db:"calories_logged_kcal"`
	CaloriesBurnedKcal float64 `db:"calories_burned_kcal"`
}
