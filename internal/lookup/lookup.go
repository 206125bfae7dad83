// Package lookup wraps the external catalogs the bot depends on: the
// OpenFoodFacts nutrition database, the API Ninjas exercise catalog, the
// OpenWeatherMap current-weather API, and a best-effort translation bridge
// between the user's language and the English-only catalogs.
//
// Every client applies a bounded timeout; a timeout is reported the same way
// as any other failure.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is returned when a lookup succeeds at the transport level but
// the catalog has no matching entry.
var ErrNotFound = errors.New("lookup returned no results")

// NutritionInfo describes a food product found in the nutrition catalog.
type NutritionInfo struct {
	Name        string
	KcalPer100g float64
}

// WorkoutInfo describes the calories burned by an activity over a duration.
type WorkoutInfo struct {
	Activity  string
	TotalKcal float64
}

// NutritionClient finds calorie data for a free-text food query.
type NutritionClient interface {
	Lookup(ctx context.Context, query string) (*NutritionInfo, error)
}

// ExerciseClient finds calories burned for an activity and duration.
type ExerciseClient interface {
	Lookup(ctx context.Context, activity string, durationMinutes int) (*WorkoutInfo, error)
}

// WeatherClient resolves a city name to its current temperature in Celsius.
type WeatherClient interface {
	Temperature(ctx context.Context, city string) (float64, error)
}

// Translator bridges the user's language and the catalogs' English. Both
// methods are best-effort and fall back to the original text on failure.
type Translator interface {
	ToEnglish(ctx context.Context, text string) string
	ToNative(ctx context.Context, text string) string
}

// statusError summarizes a non-200 response without leaking response bodies
// into user-visible errors.
func statusError(service string, resp *http.Response) error {
	return fmt.Errorf("%s request failed with status %d", service, resp.StatusCode)
}
