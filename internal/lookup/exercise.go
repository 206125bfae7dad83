package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultExerciseBaseURL = "https://api.api-ninjas.com/v1/caloriesburned"

// apiNinjasClient looks up calories burned in the API Ninjas exercise
// catalog. The activity name is translated to English for the query and the
// matched activity is translated back for display.
type apiNinjasClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	translator Translator
	logger     *slog.Logger
}

// NewExerciseClient creates an API Ninjas-backed exercise client.
func NewExerciseClient(apiKey string, translator Translator, timeout time.Duration, logger *slog.Logger) ExerciseClient {
	return &apiNinjasClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultExerciseBaseURL,
		apiKey:     apiKey,
		translator: translator,
		logger:     logger.With("component", "exercise_client"),
	}
}

type caloriesBurnedEntry struct {
	Name          string  `json:"name"`
	TotalCalories float64 `json:"total_calories"`
}

func (c *apiNinjasClient) Lookup(ctx context.Context, activity string, durationMinutes int) (*WorkoutInfo, error) {
	activity = strings.TrimSpace(activity)
	if activity == "" {
		return nil, fmt.Errorf("activity cannot be empty")
	}
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %d", durationMinutes)
	}

	translated := c.translator.ToEnglish(ctx, activity)

	params := url.Values{}
	params.Set("activity", translated)
	params.Set("duration", strconv.Itoa(durationMinutes))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build exercise request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "Exercise request failed", "activity", activity, "error", err)
		return nil, fmt.Errorf("exercise request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.WarnContext(ctx, "Exercise request rejected", "activity", activity, "status", resp.StatusCode)
		return nil, statusError("exercise", resp)
	}

	var entries []caloriesBurnedEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode exercise response: %w", err)
	}

	if len(entries) == 0 {
		c.logger.InfoContext(ctx, "No exercise data found", "activity", activity, "translated", translated)
		return nil, ErrNotFound
	}

	first := entries[0]
	info := &WorkoutInfo{
		Activity:  c.translator.ToNative(ctx, first.Name),
		TotalKcal: first.TotalCalories,
	}

	c.logger.DebugContext(ctx, "Exercise lookup succeeded",
		"activity", activity, "matched", first.Name, "total_kcal", info.TotalKcal)
	return info, nil
}
