package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultWeatherBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// openWeatherClient resolves a city to its current temperature using the
// OpenWeatherMap current-weather endpoint.
type openWeatherClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *slog.Logger
}

// NewWeatherClient creates an OpenWeatherMap-backed weather client.
func NewWeatherClient(apiKey string, timeout time.Duration, logger *slog.Logger) WeatherClient {
	return &openWeatherClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultWeatherBaseURL,
		apiKey:     apiKey,
		logger:     logger.With("component", "weather_client"),
	}
}

type weatherResponse struct {
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
}

func (c *openWeatherClient) Temperature(ctx context.Context, city string) (float64, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return 0, fmt.Errorf("city cannot be empty")
	}

	params := url.Values{}
	params.Set("q", city)
	params.Set("units", "metric")
	params.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "Weather request failed", "city", city, "error", err)
		return 0, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		c.logger.InfoContext(ctx, "City not found in weather catalog", "city", city)
		return 0, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.WarnContext(ctx, "Weather request rejected", "city", city, "status", resp.StatusCode)
		return 0, statusError("weather", resp)
	}

	var data weatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return 0, fmt.Errorf("failed to decode weather response: %w", err)
	}

	c.logger.DebugContext(ctx, "Weather lookup succeeded", "city", city, "temp_c", data.Main.Temp)
	return data.Main.Temp, nil
}
