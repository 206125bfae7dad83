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

const defaultNutritionBaseURL = "https://world.openfoodfacts.org/cgi/search.pl"

// openFoodFactsClient looks up food calorie data in the OpenFoodFacts
// catalog. Queries are translated to English first because the catalog's
// search quality for other languages is poor; the user's original query text
// is kept as the display name.
type openFoodFactsClient struct {
	httpClient *http.Client
	baseURL    string
	translator Translator
	logger     *slog.Logger
}

// NewNutritionClient creates an OpenFoodFacts-backed nutrition client.
func NewNutritionClient(translator Translator, timeout time.Duration, logger *slog.Logger) NutritionClient {
	return &openFoodFactsClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultNutritionBaseURL,
		translator: translator,
		logger:     logger.With("component", "nutrition_client"),
	}
}

type offResponse struct {
	Products []offProduct `json:"products"`
}

type offProduct struct {
	ProductName string        `json:"product_name"`
	Nutriments  offNutriments `json:"nutriments"`
}

type offNutriments struct {
	EnergyKcal100g float64 `json:"energy-kcal_100g"`
}

func (c *openFoodFactsClient) Lookup(ctx context.Context, query string) (*NutritionInfo, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("nutrition query cannot be empty")
	}

	translated := c.translator.ToEnglish(ctx, query)

	params := url.Values{}
	params.Set("action", "process")
	params.Set("search_terms", translated)
	params.Set("json", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build nutrition request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "Nutrition request failed", "query", query, "error", err)
		return nil, fmt.Errorf("nutrition request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.WarnContext(ctx, "Nutrition request rejected", "query", query, "status", resp.StatusCode)
		return nil, statusError("nutrition", resp)
	}

	var data offResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode nutrition response: %w", err)
	}

	if len(data.Products) == 0 {
		c.logger.InfoContext(ctx, "No nutrition data found", "query", query, "translated", translated)
		return nil, ErrNotFound
	}

	first := data.Products[0]
	info := &NutritionInfo{
		// The user's own wording reads better in replies than the catalog's
		// product name.
		Name:        query,
		KcalPer100g: first.Nutriments.EnergyKcal100g,
	}

	c.logger.DebugContext(ctx, "Nutrition lookup succeeded",
		"query", query, "product", first.ProductName, "kcal_per_100g", info.KcalPer100g)
	return info, nil
}
