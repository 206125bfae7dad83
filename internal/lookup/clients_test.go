package lookup

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// noopTranslator passes text through unchanged, keeping the HTTP fixtures
// deterministic.
type noopTranslator struct{}

func (noopTranslator) ToEnglish(_ context.Context, text string) string { return text }
func (noopTranslator) ToNative(_ context.Context, text string) string  { return text }

func TestNutritionLookup(t *testing.T) {
	t.Parallel()

	t.Run("returns first product with user wording", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("search_terms"); got != "banana" {
				t.Errorf("search_terms = %q, want banana", got)
			}
			if got := r.URL.Query().Get("json"); got != "true" {
				t.Errorf("json param = %q, want true", got)
			}
			w.Write([]byte(`{"products":[
				{"product_name":"Banana ripe","nutriments":{"energy-kcal_100g":89}},
				{"product_name":"Banana chips","nutriments":{"energy-kcal_100g":520}}
			]}`))
		}))
		defer srv.Close()

		c := &openFoodFactsClient{
			httpClient: srv.Client(),
			baseURL:    srv.URL,
			translator: noopTranslator{},
			logger:     testLogger(),
		}

		info, err := c.Lookup(context.Background(), "banana")
		if err != nil {
			t.Fatalf("Lookup: %v", err)
		}
		if info.Name != "banana" {
			t.Errorf("name = %q, want the user's own wording", info.Name)
		}
		if info.KcalPer100g != 89 {
			t.Errorf("kcal = %v, want 89 from first product", info.KcalPer100g)
		}
	})

	t.Run("empty catalog result is ErrNotFound", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"products":[]}`))
		}))
		defer srv.Close()

		c := &openFoodFactsClient{
			httpClient: srv.Client(),
			baseURL:    srv.URL,
			translator: noopTranslator{},
			logger:     testLogger(),
		}

		if _, err := c.Lookup(context.Background(), "nonexistent"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("rejects empty query without a request", func(t *testing.T) {
		t.Parallel()

		c := &openFoodFactsClient{
			httpClient: &http.Client{Timeout: time.Second},
			baseURL:    "http://127.0.0.1:0",
			translator: noopTranslator{},
			logger:     testLogger(),
		}
		if _, err := c.Lookup(context.Background(), "   "); err == nil {
			t.Fatal("expected error for empty query")
		}
	})
}

func TestExerciseLookup(t *testing.T) {
	t.Parallel()

	t.Run("sends API key and parses first entry", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("X-Api-Key"); got != "test-key" {
				t.Errorf("X-Api-Key = %q, want test-key", got)
			}
			if got := r.URL.Query().Get("activity"); got != "running" {
				t.Errorf("activity = %q, want running", got)
			}
			if got := r.URL.Query().Get("duration"); got != "45" {
				t.Errorf("duration = %q, want 45", got)
			}
			w.Write([]byte(`[{"name":"running","total_calories":420.5},{"name":"jogging","total_calories":300}]`))
		}))
		defer srv.Close()

		c := &apiNinjasClient{
			httpClient: srv.Client(),
			baseURL:    srv.URL,
			apiKey:     "test-key",
			translator: noopTranslator{},
			logger:     testLogger(),
		}

		info, err := c.Lookup(context.Background(), "running", 45)
		if err != nil {
			t.Fatalf("Lookup: %v", err)
		}
		if info.Activity != "running" {
			t.Errorf("activity = %q, want running", info.Activity)
		}
		if info.TotalKcal != 420.5 {
			t.Errorf("total kcal = %v, want 420.5", info.TotalKcal)
		}
	})

	t.Run("empty result is ErrNotFound", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`[]`))
		}))
		defer srv.Close()

		c := &apiNinjasClient{
			httpClient: srv.Client(),
			baseURL:    srv.URL,
			translator: noopTranslator{},
			logger:     testLogger(),
		}

		if _, err := c.Lookup(context.Background(), "levitation", 30); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("rejects non-positive duration", func(t *testing.T) {
		t.Parallel()

		c := &apiNinjasClient{
			httpClient: &http.Client{Timeout: time.Second},
			baseURL:    "http://127.0.0.1:0",
			translator: noopTranslator{},
			logger:     testLogger(),
		}
		if _, err := c.Lookup(context.Background(), "running", 0); err == nil {
			t.Fatal("expected error for zero duration")
		}
	})
}

func TestWeatherTemperature(t *testing.T) {
	t.Parallel()

	t.Run("parses metric temperature", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("units"); got != "metric" {
				t.Errorf("units = %q, want metric", got)
			}
			if got := r.URL.Query().Get("q"); got != "Lisbon" {
				t.Errorf("q = %q, want Lisbon", got)
			}
			if got := r.URL.Query().Get("appid"); got != "weather-key" {
				t.Errorf("appid = %q, want weather-key", got)
			}
			w.Write([]byte(`{"main":{"temp":27.3}}`))
		}))
		defer srv.Close()

		c := &openWeatherClient{
			httpClient: srv.Client(),
			baseURL:    srv.URL,
			apiKey:     "weather-key",
			logger:     testLogger(),
		}

		temp, err := c.Temperature(context.Background(), "Lisbon")
		if err != nil {
			t.Fatalf("Temperature: %v", err)
		}
		if temp != 27.3 {
			t.Errorf("temp = %v, want 27.3", temp)
		}
	})

	t.Run("unknown city is ErrNotFound", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		c := &openWeatherClient{
			httpClient: srv.Client(),
			baseURL:    srv.URL,
			logger:     testLogger(),
		}

		if _, err := c.Temperature(context.Background(), "Atlantis"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("server errors are not ErrNotFound", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := &openWeatherClient{
			httpClient: srv.Client(),
			baseURL:    srv.URL,
			logger:     testLogger(),
		}

		_, err := c.Temperature(context.Background(), "Lisbon")
		if err == nil || errors.Is(err, ErrNotFound) {
			t.Fatalf("expected a non-ErrNotFound error, got %v", err)
		}
	})
}

func TestTranslator(t *testing.T) {
	t.Parallel()

	t.Run("translates via gtx endpoint", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("sl"); got != "ru" {
				t.Errorf("sl = %q, want ru", got)
			}
			if got := r.URL.Query().Get("tl"); got != "en" {
				t.Errorf("tl = %q, want en", got)
			}
			w.Write([]byte(`[[["banana","банан",null,null,10]],null,"ru"]`))
		}))
		defer srv.Close()

		tr := &googleTranslator{
			httpClient: srv.Client(),
			baseURL:    srv.URL,
			nativeLang: "ru",
			logger:     testLogger(),
		}

		if got := tr.ToEnglish(context.Background(), "банан"); got != "banana" {
			t.Errorf("ToEnglish = %q, want banana", got)
		}
	})

	t.Run("failure passes text through", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		tr := &googleTranslator{
			httpClient: srv.Client(),
			baseURL:    srv.URL,
			nativeLang: "ru",
			logger:     testLogger(),
		}

		if got := tr.ToEnglish(context.Background(), "банан"); got != "банан" {
			t.Errorf("ToEnglish on failure = %q, want original text", got)
		}
	})

	t.Run("same source and target skips the request", func(t *testing.T) {
		t.Parallel()

		tr := &googleTranslator{
			httpClient: &http.Client{Timeout: time.Second},
			baseURL:    "http://127.0.0.1:0",
			nativeLang: "en",
			logger:     testLogger(),
		}

		if got := tr.ToEnglish(context.Background(), "banana"); got != "banana" {
			t.Errorf("ToEnglish = %q, want unchanged", got)
		}
	})
}

func TestParseGtxResponse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		body     string
		expected string
		ok       bool
	}{
		{
			name:     "single segment",
			body:     `[[["hello","привет",null,null,10]],null,"ru"]`,
			expected: "hello",
			ok:       true,
		},
		{
			name:     "multiple sentence segments joined",
			body:     `[[["Hello. ","Привет. "],["How are you?","Как дела?"]],null,"ru"]`,
			expected: "Hello. How are you?",
			ok:       true,
		},
		{
			name: "empty body",
			body: `[]`,
			ok:   false,
		},
		{
			name: "not json",
			body: `<html>captcha</html>`,
			ok:   false,
		},
		{
			name: "empty segments",
			body: `[[],null,"ru"]`,
			ok:   false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := parseGtxResponse([]byte(tc.body))
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if ok && got != tc.expected {
				t.Errorf("parsed = %q, want %q", got, tc.expected)
			}
		})
	}
}
