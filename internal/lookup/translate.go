package lookup

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTranslateBaseURL = "https://translate.googleapis.com/translate_a/single"

// googleTranslator translates via the public Google Translate gtx endpoint.
// Failures never propagate: the original text is passed through instead, so a
// translation outage degrades lookup quality without aborting dialogs.
type googleTranslator struct {
	httpClient *http.Client
	baseURL    string
	nativeLang string
	logger     *slog.Logger
}

// NewTranslator creates a best-effort translator between nativeLang (an ISO
// 639-1 code such as "ru") and English.
func NewTranslator(nativeLang string, timeout time.Duration, logger *slog.Logger) Translator {
	return &googleTranslator{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultTranslateBaseURL,
		nativeLang: nativeLang,
		logger:     logger.With("component", "translator"),
	}
}

func (t *googleTranslator) ToEnglish(ctx context.Context, text string) string {
	return t.translate(ctx, text, t.nativeLang, "en")
}

func (t *googleTranslator) ToNative(ctx context.Context, text string) string {
	return t.translate(ctx, text, "en", t.nativeLang)
}

func (t *googleTranslator) translate(ctx context.Context, text, from, to string) string {
	if strings.TrimSpace(text) == "" || from == to {
		return text
	}

	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", from)
	params.Set("tl", to)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		t.logger.WarnContext(ctx, "Failed to build translation request", "error", err)
		return text
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		t.logger.WarnContext(ctx, "Translation request failed, passing text through",
			"from", from, "to", to, "error", err)
		return text
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.logger.WarnContext(ctx, "Translation request rejected, passing text through",
			"from", from, "to", to, "status", resp.StatusCode)
		return text
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.logger.WarnContext(ctx, "Failed to read translation response", "error", err)
		return text
	}

	translated, ok := parseGtxResponse(body)
	if !ok {
		t.logger.WarnContext(ctx, "Unexpected translation response shape, passing text through")
		return text
	}
	return translated
}

// parseGtxResponse extracts the translated text from the gtx endpoint's
// nested-array response: [[["translated","original",...], ...], ...].
// Multi-sentence inputs produce one segment per sentence; they are joined.
func parseGtxResponse(body []byte) (string, bool) {
	var outer []json.RawMessage
	if err := json.Unmarshal(body, &outer); err != nil || len(outer) == 0 {
		return "", false
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(outer[0], &segments); err != nil || len(segments) == 0 {
		return "", false
	}

	var sb strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		var part string
		if err := json.Unmarshal(seg[0], &part); err != nil {
			continue
		}
		sb.WriteString(part)
	}

	result := sb.String()
	if result == "" {
		return "", false
	}
	return result, true
}
