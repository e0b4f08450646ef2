package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Config for the Gemini client.
type Config struct {
	APIKey  string        // if empty, requests will be rejected upstream by the API
	BaseURL string        // default https://generativelanguage.googleapis.com/v1beta
	Timeout time.Duration // http client timeout, bounds each cascade attempt
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// Generate implements llm.Generator against the generateContent endpoint,
// requesting a JSON-typed response.
func (c *Client) Generate(ctx context.Context, model, prompt string) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	body := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]any{{"text": prompt}}},
		},
		"generationConfig": map[string]any{
			"response_mime_type": "application/json",
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/models/" + model + ":generateContent"
	raw, err := c.post(ctx, endpoint, body)
	if err != nil {
		c.logger.Error("gemini.generate.http_error",
			"req_id", rid, "model", model, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}

	var resp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		c.logger.Error("gemini.generate.decode_error",
			"req_id", rid, "model", model, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("decode gemini response: %w", err)
	}
	if len(resp.Candidates) == 0 {
		c.logger.Error("gemini.generate.no_candidates",
			"req_id", rid, "model", model,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("no candidates in gemini response")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	content := strings.TrimSpace(b.String())

	c.logger.Info("gemini.generate.ok",
		"req_id", rid,
		"model", model,
		"bytes", len(content),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return content, nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini http error: %w", err)
	}
	defer func(body io.ReadCloser) {
		if cerr := body.Close(); cerr != nil {
			c.logger.Warn("gemini response body close error", "error", cerr)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("gemini status %d: %s", resp.StatusCode, raw)
	}
	return raw, nil
}
