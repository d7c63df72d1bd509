package recognizer

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zhaowenhao/docaudit/internal/audit"
)

// Config for the recognition service client.
type Config struct {
	APIKey      string        // if empty, falls back to env DASHSCOPE_API_KEY
	BaseURL     string        // default https://dashscope.aliyuncs.com/api/v1
	Model       string        // e.g., "qwen-vl-max"
	Temperature float32       // near-zero for deterministic extraction
	Timeout     time.Duration // http client timeout
}

// Client calls a DashScope-compatible multimodal generation endpoint and
// normalizes its answers into audit extraction records.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("DASHSCOPE_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://dashscope.aliyuncs.com/api/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "qwen-vl-max"
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.01
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
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

// ContractPage implements Recognizer for the contract extraction schema.
func (c *Client) ContractPage(ctx context.Context, page int, imagePath string) (audit.PageExtraction, error) {
	raw, err := c.analyzePage(ctx, page, imagePath, ContractPrompt, BuildContractJSONSchema())
	if err != nil {
		return audit.PageExtraction{}, err
	}
	return NormalizeContractPage(page, raw, c.logger), nil
}

// SealPage implements Recognizer for the seal extraction schema.
func (c *Client) SealPage(ctx context.Context, page int, imagePath string) (audit.PageSealExtraction, error) {
	raw, err := c.analyzePage(ctx, page, imagePath, SealPrompt, BuildSealJSONSchema())
	if err != nil {
		return audit.PageSealExtraction{}, err
	}
	return NormalizeSealPage(page, raw, c.logger), nil
}

// analyzePage sends one image+prompt request and returns the model's text
// answer. A schema mismatch in the answer is logged, not returned: the
// normalization step defaults whatever is unusable.
func (c *Client) analyzePage(ctx context.Context, page int, imagePath, prompt string, schema map[string]any) ([]byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("recognizer.call.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"page", page,
		"image", imagePath,
	)

	imageURL, err := encodeImage(imagePath)
	if err != nil {
		c.logger.Error("recognizer.call.image_error", "req_id", rid, "page", page, "error", err)
		return nil, fmt.Errorf("encode page image: %w", err)
	}

	body := map[string]any{
		"model": c.cfg.Model,
		"input": map[string]any{
			"messages": []map[string]any{
				{
					"role": "user",
					"content": []map[string]any{
						{"image": imageURL},
						{"text": prompt},
					},
				},
			},
		},
		"parameters": map[string]any{
			"result_format":   "message",
			"temperature":     c.cfg.Temperature,
			"response_format": map[string]any{"type": "json_object", "schema": schema},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/services/aigc/multimodal-generation/generation"
	raw, err := c.post(ctx, endpoint, body)
	if err != nil {
		c.logger.Error("recognizer.call.http_error",
			"req_id", rid, "page", page, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	var resp struct {
		Output struct {
			Choices []struct {
				Message struct {
					Content []struct {
						Text string `json:"text"`
					} `json:"content"`
				} `json:"message"`
			} `json:"choices"`
		} `json:"output"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		c.logger.Error("recognizer.call.decode_error",
			"req_id", rid, "page", page, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("decode recognizer response: %w", err)
	}
	if len(resp.Output.Choices) == 0 || len(resp.Output.Choices[0].Message.Content) == 0 {
		c.logger.Error("recognizer.call.no_choices",
			"req_id", rid, "page", page,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("no choices in recognizer response")
	}

	answer := []byte(strings.TrimSpace(resp.Output.Choices[0].Message.Content[0].Text))
	if err := ValidateJSONAgainstSchema(schema, stripFences(answer)); err != nil {
		c.logger.Warn("recognizer.call.schema_mismatch",
			"req_id", rid, "page", page, "error", err,
		)
	}

	c.logger.Info("recognizer.call.ok",
		"req_id", rid,
		"page", page,
		"answer_bytes", len(answer),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return answer, nil
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
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("recognizer http error: %w", err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.logger.Warn("recognizer response body close error", "error", err)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("recognizer non-2xx status %d: %s", resp.StatusCode, truncate(string(raw), 512))
	}
	return raw, nil
}

// encodeImage reads a page image and packs it as a base64 data URL.
func encodeImage(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
