// Package openai adapts an OpenAI-compatible chat completion API into the
// screenshot extraction port.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/applytrack/applytrack/internal/domain/model"
	"github.com/applytrack/applytrack/internal/ports"
)

// Sentinels are shared with ports so callers need not import this package.
var (
	// ErrInvalidInput is returned before any network call when the image address is unusable.
	ErrInvalidInput = ports.ErrInvalidImageURL
	// ErrNoCompletion is returned when the service answers without a completion choice.
	ErrNoCompletion = ports.ErrNoCompletion
	// ErrServiceError wraps transport, status and decoding failures.
	ErrServiceError = ports.ErrExtractionService
)

const maxResponseBytes = 1 << 20

// Config configures the client. Zero values fall back to defaults.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Timeout     time.Duration
	MessagePath string
	HTTPClient  *http.Client
	Logger      *slog.Logger
}

// Client calls POST {BaseURL}/chat/completions once per extraction.
type Client struct {
	cfg        Config
	httpClient *http.Client
	selector   string
	log        *slog.Logger
}

// NewClient validates cfg and compiles the message selector.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = "gpt-4o"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 500
	}
	if cfg.MessagePath == "" {
		cfg.MessagePath = "choices[0].message"
	}
	if _, err := jmespath.Compile(cfg.MessagePath); err != nil {
		return nil, fmt.Errorf("compile message path %q: %w", cfg.MessagePath, err)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{cfg: cfg, httpClient: hc, selector: cfg.MessagePath, log: logger.With("component", "openai")}, nil
}

// Extract sends imageURL with the fixed prompt and returns the first choice's message.
func (c *Client) Extract(ctx context.Context, imageURL string) (*model.CompletionMessage, error) {
	imageURL = strings.TrimSpace(imageURL)
	if !validImageURL(imageURL) {
		return nil, ErrInvalidInput
	}

	rid := uuid.NewString()
	start := time.Now()
	c.log.InfoContext(ctx, "llm.extract.start", "req_id", rid, "model", c.cfg.Model, "max_tokens", c.cfg.MaxTokens)

	raw, err := c.post(ctx, buildRequest(c.cfg.Model, c.cfg.MaxTokens, imageURL))
	if err != nil {
		c.log.ErrorContext(ctx, "llm.extract.http_error",
			"req_id", rid, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, fmt.Errorf("%w: %w", ErrServiceError, err)
	}

	msg, err := c.selectMessage(raw)
	if err != nil {
		level := slog.LevelError
		if errors.Is(err, ErrNoCompletion) {
			level = slog.LevelWarn
		}
		c.log.Log(ctx, level, "llm.extract.no_message",
			"req_id", rid, "error", err, "raw_bytes", len(raw), "elapsed_ms", time.Since(start).Milliseconds())
		return nil, err
	}

	c.log.InfoContext(ctx, "llm.extract.ok",
		"req_id", rid, "content_len", len(msg.Content), "elapsed_ms", time.Since(start).Milliseconds())
	return msg, nil
}

func (c *Client) selectMessage(raw []byte) (*model.CompletionMessage, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrServiceError, err)
	}
	found, err := jmespath.Search(c.selector, doc)
	if err != nil {
		return nil, fmt.Errorf("%w: select message: %w", ErrServiceError, err)
	}
	if found == nil {
		return nil, ErrNoCompletion
	}

	// Round-trip the selected node so providers returning extra keys still decode.
	b, err := json.Marshal(found)
	if err != nil {
		return nil, fmt.Errorf("%w: encode message: %w", ErrServiceError, err)
	}
	var msg model.CompletionMessage
	if err := json.Unmarshal(b, &msg); err != nil {
		return nil, fmt.Errorf("%w: message shape: %w", ErrServiceError, err)
	}
	return &msg, nil
}

func (c *Client) post(ctx context.Context, body chatRequest) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai http error: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Warn("openai response body close error", "error", cerr)
		}
	}()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openai status %d: %s", resp.StatusCode, truncate(string(payload), 512))
	}
	return payload, nil
}

func validImageURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
