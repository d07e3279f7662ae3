package config

import (
	"strings"
	"time"
)

const (
	defaultExtractionBaseURL   = "https://api.openai.com/v1"
	defaultExtractionModel     = "gpt-4o"
	defaultExtractionMaxTokens = 500
	defaultMessagePath         = "choices[0].message"
)

// ExtractionConfig configures the OpenAI-compatible chat completion service
// used to read job application fields from screenshots.
type ExtractionConfig struct {
	APIKey    string        `env:"API_KEY"`
	BaseURL   string        `env:"BASE_URL"     envDefault:"https://api.openai.com/v1"`
	Model     string        `env:"MODEL"        envDefault:"gpt-4o"`
	MaxTokens int           `env:"MAX_TOKENS"   envDefault:"500"`
	Timeout   time.Duration `env:"TIMEOUT"      envDefault:"60s"`
	// MessagePath is a JMESPath expression selecting the message object from the
	// provider's response body.
	MessagePath string `env:"MESSAGE_PATH" envDefault:"choices[0].message"`
}

// Sanitize fills empty values with defaults.
func (c *ExtractionConfig) Sanitize() {
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		c.BaseURL = defaultExtractionBaseURL
	}
	if strings.TrimSpace(c.Model) == "" {
		c.Model = defaultExtractionModel
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = defaultExtractionMaxTokens
	}
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
	if strings.TrimSpace(c.MessagePath) == "" {
		c.MessagePath = defaultMessagePath
	}
}

// RateLimitConfig bounds how often one user can call the extraction endpoint.
type RateLimitConfig struct {
	Enabled bool          `env:"ENABLED" envDefault:"true"`
	Limit   int           `env:"LIMIT"   envDefault:"20"`
	Window  time.Duration `env:"WINDOW"  envDefault:"1m"`
}

// Sanitize disables limiting when the bounds are unusable.
func (c *RateLimitConfig) Sanitize() {
	if c.Limit <= 0 || c.Window <= 0 {
		c.Enabled = false
	}
}
