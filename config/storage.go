package config

import (
	"fmt"
	"strings"
	"time"
)

// StorageDriver selects the screenshot object store.
type StorageDriver string

const (
	// StorageSupabase uploads to a Supabase Storage bucket.
	StorageSupabase StorageDriver = "supabase"
	// StorageLocal writes to a directory served by this application.
	StorageLocal StorageDriver = "local"
)

// UnmarshalText implements encoding.TextUnmarshaler for StorageDriver.
func (d *StorageDriver) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "supabase", "local":
		*d = StorageDriver(v)
		return nil
	default:
		return fmt.Errorf("invalid StorageDriver: %q (valid options: supabase, local)", v)
	}
}

// StorageConfig configures where uploaded screenshots are kept.
type StorageConfig struct {
	Driver StorageDriver `env:"DRIVER" envDefault:"local"`
	Bucket string        `env:"BUCKET" envDefault:"screenshots"`

	// Supabase settings (Driver=supabase).
	SupabaseURL string        `env:"SUPABASE_URL"`
	SupabaseKey string        `env:"SUPABASE_KEY"`
	Timeout     time.Duration `env:"TIMEOUT"      envDefault:"30s"`

	// Local settings (Driver=local). PublicBaseURL defaults to APP_BASE_URL + "/files".
	LocalDir      string `env:"LOCAL_DIR"       envDefault:"uploads"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`

	// AllowedHost restricts screenshot URLs accepted by the create endpoint to the
	// registrable domain of this host. Empty disables the check.
	AllowedHost string `env:"ALLOWED_HOST"`
}

// Sanitize normalises URLs and derives the local public base URL.
func (c *StorageConfig) Sanitize(appBaseURL string) {
	c.SupabaseURL = strings.TrimRight(strings.TrimSpace(c.SupabaseURL), "/")
	c.PublicBaseURL = strings.TrimRight(strings.TrimSpace(c.PublicBaseURL), "/")
	c.AllowedHost = strings.TrimSpace(c.AllowedHost)
	if c.Bucket = strings.TrimSpace(c.Bucket); c.Bucket == "" {
		c.Bucket = "screenshots"
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.PublicBaseURL == "" {
		c.PublicBaseURL = appBaseURL + "/files"
	}
}

// UploadConfig configures the server-side upload flow.
type UploadConfig struct {
	MaxBytes int64         `env:"MAX_BYTES" envDefault:"10485760"`
	IdleTTL  time.Duration `env:"IDLE_TTL"  envDefault:"30m"`
}

// Sanitize applies defaults for unusable values.
func (c *UploadConfig) Sanitize() {
	if c.MaxBytes <= 0 {
		c.MaxBytes = 10 << 20
	}
	if c.IdleTTL <= 0 {
		c.IdleTTL = 30 * time.Minute
	}
}
