package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/applytrack/applytrack/config"
)

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Chdir(t.TempDir()) // no .env file
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("RECORD_STORE_DRIVER", "sqlite")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, config.RecordStoreSQLite, cfg.RecordStore.Driver)
}

func TestLoadConfig_InvalidValue(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE_DRIVER", "ftp")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "parse config")
}

func TestValidateConfig(t *testing.T) {
	valid := func() *config.AppConfig {
		return &config.AppConfig{
			Auth: config.AuthConfig{
				Mode:  config.AuthModeOAuth,
				OAuth: config.OAuthConfig{ClientID: "id", ClientSecret: "secret"},
			},
			Storage: config.StorageConfig{Driver: config.StorageLocal},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*config.AppConfig)
		wantErr string
	}{
		{name: "valid without api key", mutate: func(*config.AppConfig) {}},
		{
			name:    "oauth without credentials",
			mutate:  func(c *config.AppConfig) { c.Auth.OAuth = config.OAuthConfig{} },
			wantErr: "OAUTH_CLIENT_ID",
		},
		{
			name:   "mock mode needs no oauth",
			mutate: func(c *config.AppConfig) { c.Auth = config.AuthConfig{Mode: config.AuthModeMock} },
		},
		{
			name:    "supabase without key",
			mutate:  func(c *config.AppConfig) { c.Storage = config.StorageConfig{Driver: config.StorageSupabase, SupabaseURL: "https://x.supabase.co"} },
			wantErr: "STORAGE_SUPABASE_KEY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := ValidateConfig(cfg, discardLogger())
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}

	assert.Error(t, ValidateConfig(nil, nil))
}
