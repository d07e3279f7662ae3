package config

import (
	"fmt"
	"strings"
)

// RecordStoreDriver selects the backing store for job application records.
type RecordStoreDriver string

const (
	// RecordStorePostgres stores records in PostgreSQL (default).
	RecordStorePostgres RecordStoreDriver = "postgres"
	// RecordStoreSQLite stores records in a local SQLite file.
	RecordStoreSQLite RecordStoreDriver = "sqlite"
)

// UnmarshalText implements encoding.TextUnmarshaler for RecordStoreDriver.
func (d *RecordStoreDriver) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "postgres", "sqlite":
		*d = RecordStoreDriver(v)
		return nil
	default:
		return fmt.Errorf("invalid RecordStoreDriver: %q (valid options: postgres, sqlite)", v)
	}
}

// RecordStoreConfig selects the record store implementation.
type RecordStoreConfig struct {
	Driver RecordStoreDriver `env:"RECORD_STORE_DRIVER" envDefault:"postgres"`
}

// Sanitize defaults an empty driver to postgres.
func (c *RecordStoreConfig) Sanitize() {
	if c.Driver == "" {
		c.Driver = RecordStorePostgres
	}
}

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	Host     string `env:"HOST"                    envDefault:"localhost"`
	Port     int    `env:"PORT"                    envDefault:"5432"`
	User     string `env:"USER"                    envDefault:"applytrack"`
	Password string `env:"PASSWORD"                envDefault:"applytrack"`
	Name     string `env:"NAME"                    envDefault:"applytrack"`
	SSLMode  string `env:"SSL_MODE"                envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// RunMigrationsOnStart controls whether the application automatically applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// SQLiteConfig contains SQLite configuration used when RECORD_STORE_DRIVER=sqlite.
type SQLiteConfig struct {
	Path string `env:"PATH" envDefault:"applytrack.db"`
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
}
