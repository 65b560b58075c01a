package server

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gensquad/talentbase/internal/github"
	"github.com/gensquad/talentbase/internal/server/blob"
	"github.com/gensquad/talentbase/internal/server/workflow"
	"github.com/gensquad/talentbase/internal/utils"
	"github.com/ulule/limiter/v3"
)

const (
	DefaultAddr     = "localhost:5000"
	DefaultDBPath   = ".data/talentbase.db"
	DefaultSyncRate = "5-M"

	memoryDB = ":memory:"
)

type Config struct {
	HTTP   HTTPConfig          `mapstructure:"http"`
	DBPath string              `mapstructure:"db_path"`
	LogDir string              `mapstructure:"log_dir"`
	CORS   CORSConfig          `mapstructure:"cors"`
	Blob   blob.S3Config       `mapstructure:"blob"`
	GitHub github.Config       `mapstructure:"github"`
	Sync   workflow.SyncConfig `mapstructure:"sync"`
}

type HTTPConfig struct {
	Addr     string `mapstructure:"addr"`
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`
	SyncRate string `mapstructure:"sync_rate"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// TLSEnabled reports whether both certificate and key are configured
func (c *HTTPConfig) TLSEnabled() bool {
	return c.CertFile != "" && c.KeyFile != ""
}

// BlobEnabled reports whether an upload bucket is configured
func (c *Config) BlobEnabled() bool {
	return c.Blob.BucketName != ""
}

func (c *Config) Validate() error {
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = DefaultAddr
	}
	if (c.HTTP.CertFile == "") != (c.HTTP.KeyFile == "") {
		return errors.New("http: cert_file and key_file must be set together")
	}
	if c.HTTP.SyncRate == "" {
		c.HTTP.SyncRate = DefaultSyncRate
	}
	if _, err := limiter.NewRateFromFormatted(c.HTTP.SyncRate); err != nil {
		return fmt.Errorf("http: invalid sync_rate %q: %w", c.HTTP.SyncRate, err)
	}

	if c.DBPath == "" {
		c.DBPath = DefaultDBPath
	}
	if c.DBPath != memoryDB {
		dbPath, err := utils.ResolvePath(c.DBPath)
		if err != nil {
			return fmt.Errorf("db_path: %w", err)
		}
		c.DBPath = dbPath
	}

	if c.LogDir != "" {
		logDir, err := utils.ResolvePath(c.LogDir)
		if err != nil {
			return fmt.Errorf("log_dir: %w", err)
		}
		c.LogDir = logDir
	}

	for _, origin := range c.CORS.AllowedOrigins {
		if origin != "*" && !utils.IsValidURL(origin) {
			return fmt.Errorf("cors: invalid origin %q", origin)
		}
	}

	if c.BlobEnabled() {
		if err := c.Blob.Validate(); err != nil {
			return fmt.Errorf("blob: %w", err)
		}
	}

	if err := c.GitHub.Validate(); err != nil {
		return fmt.Errorf("github: %w", err)
	}

	if err := c.Sync.Validate(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	return nil
}

// LogFile is the server log path, empty when file logging is off
func (c *Config) LogFile() string {
	if c.LogDir == "" {
		return ""
	}
	return filepath.Join(c.LogDir, "server.log")
}
