package blob

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gensquad/talentbase/internal/utils"
)

const (
	DefaultFolder        = "gensquad_uploads"
	DefaultMaxUploadSize = "10MB"
)

type S3Config struct {
	BucketName    string `mapstructure:"bucket_name"`
	Region        string `mapstructure:"region"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	Endpoint      string `mapstructure:"endpoint"`
	UseAccelerate bool   `mapstructure:"use_accelerate"`
	PublicURL     string `mapstructure:"public_url"`
	Folder        string `mapstructure:"folder"`
	MaxUploadSize string `mapstructure:"max_upload_size"`

	maxUploadBytes int64
}

func (c *S3Config) Validate() error {
	if c.BucketName == "" {
		return fmt.Errorf("bucket_name required")
	}
	if c.Region == "" {
		return fmt.Errorf("region required")
	}
	if c.AccessKey == "" {
		return fmt.Errorf("access_key required")
	}
	if c.SecretKey == "" {
		return fmt.Errorf("secret_key required")
	}
	if c.Endpoint != "" && !utils.IsValidURL(c.Endpoint) {
		return fmt.Errorf("invalid endpoint URL %q", c.Endpoint)
	}
	if c.PublicURL != "" && !utils.IsValidURL(c.PublicURL) {
		return fmt.Errorf("invalid public_url %q", c.PublicURL)
	}

	c.Folder = strings.Trim(c.Folder, "/")
	if c.Folder == "" {
		c.Folder = DefaultFolder
	}

	if c.MaxUploadSize == "" {
		c.MaxUploadSize = DefaultMaxUploadSize
	}
	size, err := humanize.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size %q: %w", c.MaxUploadSize, err)
	}
	if size == 0 {
		return fmt.Errorf("max_upload_size must be positive")
	}
	c.maxUploadBytes = int64(size)

	return nil
}

// MaxUploadBytes is the parsed upload limit. Only valid after Validate.
func (c *S3Config) MaxUploadBytes() int64 {
	return c.maxUploadBytes
}

// baseURL is the public prefix objects are served from
func (c *S3Config) baseURL() string {
	switch {
	case c.PublicURL != "":
		return strings.TrimRight(c.PublicURL, "/")
	case c.Endpoint != "":
		return fmt.Sprintf("%s/%s", strings.TrimRight(c.Endpoint, "/"), c.BucketName)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", c.BucketName, c.Region)
	}
}
