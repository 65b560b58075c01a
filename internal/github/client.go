package github

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gensquad/talentbase/internal/utils"
	"github.com/gensquad/talentbase/internal/version"
	"github.com/imroc/req/v3"
)

const (
	DefaultAPIURL  = "https://api.github.com"
	DefaultRawURL  = "https://raw.githubusercontent.com"
	DefaultTimeout = 30 * time.Second

	HeaderAccept     = "Accept"
	HeaderAPIVersion = "X-GitHub-Api-Version"
	apiVersion       = "2022-11-28"
)

// Config is the configuration for the GitHub client
type Config struct {
	APIURL  string        `mapstructure:"api_url"`
	RawURL  string        `mapstructure:"raw_url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

func (c *Config) Validate() error {
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	if c.RawURL == "" {
		c.RawURL = DefaultRawURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if !utils.IsValidURL(c.APIURL) {
		return fmt.Errorf("invalid api_url %q", c.APIURL)
	}
	if !utils.IsValidURL(c.RawURL) {
		return fmt.Errorf("invalid raw_url %q", c.RawURL)
	}
	return nil
}

// Client reads repository trees and raw file contents from GitHub.
// Requests are never retried; callers decide what a failure means.
type Client struct {
	client *req.Client
	apiURL string
	rawURL string
}

// New creates a new GitHub client
func New(cfg *Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := req.C().
		SetTimeout(cfg.Timeout).
		SetUserAgent(version.UserAgent()).
		SetCommonHeader(HeaderAPIVersion, apiVersion).
		SetJsonMarshal(jsonMarshal).
		SetJsonUnmarshal(jsonUnmarshal)

	if cfg.Token != "" {
		client.SetCommonBearerAuthToken(cfg.Token)
	}

	return &Client{
		client: client,
		apiURL: strings.TrimRight(cfg.APIURL, "/"),
		rawURL: strings.TrimRight(cfg.RawURL, "/"),
	}, nil
}

// escapePath escapes every segment of a slash separated repository path
func escapePath(p string) string {
	segments := strings.Split(strings.TrimLeft(p, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
