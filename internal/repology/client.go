// Package repology fetches cross-distribution version data from the
// repology.org API.
package repology

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"

	"github.com/opensuse-tools/osutil/internal/common/config"
	"github.com/opensuse-tools/osutil/internal/common/httpclient"
	"github.com/opensuse-tools/osutil/internal/common/logger"
	"github.com/opensuse-tools/osutil/internal/common/version"
)

var (
	// ErrUnexpectedStatus indicates a non-200 response from repology
	ErrUnexpectedStatus = errors.New("unexpected repology response")
	// ErrMalformedResponse indicates the project data could not be decoded
	ErrMalformedResponse = errors.New("malformed repology response")
)

// Repology package statuses
const (
	StatusNewest   = "newest"
	StatusOutdated = "outdated"
	StatusDevel    = "devel"
	StatusUnique   = "unique"
)

// Repo is one repository's entry for a project
type Repo struct {
	Repo        string   `json:"repo"`
	Subrepo     string   `json:"subrepo,omitempty"`
	SrcName     string   `json:"srcname,omitempty"`
	BinName     string   `json:"binname,omitempty"`
	VisibleName string   `json:"visiblename"`
	Version     string   `json:"version"`
	OrigVersion string   `json:"origversion,omitempty"`
	Status      string   `json:"status"`
	Maintainers []string `json:"maintainers,omitempty"`
	Categories  []string `json:"categories,omitempty"`
}

// Client queries the repology project API
type Client struct {
	BaseURL string
	http    *httpclient.Client
	cache   *Cache
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL overrides the repology endpoint
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.BaseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sets the transport used for requests
func WithHTTPClient(client *httpclient.Client) Option {
	return func(c *Client) {
		c.http = client
	}
}

// WithCache enables response caching
func WithCache(cache *Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// NewClient creates a repology client
func NewClient(opts ...Option) *Client {
	c := &Client{
		BaseURL: config.DefaultRepologyURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = httpclient.New()
		c.http.SetHeader("User-Agent", version.UserAgent())
	}
	return c
}

// ProjectURL returns the API URL for a project
func (c *Client) ProjectURL(name string) string {
	return c.BaseURL + "/api/v1/project/" + url.PathEscape(name)
}

// Project returns every repository entry repology knows for name.
// An unknown project yields an empty slice, not an error.
func (c *Client) Project(ctx context.Context, name string) ([]Repo, error) {
	if c.cache != nil {
		if repos, ok := c.cache.Get(name); ok {
			logger.Debug("repology: %s served from cache", name)
			return repos, nil
		}
	}

	source := c.ProjectURL(name)
	resp, err := c.http.Get(ctx, source, map[string]string{"Accept": "application/json"})
	if err != nil {
		return nil, fmt.Errorf("unable to get project information from repology for package %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w for package %s: status %d: %s", ErrUnexpectedStatus, name, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var repos []Repo
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		return nil, fmt.Errorf("%w for package %s: %v", ErrMalformedResponse, name, err)
	}
	if repos == nil {
		repos = []Repo{}
	}

	if c.cache != nil {
		if err := c.cache.Set(name, repos, source); err != nil {
			logger.Warn("repology: failed to cache %s: %v", name, err)
		}
	}

	return repos, nil
}
