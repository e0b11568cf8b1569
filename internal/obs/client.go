// Package obs queries the Open Build Service API for the packages a user
// maintains.
package obs

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/opensuse-tools/osutil/internal/common/config"
	"github.com/opensuse-tools/osutil/internal/common/httpclient"
	"github.com/opensuse-tools/osutil/internal/common/logger"
)

var (
	// ErrUnauthorized indicates the build service rejected the credentials
	ErrUnauthorized = errors.New("build service rejected the credentials")
	// ErrUnexpectedStatus indicates any other non-200 response
	ErrUnexpectedStatus = errors.New("unexpected build service response")
	// ErrMalformedResponse indicates the search result could not be decoded
	ErrMalformedResponse = errors.New("malformed build service response")
	// ErrInvalidUserID indicates a user id that cannot be placed in a search query
	ErrInvalidUserID = errors.New("invalid user id")
)

// Package is a package entry returned by the package search
type Package struct {
	Project string `xml:"project,attr" json:"project" yaml:"project"`
	Name    string `xml:"name,attr" json:"name" yaml:"name"`
}

// collection is the root element of /search/package/id responses
type collection struct {
	XMLName  xml.Name  `xml:"collection"`
	Matches  int       `xml:"matches,attr"`
	Packages []Package `xml:"package"`
}

// Client talks to the build service API with basic authentication
type Client struct {
	BaseURL     string
	credentials config.Credentials
	http        *httpclient.Client
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL overrides the API endpoint
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

// NewClient creates a build service client authenticating as creds
func NewClient(creds config.Credentials, opts ...Option) *Client {
	c := &Client{
		BaseURL:     config.DefaultAPIURL,
		credentials: creds,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = httpclient.New()
	}
	return c
}

// MaintainerQuery returns the XPath match expression selecting packages
// where userid holds the maintainer role
func MaintainerQuery(userid string) string {
	return fmt.Sprintf("person/@userid = '%s' and person/@role = 'maintainer'", userid)
}

// MaintainedPackages returns the packages userid maintains, deduplicated by
// name and sorted. When a name appears in several projects the first
// project listed by the build service is kept.
func (c *Client) MaintainedPackages(ctx context.Context, userid string) ([]Package, error) {
	if userid == "" || strings.ContainsAny(userid, "'\"") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidUserID, userid)
	}

	query := url.Values{}
	query.Set("match", MaintainerQuery(userid))
	endpoint := c.BaseURL + "/search/package/id?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.credentials.Username, c.credentials.Password)
	req.Header.Set("Accept", "application/xml")

	logger.Debug("searching packages maintained by %s as %s", userid, c.credentials.Username)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to get maintained packages: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d for user %s", ErrUnauthorized, resp.StatusCode, c.credentials.Username)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrUnexpectedStatus, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result collection
	if err := xml.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	packages := dedupe(result.Packages)
	logger.Debug("build service returned %d matches, %d unique packages", result.Matches, len(packages))
	return packages, nil
}

func dedupe(in []Package) []Package {
	seen := make(map[string]bool, len(in))
	out := make([]Package, 0, len(in))
	for _, pkg := range in {
		if pkg.Name == "" || seen[pkg.Name] {
			continue
		}
		seen[pkg.Name] = true
		out = append(out, pkg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
