package config

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

var (
	ErrConfigNotFound   = errors.New("config file not found")
	ErrConfigUnreadable = errors.New("config file is unreadable")
	ErrConfigMalformed  = errors.New("config file is malformed")
	ErrMissingUsername  = errors.New("missing required key: username")
	ErrMissingPassword  = errors.New("missing required key: password")
)

const (
	// AppName is the directory name used under the XDG base directories
	AppName = "osutil"
	// FileName is the configuration file name inside ConfigDir
	FileName = "osutil.conf"

	DefaultAPIURL      = "https://api.opensuse.org"
	DefaultRepologyURL = "https://repology.org"
	DefaultRepository  = "opensuse_tumbleweed"
)

// Credentials holds the build service login
type Credentials struct {
	Username string
	Password string
}

// String hides the password so credentials can be logged safely
func (c Credentials) String() string {
	return c.Username + ":********"
}

// Config represents the application configuration
type Config struct {
	Credentials
	APIURL      string // build service API endpoint
	RepologyURL string // aggregator base URL
	Repository  string // repology repository the maintainer ships to
}

// fileConfig mirrors the keys accepted in osutil.conf
type fileConfig struct {
	Username    string
	Password    string
	APIURL      string
	RepologyURL string
	Repository  string
}

// ConfigDir returns the osutil configuration directory.
// $XDG_CONFIG_HOME/osutil, falling back to ~/.config/osutil.
func ConfigDir() (string, error) {
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		xdgConfig = filepath.Join(home, ".config")
	}
	return filepath.Join(xdgConfig, AppName), nil
}

// DefaultConfigPath returns the config file path (XDG standard)
func DefaultConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads configuration from the default config file
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads configuration from a specific file path
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s (create it with 'username = <user>' and 'password = <password>' lines)", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigUnreadable, path, err)
	}

	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse reads configuration from r.
//
// Each line is a key = value pair. A value starting with a quote is read
// as a TOML string, so escapes and trailing comments behave as in TOML.
// Any other value is taken verbatim, which keeps unquoted passwords intact.
func Parse(r io.Reader) (*Config, error) {
	fc, err := parseKeyValue(r)
	if err != nil {
		return nil, err
	}
	return fc.toConfig()
}

// parseKeyValue reads key = value lines.
// Blank lines and lines starting with # or ; are ignored, the value is
// everything after the first '=', and the last occurrence of a key wins.
func parseKeyValue(r io.Reader) (fileConfig, error) {
	var fc fileConfig
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fileConfig{}, fmt.Errorf("%w: line %d: expected 'key = value'", ErrConfigMalformed, lineNo)
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = resolveValue(strings.TrimSpace(value))

		switch key {
		case "username":
			fc.Username = value
		case "password":
			fc.Password = value
		case "api_url":
			fc.APIURL = value
		case "repology_url":
			fc.RepologyURL = value
		case "repository":
			fc.Repository = value
		}
	}

	if err := scanner.Err(); err != nil {
		return fileConfig{}, fmt.Errorf("%w: %v", ErrConfigUnreadable, err)
	}

	return fc, nil
}

// resolveValue decodes a quoted value as a TOML string. Unquoted values
// and quoted values TOML rejects are kept as written, minus one pair of
// matching quotes.
func resolveValue(raw string) string {
	if raw == "" || (raw[0] != '"' && raw[0] != '\'') {
		return raw
	}

	var v struct {
		V string `toml:"v"`
	}
	if _, err := toml.Decode("v = "+raw, &v); err == nil {
		return v.V
	}
	return unquote(raw)
}

func unquote(value string) string {
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if (first == '"' || first == '\'') && first == last {
			return value[1 : len(value)-1]
		}
	}
	return value
}

func (fc fileConfig) toConfig() (*Config, error) {
	if fc.Username == "" {
		return nil, ErrMissingUsername
	}
	if fc.Password == "" {
		return nil, ErrMissingPassword
	}

	cfg := &Config{
		Credentials: Credentials{
			Username: fc.Username,
			Password: fc.Password,
		},
		APIURL:      fc.APIURL,
		RepologyURL: fc.RepologyURL,
		Repository:  fc.Repository,
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.RepologyURL == "" {
		cfg.RepologyURL = DefaultRepologyURL
	}
	if cfg.Repository == "" {
		cfg.Repository = DefaultRepository
	}
	return cfg, nil
}

// CacheDir returns the osutil cache directory.
// $XDG_CACHE_HOME/osutil, falling back to ~/.cache/osutil.
func CacheDir() (string, error) {
	xdgCache := os.Getenv("XDG_CACHE_HOME")
	if xdgCache == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		xdgCache = filepath.Join(home, ".cache")
	}
	return filepath.Join(xdgCache, AppName), nil
}
