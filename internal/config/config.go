package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"dario.cat/mergo"
	"github.com/adrg/xdg"
)

const (
	AppName = "docsparser"

	DefaultDocURL    = "https://docs.python.org/3/"
	DefaultPepURL    = "https://peps.python.org/"
	DefaultCacheTTL  = 24 * time.Hour
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "docsparser/1.0"
)

// Config is the configuration of the parser, every field is optional in the
// config file and falls back to Defaults.
type Config struct {
	DocURL string `json:"doc_url"`
	PepURL string `json:"pep_url"`
	// BaseDir is the directory downloads/, results/ and logs/ are created in.
	BaseDir   string `json:"base_dir"`
	CachePath string `json:"cache_path"`
	// CacheTTL and Timeout are Go duration strings ("12h", "30s").
	CacheTTL  string `json:"cache_ttl"`
	Timeout   string `json:"timeout"`
	UserAgent string `json:"user_agent"`
	// RateLimit is the max requests per second made to the network, 0 is unlimited.
	RateLimit float64 `json:"rate_limit"`
	LogFile   string  `json:"log_file"`
	// ExpectedStatus overrides the status table used by the pep audit.
	ExpectedStatus map[string][]string `json:"expected_status"`
}

// Defaults returns the configuration used when no config file exists.
func Defaults() Config {
	return Config{
		DocURL:    DefaultDocURL,
		PepURL:    DefaultPepURL,
		BaseDir:   ".",
		CachePath: filepath.Join(xdg.CacheHome, AppName, "http_cache.sqlite"),
		CacheTTL:  DefaultCacheTTL.String(),
		Timeout:   DefaultTimeout.String(),
		UserAgent: DefaultUserAgent,
		LogFile:   filepath.Join("logs", "parser.log"),
	}
}

// DefaultPath is where Load looks for a config file if none is given.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.json5")
}

// Load reads the config at `path` (or DefaultPath if empty) and merges it over
// Defaults. A missing file is not an error unless `path` was given explicitly.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg := Defaults()
	fromFile, err := readFile[Config](path)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	err = mergo.Merge(&cfg, fromFile, mergo.WithOverride)
	if err != nil {
		return Config{}, fmt.Errorf("merge config %s: %w", path, err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if _, err := c.CacheTTLDuration(); err != nil {
		return err
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit must not be negative, got %v", c.RateLimit)
	}
	return nil
}

func (c Config) CacheTTLDuration() (time.Duration, error) {
	ttl, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 0, fmt.Errorf("invalid cache_ttl %q: %w", c.CacheTTL, err)
	}
	return ttl, nil
}

func (c Config) TimeoutDuration() (time.Duration, error) {
	timeout, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	return timeout, nil
}

// Resolve returns `name` relative to BaseDir, absolute paths are returned as is.
func (c Config) Resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.BaseDir, name)
}
