package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pevans/emcrawl/discovery"
	"github.com/pevans/emcrawl/rewrite"
	"github.com/pevans/emcrawl/scraper"
	"gopkg.in/yaml.v3"
)

// CrawlerConfig represents the crawler section of the config file. Durations
// are Go duration strings ("1s", "500ms").
type CrawlerConfig struct {
	Endpoint       string          `yaml:"endpoint"`
	Column         string          `yaml:"column"`
	PageSize       int             `yaml:"page_size"`
	UserAgent      string          `yaml:"user_agent"`
	AcceptLanguage string          `yaml:"accept_language"`
	PageDelay      string          `yaml:"page_delay"`
	FetchTimeout   string          `yaml:"fetch_timeout"`
	MaxPages       int             `yaml:"max_pages"`
	FallbackSource string          `yaml:"fallback_source"`
	Timezone       string          `yaml:"timezone"`
	Markers        scraper.Markers `yaml:"markers"`
}

// StorageConfig represents storage configuration from config file.
type StorageConfig struct {
	DSN string `yaml:"dsn"`
}

// RewriteConfig represents the rewrite section of the config file. The API
// key is never read from the file.
type RewriteConfig struct {
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// FileConfig represents the structure of ~/.emcrawl/config.yaml.
type FileConfig struct {
	Crawler CrawlerConfig `yaml:"crawler"`
	Storage StorageConfig `yaml:"storage"`
	Rewrite RewriteConfig `yaml:"rewrite"`
}

// ConfigFilePath returns the config file location: $EMCRAWL_CONFIG if set,
// otherwise ~/.emcrawl/config.yaml.
func ConfigFilePath() (string, error) {
	if path := os.Getenv("EMCRAWL_CONFIG"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".emcrawl", "config.yaml"), nil
}

// LoadConfigFile loads configuration from the config file location. Returns
// nil if the file doesn't exist (not an error). Returns error if the file
// exists but cannot be parsed.
func LoadConfigFile() (*FileConfig, error) {
	configPath, err := ConfigFilePath()
	if err != nil {
		return nil, err
	}

	return LoadConfigFileAt(configPath)
}

// LoadConfigFileAt loads configuration from configPath, with the same
// missing-file behavior as LoadConfigFile.
func LoadConfigFileAt(configPath string) (*FileConfig, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

const defaultConfigFile = `# emcrawl configuration
storage:
  dsn: %q

crawler:
  page_delay: "1s"
  fetch_timeout: "30s"
  max_pages: 0
  timezone: "Local"

rewrite:
  model: "tngtech/deepseek-r1t2-chimera:free"
`

// WriteDefaultConfigFile writes a starter config file with the database
// stored next to it. It returns false without writing when the file
// already exists and force is not set.
func WriteDefaultConfigFile(force bool) (bool, error) {
	configPath, err := ConfigFilePath()
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(configPath); err == nil && !force {
		return false, nil
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}

	content := fmt.Sprintf(defaultConfigFile, filepath.Join(dir, "emcrawl.db"))
	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}

	return true, nil
}

// ApplyCrawler overlays the non-empty crawler settings onto config.
func (f *FileConfig) ApplyCrawler(config *discovery.CrawlConfig) error {
	c := f.Crawler

	if c.Endpoint != "" {
		config.ListEndpoint = c.Endpoint
	}
	if c.Column != "" {
		config.Column = c.Column
	}
	if c.PageSize > 0 {
		config.PageSize = c.PageSize
	}
	if c.UserAgent != "" {
		config.UserAgent = c.UserAgent
	}
	if c.AcceptLanguage != "" {
		config.AcceptLanguage = c.AcceptLanguage
	}
	if c.PageDelay != "" {
		delay, err := time.ParseDuration(c.PageDelay)
		if err != nil {
			return fmt.Errorf("invalid crawler.page_delay: %w", err)
		}
		config.PageDelay = delay
	}
	if c.FetchTimeout != "" {
		timeout, err := time.ParseDuration(c.FetchTimeout)
		if err != nil {
			return fmt.Errorf("invalid crawler.fetch_timeout: %w", err)
		}
		config.FetchTimeout = timeout
	}
	if c.MaxPages > 0 {
		config.MaxPages = c.MaxPages
	}
	if c.FallbackSource != "" {
		config.FallbackSource = c.FallbackSource
	}
	if c.Timezone != "" {
		loc, err := time.LoadLocation(c.Timezone)
		if err != nil {
			return fmt.Errorf("invalid crawler.timezone: %w", err)
		}
		config.Location = loc
	}

	config.Markers = c.Markers.Merge(config.Markers)

	return nil
}

// ApplyRewrite overlays the non-empty rewrite settings onto config.
func (f *FileConfig) ApplyRewrite(config *rewrite.Config) {
	r := f.Rewrite

	if r.BaseURL != "" {
		config.BaseURL = r.BaseURL
	}
	if r.Model != "" {
		config.Model = r.Model
	}
	if r.Temperature > 0 {
		config.Temperature = r.Temperature
	}
	if r.MaxTokens > 0 {
		config.MaxTokens = r.MaxTokens
	}
}
