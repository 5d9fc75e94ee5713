package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Source kinds
const (
	SourceAPI     = "api"
	SourceFeed    = "feed"
	SourceHTML    = "html"
	SourceArchive = "archive"
)

// DefaultSourceURL is the paginated article listing used when none is configured
const DefaultSourceURL = "https://dev.to/api/articles?page={page}&per_page=10"

// Config represents the application configuration
type Config struct {
	Version int           `toml:"version" yaml:"version"`
	Source  SourceConfig  `toml:"source" yaml:"source"`
	UI      UISettings    `toml:"ui" yaml:"ui"`
	Log     LogConfig     `toml:"log" yaml:"log"`
	Archive ArchiveConfig `toml:"archive" yaml:"archive"`
}

// SourceConfig selects and tunes the page fetcher
type SourceConfig struct {
	Kind           string  `toml:"kind" yaml:"kind"`
	URL            string  `toml:"url" yaml:"url"` // {page} is replaced by the page number
	PageSize       int     `toml:"page_size" yaml:"page_size"`
	TimeoutSeconds int     `toml:"timeout_seconds" yaml:"timeout_seconds"`
	RatePerSecond  float64 `toml:"rate_per_second" yaml:"rate_per_second"` // 0 disables limiting
	Burst          int     `toml:"burst" yaml:"burst"`

	// HTML scraping
	ItemSelector  string `toml:"item_selector" yaml:"item_selector"`
	TitleSelector string `toml:"title_selector" yaml:"title_selector"`
	LinkAttr      string `toml:"link_attr" yaml:"link_attr"`

	EmptyPageIsSuccess bool `toml:"empty_page_is_success" yaml:"empty_page_is_success"`
}

// Timeout returns the per-request timeout
func (s SourceConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// UISettings represents UI-related configuration
type UISettings struct {
	ShowSource bool `toml:"show_source" yaml:"show_source"`
	ShowAge    bool `toml:"show_age" yaml:"show_age"`
	AltScreen  bool `toml:"alt_screen" yaml:"alt_screen"`
}

// LogConfig controls the log file
type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
	Path  string `toml:"path" yaml:"path"`
}

// ArchiveConfig controls the local sqlite archive of fetched pages
type ArchiveConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Path    string `toml:"path" yaml:"path"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	filePath string
}

// NewConfigService creates a config service backed by the default path
func NewConfigService() ConfigService {
	return &configService{filePath: DefaultPath()}
}

// NewConfigServiceAt creates a config service backed by path
func NewConfigServiceAt(path string) ConfigService {
	return &configService{filePath: path}
}

// Dir returns the articlegrip config directory
func Dir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "articlegrip")
}

// DefaultPath returns the default config file location
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// Path returns the file this service reads and writes
func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from file, falling back to defaults when
// the file does not exist
func (cs *configService) Load() (*Config, error) {
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return cs.LoadFromPath(cs.filePath)
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	return cs.SaveToPath(config, cs.filePath)
}

// LoadFromPath loads configuration from a specific path
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data, formatOf(path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := Marshal(config, formatOf(path))
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Format is a config file encoding
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

func formatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Parse decodes data on top of the defaults and validates the result
func Parse(data []byte, format Format) (*Config, error) {
	cfg := DefaultConfig()

	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, cfg)
	default:
		err = toml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal encodes cfg in the given format
func Marshal(cfg *Config, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(cfg)
	default:
		return toml.Marshal(cfg)
	}
}

// Validate checks fields that have no sensible fallback
func (c *Config) Validate() error {
	switch c.Source.Kind {
	case SourceAPI, SourceFeed, SourceHTML:
		if c.Source.URL == "" {
			return fmt.Errorf("source.url is required for kind %q", c.Source.Kind)
		}
	case SourceArchive:
		if c.Archive.Path == "" {
			return fmt.Errorf("archive.path is required for kind %q", SourceArchive)
		}
	default:
		return fmt.Errorf("unknown source.kind %q", c.Source.Kind)
	}

	if c.Source.Kind == SourceHTML && c.Source.ItemSelector == "" {
		return fmt.Errorf("source.item_selector is required for kind %q", SourceHTML)
	}
	if c.Source.PageSize < 1 {
		return fmt.Errorf("source.page_size must be positive, got %d", c.Source.PageSize)
	}
	if c.Source.RatePerSecond < 0 {
		return fmt.Errorf("source.rate_per_second must not be negative")
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	dir := Dir()
	return &Config{
		Version: 1,
		Source: SourceConfig{
			Kind:           SourceAPI,
			URL:            DefaultSourceURL,
			PageSize:       10,
			TimeoutSeconds: 15,
			RatePerSecond:  2,
			Burst:          1,
			TitleSelector:  "a",
			LinkAttr:       "href",
		},
		UI: UISettings{
			ShowSource: true,
			ShowAge:    true,
			AltScreen:  true,
		},
		Log: LogConfig{
			Level: "info",
			Path:  filepath.Join(dir, "articlegrip.log"),
		},
		Archive: ArchiveConfig{
			Enabled: false,
			Path:    filepath.Join(dir, "archive.db"),
		},
	}
}
