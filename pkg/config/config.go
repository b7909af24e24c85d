// Package config loads the optional notify-template configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/grovetools/notify-template/pkg/locale"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable consulted when no --config flag is given.
const EnvConfigPath = "NOTIFY_TEMPLATE_CONFIG"

// ErrUnsupportedFormat is returned for config files that are neither YAML nor TOML.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Config is the on-disk configuration. Every field is optional.
type Config struct {
	Locale   string          `yaml:"locale,omitempty" toml:"locale,omitempty" json:"locale,omitempty" jsonschema:"enum=en,enum=ko,description=Message catalog used for placeholder and fallback texts"`
	Messages locale.Messages `yaml:"messages,omitempty" toml:"messages,omitempty" json:"messages,omitempty" jsonschema:"description=Overrides for individual catalog texts"`
	Log      LogConfig       `yaml:"log,omitempty" toml:"log,omitempty" json:"log,omitempty"`
}

// LogConfig controls diagnostic output on stderr.
type LogConfig struct {
	Format string `yaml:"format,omitempty" toml:"format,omitempty" json:"format,omitempty" jsonschema:"enum=text,enum=json"`
	Level  string `yaml:"level,omitempty" toml:"level,omitempty" json:"level,omitempty" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{Locale: locale.DefaultLocale}
}

// ResolvePath picks the config path from the flag value or the environment.
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(EnvConfigPath)
}

// Load reads the config file at path. An empty path yields Default().
// The format is chosen by extension: .yml/.yaml or .toml.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse YAML config %s: %w", path, err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the enumerated fields.
func (c *Config) Validate() error {
	if _, err := locale.Lookup(c.Locale); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// ResolveMessages returns the catalog for the configured locale with the
// configured overrides applied.
func (c *Config) ResolveMessages() (locale.Messages, error) {
	msgs, err := locale.Lookup(c.Locale)
	if err != nil {
		return locale.Messages{}, err
	}
	return msgs.Merge(c.Messages), nil
}
