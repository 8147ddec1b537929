package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	yaml "gopkg.in/yaml.v3"

	"markup/internal/css"
	"markup/internal/html"
)

type (
	// ParserConfig controls how HTML is parsed and serialized
	ParserConfig struct {
		IncludeComments     bool `yaml:"include_comments"`
		NormalizeWhitespace bool `yaml:"normalize_whitespace"`
		TrailingLineFeed    bool `yaml:"trailing_line_feed"`
	}

	// StyleConfig holds fallbacks used when resolving active styles
	StyleConfig struct {
		DefaultFontSize string            `yaml:"default_font_size" validate:"required,csslength"`
		Defaults        map[string]string `yaml:"defaults,omitempty" validate:"dive,keys,required,endkeys"`
	}

	// EmbedConfig limits what gets inlined as data URLs
	EmbedConfig struct {
		MaxSize    int64 `yaml:"max_size" validate:"gte=0"`
		SkipRemote bool  `yaml:"skip_remote"`
	}

	// Config is the complete program configuration
	Config struct {
		Version int           `yaml:"version" validate:"eq=1"`
		Parser  ParserConfig  `yaml:"parser"`
		Style   StyleConfig   `yaml:"style"`
		Embed   EmbedConfig   `yaml:"embed"`
		Logging LoggingConfig `yaml:"logging"`
	}
)

// Default returns a configuration which keeps documents byte for byte
// when they are parsed and written back
func Default() Config {
	return Config{
		Version: 1,
		Parser:  Profile(ProfileRoundTrip),
		Style: StyleConfig{
			DefaultFontSize: "16px",
		},
		Embed: EmbedConfig{
			MaxSize:    1 << 20,
			SkipRemote: true,
		},
		Logging: LoggingConfig{
			ConsoleLogger: LoggerConfig{Level: "normal"},
			FileLogger:    LoggerConfig{Level: "none", Mode: "overwrite"},
		},
	}
}

// Parser profiles
const (
	ProfileRoundTrip = "roundtrip" // keep everything, reproduce input exactly
	ProfileCompact   = "compact"   // drop comments, collapse whitespace
	ProfileText      = "text"      // collapse whitespace, keep comments
)

// Profile returns the parser settings of a named profile. Unknown names
// get the round trip settings.
func Profile(name string) ParserConfig {
	switch strings.ToLower(name) {
	case ProfileCompact:
		return ParserConfig{
			IncludeComments:     false,
			NormalizeWhitespace: true,
			TrailingLineFeed:    true,
		}
	case ProfileText:
		return ParserConfig{
			IncludeComments:     true,
			NormalizeWhitespace: true,
			TrailingLineFeed:    true,
		}
	default:
		return ParserConfig{
			IncludeComments: true,
		}
	}
}

// Options converts parser settings into html parse options
func (pc ParserConfig) Options() []html.Option {
	return []html.Option{
		html.WithComments(pc.IncludeComments),
		html.WithWhitespaceNormalization(pc.NormalizeWhitespace),
		html.WithTrailingLineFeed(pc.TrailingLineFeed),
	}
}

// DefaultFor returns the fallback value used when resolving property name
func (sc StyleConfig) DefaultFor(name string) string {
	if v, ok := sc.Defaults[name]; ok {
		return v
	}
	if name == "font-size" {
		return sc.DefaultFontSize
	}
	return ""
}

func newValidator() (*validator.Validate, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.RegisterValidation("csslength", func(fl validator.FieldLevel) bool {
		_, ok := css.ParseLength(fl.Field().String())
		return ok
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register validation: %w", err)
	}
	return v, nil
}

// Validate checks configuration values
func (c *Config) Validate() error {
	v, err := newValidator()
	if err != nil {
		return err
	}
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid configuration field %s: failed on '%s' rule: %w", verrs[0].Namespace(), verrs[0].Tag(), err)
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func unmarshalConfig(data []byte, cfg *Config) (*Config, error) {
	// only fields we defined are accepted, so yaml.Unmarshal cannot be used
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads the configuration from the file at the given path,
// superimposing its values on top of the defaults, and validates the
// result. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if len(path) == 0 {
		return &cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration data over the defaults
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	res, err := unmarshalConfig(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration: %w", err)
	}
	return res, nil
}

// Dump marshals the configuration to YAML
func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
