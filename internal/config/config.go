// Package config loads CLI settings from an optional oasgen.yaml file,
// OASGEN_ prefixed environment variables and bound command flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the settings shared by the CLI commands.
type Config struct {
	// Template is the path of a template file to render.
	Template string `mapstructure:"template"`

	// Text is an inline template. It cannot be combined with Template.
	Text string `mapstructure:"text"`

	// Output is the file rendered output is written to. Empty means stdout.
	Output string `mapstructure:"output"`

	// Schema renders the template against one named schema.
	Schema string `mapstructure:"schema"`

	Validate    bool          `mapstructure:"validate"`
	Swagger2    bool          `mapstructure:"swagger2"`
	StrictRefs  bool          `mapstructure:"strict-refs"`
	Yes         bool          `mapstructure:"yes"`
	Pretty      bool          `mapstructure:"pretty"`
	Verbose     bool          `mapstructure:"verbose"`
	HTTPTimeout time.Duration `mapstructure:"http-timeout"`
}

// DefaultTemplate is rendered when neither a template file nor inline text is
// configured.
const DefaultTemplate = "Title: {{Info.Title}}. Version: {{Info.Version}}"

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Validate:    true,
		Swagger2:    true,
		HTTPTimeout: 30 * time.Second,
	}
}

// New returns a viper instance with defaults and environment lookup set up.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("OASGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("template", def.Template)
	v.SetDefault("text", def.Text)
	v.SetDefault("output", def.Output)
	v.SetDefault("schema", def.Schema)
	v.SetDefault("validate", def.Validate)
	v.SetDefault("swagger2", def.Swagger2)
	v.SetDefault("strict-refs", def.StrictRefs)
	v.SetDefault("yes", def.Yes)
	v.SetDefault("pretty", def.Pretty)
	v.SetDefault("verbose", def.Verbose)
	v.SetDefault("http-timeout", def.HTTPTimeout)
}

// Load reads the configuration file into v and decodes the merged settings.
// An explicit path must exist; otherwise oasgen.yaml is looked up in the
// working directory and skipped when absent.
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = New()
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else {
		v.SetConfigName("oasgen")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: read: %w", err)
			}
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Check(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Check reports settings that cannot be combined.
func (c *Config) Check() error {
	if c.Template != "" && c.Text != "" {
		return errors.New("config: template and text are mutually exclusive")
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("config: http-timeout must not be negative, got %s", c.HTTPTimeout)
	}
	return nil
}
