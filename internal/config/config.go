// Package config loads pokedash settings from flags, POKEDASH_* environment
// variables and an optional .pokedash.yaml, in that order of precedence.
//
// A relative data-file set in a config file is resolved against the
// directory of that file, so a config in ~/.config/pokedash can name a CSV
// next to it.
package config

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Supported log levels.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Supported log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Defaults for the dataset and server settings.
const (
	DefaultDataFile      = "pokedex_enriquecida.csv"
	DefaultSpriteBaseURL = "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/"
	DefaultListen        = ":8080"
)

// Config holds the settings shared by every command.
type Config struct {
	// LogLevel controls the verbosity of log output.
	// Valid values: debug, info, warn, error.
	LogLevel string `mapstructure:"log-level" json:"logLevel"`

	// LogFormat controls the format of log output.
	// Valid values: text, json.
	LogFormat string `mapstructure:"log-format" json:"logFormat"`

	// NoColor disables colored output.
	NoColor bool `mapstructure:"no-color" json:"noColor"`

	// Quiet suppresses all log output below error level.
	Quiet bool `mapstructure:"quiet" json:"quiet"`

	// DataFile is the path of the creature CSV.
	DataFile string `mapstructure:"data-file" json:"dataFile"`

	// SpriteBaseURL is joined with a creature ID to form its sprite URL.
	SpriteBaseURL string `mapstructure:"sprite-base-url" json:"spriteBaseURL"`

	// Listen is the HTTP listen address of the serve command.
	Listen string `mapstructure:"listen" json:"listen"`

	// ConfigFile is the config file Load read, if any.
	ConfigFile string `mapstructure:"-" json:"-"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		LogLevel:  LogLevelInfo,
		LogFormat: LogFormatText,
		NoColor:   false,
		Quiet:     false,

		DataFile:      DefaultDataFile,
		SpriteBaseURL: DefaultSpriteBaseURL,
		Listen:        DefaultListen,
	}
}

// Validate checks that all config values are valid.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		// valid
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.LogLevel)
	}

	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
		// valid
	default:
		return fmt.Errorf("invalid log format %q: must be one of text, json", c.LogFormat)
	}

	if strings.TrimSpace(c.DataFile) == "" {
		return fmt.Errorf("data file must not be empty")
	}

	if strings.TrimSpace(c.Listen) == "" {
		return fmt.Errorf("listen address must not be empty")
	}

	if _, _, err := net.SplitHostPort(c.Listen); err != nil {
		return fmt.Errorf("invalid listen address %q: %w", c.Listen, err)
	}

	u, err := url.Parse(c.SpriteBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid sprite base URL %q: must be an absolute http(s) URL", c.SpriteBaseURL)
	}

	return nil
}

// EffectiveLogLevel returns the log level to use. When Quiet is true the log
// level is overridden to "error" regardless of the configured LogLevel.
func (c *Config) EffectiveLogLevel() string {
	if c.Quiet {
		return LogLevelError
	}

	return c.LogLevel
}

// Load reads the configuration for cmd. cmd may be nil, in which case only
// the environment and the config file are consulted. Every call uses its own
// viper instance.
func Load(cmd *cobra.Command, configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)
	configureEnv(v)

	if err := configureFile(v, configFile); err != nil {
		return nil, err
	}

	if err := bindFlags(v, cmd); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.ConfigFile = v.ConfigFileUsed()

	// https://no-color.org
	if os.Getenv("NO_COLOR") != "" {
		cfg.NoColor = true
	}

	cfg.SpriteBaseURL = withTrailingSlash(cfg.SpriteBaseURL)

	if cfg.ConfigFile != "" && dataFileFromFile(v, cmd) && !filepath.IsAbs(cfg.DataFile) && cfg.DataFile != "" {
		cfg.DataFile = filepath.Join(filepath.Dir(cfg.ConfigFile), cfg.DataFile)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// dataFileFromFile reports whether data-file was set by the config file
// rather than a flag or the environment.
func dataFileFromFile(v *viper.Viper, cmd *cobra.Command) bool {
	if !v.InConfig("data-file") {
		return false
	}

	if _, ok := os.LookupEnv("POKEDASH_DATA_FILE"); ok {
		return false
	}

	if cmd != nil {
		if f := cmd.Flag("data-file"); f != nil && f.Changed {
			return false
		}
	}

	return true
}

// withTrailingSlash makes u joinable with a sprite file name.
func withTrailingSlash(u string) string {
	if u == "" || strings.HasSuffix(u, "/") {
		return u
	}

	return u + "/"
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log-level", LogLevelInfo)
	v.SetDefault("log-format", LogFormatText)
	v.SetDefault("no-color", false)
	v.SetDefault("quiet", false)
	v.SetDefault("data-file", DefaultDataFile)
	v.SetDefault("sprite-base-url", DefaultSpriteBaseURL)
	v.SetDefault("listen", DefaultListen)
}

// configureEnv sets up environment variable support.
func configureEnv(v *viper.Viper) {
	v.SetEnvPrefix("POKEDASH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
}

// configureFile sets up the config file source.
func configureFile(v *viper.Viper, configFile string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %q: %w", configFile, err)
		}

		return nil
	}

	// Auto-discovery mode.
	v.SetConfigName(".pokedash")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "pokedash"))
	}

	if err := v.ReadInConfig(); err != nil {
		// No config file found → perfectly fine in auto-discovery.
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}

		// Found a file but it was malformed.
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// bindFlags walks from cmd up to the root and binds all PersistentFlags.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	if cmd == nil {
		return nil
	}

	// Bind the current command's own flags.
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	// Walk up to root and bind all persistent flags at each level.
	for c := cmd; c != nil; c = c.Parent() {
		if err := v.BindPFlags(c.PersistentFlags()); err != nil {
			return fmt.Errorf("binding persistent flags: %w", err)
		}
	}

	return nil
}

// ---------------------------------------------------------------------------
// Context helpers
// ---------------------------------------------------------------------------

type ctxKey struct{}

// NewContext returns a child context carrying cfg.
func NewContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext extracts a Config from ctx, falling back to Default().
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(ctxKey{}).(*Config); ok {
		return cfg
	}

	return Default()
}
