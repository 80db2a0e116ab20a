// Package config loads manifestsplit settings from flags, the environment,
// and an optional YAML file.
//
// Precedence, highest first:
//  1. CLI flags
//  2. Environment variables (MANIFESTSPLIT_ prefix, dashes become underscores)
//  3. Config file (--config, or .manifestsplit.yaml discovered in the working
//     directory, $XDG_CONFIG_HOME/manifestsplit, or ~/.config/manifestsplit)
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Keys shared by flags, environment variables, and config files.
const (
	KeyLogLevel  = "log-level"
	KeyLogFormat = "log-format"
	KeyNoColor   = "no-color"
	KeyQuiet     = "quiet"
	KeyOutputDir = "output-dir"
	KeyIndent    = "indent"
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

// DefaultOutputDir is where split manifests go when nothing else is set.
const DefaultOutputDir = "istio_manifests_output"

// Indentation bounds accepted by the YAML emitter.
const (
	DefaultIndent = 2
	MinIndent     = 2
	MaxIndent     = 9
)

const (
	envPrefix = "MANIFESTSPLIT"
	fileName  = ".manifestsplit"
	appDir    = "manifestsplit"
)

var (
	logLevels  = []string{LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError}
	logFormats = []string{LogFormatText, LogFormatJSON}
)

// Config is the resolved manifestsplit configuration.
type Config struct {
	LogLevel  string `mapstructure:"log-level" json:"logLevel"`
	LogFormat string `mapstructure:"log-format" json:"logFormat"`
	NoColor   bool   `mapstructure:"no-color" json:"noColor"`

	// Quiet raises the log level to warn and hides progress lines. Warnings
	// such as empty input or a skipped kustomization.yaml are still shown.
	Quiet bool `mapstructure:"quiet" json:"quiet"`

	// OutputDir receives the bucket files and kustomization.yaml.
	OutputDir string `mapstructure:"output-dir" json:"outputDir"`

	// Indent is the number of spaces per nesting level in bucket files.
	Indent int `mapstructure:"indent" json:"indent"`

	// ConfigFile is the file the values were read from, if any. Set by Load.
	ConfigFile string `mapstructure:"-" json:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:  LogLevelInfo,
		LogFormat: LogFormatText,
		OutputDir: DefaultOutputDir,
		Indent:    DefaultIndent,
	}
}

// Validate reports every invalid value at once.
func (c *Config) Validate() error {
	var errs []error

	if !slices.Contains(logLevels, c.LogLevel) {
		errs = append(errs, fmt.Errorf("invalid log level %q: must be one of %s",
			c.LogLevel, strings.Join(logLevels, ", ")))
	}

	if !slices.Contains(logFormats, c.LogFormat) {
		errs = append(errs, fmt.Errorf("invalid log format %q: must be one of %s",
			c.LogFormat, strings.Join(logFormats, ", ")))
	}

	if strings.TrimSpace(c.OutputDir) == "" {
		errs = append(errs, errors.New("invalid output directory: must not be empty"))
	}

	if c.Indent < MinIndent || c.Indent > MaxIndent {
		errs = append(errs, fmt.Errorf("invalid indent %d: must be between %d and %d",
			c.Indent, MinIndent, MaxIndent))
	}

	return errors.Join(errs...)
}

// EffectiveLogLevel returns LogLevel, raised to at least LogLevelWarn when
// Quiet is set.
func (c *Config) EffectiveLogLevel() string {
	if c.Quiet && (c.LogLevel == LogLevelDebug || c.LogLevel == LogLevelInfo) {
		return LogLevelWarn
	}

	return c.LogLevel
}

// LogAttrs returns the configuration as structured log attributes.
func (c *Config) LogAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String(KeyLogLevel, c.LogLevel),
		slog.String(KeyLogFormat, c.LogFormat),
		slog.Bool(KeyQuiet, c.Quiet),
		slog.String(KeyOutputDir, c.OutputDir),
		slog.Int(KeyIndent, c.Indent),
	}

	if c.ConfigFile != "" {
		attrs = append(attrs, slog.String("config", c.ConfigFile))
	}

	return attrs
}

// Load resolves the configuration for cmd. configFile, when non-empty, must
// exist; otherwise a discovered file is optional. Each call uses its own
// viper instance.
func Load(cmd *cobra.Command, configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := readConfigFile(v, configFile); err != nil {
		return nil, err
	}

	if err := bindFlags(v, cmd); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.ConfigFile = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.OutputDir = filepath.Clean(cfg.OutputDir)

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()

	for key, val := range map[string]any{
		KeyLogLevel:  d.LogLevel,
		KeyLogFormat: d.LogFormat,
		KeyNoColor:   d.NoColor,
		KeyQuiet:     d.Quiet,
		KeyOutputDir: d.OutputDir,
		KeyIndent:    d.Indent,
	} {
		v.SetDefault(key, val)
	}
}

func readConfigFile(v *viper.Viper, configFile string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %q: %w", configFile, err)
		}

		return nil
	}

	v.SetConfigName(fileName)
	v.SetConfigType("yaml")

	for _, p := range searchPaths() {
		v.AddConfigPath(p)
	}

	err := v.ReadInConfig()

	var notFound viper.ConfigFileNotFoundError
	if err == nil || errors.As(err, &notFound) {
		return nil
	}

	return fmt.Errorf("parsing config file: %w", err)
}

// searchPaths lists the directories searched for .manifestsplit.yaml, in
// order.
func searchPaths() []string {
	paths := []string{"."}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, appDir))
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", appDir))
	}

	return paths
}

// bindFlags binds cmd's local flags and the persistent flags of cmd and
// every ancestor.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for c := cmd; c != nil; c = c.Parent() {
		if c == cmd {
			if err := v.BindPFlags(c.Flags()); err != nil {
				return fmt.Errorf("binding flags: %w", err)
			}
		}

		if err := v.BindPFlags(c.PersistentFlags()); err != nil {
			return fmt.Errorf("binding persistent flags: %w", err)
		}
	}

	return nil
}

type ctxKey struct{}

// NewContext returns a child context carrying cfg.
func NewContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext returns the Config stored in ctx, or Default().
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(ctxKey{}).(*Config); ok {
		return cfg
	}

	return Default()
}
