// Package config loads tldrx settings from defaults, an optional YAML file
// and TLDRX_* environment variables, in increasing precedence.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name
	AppName = "tldrx"
	// ConfigFileName is the name of the config file looked up in the working directory
	ConfigFileName = "tldrx.yaml"
	// EnvPrefix prefixes every environment override, e.g. TLDRX_OUTPUT_FORMAT
	EnvPrefix = "TLDRX"
)

// LoadOptions controls where configuration is read from
type LoadOptions struct {
	// ConfigFilePath is an explicit config file; it must exist when set
	ConfigFilePath string
	// Dir is searched for ConfigFileName when no explicit path is given
	Dir string
}

// Load resolves the configuration. It returns the config and the path of
// the file it was read from, empty when only defaults and env were used.
func Load(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolvedPath := ""
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, "", fmt.Errorf("config file not found: %s", opts.ConfigFilePath)
		}
		resolvedPath = opts.ConfigFilePath
	} else {
		dir := opts.Dir
		if dir == "" {
			dir = "."
		}
		if candidate := filepath.Join(dir, ConfigFileName); fileExists(candidate) {
			resolvedPath = candidate
		}
	}

	if resolvedPath != "" {
		v.SetConfigFile(resolvedPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, "", fmt.Errorf("failed to read config %s: %w", resolvedPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return &cfg, resolvedPath, nil
}

func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("input", defaults.Input)
	v.SetDefault("output.target", defaults.Output.Target)
	v.SetDefault("output.format", defaults.Output.Format)
	v.SetDefault("output.collection", defaults.Output.Collection)
	v.SetDefault("s3.region", defaults.S3.Region)
	v.SetDefault("s3.endpoint", defaults.S3.Endpoint)
	v.SetDefault("s3.path_style", defaults.S3.PathStyle)
	v.SetDefault("s3.access_key_id", defaults.S3.AccessKeyID)
	v.SetDefault("s3.secret_access_key", defaults.S3.SecretAccessKey)
	v.SetDefault("index.path", defaults.Index.Path)
	v.SetDefault("screenshot.url", defaults.Screenshot.URL)
	v.SetDefault("screenshot.dir", defaults.Screenshot.Dir)
	v.SetDefault("screenshot.width", defaults.Screenshot.Width)
	v.SetDefault("screenshot.height", defaults.Screenshot.Height)
	v.SetDefault("screenshot.settle", defaults.Screenshot.Settle)
	v.SetDefault("screenshot.selector", defaults.Screenshot.Selector)
	v.SetDefault("screenshot.headless", defaults.Screenshot.Headless)
	v.SetDefault("log.level", defaults.Log.Level)
}

// Validate rejects settings no command can work with
func (c *Config) Validate() error {
	var errs []error

	switch c.Output.Format {
	case "js", "json":
	default:
		errs = append(errs, fmt.Errorf("output.format: unknown format %q (want js or json)", c.Output.Format))
	}
	if c.Output.Target == "" {
		errs = append(errs, errors.New("output.target: must not be empty"))
	}
	if c.Screenshot.Width <= 0 || c.Screenshot.Height <= 0 {
		errs = append(errs, fmt.Errorf("screenshot: viewport must be positive, got %dx%d", c.Screenshot.Width, c.Screenshot.Height))
	}
	if c.Screenshot.Settle < 0 {
		errs = append(errs, fmt.Errorf("screenshot.settle: must not be negative, got %s", c.Screenshot.Settle))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level: unknown level %q", c.Log.Level))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
