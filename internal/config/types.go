package config

import "time"

type (
	// Config is the resolved tldrx configuration
	Config struct {
		// Input is the command list or generated chunk directory to read
		Input string `json:"input" mapstructure:"input"`
		// Output controls where and how chunk artifacts are written
		Output OutputConfig `json:"output" mapstructure:"output"`
		// S3 configures the client used for s3:// output targets
		S3 S3Config `json:"s3" mapstructure:"s3"`
		// Index configures the on-disk search index
		Index IndexConfig `json:"index" mapstructure:"index"`
		// Screenshot configures web application captures
		Screenshot ScreenshotConfig `json:"screenshot" mapstructure:"screenshot"`
		// Log configures logging
		Log LogConfig `json:"log" mapstructure:"log"`
	}

	// OutputConfig controls chunk emission
	OutputConfig struct {
		// Target is a directory or an s3://bucket/prefix URL
		Target string `json:"target" mapstructure:"target"`
		// Format is "js" or "json"
		Format string `json:"format" mapstructure:"format"`
		// Collection is the export name of the combined index
		Collection string `json:"collection" mapstructure:"collection"`
	}

	// S3Config configures the S3 client
	S3Config struct {
		Region          string `json:"region" mapstructure:"region"`
		Endpoint        string `json:"endpoint" mapstructure:"endpoint"`
		PathStyle       bool   `json:"path_style" mapstructure:"path_style"`
		AccessKeyID     string `json:"access_key_id" mapstructure:"access_key_id"`
		SecretAccessKey string `json:"-" mapstructure:"secret_access_key"`
	}

	// IndexConfig configures the search index location
	IndexConfig struct {
		Path string `json:"path" mapstructure:"path"`
	}

	// ScreenshotConfig configures browser captures
	ScreenshotConfig struct {
		URL      string        `json:"url" mapstructure:"url"`
		Dir      string        `json:"dir" mapstructure:"dir"`
		Width    int           `json:"width" mapstructure:"width"`
		Height   int           `json:"height" mapstructure:"height"`
		Settle   time.Duration `json:"settle" mapstructure:"settle"`
		Selector string        `json:"selector" mapstructure:"selector"`
		Headless bool          `json:"headless" mapstructure:"headless"`
	}

	// LogConfig configures the default logger
	LogConfig struct {
		Level string `json:"level" mapstructure:"level"`
	}
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Input: "src/data/commands.js",
		Output: OutputConfig{
			Target:     "src/data/chunks",
			Format:     "js",
			Collection: "commands",
		},
		S3: S3Config{
			Region: "us-east-1",
		},
		Index: IndexConfig{
			Path: "data/search/index",
		},
		Screenshot: ScreenshotConfig{
			URL:      "http://localhost:5173",
			Dir:      "screenshots",
			Width:    1280,
			Height:   720,
			Settle:   3 * time.Second,
			Selector: `.command-card, [class*="command"]`,
			Headless: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
