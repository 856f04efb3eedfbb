package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "bbbcli/internal/errors"
)

// EnvPrefix namespaces every environment variable, e.g. BBB_PIPELINE_WORKERS
const EnvPrefix = "BBB"

// Config represents the complete application configuration
type Config struct {
	Pipeline  PipelineConfig  `yaml:"pipeline" envconfig:"PIPELINE"`
	Export    ExportConfig    `yaml:"export" envconfig:"EXPORT"`
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
}

// PipelineConfig controls how the match corpus is loaded
type PipelineConfig struct {
	MatchesDir  string `yaml:"matches_dir" envconfig:"MATCHES_DIR"`
	Workers     int    `yaml:"workers" envconfig:"WORKERS"`
	DatePolicy  string `yaml:"date_policy" envconfig:"DATE_POLICY"`
	FilePattern string `yaml:"file_pattern" envconfig:"FILE_PATTERN"`
}

// ExportConfig controls where and how the flattened dataset is written
type ExportConfig struct {
	OutputDir string   `yaml:"output_dir" envconfig:"OUTPUT_DIR"`
	Formats   []string `yaml:"formats" envconfig:"FORMATS"`
	BaseName  string   `yaml:"base_name" envconfig:"BASE_NAME"`
	CSVBOM    bool     `yaml:"csv_bom" envconfig:"CSV_BOM"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int             `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	MaxHeaderBytes  int             `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// TelemetryConfig contains tracing and metrics configuration
type TelemetryConfig struct {
	ServiceName     string  `yaml:"service_name" envconfig:"SERVICE_NAME"`
	Environment     string  `yaml:"environment" envconfig:"ENVIRONMENT"`
	TraceExporter   string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER"`
	SampleRatio     float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO"`
	MetricsEnabled  bool    `yaml:"metrics_enabled" envconfig:"METRICS_ENABLED"`
	MetricsTextfile string  `yaml:"metrics_textfile" envconfig:"METRICS_TEXTFILE"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	// BaseDir anchors relative paths; empty means the working directory
	BaseDir string `yaml:"base_dir" envconfig:"BASE_DIR"`
}

// Load reads configuration from defaults, the first config file found, a
// .env file and the environment. Later sources win.
func Load() (*Config, error) {
	return LoadFile(getConfigFilePath())
}

// LoadFile is Load with an explicit YAML file; an empty path skips the file
func LoadFile(configFile string) (*Config, error) {
	// .env is optional; variables already set are not overridden
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, apperrors.NewConfigError("failed to read .env file", err)
	}

	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, apperrors.NewConfigError(fmt.Sprintf("failed to load config file %s", configFile), err)
		}
	}

	// Only variables that are set override the values above
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg; absent keys keep their values
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func (c *Config) normalize() {
	c.Pipeline.DatePolicy = strings.ToLower(strings.TrimSpace(c.Pipeline.DatePolicy))
	for i, f := range c.Export.Formats {
		c.Export.Formats[i] = strings.ToLower(strings.TrimSpace(f))
	}
	c.Logging.Format = strings.ToLower(c.Logging.Format)
	c.Logging.Output = strings.ToLower(c.Logging.Output)
	c.Telemetry.TraceExporter = strings.ToLower(c.Telemetry.TraceExporter)
}

// Validate checks value ranges and enumerations
func (c *Config) Validate() error {
	var problems []string

	if c.Pipeline.MatchesDir == "" {
		problems = append(problems, "pipeline.matches_dir must be set")
	}
	if c.Pipeline.Workers < 0 {
		problems = append(problems, fmt.Sprintf("pipeline.workers must not be negative: %d", c.Pipeline.Workers))
	}
	if !oneOf(c.Pipeline.DatePolicy, "", "skip", "abort") {
		problems = append(problems, fmt.Sprintf("pipeline.date_policy must be skip or abort: %q", c.Pipeline.DatePolicy))
	}

	for _, f := range c.Export.Formats {
		if !oneOf(f, SupportedExportFormats...) {
			problems = append(problems, fmt.Sprintf("export.formats: unsupported format %q", f))
		}
	}
	if len(c.Export.Formats) > 0 && c.Export.BaseName == "" {
		problems = append(problems, "export.base_name must be set when exporting")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid server port: %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		problems = append(problems, "server timeouts must be positive")
	}
	if c.Server.RateLimit.Enabled && (c.Server.RateLimit.RPS <= 0 || c.Server.RateLimit.Burst <= 0) {
		problems = append(problems, "server.rate_limit rps and burst must be positive")
	}

	if !oneOf(c.Logging.Format, "json", "text") {
		problems = append(problems, fmt.Sprintf("logging.format must be json or text: %q", c.Logging.Format))
	}
	if !oneOf(c.Logging.Output, "stdout", "console", "file", "both") {
		problems = append(problems, fmt.Sprintf("logging.output must be stdout, file or both: %q", c.Logging.Output))
	}
	if oneOf(c.Logging.Output, "file", "both") && c.Logging.FilePath == "" {
		problems = append(problems, "logging.file_path must be set for file output")
	}

	if !oneOf(c.Telemetry.TraceExporter, "stdout", "none") {
		problems = append(problems, fmt.Sprintf("telemetry.trace_exporter must be stdout or none: %q", c.Telemetry.TraceExporter))
	}
	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		problems = append(problems, "telemetry.sample_ratio must be within [0, 1]")
	}

	if len(problems) > 0 {
		return apperrors.NewConfigError("config validation failed: "+strings.Join(problems, "; "), nil).
			WithContext("problems", problems)
	}
	return nil
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// getConfigFilePath returns the path to the config file, or "" if none exists
func getConfigFilePath() string {
	if path := os.Getenv(EnvPrefix + "_CONFIG_FILE"); path != "" {
		return path
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			MatchesDir:  DefaultMatchesDir,
			Workers:     0, // one per CPU
			DatePolicy:  "skip",
			FilePattern: "*.json",
		},
		Export: ExportConfig{
			OutputDir: DefaultReportsDir,
			Formats:   []string{FormatCSV},
			BaseName:  DefaultExportBaseName,
			CSVBOM:    false,
		},
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     DefaultRateLimitRPS,
				Burst:   DefaultBurstSize,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "stdout",
			FilePath: DefaultLogFile,
		},
		Telemetry: TelemetryConfig{
			ServiceName:    AppName,
			Environment:    "development",
			TraceExporter:  "none",
			SampleRatio:    1.0,
			MetricsEnabled: true,
		},
	}
}
