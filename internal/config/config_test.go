package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "bbbcli/internal/errors"
)

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFile(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		yaml        string
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no file and no env",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultMatchesDir, cfg.Pipeline.MatchesDir)
				assert.Equal(t, 0, cfg.Pipeline.Workers)
				assert.Equal(t, "skip", cfg.Pipeline.DatePolicy)
				assert.Equal(t, "*.json", cfg.Pipeline.FilePattern)
				assert.Equal(t, []string{"csv"}, cfg.Export.Formats)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.True(t, cfg.Server.RateLimit.Enabled)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, "none", cfg.Telemetry.TraceExporter)
			},
		},
		{
			name: "file overrides defaults",
			yaml: `
pipeline:
  matches_dir: /srv/cricsheet/tests
  workers: 4
  date_policy: ABORT
export:
  formats: [csv, xlsx, sqlite]
server:
  read_timeout: 5s
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/srv/cricsheet/tests", cfg.Pipeline.MatchesDir)
				assert.Equal(t, 4, cfg.Pipeline.Workers)
				assert.Equal(t, "abort", cfg.Pipeline.DatePolicy)
				assert.Equal(t, []string{"csv", "xlsx", "sqlite"}, cfg.Export.Formats)
				assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
				// untouched keys keep defaults
				assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
				assert.Equal(t, "*.json", cfg.Pipeline.FilePattern)
			},
		},
		{
			name: "env overrides file",
			env: map[string]string{
				"BBB_PIPELINE_WORKERS":      "8",
				"BBB_EXPORT_FORMATS":        "sqlite,CSV",
				"BBB_SERVER_PORT":           "9090",
				"BBB_SERVER_RATE_LIMIT_RPS": "2.5",
				"BBB_LOGGING_LEVEL":         "debug",
			},
			yaml: `
pipeline:
  workers: 4
server:
  port: 8081
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8, cfg.Pipeline.Workers)
				assert.Equal(t, []string{"sqlite", "csv"}, cfg.Export.Formats)
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 2.5, cfg.Server.RateLimit.RPS)
				assert.Equal(t, "debug", cfg.Logging.Level)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.yaml != "" {
				path = writeYAML(t, tt.yaml)
			}

			cfg, err := LoadFile(path)
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoadFile_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := LoadFile(writeYAML(t, "pipeline: [unclosed"))
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
	})

	t.Run("malformed env", func(t *testing.T) {
		t.Setenv("BBB_PIPELINE_WORKERS", "many")
		_, err := LoadFile("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "env")
	})

	t.Run("invalid values", func(t *testing.T) {
		t.Setenv("BBB_PIPELINE_DATE_POLICY", "ignore")
		t.Setenv("BBB_EXPORT_FORMATS", "parquet")
		_, err := LoadFile("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "date_policy")
		assert.Contains(t, err.Error(), "parquet")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"default is valid", func(*Config) {}, ""},
		{"empty matches dir", func(c *Config) { c.Pipeline.MatchesDir = "" }, "matches_dir"},
		{"negative workers", func(c *Config) { c.Pipeline.Workers = -1 }, "workers"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "port"},
		{"bad rate limit", func(c *Config) { c.Server.RateLimit.Burst = 0 }, "rate_limit"},
		{"disabled rate limit ignores values", func(c *Config) {
			c.Server.RateLimit.Enabled = false
			c.Server.RateLimit.RPS = 0
		}, ""},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"file output needs path", func(c *Config) {
			c.Logging.Output = "file"
			c.Logging.FilePath = ""
		}, "file_path"},
		{"bad exporter", func(c *Config) { c.Telemetry.TraceExporter = "otlp" }, "trace_exporter"},
		{"bad sample ratio", func(c *Config) { c.Telemetry.SampleRatio = 2 }, "sample_ratio"},
		{"export without base name", func(c *Config) { c.Export.BaseName = "" }, "base_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
