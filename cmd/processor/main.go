package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"bbbcli/internal/app"
	"bbbcli/internal/config"
	"bbbcli/internal/dataprocessing"
	"bbbcli/internal/exporter"
	"bbbcli/internal/infrastructure"
	"bbbcli/internal/validation"
)

// options holds the command line overrides applied on top of the loaded
// configuration. Empty values keep the configured setting.
type options struct {
	configFile  string
	matchesDir  string
	outputDir   string
	formats     string
	datePolicy  string
	logLevel    string
	workers     int
	summaryOnly bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.configFile, "config", "", "YAML configuration file (default: search config.yaml, configs/config.yaml)")
	fs.StringVar(&opts.matchesDir, "in", "", "Directory containing match JSON files")
	fs.StringVar(&opts.outputDir, "out", "", "Directory for exported files")
	fs.StringVar(&opts.formats, "formats", "", "Comma-separated export formats: csv, xlsx, sqlite")
	fs.StringVar(&opts.datePolicy, "date-policy", "", "What to do with matches whose date cannot be parsed: skip or abort")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.IntVar(&opts.workers, "workers", -1, "Parallel match parsers (0 = one per CPU)")
	fs.BoolVar(&opts.summaryOnly, "summary-only", false, "Print the dataset summary without exporting")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [flags]\n\n", config.AppName)
		fmt.Fprintln(stderr, "Flattens ball-by-ball match JSON files into one row per delivery.")
		fmt.Fprintln(stderr)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return opts, nil
}

func loadConfig(opts *options) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configFile != "" {
		cfg, err = config.LoadFile(opts.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if opts.matchesDir != "" {
		cfg.Pipeline.MatchesDir = opts.matchesDir
	}
	if opts.outputDir != "" {
		cfg.Export.OutputDir = opts.outputDir
	}
	if opts.formats != "" {
		cfg.Export.Formats = cfg.Export.Formats[:0]
		for _, f := range strings.Split(opts.formats, ",") {
			if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
				cfg.Export.Formats = append(cfg.Export.Formats, f)
			}
		}
	}
	if opts.summaryOnly {
		cfg.Export.Formats = nil
	}
	if opts.datePolicy != "" {
		cfg.Pipeline.DatePolicy = strings.ToLower(opts.datePolicy)
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.workers >= 0 {
		cfg.Pipeline.Workers = opts.workers
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// run loads the corpus, prints the summary to stdout and writes every
// configured export.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, closer, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer closer.Close()
	logger = infrastructure.WithComponent(logger, "processor")

	ctx = infrastructure.WithTraceID(ctx, infrastructure.NewRunID())

	paths, err := cfg.ResolvePaths()
	if err != nil {
		return fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return err
	}
	paths.LogPathResolution(logger)

	providers, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}()

	fileValidator := validation.NewFileValidator(logger)
	if err := fileValidator.ValidateInputDirectory(paths.MatchesDir, cfg.Pipeline.FilePattern); err != nil {
		return err
	}
	if len(cfg.Export.Formats) > 0 {
		if err := fileValidator.ValidateOutputDirectory(paths.ReportsDir); err != nil {
			return err
		}
	}

	loader, err := app.NewCorpusLoader(cfg.Pipeline, logger, providers.Meter)
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "Processing matches",
		slog.String("matches_dir", paths.MatchesDir),
		slog.Any("formats", cfg.Export.Formats))

	ds, err := loader.Load(ctx, paths.MatchesDir)
	if err != nil {
		return fmt.Errorf("failed to load matches: %w", err)
	}

	if err := dataprocessing.WriteSummary(stdout, dataprocessing.Summarize(ds)); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	if len(cfg.Export.Formats) > 0 && ds.Len() > 0 {
		exportCfg := cfg.Export
		exportCfg.OutputDir = paths.ReportsDir

		results, err := exporter.ExportAll(ctx, ds, exportCfg, logger)
		for _, res := range results {
			fmt.Fprintf(stdout, "\nSaved %d deliveries to %s\n", res.Rows, res.Path)
		}
		if err != nil {
			return err
		}
	}

	if cfg.Telemetry.MetricsTextfile != "" {
		path := paths.Resolve(cfg.Telemetry.MetricsTextfile)
		if err := providers.WriteMetricsTextfile(path); err != nil {
			if !errors.Is(err, infrastructure.ErrMetricsDisabled) {
				return err
			}
			logger.WarnContext(ctx, "Metrics textfile requested but metrics are disabled")
		} else {
			logger.InfoContext(ctx, "Metrics textfile written", slog.String("file_path", path))
		}
	}

	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "%s: %v\n", config.AppName, err)
		os.Exit(1)
	}
}
