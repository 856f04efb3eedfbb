package dataprocessing

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "bbbcli/internal/errors"
	"bbbcli/internal/files"
	"bbbcli/internal/infrastructure"
	"bbbcli/pkg/contracts/domain"
)

// CorpusLoader builds one dataset from every match document in a directory
type CorpusLoader struct {
	opts      Options
	discovery *files.Discovery
	parser    *MatchParser
	logger    *slog.Logger
	telemetry *Telemetry
}

// NewCorpusLoader creates a loader; zero option fields take their defaults
func NewCorpusLoader(opts Options) *CorpusLoader {
	opts = opts.withDefaults()
	return &CorpusLoader{
		opts:      opts,
		discovery: files.NewDiscovery(""),
		parser:    NewMatchParser(opts.Logger, opts.Telemetry),
		logger:    opts.Logger.With(slog.String("component", "corpus_loader")),
		telemetry: opts.Telemetry,
	}
}

// Load reads every match document directly inside dir and returns the
// combined rows in file-name order. A directory without match documents, or
// whose documents yield no rows, gives an empty dataset and a warning. An
// unreadable directory is an error.
func (l *CorpusLoader) Load(ctx context.Context, dir string) (ds *domain.Dataset, err error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	started := time.Now()

	ctx, span := l.telemetry.startLoad(ctx, dir)
	defer func() {
		l.telemetry.finishLoad(ctx, span, started, ds.Len(), err)
	}()

	runID := infrastructure.GetTraceID(ctx)
	logger := l.logger.With(slog.String("run_id", runID))

	docs, err := l.discovery.FindFiles(dir, l.opts.FilePattern)
	if err != nil {
		logger.ErrorContext(ctx, "Cannot read match directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("match directory %s", dir)).
				WithContext("directory", dir)
		}
		return nil, apperrors.NewStorageError(fmt.Sprintf("cannot read match directory %s", dir), err)
	}

	if len(docs) == 0 {
		logger.WarnContext(ctx, "No match documents found",
			slog.String("directory", dir),
			slog.String("pattern", l.opts.FilePattern))
		return domain.NewDataset(nil), nil
	}

	logger.InfoContext(ctx, "Found match documents",
		slog.String("directory", dir),
		slog.Int("files", len(docs)),
		slog.Int64("bytes", files.TotalSize(docs)),
		slog.Int("workers", l.opts.Workers))

	perDoc, err := l.parseAll(ctx, docs)
	if err != nil {
		logger.WarnContext(ctx, "Corpus load cancelled", slog.String("error", err.Error()))
		return nil, err
	}

	total := 0
	for _, rows := range perDoc {
		total += len(rows)
	}
	rows := make([]domain.FlatRow, 0, total)
	for _, docRows := range perDoc {
		rows = append(rows, docRows...)
	}

	rows, err = l.normalizeDates(ctx, rows)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		logger.WarnContext(ctx, "No valid match data found",
			slog.String("directory", dir),
			slog.Int("files", len(docs)))
		return domain.NewDataset(nil), nil
	}

	ds = domain.NewDataset(rows)
	logger.InfoContext(ctx, "Successfully processed deliveries",
		slog.Int("deliveries", ds.Len()),
		slog.Int("matches", len(ds.MatchIDs())),
		slog.Int("files", len(docs)),
		slog.Duration("duration", time.Since(started)))

	return ds, nil
}

// parseAll parses documents concurrently. Results are stored by document
// index so the merged order is the enumeration order.
func (l *CorpusLoader) parseAll(ctx context.Context, docs []files.FileInfo) ([][]domain.FlatRow, error) {
	results := make([][]domain.FlatRow, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.opts.Workers)

	for i, doc := range docs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = l.parser.ParseFile(gctx, doc.Path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
