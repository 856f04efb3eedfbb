package dataprocessing

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	apperrors "bbbcli/internal/errors"
	"bbbcli/internal/validation"
	"bbbcli/pkg/contracts/domain"
)

// MatchParser walks one match document and produces its rows in document
// order: innings, then overs, then deliveries.
type MatchParser struct {
	extractor *DeliveryExtractor
	validator *validation.Validator
	logger    *slog.Logger
	telemetry *Telemetry
}

// NewMatchParser creates a match parser. A nil telemetry records nothing.
func NewMatchParser(logger *slog.Logger, telemetry *Telemetry) *MatchParser {
	if logger == nil {
		logger = slog.Default()
	}
	if telemetry == nil {
		telemetry = noopTelemetry()
	}
	return &MatchParser{
		extractor: NewDeliveryExtractor(logger),
		validator: validation.NewValidator(),
		logger:    logger.With(slog.String("component", "match_parser")),
		telemetry: telemetry,
	}
}

// ParseFile reads and parses the match document at path. The file is closed
// before ParseFile returns. Failures are logged and yield no rows.
func (p *MatchParser) ParseFile(ctx context.Context, path string) []domain.FlatRow {
	source := filepath.Base(path)
	p.logger.InfoContext(ctx, "Processing", slog.String("source", source))

	doc, err := readDocument(path)
	if err != nil {
		p.reject(ctx, &SchemaError{Source: source, Reason: "unreadable document", Cause: err})
		return nil
	}
	return p.Parse(ctx, doc, source)
}

func readDocument(path string) (domain.MatchDocument, error) {
	var doc domain.MatchDocument

	f, err := os.Open(path)
	if err != nil {
		return doc, err
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return doc, apperrors.NewParsingError("decode match document", err)
	}
	return doc, nil
}

// Parse flattens doc. source identifies the document in logs. A document
// violating the match schema produces no rows and a logged SchemaError;
// malformed deliveries are dropped individually.
func (p *MatchParser) Parse(ctx context.Context, doc domain.MatchDocument, source string) []domain.FlatRow {
	ctx, span := p.telemetry.startMatch(ctx, source)
	defer span.End()

	if err := p.validator.Struct(doc); err != nil {
		serr := &SchemaError{Source: source, Reason: "schema violation", Cause: err}
		var structErr *validation.StructError
		if errors.As(err, &structErr) {
			serr.Missing = structErr.Paths()
			serr.Cause = nil
		}
		if doc.Info != nil && doc.Info.MatchTypeNumber != nil {
			serr.MatchID = *doc.Info.MatchTypeNumber
		}
		span.SetStatus(codes.Error, serr.Error())
		p.reject(ctx, serr)
		return nil
	}

	match := newMatchContext(doc.Info)
	span.SetAttributes(attribute.Int("match.id", match.MatchID))

	var rows []domain.FlatRow
	seen, dropped := 0, 0
	for i, innings := range doc.Innings {
		for _, over := range innings.Overs {
			for b, raw := range over.Deliveries {
				seen++
				pos := Position{
					Innings:     i + 1,
					BattingTeam: *innings.Team,
					Over:        *over.Over,
					Ball:        b + 1,
				}
				row, err := p.extractor.Extract(ctx, source, raw, match, pos)
				if err != nil {
					dropped++
					continue
				}
				rows = append(rows, row)
			}
		}
	}

	p.telemetry.recordDocument(ctx, "parsed")
	p.telemetry.recordDeliveries(ctx, len(rows), dropped)
	span.SetAttributes(
		attribute.Int("match.deliveries", seen),
		attribute.Int("match.dropped", dropped),
	)

	p.logger.InfoContext(ctx, "Completed",
		slog.String("source", source),
		slog.Int("match_id", match.MatchID),
		slog.Int("innings", len(doc.Innings)),
		slog.Int("deliveries", len(rows)),
		slog.Int("dropped", dropped))

	return rows
}

func (p *MatchParser) reject(ctx context.Context, err *SchemaError) {
	p.telemetry.recordDocument(ctx, "rejected")

	attrs := []any{
		slog.String("source", err.Source),
		slog.String("error", err.Error()),
	}
	if err.MatchID != 0 {
		attrs = append(attrs, slog.Int("match_id", err.MatchID))
	}
	p.logger.ErrorContext(ctx, "Skipping invalid match document", attrs...)
}

// newMatchContext builds the shared match context from validated info
func newMatchContext(info *domain.MatchInfo) *domain.MatchContext {
	mc := &domain.MatchContext{
		MatchID: *info.MatchTypeNumber,
		Team1:   info.Teams[0],
		Team2:   info.Teams[1],
		Venue:   *info.Venue,
		RawDate: info.Dates[0],
	}
	if info.Outcome != nil && info.Outcome.Winner != nil {
		winner := *info.Outcome.Winner
		mc.Winner = &winner
	}
	return mc
}
