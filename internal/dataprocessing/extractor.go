package dataprocessing

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"bbbcli/internal/validation"
	"bbbcli/pkg/contracts/domain"
)

// Position locates a delivery inside its match
type Position struct {
	// Innings is 1-based and assigned by position in the document
	Innings     int
	BattingTeam string
	Over        int
	// Ball is the 1-based index of the delivery within its over. It is only
	// used to locate bad input in logs.
	Ball int
}

var deliveryValidator = validation.NewValidator()

// Flatten denormalizes one decoded delivery with its match and position.
// It fails with *ExtractionError when a required field is absent.
func Flatten(d domain.Delivery, match *domain.MatchContext, pos Position) (domain.FlatRow, error) {
	if err := deliveryValidator.Struct(d); err != nil {
		return domain.FlatRow{}, newExtractionError(match, pos, err)
	}

	row := domain.FlatRow{
		MatchContext: match,
		Innings:      pos.Innings,
		BattingTeam:  pos.BattingTeam,
		OverNumber:   pos.Over,
		Batter:       *d.Batter,
		Bowler:       *d.Bowler,
		NonStriker:   *d.NonStriker,
		RunsBatter:   *d.Runs.Batter,
		RunsTotal:    *d.Runs.Total,
	}
	if d.Runs.Extras != nil {
		row.RunsExtras = *d.Runs.Extras
	}
	if kind, ok := d.Extras.FirstKind(); ok {
		row.ExtrasType = &kind
	}

	if w := d.Wicket; w != nil {
		row.PlayerOut = w.PlayerOut
		row.DismissalKind = w.Kind
		if len(w.Fielders) > 0 {
			names := make([]string, len(w.Fielders))
			for i, f := range w.Fielders {
				names[i] = *f.Name
			}
			joined := strings.Join(names, ",")
			row.Fielders = &joined
		}
	}

	return row, nil
}

func newExtractionError(match *domain.MatchContext, pos Position, err error) *ExtractionError {
	e := &ExtractionError{Pos: pos, Cause: err}
	if match != nil {
		e.MatchID = match.MatchID
	}
	var serr *validation.StructError
	if errors.As(err, &serr) {
		e.Missing = serr.Paths()
	}
	return e
}

// DeliveryExtractor turns raw delivery objects into rows
type DeliveryExtractor struct {
	logger *slog.Logger
}

// NewDeliveryExtractor creates an extractor that reports rejected deliveries to logger
func NewDeliveryExtractor(logger *slog.Logger) *DeliveryExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeliveryExtractor{
		logger: logger.With(slog.String("component", "delivery_extractor")),
	}
}

// Extract decodes and flattens one delivery. Every failure is logged once
// with enough context to find the delivery and returned as *ExtractionError.
func (x *DeliveryExtractor) Extract(ctx context.Context, source string, raw json.RawMessage, match *domain.MatchContext, pos Position) (domain.FlatRow, error) {
	var d domain.Delivery
	if err := json.Unmarshal(raw, &d); err != nil {
		e := newExtractionError(match, pos, err)
		e.Source, e.Raw = source, raw
		x.report(ctx, e)
		return domain.FlatRow{}, e
	}

	row, err := Flatten(d, match, pos)
	if err != nil {
		var e *ExtractionError
		if !errors.As(err, &e) {
			e = newExtractionError(match, pos, err)
		}
		e.Source, e.Raw = source, raw
		x.report(ctx, e)
		return domain.FlatRow{}, e
	}
	return row, nil
}

func (x *DeliveryExtractor) report(ctx context.Context, e *ExtractionError) {
	attrs := []any{
		slog.String("source", e.Source),
		slog.Int("match_id", e.MatchID),
		slog.Int("innings", e.Pos.Innings),
		slog.Int("over", e.Pos.Over),
		slog.Int("ball", e.Pos.Ball),
		slog.String("delivery", string(e.Raw)),
	}
	if len(e.Missing) > 0 {
		attrs = append(attrs, slog.String("missing", strings.Join(e.Missing, ",")))
	} else if e.Cause != nil {
		attrs = append(attrs, slog.String("error", e.Cause.Error()))
	}
	x.logger.WarnContext(ctx, "Dropping malformed delivery", attrs...)
}
