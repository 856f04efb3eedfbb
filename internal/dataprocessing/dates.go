package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"bbbcli/pkg/contracts/domain"
)

// DatePolicy decides what happens to rows whose match date cannot be parsed
type DatePolicy string

const (
	// DatePolicySkip drops the affected rows and logs a warning per match
	DatePolicySkip DatePolicy = "skip"
	// DatePolicyAbort fails the whole load with *DateParseError
	DatePolicyAbort DatePolicy = "abort"
)

// ParseDatePolicy converts a configuration value into a DatePolicy.
// The empty string selects DatePolicySkip.
func ParseDatePolicy(s string) (DatePolicy, error) {
	switch DatePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", DatePolicySkip:
		return DatePolicySkip, nil
	case DatePolicyAbort:
		return DatePolicyAbort, nil
	default:
		return "", fmt.Errorf("unknown date policy %q (want %q or %q)", s, DatePolicySkip, DatePolicyAbort)
	}
}

// Year-first layouts only; day/month-first strings are ambiguous and rejected.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-1-2",
	"2006/1/2",
	"20060102",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// ParseMatchDate parses a raw match date into a UTC calendar date
func ParseMatchDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format %q", raw)
}

type dateResult struct {
	date time.Time
	err  error
}

// normalizeDates sets Date on every row from its match's raw date. Rows of
// the same match share one MatchContext, so each distinct match is parsed and
// reported once.
func (l *CorpusLoader) normalizeDates(ctx context.Context, rows []domain.FlatRow) ([]domain.FlatRow, error) {
	parsed := make(map[*domain.MatchContext]dateResult)
	rejected := make(map[*domain.MatchContext]int)
	var order []*domain.MatchContext

	for i := range rows {
		mc := rows[i].MatchContext
		res, ok := parsed[mc]
		if !ok {
			d, err := ParseMatchDate(mc.RawDate)
			res = dateResult{date: d, err: err}
			parsed[mc] = res
		}
		if res.err != nil {
			if rejected[mc] == 0 {
				order = append(order, mc)
			}
			rejected[mc]++
			continue
		}
		rows[i].Date = res.date
	}

	if len(order) == 0 {
		return rows, nil
	}

	if l.opts.DatePolicy == DatePolicyAbort {
		mc := order[0]
		err := &DateParseError{MatchID: mc.MatchID, Value: mc.RawDate, Rows: rejected[mc], Cause: parsed[mc].err}
		l.logger.ErrorContext(ctx, "Aborting load on unparseable match date",
			slog.Int("match_id", mc.MatchID),
			slog.String("date", mc.RawDate),
			slog.Int("matches_affected", len(order)))
		return nil, err
	}

	total := 0
	for _, mc := range order {
		err := &DateParseError{MatchID: mc.MatchID, Value: mc.RawDate, Rows: rejected[mc], Cause: parsed[mc].err}
		l.logger.WarnContext(ctx, "Dropping rows with unparseable match date",
			slog.Int("match_id", mc.MatchID),
			slog.String("date", mc.RawDate),
			slog.Int("rows", rejected[mc]),
			slog.String("error", err.Error()))
		total += rejected[mc]
	}
	l.telemetry.recordDateRejected(ctx, total)

	kept := rows[:0]
	for _, row := range rows {
		if parsed[row.MatchContext].err == nil {
			kept = append(kept, row)
		}
	}
	return kept, nil
}
