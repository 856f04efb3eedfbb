package exporter

import (
	"strconv"
	"time"

	"bbbcli/pkg/contracts/domain"
)

// DateLayout is how normalized match dates are written
const DateLayout = "2006-01-02"

// formatInt formats an int value for text output
func formatInt(i int) string {
	return strconv.Itoa(i)
}

// formatDate formats a normalized date; the zero time is written empty
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// formatOptional writes null as an empty field
func formatOptional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// nullable maps an optional column onto a SQL parameter
func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// Record renders a row as text fields in domain.Columns order
func Record(row domain.FlatRow) []string {
	return []string{
		formatInt(row.MatchID),
		row.Team1,
		row.Team2,
		row.Venue,
		formatDate(row.Date),
		formatOptional(row.Winner),
		formatInt(row.Innings),
		row.BattingTeam,
		formatInt(row.OverNumber),
		row.Batter,
		row.Bowler,
		row.NonStriker,
		formatInt(row.RunsBatter),
		formatInt(row.RunsExtras),
		formatInt(row.RunsTotal),
		formatOptional(row.ExtrasType),
		formatOptional(row.PlayerOut),
		formatOptional(row.DismissalKind),
		formatOptional(row.Fielders),
	}
}

// cells renders a row for spreadsheet output; numbers stay numeric
func cells(row domain.FlatRow) []interface{} {
	return []interface{}{
		row.MatchID,
		row.Team1,
		row.Team2,
		row.Venue,
		formatDate(row.Date),
		formatOptional(row.Winner),
		row.Innings,
		row.BattingTeam,
		row.OverNumber,
		row.Batter,
		row.Bowler,
		row.NonStriker,
		row.RunsBatter,
		row.RunsExtras,
		row.RunsTotal,
		formatOptional(row.ExtrasType),
		formatOptional(row.PlayerOut),
		formatOptional(row.DismissalKind),
		formatOptional(row.Fielders),
	}
}

// params renders a row as SQL parameters; optional columns become NULL
func params(row domain.FlatRow) []any {
	return []any{
		row.MatchID,
		row.Team1,
		row.Team2,
		row.Venue,
		formatDate(row.Date),
		nullable(row.Winner),
		row.Innings,
		row.BattingTeam,
		row.OverNumber,
		row.Batter,
		row.Bowler,
		row.NonStriker,
		row.RunsBatter,
		row.RunsExtras,
		row.RunsTotal,
		nullable(row.ExtrasType),
		nullable(row.PlayerOut),
		nullable(row.DismissalKind),
		nullable(row.Fielders),
	}
}
