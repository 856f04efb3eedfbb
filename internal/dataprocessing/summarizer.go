package dataprocessing

import (
	"fmt"
	"io"
	"sort"

	"bbbcli/pkg/contracts/domain"
)

// Summarize computes the headline statistics of a dataset. An empty or nil
// dataset yields the zero summary.
func Summarize(ds *domain.Dataset) domain.DatasetSummary {
	var s domain.DatasetSummary
	if ds.Empty() {
		return s
	}

	matches := make(map[int]struct{})
	innings := make(map[int]struct{})
	teams := make(map[string]struct{})
	runs := 0

	for i, row := range ds.Rows {
		matches[row.MatchID] = struct{}{}
		innings[row.Innings] = struct{}{}
		teams[row.Team1] = struct{}{}
		teams[row.Team2] = struct{}{}
		runs += row.RunsTotal

		if i == 0 || row.Date.Before(s.FirstDate) {
			s.FirstDate = row.Date
		}
		if i == 0 || row.Date.After(s.LastDate) {
			s.LastDate = row.Date
		}
		if row.PlayerOut != nil {
			s.Wickets++
		}
		if row.ExtrasType != nil {
			s.Extras++
		}
	}

	s.Matches = len(matches)
	s.Deliveries = ds.Len()
	s.Innings = len(innings)
	s.AvgRunsPerBall = float64(runs) / float64(ds.Len())

	s.Teams = make([]string, 0, len(teams))
	for team := range teams {
		s.Teams = append(s.Teams, team)
	}
	sort.Strings(s.Teams)

	return s
}

// WriteSummary prints a human-readable report of s to w
func WriteSummary(w io.Writer, s domain.DatasetSummary) error {
	if s.Deliveries == 0 {
		_, err := fmt.Fprintln(w, "\nNo data loaded. Please check the match files in the input directory.")
		return err
	}

	const day = "2006-01-02"
	ew := &errWriter{w: w}
	ew.printf("\nDataset Info:\n")
	ew.printf("Number of matches: %d\n", s.Matches)
	ew.printf("Date range: %s to %s\n", s.FirstDate.Format(day), s.LastDate.Format(day))
	ew.printf("\nTotal deliveries: %d\n", s.Deliveries)
	ew.printf("Total innings: %d\n", s.Innings)
	ew.printf("\nTeams in dataset:\n")
	for _, team := range s.Teams {
		ew.printf("- %s\n", team)
	}
	ew.printf("\nBasic Statistics:\n")
	ew.printf("Average runs per ball: %.2f\n", s.AvgRunsPerBall)
	ew.printf("Total wickets: %d\n", s.Wickets)
	ew.printf("Total extras: %d\n", s.Extras)
	return ew.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
