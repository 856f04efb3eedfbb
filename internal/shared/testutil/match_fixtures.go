package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// MatchFixture builds ball-by-ball match documents for tests.
// Fields are plain maps so tests can drop or corrupt any part of the
// structure before writing it out.
type MatchFixture struct {
	Info    map[string]any
	Innings []map[string]any
}

// NewMatchFixture returns a well-formed match between team1 and team2
// without any innings.
func NewMatchFixture(matchID int, team1, team2 string) *MatchFixture {
	return &MatchFixture{
		Info: map[string]any{
			"match_type_number": matchID,
			"teams":             []string{team1, team2},
			"venue":             "Eden Gardens",
			"dates":             []string{"2023-03-01", "2023-03-02"},
			"outcome":           map[string]any{"winner": team1},
		},
		Innings: []map[string]any{},
	}
}

// AddInnings appends an innings for team with the given overs
func (f *MatchFixture) AddInnings(team string, overs ...map[string]any) *MatchFixture {
	f.Innings = append(f.Innings, map[string]any{
		"team":  team,
		"overs": overs,
	})
	return f
}

// Over builds an over entry
func Over(number int, deliveries ...map[string]any) map[string]any {
	if deliveries == nil {
		deliveries = []map[string]any{}
	}
	return map[string]any{
		"over":       number,
		"deliveries": deliveries,
	}
}

// Ball builds a minimal valid delivery
func Ball(batter, bowler, nonStriker string, runsBatter, runsTotal int) map[string]any {
	return map[string]any{
		"batter":      batter,
		"bowler":      bowler,
		"non_striker": nonStriker,
		"runs": map[string]any{
			"batter": runsBatter,
			"total":  runsTotal,
		},
	}
}

// Deliveries returns the number of deliveries across all innings
func (f *MatchFixture) Deliveries() int {
	n := 0
	for _, inn := range f.Innings {
		overs, _ := inn["overs"].([]map[string]any)
		for _, over := range overs {
			balls, _ := over["deliveries"].([]map[string]any)
			n += len(balls)
		}
	}
	return n
}

// Document returns the fixture as a generic JSON object
func (f *MatchFixture) Document() map[string]any {
	doc := map[string]any{}
	if f.Info != nil {
		doc["info"] = f.Info
	}
	if f.Innings != nil {
		doc["innings"] = f.Innings
	}
	return doc
}

// JSON encodes the fixture
func (f *MatchFixture) JSON(t testing.TB) []byte {
	t.Helper()
	data, err := json.Marshal(f.Document())
	if err != nil {
		t.Fatalf("marshal match fixture: %v", err)
	}
	return data
}

// WriteFile writes the fixture as dir/name and returns the full path
func (f *MatchFixture) WriteFile(t testing.TB, dir, name string) string {
	t.Helper()
	return WriteRaw(t, dir, name, f.JSON(t))
}

// WriteRaw writes arbitrary bytes as dir/name and returns the full path
func WriteRaw(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// StandardMatch returns a two-innings match with the given number of
// deliveries per innings, all in over 0 and 1.
func StandardMatch(matchID int, perInnings int) *MatchFixture {
	f := NewMatchFixture(matchID, "India", "Australia")
	for _, team := range []string{"India", "Australia"} {
		var first, second []map[string]any
		for i := 0; i < perInnings; i++ {
			ball := Ball(fmt.Sprintf("%s batter %d", team, i%2), "Bowler", "Partner", i%4, i%4)
			if i < 6 {
				first = append(first, ball)
			} else {
				second = append(second, ball)
			}
		}
		overs := []map[string]any{Over(0, first...)}
		if len(second) > 0 {
			overs = append(overs, Over(1, second...))
		}
		f.AddInnings(team, overs...)
	}
	return f
}
