package domain

import (
	"time"
)

// MatchContext is derived once per match document and shared by every row of
// that match. It must not be modified after the first row referencing it is
// produced.
type MatchContext struct {
	MatchID int     `json:"match_id" db:"match_id"`
	Team1   string  `json:"team1" db:"team1"`
	Team2   string  `json:"team2" db:"team2"`
	Venue   string  `json:"venue" db:"venue"`
	RawDate string  `json:"-" db:"-"`
	Winner  *string `json:"winner" db:"winner"`
}

// FlatRow is one delivery denormalized with its match, innings and over
// context. Optional columns are nil when absent.
type FlatRow struct {
	*MatchContext

	// Date is the normalized match date; zero until the corpus loader
	// normalizes RawDate.
	Date time.Time `json:"date" db:"date"`

	Innings     int    `json:"innings" db:"innings"`
	BattingTeam string `json:"batting_team" db:"batting_team"`
	OverNumber  int    `json:"over_number" db:"over_number"`

	Batter     string `json:"batter" db:"batter"`
	Bowler     string `json:"bowler" db:"bowler"`
	NonStriker string `json:"non_striker" db:"non_striker"`

	RunsBatter int `json:"runs_batter" db:"runs_batter"`
	RunsExtras int `json:"runs_extras" db:"runs_extras"`
	RunsTotal  int `json:"runs_total" db:"runs_total"`

	ExtrasType    *string `json:"extras_type" db:"extras_type"`
	PlayerOut     *string `json:"player_out" db:"player_out"`
	DismissalKind *string `json:"dismissal_kind" db:"dismissal_kind"`
	Fielders      *string `json:"fielders" db:"fielders"`
}

// IsWicket reports whether a batter was dismissed on this delivery
func (r FlatRow) IsWicket() bool {
	return r.PlayerOut != nil
}

// Column names of the flattened dataset, in output order
const (
	ColMatchID       = "match_id"
	ColTeam1         = "team1"
	ColTeam2         = "team2"
	ColVenue         = "venue"
	ColDate          = "date"
	ColWinner        = "winner"
	ColInnings       = "innings"
	ColBattingTeam   = "batting_team"
	ColOverNumber    = "over_number"
	ColBatter        = "batter"
	ColBowler        = "bowler"
	ColNonStriker    = "non_striker"
	ColRunsBatter    = "runs_batter"
	ColRunsExtras    = "runs_extras"
	ColRunsTotal     = "runs_total"
	ColExtrasType    = "extras_type"
	ColPlayerOut     = "player_out"
	ColDismissalKind = "dismissal_kind"
	ColFielders      = "fielders"
)

// Columns is the fixed column layout shared by every row of a Dataset
var Columns = []string{
	ColMatchID, ColTeam1, ColTeam2, ColVenue, ColDate, ColWinner,
	ColInnings, ColBattingTeam, ColOverNumber,
	ColBatter, ColBowler, ColNonStriker,
	ColRunsBatter, ColRunsExtras, ColRunsTotal,
	ColExtrasType, ColPlayerOut, ColDismissalKind, ColFielders,
}

// Dataset is the flat, ordered collection of delivery rows produced from a
// corpus. It is rebuilt on every load and never updated in place.
type Dataset struct {
	Rows []FlatRow `json:"rows"`
}

// NewDataset wraps rows into a dataset
func NewDataset(rows []FlatRow) *Dataset {
	if rows == nil {
		rows = []FlatRow{}
	}
	return &Dataset{Rows: rows}
}

// Len returns the number of rows
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// Empty reports whether the dataset has no rows
func (d *Dataset) Empty() bool {
	return d.Len() == 0
}

// MatchIDs returns the distinct match ids in first-seen order
func (d *Dataset) MatchIDs() []int {
	if d == nil {
		return nil
	}
	seen := make(map[int]struct{})
	ids := make([]int, 0)
	for _, row := range d.Rows {
		if _, ok := seen[row.MatchID]; ok {
			continue
		}
		seen[row.MatchID] = struct{}{}
		ids = append(ids, row.MatchID)
	}
	return ids
}
