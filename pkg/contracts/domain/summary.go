package domain

import (
	"time"
)

// DatasetSummary holds the headline statistics of a flattened corpus
type DatasetSummary struct {
	Matches        int       `json:"matches"`
	FirstDate      time.Time `json:"first_date"`
	LastDate       time.Time `json:"last_date"`
	Deliveries     int       `json:"deliveries"`
	Innings        int       `json:"innings"`
	Teams          []string  `json:"teams"`
	AvgRunsPerBall float64   `json:"avg_runs_per_ball"`
	Wickets        int       `json:"wickets"`
	Extras         int       `json:"extras"`
}
