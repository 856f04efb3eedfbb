package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MatchDocument is one ball-by-ball match file.
// Presence of info and innings is checked by the parser; innings may be an
// empty list but must not be absent.
type MatchDocument struct {
	Info    *MatchInfo `json:"info" validate:"required"`
	Innings []Innings  `json:"innings" validate:"required,dive"`
}

// MatchInfo holds the match-level metadata every delivery row is denormalized with
type MatchInfo struct {
	MatchTypeNumber *int     `json:"match_type_number" validate:"required"`
	Teams           []string `json:"teams" validate:"len=2"`
	Venue           *string  `json:"venue" validate:"required"`
	Dates           []string `json:"dates" validate:"min=1"`
	Outcome         *Outcome `json:"outcome,omitempty"`
}

// Outcome is the result block of a match. Winner is absent for draws,
// ties and no-results.
type Outcome struct {
	Winner *string `json:"winner,omitempty"`
}

// Innings is one team's batting turn
type Innings struct {
	Team  *string `json:"team" validate:"required"`
	Overs []Over  `json:"overs" validate:"required,dive"`
}

// Over groups the deliveries of one over. Deliveries are kept raw so that a
// single malformed delivery can be rejected without losing the whole over.
type Over struct {
	Over       *int              `json:"over" validate:"required"`
	Deliveries []json.RawMessage `json:"deliveries" validate:"required"`
}

// Delivery is one ball bowled
type Delivery struct {
	Batter     *string `json:"batter" validate:"required"`
	Bowler     *string `json:"bowler" validate:"required"`
	NonStriker *string `json:"non_striker" validate:"required"`
	Runs       *Runs   `json:"runs" validate:"required"`
	Extras     Extras  `json:"extras,omitempty"`
	Wicket     *Wicket `json:"wicket,omitempty"`
}

// Runs scored off a delivery
type Runs struct {
	Batter *int `json:"batter" validate:"required"`
	Extras *int `json:"extras,omitempty"`
	Total  *int `json:"total" validate:"required"`
}

// Wicket describes a dismissal
type Wicket struct {
	PlayerOut *string   `json:"player_out,omitempty"`
	Kind      *string   `json:"kind,omitempty"`
	Fielders  []Fielder `json:"fielders,omitempty" validate:"omitempty,dive"`
}

// Fielder is a fielder credited in a dismissal
type Fielder struct {
	Name *string `json:"name" validate:"required"`
}

// ExtraCount is one entry of a delivery's extras mapping. Only the kind is
// interpreted; the value is kept verbatim.
type ExtraCount struct {
	Kind  string
	Count json.RawMessage
}

// Extras is the extras mapping of a delivery (kind -> count) kept in
// document order.
type Extras []ExtraCount

// FirstKind returns the first extra kind in document order.
// Deliveries are expected to carry at most one kind; when several are
// present only the first one is reported.
func (e Extras) FirstKind() (string, bool) {
	if len(e) == 0 {
		return "", false
	}
	return e[0].Kind, true
}

// UnmarshalJSON decodes a JSON object while preserving key order
func (e *Extras) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*e = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("extras: expected object, got %v", tok)
	}

	out := Extras{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("extras: expected string key, got %v", keyTok)
		}
		var count json.RawMessage
		if err := dec.Decode(&count); err != nil {
			return fmt.Errorf("extras[%s]: %w", key, err)
		}
		out = append(out, ExtraCount{Kind: key, Count: count})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*e = out
	return nil
}

// MarshalJSON encodes the extras back into an object, keeping order
func (e Extras) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, ec := range e {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(ec.Kind)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if len(ec.Count) == 0 {
			buf.WriteString("null")
		} else {
			buf.Write(ec.Count)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
