package dataprocessing

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "bbbcli/internal/errors"
	"bbbcli/internal/shared/testutil"
	"bbbcli/pkg/contracts/domain"
)

func strPtr(s string) *string { return &s }

func testMatch() *domain.MatchContext {
	return &domain.MatchContext{
		MatchID: 1001,
		Team1:   "X",
		Team2:   "Y",
		Venue:   "Lord's",
		RawDate: "2023-06-01",
		Winner:  strPtr("X"),
	}
}

func decodeDelivery(t *testing.T, raw string) domain.Delivery {
	t.Helper()
	var d domain.Delivery
	require.NoError(t, json.Unmarshal([]byte(raw), &d))
	return d
}

func TestFlatten_SimpleDelivery(t *testing.T) {
	match := testMatch()
	d := decodeDelivery(t, `{"batter":"A","bowler":"B","non_striker":"C","runs":{"batter":4,"total":4}}`)

	row, err := Flatten(d, match, Position{Innings: 1, BattingTeam: "X", Over: 0, Ball: 1})
	require.NoError(t, err)

	assert.Same(t, match, row.MatchContext)
	assert.Equal(t, 1001, row.MatchID)
	assert.Equal(t, 1, row.Innings)
	assert.Equal(t, "X", row.BattingTeam)
	assert.Equal(t, 0, row.OverNumber)
	assert.Equal(t, "A", row.Batter)
	assert.Equal(t, "B", row.Bowler)
	assert.Equal(t, "C", row.NonStriker)
	assert.Equal(t, 4, row.RunsBatter)
	assert.Equal(t, 0, row.RunsExtras)
	assert.Equal(t, 4, row.RunsTotal)
	assert.Nil(t, row.ExtrasType)
	assert.Nil(t, row.PlayerOut)
	assert.Nil(t, row.DismissalKind)
	assert.Nil(t, row.Fielders)
	assert.False(t, row.IsWicket())
}

func TestFlatten_OptionalFields(t *testing.T) {
	tests := []struct {
		name          string
		raw           string
		wantExtras    int
		wantType      *string
		wantPlayerOut *string
		wantKind      *string
		wantFielders  *string
	}{
		{
			name:       "single extra kind",
			raw:        `{"batter":"A","bowler":"B","non_striker":"C","runs":{"batter":0,"extras":1,"total":1},"extras":{"wides":1}}`,
			wantExtras: 1,
			wantType:   strPtr("wides"),
		},
		{
			name:       "several extra kinds report the first in document order",
			raw:        `{"batter":"A","bowler":"B","non_striker":"C","runs":{"batter":0,"extras":2,"total":2},"extras":{"noballs":1,"legbyes":1}}`,
			wantExtras: 2,
			wantType:   strPtr("noballs"),
		},
		{
			name:       "document order wins over alphabetical order",
			raw:        `{"batter":"A","bowler":"B","non_striker":"C","runs":{"batter":0,"extras":2,"total":2},"extras":{"wides":1,"byes":1}}`,
			wantExtras: 2,
			wantType:   strPtr("wides"),
		},
		{
			name:       "non-integer extras value keeps the delivery",
			raw:        `{"batter":"A","bowler":"B","non_striker":"C","runs":{"batter":0,"extras":1,"total":1},"extras":{"legbyes":1.0}}`,
			wantExtras: 1,
			wantType:   strPtr("legbyes"),
		},
		{
			name: "empty extras mapping",
			raw:  `{"batter":"A","bowler":"B","non_striker":"C","runs":{"batter":1,"total":1},"extras":{}}`,
		},
		{
			name:          "wicket with two fielders",
			raw:           `{"batter":"A","bowler":"B","non_striker":"C","runs":{"batter":0,"total":0},"wicket":{"player_out":"A","kind":"run out","fielders":[{"name":"X"},{"name":"Y"}]}}`,
			wantPlayerOut: strPtr("A"),
			wantKind:      strPtr("run out"),
			wantFielders:  strPtr("X,Y"),
		},
		{
			name:          "wicket without fielders",
			raw:           `{"batter":"A","bowler":"B","non_striker":"C","runs":{"batter":0,"total":0},"wicket":{"player_out":"A","kind":"bowled"}}`,
			wantPlayerOut: strPtr("A"),
			wantKind:      strPtr("bowled"),
		},
		{
			name:          "wicket with empty fielders list",
			raw:           `{"batter":"A","bowler":"B","non_striker":"C","runs":{"batter":0,"total":0},"wicket":{"player_out":"A","kind":"caught","fielders":[]}}`,
			wantPlayerOut: strPtr("A"),
			wantKind:      strPtr("caught"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, err := Flatten(decodeDelivery(t, tt.raw), testMatch(), Position{Innings: 2, BattingTeam: "Y", Over: 7, Ball: 3})
			require.NoError(t, err)

			assert.Equal(t, tt.wantExtras, row.RunsExtras)
			assert.Equal(t, tt.wantType, row.ExtrasType)
			assert.Equal(t, tt.wantPlayerOut, row.PlayerOut)
			assert.Equal(t, tt.wantKind, row.DismissalKind)
			assert.Equal(t, tt.wantFielders, row.Fielders)
		})
	}
}

func TestFlatten_MissingRequired(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantMissing []string
	}{
		{"batter", `{"bowler":"B","non_striker":"C","runs":{"batter":0,"total":0}}`, []string{"batter"}},
		{"bowler", `{"batter":"A","non_striker":"C","runs":{"batter":0,"total":0}}`, []string{"bowler"}},
		{"non striker", `{"batter":"A","bowler":"B","runs":{"batter":0,"total":0}}`, []string{"non_striker"}},
		{"runs", `{"batter":"A","bowler":"B","non_striker":"C"}`, []string{"runs"}},
		{"runs.batter", `{"batter":"A","bowler":"B","non_striker":"C","runs":{"total":0}}`, []string{"runs.batter"}},
		{"runs.total", `{"batter":"A","bowler":"B","non_striker":"C","runs":{"batter":0}}`, []string{"runs.total"}},
		{"fielder name", `{"batter":"A","bowler":"B","non_striker":"C","runs":{"batter":0,"total":0},"wicket":{"player_out":"A","kind":"caught","fielders":[{"name":"X"},{}]}}`, []string{"wicket.fielders[1].name"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := Position{Innings: 1, BattingTeam: "X", Over: 3, Ball: 2}
			_, err := Flatten(decodeDelivery(t, tt.raw), testMatch(), pos)

			var exErr *ExtractionError
			require.ErrorAs(t, err, &exErr)
			assert.Equal(t, tt.wantMissing, exErr.Missing)
			assert.Equal(t, 1001, exErr.MatchID)
			assert.Equal(t, pos, exErr.Pos)
		})
	}
}

func TestDeliveryExtractor_Extract(t *testing.T) {
	t.Run("valid delivery is not logged", func(t *testing.T) {
		logger, logs := testutil.NewTestLogger(t)
		x := NewDeliveryExtractor(logger)

		raw := json.RawMessage(`{"batter":"A","bowler":"B","non_striker":"C","runs":{"batter":6,"total":6}}`)
		row, err := x.Extract(context.Background(), "1001.json", raw, testMatch(), Position{Innings: 1, BattingTeam: "X", Ball: 1})

		require.NoError(t, err)
		assert.Equal(t, 6, row.RunsTotal)
		assert.Equal(t, 0, logs.Count())
	})

	t.Run("missing field is logged once with context", func(t *testing.T) {
		logger, logs := testutil.NewTestLogger(t)
		x := NewDeliveryExtractor(logger)

		raw := json.RawMessage(`{"bowler":"B","non_striker":"C","runs":{"batter":0,"total":0}}`)
		_, err := x.Extract(context.Background(), "1001.json", raw, testMatch(), Position{Innings: 2, BattingTeam: "Y", Over: 4, Ball: 5})

		var exErr *ExtractionError
		require.ErrorAs(t, err, &exErr)
		assert.Equal(t, "1001.json", exErr.Source)
		assert.JSONEq(t, string(raw), string(exErr.Raw))

		records := logs.FindByMessage("Dropping malformed delivery")
		require.Len(t, records, 1)
		assert.Equal(t, slog.LevelWarn, records[0].Level)
		assert.Equal(t, "delivery_extractor", records[0].Attrs["component"])
		assert.Equal(t, int64(1001), records[0].Attrs["match_id"])
		assert.Equal(t, int64(2), records[0].Attrs["innings"])
		assert.Equal(t, int64(4), records[0].Attrs["over"])
		assert.Equal(t, int64(5), records[0].Attrs["ball"])
		assert.Equal(t, "batter", records[0].Attrs["missing"])
		assert.Equal(t, string(raw), records[0].Attrs["delivery"])
	})

	t.Run("wrongly typed field", func(t *testing.T) {
		logger, logs := testutil.NewTestLogger(t)
		x := NewDeliveryExtractor(logger)

		raw := json.RawMessage(`{"batter":"A","bowler":"B","non_striker":"C","runs":{"batter":"four","total":4}}`)
		_, err := x.Extract(context.Background(), "1001.json", raw, testMatch(), Position{Innings: 1})

		var exErr *ExtractionError
		require.ErrorAs(t, err, &exErr)
		assert.Empty(t, exErr.Missing)

		var typeErr *json.UnmarshalTypeError
		assert.True(t, errors.As(err, &typeErr))
		assert.True(t, logs.ContainsMessage("Dropping malformed delivery"))
	})

	t.Run("app error conversion", func(t *testing.T) {
		_, err := NewDeliveryExtractor(nil).Extract(context.Background(), "1001.json", json.RawMessage(`{}`), testMatch(), Position{Innings: 1})

		var exErr *ExtractionError
		require.ErrorAs(t, err, &exErr)
		appErr := exErr.AppError()
		assert.Equal(t, apperrors.ErrTypeExtraction, appErr.Type)
		assert.Equal(t, 1001, appErr.Context["match_id"])
		assert.Equal(t, "1001.json", appErr.Context["source"])
	})
}
