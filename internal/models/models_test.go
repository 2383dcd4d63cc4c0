package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllEnginesAreValidAndNamed(t *testing.T) {
	engines := AllEngines()
	require.Len(t, engines, 9)
	for _, e := range engines {
		assert.True(t, e.Valid(), "engine %s should be valid", e)
		assert.NotEqual(t, string(e), e.DisplayName(), "engine %s needs a display name", e)
	}
	assert.False(t, EngineID("astrology").Valid())
}

func TestAllEnginesReturnsCopy(t *testing.T) {
	engines := AllEngines()
	engines[0] = "mutated"
	assert.Equal(t, EngineSharp, AllEngines()[0])
}

func TestParseEngineID(t *testing.T) {
	e, err := ParseEngineID("fatigue")
	require.NoError(t, err)
	assert.Equal(t, EngineFatigue, e)

	_, err = ParseEngineID("bogus")
	assert.ErrorIs(t, err, ErrUnknownEngine)
}

func TestOptionalJSON(t *testing.T) {
	var analysis LegAnalysis
	err := json.Unmarshal([]byte(`{"hit_rate_percent": 0, "trap_score": null}`), &analysis)
	require.NoError(t, err)

	v, ok := analysis.HitRatePercent.Get()
	assert.True(t, ok, "zero must be distinguished from absent")
	assert.Equal(t, 0.0, v)
	assert.False(t, analysis.TrapScore.IsPresent())
	assert.False(t, analysis.FatigueScore.IsPresent())

	data, err := json.Marshal(analysis)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"hit_rate_percent":0`)
	assert.Contains(t, string(data), `"trap_score":null`)
}

func TestOptionalOrElse(t *testing.T) {
	assert.Equal(t, 3.0, None[float64]().OrElse(3))
	assert.Equal(t, 1.0, Some(1.0).OrElse(3))
}

func TestSignalDirection(t *testing.T) {
	assert.Equal(t, 1.0, SignalAgree.Direction())
	assert.Equal(t, -1.0, SignalDisagree.Direction())
	assert.Equal(t, 0.0, SignalNeutral.Direction())
	assert.False(t, Signal{Status: SignalNoData}.HasData())
	assert.True(t, Signal{Status: SignalNeutral}.HasData())
}

func TestOutcomeFilterMatches(t *testing.T) {
	now := time.Now()
	row := HistoricalOutcome{Engine: EngineSharp, Sport: "nba", BetType: "player_prop", Timestamp: now}

	assert.True(t, OutcomeFilter{}.Matches(row))
	assert.True(t, OutcomeFilter{Engine: EngineSharp, Sport: "nba"}.Matches(row))
	assert.False(t, OutcomeFilter{Sport: "nfl"}.Matches(row))
	assert.False(t, OutcomeFilter{Since: now.Add(time.Hour)}.Matches(row))
}

func TestHistoricalOutcomeValidate(t *testing.T) {
	ok := HistoricalOutcome{PredictedProbability: 0.6, Engine: EngineTrap}
	assert.NoError(t, ok.Validate())

	bad := ok
	bad.PredictedProbability = 1.2
	assert.ErrorIs(t, bad.Validate(), ErrInvalidOutcome)

	bad = ok
	bad.Engine = "astrology"
	err := bad.Validate()
	assert.ErrorIs(t, err, ErrInvalidOutcome)
	assert.ErrorIs(t, err, ErrUnknownEngine)
}
