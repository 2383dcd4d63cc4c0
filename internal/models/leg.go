package models

import (
	"strings"

	"github.com/google/uuid"
)

// Leg represents one wager inside a parlay
type Leg struct {
	ID                 uuid.UUID         `json:"id"`
	Description        string            `json:"description"`
	Sport              string            `json:"sport" validate:"required"`
	BetType            string            `json:"bet_type" validate:"required"`
	Side               string            `json:"side" validate:"required"`
	GameID             string            `json:"game_id"`
	Team               string            `json:"team"`
	Player             string            `json:"player"`
	AmericanOdds       int               `json:"american_odds" validate:"required,ne=0"`
	ImpliedProbability Optional[float64] `json:"implied_probability"`
	Analysis           LegAnalysis       `json:"analysis"`
}

// LegAnalysis carries the sparse per-engine analysis fields for a leg.
// Every field is optional; an absent field means the engine produced nothing.
type LegAnalysis struct {
	SharpRecommendation Optional[string]  `json:"sharp_recommendation"`
	SharpConfidence     Optional[float64] `json:"sharp_confidence"`
	HitRatePercent      Optional[float64] `json:"hit_rate_percent"`
	JuiceScore          Optional[float64] `json:"juice_score"`
	TrapScore           Optional[float64] `json:"trap_score"`
	UpsetScore          Optional[float64] `json:"upset_score"`
	FatigueScore        Optional[float64] `json:"fatigue_score"`
	BestBetsScore       Optional[float64] `json:"best_bets_score"`
	CoachingScore       Optional[float64] `json:"coaching_score"`
	UsageProjection     Optional[float64] `json:"usage_projection"`
	AIProbability       Optional[float64] `json:"ai_probability"`
}

// NormalizedSide returns the bet side lower-cased and trimmed
func (l Leg) NormalizedSide() string {
	return strings.ToLower(strings.TrimSpace(l.Side))
}

// Parlay is an ordered set of legs that must all win
type Parlay struct {
	ID   uuid.UUID `json:"id"`
	Legs []Leg     `json:"legs" validate:"required,min=1,dive"`
}
