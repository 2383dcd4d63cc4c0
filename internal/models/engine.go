package models

import "fmt"

// EngineID identifies a heuristic scoring engine
type EngineID string

const (
	EngineSharp    EngineID = "sharp"
	EngineHitRate  EngineID = "hitrate"
	EngineJuiced   EngineID = "juiced"
	EngineTrap     EngineID = "trap"
	EngineUpset    EngineID = "upset"
	EngineFatigue  EngineID = "fatigue"
	EngineBestBets EngineID = "best_bets"
	EngineCoaching EngineID = "coaching"
	EngineUsage    EngineID = "usage"
)

var allEngines = []EngineID{
	EngineSharp,
	EngineHitRate,
	EngineJuiced,
	EngineTrap,
	EngineUpset,
	EngineFatigue,
	EngineBestBets,
	EngineCoaching,
	EngineUsage,
}

// AllEngines returns every engine in canonical order. The returned slice is a copy.
func AllEngines() []EngineID {
	out := make([]EngineID, len(allEngines))
	copy(out, allEngines)
	return out
}

// Valid reports whether the engine is one of the known engines
func (e EngineID) Valid() bool {
	switch e {
	case EngineSharp, EngineHitRate, EngineJuiced, EngineTrap, EngineUpset,
		EngineFatigue, EngineBestBets, EngineCoaching, EngineUsage:
		return true
	default:
		return false
	}
}

// DisplayName returns the human readable engine name
func (e EngineID) DisplayName() string {
	switch e {
	case EngineSharp:
		return "Sharp Money"
	case EngineHitRate:
		return "PVS Hit Rate"
	case EngineJuiced:
		return "Juice Scanner"
	case EngineTrap:
		return "Trap Detector"
	case EngineUpset:
		return "God Mode Upset"
	case EngineFatigue:
		return "Fatigue"
	case EngineBestBets:
		return "Best Bets"
	case EngineCoaching:
		return "Coaching Edge"
	case EngineUsage:
		return "Usage Projection"
	default:
		return string(e)
	}
}

// ParseEngineID converts a raw string into an EngineID
func ParseEngineID(raw string) (EngineID, error) {
	e := EngineID(raw)
	if !e.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownEngine, raw)
	}
	return e, nil
}
