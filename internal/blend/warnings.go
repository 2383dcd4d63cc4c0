package blend

import (
	"fmt"
	"sort"
	"strings"
)

// WarningKind classifies a correlation warning
type WarningKind string

const (
	WarningSameGame            WarningKind = "same_game"
	WarningSamePlayer          WarningKind = "same_player"
	WarningSameTeam            WarningKind = "same_team"
	WarningConflictingOutcomes WarningKind = "conflicting_outcomes"
	WarningOther               WarningKind = "other"
)

// ParseWarningKind maps external warning types onto the known kinds
func ParseWarningKind(raw string) WarningKind {
	switch WarningKind(strings.ToLower(strings.TrimSpace(raw))) {
	case WarningSameGame:
		return WarningSameGame
	case WarningSamePlayer:
		return WarningSamePlayer
	case WarningSameTeam:
		return WarningSameTeam
	case WarningConflictingOutcomes:
		return WarningConflictingOutcomes
	default:
		return WarningOther
	}
}

// Warning flags a dependency between legs
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Message string      `json:"message"`
	Legs    []int       `json:"legs"`
}

func (w Warning) key() string {
	legs := append([]int(nil), w.Legs...)
	sort.Ints(legs)
	return fmt.Sprintf("%s:%v", w.Kind, legs)
}

// DetectWarnings finds same-game, same-player, same-team and conflicting legs
// from the leg descriptors alone.
func DetectWarnings(legs []LegInput) []Warning {
	var out []Warning

	groups := func(kind WarningKind, keyOf func(LegInput) string, message string) {
		indexed := make(map[string][]int)
		var order []string
		for i, leg := range legs {
			k := keyOf(leg)
			if k == "" {
				continue
			}
			if _, ok := indexed[k]; !ok {
				order = append(order, k)
			}
			indexed[k] = append(indexed[k], i)
		}
		for _, k := range order {
			if idx := indexed[k]; len(idx) > 1 {
				out = append(out, Warning{Kind: kind, Message: fmt.Sprintf(message, k), Legs: idx})
			}
		}
	}

	groups(WarningSameGame, func(l LegInput) string { return l.GameID }, "legs share game %s")
	groups(WarningSamePlayer, func(l LegInput) string { return l.Player }, "legs stack player %s")
	groups(WarningSameTeam, func(l LegInput) string {
		if l.Player != "" {
			return ""
		}
		return l.Team
	}, "legs share team %s")

	for i := 0; i < len(legs); i++ {
		for j := i + 1; j < len(legs); j++ {
			if conflicting(legs[i], legs[j]) {
				out = append(out, Warning{
					Kind:    WarningConflictingOutcomes,
					Message: fmt.Sprintf("legs %d and %d take opposite sides of the same market", i, j),
					Legs:    []int{i, j},
				})
			}
		}
	}

	return out
}

func conflicting(a, b LegInput) bool {
	if a.GameID == "" || a.GameID != b.GameID || a.BetType == "" || a.BetType != b.BetType {
		return false
	}
	if a.Player != b.Player {
		return false
	}
	sideA := strings.ToLower(strings.TrimSpace(a.Side))
	sideB := strings.ToLower(strings.TrimSpace(b.Side))
	return sideA != "" && sideB != "" && sideA != sideB
}

// mergeWarnings keeps the supplied warnings first and appends detected ones not already present
func mergeWarnings(supplied, detected []Warning) []Warning {
	seen := make(map[string]bool, len(supplied)+len(detected))
	out := make([]Warning, 0, len(supplied)+len(detected))
	for _, list := range [][]Warning{supplied, detected} {
		for _, w := range list {
			k := w.key()
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, w)
		}
	}
	return out
}
