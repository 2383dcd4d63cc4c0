package models

// SignalStatus is the directional verdict of one engine for one leg
type SignalStatus string

const (
	SignalAgree    SignalStatus = "agree"
	SignalDisagree SignalStatus = "disagree"
	SignalNeutral  SignalStatus = "neutral"
	SignalNoData   SignalStatus = "no_data"
)

// Direction maps the status to +1, -1 or 0. no_data also maps to 0 but
// callers must exclude it from weighting via HasData.
func (s SignalStatus) Direction() float64 {
	switch s {
	case SignalAgree:
		return 1
	case SignalDisagree:
		return -1
	default:
		return 0
	}
}

// Signal is one engine's judgement of a leg
type Signal struct {
	Engine     EngineID          `json:"engine"`
	Value      Optional[float64] `json:"value"`
	Confidence Optional[float64] `json:"confidence"`
	Status     SignalStatus      `json:"status"`
	Reason     string            `json:"reason"`
}

// HasData reports whether the engine returned anything for the leg
func (s Signal) HasData() bool {
	return s.Status != SignalNoData
}
