package bot

import "roshambo/internal/bot/brain"

// DefaultTuning is the shipped engine configuration. The expert knobs trade
// reaction speed against noise sensitivity; the arena tool overrides single
// fields when sweeping.
var DefaultTuning = brain.Tuning{
	FrequencyWindow:  20,
	Alpha:            1,
	RecencyGamma:     0.85,
	PeriodMin:        2,
	PeriodMax:        5,
	PeriodWindow:     18,
	PeriodConfidence: 0.65,
	Eta:              1.6,
	MinHistory:       5,
	HeuristicFloor:   0.34,
	NormalLambda:     2.0,
	RuthlessLambda:   4.0,
	ExploreEpsilon:   0.05,
}
