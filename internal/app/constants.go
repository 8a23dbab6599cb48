package app

// DefaultTrainingRounds and DefaultTargetScore apply when the game config
// file is absent. Keep these centralized so tests and local runs can adjust
// the pacing without touching multiple call sites.
const (
	DefaultTrainingRounds = 10
	DefaultTargetScore    = 10
)
