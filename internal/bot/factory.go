package bot

import "roshambo/internal/bot/brain"

// Level aliases the engine's aggression scale so callers outside the brain
// package never import it directly.
type Level = brain.Aggression

const (
	LevelFair     = brain.AggressionFair
	LevelNormal   = brain.AggressionNormal
	LevelRuthless = brain.AggressionRuthless
)

// ParseLevel maps an identity/config difficulty string to a Level.
func ParseLevel(s string) (Level, error) {
	return brain.ParseAggression(s)
}

// NewBrain creates an adaptive opponent at the given level. The seed fixes
// every random draw the opponent will ever make; two brains built with the
// same level and seed play identically against identical histories.
func NewBrain(level Level, seed uint64) Brain {
	return &EngineBot{
		level:  level,
		engine: brain.NewEngine(DefaultTuning),
		rng:    brain.NewRand(seed),
	}
}
