package brain

import (
	"fmt"
	"math"

	"roshambo/internal/domain"
)

// probEpsilon floors probabilities before the log transform.
const probEpsilon = 1e-6

// Aggression controls how sharply the bot exploits its predicted
// distribution.
type Aggression int

const (
	// AggressionFair ignores the prediction entirely and plays uniformly at
	// random. Used during mandatory training windows.
	AggressionFair Aggression = iota
	// AggressionNormal exploits with moderate sharpening and a small
	// exploration chance so the bot never feels robotic.
	AggressionNormal
	// AggressionRuthless exploits maximally with no exploration.
	AggressionRuthless
)

var aggressionNames = [3]string{"fair", "normal", "ruthless"}

func (a Aggression) String() string {
	if a < 0 || a > AggressionRuthless {
		return "unknown"
	}
	return aggressionNames[a]
}

// ParseAggression maps a config/identity string to an Aggression level.
func ParseAggression(s string) (Aggression, error) {
	for i, name := range aggressionNames {
		if name == s {
			return Aggression(i), nil
		}
	}
	return AggressionFair, fmt.Errorf("unknown aggression level: %q", s)
}

// ChooseCounter turns a predicted player distribution into a concrete bot
// move. Fair play draws uniformly; normal and ruthless sharpen the
// distribution with a temperature transform, take the argmax as the likely
// player move, and return its fixed counter. Normal additionally substitutes
// a uniformly random move with a small exploration probability.
func ChooseCounter(dist Distribution, level Aggression, rng *Rand, t Tuning) domain.Move {
	if level == AggressionFair {
		return domain.Move(rng.Intn(domain.NumMoves))
	}

	lambda := t.NormalLambda
	if level == AggressionRuthless {
		lambda = t.RuthlessLambda
	}

	var sharpened Distribution
	for m, p := range dist {
		sharpened[m] = math.Exp(math.Log(math.Max(probEpsilon, p)) * lambda)
	}
	guess := sharpened.Normalized().ArgMax()

	if level == AggressionNormal && rng.Float64() < t.ExploreEpsilon {
		return domain.Move(rng.Intn(domain.NumMoves))
	}
	return guess.Counter()
}
