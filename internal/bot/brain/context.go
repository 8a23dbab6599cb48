package brain

import "roshambo/internal/domain"

// Context is the read-only view of match history handed to every predictor,
// plus the injected randomness source. The three slices are parallel: entry
// i describes round i. Callers must not mutate the slices between a Decide
// and its matching Commit.
type Context struct {
	PlayerMoves []domain.Move
	BotMoves    []domain.Move
	Outcomes    []domain.Outcome
	Rand        *Rand
}

// Len returns the number of completed rounds visible to predictors.
func (c Context) Len() int {
	return len(c.PlayerMoves)
}
