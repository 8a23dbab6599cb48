package bot

import (
	"roshambo/internal/bot/brain"
	"roshambo/internal/domain"
)

// Brain is the interface every opponent implementation exposes to the app
// layer. A round is a strict two-step exchange: DecideMove locks the bot's
// throw before the player reveals, CommitRound scores the reveal and returns
// the completed decision trace. CommitRound must run before the round is
// appended to the game history, so the learner scores the same context the
// decision saw.
type Brain interface {
	DecideMove(g *domain.Game, exploit bool) (domain.Move, *brain.Trace)
	CommitRound(g *domain.Game, playerMove domain.Move) *brain.Trace
	Reset()
	Level() Level
}
