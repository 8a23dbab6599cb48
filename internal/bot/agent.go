package bot

import (
	"roshambo/internal/bot/brain"
	"roshambo/internal/domain"
)

// EngineBot drives the adaptive engine with a private random stream. It is
// the only Brain implementation; difficulty is purely a matter of the
// aggression level handed to the engine.
type EngineBot struct {
	level  Level
	engine *brain.Engine
	rng    *brain.Rand
}

func (b *EngineBot) context(g *domain.Game) brain.Context {
	return brain.Context{
		PlayerMoves: g.PlayerMoves,
		BotMoves:    g.BotMoves,
		Outcomes:    g.Outcomes,
		Rand:        b.rng,
	}
}

// DecideMove locks in the bot's throw for the upcoming round.
func (b *EngineBot) DecideMove(g *domain.Game, exploit bool) (domain.Move, *brain.Trace) {
	return b.engine.Decide(b.context(g), b.level, exploit)
}

// CommitRound reveals the player's move to the learner and returns the
// finished trace. The game must not yet contain the round being committed.
func (b *EngineBot) CommitRound(g *domain.Game, playerMove domain.Move) *brain.Trace {
	return b.engine.Commit(b.context(g), playerMove)
}

// Reset discards everything the engine learned, keeping the random stream so
// replays stay reproducible across a reset boundary.
func (b *EngineBot) Reset() {
	b.engine = brain.NewEngine(DefaultTuning)
}

// Level returns the aggression level this bot was built with.
func (b *EngineBot) Level() Level {
	return b.level
}

// Agent binds a provisioned bot identity to a live brain inside a match.
type Agent struct {
	ID    string
	Name  string
	Brain Brain
}

// NewAgent builds an agent for the given identity, seeding the brain from
// the match seed so concurrent matches with different seeds diverge.
func NewAgent(identity BotIdentity, seed uint64) *Agent {
	level, err := ParseLevel(identity.Difficulty)
	if err != nil {
		level = LevelNormal
	}
	return &Agent{
		ID:    identity.UserID,
		Name:  identity.DisplayName,
		Brain: NewBrain(level, seed),
	}
}
