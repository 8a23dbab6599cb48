package domain

// Phase represents the lifecycle stage of a match.
type Phase string

const (
	// PhaseLobby indicates the match is waiting for players.
	PhaseLobby Phase = "lobby"
	// PhasePlaying indicates the match is actively in progress.
	PhasePlaying Phase = "playing"
	// PhaseEnded indicates the match has finished.
	PhaseEnded Phase = "ended"
)

// Score tracks the running tally of a match from the player's perspective.
type Score struct {
	PlayerWins int `json:"player_wins"`
	BotWins    int `json:"bot_wins"`
	Ties       int `json:"ties"`
}

// Game captures the authoritative state for a single match instance.
// PlayerMoves, BotMoves and Outcomes are parallel append-only slices and
// always have equal length.
type Game struct {
	Phase Phase

	PlayerID string
	BotID    string

	PlayerMoves []Move
	BotMoves    []Move
	Outcomes    []Outcome

	Score Score
}

// NewGame returns a fresh game in the lobby phase.
func NewGame() *Game {
	return &Game{Phase: PhaseLobby}
}

// Round returns the number of completed rounds.
func (g *Game) Round() int {
	return len(g.PlayerMoves)
}

// AppendRound records a resolved round, keeping the history slices parallel
// and the score in sync.
func (g *Game) AppendRound(player, bot Move, outcome Outcome) {
	g.PlayerMoves = append(g.PlayerMoves, player)
	g.BotMoves = append(g.BotMoves, bot)
	g.Outcomes = append(g.Outcomes, outcome)

	switch outcome {
	case OutcomeWin:
		g.Score.PlayerWins++
	case OutcomeLose:
		g.Score.BotWins++
	default:
		g.Score.Ties++
	}
}

// Trained reports whether enough rounds have been played to leave the
// training window and let the opponent engine exploit its predictions.
func (g *Game) Trained(trainingRounds int) bool {
	return g.Round() >= trainingRounds
}

// ClearHistory resets the move history and score, keeping seat assignments.
// Used when a profile restarts its training cycle.
func (g *Game) ClearHistory() {
	g.PlayerMoves = nil
	g.BotMoves = nil
	g.Outcomes = nil
	g.Score = Score{}
}
