package app

import (
	"errors"

	"roshambo/internal/bot"
	"roshambo/internal/domain"
)

// Service contains the match use-cases operating on domain state. It owns
// the two pacing rules the engine itself knows nothing about: how many
// rounds the opponent must stay in its training window, and the score that
// ends a match.
type Service struct {
	trainingRounds int
	targetScore    int
}

// NewService constructs a Service. A non-positive targetScore means matches
// never end on score and run until the host closes them.
func NewService(trainingRounds, targetScore int) *Service {
	return &Service{trainingRounds: trainingRounds, targetScore: targetScore}
}

var (
	ErrNotInLobby  = errors.New("match not in lobby")
	ErrNotPlaying  = errors.New("match not in playing phase")
	ErrMatchEnded  = errors.New("match already ended")
	ErrWrongPlayer = errors.New("actor is not the seated player")
)

// TrainingRounds returns the configured training window length.
func (s *Service) TrainingRounds() int {
	return s.trainingRounds
}

// StartMatch transitions a lobby game into play and emits the opening
// event. The bot stays in its fair training window for the first
// trainingRounds rounds regardless of its difficulty.
func (s *Service) StartMatch(g *domain.Game, playerID, botID string) ([]Event, error) {
	if g.Phase != domain.PhaseLobby {
		return nil, ErrNotInLobby
	}

	g.Phase = domain.PhasePlaying
	g.PlayerID = playerID
	g.BotID = botID

	return []Event{{
		Kind: EventMatchStarted,
		Payload: MatchStartedPayload{
			PlayerID:       playerID,
			BotID:          botID,
			TrainingRounds: s.trainingRounds,
		},
	}}, nil
}

// PlayRound runs one full round: the bot locks its throw, the player's move
// resolves against it, the learner commits, and the history advances. The
// order is load-bearing: CommitRound must see the history exactly as
// DecideMove saw it, so AppendRound runs last.
func (s *Service) PlayRound(g *domain.Game, agent *bot.Agent, actorID string, playerMove domain.Move) ([]Event, error) {
	if g.Phase == domain.PhaseEnded {
		return nil, ErrMatchEnded
	}
	if g.Phase != domain.PhasePlaying {
		return nil, ErrNotPlaying
	}
	if actorID != g.PlayerID {
		return nil, ErrWrongPlayer
	}

	exploit := g.Trained(s.trainingRounds)
	botMove, _ := agent.Brain.DecideMove(g, exploit)
	trace := agent.Brain.CommitRound(g, playerMove)

	outcome := domain.Resolve(playerMove, botMove)
	g.AppendRound(playerMove, botMove, outcome)

	events := []Event{{
		Kind: EventRoundResolved,
		Payload: RoundResolvedPayload{
			Round:      g.Round(),
			PlayerMove: playerMove,
			BotMove:    botMove,
			Outcome:    outcome,
			Score:      g.Score,
			Training:   !exploit,
			Trace:      trace,
		},
	}}

	if winner := s.winner(g); winner != "" {
		g.Phase = domain.PhaseEnded
		events = append(events, Event{
			Kind: EventMatchEnded,
			Payload: MatchEndedPayload{
				WinnerID: winner,
				Rounds:   g.Round(),
				Score:    g.Score,
			},
		})
	}

	return events, nil
}

// ResetTraining wipes both the game history and everything the opponent has
// learned, restarting the training window from round zero.
func (s *Service) ResetTraining(g *domain.Game, agent *bot.Agent) ([]Event, error) {
	if g.Phase != domain.PhasePlaying {
		return nil, ErrNotPlaying
	}

	agent.Brain.Reset()
	g.ClearHistory()

	return []Event{{
		Kind: EventTrainingReset,
		Payload: TrainingResetPayload{
			TrainingRounds: s.trainingRounds,
		},
	}}, nil
}

func (s *Service) winner(g *domain.Game) string {
	if s.targetScore <= 0 {
		return ""
	}
	switch {
	case g.Score.PlayerWins >= s.targetScore:
		return g.PlayerID
	case g.Score.BotWins >= s.targetScore:
		return g.BotID
	}
	return ""
}
