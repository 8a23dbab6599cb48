package app

import (
	"roshambo/internal/bot/brain"
	"roshambo/internal/domain"
)

// EventKind identifies emitted domain events for Nakama dispatch.
type EventKind string

const (
	EventPlayerJoined  EventKind = "player_joined"
	EventPlayerLeft    EventKind = "player_left"
	EventMatchStarted  EventKind = "match_started"
	EventRoundResolved EventKind = "round_resolved"
	EventTrainingReset EventKind = "training_reset"
	EventMatchEnded    EventKind = "match_ended"
)

// Event is an app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type PlayerJoinedPayload struct {
	UserID string `json:"user_id"`
	Owner  bool   `json:"owner"`
}

type PlayerLeftPayload struct {
	UserID string `json:"user_id"`
}

type MatchStartedPayload struct {
	PlayerID       string `json:"player_id"`
	BotID          string `json:"bot_id"`
	TrainingRounds int    `json:"training_rounds"`
}

// RoundResolvedPayload carries the full explanation trace alongside the
// result so clients can render why the bot moved the way it did.
type RoundResolvedPayload struct {
	Round      int            `json:"round"`
	PlayerMove domain.Move    `json:"player_move"`
	BotMove    domain.Move    `json:"bot_move"`
	Outcome    domain.Outcome `json:"outcome"`
	Score      domain.Score   `json:"score"`
	Training   bool           `json:"training"`
	Trace      *brain.Trace   `json:"trace,omitempty"`
}

type TrainingResetPayload struct {
	TrainingRounds int `json:"training_rounds"`
}

type MatchEndedPayload struct {
	WinnerID string       `json:"winner_id"`
	Rounds   int          `json:"rounds"`
	Score    domain.Score `json:"score"`
}
