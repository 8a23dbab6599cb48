package ports

import (
	"context"

	"roshambo/internal/domain"
)

// PlayerStats is the per-player aggregate match record.
type PlayerStats struct {
	UserID        string `json:"user_id"`
	Rounds        int    `json:"rounds"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	Ties          int    `json:"ties"`
	CurrentStreak int    `json:"current_streak"`
	BestStreak    int    `json:"best_streak"`
}

// RecordOutcome folds one round outcome into the record.
func (s *PlayerStats) RecordOutcome(o domain.Outcome) {
	s.Rounds++
	switch o {
	case domain.OutcomeWin:
		s.Wins++
		s.CurrentStreak++
		if s.CurrentStreak > s.BestStreak {
			s.BestStreak = s.CurrentStreak
		}
	case domain.OutcomeLose:
		s.Losses++
		s.CurrentStreak = 0
	default:
		s.Ties++
	}
}

// WinRatePermille returns wins per thousand rounds, the integer form
// leaderboards score on. Zero rounds scores zero.
func (s PlayerStats) WinRatePermille() int64 {
	if s.Rounds == 0 {
		return 0
	}
	return int64(s.Wins * 1000 / s.Rounds)
}

// StatsPort reads and writes per-player aggregate records.
type StatsPort interface {
	// GetStats returns the player's record, zero-valued when none exists.
	GetStats(ctx context.Context, userID string) (PlayerStats, error)

	// SaveStats overwrites the player's record.
	SaveStats(ctx context.Context, stats PlayerStats) error
}

// LeaderboardPort submits per-player scores to a ranked board.
type LeaderboardPort interface {
	// SubmitWinRate records the player's win rate and round volume.
	SubmitWinRate(ctx context.Context, userID, username string, stats PlayerStats) error
}
