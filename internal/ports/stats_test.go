package ports

import (
	"testing"

	"roshambo/internal/domain"
)

func TestPlayerStatsRecordOutcome(t *testing.T) {
	var s PlayerStats

	seq := []domain.Outcome{
		domain.OutcomeWin, domain.OutcomeWin, domain.OutcomeTie,
		domain.OutcomeWin, domain.OutcomeLose, domain.OutcomeWin,
	}
	for _, o := range seq {
		s.RecordOutcome(o)
	}

	if s.Rounds != 6 || s.Wins != 4 || s.Losses != 1 || s.Ties != 1 {
		t.Fatalf("record = %+v", s)
	}
	// Ties neither extend nor break a streak here; only losses reset it.
	if s.BestStreak != 3 {
		t.Fatalf("best streak = %d, want 3", s.BestStreak)
	}
	if s.CurrentStreak != 1 {
		t.Fatalf("current streak = %d, want 1", s.CurrentStreak)
	}
}

func TestPlayerStatsWinRatePermille(t *testing.T) {
	tests := []struct {
		name  string
		stats PlayerStats
		want  int64
	}{
		{name: "Empty", stats: PlayerStats{}, want: 0},
		{name: "Half", stats: PlayerStats{Rounds: 10, Wins: 5}, want: 500},
		{name: "All", stats: PlayerStats{Rounds: 4, Wins: 4}, want: 1000},
		{name: "Third", stats: PlayerStats{Rounds: 3, Wins: 1}, want: 333},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.stats.WinRatePermille(); got != tc.want {
				t.Fatalf("got %d, want %d", got, tc.want)
			}
		})
	}
}
