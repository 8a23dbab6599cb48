package domain

import "testing"

func TestGameAppendRound(t *testing.T) {
	g := NewGame()
	g.Phase = PhasePlaying

	g.AppendRound(Rock, Scissors, Resolve(Rock, Scissors))
	g.AppendRound(Paper, Paper, Resolve(Paper, Paper))
	g.AppendRound(Rock, Paper, Resolve(Rock, Paper))

	if g.Round() != 3 {
		t.Fatalf("Round() = %d, want 3", g.Round())
	}
	if len(g.PlayerMoves) != len(g.BotMoves) || len(g.BotMoves) != len(g.Outcomes) {
		t.Fatal("history slices are not parallel")
	}

	want := Score{PlayerWins: 1, BotWins: 1, Ties: 1}
	if g.Score != want {
		t.Fatalf("Score = %+v, want %+v", g.Score, want)
	}
}

func TestGameTrained(t *testing.T) {
	g := NewGame()
	if g.Trained(3) {
		t.Error("fresh game should not be trained")
	}
	for i := 0; i < 3; i++ {
		g.AppendRound(Rock, Rock, OutcomeTie)
	}
	if !g.Trained(3) {
		t.Error("game with 3 rounds should be trained for trainingRounds=3")
	}
}

func TestGameClearHistory(t *testing.T) {
	g := NewGame()
	g.PlayerID = "user-1"
	g.AppendRound(Rock, Paper, OutcomeLose)
	g.ClearHistory()

	if g.Round() != 0 {
		t.Errorf("Round() = %d after clear, want 0", g.Round())
	}
	if g.Score != (Score{}) {
		t.Errorf("Score = %+v after clear, want zero", g.Score)
	}
	if g.PlayerID != "user-1" {
		t.Error("ClearHistory should keep seat assignments")
	}
}
