package domain

import (
	"encoding/json"
	"fmt"
)

// Move is one of the three throws in a round.
type Move int

const (
	Rock Move = iota
	Paper
	Scissors
)

// NumMoves is the size of the closed move set.
const NumMoves = 3

var moveNames = [NumMoves]string{"rock", "paper", "scissors"}

func (m Move) String() string {
	if m < 0 || m >= NumMoves {
		return "unknown"
	}
	return moveNames[m]
}

// ParseMove maps a wire name back to a Move.
func ParseMove(s string) (Move, bool) {
	for i, name := range moveNames {
		if name == s {
			return Move(i), true
		}
	}
	return Rock, false
}

// MarshalJSON writes the move as its wire name.
func (m Move) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON reads a move from its wire name.
func (m *Move) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, ok := ParseMove(s)
	if !ok {
		return fmt.Errorf("unknown move: %q", s)
	}
	*m = parsed
	return nil
}

// Counter returns the move that beats m.
func (m Move) Counter() Move {
	return (m + 1) % NumMoves
}

// Beats reports whether m beats other under the cyclic dominance relation.
func (m Move) Beats(other Move) bool {
	return m == other.Counter()
}

// Outcome is the result of a round from the human player's perspective.
type Outcome int

const (
	OutcomeTie Outcome = iota
	OutcomeWin
	OutcomeLose
)

var outcomeNames = [3]string{"tie", "win", "lose"}

func (o Outcome) String() string {
	if o < 0 || o > OutcomeLose {
		return "unknown"
	}
	return outcomeNames[o]
}

// MarshalJSON writes the outcome as its wire name.
func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// UnmarshalJSON reads an outcome from its wire name.
func (o *Outcome) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for i, name := range outcomeNames {
		if name == s {
			*o = Outcome(i)
			return nil
		}
	}
	return fmt.Errorf("unknown outcome: %q", s)
}

// Resolve returns the round outcome for the player. Equal moves tie;
// otherwise the fixed cyclic relation decides.
func Resolve(player, bot Move) Outcome {
	if player == bot {
		return OutcomeTie
	}
	if player.Beats(bot) {
		return OutcomeWin
	}
	return OutcomeLose
}
