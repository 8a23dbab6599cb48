package brain

import "roshambo/internal/domain"

// patternBias is the probability of trusting the pattern detector when both
// it and a confident Markov signal exist but disagree. The 60/40 split is a
// feel tunable, not a domain law; the randomized tie-break keeps the bot
// itself from becoming predictable.
const patternBias = 0.6

// Prediction is the fallback predictor's output. OK is false when neither
// sub-signal fired.
type Prediction struct {
	Move       domain.Move
	Confidence float64
	Reason     string
	OK         bool
}

// markovNext builds a first-order transition matrix over the full player
// history and predicts from the row of the last move. Confidence is the
// share of the row held by the best transition; ok is false when the player
// has fewer than 2 moves or the last move never recurred.
func markovNext(moves []domain.Move) (domain.Move, float64, bool) {
	if len(moves) < 2 {
		return 0, 0, false
	}

	var transitions [domain.NumMoves][domain.NumMoves]int
	for i := 1; i < len(moves); i++ {
		transitions[moves[i-1]][moves[i]]++
	}

	row := transitions[moves[len(moves)-1]]
	rowTotal := 0
	best := domain.Move(0)
	for m, c := range row {
		rowTotal += c
		if c > row[best] {
			best = domain.Move(m)
		}
	}
	if rowTotal == 0 {
		return 0, 0, false
	}
	return best, float64(row[best]) / float64(rowTotal), true
}

// patternNext checks explicit short patterns in priority order: an immediate
// triple repeat, a repeating 3-move block, then a 2-step alternation.
func patternNext(moves []domain.Move) (domain.Move, bool) {
	n := len(moves)

	// Triple repeat: expect it to continue.
	if n >= 3 && moves[n-1] == moves[n-2] && moves[n-2] == moves[n-3] {
		return moves[n-1], true
	}

	// Repeating 3-move block: [n-6,n-3) == [n-3,n).
	if n >= 6 &&
		moves[n-6] == moves[n-3] &&
		moves[n-5] == moves[n-2] &&
		moves[n-4] == moves[n-1] {
		return moves[n-3], true
	}

	// Alternation a,b,a,b: expect a next.
	if n >= 4 &&
		moves[n-4] == moves[n-2] &&
		moves[n-3] == moves[n-1] &&
		moves[n-2] != moves[n-1] {
		return moves[n-2], true
	}

	return 0, false
}

// PredictNext combines the Markov and pattern sub-signals into a single
// fallback prediction.
func PredictNext(moves []domain.Move, rng *Rand) Prediction {
	markovMove, markovConf, markovOK := markovNext(moves)
	patternMove, patternOK := patternNext(moves)

	switch {
	case markovOK && patternOK && markovMove == patternMove:
		conf := markovConf
		if conf < 0.8 {
			conf = 0.8
		}
		return Prediction{Move: markovMove, Confidence: conf, Reason: "Markov and pattern consensus", OK: true}

	case patternOK && markovOK && markovConf < 0.6:
		return Prediction{Move: patternMove, Confidence: 0.75, Reason: "Pattern over weak Markov", OK: true}

	case patternOK && markovOK:
		// Confident Markov disagrees with an explicit pattern.
		move := markovMove
		reason := "Markov over pattern"
		if rng.Float64() < patternBias {
			move = patternMove
			reason = "Pattern over Markov"
		}
		return Prediction{Move: move, Confidence: 0.7, Reason: reason, OK: true}

	case markovOK:
		return Prediction{Move: markovMove, Confidence: markovConf * 0.65, Reason: "Markov transition", OK: true}

	case patternOK:
		return Prediction{Move: patternMove, Confidence: 0.6, Reason: "Explicit pattern", OK: true}
	}

	return Prediction{Reason: "Insufficient signal"}
}
