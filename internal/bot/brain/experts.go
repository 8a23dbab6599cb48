package brain

import (
	"strconv"
	"strings"

	"roshambo/internal/domain"
)

// Expert is an independent pattern detector over the player's move history.
// Predict must not mutate expert state; Update advances whatever internal
// tables the expert keeps, given the context that produced the most recent
// prediction and the move the player actually revealed.
type Expert interface {
	Name() string
	Predict(ctx Context) Distribution
	Update(ctx Context, actual domain.Move)
}

// smoothed converts raw per-move scores into a distribution via add-alpha
// (Laplace) smoothing.
func smoothed(counts [domain.NumMoves]float64, alpha float64) Distribution {
	total := 0.0
	for _, c := range counts {
		total += c
	}
	var d Distribution
	denom := total + domain.NumMoves*alpha
	for i, c := range counts {
		d[i] = (c + alpha) / denom
	}
	return d
}

// FrequencyExpert predicts from raw move frequency over a trailing window.
// It keeps no state of its own; every call derives everything from the
// history slice.
type FrequencyExpert struct {
	Window int
	Alpha  float64
}

func (e *FrequencyExpert) Name() string { return "frequency" }

func (e *FrequencyExpert) Predict(ctx Context) Distribution {
	moves := ctx.PlayerMoves
	if len(moves) > e.Window {
		moves = moves[len(moves)-e.Window:]
	}
	var counts [domain.NumMoves]float64
	for _, m := range moves {
		counts[m]++
	}
	return smoothed(counts, e.Alpha)
}

func (e *FrequencyExpert) Update(Context, domain.Move) {}

// RecencyExpert is a frequency model with exponential decay over the full
// history: move i carries weight gamma^(n-1-i). Lower gamma biases harder
// toward the most recent rounds, catching gradual behavior drift that a
// hard window misses.
type RecencyExpert struct {
	Gamma float64
	Alpha float64
}

func (e *RecencyExpert) Name() string { return "recency" }

func (e *RecencyExpert) Predict(ctx Context) Distribution {
	n := len(ctx.PlayerMoves)
	var counts [domain.NumMoves]float64
	weight := 1.0
	for i := n - 1; i >= 0; i-- {
		counts[ctx.PlayerMoves[i]] += weight
		weight *= e.Gamma
	}
	return smoothed(counts, e.Alpha)
}

func (e *RecencyExpert) Update(Context, domain.Move) {}

// MarkovExpert keeps next-move counts keyed by the last Order player moves.
// Prediction backs off one order at a time when the requested key has never
// been seen, down to order 1, and returns uniform below that.
type MarkovExpert struct {
	Order int
	Alpha float64

	table map[string]*[domain.NumMoves]float64
}

// NewMarkovExpert returns a Markov expert of the given order.
func NewMarkovExpert(order int, alpha float64) *MarkovExpert {
	return &MarkovExpert{
		Order: order,
		Alpha: alpha,
		table: make(map[string]*[domain.NumMoves]float64),
	}
}

func (e *MarkovExpert) Name() string { return "markov" + strconv.Itoa(e.Order) }

func markovKey(moves []domain.Move, order int) string {
	var sb strings.Builder
	for _, m := range moves[len(moves)-order:] {
		sb.WriteByte(byte('0' + m))
	}
	return sb.String()
}

func (e *MarkovExpert) Predict(ctx Context) Distribution {
	moves := ctx.PlayerMoves
	for order := e.Order; order >= 1; order-- {
		if len(moves) < order {
			continue
		}
		if counts, ok := e.table[markovKey(moves, order)]; ok {
			return smoothed(*counts, e.Alpha)
		}
	}
	return Uniform()
}

func (e *MarkovExpert) Update(ctx Context, actual domain.Move) {
	moves := ctx.PlayerMoves
	if len(moves) < e.Order {
		return
	}
	key := markovKey(moves, e.Order)
	counts, ok := e.table[key]
	if !ok {
		counts = &[domain.NumMoves]float64{}
		e.table[key] = counts
	}
	counts[actual]++
}

// OutcomeExpert conditions purely on the most recent round outcome: "after a
// loss, what does this player throw next?"
type OutcomeExpert struct {
	Alpha float64

	counts map[domain.Outcome]*[domain.NumMoves]float64
}

// NewOutcomeExpert returns an outcome-conditioned expert.
func NewOutcomeExpert(alpha float64) *OutcomeExpert {
	return &OutcomeExpert{
		Alpha:  alpha,
		counts: make(map[domain.Outcome]*[domain.NumMoves]float64),
	}
}

func (e *OutcomeExpert) Name() string { return "outcome" }

func (e *OutcomeExpert) Predict(ctx Context) Distribution {
	n := len(ctx.Outcomes)
	if n == 0 {
		return Uniform()
	}
	counts, ok := e.counts[ctx.Outcomes[n-1]]
	if !ok {
		return Uniform()
	}
	return smoothed(*counts, e.Alpha)
}

func (e *OutcomeExpert) Update(ctx Context, actual domain.Move) {
	n := len(ctx.Outcomes)
	if n == 0 {
		return
	}
	last := ctx.Outcomes[n-1]
	counts, ok := e.counts[last]
	if !ok {
		counts = &[domain.NumMoves]float64{}
		e.counts[last] = counts
	}
	counts[actual]++
}

type wslsKey struct {
	outcome domain.Outcome
	move    domain.Move
}

// WinStayLoseShiftExpert models the classic behavioral bias by keying on the
// pair (last outcome, last player move).
type WinStayLoseShiftExpert struct {
	Alpha float64

	counts map[wslsKey]*[domain.NumMoves]float64
}

// NewWinStayLoseShiftExpert returns a win-stay/lose-shift expert.
func NewWinStayLoseShiftExpert(alpha float64) *WinStayLoseShiftExpert {
	return &WinStayLoseShiftExpert{
		Alpha:  alpha,
		counts: make(map[wslsKey]*[domain.NumMoves]float64),
	}
}

func (e *WinStayLoseShiftExpert) Name() string { return "win_stay_lose_shift" }

func (e *WinStayLoseShiftExpert) Predict(ctx Context) Distribution {
	n := ctx.Len()
	if n == 0 {
		return Uniform()
	}
	key := wslsKey{outcome: ctx.Outcomes[n-1], move: ctx.PlayerMoves[n-1]}
	counts, ok := e.counts[key]
	if !ok {
		return Uniform()
	}
	return smoothed(*counts, e.Alpha)
}

func (e *WinStayLoseShiftExpert) Update(ctx Context, actual domain.Move) {
	n := ctx.Len()
	if n == 0 {
		return
	}
	key := wslsKey{outcome: ctx.Outcomes[n-1], move: ctx.PlayerMoves[n-1]}
	counts, ok := e.counts[key]
	if !ok {
		counts = &[domain.NumMoves]float64{}
		e.counts[key] = counts
	}
	counts[actual]++
}

// PeriodicExpert scans the trailing window for the best-scoring cycle length
// via an autocorrelation-style match ratio. Below the confidence threshold it
// abstains with uniform; above it, most mass lands on the move that continues
// the detected cycle, with a small residual spread across all three moves so
// no move ever collapses to zero probability.
type PeriodicExpert struct {
	MinPeriod  int
	MaxPeriod  int
	Window     int
	Confidence float64
}

func (e *PeriodicExpert) Name() string { return "periodic" }

func (e *PeriodicExpert) Predict(ctx Context) Distribution {
	moves := ctx.PlayerMoves
	if len(moves) > e.Window {
		moves = moves[len(moves)-e.Window:]
	}
	if len(moves) < e.MinPeriod*2 {
		return Uniform()
	}

	bestPeriod := 0
	bestScore := 0.0
	for period := e.MinPeriod; period <= e.MaxPeriod; period++ {
		if len(moves) < period*2 {
			break
		}
		matches, total := 0, 0
		for i := period; i < len(moves); i++ {
			total++
			if moves[i] == moves[i-period] {
				matches++
			}
		}
		score := float64(matches) / float64(total)
		if score > bestScore {
			bestScore = score
			bestPeriod = period
		}
	}

	if bestPeriod == 0 || bestScore < e.Confidence {
		return Uniform()
	}

	guess := moves[len(moves)-bestPeriod]
	// 0.9 on the guess plus 0.05 residual everywhere deliberately sums past
	// one; Normalized keeps the shape the confidence thresholds were tuned on.
	var d Distribution
	for i := range d {
		d[i] = 0.05
	}
	d[guess] += 0.9
	return d.Normalized()
}

func (e *PeriodicExpert) Update(Context, domain.Move) {}

// BaitResponseExpert keys on the bot's own previous move, modeling players
// who react to what the opponent just played rather than to their own line.
type BaitResponseExpert struct {
	Alpha float64

	counts map[domain.Move]*[domain.NumMoves]float64
}

// NewBaitResponseExpert returns a bait-response expert.
func NewBaitResponseExpert(alpha float64) *BaitResponseExpert {
	return &BaitResponseExpert{
		Alpha:  alpha,
		counts: make(map[domain.Move]*[domain.NumMoves]float64),
	}
}

func (e *BaitResponseExpert) Name() string { return "bait_response" }

func (e *BaitResponseExpert) Predict(ctx Context) Distribution {
	n := len(ctx.BotMoves)
	if n == 0 {
		return Uniform()
	}
	counts, ok := e.counts[ctx.BotMoves[n-1]]
	if !ok {
		return Uniform()
	}
	return smoothed(*counts, e.Alpha)
}

func (e *BaitResponseExpert) Update(ctx Context, actual domain.Move) {
	n := len(ctx.BotMoves)
	if n == 0 {
		return
	}
	last := ctx.BotMoves[n-1]
	counts, ok := e.counts[last]
	if !ok {
		counts = &[domain.NumMoves]float64{}
		e.counts[last] = counts
	}
	counts[actual]++
}
