package brain

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"roshambo/internal/domain"
)

// PolicyPath names which prediction path produced a decision.
type PolicyPath string

const (
	// PolicyEnsemble means the Hedge mixture produced the distribution.
	PolicyEnsemble PolicyPath = "ensemble"
	// PolicyFallback means the Markov+pattern heuristic produced the move.
	PolicyFallback PolicyPath = "fallback"
	// PolicyHeuristic means no signal was trusted and the move was random.
	PolicyHeuristic PolicyPath = "heuristic"
)

// topExperts is how many contributing experts a trace records.
const topExperts = 3

// Trace is the per-round explanation record. It is created pending at
// decision time with the predictive fields filled, completed with the
// post-hoc fields once the player's true move is known, and then handed to
// an external logger; the engine never retains it.
type Trace struct {
	ID    string `json:"id"`
	Round int    `json:"round"`

	Policy        PolicyPath   `json:"policy"`
	Move          domain.Move  `json:"move"`
	Distribution  Distribution `json:"distribution"`
	Confidence    float64      `json:"confidence"`
	Justification string       `json:"justification"`

	// Top contributing experts by mixture weight; empty on non-ensemble
	// rounds.
	Experts []ExpertStanding `json:"experts,omitempty"`

	// Post-hoc fields, zero-valued until Commit.
	PlayerMove domain.Move    `json:"player_move"`
	Outcome    domain.Outcome `json:"outcome"`
	Final      bool           `json:"final"`
}

// Engine orchestrates the mixer, the fallback predictor and the policy into
// the two-step decide/commit round protocol. It is not safe for concurrent
// use; a host serving one engine from multiple goroutines must hold an
// exclusive lock across the full decide+commit round, since weight updates
// do not commute with concurrent predictions.
type Engine struct {
	mixer   *Mixer
	tuning  Tuning
	pending *Trace
}

// NewEngine builds an engine with a fresh expert pool and uniform mixer
// weights.
func NewEngine(t Tuning) *Engine {
	experts := []Expert{
		&FrequencyExpert{Window: t.FrequencyWindow, Alpha: t.Alpha},
		&RecencyExpert{Gamma: t.RecencyGamma, Alpha: t.Alpha},
		NewMarkovExpert(1, t.Alpha),
		NewMarkovExpert(2, t.Alpha),
		NewOutcomeExpert(t.Alpha),
		NewWinStayLoseShiftExpert(t.Alpha),
		&PeriodicExpert{
			MinPeriod:  t.PeriodMin,
			MaxPeriod:  t.PeriodMax,
			Window:     t.PeriodWindow,
			Confidence: t.PeriodConfidence,
		},
		NewBaitResponseExpert(t.Alpha),
	}
	return &Engine{mixer: NewMixer(experts, t.Eta), tuning: t}
}

// Decide picks the bot's move for the next round and returns the pending
// decision trace. The ensemble is consulted only when exploit is set, the
// aggression is not fair, and enough history has accumulated; otherwise the
// fallback heuristic runs, degrading to a uniformly random move when its
// confidence is below the heuristic floor.
func (e *Engine) Decide(ctx Context, level Aggression, exploit bool) (domain.Move, *Trace) {
	trace := &Trace{
		ID:    uuid.New().String(),
		Round: ctx.Len(),
	}

	useEnsemble := exploit && level != AggressionFair && ctx.Len() >= e.tuning.MinHistory
	if useEnsemble {
		dist := e.mixer.Predict(ctx)
		trace.Policy = PolicyEnsemble
		trace.Distribution = dist
		trace.Confidence = dist.Max()
		trace.Move = ChooseCounter(dist, level, ctx.Rand, e.tuning)
		trace.Experts = topStandings(e.mixer.Snapshot(), topExperts)
		trace.Justification = ensembleJustification(trace.Experts, dist)
	} else {
		p := PredictNext(ctx.PlayerMoves, ctx.Rand)
		if !p.OK || p.Confidence < e.tuning.HeuristicFloor {
			trace.Policy = PolicyHeuristic
			trace.Move = domain.Move(ctx.Rand.Intn(domain.NumMoves))
			trace.Confidence = p.Confidence
			trace.Justification = "Low confidence – random choice"
		} else {
			trace.Policy = PolicyFallback
			trace.Confidence = p.Confidence
			trace.Justification = p.Reason
			if level == AggressionFair {
				// Fairness windows dilute even confident fallback reads.
				trace.Move = ChooseCounter(Uniform(), AggressionFair, ctx.Rand, e.tuning)
			} else {
				trace.Move = p.Move.Counter()
			}
		}
	}

	e.pending = trace
	return trace.Move, trace
}

// Commit closes the round opened by Decide: it advances the experts and the
// mixer weights against the revealed player move and finalizes the pending
// trace. The context must be the one Decide saw, still excluding the round
// being committed. Calling Commit without a pending decision is a host
// logic bug and panics.
func (e *Engine) Commit(ctx Context, actual domain.Move) *Trace {
	if e.pending == nil {
		panic("brain: Commit called without a pending Decide")
	}

	trace := e.pending
	e.pending = nil

	// Post-hoc expert accuracy before the weights move.
	for i := range trace.Experts {
		trace.Experts[i].MassOnActual = trace.Experts[i].Prediction[actual]
	}

	e.mixer.Update(ctx, actual)

	trace.PlayerMove = actual
	trace.Outcome = domain.Resolve(actual, trace.Move)
	trace.Final = true
	return trace
}

// Snapshot exposes the current expert standings for diagnostics.
func (e *Engine) Snapshot() []ExpertStanding {
	return e.mixer.Snapshot()
}

func topStandings(standings []ExpertStanding, n int) []ExpertStanding {
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Weight > standings[j].Weight
	})
	if len(standings) > n {
		standings = standings[:n]
	}
	return standings
}

func ensembleJustification(top []ExpertStanding, dist Distribution) string {
	expected := dist.ArgMax()
	if len(top) == 0 {
		return fmt.Sprintf("Ensemble expects %s", expected)
	}
	return fmt.Sprintf("Ensemble expects %s (%.0f%%), led by %s (weight %.2f)",
		expected, dist[expected]*100, top[0].Name, top[0].Weight)
}
