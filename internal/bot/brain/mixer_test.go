package brain

import (
	"math"
	"testing"

	"roshambo/internal/domain"
)

// stubExpert returns the same distribution on every round.
type stubExpert struct {
	name string
	dist Distribution
}

func (s *stubExpert) Name() string                 { return s.name }
func (s *stubExpert) Predict(Context) Distribution { return s.dist }
func (s *stubExpert) Update(Context, domain.Move)  {}

func TestMixerPredictIsNormalized(t *testing.T) {
	m := NewMixer([]Expert{
		&stubExpert{name: "a", dist: Distribution{0.8, 0.1, 0.1}},
		&stubExpert{name: "b", dist: Distribution{0.1, 0.8, 0.1}},
	}, 1.6)

	d := m.Predict(Context{})
	if math.Abs(d.Sum()-1.0) > 1e-9 {
		t.Fatalf("mixture sums to %f, want 1", d.Sum())
	}
	// Equal starting weights: the two stubs should cancel to near-symmetry.
	if math.Abs(d[domain.Rock]-d[domain.Paper]) > 1e-9 {
		t.Fatalf("p(rock)=%f p(paper)=%f, want equal under uniform weights", d[domain.Rock], d[domain.Paper])
	}
}

func TestMixerPunishesWrongExpert(t *testing.T) {
	right := &stubExpert{name: "right", dist: Distribution{0.8, 0.1, 0.1}}
	wrong := &stubExpert{name: "wrong", dist: Distribution{0.1, 0.1, 0.8}}
	m := NewMixer([]Expert{right, wrong}, 1.6)

	prevRight, prevWrong := 0.5, 0.5
	for round := 0; round < 10; round++ {
		m.Predict(Context{})
		m.Update(Context{}, domain.Rock)

		snap := m.Snapshot()
		if snap[0].Name != "right" || snap[1].Name != "wrong" {
			t.Fatalf("snapshot order changed: %q, %q", snap[0].Name, snap[1].Name)
		}
		if snap[0].Weight <= prevRight {
			t.Fatalf("round %d: accurate expert share %f did not grow from %f", round, snap[0].Weight, prevRight)
		}
		if snap[1].Weight >= prevWrong {
			t.Fatalf("round %d: inaccurate expert share %f did not shrink from %f", round, snap[1].Weight, prevWrong)
		}
		prevRight, prevWrong = snap[0].Weight, snap[1].Weight
	}

	if prevRight < 0.99 {
		t.Fatalf("after 10 one-sided rounds accurate expert holds %f of the mass, want > 0.99", prevRight)
	}

	// The mixture itself should now follow the accurate expert.
	d := m.Predict(Context{})
	if d.ArgMax() != domain.Rock {
		t.Fatalf("mixture argmax = %v, want rock", d.ArgMax())
	}
}

func TestMixerUpdateWithoutPredict(t *testing.T) {
	// Fallback rounds never call Predict; Update must still move weights.
	right := &stubExpert{name: "right", dist: Distribution{0.9, 0.05, 0.05}}
	wrong := &stubExpert{name: "wrong", dist: Distribution{0.05, 0.05, 0.9}}
	m := NewMixer([]Expert{right, wrong}, 1.6)

	m.Update(Context{}, domain.Rock)

	snap := m.Snapshot()
	if snap[0].Weight <= snap[1].Weight {
		t.Fatalf("accurate expert share %f should exceed inaccurate %f", snap[0].Weight, snap[1].Weight)
	}
}

func TestMixerSnapshotSharesSumToOne(t *testing.T) {
	m := NewMixer([]Expert{
		&stubExpert{name: "a", dist: Uniform()},
		&stubExpert{name: "b", dist: Uniform()},
		&stubExpert{name: "c", dist: Uniform()},
	}, 1.6)
	for i := 0; i < 5; i++ {
		m.Predict(Context{})
		m.Update(Context{}, domain.Move(i%3))
	}

	total := 0.0
	for _, s := range m.Snapshot() {
		total += s.Weight
	}
	if math.Abs(total-1.0) > 1e-9 {
		t.Fatalf("snapshot shares sum to %f, want 1", total)
	}
}
