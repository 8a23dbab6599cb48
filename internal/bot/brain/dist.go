package brain

import "roshambo/internal/domain"

// Distribution assigns probability mass to each move, indexed by domain.Move.
type Distribution [domain.NumMoves]float64

// Uniform returns the maximum-entropy distribution.
func Uniform() Distribution {
	var d Distribution
	for i := range d {
		d[i] = 1.0 / domain.NumMoves
	}
	return d
}

// Sum returns the total mass.
func (d Distribution) Sum() float64 {
	total := 0.0
	for _, v := range d {
		total += v
	}
	return total
}

// Normalized scales the distribution to sum to 1. An all-zero (or negative)
// distribution normalizes to uniform rather than dividing by zero.
func (d Distribution) Normalized() Distribution {
	total := d.Sum()
	if total <= 0 {
		return Uniform()
	}
	var out Distribution
	for i, v := range d {
		out[i] = v / total
	}
	return out
}

// ArgMax returns the move with the highest mass. Ties resolve to the first
// listed move so test expectations stay stable.
func (d Distribution) ArgMax() domain.Move {
	best := domain.Move(0)
	for m := domain.Move(1); m < domain.NumMoves; m++ {
		if d[m] > d[best] {
			best = m
		}
	}
	return best
}

// Max returns the largest component.
func (d Distribution) Max() float64 {
	return d[d.ArgMax()]
}
