package brain

// Rand is a small xorshift generator. The engine never reaches for ambient
// randomness; every decision draws from an explicitly seeded Rand so a fixed
// seed and a fixed history always reproduce the same move.
type Rand struct {
	state uint64
}

// NewRand returns a generator seeded with the given value. A zero seed is
// replaced with a fixed non-zero constant since xorshift cannot leave the
// zero state. The seed passes through a splitmix64 finalizer before use:
// raw small seeds sit in a near-zero state and bias the first draws toward
// zero.
func NewRand(seed uint64) *Rand {
	if seed == 0 {
		seed = 0x9e3779b97f4a7c15
	}
	seed ^= seed >> 30
	seed *= 0xbf58476d1ce4e5b9
	seed ^= seed >> 27
	seed *= 0x94d049bb133111eb
	seed ^= seed >> 31
	return &Rand{state: seed}
}

func (r *Rand) next() uint32 {
	r.state ^= r.state << 13
	r.state ^= r.state >> 17
	r.state ^= r.state << 5
	return uint32(r.state)
}

// Float64 returns a value in [0, 1].
func (r *Rand) Float64() float64 {
	return float64(r.next()) / float64(^uint32(0))
}

// Intn returns a value in [0, n).
func (r *Rand) Intn(n int) int {
	return int(r.next() % uint32(n))
}
